// Package idl embeds the interface descriptions of the Autocrat and AMM
// programs.
package idl

import (
	_ "embed"
	"fmt"
	"sync"

	"autocrat/go-client/pkg/anchor"
)

var (
	//go:embed autocrat.json
	autocratJSON []byte
	//go:embed amm.json
	ammJSON []byte
)

var (
	autocratOnce sync.Once
	autocratIDL  *anchor.IDL
	ammOnce      sync.Once
	ammIDL       *anchor.IDL
)

// Autocrat returns the parsed Autocrat IDL. The document is compiled in, so
// a parse failure is a build defect and panics.
func Autocrat() *anchor.IDL {
	autocratOnce.Do(func() { autocratIDL = mustParse("autocrat.json", autocratJSON) })
	return autocratIDL
}

// Amm returns the parsed AMM IDL.
func Amm() *anchor.IDL {
	ammOnce.Do(func() { ammIDL = mustParse("amm.json", ammJSON) })
	return ammIDL
}

func mustParse(name string, data []byte) *anchor.IDL {
	parsed, err := anchor.ParseIDL(data)
	if err != nil {
		panic(fmt.Sprintf("idl: embedded %s: %v", name, err))
	}
	return parsed
}
