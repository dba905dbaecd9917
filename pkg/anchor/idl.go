// Package anchor binds an Anchor IDL to a deployed program so callers can
// build instructions and decode accounts by name.
package anchor

import (
	"crypto/sha256"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
)

var (
	ErrInvalidIDL           = errors.New("invalid idl")
	ErrUnknownInstruction   = errors.New("unknown instruction")
	ErrUnknownAccount       = errors.New("unknown account type")
	ErrMissingAccount       = errors.New("missing instruction account")
	ErrMissingArgs          = errors.New("missing instruction args")
	ErrAccountDiscriminator = errors.New("account discriminator mismatch")
)

type Discriminator [8]byte

// IDL is the subset of the Anchor (>= 0.30) IDL format used by this package.
type IDL struct {
	Address      string           `json:"address"`
	Metadata     IDLMetadata      `json:"metadata"`
	Instructions []IDLInstruction `json:"instructions"`
	Accounts     []IDLAccountType `json:"accounts"`

	instructions map[string]*IDLInstruction
	accounts     map[string]*IDLAccountType
}

type IDLMetadata struct {
	Name    string `json:"name"`
	Version string `json:"version"`
	Spec    string `json:"spec"`
}

type IDLInstruction struct {
	Name          string          `json:"name"`
	Discriminator Discriminator   `json:"discriminator"`
	Accounts      []IDLAccountRef `json:"accounts"`
	Args          []IDLField      `json:"args"`
}

// IDLAccountRef is one position in an instruction's account list.
type IDLAccountRef struct {
	Name     string `json:"name"`
	Writable bool   `json:"writable,omitempty"`
	Signer   bool   `json:"signer,omitempty"`
	Optional bool   `json:"optional,omitempty"`
	Address  string `json:"address,omitempty"`
}

type IDLField struct {
	Name string          `json:"name"`
	Type json.RawMessage `json:"type"`
}

type IDLAccountType struct {
	Name          string        `json:"name"`
	Discriminator Discriminator `json:"discriminator"`
}

// ParseIDL decodes and indexes an IDL document. Discriminators that are
// absent from the document are derived from the item names.
func ParseIDL(data []byte) (*IDL, error) {
	var idl IDL
	if err := json.Unmarshal(data, &idl); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidIDL, err)
	}
	if idl.Metadata.Name == "" {
		return nil, fmt.Errorf("%w: missing metadata.name", ErrInvalidIDL)
	}

	idl.instructions = make(map[string]*IDLInstruction, len(idl.Instructions))
	for i := range idl.Instructions {
		ix := &idl.Instructions[i]
		if _, dup := idl.instructions[ix.Name]; dup {
			return nil, fmt.Errorf("%w: duplicate instruction %q", ErrInvalidIDL, ix.Name)
		}
		if ix.Discriminator == (Discriminator{}) {
			ix.Discriminator = InstructionDiscriminator(ix.Name)
		}
		seen := make(map[string]struct{}, len(ix.Accounts))
		for _, acc := range ix.Accounts {
			if _, dup := seen[acc.Name]; dup {
				return nil, fmt.Errorf("%w: %s: duplicate account %q", ErrInvalidIDL, ix.Name, acc.Name)
			}
			seen[acc.Name] = struct{}{}
		}
		idl.instructions[ix.Name] = ix
	}

	idl.accounts = make(map[string]*IDLAccountType, len(idl.Accounts))
	for i := range idl.Accounts {
		acc := &idl.Accounts[i]
		if acc.Discriminator == (Discriminator{}) {
			acc.Discriminator = AccountDiscriminator(acc.Name)
		}
		idl.accounts[acc.Name] = acc
	}
	return &idl, nil
}

// Name returns the program name from the IDL metadata.
func (idl *IDL) Name() string { return idl.Metadata.Name }

func (idl *IDL) Instruction(name string) (*IDLInstruction, error) {
	ix, ok := idl.instructions[name]
	if !ok {
		return nil, fmt.Errorf("%w: %s.%s", ErrUnknownInstruction, idl.Metadata.Name, name)
	}
	return ix, nil
}

func (idl *IDL) Account(name string) (*IDLAccountType, error) {
	acc, ok := idl.accounts[name]
	if !ok {
		return nil, fmt.Errorf("%w: %s.%s", ErrUnknownAccount, idl.Metadata.Name, name)
	}
	return acc, nil
}

// InstructionDiscriminator returns the first 8 bytes of sha256("global:<name>").
func InstructionDiscriminator(name string) Discriminator {
	return discriminator("global:" + toSnakeCase(name))
}

// AccountDiscriminator returns the first 8 bytes of sha256("account:<Name>").
func AccountDiscriminator(name string) Discriminator {
	return discriminator("account:" + name)
}

func discriminator(preimage string) Discriminator {
	sum := sha256.Sum256([]byte(preimage))
	var d Discriminator
	copy(d[:], sum[:8])
	return d
}

// toSnakeCase accepts both update_ltwap and updateLtwap.
func toSnakeCase(name string) string {
	var b strings.Builder
	for i, r := range name {
		if r >= 'A' && r <= 'Z' {
			if i > 0 {
				b.WriteByte('_')
			}
			r += 'a' - 'A'
		}
		b.WriteRune(r)
	}
	return b.String()
}
