package models

import (
	"github.com/gagliardetto/solana-go"
)

type Amm struct {
	Permissioned                 bool             `json:"permissioned"`
	AuthProgram                  solana.PublicKey `json:"authProgram"`
	AuthPdaBump                  uint8            `json:"authPdaBump"`
	ConditionalBaseMint          solana.PublicKey `json:"conditionalBaseMint"`
	ConditionalQuoteMint         solana.PublicKey `json:"conditionalQuoteMint"`
	ConditionalBaseMintDecimals  uint8            `json:"conditionalBaseMintDecimals"`
	ConditionalQuoteMintDecimals uint8            `json:"conditionalQuoteMintDecimals"`
	BaseAmount                   uint64           `json:"baseAmount"`
	QuoteAmount                  uint64           `json:"quoteAmount"`
	TotalOwnership               uint64           `json:"totalOwnership"`
	SwapFeeBps                   uint64           `json:"swapFeeBps"`
	LtwapDecimals                uint8            `json:"ltwapDecimals"`
	LtwapSlotUpdated             uint64           `json:"ltwapSlotUpdated"`
	LtwapLatest                  uint64           `json:"ltwapLatest"`
}

type AmmPosition struct {
	User      solana.PublicKey `json:"user"`
	Amm       solana.PublicKey `json:"amm"`
	Ownership uint64           `json:"ownership"`
}
