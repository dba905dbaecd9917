// Package models holds the on-chain account and argument layouts of the
// Autocrat and AMM programs in their borsh wire form.
package models

import (
	bin "github.com/gagliardetto/binary"
	"github.com/gagliardetto/solana-go"
)

type Dao struct {
	MetaMint                       solana.PublicKey `json:"metaMint"`
	UsdcMint                       solana.PublicKey `json:"usdcMint"`
	TreasuryPdaBump                uint8            `json:"treasuryPdaBump"`
	Treasury                       solana.PublicKey `json:"treasury"`
	ProposalCount                  uint64           `json:"proposalCount"`
	PassThresholdBps               uint64           `json:"passThresholdBps"`
	SlotsPerProposal               uint64           `json:"slotsPerProposal"`
	AmmInitialQuoteLiquidityAmount uint64           `json:"ammInitialQuoteLiquidityAmount"`
	AmmSwapFeeBps                  uint64           `json:"ammSwapFeeBps"`
	AmmLtwapDecimals               uint8            `json:"ammLtwapDecimals"`
}

// UpdateDaoParams changes only the fields that are set.
type UpdateDaoParams struct {
	PassThresholdBps               *uint64 `json:"passThresholdBps,omitempty" yaml:"pass_threshold_bps"`
	SlotsPerProposal               *uint64 `json:"slotsPerProposal,omitempty" yaml:"slots_per_proposal"`
	AmmInitialQuoteLiquidityAmount *uint64 `json:"ammInitialQuoteLiquidityAmount,omitempty" yaml:"amm_initial_quote_liquidity_amount"`
	AmmSwapFeeBps                  *uint64 `json:"ammSwapFeeBps,omitempty" yaml:"amm_swap_fee_bps"`
	AmmLtwapDecimals               *uint8  `json:"ammLtwapDecimals,omitempty" yaml:"amm_ltwap_decimals"`
}

func (p UpdateDaoParams) MarshalWithEncoder(enc *bin.Encoder) error {
	for _, v := range []*uint64{p.PassThresholdBps, p.SlotsPerProposal, p.AmmInitialQuoteLiquidityAmount, p.AmmSwapFeeBps} {
		if err := writeOptionUint64(enc, v); err != nil {
			return err
		}
	}
	if err := enc.WriteOption(p.AmmLtwapDecimals != nil); err != nil {
		return err
	}
	if p.AmmLtwapDecimals != nil {
		return enc.WriteUint8(*p.AmmLtwapDecimals)
	}
	return nil
}

func (p *UpdateDaoParams) UnmarshalWithDecoder(dec *bin.Decoder) error {
	for _, dst := range []**uint64{&p.PassThresholdBps, &p.SlotsPerProposal, &p.AmmInitialQuoteLiquidityAmount, &p.AmmSwapFeeBps} {
		v, err := readOptionUint64(dec)
		if err != nil {
			return err
		}
		*dst = v
	}
	ok, err := dec.ReadOption()
	if err != nil || !ok {
		p.AmmLtwapDecimals = nil
		return err
	}
	v, err := dec.ReadUint8()
	if err != nil {
		return err
	}
	p.AmmLtwapDecimals = &v
	return nil
}

// IsEmpty reports whether no field would be changed.
func (p UpdateDaoParams) IsEmpty() bool {
	return p.PassThresholdBps == nil && p.SlotsPerProposal == nil &&
		p.AmmInitialQuoteLiquidityAmount == nil && p.AmmSwapFeeBps == nil && p.AmmLtwapDecimals == nil
}

func writeOptionUint64(enc *bin.Encoder, v *uint64) error {
	if err := enc.WriteOption(v != nil); err != nil {
		return err
	}
	if v == nil {
		return nil
	}
	return enc.WriteUint64(*v, bin.LE)
}

func readOptionUint64(dec *bin.Decoder) (*uint64, error) {
	ok, err := dec.ReadOption()
	if err != nil || !ok {
		return nil, err
	}
	v, err := dec.ReadUint64(bin.LE)
	if err != nil {
		return nil, err
	}
	return &v, nil
}
