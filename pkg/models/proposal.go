package models

import (
	"github.com/gagliardetto/solana-go"
)

type ProposalState uint8

const (
	ProposalStatePending ProposalState = iota
	ProposalStatePassed
	ProposalStateFailed
)

func (s ProposalState) String() string {
	switch s {
	case ProposalStatePending:
		return "pending"
	case ProposalStatePassed:
		return "passed"
	case ProposalStateFailed:
		return "failed"
	default:
		return "unknown"
	}
}

type Proposal struct {
	Number                    uint64           `json:"number"`
	Proposer                  solana.PublicKey `json:"proposer"`
	DescriptionURL            string           `json:"descriptionUrl"`
	SlotEnqueued              uint64           `json:"slotEnqueued"`
	State                     ProposalState    `json:"state"`
	Instructions              solana.PublicKey `json:"instructions"`
	PassMarketAmm             solana.PublicKey `json:"passMarketAmm"`
	FailMarketAmm             solana.PublicKey `json:"failMarketAmm"`
	ConditionalOnPassMetaMint solana.PublicKey `json:"conditionalOnPassMetaMint"`
	ConditionalOnPassUsdcMint solana.PublicKey `json:"conditionalOnPassUsdcMint"`
	ConditionalOnFailMetaMint solana.PublicKey `json:"conditionalOnFailMetaMint"`
	ConditionalOnFailUsdcMint solana.PublicKey `json:"conditionalOnFailUsdcMint"`
}

// ProposalInstructions is the account holding the instructions a proposal
// executes when it passes.
type ProposalInstructions struct {
	Proposer     solana.PublicKey      `json:"proposer"`
	Frozen       bool                  `json:"frozen"`
	Instructions []ProposalInstruction `json:"instructions"`
}

type ProposalInstruction struct {
	ProgramID solana.PublicKey  `json:"programId"`
	Accounts  []ProposalAccount `json:"accounts"`
	Data      []byte            `json:"data"`
}

type ProposalAccount struct {
	Pubkey     solana.PublicKey `json:"pubkey"`
	IsSigner   bool             `json:"isSigner"`
	IsWritable bool             `json:"isWritable"`
}

// NewProposalInstruction captures a built instruction so it can be stored
// in a proposal.
func NewProposalInstruction(ix solana.Instruction) (ProposalInstruction, error) {
	data, err := ix.Data()
	if err != nil {
		return ProposalInstruction{}, err
	}
	metas := ix.Accounts()
	accounts := make([]ProposalAccount, 0, len(metas))
	for _, m := range metas {
		accounts = append(accounts, ProposalAccount{Pubkey: m.PublicKey, IsSigner: m.IsSigner, IsWritable: m.IsWritable})
	}
	return ProposalInstruction{ProgramID: ix.ProgramID(), Accounts: accounts, Data: data}, nil
}
