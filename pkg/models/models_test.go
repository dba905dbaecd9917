package models

import (
	"bytes"
	"testing"

	bin "github.com/gagliardetto/binary"
	"github.com/gagliardetto/solana-go"
)

func TestProposalStateString(t *testing.T) {
	cases := map[ProposalState]string{
		ProposalStatePending: "pending",
		ProposalStatePassed:  "passed",
		ProposalStateFailed:  "failed",
		ProposalState(9):     "unknown",
	}
	for state, want := range cases {
		if got := state.String(); got != want {
			t.Fatalf("state %d: expected %q, got %q", uint8(state), want, got)
		}
	}
}

func TestUpdateDaoParamsBorshLayout(t *testing.T) {
	threshold := uint64(300)
	decimals := uint8(6)
	params := UpdateDaoParams{PassThresholdBps: &threshold, AmmLtwapDecimals: &decimals}

	var buf bytes.Buffer
	if err := bin.NewBorshEncoder(&buf).Encode(params); err != nil {
		t.Fatalf("encode: %v", err)
	}
	want := []byte{
		1, 0x2c, 0x01, 0, 0, 0, 0, 0, 0, // Some(300)
		0, 0, 0, // three None
		1, 6, // Some(6)
	}
	if !bytes.Equal(buf.Bytes(), want) {
		t.Fatalf("unexpected layout:\n got %v\nwant %v", buf.Bytes(), want)
	}

	var decoded UpdateDaoParams
	if err := bin.NewBorshDecoder(buf.Bytes()).Decode(&decoded); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if decoded.PassThresholdBps == nil || *decoded.PassThresholdBps != threshold {
		t.Fatalf("pass threshold not restored: %+v", decoded)
	}
	if decoded.SlotsPerProposal != nil || decoded.AmmSwapFeeBps != nil {
		t.Fatalf("unset fields must stay nil: %+v", decoded)
	}
	if decoded.AmmLtwapDecimals == nil || *decoded.AmmLtwapDecimals != decimals {
		t.Fatalf("ltwap decimals not restored: %+v", decoded)
	}
}

func TestUpdateDaoParamsIsEmpty(t *testing.T) {
	if !(UpdateDaoParams{}).IsEmpty() {
		t.Fatal("zero params must be empty")
	}
	fee := uint64(50)
	if (UpdateDaoParams{AmmSwapFeeBps: &fee}).IsEmpty() {
		t.Fatal("params with a fee must not be empty")
	}
}

func TestNewProposalInstruction(t *testing.T) {
	from := solana.NewWallet().PublicKey()
	to := solana.NewWallet().PublicKey()
	ix := solana.NewInstruction(solana.SystemProgramID, solana.AccountMetaSlice{
		solana.Meta(from).WRITE().SIGNER(),
		solana.Meta(to).WRITE(),
	}, []byte{2, 0, 0, 0, 1, 0, 0, 0, 0, 0, 0, 0})

	got, err := NewProposalInstruction(ix)
	if err != nil {
		t.Fatalf("capture instruction: %v", err)
	}
	if !got.ProgramID.Equals(solana.SystemProgramID) {
		t.Fatalf("unexpected program id %s", got.ProgramID)
	}
	if len(got.Accounts) != 2 || !got.Accounts[0].IsSigner || got.Accounts[1].IsSigner || !got.Accounts[1].IsWritable {
		t.Fatalf("unexpected accounts %+v", got.Accounts)
	}
	if !bytes.Equal(got.Data, []byte{2, 0, 0, 0, 1, 0, 0, 0, 0, 0, 0, 0}) {
		t.Fatalf("unexpected data %v", got.Data)
	}
}

func TestProposalInstructionsBorshRoundTrip(t *testing.T) {
	want := ProposalInstructions{
		Proposer: solana.NewWallet().PublicKey(),
		Instructions: []ProposalInstruction{{
			ProgramID: solana.TokenProgramID,
			Accounts:  []ProposalAccount{{Pubkey: solana.NewWallet().PublicKey(), IsWritable: true}},
			Data:      []byte{9, 8, 7},
		}},
	}
	raw, err := bin.MarshalBorsh(want)
	if err != nil {
		t.Fatalf("encode: %v", err)
	}
	// proposer + frozen + vec len + program id + vec len + account + data len + data
	if wantLen := 32 + 1 + 4 + 32 + 4 + 34 + 4 + 3; len(raw) != wantLen {
		t.Fatalf("expected %d bytes, got %d", wantLen, len(raw))
	}
	var got ProposalInstructions
	if err := bin.UnmarshalBorsh(&got, raw); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if got.Proposer != want.Proposer || len(got.Instructions) != 1 || !bytes.Equal(got.Instructions[0].Data, want.Instructions[0].Data) {
		t.Fatalf("round trip mismatch: %+v", got)
	}
}
