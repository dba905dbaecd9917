package provider

import (
	"context"
	"encoding/binary"
	"errors"
	"fmt"
	"math"

	"github.com/gagliardetto/solana-go"
)

var AddressLookupTableProgramID = solana.MustPublicKeyFromBase58("AddressLookupTab1e1111111111111111111111111")

const (
	lookupTableMetaSize  = 56
	lookupTableTypeIndex = 1
)

// LookupTableState is the decoded content of an address lookup table account.
type LookupTableState struct {
	DeactivationSlot           uint64
	LastExtendedSlot           uint64
	LastExtendedSlotStartIndex uint8
	Authority                  *solana.PublicKey
	Addresses                  solana.PublicKeySlice
}

// IsActive reports whether the table has not been deactivated.
func (s *LookupTableState) IsActive() bool {
	return s.DeactivationSlot == math.MaxUint64
}

// LookupTable pairs a table address with its resolved state.
type LookupTable struct {
	Key   solana.PublicKey
	State LookupTableState
}

// GetAddressLookupTable reads and decodes the lookup table at address.
func (p *Provider) GetAddressLookupTable(ctx context.Context, address solana.PublicKey) (*LookupTable, error) {
	info, err := p.getAccountInfo(ctx, address)
	if errors.Is(err, ErrAccountNotFound) {
		return nil, fmt.Errorf("%w: %s", ErrLookupTableNotFound, address)
	}
	if err != nil {
		return nil, err
	}
	if !info.Owner.Equals(AddressLookupTableProgramID) {
		return nil, fmt.Errorf("%w: %s is owned by %s", ErrInvalidLookupTable, address, info.Owner)
	}
	var data []byte
	if info.Data != nil {
		data = info.Data.GetBinary()
	}
	state, err := DecodeLookupTableState(data)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", address, err)
	}
	return &LookupTable{Key: address, State: *state}, nil
}

// DecodeLookupTableState decodes the address lookup table program's account layout.
func DecodeLookupTableState(data []byte) (*LookupTableState, error) {
	if len(data) < lookupTableMetaSize {
		return nil, fmt.Errorf("%w: %d bytes", ErrInvalidLookupTable, len(data))
	}
	if binary.LittleEndian.Uint32(data[0:4]) != lookupTableTypeIndex {
		return nil, fmt.Errorf("%w: uninitialized", ErrInvalidLookupTable)
	}
	if (len(data)-lookupTableMetaSize)%solana.PublicKeyLength != 0 {
		return nil, fmt.Errorf("%w: misaligned address list", ErrInvalidLookupTable)
	}

	state := &LookupTableState{
		DeactivationSlot:           binary.LittleEndian.Uint64(data[4:12]),
		LastExtendedSlot:           binary.LittleEndian.Uint64(data[12:20]),
		LastExtendedSlotStartIndex: data[20],
	}
	if data[21] == 1 {
		authority := solana.PublicKeyFromBytes(data[22:54])
		state.Authority = &authority
	}

	raw := data[lookupTableMetaSize:]
	state.Addresses = make(solana.PublicKeySlice, 0, len(raw)/solana.PublicKeyLength)
	for offset := 0; offset < len(raw); offset += solana.PublicKeyLength {
		state.Addresses = append(state.Addresses, solana.PublicKeyFromBytes(raw[offset:offset+solana.PublicKeyLength]))
	}
	return state, nil
}

// EncodeLookupTableState is the inverse of DecodeLookupTableState.
func EncodeLookupTableState(state LookupTableState) []byte {
	data := make([]byte, lookupTableMetaSize+len(state.Addresses)*solana.PublicKeyLength)
	binary.LittleEndian.PutUint32(data[0:4], lookupTableTypeIndex)
	binary.LittleEndian.PutUint64(data[4:12], state.DeactivationSlot)
	binary.LittleEndian.PutUint64(data[12:20], state.LastExtendedSlot)
	data[20] = state.LastExtendedSlotStartIndex
	if state.Authority != nil {
		data[21] = 1
		copy(data[22:54], state.Authority[:])
	}
	for i, addr := range state.Addresses {
		copy(data[lookupTableMetaSize+i*solana.PublicKeyLength:], addr[:])
	}
	return data
}

func addressTables(luts []LookupTable) map[solana.PublicKey]solana.PublicKeySlice {
	if len(luts) == 0 {
		return nil
	}
	out := make(map[solana.PublicKey]solana.PublicKeySlice, len(luts))
	for _, lut := range luts {
		out[lut.Key] = lut.State.Addresses
	}
	return out
}
