package anchor

import (
	"bytes"
	"context"
	"fmt"

	bin "github.com/gagliardetto/binary"
	"github.com/gagliardetto/solana-go"

	"autocrat/go-client/pkg/provider"
)

// Accounts maps IDL account names to addresses for a single instruction.
type Accounts map[string]solana.PublicKey

// Program is an IDL bound to a program address and a provider.
type Program struct {
	idl       *IDL
	programID solana.PublicKey
	provider  *provider.Provider
}

func NewProgram(idl *IDL, programID solana.PublicKey, p *provider.Provider) *Program {
	return &Program{idl: idl, programID: programID, provider: p}
}

func (p *Program) ID() solana.PublicKey { return p.programID }

func (p *Program) IDL() *IDL { return p.idl }

func (p *Program) Provider() *provider.Provider { return p.provider }

// Instruction builds the named instruction. Accounts are laid out in IDL
// order with IDL flags; accounts with a fixed IDL address may be omitted and
// omitted optional accounts are replaced by the program id. args is borsh
// encoded after the discriminator. remaining is appended verbatim.
func (p *Program) Instruction(name string, accounts Accounts, args any, remaining ...*solana.AccountMeta) (solana.Instruction, error) {
	def, err := p.idl.Instruction(name)
	if err != nil {
		return nil, err
	}

	metas := make(solana.AccountMetaSlice, 0, len(def.Accounts)+len(remaining))
	for _, ref := range def.Accounts {
		key, ok := accounts[ref.Name]
		switch {
		case ok:
			metas = append(metas, solana.NewAccountMeta(key, ref.Writable, ref.Signer))
		case ref.Address != "":
			fixed, err := solana.PublicKeyFromBase58(ref.Address)
			if err != nil {
				return nil, fmt.Errorf("%w: %s.%s address: %w", ErrInvalidIDL, name, ref.Name, err)
			}
			metas = append(metas, solana.NewAccountMeta(fixed, ref.Writable, ref.Signer))
		case ref.Optional:
			metas = append(metas, solana.NewAccountMeta(p.programID, false, false))
		default:
			return nil, fmt.Errorf("%w: %s.%s", ErrMissingAccount, name, ref.Name)
		}
	}
	metas = append(metas, remaining...)

	data, err := encodeInstructionData(def, args)
	if err != nil {
		return nil, err
	}
	return solana.NewInstruction(p.programID, metas, data), nil
}

func encodeInstructionData(def *IDLInstruction, args any) ([]byte, error) {
	buf := bytes.NewBuffer(make([]byte, 0, 64))
	buf.Write(def.Discriminator[:])
	if len(def.Args) == 0 {
		return buf.Bytes(), nil
	}
	if args == nil {
		return nil, fmt.Errorf("%w: %s", ErrMissingArgs, def.Name)
	}
	if err := bin.NewBorshEncoder(buf).Encode(args); err != nil {
		return nil, fmt.Errorf("encode %s args: %w", def.Name, err)
	}
	return buf.Bytes(), nil
}

// DecodeAccount checks the account discriminator of data and borsh decodes
// the remainder into dst.
func (p *Program) DecodeAccount(name string, data []byte, dst any) error {
	def, err := p.idl.Account(name)
	if err != nil {
		return err
	}
	if len(data) < len(def.Discriminator) || !bytes.Equal(data[:len(def.Discriminator)], def.Discriminator[:]) {
		return fmt.Errorf("%w: expected %s", ErrAccountDiscriminator, name)
	}
	if err := bin.NewBorshDecoder(data[len(def.Discriminator):]).Decode(dst); err != nil {
		return fmt.Errorf("decode %s: %w", name, err)
	}
	return nil
}

// EncodeAccount is the inverse of DecodeAccount.
func (p *Program) EncodeAccount(name string, v any) ([]byte, error) {
	def, err := p.idl.Account(name)
	if err != nil {
		return nil, err
	}
	buf := bytes.NewBuffer(append([]byte(nil), def.Discriminator[:]...))
	if err := bin.NewBorshEncoder(buf).Encode(v); err != nil {
		return nil, fmt.Errorf("encode %s: %w", name, err)
	}
	return buf.Bytes(), nil
}

// FetchAccount reads address through the provider and decodes it as name.
func (p *Program) FetchAccount(ctx context.Context, name string, address solana.PublicKey, dst any) error {
	data, err := p.provider.GetAccountData(ctx, address)
	if err != nil {
		return fmt.Errorf("fetch %s %s: %w", name, address, err)
	}
	if err := p.DecodeAccount(name, data, dst); err != nil {
		return fmt.Errorf("%s: %w", address, err)
	}
	return nil
}
