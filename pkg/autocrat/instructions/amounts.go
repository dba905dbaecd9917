package instructions

import (
	"errors"
	"fmt"
	"math/big"

	bin "github.com/gagliardetto/binary"
)

var ErrAmountOutOfRange = errors.New("amount out of range")

var maxUint64 = new(big.Int).SetUint64(^uint64(0))

func toU64(name string, v *big.Int) (uint64, error) {
	if v == nil || v.Sign() < 0 || !v.IsUint64() {
		return 0, fmt.Errorf("%w: %s=%v does not fit u64", ErrAmountOutOfRange, name, v)
	}
	return v.Uint64(), nil
}

func toU128(name string, v *big.Int) (bin.Uint128, error) {
	if v == nil || v.Sign() < 0 || v.BitLen() > 128 {
		return bin.Uint128{}, fmt.Errorf("%w: %s=%v does not fit u128", ErrAmountOutOfRange, name, v)
	}
	return bin.Uint128{
		Lo:         new(big.Int).And(v, maxUint64).Uint64(),
		Hi:         new(big.Int).Rsh(v, 64).Uint64(),
		Endianness: bin.LE,
	}, nil
}
