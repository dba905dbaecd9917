package keystore

import (
	"crypto/ed25519"
	"crypto/hmac"
	"crypto/sha512"
	"encoding/binary"
	"errors"
	"strings"

	"github.com/gagliardetto/solana-go"
	"github.com/tyler-smith/go-bip39"
)

var ErrInvalidMnemonic = errors.New("invalid mnemonic")

const hardenedOffset = 0x80000000

// NewMnemonic returns a fresh 24-word mnemonic.
func NewMnemonic() (string, error) {
	entropy, err := bip39.NewEntropy(256)
	if err != nil {
		return "", err
	}
	return bip39.NewMnemonic(entropy)
}

// KeypairFromMnemonic derives the keypair wallets use for account index
// account: m/44'/501'/account'/0'.
func KeypairFromMnemonic(mnemonic, passphrase string, account uint32) (solana.PrivateKey, error) {
	mnemonic = strings.Join(strings.Fields(mnemonic), " ")
	if !bip39.IsMnemonicValid(mnemonic) {
		return nil, ErrInvalidMnemonic
	}
	seed := bip39.NewSeed(mnemonic, passphrase)
	defer zeroBytes(seed)

	key := deriveEd25519(seed, []uint32{44, 501, account, 0})
	defer zeroBytes(key)
	return solana.PrivateKey(ed25519.NewKeyFromSeed(key)), nil
}

// deriveEd25519 walks a SLIP-0010 ed25519 path. Every index is hardened.
func deriveEd25519(seed []byte, path []uint32) []byte {
	key, chain := split(hmacSHA512([]byte("ed25519 seed"), seed))
	for _, index := range path {
		var data [37]byte
		copy(data[1:33], key)
		binary.BigEndian.PutUint32(data[33:], index|hardenedOffset)
		zeroBytes(key)
		key, chain = split(hmacSHA512(chain, data[:]))
	}
	return key
}

func hmacSHA512(key, data []byte) []byte {
	mac := hmac.New(sha512.New, key)
	mac.Write(data)
	return mac.Sum(nil)
}

func split(sum []byte) ([]byte, []byte) {
	return sum[:32], sum[32:]
}
