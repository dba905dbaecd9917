package keystore

import (
	"bytes"
	"crypto/ed25519"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/gagliardetto/solana-go"
	"github.com/mr-tron/base58"
)

var (
	ErrInvalidKeypair     = errors.New("invalid keypair")
	ErrPassphraseRequired = errors.New("keyfile is encrypted; passphrase required")
)

// LoadKeypair reads a keypair file in any supported format. passphrase is
// only used for encrypted keyfiles.
func LoadKeypair(path, passphrase string) (solana.PrivateKey, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	key, err := ParseKeypair(data, passphrase)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return key, nil
}

// ParseKeypair accepts a solana-keygen JSON byte array, a base58 secret key
// or an encrypted keyfile.
func ParseKeypair(data []byte, passphrase string) (solana.PrivateKey, error) {
	if IsSealed(data) {
		if passphrase == "" {
			return nil, ErrPassphraseRequired
		}
		plain, err := Open(passphrase, data)
		if err != nil {
			return nil, err
		}
		defer zeroBytes(plain)
		return fromSecret(plain)
	}

	trimmed := bytes.TrimSpace(data)
	if len(trimmed) > 0 && trimmed[0] == '[' {
		var ints []int
		if err := json.Unmarshal(trimmed, &ints); err != nil {
			return nil, fmt.Errorf("%w: %w", ErrInvalidKeypair, err)
		}
		secret := make([]byte, len(ints))
		for i, v := range ints {
			if v < 0 || v > 255 {
				return nil, fmt.Errorf("%w: byte %d out of range", ErrInvalidKeypair, i)
			}
			secret[i] = byte(v)
		}
		return fromSecret(secret)
	}

	secret, err := base58.Decode(string(trimmed))
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidKeypair, err)
	}
	return fromSecret(secret)
}

// fromSecret validates that the public half matches the seed.
func fromSecret(secret []byte) (solana.PrivateKey, error) {
	if len(secret) != ed25519.PrivateKeySize {
		return nil, fmt.Errorf("%w: %d bytes", ErrInvalidKeypair, len(secret))
	}
	derived := ed25519.NewKeyFromSeed(secret[:ed25519.SeedSize])
	if !bytes.Equal(derived, secret) {
		return nil, fmt.Errorf("%w: public key does not match secret", ErrInvalidKeypair)
	}
	return solana.PrivateKey(derived), nil
}

// WriteKeygenFile writes key as a solana-keygen compatible JSON array.
func WriteKeygenFile(path string, key solana.PrivateKey) error {
	ints := make([]int, len(key))
	for i, b := range key {
		ints[i] = int(b)
	}
	raw, err := json.Marshal(ints)
	if err != nil {
		return err
	}
	return writePrivate(path, raw)
}

// WriteEncryptedKeypair seals key under passphrase.
func WriteEncryptedKeypair(path, passphrase string, key solana.PrivateKey) error {
	if passphrase == "" {
		return ErrPassphraseRequired
	}
	sealed, err := Seal(passphrase, key)
	if err != nil {
		return err
	}
	return writePrivate(path, sealed)
}

// EncodeBase58 returns key in the form wallets import.
func EncodeBase58(key solana.PrivateKey) string {
	return base58.Encode(key)
}

func writePrivate(path string, data []byte) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o700); err != nil {
		return err
	}
	return os.WriteFile(path, data, 0o600)
}
