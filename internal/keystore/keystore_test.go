package keystore

import (
	"encoding/hex"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/gagliardetto/solana-go"

	"autocrat/go-client/internal/testutil/fsperm"
)

func TestSealOpenRoundtrip(t *testing.T) {
	data, err := Seal("pass", []byte("secret"))
	if err != nil {
		t.Fatalf("seal failed: %v", err)
	}
	plain, err := Open("pass", data)
	if err != nil {
		t.Fatalf("open failed: %v", err)
	}
	if string(plain) != "secret" {
		t.Fatalf("unexpected plaintext: %q", string(plain))
	}
	if _, err := Open("wrong", data); !errors.Is(err, ErrAuthFailed) {
		t.Fatalf("expected ErrAuthFailed, got %v", err)
	}
	if _, err := Open("pass", []byte("plain")); !errors.Is(err, ErrNotSealed) {
		t.Fatalf("expected ErrNotSealed, got %v", err)
	}
}

func TestKeygenFileRoundtrip(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "keys")
	path := filepath.Join(dir, "id.json")
	key := solana.NewWallet().PrivateKey

	if err := WriteKeygenFile(path, key); err != nil {
		t.Fatalf("write: %v", err)
	}
	fsperm.AssertPrivateDirPerm(t, dir)
	fsperm.AssertPrivateFilePerm(t, path)

	// solana-go reads the same format.
	viaLib, err := solana.PrivateKeyFromSolanaKeygenFile(path)
	if err != nil {
		t.Fatalf("solana-go load: %v", err)
	}
	loaded, err := LoadKeypair(path, "")
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if !loaded.PublicKey().Equals(key.PublicKey()) || !viaLib.PublicKey().Equals(key.PublicKey()) {
		t.Fatal("loaded key does not match written key")
	}
}

func TestEncryptedKeypairRoundtrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "payer.key")
	key := solana.NewWallet().PrivateKey

	if err := WriteEncryptedKeypair(path, "hunter2", key); err != nil {
		t.Fatalf("write: %v", err)
	}
	fsperm.AssertPrivateFilePerm(t, path)

	raw, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read: %v", err)
	}
	if !IsSealed(raw) {
		t.Fatal("expected sealed keyfile")
	}

	if _, err := LoadKeypair(path, ""); !errors.Is(err, ErrPassphraseRequired) {
		t.Fatalf("expected ErrPassphraseRequired, got %v", err)
	}
	if _, err := LoadKeypair(path, "wrong"); !errors.Is(err, ErrAuthFailed) {
		t.Fatalf("expected ErrAuthFailed, got %v", err)
	}
	loaded, err := LoadKeypair(path, "hunter2")
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if !loaded.PublicKey().Equals(key.PublicKey()) {
		t.Fatal("decrypted key does not match")
	}
}

func TestParseKeypairBase58(t *testing.T) {
	key := solana.NewWallet().PrivateKey
	parsed, err := ParseKeypair([]byte(EncodeBase58(key)+"\n"), "")
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	if !parsed.PublicKey().Equals(key.PublicKey()) {
		t.Fatal("base58 key mismatch")
	}
}

func TestParseKeypairRejectsInconsistentSecret(t *testing.T) {
	key := solana.NewWallet().PrivateKey
	other := solana.NewWallet().PrivateKey
	mixed := append(append([]byte(nil), key[:32]...), other[32:]...)

	if _, err := ParseKeypair([]byte(EncodeBase58(mixed)), ""); !errors.Is(err, ErrInvalidKeypair) {
		t.Fatalf("expected ErrInvalidKeypair, got %v", err)
	}
	if _, err := ParseKeypair([]byte("[1,2,3]"), ""); !errors.Is(err, ErrInvalidKeypair) {
		t.Fatalf("expected ErrInvalidKeypair for short array, got %v", err)
	}
	if _, err := ParseKeypair([]byte("[300]"), ""); !errors.Is(err, ErrInvalidKeypair) {
		t.Fatalf("expected ErrInvalidKeypair for out of range byte, got %v", err)
	}
}

func TestDeriveEd25519MatchesSlip10Vector(t *testing.T) {
	seed, _ := hex.DecodeString("000102030405060708090a0b0c0d0e0f")
	cases := []struct {
		path []uint32
		want string
	}{
		{nil, "2b4be7f19ee27bbf30c667b642d5f4aa69fd169872f8fc3059c08ebae2eb19e7"},
		{[]uint32{0}, "68e0fe46dfb67e368c75379acec591dad19df3cde26e63b93a8e704f1dade7a3"},
		{[]uint32{0, 1}, "b1d0bad404bf35da785a64ca1ac54b2617211d2777696fbffaf208f746ae84f2"},
	}
	for _, tc := range cases {
		if got := hex.EncodeToString(deriveEd25519(seed, tc.path)); got != tc.want {
			t.Fatalf("path %v: expected %s, got %s", tc.path, tc.want, got)
		}
	}
}

func TestKeypairFromMnemonic(t *testing.T) {
	const mnemonic = "abandon abandon abandon abandon abandon abandon abandon abandon abandon abandon abandon about"
	key, err := KeypairFromMnemonic("  "+mnemonic+"\n", "", 0)
	if err != nil {
		t.Fatalf("derive: %v", err)
	}
	if got := hex.EncodeToString(key[:32]); got != "37df573b3ac4ad5b522e064e25b63ea16bcbe79d449e81a0268d1047948bb445" {
		t.Fatalf("unexpected m/44'/501'/0'/0' seed %s", got)
	}

	next, err := KeypairFromMnemonic(mnemonic, "", 1)
	if err != nil {
		t.Fatalf("derive account 1: %v", err)
	}
	if next.PublicKey().Equals(key.PublicKey()) {
		t.Fatal("accounts must derive distinct keys")
	}

	if _, err := KeypairFromMnemonic("abandon abandon", "", 0); !errors.Is(err, ErrInvalidMnemonic) {
		t.Fatalf("expected ErrInvalidMnemonic, got %v", err)
	}

	fresh, err := NewMnemonic()
	if err != nil {
		t.Fatalf("new mnemonic: %v", err)
	}
	if _, err := KeypairFromMnemonic(fresh, "", 0); err != nil {
		t.Fatalf("fresh mnemonic must derive: %v", err)
	}
}
