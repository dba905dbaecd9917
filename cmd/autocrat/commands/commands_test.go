package commands

import (
	"bytes"
	"context"
	"encoding/base64"
	"encoding/json"
	"math"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/gagliardetto/solana-go"
	solanarpc "github.com/gagliardetto/solana-go/rpc"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"autocrat/go-client/internal/keystore"
	"autocrat/go-client/internal/printer"
	"autocrat/go-client/internal/testutil/fakerpc"
	"autocrat/go-client/internal/testutil/fsperm"
	"autocrat/go-client/pkg/constants"
	"autocrat/go-client/pkg/models"
	"autocrat/go-client/pkg/provider"
)

const testMnemonic = "abandon abandon abandon abandon abandon abandon abandon abandon abandon abandon abandon about"

type testCLI struct {
	rpc     *fakerpc.RPC
	wallet  solana.PrivateKey
	keypair string
	out     *bytes.Buffer
}

// newTestCLI points the commands at an in-memory RPC and a fresh payer.
func newTestCLI(t *testing.T) *testCLI {
	t.Helper()
	rpc := fakerpc.New()
	prev := newRPC
	newRPC = func(string) provider.RPC { return rpc }
	t.Cleanup(func() { newRPC = prev })

	wallet := solana.NewWallet().PrivateKey
	path := filepath.Join(t.TempDir(), "id.json")
	require.NoError(t, keystore.WriteKeygenFile(path, wallet))

	t.Setenv("AUTOCRAT_LOOKUP_TABLES", "")
	t.Setenv("AUTOCRAT_KEYPAIR_PASSPHRASE", "")
	t.Setenv("AUTOCRAT_PROGRAM_ID", "")

	out := new(bytes.Buffer)
	printer.SetOutput(out, out)
	t.Cleanup(func() { printer.SetOutput(os.Stdout, os.Stderr) })

	return &testCLI{rpc: rpc, wallet: wallet, keypair: path, out: out}
}

func (c *testCLI) run(stdin string, args ...string) error {
	root := NewRootCommand()
	root.SetOut(c.out)
	root.SetErr(c.out)
	root.SetIn(strings.NewReader(stdin))
	root.SetArgs(append([]string{"--keypair", c.keypair}, args...))
	return root.ExecuteContext(context.Background())
}

func TestRootCommand_ShowsHelpWhenNoSubcommand(t *testing.T) {
	c := newTestCLI(t)

	require.NoError(t, c.run(""))
	for _, sub := range []string{"luts", "dao", "proposal", "vault", "amm", "keygen"} {
		assert.Contains(t, c.out.String(), sub)
	}
}

func TestRootCommand_RejectsUnknownFlags(t *testing.T) {
	c := newTestCLI(t)

	err := c.run("", "--unknown-flag", "value")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unknown flag")
}

func TestLutsPrintsTablesInConfiguredOrder(t *testing.T) {
	c := newTestCLI(t)
	first, second := solana.NewWallet().PublicKey(), solana.NewWallet().PublicKey()
	for _, key := range []solana.PublicKey{first, second} {
		c.rpc.SetAccount(key, provider.AddressLookupTableProgramID, provider.EncodeLookupTableState(provider.LookupTableState{
			DeactivationSlot: math.MaxUint64,
			Addresses:        solana.PublicKeySlice{solana.SystemProgramID},
		}))
	}
	t.Setenv("AUTOCRAT_LOOKUP_TABLES", second.String()+","+first.String())

	require.NoError(t, c.run("", "luts"))

	out := c.out.String()
	assert.Contains(t, out, "2 lookup tables resolved")
	require.Contains(t, out, "1. "+second.String())
	require.Contains(t, out, "2. "+first.String())
}

func TestLutsReportsMissingTable(t *testing.T) {
	c := newTestCLI(t)
	missing := solana.NewWallet().PublicKey()
	t.Setenv("AUTOCRAT_LOOKUP_TABLES", missing.String())

	err := c.run("", "luts")
	require.Error(t, err)
	assert.Equal(t, "Cannot create client", err.Error())
	assert.Contains(t, c.out.String(), missing.String())
}

func TestMissingKeypairIsReported(t *testing.T) {
	c := newTestCLI(t)
	c.keypair = filepath.Join(t.TempDir(), "absent.json")

	err := c.run("", "luts")
	require.Error(t, err)
	assert.Equal(t, "Cannot load payer keypair", err.Error())
}

func TestCrankDryRunPrintsTransaction(t *testing.T) {
	c := newTestCLI(t)
	amm := solana.NewWallet().PublicKey()

	require.NoError(t, c.run("", "--dry-run", "amm", "crank", amm.String()))

	var encoded string
	for _, line := range strings.Split(c.out.String(), "\n") {
		if rest, ok := strings.CutPrefix(line, "update ltwap: "); ok {
			encoded = rest
		}
	}
	require.NotEmpty(t, encoded)
	raw, err := base64.StdEncoding.DecodeString(encoded)
	require.NoError(t, err)
	assert.NotEmpty(t, raw)
	assert.Empty(t, c.rpc.Sent())
}

func TestCrankSendsAndConfirms(t *testing.T) {
	c := newTestCLI(t)
	c.rpc.QueueStatus(&solanarpc.SignatureStatusesResult{ConfirmationStatus: solanarpc.ConfirmationStatusConfirmed})

	require.NoError(t, c.run("", "amm", "crank", solana.NewWallet().PublicKey().String()))

	sent := c.rpc.Sent()
	require.Len(t, sent, 1)
	assert.Equal(t, c.wallet.PublicKey(), sent[0].Message.AccountKeys[0])
	assert.Contains(t, c.out.String(), "update ltwap confirmed: "+sent[0].Signatures[0].String())
}

func TestDaoUpdatePrintsProposalInstruction(t *testing.T) {
	c := newTestCLI(t)

	require.NoError(t, c.run("", "dao", "update", "--pass-threshold-bps", "300"))

	out := c.out.String()
	start := strings.Index(out, "[")
	end := strings.LastIndex(out, "]")
	require.True(t, start >= 0 && end > start, "expected JSON array in output: %s", out)

	var ixs []models.ProposalInstruction
	require.NoError(t, json.Unmarshal([]byte(out[start:end+1]), &ixs))
	require.Len(t, ixs, 1)
	assert.Equal(t, constants.Default().ProgramID, ixs[0].ProgramID)
	assert.Len(t, ixs[0].Accounts, 2)
	assert.Empty(t, c.rpc.Sent())
}

func TestDaoUpdateRequiresAFlag(t *testing.T) {
	c := newTestCLI(t)

	err := c.run("", "dao", "update")
	require.Error(t, err)
	assert.Equal(t, "Nothing to update", err.Error())
}

func TestKeygenRecoversFromMnemonic(t *testing.T) {
	c := newTestCLI(t)
	dir := filepath.Join(t.TempDir(), "wallet")
	path := filepath.Join(dir, "id.json")

	require.NoError(t, c.run(testMnemonic+"\n", "keygen", "--recover", "--outfile", path))

	want, err := keystore.KeypairFromMnemonic(testMnemonic, "", 0)
	require.NoError(t, err)
	got, err := keystore.LoadKeypair(path, "")
	require.NoError(t, err)
	assert.Equal(t, want.PublicKey(), got.PublicKey())
	assert.Contains(t, c.out.String(), want.PublicKey().String())
	assert.NotContains(t, c.out.String(), "abandon")
	fsperm.AssertPrivateDirPerm(t, dir)
	fsperm.AssertPrivateFilePerm(t, path)

	err = c.run(testMnemonic+"\n", "keygen", "--recover", "--outfile", path)
	require.Error(t, err)
	assert.Equal(t, "Keyfile already exists", err.Error())
}

func TestKeygenEncrypted(t *testing.T) {
	c := newTestCLI(t)
	path := filepath.Join(t.TempDir(), "payer.key")

	err := c.run("", "keygen", "--encrypt", "--outfile", path)
	require.Error(t, err)
	assert.Equal(t, "Passphrase required", err.Error())

	t.Setenv("AUTOCRAT_KEYPAIR_PASSPHRASE", "correct horse")
	require.NoError(t, c.run("", "keygen", "--encrypt", "--outfile", path))

	_, err = keystore.LoadKeypair(path, "")
	assert.ErrorIs(t, err, keystore.ErrPassphraseRequired)
	key, err := keystore.LoadKeypair(path, "correct horse")
	require.NoError(t, err)
	assert.Contains(t, c.out.String(), key.PublicKey().String())
}

func TestParseAmount(t *testing.T) {
	v, err := parseAmount("amount", "340282366920938463463374607431768211455")
	require.NoError(t, err)
	assert.Equal(t, 128, v.BitLen())

	_, err = parseAmount("amount", "-1")
	assert.Error(t, err)
	_, err = parseAmount("amount", "1.5")
	assert.Error(t, err)
}
