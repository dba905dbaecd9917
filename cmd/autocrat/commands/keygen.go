package commands

import (
	"bufio"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strings"

	"github.com/gagliardetto/solana-go"
	"github.com/spf13/cobra"

	"autocrat/go-client/internal/keystore"
	"autocrat/go-client/internal/printer"
)

func keygenCmd(opts *globalOptions) *cobra.Command {
	var (
		outfile   string
		fromStdin bool
		account   uint32
		encrypt   bool
		force     bool
	)
	cmd := &cobra.Command{
		Use:   "keygen",
		Short: "Create a payer keypair from a new or existing mnemonic",
		Long: `Create a payer keypair. A new 24-word mnemonic is generated and printed
unless --recover is given, in which case the mnemonic is read from stdin.
The key is derived at m/44'/501'/<account>'/0'.

With --encrypt the keyfile is sealed with AUTOCRAT_KEYPAIR_PASSPHRASE;
otherwise it is written in solana-keygen JSON form.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := opts.loadConfig()
			if err != nil {
				return err
			}
			path := outfile
			if path == "" {
				if path, err = cfg.KeypairPath(); err != nil {
					return err
				}
			}
			if _, err := os.Stat(path); err == nil && !force {
				return printer.ErrorWithContext("Keyfile already exists", "Refusing to overwrite an existing keypair.", map[string]string{"path": path}, []string{
					"Pass --outfile with a new path, or --force to overwrite.",
				})
			} else if err != nil && !errors.Is(err, fs.ErrNotExist) {
				return err
			}
			if encrypt && cfg.KeypairPassphrase == "" {
				return printer.Error("Passphrase required", "--encrypt needs AUTOCRAT_KEYPAIR_PASSPHRASE to be set.", nil)
			}

			var mnemonic string
			if fromStdin {
				line, err := bufio.NewReader(cmd.InOrStdin()).ReadString('\n')
				if err != nil && line == "" {
					return fmt.Errorf("read mnemonic: %w", err)
				}
				mnemonic = strings.TrimSpace(line)
			} else if mnemonic, err = keystore.NewMnemonic(); err != nil {
				return err
			}

			key, err := keystore.KeypairFromMnemonic(mnemonic, "", account)
			if err != nil {
				return printer.Error("Invalid mnemonic", err.Error(), []string{"Check the word list and spelling."})
			}
			if err := writeKey(path, key, encrypt, cfg.KeypairPassphrase); err != nil {
				return printer.ErrorWithContext("Cannot write keyfile", err.Error(), map[string]string{"path": path}, nil)
			}

			if !fromStdin {
				printer.Warning("Save this mnemonic; it is the only way to recover the key:\n")
				fmt.Fprintln(cmd.OutOrStdout(), mnemonic)
			}
			printer.KeyValue(map[string]string{"pubkey": key.PublicKey().String(), "keyfile": path})
			printer.Success("keypair written\n")
			return nil
		},
	}
	cmd.Flags().StringVarP(&outfile, "outfile", "o", "", "keyfile path (default: the configured keypair path)")
	cmd.Flags().BoolVar(&fromStdin, "recover", false, "read an existing mnemonic from stdin")
	cmd.Flags().Uint32Var(&account, "account", 0, "derivation account index")
	cmd.Flags().BoolVar(&encrypt, "encrypt", false, "encrypt the keyfile with AUTOCRAT_KEYPAIR_PASSPHRASE")
	cmd.Flags().BoolVar(&force, "force", false, "overwrite an existing keyfile")
	return cmd
}

func writeKey(path string, key solana.PrivateKey, encrypt bool, passphrase string) error {
	if encrypt {
		return keystore.WriteEncryptedKeypair(path, passphrase, key)
	}
	return keystore.WriteKeygenFile(path, key)
}
