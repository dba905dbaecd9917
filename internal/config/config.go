// Package config loads CLI settings from a yaml file and AUTOCRAT_*
// environment variables on top of built-in defaults.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/gagliardetto/solana-go"
	solanarpc "github.com/gagliardetto/solana-go/rpc"
	"gopkg.in/yaml.v3"

	"autocrat/go-client/pkg/constants"
)

type Config struct {
	RPCURL         string
	Commitment     string
	RateLimitRPS   float64
	RateLimitBurst int
	SkipPreflight  bool
	ConfirmTimeout time.Duration

	Keypair string
	// KeypairPassphrase unlocks encrypted keyfiles. It is only read from the
	// environment, never from the config file.
	KeypairPassphrase string

	ProgramID    string
	AmmProgramID string
	MetaMint     string
	UsdcMint     string
	LookupTables []string

	LogLevel string
}

type FileConfig struct {
	RPC     RPCFileConfig     `yaml:"rpc"`
	Wallet  WalletFileConfig  `yaml:"wallet"`
	Program ProgramFileConfig `yaml:"program"`
	Log     LogFileConfig     `yaml:"log"`
}

type RPCFileConfig struct {
	URL            string        `yaml:"url"`
	Commitment     string        `yaml:"commitment"`
	RateLimitRPS   float64       `yaml:"rateLimitRps"`
	RateLimitBurst int           `yaml:"rateLimitBurst"`
	SkipPreflight  *bool         `yaml:"skipPreflight"`
	ConfirmTimeout time.Duration `yaml:"confirmTimeout"`
}

type WalletFileConfig struct {
	Keypair string `yaml:"keypair"`
}

type ProgramFileConfig struct {
	ProgramID    string   `yaml:"programId"`
	AmmProgramID string   `yaml:"ammProgramId"`
	MetaMint     string   `yaml:"metaMint"`
	UsdcMint     string   `yaml:"usdcMint"`
	LookupTables []string `yaml:"lookupTables"`
}

type LogFileConfig struct {
	Level string `yaml:"level"`
}

func DefaultConfig() Config {
	consts := constants.Default()
	luts := make([]string, 0, len(consts.LookupTables))
	for _, lut := range consts.LookupTables {
		luts = append(luts, lut.String())
	}
	return Config{
		RPCURL:         solanarpc.MainNetBeta_RPC,
		Commitment:     string(solanarpc.CommitmentConfirmed),
		RateLimitBurst: 1,
		ConfirmTimeout: 60 * time.Second,
		Keypair:        filepath.Join("~", ".config", "solana", "id.json"),
		ProgramID:      consts.ProgramID.String(),
		AmmProgramID:   consts.AmmProgramID.String(),
		MetaMint:       consts.MetaMint.String(),
		UsdcMint:       consts.UsdcMint.String(),
		LookupTables:   luts,
		LogLevel:       "info",
	}
}

// LoadFromPath reads configPath, or the first existing default candidate
// when configPath is empty, merges it over the defaults and applies
// environment overrides. A missing candidate file is not an error; a missing
// explicit file is.
func LoadFromPath(configPath string) (Config, error) {
	cfg := DefaultConfig()

	candidates := []string{"autocrat.yaml", filepath.Join("configs", "autocrat.yaml")}
	if configPath != "" {
		candidates = []string{configPath}
	}

	for _, path := range candidates {
		data, err := os.ReadFile(path)
		if errors.Is(err, fs.ErrNotExist) && configPath == "" {
			continue
		}
		if err != nil {
			return Config{}, fmt.Errorf("read config %s: %w", path, err)
		}

		var parsed FileConfig
		if err := yaml.Unmarshal(data, &parsed); err != nil {
			return Config{}, fmt.Errorf("parse config %s: %w", path, err)
		}
		Merge(&cfg, parsed)
		break
	}

	ApplyEnvOverrides(&cfg)
	return cfg, nil
}

func Merge(dst *Config, src FileConfig) {
	if src.RPC.URL != "" {
		dst.RPCURL = src.RPC.URL
	}
	if src.RPC.Commitment != "" {
		dst.Commitment = src.RPC.Commitment
	}
	if src.RPC.RateLimitRPS != 0 {
		dst.RateLimitRPS = src.RPC.RateLimitRPS
	}
	if src.RPC.RateLimitBurst != 0 {
		dst.RateLimitBurst = src.RPC.RateLimitBurst
	}
	if src.RPC.SkipPreflight != nil {
		dst.SkipPreflight = *src.RPC.SkipPreflight
	}
	if src.RPC.ConfirmTimeout != 0 {
		dst.ConfirmTimeout = src.RPC.ConfirmTimeout
	}
	if src.Wallet.Keypair != "" {
		dst.Keypair = src.Wallet.Keypair
	}
	if src.Program.ProgramID != "" {
		dst.ProgramID = src.Program.ProgramID
	}
	if src.Program.AmmProgramID != "" {
		dst.AmmProgramID = src.Program.AmmProgramID
	}
	if src.Program.MetaMint != "" {
		dst.MetaMint = src.Program.MetaMint
	}
	if src.Program.UsdcMint != "" {
		dst.UsdcMint = src.Program.UsdcMint
	}
	if src.Program.LookupTables != nil {
		dst.LookupTables = src.Program.LookupTables
	}
	if src.Log.Level != "" {
		dst.LogLevel = src.Log.Level
	}
}

func ApplyEnvOverrides(cfg *Config) {
	if v := env("AUTOCRAT_RPC_URL"); v != "" {
		cfg.RPCURL = v
	}
	if v := env("AUTOCRAT_COMMITMENT"); v != "" {
		cfg.Commitment = v
	}
	if v := env("AUTOCRAT_KEYPAIR"); v != "" {
		cfg.Keypair = v
	}
	if v, ok := os.LookupEnv("AUTOCRAT_KEYPAIR_PASSPHRASE"); ok {
		cfg.KeypairPassphrase = v
	}
	if v := env("AUTOCRAT_PROGRAM_ID"); v != "" {
		cfg.ProgramID = v
	}
	if v := env("AUTOCRAT_LOG_LEVEL"); v != "" {
		cfg.LogLevel = v
	}
	if v, ok := os.LookupEnv("AUTOCRAT_LOOKUP_TABLES"); ok {
		cfg.LookupTables = splitList(v)
	}
	if v := env("AUTOCRAT_RATE_LIMIT_RPS"); v != "" {
		if rps, err := strconv.ParseFloat(v, 64); err == nil {
			cfg.RateLimitRPS = rps
		}
	}
}

// Constants parses the configured deployment addresses.
func (c Config) Constants() (constants.Constants, error) {
	var out constants.Constants
	fields := []struct {
		name string
		raw  string
		dst  *solana.PublicKey
	}{
		{"program id", c.ProgramID, &out.ProgramID},
		{"amm program id", c.AmmProgramID, &out.AmmProgramID},
		{"meta mint", c.MetaMint, &out.MetaMint},
		{"usdc mint", c.UsdcMint, &out.UsdcMint},
	}
	for _, f := range fields {
		key, err := solana.PublicKeyFromBase58(f.raw)
		if err != nil {
			return constants.Constants{}, fmt.Errorf("config: %s %q: %w", f.name, f.raw, err)
		}
		*f.dst = key
	}
	out.LookupTables = make([]solana.PublicKey, 0, len(c.LookupTables))
	for _, raw := range c.LookupTables {
		key, err := solana.PublicKeyFromBase58(raw)
		if err != nil {
			return constants.Constants{}, fmt.Errorf("config: lookup table %q: %w", raw, err)
		}
		out.LookupTables = append(out.LookupTables, key)
	}
	return out, nil
}

func (c Config) CommitmentType() (solanarpc.CommitmentType, error) {
	switch commitment := solanarpc.CommitmentType(strings.ToLower(c.Commitment)); commitment {
	case solanarpc.CommitmentProcessed, solanarpc.CommitmentConfirmed, solanarpc.CommitmentFinalized:
		return commitment, nil
	default:
		return "", fmt.Errorf("config: unsupported commitment %q", c.Commitment)
	}
}

// KeypairPath expands a leading ~ in the keypair path.
func (c Config) KeypairPath() (string, error) {
	if c.Keypair != "~" && !strings.HasPrefix(c.Keypair, "~/") && !strings.HasPrefix(c.Keypair, "~"+string(filepath.Separator)) {
		return c.Keypair, nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("config: expand keypair path: %w", err)
	}
	return filepath.Join(home, c.Keypair[1:]), nil
}

func env(key string) string {
	return strings.TrimSpace(os.Getenv(key))
}

func splitList(raw string) []string {
	out := []string{}
	for _, part := range strings.Split(raw, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}
