// Package config defines the validator's on-disk configuration shape:
// which chain/network to validate against, where the trusted-type/witness
// cache lives, and the safety policy applied to mined witnesses.
package config

import (
	"encoding/hex"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/rgbcore/validator/idtype"
)

// Config is the validator's static configuration, loaded once at process
// start and never mutated for the lifetime of a run.
type Config struct {
	ChainNet        string   `json:"chain_net"`
	DataDir         string   `json:"data_dir"`
	LogLevel        string   `json:"log_level"`
	LogJSON         bool     `json:"log_json"`
	SafeHeight      *uint64  `json:"safe_height,omitempty"`
	TrustedOpIDsHex []string `json:"trusted_op_ids,omitempty"`
}

var allowedLogLevels = map[string]struct{}{
	"debug": {}, "info": {}, "warn": {}, "error": {},
}

var chainNets = map[string]idtype.ChainNet{
	"bitcoin-mainnet":  idtype.BitcoinMainnet,
	"bitcoin-testnet3": idtype.BitcoinTestnet3,
	"bitcoin-testnet4": idtype.BitcoinTestnet4,
	"bitcoin-signet":   idtype.BitcoinSignet,
	"bitcoin-regtest":  idtype.BitcoinRegtest,
	"liquid-mainnet":   idtype.LiquidMainnet,
	"liquid-testnet":   idtype.LiquidTestnet,
}

// DefaultDataDir returns ~/.rgb-validate, falling back to a relative path
// when the home directory cannot be resolved.
func DefaultDataDir() string {
	home, err := os.UserHomeDir()
	if err != nil || home == "" {
		return ".rgb-validate"
	}
	return filepath.Join(home, ".rgb-validate")
}

// DefaultConfig returns the configuration a fresh validator node starts
// with before any operator overrides are applied.
func DefaultConfig() Config {
	return Config{
		ChainNet: "bitcoin-mainnet",
		DataDir:  DefaultDataDir(),
		LogLevel: "info",
		LogJSON:  false,
	}
}

// ParseChainNet resolves the config's chain_net string to idtype.ChainNet.
func ParseChainNet(s string) (idtype.ChainNet, error) {
	net, ok := chainNets[strings.ToLower(strings.TrimSpace(s))]
	if !ok {
		return idtype.ChainNetUnknown, fmt.Errorf("unknown chain_net %q", s)
	}
	return net, nil
}

// Validate checks the config is internally consistent before the
// validator is built from it.
func Validate(cfg Config) error {
	if strings.TrimSpace(cfg.DataDir) == "" {
		return errors.New("data_dir is required")
	}
	if _, err := ParseChainNet(cfg.ChainNet); err != nil {
		return err
	}
	logLevel := strings.ToLower(strings.TrimSpace(cfg.LogLevel))
	if _, ok := allowedLogLevels[logLevel]; !ok {
		return fmt.Errorf("invalid log_level %q", cfg.LogLevel)
	}
	for _, h := range cfg.TrustedOpIDsHex {
		if b, err := hex.DecodeString(h); err != nil || len(b) != 32 {
			return fmt.Errorf("invalid trusted_op_id %q: want 32 bytes hex", h)
		}
	}
	return nil
}
