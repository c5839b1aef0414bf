package config

import (
	"testing"

	"github.com/rgbcore/validator/idtype"
)

func TestDefaultConfigIsValid(t *testing.T) {
	cfg := DefaultConfig()
	if err := Validate(cfg); err != nil {
		t.Fatalf("got %v", err)
	}
}

func TestParseChainNetAllKnownValues(t *testing.T) {
	cases := map[string]idtype.ChainNet{
		"bitcoin-mainnet":  idtype.BitcoinMainnet,
		"bitcoin-testnet3": idtype.BitcoinTestnet3,
		"bitcoin-testnet4": idtype.BitcoinTestnet4,
		"bitcoin-signet":   idtype.BitcoinSignet,
		"bitcoin-regtest":  idtype.BitcoinRegtest,
		"liquid-mainnet":   idtype.LiquidMainnet,
		"liquid-testnet":   idtype.LiquidTestnet,
		"Bitcoin-Mainnet":  idtype.BitcoinMainnet,
		"  bitcoin-signet ": idtype.BitcoinSignet,
	}
	for in, want := range cases {
		got, err := ParseChainNet(in)
		if err != nil {
			t.Fatalf("ParseChainNet(%q): %v", in, err)
		}
		if got != want {
			t.Fatalf("ParseChainNet(%q) = %v want %v", in, got, want)
		}
	}
}

func TestParseChainNetRejectsUnknown(t *testing.T) {
	if _, err := ParseChainNet("not-a-chain"); err == nil {
		t.Fatalf("want error for unknown chain_net")
	}
}

func TestValidateRejectsMissingDataDir(t *testing.T) {
	cfg := DefaultConfig()
	cfg.DataDir = "  "
	if err := Validate(cfg); err == nil {
		t.Fatalf("want error for blank data_dir")
	}
}

func TestValidateRejectsBadChainNet(t *testing.T) {
	cfg := DefaultConfig()
	cfg.ChainNet = "mars-mainnet"
	if err := Validate(cfg); err == nil {
		t.Fatalf("want error for unknown chain_net")
	}
}

func TestValidateRejectsBadLogLevel(t *testing.T) {
	cfg := DefaultConfig()
	cfg.LogLevel = "verbose"
	if err := Validate(cfg); err == nil {
		t.Fatalf("want error for invalid log_level")
	}
}

func TestValidateRejectsMalformedTrustedOpID(t *testing.T) {
	cfg := DefaultConfig()
	cfg.TrustedOpIDsHex = []string{"deadbeef"}
	if err := Validate(cfg); err == nil {
		t.Fatalf("want error for a trusted_op_id that isn't 32 bytes of hex")
	}
}

func TestValidateAcceptsWellFormedTrustedOpID(t *testing.T) {
	cfg := DefaultConfig()
	cfg.TrustedOpIDsHex = []string{
		"deadbeefdeadbeefdeadbeefdeadbeefdeadbeefdeadbeefdeadbeefdeadbeef",
	}
	if err := Validate(cfg); err != nil {
		t.Fatalf("got %v", err)
	}
}
