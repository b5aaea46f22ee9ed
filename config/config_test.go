package config

import (
	"fmt"
	"os"
	"path/filepath"
	"testing"

	"nftswap/crypto"
	"nftswap/native/nftswap"
)

func TestLoadParsesSettings(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.toml")

	key, err := crypto.GeneratePrivateKey()
	if err != nil {
		t.Fatalf("generate key: %v", err)
	}
	collectorRaw := key.Address()
	collector, err := crypto.NewAddress(collectorRaw[:])
	if err != nil {
		t.Fatalf("encode collector: %v", err)
	}

	contents := fmt.Sprintf(`RPCAddress = "0.0.0.0:9000"
DataDir = "./data"
NetworkName = "testnet"
FeeCollector = "%s"
RPCToken = "operator-token"
LogFile = "/var/log/nftswapd.log"
MinimumReserve = 500000
MaxDeposit = 5000000000
`, collector.String())
	if err := os.WriteFile(path, []byte(contents), 0o600); err != nil {
		t.Fatalf("write config: %v", err)
	}

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg.RPCAddress != "0.0.0.0:9000" || cfg.NetworkName != "testnet" {
		t.Fatalf("unexpected config: %+v", cfg)
	}
	if cfg.MinimumReserve != 500000 || cfg.MaxDeposit != 5000000000 {
		t.Fatalf("limits not parsed: %+v", cfg)
	}
	addr, ok, err := cfg.FeeCollectorAddress()
	if err != nil || !ok {
		t.Fatalf("fee collector: ok=%v err=%v", ok, err)
	}
	if addr != collectorRaw {
		t.Fatalf("fee collector mismatch")
	}
}

func TestLoadCreatesDefault(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.toml")

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("load default: %v", err)
	}
	if cfg.RPCAddress != ":8545" {
		t.Fatalf("default rpc address: %q", cfg.RPCAddress)
	}
	if cfg.MinimumReserve != nftswap.DefaultMinimumReserve {
		t.Fatalf("default reserve: %d", cfg.MinimumReserve)
	}
	if cfg.MaxDeposit != nftswap.DefaultMaxDeposit {
		t.Fatalf("default deposit cap: %d", cfg.MaxDeposit)
	}
	if _, err := os.Stat(path); err != nil {
		t.Fatalf("default file not written: %v", err)
	}

	// The written default must load back cleanly.
	reloaded, err := Load(path)
	if err != nil {
		t.Fatalf("reload: %v", err)
	}
	if reloaded.RPCAddress != cfg.RPCAddress || reloaded.MaxDeposit != cfg.MaxDeposit {
		t.Fatalf("reload mismatch: %+v", reloaded)
	}
}

func TestLoadRejectsUnknownField(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.toml")
	contents := `RPCAddress = ":8545"
DataDir = "./data"
MysteryField = true
`
	if err := os.WriteFile(path, []byte(contents), 0o600); err != nil {
		t.Fatalf("write config: %v", err)
	}
	if _, err := Load(path); err == nil {
		t.Fatalf("unknown field must be rejected")
	}
}

func TestLoadRejectsBadFeeCollector(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.toml")
	contents := `RPCAddress = ":8545"
DataDir = "./data"
FeeCollector = "not-a-bech32-address"
`
	if err := os.WriteFile(path, []byte(contents), 0o600); err != nil {
		t.Fatalf("write config: %v", err)
	}
	if _, err := Load(path); err == nil {
		t.Fatalf("invalid fee collector must be rejected")
	}
}
