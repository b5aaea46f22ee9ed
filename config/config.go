package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/BurntSushi/toml"

	"nftswap/crypto"
	"nftswap/native/nftswap"
)

type Config struct {
	RPCAddress     string `toml:"RPCAddress"`
	DataDir        string `toml:"DataDir"`
	NetworkName    string `toml:"NetworkName"`
	FeeCollector   string `toml:"FeeCollector"`
	RPCToken       string `toml:"RPCToken"`
	LogFile        string `toml:"LogFile"`
	MinimumReserve uint64 `toml:"MinimumReserve"`
	MaxDeposit     uint64 `toml:"MaxDeposit"`
}

// Load reads the configuration from path, creating a default file when none
// exists yet.
func Load(path string) (*Config, error) {
	cfg := &Config{}
	if _, err := os.Stat(path); os.IsNotExist(err) {
		return createDefault(path)
	}

	meta, err := toml.DecodeFile(path, cfg)
	if err != nil {
		return nil, err
	}
	if undecoded := meta.Undecoded(); len(undecoded) > 0 {
		return nil, fmt.Errorf("config file %s has unknown field %q", path, undecoded[0].String())
	}

	applyDefaults(cfg)
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate checks the semantic constraints the loader cannot default away.
func (cfg *Config) Validate() error {
	if strings.TrimSpace(cfg.RPCAddress) == "" {
		return fmt.Errorf("config: RPCAddress required")
	}
	if strings.TrimSpace(cfg.DataDir) == "" {
		return fmt.Errorf("config: DataDir required")
	}
	if collector := strings.TrimSpace(cfg.FeeCollector); collector != "" {
		if _, err := crypto.DecodeAddress(collector); err != nil {
			return fmt.Errorf("config: invalid FeeCollector: %w", err)
		}
	}
	if cfg.MaxDeposit == 0 {
		return fmt.Errorf("config: MaxDeposit must be positive")
	}
	return nil
}

// FeeCollectorAddress decodes the configured fee collector, reporting whether
// one was set.
func (cfg *Config) FeeCollectorAddress() ([20]byte, bool, error) {
	collector := strings.TrimSpace(cfg.FeeCollector)
	if collector == "" {
		return [20]byte{}, false, nil
	}
	addr, err := crypto.DecodeAddress(collector)
	if err != nil {
		return [20]byte{}, false, err
	}
	return addr.Bytes(), true, nil
}

func applyDefaults(cfg *Config) {
	if strings.TrimSpace(cfg.RPCAddress) == "" {
		cfg.RPCAddress = ":8545"
	}
	if strings.TrimSpace(cfg.DataDir) == "" {
		cfg.DataDir = "./nftswap-data"
	}
	if strings.TrimSpace(cfg.NetworkName) == "" {
		cfg.NetworkName = "nftswap-local"
	}
	if cfg.MinimumReserve == 0 {
		cfg.MinimumReserve = nftswap.DefaultMinimumReserve
	}
	if cfg.MaxDeposit == 0 {
		cfg.MaxDeposit = nftswap.DefaultMaxDeposit
	}
}

// createDefault creates and saves a default configuration file.
func createDefault(path string) (*Config, error) {
	cfg := &Config{}
	applyDefaults(cfg)
	if err := persist(path, cfg); err != nil {
		return nil, err
	}
	return cfg, nil
}

func persist(path string, cfg *Config) error {
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return err
		}
	}
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()
	return toml.NewEncoder(f).Encode(cfg)
}
