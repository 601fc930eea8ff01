package session

import (
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"

	"github.com/opendraft/auctionhall/core"
)

// DataConfig names the tabular files the session imports from and exports
// to.
type DataConfig struct {
	Dir             string `yaml:"dir" json:"dir"`
	ItemsFile       string `yaml:"itemsFile" json:"itemsFile"`
	TeamsFile       string `yaml:"teamsFile" json:"teamsFile"`
	SoldItemsFile   string `yaml:"soldItemsFile" json:"soldItemsFile"`
	TeamBudgetsFile string `yaml:"teamBudgetsFile" json:"teamBudgetsFile"`
}

// Config is the session configuration, loadable from a YAML file with
// AUCTIONHALL_* environment overrides.
type Config struct {
	Rules         core.Rules `yaml:"rules" json:"rules"`
	CurrencyLabel string     `yaml:"currencyLabel" json:"currencyLabel"`
	Data          DataConfig `yaml:"data" json:"data"`
	LogLevel      string     `yaml:"logLevel" json:"logLevel"`
}

// DefaultConfig returns the standard configuration: spec increments and
// roster cap, CR currency, catalog files in the working directory.
func DefaultConfig() Config {
	return Config{
		Rules:         core.DefaultRules(),
		CurrencyLabel: "CR",
		Data: DataConfig{
			Dir:             ".",
			ItemsFile:       "items.csv",
			TeamsFile:       "teams.csv",
			SoldItemsFile:   "sold_items.csv",
			TeamBudgetsFile: "team_budgets.csv",
		},
		LogLevel: "info",
	}
}

// LoadConfig reads a YAML config from path, layered over the defaults.
// An empty path skips the file and returns defaults plus env overrides.
func LoadConfig(path string) (Config, error) {
	cfg := DefaultConfig()

	if path != "" {
		raw, err := os.ReadFile(path)
		if err != nil {
			return Config{}, fmt.Errorf("session: read config: %w", err)
		}
		if err := yaml.Unmarshal(raw, &cfg); err != nil {
			return Config{}, fmt.Errorf("session: parse config: %w", err)
		}
	}

	cfg.applyEnv()
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func (c *Config) applyEnv() {
	if v := os.Getenv("AUCTIONHALL_DATA_DIR"); v != "" {
		c.Data.Dir = v
	}
	if v := os.Getenv("AUCTIONHALL_LOG_LEVEL"); v != "" {
		c.LogLevel = v
	}
	if v := os.Getenv("AUCTIONHALL_CURRENCY"); v != "" {
		c.CurrencyLabel = v
	}
}

// Validate checks the configuration for values the engine cannot operate
// with.
func (c *Config) Validate() error {
	if len(c.Rules.Tiers) == 0 {
		return fmt.Errorf("session: config needs at least one increment tier")
	}
	for i, tier := range c.Rules.Tiers {
		if tier.Increment <= 0 {
			return fmt.Errorf("session: tier %d has non-positive increment %v", i, tier.Increment)
		}
		if tier.Below <= 0 && i != len(c.Rules.Tiers)-1 {
			return fmt.Errorf("session: open-ended tier %d must be last", i)
		}
	}
	if c.Rules.RosterCap <= 0 {
		return fmt.Errorf("session: roster cap must be positive, got %d", c.Rules.RosterCap)
	}
	return nil
}

// ItemsPath returns the full path of the items catalog file.
func (c Config) ItemsPath() string { return filepath.Join(c.Data.Dir, c.Data.ItemsFile) }

// TeamsPath returns the full path of the teams catalog file.
func (c Config) TeamsPath() string { return filepath.Join(c.Data.Dir, c.Data.TeamsFile) }

// SoldItemsPath returns the full path of the sold-items export file.
func (c Config) SoldItemsPath() string { return filepath.Join(c.Data.Dir, c.Data.SoldItemsFile) }

// TeamBudgetsPath returns the full path of the team-budgets export file.
func (c Config) TeamBudgetsPath() string { return filepath.Join(c.Data.Dir, c.Data.TeamBudgetsFile) }
