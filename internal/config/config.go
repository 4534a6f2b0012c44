package config

import (
	"fmt"
	"os"
	"time"

	"github.com/shopspring/decimal"
	"gopkg.in/yaml.v3"

	"github.com/cleared-dev/gctool/internal/model"
	"github.com/cleared-dev/gctool/internal/value"
)

// Config represents the top-level gctool.yaml project file.
type Config struct {
	Book     string          `yaml:"book,omitempty"`
	Report   ReportConfig    `yaml:"report"`
	Reassign []ReassignGroup `yaml:"reassign,omitempty"`
	Git      GitConfig       `yaml:"git"`
}

// ReportConfig defines the periodic report.
type ReportConfig struct {
	DateRange     []string                  `yaml:"date_range,omitempty"` // [start, end], YYYY-MM-DD
	Currency      string                    `yaml:"currency"`
	ExchangeRates map[string]map[int]string `yaml:"exchange_rates,omitempty"` // commodity -> year -> rate
	Sections      []SectionConfig           `yaml:"sections"`
}

// SectionConfig is one report sheet.
type SectionConfig struct {
	Title     string   `yaml:"title"`
	AggPeriod string   `yaml:"agg_period"` // month, quarter or year
	Accounts  []string `yaml:"accounts"`
}

// ReassignGroup moves splits out of one account.
type ReassignGroup struct {
	Account string         `yaml:"account"`
	Rules   []ReassignRule `yaml:"rules"`
}

// ReassignRule sends splits whose description and memo match to another
// account. An empty pattern matches anything.
type ReassignRule struct {
	Description string `yaml:"description,omitempty"`
	Memo        string `yaml:"memo,omitempty"`
	To          string `yaml:"to"`
}

// GitConfig controls git integration.
type GitConfig struct {
	AutoCommit  bool   `yaml:"auto_commit"`
	AuthorName  string `yaml:"author_name"`
	AuthorEmail string `yaml:"author_email"`
}

// Load reads a gctool.yaml file from disk.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading config: %w", err)
	}
	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("parsing config: %w", err)
	}
	return &cfg, nil
}

// Save writes a Config to a YAML file.
func Save(path string, cfg *Config) error {
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("marshaling config: %w", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("writing config: %w", err)
	}
	return nil
}

// Default returns a Config with a starter report for a new project.
func Default(book string) *Config {
	return &Config{
		Book: book,
		Report: ReportConfig{
			Currency: "USD",
			Sections: []SectionConfig{
				{Title: "Expenses", AggPeriod: "month", Accounts: []string{"Expenses"}},
				{Title: "Income", AggPeriod: "quarter", Accounts: []string{"Income"}},
			},
		},
		Git: GitConfig{
			AutoCommit:  false,
			AuthorName:  "gctool",
			AuthorEmail: "gctool@localhost",
		},
	}
}

// Range returns the configured report date range, or nil when none is set.
func (r ReportConfig) Range() (*model.DateRange, error) {
	if len(r.DateRange) == 0 {
		return nil, nil
	}
	if len(r.DateRange) != 2 {
		return nil, fmt.Errorf("date_range: want [start, end], got %d values", len(r.DateRange))
	}
	start, err := value.ParseDate(r.DateRange[0])
	if err != nil {
		return nil, fmt.Errorf("date_range start: %w", err)
	}
	end, err := value.ParseDate(r.DateRange[1])
	if err != nil {
		return nil, fmt.Errorf("date_range end: %w", err)
	}
	if end.Before(start) {
		return nil, fmt.Errorf("date_range: end %s before start %s",
			end.Format(time.DateOnly), start.Format(time.DateOnly))
	}
	return &model.DateRange{Start: start, End: end}, nil
}

// Rates parses the exchange rate table. Rates are decimal strings so that
// they convert exactly.
func (r ReportConfig) Rates() (map[string]map[int]value.Amount, error) {
	out := make(map[string]map[int]value.Amount, len(r.ExchangeRates))
	for commodity, years := range r.ExchangeRates {
		out[commodity] = make(map[int]value.Amount, len(years))
		for year, raw := range years {
			d, err := decimal.NewFromString(raw)
			if err != nil {
				return nil, fmt.Errorf("exchange rate %s/%d: %w", commodity, year, err)
			}
			out[commodity][year] = value.FromDecimal(d)
		}
	}
	return out, nil
}
