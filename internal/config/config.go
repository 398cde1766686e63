package config

import (
	"errors"
	"fmt"
	"os"
	"unicode/utf8"

	"gopkg.in/yaml.v3"

	"github.com/alexanderjulianmartinez/rowsearch/internal/search"
)

var ErrTableNotFound = errors.New("table not found in config")

const (
	SourceCSV    = "csv"
	SourceXLSX   = "xlsx"
	SourceMySQL  = "mysql"
	SourceSQLite = "sqlite"

	EventsNone  = "none"
	EventsKafka = "kafka"
)

type Config struct {
	Log    LogConfig     `yaml:"log"`
	Search SearchConfig  `yaml:"search"`
	Events EventsConfig  `yaml:"events"`
	Tables []TableConfig `yaml:"tables"`
}

type LogConfig struct {
	Level  string `yaml:"level"`
	Format string `yaml:"format"`
}

type SearchConfig struct {
	// Normalization is "lower" (default) or "alnum".
	Normalization string `yaml:"normalization"`
}

type EventsConfig struct {
	Type    string   `yaml:"type"`
	Brokers []string `yaml:"brokers"`
	Topic   string   `yaml:"topic"`
}

type TableConfig struct {
	Name   string       `yaml:"name"`
	Source SourceConfig `yaml:"source"`
}

type SourceConfig struct {
	Type string `yaml:"type"`

	// csv and xlsx
	Path          string   `yaml:"path"`
	Delimiter     string   `yaml:"delimiter"`
	Encoding      string   `yaml:"encoding"`
	Sheet         string   `yaml:"sheet"`
	CreateColumns []string `yaml:"createColumns"`

	// mysql and sqlite
	DSN    string `yaml:"dsn"`
	Schema string `yaml:"schema"`
	Table  string `yaml:"table"`
}

func LoadConfig(path string) (*Config, error) {
	if path == "" {
		return nil, errors.New("config path is required")
	}

	_, err := os.Stat(path)
	if err != nil {
		return nil, fmt.Errorf("config file not found: %w", err)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config file: %w", err)
	}

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("parse config: %w", err)
	}

	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func (c *Config) validate() error {
	if _, err := search.ParsePolicy(c.Search.Normalization); err != nil {
		return fmt.Errorf("search.normalization: %w", err)
	}
	switch c.Events.Type {
	case "", EventsNone:
	case EventsKafka:
		if len(c.Events.Brokers) == 0 {
			return errors.New("events.brokers is required for kafka")
		}
		if c.Events.Topic == "" {
			return errors.New("events.topic is required for kafka")
		}
	default:
		return fmt.Errorf("events.type must be none or kafka, got %q", c.Events.Type)
	}
	if len(c.Tables) == 0 {
		return errors.New("at least one table is required")
	}
	seen := map[string]bool{}
	for _, table := range c.Tables {
		if table.Name == "" {
			return errors.New("table.name is required")
		}
		if seen[table.Name] {
			return fmt.Errorf("table %s is declared twice", table.Name)
		}
		seen[table.Name] = true
		if err := table.Source.validate(); err != nil {
			return fmt.Errorf("table %s: %w", table.Name, err)
		}
	}
	return nil
}

func (s *SourceConfig) validate() error {
	switch s.Type {
	case SourceCSV, SourceXLSX:
		if s.Path == "" {
			return fmt.Errorf("source.path is required for %s", s.Type)
		}
		if s.Delimiter != "" && utf8.RuneCountInString(s.Delimiter) != 1 {
			return errors.New("source.delimiter must be a single character")
		}
	case SourceMySQL:
		if s.DSN == "" {
			return errors.New("source.dsn is required")
		}
		if s.Schema == "" {
			return errors.New("source.schema is required")
		}
		if s.Table == "" {
			return errors.New("source.table is required")
		}
	case SourceSQLite:
		if s.Path == "" && s.DSN == "" {
			return errors.New("source.path is required for sqlite")
		}
		if s.Table == "" {
			return errors.New("source.table is required")
		}
	default:
		return fmt.Errorf("source.type must be csv, xlsx, mysql or sqlite, got %q", s.Type)
	}
	return nil
}

// DelimiterRune returns the configured delimiter, or 0 for the default.
func (s SourceConfig) DelimiterRune() rune {
	r, _ := utf8.DecodeRuneInString(s.Delimiter)
	if r == utf8.RuneError {
		return 0
	}
	return r
}

func (c *Config) Table(name string) (TableConfig, error) {
	for _, t := range c.Tables {
		if t.Name == name {
			return t, nil
		}
	}
	return TableConfig{}, fmt.Errorf("%w: %s", ErrTableNotFound, name)
}

// Policy returns the configured normalization policy. The config has already
// been validated, so the error is never set for a loaded config.
func (c *Config) Policy() search.Policy {
	p, _ := search.ParsePolicy(c.Search.Normalization)
	return p
}
