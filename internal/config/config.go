package config

import (
	"errors"
	"fmt"
	"log"
	"os"
	"regexp"
	"strconv"
	"time"

	"gopkg.in/yaml.v3"
)

const (
	configPathEnv  = "PERIODICAL_SCANNER_CONFIG"
	logLevelEnv    = "LOG_LEVEL"
	logFormatEnv   = "LOG_FORMAT"
	dbDriverEnv    = "DATABASE_DRIVER"
	databaseDSNEnv = "DATABASE_DSN"
	outputDirEnv   = "OUTPUT_DIR"
	concurrencyEnv = "SCANNER_CONCURRENCY"

	defaultConcurrency = 6
	maxConcurrency     = 16
)

// Config holds high-level settings required across the application.
type Config struct {
	Logging  LoggingConfig   `yaml:"logging"`
	HTTP     HTTPConfig      `yaml:"http"`
	Retry    RetryConfig     `yaml:"retry"`
	Workers  WorkersConfig   `yaml:"workers"`
	Output   OutputConfig    `yaml:"output"`
	Seed     SeedConfig      `yaml:"seed"`
	Database DatabaseConfig  `yaml:"database"`
	Journals []JournalConfig `yaml:"journals"`
}

// LoggingConfig selects the slog level and handler format.
type LoggingConfig struct {
	Level  string `yaml:"level"`
	Format string `yaml:"format"`
}

// HTTPConfig tunes the page fetcher.
type HTTPConfig struct {
	Timeout   time.Duration `yaml:"timeout"`
	UserAgent string        `yaml:"userAgent"`
}

// RetryConfig is the single retry policy applied at the fetch boundary.
type RetryConfig struct {
	MaxAttempts int           `yaml:"maxAttempts"`
	WaitTime    time.Duration `yaml:"waitTime"`
	MaxWaitTime time.Duration `yaml:"maxWaitTime"`
}

// WorkersConfig bounds concurrent article detail fetches.
type WorkersConfig struct {
	Concurrency int `yaml:"concurrency"`
}

// OutputConfig says where scraped JSON files go.
type OutputConfig struct {
	Dir string `yaml:"dir"`
}

// SeedConfig says where generated seed scripts go and in which format.
type SeedConfig struct {
	Dir    string `yaml:"dir"`
	Format string `yaml:"format"`
}

// DatabaseConfig describes the optional corpus database.
type DatabaseConfig struct {
	Driver string `yaml:"driver"`
	DSN    string `yaml:"dsn"`
}

// Load reads YAML configuration (if present) and applies environment overrides.
// An explicit path wins over the environment variable.
func Load(path string) (Config, error) {
	cfg := defaultConfig()

	if path == "" {
		path = os.Getenv(configPathEnv)
	}
	if path != "" {
		raw, err := os.ReadFile(path)
		if err != nil {
			return Config{}, fmt.Errorf("config: read %s: %w", path, err)
		}
		var fileCfg Config
		if err := yaml.Unmarshal(raw, &fileCfg); err != nil {
			return Config{}, fmt.Errorf("config: parse %s: %w", path, err)
		}
		cfg = mergeConfig(cfg, fileCfg)
	}

	cfg.applyEnvOverrides()
	cfg.clamp()

	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Journal returns the journal configured under slug.
func (c Config) Journal(slug string) (JournalConfig, bool) {
	for _, j := range c.Journals {
		if j.Slug == slug {
			return j, true
		}
	}
	return JournalConfig{}, false
}

// JournalByFile returns the journal whose output file name is fileName.
func (c Config) JournalByFile(fileName string) (JournalConfig, bool) {
	for _, j := range c.Journals {
		if j.FileName == fileName {
			return j, true
		}
	}
	return JournalConfig{}, false
}

// Validate checks invariants that would otherwise surface mid-run.
func (c Config) Validate() error {
	var errs []error
	seen := map[string]bool{}
	for i, j := range c.Journals {
		if j.Slug == "" {
			errs = append(errs, fmt.Errorf("journal #%d: slug is required", i))
			continue
		}
		if seen[j.Slug] {
			errs = append(errs, fmt.Errorf("journal %s: duplicate slug", j.Slug))
		}
		seen[j.Slug] = true
		if err := j.Validate(); err != nil {
			errs = append(errs, err)
		}
	}

	switch c.Seed.Format {
	case "ruby", "sql":
	default:
		errs = append(errs, fmt.Errorf("seed format %q: want ruby or sql", c.Seed.Format))
	}

	if len(errs) > 0 {
		return fmt.Errorf("config: %w", errors.Join(errs...))
	}
	return nil
}

func (c *Config) applyEnvOverrides() {
	if v := os.Getenv(logLevelEnv); v != "" {
		c.Logging.Level = v
	}
	if v := os.Getenv(logFormatEnv); v != "" {
		c.Logging.Format = v
	}
	if v := os.Getenv(dbDriverEnv); v != "" {
		c.Database.Driver = v
	}
	if v := os.Getenv(databaseDSNEnv); v != "" {
		c.Database.DSN = v
	}
	if v := os.Getenv(outputDirEnv); v != "" {
		c.Output.Dir = v
	}
	if v := os.Getenv(concurrencyEnv); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			log.Printf("config: ignoring %s=%q: %v", concurrencyEnv, v, err)
		} else {
			c.Workers.Concurrency = n
		}
	}
}

func (c *Config) clamp() {
	if c.Workers.Concurrency < 1 {
		c.Workers.Concurrency = 1
	}
	if c.Workers.Concurrency > maxConcurrency {
		c.Workers.Concurrency = maxConcurrency
	}
	if c.Retry.MaxAttempts < 1 {
		c.Retry.MaxAttempts = 1
	}
}

func mergeConfig(base, override Config) Config {
	if override.Logging.Level != "" {
		base.Logging.Level = override.Logging.Level
	}
	if override.Logging.Format != "" {
		base.Logging.Format = override.Logging.Format
	}

	if override.HTTP.Timeout > 0 {
		base.HTTP.Timeout = override.HTTP.Timeout
	}
	if override.HTTP.UserAgent != "" {
		base.HTTP.UserAgent = override.HTTP.UserAgent
	}

	if override.Retry.MaxAttempts != 0 {
		base.Retry.MaxAttempts = override.Retry.MaxAttempts
	}
	if override.Retry.WaitTime > 0 {
		base.Retry.WaitTime = override.Retry.WaitTime
	}
	if override.Retry.MaxWaitTime > 0 {
		base.Retry.MaxWaitTime = override.Retry.MaxWaitTime
	}

	if override.Workers.Concurrency != 0 {
		base.Workers.Concurrency = override.Workers.Concurrency
	}

	if override.Output.Dir != "" {
		base.Output.Dir = override.Output.Dir
	}
	if override.Seed.Dir != "" {
		base.Seed.Dir = override.Seed.Dir
	}
	if override.Seed.Format != "" {
		base.Seed.Format = override.Seed.Format
	}

	if override.Database.Driver != "" {
		base.Database.Driver = override.Database.Driver
	}
	if override.Database.DSN != "" {
		base.Database.DSN = override.Database.DSN
	}

	base.Journals = mergeJournals(base.Journals, override.Journals)

	return base
}

// mergeJournals replaces built-in journals by slug and appends new ones.
func mergeJournals(base, override []JournalConfig) []JournalConfig {
	out := make([]JournalConfig, len(base))
	copy(out, base)
	for _, j := range override {
		replaced := false
		for i := range out {
			if out[i].Slug == j.Slug {
				out[i] = j
				replaced = true
				break
			}
		}
		if !replaced {
			out = append(out, j)
		}
	}
	return out
}

func defaultConfig() Config {
	return Config{
		Logging: LoggingConfig{Level: "info", Format: "text"},
		HTTP: HTTPConfig{
			Timeout:   30 * time.Second,
			UserAgent: "PeriodicalScanner/1.0",
		},
		Retry: RetryConfig{
			MaxAttempts: 2,
			WaitTime:    500 * time.Millisecond,
			MaxWaitTime: 5 * time.Second,
		},
		Workers:  WorkersConfig{Concurrency: defaultConcurrency},
		Output:   OutputConfig{Dir: "raw"},
		Seed:     SeedConfig{Dir: "seeds", Format: "ruby"},
		Database: DatabaseConfig{Driver: "sqlite", DSN: "periodicals.db"},
		Journals: builtinJournals(),
	}
}

func compileOptional(pattern string) (*regexp.Regexp, error) {
	if pattern == "" {
		return nil, nil
	}
	return regexp.Compile(pattern)
}
