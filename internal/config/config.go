// Package config provides configuration management for licensemaker.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/MacJediWizard/licensemaker/internal/license"
	"gopkg.in/yaml.v3"
)

// Defaults applied when the config file omits a value.
const (
	DefaultListenAddr        = ":8080"
	DefaultLogLevel          = "info"
	DefaultExpiryWarningDays = 30
	DefaultRateLimitRequests = 60
	DefaultRateLimitPeriod   = time.Minute
	DefaultMaxBodyBytes      = 64 * 1024
)

// DefaultConfigDir returns the default config directory (~/.licensemaker).
func DefaultConfigDir() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("get home directory: %w", err)
	}
	return filepath.Join(home, ".licensemaker"), nil
}

// DefaultConfigPath returns the default config file path (~/.licensemaker/config.yml).
func DefaultConfigPath() (string, error) {
	dir, err := DefaultConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, "config.yml"), nil
}

// DefaultLedgerPath returns the default ledger database path (~/.licensemaker/ledger.db).
func DefaultLedgerPath() (string, error) {
	dir, err := DefaultConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, "ledger.db"), nil
}

// PaddingConfig selects the padding alphabet and length.
type PaddingConfig struct {
	Alphabet string `yaml:"alphabet,omitempty"`
	Length   int    `yaml:"length,omitempty"`
}

// ServerSettings configures the HTTP issuance service.
type ServerSettings struct {
	ListenAddr        string        `yaml:"listen_addr,omitempty"`
	// RateLimitRequests is per client and period; 0 disables limiting.
	RateLimitRequests int           `yaml:"rate_limit_requests"`
	RateLimitPeriod   time.Duration `yaml:"rate_limit_period,omitempty"`
	MaxBodyBytes      int64         `yaml:"max_body_bytes,omitempty"`
}

// Config holds the license maker configuration.
type Config struct {
	// KeyPath is the RSA private key (PEM). Empty selects the keyless hash signer.
	KeyPath           string         `yaml:"key_path,omitempty"`
	Scheme            string         `yaml:"scheme,omitempty"`
	Padding           PaddingConfig  `yaml:"padding,omitempty"`
	Modules           []string       `yaml:"modules,omitempty"`
	LedgerPath        string         `yaml:"ledger_path,omitempty"`
	DisableLedger     bool           `yaml:"disable_ledger,omitempty"`
	ExpiryWarningDays int            `yaml:"expiry_warning_days,omitempty"`
	LogLevel          string         `yaml:"log_level,omitempty"`
	Server            ServerSettings `yaml:"server,omitempty"`
}

// Default returns a configuration with every default filled in.
func Default() *Config {
	cfg := &Config{
		Server: ServerSettings{RateLimitRequests: DefaultRateLimitRequests},
	}
	cfg.applyDefaults()
	return cfg
}

func (c *Config) applyDefaults() {
	if c.Scheme == "" {
		c.Scheme = string(license.SchemeModular)
	}
	if c.Padding.Alphabet == "" {
		c.Padding.Alphabet = string(license.AlphabetAlnum)
	}
	if c.Padding.Length == 0 {
		c.Padding.Length = license.DefaultPaddingLength
	}
	if c.ExpiryWarningDays == 0 {
		c.ExpiryWarningDays = DefaultExpiryWarningDays
	}
	if c.LogLevel == "" {
		c.LogLevel = DefaultLogLevel
	}
	if c.Server.ListenAddr == "" {
		c.Server.ListenAddr = DefaultListenAddr
	}
	if c.Server.RateLimitPeriod == 0 {
		c.Server.RateLimitPeriod = DefaultRateLimitPeriod
	}
	if c.Server.MaxBodyBytes == 0 {
		c.Server.MaxBodyBytes = DefaultMaxBodyBytes
	}
}

// Validate checks that the configuration can build an issuer and server.
func (c *Config) Validate() error {
	if _, err := license.ParseScheme(c.Scheme); err != nil {
		return fmt.Errorf("scheme: %w", err)
	}
	if _, err := license.ParseAlphabet(c.Padding.Alphabet); err != nil {
		return fmt.Errorf("padding.alphabet: %w", err)
	}
	if c.Padding.Length < 0 {
		return errors.New("padding.length must not be negative")
	}
	if len(c.Modules) > 0 && c.Catalog().Len() == 0 {
		return errors.New("modules must name at least one module")
	}
	if c.ExpiryWarningDays < 0 {
		return errors.New("expiry_warning_days must not be negative")
	}
	if c.Server.RateLimitRequests < 0 {
		return errors.New("server.rate_limit_requests must not be negative")
	}
	if c.Server.RateLimitPeriod < 0 {
		return errors.New("server.rate_limit_period must not be negative")
	}
	if c.Server.MaxBodyBytes < 0 {
		return errors.New("server.max_body_bytes must not be negative")
	}
	return nil
}

// Catalog returns the configured module catalog, or the default catalog
// when no modules are configured.
func (c *Config) Catalog() *license.Catalog {
	if len(c.Modules) == 0 {
		return license.DefaultCatalog()
	}
	modules := make([]license.Module, 0, len(c.Modules))
	for _, name := range c.Modules {
		modules = append(modules, license.Module(strings.TrimSpace(name)))
	}
	return license.NewCatalog(modules)
}

// NewIssuer builds an issuer from the configuration.
func (c *Config) NewIssuer() (*license.Issuer, error) {
	scheme, err := license.ParseScheme(c.Scheme)
	if err != nil {
		return nil, err
	}
	alphabet, err := license.ParseAlphabet(c.Padding.Alphabet)
	if err != nil {
		return nil, err
	}
	padder, err := license.NewPadder(alphabet, c.Padding.Length)
	if err != nil {
		return nil, fmt.Errorf("create padder: %w", err)
	}
	signer, err := license.NewSigner(c.KeyPath)
	if err != nil {
		return nil, err
	}
	return license.NewIssuer(license.IssuerConfig{
		Scheme:  scheme,
		Catalog: c.Catalog(),
		Signer:  signer,
		Padder:  padder,
	})
}

// ResolvedLedgerPath returns LedgerPath, or the default ledger path when unset.
func (c *Config) ResolvedLedgerPath() (string, error) {
	if c.LedgerPath != "" {
		return c.LedgerPath, nil
	}
	return DefaultLedgerPath()
}

// Load reads the configuration from the given path.
// If the file does not exist, the defaults are returned.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return Default(), nil
		}
		return nil, fmt.Errorf("read config file: %w", err)
	}

	// Fields missing from the file keep their defaults; an explicit zero
	// rate_limit_requests survives.
	cfg := Default()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parse config file: %w", err)
	}
	cfg.applyDefaults()

	return cfg, nil
}

// LoadDefault loads the configuration from the default path.
func LoadDefault() (*Config, error) {
	path, err := DefaultConfigPath()
	if err != nil {
		return nil, err
	}
	return Load(path)
}

// Save writes the configuration to the given path, creating directories as needed.
func (c *Config) Save(path string) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0700); err != nil {
		return fmt.Errorf("create config directory: %w", err)
	}

	data, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("marshal config: %w", err)
	}

	// Write with restricted permissions (user-only read/write)
	if err := os.WriteFile(path, data, 0600); err != nil {
		return fmt.Errorf("write config file: %w", err)
	}

	return nil
}
