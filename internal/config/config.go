package config

import (
	"fmt"
	"math"
	"os"
	"strconv"
	"time"

	"gopkg.in/yaml.v3"
)

type Config struct {
	Server         ServerConfig    `yaml:"server"`
	Database       DatabaseConfig  `yaml:"database"`
	Hermes         HermesConfig    `yaml:"hermes"`
	Notify         NotifyConfig    `yaml:"notify"`
	DefaultVariant string          `yaml:"default_variant"`
	Variants       []VariantConfig `yaml:"variants"`
	Logging        LoggingConfig   `yaml:"logging"`
}

type ServerConfig struct {
	Port              int    `yaml:"port"`
	MetricsPort       int    `yaml:"metrics_port"`
	AdminToken        string `yaml:"admin_token"`
	RateLimitPerMin   int    `yaml:"rate_limit_per_min"`
	ShutdownTimeoutMs int    `yaml:"shutdown_timeout_ms"`
}

// DatabaseConfig selects the lead sink. Driver is "postgres" or "sqlite";
// for sqlite the URL is a file path or ":memory:".
type DatabaseConfig struct {
	Driver string `yaml:"driver"`
	URL    string `yaml:"url"`
}

type HermesConfig struct {
	URL string `yaml:"url"`
}

type NotifyConfig struct {
	URL       string `yaml:"url"`
	APIKey    string `yaml:"api_key"`
	From      string `yaml:"from"`
	To        string `yaml:"to"`
	OnLead    bool   `yaml:"on_lead"`
	TimeoutMs int    `yaml:"timeout_ms"`
}

// VariantConfig is one landing-page scoring profile.
type VariantConfig struct {
	Name                 string         `yaml:"name"`
	MinPallets           int            `yaml:"min_pallets"`
	MaxPallets           int            `yaml:"max_pallets"`
	Region               BandConfig     `yaml:"region"`
	RequireDestination   bool           `yaml:"require_destination"`
	RequireEmail         bool           `yaml:"require_email"`
	RequireCommodity     bool           `yaml:"require_commodity"`
	ReliabilityInput     bool           `yaml:"reliability_input"`
	ReliabilityBaseline  float64        `yaml:"reliability_baseline"`
	RelationshipBaseline float64        `yaml:"relationship_baseline"`
	Efficiency           RampConfig     `yaml:"efficiency"`
	MetroTiers           []TierConfig   `yaml:"metro_tiers"`
	DefaultMatch         float64        `yaml:"default_match"`
	Weights              VariantWeights `yaml:"weights"`
	LegacyHPS            bool           `yaml:"legacy_hps"`
	RateCheck            bool           `yaml:"rate_check"`
}

type BandConfig struct {
	Low  int `yaml:"low"`
	High int `yaml:"high"`
}

type RampConfig struct {
	Floor float64 `yaml:"floor"`
	Step  float64 `yaml:"step"`
	Cap   float64 `yaml:"cap"`
}

type TierConfig struct {
	Name  string  `yaml:"name"`
	Low   int     `yaml:"low"`
	High  int     `yaml:"high"`
	Score float64 `yaml:"score"`
}

type VariantWeights struct {
	Reliability      float64 `yaml:"reliability"`
	Efficiency       float64 `yaml:"efficiency"`
	Relationship     float64 `yaml:"relationship"`
	MatchSuccess     float64 `yaml:"match_success"`
	DestinationMatch float64 `yaml:"destination_match"`
}

func (w VariantWeights) Sum() float64 {
	return w.Reliability + w.Efficiency + w.Relationship + w.MatchSuccess + w.DestinationMatch
}

type LoggingConfig struct {
	Level  string `yaml:"level"`
	Format string `yaml:"format"`
}

func (c *Config) ShutdownTimeout() time.Duration {
	return time.Duration(c.Server.ShutdownTimeoutMs) * time.Millisecond
}

func (c *Config) NotifyTimeout() time.Duration {
	return time.Duration(c.Notify.TimeoutMs) * time.Millisecond
}

// Variant returns the named profile, or the default profile when name is empty.
func (c *Config) Variant(name string) (VariantConfig, bool) {
	if name == "" {
		name = c.DefaultVariant
	}
	for _, v := range c.Variants {
		if v.Name == name {
			return v, true
		}
	}
	return VariantConfig{}, false
}

// Validate rejects configurations that could produce a composite outside 0–100.
func (c *Config) Validate() error {
	if len(c.Variants) == 0 {
		return fmt.Errorf("no variants configured")
	}
	if _, ok := c.Variant(c.DefaultVariant); !ok {
		return fmt.Errorf("default variant %q not configured", c.DefaultVariant)
	}
	seen := make(map[string]bool, len(c.Variants))
	for _, v := range c.Variants {
		if v.Name == "" {
			return fmt.Errorf("variant name required")
		}
		if seen[v.Name] {
			return fmt.Errorf("duplicate variant %q", v.Name)
		}
		seen[v.Name] = true
		if err := v.validate(); err != nil {
			return fmt.Errorf("variant %s: %w", v.Name, err)
		}
	}
	switch c.Database.Driver {
	case "", "postgres", "sqlite":
	default:
		return fmt.Errorf("unsupported database driver %q", c.Database.Driver)
	}
	return nil
}

func (v VariantConfig) validate() error {
	if v.MinPallets < 0 || v.MinPallets > v.MaxPallets {
		return fmt.Errorf("pallet bounds [%d,%d] invalid", v.MinPallets, v.MaxPallets)
	}
	if v.Region.Low < 0 || v.Region.High > 99999 || v.Region.Low > v.Region.High {
		return fmt.Errorf("region [%05d,%05d] invalid", v.Region.Low, v.Region.High)
	}
	if math.Abs(v.Weights.Sum()-1.0) > 0.001 {
		return fmt.Errorf("weights sum to %.4f, must sum to 1.0", v.Weights.Sum())
	}
	for _, w := range []float64{v.Weights.Reliability, v.Weights.Efficiency, v.Weights.Relationship,
		v.Weights.MatchSuccess, v.Weights.DestinationMatch} {
		if w < 0 {
			return fmt.Errorf("negative weight: %f", w)
		}
	}
	if v.Efficiency.Step < 0 {
		return fmt.Errorf("efficiency step must be non-negative")
	}
	if v.Efficiency.Cap < v.Efficiency.Floor {
		return fmt.Errorf("efficiency cap %.1f below floor %.1f", v.Efficiency.Cap, v.Efficiency.Floor)
	}
	for _, t := range v.MetroTiers {
		if t.Low > t.High {
			return fmt.Errorf("metro tier %s: band [%05d,%05d] invalid", t.Name, t.Low, t.High)
		}
	}
	return nil
}

// DefaultVariants returns the built-in landing-page profiles.
func DefaultVariants() []VariantConfig {
	utah := BandConfig{Low: 84001, High: 84784}
	wasatch := []TierConfig{
		{Name: "salt_lake", Low: 84101, High: 84199, Score: 95},
		{Name: "utah_county", Low: 84601, High: 84699, Score: 90},
		{Name: "ogden", Low: 84401, High: 84499, Score: 88},
	}
	ramp := RampConfig{Floor: 70, Step: 5, Cap: 100}
	standard := VariantWeights{Reliability: 0.4, Efficiency: 0.3, Relationship: 0.2, MatchSuccess: 0.1}

	return []VariantConfig{
		{
			Name:                 "check-my-load",
			MinPallets:           4,
			MaxPallets:           10,
			Region:               utah,
			ReliabilityBaseline:  85,
			RelationshipBaseline: 75,
			Efficiency:           ramp,
			MetroTiers:           wasatch,
			DefaultMatch:         70,
			Weights:              standard,
		},
		{
			Name:                 "reliability-audit",
			MinPallets:           1,
			MaxPallets:           10,
			Region:               utah,
			RequireEmail:         true,
			ReliabilityInput:     true,
			ReliabilityBaseline:  85,
			RelationshipBaseline: 75,
			Efficiency:           RampConfig{Floor: 55, Step: 5, Cap: 100},
			MetroTiers:           wasatch,
			DefaultMatch:         70,
			Weights:              standard,
			LegacyHPS:            true,
		},
		{
			Name:                 "lane-match",
			MinPallets:           1,
			MaxPallets:           12,
			Region:               utah,
			RequireDestination:   true,
			ReliabilityBaseline:  85,
			RelationshipBaseline: 75,
			Efficiency:           RampConfig{Floor: 55, Step: 4, Cap: 100},
			MetroTiers:           wasatch,
			DefaultMatch:         70,
			Weights: VariantWeights{
				Reliability: 0.4, Efficiency: 0.3, Relationship: 0.2,
				MatchSuccess: 0.06, DestinationMatch: 0.04,
			},
		},
		{
			Name:                 "rate-check",
			MinPallets:           1,
			MaxPallets:           12,
			Region:               utah,
			ReliabilityBaseline:  85,
			RelationshipBaseline: 75,
			Efficiency:           RampConfig{Floor: 55, Step: 4, Cap: 100},
			MetroTiers:           wasatch,
			DefaultMatch:         70,
			Weights:              standard,
			RateCheck:            true,
		},
	}
}

func Load(path string) (*Config, error) {
	cfg := &Config{
		Server: ServerConfig{
			Port:              8700,
			MetricsPort:       8701,
			RateLimitPerMin:   60,
			ShutdownTimeoutMs: 10000,
		},
		Database: DatabaseConfig{
			Driver: "sqlite",
			URL:    "hitchyard.db",
		},
		Notify: NotifyConfig{
			URL:       "https://api.resend.com",
			From:      "Hitchyard Advisor <onboarding@resend.dev>",
			To:        "advisor@hitchyard.com",
			OnLead:    true,
			TimeoutMs: 10000,
		},
		DefaultVariant: "check-my-load",
		Variants:       DefaultVariants(),
		Logging: LoggingConfig{
			Level:  "info",
			Format: "json",
		},
	}

	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("read config: %w", err)
		}
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("parse config: %w", err)
		}
	}

	applyEnv(cfg)
	return cfg, nil
}

func applyEnv(cfg *Config) {
	if v := os.Getenv("HITCHYARD_PORT"); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			cfg.Server.Port = n
		}
	}
	if v := os.Getenv("HITCHYARD_METRICS_PORT"); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			cfg.Server.MetricsPort = n
		}
	}
	if v := os.Getenv("HITCHYARD_ADMIN_TOKEN"); v != "" {
		cfg.Server.AdminToken = v
	}
	if v := os.Getenv("HITCHYARD_DATABASE_DRIVER"); v != "" {
		cfg.Database.Driver = v
	}
	if v := os.Getenv("HITCHYARD_DATABASE_URL"); v != "" {
		cfg.Database.URL = v
	}
	if v := os.Getenv("HITCHYARD_HERMES_URL"); v != "" {
		cfg.Hermes.URL = v
	}
	if v := os.Getenv("RESEND_API_KEY"); v != "" {
		cfg.Notify.APIKey = v
	}
	if v := os.Getenv("HITCHYARD_NOTIFY_URL"); v != "" {
		cfg.Notify.URL = v
	}
	if v := os.Getenv("HITCHYARD_NOTIFY_FROM"); v != "" {
		cfg.Notify.From = v
	}
	if v := os.Getenv("HITCHYARD_NOTIFY_TO"); v != "" {
		cfg.Notify.To = v
	}
	if v := os.Getenv("HITCHYARD_NOTIFY_ON_LEAD"); v != "" {
		if b, err := strconv.ParseBool(v); err == nil {
			cfg.Notify.OnLead = b
		}
	}
	if v := os.Getenv("HITCHYARD_DEFAULT_VARIANT"); v != "" {
		cfg.DefaultVariant = v
	}
	if v := os.Getenv("HITCHYARD_LOG_LEVEL"); v != "" {
		cfg.Logging.Level = v
	}
	if v := os.Getenv("HITCHYARD_LOG_FORMAT"); v != "" {
		cfg.Logging.Format = v
	}
}
