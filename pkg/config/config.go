// pkg/config/config.go
package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"

	"github.com/market-radar/dataquality/pkg/model"
)

// Config represents the engine configuration. Everything here is overridable
// without code changes: environment variables first, then an optional YAML
// file referenced by QUALITY_CONFIG_FILE.
type Config struct {
	// Classification
	PatternGroups    []PatternGroup `yaml:"pattern_groups"`
	DateFormats      []string       `yaml:"date_formats"`
	CategoryMaxRatio float64        `yaml:"category_max_ratio"`
	SampleSize       int            `yaml:"sample_size"`

	// Monitoring
	MonitoringDir string                `yaml:"monitoring_dir"`
	Thresholds    model.AlertThresholds `yaml:"alert_thresholds"`

	// Validation
	RuleCatalogDir string `yaml:"rule_catalog_dir"`

	// Audit database (optional; audit is disabled when the DSN is empty)
	AuditDSN string `yaml:"audit_dsn"`

	// Logging
	LogLevel  string `yaml:"log_level"`
	LogFormat string `yaml:"log_format"`
}

// PatternGroup binds a set of column-name keywords to a semantic type. The
// slice order is the tie-break priority: the first matching group wins.
type PatternGroup struct {
	Type     string   `yaml:"type"`
	Keywords []string `yaml:"keywords"`
}

// SemanticType resolves the group's declared type name.
func (g PatternGroup) SemanticType() (model.SemanticType, error) {
	return model.ParseSemanticType(g.Type)
}

// LoadConfig loads configuration from the environment, applying YAML
// overrides when QUALITY_CONFIG_FILE is set. A .env file is honored when
// present.
func LoadConfig() (*Config, error) {
	// Best-effort; absence of a .env file is normal.
	_ = godotenv.Load()

	cfg := DefaultConfig()

	cfg.MonitoringDir = getEnv("MONITORING_DIR", cfg.MonitoringDir)
	cfg.RuleCatalogDir = getEnv("RULE_CATALOG_DIR", cfg.RuleCatalogDir)
	cfg.AuditDSN = getEnv("AUDIT_DATABASE_URL", cfg.AuditDSN)
	cfg.LogLevel = getEnv("LOG_LEVEL", cfg.LogLevel)
	cfg.LogFormat = getEnv("LOG_FORMAT", cfg.LogFormat)
	cfg.SampleSize = getEnvAsInt("CLASSIFIER_SAMPLE_SIZE", cfg.SampleSize)
	cfg.CategoryMaxRatio = getEnvAsFloat("CATEGORY_MAX_RATIO", cfg.CategoryMaxRatio)

	cfg.Thresholds.MinSuccessRate = getEnvAsFloat("ALERT_MIN_SUCCESS_RATE", cfg.Thresholds.MinSuccessRate)
	cfg.Thresholds.MaxDurationSeconds = getEnvAsFloat("ALERT_MAX_DURATION_SECONDS", cfg.Thresholds.MaxDurationSeconds)
	cfg.Thresholds.MinQualityScore = getEnvAsFloat("ALERT_MIN_QUALITY_SCORE", cfg.Thresholds.MinQualityScore)
	cfg.Thresholds.MaxErrorRate = getEnvAsFloat("ALERT_MAX_ERROR_RATE", cfg.Thresholds.MaxErrorRate)

	if path := os.Getenv("QUALITY_CONFIG_FILE"); path != "" {
		if err := cfg.applyFile(path); err != nil {
			return nil, fmt.Errorf("failed to load config file %s: %w", path, err)
		}
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// DefaultConfig returns the built-in configuration: the canonical pattern
// groups in fixed priority order and the date format priority list.
func DefaultConfig() *Config {
	return &Config{
		PatternGroups: []PatternGroup{
			{Type: "identifier", Keywords: []string{"id", "number", "account"}},
			{Type: "currency", Keywords: []string{"fee", "paid", "cost", "price", "amount", "total", "subtotal"}},
			{Type: "geo_lat", Keywords: []string{"latitude", "lat"}},
			{Type: "geo_lon", Keywords: []string{"longitude", "lon", "lng"}},
			{Type: "administrative_int", Keywords: []string{"community_area", "ward", "precinct", "district", "ssa"}},
			{Type: "date", Keywords: []string{"date", "created", "issued", "start", "end", "expiration"}},
			{Type: "boolean", Keywords: []string{"flag", "approval", "approved", "is_"}},
			{Type: "category", Keywords: []string{"status", "type", "category", "description"}},
		},
		DateFormats: []string{
			"2006-01-02T15:04:05.000",
			"2006-01-02T15:04:05",
			"2006-01-02 15:04:05",
			"2006-01-02",
			"01/02/2006",
			"01-02-2006",
			"2006/01/02",
		},
		CategoryMaxRatio: 0.5,
		SampleSize:       10,
		MonitoringDir:    "data/monitoring",
		Thresholds:       model.DefaultAlertThresholds(),
		LogLevel:         "info",
		LogFormat:        "json",
	}
}

// applyFile overlays YAML values onto the config.
func (c *Config) applyFile(path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return err
	}
	return yaml.Unmarshal(data, c)
}

// Validate ensures all required configuration is present and valid.
func (c *Config) Validate() error {
	if len(c.PatternGroups) == 0 {
		return errors.New("at least one pattern group is required")
	}
	for _, g := range c.PatternGroups {
		if _, err := g.SemanticType(); err != nil {
			return fmt.Errorf("invalid pattern group: %w", err)
		}
	}
	if len(c.DateFormats) == 0 {
		return errors.New("date format priority list cannot be empty")
	}
	if c.CategoryMaxRatio <= 0 || c.CategoryMaxRatio > 1 {
		return errors.New("category max ratio must be in (0,1]")
	}
	if c.SampleSize <= 0 {
		return errors.New("sample size must be positive")
	}
	if strings.TrimSpace(c.MonitoringDir) == "" {
		return errors.New("monitoring directory is required")
	}
	return nil
}

// Helper functions for environment variables
func getEnv(key, defaultValue string) string {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	return value
}

func getEnvAsInt(key string, defaultValue int) int {
	valueStr := getEnv(key, "")
	if valueStr == "" {
		return defaultValue
	}

	value, err := strconv.Atoi(valueStr)
	if err != nil {
		return defaultValue
	}
	return value
}

func getEnvAsFloat(key string, defaultValue float64) float64 {
	valueStr := getEnv(key, "")
	if valueStr == "" {
		return defaultValue
	}

	value, err := strconv.ParseFloat(valueStr, 64)
	if err != nil {
		return defaultValue
	}
	return value
}
