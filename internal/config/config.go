// Package config loads the environment-driven configuration for the sn2n server.
package config

import (
	"fmt"
	"os"
	"strconv"
)

// Config holds all environment-derived settings for a running server.
type Config struct {
	// NotionToken is the integration token used for every outbound Notion call.
	NotionToken string

	// NotionVersion is the API version date header sent to Notion.
	NotionVersion string

	// Port is the HTTP listen port.
	Port string

	// VerboseLogging enables debug-level logging and stack traces on fatal errors.
	VerboseLogging bool

	// StrictDOMOrder is carried into the walker's Context; no walk step reads
	// it, so the block output is the same whether it is set or not.
	StrictDOMOrder bool

	// ServiceNowOrigin is the instance origin used to resolve relative URLs.
	ServiceNowOrigin string

	// NotionRateLimitRPS caps outbound Notion requests per second.
	NotionRateLimitRPS float64

	// NotionBatchSize caps children per create/append request.
	NotionBatchSize int

	// ValidationCoverageThreshold is the minimum coverage fraction for Status=Complete.
	ValidationCoverageThreshold float64

	// ValidationMissingThreshold is the maximum missing-span count for Status=Complete.
	ValidationMissingThreshold int

	// ValidationMethod selects the comparator algorithm ("lcs" or "jaccard").
	ValidationMethod string
}

// DefaultConfig returns a Config with sensible defaults; callers overlay
// environment variables with Load.
func DefaultConfig() *Config {
	return &Config{
		NotionVersion:               "2022-06-28",
		Port:                        "8080",
		VerboseLogging:              false,
		StrictDOMOrder:              false,
		ServiceNowOrigin:            "",
		NotionRateLimitRPS:          3,
		NotionBatchSize:             100,
		ValidationCoverageThreshold: 0.97,
		ValidationMissingThreshold:  0,
		ValidationMethod:            "lcs",
	}
}

// Load builds a Config from the process environment, applying defaults for
// anything unset.
func Load() (*Config, error) {
	cfg := DefaultConfig()

	cfg.NotionToken = os.Getenv("NOTION_TOKEN")
	if v := os.Getenv("NOTION_VERSION"); v != "" {
		cfg.NotionVersion = v
	}
	if v := os.Getenv("PORT"); v != "" {
		cfg.Port = v
	}
	if v := os.Getenv("SERVICENOW_ORIGIN"); v != "" {
		cfg.ServiceNowOrigin = v
	}
	if v := os.Getenv("VALIDATION_METHOD"); v != "" {
		cfg.ValidationMethod = v
	}

	cfg.VerboseLogging = boolEnv("VERBOSE_LOGGING", cfg.VerboseLogging)
	cfg.StrictDOMOrder = boolEnv("STRICT_DOM_ORDER", cfg.StrictDOMOrder)

	var err error
	if cfg.NotionRateLimitRPS, err = floatEnv("NOTION_RATE_LIMIT_RPS", cfg.NotionRateLimitRPS); err != nil {
		return nil, err
	}
	if cfg.NotionBatchSize, err = intEnv("NOTION_BATCH_SIZE", cfg.NotionBatchSize); err != nil {
		return nil, err
	}
	if cfg.ValidationCoverageThreshold, err = floatEnv("VALIDATION_COVERAGE_THRESHOLD", cfg.ValidationCoverageThreshold); err != nil {
		return nil, err
	}
	if cfg.ValidationMissingThreshold, err = intEnv("VALIDATION_MISSING_THRESHOLD", cfg.ValidationMissingThreshold); err != nil {
		return nil, err
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

// Validate checks required fields.
func (c *Config) Validate() error {
	if c.NotionToken == "" {
		return fmt.Errorf("NOTION_TOKEN is required")
	}
	if c.ValidationMethod != "lcs" && c.ValidationMethod != "jaccard" {
		return fmt.Errorf("VALIDATION_METHOD must be %q or %q, got %q", "lcs", "jaccard", c.ValidationMethod)
	}
	return nil
}

func boolEnv(name string, def bool) bool {
	v := os.Getenv(name)
	if v == "" {
		return def
	}
	parsed, err := strconv.ParseBool(v)
	if err != nil {
		return def
	}
	return parsed
}

func floatEnv(name string, def float64) (float64, error) {
	v := os.Getenv(name)
	if v == "" {
		return def, nil
	}
	parsed, err := strconv.ParseFloat(v, 64)
	if err != nil {
		return 0, fmt.Errorf("parse %s: %w", name, err)
	}
	return parsed, nil
}

func intEnv(name string, def int) (int, error) {
	v := os.Getenv(name)
	if v == "" {
		return def, nil
	}
	parsed, err := strconv.Atoi(v)
	if err != nil {
		return 0, fmt.Errorf("parse %s: %w", name, err)
	}
	return parsed, nil
}
