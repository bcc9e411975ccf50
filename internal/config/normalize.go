package config

import (
	"fmt"
	"os"
	"strings"
)

func (c *Config) normalize() error {
	if err := c.normalizePaths(); err != nil {
		return err
	}
	c.normalizeMatching()
	c.normalizeOracle()
	c.normalizeCache()
	c.normalizeLogging()
	return nil
}

func (c *Config) normalizePaths() error {
	var err error
	if strings.TrimSpace(c.Paths.DataDir) == "" {
		c.Paths.DataDir = defaultDataDir
	}
	if c.Paths.DataDir, err = expandPath(c.Paths.DataDir); err != nil {
		return fmt.Errorf("paths.data_dir: %w", err)
	}
	if strings.TrimSpace(c.Paths.LogDir) == "" {
		c.Paths.LogDir = defaultLogDir
	}
	if c.Paths.LogDir, err = expandPath(c.Paths.LogDir); err != nil {
		return fmt.Errorf("paths.log_dir: %w", err)
	}
	c.Paths.LogFile = strings.TrimSpace(c.Paths.LogFile)
	if c.Paths.LogFile != "" {
		if c.Paths.LogFile, err = expandPath(c.Paths.LogFile); err != nil {
			return fmt.Errorf("paths.log_file: %w", err)
		}
	}
	return nil
}

func (c *Config) normalizeMatching() {
	if c.Matching.HighThreshold <= 0 {
		c.Matching.HighThreshold = defaultHighThreshold
	}
	if c.Matching.LowThreshold <= 0 {
		c.Matching.LowThreshold = defaultLowThreshold
	}
	if c.Matching.ReviewMargin < 0 {
		c.Matching.ReviewMargin = defaultReviewMargin
	}
	if c.Matching.CandidateFraction <= 0 || c.Matching.CandidateFraction > 1 {
		c.Matching.CandidateFraction = defaultCandidateFraction
	}
	if c.Matching.MinCandidates <= 0 {
		c.Matching.MinCandidates = defaultMinCandidates
	}
	if c.Matching.BatchSize <= 0 {
		c.Matching.BatchSize = defaultBatchSize
	}
	if c.Matching.Concurrency <= 0 {
		c.Matching.Concurrency = defaultConcurrency
	}
}

func (c *Config) normalizeOracle() {
	c.Oracle.APIKey = strings.TrimSpace(c.Oracle.APIKey)
	if c.Oracle.APIKey == "" {
		if value, ok := os.LookupEnv("SPEAKERLINK_API_KEY"); ok {
			c.Oracle.APIKey = strings.TrimSpace(value)
		} else if value, ok := os.LookupEnv("OPENROUTER_API_KEY"); ok {
			c.Oracle.APIKey = strings.TrimSpace(value)
		}
	}
	c.Oracle.BaseURL = strings.TrimSpace(c.Oracle.BaseURL)
	if c.Oracle.BaseURL == "" {
		c.Oracle.BaseURL = defaultOracleBaseURL
	}
	c.Oracle.Model = strings.TrimSpace(c.Oracle.Model)
	if c.Oracle.Model == "" {
		c.Oracle.Model = defaultOracleModel
	}
	c.Oracle.Referer = strings.TrimSpace(c.Oracle.Referer)
	if c.Oracle.Referer == "" {
		c.Oracle.Referer = defaultOracleReferer
	}
	c.Oracle.Title = strings.TrimSpace(c.Oracle.Title)
	if c.Oracle.Title == "" {
		c.Oracle.Title = defaultOracleTitle
	}
	if c.Oracle.TimeoutSeconds <= 0 {
		c.Oracle.TimeoutSeconds = defaultOracleTimeoutSeconds
	}
	if c.Oracle.RetryMaxAttempts <= 0 {
		c.Oracle.RetryMaxAttempts = defaultOracleRetryMaxAttempts
	}
	if c.Oracle.RetryBaseSeconds <= 0 {
		c.Oracle.RetryBaseSeconds = defaultOracleRetryBaseSeconds
	}
	if c.Oracle.RetryMaxSeconds <= 0 {
		c.Oracle.RetryMaxSeconds = defaultOracleRetryMaxSeconds
	}
}

func (c *Config) normalizeCache() {
	if c.Cache.FlushIntervalSeconds <= 0 {
		c.Cache.FlushIntervalSeconds = defaultCacheFlushIntervalSeconds
	}
}

func (c *Config) normalizeLogging() {
	c.Logging.Format = strings.ToLower(strings.TrimSpace(c.Logging.Format))
	switch c.Logging.Format {
	case "", "console":
		c.Logging.Format = "console"
	case "json":
	default:
		c.Logging.Format = "console"
	}
	c.Logging.Level = strings.ToLower(strings.TrimSpace(c.Logging.Level))
	if c.Logging.Level == "" {
		c.Logging.Level = defaultLogLevel
	}
}
