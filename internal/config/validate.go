package config

import (
	"errors"
	"fmt"
)

// Validate ensures the configuration is usable.
func (c *Config) Validate() error {
	if err := c.validateMatching(); err != nil {
		return err
	}
	if err := c.validateOracle(); err != nil {
		return err
	}
	return nil
}

func (c *Config) validateMatching() error {
	m := c.Matching
	if m.HighThreshold <= 0 || m.HighThreshold > 100 {
		return errors.New("matching.high_threshold must be between 1 and 100")
	}
	if m.LowThreshold <= 0 || m.LowThreshold > 100 {
		return errors.New("matching.low_threshold must be between 1 and 100")
	}
	if m.LowThreshold >= m.HighThreshold {
		return errors.New("matching.low_threshold must be less than matching.high_threshold")
	}
	if m.ReviewMargin < 0 || m.ReviewMargin > m.HighThreshold {
		return errors.New("matching.review_margin must be between 0 and matching.high_threshold")
	}
	if m.CandidateFraction <= 0 || m.CandidateFraction > 1 {
		return errors.New("matching.candidate_fraction must be between 0 and 1")
	}
	if err := ensurePositiveMap(map[string]int{
		"matching.min_candidates": m.MinCandidates,
		"matching.batch_size":     m.BatchSize,
		"matching.concurrency":    m.Concurrency,
	}); err != nil {
		return err
	}
	return nil
}

func (c *Config) validateOracle() error {
	if err := ensurePositiveMap(map[string]int{
		"oracle.timeout_seconds":    c.Oracle.TimeoutSeconds,
		"oracle.retry_max_attempts": c.Oracle.RetryMaxAttempts,
		"oracle.retry_base_seconds": c.Oracle.RetryBaseSeconds,
		"oracle.retry_max_seconds":  c.Oracle.RetryMaxSeconds,
	}); err != nil {
		return err
	}
	if c.Oracle.RetryMaxSeconds < c.Oracle.RetryBaseSeconds {
		return errors.New("oracle.retry_max_seconds must be >= oracle.retry_base_seconds")
	}
	return nil
}

func ensurePositiveMap(values map[string]int) error {
	for key, value := range values {
		if value <= 0 {
			return fmt.Errorf("%s must be positive", key)
		}
	}
	return nil
}
