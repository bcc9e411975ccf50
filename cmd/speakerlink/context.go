package main

import (
	"fmt"
	"log/slog"
	"strings"
	"sync"

	"github.com/josecerv/search-costs-experiment-sub000/internal/config"
	"github.com/josecerv/search-costs-experiment-sub000/internal/logging"
	"github.com/josecerv/search-costs-experiment-sub000/internal/oracle"
	"github.com/josecerv/search-costs-experiment-sub000/internal/runner"
	"github.com/josecerv/search-costs-experiment-sub000/internal/store"
)

type commandContext struct {
	configFlag *string

	configOnce sync.Once
	config     *config.Config
	configErr  error

	loggerOnce sync.Once
	logger     *slog.Logger
	loggerErr  error
}

func newCommandContext(configFlag *string) *commandContext {
	return &commandContext{configFlag: configFlag}
}

func (c *commandContext) ensureConfig() (*config.Config, error) {
	c.configOnce.Do(func() {
		var path string
		if c.configFlag != nil {
			path = strings.TrimSpace(*c.configFlag)
		}
		cfg, _, _, err := config.Load(path)
		if err != nil {
			c.configErr = err
			return
		}
		if err := cfg.EnsureDirectories(); err != nil {
			c.configErr = err
			return
		}
		c.config = cfg
	})
	return c.config, c.configErr
}

func (c *commandContext) ensureLogger() (*slog.Logger, error) {
	c.loggerOnce.Do(func() {
		cfg, err := c.ensureConfig()
		if err != nil {
			c.loggerErr = err
			return
		}
		c.logger, c.loggerErr = logging.New(logging.Options{
			Level:   cfg.Logging.Level,
			Format:  cfg.Logging.Format,
			LogFile: cfg.Paths.LogFile,
		})
	})
	return c.logger, c.loggerErr
}

// withStore opens the match database for the duration of fn.
func (c *commandContext) withStore(fn func(*store.Store) error) error {
	cfg, err := c.ensureConfig()
	if err != nil {
		return err
	}
	s, err := store.Open(cfg.DatabasePath())
	if err != nil {
		return fmt.Errorf("open database: %w", err)
	}
	defer s.Close()
	return fn(s)
}

// withRunner opens the store and wires a runner over it for fn.
func (c *commandContext) withRunner(fn func(*runner.Runner, *store.Store) error) error {
	cfg, err := c.ensureConfig()
	if err != nil {
		return err
	}
	logger, err := c.ensureLogger()
	if err != nil {
		return err
	}
	return c.withStore(func(s *store.Store) error {
		r, err := runner.New(cfg, s, logger)
		if err != nil {
			return err
		}
		return fn(r, s)
	})
}

// oracleClient builds the adjudication client from configuration.
func (c *commandContext) oracleClient() (*oracle.Client, error) {
	cfg, err := c.ensureConfig()
	if err != nil {
		return nil, err
	}
	if strings.TrimSpace(cfg.Oracle.APIKey) == "" {
		return nil, fmt.Errorf("oracle.api_key is required for matching; set SPEAKERLINK_API_KEY or edit the config (create one with 'speakerlink config init')")
	}
	return oracle.NewClient(oracle.Config{
		APIKey:         cfg.Oracle.APIKey,
		BaseURL:        cfg.Oracle.BaseURL,
		Model:          cfg.Oracle.Model,
		Referer:        cfg.Oracle.Referer,
		Title:          cfg.Oracle.Title,
		TimeoutSeconds: cfg.Oracle.TimeoutSeconds,
	}, oracle.WithBackoff(oracleBackoff(cfg))), nil
}

func oracleBackoff(cfg *config.Config) oracle.Backoff {
	return oracle.Backoff{
		MaxAttempts: cfg.Oracle.RetryMaxAttempts,
		BaseDelay:   secondsDuration(cfg.Oracle.RetryBaseSeconds),
		MaxDelay:    secondsDuration(cfg.Oracle.RetryMaxSeconds),
	}
}
