package config

const (
	defaultDataDir = "~/.local/share/speakerlink"
	defaultLogDir  = "~/.local/share/speakerlink/logs"

	defaultHighThreshold     = 85
	defaultLowThreshold      = 60
	defaultReviewMargin      = 5
	defaultCandidateFraction = 0.25
	defaultMinCandidates     = 3
	defaultBatchSize         = 20
	defaultConcurrency       = 4

	defaultOracleBaseURL          = "https://openrouter.ai/api/v1/chat/completions"
	defaultOracleModel            = "google/gemini-3-flash-preview"
	defaultOracleReferer          = "https://github.com/josecerv/search-costs-experiment-sub000"
	defaultOracleTitle            = "Speakerlink Match Adjudicator"
	defaultOracleTimeoutSeconds   = 60
	defaultOracleRetryMaxAttempts = 5
	defaultOracleRetryBaseSeconds = 1
	defaultOracleRetryMaxSeconds  = 10

	defaultCacheFlushIntervalSeconds = 5

	defaultLogFormat = "console"
	defaultLogLevel  = "info"
)

// Default returns a Config populated with repository defaults.
func Default() Config {
	return Config{
		Paths: Paths{
			DataDir: defaultDataDir,
			LogDir:  defaultLogDir,
		},
		Matching: Matching{
			HighThreshold:     defaultHighThreshold,
			LowThreshold:      defaultLowThreshold,
			ReviewMargin:      defaultReviewMargin,
			CandidateFraction: defaultCandidateFraction,
			MinCandidates:     defaultMinCandidates,
			BatchSize:         defaultBatchSize,
			Concurrency:       defaultConcurrency,
		},
		Oracle: Oracle{
			BaseURL:          defaultOracleBaseURL,
			Model:            defaultOracleModel,
			Referer:          defaultOracleReferer,
			Title:            defaultOracleTitle,
			TimeoutSeconds:   defaultOracleTimeoutSeconds,
			RetryMaxAttempts: defaultOracleRetryMaxAttempts,
			RetryBaseSeconds: defaultOracleRetryBaseSeconds,
			RetryMaxSeconds:  defaultOracleRetryMaxSeconds,
		},
		Cache: Cache{
			Enabled:              true,
			FlushIntervalSeconds: defaultCacheFlushIntervalSeconds,
		},
		Logging: Logging{
			Format: defaultLogFormat,
			Level:  defaultLogLevel,
		},
	}
}
