// Package oracle implements the external adjudication client for ambiguous
// reference-to-speaker matches.
//
// The oracle is an OpenRouter-style chat completion endpoint constrained to
// JSON output. The client owns transport concerns only: bearer auth, bounded
// exponential-backoff retries with Retry-After support, and tolerant JSON
// extraction. Whether an answer is trusted is the adjudicator's business.
package oracle
