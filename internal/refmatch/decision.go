package refmatch

// State tracks a reference record through the adjudication state machine.
type State string

const (
	StatePending         State = "pending"
	StateInvalidIdentity State = "invalid_identity"
	StateAutoAccepted    State = "auto_accepted"
	StateAutoRejected    State = "auto_rejected"
	StateEscalated       State = "escalated"
	StateOracleAccepted  State = "oracle_accepted"
	StateOracleRejected  State = "oracle_rejected"
	StateOracleFailed    State = "oracle_failed"
)

// Confidence labels how sure a decision is.
type Confidence string

const (
	ConfidenceHigh   Confidence = "high"
	ConfidenceMedium Confidence = "medium"
	ConfidenceLow    Confidence = "low"
)

// ValidConfidence reports whether the label is one the engine accepts.
func ValidConfidence(c Confidence) bool {
	switch c {
	case ConfidenceHigh, ConfidenceMedium, ConfidenceLow:
		return true
	}
	return false
}

// DecisionSource records which tier produced a decision.
type DecisionSource string

const (
	SourceAutoHigh DecisionSource = "auto_high"
	SourceAutoLow  DecisionSource = "auto_low"
	SourceOracle   DecisionSource = "oracle"
)

// Decision is the outcome for one reference record. A single reference may
// carry several oracle decisions when the oracle confirms more than one true
// duplicate-identity situation in a batch.
type Decision struct {
	RefID      string         `json:"ref_id"`
	Matched    bool           `json:"matched"`
	SpeakerID  string         `json:"speaker_id,omitempty"`
	Confidence Confidence     `json:"confidence"`
	Reasoning  string         `json:"reasoning"`
	Source     DecisionSource `json:"source"`
}

// Outcome aggregates everything adjudication produced for one reference.
type Outcome struct {
	RefID       string
	State       State
	Decisions   []Decision
	NeedsReview bool
	TopScore    int
	CacheHits   int
	OracleCalls int
}

// InvalidIdentityOutcome is returned for references whose normalized name is
// empty; such records never reach candidate generation or the oracle.
func InvalidIdentityOutcome(refID string) Outcome {
	return Outcome{
		RefID: refID,
		State: StateInvalidIdentity,
		Decisions: []Decision{{
			RefID:      refID,
			Matched:    false,
			Confidence: ConfidenceHigh,
			Reasoning:  "no extractable name after normalization",
			Source:     SourceAutoLow,
		}},
	}
}
