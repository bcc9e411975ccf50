package refmatch

// Policy centralizes matching thresholds and escalation bounds. All values
// are tunable configuration, not structural constants; the defaults carry the
// numeric intent of the tiers the pipeline was calibrated with.
type Policy struct {
	// HighThreshold auto-accepts the top candidate at or above this score.
	HighThreshold int
	// LowThreshold auto-rejects a reference whose top candidate scores below.
	LowThreshold int
	// ReviewMargin widens the needs-review window below HighThreshold when
	// the oracle fails: a top score within the margin is surfaced for manual
	// review instead of silently rejected.
	ReviewMargin int
	// CandidateFraction bounds the candidate list to this fraction of the
	// field's registry, trading recall for oracle-call volume.
	CandidateFraction float64
	// MinCandidates is the floor applied after the fraction, so tiny fields
	// still produce a usable list.
	MinCandidates int
	// BatchSize bounds how many candidates travel in one oracle request.
	BatchSize int
}

// DefaultPolicy returns the calibrated tier defaults.
func DefaultPolicy() Policy {
	return Policy{
		HighThreshold:     85,
		LowThreshold:      60,
		ReviewMargin:      5,
		CandidateFraction: 0.25,
		MinCandidates:     3,
		BatchSize:         20,
	}
}

func (p Policy) normalized() Policy {
	d := DefaultPolicy()

	if p.HighThreshold <= 0 || p.HighThreshold > 100 {
		p.HighThreshold = d.HighThreshold
	}
	if p.LowThreshold <= 0 || p.LowThreshold >= p.HighThreshold {
		p.LowThreshold = d.LowThreshold
	}
	if p.ReviewMargin < 0 || p.ReviewMargin > p.HighThreshold {
		p.ReviewMargin = d.ReviewMargin
	}
	if p.CandidateFraction <= 0 || p.CandidateFraction > 1 {
		p.CandidateFraction = d.CandidateFraction
	}
	if p.MinCandidates <= 0 {
		p.MinCandidates = d.MinCandidates
	}
	if p.BatchSize <= 0 {
		p.BatchSize = d.BatchSize
	}
	return p
}
