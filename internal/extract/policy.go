package extract

import (
	"time"

	"nordkyc/internal/platform/config"
)

// Policy carries the extraction heuristics: the confidence assigned to each
// strategy outcome and the retry schedule. The values are tuning knobs, not
// correctness invariants.
type Policy struct {
	StrictConfidence    float64
	RecoveredConfidence float64
	FallbackConfidence  float64
	ScanConfidence      float64

	// MaxAttempts bounds full two-strategy rounds per Extract call; the delay
	// between rounds grows linearly by BackoffStep.
	MaxAttempts int
	BackoffStep time.Duration

	WriteAudit bool
}

// DefaultPolicy returns the heuristics the pipeline shipped with.
func DefaultPolicy() Policy {
	return Policy{
		StrictConfidence:    0.92,
		RecoveredConfidence: 0.88,
		FallbackConfidence:  0.80,
		ScanConfidence:      0.75,
		MaxAttempts:         2,
		BackoffStep:         800 * time.Millisecond,
		WriteAudit:          true,
	}
}

// PolicyFromConfig builds a Policy from environment-derived config.
func PolicyFromConfig(ext config.Extraction, inf config.Inference) Policy {
	p := DefaultPolicy()
	p.StrictConfidence = ext.StrictConfidence
	p.RecoveredConfidence = ext.RecoveredConfidence
	p.FallbackConfidence = ext.FallbackConfidence
	p.ScanConfidence = ext.ScanConfidence
	p.BackoffStep = ext.BackoffStep
	p.WriteAudit = ext.WriteAudit
	if inf.MaxRetries > 0 {
		p.MaxAttempts = inf.MaxRetries
	}
	return p
}
