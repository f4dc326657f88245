// Package temporal implements the Temporal Ranker: applying exponential
// decay to a similarity score. The ranker takes no policy of its own beyond
// the formula; per-scope defaults live in config.
package temporal

import (
	"math"
	"time"
)

// Ranker applies the decay formula:
//
//	Δt    = now − created_at
//	λ(t)  = ln(2) / ttl_seconds   (half-life = ttl_seconds; see config.DecayConvention)
//	decay = exp(−λ(t) · Δt)
type Ranker struct{}

// New creates a Ranker.
func New() *Ranker {
	return &Ranker{}
}

// Lambda returns the decay constant for a thought with the given
// ttl_seconds.
func (r *Ranker) Lambda(ttlSeconds int64) float64 {
	if ttlSeconds <= 0 {
		ttlSeconds = 1
	}
	return math.Ln2 / float64(ttlSeconds)
}

// Decay returns exp(-λ·Δt) for a thought created at createdAt, evaluated at
// now.
func (r *Ranker) Decay(createdAt, now time.Time, ttlSeconds int64) float64 {
	deltaT := now.Sub(createdAt).Seconds()
	if deltaT < 0 {
		deltaT = 0
	}
	return math.Exp(-r.Lambda(ttlSeconds) * deltaT)
}

// Apply returns similarity·boost·decay, with boost already folded in by the
// caller (matchmaker computes the graph boost; this keeps the ranker's
// contract limited to the time axis alone).
func (r *Ranker) Apply(similarity, boost float64, createdAt, now time.Time, ttlSeconds int64) float64 {
	return similarity * boost * r.Decay(createdAt, now, ttlSeconds)
}
