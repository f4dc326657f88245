// Package embedder defines the external embedding-model contract used by the
// ingestion pipeline and the matchmaker. The production embedder is an
// external model-serving dependency; this package only fixes the interface
// and a deterministic reference implementation for tests and local
// development.
package embedder

import (
	"context"
	"math"
)

// Embedder maps text to a fixed-dimension real vector. Implementations may
// fail with a transient I/O error; callers are responsible for the retry
// policy (ingest retries up to 3 with exponential backoff, lookup surfaces
// MISS after one failure).
type Embedder interface {
	// Embed converts text to an embedding vector of Dimensions() length.
	// The returned vector is not required to be normalized; callers
	// normalize before persisting or matching.
	Embed(ctx context.Context, text string) ([]float32, error)

	// Dimensions returns the fixed embedding width d.
	Dimensions() int
}

// Normalize returns a copy of vec scaled to unit L2 norm. A zero vector is
// returned unchanged (its norm is already 0, normalizing it would divide by
// zero).
func Normalize(vec []float32) []float32 {
	var sumSquares float64
	for _, v := range vec {
		sumSquares += float64(v) * float64(v)
	}
	if sumSquares == 0 {
		out := make([]float32, len(vec))
		copy(out, vec)
		return out
	}
	norm := math.Sqrt(sumSquares)
	out := make([]float32, len(vec))
	for i, v := range vec {
		out[i] = float32(float64(v) / norm)
	}
	return out
}
