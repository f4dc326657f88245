// Package mock provides a deterministic Embedder for tests and local
// development, grounded on the SDK's own memory/embedder/mock implementation.
package mock

import (
	"context"
	"hash/fnv"

	"github.com/coreason-ai/archive/embedder"
)

// Embedder generates a deterministic embedding from a hash of the input
// text. It never errs and produces the same vector for the same text, which
// makes exact-hit and near-duplicate test scenarios reproducible.
type Embedder struct {
	dimensions int
}

// New creates a mock embedder with the given dimensionality. dimensions
// defaults to 1536 when <= 0.
func New(dimensions int) *Embedder {
	if dimensions <= 0 {
		dimensions = 1536
	}
	return &Embedder{dimensions: dimensions}
}

// Embed implements embedder.Embedder.
func (e *Embedder) Embed(_ context.Context, text string) ([]float32, error) {
	h := fnv.New64a()
	_, _ = h.Write([]byte(text))
	seed := h.Sum64()

	vec := make([]float32, e.dimensions)
	for i := range vec {
		seed = seed*6364136223846793005 + 1442695040888963407
		vec[i] = float32(int64(seed)) / float32(1<<62)
	}
	return embedder.Normalize(vec), nil
}

// Dimensions implements embedder.Embedder.
func (e *Embedder) Dimensions() int { return e.dimensions }

var _ embedder.Embedder = (*Embedder)(nil)
