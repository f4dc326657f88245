// Package vectorindex implements the Vector Index: an exact brute-force
// cosine-similarity scan over L2-normalized vectors, keyed by thought id.
//
// This package exposes insert/query/remove over a plain in-process map
// rather than delegating to an embedded vector-store backend: the
// Matchmaker needs the raw cosine score for every surviving candidate so it
// can compose graph boost and temporal decay on top, and a packaged
// vector-store query collapses that score before handing back results. See
// DESIGN.md for the dropped chromem-go dependency.
package vectorindex

import (
	"math"
	"sort"
	"sync"

	"github.com/google/uuid"
)

// Match is one scored candidate returned by Search.
type Match struct {
	ID         uuid.UUID
	Similarity float64
}

// Index stores (id, vector) pairs and answers top-k cosine similarity
// queries. Safe for concurrent use.
type Index struct {
	mu      sync.RWMutex
	vectors map[uuid.UUID][]float32
}

// New creates an empty Index.
func New() *Index {
	return &Index{vectors: make(map[uuid.UUID][]float32)}
}

// Insert stores or replaces the vector for id.
func (ix *Index) Insert(id uuid.UUID, vec []float32) {
	ix.mu.Lock()
	defer ix.mu.Unlock()
	stored := make([]float32, len(vec))
	copy(stored, vec)
	ix.vectors[id] = stored
}

// Remove deletes id's entry, if present.
func (ix *Index) Remove(id uuid.UUID) {
	ix.mu.Lock()
	defer ix.mu.Unlock()
	delete(ix.vectors, id)
}

// Contains reports whether id has a stored vector (invariant 1 helper, used
// by tests asserting exact-erasure).
func (ix *Index) Contains(id uuid.UUID) bool {
	ix.mu.RLock()
	defer ix.mu.RUnlock()
	_, ok := ix.vectors[id]
	return ok
}

// Len returns the number of stored vectors.
func (ix *Index) Len() int {
	ix.mu.RLock()
	defer ix.mu.RUnlock()
	return len(ix.vectors)
}

// DefaultK is the default candidate fan-out for Search.
const DefaultK = 20

// Search returns the k highest cosine-similarity matches to query, sorted
// descending by similarity, ties broken by id for determinism (the
// Matchmaker re-breaks ties by created_at before id; this index only
// guarantees a stable base ordering).
func (ix *Index) Search(query []float32, k int) []Match {
	if k <= 0 {
		k = DefaultK
	}
	ix.mu.RLock()
	defer ix.mu.RUnlock()

	qNorm := norm(query)
	matches := make([]Match, 0, len(ix.vectors))
	for id, vec := range ix.vectors {
		matches = append(matches, Match{ID: id, Similarity: cosine(query, qNorm, vec)})
	}

	sort.Slice(matches, func(i, j int) bool {
		if matches[i].Similarity != matches[j].Similarity {
			return matches[i].Similarity > matches[j].Similarity
		}
		return matches[i].ID.String() < matches[j].ID.String()
	})

	if len(matches) > k {
		matches = matches[:k]
	}
	return matches
}

func norm(v []float32) float64 {
	var sum float64
	for _, x := range v {
		sum += float64(x) * float64(x)
	}
	return math.Sqrt(sum)
}

// cosine computes cosine similarity between query (with precomputed norm
// qNorm) and candidate. Zero-norm vectors yield a similarity of 0 rather
// than NaN.
func cosine(query []float32, qNorm float64, candidate []float32) float64 {
	cNorm := norm(candidate)
	if qNorm == 0 || cNorm == 0 {
		return 0
	}
	n := len(query)
	if len(candidate) < n {
		n = len(candidate)
	}
	var dot float64
	for i := 0; i < n; i++ {
		dot += float64(query[i]) * float64(candidate[i])
	}
	return dot / (qNorm * cNorm)
}
