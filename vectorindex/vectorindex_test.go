package vectorindex_test

import (
	"testing"

	"github.com/google/uuid"

	"github.com/coreason-ai/archive/vectorindex"
)

func TestSearch_RanksByCosineSimilarity(t *testing.T) {
	ix := vectorindex.New()

	exact := uuid.New()
	orthogonal := uuid.New()
	opposite := uuid.New()

	ix.Insert(exact, []float32{1, 0, 0})
	ix.Insert(orthogonal, []float32{0, 1, 0})
	ix.Insert(opposite, []float32{-1, 0, 0})

	matches := ix.Search([]float32{1, 0, 0}, 10)
	if len(matches) != 3 {
		t.Fatalf("got %d matches, want 3", len(matches))
	}
	if matches[0].ID != exact {
		t.Fatalf("top match = %s, want exact match %s", matches[0].ID, exact)
	}
	if matches[0].Similarity < 0.999 {
		t.Fatalf("exact match similarity = %f, want ~1.0", matches[0].Similarity)
	}
	if matches[len(matches)-1].ID != opposite {
		t.Fatalf("bottom match = %s, want opposite vector %s", matches[len(matches)-1].ID, opposite)
	}
}

func TestSearch_RespectsK(t *testing.T) {
	ix := vectorindex.New()
	for i := 0; i < 5; i++ {
		ix.Insert(uuid.New(), []float32{float32(i), 1, 0})
	}
	matches := ix.Search([]float32{1, 1, 0}, 2)
	if len(matches) != 2 {
		t.Fatalf("got %d matches, want 2", len(matches))
	}
}

func TestSearch_ZeroNormVectorYieldsZeroSimilarity(t *testing.T) {
	ix := vectorindex.New()
	id := uuid.New()
	ix.Insert(id, []float32{0, 0, 0})

	matches := ix.Search([]float32{1, 0, 0}, 10)
	if len(matches) != 1 {
		t.Fatalf("got %d matches, want 1", len(matches))
	}
	if matches[0].Similarity != 0 {
		t.Fatalf("similarity against zero vector = %f, want 0", matches[0].Similarity)
	}
}

func TestRemove_ErasesEntryExactly(t *testing.T) {
	ix := vectorindex.New()
	id := uuid.New()
	ix.Insert(id, []float32{1, 2, 3})
	if !ix.Contains(id) {
		t.Fatalf("expected Contains(id) after Insert")
	}
	ix.Remove(id)
	if ix.Contains(id) {
		t.Fatalf("expected !Contains(id) after Remove")
	}
	if ix.Len() != 0 {
		t.Fatalf("Len() = %d, want 0", ix.Len())
	}
}

func TestInsert_CopiesVector(t *testing.T) {
	ix := vectorindex.New()
	id := uuid.New()
	vec := []float32{1, 2, 3}
	ix.Insert(id, vec)
	vec[0] = 999

	matches := ix.Search([]float32{1, 2, 3}, 1)
	if matches[0].Similarity < 0.999 {
		t.Fatalf("mutating caller's slice affected the stored vector: similarity = %f", matches[0].Similarity)
	}
}
