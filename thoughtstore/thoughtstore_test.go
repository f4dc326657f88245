package thoughtstore_test

import (
	"testing"

	"github.com/google/uuid"

	"github.com/coreason-ai/archive/archivemodel"
	"github.com/coreason-ai/archive/thoughtstore"
)

func newThought(sourceURNs ...string) *archivemodel.CachedThought {
	return &archivemodel.CachedThought{
		ID:         uuid.New(),
		SourceURNs: sourceURNs,
	}
}

func TestPutAndGet(t *testing.T) {
	s := thoughtstore.New()
	th := newThought()
	s.Put(th)

	got, ok := s.Get(th.ID)
	if !ok {
		t.Fatalf("expected Get to find the thought")
	}
	if got != th {
		t.Fatalf("Get returned a different pointer")
	}
}

func TestDelete_IsNoOpOnAbsentID(t *testing.T) {
	s := thoughtstore.New()
	s.Delete(uuid.New()) // must not panic
}

func TestMarkStale_OnlyMatchingURN(t *testing.T) {
	s := thoughtstore.New()
	match := newThought("doc://a")
	other := newThought("doc://b")
	s.Put(match)
	s.Put(other)

	n := s.MarkStale("doc://a")
	if n != 1 {
		t.Fatalf("MarkStale returned %d, want 1", n)
	}
	if !match.IsStale {
		t.Fatalf("expected matching thought marked stale")
	}
	if other.IsStale {
		t.Fatalf("expected non-matching thought untouched")
	}
}

func TestMarkStale_IsIdempotent(t *testing.T) {
	s := thoughtstore.New()
	th := newThought("doc://a")
	s.Put(th)

	first := s.MarkStale("doc://a")
	second := s.MarkStale("doc://a")
	if first != 1 {
		t.Fatalf("first MarkStale = %d, want 1", first)
	}
	if second != 0 {
		t.Fatalf("second MarkStale = %d, want 0 (already stale)", second)
	}
}

func TestSetEntities_FalseAfterDelete(t *testing.T) {
	s := thoughtstore.New()
	th := newThought()
	s.Put(th)
	s.Delete(th.ID)

	if ok := s.SetEntities(th.ID, []string{"Project:Apollo"}); ok {
		t.Fatalf("expected SetEntities to report false for a deleted thought")
	}
}

func TestScan_FiltersByPredicate(t *testing.T) {
	s := thoughtstore.New()
	stale := newThought()
	stale.IsStale = true
	fresh := newThought()
	s.Put(stale)
	s.Put(fresh)

	got := s.Scan(func(t *archivemodel.CachedThought) bool { return !t.IsStale })
	if len(got) != 1 || got[0].ID != fresh.ID {
		t.Fatalf("Scan(!stale) = %v, want only the fresh thought", got)
	}
}
