package ingest_test

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"testing"

	"github.com/google/uuid"

	"github.com/coreason-ai/archive/archivemodel"
	"github.com/coreason-ai/archive/config"
	"github.com/coreason-ai/archive/extractor"
	"github.com/coreason-ai/archive/federation"
	"github.com/coreason-ai/archive/graphindex"
	"github.com/coreason-ai/archive/ingest"
	"github.com/coreason-ai/archive/taskrunner"
	"github.com/coreason-ai/archive/thoughtstore"
	"github.com/coreason-ai/archive/vectorindex"
)

type stubEmbedder struct {
	dims int
	err  error
}

func (e *stubEmbedder) Embed(_ context.Context, text string) ([]float32, error) {
	if e.err != nil {
		return nil, e.err
	}
	return make([]float32, e.dims), nil
}
func (e *stubEmbedder) Dimensions() int { return e.dims }

type countingExtractor struct {
	calls int32
}

func (e *countingExtractor) Extract(_ context.Context, _ string) ([]string, error) {
	atomic.AddInt32(&e.calls, 1)
	return []string{"Project:Apollo"}, nil
}

func newPipeline(extract extractor.EntityExtractor, tasks taskrunner.Runner) (*ingest.Pipeline, *thoughtstore.Store, *vectorindex.Index, *graphindex.Index) {
	thoughts := thoughtstore.New()
	vectors := vectorindex.New()
	graph := graphindex.New()
	broker := federation.New()
	embed := &stubEmbedder{dims: 16}

	p := ingest.New(thoughts, vectors, graph, broker, embed, extract, tasks, config.DefaultScopeTTLs(), nil)
	return p, thoughts, vectors, graph
}

func TestAddThought_WritesAcrossAllThreeIndices(t *testing.T) {
	p, thoughts, vectors, graph := newPipeline(nil, nil)

	th, err := p.AddThought(context.Background(), archivemodel.UserContext{UserID: "alice"}, ingest.Request{
		Scope:      archivemodel.ScopeUser,
		ScopeID:    "alice",
		OwnerID:    "alice",
		PromptText: "what is the deploy process",
		TTLSeconds: 3600,
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if _, ok := thoughts.Get(th.ID); !ok {
		t.Fatalf("thought not written to thought store")
	}
	if !vectors.Contains(th.ID) {
		t.Fatalf("vector not written to vector index")
	}
	if !graph.HasNode(th.ThoughtNode()) {
		t.Fatalf("node not written to graph index")
	}
}

func TestAddThought_DeniesWriteOutsideOwnScope(t *testing.T) {
	p, _, _, _ := newPipeline(nil, nil)

	_, err := p.AddThought(context.Background(), archivemodel.UserContext{UserID: "bob"}, ingest.Request{
		Scope:      archivemodel.ScopeUser,
		ScopeID:    "alice",
		PromptText: "x",
		TTLSeconds: 3600,
	})
	if !errors.Is(err, archivemodel.ErrAccessDenied) {
		t.Fatalf("expected ErrAccessDenied, got %v", err)
	}
}

func TestAddThought_RejectsInvalidScope(t *testing.T) {
	p, _, _, _ := newPipeline(nil, nil)

	_, err := p.AddThought(context.Background(), archivemodel.UserContext{}, ingest.Request{
		Scope:      archivemodel.Scope("NOT_A_SCOPE"),
		PromptText: "x",
		TTLSeconds: 3600,
	})
	if !errors.Is(err, archivemodel.ErrInvalidThought) {
		t.Fatalf("expected ErrInvalidThought, got %v", err)
	}
}

func TestAddThought_PropagatesValidationFailure(t *testing.T) {
	p, _, _, _ := newPipeline(nil, nil)

	_, err := p.AddThought(context.Background(), archivemodel.UserContext{UserID: "alice"}, ingest.Request{
		Scope:      archivemodel.ScopeUser,
		ScopeID:    "alice",
		OwnerID:    "alice",
		PromptText: "", // required field left empty
		TTLSeconds: 3600,
	})
	if !errors.Is(err, archivemodel.ErrInvalidThought) {
		t.Fatalf("expected ErrInvalidThought for empty prompt, got %v", err)
	}
}

func TestAddThought_DedupsConcurrentIdenticalIngests(t *testing.T) {
	p, thoughts, _, _ := newPipeline(nil, nil)

	const n = 20
	var wg sync.WaitGroup
	ids := make([]uuid.UUID, n)
	for i := 0; i < n; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			th, err := p.AddThought(context.Background(), archivemodel.UserContext{UserID: "alice"}, ingest.Request{
				Scope:      archivemodel.ScopeUser,
				ScopeID:    "alice",
				OwnerID:    "alice",
				PromptText: "same prompt text",
				TTLSeconds: 3600,
			})
			if err != nil {
				t.Errorf("unexpected error: %v", err)
				return
			}
			ids[i] = th.ID
		}(i)
	}
	wg.Wait()

	first := ids[0]
	for _, id := range ids[1:] {
		if id != first {
			t.Fatalf("expected all concurrent identical ingests to dedup to one thought, got distinct ids")
		}
	}
	if thoughts.Len() != 1 {
		t.Fatalf("thought store has %d entries, want 1", thoughts.Len())
	}
}

func TestAddThought_EntityExtractionIsNoOpAfterDeletion(t *testing.T) {
	extract := &countingExtractor{}
	pool := taskrunner.NewPool(1)
	p, thoughts, _, _ := newPipeline(extract, pool)

	th, err := p.AddThought(context.Background(), archivemodel.UserContext{UserID: "alice"}, ingest.Request{
		Scope:      archivemodel.ScopeUser,
		ScopeID:    "alice",
		OwnerID:    "alice",
		PromptText: "what is the deploy process",
		TTLSeconds: 3600,
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	thoughts.Delete(th.ID)
	pool.Wait()

	if _, ok := thoughts.Get(th.ID); ok {
		t.Fatalf("thought should remain deleted after background extraction completes")
	}
	if atomic.LoadInt32(&extract.calls) != 1 {
		t.Fatalf("expected extraction to run exactly once, got %d", extract.calls)
	}
}

func TestAddThought_UsesPerScopeDefaultTTLWhenOmitted(t *testing.T) {
	p, thoughts, _, _ := newPipeline(nil, nil)

	th, err := p.AddThought(context.Background(), archivemodel.UserContext{UserID: "alice"}, ingest.Request{
		Scope:      archivemodel.ScopeUser,
		ScopeID:    "alice",
		OwnerID:    "alice",
		PromptText: "x",
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	got, _ := thoughts.Get(th.ID)
	if got.TTLSeconds != config.DefaultScopeTTLs()["USER"] {
		t.Fatalf("TTLSeconds = %d, want the USER scope default", got.TTLSeconds)
	}
}
