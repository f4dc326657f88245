// Package matchmaker implements the Matchmaker: the fused vector + graph +
// time + RBAC query that decides whether a query can be answered from
// cache, hinted, or must proceed unaided.
//
// The pipeline shape (embed → retrieve candidates → filter → score → rank)
// follows a single-pass retrieve-then-filter structure; the per-candidate
// graph-boost fan-out uses golang.org/x/sync/errgroup since each
// candidate's Graph.Linked check is an independent read.
package matchmaker

import (
	"context"
	"fmt"
	"sort"
	"time"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/coreason-ai/archive/accountant"
	"github.com/coreason-ai/archive/archivelog"
	"github.com/coreason-ai/archive/archivemodel"
	"github.com/coreason-ai/archive/config"
	"github.com/coreason-ai/archive/embedder"
	"github.com/coreason-ai/archive/extractor"
	"github.com/coreason-ai/archive/federation"
	"github.com/coreason-ai/archive/graphindex"
	"github.com/coreason-ai/archive/hotcache"
	"github.com/coreason-ai/archive/temporal"
	"github.com/coreason-ai/archive/thoughtstore"
	"github.com/coreason-ai/archive/vectorindex"
	"github.com/google/uuid"
)

// Strategy tags which of the four Result variants was produced.
type Strategy int

const (
	Miss Strategy = iota
	ExactHit
	SemanticHint
	EntityHop
)

func (s Strategy) String() string {
	switch s {
	case ExactHit:
		return "EXACT_HIT"
	case SemanticHint:
		return "SEMANTIC_HINT"
	case EntityHop:
		return "ENTITY_HOP"
	default:
		return "MISS"
	}
}

// ExactHitPayload is returned on a Strategy == ExactHit Result.
type ExactHitPayload struct {
	Prompt         string
	ReasoningTrace string
	FinalResponse  string
}

// SemanticHintPayload is returned on a Strategy == SemanticHint Result: the
// "Retrieval Augmented Thought" path returns reasoning only, never the final
// response.
type SemanticHintPayload struct {
	ReasoningTrace string
}

// EntityHopPayload is returned on a Strategy == EntityHop Result: the
// highest-scoring structurally linked candidate's reasoning trace, marked as
// a structural rather than semantic match.
type EntityHopPayload struct {
	ReasoningTrace string
	Structural     bool
}

// Result is the tagged-variant outcome of a Lookup call. Exactly one of
// Exact/Hint/Hop is non-nil, matching Strategy; all are nil on Miss.
type Result struct {
	Strategy  Strategy
	ThoughtID uuid.UUID
	Score     float64

	Exact *ExactHitPayload
	Hint  *SemanticHintPayload
	Hop   *EntityHopPayload
}

// Matchmaker wires together the three indices, the federation broker, the
// temporal ranker, and the external embedder/extractor/accountant
// collaborators to execute smart_lookup.
type Matchmaker struct {
	vectors    *vectorindex.Index
	graph      *graphindex.Index
	thoughts   *thoughtstore.Store
	hot        *hotcache.Cache
	broker     *federation.Broker
	ranker     *temporal.Ranker
	embed      embedder.Embedder
	extract    extractor.EntityExtractor
	accountant accountant.Accountant
	cfg        config.Matchmaker
	log        *zap.Logger

	// now is overridable for deterministic tests; defaults to time.Now.
	now func() time.Time
}

// New constructs a Matchmaker. extract may be nil: ENTITY_HOP classification
// then never fires (no query entities to compare against), which degrades
// gracefully to MISS. hot may be nil: candidate lookups then go straight to
// the Thought Store. log may be nil, defaulting to a no-op logger.
func New(
	vectors *vectorindex.Index,
	graph *graphindex.Index,
	thoughts *thoughtstore.Store,
	hot *hotcache.Cache,
	broker *federation.Broker,
	ranker *temporal.Ranker,
	embed embedder.Embedder,
	extract extractor.EntityExtractor,
	acct accountant.Accountant,
	cfg config.Matchmaker,
	log *zap.Logger,
) *Matchmaker {
	if log == nil {
		log = archivelog.Noop()
	}
	return &Matchmaker{
		vectors:    vectors,
		graph:      graph,
		thoughts:   thoughts,
		hot:        hot,
		broker:     broker,
		ranker:     ranker,
		embed:      embed,
		extract:    extract,
		accountant: acct,
		cfg:        cfg,
		log:        log,
		now:        time.Now,
	}
}

// lookupThought fetches a candidate by id, preferring the hot cache when one
// is configured.
func (m *Matchmaker) lookupThought(id uuid.UUID) (*archivemodel.CachedThought, bool) {
	if m.hot != nil {
		return m.hot.Get(id)
	}
	return m.thoughts.Get(id)
}

type scored struct {
	thought *archivemodel.CachedThought
	score   float64
}

// Lookup resolves a query against the cache. It respects ctx's deadline
// between every pipeline step; on cancellation it returns a Miss result
// without emitting a hit event.
func (m *Matchmaker) Lookup(ctx context.Context, queryText string, userCtx archivemodel.UserContext) (Result, error) {
	if err := ctx.Err(); err != nil {
		return Result{Strategy: Miss}, nil
	}

	// 1. Embed the query.
	queryVec, err := m.embed.Embed(ctx, queryText)
	if err != nil {
		// Embedding failure hides behind MISS rather than surfacing an error.
		m.log.Warn("lookup embedding failed, returning miss", zap.Error(err))
		return Result{Strategy: Miss}, nil
	}
	queryVec = embedder.Normalize(queryVec)

	if err := ctx.Err(); err != nil {
		return Result{Strategy: Miss}, nil
	}

	// 2. Candidate retrieval.
	k := m.cfg.CandidateK
	if k <= 0 {
		k = vectorindex.DefaultK
	}
	raw := m.vectors.Search(queryVec, k)

	if err := ctx.Err(); err != nil {
		return Result{Strategy: Miss}, nil
	}

	// 3. Access filter: drop unreadable and stale candidates.
	var survivors []scored
	for _, match := range raw {
		t, ok := m.lookupThought(match.ID)
		if !ok {
			continue // deleted since vector search ran
		}
		if !m.broker.CanRead(userCtx, t) {
			continue
		}
		if t.IsStale {
			continue
		}
		survivors = append(survivors, scored{thought: t, score: match.Similarity})
	}

	if err := ctx.Err(); err != nil {
		return Result{Strategy: Miss}, nil
	}

	if len(survivors) == 0 {
		return Result{Strategy: Miss}, nil
	}

	// 4. Graph boost, fanned out concurrently per candidate (independent
	// reads of the graph index).
	boosts := make([]float64, len(survivors))
	if userCtx.ActiveProjectID != "" {
		projectNode := fmt.Sprintf("Project:%s", userCtx.ActiveProjectID)
		group, gctx := errgroup.WithContext(ctx)
		for i := range survivors {
			i := i
			group.Go(func() error {
				if gctx.Err() != nil {
					return nil
				}
				linked := m.graph.Linked(survivors[i].thought.ThoughtNode(), projectNode, m.cfg.GraphBoostMaxHops)
				if linked {
					boosts[i] = m.cfg.GraphBoostFactor
				}
				return nil
			})
		}
		_ = group.Wait() // graph reads never error; ctx cancellation just leaves boosts at 0
	}

	if err := ctx.Err(); err != nil {
		return Result{Strategy: Miss}, nil
	}

	// 5. Decay: S = cos(q, t.vector) · boost · exp(-λ·Δt)
	now := m.now()
	finalScores := make([]float64, len(survivors))
	for i, s := range survivors {
		boost := 1 + boosts[i]
		finalScores[i] = m.ranker.Apply(s.score, boost, s.thought.CreatedAt, now, s.thought.TTLSeconds)
	}

	// 6. Classify by best S. Ties: larger created_at wins, then lexicographic id.
	order := make([]int, len(survivors))
	for i := range order {
		order[i] = i
	}
	sort.Slice(order, func(a, b int) bool {
		ia, ib := order[a], order[b]
		if finalScores[ia] != finalScores[ib] {
			return finalScores[ia] > finalScores[ib]
		}
		ca, cb := survivors[ia].thought.CreatedAt, survivors[ib].thought.CreatedAt
		if !ca.Equal(cb) {
			return ca.After(cb)
		}
		return survivors[ia].thought.ID.String() < survivors[ib].thought.ID.String()
	})

	top := survivors[order[0]].thought
	topScore := finalScores[order[0]]

	result := m.classify(ctx, queryText, top, topScore, survivors, order)

	m.log.Debug("lookup classified",
		zap.String("strategy", result.Strategy.String()),
		zap.String("thought_id", result.ThoughtID.String()),
		zap.Float64("score", result.Score))

	if result.Strategy != Miss && m.accountant != nil {
		m.accountant.RecordHit(accountant.CacheHit{
			ThoughtID:           top.ID.String(),
			Strategy:            strategyToAccountant(result.Strategy),
			EstimatedSavedUnits: topScore,
		})
	}

	return result, nil
}

func (m *Matchmaker) classify(ctx context.Context, queryText string, top *archivemodel.CachedThought, topScore float64, survivors []scored, order []int) Result {
	switch {
	case topScore >= m.cfg.ExactHitThreshold:
		return Result{
			Strategy:  ExactHit,
			ThoughtID: top.ID,
			Score:     topScore,
			Exact: &ExactHitPayload{
				Prompt:         top.PromptText,
				ReasoningTrace: top.ReasoningTrace,
				FinalResponse:  top.FinalResponse,
			},
		}
	case topScore >= m.cfg.SemanticHintThreshold:
		return Result{
			Strategy:  SemanticHint,
			ThoughtID: top.ID,
			Score:     topScore,
			Hint:      &SemanticHintPayload{ReasoningTrace: top.ReasoningTrace},
		}
	default:
		if m.extract == nil {
			return Result{Strategy: Miss}
		}
		queryEntities, err := m.extract.Extract(ctx, queryText)
		if err != nil || len(queryEntities) == 0 {
			return Result{Strategy: Miss}
		}
		queryEntitySet := make(map[string]bool, len(queryEntities))
		for _, e := range queryEntities {
			queryEntitySet[e] = true
		}
		// Classification is strictly by the top-scoring candidate: only
		// the best-S survivor is eligible for ENTITY_HOP, never a
		// re-ranked entity-overlap winner from further down the list.
		if sharesEntity(top, queryEntitySet) {
			return Result{
				Strategy:  EntityHop,
				ThoughtID: top.ID,
				Score:     topScore,
				Hop: &EntityHopPayload{
					ReasoningTrace: top.ReasoningTrace,
					Structural:     true,
				},
			}
		}
		return Result{Strategy: Miss}
	}
}

func sharesEntity(t *archivemodel.CachedThought, querySet map[string]bool) bool {
	for _, e := range t.Entities {
		if querySet[e] {
			return true
		}
	}
	return false
}

func strategyToAccountant(s Strategy) accountant.Strategy {
	switch s {
	case ExactHit:
		return accountant.StrategyExactHit
	case SemanticHint:
		return accountant.StrategySemanticHint
	default:
		return accountant.StrategyEntityHop
	}
}
