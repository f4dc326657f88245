// Package ingest implements the Ingestion Pipeline: add_thought validates,
// synthesizes, embeds, writes across all three indices atomically with
// respect to readers, and schedules asynchronous entity extraction.
//
// Concurrent identical-prompt ingests under the same scope are coalesced
// with golang.org/x/sync/singleflight so a burst of duplicate calls
// produces one write rather than a race across the three indices.
package ingest

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"
	"golang.org/x/sync/singleflight"

	"github.com/coreason-ai/archive/archivelog"
	"github.com/coreason-ai/archive/archivemodel"
	"github.com/coreason-ai/archive/config"
	"github.com/coreason-ai/archive/embedder"
	"github.com/coreason-ai/archive/extractor"
	"github.com/coreason-ai/archive/federation"
	"github.com/coreason-ai/archive/graphindex"
	"github.com/coreason-ai/archive/taskrunner"
	"github.com/coreason-ai/archive/thoughtstore"
	"github.com/coreason-ai/archive/validation"
	"github.com/coreason-ai/archive/vectorindex"
	"github.com/google/uuid"
)

// Request is the caller-supplied payload for add_thought.
type Request struct {
	Scope       archivemodel.Scope
	ScopeID     string
	OwnerID     string
	PromptText  string
	ReasoningTrace string
	FinalResponse  string
	SourceURNs  []string
	TTLSeconds  int64
	AccessRoles []string
}

// Pipeline wires together the collaborators add_thought needs.
type Pipeline struct {
	thoughts *thoughtstore.Store
	vectors  *vectorindex.Index
	graph    *graphindex.Index
	broker   *federation.Broker
	embed    embedder.Embedder
	extract  extractor.EntityExtractor
	tasks    taskrunner.Runner
	ttls     config.ScopeTTLDefaults
	log      *zap.Logger

	group singleflight.Group

	// now is overridable for tests.
	now func() time.Time
	// newID is overridable for tests.
	newID func() uuid.UUID
}

// New constructs a Pipeline. extract may be nil: entity extraction is then
// skipped and thoughts keep an empty Entities slice indefinitely (graph-hop
// classification degrades to always-MISS for those thoughts). log may be
// nil, defaulting to a no-op logger.
func New(
	thoughts *thoughtstore.Store,
	vectors *vectorindex.Index,
	graph *graphindex.Index,
	broker *federation.Broker,
	embed embedder.Embedder,
	extract extractor.EntityExtractor,
	tasks taskrunner.Runner,
	ttls config.ScopeTTLDefaults,
	log *zap.Logger,
) *Pipeline {
	if log == nil {
		log = archivelog.Noop()
	}
	return &Pipeline{
		thoughts: thoughts,
		vectors:  vectors,
		graph:    graph,
		broker:   broker,
		embed:    embed,
		extract:  extract,
		tasks:    tasks,
		ttls:     ttls,
		log:      log,
		now:      time.Now,
		newID:    uuid.New,
	}
}

// AddThought executes add_thought:
//  1. validate scope/scope_id and write-authorization
//  2. synthesize a CachedThought (fresh id, created_at, is_stale=false, entities=∅)
//  3. embed + normalize prompt+response text
//  4. write atomically across Thought Store → Vector Index → Graph Index
//  5. schedule background entity extraction
func (p *Pipeline) AddThought(ctx context.Context, callerCtx archivemodel.UserContext, req Request) (*archivemodel.CachedThought, error) {
	if !req.Scope.Valid() {
		p.log.Warn("add_thought rejected: invalid scope", zap.String("scope", string(req.Scope)))
		return nil, archivemodel.ErrInvalidThought
	}
	if !p.broker.CanWrite(callerCtx, req.Scope, req.ScopeID) {
		p.log.Warn("add_thought denied",
			zap.String("caller_id", callerCtx.UserID),
			zap.String("scope", string(req.Scope)),
			zap.String("scope_id", req.ScopeID))
		return nil, archivemodel.ErrAccessDenied
	}

	dedupKey := fmt.Sprintf("%s|%s|%s", req.Scope, req.ScopeID, req.PromptText)
	result, err, _ := p.group.Do(dedupKey, func() (interface{}, error) {
		return p.addThoughtOnce(ctx, req)
	})
	if err != nil {
		p.log.Warn("add_thought failed", zap.Error(err))
		return nil, err
	}
	t := result.(*archivemodel.CachedThought)
	p.log.Info("thought ingested",
		zap.String("thought_id", t.ID.String()),
		zap.String("scope", string(t.Scope)),
		zap.String("scope_id", t.ScopeID))
	return t, nil
}

func (p *Pipeline) addThoughtOnce(ctx context.Context, req Request) (*archivemodel.CachedThought, error) {
	ttl := req.TTLSeconds
	if ttl <= 0 {
		ttl = p.ttls[string(req.Scope)]
		if ttl <= 0 {
			ttl = 24 * 3600
		}
	}

	t := &archivemodel.CachedThought{
		ID:             p.newID(),
		Scope:          req.Scope,
		ScopeID:        req.ScopeID,
		OwnerID:        req.OwnerID,
		PromptText:     req.PromptText,
		ReasoningTrace: req.ReasoningTrace,
		FinalResponse:  req.FinalResponse,
		SourceURNs:     req.SourceURNs,
		IsStale:        false,
		CreatedAt:      p.now(),
		TTLSeconds:     ttl,
		AccessRoles:    req.AccessRoles,
		Entities:       nil,
	}

	// A failed embed is retried up to 3 times with exponential backoff.
	text := req.PromptText + "\n" + req.FinalResponse
	vec, err := p.embed.Embed(ctx, text)
	backoff := 10 * time.Millisecond
	for retry := 0; err != nil && retry < 3 && ctx.Err() == nil; retry++ {
		time.Sleep(backoff)
		backoff *= 2
		vec, err = p.embed.Embed(ctx, text)
	}
	if err != nil {
		return nil, fmt.Errorf("%w: %v", archivemodel.ErrEmbeddingFailed, err)
	}
	t.Vector = embedder.Normalize(vec)

	if err := validation.Validate(t, p.embed.Dimensions()); err != nil {
		return nil, err
	}

	// Multi-index write respects the fixed lock order: Thought Store, then
	// Vector Index, then Graph Index.
	p.thoughts.Put(t)
	p.vectors.Insert(t.ID, t.Vector)
	p.graph.AddNode(t.ThoughtNode())
	p.graph.AddEdge(t.ThoughtNode(), archivemodel.RelCreated, t.OwnerNode())
	p.graph.AddEdge(t.ThoughtNode(), archivemodel.RelBelongsTo, t.ScopeNode())

	p.scheduleExtraction(t)

	return t, nil
}

// scheduleExtraction submits background entity extraction. The completion
// callback is idempotent: if the thought was deleted (relocation sanitized
// it, or it expired) before extraction finishes, SetEntities reports false
// and the callback is a no-op.
func (p *Pipeline) scheduleExtraction(t *archivemodel.CachedThought) {
	if p.extract == nil || p.tasks == nil {
		return
	}
	id := t.ID
	text := t.PromptText + "\n" + t.FinalResponse
	p.tasks.Submit(func(ctx context.Context) {
		entities, err := p.extract.Extract(ctx, text)
		if err != nil {
			p.log.Warn("entity extraction failed", zap.String("thought_id", id.String()), zap.Error(err))
			return
		}
		p.thoughts.SetEntities(id, entities)
	})
}
