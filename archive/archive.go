// Package archive is the composition root: it wires the Vector Index, Graph
// Index, Thought Store, Federation Broker, Temporal Ranker, Matchmaker,
// Ingestion Pipeline, Relocation Manager, and Task Runner into one
// constructed value at startup. There is no ambient singleton.
//
// The Provide-per-collaborator wiring style follows a dependency-injection
// pattern of dedicated Provide* constructors, adapted here to an
// in-process index graph rather than external service clients.
package archive

import (
	"context"
	"time"

	"go.uber.org/zap"

	"github.com/coreason-ai/archive/accountant"
	"github.com/coreason-ai/archive/archivelog"
	"github.com/coreason-ai/archive/archivemodel"
	"github.com/coreason-ai/archive/config"
	"github.com/coreason-ai/archive/embedder"
	"github.com/coreason-ai/archive/embedder/mock"
	"github.com/coreason-ai/archive/extractor"
	"github.com/coreason-ai/archive/extractor/simple"
	"github.com/coreason-ai/archive/federation"
	"github.com/coreason-ai/archive/graphindex"
	"github.com/coreason-ai/archive/hotcache"
	"github.com/coreason-ai/archive/identityevents"
	"github.com/coreason-ai/archive/ingest"
	"github.com/coreason-ai/archive/matchmaker"
	"github.com/coreason-ai/archive/relocation"
	"github.com/coreason-ai/archive/snapshot"
	"github.com/coreason-ai/archive/taskrunner"
	"github.com/coreason-ai/archive/temporal"
	"github.com/coreason-ai/archive/thoughtstore"
	"github.com/coreason-ai/archive/vectorindex"
)

// Options configures System construction. The zero value is usable: it
// selects the mock embedder, the simple regex extractor, an unbounded task
// pool, an in-memory accountant, and spec default tunables.
type Options struct {
	Embedder        embedder.Embedder
	Extractor       extractor.EntityExtractor
	Accountant      accountant.Accountant
	TaskConcurrency int
	Matchmaker      config.Matchmaker
	ScopeTTLs       config.ScopeTTLDefaults
	Sanitization    config.SanitizationRules
	HotCache        hotcache.Config
	Production      bool
}

// System is every wired component, exposed directly rather than behind a
// facade: callers (the CLI, tests) reach the Matchmaker, Pipeline, and
// Manager they need without an extra indirection layer.
type System struct {
	Logger     *zap.Logger
	Vectors    *vectorindex.Index
	Graph      *graphindex.Index
	Thoughts   *thoughtstore.Store
	Hot        *hotcache.Cache
	Broker     *federation.Broker
	Ranker     *temporal.Ranker
	Matchmaker *matchmaker.Matchmaker
	Ingest     *ingest.Pipeline
	Relocation *relocation.Manager
	Tasks      taskrunner.Runner
	Accountant accountant.Accountant
}

// New constructs a fully wired System.
func New(opts Options) (*System, error) {
	logger, err := archivelog.New(opts.Production)
	if err != nil {
		return nil, err
	}

	emb := opts.Embedder
	if emb == nil {
		logger.Warn("no embedder configured, falling back to mock embedder")
		emb = mockEmbedder()
	}

	ext := opts.Extractor
	if ext == nil {
		ext = simpleExtractor(logger)
	}

	acct := opts.Accountant
	if acct == nil {
		acct = accountant.NewInMemory()
	}

	mmCfg := opts.Matchmaker
	if mmCfg == (config.Matchmaker{}) {
		mmCfg = config.DefaultMatchmaker()
	}
	ttls := opts.ScopeTTLs
	if ttls == nil {
		ttls = config.DefaultScopeTTLs()
	}
	rules := opts.Sanitization
	if len(rules.PIIPatterns) == 0 {
		rules = config.DefaultSanitizationRules()
	}

	vectors := vectorindex.New()
	graph := graphindex.New()
	thoughts := thoughtstore.New()
	broker := federation.New()
	ranker := temporal.New()
	tasks := taskrunner.NewPool(opts.TaskConcurrency)

	hot, err := hotcache.New(thoughts, opts.HotCache)
	if err != nil {
		return nil, err
	}

	mm := matchmaker.New(vectors, graph, thoughts, hot, broker, ranker, emb, ext, acct, mmCfg, logger)
	ig := ingest.New(thoughts, vectors, graph, broker, emb, ext, tasks, ttls, logger)
	rl := relocation.New(thoughts, vectors, graph, hot, rules, logger)

	return &System{
		Logger:     logger,
		Vectors:    vectors,
		Graph:      graph,
		Thoughts:   thoughts,
		Hot:        hot,
		Broker:     broker,
		Ranker:     ranker,
		Matchmaker: mm,
		Ingest:     ig,
		Relocation: rl,
		Tasks:      tasks,
		Accountant: acct,
	}, nil
}

// Lookup is a convenience forwarder to the wired Matchmaker.
func (s *System) Lookup(ctx context.Context, queryText string, userCtx archivemodel.UserContext) (matchmaker.Result, error) {
	return s.Matchmaker.Lookup(ctx, queryText, userCtx)
}

// AddThought is a convenience forwarder to the wired Ingestion Pipeline.
func (s *System) AddThought(ctx context.Context, callerCtx archivemodel.UserContext, req ingest.Request) (*archivemodel.CachedThought, error) {
	return s.Ingest.AddThought(ctx, callerCtx, req)
}

// HandleRoleUpdate is a convenience forwarder to the wired Relocation Manager.
func (s *System) HandleRoleUpdate(update identityevents.RoleUpdate) relocation.Summary {
	return s.Relocation.OnRoleUpdate(update)
}

// HandleSourceUpdated is a convenience forwarder to the wired Relocation Manager.
func (s *System) HandleSourceUpdated(event identityevents.SourceUpdated) int {
	return s.Relocation.OnSourceUpdated(event)
}

// Snapshot writes the current Thought Store and Graph Index to path.
func (s *System) Snapshot(path string) error {
	return snapshot.Write(path, s.Thoughts, s.Graph, timeNow())
}

// Restore loads a prior snapshot from path into this System's indices.
// Intended to be called once, immediately after New, before any traffic.
func (s *System) Restore(path string) error {
	return snapshot.Load(path, s.Thoughts, s.Vectors, s.Graph)
}

// Close releases background resources (the hot cache's eviction goroutines,
// the task pool's in-flight work).
func (s *System) Close() {
	s.Hot.Close()
	if p, ok := s.Tasks.(*taskrunner.Pool); ok {
		p.Wait()
	}
	_ = s.Logger.Sync()
}

func timeNow() time.Time { return time.Now() }

// mockEmbedder provides a usable default Embedder so System.New never fails
// for lack of a production embedding-model client; the production embedder
// is an external collaborator, substituted via Options.Embedder.
func mockEmbedder() embedder.Embedder {
	return mock.New(1536)
}

// simpleExtractor provides a usable default EntityExtractor for the same
// reason; a production NLP/LLM-backed extractor can be substituted via
// Options.Extractor without touching this wiring.
func simpleExtractor(logger *zap.Logger) extractor.EntityExtractor {
	ext, err := simple.New(nil)
	if err != nil {
		// defaultPatterns() is a fixed regex set; this should never fail.
		logger.Error("simple extractor construction failed, entity extraction disabled", zap.Error(err))
		return nil
	}
	return ext
}
