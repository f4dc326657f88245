// Package relocation implements the Relocation Manager: the reactive
// sanitizer that keeps the cache honest when the outside world changes
// underneath it — a user's roles/memberships change, or a source document
// is edited.
//
// The shape is a predicate evaluated against stored state, with a summary
// of what it did, adapted here from pre-call guardrail checks to post-hoc
// cache maintenance.
package relocation

import (
	"go.uber.org/zap"

	"github.com/coreason-ai/archive/archivelog"
	"github.com/coreason-ai/archive/archivemodel"
	"github.com/coreason-ai/archive/config"
	"github.com/coreason-ai/archive/graphindex"
	"github.com/coreason-ai/archive/hotcache"
	"github.com/coreason-ai/archive/identityevents"
	"github.com/coreason-ai/archive/thoughtstore"
	"github.com/coreason-ai/archive/vectorindex"
)

// Summary reports what OnRoleUpdate did, for logging and the
// relocation_summary event broadcast to observers.
type Summary struct {
	UserID   string
	Scanned  int
	Retained int
	Deleted  int
}

// Manager subscribes to identity and source-document change events and
// reacts by sanitizing or invalidating affected cached thoughts.
type Manager struct {
	thoughts *thoughtstore.Store
	vectors  *vectorindex.Index
	graph    *graphindex.Index
	hot      *hotcache.Cache
	rules    config.SanitizationRules
	log      *zap.Logger
}

// New constructs a Manager. hot may be nil: deletions then go straight to
// the backing indices with no hot-entry cache to invalidate. log may be
// nil, defaulting to a no-op logger.
func New(thoughts *thoughtstore.Store, vectors *vectorindex.Index, graph *graphindex.Index, hot *hotcache.Cache, rules config.SanitizationRules, log *zap.Logger) *Manager {
	if log == nil {
		log = archivelog.Noop()
	}
	return &Manager{thoughts: thoughts, vectors: vectors, graph: graph, hot: hot, rules: rules, log: log}
}

// OnRoleUpdate handles a role-change event: every USER-scoped thought owned
// by the affected user is checked against
// the sanitization predicate; thoughts found sensitive (by content, by a
// thought's own access_roles tag matching a sensitive-role prefix, or by an
// entity on the deny list) are deleted across all three indices rather than
// silently kept with stale entitlements. Non-sensitive thoughts are left
// untouched — a role change alone never invalidates ordinary cached
// reasoning.
func (m *Manager) OnRoleUpdate(update identityevents.RoleUpdate) Summary {
	sum := Summary{UserID: update.UserID}

	owned := m.thoughts.Scan(func(t *archivemodel.CachedThought) bool {
		return t.Scope == archivemodel.ScopeUser && t.OwnerID == update.UserID
	})
	sum.Scanned = len(owned)

	for _, t := range owned {
		sensitive := m.rules.ContainsSensitive(t.PromptText, t.ReasoningTrace, t.FinalResponse) ||
			m.rules.RolesSensitive(t.AccessRoles) ||
			m.rules.EntitiesSensitive(t.Entities)

		if sensitive {
			m.deleteThought(t)
			sum.Deleted++
			m.log.Info("relocation deleted sensitive thought",
				zap.String("thought_id", t.ID.String()),
				zap.String("user_id", update.UserID))
			continue
		}
		sum.Retained++
	}

	m.log.Info("role update processed",
		zap.String("user_id", update.UserID),
		zap.Int("scanned", sum.Scanned),
		zap.Int("deleted", sum.Deleted),
		zap.Int("retained", sum.Retained))

	return sum
}

// OnSourceUpdated handles a source-update event: every thought whose
// source_urns includes the updated document is marked stale, making it
// ineligible for EXACT_HIT/SEMANTIC_HINT/ENTITY_HOP classification without
// deleting it — a stale thought stays in every index. Idempotent:
// re-applying the same event leaves already-stale
// thoughts unchanged.
func (m *Manager) OnSourceUpdated(event identityevents.SourceUpdated) int {
	n := m.thoughts.MarkStale(event.SourceURN)
	m.log.Info("source update processed",
		zap.String("source_urn", event.SourceURN),
		zap.Int("marked_stale", n))
	return n
}

func (m *Manager) deleteThought(t *archivemodel.CachedThought) {
	// Lock order: Thought Store → Vector Index → Graph Index.
	m.thoughts.Delete(t.ID)
	m.vectors.Remove(t.ID)
	m.graph.RemoveNode(t.ThoughtNode())
	if m.hot != nil {
		m.hot.Invalidate(t.ID)
	}
}
