// Package archivemodel defines the shared domain types for the archive:
// the CachedThought entity, the scope enum, graph node/edge shapes, and the
// sentinel errors every component surfaces to its caller.
package archivemodel

import (
	"fmt"
	"time"

	"github.com/google/uuid"
)

// Scope is the hierarchical visibility domain of a CachedThought.
type Scope string

const (
	ScopeUser       Scope = "USER"
	ScopeProject    Scope = "PROJECT"
	ScopeDepartment Scope = "DEPARTMENT"
	ScopeClient     Scope = "CLIENT"
	ScopeGlobal     Scope = "GLOBAL"
)

// GlobalScopeID is the sentinel scope_id for GLOBAL-scoped thoughts.
const GlobalScopeID = "*"

// Valid reports whether s is one of the five recognized scopes.
func (s Scope) Valid() bool {
	switch s {
	case ScopeUser, ScopeProject, ScopeDepartment, ScopeClient, ScopeGlobal:
		return true
	default:
		return false
	}
}

// EdgeRelation labels a directed GraphEdge.
type EdgeRelation string

const (
	RelCreated     EdgeRelation = "CREATED"
	RelBelongsTo   EdgeRelation = "BELONGS_TO"
	RelRelatedTo   EdgeRelation = "RELATED_TO"
	RelMentionedIn EdgeRelation = "MENTIONED_IN"
)

// CachedThought is the cached asset: one persisted cognitive state from a
// prior agent computation.
type CachedThought struct {
	ID uuid.UUID

	// Vector is the L2-normalized embedding of prompt+response, dimension d.
	Vector []float32

	// Entities holds typed labels of the form "<Type>:<Name>". Populated
	// asynchronously by the entity extractor; absence never blocks lookup.
	Entities []string

	Scope    Scope
	ScopeID  string
	OwnerID  string

	PromptText     string
	ReasoningTrace string
	FinalResponse  string

	SourceURNs []string
	IsStale    bool

	CreatedAt   time.Time
	TTLSeconds  int64
	AccessRoles []string
}

// ThoughtNode returns this thought's node label in the graph index.
func (t *CachedThought) ThoughtNode() string {
	return fmt.Sprintf("Thought:%s", t.ID.String())
}

// OwnerNode returns the graph label for this thought's owning user.
func (t *CachedThought) OwnerNode() string {
	return fmt.Sprintf("User:%s", t.OwnerID)
}

// ScopeNode returns the graph label for this thought's scope membership.
func (t *CachedThought) ScopeNode() string {
	return fmt.Sprintf("%s:%s", t.Scope, t.ScopeID)
}

// HasSourceURN reports whether urn is among this thought's source URNs.
func (t *CachedThought) HasSourceURN(urn string) bool {
	for _, u := range t.SourceURNs {
		if u == urn {
			return true
		}
	}
	return false
}

// UserContext is the ephemeral per-query caller identity used by the
// Federation Broker and the Matchmaker's graph boost.
type UserContext struct {
	UserID          string
	Roles           []string
	DeptIDs         []string
	ProjectIDs      []string
	ClientIDs       []string
	ActiveProjectID string
}

// HasRole reports whether the context carries the given role.
func (c UserContext) HasRole(role string) bool {
	for _, r := range c.Roles {
		if r == role {
			return true
		}
	}
	return false
}

func contains(ss []string, v string) bool {
	for _, s := range ss {
		if s == v {
			return true
		}
	}
	return false
}

// InProject reports whether projectID is one of the caller's project memberships.
func (c UserContext) InProject(projectID string) bool { return contains(c.ProjectIDs, projectID) }

// InDept reports whether deptID is one of the caller's department memberships.
func (c UserContext) InDept(deptID string) bool { return contains(c.DeptIDs, deptID) }

// InClient reports whether clientID is one of the caller's client memberships.
func (c UserContext) InClient(clientID string) bool { return contains(c.ClientIDs, clientID) }
