// Package federation implements the Federation Broker: it compiles a
// UserContext into a scope-filter predicate and is the single gate every
// read path routes through. There is no unfiltered read API exposed beyond
// it.
package federation

import "github.com/coreason-ai/archive/archivemodel"

// Broker compiles UserContext values into read predicates and exposes the
// write-side RBAC check used by the ingestion pipeline.
type Broker struct{}

// New creates a Broker. It carries no state: every method is a pure
// function of its arguments.
func New() *Broker {
	return &Broker{}
}

// CanRead reports whether ctx may read t, per the scope predicate:
//
//	P(t) ≡ (scope match) ∧ (access_roles ⊆ ctx.roles)
func (b *Broker) CanRead(ctx archivemodel.UserContext, t *archivemodel.CachedThought) bool {
	if !b.scopeMatch(ctx, t) {
		return false
	}
	return rolesSubset(t.AccessRoles, ctx.Roles)
}

func (b *Broker) scopeMatch(ctx archivemodel.UserContext, t *archivemodel.CachedThought) bool {
	switch t.Scope {
	case archivemodel.ScopeUser:
		return t.OwnerID == ctx.UserID
	case archivemodel.ScopeProject:
		return ctx.InProject(t.ScopeID)
	case archivemodel.ScopeDepartment:
		return ctx.InDept(t.ScopeID)
	case archivemodel.ScopeClient:
		return ctx.InClient(t.ScopeID)
	case archivemodel.ScopeGlobal:
		return true
	default:
		return false
	}
}

// rolesSubset reports whether every role in required is present in held
// (conjunctive access_roles: the caller must hold all of them).
func rolesSubset(required, held []string) bool {
	if len(required) == 0 {
		return true
	}
	heldSet := make(map[string]bool, len(held))
	for _, r := range held {
		heldSet[r] = true
	}
	for _, r := range required {
		if !heldSet[r] {
			return false
		}
	}
	return true
}

// Predicate returns a standalone predicate closure bound to ctx, for callers
// that filter a slice with sort/filter helpers rather than calling CanRead
// per element.
func (b *Broker) Predicate(ctx archivemodel.UserContext) func(*archivemodel.CachedThought) bool {
	return func(t *archivemodel.CachedThought) bool {
		return b.CanRead(ctx, t)
	}
}

// CanWrite reports whether ctx is authorized to ingest a thought under the
// given scope/scope_id:
//   - USER requires scope_id == ctx.UserID
//   - PROJECT requires scope_id ∈ ctx.ProjectIDs
//   - DEPARTMENT requires scope_id ∈ ctx.DeptIDs
//   - CLIENT requires scope_id ∈ ctx.ClientIDs
//   - GLOBAL requires the dedicated role "archive:write_global"
const GlobalWriteRole = "archive:write_global"

func (b *Broker) CanWrite(ctx archivemodel.UserContext, scope archivemodel.Scope, scopeID string) bool {
	switch scope {
	case archivemodel.ScopeUser:
		return scopeID == ctx.UserID
	case archivemodel.ScopeProject:
		return ctx.InProject(scopeID)
	case archivemodel.ScopeDepartment:
		return ctx.InDept(scopeID)
	case archivemodel.ScopeClient:
		return ctx.InClient(scopeID)
	case archivemodel.ScopeGlobal:
		return ctx.HasRole(GlobalWriteRole)
	default:
		return false
	}
}
