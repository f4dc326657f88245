package federation_test

import (
	"testing"

	"github.com/coreason-ai/archive/archivemodel"
	"github.com/coreason-ai/archive/federation"
)

func TestCanRead_UserScopeRequiresOwnership(t *testing.T) {
	b := federation.New()
	t1 := &archivemodel.CachedThought{Scope: archivemodel.ScopeUser, OwnerID: "alice"}

	if !b.CanRead(archivemodel.UserContext{UserID: "alice"}, t1) {
		t.Fatalf("owner must be able to read their own USER-scoped thought")
	}
	if b.CanRead(archivemodel.UserContext{UserID: "bob"}, t1) {
		t.Fatalf("non-owner must not read another user's USER-scoped thought")
	}
}

func TestCanRead_ProjectScopeRequiresMembership(t *testing.T) {
	b := federation.New()
	t1 := &archivemodel.CachedThought{Scope: archivemodel.ScopeProject, ScopeID: "apollo"}

	member := archivemodel.UserContext{ProjectIDs: []string{"apollo"}}
	nonMember := archivemodel.UserContext{ProjectIDs: []string{"mercury"}}

	if !b.CanRead(member, t1) {
		t.Fatalf("project member must be able to read")
	}
	if b.CanRead(nonMember, t1) {
		t.Fatalf("non-member must not be able to read")
	}
}

func TestCanRead_GlobalScopeAlwaysReadable(t *testing.T) {
	b := federation.New()
	t1 := &archivemodel.CachedThought{Scope: archivemodel.ScopeGlobal}
	if !b.CanRead(archivemodel.UserContext{}, t1) {
		t.Fatalf("GLOBAL scope must be readable by anyone")
	}
}

func TestCanRead_AccessRolesAreConjunctive(t *testing.T) {
	b := federation.New()
	t1 := &archivemodel.CachedThought{
		Scope:       archivemodel.ScopeGlobal,
		AccessRoles: []string{"role:a", "role:b"},
	}

	if b.CanRead(archivemodel.UserContext{Roles: []string{"role:a"}}, t1) {
		t.Fatalf("holding only one of two required roles must deny read")
	}
	if !b.CanRead(archivemodel.UserContext{Roles: []string{"role:a", "role:b", "role:c"}}, t1) {
		t.Fatalf("holding all required roles (plus extra) must allow read")
	}
}

func TestCanWrite_GlobalRequiresDedicatedRole(t *testing.T) {
	b := federation.New()

	withoutRole := archivemodel.UserContext{}
	withRole := archivemodel.UserContext{Roles: []string{federation.GlobalWriteRole}}

	if b.CanWrite(withoutRole, archivemodel.ScopeGlobal, archivemodel.GlobalScopeID) {
		t.Fatalf("GLOBAL write must require the dedicated role")
	}
	if !b.CanWrite(withRole, archivemodel.ScopeGlobal, archivemodel.GlobalScopeID) {
		t.Fatalf("holding the dedicated role must allow GLOBAL write")
	}
}

func TestCanWrite_UserScopeRequiresSelfScopeID(t *testing.T) {
	b := federation.New()
	ctx := archivemodel.UserContext{UserID: "alice"}

	if !b.CanWrite(ctx, archivemodel.ScopeUser, "alice") {
		t.Fatalf("user must be able to write to their own USER scope")
	}
	if b.CanWrite(ctx, archivemodel.ScopeUser, "bob") {
		t.Fatalf("user must not be able to write to another user's USER scope")
	}
}
