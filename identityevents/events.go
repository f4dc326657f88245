// Package identityevents defines the two external event shapes the
// Relocation Manager subscribes to: role-change notifications from the
// identity provider and source-update notifications from the source
// document registry.
package identityevents

// RoleUpdate is emitted by the identity provider when a user's roles or
// department/project memberships change.
type RoleUpdate struct {
	UserID         string
	AddedRoles     []string
	RemovedRoles   []string
	NewDeptIDs     []string
	OldDeptIDs     []string
	NewProjectIDs  []string
	OldProjectIDs  []string
}

// RemovedDepts returns the departments present in OldDeptIDs but absent from
// NewDeptIDs: the set the caller lost access to.
func (r RoleUpdate) RemovedDepts() []string {
	return setDifference(r.OldDeptIDs, r.NewDeptIDs)
}

func setDifference(a, b []string) []string {
	in := make(map[string]bool, len(b))
	for _, v := range b {
		in[v] = true
	}
	var out []string
	for _, v := range a {
		if !in[v] {
			out = append(out, v)
		}
	}
	return out
}

// SourceUpdated is emitted by the source-document registry when a document
// backing one or more cached thoughts has changed.
type SourceUpdated struct {
	SourceURN string
}
