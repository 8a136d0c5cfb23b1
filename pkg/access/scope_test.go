package access

import (
	"testing"

	"github.com/stretchr/testify/require"
)

var ticketNames = PermissionNames{
	ManageAll:    "tickets.manage_all",
	ViewArea:     "tickets.view_area",
	ViewOwn:      "tickets.view_own",
	Update:       "tickets.update",
	ChangeStatus: "tickets.change_status",
	Assign:       "tickets.assign",
	Escalate:     "tickets.escalate",
	Comment:      "tickets.comment",
}

func TestResolveScope(t *testing.T) {
	cases := []struct {
		name    string
		perms   []string
		hasArea bool
		want    Scope
	}{
		{"manage all wins", []string{"tickets.manage_all"}, false, ScopeAll},
		{"manage all ignores others", []string{"tickets.manage_all", "tickets.view_own"}, true, ScopeAll},
		{"area and own", []string{"tickets.view_area", "tickets.view_own"}, true, ScopeAreaOwn},
		{"area only", []string{"tickets.view_area"}, true, ScopeArea},
		{"area permission without area falls back to own", []string{"tickets.view_area", "tickets.view_own"}, false, ScopeOwn},
		{"area permission without area and without own", []string{"tickets.view_area"}, false, ScopeNone},
		{"own only", []string{"tickets.view_own"}, false, ScopeOwn},
		{"nothing", nil, true, ScopeNone},
		{"unrelated permissions", []string{"incidents.view_area"}, true, ScopeNone},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got := ResolveScope(NewPermissionSet(tc.perms...), tc.hasArea, ticketNames)
			require.Equal(t, tc.want, got)
		})
	}
}

// The resolver must always land on exactly one of the five classes, for any
// combination of the three relevant permissions and area membership.
func TestResolveScopeTotal(t *testing.T) {
	all := []string{"tickets.manage_all", "tickets.view_area", "tickets.view_own"}
	for mask := 0; mask < 8; mask++ {
		for _, hasArea := range []bool{false, true} {
			var perms []string
			for i, name := range all {
				if mask&(1<<i) != 0 {
					perms = append(perms, name)
				}
			}
			got := ResolveScope(NewPermissionSet(perms...), hasArea, ticketNames)
			require.Contains(t, []Scope{ScopeNone, ScopeOwn, ScopeArea, ScopeAreaOwn, ScopeAll}, got)
			// Purity: same inputs, same answer.
			require.Equal(t, got, ResolveScope(NewPermissionSet(perms...), hasArea, ticketNames))
		}
	}
}

func TestScopeString(t *testing.T) {
	require.Equal(t, "all", ScopeAll.String())
	require.Equal(t, "area+own", ScopeAreaOwn.String())
	require.Equal(t, "area", ScopeArea.String())
	require.Equal(t, "own", ScopeOwn.String())
	require.Equal(t, "none", ScopeNone.String())
}
