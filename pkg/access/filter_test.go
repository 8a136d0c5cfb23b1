package access

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func uintPtr(v uint) *uint { return &v }

func TestFilterMatchOwn(t *testing.T) {
	f := FilterFor(ScopeOwn, Actor{ID: 9, AreaID: uintPtr(2)})

	require.True(t, f.Match(SubjectView{RequesterID: 9, CurrentAreaID: uintPtr(2)}))
	// Area match alone must not leak records into an own-only scope.
	require.False(t, f.Match(SubjectView{RequesterID: 4, CurrentAreaID: uintPtr(2)}))
	require.False(t, f.Match(SubjectView{RequesterID: 4, GrantedAreaIDs: []uint{2}}))
}

// Actor with view_area on area 5 and no view_own: only the record routed to
// area 5 is visible, not the one the actor requested in area 7.
func TestFilterAreaScopeExcludesOwnRequests(t *testing.T) {
	actor := Actor{ID: 1, AreaID: uintPtr(5)}
	f := FilterFor(ScopeArea, actor)

	inArea := SubjectView{RequesterID: 2, CurrentAreaID: uintPtr(5)}
	ownElsewhere := SubjectView{RequesterID: 1, CurrentAreaID: uintPtr(7)}

	require.True(t, f.Match(inArea))
	require.False(t, f.Match(ownElsewhere))
}

func TestFilterAreaOwn(t *testing.T) {
	actor := Actor{ID: 1, AreaID: uintPtr(5)}
	f := FilterFor(ScopeAreaOwn, actor)

	require.True(t, f.Match(SubjectView{RequesterID: 2, CurrentAreaID: uintPtr(5)}))
	require.True(t, f.Match(SubjectView{RequesterID: 1, CurrentAreaID: uintPtr(7)}))
	require.False(t, f.Match(SubjectView{RequesterID: 2, CurrentAreaID: uintPtr(7)}))
}

func TestFilterHistoricalGrant(t *testing.T) {
	actor := Actor{ID: 3, AreaID: uintPtr(4)}
	f := FilterFor(ScopeArea, actor)

	escalatedAway := SubjectView{RequesterID: 8, CurrentAreaID: uintPtr(9), GrantedAreaIDs: []uint{4}}
	require.True(t, f.Match(escalatedAway))

	noGrant := SubjectView{RequesterID: 8, CurrentAreaID: uintPtr(9)}
	require.False(t, f.Match(noGrant))
}

func TestFilterAllAndNone(t *testing.T) {
	subject := SubjectView{RequesterID: 77, CurrentAreaID: uintPtr(12)}

	require.True(t, FilterFor(ScopeAll, Actor{ID: 1}).Match(subject))
	require.False(t, FilterFor(ScopeNone, Actor{ID: 77, AreaID: uintPtr(12)}).Match(subject))
}

func TestFilterActorWithoutArea(t *testing.T) {
	f := FilterFor(ScopeArea, Actor{ID: 1})
	require.False(t, f.Match(SubjectView{RequesterID: 1, CurrentAreaID: uintPtr(1)}))
}
