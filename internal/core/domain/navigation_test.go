package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBuildTree_LoggedOut(t *testing.T) {
	tree := BuildTree(false, "")

	assert.False(t, tree.ShowTabs)
	assert.Equal(t, ScreenLogin, tree.Entry)
	require.Len(t, tree.Tabs, 1)
	assert.True(t, tree.Reachable(ScreenLogin, ScreenLogin))
	assert.False(t, tree.Reachable(TabHome, ScreenHome))
}

func TestBuildTree_Resident(t *testing.T) {
	tree := BuildTree(true, RoleResident)

	assert.True(t, tree.ShowTabs)
	names := make([]string, 0, len(tree.Tabs))
	for _, tab := range tree.Tabs {
		names = append(names, tab.Name)
	}
	assert.Equal(t, []string{TabHome, TabChat, TabProfile}, names)

	for _, s := range []string{ScreenMyInvoices, ScreenMyLockers, ScreenMyComplaints, ScreenChangePasswordAndAvatar} {
		assert.True(t, tree.Reachable(TabHome, s), s)
	}
	for _, s := range []string{ScreenSubMenu, ScreenResidents, ScreenLockers, ScreenAccounts} {
		assert.False(t, tree.Reachable(TabHome, s), s)
	}
	assert.False(t, tree.Reachable(TabChat, ScreenMainChat))
	assert.True(t, tree.Reachable(TabChat, ScreenChat))
}

func TestBuildTree_Admin(t *testing.T) {
	tree := BuildTree(true, RoleAdmin)

	for _, s := range []string{ScreenSubMenu, ScreenResidents, ScreenGuests, ScreenAccounts, ScreenPayments, ScreenLockers, ScreenComplaints, ScreenSurveys} {
		assert.True(t, tree.Reachable(TabHome, s), s)
	}
	assert.False(t, tree.Reachable(TabHome, ScreenMyInvoices))
	assert.True(t, tree.Reachable(TabChat, ScreenMainChat))
}

func TestTree_PathGoesThroughSubMenu(t *testing.T) {
	tree := BuildTree(true, RoleAdmin)

	path, ok := tree.Path(TabHome, ScreenResidentDetails)
	require.True(t, ok)
	assert.Equal(t, []string{ScreenHome, ScreenSubMenu, ScreenResidents, ScreenResidentDetails}, path)

	path, ok = tree.Path(TabHome, ScreenLockers)
	require.True(t, ok)
	assert.Equal(t, []string{ScreenHome, ScreenLockers}, path)

	_, ok = tree.Path(TabHome, ScreenMyInvoices)
	assert.False(t, ok)
	_, ok = tree.Path("missing", ScreenHome)
	assert.False(t, ok)
}

func TestTabBarVisible(t *testing.T) {
	tcases := []struct {
		focused string
		want    bool
	}{
		{"", true},
		{ScreenHome, true},
		{ScreenSubMenu, true},
		{ScreenResidents, false},
		{ScreenResidentDetails, false},
		{ScreenMyInvoices, false},
		{ScreenLockerDetails, false},
		{ScreenChangePasswordAndAvatar, false},
		{ScreenChat, true},
	}

	for _, tc := range tcases {
		t.Run(tc.focused, func(t *testing.T) {
			assert.Equal(t, tc.want, TabBarVisible(tc.focused))
		})
	}
}

func TestFocusedRouteName(t *testing.T) {
	assert.Equal(t, DefaultFocusedRoute, FocusedRouteName(Route{Name: TabHome}))

	r := Route{Name: TabHome, State: &NavState{
		Index:  1,
		Routes: []Route{{Name: ScreenHome}, {Name: ScreenSubMenu}},
	}}
	assert.Equal(t, ScreenSubMenu, FocusedRouteName(r))

	nested := Route{Name: "root", State: &NavState{
		Index:  0,
		Routes: []Route{{Name: TabHome, State: &NavState{
			Index:  2,
			Routes: []Route{{Name: ScreenHome}, {Name: ScreenLockers}, {Name: ScreenLockerDetails}},
		}}},
	}}
	assert.Equal(t, ScreenLockerDetails, FocusedRouteName(nested))
}
