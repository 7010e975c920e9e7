package service

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/oubuilding/apartment-client/internal/core/domain"
)

func TestNavigator_LoggedOut(t *testing.T) {
	n := NewNavigator()

	pos := n.Position()
	assert.Equal(t, domain.ScreenLogin, pos.Tab)
	assert.Equal(t, []string{domain.ScreenLogin}, pos.Stack)
	assert.False(t, pos.TabBarVisible)

	err := n.Navigate(domain.TabHome, domain.ScreenHome)
	assert.True(t, errors.Is(err, domain.ErrScreenUnreachable))
}

func TestNavigator_TabBarFollowsFocusedScreen(t *testing.T) {
	n := NewNavigator()
	n.Rebuild(domain.Reduce(domain.SessionState{}, domain.Login(adminIdentity())))

	assert.True(t, n.TabBarVisible(), "default focused route is home")

	require.NoError(t, n.Navigate(domain.TabHome, domain.ScreenSubMenu))
	assert.True(t, n.TabBarVisible())

	require.NoError(t, n.Navigate(domain.TabHome, domain.ScreenResidentDetails))
	pos := n.Position()
	assert.Equal(t, domain.ScreenResidentDetails, pos.Focused)
	assert.Equal(t, []string{domain.ScreenHome, domain.ScreenSubMenu, domain.ScreenResidents, domain.ScreenResidentDetails}, pos.Stack)
	assert.False(t, pos.TabBarVisible)

	require.NoError(t, n.Navigate(domain.TabChat, domain.ScreenMainChat))
	assert.True(t, n.TabBarVisible())

	require.NoError(t, n.Navigate(domain.TabHome, domain.ScreenResidentDetails))
	assert.True(t, n.Back())
	assert.True(t, n.Back())
	assert.Equal(t, domain.ScreenSubMenu, n.Position().Focused)
	assert.True(t, n.TabBarVisible())
}

func TestNavigator_ResidentCannotReachAdminScreens(t *testing.T) {
	n := NewNavigator()
	n.Rebuild(domain.Reduce(domain.SessionState{}, domain.Login(residentIdentity())))

	err := n.Navigate(domain.TabHome, domain.ScreenLockers)
	assert.ErrorIs(t, err, domain.ErrScreenUnreachable)
	require.NoError(t, n.Navigate(domain.TabHome, domain.ScreenMyLockers))
	assert.False(t, n.TabBarVisible())
}

func TestNavigator_LeavingScreensUnmountsLoads(t *testing.T) {
	env := newTestEnv(t, nil, SessionOptions{})
	env.loginAs(t, adminIdentity())
	nav := env.app.Navigation()
	require.NoError(t, nav.Navigate(domain.TabHome, domain.ScreenLockerDetails))

	started := make(chan struct{})
	result := make(chan error, 1)
	go func() {
		result <- env.app.Load(context.Background(), domain.ScreenLockerDetails, func(ctx context.Context) error {
			close(started)
			<-ctx.Done()
			return ctx.Err()
		})
	}()
	<-started

	assert.True(t, nav.Back())

	assert.ErrorIs(t, <-result, ErrStale)
}
