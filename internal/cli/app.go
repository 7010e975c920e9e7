package cli

import (
	"context"
	"errors"
	"io"

	"github.com/oubuilding/apartment-client/internal/core/domain"
	"github.com/oubuilding/apartment-client/internal/core/ports"
)

// Env is what every command runs against: one application context whose
// token slot outlives the process.
type Env struct {
	Client ports.Client
	Out    io.Writer
}

// noticeError carries the message shown to the user while keeping the cause
// for errors.Is and the logs.
type noticeError struct {
	notice string
	err    error
}

func (e *noticeError) Error() string { return e.notice }

func (e *noticeError) Unwrap() error { return e.err }

func fail(action string, err error) error {
	if errors.Is(err, ports.ErrNoToken) {
		err = errors.Join(domain.ErrNotLoggedIn, err)
		return &noticeError{notice: "not logged in, run 'apartctl login' first", err: err}
	}
	if errors.Is(err, domain.ErrNoChatPeer) {
		return &noticeError{notice: "pick someone to chat with (--to)", err: err}
	}
	if errors.Is(err, domain.ErrScreenUnreachable) {
		return &noticeError{notice: "not available for this account", err: err}
	}
	return &noticeError{notice: domain.Notice(action, err), err: err}
}

// restore logs in with the stored token.
func (env *Env) restore(ctx context.Context) (*domain.Identity, error) {
	id, err := env.Client.Session().Restore(ctx)
	if err != nil {
		return nil, fail("restore the session", err)
	}
	return id, nil
}

// open restores the session, navigates to screen and loads it under the
// screen's stale-result guard.
func (env *Env) open(ctx context.Context, tab, screen string, fn func(ctx context.Context) error) error {
	if _, err := env.restore(ctx); err != nil {
		return err
	}
	if err := env.Client.Navigation().Navigate(tab, screen); err != nil {
		return fail("open "+screen, err)
	}
	if err := env.Client.Load(ctx, screen, fn); err != nil {
		return fail("load "+screen, err)
	}
	return nil
}

func (env *Env) printer() printer {
	return printer{out: env.Out}
}
