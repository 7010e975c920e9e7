package domain

import (
	"errors"
	"fmt"
	"sort"
	"strings"
)

var (
	// ErrNetwork covers every missing or non-success backend response,
	// including 403s.
	ErrNetwork = errors.New("network failure")
	// ErrValidation blocks a submission before any network call.
	ErrValidation = errors.New("validation failure")
	// ErrNotFound is returned when a detail screen's id does not resolve.
	ErrNotFound = errors.New("not found")
)

var (
	// ErrLoginFailed wraps every non-validation login failure.
	ErrLoginFailed       = errors.New("login failed")
	ErrNotLoggedIn       = errors.New("not logged in")
	ErrScreenUnreachable = errors.New("screen not reachable")
	ErrForbidden         = errors.New("access forbidden")
	ErrNoChatPeer        = errors.New("no chat peer selected")
)

// LoginFailedNotice is the only message shown when login fails.
const LoginFailedNotice = "an error occurred, please try again"

// ValidationError lists the offending form fields with a message each.
type ValidationError struct {
	Fields map[string]string
}

func NewValidationError(field, msg string) *ValidationError {
	return &ValidationError{Fields: map[string]string{field: msg}}
}

func (e *ValidationError) Error() string {
	keys := make([]string, 0, len(e.Fields))
	for k := range e.Fields {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	msgs := make([]string, 0, len(keys))
	for _, k := range keys {
		msgs = append(msgs, e.Fields[k])
	}
	return strings.Join(msgs, "; ")
}

func (e *ValidationError) Unwrap() error { return ErrValidation }

// Notice turns err into the general message a user sees for action.
// Validation messages are shown as is; every other cause stays in the logs.
func Notice(action string, err error) string {
	var ve *ValidationError
	switch {
	case errors.As(err, &ve):
		return ve.Error()
	case errors.Is(err, ErrLoginFailed):
		return LoginFailedNotice
	case errors.Is(err, ErrNotFound):
		return fmt.Sprintf("could not %s: not found", action)
	default:
		return fmt.Sprintf("could not %s", action)
	}
}
