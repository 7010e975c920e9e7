package domain

// SessionState is the process-wide session: either logged out (nil identity)
// or logged in with the identity returned by the backend.
type SessionState struct {
	Identity *Identity
}

// LoggedIn reports whether the state holds an identity.
func (s SessionState) LoggedIn() bool {
	return s.Identity != nil
}

// Role is recomputed from the identity on every call.
func (s SessionState) Role() Role {
	return ResolveRole(s.Identity)
}

// Username returns "" when logged out.
func (s SessionState) Username() string {
	if s.Identity == nil {
		return ""
	}
	return s.Identity.Username
}

type ActionType string

const (
	ActionLogin  ActionType = "login"
	ActionLogout ActionType = "logout"
)

// SessionAction is the only way to change a SessionState.
type SessionAction struct {
	Type     ActionType
	Identity *Identity
}

// Login builds a login action carrying id.
func Login(id *Identity) SessionAction {
	return SessionAction{Type: ActionLogin, Identity: id}
}

// Logout builds a logout action.
func Logout() SessionAction {
	return SessionAction{Type: ActionLogout}
}

// Reduce applies action to state. Unknown actions and a login without an
// identity leave the state unchanged.
func Reduce(state SessionState, action SessionAction) SessionState {
	switch action.Type {
	case ActionLogin:
		if action.Identity == nil {
			return state
		}
		id := *action.Identity
		return SessionState{Identity: &id}
	case ActionLogout:
		return SessionState{}
	default:
		return state
	}
}
