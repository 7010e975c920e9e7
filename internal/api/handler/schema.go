package handler

import (
	"github.com/oubuilding/apartment-client/internal/core/aggregate"
	"github.com/oubuilding/apartment-client/internal/core/domain"
	"github.com/oubuilding/apartment-client/internal/core/ports"
)

// errorResponse is the standard error envelope returned on all 4xx/5xx responses.
type errorResponse struct {
	Error  string            `json:"error"`
	Fields map[string]string `json:"fields,omitempty"`
}

// --- Session ---

type loginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

type sessionResponse struct {
	Token    string           `json:"token,omitempty"`
	Identity *domain.Identity `json:"identity"`
	Role     domain.Role      `json:"role,omitempty"`
	Tree     domain.Tree      `json:"tree"`
	Position ports.Position   `json:"position"`
}

// --- Navigation ---

type navigationResponse struct {
	Tree     domain.Tree    `json:"tree"`
	Position ports.Position `json:"position"`
}

type navigateRequest struct {
	Tab    string `json:"tab"    validate:"required"`
	Screen string `json:"screen" validate:"required"`
}

type backResponse struct {
	Moved    bool           `json:"moved"`
	Position ports.Position `json:"position"`
}

type tabBarResponse struct {
	Visible bool `json:"visible"`
}

// --- Directory ---

type residentsPage = aggregate.Page[ports.ApartmentGroup]

type lockersPage = aggregate.Page[ports.LockerEntry]

type toggleRequest struct {
	IsActive *bool `json:"is_active" validate:"required"`
}

// --- Resident ---

type complaintRequest struct {
	Description string `json:"description"`
}

// --- Chat ---

type peerQuery struct {
	With string `query:"with"`
}

type peerResponse struct {
	Peer string `json:"peer"`
	Room string `json:"room"`
}

// snapshotFrame is pushed to the chat feed after every change of the room.
type snapshotFrame struct {
	Room     string               `json:"room"`
	Messages []domain.ChatMessage `json:"messages"`
}

// sendFrame is what the client writes to the chat feed.
type sendFrame struct {
	Text string `json:"text"`
}
