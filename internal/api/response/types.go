package response

import (
	"time"

	"github.com/bunkerhq/bunker/internal/model"
	"github.com/bunkerhq/bunker/internal/services/auth"
)

// AuthResponse is the response for authentication endpoints
type AuthResponse struct {
	Username     string `json:"username"`
	SessionToken string `json:"session_token"`
}

// AuthResponseFromSession creates an AuthResponse from a session
func AuthResponseFromSession(s *auth.Session) AuthResponse {
	return AuthResponse{
		Username:     s.Username,
		SessionToken: s.Token,
	}
}

// Account represents the authenticated account
type Account struct {
	Username string `json:"username"`
}

// Room represents a room in API responses.
//
// UserRole and IsOwner are viewer-relative, matching what the lobby page
// needs to render without a second request.
type Room struct {
	ID          string            `json:"id"`
	Name        string            `json:"name"`
	Owner       string            `json:"owner"`
	Members     []string          `json:"members"`
	GameStarted bool              `json:"game_started"`
	Roles       map[string]string `json:"roles"`
	UserRole    string            `json:"user_role,omitempty"`
	IsOwner     bool              `json:"is_owner"`
}

// RoomFromModel converts a model.Room for the given viewer
func RoomFromModel(r *model.Room, viewer string) Room {
	roles := make(map[string]string, len(r.Roles))
	for username, role := range r.Roles {
		roles[username] = string(role)
	}

	return Room{
		ID:          string(r.ID),
		Name:        r.Name,
		Owner:       r.Owner,
		Members:     r.Members,
		GameStarted: r.GameStarted,
		Roles:       roles,
		UserRole:    string(r.RoleFor(viewer)),
		IsOwner:     r.Owner == viewer,
	}
}

// RoomSummary represents a room in list responses
type RoomSummary struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	Owner       string `json:"owner"`
	MemberCount int    `json:"member_count"`
	GameStarted bool   `json:"game_started"`
}

// RoomSummaryFromModel converts a model.RoomSummary
func RoomSummaryFromModel(s model.RoomSummary) RoomSummary {
	return RoomSummary{
		ID:          string(s.ID),
		Name:        s.Name,
		Owner:       s.Owner,
		MemberCount: s.MemberCount,
		GameStarted: s.GameStarted,
	}
}

// RoomList is the response for the room list endpoint
type RoomList struct {
	Rooms []RoomSummary `json:"rooms"`
}

// StartGameResponse is the response after dealing roles
type StartGameResponse struct {
	Roles map[string]string `json:"roles"`
}

// Health is the response for the health endpoint
type Health struct {
	Status    string    `json:"status"`
	Timestamp time.Time `json:"timestamp"`
	Accounts  int       `json:"accounts_count"`
	Rooms     int       `json:"rooms_count"`
}
