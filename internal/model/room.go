package model

import (
	"slices"
	"time"
)

// RoomID is an opaque unique token identifying a room
type RoomID string

// Room is a named lobby grouping users for one game session.
//
// Members preserves join order, which is user-visible: roles are dealt
// positionally and ownership falls to the earliest-joined survivor when
// the owner leaves.
type Room struct {
	ID          RoomID
	Name        string
	Owner       string   // username; always present in Members
	Members     []string // usernames in join order
	GameStarted bool
	Roles       map[string]Role // username -> role; empty unless GameStarted
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// HasMember reports whether the given username is currently a member
func (r *Room) HasMember(username string) bool {
	return slices.Contains(r.Members, username)
}

// RoleFor returns the role assigned to the given member, or "" if none
func (r *Room) RoleFor(username string) Role {
	return r.Roles[username]
}

// Clone returns a deep copy of the room
func (r *Room) Clone() *Room {
	c := *r
	c.Members = slices.Clone(r.Members)
	if r.Roles != nil {
		c.Roles = make(map[string]Role, len(r.Roles))
		for k, v := range r.Roles {
			c.Roles[k] = v
		}
	}
	return &c
}

// RoomSummary is the list-view projection of a room
type RoomSummary struct {
	ID          RoomID
	Name        string
	Owner       string
	MemberCount int
	GameStarted bool
}

// Summary returns the list-view projection of the room
func (r *Room) Summary() RoomSummary {
	return RoomSummary{
		ID:          r.ID,
		Name:        r.Name,
		Owner:       r.Owner,
		MemberCount: len(r.Members),
		GameStarted: r.GameStarted,
	}
}
