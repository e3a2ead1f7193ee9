package room

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/bunkerhq/bunker/internal/dependencies/clock"
	"github.com/bunkerhq/bunker/internal/dependencies/random"
	"github.com/bunkerhq/bunker/internal/model"
	"github.com/bunkerhq/bunker/internal/storage"
)

const (
	// roomIDLength is the number of random characters in a room id
	roomIDLength = 16
	// roomIDAlphabet is the characters used in room ids
	roomIDAlphabet = "0123456789abcdef"
	// roomIDPrefix marks room ids as such in logs and URLs
	roomIDPrefix = "room_"
)

// Controller implements the room registry: membership transitions, the
// lobby/active state machine and role dealing.
//
// Storage backends only guarantee per-operation consistency, so the
// controller serializes read-modify-write sequences per room with a keyed
// mutex. Without it, concurrent joins or a join racing a start could lose
// updates.
type Controller struct {
	storage storage.Storage
	clock   clock.Clock
	random  random.Random

	mu    sync.Mutex
	locks map[model.RoomID]*sync.Mutex
}

// NewController creates a new room Controller
func NewController(storage storage.Storage, clock clock.Clock, random random.Random) *Controller {
	return &Controller{
		storage: storage,
		clock:   clock,
		random:  random,
		locks:   map[model.RoomID]*sync.Mutex{},
	}
}

// lockRoom acquires the per-room mutex, creating it on first use
func (c *Controller) lockRoom(id model.RoomID) *sync.Mutex {
	c.mu.Lock()
	lock, ok := c.locks[id]
	if !ok {
		lock = &sync.Mutex{}
		c.locks[id] = lock
	}
	c.mu.Unlock()

	lock.Lock()
	return lock
}

// CreateRoom creates a room owned by the caller, who is its first member.
// An empty name defaults to "<owner>'s room".
func (c *Controller) CreateRoom(ctx context.Context, owner, name string) (*model.Room, error) {
	if name == "" {
		name = fmt.Sprintf("%s's room", owner)
	}

	// Generate a fresh unique id
	var id model.RoomID
	for {
		id = model.RoomID(roomIDPrefix + c.random.String(roomIDLength, roomIDAlphabet))
		_, err := c.storage.GetRoom(ctx, id)
		if errors.Is(err, model.ErrRoomNotFound) {
			break
		}
		if err != nil {
			return nil, err
		}
	}

	now := c.clock.Now()
	room := &model.Room{
		ID:          id,
		Name:        name,
		Owner:       owner,
		Members:     []string{owner},
		GameStarted: false,
		Roles:       map[string]model.Role{},
		CreatedAt:   now,
		UpdatedAt:   now,
	}

	if err := c.storage.SaveRoom(ctx, room); err != nil {
		return nil, err
	}

	return room, nil
}

// GetRoom retrieves a room for the given viewer.
//
// Side effect: viewing a room joins it. A viewer who is not yet a member
// is appended to the member list, so sharing a room link is the invite
// flow. Callers that must not join should use a blank viewer.
func (c *Controller) GetRoom(ctx context.Context, id model.RoomID, viewer string) (*model.Room, error) {
	if viewer == "" {
		return c.storage.GetRoom(ctx, id)
	}
	return c.JoinRoom(ctx, id, viewer)
}

// RoomForMember returns the room without the join side effect. The
// caller must already be a member; a non-member gets ErrNotMember.
func (c *Controller) RoomForMember(ctx context.Context, id model.RoomID, username string) (*model.Room, error) {
	room, err := c.storage.GetRoom(ctx, id)
	if err != nil {
		return nil, err
	}
	if !room.HasMember(username) {
		return nil, model.ErrNotMember
	}
	return room, nil
}

// JoinRoom adds the user to the room's members. Joining a room the user
// is already in is a no-op.
func (c *Controller) JoinRoom(ctx context.Context, id model.RoomID, username string) (*model.Room, error) {
	lock := c.lockRoom(id)
	defer lock.Unlock()

	room, err := c.storage.GetRoom(ctx, id)
	if err != nil {
		return nil, err
	}

	if room.HasMember(username) {
		return room, nil
	}

	room.Members = append(room.Members, username)
	room.UpdatedAt = c.clock.Now()

	if err := c.storage.SaveRoom(ctx, room); err != nil {
		return nil, err
	}
	return room, nil
}

// StartGame deals roles to the members and flips the room to its active
// state. Only the owner may start; member count must fit the catalog.
// Every call reshuffles and reassigns from scratch.
func (c *Controller) StartGame(ctx context.Context, id model.RoomID, caller string) (map[string]model.Role, error) {
	lock := c.lockRoom(id)
	defer lock.Unlock()

	room, err := c.storage.GetRoom(ctx, id)
	if err != nil {
		return nil, err
	}

	if room.Owner != caller {
		return nil, model.ErrNotOwner
	}
	if len(room.Members) < model.MinPlayers {
		return nil, model.ErrTooFewMembers
	}
	if len(room.Members) > model.MaxPlayers {
		return nil, model.ErrTooManyMembers
	}

	deck := c.shuffledCatalog()
	roles := make(map[string]model.Role, len(room.Members))
	for i, member := range room.Members {
		roles[member] = deck[i]
	}

	room.Roles = roles
	room.GameStarted = true
	room.UpdatedAt = c.clock.Now()

	if err := c.storage.SaveRoom(ctx, room); err != nil {
		return nil, err
	}
	return roles, nil
}

// ResetGame clears role assignments and returns the room to the lobby
// state. Only the owner may reset; membership is untouched.
func (c *Controller) ResetGame(ctx context.Context, id model.RoomID, caller string) error {
	lock := c.lockRoom(id)
	defer lock.Unlock()

	room, err := c.storage.GetRoom(ctx, id)
	if err != nil {
		return err
	}

	if room.Owner != caller {
		return model.ErrNotOwner
	}

	room.Roles = map[string]model.Role{}
	room.GameStarted = false
	room.UpdatedAt = c.clock.Now()

	return c.storage.SaveRoom(ctx, room)
}

// LeaveRoom removes the user from the room. Leaving a room that does not
// exist, or one the user is not in, is a no-op. The last member leaving
// deletes the room; if the owner leaves, ownership passes to the
// earliest-joined remaining member.
func (c *Controller) LeaveRoom(ctx context.Context, id model.RoomID, username string) error {
	lock := c.lockRoom(id)
	defer lock.Unlock()

	room, err := c.storage.GetRoom(ctx, id)
	if err != nil {
		if errors.Is(err, model.ErrRoomNotFound) {
			return nil
		}
		return err
	}

	if !room.HasMember(username) {
		return nil
	}

	members := room.Members[:0]
	for _, m := range room.Members {
		if m != username {
			members = append(members, m)
		}
	}
	room.Members = members
	delete(room.Roles, username)

	if len(room.Members) == 0 {
		if err := c.storage.DeleteRoom(ctx, id); err != nil {
			return err
		}
		c.mu.Lock()
		delete(c.locks, id)
		c.mu.Unlock()
		return nil
	}

	if room.Owner == username {
		room.Owner = room.Members[0]
	}

	room.UpdatedAt = c.clock.Now()
	return c.storage.SaveRoom(ctx, room)
}

// ListRoomsForUser returns summaries of every room the user is currently
// a member of.
func (c *Controller) ListRoomsForUser(ctx context.Context, username string) ([]model.RoomSummary, error) {
	rooms, err := c.storage.ListRoomsForUser(ctx, username)
	if err != nil {
		return nil, err
	}

	summaries := make([]model.RoomSummary, len(rooms))
	for i, room := range rooms {
		summaries[i] = room.Summary()
	}
	return summaries, nil
}

// shuffledCatalog returns a Fisher-Yates shuffle of the role catalog
func (c *Controller) shuffledCatalog() []model.Role {
	deck := make([]model.Role, len(model.RoleCatalog))
	copy(deck, model.RoleCatalog)
	for i := len(deck) - 1; i > 0; i-- {
		j := c.random.Intn(i + 1)
		deck[i], deck[j] = deck[j], deck[i]
	}
	return deck
}

// Interface for dependency injection
type ControllerInterface interface {
	CreateRoom(ctx context.Context, owner, name string) (*model.Room, error)
	GetRoom(ctx context.Context, id model.RoomID, viewer string) (*model.Room, error)
	RoomForMember(ctx context.Context, id model.RoomID, username string) (*model.Room, error)
	JoinRoom(ctx context.Context, id model.RoomID, username string) (*model.Room, error)
	StartGame(ctx context.Context, id model.RoomID, caller string) (map[string]model.Role, error)
	ResetGame(ctx context.Context, id model.RoomID, caller string) error
	LeaveRoom(ctx context.Context, id model.RoomID, username string) error
	ListRoomsForUser(ctx context.Context, username string) ([]model.RoomSummary, error)
}

var _ ControllerInterface = (*Controller)(nil)
