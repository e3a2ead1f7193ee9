package sqlite

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/suite"

	"github.com/bunkerhq/bunker/internal/model"
)

type StorageSuite struct {
	suite.Suite
	storage *Storage
	ctx     context.Context
}

func TestStorageSuite(t *testing.T) {
	suite.Run(t, new(StorageSuite))
}

func (s *StorageSuite) SetupTest() {
	store, err := Open(filepath.Join(s.T().TempDir(), "bunker.db"))
	s.Require().NoError(err)
	s.storage = store
	s.ctx = context.Background()
}

func (s *StorageSuite) TearDownTest() {
	if s.storage != nil {
		_ = s.storage.Close()
	}
}

// Account tests

func (s *StorageSuite) TestSaveAndGetAccount() {
	account := &model.Account{
		Username:     "alice",
		PasswordHash: "hash123",
		CreatedAt:    time.Now().UTC(),
	}

	err := s.storage.SaveAccount(s.ctx, account)
	s.Require().NoError(err)

	retrieved, err := s.storage.GetAccount(s.ctx, "alice")
	s.Require().NoError(err)
	s.Equal(account.Username, retrieved.Username)
	s.Equal(account.PasswordHash, retrieved.PasswordHash)
	s.WithinDuration(account.CreatedAt, retrieved.CreatedAt, time.Second)
}

func (s *StorageSuite) TestGetAccountNotFound() {
	_, err := s.storage.GetAccount(s.ctx, "nonexistent")
	s.ErrorIs(err, model.ErrAccountNotFound)
}

func (s *StorageSuite) TestAccountExists() {
	_ = s.storage.SaveAccount(s.ctx, &model.Account{Username: "alice", CreatedAt: time.Now()})

	exists, err := s.storage.AccountExists(s.ctx, "alice")
	s.Require().NoError(err)
	s.True(exists)

	exists, err = s.storage.AccountExists(s.ctx, "nonexistent")
	s.Require().NoError(err)
	s.False(exists)
}

func (s *StorageSuite) TestCountAccounts() {
	_ = s.storage.SaveAccount(s.ctx, &model.Account{Username: "alice", CreatedAt: time.Now()})
	_ = s.storage.SaveAccount(s.ctx, &model.Account{Username: "bob", CreatedAt: time.Now()})

	count, err := s.storage.CountAccounts(s.ctx)
	s.Require().NoError(err)
	s.Equal(2, count)
}

// Room tests

func (s *StorageSuite) TestSaveAndGetRoom() {
	room := &model.Room{
		ID:        "room_abc",
		Name:      "alice's room",
		Owner:     "alice",
		Members:   []string{"alice", "bob", "carol"},
		Roles:     map[string]model.Role{},
		CreatedAt: time.Now().UTC(),
		UpdatedAt: time.Now().UTC(),
	}

	err := s.storage.SaveRoom(s.ctx, room)
	s.Require().NoError(err)

	retrieved, err := s.storage.GetRoom(s.ctx, "room_abc")
	s.Require().NoError(err)
	s.Equal(room.ID, retrieved.ID)
	s.Equal(room.Name, retrieved.Name)
	s.Equal(room.Owner, retrieved.Owner)
}

func (s *StorageSuite) TestMemberJoinOrderPreserved() {
	room := &model.Room{
		ID:        "room_abc",
		Owner:     "alice",
		Members:   []string{"alice", "bob", "carol", "dave"},
		Roles:     map[string]model.Role{},
		CreatedAt: time.Now(),
	}
	_ = s.storage.SaveRoom(s.ctx, room)

	retrieved, err := s.storage.GetRoom(s.ctx, "room_abc")
	s.Require().NoError(err)
	s.Equal([]string{"alice", "bob", "carol", "dave"}, retrieved.Members)
}

func (s *StorageSuite) TestGetRoomNotFound() {
	_, err := s.storage.GetRoom(s.ctx, "nonexistent")
	s.ErrorIs(err, model.ErrRoomNotFound)
}

func (s *StorageSuite) TestDeleteRoom() {
	room := &model.Room{ID: "room_abc", Owner: "alice", Members: []string{"alice"}, CreatedAt: time.Now()}
	_ = s.storage.SaveRoom(s.ctx, room)

	err := s.storage.DeleteRoom(s.ctx, "room_abc")
	s.Require().NoError(err)

	_, err = s.storage.GetRoom(s.ctx, "room_abc")
	s.ErrorIs(err, model.ErrRoomNotFound)
}

func (s *StorageSuite) TestListRoomsForUser() {
	_ = s.storage.SaveRoom(s.ctx, &model.Room{
		ID: "room_1", Owner: "alice", Members: []string{"alice", "bob"}, CreatedAt: time.Now(),
	})
	_ = s.storage.SaveRoom(s.ctx, &model.Room{
		ID: "room_2", Owner: "bob", Members: []string{"bob"}, CreatedAt: time.Now(),
	})

	rooms, err := s.storage.ListRoomsForUser(s.ctx, "bob")
	s.Require().NoError(err)
	s.Len(rooms, 2)

	rooms, err = s.storage.ListRoomsForUser(s.ctx, "alice")
	s.Require().NoError(err)
	s.Len(rooms, 1)
	s.Equal(model.RoomID("room_1"), rooms[0].ID)
}

func (s *StorageSuite) TestCountRooms() {
	_ = s.storage.SaveRoom(s.ctx, &model.Room{ID: "room_1", Owner: "alice", Members: []string{"alice"}, CreatedAt: time.Now()})

	count, err := s.storage.CountRooms(s.ctx)
	s.Require().NoError(err)
	s.Equal(1, count)
}

func (s *StorageSuite) TestRoomRolesRoundTrip() {
	room := &model.Room{
		ID:          "room_1",
		Owner:       "alice",
		Members:     []string{"alice", "bob"},
		GameStarted: true,
		Roles: map[string]model.Role{
			"alice": "Cook",
			"bob":   "Scientist",
		},
		CreatedAt: time.Now(),
	}
	_ = s.storage.SaveRoom(s.ctx, room)

	retrieved, err := s.storage.GetRoom(s.ctx, "room_1")
	s.Require().NoError(err)
	s.True(retrieved.GameStarted)
	s.Equal(model.Role("Cook"), retrieved.RoleFor("alice"))
	s.Equal(model.Role("Scientist"), retrieved.RoleFor("bob"))
}

func (s *StorageSuite) TestSaveRoomReplacesMembers() {
	room := &model.Room{
		ID: "room_1", Owner: "alice", Members: []string{"alice", "bob"},
		Roles: map[string]model.Role{}, CreatedAt: time.Now(),
	}
	_ = s.storage.SaveRoom(s.ctx, room)

	room.Members = []string{"alice"}
	_ = s.storage.SaveRoom(s.ctx, room)

	retrieved, err := s.storage.GetRoom(s.ctx, "room_1")
	s.Require().NoError(err)
	s.Equal([]string{"alice"}, retrieved.Members)

	rooms, err := s.storage.ListRoomsForUser(s.ctx, "bob")
	s.Require().NoError(err)
	s.Empty(rooms)
}

func (s *StorageSuite) TestInMemoryDatabase() {
	store, err := Open(":memory:")
	s.Require().NoError(err)
	defer func() { _ = store.Close() }()

	err = store.SaveAccount(s.ctx, &model.Account{Username: "alice", CreatedAt: time.Now()})
	s.Require().NoError(err)

	exists, err := store.AccountExists(s.ctx, "alice")
	s.Require().NoError(err)
	s.True(exists)
}
