package memory

import (
	"context"
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
	s.storage = New()
	s.ctx = context.Background()
}

// Account tests

func (s *StorageSuite) TestSaveAndGetAccount() {
	account := &model.Account{
		Username:     "alice",
		PasswordHash: "hash123",
		CreatedAt:    time.Now(),
	}

	err := s.storage.SaveAccount(s.ctx, account)
	s.Require().NoError(err)

	retrieved, err := s.storage.GetAccount(s.ctx, "alice")
	s.Require().NoError(err)
	s.Equal(account.Username, retrieved.Username)
	s.Equal(account.PasswordHash, retrieved.PasswordHash)
}

func (s *StorageSuite) TestGetAccountNotFound() {
	_, err := s.storage.GetAccount(s.ctx, "nonexistent")
	s.ErrorIs(err, model.ErrAccountNotFound)
}

func (s *StorageSuite) TestAccountExists() {
	account := &model.Account{Username: "alice", PasswordHash: "hash123"}
	_ = s.storage.SaveAccount(s.ctx, account)

	exists, err := s.storage.AccountExists(s.ctx, "alice")
	s.Require().NoError(err)
	s.True(exists)

	exists, err = s.storage.AccountExists(s.ctx, "nonexistent")
	s.Require().NoError(err)
	s.False(exists)
}

func (s *StorageSuite) TestCountAccounts() {
	count, err := s.storage.CountAccounts(s.ctx)
	s.Require().NoError(err)
	s.Equal(0, count)

	_ = s.storage.SaveAccount(s.ctx, &model.Account{Username: "alice"})
	_ = s.storage.SaveAccount(s.ctx, &model.Account{Username: "bob"})

	count, err = s.storage.CountAccounts(s.ctx)
	s.Require().NoError(err)
	s.Equal(2, count)
}

func (s *StorageSuite) TestGetAccountReturnsCopy() {
	account := &model.Account{Username: "alice", PasswordHash: "hash123"}
	_ = s.storage.SaveAccount(s.ctx, account)

	retrieved, _ := s.storage.GetAccount(s.ctx, "alice")
	retrieved.PasswordHash = "mutated"

	again, _ := s.storage.GetAccount(s.ctx, "alice")
	s.Equal("hash123", again.PasswordHash)
}

// Room tests

func (s *StorageSuite) TestSaveAndGetRoom() {
	room := &model.Room{
		ID:        "room_abc",
		Name:      "alice's room",
		Owner:     "alice",
		Members:   []string{"alice"},
		Roles:     map[string]model.Role{},
		CreatedAt: time.Now(),
	}

	err := s.storage.SaveRoom(s.ctx, room)
	s.Require().NoError(err)

	retrieved, err := s.storage.GetRoom(s.ctx, "room_abc")
	s.Require().NoError(err)
	s.Equal(room.ID, retrieved.ID)
	s.Equal(room.Name, retrieved.Name)
	s.Equal([]string{"alice"}, retrieved.Members)
}

func (s *StorageSuite) TestGetRoomNotFound() {
	_, err := s.storage.GetRoom(s.ctx, "nonexistent")
	s.ErrorIs(err, model.ErrRoomNotFound)
}

func (s *StorageSuite) TestDeleteRoom() {
	room := &model.Room{ID: "room_abc", Owner: "alice", Members: []string{"alice"}}
	_ = s.storage.SaveRoom(s.ctx, room)

	err := s.storage.DeleteRoom(s.ctx, "room_abc")
	s.Require().NoError(err)

	_, err = s.storage.GetRoom(s.ctx, "room_abc")
	s.ErrorIs(err, model.ErrRoomNotFound)
}

func (s *StorageSuite) TestListRoomsForUser() {
	_ = s.storage.SaveRoom(s.ctx, &model.Room{
		ID: "room_1", Owner: "alice", Members: []string{"alice", "bob"},
	})
	_ = s.storage.SaveRoom(s.ctx, &model.Room{
		ID: "room_2", Owner: "bob", Members: []string{"bob"},
	})

	rooms, err := s.storage.ListRoomsForUser(s.ctx, "bob")
	s.Require().NoError(err)
	s.Len(rooms, 2)

	rooms, err = s.storage.ListRoomsForUser(s.ctx, "alice")
	s.Require().NoError(err)
	s.Len(rooms, 1)
	s.Equal(model.RoomID("room_1"), rooms[0].ID)

	rooms, err = s.storage.ListRoomsForUser(s.ctx, "nobody")
	s.Require().NoError(err)
	s.Empty(rooms)
}

func (s *StorageSuite) TestCountRooms() {
	count, err := s.storage.CountRooms(s.ctx)
	s.Require().NoError(err)
	s.Equal(0, count)

	_ = s.storage.SaveRoom(s.ctx, &model.Room{ID: "room_1", Owner: "alice", Members: []string{"alice"}})

	count, err = s.storage.CountRooms(s.ctx)
	s.Require().NoError(err)
	s.Equal(1, count)
}

func (s *StorageSuite) TestGetRoomReturnsCopy() {
	room := &model.Room{
		ID:      "room_abc",
		Owner:   "alice",
		Members: []string{"alice"},
		Roles:   map[string]model.Role{"alice": "Cook"},
	}
	_ = s.storage.SaveRoom(s.ctx, room)

	retrieved, _ := s.storage.GetRoom(s.ctx, "room_abc")
	retrieved.Members = append(retrieved.Members, "mallory")
	retrieved.Roles["mallory"] = "Athlete"

	again, _ := s.storage.GetRoom(s.ctx, "room_abc")
	s.Equal([]string{"alice"}, again.Members)
	s.NotContains(again.Roles, "mallory")
}

func (s *StorageSuite) TestSaveRoomOverwrites() {
	room := &model.Room{ID: "room_abc", Owner: "alice", Members: []string{"alice"}}
	_ = s.storage.SaveRoom(s.ctx, room)

	room.Members = []string{"alice", "bob"}
	room.GameStarted = true
	_ = s.storage.SaveRoom(s.ctx, room)

	retrieved, err := s.storage.GetRoom(s.ctx, "room_abc")
	s.Require().NoError(err)
	s.Equal([]string{"alice", "bob"}, retrieved.Members)
	s.True(retrieved.GameStarted)
}
