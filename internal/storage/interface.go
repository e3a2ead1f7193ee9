package storage

import (
	"context"

	"github.com/bunkerhq/bunker/internal/model"
)

// Storage defines the interface for data persistence.
//
// All backends must return model.ErrAccountNotFound / model.ErrRoomNotFound
// for missing records, and must return copies that the caller may mutate
// freely without affecting stored state.
type Storage interface {
	// Account operations
	SaveAccount(ctx context.Context, account *model.Account) error
	GetAccount(ctx context.Context, username string) (*model.Account, error)
	AccountExists(ctx context.Context, username string) (bool, error)
	CountAccounts(ctx context.Context) (int, error)

	// Room operations
	SaveRoom(ctx context.Context, room *model.Room) error
	GetRoom(ctx context.Context, id model.RoomID) (*model.Room, error)
	DeleteRoom(ctx context.Context, id model.RoomID) error
	ListRoomsForUser(ctx context.Context, username string) ([]*model.Room, error)
	CountRooms(ctx context.Context) (int, error)
}
