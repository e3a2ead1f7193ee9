package redis

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/bunkerhq/bunker/internal/model"
	"github.com/bunkerhq/bunker/internal/storage"
)

// Storage is a Redis-backed implementation of the storage interface.
//
// Entities are stored as JSON values; SAdd-maintained index sets back the
// list and count queries (all usernames, all room ids, room ids per member).
type Storage struct {
	client *redis.Client
	cfg    Config
}

// New creates a new Redis storage instance
func New(cfg Config) (*Storage, error) {
	opts, err := redis.ParseURL(cfg.URL)
	if err != nil {
		return nil, err
	}

	opts.PoolSize = cfg.PoolSize
	opts.MinIdleConns = cfg.MinIdleConns

	client := redis.NewClient(opts)

	// Verify connection
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := client.Ping(ctx).Err(); err != nil {
		return nil, err
	}

	return &Storage{
		client: client,
		cfg:    cfg,
	}, nil
}

// NewWithClient creates a Redis storage with an existing client (for testing)
func NewWithClient(client *redis.Client, cfg Config) *Storage {
	return &Storage{
		client: client,
		cfg:    cfg,
	}
}

// Close closes the Redis connection
func (s *Storage) Close() error {
	return s.client.Close()
}

// Ensure Storage implements the interface
var _ storage.Storage = (*Storage)(nil)

// Account operations

func (s *Storage) SaveAccount(ctx context.Context, account *model.Account) error {
	data, err := json.Marshal(account)
	if err != nil {
		return err
	}

	// Use pipeline for atomic save + index update
	pipe := s.client.Pipeline()
	pipe.Set(ctx, accountKey(account.Username), data, 0)
	pipe.SAdd(ctx, accountsIndexKey(), account.Username)
	_, err = pipe.Exec(ctx)
	return err
}

func (s *Storage) GetAccount(ctx context.Context, username string) (*model.Account, error) {
	data, err := s.client.Get(ctx, accountKey(username)).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, model.ErrAccountNotFound
		}
		return nil, err
	}

	var account model.Account
	if err := json.Unmarshal(data, &account); err != nil {
		return nil, err
	}
	return &account, nil
}

func (s *Storage) AccountExists(ctx context.Context, username string) (bool, error) {
	exists, err := s.client.Exists(ctx, accountKey(username)).Result()
	if err != nil {
		return false, err
	}
	return exists > 0, nil
}

func (s *Storage) CountAccounts(ctx context.Context) (int, error) {
	n, err := s.client.SCard(ctx, accountsIndexKey()).Result()
	if err != nil {
		return 0, err
	}
	return int(n), nil
}

// Room operations

func (s *Storage) SaveRoom(ctx context.Context, room *model.Room) error {
	data, err := json.Marshal(room)
	if err != nil {
		return err
	}

	// Diff membership against the stored room so per-user indexes stay
	// in sync when members leave
	var removed []string
	prev, err := s.GetRoom(ctx, room.ID)
	if err != nil && !errors.Is(err, model.ErrRoomNotFound) {
		return err
	}
	if prev != nil {
		for _, member := range prev.Members {
			if !room.HasMember(member) {
				removed = append(removed, member)
			}
		}
	}

	pipe := s.client.Pipeline()
	pipe.Set(ctx, roomKey(room.ID), data, 0)
	pipe.SAdd(ctx, roomsIndexKey(), string(room.ID))
	for _, member := range room.Members {
		pipe.SAdd(ctx, roomsForUserIndexKey(member), string(room.ID))
	}
	for _, member := range removed {
		pipe.SRem(ctx, roomsForUserIndexKey(member), string(room.ID))
	}
	_, err = pipe.Exec(ctx)
	return err
}

func (s *Storage) GetRoom(ctx context.Context, id model.RoomID) (*model.Room, error) {
	data, err := s.client.Get(ctx, roomKey(id)).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, model.ErrRoomNotFound
		}
		return nil, err
	}

	var room model.Room
	if err := json.Unmarshal(data, &room); err != nil {
		return nil, err
	}
	return &room, nil
}

func (s *Storage) DeleteRoom(ctx context.Context, id model.RoomID) error {
	// Fetch first so member indexes can be cleaned up
	room, err := s.GetRoom(ctx, id)
	if err != nil {
		if errors.Is(err, model.ErrRoomNotFound) {
			return nil
		}
		return err
	}

	pipe := s.client.Pipeline()
	pipe.Del(ctx, roomKey(id))
	pipe.SRem(ctx, roomsIndexKey(), string(id))
	for _, member := range room.Members {
		pipe.SRem(ctx, roomsForUserIndexKey(member), string(id))
	}
	_, err = pipe.Exec(ctx)
	return err
}

func (s *Storage) ListRoomsForUser(ctx context.Context, username string) ([]*model.Room, error) {
	ids, err := s.client.SMembers(ctx, roomsForUserIndexKey(username)).Result()
	if err != nil {
		return nil, err
	}

	if len(ids) == 0 {
		return []*model.Room{}, nil
	}

	keys := make([]string, len(ids))
	for i, id := range ids {
		keys[i] = roomKey(model.RoomID(id))
	}

	values, err := s.client.MGet(ctx, keys...).Result()
	if err != nil {
		return nil, err
	}

	rooms := make([]*model.Room, 0, len(values))
	for _, val := range values {
		if val == nil {
			continue // Room may have been deleted
		}
		var room model.Room
		if err := json.Unmarshal([]byte(val.(string)), &room); err != nil {
			continue // Skip invalid data
		}
		rooms = append(rooms, &room)
	}

	return rooms, nil
}

func (s *Storage) CountRooms(ctx context.Context) (int, error) {
	n, err := s.client.SCard(ctx, roomsIndexKey()).Result()
	if err != nil {
		return 0, err
	}
	return int(n), nil
}
