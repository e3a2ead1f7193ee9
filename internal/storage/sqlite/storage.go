package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"path/filepath"
	"strings"
	"time"

	_ "embed"

	_ "modernc.org/sqlite"

	"github.com/bunkerhq/bunker/internal/model"
	"github.com/bunkerhq/bunker/internal/storage"
)

//go:embed schema.sql
var schema string

const timeFormat = time.RFC3339Nano

// Storage is a SQLite-backed implementation of the storage interface.
//
// Rooms are normalized across rooms and room_members; the members table
// carries a position column so join order survives the round trip.
type Storage struct {
	db *sql.DB
}

// Open opens (and if necessary creates) a SQLite store at the given path.
// Use ":memory:" for an ephemeral database.
func Open(path string) (*Storage, error) {
	if strings.TrimSpace(path) == "" {
		return nil, fmt.Errorf("sqlite path is required")
	}

	dsn := path
	if path != ":memory:" {
		dsn = filepath.Clean(path) + "?_journal_mode=WAL&_busy_timeout=5000&_synchronous=NORMAL"
	}

	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("open sqlite db: %w", err)
	}

	// modernc.org/sqlite serializes writes itself; a single connection
	// avoids SQLITE_BUSY under concurrent request handlers
	db.SetMaxOpenConns(1)

	if err := db.Ping(); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("ping sqlite db: %w", err)
	}

	if _, err := db.Exec("PRAGMA foreign_keys = ON"); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("enable foreign keys: %w", err)
	}

	if _, err := db.Exec(schema); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("apply schema: %w", err)
	}

	return &Storage{db: db}, nil
}

// Close closes the underlying database
func (s *Storage) Close() error {
	return s.db.Close()
}

// Ensure Storage implements the interface
var _ storage.Storage = (*Storage)(nil)

// Account operations

func (s *Storage) SaveAccount(ctx context.Context, account *model.Account) error {
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO accounts (username, password_hash, created_at)
		VALUES (?, ?, ?)
		ON CONFLICT (username) DO UPDATE SET password_hash = excluded.password_hash`,
		account.Username, account.PasswordHash, account.CreatedAt.UTC().Format(timeFormat))
	if err != nil {
		return fmt.Errorf("save account: %w", err)
	}
	return nil
}

func (s *Storage) GetAccount(ctx context.Context, username string) (*model.Account, error) {
	var account model.Account
	var createdAt string
	err := s.db.QueryRowContext(ctx, `
		SELECT username, password_hash, created_at FROM accounts WHERE username = ?`,
		username).Scan(&account.Username, &account.PasswordHash, &createdAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, model.ErrAccountNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("get account: %w", err)
	}
	account.CreatedAt, err = time.Parse(timeFormat, createdAt)
	if err != nil {
		return nil, fmt.Errorf("parse account created_at: %w", err)
	}
	return &account, nil
}

func (s *Storage) AccountExists(ctx context.Context, username string) (bool, error) {
	var n int
	err := s.db.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM accounts WHERE username = ?`, username).Scan(&n)
	if err != nil {
		return false, fmt.Errorf("account exists: %w", err)
	}
	return n > 0, nil
}

func (s *Storage) CountAccounts(ctx context.Context) (int, error) {
	var n int
	if err := s.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM accounts`).Scan(&n); err != nil {
		return 0, fmt.Errorf("count accounts: %w", err)
	}
	return n, nil
}

// Room operations

func (s *Storage) SaveRoom(ctx context.Context, room *model.Room) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin save room: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	started := 0
	if room.GameStarted {
		started = 1
	}

	_, err = tx.ExecContext(ctx, `
		INSERT INTO rooms (id, name, owner, game_started, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?)
		ON CONFLICT (id) DO UPDATE SET
			name = excluded.name,
			owner = excluded.owner,
			game_started = excluded.game_started,
			updated_at = excluded.updated_at`,
		string(room.ID), room.Name, room.Owner, started,
		room.CreatedAt.UTC().Format(timeFormat), room.UpdatedAt.UTC().Format(timeFormat))
	if err != nil {
		return fmt.Errorf("save room: %w", err)
	}

	// Membership is replaced wholesale; position keeps join order
	if _, err := tx.ExecContext(ctx,
		`DELETE FROM room_members WHERE room_id = ?`, string(room.ID)); err != nil {
		return fmt.Errorf("clear room members: %w", err)
	}
	for i, member := range room.Members {
		_, err := tx.ExecContext(ctx, `
			INSERT INTO room_members (room_id, username, position, role)
			VALUES (?, ?, ?, ?)`,
			string(room.ID), member, i, string(room.Roles[member]))
		if err != nil {
			return fmt.Errorf("save room member: %w", err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit save room: %w", err)
	}
	return nil
}

func (s *Storage) GetRoom(ctx context.Context, id model.RoomID) (*model.Room, error) {
	room := &model.Room{ID: id}
	var started int
	var createdAt, updatedAt string
	err := s.db.QueryRowContext(ctx, `
		SELECT name, owner, game_started, created_at, updated_at
		FROM rooms WHERE id = ?`, string(id)).
		Scan(&room.Name, &room.Owner, &started, &createdAt, &updatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, model.ErrRoomNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("get room: %w", err)
	}
	room.GameStarted = started != 0
	if room.CreatedAt, err = time.Parse(timeFormat, createdAt); err != nil {
		return nil, fmt.Errorf("parse room created_at: %w", err)
	}
	if room.UpdatedAt, err = time.Parse(timeFormat, updatedAt); err != nil {
		return nil, fmt.Errorf("parse room updated_at: %w", err)
	}

	if err := s.loadMembers(ctx, room); err != nil {
		return nil, err
	}
	return room, nil
}

func (s *Storage) loadMembers(ctx context.Context, room *model.Room) error {
	rows, err := s.db.QueryContext(ctx, `
		SELECT username, role FROM room_members
		WHERE room_id = ? ORDER BY position`, string(room.ID))
	if err != nil {
		return fmt.Errorf("load room members: %w", err)
	}
	defer rows.Close()

	room.Roles = make(map[string]model.Role)
	for rows.Next() {
		var username, role string
		if err := rows.Scan(&username, &role); err != nil {
			return fmt.Errorf("scan room member: %w", err)
		}
		room.Members = append(room.Members, username)
		if role != "" {
			room.Roles[username] = model.Role(role)
		}
	}
	return rows.Err()
}

func (s *Storage) DeleteRoom(ctx context.Context, id model.RoomID) error {
	// room_members rows go with the room via ON DELETE CASCADE
	if _, err := s.db.ExecContext(ctx,
		`DELETE FROM rooms WHERE id = ?`, string(id)); err != nil {
		return fmt.Errorf("delete room: %w", err)
	}
	return nil
}

func (s *Storage) ListRoomsForUser(ctx context.Context, username string) ([]*model.Room, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT room_id FROM room_members WHERE username = ?`, username)
	if err != nil {
		return nil, fmt.Errorf("list rooms for user: %w", err)
	}
	defer rows.Close()

	var ids []model.RoomID
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return nil, fmt.Errorf("scan room id: %w", err)
		}
		ids = append(ids, model.RoomID(id))
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	rooms := make([]*model.Room, 0, len(ids))
	for _, id := range ids {
		room, err := s.GetRoom(ctx, id)
		if errors.Is(err, model.ErrRoomNotFound) {
			continue
		}
		if err != nil {
			return nil, err
		}
		rooms = append(rooms, room)
	}
	return rooms, nil
}

func (s *Storage) CountRooms(ctx context.Context) (int, error) {
	var n int
	if err := s.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM rooms`).Scan(&n); err != nil {
		return 0, fmt.Errorf("count rooms: %w", err)
	}
	return n, nil
}
