package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	_ "github.com/mattn/go-sqlite3"

	"github.com/KapJ1coH/roomchat/internal/store"
)

const schema = `
CREATE TABLE IF NOT EXISTS users (
	id       INTEGER PRIMARY KEY,
	name     TEXT NOT NULL,
	username TEXT NOT NULL UNIQUE
);

CREATE TABLE IF NOT EXISTS rooms (
	id       INTEGER PRIMARY KEY,
	name     TEXT NOT NULL,
	capacity INTEGER NOT NULL DEFAULT 0
);

CREATE TABLE IF NOT EXISTS messages (
	id         INTEGER PRIMARY KEY AUTOINCREMENT,
	room_id    INTEGER NOT NULL REFERENCES rooms(id),
	user_id    INTEGER NOT NULL,
	username   TEXT NOT NULL,
	body       TEXT NOT NULL,
	created_at DATETIME NOT NULL
);
`

// SQLiteStore implements store.SeedStore for SQLite.
type SQLiteStore struct {
	db *sql.DB
}

// New opens (or creates) the seed database, applies the schema and inserts
// the default fixture data if the database is empty.
func New(dbPath string) (*SQLiteStore, error) {
	db, err := sql.Open("sqlite3", dbPath+"?_journal_mode=WAL&_busy_timeout=5000")
	if err != nil {
		return nil, fmt.Errorf("open sqlite: %w", err)
	}

	// SQLite works best with a single connection.
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("ping sqlite: %w", err)
	}

	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("apply schema: %w", err)
	}

	s := &SQLiteStore{db: db}
	if err := s.seedDefaults(); err != nil {
		db.Close()
		return nil, fmt.Errorf("seed defaults: %w", err)
	}
	return s, nil
}

// NewWithSetup opens a store and runs a setup function instead of the default
// schema/seed path. Useful for tests.
func NewWithSetup(dbPath string, setup func(*sql.DB) error) (*SQLiteStore, error) {
	db, err := sql.Open("sqlite3", dbPath+"?_journal_mode=WAL&_busy_timeout=5000")
	if err != nil {
		return nil, fmt.Errorf("open sqlite: %w", err)
	}
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)

	if setup != nil {
		if err := setup(db); err != nil {
			db.Close()
			return nil, fmt.Errorf("setup: %w", err)
		}
	}

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("ping sqlite: %w", err)
	}
	return &SQLiteStore{db: db}, nil
}

// seedDefaults inserts the starter user, room and greeting message on first
// run so a fresh server is immediately usable.
func (s *SQLiteStore) seedDefaults() error {
	var users int
	if err := s.db.QueryRow(`SELECT COUNT(*) FROM users`).Scan(&users); err != nil {
		return fmt.Errorf("count users: %w", err)
	}
	if users > 0 {
		return nil
	}

	tx, err := s.db.Begin()
	if err != nil {
		return fmt.Errorf("begin: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.Exec(
		`INSERT INTO users (id, name, username) VALUES (?, ?, ?), (?, ?, ?)`,
		int64(40093918), "Tim", "KapJ1coH",
		int64(123456), "Alice", "alice",
	); err != nil {
		return fmt.Errorf("seed users: %w", err)
	}

	if _, err := tx.Exec(
		`INSERT INTO rooms (id, name, capacity) VALUES (?, ?, ?)`,
		int64(1), "Room1", 10,
	); err != nil {
		return fmt.Errorf("seed rooms: %w", err)
	}

	if _, err := tx.Exec(
		`INSERT INTO messages (room_id, user_id, username, body, created_at) VALUES (?, ?, ?, ?, ?)`,
		int64(1), int64(123456), "alice", "Hello, world!", time.Now().UTC(),
	); err != nil {
		return fmt.Errorf("seed messages: %w", err)
	}

	return tx.Commit()
}

// Close closes the database connection.
func (s *SQLiteStore) Close() error {
	return s.db.Close()
}

// ListUsers returns all known users.
func (s *SQLiteStore) ListUsers(ctx context.Context) ([]store.User, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT id, name, username FROM users ORDER BY id`)
	if err != nil {
		return nil, fmt.Errorf("query users: %w", err)
	}
	defer rows.Close()

	var users []store.User
	for rows.Next() {
		var u store.User
		if err := rows.Scan(&u.ID, &u.Name, &u.Username); err != nil {
			return nil, fmt.Errorf("scan user: %w", err)
		}
		users = append(users, u)
	}
	return users, rows.Err()
}

// ListRooms returns the static room set.
func (s *SQLiteStore) ListRooms(ctx context.Context) ([]store.Room, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT id, name, capacity FROM rooms ORDER BY id`)
	if err != nil {
		return nil, fmt.Errorf("query rooms: %w", err)
	}
	defer rows.Close()

	var rooms []store.Room
	for rows.Next() {
		var r store.Room
		if err := rows.Scan(&r.ID, &r.Name, &r.Capacity); err != nil {
			return nil, fmt.Errorf("scan room: %w", err)
		}
		rooms = append(rooms, r)
	}
	return rooms, rows.Err()
}

// ListMessages returns a room's seeded messages, oldest first.
func (s *SQLiteStore) ListMessages(ctx context.Context, roomID int64) ([]store.Message, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT room_id, user_id, username, body, created_at FROM messages WHERE room_id = ? ORDER BY created_at, id`,
		roomID,
	)
	if err != nil {
		return nil, fmt.Errorf("query messages: %w", err)
	}
	defer rows.Close()

	var msgs []store.Message
	for rows.Next() {
		var m store.Message
		if err := rows.Scan(&m.RoomID, &m.UserID, &m.Username, &m.Body, &m.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan message: %w", err)
		}
		msgs = append(msgs, m)
	}
	return msgs, rows.Err()
}
