package store

import (
	"context"
	"time"
)

// User is a seeded user profile.
type User struct {
	ID       int64
	Name     string
	Username string
}

// Room is a seeded room definition.
type Room struct {
	ID       int64
	Name     string
	Capacity int
}

// Message is a seeded chat message.
type Message struct {
	RoomID    int64
	UserID    int64
	Username  string
	Body      string
	CreatedAt time.Time
}

// SeedStore supplies the bootstrap data the actor is populated with at
// startup. It is read once before the actor runs and never on the hot path;
// chat state stays in memory for the life of the process.
type SeedStore interface {
	// ListUsers returns all known users.
	ListUsers(ctx context.Context) ([]User, error)

	// ListRooms returns the static room set.
	ListRooms(ctx context.Context) ([]Room, error)

	// ListMessages returns a room's seeded messages, oldest first.
	ListMessages(ctx context.Context, roomID int64) ([]Message, error)

	// Close closes the underlying database connection.
	Close() error
}
