package core

import "time"

// Command is a request processed by the actor. Every command carries a fresh,
// single-use reply channel (buffered, capacity 1); the actor answers each
// command exactly once, even on error.
type Command interface {
	kind() string
}

// UserReply answers FindUser.
type UserReply struct {
	Profile Profile
	Err     *CoreError
}

// RoomReply answers GetRoomInfo and JoinRoom.
type RoomReply struct {
	Room RoomInfo
	Err  *CoreError
}

// RoomsReply answers ListRooms.
type RoomsReply struct {
	Rooms []RoomInfo
}

// MessagesReply answers GetAllMessages and GetMessagesSince.
type MessagesReply struct {
	Messages []Message
	Err      *CoreError
}

// AckReply answers AppendMessage and LeaveRoom.
type AckReply struct {
	Err *CoreError
}

// FindUser looks up a user profile by identity.
type FindUser struct {
	UserID int64
	Reply  chan UserReply
}

// GetRoomInfo looks up room metadata.
type GetRoomInfo struct {
	RoomID int64
	Reply  chan RoomReply
}

// ListRooms enumerates all rooms so a client can pick one to join.
type ListRooms struct {
	Reply chan RoomsReply
}

// GetAllMessages returns a full ordered snapshot of a room's log.
type GetAllMessages struct {
	RoomID int64
	Reply  chan MessagesReply
}

// GetMessagesSince returns all messages strictly after the given time.
type GetMessagesSince struct {
	RoomID int64
	After  time.Time
	Reply  chan MessagesReply
}

// AppendMessage inserts a message into a room's log.
type AppendMessage struct {
	RoomID  int64
	Message Message
	Reply   chan AckReply
}

// JoinRoom reserves an occupancy slot in a room.
type JoinRoom struct {
	RoomID int64
	Reply  chan RoomReply
}

// LeaveRoom releases an occupancy slot.
type LeaveRoom struct {
	RoomID int64
	Reply  chan AckReply
}

func (FindUser) kind() string         { return "find_user" }
func (GetRoomInfo) kind() string      { return "get_room_info" }
func (ListRooms) kind() string        { return "list_rooms" }
func (GetAllMessages) kind() string   { return "get_all_messages" }
func (GetMessagesSince) kind() string { return "get_messages_since" }
func (AppendMessage) kind() string    { return "append_message" }
func (JoinRoom) kind() string         { return "join_room" }
func (LeaveRoom) kind() string        { return "leave_room" }
