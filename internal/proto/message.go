package proto

import "encoding/json"

// Inbound is the envelope for messages coming from the client.
type Inbound struct {
	Type string          `json:"type"`
	Data json.RawMessage `json:"data"`
}

const (
	InboundTypeLogin = "login"
	InboundTypeRooms = "rooms"
	InboundTypeJoin  = "join"
	InboundTypeMsg   = "msg"
	InboundTypeSince = "since"
	InboundTypeLeave = "leave"

	OutboundTypeWelcome  = "welcome"
	OutboundTypeRooms    = "rooms"
	OutboundTypeMessages = "messages"
	OutboundTypeAck      = "ack"
	OutboundTypeError    = "error"
)

// LoginData identifies the user opening the session.
type LoginData struct {
	UserID int64 `json:"user_id"`
}

// JoinData requests to join a specific room.
type JoinData struct {
	RoomID int64 `json:"room_id"`
}

// MsgData is a chat message from the client.
type MsgData struct {
	RoomID int64  `json:"room_id"`
	Text   string `json:"text"`
}

// SinceData requests messages newer than the given unix-millisecond time.
type SinceData struct {
	RoomID int64 `json:"room_id"`
	After  int64 `json:"after"`
}

// Outbound is the envelope for messages sent to the client.
type Outbound struct {
	Type  string `json:"type"`
	Data  any    `json:"data,omitempty"`
	Error *Error `json:"error,omitempty"`
}

// Error describes a protocol or domain error response.
type Error struct {
	Code   string `json:"code"`
	Msg    string `json:"msg"`
	UserID int64  `json:"user_id,omitempty"`
}

// WelcomeData confirms a successful login.
type WelcomeData struct {
	UserID   int64  `json:"user_id"`
	Username string `json:"username"`
}

// RoomData describes one room in a room listing.
type RoomData struct {
	ID        int64  `json:"id"`
	Name      string `json:"name"`
	Capacity  int    `json:"capacity"`
	Occupants int    `json:"occupants"`
}

// RoomsData lists rooms the client may join.
type RoomsData struct {
	Rooms []RoomData `json:"rooms"`
}

// MessageData is one chat message on the wire. TS is unix milliseconds.
type MessageData struct {
	From     int64  `json:"from"`
	Username string `json:"username"`
	Text     string `json:"text"`
	TS       int64  `json:"ts"`
}

// MessagesData delivers history or catch-up messages for a room.
type MessagesData struct {
	RoomID   int64         `json:"room_id"`
	Messages []MessageData `json:"messages"`
}

// AckData confirms a delivered message.
type AckData struct {
	RoomID int64 `json:"room_id"`
	TS     int64 `json:"ts"`
}
