package core

import "time"

// Message is the domain model for a chat message.
type Message struct {
	Time     time.Time
	Text     string
	From     int64
	Username string
}
