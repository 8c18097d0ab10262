package session

import (
	"context"

	"github.com/KapJ1coH/roomchat/internal/proto"
)

// Conn is a framed bidirectional connection as seen by a session. The
// transport layer owns the handshake and framing; the session only sees
// decoded envelopes and a close signal surfaced as a read error.
type Conn interface {
	ReadFrame(ctx context.Context) (proto.Inbound, error)
	WriteFrame(ctx context.Context, out proto.Outbound) error
	Close(reason string) error
}
