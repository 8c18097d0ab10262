package http

import (
	"context"

	"github.com/coder/websocket"
	"github.com/coder/websocket/wsjson"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/KapJ1coH/roomchat/internal/core"
	"github.com/KapJ1coH/roomchat/internal/proto"
	"github.com/KapJ1coH/roomchat/internal/session"
)

// WSHandler upgrades HTTP connections and runs one session per connection.
type WSHandler struct {
	commands chan<- core.Command
	sessions *session.Arena
	budget   int
	log      *zerolog.Logger
}

// NewWSHandler builds a new WebSocket handler.
func NewWSHandler(commands chan<- core.Command, sessions *session.Arena, budget int, logger *zerolog.Logger) *WSHandler {
	return &WSHandler{
		commands: commands,
		sessions: sessions,
		budget:   budget,
		log:      logger,
	}
}

// Handle accepts the WebSocket handshake and drives the session until the
// connection closes. A session failure never reaches other sessions or the
// actor; the handler simply returns.
func (h *WSHandler) Handle(c *gin.Context) {
	conn, err := websocket.Accept(c.Writer, c.Request, &websocket.AcceptOptions{
		InsecureSkipVerify: true,
	})
	if err != nil {
		h.log.Error().Err(err).Msg("ws accept error")
		return
	}

	ctx, cancel := context.WithCancel(c.Request.Context())
	defer cancel()

	sess := session.New(uuid.NewString(), &wsConn{conn: conn}, h.commands, h.log, h.budget)
	h.sessions.Add(sess)
	defer h.sessions.Remove(sess.ID)

	h.log.Debug().Str("session_id", sess.ID).Msg("session opened")
	sess.Run(ctx)
	h.log.Debug().Str("session_id", sess.ID).Msg("session closed")
}

// wsConn adapts a websocket connection to the session.Conn frame interface.
type wsConn struct {
	conn *websocket.Conn
}

func (w *wsConn) ReadFrame(ctx context.Context) (proto.Inbound, error) {
	var in proto.Inbound
	if err := wsjson.Read(ctx, w.conn, &in); err != nil {
		return proto.Inbound{}, err
	}
	return in, nil
}

func (w *wsConn) WriteFrame(ctx context.Context, out proto.Outbound) error {
	return wsjson.Write(ctx, w.conn, out)
}

func (w *wsConn) Close(reason string) error {
	return w.conn.Close(websocket.StatusNormalClosure, reason)
}
