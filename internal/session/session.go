package session

import (
	"context"
	"encoding/json"
	"time"

	"github.com/rs/zerolog"

	"github.com/KapJ1coH/roomchat/internal/core"
	"github.com/KapJ1coH/roomchat/internal/proto"
)

// State is the protocol phase of a session.
type State int

const (
	StateUnauthenticated State = iota
	StateAuthenticated
	StateInRoom
	StateClosed
)

// DefaultViolationBudget is how many protocol violations a connection may
// commit before it is closed.
const DefaultViolationBudget = 3

// Session drives one connection through the login/join/chat protocol and
// bridges it to the actor. It holds no references to chat state, only the
// command channel and one fresh reply channel per request.
type Session struct {
	ID   string
	conn Conn

	commands chan<- core.Command
	log      *zerolog.Logger

	state      State
	user       core.Profile
	inRoom     bool
	roomID     int64
	violations int
	budget     int
}

// New constructs a session in the unauthenticated state.
func New(id string, conn Conn, commands chan<- core.Command, logger *zerolog.Logger, budget int) *Session {
	if logger == nil {
		nop := zerolog.Nop()
		logger = &nop
	}
	if budget <= 0 {
		budget = DefaultViolationBudget
	}
	return &Session{
		ID:       id,
		conn:     conn,
		commands: commands,
		log:      logger,
		state:    StateUnauthenticated,
		budget:   budget,
	}
}

// State returns the current protocol phase.
func (s *Session) State() State {
	return s.state
}

// Run reads frames until the connection drops, the context ends, or the
// protocol closes the session. It always cleans up its room slot on exit.
func (s *Session) Run(ctx context.Context) {
	defer s.teardown(ctx)

	for s.state != StateClosed {
		in, err := s.conn.ReadFrame(ctx)
		if err != nil {
			s.log.Debug().Err(err).Str("session_id", s.ID).Msg("connection closed")
			return
		}
		s.handle(ctx, in)
	}
}

func (s *Session) handle(ctx context.Context, in proto.Inbound) {
	switch s.state {
	case StateUnauthenticated:
		if in.Type != proto.InboundTypeLogin {
			s.violation(ctx, "login required")
			return
		}
		s.handleLogin(ctx, in.Data)
	case StateAuthenticated:
		switch in.Type {
		case proto.InboundTypeRooms:
			s.handleRooms(ctx)
		case proto.InboundTypeJoin:
			s.handleJoin(ctx, in.Data)
		default:
			s.violation(ctx, "join a room first")
		}
	case StateInRoom:
		switch in.Type {
		case proto.InboundTypeMsg:
			s.handleSend(ctx, in.Data)
		case proto.InboundTypeSince:
			s.handleSince(ctx, in.Data)
		case proto.InboundTypeLeave:
			s.handleLeave(ctx)
		default:
			s.violation(ctx, "unexpected message in room")
		}
	}
}

func (s *Session) handleLogin(ctx context.Context, data json.RawMessage) {
	var login proto.LoginData
	if err := json.Unmarshal(data, &login); err != nil {
		s.malformed(ctx)
		return
	}

	reply := make(chan core.UserReply, 1)
	if !s.send(ctx, core.FindUser{UserID: login.UserID, Reply: reply}) {
		return
	}
	res, ok := await(ctx, reply)
	if !ok {
		return
	}
	if res.Err != nil {
		s.writeError(ctx, res.Err.Code, res.Err.Message, login.UserID)
		s.close("unknown user")
		return
	}

	s.user = res.Profile
	s.state = StateAuthenticated
	s.log.Info().Str("session_id", s.ID).Int64("user_id", s.user.ID).Msg("user logged in")
	s.write(ctx, proto.Outbound{
		Type: proto.OutboundTypeWelcome,
		Data: proto.WelcomeData{UserID: s.user.ID, Username: s.user.Username},
	})
}

func (s *Session) handleRooms(ctx context.Context) {
	reply := make(chan core.RoomsReply, 1)
	if !s.send(ctx, core.ListRooms{Reply: reply}) {
		return
	}
	res, ok := await(ctx, reply)
	if !ok {
		return
	}

	rooms := make([]proto.RoomData, 0, len(res.Rooms))
	for _, r := range res.Rooms {
		rooms = append(rooms, proto.RoomData{
			ID:        r.ID,
			Name:      r.Name,
			Capacity:  r.Capacity,
			Occupants: r.Occupants,
		})
	}
	s.write(ctx, proto.Outbound{Type: proto.OutboundTypeRooms, Data: proto.RoomsData{Rooms: rooms}})
}

func (s *Session) handleJoin(ctx context.Context, data json.RawMessage) {
	var join proto.JoinData
	if err := json.Unmarshal(data, &join); err != nil {
		s.malformed(ctx)
		return
	}

	infoReply := make(chan core.RoomReply, 1)
	if !s.send(ctx, core.GetRoomInfo{RoomID: join.RoomID, Reply: infoReply}) {
		return
	}
	info, ok := await(ctx, infoReply)
	if !ok {
		return
	}
	if info.Err != nil {
		s.writeError(ctx, info.Err.Code, info.Err.Message, s.user.ID)
		s.close("unknown room")
		return
	}

	joinReply := make(chan core.RoomReply, 1)
	if !s.send(ctx, core.JoinRoom{RoomID: join.RoomID, Reply: joinReply}) {
		return
	}
	joined, ok := await(ctx, joinReply)
	if !ok {
		return
	}
	if joined.Err != nil {
		// Room exists but is full; the session may try another room.
		s.writeError(ctx, joined.Err.Code, joined.Err.Message, s.user.ID)
		return
	}

	histReply := make(chan core.MessagesReply, 1)
	if !s.send(ctx, core.GetAllMessages{RoomID: join.RoomID, Reply: histReply}) {
		return
	}
	hist, ok := await(ctx, histReply)
	if !ok {
		return
	}
	if hist.Err != nil {
		s.writeError(ctx, hist.Err.Code, hist.Err.Message, s.user.ID)
		return
	}

	s.inRoom = true
	s.roomID = join.RoomID
	s.state = StateInRoom
	s.log.Info().Str("session_id", s.ID).Int64("room_id", s.roomID).Msg("joined room")
	s.writeMessages(ctx, join.RoomID, hist.Messages)
}

func (s *Session) handleSend(ctx context.Context, data json.RawMessage) {
	var msg proto.MsgData
	if err := json.Unmarshal(data, &msg); err != nil {
		s.malformed(ctx)
		return
	}
	if msg.RoomID != s.roomID {
		s.writeError(ctx, core.ErrCodeNotInRoom, "not in that room", s.user.ID)
		return
	}

	now := time.Now().UTC()
	reply := make(chan core.AckReply, 1)
	cmd := core.AppendMessage{
		RoomID: s.roomID,
		Message: core.Message{
			Time:     now,
			Text:     msg.Text,
			From:     s.user.ID,
			Username: s.user.Username,
		},
		Reply: reply,
	}
	if !s.send(ctx, cmd) {
		return
	}
	res, ok := await(ctx, reply)
	if !ok {
		return
	}
	if res.Err != nil {
		s.writeError(ctx, res.Err.Code, res.Err.Message, s.user.ID)
		return
	}
	s.write(ctx, proto.Outbound{
		Type: proto.OutboundTypeAck,
		Data: proto.AckData{RoomID: s.roomID, TS: now.UnixMilli()},
	})
}

func (s *Session) handleSince(ctx context.Context, data json.RawMessage) {
	var since proto.SinceData
	if err := json.Unmarshal(data, &since); err != nil {
		s.malformed(ctx)
		return
	}
	if since.RoomID != s.roomID {
		s.writeError(ctx, core.ErrCodeNotInRoom, "not in that room", s.user.ID)
		return
	}

	reply := make(chan core.MessagesReply, 1)
	cmd := core.GetMessagesSince{
		RoomID: s.roomID,
		After:  time.UnixMilli(since.After).UTC(),
		Reply:  reply,
	}
	if !s.send(ctx, cmd) {
		return
	}
	res, ok := await(ctx, reply)
	if !ok {
		return
	}
	if res.Err != nil {
		s.writeError(ctx, res.Err.Code, res.Err.Message, s.user.ID)
		return
	}
	s.writeMessages(ctx, s.roomID, res.Messages)
}

func (s *Session) handleLeave(ctx context.Context) {
	left := s.roomID
	s.releaseRoom(ctx, true)
	s.state = StateAuthenticated
	s.write(ctx, proto.Outbound{
		Type: proto.OutboundTypeAck,
		Data: proto.AckData{RoomID: left},
	})
}

// releaseRoom gives the occupancy slot back. The inRoom flag, not the room
// id, decides whether a slot is held, so a room with id 0 is left like any
// other. When wait is false the reply is abandoned on purpose; the actor
// tolerates that.
func (s *Session) releaseRoom(ctx context.Context, wait bool) {
	if !s.inRoom {
		return
	}
	roomID := s.roomID
	s.inRoom = false
	s.roomID = 0
	reply := make(chan core.AckReply, 1)
	if !s.send(ctx, core.LeaveRoom{RoomID: roomID, Reply: reply}) {
		return
	}
	if wait {
		_, _ = await(ctx, reply)
	}
}

func (s *Session) teardown(ctx context.Context) {
	// The run context may already be cancelled when the session exits; the
	// slot release still has to reach the actor, so it runs on a detached
	// context with its own short deadline.
	ctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), time.Second)
	defer cancel()
	s.releaseRoom(ctx, false)
	s.state = StateClosed
	_ = s.conn.Close("session ended")
}

func (s *Session) violation(ctx context.Context, msg string) {
	s.fault(ctx, core.ErrCodeProtocolViolation, msg)
}

func (s *Session) malformed(ctx context.Context) {
	s.fault(ctx, core.ErrCodeBadRequest, "malformed payload")
}

func (s *Session) fault(ctx context.Context, code, msg string) {
	s.violations++
	s.writeError(ctx, code, msg, s.user.ID)
	if s.violations >= s.budget {
		s.log.Warn().Str("session_id", s.ID).Int("violations", s.violations).Msg("violation budget exhausted")
		s.close("too many protocol violations")
	}
}

func (s *Session) close(reason string) {
	s.state = StateClosed
	_ = s.conn.Close(reason)
}

func (s *Session) write(ctx context.Context, out proto.Outbound) {
	if err := s.conn.WriteFrame(ctx, out); err != nil {
		s.log.Debug().Err(err).Str("session_id", s.ID).Msg("write failed")
		s.close("write failed")
	}
}

func (s *Session) writeError(ctx context.Context, code, msg string, userID int64) {
	s.write(ctx, proto.Outbound{
		Type:  proto.OutboundTypeError,
		Error: &proto.Error{Code: code, Msg: msg, UserID: userID},
	})
}

func (s *Session) writeMessages(ctx context.Context, roomID int64, msgs []core.Message) {
	wire := make([]proto.MessageData, 0, len(msgs))
	for _, m := range msgs {
		wire = append(wire, proto.MessageData{
			From:     m.From,
			Username: m.Username,
			Text:     m.Text,
			TS:       m.Time.UnixMilli(),
		})
	}
	s.write(ctx, proto.Outbound{
		Type: proto.OutboundTypeMessages,
		Data: proto.MessagesData{RoomID: roomID, Messages: wire},
	})
}

// send places a command on the actor channel unless the context ends first.
func (s *Session) send(ctx context.Context, cmd core.Command) bool {
	select {
	case s.commands <- cmd:
		return true
	case <-ctx.Done():
		return false
	}
}

func await[T any](ctx context.Context, ch <-chan T) (T, bool) {
	select {
	case v := <-ch:
		return v, true
	case <-ctx.Done():
		var zero T
		return zero, false
	}
}
