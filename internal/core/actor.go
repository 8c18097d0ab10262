package core

import (
	"context"
	"time"

	"github.com/rs/zerolog"

	"github.com/KapJ1coH/roomchat/internal/metrics"
)

// Actor is the sole owner of the room registry and user directory. All reads
// and writes of chat state go through its command channel and are processed
// one at a time, in arrival order; that single loop is the system's only
// serialization point.
type Actor struct {
	commands chan Command
	rooms    *RoomRegistry
	users    *UserDirectory
	log      *zerolog.Logger
}

// NewActor constructs an actor with empty state. AddUser and AddRoom may only
// be called before Run starts.
func NewActor(logger *zerolog.Logger) *Actor {
	if logger == nil {
		nop := zerolog.Nop()
		logger = &nop
	}
	return &Actor{
		commands: make(chan Command, 64),
		rooms:    NewRoomRegistry(),
		users:    NewUserDirectory(),
		log:      logger,
	}
}

// Commands exposes the inbound command channel.
func (a *Actor) Commands() chan<- Command {
	return a.commands
}

// AddUser seeds the directory during bootstrap.
func (a *Actor) AddUser(p Profile) {
	a.users.Add(p)
}

// AddRoom seeds the registry during bootstrap.
func (a *Actor) AddRoom(r *Room) {
	a.rooms.Add(r)
}

// Run processes commands until the channel is closed or ctx is cancelled.
// A bad request never terminates the loop; it turns into a typed error reply.
func (a *Actor) Run(ctx context.Context) {
	for {
		select {
		case cmd, ok := <-a.commands:
			if !ok {
				a.log.Info().Msg("command channel closed, actor stopping")
				return
			}
			start := time.Now()
			a.dispatch(cmd)
			metrics.CommandsTotal.WithLabelValues(cmd.kind()).Inc()
			metrics.CommandDuration.WithLabelValues(cmd.kind()).Observe(time.Since(start).Seconds())
		case <-ctx.Done():
			a.log.Info().Msg("context cancelled, actor stopping")
			return
		}
	}
}

func (a *Actor) dispatch(cmd Command) {
	switch c := cmd.(type) {
	case FindUser:
		a.handleFindUser(c)
	case GetRoomInfo:
		a.handleGetRoomInfo(c)
	case ListRooms:
		reply(a, c.Reply, RoomsReply{Rooms: a.rooms.List()})
	case GetAllMessages:
		a.handleGetAllMessages(c)
	case GetMessagesSince:
		a.handleGetMessagesSince(c)
	case AppendMessage:
		a.handleAppendMessage(c)
	case JoinRoom:
		a.handleJoinRoom(c)
	case LeaveRoom:
		a.handleLeaveRoom(c)
	default:
		a.log.Warn().Str("kind", cmd.kind()).Msg("unknown command dropped")
	}
}

func (a *Actor) handleFindUser(c FindUser) {
	p, ok := a.users.Find(c.UserID)
	if !ok {
		reply(a, c.Reply, UserReply{Err: coreError(ErrCodeUserNotFound, "user not found")})
		return
	}
	reply(a, c.Reply, UserReply{Profile: p})
}

func (a *Actor) handleGetRoomInfo(c GetRoomInfo) {
	r, ok := a.rooms.Get(c.RoomID)
	if !ok {
		reply(a, c.Reply, RoomReply{Err: coreError(ErrCodeRoomNotFound, "room not found")})
		return
	}
	reply(a, c.Reply, RoomReply{Room: r.Info()})
}

func (a *Actor) handleGetAllMessages(c GetAllMessages) {
	r, ok := a.rooms.Get(c.RoomID)
	if !ok {
		reply(a, c.Reply, MessagesReply{Err: coreError(ErrCodeRoomNotFound, "room not found")})
		return
	}
	reply(a, c.Reply, MessagesReply{Messages: r.Log.All()})
}

func (a *Actor) handleGetMessagesSince(c GetMessagesSince) {
	r, ok := a.rooms.Get(c.RoomID)
	if !ok {
		reply(a, c.Reply, MessagesReply{Err: coreError(ErrCodeRoomNotFound, "room not found")})
		return
	}
	reply(a, c.Reply, MessagesReply{Messages: r.Log.Since(c.After)})
}

func (a *Actor) handleAppendMessage(c AppendMessage) {
	r, ok := a.rooms.Get(c.RoomID)
	if !ok {
		reply(a, c.Reply, AckReply{Err: coreError(ErrCodeRoomNotFound, "room not found")})
		return
	}
	r.Log.Append(c.Message)
	reply(a, c.Reply, AckReply{})
}

func (a *Actor) handleJoinRoom(c JoinRoom) {
	r, ok := a.rooms.Get(c.RoomID)
	if !ok {
		reply(a, c.Reply, RoomReply{Err: coreError(ErrCodeRoomNotFound, "room not found")})
		return
	}
	if r.Full() {
		reply(a, c.Reply, RoomReply{Err: coreError(ErrCodeRoomFull, "room is full")})
		return
	}
	r.occupants++
	reply(a, c.Reply, RoomReply{Room: r.Info()})
}

func (a *Actor) handleLeaveRoom(c LeaveRoom) {
	r, ok := a.rooms.Get(c.RoomID)
	if !ok {
		reply(a, c.Reply, AckReply{Err: coreError(ErrCodeRoomNotFound, "room not found")})
		return
	}
	if r.occupants > 0 {
		r.occupants--
	}
	reply(a, c.Reply, AckReply{})
}

// reply answers a command without ever blocking the loop. Reply channels are
// buffered with capacity 1, so the send only fails if the caller misused the
// channel; an abandoned receiver is tolerated either way.
func reply[T any](a *Actor, ch chan<- T, v T) {
	select {
	case ch <- v:
	default:
		metrics.DroppedReplies.Inc()
		a.log.Warn().Msg("reply dropped, receiver gone")
	}
}
