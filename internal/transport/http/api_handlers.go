package http

import (
	"context"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"

	"github.com/KapJ1coH/roomchat/internal/core"
)

const apiTimeout = 2 * time.Second

// ErrorResponse is the REST error body.
type ErrorResponse struct {
	Error string `json:"error"`
}

// RoomResponse represents a room in API responses.
type RoomResponse struct {
	ID        int64  `json:"id"`
	Name      string `json:"name"`
	Capacity  int    `json:"capacity"`
	Occupants int    `json:"occupants"`
}

// UserResponse represents a user in API responses.
type UserResponse struct {
	ID       int64  `json:"id"`
	Name     string `json:"name"`
	Username string `json:"username"`
}

// APIHandlers serves read-only REST lookups through the actor, so REST reads
// observe the same serialized state as chat sessions.
type APIHandlers struct {
	commands chan<- core.Command
	log      *zerolog.Logger
}

// NewAPIHandlers creates the REST handlers.
func NewAPIHandlers(commands chan<- core.Command, logger *zerolog.Logger) *APIHandlers {
	return &APIHandlers{commands: commands, log: logger}
}

// ListRooms handles GET /api/rooms.
func (h *APIHandlers) ListRooms(c *gin.Context) {
	ctx, cancel := context.WithTimeout(c.Request.Context(), apiTimeout)
	defer cancel()

	reply := make(chan core.RoomsReply, 1)
	if !h.issue(ctx, c, core.ListRooms{Reply: reply}) {
		return
	}
	res, ok := awaitReply(ctx, c, reply)
	if !ok {
		return
	}

	rooms := make([]RoomResponse, 0, len(res.Rooms))
	for _, r := range res.Rooms {
		rooms = append(rooms, RoomResponse{
			ID:        r.ID,
			Name:      r.Name,
			Capacity:  r.Capacity,
			Occupants: r.Occupants,
		})
	}
	c.JSON(http.StatusOK, gin.H{"rooms": rooms})
}

// GetRoom handles GET /api/rooms/:id.
func (h *APIHandlers) GetRoom(c *gin.Context) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid room id"})
		return
	}

	ctx, cancel := context.WithTimeout(c.Request.Context(), apiTimeout)
	defer cancel()

	reply := make(chan core.RoomReply, 1)
	if !h.issue(ctx, c, core.GetRoomInfo{RoomID: id, Reply: reply}) {
		return
	}
	res, ok := awaitReply(ctx, c, reply)
	if !ok {
		return
	}
	if res.Err != nil {
		c.JSON(http.StatusNotFound, ErrorResponse{Error: res.Err.Message})
		return
	}

	c.JSON(http.StatusOK, RoomResponse{
		ID:        res.Room.ID,
		Name:      res.Room.Name,
		Capacity:  res.Room.Capacity,
		Occupants: res.Room.Occupants,
	})
}

// GetUser handles GET /api/users/:id.
func (h *APIHandlers) GetUser(c *gin.Context) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid user id"})
		return
	}

	ctx, cancel := context.WithTimeout(c.Request.Context(), apiTimeout)
	defer cancel()

	reply := make(chan core.UserReply, 1)
	if !h.issue(ctx, c, core.FindUser{UserID: id, Reply: reply}) {
		return
	}
	res, ok := awaitReply(ctx, c, reply)
	if !ok {
		return
	}
	if res.Err != nil {
		c.JSON(http.StatusNotFound, ErrorResponse{Error: res.Err.Message})
		return
	}

	c.JSON(http.StatusOK, UserResponse{
		ID:       res.Profile.ID,
		Name:     res.Profile.Name,
		Username: res.Profile.Username,
	})
}

func (h *APIHandlers) issue(ctx context.Context, c *gin.Context, cmd core.Command) bool {
	select {
	case h.commands <- cmd:
		return true
	case <-ctx.Done():
		h.log.Warn().Str("path", c.FullPath()).Msg("actor command queue saturated")
		c.JSON(http.StatusServiceUnavailable, ErrorResponse{Error: "server busy"})
		return false
	}
}

func awaitReply[T any](ctx context.Context, c *gin.Context, ch <-chan T) (T, bool) {
	select {
	case v := <-ch:
		return v, true
	case <-ctx.Done():
		var zero T
		c.JSON(http.StatusGatewayTimeout, ErrorResponse{Error: "timed out"})
		return zero, false
	}
}
