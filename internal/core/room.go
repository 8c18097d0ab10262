package core

import "sort"

// Room wraps a message log with its metadata. Occupancy is tracked by the
// actor through join/leave commands so capacity can be enforced.
type Room struct {
	ID        int64
	Name      string
	Capacity  int
	occupants int
	Log       *MessageLog
}

// NewRoom constructs an empty room.
func NewRoom(id int64, name string, capacity int) *Room {
	return &Room{
		ID:       id,
		Name:     name,
		Capacity: capacity,
		Log:      NewMessageLog(),
	}
}

// Full reports whether the room has reached capacity.
func (r *Room) Full() bool {
	return r.Capacity > 0 && r.occupants >= r.Capacity
}

// Info returns a metadata snapshot safe to hand outside the actor.
func (r *Room) Info() RoomInfo {
	return RoomInfo{
		ID:        r.ID,
		Name:      r.Name,
		Capacity:  r.Capacity,
		Occupants: r.occupants,
	}
}

// RoomInfo is the read-only view of a room returned in replies.
type RoomInfo struct {
	ID        int64
	Name      string
	Capacity  int
	Occupants int
}

// RoomRegistry holds all rooms by id.
type RoomRegistry struct {
	rooms map[int64]*Room
}

// NewRoomRegistry returns an empty registry.
func NewRoomRegistry() *RoomRegistry {
	return &RoomRegistry{rooms: make(map[int64]*Room)}
}

// Add registers a room, replacing any previous room with the same id.
func (reg *RoomRegistry) Add(r *Room) {
	reg.rooms[r.ID] = r
}

// Get looks up a room by id.
func (reg *RoomRegistry) Get(id int64) (*Room, bool) {
	r, ok := reg.rooms[id]
	return r, ok
}

// List returns metadata for all rooms, ordered by id.
func (reg *RoomRegistry) List() []RoomInfo {
	out := make([]RoomInfo, 0, len(reg.rooms))
	for _, r := range reg.rooms {
		out = append(out, r.Info())
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out
}
