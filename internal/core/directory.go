package core

// Profile describes a known user. Profiles are created at bootstrap and never
// mutated by the actor.
type Profile struct {
	ID       int64
	Name     string
	Username string
}

// UserDirectory maps user identity to profile.
type UserDirectory struct {
	users map[int64]Profile
}

// NewUserDirectory returns an empty directory.
func NewUserDirectory() *UserDirectory {
	return &UserDirectory{users: make(map[int64]Profile)}
}

// Add inserts a profile.
func (d *UserDirectory) Add(p Profile) {
	d.users[p.ID] = p
}

// Find looks up a profile by identity.
func (d *UserDirectory) Find(id int64) (Profile, bool) {
	p, ok := d.users[id]
	return p, ok
}

// Len reports the number of known users.
func (d *UserDirectory) Len() int {
	return len(d.users)
}
