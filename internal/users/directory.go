package users

import (
	"errors"
	"strings"
	"sync"
	"time"

	"duel-arena/internal/arena"
)

var ErrUserNotFound = errors.New("user_not_found")

// User is an identity entry. Rooms only ever see the display name, so two
// accounts registered with the same name are indistinguishable inside a
// room; the directory does not enforce name uniqueness.
type User struct {
	ID        string    `json:"user_id"`
	Name      string    `json:"name"`
	AvatarRef string    `json:"avatar_ref,omitempty"`
	CreatedAt time.Time `json:"created_at"`
}

// Directory is the process-wide user registry. Entries live for the
// process lifetime; listings come back in registration order.
type Directory struct {
	mu    sync.Mutex
	byID  map[string]User
	order []string
}

func NewDirectory() *Directory {
	return &Directory{byID: map[string]User{}}
}

func (d *Directory) Register(name, avatarRef string) (User, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return User{}, arena.ErrInvalidInput
	}
	u := User{
		ID:        arena.NewID(),
		Name:      name,
		AvatarRef: avatarRef,
		CreatedAt: time.Now(),
	}
	d.mu.Lock()
	d.byID[u.ID] = u
	d.order = append(d.order, u.ID)
	d.mu.Unlock()
	return u, nil
}

func (d *Directory) Lookup(id string) (User, error) {
	d.mu.Lock()
	defer d.mu.Unlock()
	u, ok := d.byID[id]
	if !ok {
		return User{}, ErrUserNotFound
	}
	return u, nil
}

func (d *Directory) List() []User {
	d.mu.Lock()
	defer d.mu.Unlock()
	out := make([]User, 0, len(d.order))
	for _, id := range d.order {
		out = append(out, d.byID[id])
	}
	return out
}
