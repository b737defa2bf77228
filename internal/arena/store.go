package arena

import "sync"

// Store is the process-wide room registry. Rooms are never removed;
// listings come back in creation order.
type Store struct {
	mu    sync.Mutex
	rooms map[string]*Room
	order []string
}

func NewStore() *Store {
	return &Store{rooms: map[string]*Room{}}
}

// Create builds a room with the given problem set, seats the creator
// alone on team1 and registers the room.
func (s *Store) Create(problems []string, creator string) (*Room, error) {
	room := NewRoom(NewID(), problems)
	if err := room.Join(Team1, creator); err != nil {
		return nil, err
	}
	s.mu.Lock()
	s.rooms[room.ID()] = room
	s.order = append(s.order, room.ID())
	s.mu.Unlock()
	return room, nil
}

func (s *Store) Get(id string) (*Room, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	room, ok := s.rooms[id]
	if !ok {
		return nil, ErrRoomNotFound
	}
	return room, nil
}

func (s *Store) List() []*Room {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]*Room, 0, len(s.order))
	for _, id := range s.order {
		out = append(out, s.rooms[id])
	}
	return out
}
