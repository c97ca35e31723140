package mailbox

import (
	"fmt"
	"sync"

	"xmail/models"
)

// Store is the ordered in-memory collection of messages
type Store struct {
	messages []models.Message
	index    map[string]int
	mu       sync.RWMutex
}

// NewStore creates a store seeded with the given messages
func NewStore(seed []models.Message) *Store {
	s := &Store{
		messages: make([]models.Message, 0, len(seed)),
		index:    make(map[string]int, len(seed)),
	}
	for _, m := range seed {
		s.append(m)
	}
	return s
}

// GetAll returns a snapshot of every message in insertion order
func (s *Store) GetAll() []models.Message {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]models.Message, len(s.messages))
	for i, m := range s.messages {
		out[i] = m.Clone()
	}
	return out
}

// Get returns a copy of one message
func (s *Store) Get(id string) (models.Message, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	i, ok := s.index[id]
	if !ok {
		return models.Message{}, fmt.Errorf("%w: %s", ErrMessageNotFound, id)
	}
	return s.messages[i].Clone(), nil
}

// Has reports whether a message with the id exists
func (s *Store) Has(id string) bool {
	s.mu.RLock()
	defer s.mu.RUnlock()

	_, ok := s.index[id]
	return ok
}

// Append adds a message at the end of the store
func (s *Store) Append(msg models.Message) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.append(msg)
}

// SetFlag sets a read or starred flag on a message
func (s *Store) SetFlag(id string, flag models.Flag, value bool) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	i, ok := s.index[id]
	if !ok {
		return fmt.Errorf("%w: %s", ErrMessageNotFound, id)
	}

	switch flag {
	case models.FlagRead:
		s.messages[i].IsRead = value
	case models.FlagStarred:
		s.messages[i].IsStarred = value
	default:
		return fmt.Errorf("%w: %s", ErrUnknownFlag, flag)
	}
	return nil
}

// Len returns the number of messages
func (s *Store) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return len(s.messages)
}

// UnreadCount returns how many messages have not been read
func (s *Store) UnreadCount() int {
	s.mu.RLock()
	defer s.mu.RUnlock()

	n := 0
	for _, m := range s.messages {
		if !m.IsRead {
			n++
		}
	}
	return n
}

// append must be called with the lock held
func (s *Store) append(msg models.Message) {
	s.index[msg.ID] = len(s.messages)
	s.messages = append(s.messages, msg.Clone())
}
