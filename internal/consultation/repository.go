package consultation

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
)

var (
	ErrSessionNotFound = errors.New("session not found")
	ErrSessionClosed   = errors.New("session closed")
)

// Repository is the volatile store of session records. Nothing it holds
// outlives the process.
type Repository interface {
	Create(ctx context.Context) (*Session, error)
	GetByID(ctx context.Context, id uuid.UUID) (*Session, error)
	// Delete erases the session before releasing its id. Deleting an
	// unknown id is not an error.
	Delete(ctx context.Context, id uuid.UUID) error
	IDs(ctx context.Context) []uuid.UUID
}

const maxIDAttempts = 5

type memoryRepo struct {
	mu       sync.Mutex
	sessions map[uuid.UUID]*Session
	now      func() time.Time
	newID    func() (uuid.UUID, error)
}

func NewRepository() Repository {
	return &memoryRepo{
		sessions: make(map[uuid.UUID]*Session),
		now:      time.Now,
		newID:    uuid.NewRandom,
	}
}

func (r *memoryRepo) Create(ctx context.Context) (*Session, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	for range maxIDAttempts {
		id, err := r.newID()
		if err != nil {
			return nil, fmt.Errorf("failed to generate session id: %w", err)
		}
		if _, taken := r.sessions[id]; taken {
			continue
		}
		s := newSession(id, r.now())
		r.sessions[id] = s
		return s, nil
	}
	return nil, fmt.Errorf("failed to generate a unique session id after %d attempts", maxIDAttempts)
}

func (r *memoryRepo) GetByID(ctx context.Context, id uuid.UUID) (*Session, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	s, ok := r.sessions[id]
	if !ok {
		return nil, ErrSessionNotFound
	}
	return s, nil
}

func (r *memoryRepo) Delete(ctx context.Context, id uuid.UUID) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	s, ok := r.sessions[id]
	if !ok {
		return nil
	}
	s.mu.Lock()
	s.close(StatusTerminated, r.now())
	s.mu.Unlock()

	delete(r.sessions, id)
	return nil
}

func (r *memoryRepo) IDs(ctx context.Context) []uuid.UUID {
	r.mu.Lock()
	defer r.mu.Unlock()

	ids := make([]uuid.UUID, 0, len(r.sessions))
	for id := range r.sessions {
		ids = append(ids, id)
	}
	return ids
}
