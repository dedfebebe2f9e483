package memstore

import (
	"context"
	"sort"
	"sync"

	"sales-practice-api/internal/domain"
	"sales-practice-api/internal/domain/model"
	"sales-practice-api/internal/domain/ports/repository"
)

// Compile-time check
var _ repository.SessionRepository = (*SessionRepo)(nil)

// SessionRepo keeps every practice session in process memory. Sessions do
// not survive a restart and are never expired; explicit deletion is the only
// way out of the map.
//
// The repo stores and hands out deep copies, so a session read by one
// request can never observe a half-applied mutation from another. Writers go
// through Save, which replaces the stored copy wholesale.
type SessionRepo struct {
	mu       sync.RWMutex
	sessions map[string]*model.PracticeSession
}

func NewSessionRepo() *SessionRepo {
	return &SessionRepo{sessions: make(map[string]*model.PracticeSession)}
}

func (r *SessionRepo) Save(ctx context.Context, s *model.PracticeSession) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.sessions[s.ID] = clone(s)
	return nil
}

func (r *SessionRepo) FindByID(ctx context.Context, id string) (*model.PracticeSession, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	s, ok := r.sessions[id]
	if !ok {
		return nil, domain.ErrNotFound
	}
	return clone(s), nil
}

func (r *SessionRepo) Delete(ctx context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.sessions[id]; !ok {
		return domain.ErrNotFound
	}
	delete(r.sessions, id)
	return nil
}

// ListAll returns sessions ordered by start time (ties broken by ID) so
// repeated listings of an unchanged store are identical.
func (r *SessionRepo) ListAll(ctx context.Context) ([]*model.PracticeSession, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]*model.PracticeSession, 0, len(r.sessions))
	for _, s := range r.sessions {
		out = append(out, clone(s))
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].StartedAt.Equal(out[j].StartedAt) {
			return out[i].ID < out[j].ID
		}
		return out[i].StartedAt.Before(out[j].StartedAt)
	})
	return out, nil
}

// Len reports the number of stored sessions.
func (r *SessionRepo) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.sessions)
}

func clone(s *model.PracticeSession) *model.PracticeSession {
	cp := *s
	cp.Messages = make([]model.ChatMessage, len(s.Messages))
	copy(cp.Messages, s.Messages)
	return &cp
}
