package repository

import (
	"context"

	"sales-practice-api/internal/domain/model"
)

// SessionRepository owns the session-ID -> practice-session mapping.
// Save and Delete act on the message log and the context record together;
// a session is never visible with one but not the other.
type SessionRepository interface {
	Save(ctx context.Context, session *model.PracticeSession) error
	FindByID(ctx context.Context, id string) (*model.PracticeSession, error)
	Delete(ctx context.Context, id string) error
	ListAll(ctx context.Context) ([]*model.PracticeSession, error)
}
