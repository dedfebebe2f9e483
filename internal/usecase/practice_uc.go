package usecase

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"sales-practice-api/internal/domain"
	"sales-practice-api/internal/domain/model"
	"sales-practice-api/internal/domain/ports/adapter"
	"sales-practice-api/internal/domain/ports/repository"
	"sales-practice-api/internal/infra/locker"
	"sales-practice-api/internal/infra/logging"
	"sales-practice-api/internal/infra/metrics"
)

// Roleplay turns run warm and short; analysis runs cool and longer.
const (
	chatTemperature     = 0.7
	chatMaxTokens       = 500
	analysisTemperature = 0.3
	analysisMaxTokens   = 1000
)

// Compile-time check
var _ PracticeUseCase = (*practiceUC)(nil)

// TurnResult is the outcome of one completed roleplay turn.
type TurnResult struct {
	Reply           string
	MessageCount    int
	SessionDuration time.Duration
}

// HistoryEntry is one transcript message as handed to callers. Timestamp is
// the message's creation time; ReadAt is when the listing was materialized.
type HistoryEntry struct {
	Role      string
	Content   string
	Timestamp time.Time
	ReadAt    time.Time
}

// SessionSummary is the operational listing shape: identifier, context and
// turn count, system message excluded.
type SessionSummary struct {
	SessionID string
	Context   model.SessionContext
	TurnCount int
}

// AnalysisResult is the coach critique plus session stats at analysis time.
type AnalysisResult struct {
	Analysis     string
	Duration     time.Duration
	MessageCount int
	Context      model.SessionContext
}

// PracticeUseCase is the session/conversation manager: it owns session
// lifecycle, keeps the persona system message at log index 0 and proxies
// turns and analyses to the completion adapter.
type PracticeUseCase interface {
	StartSession(ctx context.Context, product, customerProfile, scenario string) (*model.PracticeSession, error)
	SendMessage(ctx context.Context, sessionID, userText string) (*TurnResult, error)
	UpdateContext(ctx context.Context, sessionID, product, customerProfile, scenario string) (model.SessionContext, error)
	Analyze(ctx context.Context, sessionID string) (*AnalysisResult, error)
	GetHistory(ctx context.Context, sessionID string) ([]HistoryEntry, error)
	DeleteSession(ctx context.Context, sessionID string) error
	ListSessions(ctx context.Context) ([]SessionSummary, error)
}

type practiceUC struct {
	sessions repository.SessionRepository
	ai       adapter.CompletionAdapter
	locks    locker.Locker
	log      *zerolog.Logger
}

func NewPracticeUseCase(sessions repository.SessionRepository, ai adapter.CompletionAdapter, locks locker.Locker, log *zerolog.Logger) *practiceUC {
	return &practiceUC{sessions: sessions, ai: ai, locks: locks, log: log}
}

func (p *practiceUC) StartSession(ctx context.Context, product, customerProfile, scenario string) (*model.PracticeSession, error) {
	product = strings.TrimSpace(product)
	customerProfile = strings.TrimSpace(customerProfile)
	if product == "" || customerProfile == "" {
		return nil, domain.ErrInvalidArgument
	}

	sctx := model.SessionContext{
		Product:         product,
		CustomerProfile: customerProfile,
		Scenario:        strings.TrimSpace(scenario),
	}
	s := model.NewPracticeSession(uuid.NewString(), sctx, PersonaPrompt(sctx))
	if err := p.sessions.Save(ctx, s); err != nil {
		return nil, err
	}
	metrics.SessionStarted()
	p.log.Info().Str("session_id", s.ID).Str("product", product).Msg("session started")
	return s, nil
}

func (p *practiceUC) SendMessage(ctx context.Context, sessionID, userText string) (*TurnResult, error) {
	defer logging.TraceDuration(p.log, "PracticeUC.SendMessage")()

	userText = strings.TrimSpace(userText)
	if userText == "" {
		return nil, domain.ErrInvalidArgument
	}

	unlock := p.locks.Lock(sessionID)
	defer unlock()

	s, err := p.sessions.FindByID(ctx, sessionID)
	if err != nil {
		return nil, err
	}

	// Commit the user message before calling out, so a failed completion
	// never loses the user's turn.
	s.AddMessage("user", userText)
	if err := p.sessions.Save(ctx, s); err != nil {
		return nil, err
	}

	reply, err := p.ai.Complete(ctx, toAdapterMessages(s.Messages), adapter.Options{
		Temperature: chatTemperature,
		MaxTokens:   chatMaxTokens,
	})
	if err != nil {
		p.log.Error().Err(err).Str("session_id", sessionID).Msg("completion failed")
		return nil, err
	}

	s.AddMessage("assistant", reply)
	s.TurnCount++
	s.LastActivity = time.Now()
	if err := p.sessions.Save(ctx, s); err != nil {
		return nil, err
	}
	metrics.TurnCompleted()

	return &TurnResult{
		Reply:           reply,
		MessageCount:    s.TurnCount,
		SessionDuration: s.Duration(),
	}, nil
}

func (p *practiceUC) UpdateContext(ctx context.Context, sessionID, product, customerProfile, scenario string) (model.SessionContext, error) {
	unlock := p.locks.Lock(sessionID)
	defer unlock()

	s, err := p.sessions.FindByID(ctx, sessionID)
	if err != nil {
		return model.SessionContext{}, err
	}

	// Empty fields leave the current value untouched.
	if v := strings.TrimSpace(product); v != "" {
		s.Context.Product = v
	}
	if v := strings.TrimSpace(customerProfile); v != "" {
		s.Context.CustomerProfile = v
	}
	if v := strings.TrimSpace(scenario); v != "" {
		s.Context.Scenario = v
	}

	s.UpdateSystemPrompt(PersonaPrompt(s.Context))
	if err := p.sessions.Save(ctx, s); err != nil {
		return model.SessionContext{}, err
	}
	p.log.Info().Str("session_id", sessionID).Msg("context updated")
	return s.Context, nil
}

func (p *practiceUC) Analyze(ctx context.Context, sessionID string) (*AnalysisResult, error) {
	defer logging.TraceDuration(p.log, "PracticeUC.Analyze")()

	unlock := p.locks.Lock(sessionID)
	defer unlock()

	s, err := p.sessions.FindByID(ctx, sessionID)
	if err != nil {
		return nil, err
	}

	// The critique runs over a fresh two-message list, not the session's
	// accumulated log: one request regardless of transcript length.
	prompt := AnalysisPrompt(s.Transcript(), s.Context)
	analysis, err := p.ai.Complete(ctx, []adapter.Message{
		{Role: "system", Content: coachSystemPrompt},
		{Role: "user", Content: prompt},
	}, adapter.Options{
		Temperature: analysisTemperature,
		MaxTokens:   analysisMaxTokens,
	})
	if err != nil {
		p.log.Error().Err(err).Str("session_id", sessionID).Msg("analysis failed")
		return nil, err
	}
	metrics.AnalysisCompleted()

	return &AnalysisResult{
		Analysis:     analysis,
		Duration:     s.Duration(),
		MessageCount: s.TurnCount,
		Context:      s.Context,
	}, nil
}

func (p *practiceUC) GetHistory(ctx context.Context, sessionID string) ([]HistoryEntry, error) {
	s, err := p.sessions.FindByID(ctx, sessionID)
	if err != nil {
		return nil, err
	}
	now := time.Now()
	transcript := s.Transcript()
	out := make([]HistoryEntry, 0, len(transcript))
	for _, m := range transcript {
		out = append(out, HistoryEntry{
			Role:      m.Role,
			Content:   m.Content,
			Timestamp: m.Timestamp,
			ReadAt:    now,
		})
	}
	return out, nil
}

func (p *practiceUC) DeleteSession(ctx context.Context, sessionID string) error {
	unlock := p.locks.Lock(sessionID)
	defer unlock()

	if err := p.sessions.Delete(ctx, sessionID); err != nil {
		return err
	}
	metrics.SessionDeleted()
	p.log.Info().Str("session_id", sessionID).Msg("session deleted")
	return nil
}

func (p *practiceUC) ListSessions(ctx context.Context) ([]SessionSummary, error) {
	all, err := p.sessions.ListAll(ctx)
	if err != nil {
		return nil, err
	}
	out := make([]SessionSummary, 0, len(all))
	for _, s := range all {
		out = append(out, SessionSummary{
			SessionID: s.ID,
			Context:   s.Context,
			TurnCount: s.TurnCount,
		})
	}
	return out, nil
}

func toAdapterMessages(msgs []model.ChatMessage) []adapter.Message {
	out := make([]adapter.Message, 0, len(msgs))
	for _, m := range msgs {
		out = append(out, adapter.Message{Role: m.Role, Content: m.Content})
	}
	return out
}
