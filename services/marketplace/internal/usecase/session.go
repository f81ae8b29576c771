package usecase

import (
	"context"
	"sync"
	"time"

	"souk-oman/pkg/i18n"
	"souk-oman/pkg/logger"
	"souk-oman/pkg/storage"
	"souk-oman/pkg/validator"
	"souk-oman/services/marketplace/internal/repo/persistent"
)

// Session bundles the per-client state. Its storage lives under the
// session id.
type Session struct {
	ID        string
	Auth      AuthUseCase
	Localizer *i18n.Localizer
	Favorites FavoritesUseCase
	Filters   FilterState

	lastSeen time.Time
}

type SessionProvider interface {
	Session(ctx context.Context, sessionID, preferredLanguage string) *Session
}

type SessionDeps struct {
	Store     *storage.Facade
	Catalog   *i18n.Catalog
	Delayer   Delayer
	Verifier  CodeVerifier
	Clock     Clock
	Validator *validator.Validator
	Logger    *logger.Logger
}

// SessionRegistry creates sessions on first use and keeps them until they
// have been idle for too long.
type SessionRegistry struct {
	deps     SessionDeps
	mu       sync.Mutex
	sessions map[string]*Session
}

func NewSessionRegistry(deps SessionDeps) *SessionRegistry {
	if deps.Clock == nil {
		deps.Clock = SystemClock{}
	}
	if deps.Delayer == nil {
		deps.Delayer = NoDelay{}
	}
	if deps.Validator == nil {
		deps.Validator = validator.New()
	}
	return &SessionRegistry{
		deps:     deps,
		sessions: make(map[string]*Session),
	}
}

// Session returns the session for sessionID, restoring it from storage when
// it is not in memory. preferredLanguage only applies to a session without
// a stored language.
func (r *SessionRegistry) Session(ctx context.Context, sessionID, preferredLanguage string) *Session {
	r.mu.Lock()
	defer r.mu.Unlock()

	now := r.deps.Clock.Now()
	if s, ok := r.sessions[sessionID]; ok {
		s.lastSeen = now
		return s
	}

	store := r.deps.Store.Scope("session:" + sessionID)
	s := &Session{
		ID: sessionID,
		Auth: NewAuthUseCase(
			ctx,
			persistent.NewUserRepository(store),
			r.deps.Delayer,
			r.deps.Verifier,
			r.deps.Clock,
			r.deps.Validator,
			r.deps.Logger,
		),
		Localizer: i18n.NewLocalizer(ctx, r.deps.Catalog, store, preferredLanguage, r.deps.Logger),
		Favorites: NewFavoritesUseCase(persistent.NewFavoritesRepository(store)),
		Filters:   NewFilterState(persistent.NewFilterRepository(store)),
		lastSeen:  now,
	}
	s.Localizer.OnChange(func(code string, dir i18n.Direction) {
		r.deps.Logger.Info("Session %s switched to %s (%s)", sessionID, code, dir)
	})
	r.sessions[sessionID] = s
	r.deps.Logger.Debug("Session %s opened", sessionID)
	return s
}

// Sweep drops in-memory sessions idle for longer than idle. Their stored
// state stays and is restored on the next request.
func (r *SessionRegistry) Sweep(idle time.Duration) int {
	r.mu.Lock()
	defer r.mu.Unlock()

	cutoff := r.deps.Clock.Now().Add(-idle)
	dropped := 0
	for id, s := range r.sessions {
		if s.lastSeen.Before(cutoff) {
			delete(r.sessions, id)
			dropped++
		}
	}
	return dropped
}

func (r *SessionRegistry) Len() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.sessions)
}
