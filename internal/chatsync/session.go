package chatsync

import (
	"context"
	"fmt"
	"sync"
	"time"

	"nexus_chat_service/internal/chat/domain"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// DefaultHistoryLimit initial page size
const DefaultHistoryLimit = 50

// Option configures a Session
type Option func(*Session)

// WithProfiles peer sender enrichment
func WithProfiles(p ProfileFetcher) Option {
	return func(s *Session) { s.profiles = p }
}

// WithHistory load one page of history on Start
func WithHistory(h HistoryLoader, limit int) Option {
	return func(s *Session) {
		s.history = h
		if limit > 0 {
			s.historyLimit = limit
		}
	}
}

// WithClock injects the clock used for optimistic timestamps
func WithClock(now func() time.Time) Option {
	return func(s *Session) { s.now = now }
}

// WithIDGenerator injects the local id generator
func WithIDGenerator(newID func() string) Option {
	return func(s *Session) { s.newID = newID }
}

// WithLogger zap logger, nop by default
func WithLogger(l *zap.Logger) Option {
	return func(s *Session) { s.log = l }
}

// WithSendErrorHook called after a failed send was rolled back, never after Close
func WithSendErrorHook(f func(error)) Option {
	return func(s *Session) { s.onSendError = f }
}

// Session is one mounted conversation view: it owns the message store for a scope,
// reconciles optimistic sends with the change feed and tracks connection status.
// All store mutations are serialized by mu; no I/O happens while it is held.
type Session struct {
	scope     domain.Scope
	me        domain.Profile
	persister Persister
	feed      Feed

	profiles     ProfileFetcher
	history      HistoryLoader
	historyLimit int
	now          func() time.Time
	newID        func() string
	log          *zap.Logger
	onSendError  func(error)

	status  *StatusTracker
	updates chan struct{}

	mu     sync.Mutex
	store  store
	closed bool
	cancel context.CancelFunc
	sub    Subscription
}

// NewSession me is the local user; the scope must name a team
func NewSession(scope domain.Scope, me domain.Profile, persister Persister, feed Feed, opts ...Option) (*Session, error) {
	if !scope.Valid() {
		return nil, ErrMissingScope
	}
	s := &Session{
		scope:        scope,
		me:           me,
		persister:    persister,
		feed:         feed,
		historyLimit: DefaultHistoryLimit,
		now:          time.Now,
		newID:        uuid.NewString,
		log:          zap.NewNop(),
		status:       NewStatusTracker(),
		updates:      make(chan struct{}, 1),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s, nil
}

// Start loads history (if configured) and subscribes to the feed. The subscription
// lives until ctx ends or Close is called.
func (s *Session) Start(ctx context.Context) error {
	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return ErrSessionClosed
	}
	if s.cancel != nil {
		s.mu.Unlock()
		return nil
	}
	runCtx, cancel := context.WithCancel(ctx)
	s.cancel = cancel
	s.mu.Unlock()

	if s.history != nil {
		if err := s.loadHistory(runCtx); err != nil {
			s.log.Warn("load history", zap.String("team_id", s.scope.TeamID), zap.Error(err))
		}
	}
	if s.feed == nil {
		return nil
	}

	sub, err := s.feed.Subscribe(runCtx, s.scope.TeamID,
		func(ev domain.ChangeEvent) { s.HandleEvent(runCtx, ev) },
		s.onLifecycle,
	)
	if err != nil {
		// 讓下一次 Start 可以重新訂閱
		s.mu.Lock()
		if !s.closed {
			s.cancel = nil
		}
		s.mu.Unlock()
		cancel()
		s.onLifecycle(LifecycleError, err)
		return fmt.Errorf("subscribe team %s: %w", s.scope.TeamID, err)
	}

	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		_ = sub.Close()
		return ErrSessionClosed
	}
	s.sub = sub
	s.mu.Unlock()
	return nil
}

func (s *Session) loadHistory(ctx context.Context) error {
	msgs, err := s.history.ListMessages(ctx, s.scope, s.now(), s.historyLimit)
	if err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return nil
	}

	seen := make(map[string]bool, len(msgs)+len(s.store.msgs))
	for _, m := range s.store.msgs {
		seen[m.ID] = true
	}
	merged := make([]domain.Message, 0, len(msgs)+len(s.store.msgs))
	for _, m := range msgs {
		if m.ID == "" || seen[m.ID] || !s.scope.Matches(&m) {
			continue
		}
		seen[m.ID] = true
		m.Pending = false
		m.IsMine = m.SenderID == s.me.UserID
		if m.IsMine {
			m.WithSender(&s.me)
		}
		merged = append(merged, m)
	}
	s.store.msgs = append(merged, s.store.msgs...)
	s.notifyLocked()
	return nil
}

// Close tears down the subscription. Sends and lookups completing afterwards are no-ops.
func (s *Session) Close() error {
	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return nil
	}
	s.closed = true
	sub, cancel := s.sub, s.cancel
	s.sub = nil
	s.status.Apply(LifecycleClosed)
	close(s.updates)
	s.mu.Unlock()

	if cancel != nil {
		cancel()
	}
	if sub != nil {
		return sub.Close()
	}
	return nil
}

func (s *Session) onLifecycle(l Lifecycle, err error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return
	}

	st, changed := s.status.Apply(l)
	if err != nil {
		s.log.Warn("feed lifecycle", zap.String("lifecycle", string(l)), zap.String("status", string(st)), zap.Error(err))
	} else {
		s.log.Debug("feed lifecycle", zap.String("lifecycle", string(l)), zap.String("status", string(st)))
	}
	if changed {
		s.notifyLocked()
	}
}

// notifyLocked coalescing wakeup; caller holds mu
func (s *Session) notifyLocked() {
	if s.closed {
		return
	}
	select {
	case s.updates <- struct{}{}:
	default:
	}
}

// Updates receives a value after one or more changes; closed by Close
func (s *Session) Updates() <-chan struct{} {
	return s.updates
}

// Messages snapshot of the store in display order
func (s *Session) Messages() []domain.Message {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.store.snapshot()
}

// Rendered grouping projection of the current snapshot
func (s *Session) Rendered(now time.Time) []RenderedMessage {
	return Project(s.Messages(), now)
}

// Status connection indicator
func (s *Session) Status() Status {
	return s.status.Status()
}

// Scope conversation scope
func (s *Session) Scope() domain.Scope {
	return s.scope
}

// Me local user
func (s *Session) Me() domain.Profile {
	return s.me
}
