package chatsync

import (
	"context"
	"fmt"
	"sync"
	"time"

	"nexus_chat_service/internal/chat/domain"

	"github.com/stretchr/testify/mock"
)

var t0 = time.Date(2025, 3, 1, 10, 0, 0, 0, time.UTC)

type MockPersister struct {
	mock.Mock
}

func (m *MockPersister) InsertMessage(ctx context.Context, msg *domain.Message) (*domain.Message, error) {
	args := m.Called(ctx, msg)
	if v := args.Get(0); v != nil {
		return v.(*domain.Message), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *MockPersister) InsertSharedItems(ctx context.Context, items []domain.SharedItem) error {
	args := m.Called(ctx, items)
	return args.Error(0)
}

type MockProfileFetcher struct {
	mock.Mock
}

func (m *MockProfileFetcher) FetchProfile(ctx context.Context, userID string) (*domain.Profile, error) {
	args := m.Called(ctx, userID)
	if v := args.Get(0); v != nil {
		return v.(*domain.Profile), args.Error(1)
	}
	return nil, args.Error(1)
}

type MockHistoryLoader struct {
	mock.Mock
}

func (m *MockHistoryLoader) ListMessages(ctx context.Context, scope domain.Scope, before time.Time, limit int) ([]domain.Message, error) {
	args := m.Called(ctx, scope, before, limit)
	if v := args.Get(0); v != nil {
		return v.([]domain.Message), args.Error(1)
	}
	return nil, args.Error(1)
}

// fakeFeed keeps the handlers so tests can push events and lifecycle transitions
type fakeFeed struct {
	mu          sync.Mutex
	err         error
	teamID      string
	onEvent     EventHandler
	onLifecycle LifecycleHandler
	closed      int
}

func (f *fakeFeed) Subscribe(_ context.Context, teamID string, onEvent EventHandler, onLifecycle LifecycleHandler) (Subscription, error) {
	if f.err != nil {
		return nil, f.err
	}
	f.mu.Lock()
	f.teamID, f.onEvent, f.onLifecycle = teamID, onEvent, onLifecycle
	f.mu.Unlock()
	onLifecycle(LifecycleConnecting, nil)
	return f, nil
}

func (f *fakeFeed) Close() error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.closed++
	return nil
}

func (f *fakeFeed) emit(ev domain.ChangeEvent) {
	f.onEvent(ev)
}

func (f *fakeFeed) lifecycle(l Lifecycle, err error) {
	f.onLifecycle(l, err)
}

// clock manual clock
type clock struct {
	mu  sync.Mutex
	now time.Time
}

func (c *clock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

func (c *clock) Set(t time.Time) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.now = t
}

func sequentialIDs() func() string {
	n := 0
	return func() string {
		n++
		return fmt.Sprintf("local-%d", n)
	}
}

func insertEvent(m domain.Message) domain.ChangeEvent {
	return domain.ChangeEvent{Type: domain.EventInsert, Table: domain.MessageCollection, TeamID: m.TeamID, New: &m}
}

func updateEvent(m domain.Message) domain.ChangeEvent {
	return domain.ChangeEvent{Type: domain.EventUpdate, Table: domain.MessageCollection, TeamID: m.TeamID, New: &m}
}

func deleteEvent(m domain.Message) domain.ChangeEvent {
	return domain.ChangeEvent{Type: domain.EventDelete, Table: domain.MessageCollection, TeamID: m.TeamID, Old: &m}
}

func strPtr(s string) *string { return &s }

func serverMessage(id, sender, text string, at time.Time) domain.Message {
	return domain.Message{
		ID:         id,
		TeamID:     "team-1",
		SenderID:   sender,
		Content:    strPtr(text),
		CreatedAt:  at,
		ReadStatus: domain.ReadStatusDelivered,
	}
}

func ids(msgs []domain.Message) []string {
	out := make([]string, 0, len(msgs))
	for _, m := range msgs {
		out = append(out, m.ID)
	}
	return out
}
