package chatsync

import (
	"context"
	"time"

	"nexus_chat_service/internal/chat/domain"
)

// Persister remote write side
type Persister interface {
	// InsertMessage returns the authoritative record (server id and timestamp)
	InsertMessage(ctx context.Context, msg *domain.Message) (*domain.Message, error)
	// InsertSharedItems best effort attachment links
	InsertSharedItems(ctx context.Context, items []domain.SharedItem) error
}

// ProfileFetcher sender display profile lookup
type ProfileFetcher interface {
	FetchProfile(ctx context.Context, userID string) (*domain.Profile, error)
}

// HistoryLoader initial page of messages, oldest first
type HistoryLoader interface {
	ListMessages(ctx context.Context, scope domain.Scope, before time.Time, limit int) ([]domain.Message, error)
}

// Lifecycle subscription lifecycle callback values
type Lifecycle string

const (
	// LifecycleConnecting a (re)connect attempt started
	LifecycleConnecting Lifecycle = "connecting"
	// LifecycleSubscribed the feed confirmed the subscription
	LifecycleSubscribed Lifecycle = "subscribed"
	// LifecycleClosed subscription ended
	LifecycleClosed Lifecycle = "closed"
	// LifecycleError transport failure
	LifecycleError Lifecycle = "error"
	// LifecycleTimedOut no confirmation in time
	LifecycleTimedOut Lifecycle = "timed_out"
)

// EventHandler receives change events in delivery order
type EventHandler func(domain.ChangeEvent)

// LifecycleHandler receives lifecycle transitions; err is set for error and timed_out
type LifecycleHandler func(Lifecycle, error)

// Subscription handle returned by Feed.Subscribe
type Subscription interface {
	Close() error
}

// Feed realtime change feed filtered by team; the feed owns reconnection
type Feed interface {
	Subscribe(ctx context.Context, teamID string, onEvent EventHandler, onLifecycle LifecycleHandler) (Subscription, error)
}
