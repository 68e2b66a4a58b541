package chatclient

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net"
	"net/http"
	"time"

	"nexus_chat_service/internal/chat/domain"
	"nexus_chat_service/internal/chatsync"

	"github.com/cenkalti/backoff/v4"
	"github.com/gorilla/websocket"
	"go.uber.org/zap"
)

// DefaultSubscribeTimeout 等待 subscribed 的時間
const DefaultSubscribeTimeout = 10 * time.Second

// ErrSubscribeTimeout server never confirmed the subscription
var ErrSubscribeTimeout = errors.New("subscribe not confirmed in time")

// FeedOption configures a WebsocketFeed
type FeedOption func(*WebsocketFeed)

// WithSubscribeTimeout handshake deadline
func WithSubscribeTimeout(d time.Duration) FeedOption {
	return func(f *WebsocketFeed) {
		if d > 0 {
			f.subscribeTimeout = d
		}
	}
}

// WithBackOff reconnect policy; a fresh value is built for each subscription
func WithBackOff(newBackOff func() backoff.BackOff) FeedOption {
	return func(f *WebsocketFeed) { f.newBackOff = newBackOff }
}

// WithExponentialBackOff initial and max reconnect delay, retries until the context ends
func WithExponentialBackOff(initial, max time.Duration) FeedOption {
	return WithBackOff(func() backoff.BackOff {
		b := backoff.NewExponentialBackOff()
		if initial > 0 {
			b.InitialInterval = initial
		}
		if max > 0 {
			b.MaxInterval = max
		}
		b.MaxElapsedTime = 0
		return b
	})
}

// WithFeedLogger zap logger
func WithFeedLogger(l *zap.Logger) FeedOption {
	return func(f *WebsocketFeed) { f.log = l }
}

// WebsocketFeed chatsync.Feed over the /realtime endpoint
type WebsocketFeed struct {
	url              string
	token            string
	dialer           *websocket.Dialer
	subscribeTimeout time.Duration
	newBackOff       func() backoff.BackOff
	log              *zap.Logger
}

// NewWebsocketFeed wsURL like ws://localhost:8082/realtime
func NewWebsocketFeed(wsURL, token string, opts ...FeedOption) *WebsocketFeed {
	f := &WebsocketFeed{
		url:              wsURL,
		token:            token,
		dialer:           websocket.DefaultDialer,
		subscribeTimeout: DefaultSubscribeTimeout,
		log:              zap.NewNop(),
	}
	WithExponentialBackOff(500*time.Millisecond, 30*time.Second)(f)
	for _, opt := range opts {
		opt(f)
	}
	return f
}

type feedSubscription struct {
	cancel context.CancelFunc
	done   chan struct{}
}

// Close stops the reconnect loop and waits for it
func (s *feedSubscription) Close() error {
	s.cancel()
	<-s.done
	return nil
}

// Subscribe runs a connect → subscribe → read loop in the background until ctx ends or
// the subscription is closed. Lifecycle callbacks report every transition.
func (f *WebsocketFeed) Subscribe(ctx context.Context, teamID string, onEvent chatsync.EventHandler, onLifecycle chatsync.LifecycleHandler) (chatsync.Subscription, error) {
	if teamID == "" {
		return nil, chatsync.ErrMissingScope
	}
	runCtx, cancel := context.WithCancel(ctx)
	sub := &feedSubscription{cancel: cancel, done: make(chan struct{})}
	go f.run(runCtx, teamID, onEvent, onLifecycle, sub.done)
	return sub, nil
}

func (f *WebsocketFeed) run(ctx context.Context, teamID string, onEvent chatsync.EventHandler, onLifecycle chatsync.LifecycleHandler, done chan struct{}) {
	defer close(done)
	defer onLifecycle(chatsync.LifecycleClosed, nil)

	b := backoff.WithContext(f.newBackOff(), ctx)
	for {
		onLifecycle(chatsync.LifecycleConnecting, nil)
		subscribed, err := f.connect(ctx, teamID, onEvent, onLifecycle)
		if ctx.Err() != nil {
			return
		}
		if subscribed {
			b.Reset()
		}
		if errors.Is(err, ErrSubscribeTimeout) {
			onLifecycle(chatsync.LifecycleTimedOut, err)
		} else {
			onLifecycle(chatsync.LifecycleError, err)
		}

		wait := b.NextBackOff()
		if wait == backoff.Stop {
			return
		}
		f.log.Warn("realtime feed lost, reconnecting", zap.String("team_id", teamID), zap.Duration("in", wait), zap.Error(err))

		timer := time.NewTimer(wait)
		select {
		case <-ctx.Done():
			timer.Stop()
			return
		case <-timer.C:
		}
	}
}

// connect one connection attempt; returns whether the subscription was confirmed
func (f *WebsocketFeed) connect(ctx context.Context, teamID string, onEvent chatsync.EventHandler, onLifecycle chatsync.LifecycleHandler) (bool, error) {
	header := http.Header{}
	header.Set("Authorization", "Bearer "+f.token)

	conn, _, err := f.dialer.DialContext(ctx, f.url, header)
	if err != nil {
		return false, fmt.Errorf("dial %s: %w", f.url, err)
	}
	defer conn.Close()

	// ReadMessage 不吃 ctx, 關連線讓它返回
	stop := make(chan struct{})
	defer close(stop)
	go func() {
		select {
		case <-ctx.Done():
			_ = conn.WriteControl(websocket.CloseMessage,
				websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""), time.Now().Add(time.Second))
			conn.Close()
		case <-stop:
		}
	}()

	if err := conn.WriteJSON(domain.WSRequest{Action: domain.Subscribe, TeamID: teamID}); err != nil {
		return false, fmt.Errorf("send subscribe: %w", err)
	}
	_ = conn.SetReadDeadline(time.Now().Add(f.subscribeTimeout))

	subscribed := false
	for {
		_, raw, err := conn.ReadMessage()
		if err != nil {
			var ne net.Error
			if !subscribed && errors.As(err, &ne) && ne.Timeout() {
				return false, fmt.Errorf("%w: %v", ErrSubscribeTimeout, err)
			}
			return subscribed, err
		}

		var resp domain.WSResponse
		if err := json.Unmarshal(raw, &resp); err != nil {
			f.log.Debug("skip malformed frame", zap.Error(err))
			continue
		}

		switch resp.Action {
		case domain.Subscribed:
			if resp.TeamID == teamID && !subscribed {
				subscribed = true
				_ = conn.SetReadDeadline(time.Time{})
				onLifecycle(chatsync.LifecycleSubscribed, nil)
			}
		case domain.Change:
			if resp.Event != nil && resp.TeamID == teamID {
				onEvent(*resp.Event)
			}
		case domain.Closed:
			if resp.TeamID == teamID {
				return subscribed, errors.New("subscription closed by server")
			}
		case domain.Error:
			if !subscribed {
				return false, fmt.Errorf("subscribe rejected: %s", resp.Error)
			}
			f.log.Warn("realtime feed error frame", zap.String("team_id", teamID), zap.String("error", resp.Error))
		}
	}
}
