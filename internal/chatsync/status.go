package chatsync

import "sync"

// Status connection indicator
type Status string

const (
	// StatusConnected subscription confirmed
	StatusConnected Status = "connected"
	// StatusReconnecting attempt in flight
	StatusReconnecting Status = "reconnecting"
	// StatusDisconnected closed, failed, or never started
	StatusDisconnected Status = "disconnected"
)

// NextStatus pure lifecycle → status mapping; unknown lifecycles keep current
func NextStatus(current Status, l Lifecycle) Status {
	switch l {
	case LifecycleConnecting:
		return StatusReconnecting
	case LifecycleSubscribed:
		return StatusConnected
	case LifecycleClosed, LifecycleError, LifecycleTimedOut:
		return StatusDisconnected
	default:
		return current
	}
}

// StatusTracker holds the current status; starts disconnected
type StatusTracker struct {
	mu     sync.RWMutex
	status Status
}

// NewStatusTracker create StatusTracker
func NewStatusTracker() *StatusTracker {
	return &StatusTracker{status: StatusDisconnected}
}

// Apply a lifecycle callback, returns the new status and whether it changed
func (t *StatusTracker) Apply(l Lifecycle) (Status, bool) {
	t.mu.Lock()
	defer t.mu.Unlock()
	next := NextStatus(t.status, l)
	changed := next != t.status
	t.status = next
	return next, changed
}

// Status current value
func (t *StatusTracker) Status() Status {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return t.status
}
