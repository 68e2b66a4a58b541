package chatsync

import (
	"testing"
	"time"

	"nexus_chat_service/internal/chat/domain"

	"github.com/stretchr/testify/assert"
)

func pending(id, sender, text string, at time.Time) domain.Message {
	m := serverMessage(id, sender, text, at)
	m.ClientID = id
	m.Pending = true
	return m
}

func TestStore_MatchPending(t *testing.T) {
	s := &store{msgs: []domain.Message{
		serverMessage("srv-1", "user-a", "hello", t0),
		pending("local-1", "user-a", "hello", t0),
		pending("local-2", "user-a", "hello", t0.Add(time.Second)),
	}}

	byClient := serverMessage("srv-2", "user-a", "other text", t0)
	byClient.ClientID = "local-2"
	assert.Equal(t, 2, s.matchPending(&byClient))

	// confirmed records never match; first pending in order wins
	assert.Equal(t, 1, s.matchPending(ptr(serverMessage("srv-3", "user-a", "hello", t0.Add(-9*time.Second)))))
	assert.Equal(t, -1, s.matchPending(ptr(serverMessage("srv-3", "user-a", "hello", t0.Add(-11*time.Second)))))
	assert.Equal(t, -1, s.matchPending(ptr(serverMessage("srv-3", "user-b", "hello", t0))))
	assert.Equal(t, -1, s.matchPending(ptr(serverMessage("srv-3", "user-a", "hello ", t0))))
}

func TestStore_MatchPending_ForeignClientID(t *testing.T) {
	s := &store{msgs: []domain.Message{pending("local-1", "user-a", "hello", t0)}}

	// same user, same text, but sent from another tab
	other := serverMessage("srv-9", "user-a", "hello", t0)
	other.ClientID = "tab-2-local-7"
	assert.Equal(t, -1, s.matchPending(&other))

	// echo without a client id still falls back to content + time
	assert.Equal(t, 0, s.matchPending(ptr(serverMessage("srv-9", "user-a", "hello", t0))))
}

func TestStore_Remove(t *testing.T) {
	s := &store{msgs: []domain.Message{serverMessage("a", "u", "", t0), serverMessage("b", "u", "", t0)}}
	assert.True(t, s.remove("a"))
	assert.False(t, s.remove("a"))
	assert.Equal(t, []string{"b"}, ids(s.snapshot()))
}

func ptr(m domain.Message) *domain.Message { return &m }
