package chatsync

import (
	"time"

	"nexus_chat_service/internal/chat/domain"
)

// EchoWindow max distance between an optimistic record and its echo for the content match
const EchoWindow = 10 * time.Second

// store ordered message list; ids are unique. Not safe for concurrent use.
type store struct {
	msgs []domain.Message
}

func (s *store) indexOf(id string) int {
	for i := range s.msgs {
		if s.msgs[i].ID == id {
			return i
		}
	}
	return -1
}

func (s *store) append(m domain.Message) {
	s.msgs = append(s.msgs, m)
}

func (s *store) replaceAt(i int, m domain.Message) {
	s.msgs[i] = m
}

func (s *store) remove(id string) bool {
	i := s.indexOf(id)
	if i < 0 {
		return false
	}
	s.msgs = append(s.msgs[:i], s.msgs[i+1:]...)
	return true
}

// matchPending finds the optimistic record an echo confirms: exact client id first,
// then same sender, identical text, created within EchoWindow.
func (s *store) matchPending(echo *domain.Message) int {
	if echo.ClientID != "" {
		for i := range s.msgs {
			if s.msgs[i].Pending && s.msgs[i].ClientID == echo.ClientID {
				return i
			}
		}
	}
	for i := range s.msgs {
		m := &s.msgs[i]
		if !m.Pending || m.SenderID != echo.SenderID || m.Text() != echo.Text() {
			continue
		}
		// 兩邊都帶 client id 但不同，是別的分頁送的
		if m.ClientID != "" && echo.ClientID != "" && m.ClientID != echo.ClientID {
			continue
		}
		d := m.CreatedAt.Sub(echo.CreatedAt)
		if d < 0 {
			d = -d
		}
		if d < EchoWindow {
			return i
		}
	}
	return -1
}

func (s *store) snapshot() []domain.Message {
	out := make([]domain.Message, len(s.msgs))
	copy(out, s.msgs)
	return out
}
