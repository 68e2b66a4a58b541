package chatsync

import (
	"context"

	"nexus_chat_service/internal/chat/domain"

	"go.uber.org/zap"
)

// HandleEvent merges one change event into the store. Malformed, out-of-scope and
// unknown events are ignored.
func (s *Session) HandleEvent(ctx context.Context, ev domain.ChangeEvent) {
	switch ev.Type {
	case domain.EventInsert:
		s.handleInsert(ctx, ev.New)
	case domain.EventUpdate:
		s.handleUpdate(ev.New)
	case domain.EventDelete:
		s.handleDelete(ev.Record())
	default:
		s.log.Debug("ignore change event", zap.String("type", string(ev.Type)))
	}
}

func (s *Session) handleInsert(ctx context.Context, rec *domain.Message) {
	if rec == nil || rec.ID == "" {
		s.log.Debug("ignore insert without record")
		return
	}
	if !s.scope.Matches(rec) {
		return
	}

	m := *rec
	m.Pending = false

	if m.SenderID == s.me.UserID {
		m.IsMine = true
		m.WithSender(&s.me)

		s.mu.Lock()
		defer s.mu.Unlock()
		if s.closed {
			return
		}
		if i := s.store.indexOf(m.ID); i >= 0 {
			s.store.replaceAt(i, m)
		} else if i := s.store.matchPending(&m); i >= 0 {
			s.store.replaceAt(i, m)
		} else {
			// echo missed its pending record: shows up as a second entry
			s.store.append(m)
		}
		s.notifyLocked()
		return
	}

	// redelivery of a known peer message
	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return
	}
	if i := s.store.indexOf(m.ID); i >= 0 {
		keepDisplay(&m, &s.store.msgs[i])
		s.store.replaceAt(i, m)
		s.notifyLocked()
		s.mu.Unlock()
		return
	}
	s.mu.Unlock()

	if s.profiles != nil {
		p, err := s.profiles.FetchProfile(ctx, m.SenderID)
		if err != nil {
			s.log.Warn("sender profile lookup", zap.String("user_id", m.SenderID), zap.Error(err))
		} else {
			m.WithSender(p)
		}
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return
	}
	if i := s.store.indexOf(m.ID); i >= 0 {
		s.store.replaceAt(i, m)
	} else {
		s.store.append(m)
	}
	s.notifyLocked()
}

func (s *Session) handleUpdate(rec *domain.Message) {
	if rec == nil || rec.ID == "" {
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return
	}
	i := s.store.indexOf(rec.ID)
	if i < 0 {
		return
	}

	m := *rec
	if !s.scope.Matches(&m) {
		s.store.remove(m.ID)
		s.notifyLocked()
		return
	}
	prev := &s.store.msgs[i]
	m.Pending = false
	m.IsMine = prev.IsMine
	keepDisplay(&m, prev)
	s.store.replaceAt(i, m)
	s.notifyLocked()
}

func (s *Session) handleDelete(rec *domain.Message) {
	if rec == nil || rec.ID == "" {
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return
	}
	if s.store.remove(rec.ID) {
		s.notifyLocked()
	}
}

func keepDisplay(dst, prev *domain.Message) {
	if dst.SenderName != "" || dst.SenderAvatar != "" || dst.SenderEmail != "" {
		return
	}
	dst.SenderName = prev.SenderName
	dst.SenderAvatar = prev.SenderAvatar
	dst.SenderEmail = prev.SenderEmail
}
