package chatsync

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"nexus_chat_service/internal/chat/domain"

	"go.uber.org/zap"
)

// SendRequest text and/or attachments for the session scope
type SendRequest struct {
	Content     string
	Attachments []domain.Attachment
	Mentions    []string
}

// FormData submitted form: content plus optional JSON-encoded metadata
type FormData struct {
	Content  string
	Metadata string
}

// SendForm decodes the metadata field and sends
func (s *Session) SendForm(ctx context.Context, form FormData) (*domain.Message, error) {
	req := SendRequest{Content: form.Content}
	if strings.TrimSpace(form.Metadata) != "" {
		var meta domain.Metadata
		if err := json.Unmarshal([]byte(form.Metadata), &meta); err != nil {
			return nil, fmt.Errorf("%w: %v", ErrInvalidMetadata, err)
		}
		req.Attachments = meta.Attachments
		req.Mentions = meta.Mentions
	}
	return s.Send(ctx, req)
}

// Send appends an optimistic record, then persists it. On a rejected write the record
// is removed again and the error wraps ErrWriteFailed. The authoritative copy arrives
// through the change feed.
func (s *Session) Send(ctx context.Context, req SendRequest) (*domain.Message, error) {
	if !s.scope.Valid() {
		return nil, ErrMissingScope
	}
	text := strings.TrimSpace(req.Content)
	if text == "" && len(req.Attachments) == 0 {
		return nil, ErrEmptyMessage
	}

	id := s.newID()
	optimistic := domain.Message{
		ID:         id,
		ClientID:   id,
		TeamID:     s.scope.TeamID,
		ProjectID:  copyString(s.scope.ProjectID),
		SenderID:   s.me.UserID,
		Content:    domain.StringPtr(text),
		CreatedAt:  s.now(),
		Metadata:   domain.Metadata{Attachments: req.Attachments, Mentions: req.Mentions},
		ReadStatus: domain.ReadStatusSent,
		Pending:    true,
		IsMine:     true,
	}
	optimistic.WithSender(&s.me)

	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return nil, ErrSessionClosed
	}
	s.store.append(optimistic)
	s.notifyLocked()
	s.mu.Unlock()

	wire := optimistic
	saved, err := s.persister.InsertMessage(ctx, &wire)
	if err != nil {
		err = fmt.Errorf("%w: %w", ErrWriteFailed, err)

		s.mu.Lock()
		closed := s.closed
		if !closed && s.store.remove(id) {
			s.notifyLocked()
		}
		s.mu.Unlock()

		s.log.Warn("send rolled back", zap.String("client_id", id), zap.Error(err))
		if !closed && s.onSendError != nil {
			s.onSendError(err)
		}
		return nil, err
	}
	if saved == nil {
		saved = &wire
	}

	if len(req.Attachments) > 0 {
		if err := s.persister.InsertSharedItems(ctx, domain.SharedItemsFor(saved)); err != nil {
			s.log.Warn("link shared items", zap.String("message_id", saved.ID), zap.Error(err))
		}
	}
	return saved, nil
}

func copyString(p *string) *string {
	if p == nil {
		return nil
	}
	v := *p
	return &v
}
