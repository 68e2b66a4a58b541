package domain

import (
	"strings"
	"time"
)

// MessageCollection mongo collection for team chat
const MessageCollection = "team_messages"

// ReadStatus client 推斷的讀取狀態，server 不強制
type ReadStatus string

const (
	// ReadStatusSent optimistic message, not yet confirmed
	ReadStatusSent ReadStatus = "sent"
	// ReadStatusDelivered persisted by the server
	ReadStatusDelivered ReadStatus = "delivered"
	// ReadStatusRead seen by a peer
	ReadStatusRead ReadStatus = "read"
)

// Attachment 上傳到 object storage 的附件
type Attachment struct {
	Name        string `bson:"name" json:"name"`
	URL         string `bson:"url" json:"url"`
	ObjectKey   string `bson:"object_key,omitempty" json:"object_key,omitempty"`
	ContentType string `bson:"content_type,omitempty" json:"content_type,omitempty"`
	Size        int64  `bson:"size,omitempty" json:"size,omitempty"`
}

// Metadata free-form message metadata
type Metadata struct {
	Attachments []Attachment `bson:"attachments,omitempty" json:"attachments,omitempty"`
	Edited      bool         `bson:"edited,omitempty" json:"edited,omitempty"`
	Mentions    []string     `bson:"mentions,omitempty" json:"mentions,omitempty"`
}

// Message 一則團隊聊天訊息
type Message struct {
	ID         string     `bson:"_id" json:"id"`
	ClientID   string     `bson:"client_id,omitempty" json:"client_id,omitempty"` // 送出端的 optimistic id, server 原樣保存並在 change event 帶回
	TeamID     string     `bson:"team_id" json:"team_id"`
	ProjectID  *string    `bson:"project_id" json:"project_id"`
	SenderID   string     `bson:"sender_id" json:"sender_id"`
	Content    *string    `bson:"content" json:"content"`
	CreatedAt  time.Time  `bson:"created_at" json:"created_at"`
	Metadata   Metadata   `bson:"metadata" json:"metadata"`
	ReadStatus ReadStatus `bson:"read_status" json:"read_status"`

	// display fields, filled at render time
	SenderName   string `bson:"-" json:"sender_name,omitempty"`
	SenderAvatar string `bson:"-" json:"sender_avatar,omitempty"`
	SenderEmail  string `bson:"-" json:"sender_email,omitempty"`

	// client-only flags
	Pending bool `bson:"-" json:"-"`
	IsMine  bool `bson:"-" json:"-"`
}

// Text content or empty string
func (m *Message) Text() string {
	if m.Content == nil {
		return ""
	}
	return *m.Content
}

// Scope conversation scope of the message
func (m *Message) Scope() Scope {
	return Scope{TeamID: m.TeamID, ProjectID: m.ProjectID}
}

// HasAttachments message carries at least one attachment
func (m *Message) HasAttachments() bool {
	return len(m.Metadata.Attachments) > 0
}

// WithSender fill display fields from profile
func (m *Message) WithSender(p *Profile) {
	if p == nil {
		return
	}
	m.SenderName = p.Name
	m.SenderAvatar = p.Avatar
	m.SenderEmail = p.Email
}

// StringPtr nil when s is blank
func StringPtr(s string) *string {
	if strings.TrimSpace(s) == "" {
		return nil
	}
	return &s
}

// SendMessageRequest POST /messages body
type SendMessageRequest struct {
	ClientID  string   `json:"client_id,omitempty"`
	TeamID    string   `json:"team_id"`
	ProjectID *string  `json:"project_id,omitempty"`
	Content   *string  `json:"content,omitempty"`
	Metadata  Metadata `json:"metadata"`
}

// EditMessageRequest PATCH /messages/:id body
type EditMessageRequest struct {
	Content string `json:"content"`
}
