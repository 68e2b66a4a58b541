package domain

import "time"

// MentionQueueName rabbitmq queue for mention jobs
const MentionQueueName = "chat.mentions"

// MentionJob 被 @ 的使用者一人一筆
type MentionJob struct {
	MessageID   string    `json:"message_id"`
	TeamID      string    `json:"team_id"`
	ProjectID   *string   `json:"project_id,omitempty"`
	SenderID    string    `json:"sender_id"`
	MentionedID string    `json:"mentioned_id"`
	Preview     string    `json:"preview"`
	CreatedAt   time.Time `json:"created_at"`
}

// Notification per-user notification entry
type Notification struct {
	ID        string    `json:"id"`
	UserID    string    `json:"user_id"`
	Kind      string    `json:"kind"`
	MessageID string    `json:"message_id"`
	TeamID    string    `json:"team_id"`
	ProjectID *string   `json:"project_id,omitempty"`
	SenderID  string    `json:"sender_id"`
	Preview   string    `json:"preview"`
	CreatedAt time.Time `json:"created_at"`
}
