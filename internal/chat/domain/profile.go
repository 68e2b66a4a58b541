package domain

import "time"

// Profile sender display profile
type Profile struct {
	UserID string `json:"user_id"`
	Name   string `json:"name"`
	Avatar string `json:"avatar,omitempty"`
	Email  string `json:"email,omitempty"`
}

// SharedItem 訊息附件在 shared_items 的連結紀錄
type SharedItem struct {
	ID          uint      `gorm:"primaryKey" json:"id"`
	MessageID   string    `gorm:"index;not null" json:"message_id"`
	TeamID      string    `gorm:"index;not null" json:"team_id"`
	ProjectID   *string   `json:"project_id,omitempty"`
	SharedBy    string    `gorm:"not null" json:"shared_by"`
	ItemType    string    `gorm:"not null;default:attachment" json:"item_type"`
	Name        string    `json:"name"`
	URL         string    `json:"url"`
	ContentType string    `json:"content_type,omitempty"`
	CreatedAt   time.Time `json:"created_at"`
}

// SharedItemsFor build attachment links for a message
func SharedItemsFor(m *Message) []SharedItem {
	items := make([]SharedItem, 0, len(m.Metadata.Attachments))
	for _, a := range m.Metadata.Attachments {
		items = append(items, SharedItem{
			MessageID:   m.ID,
			TeamID:      m.TeamID,
			ProjectID:   m.ProjectID,
			SharedBy:    m.SenderID,
			ItemType:    "attachment",
			Name:        a.Name,
			URL:         a.URL,
			ContentType: a.ContentType,
		})
	}
	return items
}
