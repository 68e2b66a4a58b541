package domain

import "time"

// EventType change feed event type
type EventType string

const (
	// EventInsert row inserted
	EventInsert EventType = "INSERT"
	// EventUpdate row updated
	EventUpdate EventType = "UPDATE"
	// EventDelete row deleted
	EventDelete EventType = "DELETE"
)

// ChangeEvent 一筆 change feed 通知
type ChangeEvent struct {
	Type            EventType `json:"type"`
	Table           string    `json:"table"`
	TeamID          string    `json:"team_id"`
	New             *Message  `json:"new,omitempty"`
	Old             *Message  `json:"old,omitempty"`
	CommitTimestamp time.Time `json:"commit_timestamp"`
}

// Record new record, falls back to old (delete)
func (e ChangeEvent) Record() *Message {
	if e.New != nil {
		return e.New
	}
	return e.Old
}

// TeamChannel redis pub/sub channel for a team
func TeamChannel(teamID string) string {
	return "chat:team:" + teamID
}

// UserChannel redis pub/sub channel for one user
func UserChannel(userID string) string {
	return "chat:user:" + userID
}
