package domain

// Action websocket frame action
type Action string

const (
	// Subscribe client → server, start receiving a team's change events
	Subscribe Action = "subscribe"
	// Unsubscribe client → server
	Unsubscribe Action = "unsubscribe"
	// Ping client → server application ping
	Ping Action = "ping"

	// Subscribed server → client, subscription confirmed
	Subscribed Action = "subscribed"
	// Change server → client, one change event
	Change Action = "change"
	// Closed server → client, subscription ended
	Closed Action = "closed"
	// Error server → client
	Error Action = "error"
	// Pong server → client
	Pong Action = "pong"
)

// WSRequest websocket Request
type WSRequest struct {
	Action Action `json:"action"`
	TeamID string `json:"team_id,omitempty"`
}

// WSResponse websocket Response
type WSResponse struct {
	Action  Action       `json:"action"`
	Success bool         `json:"success"`
	TeamID  string       `json:"team_id,omitempty"`
	Event   *ChangeEvent `json:"event,omitempty"`
	Error   string       `json:"error,omitempty"`
}
