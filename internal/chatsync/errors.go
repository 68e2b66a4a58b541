package chatsync

import "errors"

var (
	// ErrEmptyMessage send with neither text nor attachment
	ErrEmptyMessage = errors.New("chatsync: message needs text or an attachment")
	// ErrMissingScope session or send without a team
	ErrMissingScope = errors.New("chatsync: conversation scope has no team")
	// ErrInvalidMetadata form metadata is not valid JSON
	ErrInvalidMetadata = errors.New("chatsync: invalid message metadata")
	// ErrWriteFailed remote persist rejected the message; the optimistic record was rolled back
	ErrWriteFailed = errors.New("chatsync: remote write failed")
	// ErrSessionClosed session already torn down
	ErrSessionClosed = errors.New("chatsync: session closed")
)

// IsValidation reports whether err was rejected before any state change
func IsValidation(err error) bool {
	return errors.Is(err, ErrEmptyMessage) || errors.Is(err, ErrMissingScope) || errors.Is(err, ErrInvalidMetadata)
}
