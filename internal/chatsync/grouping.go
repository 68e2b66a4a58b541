package chatsync

import (
	"time"

	"nexus_chat_service/internal/chat/domain"
)

// ConsecutiveWindow same-sender messages closer than this collapse into one group
const ConsecutiveWindow = 5 * time.Minute

// DateLayout day separator label for days before yesterday
const DateLayout = "Monday, January 2, 2006"

// RenderedMessage message plus grouping hints
type RenderedMessage struct {
	domain.Message
	IsConsecutive bool
	// DaySeparator label shown before this message, empty when none
	DaySeparator string
}

// Project is a pure function of msgs and now; calendar days use now's location.
func Project(msgs []domain.Message, now time.Time) []RenderedMessage {
	loc := now.Location()
	out := make([]RenderedMessage, len(msgs))
	for i := range msgs {
		out[i].Message = msgs[i]
		if i == 0 {
			out[i].DaySeparator = DayLabel(msgs[i].CreatedAt, now)
			continue
		}

		prev := &msgs[i-1]
		out[i].IsConsecutive = msgs[i].SenderID == prev.SenderID &&
			msgs[i].CreatedAt.Sub(prev.CreatedAt) < ConsecutiveWindow
		if !sameDay(msgs[i].CreatedAt, prev.CreatedAt, loc) {
			out[i].DaySeparator = DayLabel(msgs[i].CreatedAt, now)
		}
	}
	return out
}

// DayLabel "Today", "Yesterday" or the full date, relative to now
func DayLabel(t, now time.Time) string {
	loc := now.Location()
	switch {
	case sameDay(t, now, loc):
		return "Today"
	case sameDay(t, now.AddDate(0, 0, -1), loc):
		return "Yesterday"
	default:
		return t.In(loc).Format(DateLayout)
	}
}

func sameDay(a, b time.Time, loc *time.Location) bool {
	ay, am, ad := a.In(loc).Date()
	by, bm, bd := b.In(loc).Date()
	return ay == by && am == bm && ad == bd
}
