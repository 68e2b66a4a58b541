package main

import (
	"fmt"
	"io"
	"strings"

	"nexus_chat_service/internal/chatsync"
)

// view 終端只能 append, 已印過的訊息只在內容變動時補一行
type view struct {
	w       io.Writer
	status  chatsync.Status
	printed map[string]string
}

func newView(w io.Writer) *view {
	return &view{w: w, printed: map[string]string{}}
}

func (v *view) render(status chatsync.Status, msgs []chatsync.RenderedMessage) {
	if status != v.status {
		fmt.Fprintf(v.w, "-- %s --\n", status)
		v.status = status
	}

	for _, m := range msgs {
		if m.Pending {
			continue
		}
		text := m.Text()
		prev, seen := v.printed[m.ID]
		switch {
		case !seen:
			if m.DaySeparator != "" {
				fmt.Fprintf(v.w, "\n=== %s ===\n", m.DaySeparator)
			}
			if !m.IsConsecutive {
				fmt.Fprintf(v.w, "%s  %s\n", sender(m), m.CreatedAt.Local().Format("15:04"))
			}
			fmt.Fprintf(v.w, "  %s%s\n", text, attachments(m))
		case prev != text:
			fmt.Fprintf(v.w, "  (edited) %s\n", text)
		}
		v.printed[m.ID] = text
	}
}

func sender(m chatsync.RenderedMessage) string {
	switch {
	case m.IsMine:
		return "me"
	case m.SenderName != "":
		return m.SenderName
	default:
		return m.SenderID
	}
}

func attachments(m chatsync.RenderedMessage) string {
	if !m.HasAttachments() {
		return ""
	}
	names := make([]string, 0, len(m.Metadata.Attachments))
	for _, a := range m.Metadata.Attachments {
		names = append(names, a.Name)
	}
	return " [" + strings.Join(names, ", ") + "]"
}
