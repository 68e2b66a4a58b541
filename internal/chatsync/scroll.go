package chatsync

import "nexus_chat_service/internal/chat/domain"

// NearBottomThreshold pixels from the bottom that still count as "at the bottom"
const NearBottomThreshold = 100

// Viewport scroll geometry, in pixels
type Viewport struct {
	ScrollTop    float64
	ScrollHeight float64
	ClientHeight float64
}

// DistanceFromBottom pixels below the visible area
func (v Viewport) DistanceFromBottom() float64 {
	return v.ScrollHeight - v.ScrollTop - v.ClientHeight
}

// NearBottom within NearBottomThreshold of the bottom
func (v Viewport) NearBottom() bool {
	return v.DistanceFromBottom() <= NearBottomThreshold
}

// ShouldAutoScroll before is the viewport prior to the update; prevLast and nextLast are
// the last messages before and after it. Scroll when the reader was at the bottom or the
// newly appended last message is the local user's.
func ShouldAutoScroll(before Viewport, prevLast, nextLast *domain.Message, localUserID string) bool {
	if before.NearBottom() {
		return true
	}
	if nextLast == nil || (prevLast != nil && prevLast.ID == nextLast.ID) {
		return false
	}
	return nextLast.IsMine || nextLast.SenderID == localUserID
}
