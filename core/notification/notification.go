// Package notification tracks the notifications sent to users and their read state.
// A notification only ever moves from unread to read.
package notification

import (
	"sort"
	"time"
)

type Notification struct {
	ID         string    `json:"id" bson:"_id"`
	FromUserID string    `json:"from_user_id" bson:"fromUserId"`
	ToUserID   string    `json:"to_user_id" bson:"toUserId"`
	Title      string    `json:"title" bson:"title"`
	Desc       string    `json:"desc" bson:"desc"`
	URL        string    `json:"url" bson:"url"`
	IsRead     bool      `json:"is_read" bson:"isRead"`
	CreatedAt  time.Time `json:"created_at" bson:"createdAt"` // UTC
}

// UnreadCount returns the number of unread notifications in ns.
func UnreadCount(ns []Notification) int {
	var n int
	for _, notif := range ns {
		if !notif.IsRead {
			n++
		}
	}
	return n
}

// MarkRead marks n as read and reports whether its state changed.
func MarkRead(n *Notification) bool {
	if n.IsRead {
		return false
	}
	n.IsRead = true
	return true
}

// SortNewestFirst orders ns by creation time, newest first. Equal timestamps keep their relative order.
func SortNewestFirst(ns []Notification) {
	sort.SliceStable(ns, func(i, j int) bool { return ns[i].CreatedAt.After(ns[j].CreatedAt) })
}
