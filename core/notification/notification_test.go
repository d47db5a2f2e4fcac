package notification

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestUnreadCount(t *testing.T) {
	tests := []struct {
		name string
		ns   []Notification
		want int
	}{
		{name: "nil", ns: nil, want: 0},
		{name: "all read", ns: []Notification{{IsRead: true}, {IsRead: true}}, want: 0},
		{name: "mixed", ns: []Notification{{IsRead: true}, {}, {}}, want: 2},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, UnreadCount(tt.ns))
		})
	}
}

func TestMarkRead(t *testing.T) {
	n := Notification{ID: "n1"}

	assert.True(t, MarkRead(&n))
	assert.True(t, n.IsRead)

	// idempotent
	assert.False(t, MarkRead(&n))
	assert.True(t, n.IsRead)
}

func TestSortNewestFirst(t *testing.T) {
	base := time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)
	ns := []Notification{
		{ID: "old", CreatedAt: base.Add(-time.Hour), IsRead: false},
		{ID: "tie-1", CreatedAt: base, IsRead: true},
		{ID: "new", CreatedAt: base.Add(time.Hour), IsRead: true},
		{ID: "tie-2", CreatedAt: base, IsRead: false},
	}

	SortNewestFirst(ns)

	ids := make([]string, 0, len(ns))
	for _, n := range ns {
		ids = append(ids, n.ID)
	}
	// read state does not influence ordering and ties keep their order
	assert.Equal(t, []string{"new", "tie-1", "tie-2", "old"}, ids)
	assert.Equal(t, 2, UnreadCount(ns))
}
