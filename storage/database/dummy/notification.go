package dummydb

import (
	"context"

	"github.com/startupsl/backend/core/notification"
)

type notificationRepository struct {
	db *notificationTable
}

var _ notification.Repository = (*notificationRepository)(nil) // interface compliance check

func NewNotificationRepository(db *DB) notification.Repository {
	return &notificationRepository{db: db.notification}
}

func (repo *notificationRepository) Create(_ context.Context, n notification.Notification) (notification.Notification, error) {
	repo.db.Lock()
	defer repo.db.Unlock()

	repo.db.table[n.ID] = &n
	return n, nil
}

func (repo *notificationRepository) GetByID(_ context.Context, id string) (notification.Notification, error) {
	repo.db.RLock()
	defer repo.db.RUnlock()

	if n, ok := repo.db.table[id]; ok {
		return *n, nil
	}
	return notification.Notification{}, notification.ErrNotFound
}

func (repo *notificationRepository) ListForUser(_ context.Context, userID string) ([]notification.Notification, error) {
	repo.db.RLock()
	defer repo.db.RUnlock()

	ns := make([]notification.Notification, 0)
	for _, n := range repo.db.table {
		if n.ToUserID == userID {
			ns = append(ns, *n)
		}
	}
	return ns, nil
}

func (repo *notificationRepository) Update(_ context.Context, n notification.Notification) (notification.Notification, error) {
	repo.db.Lock()
	defer repo.db.Unlock()

	if _, ok := repo.db.table[n.ID]; !ok {
		return notification.Notification{}, notification.ErrNotFound
	}
	repo.db.table[n.ID] = &n
	return n, nil
}

func (repo *notificationRepository) MarkAllRead(_ context.Context, userID string) (int, error) {
	repo.db.Lock()
	defer repo.db.Unlock()

	var changed int
	for id, n := range repo.db.table {
		if n.ToUserID != userID {
			continue
		}
		updated := *n
		if notification.MarkRead(&updated) {
			repo.db.table[id] = &updated
			changed++
		}
	}
	return changed, nil
}
