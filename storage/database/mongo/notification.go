package mongodb

import (
	"context"

	"github.com/pkg/errors"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/startupsl/backend/core/notification"
	"github.com/startupsl/backend/storage/database"
)

type notificationRepository struct {
	coll *mongo.Collection
}

var _ notification.Repository = (*notificationRepository)(nil) // interface compliance check

func NewNotificationRepository(db *mongo.Database) notification.Repository {
	return &notificationRepository{coll: db.Collection(database.Notifications)}
}

func (repo *notificationRepository) Create(ctx context.Context, n notification.Notification) (notification.Notification, error) {
	if _, err := repo.coll.InsertOne(ctx, n); err != nil {
		return notification.Notification{}, errors.Wrap(err, "inserting notification")
	}
	return n, nil
}

func (repo *notificationRepository) GetByID(ctx context.Context, id string) (notification.Notification, error) {
	var n notification.Notification
	err := findOne(ctx, repo.coll, bson.M{"_id": id}, &n, notification.ErrNotFound)
	return n, err
}

func (repo *notificationRepository) ListForUser(ctx context.Context, userID string) ([]notification.Notification, error) {
	cur, err := repo.coll.Find(ctx, bson.M{"toUserId": userID}, options.Find().SetSort(bson.D{{Key: "createdAt", Value: -1}}))
	if err != nil {
		return nil, errors.Wrap(err, "querying notifications")
	}
	ns := make([]notification.Notification, 0)
	if err = cur.All(ctx, &ns); err != nil {
		return nil, errors.Wrap(err, "decoding notifications")
	}
	return ns, nil
}

func (repo *notificationRepository) Update(ctx context.Context, n notification.Notification) (notification.Notification, error) {
	err := replace(ctx, repo.coll, bson.M{"_id": n.ID}, n, notification.ErrNotFound)
	return n, err
}

func (repo *notificationRepository) MarkAllRead(ctx context.Context, userID string) (int, error) {
	res, err := repo.coll.UpdateMany(ctx,
		bson.M{"toUserId": userID, "isRead": false},
		bson.M{"$set": bson.M{"isRead": true}},
	)
	if err != nil {
		return 0, errors.Wrap(err, "marking notifications read")
	}
	return int(res.ModifiedCount), nil
}
