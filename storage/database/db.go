package database

import (
	"context"
	"time"

	"github.com/pkg/errors"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/startupsl/backend/core"
)

// Collection names.
const (
	Companies     = "companies"
	Investors     = "investors"
	Rounds        = "rounds"
	Interests     = "investor_interests"
	Notifications = "notifications"
)

// Open connects to the configured MongoDB deployment and waits until it answers.
func Open(ctx context.Context, conf *core.Config) (*mongo.Client, *mongo.Database, error) {
	opts := options.Client().
		ApplyURI(conf.Database.URI).
		SetAppName(conf.AppName).
		SetConnectTimeout(conf.Database.Timeout)
	client, err := mongo.Connect(ctx, opts)
	if err != nil {
		return nil, nil, errors.Wrap(err, "connecting to database")
	}
	if err = ping(ctx, client); err != nil {
		_ = client.Disconnect(context.Background())
		return nil, nil, err
	}
	return client, client.Database(conf.Database.Name), nil
}

// ping waits for the database to be ready. Waits 100ms longer between each attempt.
func ping(ctx context.Context, client *mongo.Client) error {
	var err error
	maxAttempts := 30
	for attempts := 1; attempts <= maxAttempts; attempts++ {
		err = client.Ping(ctx, nil)
		if err == nil {
			break
		}
		select {
		case <-ctx.Done():
			return errors.Wrap(ctx.Err(), "DB ping")
		case <-time.After(time.Duration(attempts) * 100 * time.Millisecond):
		}
	}

	if err != nil {
		return errors.Wrap(err, "DB ping timeout")
	}
	return nil
}

// EnsureIndexes creates the indexes the repositories rely on. It is idempotent.
func EnsureIndexes(ctx context.Context, db *mongo.Database) error {
	indexes := map[string][]mongo.IndexModel{
		Companies: {
			{Keys: bson.D{{Key: "userId", Value: 1}}},
			{Keys: bson.D{{Key: "sector", Value: 1}}},
			{Keys: bson.D{{Key: "createdAt", Value: -1}}},
		},
		Investors: {
			{Keys: bson.D{{Key: "userId", Value: 1}}, Options: options.Index().SetUnique(true)},
			{Keys: bson.D{{Key: "status", Value: 1}}},
		},
		Rounds: {
			{Keys: bson.D{{Key: "companyId", Value: 1}}},
			{Keys: bson.D{{Key: "roundStatus", Value: 1}}},
		},
		Interests: {
			{Keys: bson.D{{Key: "investorId", Value: 1}, {Key: "roundId", Value: 1}}, Options: options.Index().SetUnique(true)},
			{Keys: bson.D{{Key: "companyId", Value: 1}}},
			{Keys: bson.D{{Key: "investorUserId", Value: 1}}},
		},
		Notifications: {
			{Keys: bson.D{{Key: "toUserId", Value: 1}, {Key: "createdAt", Value: -1}}},
		},
	}
	for coll, models := range indexes {
		if _, err := db.Collection(coll).Indexes().CreateMany(ctx, models); err != nil {
			return errors.Wrapf(err, "creating %s indexes", coll)
		}
	}
	return nil
}
