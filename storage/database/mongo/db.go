// Package mongodb implements the repositories on MongoDB.
package mongodb

import (
	"context"
	"regexp"

	"github.com/pkg/errors"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/startupsl/backend/core"
)

// sortDoc turns orderings into a sort document, with _id as the final tie-breaker.
func sortDoc(ords []core.DBOrdering) bson.D {
	doc := make(bson.D, 0, len(ords)+1)
	for _, ord := range ords {
		doc = append(doc, bson.E{Key: ord.Field, Value: ord.Direction()})
	}
	return append(doc, bson.E{Key: "_id", Value: 1})
}

func findOptions(ords []core.DBOrdering, page core.Pagination) *options.FindOptions {
	opts := options.Find().SetSort(sortDoc(ords))
	if page.PageSize > 0 {
		opts.SetSkip(int64(page.Offset())).SetLimit(int64(page.PageSize))
	}
	return opts
}

// containsFold matches values containing s, case-insensitively.
func containsFold(s string) bson.M {
	return bson.M{"$regex": regexp.QuoteMeta(s), "$options": "i"}
}

// equalFold matches values equal to s, case-insensitively.
func equalFold(s string) bson.M {
	return bson.M{"$regex": "^" + regexp.QuoteMeta(s) + "$", "$options": "i"}
}

// searchAny matches documents where any of fields contains s.
func searchAny(s string, fields ...string) bson.A {
	or := make(bson.A, 0, len(fields))
	for _, f := range fields {
		or = append(or, bson.M{f: containsFold(s)})
	}
	return or
}

// findPage runs filter and decodes the requested page into results (a pointer to a slice), returning the total count.
func findPage(ctx context.Context, coll *mongo.Collection, filter bson.M, ords []core.DBOrdering, page core.Pagination, results interface{}) (int, error) {
	total, err := coll.CountDocuments(ctx, filter)
	if err != nil {
		return 0, errors.Wrapf(err, "counting %s", coll.Name())
	}
	cur, err := coll.Find(ctx, filter, findOptions(ords, page))
	if err != nil {
		return 0, errors.Wrapf(err, "querying %s", coll.Name())
	}
	if err = cur.All(ctx, results); err != nil {
		return 0, errors.Wrapf(err, "decoding %s", coll.Name())
	}
	return int(total), nil
}

// findAll decodes every document matching filter into results (a pointer to a slice).
func findAll(ctx context.Context, coll *mongo.Collection, filter bson.M, results interface{}) error {
	cur, err := coll.Find(ctx, filter)
	if err != nil {
		return errors.Wrapf(err, "querying %s", coll.Name())
	}
	return errors.Wrapf(cur.All(ctx, results), "decoding %s", coll.Name())
}

// findOne decodes the document matching filter into result, returning notFound when there is none.
func findOne(ctx context.Context, coll *mongo.Collection, filter bson.M, result interface{}, notFound error) error {
	err := coll.FindOne(ctx, filter).Decode(result)
	if err == mongo.ErrNoDocuments {
		return notFound
	}
	return errors.Wrapf(err, "loading %s", coll.Name())
}

// replace overwrites the document with the given id, returning notFound when there is none.
func replace(ctx context.Context, coll *mongo.Collection, filter bson.M, doc interface{}, notFound error) error {
	res, err := coll.ReplaceOne(ctx, filter, doc)
	if err != nil {
		return errors.Wrapf(err, "updating %s", coll.Name())
	}
	if res.MatchedCount == 0 {
		return notFound
	}
	return nil
}
