package mongodb

import (
	"context"

	"github.com/pkg/errors"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/startupsl/backend/core"
	"github.com/startupsl/backend/core/round"
	"github.com/startupsl/backend/storage/database"
)

type roundRepository struct {
	coll *mongo.Collection
}

var _ round.Repository = (*roundRepository)(nil) // interface compliance check

func NewRoundRepository(db *mongo.Database) round.Repository {
	return &roundRepository{coll: db.Collection(database.Rounds)}
}

func (repo *roundRepository) Create(ctx context.Context, r round.Round) (round.Round, error) {
	if _, err := repo.coll.InsertOne(ctx, r); err != nil {
		return round.Round{}, errors.Wrap(err, "inserting round")
	}
	return r, nil
}

func (repo *roundRepository) GetByID(ctx context.Context, id string) (round.Round, error) {
	var r round.Round
	err := findOne(ctx, repo.coll, bson.M{"_id": id}, &r, round.ErrNotFound)
	return r, err
}

func (repo *roundRepository) Query(ctx context.Context, qf round.QueryFilter, ords []core.DBOrdering, page core.Pagination) ([]round.Round, int, error) {
	filter := bson.M{}
	if qf.Search != "" {
		filter["$or"] = searchAny(qf.Search, "name", "stage")
	}
	if qf.CompanyID != "" {
		filter["companyId"] = qf.CompanyID
	}
	if qf.Status != "" {
		filter["roundStatus"] = qf.Status
	}
	if qf.Stage != "" {
		filter["stage"] = equalFold(qf.Stage)
	}

	rnds := make([]round.Round, 0)
	total, err := findPage(ctx, repo.coll, filter, ords, page, &rnds)
	return rnds, total, err
}

func (repo *roundRepository) QueryAll(ctx context.Context) ([]round.Round, error) {
	rnds := make([]round.Round, 0)
	err := findAll(ctx, repo.coll, bson.M{}, &rnds)
	return rnds, err
}

func (repo *roundRepository) Update(ctx context.Context, r round.Round) (round.Round, error) {
	err := replace(ctx, repo.coll, bson.M{"_id": r.ID}, r, round.ErrNotFound)
	return r, err
}

func (repo *roundRepository) Delete(ctx context.Context, id string) error {
	res, err := repo.coll.DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		return errors.Wrap(err, "deleting round")
	}
	if res.DeletedCount == 0 {
		return round.ErrNotFound
	}
	return nil
}
