package mongodb

import (
	"context"

	"github.com/pkg/errors"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/startupsl/backend/core"
	"github.com/startupsl/backend/core/investor"
	"github.com/startupsl/backend/storage/database"
)

type investorRepository struct {
	coll *mongo.Collection
}

var _ investor.Repository = (*investorRepository)(nil) // interface compliance check

func NewInvestorRepository(db *mongo.Database) investor.Repository {
	return &investorRepository{coll: db.Collection(database.Investors)}
}

func (repo *investorRepository) Create(ctx context.Context, inv investor.Investor) (investor.Investor, error) {
	if _, err := repo.coll.InsertOne(ctx, inv); err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return investor.Investor{}, core.NewValidationError(investor.ErrProfileExists,
				core.FieldError{Field: "user_id", Error: investor.ErrProfileExists.Error()})
		}
		return investor.Investor{}, errors.Wrap(err, "inserting investor")
	}
	return inv, nil
}

func (repo *investorRepository) GetByID(ctx context.Context, id string) (investor.Investor, error) {
	var inv investor.Investor
	err := findOne(ctx, repo.coll, bson.M{"_id": id}, &inv, investor.ErrNotFound)
	return inv, err
}

func (repo *investorRepository) GetByUserID(ctx context.Context, userID string) (investor.Investor, error) {
	var inv investor.Investor
	err := findOne(ctx, repo.coll, bson.M{"userId": userID}, &inv, investor.ErrNotFound)
	return inv, err
}

func (repo *investorRepository) Query(ctx context.Context, qf investor.QueryFilter, ords []core.DBOrdering, page core.Pagination) ([]investor.Investor, int, error) {
	filter := bson.M{}
	if qf.Search != "" {
		filter["$or"] = searchAny(qf.Search, "name", "email", "organization")
	}
	if qf.Status != "" {
		filter["status"] = qf.Status
	}
	if qf.Sector != "" {
		filter["sectorInterested"] = equalFold(qf.Sector)
	}

	invs := make([]investor.Investor, 0)
	total, err := findPage(ctx, repo.coll, filter, ords, page, &invs)
	return invs, total, err
}

func (repo *investorRepository) Update(ctx context.Context, inv investor.Investor) (investor.Investor, error) {
	err := replace(ctx, repo.coll, bson.M{"_id": inv.ID}, inv, investor.ErrNotFound)
	return inv, err
}
