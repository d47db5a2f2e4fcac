package mongodb

import (
	"context"

	"github.com/pkg/errors"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/startupsl/backend/core"
	"github.com/startupsl/backend/core/interest"
	"github.com/startupsl/backend/storage/database"
)

type interestRepository struct {
	coll *mongo.Collection
}

var _ interest.Repository = (*interestRepository)(nil) // interface compliance check

func NewInterestRepository(db *mongo.Database) interest.Repository {
	return &interestRepository{coll: db.Collection(database.Interests)}
}

func (repo *interestRepository) Create(ctx context.Context, i interest.Interest) (interest.Interest, error) {
	if _, err := repo.coll.InsertOne(ctx, i); err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return interest.Interest{}, core.NewValidationError(interest.ErrAlreadyExists,
				core.FieldError{Field: "round", Error: interest.ErrAlreadyExists.Error()})
		}
		return interest.Interest{}, errors.Wrap(err, "inserting interest")
	}
	return i, nil
}

func (repo *interestRepository) GetByID(ctx context.Context, id string) (interest.Interest, error) {
	var i interest.Interest
	err := findOne(ctx, repo.coll, bson.M{"_id": id}, &i, interest.ErrNotFound)
	return i, err
}

func (repo *interestRepository) Exists(ctx context.Context, investorID, roundID string) (bool, error) {
	n, err := repo.coll.CountDocuments(ctx, bson.M{"investorId": investorID, "roundId": roundID})
	if err != nil {
		return false, errors.Wrap(err, "counting interests")
	}
	return n > 0, nil
}

func (repo *interestRepository) Query(ctx context.Context, qf interest.QueryFilter, ords []core.DBOrdering, page core.Pagination) ([]interest.Interest, int, error) {
	filter := bson.M{}
	if qf.InvestorUserID != "" {
		filter["investorUserId"] = qf.InvestorUserID
	}
	if qf.CompanyIDs != nil {
		filter["companyId"] = bson.M{"$in": qf.CompanyIDs}
	}
	if qf.InvestorID != "" {
		filter["investorId"] = qf.InvestorID
	}
	if qf.RoundID != "" {
		filter["roundId"] = qf.RoundID
	}
	if qf.Status != "" {
		filter["status"] = qf.Status
	}

	ints := make([]interest.Interest, 0)
	total, err := findPage(ctx, repo.coll, filter, ords, page, &ints)
	return ints, total, err
}

func (repo *interestRepository) QueryAll(ctx context.Context) ([]interest.Interest, error) {
	ints := make([]interest.Interest, 0)
	err := findAll(ctx, repo.coll, bson.M{}, &ints)
	return ints, err
}

func (repo *interestRepository) Update(ctx context.Context, i interest.Interest) (interest.Interest, error) {
	err := replace(ctx, repo.coll, bson.M{"_id": i.ID}, i, interest.ErrNotFound)
	return i, err
}
