package mongodb

import (
	"context"
	"time"

	"github.com/pkg/errors"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/startupsl/backend/core"
	"github.com/startupsl/backend/core/company"
	"github.com/startupsl/backend/storage/database"
)

type companyRepository struct {
	coll *mongo.Collection
}

var _ company.Repository = (*companyRepository)(nil) // interface compliance check

func NewCompanyRepository(db *mongo.Database) company.Repository {
	return &companyRepository{coll: db.Collection(database.Companies)}
}

var notDeleted = bson.M{"$exists": false}

func (repo *companyRepository) Create(ctx context.Context, c company.Company) (company.Company, error) {
	if _, err := repo.coll.InsertOne(ctx, c); err != nil {
		return company.Company{}, errors.Wrap(err, "inserting company")
	}
	return c, nil
}

func (repo *companyRepository) GetByID(ctx context.Context, id string) (company.Company, error) {
	var c company.Company
	err := findOne(ctx, repo.coll, bson.M{"_id": id, "deletedAt": notDeleted}, &c, company.ErrNotFound)
	return c, err
}

func (repo *companyRepository) filter(qf company.QueryFilter) bson.M {
	filter := bson.M{"deletedAt": notDeleted}
	if qf.Search != "" {
		filter["$or"] = searchAny(qf.Search, "name", "sector", "location")
	}
	if qf.UserID != "" {
		filter["userId"] = qf.UserID
	}
	if qf.Sector != "" {
		filter["sector"] = equalFold(qf.Sector)
	}
	if qf.Stage != "" {
		filter["stage"] = equalFold(qf.Stage)
	}
	if qf.Location != "" {
		filter["location"] = equalFold(qf.Location)
	}
	if qf.FundingStatus != "" {
		filter["fundingStatus"] = equalFold(qf.FundingStatus)
	}
	created := bson.M{}
	if !qf.CreatedFrom.IsZero() {
		created["$gte"] = qf.CreatedFrom.UTC()
	}
	if !qf.CreatedTo.IsZero() {
		created["$lte"] = qf.CreatedTo.UTC()
	}
	if len(created) > 0 {
		filter["createdAt"] = created
	}
	return filter
}

func (repo *companyRepository) Query(ctx context.Context, qf company.QueryFilter, ords []core.DBOrdering, page core.Pagination) ([]company.Company, int, error) {
	comps := make([]company.Company, 0)
	total, err := findPage(ctx, repo.coll, repo.filter(qf), ords, page, &comps)
	return comps, total, err
}

func (repo *companyRepository) QueryAll(ctx context.Context) ([]company.Company, error) {
	comps := make([]company.Company, 0)
	err := findAll(ctx, repo.coll, bson.M{"deletedAt": notDeleted}, &comps)
	return comps, err
}

func (repo *companyRepository) Update(ctx context.Context, c company.Company) (company.Company, error) {
	err := replace(ctx, repo.coll, bson.M{"_id": c.ID, "deletedAt": notDeleted}, c, company.ErrNotFound)
	return c, err
}

func (repo *companyRepository) SoftDelete(ctx context.Context, id string, at time.Time) error {
	res, err := repo.coll.UpdateOne(ctx,
		bson.M{"_id": id, "deletedAt": notDeleted},
		bson.M{"$set": bson.M{"deletedAt": at.UTC()}},
	)
	if err != nil {
		return errors.Wrap(err, "deleting company")
	}
	if res.MatchedCount == 0 {
		return company.ErrNotFound
	}
	return nil
}
