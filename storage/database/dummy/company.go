package dummydb

import (
	"context"
	"time"

	"github.com/startupsl/backend/core"
	"github.com/startupsl/backend/core/company"
)

type companyRepository struct {
	db *companyTable
}

var _ company.Repository = (*companyRepository)(nil) // interface compliance check

func NewCompanyRepository(db *DB) company.Repository {
	return &companyRepository{db: db.company}
}

// query returns the companies that are not deleted.
func (repo *companyRepository) query() []company.Company {
	comps := make([]company.Company, 0, len(repo.db.table))
	for _, c := range repo.db.table {
		if !c.IsDeleted() {
			comps = append(comps, *c)
		}
	}
	return comps
}

func (repo *companyRepository) Create(_ context.Context, c company.Company) (company.Company, error) {
	repo.db.Lock()
	defer repo.db.Unlock()

	repo.db.table[c.ID] = &c
	return c, nil
}

func (repo *companyRepository) GetByID(_ context.Context, id string) (company.Company, error) {
	repo.db.RLock()
	defer repo.db.RUnlock()

	if c, ok := repo.db.table[id]; ok && !c.IsDeleted() {
		return *c, nil
	}
	return company.Company{}, company.ErrNotFound
}

func (repo *companyRepository) Query(_ context.Context, filter company.QueryFilter, ords []core.DBOrdering, page core.Pagination) ([]company.Company, int, error) {
	repo.db.RLock()
	defer repo.db.RUnlock()

	comps := make([]company.Company, 0)
	for _, c := range repo.query() {
		if filter.Search != "" && !containsFold(filter.Search, c.Name, c.Sector, c.Location) {
			continue
		}
		if filter.UserID != "" && c.UserID != filter.UserID {
			continue
		}
		if filter.Sector != "" && !equalFold(c.Sector, filter.Sector) {
			continue
		}
		if filter.Stage != "" && !equalFold(c.Stage, filter.Stage) {
			continue
		}
		if filter.Location != "" && !equalFold(c.Location, filter.Location) {
			continue
		}
		if filter.FundingStatus != "" && !equalFold(c.FundingStatus, filter.FundingStatus) {
			continue
		}
		if !filter.CreatedFrom.IsZero() && c.CreatedAt.Before(filter.CreatedFrom.UTC()) {
			continue
		}
		if !filter.CreatedTo.IsZero() && c.CreatedAt.After(filter.CreatedTo.UTC()) {
			continue
		}
		comps = append(comps, c)
	}

	sortBy(len(comps), func(i, j int) { comps[i], comps[j] = comps[j], comps[i] }, ords, func(i, j int, field string) int {
		a, b := comps[i], comps[j]
		switch field {
		case "_id":
			return compareStrings(a.ID, b.ID)
		case "name":
			return compareStrings(a.Name, b.Name)
		case "sector":
			return compareStrings(a.Sector, b.Sector)
		case "stage":
			return compareStrings(a.Stage, b.Stage)
		case "location":
			return compareStrings(a.Location, b.Location)
		case "createdAt":
			return compareTimes(a.CreatedAt, b.CreatedAt)
		case "updatedAt":
			return compareTimes(a.UpdatedAt, b.UpdatedAt)
		}
		return 0
	})

	start, end := page.Paginate(len(comps))
	return comps[start:end], len(comps), nil
}

func (repo *companyRepository) QueryAll(_ context.Context) ([]company.Company, error) {
	repo.db.RLock()
	defer repo.db.RUnlock()
	return repo.query(), nil
}

func (repo *companyRepository) Update(_ context.Context, c company.Company) (company.Company, error) {
	repo.db.Lock()
	defer repo.db.Unlock()

	if orig, ok := repo.db.table[c.ID]; !ok || orig.IsDeleted() {
		return company.Company{}, company.ErrNotFound
	}
	repo.db.table[c.ID] = &c
	return c, nil
}

func (repo *companyRepository) SoftDelete(_ context.Context, id string, at time.Time) error {
	repo.db.Lock()
	defer repo.db.Unlock()

	c, ok := repo.db.table[id]
	if !ok || c.IsDeleted() {
		return company.ErrNotFound
	}
	deleted := *c
	deleted.DeletedAt = &at
	repo.db.table[id] = &deleted
	return nil
}
