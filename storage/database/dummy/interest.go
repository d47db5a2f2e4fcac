package dummydb

import (
	"context"

	"github.com/startupsl/backend/core"
	"github.com/startupsl/backend/core/interest"
)

type interestRepository struct {
	db *interestTable
}

var _ interest.Repository = (*interestRepository)(nil) // interface compliance check

func NewInterestRepository(db *DB) interest.Repository {
	return &interestRepository{db: db.interest}
}

func (repo *interestRepository) query() []interest.Interest {
	ints := make([]interest.Interest, 0, len(repo.db.table))
	for _, i := range repo.db.table {
		ints = append(ints, *i)
	}
	return ints
}

func (repo *interestRepository) Create(_ context.Context, i interest.Interest) (interest.Interest, error) {
	repo.db.Lock()
	defer repo.db.Unlock()

	repo.db.table[i.ID] = &i
	return i, nil
}

func (repo *interestRepository) GetByID(_ context.Context, id string) (interest.Interest, error) {
	repo.db.RLock()
	defer repo.db.RUnlock()

	if i, ok := repo.db.table[id]; ok {
		return *i, nil
	}
	return interest.Interest{}, interest.ErrNotFound
}

func (repo *interestRepository) Exists(_ context.Context, investorID, roundID string) (bool, error) {
	repo.db.RLock()
	defer repo.db.RUnlock()

	for _, i := range repo.db.table {
		if i.InvestorID == investorID && i.RoundID == roundID {
			return true, nil
		}
	}
	return false, nil
}

func (repo *interestRepository) Query(_ context.Context, filter interest.QueryFilter, ords []core.DBOrdering, page core.Pagination) ([]interest.Interest, int, error) {
	repo.db.RLock()
	defer repo.db.RUnlock()

	var companyIDs map[string]bool
	if filter.CompanyIDs != nil {
		companyIDs = make(map[string]bool, len(filter.CompanyIDs))
		for _, id := range filter.CompanyIDs {
			companyIDs[id] = true
		}
	}

	ints := make([]interest.Interest, 0)
	for _, i := range repo.query() {
		if filter.InvestorUserID != "" && i.InvestorUserID != filter.InvestorUserID {
			continue
		}
		if companyIDs != nil && !companyIDs[i.CompanyID] {
			continue
		}
		if filter.InvestorID != "" && i.InvestorID != filter.InvestorID {
			continue
		}
		if filter.RoundID != "" && i.RoundID != filter.RoundID {
			continue
		}
		if filter.Status != "" && string(i.Status) != filter.Status {
			continue
		}
		ints = append(ints, i)
	}

	sortBy(len(ints), func(i, j int) { ints[i], ints[j] = ints[j], ints[i] }, ords, func(i, j int, field string) int {
		a, b := ints[i], ints[j]
		switch field {
		case "_id":
			return compareStrings(a.ID, b.ID)
		case "status":
			return compareStrings(string(a.Status), string(b.Status))
		case "createdAt":
			return compareTimes(a.CreatedAt, b.CreatedAt)
		case "updatedAt":
			return compareTimes(a.UpdatedAt, b.UpdatedAt)
		}
		return 0
	})

	start, end := page.Paginate(len(ints))
	return ints[start:end], len(ints), nil
}

func (repo *interestRepository) QueryAll(_ context.Context) ([]interest.Interest, error) {
	repo.db.RLock()
	defer repo.db.RUnlock()
	return repo.query(), nil
}

func (repo *interestRepository) Update(_ context.Context, i interest.Interest) (interest.Interest, error) {
	repo.db.Lock()
	defer repo.db.Unlock()

	if _, ok := repo.db.table[i.ID]; !ok {
		return interest.Interest{}, interest.ErrNotFound
	}
	repo.db.table[i.ID] = &i
	return i, nil
}
