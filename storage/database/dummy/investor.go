package dummydb

import (
	"context"

	"github.com/startupsl/backend/core"
	"github.com/startupsl/backend/core/investor"
)

type investorRepository struct {
	db *investorTable
}

var _ investor.Repository = (*investorRepository)(nil) // interface compliance check

func NewInvestorRepository(db *DB) investor.Repository {
	return &investorRepository{db: db.investor}
}

func (repo *investorRepository) query() []investor.Investor {
	invs := make([]investor.Investor, 0, len(repo.db.table))
	for _, inv := range repo.db.table {
		invs = append(invs, copyInvestor(*inv))
	}
	return invs
}

// copyInvestor detaches the slices so stored records cannot be mutated by callers.
func copyInvestor(inv investor.Investor) investor.Investor {
	inv.SectorInterested = append([]string(nil), inv.SectorInterested...)
	inv.StatusHistory = append([]investor.StatusEvent{}, inv.StatusHistory...)
	return inv
}

func (repo *investorRepository) Create(_ context.Context, inv investor.Investor) (investor.Investor, error) {
	repo.db.Lock()
	defer repo.db.Unlock()

	stored := copyInvestor(inv)
	repo.db.table[inv.ID] = &stored
	return inv, nil
}

func (repo *investorRepository) GetByID(_ context.Context, id string) (investor.Investor, error) {
	repo.db.RLock()
	defer repo.db.RUnlock()

	if inv, ok := repo.db.table[id]; ok {
		return copyInvestor(*inv), nil
	}
	return investor.Investor{}, investor.ErrNotFound
}

func (repo *investorRepository) GetByUserID(_ context.Context, userID string) (investor.Investor, error) {
	repo.db.RLock()
	defer repo.db.RUnlock()

	for _, inv := range repo.db.table {
		if inv.UserID == userID {
			return copyInvestor(*inv), nil
		}
	}
	return investor.Investor{}, investor.ErrNotFound
}

func (repo *investorRepository) Query(_ context.Context, filter investor.QueryFilter, ords []core.DBOrdering, page core.Pagination) ([]investor.Investor, int, error) {
	repo.db.RLock()
	defer repo.db.RUnlock()

	invs := make([]investor.Investor, 0)
	for _, inv := range repo.query() {
		if filter.Search != "" && !containsFold(filter.Search, inv.Name, inv.Email, inv.Organization) {
			continue
		}
		if filter.Status != "" && string(inv.Status) != filter.Status {
			continue
		}
		if filter.Sector != "" && !hasFold(inv.SectorInterested, filter.Sector) {
			continue
		}
		invs = append(invs, inv)
	}

	sortBy(len(invs), func(i, j int) { invs[i], invs[j] = invs[j], invs[i] }, ords, func(i, j int, field string) int {
		a, b := invs[i], invs[j]
		switch field {
		case "_id":
			return compareStrings(a.ID, b.ID)
		case "name":
			return compareStrings(a.Name, b.Name)
		case "organization":
			return compareStrings(a.Organization, b.Organization)
		case "status":
			return compareStrings(string(a.Status), string(b.Status))
		case "createdAt":
			return compareTimes(a.CreatedAt, b.CreatedAt)
		case "updatedAt":
			return compareTimes(a.UpdatedAt, b.UpdatedAt)
		}
		return 0
	})

	start, end := page.Paginate(len(invs))
	return invs[start:end], len(invs), nil
}

func (repo *investorRepository) Update(_ context.Context, inv investor.Investor) (investor.Investor, error) {
	repo.db.Lock()
	defer repo.db.Unlock()

	if _, ok := repo.db.table[inv.ID]; !ok {
		return investor.Investor{}, investor.ErrNotFound
	}
	stored := copyInvestor(inv)
	repo.db.table[inv.ID] = &stored
	return inv, nil
}
