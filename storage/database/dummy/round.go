package dummydb

import (
	"context"

	"github.com/startupsl/backend/core"
	"github.com/startupsl/backend/core/round"
)

type roundRepository struct {
	db *roundTable
}

var _ round.Repository = (*roundRepository)(nil) // interface compliance check

func NewRoundRepository(db *DB) round.Repository {
	return &roundRepository{db: db.round}
}

func (repo *roundRepository) query() []round.Round {
	rnds := make([]round.Round, 0, len(repo.db.table))
	for _, r := range repo.db.table {
		rnds = append(rnds, *r)
	}
	return rnds
}

func (repo *roundRepository) Create(_ context.Context, r round.Round) (round.Round, error) {
	repo.db.Lock()
	defer repo.db.Unlock()

	repo.db.table[r.ID] = &r
	return r, nil
}

func (repo *roundRepository) GetByID(_ context.Context, id string) (round.Round, error) {
	repo.db.RLock()
	defer repo.db.RUnlock()

	if r, ok := repo.db.table[id]; ok {
		return *r, nil
	}
	return round.Round{}, round.ErrNotFound
}

func (repo *roundRepository) Query(_ context.Context, filter round.QueryFilter, ords []core.DBOrdering, page core.Pagination) ([]round.Round, int, error) {
	repo.db.RLock()
	defer repo.db.RUnlock()

	rnds := make([]round.Round, 0)
	for _, r := range repo.query() {
		if filter.Search != "" && !containsFold(filter.Search, r.Name, r.Stage) {
			continue
		}
		if filter.CompanyID != "" && r.CompanyID != filter.CompanyID {
			continue
		}
		if filter.Status != "" && string(r.Status) != filter.Status {
			continue
		}
		if filter.Stage != "" && !equalFold(r.Stage, filter.Stage) {
			continue
		}
		rnds = append(rnds, r)
	}

	sortBy(len(rnds), func(i, j int) { rnds[i], rnds[j] = rnds[j], rnds[i] }, ords, func(i, j int, field string) int {
		a, b := rnds[i], rnds[j]
		switch field {
		case "_id":
			return compareStrings(a.ID, b.ID)
		case "name":
			return compareStrings(a.Name, b.Name)
		case "stage":
			return compareStrings(a.Stage, b.Stage)
		case "progress":
			return compareFloats(a.Progress, b.Progress)
		case "roundStatus":
			return compareStrings(string(a.Status), string(b.Status))
		case "closesAt":
			return compareTimePtrs(a.ClosesAt, b.ClosesAt)
		case "createdAt":
			return compareTimes(a.CreatedAt, b.CreatedAt)
		case "updatedAt":
			return compareTimes(a.UpdatedAt, b.UpdatedAt)
		}
		return 0
	})

	start, end := page.Paginate(len(rnds))
	return rnds[start:end], len(rnds), nil
}

func (repo *roundRepository) QueryAll(_ context.Context) ([]round.Round, error) {
	repo.db.RLock()
	defer repo.db.RUnlock()
	return repo.query(), nil
}

func (repo *roundRepository) Update(_ context.Context, r round.Round) (round.Round, error) {
	repo.db.Lock()
	defer repo.db.Unlock()

	if _, ok := repo.db.table[r.ID]; !ok {
		return round.Round{}, round.ErrNotFound
	}
	repo.db.table[r.ID] = &r
	return r, nil
}

func (repo *roundRepository) Delete(_ context.Context, id string) error {
	repo.db.Lock()
	defer repo.db.Unlock()

	if _, ok := repo.db.table[id]; !ok {
		return round.ErrNotFound
	}
	delete(repo.db.table, id)
	return nil
}
