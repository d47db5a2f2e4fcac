package round

import (
	"context"

	"github.com/google/uuid"
	"github.com/pkg/errors"

	"github.com/startupsl/backend/core"
)

var ErrNotFound = core.NewNotFoundError("round")

type (
	Repository interface {
		Create(ctx context.Context, r Round) (Round, error)
		GetByID(ctx context.Context, id string) (Round, error)
		// Query applies AND operation on available QueryFilter fields and returns the requested page and the total count.
		// QueryFilter.Search does a case-insensitive match on one of Round.Name or Round.Stage.
		Query(ctx context.Context, filter QueryFilter, ords []core.DBOrdering, page core.Pagination) ([]Round, int, error)
		QueryAll(ctx context.Context) ([]Round, error)
		Update(ctx context.Context, r Round) (Round, error)
		Delete(ctx context.Context, id string) error
	}

	Service struct {
		repo Repository
	}
)

func NewService(repo Repository) *Service {
	return &Service{repo: repo}
}

// Create opens a funding round for companyID. Progress is always derived from the amounts.
func (svc *Service) Create(ctx context.Context, companyID string, nr NewRound) (Round, error) {
	now := core.NowFunc()
	r := Round{
		ID:        uuid.New().String(),
		CompanyID: companyID,
		CreatedAt: now,
		UpdatedAt: now,
	}
	UpdateRound(nr).apply(&r)
	if r.Status == "" {
		r.Status = StatusDraft
	}
	r.RefreshProgress()
	r, err := svc.repo.Create(ctx, r)
	return r, errors.Wrap(err, "creating round")
}

func (svc *Service) Get(ctx context.Context, id string) (Round, error) {
	return svc.repo.GetByID(ctx, id)
}

func (svc *Service) Query(ctx context.Context, filter QueryFilter, ords []core.DBOrdering, page core.Pagination) ([]Round, int, error) {
	filter.Clean()
	page.Clean()
	ords = core.CleanOrderings(ords, OrderingFields)
	if len(ords) == 0 {
		ords = DefaultOrdering
	}
	return svc.repo.Query(ctx, filter, ords, page)
}

func (svc *Service) QueryAll(ctx context.Context) ([]Round, error) {
	return svc.repo.QueryAll(ctx)
}

func (svc *Service) Update(ctx context.Context, orig Round, ur UpdateRound) (Round, error) {
	r := orig
	ur.apply(&r)
	r.UpdatedAt = core.NowFunc()
	r.RefreshProgress()
	r, err := svc.repo.Update(ctx, r)
	return r, errors.Wrap(err, "updating round")
}

func (svc *Service) Delete(ctx context.Context, id string) error {
	return errors.Wrap(svc.repo.Delete(ctx, id), "deleting round")
}
