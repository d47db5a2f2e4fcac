package company

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/pkg/errors"

	"github.com/startupsl/backend/core"
)

// ErrNotFound is returned for unknown and soft-deleted companies.
var ErrNotFound = core.NewNotFoundError("company")

type (
	Repository interface {
		Create(ctx context.Context, c Company) (Company, error)
		// GetByID ignores soft-deleted companies.
		GetByID(ctx context.Context, id string) (Company, error)
		// Query applies AND operation on available QueryFilter fields and returns the requested page and the total count.
		// A zero PageSize returns every match.
		// QueryFilter.Search does a case-insensitive match on one of Company.Name, Company.Sector or Company.Location.
		Query(ctx context.Context, filter QueryFilter, ords []core.DBOrdering, page core.Pagination) ([]Company, int, error)
		QueryAll(ctx context.Context) ([]Company, error)
		Update(ctx context.Context, c Company) (Company, error)
		SoftDelete(ctx context.Context, id string, at time.Time) error
	}

	Service struct {
		repo Repository
	}
)

func NewService(repo Repository) *Service {
	return &Service{repo: repo}
}

// Create registers a company owned by ownerID.
func (svc *Service) Create(ctx context.Context, ownerID string, nc NewCompany) (Company, error) {
	now := core.NowFunc()
	c := Company{
		ID:        uuid.New().String(),
		UserID:    ownerID,
		CreatedAt: now,
		UpdatedAt: now,
	}
	UpdateCompany(nc).apply(&c)
	c, err := svc.repo.Create(ctx, c)
	return c, errors.Wrap(err, "creating company")
}

func (svc *Service) Get(ctx context.Context, id string) (Company, error) {
	return svc.repo.GetByID(ctx, id)
}

func (svc *Service) Query(ctx context.Context, filter QueryFilter, ords []core.DBOrdering, page core.Pagination) ([]Company, int, error) {
	filter.Clean()
	page.Clean()
	ords = core.CleanOrderings(ords, OrderingFields)
	if len(ords) == 0 {
		ords = DefaultOrdering
	}
	return svc.repo.Query(ctx, filter, ords, page)
}

// ListByUser returns every company owned by userID, unpaginated.
func (svc *Service) ListByUser(ctx context.Context, userID string) ([]Company, error) {
	comps, _, err := svc.repo.Query(ctx, QueryFilter{UserID: userID}, DefaultOrdering, core.Pagination{})
	return comps, err
}

// QueryAll returns every company that is not deleted.
func (svc *Service) QueryAll(ctx context.Context) ([]Company, error) {
	return svc.repo.QueryAll(ctx)
}

func (svc *Service) Update(ctx context.Context, orig Company, uc UpdateCompany) (Company, error) {
	c := orig
	uc.apply(&c)
	c.UpdatedAt = core.NowFunc()
	c, err := svc.repo.Update(ctx, c)
	return c, errors.Wrap(err, "updating company")
}

func (svc *Service) Delete(ctx context.Context, id string) error {
	return errors.Wrap(svc.repo.SoftDelete(ctx, id, core.NowFunc()), "deleting company")
}
