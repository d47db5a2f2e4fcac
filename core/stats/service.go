package stats

import (
	"context"
	"time"

	"github.com/pkg/errors"

	"github.com/startupsl/backend/core"
	"github.com/startupsl/backend/core/company"
	"github.com/startupsl/backend/core/interest"
	"github.com/startupsl/backend/core/round"
)

const (
	keyDashboard = "stats:dashboard"
	keySectors   = "stats:sectors"
	keyGrowth    = "stats:sectors:growth"
)

type (
	// Cache stores aggregates between requests. Get returns core.ErrCacheMiss for absent keys.
	Cache interface {
		Get(ctx context.Context, key string, dst interface{}) error
		Set(ctx context.Context, key string, value interface{}, ttl time.Duration) error
		Delete(ctx context.Context, keys ...string) error
	}

	CompanySource interface {
		QueryAll(ctx context.Context) ([]company.Company, error)
	}

	RoundSource interface {
		QueryAll(ctx context.Context) ([]round.Round, error)
	}

	InterestSource interface {
		QueryAll(ctx context.Context) ([]interest.Interest, error)
	}

	Service struct {
		companies CompanySource
		rounds    RoundSource
		interests InterestSource
		cache     Cache
		ttl       time.Duration
		logger    core.Logger
	}
)

func NewService(companies CompanySource, rounds RoundSource, interests InterestSource, cache Cache, ttl time.Duration, logger core.Logger) *Service {
	return &Service{
		companies: companies,
		rounds:    rounds,
		interests: interests,
		cache:     cache,
		ttl:       ttl,
		logger:    logger,
	}
}

// cached loads key into dst from the cache, or computes it with fn and stores it.
// Cache failures are logged and never fail the request.
func (svc *Service) cached(ctx context.Context, key string, dst interface{}, fn func() (interface{}, error)) (interface{}, error) {
	err := svc.cache.Get(ctx, key, dst)
	if err == nil {
		return dst, nil
	}
	if errors.Cause(err) != core.ErrCacheMiss {
		svc.logger.Warn("reading stats cache", err, map[string]interface{}{"key": key})
	}

	v, err := fn()
	if err != nil {
		return nil, err
	}
	if err := svc.cache.Set(ctx, key, v, svc.ttl); err != nil {
		svc.logger.Warn("writing stats cache", err, map[string]interface{}{"key": key})
	}
	return v, nil
}

func (svc *Service) Dashboard(ctx context.Context) (Dashboard, error) {
	v, err := svc.cached(ctx, keyDashboard, new(Dashboard), func() (interface{}, error) {
		comps, err := svc.companies.QueryAll(ctx)
		if err != nil {
			return nil, errors.Wrap(err, "fetching companies")
		}
		rnds, err := svc.rounds.QueryAll(ctx)
		if err != nil {
			return nil, errors.Wrap(err, "fetching rounds")
		}
		ints, err := svc.interests.QueryAll(ctx)
		if err != nil {
			return nil, errors.Wrap(err, "fetching interests")
		}
		d := DashboardStatistics(comps, rnds, ints, core.NowFunc())
		return &d, nil
	})
	if err != nil {
		return Dashboard{}, err
	}
	return *v.(*Dashboard), nil
}

func (svc *Service) Sectors(ctx context.Context) (Distribution, error) {
	v, err := svc.cached(ctx, keySectors, new(Distribution), func() (interface{}, error) {
		comps, err := svc.companies.QueryAll(ctx)
		if err != nil {
			return nil, errors.Wrap(err, "fetching companies")
		}
		d := SectorDistribution(comps)
		return &d, nil
	})
	if err != nil {
		return Distribution{}, err
	}
	return *v.(*Distribution), nil
}

func (svc *Service) SectorGrowth(ctx context.Context) ([]GrowthRow, error) {
	v, err := svc.cached(ctx, keyGrowth, new([]GrowthRow), func() (interface{}, error) {
		comps, err := svc.companies.QueryAll(ctx)
		if err != nil {
			return nil, errors.Wrap(err, "fetching companies")
		}
		rows := SectorGrowthByYear(comps)
		return &rows, nil
	})
	if err != nil {
		return nil, err
	}
	return *v.(*[]GrowthRow), nil
}

// Invalidate drops the cached aggregates so the next read recomputes them.
func (svc *Service) Invalidate(ctx context.Context) error {
	return errors.Wrap(svc.cache.Delete(ctx, keyDashboard, keySectors, keyGrowth), "invalidating stats cache")
}
