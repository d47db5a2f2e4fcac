package stats

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/startupsl/backend/core"
	"github.com/startupsl/backend/core/company"
	"github.com/startupsl/backend/core/interest"
	"github.com/startupsl/backend/core/round"
)

type mapCache struct {
	data map[string][]byte
	sets int
}

func (c *mapCache) Get(_ context.Context, key string, dst interface{}) error {
	b, ok := c.data[key]
	if !ok {
		return core.ErrCacheMiss
	}
	return json.Unmarshal(b, dst)
}

func (c *mapCache) Set(_ context.Context, key string, value interface{}, _ time.Duration) error {
	b, err := json.Marshal(value)
	if err != nil {
		return err
	}
	c.data[key] = b
	c.sets++
	return nil
}

func (c *mapCache) Delete(_ context.Context, keys ...string) error {
	for _, k := range keys {
		delete(c.data, k)
	}
	return nil
}

type source struct {
	companies []company.Company
	calls     int
	err       error
}

func (s *source) QueryAll(context.Context) ([]company.Company, error) {
	s.calls++
	return s.companies, s.err
}

type roundSource []round.Round

func (s roundSource) QueryAll(context.Context) ([]round.Round, error) { return s, nil }

type interestSource []interest.Interest

func (s interestSource) QueryAll(context.Context) ([]interest.Interest, error) { return s, nil }

type nopLogger struct{}

func (nopLogger) Debug(string, ...interface{}) {}
func (nopLogger) Info(string, ...interface{})  {}
func (nopLogger) Warn(string, ...interface{})  {}
func (nopLogger) Error(string, ...interface{}) {}
func (nopLogger) Fatal(string, ...interface{}) {}

func TestService_CachesAggregates(t *testing.T) {
	now := time.Date(2024, 3, 15, 0, 0, 0, 0, time.UTC)
	origNow := core.NowFunc
	core.NowFunc = func() time.Time { return now }
	defer func() { core.NowFunc = origNow }()

	comps := &source{companies: []company.Company{
		{Sector: "Fintech", EmployeesRange: "1-10", CreatedAt: now},
		{Sector: "Health", EmployeesRange: "11-50", CreatedAt: now.AddDate(-1, 0, 0)},
	}}
	cache := &mapCache{data: make(map[string][]byte)}
	svc := NewService(comps, roundSource{{CreatedAt: now}}, interestSource{}, cache, time.Minute, nopLogger{})
	ctx := context.Background()

	dash, err := svc.Dashboard(ctx)
	require.NoError(t, err)
	assert.Equal(t, 2, dash.Companies.Total)
	assert.Equal(t, 1, dash.Rounds.Total)

	// served from cache
	again, err := svc.Dashboard(ctx)
	require.NoError(t, err)
	assert.Equal(t, dash, again)
	assert.Equal(t, 1, comps.calls)

	dist, err := svc.Sectors(ctx)
	require.NoError(t, err)
	assert.Equal(t, []SectorCount{{"Fintech", 1}, {"Health", 1}}, dist.Sectors)

	growth, err := svc.SectorGrowth(ctx)
	require.NoError(t, err)
	require.Len(t, growth, 2)
	assert.Equal(t, "2023", growth[0].Year)

	growth, err = svc.SectorGrowth(ctx)
	require.NoError(t, err)
	assert.Equal(t, map[string]int{"Fintech": 1}, growth[1].Counts)
	assert.Equal(t, 3, comps.calls)
	assert.Equal(t, 3, cache.sets)

	require.NoError(t, svc.Invalidate(ctx))
	assert.Empty(t, cache.data)
	_, err = svc.Sectors(ctx)
	require.NoError(t, err)
	assert.Equal(t, 4, comps.calls)
}

func TestService_SourceError(t *testing.T) {
	comps := &source{err: errors.New("connection refused")}
	svc := NewService(comps, roundSource{}, interestSource{}, &mapCache{data: make(map[string][]byte)}, time.Minute, nopLogger{})

	_, err := svc.Sectors(context.Background())
	assert.EqualError(t, err, "fetching companies: connection refused")
}
