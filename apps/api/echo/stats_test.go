package echoapi

import (
	"net/http"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/startupsl/backend/core/round"
	"github.com/startupsl/backend/core/stats"
	"github.com/startupsl/backend/testutil"
)

func Test_statsApi(t *testing.T) {
	env := setup(t)
	c := testutil.CreateCompany(t, env.compRepo, owner.UserID, "Kobo", "Fintech", time.Date(2023, 3, 1, 0, 0, 0, 0, time.UTC))
	testutil.CreateCompany(t, env.compRepo, "u2", "Acme", "Fintech", time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC))
	testutil.CreateCompany(t, env.compRepo, "u3", "Green Farms", "Agritech", time.Date(2024, 6, 1, 0, 0, 0, 0, time.UTC))
	testutil.CreateRound(t, env.rndRepo, c.ID, "Seed", round.StatusOpen)

	env.run(t, []httpTest{
		{
			name:     "dashboard is for admins",
			method:   http.MethodGet,
			path:     "/v1/stats/dashboard",
			token:    env.token(t, owner),
			wantCode: http.StatusForbidden,
		},
		{
			name:     "growth",
			method:   http.MethodGet,
			path:     "/v1/stats/sectors/growth",
			token:    env.token(t, investing),
			wantCode: http.StatusOK,
			wantData: []byte(`[{"year": "2023", "Fintech": 1}, {"year": "2024", "Agritech": 1, "Fintech": 1}]`),
		},
	})

	rec := env.do(http.MethodGet, "/v1/stats/dashboard", env.token(t, admin))
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	var d stats.Dashboard
	decode(t, rec, &d)
	assert.Equal(t, 3, d.Companies.Total)
	assert.Equal(t, 1, d.Rounds.Total)
	assert.Equal(t, 0, d.Interests.Total)
	assert.True(t, env.redis.Exists("test:stats:dashboard"))

	rec = env.do(http.MethodGet, "/v1/stats/sectors", env.token(t, investing))
	require.Equal(t, http.StatusOK, rec.Code)
	var dist stats.Distribution
	decode(t, rec, &dist)
	assert.Equal(t, []stats.SectorCount{{Sector: "Fintech", Count: 2}, {Sector: "Agritech", Count: 1}}, dist.Sectors)

	// a write drops the cached aggregates
	rec = env.do(http.MethodPost, "/v1/companies", env.token(t, owner), []byte(`{"name": "Solar Co", "sector": "Energy"}`))
	require.Equal(t, http.StatusCreated, rec.Code)
	assert.False(t, env.redis.Exists("test:stats:dashboard"))
	assert.False(t, env.redis.Exists("test:stats:sectors"))

	rec = env.do(http.MethodGet, "/v1/stats/sectors", env.token(t, investing))
	require.Equal(t, http.StatusOK, rec.Code)
	decode(t, rec, &dist)
	assert.Len(t, dist.Sectors, 3)
}
