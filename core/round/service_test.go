package round_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/startupsl/backend/core"
	"github.com/startupsl/backend/core/round"
	"github.com/startupsl/backend/storage/database/dummy"
	"github.com/startupsl/backend/testutil"
)

func setup(t *testing.T) (*round.Service, round.Repository) {
	db, err := dummydb.Open()
	if err != nil {
		t.Fatalf("setup() failed: %v", err)
	}
	repo := dummydb.NewRoundRepository(db)
	return round.NewService(repo), repo
}

func TestService_Create(t *testing.T) {
	svc, _ := setup(t)
	ctx := context.Background()

	nr := round.NewRound{Name: "Seed", FundingGoal: "SLE 200,000", RaisedAmount: "SLE 50,000"}
	require.NoError(t, nr.Validate())

	r, err := svc.Create(ctx, "c1", nr)
	require.NoError(t, err)
	assert.Equal(t, "c1", r.CompanyID)
	assert.Equal(t, round.StatusDraft, r.Status)
	assert.Equal(t, 25.0, r.Progress)
	assert.False(t, r.IsOpen())
}

func TestService_Update(t *testing.T) {
	svc, repo := setup(t)
	ctx := context.Background()
	orig := testutil.CreateRound(t, repo, "c1", "Seed", round.StatusDraft)

	ur := round.UpdateRound{RaisedAmount: "USD 150,000", Status: "open"}
	require.NoError(t, ur.Validate(orig))

	r, err := svc.Update(ctx, orig, ur)
	require.NoError(t, err)
	assert.Equal(t, "Seed", r.Name)
	assert.True(t, r.IsOpen())
	assert.Equal(t, 100.0, r.Progress)

	got, err := svc.Get(ctx, r.ID)
	require.NoError(t, err)
	assert.Equal(t, r, got)
}

func TestService_QueryDelete(t *testing.T) {
	svc, repo := setup(t)
	ctx := context.Background()
	now := time.Now().UTC()

	seed := testutil.CreateRound(t, repo, "c1", "Seed", round.StatusOpen, now.Add(-2*time.Hour))
	testutil.CreateRound(t, repo, "c1", "Series A", round.StatusDraft, now.Add(-1*time.Hour))
	testutil.CreateRound(t, repo, "c2", "Pre-seed", round.StatusOpen, now)

	rnds, count, err := svc.Query(ctx, round.QueryFilter{Status: "OPEN"}, nil, core.Pagination{})
	require.NoError(t, err)
	assert.Equal(t, 2, count)
	require.Len(t, rnds, 2)
	assert.Equal(t, "Pre-seed", rnds[0].Name)
	assert.Equal(t, "Seed", rnds[1].Name)

	_, count, err = svc.Query(ctx, round.QueryFilter{CompanyID: "c1"}, nil, core.Pagination{})
	require.NoError(t, err)
	assert.Equal(t, 2, count)

	require.NoError(t, svc.Delete(ctx, seed.ID))
	_, err = svc.Get(ctx, seed.ID)
	assert.True(t, core.IsNotFound(err))
	assert.True(t, core.IsNotFound(svc.Delete(ctx, seed.ID)))

	all, err := svc.QueryAll(ctx)
	require.NoError(t, err)
	assert.Len(t, all, 2)
}
