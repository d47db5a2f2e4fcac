package echoapi

import (
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/startupsl/backend/core/interest"
	"github.com/startupsl/backend/core/investor"
	"github.com/startupsl/backend/core/round"
	emailsvc "github.com/startupsl/backend/services/email"
	"github.com/startupsl/backend/testutil"
)

func Test_roundApi_query(t *testing.T) {
	env := setup(t)
	c := testutil.CreateCompany(t, env.compRepo, owner.UserID, "Kobo", "Fintech")
	open := testutil.CreateRound(t, env.rndRepo, c.ID, "Seed", round.StatusOpen)
	testutil.CreateRound(t, env.rndRepo, c.ID, "Series A", round.StatusDraft)

	rec := env.do(http.MethodGet, "/v1/rounds?round_status=open", env.token(t, investing))
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	var rnds []round.Round
	assert.Equal(t, 1, decodePage(t, rec, &rnds))
	assert.Equal(t, open.ID, rnds[0].ID)

	rec = env.do(http.MethodGet, "/v1/rounds/"+open.ID, env.token(t, investing))
	require.Equal(t, http.StatusOK, rec.Code)
	var got round.Round
	decode(t, rec, &got)
	assert.Equal(t, "Seed", got.Name)
	assert.Equal(t, 25.0, got.Progress)

	rec = env.do(http.MethodGet, "/v1/rounds/missing", env.token(t, investing))
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func Test_roundApi_updateDelete(t *testing.T) {
	env := setup(t)
	c := testutil.CreateCompany(t, env.compRepo, owner.UserID, "Kobo", "Fintech")
	r := testutil.CreateRound(t, env.rndRepo, c.ID, "Seed", round.StatusDraft)
	path := "/v1/rounds/" + r.ID

	env.run(t, []httpTest{
		{
			name:     "stranger cannot update",
			method:   http.MethodPut,
			path:     path,
			body:     []byte(`{"round_status": "Open"}`),
			token:    env.token(t, stranger),
			wantCode: http.StatusForbidden,
		},
		{
			name:     "investor cannot delete",
			method:   http.MethodDelete,
			path:     path,
			token:    env.token(t, investing),
			wantCode: http.StatusForbidden,
		},
		{
			name:     "closing before opening",
			method:   http.MethodPut,
			path:     path,
			body:     []byte(`{"opens_at": "2024-05-01T00:00:00Z", "closes_at": "2024-04-01T00:00:00Z"}`),
			token:    env.token(t, owner),
			wantCode: http.StatusBadRequest,
		},
	})

	rec := env.do(http.MethodPut, path, env.token(t, owner), []byte(`{"raised_amount": "USD 50,000", "round_status": "Under Review"}`))
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	var updated round.Round
	decode(t, rec, &updated)
	assert.Equal(t, round.StatusUnderReview, updated.Status)
	assert.Equal(t, 50.0, updated.Progress)

	rec = env.do(http.MethodPut, path, env.token(t, owner), []byte(`{"progress": 99}`))
	require.Equal(t, http.StatusOK, rec.Code)
	decode(t, rec, &updated)
	assert.Equal(t, 50.0, updated.Progress, "progress is derived from the amounts")

	rec = env.do(http.MethodDelete, path, env.token(t, admin))
	assert.Equal(t, http.StatusNoContent, rec.Code)
	rec = env.do(http.MethodGet, path, env.token(t, owner))
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func Test_roundApi_submitInterest(t *testing.T) {
	env := setup(t)
	c := testutil.CreateCompany(t, env.compRepo, owner.UserID, "Kobo", "Fintech")
	open := testutil.CreateRound(t, env.rndRepo, c.ID, "Seed", round.StatusOpen)
	draft := testutil.CreateRound(t, env.rndRepo, c.ID, "Series A", round.StatusDraft)
	testutil.CreateInvestor(t, env.invRepo, investing.UserID, investing.Name, investor.StatusApproved)
	testutil.CreateInvestor(t, env.invRepo, "inv-2", "John Roe", investor.StatusPending)
	pending := investing
	pending.UserID = "inv-2"

	path := "/v1/rounds/" + open.ID + "/interests"
	body := []byte(`{"message": "Keen to join", "amount": "USD 10,000"}`)

	rec := env.do(http.MethodPost, path, env.token(t, investing), body)
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	var i interest.Interest
	decode(t, rec, &i)
	assert.Equal(t, interest.StatusPending, i.Status)
	assert.Equal(t, c.ID, i.CompanyID)
	require.Len(t, emailsvc.Sent(), 1)
	assert.Equal(t, c.Email, emailsvc.Sent()[0].To[0].Address)

	env.run(t, []httpTest{
		{
			name:     "duplicate",
			method:   http.MethodPost,
			path:     path,
			body:     body,
			token:    env.token(t, investing),
			wantCode: http.StatusBadRequest,
			wantData: []byte(`{"round": "you have already expressed interest in this round"}`),
		},
		{
			name:     "round not open",
			method:   http.MethodPost,
			path:     "/v1/rounds/" + draft.ID + "/interests",
			body:     body,
			token:    env.token(t, investing),
			wantCode: http.StatusBadRequest,
			wantData: []byte(`{"round": "this round is not open for investment"}`),
		},
		{
			name:     "investor not approved",
			method:   http.MethodPost,
			path:     path,
			body:     body,
			token:    env.token(t, pending),
			wantCode: http.StatusForbidden,
			wantData: []byte(`{"error": "your investor profile is not approved: permission denied"}`),
		},
		{
			name:     "companies cannot express interest",
			method:   http.MethodPost,
			path:     path,
			body:     body,
			token:    env.token(t, owner),
			wantCode: http.StatusForbidden,
			wantData: marshal(t, errForbidden),
		},
	})
}
