package echoapi

import (
	"net/http"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/startupsl/backend/core/interest"
	"github.com/startupsl/backend/core/investor"
	"github.com/startupsl/backend/core/round"
	"github.com/startupsl/backend/testutil"
)

func Test_interestApi(t *testing.T) {
	env := setup(t)
	now := time.Now().UTC()

	kobo := testutil.CreateCompany(t, env.compRepo, owner.UserID, "Kobo", "Fintech")
	acme := testutil.CreateCompany(t, env.compRepo, stranger.UserID, "Acme", "Fintech")
	koboSeed := testutil.CreateRound(t, env.rndRepo, kobo.ID, "Seed", round.StatusOpen)
	acmeSeed := testutil.CreateRound(t, env.rndRepo, acme.ID, "Seed", round.StatusOpen)
	jane := testutil.CreateInvestor(t, env.invRepo, investing.UserID, investing.Name, investor.StatusApproved)
	john := testutil.CreateInvestor(t, env.invRepo, "inv-2", "John Roe", investor.StatusApproved)

	i1 := testutil.CreateInterest(t, env.intRepo, jane, koboSeed, now.Add(-3*time.Hour))
	testutil.CreateInterest(t, env.intRepo, jane, acmeSeed, now.Add(-2*time.Hour))
	testutil.CreateInterest(t, env.intRepo, john, koboSeed, now.Add(-1*time.Hour))

	t.Run("scoped listings", func(t *testing.T) {
		tests := []struct {
			name      string
			token     string
			query     string
			wantCount int
		}{
			{"admin", env.token(t, admin), "", 3},
			{"investor", env.token(t, investing), "", 2},
			{"company owner", env.token(t, owner), "", 2},
			{"company owner by round", env.token(t, owner), "?round_id=" + koboSeed.ID + "&investor_id=" + jane.ID, 1},
			{"status filter", env.token(t, admin), "?status=accepted", 0},
		}
		for _, tt := range tests {
			t.Run(tt.name, func(t *testing.T) {
				rec := env.do(http.MethodGet, "/v1/interests"+tt.query, tt.token)
				require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
				var ints []interest.Interest
				assert.Equal(t, tt.wantCount, decodePage(t, rec, &ints))
			})
		}
	})

	t.Run("status", func(t *testing.T) {
		path := "/v1/interests/" + i1.ID + "/status"
		env.run(t, []httpTest{
			{
				name:     "other company",
				method:   http.MethodPost,
				path:     path,
				body:     []byte(`{"status": "accepted"}`),
				token:    env.token(t, stranger),
				wantCode: http.StatusForbidden,
				wantData: marshal(t, errForbidden),
			},
			{
				name:     "invalid status",
				method:   http.MethodPost,
				path:     path,
				body:     []byte(`{"status": "maybe"}`),
				token:    env.token(t, owner),
				wantCode: http.StatusBadRequest,
			},
			{
				name:     "unknown interest",
				method:   http.MethodPost,
				path:     "/v1/interests/missing/status",
				body:     []byte(`{"status": "accepted"}`),
				token:    env.token(t, owner),
				wantCode: http.StatusNotFound,
			},
		})

		rec := env.do(http.MethodPost, path, env.token(t, owner), []byte(`{"status": "Accepted"}`))
		require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
		var got interest.Interest
		decode(t, rec, &got)
		assert.Equal(t, interest.StatusAccepted, got.Status)

		rec = env.do(http.MethodGet, "/v1/notifications/unread-count", env.token(t, investing))
		require.Equal(t, http.StatusOK, rec.Code)
		assert.JSONEq(t, `{"unread": 1}`, rec.Body.String())
	})
}
