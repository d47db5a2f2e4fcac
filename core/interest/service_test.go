package interest_test

import (
	"context"
	"testing"
	"time"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/startupsl/backend/core"
	"github.com/startupsl/backend/core/company"
	"github.com/startupsl/backend/core/interest"
	"github.com/startupsl/backend/core/investor"
	"github.com/startupsl/backend/core/notification"
	"github.com/startupsl/backend/core/permission"
	"github.com/startupsl/backend/core/round"
	emailsvc "github.com/startupsl/backend/services/email"
	"github.com/startupsl/backend/storage/database/dummy"
	"github.com/startupsl/backend/testutil"
)

type env struct {
	svc      *interest.Service
	repo     interest.Repository
	compRepo company.Repository
	invRepo  investor.Repository
	rndRepo  round.Repository
	notifSvc *notification.Service
}

func setup(t *testing.T) env {
	db, err := dummydb.Open()
	if err != nil {
		t.Fatalf("setup() failed: %v", err)
	}
	conf := core.NewTestConfig()
	logger := testutil.NewLogger(conf)
	emailsvc.ResetSentMessages()

	e := env{
		repo:     dummydb.NewInterestRepository(db),
		compRepo: dummydb.NewCompanyRepository(db),
		invRepo:  dummydb.NewInvestorRepository(db),
		rndRepo:  dummydb.NewRoundRepository(db),
	}
	e.notifSvc = notification.NewService(dummydb.NewNotificationRepository(db), emailsvc.NewConsoleServiceMock(conf, logger))
	invSvc := investor.NewService(e.invRepo, e.notifSvc, logger)
	e.svc = interest.NewService(
		e.repo,
		invSvc,
		round.NewService(e.rndRepo),
		company.NewService(e.compRepo),
		e.notifSvc,
		logger,
	)
	return e
}

func investorSubject(userID string) permission.Subject {
	return permission.Subject{Role: permission.RoleInvestor, UserID: userID}
}

func companySubject(userID string) permission.Subject {
	return permission.Subject{Role: permission.RoleCompany, UserID: userID}
}

func TestService_Submit(t *testing.T) {
	e := setup(t)
	ctx := context.Background()

	comp := testutil.CreateCompany(t, e.compRepo, "owner-1", "Kobo", "Fintech")
	open := testutil.CreateRound(t, e.rndRepo, comp.ID, "Seed", round.StatusOpen)
	draft := testutil.CreateRound(t, e.rndRepo, comp.ID, "Series A", round.StatusDraft)
	approved := testutil.CreateInvestor(t, e.invRepo, "inv-1", "Jane Doe", investor.StatusApproved)
	testutil.CreateInvestor(t, e.invRepo, "inv-2", "John Roe", investor.StatusPending)

	t.Run("success", func(t *testing.T) {
		i, err := e.svc.Submit(ctx, investorSubject(approved.UserID), open.ID, interest.NewInterest{Message: "Let's talk", Amount: "USD 10,000"})
		require.NoError(t, err)
		assert.Equal(t, interest.StatusPending, i.Status)
		assert.Equal(t, approved.ID, i.InvestorID)
		assert.Equal(t, comp.ID, i.CompanyID)

		ns, err := e.notifSvc.ListForUser(ctx, comp.UserID)
		require.NoError(t, err)
		require.Len(t, ns, 1)
		assert.Equal(t, approved.UserID, ns[0].FromUserID)
		assert.Equal(t, "/rounds/"+open.ID, ns[0].URL)

		sent := emailsvc.Sent()
		require.Len(t, sent, 1)
		assert.Equal(t, comp.Email, sent[0].To[0].Address)
	})

	tests := []struct {
		name          string
		userID        string
		roundID       string
		wantForbidden bool
		wantInvalid   bool
		wantNotFound  bool
	}{
		{name: "duplicate", userID: approved.UserID, roundID: open.ID, wantInvalid: true},
		{name: "round not open", userID: approved.UserID, roundID: draft.ID, wantInvalid: true},
		{name: "pending investor", userID: "inv-2", roundID: open.ID, wantForbidden: true},
		{name: "no investor profile", userID: "nobody", roundID: open.ID, wantForbidden: true},
		{name: "unknown round", userID: approved.UserID, roundID: "missing", wantNotFound: true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := e.svc.Submit(ctx, investorSubject(tt.userID), tt.roundID, interest.NewInterest{})
			require.Error(t, err)
			assert.Equal(t, tt.wantForbidden, core.IsForbidden(err))
			assert.Equal(t, tt.wantNotFound, core.IsNotFound(err))
			var verr *core.ValidationError
			assert.Equal(t, tt.wantInvalid, errors.As(err, &verr))
		})
	}

	all, err := e.svc.QueryAll(ctx)
	require.NoError(t, err)
	assert.Len(t, all, 1)
}

func TestService_Query(t *testing.T) {
	e := setup(t)
	ctx := context.Background()
	now := time.Now().UTC()

	kobo := testutil.CreateCompany(t, e.compRepo, "owner-1", "Kobo", "Fintech")
	farms := testutil.CreateCompany(t, e.compRepo, "owner-2", "Green Farms", "Agritech")
	koboSeed := testutil.CreateRound(t, e.rndRepo, kobo.ID, "Seed", round.StatusOpen)
	farmsSeed := testutil.CreateRound(t, e.rndRepo, farms.ID, "Seed", round.StatusOpen)
	jane := testutil.CreateInvestor(t, e.invRepo, "inv-1", "Jane Doe", investor.StatusApproved)
	john := testutil.CreateInvestor(t, e.invRepo, "inv-2", "John Roe", investor.StatusApproved)

	i1 := testutil.CreateInterest(t, e.repo, jane, koboSeed, now.Add(-3*time.Hour))
	i2 := testutil.CreateInterest(t, e.repo, jane, farmsSeed, now.Add(-2*time.Hour))
	i3 := testutil.CreateInterest(t, e.repo, john, koboSeed, now.Add(-1*time.Hour))

	ids := func(ints []interest.Interest) []string {
		res := make([]string, 0, len(ints))
		for _, i := range ints {
			res = append(res, i.ID)
		}
		return res
	}

	tests := []struct {
		name    string
		sub     permission.Subject
		filter  interest.QueryFilter
		wantIDs []string
	}{
		{"admin sees everything", permission.Subject{Role: permission.RoleAdmin, UserID: "admin"}, interest.QueryFilter{}, []string{i3.ID, i2.ID, i1.ID}},
		{"investor sees own", investorSubject(jane.UserID), interest.QueryFilter{}, []string{i2.ID, i1.ID}},
		{"investor cannot widen scope", investorSubject(john.UserID), interest.QueryFilter{InvestorUserID: jane.UserID}, []string{i3.ID}},
		{"company sees received", companySubject(kobo.UserID), interest.QueryFilter{}, []string{i3.ID, i1.ID}},
		{"company with filter", companySubject(kobo.UserID), interest.QueryFilter{InvestorID: jane.ID}, []string{i1.ID}},
		{"company without companies", companySubject("owner-3"), interest.QueryFilter{}, []string{}},
		{"unknown role", permission.Subject{Role: "guest", UserID: "x"}, interest.QueryFilter{}, []string{}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ints, count, err := e.svc.Query(ctx, tt.sub, tt.filter, nil, core.Pagination{})
			require.NoError(t, err)
			assert.Equal(t, tt.wantIDs, ids(ints))
			assert.Equal(t, len(tt.wantIDs), count)
		})
	}
}

func TestService_SetStatus(t *testing.T) {
	e := setup(t)
	ctx := context.Background()

	kobo := testutil.CreateCompany(t, e.compRepo, "owner-1", "Kobo", "Fintech")
	seed := testutil.CreateRound(t, e.rndRepo, kobo.ID, "Seed", round.StatusOpen)
	jane := testutil.CreateInvestor(t, e.invRepo, "inv-1", "Jane Doe", investor.StatusApproved)
	i := testutil.CreateInterest(t, e.repo, jane, seed)

	_, err := e.svc.SetStatus(ctx, companySubject("owner-2"), i.ID, interest.StatusChange{Status: "accepted"})
	assert.True(t, core.IsForbidden(err))
	_, err = e.svc.SetStatus(ctx, investorSubject(jane.UserID), i.ID, interest.StatusChange{Status: "accepted"})
	assert.True(t, core.IsForbidden(err))

	got, err := e.svc.SetStatus(ctx, companySubject(kobo.UserID), i.ID, interest.StatusChange{Status: "accepted"})
	require.NoError(t, err)
	assert.Equal(t, interest.StatusAccepted, got.Status)

	ns, err := e.notifSvc.ListForUser(ctx, jane.UserID)
	require.NoError(t, err)
	require.Len(t, ns, 1)
	assert.Equal(t, "Your interest in Kobo was accepted", ns[0].Title)
	require.Len(t, emailsvc.Sent(), 1)
	assert.Equal(t, jane.Email, emailsvc.Sent()[0].To[0].Address)

	// unchanged status does not notify again
	_, err = e.svc.SetStatus(ctx, companySubject(kobo.UserID), i.ID, interest.StatusChange{Status: "accepted"})
	require.NoError(t, err)
	ns, err = e.notifSvc.ListForUser(ctx, jane.UserID)
	require.NoError(t, err)
	assert.Len(t, ns, 1)

	got, err = e.svc.SetStatus(ctx, permission.Subject{Role: permission.RoleAdmin, UserID: "admin"}, i.ID, interest.StatusChange{Status: "declined"})
	require.NoError(t, err)
	assert.Equal(t, interest.StatusDeclined, got.Status)

	_, err = e.svc.SetStatus(ctx, companySubject(kobo.UserID), "missing", interest.StatusChange{Status: "accepted"})
	assert.True(t, core.IsNotFound(err))
}
