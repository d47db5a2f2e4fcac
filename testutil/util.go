// Package testutil holds fixtures shared by the test suites.
package testutil

import (
	"context"
	"io"
	"log"
	"testing"
	"time"

	"github.com/google/uuid"

	"github.com/startupsl/backend/core"
	"github.com/startupsl/backend/core/company"
	"github.com/startupsl/backend/core/interest"
	"github.com/startupsl/backend/core/investor"
	"github.com/startupsl/backend/core/notification"
	"github.com/startupsl/backend/core/round"
	logsvc "github.com/startupsl/backend/services/logger"
)

// NewLogger returns a logger that reports nothing.
func NewLogger(conf *core.Config) core.Logger {
	logger := logsvc.NewRollbarLogger(log.New(io.Discard, "", 0), conf)
	logger.Enable(false)
	return logger
}

func stamp(createdAt []time.Time) time.Time {
	if len(createdAt) > 0 {
		return createdAt[0].UTC()
	}
	return time.Now().UTC()
}

func CreateCompany(t *testing.T, repo company.Repository, ownerID, name, sector string, createdAt ...time.Time) company.Company {
	tstamp := stamp(createdAt)
	c, err := repo.Create(context.Background(), company.Company{
		ID:             uuid.New().String(),
		UserID:         ownerID,
		Name:           name,
		Sector:         sector,
		Email:          ownerID + "@startup.sl",
		EmployeesRange: "1-10",
		CreatedAt:      tstamp,
		UpdatedAt:      tstamp,
	})
	if err != nil {
		t.Fatalf("createCompany() failed: %v", err)
	}
	return c
}

func CreateInvestor(t *testing.T, repo investor.Repository, userID, name string, status investor.Status, createdAt ...time.Time) investor.Investor {
	tstamp := stamp(createdAt)
	inv := investor.Investor{
		ID:            uuid.New().String(),
		UserID:        userID,
		Name:          name,
		Email:         userID + "@investor.sl",
		Status:        investor.StatusPending,
		StatusHistory: []investor.StatusEvent{},
		CreatedAt:     tstamp,
		UpdatedAt:     tstamp,
	}
	if status != investor.StatusPending {
		if err := inv.ApplyStatus(status, "", "admin", tstamp); err != nil {
			t.Fatalf("createInvestor() failed: %v", err)
		}
	}
	inv, err := repo.Create(context.Background(), inv)
	if err != nil {
		t.Fatalf("createInvestor() failed: %v", err)
	}
	return inv
}

func CreateRound(t *testing.T, repo round.Repository, companyID, name string, status round.Status, createdAt ...time.Time) round.Round {
	tstamp := stamp(createdAt)
	r := round.Round{
		ID:           uuid.New().String(),
		CompanyID:    companyID,
		Name:         name,
		FundingGoal:  "USD 100,000",
		RaisedAmount: "USD 25,000",
		Status:       status,
		CreatedAt:    tstamp,
		UpdatedAt:    tstamp,
	}
	r.RefreshProgress()
	r, err := repo.Create(context.Background(), r)
	if err != nil {
		t.Fatalf("createRound() failed: %v", err)
	}
	return r
}

func CreateInterest(t *testing.T, repo interest.Repository, inv investor.Investor, rnd round.Round, createdAt ...time.Time) interest.Interest {
	tstamp := stamp(createdAt)
	i, err := repo.Create(context.Background(), interest.Interest{
		ID:             uuid.New().String(),
		InvestorID:     inv.ID,
		InvestorUserID: inv.UserID,
		RoundID:        rnd.ID,
		CompanyID:      rnd.CompanyID,
		Status:         interest.StatusPending,
		CreatedAt:      tstamp,
		UpdatedAt:      tstamp,
	})
	if err != nil {
		t.Fatalf("createInterest() failed: %v", err)
	}
	return i
}

func CreateNotification(t *testing.T, repo notification.Repository, toUserID, title string, isRead bool, createdAt ...time.Time) notification.Notification {
	n, err := repo.Create(context.Background(), notification.Notification{
		ID:        uuid.New().String(),
		ToUserID:  toUserID,
		Title:     title,
		IsRead:    isRead,
		CreatedAt: stamp(createdAt),
	})
	if err != nil {
		t.Fatalf("createNotification() failed: %v", err)
	}
	return n
}
