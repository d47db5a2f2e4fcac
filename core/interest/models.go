package interest

import (
	"time"

	"github.com/startupsl/backend/core"
)

type Status string

const (
	StatusPending  Status = "pending"
	StatusAccepted Status = "accepted"
	StatusDeclined Status = "declined"
)

// Interest records one investor's interest in one funding round.
type Interest struct {
	ID             string    `json:"id" bson:"_id"`
	InvestorID     string    `json:"investor_id" bson:"investorId"`
	InvestorUserID string    `json:"investor_user_id" bson:"investorUserId"`
	RoundID        string    `json:"round_id" bson:"roundId"`
	CompanyID      string    `json:"company_id" bson:"companyId"`
	Message        string    `json:"message" bson:"message"`
	Amount         string    `json:"amount" bson:"amount"`
	Status         Status    `json:"status" bson:"status"`
	CreatedAt      time.Time `json:"created_at" bson:"createdAt"` // UTC
	UpdatedAt      time.Time `json:"updated_at" bson:"updatedAt"` // UTC
}

type NewInterest struct {
	Message string `json:"message" validate:"max=2000"`
	Amount  string `json:"amount" validate:"max=60"`
}

func (ni *NewInterest) Validate() error {
	ni.Message = core.CleanString(ni.Message)
	ni.Amount = core.CleanString(ni.Amount)
	return core.Validate.Struct(ni)
}

type StatusChange struct {
	Status string `json:"status" validate:"required,oneof=pending accepted declined"`
}

func (sc *StatusChange) Validate() error {
	sc.Status = core.CleanString(sc.Status, true /* lower */)
	return core.Validate.Struct(sc)
}

// QueryFilter narrows interests down. A nil CompanyIDs means no company restriction,
// a non-nil empty one matches nothing.
type QueryFilter struct {
	InvestorUserID string   `query:"-"`
	CompanyIDs     []string `query:"-"`
	InvestorID     string   `query:"investor_id"`
	RoundID        string   `query:"round_id"`
	Status         string   `query:"status"`
}

func (qf *QueryFilter) Clean() {
	qf.InvestorID = core.CleanString(qf.InvestorID)
	qf.RoundID = core.CleanString(qf.RoundID)
	qf.Status = core.CleanString(qf.Status, true /* lower */)
}

// OrderingFields maps the accepted ?ordering= fields to their stored names.
var OrderingFields = map[string]string{
	"status":     "status",
	"created_at": "createdAt",
	"updated_at": "updatedAt",
}

var DefaultOrdering = []core.DBOrdering{{Field: "createdAt"}}
