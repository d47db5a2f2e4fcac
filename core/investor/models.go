package investor

import (
	"strings"
	"time"

	"github.com/pkg/errors"

	"github.com/startupsl/backend/core"
)

type Status string

const (
	StatusPending   Status = "pending"
	StatusApproved  Status = "approved"
	StatusRejected  Status = "rejected"
	StatusSuspended Status = "suspended"
	StatusDeleted   Status = "deleted"
)

var (
	Statuses = []Status{StatusPending, StatusApproved, StatusRejected, StatusSuspended, StatusDeleted}

	ErrUnknownStatus  = errors.New("unknown investor status")
	ErrStatusTerminal = errors.New("investor is deleted, its status can no longer change")
)

func ParseStatus(s string) (Status, error) {
	st := Status(strings.ToLower(strings.TrimSpace(s)))
	for _, status := range Statuses {
		if st == status {
			return st, nil
		}
	}
	return "", errors.Wrapf(ErrUnknownStatus, "%q", s)
}

// StatusEvent is one entry of the append-only status history.
type StatusEvent struct {
	Action Status    `json:"action" bson:"action"`
	Reason string    `json:"reason" bson:"reason"`
	Actor  string    `json:"actor" bson:"actor"` // user ID of the admin
	At     time.Time `json:"at" bson:"at"`       // UTC
}

type Investor struct {
	ID               string        `json:"id" bson:"_id"`
	UserID           string        `json:"user_id" bson:"userId"`
	Name             string        `json:"name" bson:"name"`
	Email            string        `json:"email" bson:"email"`
	Organization     string        `json:"organization" bson:"organization"`
	SectorInterested []string      `json:"sector_interested" bson:"sectorInterested"`
	FundingCapacity  string        `json:"funding_capacity" bson:"fundingCapacity"`
	Stage            string        `json:"stage" bson:"stage"`
	Status           Status        `json:"status" bson:"status"`
	StatusHistory    []StatusEvent `json:"status_history" bson:"statusHistory"`
	CreatedAt        time.Time     `json:"created_at" bson:"createdAt"` // UTC
	UpdatedAt        time.Time     `json:"updated_at" bson:"updatedAt"` // UTC
}

// ApplyStatus appends a status event and makes it the current status.
// Once an investor is deleted no further status can be applied.
func (inv *Investor) ApplyStatus(action Status, reason, actor string, at time.Time) error {
	if _, err := ParseStatus(string(action)); err != nil {
		return err
	}
	if inv.Status == StatusDeleted {
		return ErrStatusTerminal
	}
	inv.StatusHistory = append(inv.StatusHistory, StatusEvent{
		Action: action,
		Reason: core.CleanString(reason),
		Actor:  actor,
		At:     at.UTC(),
	})
	inv.Status = action
	inv.UpdatedAt = at.UTC()
	return nil
}

func (inv Investor) IsApproved() bool { return inv.Status == StatusApproved }

// NewInvestor contains the information an investor provides while onboarding.
type NewInvestor struct {
	Name             string   `json:"name" validate:"required,notblank,max=120"`
	Email            string   `json:"email" validate:"required,email"`
	Organization     string   `json:"organization" validate:"max=120"`
	SectorInterested []string `json:"sector_interested" validate:"max=20,dive,sector"`
	FundingCapacity  string   `json:"funding_capacity" validate:"max=60"`
	Stage            string   `json:"stage" validate:"max=60"`
}

func (ni *NewInvestor) clean() {
	ni.Name = core.CleanString(ni.Name)
	ni.Email = core.CleanString(ni.Email, true /* lower */)
	ni.Organization = core.CleanString(ni.Organization)
	ni.SectorInterested = core.CleanStrings(ni.SectorInterested)
	ni.FundingCapacity = core.CleanString(ni.FundingCapacity)
	ni.Stage = core.CleanString(ni.Stage)
}

func (ni *NewInvestor) Validate() error {
	ni.clean()
	return core.Validate.Struct(ni)
}

// UpdateInvestor defines what information may be provided to modify an existing Investor.
// Blank fields keep their current value; a nil SectorInterested keeps the current sectors.
type UpdateInvestor NewInvestor

func (ui *UpdateInvestor) Validate(orig Investor) error {
	ni := (*NewInvestor)(ui)
	ni.clean()

	keep := func(s *string, current string) {
		if *s == "" {
			*s = current
		}
	}
	keep(&ui.Name, orig.Name)
	keep(&ui.Email, orig.Email)
	keep(&ui.Organization, orig.Organization)
	keep(&ui.FundingCapacity, orig.FundingCapacity)
	keep(&ui.Stage, orig.Stage)
	if ui.SectorInterested == nil {
		ui.SectorInterested = orig.SectorInterested
	}

	return core.Validate.Struct(ni)
}

func (ui UpdateInvestor) apply(inv *Investor) {
	inv.Name = ui.Name
	inv.Email = ui.Email
	inv.Organization = ui.Organization
	inv.SectorInterested = ui.SectorInterested
	inv.FundingCapacity = ui.FundingCapacity
	inv.Stage = ui.Stage
}

// StatusChange is what an admin submits to moderate an investor.
type StatusChange struct {
	Action string `json:"action" validate:"required,oneof=pending approved rejected suspended deleted"`
	Reason string `json:"reason" validate:"max=500"`
}

func (sc *StatusChange) Validate() error {
	sc.Action = core.CleanString(sc.Action, true /* lower */)
	sc.Reason = core.CleanString(sc.Reason)
	return core.Validate.Struct(sc)
}

type QueryFilter struct {
	Search string `query:"search"`
	Status string `query:"status"`
	Sector string `query:"sector"`
}

func (qf *QueryFilter) Clean() {
	qf.Search = core.CleanString(qf.Search)
	qf.Status = core.CleanString(qf.Status, true /* lower */)
	qf.Sector = core.CleanString(qf.Sector)
}

// OrderingFields maps the accepted ?ordering= fields to their stored names.
var OrderingFields = map[string]string{
	"name":         "name",
	"organization": "organization",
	"status":       "status",
	"created_at":   "createdAt",
	"updated_at":   "updatedAt",
}

var DefaultOrdering = []core.DBOrdering{{Field: "createdAt"}}
