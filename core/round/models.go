package round

import (
	"regexp"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/shopspring/decimal"

	"github.com/startupsl/backend/core"
)

type Status string

const (
	StatusDraft       Status = "Draft"
	StatusUnderReview Status = "Under Review"
	StatusOpen        Status = "Open"
	StatusClosed      Status = "Closed"
)

var (
	Statuses = []Status{StatusDraft, StatusUnderReview, StatusOpen, StatusClosed}

	roundStatusTag  = "roundstatus"
	roundStatusText = "must be one of: Draft, Under Review, Open, Closed"

	closesAfterOpensTag  = "closesafteropens"
	closesAfterOpensText = "must be after the opening date"

	hundred       = decimal.NewFromInt(100)
	amountCleaner = regexp.MustCompile(`[^\d.\-]`)
)

func init() {
	_ = core.Validate.RegisterValidation(roundStatusTag, roundStatusValidation)
	core.RegisterCustomTranslation(roundStatusTag, roundStatusText)

	core.Validate.RegisterStructValidation(roundStructValidation, NewRound{})
	core.RegisterCustomTranslation(closesAfterOpensTag, closesAfterOpensText)
}

// ParseStatus matches s case-insensitively against the known round statuses.
func ParseStatus(s string) (Status, bool) {
	s = strings.TrimSpace(s)
	for _, st := range Statuses {
		if strings.EqualFold(s, string(st)) {
			return st, true
		}
	}
	return "", false
}

// ParseAmount extracts the numeric value of a free text amount such as "USD 100,000" or "Le 2.5".
// Text that holds no number parses to zero.
func ParseAmount(s string) decimal.Decimal {
	cleaned := amountCleaner.ReplaceAllString(s, "")
	cleaned = strings.TrimLeft(cleaned, ".")
	d, err := decimal.NewFromString(cleaned)
	if err != nil {
		return decimal.Zero
	}
	return d
}

// ComputeProgress returns raised / goal * 100 clamped to [0, 100] and rounded to 2 decimals.
// A goal that is zero or not a number yields 0.
func ComputeProgress(goal, raised string) float64 {
	g := ParseAmount(goal)
	if !g.IsPositive() {
		return 0
	}
	p := ParseAmount(raised).Div(g).Mul(hundred)
	if p.IsNegative() {
		p = decimal.Zero
	} else if p.GreaterThan(hundred) {
		p = hundred
	}
	f, _ := p.Round(2).Float64()
	return f
}

type Round struct {
	ID           string     `json:"id" bson:"_id"`
	CompanyID    string     `json:"company_id" bson:"companyId"`
	Name         string     `json:"name" bson:"name"`
	Stage        string     `json:"stage" bson:"stage"`
	FundingGoal  string     `json:"funding_goal" bson:"fundingGoal"`
	RaisedAmount string     `json:"raised_amount" bson:"raisedAmount"`
	Progress     float64    `json:"progress" bson:"progress"`
	Status       Status     `json:"round_status" bson:"roundStatus"`
	OpensAt      *time.Time `json:"opens_at,omitempty" bson:"opensAt,omitempty"`
	ClosesAt     *time.Time `json:"closes_at,omitempty" bson:"closesAt,omitempty"`
	CreatedAt    time.Time  `json:"created_at" bson:"createdAt"` // UTC
	UpdatedAt    time.Time  `json:"updated_at" bson:"updatedAt"` // UTC
}

// RefreshProgress recomputes Progress from FundingGoal and RaisedAmount.
func (r *Round) RefreshProgress() {
	r.Progress = ComputeProgress(r.FundingGoal, r.RaisedAmount)
}

func (r Round) IsOpen() bool { return r.Status == StatusOpen }

// NewRound contains information needed to create a new Round. Status defaults to Draft.
type NewRound struct {
	Name         string     `json:"name" validate:"required,notblank,max=120"`
	Stage        string     `json:"stage" validate:"max=60"`
	FundingGoal  string     `json:"funding_goal" validate:"required,notblank,max=60"`
	RaisedAmount string     `json:"raised_amount" validate:"max=60"`
	Status       string     `json:"round_status" validate:"omitempty,roundstatus"`
	OpensAt      *time.Time `json:"opens_at"`
	ClosesAt     *time.Time `json:"closes_at"`
}

func (nr *NewRound) clean() {
	nr.Name = core.CleanString(nr.Name)
	nr.Stage = core.CleanString(nr.Stage)
	nr.FundingGoal = core.CleanString(nr.FundingGoal)
	nr.RaisedAmount = core.CleanString(nr.RaisedAmount)
	if st, ok := ParseStatus(nr.Status); ok {
		nr.Status = string(st)
	}
}

func (nr *NewRound) Validate() error {
	nr.clean()
	if nr.Status == "" {
		nr.Status = string(StatusDraft)
	}
	return core.Validate.Struct(nr)
}

// UpdateRound defines what information may be provided to modify an existing Round.
// Blank fields keep their current value.
type UpdateRound NewRound

func (ur *UpdateRound) Validate(orig Round) error {
	nr := (*NewRound)(ur)
	nr.clean()

	keep := func(s *string, current string) {
		if *s == "" {
			*s = current
		}
	}
	keep(&ur.Name, orig.Name)
	keep(&ur.Stage, orig.Stage)
	keep(&ur.FundingGoal, orig.FundingGoal)
	keep(&ur.RaisedAmount, orig.RaisedAmount)
	keep(&ur.Status, string(orig.Status))
	if ur.OpensAt == nil {
		ur.OpensAt = orig.OpensAt
	}
	if ur.ClosesAt == nil {
		ur.ClosesAt = orig.ClosesAt
	}

	return core.Validate.Struct(nr)
}

func (ur UpdateRound) apply(r *Round) {
	r.Name = ur.Name
	r.Stage = ur.Stage
	r.FundingGoal = ur.FundingGoal
	r.RaisedAmount = ur.RaisedAmount
	r.Status = Status(ur.Status)
	r.OpensAt = utcPtr(ur.OpensAt)
	r.ClosesAt = utcPtr(ur.ClosesAt)
}

func utcPtr(t *time.Time) *time.Time {
	if t == nil {
		return nil
	}
	u := t.UTC()
	return &u
}

type QueryFilter struct {
	Search    string `query:"search"`
	CompanyID string `query:"company_id"`
	Status    string `query:"round_status"`
	Stage     string `query:"stage"`
}

func (qf *QueryFilter) Clean() {
	qf.Search = core.CleanString(qf.Search)
	qf.CompanyID = core.CleanString(qf.CompanyID)
	qf.Stage = core.CleanString(qf.Stage)
	if st, ok := ParseStatus(qf.Status); ok {
		qf.Status = string(st)
	} else {
		qf.Status = core.CleanString(qf.Status)
	}
}

// OrderingFields maps the accepted ?ordering= fields to their stored names.
var OrderingFields = map[string]string{
	"name":         "name",
	"stage":        "stage",
	"progress":     "progress",
	"round_status": "roundStatus",
	"closes_at":    "closesAt",
	"created_at":   "createdAt",
	"updated_at":   "updatedAt",
}

var DefaultOrdering = []core.DBOrdering{{Field: "createdAt"}}

// Custom Validators

func roundStatusValidation(fl validator.FieldLevel) bool {
	for _, st := range Statuses {
		if fl.Field().String() == string(st) {
			return true
		}
	}
	return false
}

// roundStructValidation checks that a round does not close before it opens.
func roundStructValidation(sl validator.StructLevel) {
	if nr, ok := sl.Current().Interface().(NewRound); ok {
		if nr.OpensAt != nil && nr.ClosesAt != nil && !nr.ClosesAt.After(*nr.OpensAt) {
			sl.ReportError(nr.ClosesAt, "closes_at", "ClosesAt", closesAfterOpensTag, "")
		}
	}
}
