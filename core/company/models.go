package company

import (
	"sort"
	"strings"
	"time"

	"github.com/startupsl/backend/core"
	"github.com/startupsl/backend/core/permission"
)

type Company struct {
	ID             string     `json:"id" bson:"_id"`
	UserID         string     `json:"user_id" bson:"userId"`
	Name           string     `json:"name" bson:"name"`
	Sector         string     `json:"sector" bson:"sector"`
	Stage          string     `json:"stage" bson:"stage"`
	Location       string     `json:"location" bson:"location"`
	Description    string     `json:"description" bson:"description"`
	Website        string     `json:"website" bson:"website"`
	Email          string     `json:"email" bson:"email"`
	FundingStatus  string     `json:"funding_status" bson:"fundingStatus"`
	AmountRaised   string     `json:"amount_raised" bson:"amountRaised"`
	FundingNeeded  string     `json:"funding_needed" bson:"fundingNeeded"`
	EmployeesRange string     `json:"employees_range" bson:"employeesRange"`
	CreatedAt      time.Time  `json:"created_at" bson:"createdAt"` // UTC
	UpdatedAt      time.Time  `json:"updated_at" bson:"updatedAt"` // UTC
	DeletedAt      *time.Time `json:"-" bson:"deletedAt,omitempty"`
}

// Resource describes the company for permission checks.
func (c Company) Resource() *permission.Resource {
	return &permission.Resource{Type: permission.ResourceCompany, OwnerUserID: c.UserID}
}

func (c Company) IsDeleted() bool { return c.DeletedAt != nil }

// NewCompany contains information needed to create a new Company.
type NewCompany struct {
	Name           string `json:"name" validate:"required,notblank,max=120"`
	Sector         string `json:"sector" validate:"required,sector"`
	Stage          string `json:"stage" validate:"max=60"`
	Location       string `json:"location" validate:"max=120"`
	Description    string `json:"description" validate:"max=5000"`
	Website        string `json:"website" validate:"omitempty,url"`
	Email          string `json:"email" validate:"omitempty,email"`
	FundingStatus  string `json:"funding_status" validate:"max=60"`
	AmountRaised   string `json:"amount_raised" validate:"max=60"`
	FundingNeeded  string `json:"funding_needed" validate:"max=60"`
	EmployeesRange string `json:"employees_range" validate:"omitempty,employeesrange"`
}

func (nc *NewCompany) clean() {
	nc.Name = core.CleanString(nc.Name)
	nc.Sector = core.CleanString(nc.Sector)
	nc.Stage = core.CleanString(nc.Stage)
	nc.Location = core.CleanString(nc.Location)
	nc.Description = core.CleanString(nc.Description)
	nc.Website = core.CleanString(nc.Website)
	nc.Email = core.CleanString(nc.Email, true /* lower */)
	nc.FundingStatus = core.CleanString(nc.FundingStatus)
	nc.AmountRaised = core.CleanString(nc.AmountRaised)
	nc.FundingNeeded = core.CleanString(nc.FundingNeeded)
	nc.EmployeesRange = core.CleanString(nc.EmployeesRange)
}

func (nc *NewCompany) Validate() error {
	nc.clean()
	return core.Validate.Struct(nc)
}

// UpdateCompany defines what information may be provided to modify an existing Company.
// Blank fields keep their current value.
type UpdateCompany NewCompany

func (uc *UpdateCompany) Validate(orig Company) error {
	nc := (*NewCompany)(uc)
	nc.clean()

	keep := func(s *string, current string) {
		if *s == "" {
			*s = current
		}
	}
	keep(&uc.Name, orig.Name)
	keep(&uc.Sector, orig.Sector)
	keep(&uc.Stage, orig.Stage)
	keep(&uc.Location, orig.Location)
	keep(&uc.Description, orig.Description)
	keep(&uc.Website, orig.Website)
	keep(&uc.Email, orig.Email)
	keep(&uc.FundingStatus, orig.FundingStatus)
	keep(&uc.AmountRaised, orig.AmountRaised)
	keep(&uc.FundingNeeded, orig.FundingNeeded)
	keep(&uc.EmployeesRange, orig.EmployeesRange)

	return core.Validate.Struct(nc)
}

func (uc UpdateCompany) apply(c *Company) {
	c.Name = uc.Name
	c.Sector = uc.Sector
	c.Stage = uc.Stage
	c.Location = uc.Location
	c.Description = uc.Description
	c.Website = uc.Website
	c.Email = uc.Email
	c.FundingStatus = uc.FundingStatus
	c.AmountRaised = uc.AmountRaised
	c.FundingNeeded = uc.FundingNeeded
	c.EmployeesRange = uc.EmployeesRange
}

type QueryFilter struct {
	Search        string    `query:"search"`
	UserID        string    `query:"user_id"`
	Sector        string    `query:"sector"`
	Stage         string    `query:"stage"`
	Location      string    `query:"location"`
	FundingStatus string    `query:"funding_status"`
	CreatedFrom   time.Time `query:"created_from"`
	CreatedTo     time.Time `query:"created_to"`
}

func (qf *QueryFilter) Clean() {
	qf.Search = core.CleanString(qf.Search)
	qf.UserID = core.CleanString(qf.UserID)
	qf.Sector = core.CleanString(qf.Sector)
	qf.Stage = core.CleanString(qf.Stage)
	qf.Location = core.CleanString(qf.Location)
	qf.FundingStatus = core.CleanString(qf.FundingStatus)
}

// OrderingFields maps the accepted ?ordering= fields to their stored names.
var OrderingFields = map[string]string{
	"name":       "name",
	"sector":     "sector",
	"stage":      "stage",
	"location":   "location",
	"created_at": "createdAt",
	"updated_at": "updatedAt",
}

// DefaultOrdering lists newest companies first.
var DefaultOrdering = []core.DBOrdering{{Field: "createdAt"}}

// SortByName orders comps by name, case-insensitively.
func SortByName(comps []Company) {
	sort.SliceStable(comps, func(i, j int) bool {
		return strings.ToLower(comps[i].Name) < strings.ToLower(comps[j].Name)
	})
}
