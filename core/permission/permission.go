// Package permission decides what a subject may do on a resource.
// Evaluation is pure: no I/O and no state.
package permission

import (
	"strings"

	"github.com/pkg/errors"
)

type (
	Role   string
	Action string
)

const (
	RoleAdmin    Role = "admin"
	RoleCompany  Role = "company"
	RoleInvestor Role = "investor"

	ActionView   Action = "view"
	ActionAdd    Action = "add"
	ActionEdit   Action = "edit"
	ActionDelete Action = "delete"

	ResourceCompany = "company"
)

var (
	ErrUnknownRole = errors.New("unknown role")

	Roles = []Role{RoleAdmin, RoleCompany, RoleInvestor}
)

func ParseRole(s string) (Role, error) {
	r := Role(strings.ToLower(strings.TrimSpace(s)))
	for _, role := range Roles {
		if r == role {
			return r, nil
		}
	}
	return "", errors.Wrapf(ErrUnknownRole, "%q", s)
}

// Subject is the authenticated caller.
type Subject struct {
	Role   Role
	UserID string
	Email  string
	Name   string
}

func (s Subject) IsAdmin() bool { return s.Role == RoleAdmin }

// Resource is the target of an action, described by its type and the user owning it.
type Resource struct {
	Type        string
	OwnerUserID string
}

// Evaluate tells whether sub may perform act on res (res may be nil).
// Rules are checked in order; the first one that matches decides:
//   - admins may do anything
//   - companies may view and add
//   - companies may edit and delete the company resources they own
//   - investors may view
//   - everything else is denied
func Evaluate(sub Subject, act Action, res *Resource) bool {
	switch sub.Role {
	case RoleAdmin:
		return true
	case RoleCompany:
		switch act {
		case ActionView, ActionAdd:
			return true
		case ActionEdit, ActionDelete:
			return res != nil && res.Type == ResourceCompany && sub.UserID != "" && res.OwnerUserID == sub.UserID
		}
	case RoleInvestor:
		return act == ActionView
	}
	return false
}
