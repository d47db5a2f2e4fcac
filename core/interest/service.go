package interest

import (
	"context"

	"github.com/google/uuid"
	"github.com/pkg/errors"

	"github.com/startupsl/backend/core"
	"github.com/startupsl/backend/core/company"
	"github.com/startupsl/backend/core/investor"
	"github.com/startupsl/backend/core/notification"
	"github.com/startupsl/backend/core/permission"
	"github.com/startupsl/backend/core/round"
)

var (
	ErrNotFound        = core.NewNotFoundError("interest")
	ErrAlreadyExists   = errors.New("you have already expressed interest in this round")
	ErrRoundNotOpen    = errors.New("this round is not open for investment")
	ErrNotInvestor     = errors.Wrap(core.ErrForbidden, "an investor profile is required")
	ErrInvestorPending = errors.Wrap(core.ErrForbidden, "your investor profile is not approved")
)

type (
	Repository interface {
		Create(ctx context.Context, i Interest) (Interest, error)
		GetByID(ctx context.Context, id string) (Interest, error)
		Exists(ctx context.Context, investorID, roundID string) (bool, error)
		// Query applies AND operation on available QueryFilter fields and returns the requested page and the total count.
		Query(ctx context.Context, filter QueryFilter, ords []core.DBOrdering, page core.Pagination) ([]Interest, int, error)
		QueryAll(ctx context.Context) ([]Interest, error)
		Update(ctx context.Context, i Interest) (Interest, error)
	}

	InvestorGetter interface {
		GetByUserID(ctx context.Context, userID string) (investor.Investor, error)
	}

	RoundGetter interface {
		Get(ctx context.Context, id string) (round.Round, error)
	}

	CompanyGetter interface {
		Get(ctx context.Context, id string) (company.Company, error)
		ListByUser(ctx context.Context, userID string) ([]company.Company, error)
	}

	Notifier interface {
		Send(ctx context.Context, nn notification.NewNotification) (notification.Notification, error)
	}

	Service struct {
		repo      Repository
		investors InvestorGetter
		rounds    RoundGetter
		companies CompanyGetter
		notifier  Notifier
		logger    core.Logger
	}
)

func NewService(repo Repository, investors InvestorGetter, rounds RoundGetter, companies CompanyGetter, notifier Notifier, logger core.Logger) *Service {
	return &Service{
		repo:      repo,
		investors: investors,
		rounds:    rounds,
		companies: companies,
		notifier:  notifier,
		logger:    logger,
	}
}

// Submit records the interest of the subject's investor profile in roundID and notifies the company owner.
// The investor must be approved and the round open; an investor may express interest in a round only once.
func (svc *Service) Submit(ctx context.Context, sub permission.Subject, roundID string, ni NewInterest) (Interest, error) {
	inv, err := svc.investors.GetByUserID(ctx, sub.UserID)
	if err != nil {
		if core.IsNotFound(err) {
			return Interest{}, ErrNotInvestor
		}
		return Interest{}, errors.Wrap(err, "loading investor")
	}
	if !inv.IsApproved() {
		return Interest{}, ErrInvestorPending
	}

	rnd, err := svc.rounds.Get(ctx, roundID)
	if err != nil {
		return Interest{}, err
	}
	if !rnd.IsOpen() {
		return Interest{}, core.NewValidationError(ErrRoundNotOpen, core.FieldError{Field: "round", Error: ErrRoundNotOpen.Error()})
	}
	comp, err := svc.companies.Get(ctx, rnd.CompanyID)
	if err != nil {
		return Interest{}, errors.Wrap(err, "loading round company")
	}

	exists, err := svc.repo.Exists(ctx, inv.ID, rnd.ID)
	if err != nil {
		return Interest{}, errors.Wrap(err, "checking interest uniqueness")
	}
	if exists {
		return Interest{}, core.NewValidationError(ErrAlreadyExists, core.FieldError{Field: "round", Error: ErrAlreadyExists.Error()})
	}

	now := core.NowFunc()
	i, err := svc.repo.Create(ctx, Interest{
		ID:             uuid.New().String(),
		InvestorID:     inv.ID,
		InvestorUserID: inv.UserID,
		RoundID:        rnd.ID,
		CompanyID:      comp.ID,
		Message:        ni.Message,
		Amount:         ni.Amount,
		Status:         StatusPending,
		CreatedAt:      now,
		UpdatedAt:      now,
	})
	if err != nil {
		return Interest{}, errors.Wrap(err, "creating interest")
	}

	svc.notify(ctx, notification.NewNotification{
		FromUserID: inv.UserID,
		ToUserID:   comp.UserID,
		ToEmail:    comp.Email,
		ToName:     comp.Name,
		Title:      "New investor interest in " + rnd.Name,
		Desc:       inv.Name + " is interested in your round " + rnd.Name + ".",
		URL:        "/rounds/" + rnd.ID,
	})
	return i, nil
}

func (svc *Service) Get(ctx context.Context, id string) (Interest, error) {
	return svc.repo.GetByID(ctx, id)
}

// Query lists the interests visible to sub: admins see all of them, investors their own
// and companies those received by the companies they own.
func (svc *Service) Query(ctx context.Context, sub permission.Subject, filter QueryFilter, ords []core.DBOrdering, page core.Pagination) ([]Interest, int, error) {
	filter.Clean()
	page.Clean()
	ords = core.CleanOrderings(ords, OrderingFields)
	if len(ords) == 0 {
		ords = DefaultOrdering
	}

	switch sub.Role {
	case permission.RoleAdmin:
	case permission.RoleInvestor:
		filter.InvestorUserID = sub.UserID
	case permission.RoleCompany:
		ids, err := svc.ownedCompanyIDs(ctx, sub.UserID)
		if err != nil {
			return nil, 0, err
		}
		filter.CompanyIDs = ids
	default:
		return []Interest{}, 0, nil
	}
	return svc.repo.Query(ctx, filter, ords, page)
}

func (svc *Service) ownedCompanyIDs(ctx context.Context, userID string) ([]string, error) {
	comps, err := svc.companies.ListByUser(ctx, userID)
	if err != nil {
		return nil, errors.Wrap(err, "loading owned companies")
	}
	ids := make([]string, 0, len(comps))
	for _, c := range comps {
		ids = append(ids, c.ID)
	}
	return ids, nil
}

func (svc *Service) QueryAll(ctx context.Context) ([]Interest, error) {
	return svc.repo.QueryAll(ctx)
}

// SetStatus lets the owner of the round's company (or an admin) accept or decline an interest.
// The investor is notified of the change.
func (svc *Service) SetStatus(ctx context.Context, sub permission.Subject, id string, sc StatusChange) (Interest, error) {
	i, err := svc.repo.GetByID(ctx, id)
	if err != nil {
		return Interest{}, err
	}
	comp, err := svc.companies.Get(ctx, i.CompanyID)
	if err != nil {
		return Interest{}, errors.Wrap(err, "loading interest company")
	}
	if !permission.Evaluate(sub, permission.ActionEdit, comp.Resource()) {
		return Interest{}, core.ErrForbidden
	}

	status := Status(sc.Status)
	if i.Status == status {
		return i, nil
	}
	i.Status = status
	i.UpdatedAt = core.NowFunc()
	if i, err = svc.repo.Update(ctx, i); err != nil {
		return Interest{}, errors.Wrap(err, "updating interest")
	}

	nn := notification.NewNotification{
		FromUserID: sub.UserID,
		ToUserID:   i.InvestorUserID,
		Title:      "Your interest in " + comp.Name + " was " + string(i.Status),
		Desc:       comp.Name + " has marked your interest as " + string(i.Status) + ".",
		URL:        "/rounds/" + i.RoundID,
	}
	if inv, err := svc.investors.GetByUserID(ctx, i.InvestorUserID); err == nil {
		nn.ToEmail, nn.ToName = inv.Email, inv.Name
	}
	svc.notify(ctx, nn)
	return i, nil
}

// notify logs delivery failures: the interest itself is already stored.
func (svc *Service) notify(ctx context.Context, nn notification.NewNotification) {
	if _, err := svc.notifier.Send(ctx, nn); err != nil {
		svc.logger.Error("sending interest notification", err, map[string]interface{}{"to": nn.ToUserID})
	}
}
