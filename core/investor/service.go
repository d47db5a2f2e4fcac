package investor

import (
	"context"

	"github.com/google/uuid"
	"github.com/pkg/errors"

	"github.com/startupsl/backend/core"
	"github.com/startupsl/backend/core/notification"
)

var (
	ErrNotFound      = core.NewNotFoundError("investor")
	ErrProfileExists = errors.New("an investor profile already exists for this user")
)

type (
	Repository interface {
		Create(ctx context.Context, inv Investor) (Investor, error)
		GetByID(ctx context.Context, id string) (Investor, error)
		GetByUserID(ctx context.Context, userID string) (Investor, error)
		// Query applies AND operation on available QueryFilter fields and returns the requested page and the total count.
		// QueryFilter.Search does a case-insensitive match on one of Investor.Name, Investor.Email or Investor.Organization.
		Query(ctx context.Context, filter QueryFilter, ords []core.DBOrdering, page core.Pagination) ([]Investor, int, error)
		Update(ctx context.Context, inv Investor) (Investor, error)
	}

	Notifier interface {
		Send(ctx context.Context, nn notification.NewNotification) (notification.Notification, error)
	}

	Service struct {
		repo     Repository
		notifier Notifier
		logger   core.Logger
	}
)

func NewService(repo Repository, notifier Notifier, logger core.Logger) *Service {
	return &Service{repo: repo, notifier: notifier, logger: logger}
}

// Create onboards userID as an investor. New investors wait for approval.
func (svc *Service) Create(ctx context.Context, userID string, ni NewInvestor) (Investor, error) {
	if _, err := svc.repo.GetByUserID(ctx, userID); err == nil {
		return Investor{}, core.NewValidationError(ErrProfileExists, core.FieldError{Field: "user_id", Error: ErrProfileExists.Error()})
	} else if !core.IsNotFound(err) {
		return Investor{}, errors.Wrap(err, "checking investor profile")
	}

	now := core.NowFunc()
	inv := Investor{
		ID:            uuid.New().String(),
		UserID:        userID,
		Status:        StatusPending,
		StatusHistory: []StatusEvent{},
		CreatedAt:     now,
		UpdatedAt:     now,
	}
	UpdateInvestor(ni).apply(&inv)
	inv, err := svc.repo.Create(ctx, inv)
	return inv, errors.Wrap(err, "creating investor")
}

func (svc *Service) Get(ctx context.Context, id string) (Investor, error) {
	return svc.repo.GetByID(ctx, id)
}

func (svc *Service) GetByUserID(ctx context.Context, userID string) (Investor, error) {
	return svc.repo.GetByUserID(ctx, userID)
}

func (svc *Service) Query(ctx context.Context, filter QueryFilter, ords []core.DBOrdering, page core.Pagination) ([]Investor, int, error) {
	filter.Clean()
	page.Clean()
	ords = core.CleanOrderings(ords, OrderingFields)
	if len(ords) == 0 {
		ords = DefaultOrdering
	}
	return svc.repo.Query(ctx, filter, ords, page)
}

func (svc *Service) Update(ctx context.Context, orig Investor, ui UpdateInvestor) (Investor, error) {
	inv := orig
	ui.apply(&inv)
	inv.UpdatedAt = core.NowFunc()
	inv, err := svc.repo.Update(ctx, inv)
	return inv, errors.Wrap(err, "updating investor")
}

// ApplyStatus records a moderation decision taken by actorID and notifies the investor.
func (svc *Service) ApplyStatus(ctx context.Context, id, actorID string, sc StatusChange) (Investor, error) {
	inv, err := svc.repo.GetByID(ctx, id)
	if err != nil {
		return Investor{}, err
	}
	if err = inv.ApplyStatus(Status(sc.Action), sc.Reason, actorID, core.NowFunc()); err != nil {
		if err == ErrStatusTerminal {
			return Investor{}, core.NewValidationError(err, core.FieldError{Field: "action", Error: err.Error()})
		}
		return Investor{}, err
	}
	if inv, err = svc.repo.Update(ctx, inv); err != nil {
		return Investor{}, errors.Wrap(err, "updating investor status")
	}

	desc := "Your investor profile is now " + string(inv.Status) + "."
	if sc.Reason != "" {
		desc += " Reason: " + sc.Reason
	}
	_, err = svc.notifier.Send(ctx, notification.NewNotification{
		FromUserID: actorID,
		ToUserID:   inv.UserID,
		ToEmail:    inv.Email,
		ToName:     inv.Name,
		Title:      "Investor profile " + string(inv.Status),
		Desc:       desc,
		URL:        "/investors/" + inv.ID,
	})
	if err != nil {
		// the status change is already stored
		svc.logger.Error("notifying investor of status change", err, map[string]interface{}{"investor": inv.ID})
	}
	return inv, nil
}
