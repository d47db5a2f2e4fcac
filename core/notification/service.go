package notification

import (
	"context"
	"net/mail"

	"github.com/google/uuid"
	"github.com/pkg/errors"

	"github.com/startupsl/backend/core"
)

const emailTemplate = "notification"

var ErrNotFound = core.NewNotFoundError("notification")

type (
	Repository interface {
		Create(ctx context.Context, n Notification) (Notification, error)
		GetByID(ctx context.Context, id string) (Notification, error)
		ListForUser(ctx context.Context, userID string) ([]Notification, error)
		Update(ctx context.Context, n Notification) (Notification, error)
		// MarkAllRead marks every unread notification of userID as read and returns how many changed.
		MarkAllRead(ctx context.Context, userID string) (int, error)
	}

	// NewNotification describes a notification to deliver.
	// When ToEmail is set, the recipient is also emailed.
	NewNotification struct {
		FromUserID string
		ToUserID   string
		ToEmail    string
		ToName     string
		Title      string
		Desc       string
		URL        string
	}

	emailData struct {
		Title string
		Desc  string
		URL   string
	}

	Service struct {
		repo    Repository
		mailSvc core.EmailService
	}
)

func NewService(repo Repository, mailSvc core.EmailService) *Service {
	return &Service{repo: repo, mailSvc: mailSvc}
}

// Send stores the notification for its recipient and emails them when an address is known.
func (svc *Service) Send(ctx context.Context, nn NewNotification) (Notification, error) {
	if nn.ToUserID == "" {
		return Notification{}, errors.New("notification has no recipient")
	}
	n, err := svc.repo.Create(ctx, Notification{
		ID:         uuid.New().String(),
		FromUserID: nn.FromUserID,
		ToUserID:   nn.ToUserID,
		Title:      core.CleanString(nn.Title),
		Desc:       core.CleanString(nn.Desc),
		URL:        nn.URL,
		CreatedAt:  core.NowFunc(),
	})
	if err != nil {
		return Notification{}, errors.Wrap(err, "creating notification")
	}

	if nn.ToEmail != "" && svc.mailSvc != nil {
		svc.mailSvc.SendMessages(&core.EmailMessage{
			To:           []mail.Address{{Name: nn.ToName, Address: nn.ToEmail}},
			Subject:      n.Title,
			TemplateName: emailTemplate,
			TemplateData: emailData{Title: n.Title, Desc: n.Desc, URL: n.URL},
		})
	}
	return n, nil
}

// ListForUser returns the notifications addressed to userID, newest first.
func (svc *Service) ListForUser(ctx context.Context, userID string) ([]Notification, error) {
	ns, err := svc.repo.ListForUser(ctx, userID)
	if err != nil {
		return nil, errors.Wrap(err, "listing notifications")
	}
	SortNewestFirst(ns)
	return ns, nil
}

func (svc *Service) UnreadCount(ctx context.Context, userID string) (int, error) {
	ns, err := svc.repo.ListForUser(ctx, userID)
	if err != nil {
		return 0, errors.Wrap(err, "listing notifications")
	}
	return UnreadCount(ns), nil
}

// MarkRead marks the notification as read. Marking an already read notification succeeds without writing.
// Notifications addressed to someone else are reported as not found.
func (svc *Service) MarkRead(ctx context.Context, userID, id string) (Notification, error) {
	n, err := svc.repo.GetByID(ctx, id)
	if err != nil {
		return Notification{}, err
	}
	if n.ToUserID != userID {
		return Notification{}, ErrNotFound
	}
	if !MarkRead(&n) {
		return n, nil
	}
	n, err = svc.repo.Update(ctx, n)
	return n, errors.Wrap(err, "marking notification read")
}

func (svc *Service) MarkAllRead(ctx context.Context, userID string) (int, error) {
	n, err := svc.repo.MarkAllRead(ctx, userID)
	return n, errors.Wrap(err, "marking notifications read")
}
