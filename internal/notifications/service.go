package notifications

import (
	"context"
	"encoding/json"
	"time"

	"go.uber.org/multierr"

	"github.com/taskercompanyofficial/taskercompany-api/pkg/broadcast"
	"github.com/taskercompanyofficial/taskercompany-api/pkg/db/models"
	"github.com/taskercompanyofficial/taskercompany-api/pkg/enums"
	pkgerrors "github.com/taskercompanyofficial/taskercompany-api/pkg/errors"
	"github.com/taskercompanyofficial/taskercompany-api/pkg/logger"
	"github.com/taskercompanyofficial/taskercompany-api/pkg/metrics"
	"github.com/taskercompanyofficial/taskercompany-api/pkg/pagination"
	"github.com/taskercompanyofficial/taskercompany-api/pkg/push"
)

// Broadcaster publishes events to the real-time channel CRM clients subscribe to.
type Broadcaster interface {
	Publish(ctx context.Context, event broadcast.Event) error
}

// Service defines the notification fan-out plus the staff-facing inbox operations.
type Service interface {
	// Publish fans the event out to every configured channel. Delivery failures
	// are logged and counted, never returned: callers must not fail because a
	// notification could not be delivered.
	Publish(ctx context.Context, input PublishInput)

	List(ctx context.Context, params ListParams) (*ListResult, error)
	MarkRead(ctx context.Context, userID, notificationID uint) error
	MarkAllRead(ctx context.Context, userID uint) (int64, error)
	RegisterDeviceToken(ctx context.Context, staffID uint, token string) error
}

type service struct {
	repo        Repository
	broadcaster Broadcaster
	pusher      push.Sender
	logg        *logger.Logger
	delivery    *metrics.DeliveryMetrics
}

// PublishInput describes one notification event.
type PublishInput struct {
	Title    string
	Message  string
	Severity enums.NotificationSeverity
	Link     string

	// StaffID, when set, additionally persists an inbox row and attempts a
	// push delivery to that staff member's registered device.
	StaffID uint
	Type    enums.NotificationType
	Params  map[string]any
}

// ListParams configures pagination for the staff inbox.
type ListParams struct {
	UserID     uint
	Page       pagination.Params
	UnreadOnly bool
}

// ListResult wraps inbox rows with their page metadata.
type ListResult struct {
	Items []models.Notification `json:"items"`
	Meta  pagination.Meta       `json:"meta"`
}

// NewService wires the notification fan-out dependencies.
func NewService(repo Repository, broadcaster Broadcaster, pusher push.Sender, logg *logger.Logger, delivery *metrics.DeliveryMetrics) (Service, error) {
	if repo == nil {
		return nil, pkgerrors.New(pkgerrors.CodeDependency, "notifications repository required")
	}
	if logg == nil {
		return nil, pkgerrors.New(pkgerrors.CodeDependency, "logger required")
	}
	return &service{
		repo:        repo,
		broadcaster: broadcaster,
		pusher:      pusher,
		logg:        logg,
		delivery:    delivery,
	}, nil
}

func (s *service) Publish(ctx context.Context, input PublishInput) {
	var errs error

	if s.broadcaster != nil {
		started := time.Now()
		err := s.broadcaster.Publish(ctx, broadcast.Event{
			Title:     input.Title,
			Message:   input.Message,
			Severity:  string(input.Severity),
			Link:      input.Link,
			Timestamp: started.UTC(),
		})
		s.record("broadcast", started, err)
		errs = multierr.Append(errs, err)
	}

	if input.StaffID != 0 {
		errs = multierr.Append(errs, s.deliverToStaff(ctx, input))
	}

	if errs != nil {
		fields := map[string]any{"title": input.Title, "staff_id": input.StaffID}
		s.logg.Error(s.logg.WithFields(ctx, fields), "notification.delivery", errs)
	}
}

func (s *service) deliverToStaff(ctx context.Context, input PublishInput) error {
	notifType := input.Type
	if notifType == "" {
		notifType = enums.NotificationTypeSystem
	}

	var params []byte
	if input.Params != nil {
		encoded, err := json.Marshal(input.Params)
		if err != nil {
			return err
		}
		params = encoded
	}

	row := models.Notification{
		UserID: input.StaffID,
		Title:  input.Title,
		Body:   input.Message,
		Type:   notifType,
		Params: params,
	}
	if err := s.repo.Create(ctx, &row); err != nil {
		return err
	}

	if s.pusher == nil {
		return nil
	}
	token, err := s.repo.DeviceToken(ctx, input.StaffID)
	if err != nil {
		return err
	}
	if token == "" {
		return nil
	}

	started := time.Now()
	err = s.pusher.Send(ctx, push.Message{
		To:    token,
		Title: input.Title,
		Body:  input.Message,
		Data:  input.Params,
	})
	s.record("push", started, err)
	return err
}

func (s *service) record(channel string, started time.Time, err error) {
	if s.delivery == nil {
		return
	}
	s.delivery.ObserveDuration(channel, time.Since(started))
	if err != nil {
		s.delivery.IncFailure(channel)
		return
	}
	s.delivery.IncSuccess(channel)
}

func (s *service) List(ctx context.Context, params ListParams) (*ListResult, error) {
	if params.UserID == 0 {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "user id required")
	}

	rows, total, err := s.repo.List(ctx, listNotificationsParams{
		UserID:     params.UserID,
		Page:       params.Page,
		UnreadOnly: params.UnreadOnly,
	})
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list notifications")
	}

	return &ListResult{
		Items: rows,
		Meta:  pagination.NewMeta(params.Page, total),
	}, nil
}

func (s *service) MarkRead(ctx context.Context, userID, notificationID uint) error {
	if userID == 0 {
		return pkgerrors.New(pkgerrors.CodeValidation, "user id required")
	}
	if notificationID == 0 {
		return pkgerrors.New(pkgerrors.CodeValidation, "notification id required")
	}

	found, err := s.repo.MarkRead(ctx, userID, notificationID)
	if err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "mark notification read")
	}
	if !found {
		return pkgerrors.New(pkgerrors.CodeNotFound, "notification not found")
	}
	return nil
}

func (s *service) MarkAllRead(ctx context.Context, userID uint) (int64, error) {
	if userID == 0 {
		return 0, pkgerrors.New(pkgerrors.CodeValidation, "user id required")
	}

	count, err := s.repo.MarkAllRead(ctx, userID)
	if err != nil {
		return 0, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "mark notifications read")
	}
	return count, nil
}

func (s *service) RegisterDeviceToken(ctx context.Context, staffID uint, token string) error {
	if staffID == 0 {
		return pkgerrors.New(pkgerrors.CodeValidation, "staff id required")
	}
	if token == "" {
		return pkgerrors.New(pkgerrors.CodeValidation, "push token required")
	}
	if err := s.repo.SaveDeviceToken(ctx, staffID, token); err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "save device token")
	}
	return nil
}
