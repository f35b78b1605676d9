package usecase

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"telegram-profile-bridge/internal/domain"
	"telegram-profile-bridge/internal/domain/model"
	"telegram-profile-bridge/internal/domain/ports/repository"
	"telegram-profile-bridge/internal/infra/logging"
	"telegram-profile-bridge/internal/infra/metrics"

	"github.com/oklog/ulid/v2"
	"github.com/rs/zerolog"
)

// Compile-time check
var _ NotificationUseCase = (*notificationUC)(nil)

const previewRunes = 100

// NotificationInput is an activity event reported by the Telegram client.
type NotificationInput struct {
	TelegramID   model.UserID
	Message      string
	ActivityType string
	UserData     *NotificationUser
	Metadata     json.RawMessage
}

// NotificationUser is sender info used for logging only.
type NotificationUser struct {
	Username  string `json:"username"`
	FirstName string `json:"firstName"`
}

// Receipt acknowledges an ingested notification whether or not it was stored.
type Receipt struct {
	ID        string
	Timestamp time.Time
	Stored    bool
}

type NotificationUseCase interface {
	// Ingest appends the notification to the sender's profile when one exists.
	// Unknown or absent senders are not an error.
	Ingest(ctx context.Context, in NotificationInput) (*Receipt, error)
}

type notificationUC struct {
	profiles repository.ProfileRepository
	now      func() time.Time
	log      *zerolog.Logger
}

func NewNotificationUseCase(profiles repository.ProfileRepository, logger *zerolog.Logger) *notificationUC {
	return &notificationUC{profiles: profiles, now: time.Now, log: logger}
}

func (n *notificationUC) Ingest(ctx context.Context, in NotificationInput) (*Receipt, error) {
	defer logging.TraceDuration(n.log, "NotificationUC.Ingest")()

	if len(in.Metadata) > 0 && !json.Valid(in.Metadata) {
		return nil, fmt.Errorf("malformed notification metadata")
	}

	now := n.now().UTC()
	username, firstName := "unknown", "unknown"
	if in.UserData != nil {
		if in.UserData.Username != "" {
			username = in.UserData.Username
		}
		if in.UserData.FirstName != "" {
			firstName = in.UserData.FirstName
		}
	}
	logging.With(ctx, n.log).Info().
		Str("telegram_id", in.TelegramID.String()).
		Str("username", username).
		Str("first_name", firstName).
		Str("activity_type", in.ActivityType).
		Str("message", logging.Preview(in.Message, previewRunes)).
		Time("timestamp", now).
		Msg("received notification from telegram user")

	receipt := &Receipt{ID: ulid.Make().String(), Timestamp: now}
	if in.TelegramID.IsZero() {
		metrics.IncNotification("dropped")
		return receipt, nil
	}

	entry := model.Notification{
		Message:      in.Message,
		ActivityType: in.ActivityType,
		Timestamp:    now,
		Metadata:     in.Metadata,
	}
	_, err := n.profiles.Mutate(ctx, in.TelegramID, func(p *model.Profile) error {
		p.AppendNotification(entry)
		return nil
	})
	switch {
	case err == nil:
		receipt.Stored = true
		metrics.IncNotification("stored")
	case errors.Is(err, domain.ErrNotFound):
		metrics.IncNotification("dropped")
	default:
		return nil, fmt.Errorf("store notification for %s: %w", in.TelegramID, err)
	}
	return receipt, nil
}
