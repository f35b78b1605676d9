package usecase

import (
	"context"
	"errors"
	"fmt"
	"time"

	"telegram-profile-bridge/internal/domain"
	"telegram-profile-bridge/internal/domain/model"
	"telegram-profile-bridge/internal/domain/ports/repository"
	"telegram-profile-bridge/internal/infra/logging"
	"telegram-profile-bridge/internal/infra/metrics"

	"github.com/rs/zerolog"
)

// Compile-time check
var _ ProfileUseCase = (*profileUC)(nil)

// AuthInput is the Telegram login callback payload.
type AuthInput struct {
	ID        model.UserID
	FirstName string
	LastName  string
	Username  string
	PhotoURL  string
}

// ProfileUseCase covers profile creation, lookup and progress accounting.
type ProfileUseCase interface {
	Authenticate(ctx context.Context, in AuthInput) (*model.Profile, error)
	Get(ctx context.Context, id model.UserID) (*model.Profile, error)
	RecordProgress(ctx context.Context, id model.UserID, in model.Progress) (*model.Profile, error)
	Count(ctx context.Context) (int, error)
}

type profileUC struct {
	profiles repository.ProfileRepository
	now      func() time.Time
	log      *zerolog.Logger
}

func NewProfileUseCase(profiles repository.ProfileRepository, logger *zerolog.Logger) *profileUC {
	return &profileUC{profiles: profiles, now: time.Now, log: logger}
}

func (u *profileUC) Authenticate(ctx context.Context, in AuthInput) (*model.Profile, error) {
	defer logging.TraceDuration(u.log, "ProfileUC.Authenticate")()

	if in.ID.IsZero() {
		return nil, fmt.Errorf("no telegram user id: %w", domain.ErrInvalidArgument)
	}
	p, created, err := u.profiles.Upsert(ctx, in.ID, model.Identity{
		FirstName: in.FirstName,
		LastName:  in.LastName,
		Username:  in.Username,
		Avatar:    in.PhotoURL,
	}, u.now())
	if err != nil {
		return nil, fmt.Errorf("upsert profile %s: %w", in.ID, err)
	}

	result := "updated"
	if created {
		result = "created"
		if n, err := u.profiles.Count(ctx); err == nil {
			metrics.SetProfilesStored(n)
		}
	}
	metrics.IncAuthUpsert(result)

	logging.With(ctx, u.log).Info().
		Str("profile_id", p.ID.String()).
		Str("username", p.Username).
		Str("result", result).
		Msg("telegram user saved")
	return p, nil
}

func (u *profileUC) Get(ctx context.Context, id model.UserID) (*model.Profile, error) {
	defer logging.TraceDuration(u.log, "ProfileUC.Get")()
	if id.IsZero() {
		return nil, domain.ErrInvalidArgument
	}
	return u.profiles.Get(ctx, id)
}

// RecordProgress only touches existing profiles; it never creates one.
func (u *profileUC) RecordProgress(ctx context.Context, id model.UserID, in model.Progress) (*model.Profile, error) {
	defer logging.TraceDuration(u.log, "ProfileUC.RecordProgress")()

	if id.IsZero() {
		metrics.IncProgressUpdate("unknown_user")
		return nil, fmt.Errorf("missing user id: %w", domain.ErrInvalidArgument)
	}
	p, err := u.profiles.Mutate(ctx, id, func(p *model.Profile) error {
		p.ApplyProgress(in)
		return nil
	})
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			metrics.IncProgressUpdate("unknown_user")
		}
		return nil, err
	}
	metrics.IncProgressUpdate("applied")
	return p, nil
}

func (u *profileUC) Count(ctx context.Context) (int, error) {
	defer logging.TraceDuration(u.log, "ProfileUC.Count")()
	return u.profiles.Count(ctx)
}
