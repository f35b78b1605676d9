package repository

import (
	"context"
	"time"

	"telegram-profile-bridge/internal/domain/model"
)

// -----------------------------
// Profiles
// -----------------------------

// ProfileRepository holds profiles keyed by external user id.
// Implementations must serialize mutations of the same profile.
type ProfileRepository interface {
	// Get returns a copy of the profile or domain.ErrNotFound.
	Get(ctx context.Context, id model.UserID) (*model.Profile, error)
	// Upsert creates the profile or overwrites its identity fields.
	// created reports whether the id was new.
	Upsert(ctx context.Context, id model.UserID, ident model.Identity, now time.Time) (p *model.Profile, created bool, err error)
	// Mutate applies fn to an existing profile; domain.ErrNotFound when absent.
	// An error from fn discards the change.
	Mutate(ctx context.Context, id model.UserID, fn func(p *model.Profile) error) (*model.Profile, error)
	Count(ctx context.Context) (int, error)
}
