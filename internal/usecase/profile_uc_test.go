//go:build !integration

package usecase_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"telegram-profile-bridge/internal/domain"
	"telegram-profile-bridge/internal/domain/model"
	"telegram-profile-bridge/internal/usecase"
)

func i64(v int64) *int64 { return &v }

func TestProfileUseCase_Authenticate(t *testing.T) {
	ctx := context.Background()
	logger := newTestLogger()

	t.Run("should reject a missing id", func(t *testing.T) {
		repo := NewMockProfileRepo()
		uc := usecase.NewProfileUseCase(repo, logger)

		_, err := uc.Authenticate(ctx, usecase.AuthInput{FirstName: "Ada"})
		if !errors.Is(err, domain.ErrInvalidArgument) {
			t.Fatalf("expected ErrInvalidArgument, got %v", err)
		}
		if n, _ := repo.Count(ctx); n != 0 {
			t.Errorf("expected no profile to be created, got %d", n)
		}
	})

	t.Run("should be idempotent on identity fields", func(t *testing.T) {
		repo := NewMockProfileRepo()
		uc := usecase.NewProfileUseCase(repo, logger)
		in := usecase.AuthInput{ID: "42", FirstName: "Ada", LastName: "Lovelace", Username: "ada", PhotoURL: "https://t.me/a.jpg"}

		first, err := uc.Authenticate(ctx, in)
		if err != nil {
			t.Fatalf("first call failed: %v", err)
		}
		second, err := uc.Authenticate(ctx, in)
		if err != nil {
			t.Fatalf("second call failed: %v", err)
		}

		if first.Name != second.Name || first.Username != second.Username || first.Avatar != second.Avatar {
			t.Errorf("identity changed between identical calls: %+v vs %+v", first, second)
		}
		if second.Name != "Ada Lovelace" || second.Avatar != "https://t.me/a.jpg" {
			t.Errorf("unexpected identity %+v", second)
		}
		if second.UpdatedAt.Before(first.UpdatedAt) {
			t.Error("updatedAt must not go backwards")
		}
	})

	t.Run("should preserve accumulators of an existing profile", func(t *testing.T) {
		repo := NewMockProfileRepo()
		existing, _ := model.NewProfile("42", model.Identity{FirstName: "Old"}, time.Now().Add(-time.Hour))
		existing.Score = 10
		existing.Level = 3
		existing.TotalTime = 77
		existing.AppendNotification(model.Notification{Message: "kept"})
		repo.Seed(existing)
		uc := usecase.NewProfileUseCase(repo, logger)

		p, err := uc.Authenticate(ctx, usecase.AuthInput{ID: "42", FirstName: "New"})
		if err != nil {
			t.Fatalf("Authenticate failed: %v", err)
		}
		if p.Score != 10 || p.Level != 3 || p.TotalTime != 77 || len(p.Notifications) != 1 {
			t.Errorf("accumulators were reset: %+v", p)
		}
		if p.Name != "New" {
			t.Errorf("expected name New, got %q", p.Name)
		}
	})

	t.Run("should propagate repository failures", func(t *testing.T) {
		repo := NewMockProfileRepo()
		boom := errors.New("store down")
		repo.UpsertFunc = func(ctx context.Context, id model.UserID, ident model.Identity, now time.Time) (*model.Profile, bool, error) {
			return nil, false, boom
		}
		uc := usecase.NewProfileUseCase(repo, logger)

		if _, err := uc.Authenticate(ctx, usecase.AuthInput{ID: "1"}); !errors.Is(err, boom) {
			t.Fatalf("expected wrapped store error, got %v", err)
		}
	})

	t.Run("count equals distinct ids authenticated", func(t *testing.T) {
		repo := NewMockProfileRepo()
		uc := usecase.NewProfileUseCase(repo, logger)
		for _, id := range []model.UserID{"1", "2", "1", "3", "2"} {
			if _, err := uc.Authenticate(ctx, usecase.AuthInput{ID: id}); err != nil {
				t.Fatalf("Authenticate(%s) failed: %v", id, err)
			}
		}
		n, err := uc.Count(ctx)
		if err != nil || n != 3 {
			t.Errorf("expected 3 profiles, got %d (%v)", n, err)
		}
	})
}

func TestProfileUseCase_Get(t *testing.T) {
	ctx := context.Background()
	repo := NewMockProfileRepo()
	uc := usecase.NewProfileUseCase(repo, newTestLogger())

	if _, err := uc.Get(ctx, "404"); !errors.Is(err, domain.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}

	_, _ = uc.Authenticate(ctx, usecase.AuthInput{ID: "5", Username: "five"})
	p, err := uc.Get(ctx, "5")
	if err != nil || p.Username != "five" {
		t.Fatalf("got %+v, %v", p, err)
	}
}

func TestProfileUseCase_RecordProgress(t *testing.T) {
	ctx := context.Background()
	logger := newTestLogger()

	t.Run("should accumulate and raise level", func(t *testing.T) {
		repo := NewMockProfileRepo()
		p, _ := model.NewProfile("9", model.Identity{}, time.Now())
		p.Score, p.TotalTime = 5, 100
		repo.Seed(p)
		uc := usecase.NewProfileUseCase(repo, logger)

		got, err := uc.RecordProgress(ctx, "9", model.Progress{Score: i64(3), Level: i64(2), Time: i64(20)})
		if err != nil {
			t.Fatalf("RecordProgress failed: %v", err)
		}
		if got.Score != 8 || got.TotalTime != 120 || got.Level != 2 {
			t.Errorf("unexpected progress %+v", got)
		}

		got, _ = uc.RecordProgress(ctx, "9", model.Progress{Level: i64(1)})
		if got.Level != 2 {
			t.Errorf("level decreased to %d", got.Level)
		}
	})

	t.Run("should fail for unknown id without creating a profile", func(t *testing.T) {
		repo := NewMockProfileRepo()
		uc := usecase.NewProfileUseCase(repo, logger)

		_, err := uc.RecordProgress(ctx, "ghost", model.Progress{Score: i64(1)})
		if !errors.Is(err, domain.ErrNotFound) {
			t.Fatalf("expected ErrNotFound, got %v", err)
		}
		if n, _ := repo.Count(ctx); n != 0 {
			t.Errorf("expected no profile, got %d", n)
		}
	})

	t.Run("should reject a missing id", func(t *testing.T) {
		repo := NewMockProfileRepo()
		uc := usecase.NewProfileUseCase(repo, logger)

		_, err := uc.RecordProgress(ctx, "", model.Progress{})
		if !errors.Is(err, domain.ErrInvalidArgument) {
			t.Fatalf("expected ErrInvalidArgument, got %v", err)
		}
		if repo.MutateCalls != 0 {
			t.Error("store should not be touched")
		}
	})
}
