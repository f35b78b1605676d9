//go:build !integration

package usecase_test

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"testing"
	"time"

	"telegram-profile-bridge/internal/domain/model"
	"telegram-profile-bridge/internal/usecase"
)

func TestNotificationUseCase_Ingest(t *testing.T) {
	ctx := context.Background()
	logger := newTestLogger()

	t.Run("should append to an existing profile", func(t *testing.T) {
		repo := NewMockProfileRepo()
		p, _ := model.NewProfile("42", model.Identity{}, time.Now())
		repo.Seed(p)
		uc := usecase.NewNotificationUseCase(repo, logger)

		long := strings.Repeat("x", 250)
		receipt, err := uc.Ingest(ctx, usecase.NotificationInput{
			TelegramID:   "42",
			Message:      long,
			ActivityType: "quiz_completed",
			UserData:     &usecase.NotificationUser{Username: "ada"},
			Metadata:     json.RawMessage(`{"score":7}`),
		})
		if err != nil {
			t.Fatalf("Ingest failed: %v", err)
		}
		if !receipt.Stored || receipt.ID == "" || receipt.Timestamp.IsZero() {
			t.Errorf("unexpected receipt %+v", receipt)
		}

		got, _ := repo.Get(ctx, "42")
		if len(got.Notifications) != 1 {
			t.Fatalf("expected 1 notification, got %d", len(got.Notifications))
		}
		n := got.Notifications[0]
		if n.Message != long {
			t.Error("stored message must not be truncated")
		}
		if n.ActivityType != "quiz_completed" || string(n.Metadata) != `{"score":7}` {
			t.Errorf("unexpected entry %+v", n)
		}
	})

	t.Run("should keep only the most recent entries", func(t *testing.T) {
		repo := NewMockProfileRepo()
		p, _ := model.NewProfile("1", model.Identity{}, time.Now())
		repo.Seed(p)
		uc := usecase.NewNotificationUseCase(repo, logger)

		for i := 0; i < model.MaxNotifications+1; i++ {
			if _, err := uc.Ingest(ctx, usecase.NotificationInput{TelegramID: "1", Message: fmt.Sprint(i)}); err != nil {
				t.Fatalf("Ingest %d failed: %v", i, err)
			}
		}
		got, _ := repo.Get(ctx, "1")
		if len(got.Notifications) != model.MaxNotifications {
			t.Fatalf("expected %d, got %d", model.MaxNotifications, len(got.Notifications))
		}
		if got.Notifications[0].Message != "1" || got.Notifications[model.MaxNotifications-1].Message != fmt.Sprint(model.MaxNotifications) {
			t.Errorf("wrong window kept: first=%q last=%q", got.Notifications[0].Message, got.Notifications[model.MaxNotifications-1].Message)
		}
	})

	t.Run("should acknowledge unknown users without creating profiles", func(t *testing.T) {
		repo := NewMockProfileRepo()
		uc := usecase.NewNotificationUseCase(repo, logger)

		receipt, err := uc.Ingest(ctx, usecase.NotificationInput{TelegramID: "999", Message: "hi"})
		if err != nil {
			t.Fatalf("expected no error, got %v", err)
		}
		if receipt.Stored {
			t.Error("nothing should be stored for an unknown user")
		}
		if n, _ := repo.Count(ctx); n != 0 {
			t.Errorf("expected no profiles, got %d", n)
		}
	})

	t.Run("should not touch the store without a telegram id", func(t *testing.T) {
		repo := NewMockProfileRepo()
		uc := usecase.NewNotificationUseCase(repo, logger)

		if _, err := uc.Ingest(ctx, usecase.NotificationInput{Message: "anon"}); err != nil {
			t.Fatalf("expected no error, got %v", err)
		}
		if repo.MutateCalls != 0 {
			t.Errorf("expected no store calls, got %d", repo.MutateCalls)
		}
	})

	t.Run("should report malformed metadata", func(t *testing.T) {
		uc := usecase.NewNotificationUseCase(NewMockProfileRepo(), logger)
		if _, err := uc.Ingest(ctx, usecase.NotificationInput{Metadata: json.RawMessage(`{broken`)}); err == nil {
			t.Fatal("expected an error")
		}
	})

	t.Run("should surface store failures", func(t *testing.T) {
		repo := NewMockProfileRepo()
		boom := errors.New("boom")
		repo.MutateFunc = func(ctx context.Context, id model.UserID, fn func(p *model.Profile) error) (*model.Profile, error) {
			return nil, boom
		}
		uc := usecase.NewNotificationUseCase(repo, logger)
		if _, err := uc.Ingest(ctx, usecase.NotificationInput{TelegramID: "1"}); !errors.Is(err, boom) {
			t.Fatalf("expected store error, got %v", err)
		}
	})

	t.Run("receipt ids are unique", func(t *testing.T) {
		uc := usecase.NewNotificationUseCase(NewMockProfileRepo(), logger)
		seen := map[string]bool{}
		for i := 0; i < 100; i++ {
			r, _ := uc.Ingest(ctx, usecase.NotificationInput{})
			if seen[r.ID] {
				t.Fatalf("duplicate receipt id %s", r.ID)
			}
			seen[r.ID] = true
		}
	})
}
