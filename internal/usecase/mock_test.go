//go:build !integration

package usecase_test

import (
	"context"
	"encoding/json"
	"io"
	"sync"
	"time"

	"telegram-profile-bridge/internal/domain"
	"telegram-profile-bridge/internal/domain/model"
	"telegram-profile-bridge/internal/domain/ports/adapter"
	"telegram-profile-bridge/internal/domain/ports/repository"

	"github.com/rs/zerolog"
)

func newTestLogger() *zerolog.Logger {
	logger := zerolog.New(io.Discard)
	return &logger
}

// --- Mock ProfileRepository ---

var _ repository.ProfileRepository = (*MockProfileRepo)(nil)

// MockProfileRepo keeps profiles in a map; any Func field overrides the default behaviour.
type MockProfileRepo struct {
	mu       sync.Mutex
	profiles map[model.UserID]*model.Profile

	GetFunc    func(ctx context.Context, id model.UserID) (*model.Profile, error)
	UpsertFunc func(ctx context.Context, id model.UserID, ident model.Identity, now time.Time) (*model.Profile, bool, error)
	MutateFunc func(ctx context.Context, id model.UserID, fn func(p *model.Profile) error) (*model.Profile, error)
	CountFunc  func(ctx context.Context) (int, error)

	MutateCalls int
}

func NewMockProfileRepo() *MockProfileRepo {
	return &MockProfileRepo{profiles: make(map[model.UserID]*model.Profile)}
}

// Seed stores p directly, bypassing Upsert.
func (m *MockProfileRepo) Seed(p *model.Profile) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.profiles[p.ID] = p.Clone()
}

func (m *MockProfileRepo) Get(ctx context.Context, id model.UserID) (*model.Profile, error) {
	if m.GetFunc != nil {
		return m.GetFunc(ctx, id)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	p, ok := m.profiles[id]
	if !ok {
		return nil, domain.ErrNotFound
	}
	return p.Clone(), nil
}

func (m *MockProfileRepo) Upsert(ctx context.Context, id model.UserID, ident model.Identity, now time.Time) (*model.Profile, bool, error) {
	if m.UpsertFunc != nil {
		return m.UpsertFunc(ctx, id, ident, now)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	if p, ok := m.profiles[id]; ok {
		p.ApplyIdentity(ident, now)
		return p.Clone(), false, nil
	}
	p, err := model.NewProfile(id, ident, now)
	if err != nil {
		return nil, false, err
	}
	m.profiles[id] = p
	return p.Clone(), true, nil
}

func (m *MockProfileRepo) Mutate(ctx context.Context, id model.UserID, fn func(p *model.Profile) error) (*model.Profile, error) {
	m.mu.Lock()
	m.MutateCalls++
	m.mu.Unlock()
	if m.MutateFunc != nil {
		return m.MutateFunc(ctx, id, fn)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	p, ok := m.profiles[id]
	if !ok {
		return nil, domain.ErrNotFound
	}
	work := p.Clone()
	if err := fn(work); err != nil {
		return nil, err
	}
	m.profiles[id] = work
	return work.Clone(), nil
}

func (m *MockProfileRepo) Count(ctx context.Context) (int, error) {
	if m.CountFunc != nil {
		return m.CountFunc(ctx)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.profiles), nil
}

// --- Mock PinningService ---

var _ adapter.PinningService = (*MockPinningService)(nil)

type MockPinningService struct {
	PinFunc   func(ctx context.Context, b adapter.Blob) (string, error)
	FetchFunc func(ctx context.Context, hash string) (json.RawMessage, error)

	PinCalls   int
	FetchCalls int
	LastBlob   adapter.Blob
}

func (m *MockPinningService) Pin(ctx context.Context, b adapter.Blob) (string, error) {
	m.PinCalls++
	m.LastBlob = b
	if m.PinFunc != nil {
		return m.PinFunc(ctx, b)
	}
	return "QmMock", nil
}

func (m *MockPinningService) Fetch(ctx context.Context, hash string) (json.RawMessage, error) {
	m.FetchCalls++
	if m.FetchFunc != nil {
		return m.FetchFunc(ctx, hash)
	}
	return json.RawMessage(`{}`), nil
}

// --- Mock TelegramChatAdapter ---

type MockChatAdapter struct {
	GetChatFunc func(ctx context.Context, chatID int64) (*adapter.ChatInfo, error)
}

func (m *MockChatAdapter) GetChat(ctx context.Context, chatID int64) (*adapter.ChatInfo, error) {
	if m.GetChatFunc != nil {
		return m.GetChatFunc(ctx, chatID)
	}
	return &adapter.ChatInfo{ID: chatID, Type: "private"}, nil
}
