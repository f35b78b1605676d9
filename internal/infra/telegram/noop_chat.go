package telegram

import (
	"context"

	"telegram-profile-bridge/internal/domain"
	"telegram-profile-bridge/internal/domain/ports/adapter"
)

var _ adapter.TelegramChatAdapter = (*NoopChatAdapter)(nil)

// NoopChatAdapter stands in when no bot token is configured.
type NoopChatAdapter struct{}

func NewNoopChatAdapter() *NoopChatAdapter { return &NoopChatAdapter{} }

func (NoopChatAdapter) GetChat(ctx context.Context, chatID int64) (*adapter.ChatInfo, error) {
	return nil, domain.ErrNotConfigured
}
