package usecase

import (
	"context"
	"fmt"

	"telegram-profile-bridge/internal/domain"
	"telegram-profile-bridge/internal/domain/model"
	"telegram-profile-bridge/internal/domain/ports/adapter"
	"telegram-profile-bridge/internal/infra/logging"

	"github.com/rs/zerolog"
)

// Compile-time check
var _ ChatUseCase = (*chatUC)(nil)

type ChatUseCase interface {
	Lookup(ctx context.Context, id model.UserID) (*adapter.ChatInfo, error)
}

type chatUC struct {
	chats adapter.TelegramChatAdapter
	log   *zerolog.Logger
}

func NewChatUseCase(chats adapter.TelegramChatAdapter, logger *zerolog.Logger) *chatUC {
	return &chatUC{chats: chats, log: logger}
}

func (c *chatUC) Lookup(ctx context.Context, id model.UserID) (*adapter.ChatInfo, error) {
	defer logging.TraceDuration(c.log, "ChatUC.Lookup")()

	chatID, ok := id.Int64()
	if !ok {
		return nil, fmt.Errorf("chat id %q is not numeric: %w", id, domain.ErrInvalidArgument)
	}
	info, err := c.chats.GetChat(ctx, chatID)
	if err != nil {
		logging.With(ctx, c.log).Warn().Err(err).Int64("chat_id", chatID).Msg("getChat failed")
		return nil, err
	}
	return info, nil
}
