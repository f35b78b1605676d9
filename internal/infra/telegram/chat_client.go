package telegram

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	"telegram-profile-bridge/internal/config"
	"telegram-profile-bridge/internal/domain"
	"telegram-profile-bridge/internal/domain/ports/adapter"
)

var _ adapter.TelegramChatAdapter = (*ChatClient)(nil)

// ChatClient resolves chats through the Bot API getChat method.
type ChatClient struct {
	bot *tgbotapi.BotAPI
}

// NewChatClient authenticates the bot token (getMe) and returns a ready client.
// httpClient may be nil.
func NewChatClient(cfg *config.BotConfig, httpClient *http.Client) (*ChatClient, error) {
	if cfg == nil || cfg.Token == "" {
		return nil, errors.New("bot token is empty")
	}
	endpoint := cfg.APIEndpoint
	if endpoint == "" {
		endpoint = tgbotapi.APIEndpoint
	}
	if httpClient == nil {
		httpClient = &http.Client{}
	}
	bot, err := tgbotapi.NewBotAPIWithClient(cfg.Token, endpoint, httpClient)
	if err != nil {
		return nil, fmt.Errorf("telegram: %w", err)
	}
	return &ChatClient{bot: bot}, nil
}

// BotUsername is the username the token authenticated as.
func (c *ChatClient) BotUsername() string { return c.bot.Self.UserName }

// GetChat calls getChat. tgbotapi has no context support, so the call runs in
// its own goroutine and the caller stops waiting when ctx ends.
func (c *ChatClient) GetChat(ctx context.Context, chatID int64) (*adapter.ChatInfo, error) {
	type result struct {
		chat tgbotapi.Chat
		err  error
	}
	done := make(chan result, 1)
	go func() {
		chat, err := c.bot.GetChat(tgbotapi.ChatInfoConfig{ChatConfig: tgbotapi.ChatConfig{ChatID: chatID}})
		done <- result{chat: chat, err: err}
	}()

	select {
	case <-ctx.Done():
		return nil, fmt.Errorf("%w: getChat: %v", domain.ErrUpstream, ctx.Err())
	case res := <-done:
		if res.err != nil {
			return nil, mapError(res.err)
		}
		ch := res.chat
		return &adapter.ChatInfo{
			ID:        ch.ID,
			Type:      ch.Type,
			Title:     ch.Title,
			Username:  ch.UserName,
			FirstName: ch.FirstName,
			LastName:  ch.LastName,
			Bio:       ch.Bio,
		}, nil
	}
}

func mapError(err error) error {
	var apiErr *tgbotapi.Error
	if errors.As(err, &apiErr) {
		if apiErr.Code == http.StatusBadRequest && strings.Contains(strings.ToLower(apiErr.Message), "not found") {
			return fmt.Errorf("%w: %s", domain.ErrNotFound, apiErr.Message)
		}
		return fmt.Errorf("%w: telegram error %d: %s", domain.ErrUpstream, apiErr.Code, apiErr.Message)
	}
	return fmt.Errorf("%w: getChat: %v", domain.ErrUpstream, err)
}
