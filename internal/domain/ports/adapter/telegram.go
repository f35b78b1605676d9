package adapter

import "context"

// ChatInfo is the subset of Telegram's getChat result we expose.
type ChatInfo struct {
	ID        int64  `json:"id"`
	Type      string `json:"type"`
	Title     string `json:"title,omitempty"`
	Username  string `json:"username,omitempty"`
	FirstName string `json:"first_name,omitempty"`
	LastName  string `json:"last_name,omitempty"`
	Bio       string `json:"bio,omitempty"`
}

type TelegramChatAdapter interface {
	GetChat(ctx context.Context, chatID int64) (*ChatInfo, error)
}
