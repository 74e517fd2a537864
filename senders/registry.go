package senders

import (
	"context"

	"github.com/fiffu/matchday/config"
	"github.com/fiffu/matchday/telegram"
	"go.uber.org/fx"
	"go.uber.org/zap"
)

// Sender delivers one formatted HTML message to a subscriber's chat endpoint.
// Delivery is best effort; callers log failures and move on.
type Sender interface {
	Send(ctx context.Context, chatID, html string) error
}

type Registry map[string]Sender

func NewSenderRegistry(lc fx.Lifecycle, log *zap.Logger, cfg *config.Config, api *telegram.Client) Registry {
	return Registry{
		"telegram": &telegramSender{api: api},
	}
}
