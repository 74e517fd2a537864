package senders

import (
	"context"

	"github.com/fiffu/matchday/telegram"
)

// messageAPI is the slice of the chat client a sender needs.
type messageAPI interface {
	SendMessage(ctx context.Context, chatID, html string, keyboard *telegram.InlineKeyboardMarkup) (int, error)
}

type telegramSender struct {
	api messageAPI
}

// Send delivers plain HTML with no keyboard. Failures are reported to the
// caller, which owns the logging.
func (t *telegramSender) Send(ctx context.Context, chatID, html string) error {
	_, err := t.api.SendMessage(ctx, chatID, html, nil)
	return err
}
