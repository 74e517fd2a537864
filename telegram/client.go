// Package telegram is a thin client for the Telegram Bot API methods this
// bot uses: long polling, sending and editing HTML messages, and answering
// callback queries.
package telegram

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/carlmjohnson/requests"
	"github.com/fiffu/matchday/config"
	"go.uber.org/fx"
	"go.uber.org/zap"
)

const (
	apiBase     = "https://api.telegram.org"
	callTimeout = 10 * time.Second
)

type Client struct {
	log       *zap.Logger
	transport http.RoundTripper
	base      string
	token     string
}

func NewClient(lc fx.Lifecycle, cfg *config.Config, log *zap.Logger, transport http.RoundTripper) *Client {
	return newClient(apiBase, cfg.BotToken, log, transport)
}

func newClient(base, token string, log *zap.Logger, transport http.RoundTripper) *Client {
	return &Client{log, transport, base, token}
}

// SendMessage sends an HTML-formatted message, optionally with an inline
// keyboard, and returns the new message id.
func (c *Client) SendMessage(ctx context.Context, chatID, html string, keyboard *InlineKeyboardMarkup) (int, error) {
	body := map[string]any{
		"chat_id":    chatID,
		"text":       html,
		"parse_mode": "HTML",
	}
	if keyboard != nil {
		body["reply_markup"] = keyboard
	}

	var msg Message
	if err := c.call(ctx, "sendMessage", body, &msg); err != nil {
		return 0, err
	}
	return msg.MessageID, nil
}

// EditMessageText replaces the text (and keyboard) of a previously sent
// message.
func (c *Client) EditMessageText(ctx context.Context, chatID string, messageID int, html string, keyboard *InlineKeyboardMarkup) error {
	body := map[string]any{
		"chat_id":    chatID,
		"message_id": messageID,
		"text":       html,
		"parse_mode": "HTML",
	}
	if keyboard != nil {
		body["reply_markup"] = keyboard
	}
	return c.call(ctx, "editMessageText", body, nil)
}

func (c *Client) DeleteMessage(ctx context.Context, chatID string, messageID int) error {
	return c.call(ctx, "deleteMessage", map[string]any{
		"chat_id":    chatID,
		"message_id": messageID,
	}, nil)
}

// AnswerCallbackQuery acknowledges a button press so the client stops
// showing a progress spinner.
func (c *Client) AnswerCallbackQuery(ctx context.Context, callbackID string) error {
	return c.call(ctx, "answerCallbackQuery", map[string]any{
		"callback_query_id": callbackID,
	}, nil)
}

// GetUpdates long-polls for updates after offset, blocking up to timeoutSecs
// server-side.
func (c *Client) GetUpdates(ctx context.Context, offset, timeoutSecs int) ([]Update, error) {
	ctx, cancel := context.WithTimeout(ctx, time.Duration(timeoutSecs+10)*time.Second)
	defer cancel()

	var env envelope
	err := requests.URL(c.methodURL("getUpdates")).
		Transport(c.transport).
		BodyJSON(map[string]any{
			"offset":  offset,
			"timeout": timeoutSecs,
		}).
		ToJSON(&env).
		Fetch(ctx)
	if err != nil {
		return nil, err
	}
	if !env.OK {
		return nil, fmt.Errorf("telegram getUpdates: %s", env.Description)
	}

	var updates []Update
	if err := json.Unmarshal(env.Result, &updates); err != nil {
		return nil, err
	}
	return updates, nil
}

func (c *Client) call(ctx context.Context, method string, body map[string]any, out any) error {
	ctx, cancel := context.WithTimeout(ctx, callTimeout)
	defer cancel()

	var env envelope
	err := requests.URL(c.methodURL(method)).
		Transport(c.transport).
		BodyJSON(body).
		ToJSON(&env).
		Fetch(ctx)
	if err != nil {
		return fmt.Errorf("telegram %s: %w", method, err)
	}
	if !env.OK {
		return fmt.Errorf("telegram %s: %s", method, env.Description)
	}
	if out != nil && len(env.Result) > 0 {
		return json.Unmarshal(env.Result, out)
	}
	return nil
}

func (c *Client) methodURL(method string) string {
	return fmt.Sprintf("%s/bot%s/%s", c.base, c.token, method)
}
