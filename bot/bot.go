// Package bot runs the chat command surface: a long-polling update loop,
// command and button handlers, and the info views they render.
package bot

import (
	"context"
	"os"
	"strings"
	"time"

	"github.com/fiffu/matchday/config"
	"github.com/fiffu/matchday/footballdata"
	"github.com/fiffu/matchday/prefs"
	"github.com/fiffu/matchday/telegram"
	"go.uber.org/fx"
	"go.uber.org/zap"
)

const (
	longPollSecs  = 30
	pollRetryWait = 5 * time.Second
	handleTimeout = 60 * time.Second
)

type Bot struct {
	log        *zap.Logger
	cfg        *config.Config
	store      *prefs.Store
	gateway    *footballdata.Client
	api        *telegram.Client
	shutdowner fx.Shutdowner

	cancel context.CancelFunc
}

func NewBot(
	lc fx.Lifecycle,
	cfg *config.Config,
	log *zap.Logger,
	store *prefs.Store,
	gateway *footballdata.Client,
	api *telegram.Client,
	shutdowner fx.Shutdowner,
) *Bot {
	b := &Bot{
		log:        log,
		cfg:        cfg,
		store:      store,
		gateway:    gateway,
		api:        api,
		shutdowner: shutdowner,
	}

	lc.Append(fx.Hook{
		OnStart: func(ctx context.Context) error {
			b.Start()
			return nil
		},
		OnStop: func(ctx context.Context) error {
			b.Stop()
			return nil
		},
	})

	return b
}

func (b *Bot) Start() {
	ctx, cancel := context.WithCancel(context.Background())
	b.cancel = cancel

	go func() {
		b.announceRestart(ctx)
		b.poll(ctx)
	}()
	b.log.Sugar().Info("Bot started, long-polling for updates")
}

func (b *Bot) Stop() {
	if b.cancel != nil {
		b.cancel()
	}
	b.log.Sugar().Info("Bot stopped")
}

func (b *Bot) poll(ctx context.Context) {
	offset := 0
	for {
		select {
		case <-ctx.Done():
			return
		default:
		}

		updates, err := b.api.GetUpdates(ctx, offset, longPollSecs)
		if err != nil {
			if ctx.Err() != nil {
				return
			}
			b.log.Sugar().Warnw("Failed to poll updates", "err", err)
			time.Sleep(pollRetryWait)
			continue
		}

		for _, update := range updates {
			offset = update.UpdateID + 1
			b.handleUpdate(ctx, update)
		}
	}
}

func (b *Bot) handleUpdate(ctx context.Context, update telegram.Update) {
	ctx, cancel := context.WithTimeout(ctx, handleTimeout)
	defer cancel()

	switch {
	case update.Message != nil && strings.HasPrefix(update.Message.Text, "/"):
		b.handleCommand(ctx, update.Message)
	case update.CallbackQuery != nil:
		b.handleCallback(ctx, update.CallbackQuery)
	}
}

// announceRestart confirms a /restart-triggered restart to the chat that
// requested it, then clears the flag.
func (b *Bot) announceRestart(ctx context.Context) {
	raw, err := os.ReadFile(b.cfg.RestartFlagPath)
	if err != nil {
		return
	}
	os.Remove(b.cfg.RestartFlagPath)

	chatID := strings.TrimSpace(string(raw))
	if chatID == "" {
		return
	}

	_, err = b.api.SendMessage(ctx, chatID, "✅ Bot updated and restarted successfully!", menuKeyboard())
	if err != nil {
		b.log.Sugar().Warnw("Failed to send restart confirmation", "chat_id", chatID, "err", err)
		return
	}
	b.log.Sugar().Infow("Restart confirmation sent", "chat_id", chatID)
}
