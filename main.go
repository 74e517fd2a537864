package main

import (
	"net/http"
	"os"
	"time"

	"github.com/fiffu/matchday/app"
	"github.com/fiffu/matchday/bot"
	"github.com/fiffu/matchday/config"
	"github.com/fiffu/matchday/footballdata"
	"github.com/fiffu/matchday/prefs"
	"github.com/fiffu/matchday/scheduler"
	"github.com/fiffu/matchday/senders"
	"github.com/fiffu/matchday/telegram"
	"go.uber.org/fx"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

func NewLogger() (*zap.Logger, error) {
	switch os.Getenv("ENVIRONMENT") {
	default:
		return zap.NewDevelopment()

	case "production":
		logCfg := zap.NewProductionConfig()
		logCfg.EncoderConfig.EncodeTime = func(t time.Time, enc zapcore.PrimitiveArrayEncoder) {
			t = t.UTC()
			zapcore.ISO8601TimeEncoder(t, enc)
		}
		return logCfg.Build()
	}
}

func main() {
	fx.New(
		fx.Provide(NewLogger),
		fx.Provide(config.NewConfig),

		fx.Provide(app.NewDatabase),
		fx.Provide(app.NewTransport),
		fx.Provide(app.NewServer),

		fx.Provide(prefs.NewStore),
		fx.Provide(footballdata.NewClient),
		fx.Provide(telegram.NewClient),
		fx.Provide(senders.NewSenderRegistry),
		fx.Provide(scheduler.NewScheduler),
		fx.Provide(bot.NewBot),

		fx.Invoke(func(*http.Server, *scheduler.Scheduler, *bot.Bot) {}),
	).Run()
}
