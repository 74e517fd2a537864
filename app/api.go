package app

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/fiffu/matchday/config"
	"github.com/fiffu/matchday/prefs"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"go.uber.org/fx"
	"go.uber.org/zap"
)

// NewServer serves the operational endpoints. All subscriber interaction
// happens over the chat transport; this surface is health checks only.
func NewServer(lc fx.Lifecycle, cfg *config.Config, log *zap.Logger, store *prefs.Store) *http.Server {
	addr := fmt.Sprintf(":%d", cfg.ServerPort)
	srv := &http.Server{Addr: addr, Handler: router(log, store)}

	lc.Append(fx.Hook{
		OnStart: func(ctx context.Context) error {
			go srv.ListenAndServe()
			return nil
		},
		OnStop: srv.Shutdown,
	})

	return srv
}

func router(log *zap.Logger, store *prefs.Store) http.Handler {
	startedAt := time.Now().UTC()

	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Recoverer)
	r.Use(middleware.Timeout(10 * time.Second))

	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("ok"))
	})

	r.Get("/status", func(w http.ResponseWriter, r *http.Request) {
		subs, err := store.ListAll(r.Context())
		if err != nil {
			log.Sugar().Errorw("status: failed to list subscribers", "err", err)
			http.Error(w, err.Error(), http.StatusInternalServerError)
			return
		}

		body, _ := json.Marshal(map[string]any{
			"uptime_secs": int(time.Since(startedAt).Seconds()),
			"subscribers": len(subs),
		})
		w.Header().Set("Content-Type", "application/json")
		w.Write(body)
	})

	return r
}
