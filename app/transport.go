package app

import (
	"net/http"

	"github.com/google/uuid"
	"go.uber.org/fx"
	"go.uber.org/zap"
)

func NewTransport(lc fx.Lifecycle, log *zap.Logger) http.RoundTripper {
	return &transport{http.DefaultTransport, log}
}

type transport struct {
	base http.RoundTripper
	log  *zap.Logger
}

func (tpt *transport) RoundTrip(req *http.Request) (*http.Response, error) {
	requestID := uuid.NewString()

	resp, err := tpt.base.RoundTrip(req)
	if err != nil {
		tpt.log.Sugar().Warnw("Outbound request failed",
			"request_id", requestID, "method", req.Method, "host", req.URL.Host, "err", err)
		return resp, err
	}

	tpt.log.Sugar().Debugw("Outbound request",
		"request_id", requestID, "method", req.Method, "host", req.URL.Host, "status", resp.StatusCode)
	return resp, nil
}
