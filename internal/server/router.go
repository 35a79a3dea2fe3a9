// Package server assembles the HTTP API from its handlers and
// middleware.
package server

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/scanvocab/scanvocab/internal/server/handlers"
	"github.com/scanvocab/scanvocab/internal/server/jwt"
	"github.com/scanvocab/scanvocab/internal/server/middleware"
	"github.com/scanvocab/scanvocab/internal/server/storage"
)

// Config carries the tunables for NewRouter.
type Config struct {
	Version string
	// AuthRate limits register/login attempts per client IP per
	// AuthWindow. Zero disables rate limiting (used in tests).
	AuthRate   int
	AuthWindow time.Duration
}

// NewRouter wires every API route with its middleware chain. Progress
// and subscription endpoints require a valid token, auth endpoints are
// rate limited, everything runs behind recovery and request logging.
func NewRouter(
	logger *slog.Logger,
	users storage.UserStorage,
	progress storage.ProgressStorage,
	tokens *jwt.Service,
	cfg Config,
) http.Handler {
	authHandler := handlers.NewAuthHandler(logger, users, tokens)
	progressHandler := handlers.NewProgressHandler(logger, progress)
	subscriptionHandler := handlers.NewSubscriptionHandler(logger, users)
	healthHandler := handlers.NewHealthHandler(logger, cfg.Version)

	authChain := func(h http.HandlerFunc) http.Handler {
		if cfg.AuthRate <= 0 {
			return h
		}
		return middleware.RateLimit(cfg.AuthRate, cfg.AuthWindow, logger)(h)
	}
	protected := middleware.Auth(logger, tokens)

	mux := http.NewServeMux()

	mux.HandleFunc("GET /api/v1/health", healthHandler.Get)

	mux.Handle("POST /api/v1/auth/register", authChain(authHandler.Register))
	mux.Handle("POST /api/v1/auth/login", authChain(authHandler.Login))

	mux.Handle("GET /api/v1/subscription", protected(http.HandlerFunc(subscriptionHandler.Get)))

	mux.Handle("GET /api/v1/progress/counters", protected(http.HandlerFunc(progressHandler.GetCounters)))
	mux.Handle("PUT /api/v1/progress/counters", protected(http.HandlerFunc(progressHandler.PutCounter)))
	mux.Handle("GET /api/v1/progress/activity", protected(http.HandlerFunc(progressHandler.GetActivity)))
	mux.Handle("PUT /api/v1/progress/activity", protected(http.HandlerFunc(progressHandler.PutActivity)))
	mux.Handle("GET /api/v1/progress/streak", protected(http.HandlerFunc(progressHandler.GetStreak)))
	mux.Handle("PUT /api/v1/progress/streak", protected(http.HandlerFunc(progressHandler.PutStreak)))
	mux.Handle("GET /api/v1/progress/wrong-answers", protected(http.HandlerFunc(progressHandler.GetWrongAnswers)))
	mux.Handle("PUT /api/v1/progress/wrong-answers", protected(http.HandlerFunc(progressHandler.PutWrongAnswer)))
	mux.Handle("DELETE /api/v1/progress/wrong-answers", protected(http.HandlerFunc(progressHandler.ClearWrongAnswers)))
	mux.Handle("DELETE /api/v1/progress/wrong-answers/{wordID}", protected(http.HandlerFunc(progressHandler.DeleteWrongAnswer)))

	var handler http.Handler = mux
	handler = middleware.LoggingWithSkip(logger, []string{"/api/v1/health"})(handler)
	handler = middleware.Recovery(logger)(handler)
	return handler
}
