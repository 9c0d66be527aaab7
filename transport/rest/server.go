package rest

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/gorilla/mux"
)

// NewRouter - builds the HTTP API over the session manager.
func NewRouter(logger *slog.Logger, sessions sessionManager) http.Handler {
	handlers := newSessionHandlers(logger, sessions)

	router := mux.NewRouter()
	router.HandleFunc("/ping", pingHandler).Methods(http.MethodGet)

	api := router.PathPrefix("/api/v1").Subrouter()
	api.Use(recovery(logger))

	api.HandleFunc("/geometry", handlers.Geometry).Methods(http.MethodGet)

	api.HandleFunc("/sessions", handlers.Create).Methods(http.MethodPost)
	api.HandleFunc("/sessions/{id}", handlers.Get).Methods(http.MethodGet)
	api.HandleFunc("/sessions/{id}", handlers.Delete).Methods(http.MethodDelete)
	api.HandleFunc("/sessions/{id}/clicks", handlers.Click).Methods(http.MethodPost)
	api.HandleFunc("/sessions/{id}/moves", handlers.Move).Methods(http.MethodPost)
	api.HandleFunc("/sessions/{id}/reset", handlers.Reset).Methods(http.MethodPost)

	return router
}

// Start - serves the handler on the port until the server fails or ctx is done.
func Start(ctx context.Context, port string, handler http.Handler) error {
	srv := &http.Server{
		Addr:         ":" + port,
		Handler:      handler,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 10 * time.Second,
		IdleTimeout:  30 * time.Second,
	}

	go func() {
		<-ctx.Done()

		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()

		_ = srv.Shutdown(shutdownCtx)
	}()

	if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return fmt.Errorf("failed to start server: %w", err)
	}

	return nil
}

// recovery turns a panic in a handler into a 500 response.
func recovery(logger *slog.Logger) mux.MiddlewareFunc {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			defer func() {
				if err := recover(); err != nil {
					logger.Error("recovered from panic", "path", r.URL.Path, "error", err)
					writeError(w, http.StatusInternalServerError, "internal server error")
				}
			}()

			next.ServeHTTP(w, r)
		})
	}
}
