package main

import (
	"blogapi/cmd/app"
	"blogapi/internal/config"
	handlers "blogapi/internal/handler"
	"blogapi/internal/middleware"
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gorilla/mux"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

func main() {
	cfg := config.LoadConfig()

	slog.SetDefault(slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: cfg.LogLevel})))

	if cfg.JWTSecret == "" {
		slog.Error("JWT_SECRET is not set")
		os.Exit(1)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	db, store, services, err := app.App(ctx, cfg)
	if err != nil {
		slog.Error("failed to start", "error", err)
		os.Exit(1)
	}
	defer db.CloseDB()

	handler := handlers.NewHandlers(services, store, cfg)

	router := NewRouter(handler, middleware.AuthMiddleware(services.Auth))

	server := &http.Server{
		Addr:              fmt.Sprintf(":%d", cfg.ServerPort),
		Handler:           middleware.Chain(router, middleware.LoggingMiddleware, middleware.CORSMiddleware),
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := server.Shutdown(shutdownCtx); err != nil {
			slog.Error("shutdown failed", "error", err)
		}
	}()

	slog.Info("server started", "addr", server.Addr, "database", cfg.DB.DbNAME, "storage", cfg.Storage.Backend)

	if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		slog.Error("server failed", "error", err)
		os.Exit(1)
	}
}

// NewRouter registers every route; protected ones are wrapped with auth.
func NewRouter(h *handlers.Handlers, auth middleware.Middleware) *mux.Router {
	router := mux.NewRouter()
	router.Use(middleware.MetricsMiddleware)

	protected := func(fn http.HandlerFunc) http.Handler {
		return auth(fn)
	}

	router.HandleFunc("/health", h.Health).Methods(http.MethodGet)
	router.Handle("/metrics", promhttp.Handler()).Methods(http.MethodGet)
	router.HandleFunc("/uploads/{name}", h.ServeUpload).Methods(http.MethodGet)

	users := router.PathPrefix("/api/users").Subrouter()
	users.HandleFunc("/register", h.Register).Methods(http.MethodPost)
	users.HandleFunc("/login", h.Login).Methods(http.MethodPost)
	users.Handle("/change-avatar", protected(h.ChangeAvatar)).Methods(http.MethodPost)
	users.Handle("/edit-user", protected(h.EditUser)).Methods(http.MethodPatch)
	users.HandleFunc("/{id}", h.GetUser).Methods(http.MethodGet)
	users.HandleFunc("", h.GetAuthors).Methods(http.MethodGet)

	posts := router.PathPrefix("/api/posts").Subrouter()
	posts.Handle("", protected(h.CreatePost)).Methods(http.MethodPost)
	posts.HandleFunc("", h.GetPosts).Methods(http.MethodGet)
	posts.HandleFunc("/categories/{category}", h.GetCategoryPosts).Methods(http.MethodGet)
	posts.HandleFunc("/users/{id}", h.GetUserPosts).Methods(http.MethodGet)
	posts.HandleFunc("/{id}", h.GetPost).Methods(http.MethodGet)
	posts.Handle("/{id}", protected(h.EditPost)).Methods(http.MethodPatch)
	posts.Handle("/{id}", protected(h.DeletePost)).Methods(http.MethodDelete)

	return router
}
