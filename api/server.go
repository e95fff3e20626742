package api

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/rpupo63/inkwell/auth"
	"github.com/rpupo63/inkwell/config"
	"github.com/rpupo63/inkwell/database"
	"github.com/rpupo63/inkwell/storage"
	"github.com/rs/zerolog/log"
)

type Server struct {
	*http.Server
	startupTime time.Time
}

func NewServer(ctx context.Context, database database.Database) (Server, error) {
	c := config.New()

	// Ensure correct port is set
	port := config.GetString(c, "PORT", "8080")
	address := fmt.Sprintf("0.0.0.0:%s", port) // Bind to 0.0.0.0 for external access

	startupTime := time.Now()

	tokens, err := newTokenIssuer(ctx, c)
	if err != nil {
		return Server{}, err
	}

	avatars, err := storage.New(ctx, c)
	if err != nil {
		return Server{}, fmt.Errorf("avatar storage: %w", err)
	}

	router := newRouter(database,
		withConfig(c),
		withStartupTime(startupTime),
		withTokenIssuer(tokens),
		withAvatarStore(avatars),
	)

	// Get timeout values from config with sensible defaults
	readTimeout := time.Duration(config.GetInt(c, "READ_TIMEOUT_SECONDS", 180)) * time.Second
	writeTimeout := time.Duration(config.GetInt(c, "WRITE_TIMEOUT_SECONDS", 180)) * time.Second
	idleTimeout := time.Duration(config.GetInt(c, "IDLE_TIMEOUT_SECONDS", 180)) * time.Second

	server := &http.Server{
		Addr:         address,
		Handler:      router,
		ReadTimeout:  readTimeout,  // Timeout for reading the entire request
		WriteTimeout: writeTimeout, // Timeout for writing the response
		IdleTimeout:  idleTimeout,  // Timeout for idle connections
	}

	return Server{server, startupTime}, nil
}

// newTokenIssuer resolves the signing secret, from SSM when JWT_SECRET_SSM_PARAM is set.
func newTokenIssuer(ctx context.Context, c map[string]string) (*auth.TokenIssuer, error) {
	var getter config.ParameterGetter
	if config.GetString(c, "JWT_SECRET_SSM_PARAM", "") != "" {
		client, err := config.NewSSMClient(ctx, c)
		if err != nil {
			return nil, err
		}
		getter = client
	}

	secret, err := config.ResolveSecret(ctx, c, getter, "JWT_SECRET")
	if err != nil {
		return nil, err
	}

	ttl := time.Duration(config.GetInt(c, "JWT_TTL_HOURS", 72)) * time.Hour
	return auth.NewTokenIssuer(secret, ttl)
}

type router struct {
	config         map[string]string
	startupTime    time.Time
	tokens         *auth.TokenIssuer
	avatars        storage.AvatarStore
	maxUploadBytes int64
}

func withConfig(c map[string]string) func(*router) {
	return func(r *router) {
		r.config = c
	}
}

func withStartupTime(startupTime time.Time) func(*router) {
	return func(r *router) {
		r.startupTime = startupTime
	}
}

func withTokenIssuer(tokens *auth.TokenIssuer) func(*router) {
	return func(r *router) {
		r.tokens = tokens
	}
}

func withAvatarStore(avatars storage.AvatarStore) func(*router) {
	return func(r *router) {
		r.avatars = avatars
	}
}

func newRouter(database database.Database, opts ...func(*router)) *chi.Mux {
	var router router
	for _, opt := range opts {
		opt(&router)
	}
	router.maxUploadBytes = int64(config.GetInt(router.config, "MAX_UPLOAD_MB", 5)) << 20

	chiRouter := chi.NewRouter()
	chiRouter.Use(middleware.RequestID)
	chiRouter.Use(LogInternalServerErrors)

	handlers := initializeHandlers(database, router)
	authMiddleware := newAuthMiddleware(router.tokens)

	// Apply CORS middleware
	acceptedOrigins := config.GetList(router.config, "ACCEPTED_ORIGINS")
	chiRouter.Use(CORSCheckMiddleware(acceptedOrigins))
	chiRouter.Use(corsMiddleware(acceptedOrigins))

	var avatarDir string
	if local, ok := router.avatars.(*storage.LocalStore); ok {
		avatarDir = local.Dir()
	}

	setupRoutes(chiRouter, handlers, authMiddleware, avatarDir)

	return chiRouter
}

func (s Server) Start(errChannel chan<- error) {
	log.Info().Msgf("Server started on: %s", s.Addr)
	errChannel <- s.ListenAndServe()
}

func (s Server) ShutdownGracefully(timeout time.Duration) {
	log.Info().Msg("Gracefully shutting down...")

	gracefullCtx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()

	if err := s.Shutdown(gracefullCtx); err != nil {
		log.Error().Msgf("Error shutting down the server: %v", err)
	} else {
		log.Info().Msg("HttpServer gracefully shut down")
	}
}
