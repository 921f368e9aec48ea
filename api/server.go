package api

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/rs/zerolog/log"

	"github.com/rpupo63/portfolio-cms-backend/config"
	"github.com/rpupo63/portfolio-cms-backend/database"
	"github.com/rpupo63/portfolio-cms-backend/metrics"
	"github.com/rpupo63/portfolio-cms-backend/models"
	"github.com/rpupo63/portfolio-cms-backend/services"
	"github.com/rpupo63/portfolio-cms-backend/storage"
	"github.com/rpupo63/portfolio-cms-backend/validation"
)

const tokenTTL = 12 * time.Hour

// imageTypes are the content types accepted for uploaded images
var imageTypes = []string{"image/"}

type Server struct {
	*http.Server
	startupTime time.Time
}

// NewServer builds the file store, mailer and site settings from c and wires
// them into the router
func NewServer(ctx context.Context, database database.Database, c map[string]string) (Server, error) {
	// Ensure correct port is set
	port := config.GetString(c, "PORT", "8080")
	address := fmt.Sprintf("0.0.0.0:%s", port) // Bind to 0.0.0.0 for external access

	startupTime := time.Now()

	store, err := storage.New(ctx, storage.ConfigFromEnv(c))
	if err != nil {
		return Server{}, fmt.Errorf("init storage: %w", err)
	}
	mailer, err := services.NewMailer(c, log.Logger)
	if err != nil {
		return Server{}, fmt.Errorf("init mailer: %w", err)
	}
	site, err := config.LoadSite(config.GetString(c, "SITE_CONFIG", "site.yaml"), c)
	if err != nil {
		return Server{}, fmt.Errorf("load site settings: %w", err)
	}

	router := newRouter(database,
		withConfig(c),
		withStartupTime(startupTime),
		withStore(store),
		withMailer(mailer),
		withSite(site),
	)

	readTimeout := time.Duration(config.GetInt(c, "READ_TIMEOUT_SECONDS", 180)) * time.Second
	writeTimeout := time.Duration(config.GetInt(c, "WRITE_TIMEOUT_SECONDS", 180)) * time.Second
	idleTimeout := time.Duration(config.GetInt(c, "IDLE_TIMEOUT_SECONDS", 180)) * time.Second

	server := &http.Server{
		Addr:         address,
		Handler:      router,
		ReadTimeout:  readTimeout,
		WriteTimeout: writeTimeout,
		IdleTimeout:  idleTimeout,
	}

	return Server{server, startupTime}, nil
}

type router struct {
	config      map[string]string
	startupTime time.Time
	store       storage.Store
	mailer      services.Mailer
	site        config.Site
	clock       models.Clock
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

func withStore(store storage.Store) func(*router) {
	return func(r *router) {
		r.store = store
	}
}

func withMailer(mailer services.Mailer) func(*router) {
	return func(r *router) {
		r.mailer = mailer
	}
}

func withSite(site config.Site) func(*router) {
	return func(r *router) {
		r.site = site
	}
}

func withClock(clock models.Clock) func(*router) {
	return func(r *router) {
		r.clock = clock
	}
}

func newRouter(database database.Database, opts ...func(*router)) *chi.Mux {
	router := router{
		config: map[string]string{},
		clock:  models.SystemClock{},
	}
	for _, opt := range opts {
		opt(&router)
	}
	if router.mailer == nil {
		router.mailer = services.NewLogMailer(log.Logger)
	}

	c := router.config
	assets := services.NewAssetManager(router.store, log.Logger, imageTypes...)
	contact := services.NewContactService(
		database.ContactMessageRepo(),
		router.mailer,
		router.clock,
		config.GetString(c, "ADMIN_NOTIFY_EMAIL", router.site.Author.Email),
		router.site.Name,
		log.Logger,
	)
	tokens := newTokenIssuer(config.GetString(c, "JWT_SECRET", ""), tokenTTL, router.clock)

	handlers := initializeHandlers(handlerDeps{
		database:  database,
		validator: validation.New(),
		assets:    assets,
		contact:   contact,
		seo:       services.NewSEO(router.site, assets.URL),
		clock:     router.clock,
		tokens:    tokens,
		credentials: credentials{
			email:        config.GetString(c, "ADMIN_EMAIL", ""),
			passwordHash: config.GetString(c, "ADMIN_PASSWORD_HASH", ""),
			password:     config.GetString(c, "BACKEND_PASSWORD", ""),
		},
	})

	chiRouter := chi.NewRouter()
	chiRouter.Use(middleware.RealIP)
	chiRouter.Use(LogInternalServerErrors)

	acceptedOrigins := config.GetList(c, "ACCEPTED_ORIGINS")
	chiRouter.Use(CORSCheckMiddleware(acceptedOrigins))
	chiRouter.Use(cors.Handler(cors.Options{
		AllowedOrigins:   acceptedOrigins,
		AllowedMethods:   []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type"},
		AllowCredentials: true,
		MaxAge:           300,
	}))
	chiRouter.Use(ColoredHTTPLoggingMiddleware)

	limits := rateLimits{
		login:   newIPRateLimiter(config.GetInt(c, "LOGIN_RATE_PER_MINUTE", 10), 5),
		contact: newIPRateLimiter(config.GetInt(c, "CONTACT_RATE_PER_MINUTE", 5), 3),
	}
	limits.contact.onLimited = func() { metrics.IncrementContactSubmission("limited") }

	setupRoutes(chiRouter, handlers, newAuthMiddleware(tokens), limits)
	setupInfraRoutes(chiRouter, database, router.store, router.startupTime)

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
