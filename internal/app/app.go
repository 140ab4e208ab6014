// Package app provides application-level wiring and dependency injection
// for the hierarchy service.
package app

import (
	"database/sql"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"

	"orgstack/internal/api"
	"orgstack/internal/config"
	"orgstack/internal/db/repository"
	"orgstack/internal/middleware"
	"orgstack/internal/service"
	"orgstack/internal/session"
)

// Deps holds the external dependencies that main() must provide: database
// handles, config, and the logger.
type Deps struct {
	Cfg     *config.Config
	WriteDB *sql.DB
	ReadDB  *sql.DB
	Logger  *slog.Logger
}

// App holds the fully-wired application.
type App struct {
	Handler   *api.Handler
	WriteProp *session.Propagator
	ReadProp  *session.Propagator
}

// New wires repositories, services, and the API handler from the provided
// deps. Repositories are stateless; they resolve their connection from the
// session bound to each request context.
func New(deps Deps) *App {
	membershipRepo := repository.NewMembershipRepo()
	linkRepo := repository.NewLinkRepo()
	clusterRepo := repository.NewClusterRepo()
	domainRepo := repository.NewDomainRepo()
	resourceRepo := repository.NewResourceRepo()

	guard := service.NewGuard(membershipRepo, linkRepo)

	handler := api.NewHandler(
		service.NewClusterService(guard, clusterRepo),
		service.NewDomainService(guard, domainRepo),
		service.NewResourceService(guard, resourceRepo),
		service.NewLinkService(guard, linkRepo, domainRepo, resourceRepo),
		service.NewMembershipService(guard, membershipRepo),
	)

	return &App{
		Handler:   handler,
		WriteProp: session.NewPropagator(deps.WriteDB, deps.Logger.With("pool", "write")),
		ReadProp:  session.NewPropagator(deps.ReadDB, deps.Logger.With("pool", "read")),
	}
}

// Router builds the HTTP request pipeline: request IDs, logging, panic
// recovery, CORS, rate limiting, then the authenticated API under /v1.
func (a *App) Router(cfg *config.Config, validator middleware.JWTValidator) http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(chimw.Logger)
	r.Use(chimw.Recoverer)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   cfg.CORSAllowedOrigins,
		AllowedMethods:   []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type", "X-Request-ID"},
		AllowCredentials: false,
		MaxAge:           300,
	}))
	r.Use(middleware.RateLimiter(middleware.RateLimitConfig{
		RequestsPerSecond: cfg.RateLimitRPS,
		Burst:             cfg.RateLimitBurst,
	}))

	r.Get("/healthz", api.Healthz)

	r.Route("/v1", func(r chi.Router) {
		r.Use(middleware.Authenticator(validator))
		r.Use(middleware.SessionBinder(a.WriteProp, a.ReadProp))
		a.Handler.Routes(r)
	})

	return r
}
