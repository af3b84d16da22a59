package api

import (
	"context"
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/rs/zerolog/log"

	"github.com/skorlabs/skorstaking/internal/auth"
	"github.com/skorlabs/skorstaking/internal/config"
	"github.com/skorlabs/skorstaking/internal/services"
)

type Server struct {
	httpServer *http.Server
	service    *services.Service
}

func New(cfg *config.ServerConfig, service *services.Service, verifier *auth.Verifier) *Server {
	s := &Server{service: service}
	s.httpServer = &http.Server{
		Addr:         cfg.Addr(),
		Handler:      s.routes(verifier),
		ReadTimeout:  cfg.ReadTimeout,
		WriteTimeout: cfg.WriteTimeout,
		IdleTimeout:  cfg.IdleTimeout,
	}
	return s
}

func (s *Server) routes(verifier *auth.Verifier) http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.Recoverer)
	r.Use(traceMiddleware)
	r.Use(metricsMiddleware)

	r.Get("/healthcheck", wrap(s.handleHealthcheck))

	r.Route("/v1", func(r chi.Router) {
		r.Get("/config", wrap(s.handleGetConfig))
		r.Get("/stakes/{staker}", wrap(s.handleListStakes))
		r.Get("/stakes/{staker}/{index}", wrap(s.handleGetStake))
		r.Get("/stakers/{staker}/summary", wrap(s.handleStakerSummary))
		r.Get("/vault", wrap(s.handleVaultStats))
		r.Get("/stats", wrap(s.handleOverallStats))

		r.Group(func(r chi.Router) {
			r.Use(authMiddleware(verifier))
			r.Post("/initialize", wrap(s.handleInitialize))
			r.Post("/stakes", wrap(s.handleStake))
			r.Post("/stakes/{staker}/{index}/claim", wrap(s.handleClaim))
			r.Post("/admin/pause", wrap(s.handlePause))
			r.Post("/admin/monthly-cap", wrap(s.handleMonthlyCap))
			r.Post("/rewards/fund", wrap(s.handleFundRewards))
			r.Post("/dev/mints", wrap(s.handleRegisterMint))
			r.Post("/dev/mint", wrap(s.handleMintTo))
		})
	})
	return r
}

func (s *Server) Handler() http.Handler {
	return s.httpServer.Handler
}

// Start serves until Shutdown is called.
func (s *Server) Start() error {
	log.Info().Str("addr", s.httpServer.Addr).Msg("starting api server")
	if err := s.httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

func (s *Server) Shutdown(ctx context.Context) error {
	return s.httpServer.Shutdown(ctx)
}
