package server

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/rs/zerolog"

	"github.com/kaymanhq/kayman/internal/auth"
	"github.com/kaymanhq/kayman/internal/ledger"
	"github.com/kaymanhq/kayman/internal/storage"
)

// PaymentNotifier is told about every payment created through the API.
// The Discord bot implements it; a nil notifier disables notifications.
type PaymentNotifier interface {
	NotifyPayment(payment *storage.Payment)
}

// Config holds server configuration
type Config struct {
	Log      zerolog.Logger
	DB       *storage.Database
	Ledger   *ledger.Service
	Auth     *auth.Authenticator
	Notifier PaymentNotifier
	Port     int
	DevMode  bool
}

// Server represents the HTTP server
type Server struct {
	router    *chi.Mux
	server    *http.Server
	log       zerolog.Logger
	db        *storage.Database
	ledger    *ledger.Service
	auth      *auth.Authenticator
	notifier  PaymentNotifier
	startTime time.Time
}

// New creates a new HTTP server
func New(cfg Config) *Server {
	s := &Server{
		router:    chi.NewRouter(),
		log:       cfg.Log.With().Str("component", "server").Logger(),
		db:        cfg.DB,
		ledger:    cfg.Ledger,
		auth:      cfg.Auth,
		notifier:  cfg.Notifier,
		startTime: time.Now(),
	}

	s.setupMiddleware(cfg.DevMode)
	s.setupRoutes()

	s.server = &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.Port),
		Handler:      s.router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	return s
}

// setupMiddleware configures middleware
func (s *Server) setupMiddleware(devMode bool) {
	s.router.Use(middleware.Recoverer)
	s.router.Use(middleware.RequestID)
	s.router.Use(middleware.RealIP)
	s.router.Use(s.loggingMiddleware)
	s.router.Use(middleware.Timeout(60 * time.Second))

	s.router.Use(cors.Handler(cors.Options{
		AllowedOrigins:   []string{"*"},
		AllowedMethods:   []string{"GET", "POST", "PATCH", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type"},
		AllowCredentials: true,
		MaxAge:           300,
	}))

	if !devMode {
		s.router.Use(middleware.Compress(5))
	}
}

// setupRoutes configures all routes
func (s *Server) setupRoutes() {
	s.router.Get("/health", s.handleHealth)
	s.router.Post("/token", s.handleLogin)

	s.router.Group(func(r chi.Router) {
		r.Use(s.auth.Middleware)

		r.Get("/client", s.handleCheckCredential)

		r.Route("/accounts", func(r chi.Router) {
			r.Post("/", s.handleCreateAccount)
			r.Get("/", s.handleListAccounts)
			r.Get("/{id}", s.handleGetAccount)
			r.Patch("/{id}", s.handleUpdateAccount)
		})

		r.Route("/currencies", func(r chi.Router) {
			r.Post("/", s.handleCreateCurrency)
			r.Get("/", s.handleListCurrencies)
		})

		r.Route("/categories", func(r chi.Router) {
			r.Post("/", s.handleCreateCategory)
			r.Get("/", s.handleListCategories)
			r.Get("/{id}", s.handleGetCategory)
			r.Patch("/{id}", s.handleUpdateCategory)
		})

		r.Route("/payments", func(r chi.Router) {
			r.Post("/", s.handleCreatePayment)
			r.Get("/", s.handleListPayments)
			r.Get("/{id}", s.handleGetPayment)
			r.Patch("/{id}", s.handleUpdatePayment)
			r.Delete("/{id}", s.handleDeletePayment)
		})

		r.Get("/transactions", s.handleListTransactions)

		r.Route("/psp", func(r chi.Router) {
			r.Post("/", s.handleCreatePSP)
			r.Get("/", s.handleListPSPs)
		})

		r.Route("/tw-invoice", func(r chi.Router) {
			r.Post("/", s.handleUpsertInvoices)
			r.Patch("/", s.handleUpsertInvoices)
			r.Get("/", s.handleListInvoices)
			r.Route("/carrier", func(r chi.Router) {
				r.Post("/", s.handleCreateInvoiceCarrier)
				r.Get("/", s.handleListInvoiceCarriers)
			})
			r.Post("/{number}", s.handleUpsertInvoiceDetails)
			r.Get("/{number}", s.handleListInvoiceDetails)
		})
	})
}

func (s *Server) loggingMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		next.ServeHTTP(ww, r)
		s.log.Debug().
			Str("method", r.Method).
			Str("path", r.URL.Path).
			Int("status", ww.Status()).
			Dur("duration", time.Since(start)).
			Msg("request")
	})
}

// Start runs the server until the context is cancelled.
func (s *Server) Start(ctx context.Context) error {
	errCh := make(chan error, 1)
	go func() {
		s.log.Info().Str("addr", s.server.Addr).Msg("server listening")
		if err := s.server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			errCh <- err
		}
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		return s.server.Shutdown(shutdownCtx)
	}
}

// Router exposes the handler tree for tests.
func (s *Server) Router() http.Handler {
	return s.router
}
