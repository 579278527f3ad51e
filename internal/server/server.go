package server

import (
	"context"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/osse101/FumoBot_Go/internal/boost"
	"github.com/osse101/FumoBot_Go/internal/catalog"
	"github.com/osse101/FumoBot_Go/internal/event"
	"github.com/osse101/FumoBot_Go/internal/handler"
	"github.com/osse101/FumoBot_Go/internal/logger"
	"github.com/osse101/FumoBot_Go/internal/metrics"
	"github.com/osse101/FumoBot_Go/internal/roll"
)

// Options are the transport settings of the HTTP server
type Options struct {
	Port            int
	APIKey          string
	TrustedProxies  []string
	RateLimitPerIP  int
	MaxRequestBytes int64
}

// Deps are the services the routes call into
type Deps struct {
	Store         handler.Pinger
	Economy       handler.EconomyStore
	Rolls         roll.Service
	AutoRoll      handler.AutoRoller
	Boosts        boost.Ledger
	Inventory     handler.InventoryReader
	Capacity      handler.CapacityReader
	Catalog       catalog.Provider
	Bus           event.Bus
	StartingCoins int64
}

type Server struct {
	httpServer *http.Server
}

// NewServer builds the router and the underlying http.Server
func NewServer(opts Options, deps Deps) *Server {
	return &Server{
		httpServer: &http.Server{
			Addr:              fmt.Sprintf(":%d", opts.Port),
			Handler:           NewRouter(opts, deps),
			ReadHeaderTimeout: ReadHeaderTimeout,
		},
	}
}

// NewRouter wires middleware and routes
func NewRouter(opts Options, deps Deps) http.Handler {
	if opts.MaxRequestBytes <= 0 {
		opts.MaxRequestBytes = DefaultMaxRequestBytes
	}
	if deps.Bus == nil {
		deps.Bus = event.NopBus{}
	}

	r := chi.NewRouter()
	detector := NewSuspiciousActivityDetector(opts.RateLimitPerIP)

	// Outermost first.
	r.Use(loggingMiddleware)
	r.Use(middleware.Recoverer)
	r.Use(metrics.Middleware)
	r.Use(SecurityHeadersMiddleware())
	r.Use(RateLimitMiddleware(opts.TrustedProxies, detector))
	r.Use(AuthMiddleware(opts.APIKey, opts.TrustedProxies, detector))
	r.Use(RequestSizeLimitMiddleware(opts.MaxRequestBytes))

	r.Get("/healthz", handler.HandleHealthz())
	r.Get("/readyz", handler.HandleReadyz(deps.Store))
	r.Handle("/metrics", promhttp.Handler())

	rolls := handler.NewRollHandler(deps.Rolls, deps.AutoRoll, deps.Catalog)

	r.Route("/api/v1", func(r chi.Router) {
		r.Post("/roll", rolls.HandleRoll)
		r.Post("/roll/batch", rolls.HandleRollBatch)

		r.Route("/autoroll", func(r chi.Router) {
			r.Get("/", rolls.HandleGetAutoRoll)
			r.Post("/start", rolls.HandleStartAutoRoll)
			r.Post("/stop", rolls.HandleStopAutoRoll)
		})

		r.Route("/boosts", func(r chi.Router) {
			r.Get("/", handler.HandleGetBoosts(deps.Boosts))
			r.Post("/grant", handler.HandleGrantBoost(deps.Boosts, deps.Bus))
		})

		r.Get("/inventory", handler.HandleGetInventory(deps.Inventory, deps.Capacity))

		r.Route("/users", func(r chi.Router) {
			r.Get("/", handler.HandleGetUser(deps.Economy))
			r.Post("/", handler.HandleCreateUser(deps.Economy, deps.StartingCoins))
		})
	})

	return r
}

// responseWriter wraps http.ResponseWriter to capture the status code
type responseWriter struct {
	http.ResponseWriter
	statusCode int
	written    bool
}

func newResponseWriter(w http.ResponseWriter) *responseWriter {
	return &responseWriter{ResponseWriter: w, statusCode: http.StatusOK}
}

func (rw *responseWriter) WriteHeader(statusCode int) {
	if !rw.written {
		rw.statusCode = statusCode
		rw.written = true
		rw.ResponseWriter.WriteHeader(statusCode)
	}
}

func (rw *responseWriter) Write(b []byte) (int, error) {
	if !rw.written {
		rw.WriteHeader(http.StatusOK)
	}
	return rw.ResponseWriter.Write(b)
}

// loggingMiddleware attaches a request ID to the context and logs each request with secrets redacted
func loggingMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if isPublic(r.URL.Path) {
			next.ServeHTTP(w, r)
			return
		}
		start := time.Now()

		requestID := r.Header.Get(HeaderRequestID)
		if requestID == "" {
			requestID = logger.GenerateRequestID()
		}
		ctx := logger.WithRequestID(r.Context(), requestID)
		r = r.WithContext(ctx)
		w.Header().Set(HeaderRequestID, requestID)

		log := logger.FromContext(ctx)
		log.Info(LogMsgRequestStarted,
			"method", r.Method,
			"path", r.URL.Path,
			"remote_addr", r.RemoteAddr,
			"content_length", r.ContentLength)

		sanitized := make(http.Header, len(r.Header))
		for k, v := range r.Header {
			if strings.EqualFold(k, HeaderAPIKey) || strings.EqualFold(k, HeaderAuthorization) {
				sanitized[k] = []string{RedactedValue}
			} else {
				sanitized[k] = v
			}
		}
		log.Debug(LogMsgRequestHeaders, "headers", sanitized)

		rw := newResponseWriter(w)
		next.ServeHTTP(rw, r)

		log.Info(LogMsgRequestCompleted,
			"method", r.Method,
			"path", r.URL.Path,
			"status", rw.statusCode,
			"duration_ms", time.Since(start).Milliseconds())
	})
}

// Start serves until Stop is called. It returns http.ErrServerClosed after a graceful stop.
func (s *Server) Start() error {
	logger.Info(LogMsgServerStarting, "addr", s.httpServer.Addr)
	return s.httpServer.ListenAndServe()
}

// Stop stops the server gracefully
func (s *Server) Stop(ctx context.Context) error {
	return s.httpServer.Shutdown(ctx)
}
