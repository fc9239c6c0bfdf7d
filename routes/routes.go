package routes

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/Dosada05/tournament-tracker/handlers"
	"github.com/Dosada05/tournament-tracker/middleware"
	"github.com/go-chi/chi/v5"
	chiMiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/go-chi/httprate"
)

const ProxyPath = "/proxy"

type Options struct {
	ProxySecret    string
	RateLimit      int // запросов в минуту с одного IP, 0 отключает лимит
	AllowedOrigins []string
}

// SetupRoutes mounts the signed app proxy endpoint, the live websocket
// feed (when wsHandler is not nil) and a health check.
func SetupRoutes(
	router chi.Router,
	opts Options,
	actionHandler *handlers.ActionHandler,
	wsHandler *handlers.WebSocketHandler,
	logger *slog.Logger,
) {
	router.Use(chiMiddleware.RequestID)
	router.Use(chiMiddleware.RealIP)
	router.Use(middleware.RequestLogger(logger))
	router.Use(middleware.RecoverJSON(logger))
	router.Use(cors.Handler(corsOptions(opts.AllowedOrigins)))

	router.Get("/healthz", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	})

	router.Group(func(r chi.Router) {
		if opts.RateLimit > 0 {
			r.Use(httprate.LimitByIP(opts.RateLimit, time.Minute))
		}
		r.Use(middleware.VerifyProxySignature([]byte(opts.ProxySecret), logger))

		r.Method(http.MethodGet, ProxyPath, actionHandler)
		r.Method(http.MethodPost, ProxyPath, actionHandler)
	})

	if wsHandler != nil {
		router.Get("/ws/tournaments/{tournamentID}", wsHandler.ServeWs)
	}
}

func corsOptions(origins []string) cors.Options {
	if len(origins) == 0 {
		origins = []string{"*"}
	}
	return cors.Options{
		AllowedOrigins: origins,
		AllowedMethods: []string{"GET", "POST", "OPTIONS"},
		AllowedHeaders: []string{"Accept", "Content-Type", "X-Request-Id"},
		MaxAge:         300,
	}
}
