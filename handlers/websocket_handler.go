package handlers

import (
	"log/slog"
	"net/http"
	"strings"

	"github.com/Dosada05/tournament-tracker/live"
	"github.com/Dosada05/tournament-tracker/middleware"
	"github.com/go-chi/chi/v5"
	"github.com/gorilla/websocket"
)

// LiveTokenParser validates websocket subscription tokens.
type LiveTokenParser interface {
	Parse(token string) (*middleware.LiveClaims, error)
}

type WebSocketHandler struct {
	hub      *live.Hub
	tokens   LiveTokenParser
	upgrader websocket.Upgrader
	logger   *slog.Logger
}

// NewWebSocketHandler accepts any origin when allowedOrigins is empty.
func NewWebSocketHandler(hub *live.Hub, tokens LiveTokenParser, allowedOrigins []string, logger *slog.Logger) *WebSocketHandler {
	if logger == nil {
		logger = slog.Default()
	}
	return &WebSocketHandler{
		hub:    hub,
		tokens: tokens,
		logger: logger,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			CheckOrigin:     originChecker(allowedOrigins),
		},
	}
}

func originChecker(allowed []string) func(r *http.Request) bool {
	return func(r *http.Request) bool {
		if len(allowed) == 0 {
			return true
		}
		origin := r.Header.Get("Origin")
		for _, o := range allowed {
			if o == "*" || strings.EqualFold(o, origin) {
				return true
			}
		}
		return false
	}
}

// ServeWs handles GET /ws/tournaments/{tournamentID}?token=...
func (h *WebSocketHandler) ServeWs(w http.ResponseWriter, r *http.Request) {
	tournamentID := chi.URLParam(r, "tournamentID")
	claims, err := h.tokens.Parse(r.URL.Query().Get("token"))
	if err != nil || claims.TournamentID != tournamentID {
		if writeErr := writeJSON(w, http.StatusUnauthorized, jsonResponse{"ok": false, "error": "Invalid live token"}); writeErr != nil {
			h.logger.ErrorContext(r.Context(), "failed to write JSON response", slog.Any("error", writeErr))
		}
		return
	}

	conn, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		// Upgrade сам отправляет HTTP-ошибку клиенту
		h.logger.WarnContext(r.Context(), "websocket upgrade failed",
			slog.String("tournament_id", tournamentID), slog.Any("error", err))
		return
	}

	client := live.NewClient(h.hub, conn, live.RoomForTournament(tournamentID))
	if !h.hub.Register(client) {
		conn.Close()
		return
	}
	go client.WritePump()
	go client.ReadPump()
}
