package handlers

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/Dosada05/tournament-tracker/live"
	"github.com/Dosada05/tournament-tracker/middleware"
	"github.com/go-chi/chi/v5"
	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func startLiveServer(t *testing.T) (*httptest.Server, *live.Hub, *middleware.LiveTokenIssuer) {
	t.Helper()
	ctx, cancel := context.WithCancel(context.Background())
	t.Cleanup(cancel)

	hub := live.NewHub(testLogger())
	go func() { _ = hub.Run(ctx) }()

	tokens := middleware.NewLiveTokenIssuer("live-secret", time.Minute)
	h := NewWebSocketHandler(hub, tokens, nil, testLogger())

	router := chi.NewRouter()
	router.Get("/ws/tournaments/{tournamentID}", h.ServeWs)
	server := httptest.NewServer(router)
	t.Cleanup(server.Close)
	return server, hub, tokens
}

func wsURL(server *httptest.Server, path string) string {
	return "ws" + strings.TrimPrefix(server.URL, "http") + path
}

func TestWebSocketReceivesTournamentUpdates(t *testing.T) {
	server, hub, tokens := startLiveServer(t)
	tournament := testTournament()
	id := tournament.ID.String()

	token, err := tokens.Issue("42", id)
	require.NoError(t, err)

	conn, _, err := websocket.DefaultDialer.Dial(wsURL(server, "/ws/tournaments/"+id+"?token="+token), nil)
	require.NoError(t, err)
	defer conn.Close()

	room := live.RoomForTournament(id)
	require.Eventually(t, func() bool { return hub.ClientCount(room) == 1 }, time.Second, 10*time.Millisecond)

	hub.TournamentUpdated(context.Background(), tournament)

	require.NoError(t, conn.SetReadDeadline(time.Now().Add(2*time.Second)))
	_, data, err := conn.ReadMessage()
	require.NoError(t, err)

	var msg struct {
		Type    string          `json:"type"`
		RoomID  string          `json:"room_id"`
		Payload json.RawMessage `json:"payload"`
	}
	require.NoError(t, json.Unmarshal(data, &msg))
	assert.Equal(t, live.MessageTournamentUpdated, msg.Type)
	assert.Equal(t, room, msg.RoomID)
	assert.Contains(t, string(msg.Payload), id)
}

func TestWebSocketRejectsTokenForOtherTournament(t *testing.T) {
	server, _, tokens := startLiveServer(t)

	token, err := tokens.Issue("42", "some-other-id")
	require.NoError(t, err)

	_, resp, err := websocket.DefaultDialer.Dial(wsURL(server, "/ws/tournaments/"+testTournament().ID.String()+"?token="+token), nil)
	require.Error(t, err)
	require.NotNil(t, resp)
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
}

func TestOriginChecker(t *testing.T) {
	check := originChecker([]string{"https://shop.example.com"})

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("Origin", "https://shop.example.com")
	assert.True(t, check(req))

	req.Header.Set("Origin", "https://evil.example.com")
	assert.False(t, check(req))

	assert.True(t, originChecker(nil)(req))
}
