package handlers

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/Dosada05/tournament-tracker/middleware"
	"github.com/Dosada05/tournament-tracker/services"
)

// Action is the value of the "action" request parameter.
type Action string

const (
	ActionListTournaments  Action = "list_tournaments"
	ActionCreateTournament Action = "create_tournament"
	ActionGetTournament    Action = "get_tournament"
	ActionUpdateTournament Action = "update_tournament"
	ActionAddRound         Action = "add_round"
	ActionUpdateRound      Action = "update_round"
	ActionSetFinalResult   Action = "set_final_result"
)

// allActions is the closed set of actions; every entry must have a handler.
var allActions = []Action{
	ActionListTournaments,
	ActionCreateTournament,
	ActionGetTournament,
	ActionUpdateTournament,
	ActionAddRound,
	ActionUpdateRound,
	ActionSetFinalResult,
}

type actionFunc func(ctx context.Context, customerID string, params services.Params) (jsonResponse, error)

// LiveTokenIssuer issues websocket subscription tokens.
type LiveTokenIssuer interface {
	Issue(customerID, tournamentID string) (string, error)
}

type ActionHandler struct {
	tournamentService services.TournamentService
	liveTokens        LiveTokenIssuer
	exposeErrors      bool
	logger            *slog.Logger
	actions           map[Action]actionFunc
}

// NewActionHandler panics if an action in allActions has no handler.
// liveTokens may be nil.
func NewActionHandler(ts services.TournamentService, liveTokens LiveTokenIssuer, exposeErrors bool, logger *slog.Logger) *ActionHandler {
	if logger == nil {
		logger = slog.Default()
	}
	h := &ActionHandler{
		tournamentService: ts,
		liveTokens:        liveTokens,
		exposeErrors:      exposeErrors,
		logger:            logger,
	}
	h.actions = map[Action]actionFunc{
		ActionListTournaments:  h.listTournaments,
		ActionCreateTournament: h.createTournament,
		ActionGetTournament:    h.getTournament,
		ActionUpdateTournament: h.updateTournament,
		ActionAddRound:         h.addRound,
		ActionUpdateRound:      h.updateRound,
		ActionSetFinalResult:   h.setFinalResult,
	}
	for _, a := range allActions {
		if h.actions[a] == nil {
			panic(fmt.Sprintf("handlers: no handler for action %q", a))
		}
	}
	return h
}

// AllowedActions lists the action names in declaration order.
func AllowedActions() []string {
	names := make([]string, len(allActions))
	for i, a := range allActions {
		names[i] = string(a)
	}
	return names
}

// ServeHTTP handles GET and POST on the app proxy route. Everything after
// signature verification is answered with 200 and an {ok: ...} envelope.
func (h *ActionHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	customerID, ok := middleware.GetCustomerIDFromContext(r.Context())
	if !ok {
		h.writeEnvelope(w, r, jsonResponse{"ok": true, "logged_in": false})
		return
	}

	params, err := readParams(w, r)
	if err != nil {
		h.writeEnvelope(w, r, jsonResponse{"ok": false, "code": string(kindValidation), "error": err.Error()})
		return
	}

	action := Action(params.String("action"))
	fn, ok := h.actions[action]
	if !ok {
		h.writeEnvelope(w, r, jsonResponse{
			"ok":              false,
			"code":            string(kindUnknown),
			"error":           "Unknown action",
			"allowed_actions": AllowedActions(),
		})
		return
	}

	env, err := fn(r.Context(), customerID, params)
	if err != nil {
		if classifyError(err) == kindPersistence {
			h.logger.ErrorContext(r.Context(), "action failed",
				slog.String("action", string(action)), slog.String("customer_id", customerID), slog.Any("error", err))
		}
		h.writeEnvelope(w, r, errorEnvelope(err, h.exposeErrors))
		return
	}
	env["ok"] = true
	h.writeEnvelope(w, r, env)
}

func (h *ActionHandler) listTournaments(ctx context.Context, customerID string, _ services.Params) (jsonResponse, error) {
	tournaments, err := h.tournamentService.ListTournaments(ctx, customerID)
	if err != nil {
		return nil, err
	}
	return jsonResponse{"tournaments": tournaments}, nil
}

func (h *ActionHandler) createTournament(ctx context.Context, customerID string, params services.Params) (jsonResponse, error) {
	input := services.CreateTournamentInput{
		Name:   params.String("tournament_name"),
		Date:   params.String("tournament_date"),
		Result: params.String("result"),
	}
	if v, ok := params.Lookup("format"); ok {
		input.Format = v
	}
	if v, ok := params.Lookup("tournament_type"); ok {
		input.TournamentType = v
	}

	tournament, err := h.tournamentService.CreateTournament(ctx, customerID, input)
	if err != nil {
		return nil, err
	}
	return jsonResponse{"tournament": tournament}, nil
}

func (h *ActionHandler) getTournament(ctx context.Context, customerID string, params services.Params) (jsonResponse, error) {
	tournament, err := h.tournamentService.GetTournament(ctx, customerID, params.String("id"))
	if err != nil {
		return nil, err
	}
	env := jsonResponse{"tournament": tournament}
	if h.liveTokens != nil {
		token, err := h.liveTokens.Issue(customerID, tournament.ID.String())
		if err != nil {
			// Без токена страница просто не получит live-обновления
			h.logger.WarnContext(ctx, "failed to issue live token", slog.Any("error", err))
		} else {
			env["live_token"] = token
		}
	}
	return env, nil
}

func (h *ActionHandler) updateTournament(ctx context.Context, customerID string, params services.Params) (jsonResponse, error) {
	tournament, err := h.tournamentService.UpdateTournament(ctx, customerID, params.String("id"), params)
	if err != nil {
		return nil, err
	}
	return jsonResponse{"tournament": tournament}, nil
}

func (h *ActionHandler) addRound(ctx context.Context, customerID string, params services.Params) (jsonResponse, error) {
	tournament, err := h.tournamentService.AddRound(ctx, customerID, params.String("id"))
	if err != nil {
		return nil, err
	}
	return jsonResponse{"tournament": tournament}, nil
}

func (h *ActionHandler) updateRound(ctx context.Context, customerID string, params services.Params) (jsonResponse, error) {
	roundNumber, err := strconv.Atoi(params.String("round_number"))
	if err != nil || roundNumber <= 0 {
		return nil, services.ErrInvalidRoundNumber
	}
	tournament, err := h.tournamentService.UpdateRound(ctx, customerID, params.String("id"), roundNumber, params)
	if err != nil {
		return nil, err
	}
	return jsonResponse{"tournament": tournament}, nil
}

func (h *ActionHandler) setFinalResult(ctx context.Context, customerID string, params services.Params) (jsonResponse, error) {
	tournament, err := h.tournamentService.SetFinalResult(ctx, customerID, params.String("id"), params.String("result"))
	if err != nil {
		return nil, err
	}
	return jsonResponse{"tournament": tournament}, nil
}
