package handlers

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/Dosada05/tournament-tracker/services"
)

type jsonResponse map[string]interface{}

const maxBodyBytes = 1_048_576 // 1MB

var errUnsupportedValue = errors.New("unsupported value")

// readParams merges query parameters with an optional JSON object body.
// Body keys win; a JSON null becomes an explicit nil.
func readParams(w http.ResponseWriter, r *http.Request) (services.Params, error) {
	params := make(services.Params)
	for key, values := range r.URL.Query() {
		if len(values) == 0 {
			continue
		}
		v := values[0]
		params[key] = &v
	}

	if r.Body == nil || r.Method == http.MethodGet {
		return params, nil
	}
	r.Body = http.MaxBytesReader(w, r.Body, maxBodyBytes)

	dec := json.NewDecoder(r.Body)
	dec.UseNumber()
	var body map[string]interface{}
	if err := dec.Decode(&body); err != nil {
		var syntaxError *json.SyntaxError
		var unmarshalTypeError *json.UnmarshalTypeError
		var maxBytesError *http.MaxBytesError
		switch {
		case errors.Is(err, io.EOF):
			return params, nil // пустое тело допустимо
		case errors.As(err, &syntaxError):
			return nil, fmt.Errorf("body contains badly-formed JSON (at character %d)", syntaxError.Offset)
		case errors.Is(err, io.ErrUnexpectedEOF):
			return nil, errors.New("body contains badly-formed JSON")
		case errors.As(err, &unmarshalTypeError):
			return nil, errors.New("body must be a JSON object")
		case errors.As(err, &maxBytesError):
			return nil, fmt.Errorf("body must not be larger than %d bytes", maxBodyBytes)
		default:
			return nil, err
		}
	}
	if err := dec.Decode(&struct{}{}); !errors.Is(err, io.EOF) {
		return nil, errors.New("body must only contain a single JSON value")
	}

	for key, raw := range body {
		v, err := paramValue(raw)
		if err != nil {
			return nil, fmt.Errorf("body contains %w for key %q", err, key)
		}
		params[key] = v
	}
	return params, nil
}

func paramValue(raw interface{}) (*string, error) {
	var s string
	switch v := raw.(type) {
	case nil:
		return nil, nil
	case string:
		s = v
	case json.Number:
		s = v.String()
	case bool:
		s = strconv.FormatBool(v)
	default:
		return nil, errUnsupportedValue
	}
	return &s, nil
}

func writeJSON(w http.ResponseWriter, status int, data interface{}) error {
	js, err := json.Marshal(data)
	if err != nil {
		return err
	}
	js = append(js, '\n')

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_, err = w.Write(js)
	return err
}

// errorKind classifies a service error for the response envelope.
type errorKind string

const (
	kindValidation  errorKind = "validation"
	kindNotFound    errorKind = "not_found"
	kindPersistence errorKind = "persistence"
	kindUnknown     errorKind = "unknown_action"
)

func classifyError(err error) errorKind {
	switch {
	case errors.Is(err, services.ErrTournamentNotFound),
		errors.Is(err, services.ErrRoundNotFound):
		return kindNotFound
	case errors.Is(err, services.ErrPersistenceFailed):
		return kindPersistence
	case errors.Is(err, services.ErrValidationFailed),
		errors.Is(err, services.ErrTournamentNameRequired),
		errors.Is(err, services.ErrTournamentDateRequired),
		errors.Is(err, services.ErrTournamentDateInvalid),
		errors.Is(err, services.ErrTournamentIDRequired),
		errors.Is(err, services.ErrNoFieldsToUpdate),
		errors.Is(err, services.ErrInvalidFinalResult),
		errors.Is(err, services.ErrInvalidRoundNumber),
		errors.Is(err, services.ErrInvalidGameResult),
		errors.Is(err, services.ErrInvalidTurn),
		errors.Is(err, services.ErrInvalidSpecial),
		errors.Is(err, services.ErrCustomerIDRequired):
		return kindValidation
	default:
		// Непредвиденные ошибки отдаём как ошибку хранилища
		return kindPersistence
	}
}

// errorEnvelope maps a service error to {ok:false, error, ...}.
func errorEnvelope(err error, exposeDetails bool) jsonResponse {
	kind := classifyError(err)
	env := jsonResponse{"ok": false, "code": string(kind)}
	switch kind {
	case kindNotFound:
		if errors.Is(err, services.ErrRoundNotFound) {
			env["error"] = "Round not found"
		} else {
			env["error"] = "Tournament not found"
		}
	case kindValidation:
		env["error"] = err.Error()
	default:
		env["error"] = "Database error"
		if exposeDetails {
			env["details"] = err.Error()
		}
	}
	return env
}

func (h *ActionHandler) writeEnvelope(w http.ResponseWriter, r *http.Request, env jsonResponse) {
	if err := writeJSON(w, http.StatusOK, env); err != nil {
		h.logger.ErrorContext(r.Context(), "failed to write JSON response", slog.Any("error", err))
	}
}
