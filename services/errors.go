package services

import "errors"

// Ошибки сервисного слоя, которые маппятся в JSON-ответы в handlers.
var (
	// Ресурс не найден. Чужой турнир неотличим от отсутствующего.
	ErrTournamentNotFound = errors.New("tournament not found")
	ErrRoundNotFound      = errors.New("round not found")

	// Ошибки валидации
	ErrValidationFailed       = errors.New("validation failed")
	ErrTournamentNameRequired = errors.New("tournament_name is required")
	ErrTournamentDateRequired = errors.New("tournament_date is required")
	ErrTournamentDateInvalid  = errors.New("tournament_date must be in YYYY-MM-DD format")
	ErrTournamentIDRequired   = errors.New("id is required")
	ErrNoFieldsToUpdate       = errors.New("no fields to update")
	ErrInvalidFinalResult     = errors.New("invalid result")
	ErrInvalidRoundNumber     = errors.New("round_number must be a positive integer identifying an existing round")
	ErrInvalidGameResult      = errors.New("invalid game result")
	ErrInvalidTurn            = errors.New("invalid turn")
	ErrInvalidSpecial         = errors.New("invalid special")
	ErrCustomerIDRequired     = errors.New("customer id is required")

	// Ошибка хранилища
	ErrPersistenceFailed = errors.New("persistence failure")
)
