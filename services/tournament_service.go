package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/Dosada05/tournament-tracker/models"
	"github.com/Dosada05/tournament-tracker/repositories"
	"github.com/google/uuid"
)

// TournamentNotifier receives a tournament after every successful mutation.
type TournamentNotifier interface {
	TournamentUpdated(ctx context.Context, tournament *models.Tournament)
}

// ResultArchiver stores a snapshot of a tournament once its final result is set.
type ResultArchiver interface {
	ArchiveTournament(ctx context.Context, tournament *models.Tournament) error
}

type TournamentService interface {
	ListTournaments(ctx context.Context, customerID string) ([]models.Tournament, error)
	CreateTournament(ctx context.Context, customerID string, input CreateTournamentInput) (*models.Tournament, error)
	GetTournament(ctx context.Context, customerID, id string) (*models.Tournament, error)
	UpdateTournament(ctx context.Context, customerID, id string, fields Params) (*models.Tournament, error)
	AddRound(ctx context.Context, customerID, id string) (*models.Tournament, error)
	UpdateRound(ctx context.Context, customerID, id string, roundNumber int, patch Params) (*models.Tournament, error)
	SetFinalResult(ctx context.Context, customerID, id, result string) (*models.Tournament, error)
}

type CreateTournamentInput struct {
	Name           string
	Date           string
	Format         *string
	TournamentType *string
	Result         string
}

// Поля, которые разрешено менять через update_tournament.
var updatableFields = []string{"tournament_name", "tournament_date", "format", "tournament_type", "result"}

type tournamentService struct {
	repo      repositories.TournamentRepository
	notifiers []TournamentNotifier
	archiver  ResultArchiver
	logger    *slog.Logger
}

// NewTournamentService wires the service. archiver may be nil.
func NewTournamentService(
	repo repositories.TournamentRepository,
	archiver ResultArchiver,
	logger *slog.Logger,
	notifiers ...TournamentNotifier,
) TournamentService {
	if logger == nil {
		logger = slog.Default()
	}
	return &tournamentService{
		repo:      repo,
		notifiers: notifiers,
		archiver:  archiver,
		logger:    logger,
	}
}

func (s *tournamentService) ListTournaments(ctx context.Context, customerID string) ([]models.Tournament, error) {
	if customerID == "" {
		return nil, ErrCustomerIDRequired
	}
	tournaments, err := s.repo.ListByCustomer(ctx, customerID)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrPersistenceFailed, err)
	}
	if tournaments == nil {
		return []models.Tournament{}, nil
	}
	return tournaments, nil
}

func (s *tournamentService) CreateTournament(ctx context.Context, customerID string, input CreateTournamentInput) (*models.Tournament, error) {
	if customerID == "" {
		return nil, ErrCustomerIDRequired
	}
	name := strings.TrimSpace(input.Name)
	if name == "" {
		return nil, ErrTournamentNameRequired
	}
	date, err := validateTournamentDate(input.Date)
	if err != nil {
		return nil, err
	}

	result := models.ResultUntopped
	if strings.TrimSpace(input.Result) != "" {
		r, ok := NormalizeFinalResult(input.Result)
		if !ok {
			return nil, fmt.Errorf("%w: %q", ErrInvalidFinalResult, input.Result)
		}
		result = r
	}

	rounds := models.Rounds{}
	tournament := &models.Tournament{
		CustomerID:     customerID,
		Name:           name,
		Date:           date,
		Format:         optionalString(input.Format),
		TournamentType: optionalString(input.TournamentType),
		Result:         result,
		Rounds:         rounds,
		Score:          CalculateScore(rounds),
	}

	if err := s.repo.Create(ctx, tournament); err != nil {
		return nil, s.mapRepositoryError(err)
	}
	s.logger.InfoContext(ctx, "tournament created",
		slog.String("customer_id", customerID), slog.String("tournament_id", tournament.ID.String()))
	s.notify(ctx, tournament)
	return tournament, nil
}

func (s *tournamentService) GetTournament(ctx context.Context, customerID, id string) (*models.Tournament, error) {
	tournamentID, err := parseTournamentID(customerID, id)
	if err != nil {
		return nil, err
	}
	tournament, err := s.repo.GetByID(ctx, customerID, tournamentID)
	if err != nil {
		return nil, s.mapRepositoryError(err)
	}
	return tournament, nil
}

func (s *tournamentService) UpdateTournament(ctx context.Context, customerID, id string, fields Params) (*models.Tournament, error) {
	tournamentID, err := parseTournamentID(customerID, id)
	if err != nil {
		return nil, err
	}

	updates := make([]repositories.FieldUpdate, 0, len(updatableFields))
	for _, key := range updatableFields {
		raw, ok := fields.Lookup(key)
		if !ok {
			continue
		}
		value := ""
		if raw != nil {
			value = strings.TrimSpace(*raw)
		}

		switch key {
		case "tournament_name":
			if value == "" {
				return nil, ErrTournamentNameRequired
			}
			updates = append(updates, repositories.FieldUpdate{Column: key, Value: value})
		case "tournament_date":
			date, err := validateTournamentDate(value)
			if err != nil {
				return nil, err
			}
			updates = append(updates, repositories.FieldUpdate{Column: key, Value: date})
		case "result":
			r, ok := NormalizeFinalResult(value)
			if !ok {
				return nil, fmt.Errorf("%w: %q", ErrInvalidFinalResult, value)
			}
			updates = append(updates, repositories.FieldUpdate{Column: key, Value: r})
		default:
			// format и tournament_type: пустое значение сбрасывает колонку в NULL
			updates = append(updates, repositories.FieldUpdate{Column: key, Value: optionalString(&value)})
		}
	}
	if len(updates) == 0 {
		return nil, ErrNoFieldsToUpdate
	}

	tournament, err := s.repo.UpdateFields(ctx, customerID, tournamentID, updates)
	if err != nil {
		return nil, s.mapRepositoryError(err)
	}
	s.notify(ctx, tournament)
	return tournament, nil
}

func (s *tournamentService) AddRound(ctx context.Context, customerID, id string) (*models.Tournament, error) {
	tournamentID, err := parseTournamentID(customerID, id)
	if err != nil {
		return nil, err
	}
	current, err := s.repo.GetByID(ctx, customerID, tournamentID)
	if err != nil {
		return nil, s.mapRepositoryError(err)
	}

	rounds := append(SanitizeRounds(current.Rounds), newRound(nextRoundNumber(current.Rounds)))
	return s.saveRounds(ctx, customerID, tournamentID, rounds)
}

func (s *tournamentService) UpdateRound(ctx context.Context, customerID, id string, roundNumber int, patch Params) (*models.Tournament, error) {
	tournamentID, err := parseTournamentID(customerID, id)
	if err != nil {
		return nil, err
	}
	if roundNumber <= 0 {
		return nil, ErrInvalidRoundNumber
	}
	parsed, err := parseRoundPatch(patch)
	if err != nil {
		return nil, err
	}

	current, err := s.repo.GetByID(ctx, customerID, tournamentID)
	if err != nil {
		return nil, s.mapRepositoryError(err)
	}
	rounds := SanitizeRounds(current.Rounds)
	idx := findRound(rounds, roundNumber)
	if idx < 0 {
		return nil, fmt.Errorf("%w: round %d", ErrRoundNotFound, roundNumber)
	}
	rounds[idx] = parsed.apply(rounds[idx])

	return s.saveRounds(ctx, customerID, tournamentID, rounds)
}

func (s *tournamentService) SetFinalResult(ctx context.Context, customerID, id, result string) (*models.Tournament, error) {
	tournamentID, err := parseTournamentID(customerID, id)
	if err != nil {
		return nil, err
	}
	finalResult, ok := NormalizeFinalResult(result)
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrInvalidFinalResult, result)
	}

	tournament, err := s.repo.UpdateFields(ctx, customerID, tournamentID, []repositories.FieldUpdate{
		{Column: "result", Value: finalResult},
	})
	if err != nil {
		return nil, s.mapRepositoryError(err)
	}

	if s.archiver != nil {
		if err := s.archiver.ArchiveTournament(ctx, tournament); err != nil {
			s.logger.WarnContext(ctx, "failed to archive tournament",
				slog.String("tournament_id", tournament.ID.String()), slog.Any("error", err))
		}
	}
	s.notify(ctx, tournament)
	return tournament, nil
}

// saveRounds is the only write path for rounds: it re-sanitizes and
// recomputes the score from scratch before persisting.
func (s *tournamentService) saveRounds(ctx context.Context, customerID string, id uuid.UUID, rounds []models.Round) (*models.Tournament, error) {
	clean := SanitizeRounds(rounds)
	tournament, err := s.repo.UpdateRounds(ctx, customerID, id, clean, CalculateScore(clean))
	if err != nil {
		return nil, s.mapRepositoryError(err)
	}
	s.notify(ctx, tournament)
	return tournament, nil
}

func (s *tournamentService) notify(ctx context.Context, tournament *models.Tournament) {
	for _, n := range s.notifiers {
		n.TournamentUpdated(ctx, tournament)
	}
}

func (s *tournamentService) mapRepositoryError(err error) error {
	switch {
	case errors.Is(err, repositories.ErrTournamentNotFound):
		return ErrTournamentNotFound
	case errors.Is(err, repositories.ErrTournamentInvalidDate):
		return ErrTournamentDateInvalid
	case errors.Is(err, repositories.ErrTournamentInvalidValue):
		return fmt.Errorf("%w: %w", ErrValidationFailed, err)
	default:
		return fmt.Errorf("%w: %w", ErrPersistenceFailed, err)
	}
}

// parseTournamentID validates the owner and id before any store access.
// A malformed id cannot exist, so it is reported as not found.
func parseTournamentID(customerID, id string) (uuid.UUID, error) {
	if customerID == "" {
		return uuid.Nil, ErrCustomerIDRequired
	}
	id = strings.TrimSpace(id)
	if id == "" {
		return uuid.Nil, ErrTournamentIDRequired
	}
	parsed, err := uuid.Parse(id)
	if err != nil {
		return uuid.Nil, ErrTournamentNotFound
	}
	return parsed, nil
}

func validateTournamentDate(date string) (string, error) {
	date = strings.TrimSpace(date)
	if date == "" {
		return "", ErrTournamentDateRequired
	}
	parsed, err := time.Parse(time.DateOnly, date)
	if err != nil {
		return "", fmt.Errorf("%w: %q", ErrTournamentDateInvalid, date)
	}
	return parsed.Format(time.DateOnly), nil
}

func optionalString(s *string) *string {
	if s == nil {
		return nil
	}
	trimmed := strings.TrimSpace(*s)
	if trimmed == "" {
		return nil
	}
	return &trimmed
}
