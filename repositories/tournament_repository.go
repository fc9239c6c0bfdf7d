package repositories

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/Dosada05/tournament-tracker/models"
	"github.com/google/uuid"
	"github.com/lib/pq"
)

var (
	ErrTournamentNotFound     = errors.New("tournament not found")
	ErrTournamentInvalidDate  = errors.New("invalid tournament date")
	ErrTournamentInvalidValue = errors.New("invalid tournament value")
	ErrUnknownColumn          = errors.New("column is not updatable")
)

const tournamentColumns = `id, customer_id, tournament_name, tournament_date, format, tournament_type,
		result, rounds, score, created_at, updated_at`

// Свежие турниры первыми.
const listByCustomerQuery = `
		SELECT ` + tournamentColumns + `
		FROM tournaments
		WHERE customer_id = $1
		ORDER BY tournament_date DESC, created_at DESC`

const getByIDQuery = `
		SELECT ` + tournamentColumns + `
		FROM tournaments
		WHERE id = $1 AND customer_id = $2`

// Колонки, которые можно менять через UpdateFields. rounds и score
// меняются только через UpdateRounds.
var metaColumns = map[string]bool{
	"tournament_name": true,
	"tournament_date": true,
	"format":          true,
	"tournament_type": true,
	"result":          true,
}

// FieldUpdate sets one column to a value.
type FieldUpdate struct {
	Column string
	Value  interface{}
}

// TournamentRepository is the durable store for tournaments. Every call
// that touches an existing row filters by both id and customer id.
type TournamentRepository interface {
	ListByCustomer(ctx context.Context, customerID string) ([]models.Tournament, error)
	GetByID(ctx context.Context, customerID string, id uuid.UUID) (*models.Tournament, error)
	Create(ctx context.Context, tournament *models.Tournament) error
	UpdateFields(ctx context.Context, customerID string, id uuid.UUID, fields []FieldUpdate) (*models.Tournament, error)
	UpdateRounds(ctx context.Context, customerID string, id uuid.UUID, rounds models.Rounds, score models.Score) (*models.Tournament, error)
}

type postgresTournamentRepository struct {
	db SQLExecutor
}

func NewPostgresTournamentRepository(db *sql.DB) TournamentRepository {
	return &postgresTournamentRepository{db: db}
}

func (r *postgresTournamentRepository) ListByCustomer(ctx context.Context, customerID string) ([]models.Tournament, error) {
	rows, err := r.db.QueryContext(ctx, listByCustomerQuery, customerID)
	if err != nil {
		return nil, fmt.Errorf("failed to list tournaments: %w", err)
	}
	defer rows.Close()

	tournaments := make([]models.Tournament, 0)
	for rows.Next() {
		t, scanErr := scanTournament(rows)
		if scanErr != nil {
			return nil, fmt.Errorf("failed to scan tournament: %w", scanErr)
		}
		tournaments = append(tournaments, *t)
	}
	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("error during tournament rows iteration: %w", err)
	}
	return tournaments, nil
}

func (r *postgresTournamentRepository) GetByID(ctx context.Context, customerID string, id uuid.UUID) (*models.Tournament, error) {
	t, err := scanTournament(r.db.QueryRowContext(ctx, getByIDQuery, id, customerID))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrTournamentNotFound
		}
		return nil, err
	}
	return t, nil
}

func (r *postgresTournamentRepository) Create(ctx context.Context, t *models.Tournament) error {
	query := `
		INSERT INTO tournaments (
			customer_id, tournament_name, tournament_date, format, tournament_type, result, rounds, score
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		RETURNING ` + tournamentColumns

	created, err := scanTournament(r.db.QueryRowContext(ctx, query,
		t.CustomerID, t.Name, t.Date, t.Format, t.TournamentType, t.Result, t.Rounds, t.Score,
	))
	if err != nil {
		return r.handleTournamentError(err)
	}
	*t = *created
	return nil
}

func (r *postgresTournamentRepository) UpdateFields(ctx context.Context, customerID string, id uuid.UUID, fields []FieldUpdate) (*models.Tournament, error) {
	for _, f := range fields {
		if !metaColumns[f.Column] {
			return nil, fmt.Errorf("%w: %s", ErrUnknownColumn, f.Column)
		}
	}
	return r.update(ctx, customerID, id, fields)
}

func (r *postgresTournamentRepository) UpdateRounds(ctx context.Context, customerID string, id uuid.UUID, rounds models.Rounds, score models.Score) (*models.Tournament, error) {
	return r.update(ctx, customerID, id, []FieldUpdate{
		{Column: "rounds", Value: rounds},
		{Column: "score", Value: score},
	})
}

func (r *postgresTournamentRepository) update(ctx context.Context, customerID string, id uuid.UUID, fields []FieldUpdate) (*models.Tournament, error) {
	query, args := buildUpdateQuery(customerID, id, fields)
	t, err := scanTournament(r.db.QueryRowContext(ctx, query, args...))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrTournamentNotFound
		}
		return nil, r.handleTournamentError(err)
	}
	return t, nil
}

// buildUpdateQuery produces an UPDATE ... RETURNING scoped by id and owner.
func buildUpdateQuery(customerID string, id uuid.UUID, fields []FieldUpdate) (string, []interface{}) {
	sets := make([]string, 0, len(fields)+1)
	args := make([]interface{}, 0, len(fields)+2)
	argID := 1
	for _, f := range fields {
		sets = append(sets, fmt.Sprintf("%s = $%d", f.Column, argID))
		args = append(args, f.Value)
		argID++
	}
	sets = append(sets, "updated_at = now()")

	query := fmt.Sprintf(`
		UPDATE tournaments SET %s
		WHERE id = $%d AND customer_id = $%d
		RETURNING %s`, strings.Join(sets, ", "), argID, argID+1, tournamentColumns)
	args = append(args, id, customerID)
	return query, args
}

func scanTournament(row rowScanner) (*models.Tournament, error) {
	var (
		t    models.Tournament
		date time.Time
	)
	err := row.Scan(
		&t.ID, &t.CustomerID, &t.Name, &date, &t.Format, &t.TournamentType,
		&t.Result, &t.Rounds, &t.Score, &t.CreatedAt, &t.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	t.Date = date.Format(time.DateOnly)
	return &t, nil
}

func (r *postgresTournamentRepository) handleTournamentError(err error) error {
	if err == nil {
		return nil
	}
	var pqErr *pq.Error
	if errors.As(err, &pqErr) {
		switch pqErr.Code {
		case "22007", "22008": // invalid_datetime_format, datetime_field_overflow
			return fmt.Errorf("%w: %s", ErrTournamentInvalidDate, pqErr.Message)
		case "22P02", "23502", "23514": // invalid_text_representation, not_null, check
			return fmt.Errorf("%w: %s", ErrTournamentInvalidValue, pqErr.Message)
		}
	}
	return err
}
