package models

import (
	"database/sql/driver"
	"time"

	"github.com/google/uuid"
)

// FinalResult is the closing placement of a tournament, stored lowercase.
type FinalResult string

const (
	ResultWinner   FinalResult = "winner"
	ResultFinalist FinalResult = "finalist"
	ResultTop4     FinalResult = "top4"
	ResultTop8     FinalResult = "top8"
	ResultTop16    FinalResult = "top16"
	ResultTop32    FinalResult = "top32"
	ResultTop64    FinalResult = "top64"
	ResultTop128   FinalResult = "top128"
	ResultDropped  FinalResult = "dropped"
	ResultUntopped FinalResult = "untopped" // Значение по умолчанию при создании
)

// FinalResults перечисляет допустимые итоговые результаты в порядке отображения.
var FinalResults = []FinalResult{
	ResultWinner, ResultFinalist, ResultTop4, ResultTop8, ResultTop16,
	ResultTop32, ResultTop64, ResultTop128, ResultDropped, ResultUntopped,
}

// Value сохраняет результат как обычный TEXT.
func (r FinalResult) Value() (driver.Value, error) {
	return string(r), nil
}

// Tournament представляет турнир, который записывает покупатель.
type Tournament struct {
	ID             uuid.UUID   `json:"id" db:"id"`
	CustomerID     string      `json:"customer_id" db:"customer_id"`
	Name           string      `json:"tournament_name" db:"tournament_name"`
	Date           string      `json:"tournament_date" db:"tournament_date"` // YYYY-MM-DD
	Format         *string     `json:"format" db:"format"`
	TournamentType *string     `json:"tournament_type" db:"tournament_type"`
	Result         FinalResult `json:"result" db:"result"`
	Rounds         Rounds      `json:"rounds" db:"rounds"`
	Score          Score       `json:"score" db:"score"`
	CreatedAt      time.Time   `json:"created_at" db:"created_at"`
	UpdatedAt      time.Time   `json:"updated_at" db:"updated_at"`
}
