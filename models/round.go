package models

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"
)

// GamesPerRound is the fixed number of game slots in every round.
const GamesPerRound = 3

type GameResult string

const (
	GameWin  GameResult = "W"
	GameLoss GameResult = "L"
	GameTie  GameResult = "T"
)

type Turn string

const (
	TurnFirst  Turn = "FIRST"
	TurnSecond Turn = "SECOND"
)

// Special marks a round decided administratively instead of by games.
type Special string

const (
	SpecialID     Special = "ID"
	SpecialNoShow Special = "NO_SHOW"
	SpecialBye    Special = "BYE"
)

type Game struct {
	Game   int         `json:"game"`
	Result *GameResult `json:"result"`
	Turn   *Turn       `json:"turn"`
}

type OpponentDeck struct {
	P1 *int `json:"p1"`
	P2 *int `json:"p2"`
}

type Round struct {
	RoundNumber  int           `json:"round_number"`
	OpponentDeck *OpponentDeck `json:"opponent_deck"`
	Special      *Special      `json:"special"`
	Games        []Game        `json:"games"`
}

// IsSpecial reports whether the round bypasses per-game scoring.
func (r Round) IsSpecial() bool {
	if r.Special == nil {
		return false
	}
	switch *r.Special {
	case SpecialID, SpecialNoShow, SpecialBye:
		return true
	}
	return false
}

// EmptyGames returns the three null placeholder slots.
func EmptyGames() []Game {
	games := make([]Game, GamesPerRound)
	for i := range games {
		games[i] = Game{Game: i + 1}
	}
	return games
}

// Rounds is stored as a JSONB array.
type Rounds []Round

// Value returns a string: lib/pq would send []byte as bytea.
func (r Rounds) Value() (driver.Value, error) {
	if r == nil {
		return "[]", nil
	}
	b, err := json.Marshal(r)
	if err != nil {
		return nil, err
	}
	return string(b), nil
}

func (r *Rounds) Scan(src interface{}) error {
	data, err := jsonBytes(src)
	if err != nil {
		return fmt.Errorf("scan rounds: %w", err)
	}
	if len(data) == 0 {
		*r = Rounds{}
		return nil
	}
	var rounds Rounds
	if err := json.Unmarshal(data, &rounds); err != nil {
		// Некорректный JSON в колонке считаем пустым списком раундов
		*r = Rounds{}
		return nil
	}
	if rounds == nil {
		rounds = Rounds{}
	}
	*r = rounds
	return nil
}

// Score is the derived win/loss/tie summary, stored as JSONB.
type Score struct {
	Wins   int    `json:"wins"`
	Losses int    `json:"losses"`
	Ties   int    `json:"ties"`
	Text   string `json:"text"`
}

func (s Score) Value() (driver.Value, error) {
	b, err := json.Marshal(s)
	if err != nil {
		return nil, err
	}
	return string(b), nil
}

func (s *Score) Scan(src interface{}) error {
	data, err := jsonBytes(src)
	if err != nil {
		return fmt.Errorf("scan score: %w", err)
	}
	if len(data) == 0 {
		*s = Score{}
		return nil
	}
	return json.Unmarshal(data, s)
}

func jsonBytes(src interface{}) ([]byte, error) {
	switch v := src.(type) {
	case nil:
		return nil, nil
	case []byte:
		return v, nil
	case string:
		return []byte(v), nil
	default:
		return nil, fmt.Errorf("unsupported source type %T", src)
	}
}
