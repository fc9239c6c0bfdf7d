package services

import (
	"testing"

	"github.com/Dosada05/tournament-tracker/models"
	"github.com/stretchr/testify/assert"
)

func intPtr(n int) *int { return &n }

func special(s models.Special) *models.Special { return &s }

func res(r models.GameResult) *models.GameResult { return &r }

// played builds a round from up to three game results; "" leaves a slot null.
func played(number int, results ...models.GameResult) models.Round {
	r := newRound(number)
	for i, result := range results {
		if result != "" {
			r.Games[i].Result = res(result)
		}
	}
	return r
}

func TestCalculateScoreEmpty(t *testing.T) {
	assert.Equal(t, models.Score{Text: "0-0-0"}, CalculateScore(nil))
	assert.Equal(t, models.Score{Text: "0-0-0"}, CalculateScore([]models.Round{}))
}

func TestCalculateScoreSpecialRounds(t *testing.T) {
	rounds := []models.Round{
		{RoundNumber: 1, Special: special(models.SpecialBye)},
		{RoundNumber: 2, Special: special(models.SpecialNoShow)},
		{RoundNumber: 3, Special: special(models.SpecialID)},
	}
	assert.Equal(t, models.Score{Wins: 2, Losses: 0, Ties: 1, Text: "2-0-1"}, CalculateScore(rounds))
}

func TestCalculateScoreSpecialIgnoresGames(t *testing.T) {
	r := played(1, models.GameLoss, models.GameLoss)
	r.Special = special(models.SpecialBye)
	assert.Equal(t, "1-0-0", CalculateScore([]models.Round{r}).Text)
}

func TestCalculateScorePlayedRounds(t *testing.T) {
	cases := []struct {
		name  string
		round models.Round
		want  string
	}{
		{"two wins", played(1, models.GameWin, models.GameWin), "1-0-0"},
		{"win loss win", played(1, models.GameWin, models.GameLoss, models.GameWin), "1-0-0"},
		{"two losses", played(1, models.GameLoss, models.GameWin, models.GameLoss), "0-1-0"},
		{"one each third unreported", played(1, models.GameWin, models.GameLoss, ""), "0-0-1"},
		{"single tie game", played(1, models.GameTie), "0-0-1"},
		{"nothing reported", played(1), "0-0-0"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, CalculateScore([]models.Round{tc.round}).Text)
		})
	}
}

func TestCalculateScoreTallyBound(t *testing.T) {
	rounds := []models.Round{
		played(1, models.GameWin, models.GameWin),
		played(2),
		played(3, models.GameLoss, models.GameLoss),
		{RoundNumber: 4, Special: special(models.SpecialID)},
		played(5, "", "", ""),
	}
	score := CalculateScore(rounds)
	total := score.Wins + score.Losses + score.Ties
	// Два раунда без результатов не учитываются
	assert.Equal(t, len(rounds)-2, total)
	assert.Equal(t, "1-1-1", score.Text)
}

func TestCalculateScoreOrderIndependent(t *testing.T) {
	a := []models.Round{
		played(1, models.GameWin, models.GameWin),
		{RoundNumber: 2, Special: special(models.SpecialID)},
		played(3, models.GameLoss, models.GameWin, models.GameLoss),
	}
	b := []models.Round{a[2], a[0], a[1]}
	assert.Equal(t, CalculateScore(a), CalculateScore(b))
}
