package services

import (
	"testing"

	"github.com/Dosada05/tournament-tracker/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func turn(t models.Turn) *models.Turn { return &t }

func TestSanitizeRoundsFillsShape(t *testing.T) {
	in := []models.Round{
		{RoundNumber: 1},
		{RoundNumber: 2, Games: []models.Game{{Game: 2, Result: res(models.GameWin)}, {Game: 7, Result: res(models.GameLoss)}}},
	}

	out := SanitizeRounds(in)
	require.Len(t, out, 2)
	for _, r := range out {
		require.NotNil(t, r.OpponentDeck)
		require.Len(t, r.Games, models.GamesPerRound)
		for i, g := range r.Games {
			assert.Equal(t, i+1, g.Game)
		}
	}
	assert.Nil(t, out[1].Games[0].Result)
	require.NotNil(t, out[1].Games[1].Result)
	assert.Equal(t, models.GameWin, *out[1].Games[1].Result)
	assert.Nil(t, out[1].Games[2].Result)
}

func TestSanitizeRoundsSpecialClearsGames(t *testing.T) {
	r := played(1, models.GameWin, models.GameLoss, models.GameWin)
	r.Games[0].Turn = turn(models.TurnFirst)
	r.Special = special(models.SpecialBye)

	out := SanitizeRounds([]models.Round{r})
	require.Len(t, out, 1)
	require.NotNil(t, out[0].Special)
	assert.Equal(t, models.SpecialBye, *out[0].Special)
	assert.Equal(t, models.EmptyGames(), out[0].Games)
}

func TestSanitizeRoundsDoesNotMutateInput(t *testing.T) {
	deck := &models.OpponentDeck{P1: intPtr(3)}
	in := []models.Round{{RoundNumber: 1, OpponentDeck: deck, Games: []models.Game{{Game: 1, Result: res(models.GameWin)}}}}

	out := SanitizeRounds(in)
	*out[0].OpponentDeck.P1 = 99
	*out[0].Games[0].Result = models.GameLoss

	assert.Equal(t, 3, *deck.P1)
	assert.Equal(t, models.GameWin, *in[0].Games[0].Result)
	assert.Len(t, in[0].Games, 1)
}

func TestSanitizeRoundsIdempotent(t *testing.T) {
	r := played(1, models.GameWin)
	r.OpponentDeck.P2 = intPtr(5)
	once := SanitizeRounds([]models.Round{r, {RoundNumber: 2, Special: special(models.SpecialID)}})
	twice := SanitizeRounds(once)
	assert.Equal(t, once, twice)
}

func TestNextRoundNumber(t *testing.T) {
	assert.Equal(t, 1, nextRoundNumber(nil))
	assert.Equal(t, 3, nextRoundNumber([]models.Round{{RoundNumber: 1}, {RoundNumber: 2}}))
	assert.Equal(t, 6, nextRoundNumber([]models.Round{{RoundNumber: 5}, {RoundNumber: 2}}))
}

func TestParseRoundPatchRejectsInvalidField(t *testing.T) {
	cases := []struct {
		name   string
		params Params
		want   error
	}{
		{"bad result", Params{"g1": strPtr("X")}, ErrInvalidGameResult},
		{"bad turn", Params{"t3": strPtr("LAST")}, ErrInvalidTurn},
		{"bad special", Params{"special": strPtr("DQ")}, ErrInvalidSpecial},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := parseRoundPatch(tc.params)
			require.ErrorIs(t, err, tc.want)
		})
	}
}

func TestRoundPatchApply(t *testing.T) {
	base := played(4, models.GameWin, models.GameLoss)
	base.Games[0].Turn = turn(models.TurnFirst)
	base.OpponentDeck.P1 = intPtr(10)

	patch, err := parseRoundPatch(Params{
		"g2": strPtr(""),
		"g3": strPtr("t"),
		"t2": strPtr("second"),
		"p2": strPtr("7.8"),
	})
	require.NoError(t, err)

	out := patch.apply(base)
	assert.Equal(t, 4, out.RoundNumber)
	require.NotNil(t, out.Games[0].Result)
	assert.Equal(t, models.GameWin, *out.Games[0].Result)
	assert.Equal(t, models.TurnFirst, *out.Games[0].Turn)
	assert.Nil(t, out.Games[1].Result)
	assert.Equal(t, models.TurnSecond, *out.Games[1].Turn)
	assert.Equal(t, models.GameTie, *out.Games[2].Result)
	assert.Equal(t, 10, *out.OpponentDeck.P1)
	assert.Equal(t, 7, *out.OpponentDeck.P2)

	// Исходный раунд не меняется
	assert.Equal(t, models.GameLoss, *base.Games[1].Result)
	assert.Nil(t, base.OpponentDeck.P2)
}

func TestRoundPatchClearsSpecialAndDeck(t *testing.T) {
	base := models.Round{RoundNumber: 1, Special: special(models.SpecialNoShow), OpponentDeck: &models.OpponentDeck{P1: intPtr(1)}}

	patch, err := parseRoundPatch(Params{"special": nil, "p1": strPtr("abc")})
	require.NoError(t, err)

	out := patch.apply(base)
	assert.Nil(t, out.Special)
	assert.Nil(t, out.OpponentDeck.P1)
}
