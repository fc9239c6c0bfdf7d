package services

import (
	"fmt"

	"github.com/Dosada05/tournament-tracker/models"
)

// Ключи полей в запросе update_round.
var (
	gameResultKeys = [models.GamesPerRound]string{"g1", "g2", "g3"}
	gameTurnKeys   = [models.GamesPerRound]string{"t1", "t2", "t3"}
)

const (
	specialKey = "special"
	deckP1Key  = "p1"
	deckP2Key  = "p2"
)

// SanitizeRounds returns a normalized copy of rounds; the input is never
// modified. Every round gets an opponent deck and exactly three game slots,
// and special rounds get null placeholder games.
func SanitizeRounds(rounds []models.Round) models.Rounds {
	out := make(models.Rounds, 0, len(rounds))
	for _, r := range rounds {
		out = append(out, sanitizeRound(r))
	}
	return out
}

func sanitizeRound(r models.Round) models.Round {
	clean := copyRound(r)
	if clean.IsSpecial() {
		clean.Games = models.EmptyGames()
	}
	return clean
}

// copyRound deep-copies r into the fixed three-slot shape. Slots outside 1..3
// are dropped and missing slots are filled with nulls.
func copyRound(r models.Round) models.Round {
	clean := models.Round{
		RoundNumber:  r.RoundNumber,
		OpponentDeck: &models.OpponentDeck{},
		Games:        models.EmptyGames(),
	}
	if r.OpponentDeck != nil {
		clean.OpponentDeck.P1 = copyInt(r.OpponentDeck.P1)
		clean.OpponentDeck.P2 = copyInt(r.OpponentDeck.P2)
	}
	if r.Special != nil {
		special := *r.Special
		clean.Special = &special
	}
	for _, g := range r.Games {
		if g.Game < 1 || g.Game > models.GamesPerRound {
			continue
		}
		slot := &clean.Games[g.Game-1]
		if g.Result != nil {
			res := *g.Result
			slot.Result = &res
		}
		if g.Turn != nil {
			turn := *g.Turn
			slot.Turn = &turn
		}
	}
	return clean
}

// nextRoundNumber is max(existing)+1, so numbers are never reused.
func nextRoundNumber(rounds []models.Round) int {
	highest := 0
	for _, r := range rounds {
		if r.RoundNumber > highest {
			highest = r.RoundNumber
		}
	}
	return highest + 1
}

func newRound(number int) models.Round {
	return models.Round{
		RoundNumber:  number,
		OpponentDeck: &models.OpponentDeck{},
		Games:        models.EmptyGames(),
	}
}

func findRound(rounds []models.Round, number int) int {
	for i, r := range rounds {
		if r.RoundNumber == number {
			return i
		}
	}
	return -1
}

// roundPatch is a fully validated update_round request.
type roundPatch struct {
	results [models.GamesPerRound]Field[models.GameResult]
	turns   [models.GamesPerRound]Field[models.Turn]
	special Field[models.Special]

	p1, p2       *int
	p1Set, p2Set bool
}

// parseRoundPatch normalizes every patch field before anything is applied,
// so a single invalid field rejects the whole update.
func parseRoundPatch(params Params) (roundPatch, error) {
	var patch roundPatch

	for i := 0; i < models.GamesPerRound; i++ {
		v, ok := params.Lookup(gameResultKeys[i])
		patch.results[i] = NormalizeResult(v, ok)
		if patch.results[i].State == FieldInvalid {
			return roundPatch{}, fmt.Errorf("%w: %s must be one of W, L, T or empty", ErrInvalidGameResult, gameResultKeys[i])
		}

		v, ok = params.Lookup(gameTurnKeys[i])
		patch.turns[i] = NormalizeTurn(v, ok)
		if patch.turns[i].State == FieldInvalid {
			return roundPatch{}, fmt.Errorf("%w: %s must be one of FIRST, SECOND or empty", ErrInvalidTurn, gameTurnKeys[i])
		}
	}

	v, ok := params.Lookup(specialKey)
	patch.special = NormalizeSpecial(v, ok)
	if patch.special.State == FieldInvalid {
		return roundPatch{}, fmt.Errorf("%w: special must be one of ID, NO_SHOW, BYE or empty", ErrInvalidSpecial)
	}

	if v, ok := params.Lookup(deckP1Key); ok {
		patch.p1, patch.p1Set = ToIntOrNull(v), true
	}
	if v, ok := params.Lookup(deckP2Key); ok {
		patch.p2, patch.p2Set = ToIntOrNull(v), true
	}
	return patch, nil
}

// apply returns a patched copy of r. Unset fields keep their current value;
// the caller re-sanitizes the result.
func (p roundPatch) apply(r models.Round) models.Round {
	out := copyRound(r)

	for i := 0; i < models.GamesPerRound; i++ {
		if p.results[i].State != FieldUnset {
			out.Games[i].Result = p.results[i].Ptr()
		}
		if p.turns[i].State != FieldUnset {
			out.Games[i].Turn = p.turns[i].Ptr()
		}
	}
	if p.special.State != FieldUnset {
		out.Special = p.special.Ptr()
	}
	if p.p1Set {
		out.OpponentDeck.P1 = p.p1
	}
	if p.p2Set {
		out.OpponentDeck.P2 = p.p2
	}
	return out
}

func copyInt(v *int) *int {
	if v == nil {
		return nil
	}
	n := *v
	return &n
}
