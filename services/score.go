package services

import (
	"fmt"

	"github.com/Dosada05/tournament-tracker/models"
)

// CalculateScore derives the win/loss/tie summary from rounds. Each round is
// classified on its own, so the result does not depend on round order.
func CalculateScore(rounds []models.Round) models.Score {
	var score models.Score
	for _, r := range rounds {
		if r.Special != nil {
			switch *r.Special {
			case models.SpecialBye, models.SpecialNoShow:
				score.Wins++
				continue
			case models.SpecialID:
				score.Ties++
				continue
			}
		}

		wins, losses, reported := 0, 0, 0
		for _, g := range r.Games {
			if g.Result == nil {
				continue
			}
			reported++
			switch *g.Result {
			case models.GameWin:
				wins++
			case models.GameLoss:
				losses++
			}
		}
		if reported == 0 {
			continue
		}

		switch {
		case wins > losses:
			score.Wins++
		case losses > wins:
			score.Losses++
		default:
			score.Ties++
		}
	}
	score.Text = fmt.Sprintf("%d-%d-%d", score.Wins, score.Losses, score.Ties)
	return score
}
