package handlers

import (
	"fmt"
	"math"
	"strings"

	"github.com/xaenox/coach-bot/internal/classifier"
	"github.com/xaenox/coach-bot/internal/models"
)

func noMatch() models.Response {
	return models.Response{
		Content:  NoMatchScheduled,
		Kind:     models.KindInfo,
		Priority: models.PriorityLow,
	}
}

// matchPrediction resolves the opponent from the text, then the next
// scheduled fixture, then the first stored prediction. Without any of them it
// short-circuits to NoMatchScheduled.
func matchPrediction(rc models.RequestContext, text string, snap *models.TeamSnapshot) models.Response {
	opponent, ok := classifier.ExtractOpponent(text, knownOpponents(snap))
	if !ok {
		next, found := snap.NextMatch(rc.Now)
		switch {
		case found:
			opponent = next.Opponent
		case len(snap.Predictions) > 0:
			opponent = snap.Predictions[0].Opponent
		default:
			return noMatch()
		}
	}

	pred, ok := snap.PredictionFor(opponent)
	if !ok {
		pred, ok = derivePrediction(snap, opponent)
		if !ok {
			return models.Response{
				Content:  fmt.Sprintf("There is no prediction for %s yet and not enough match history to estimate one.", opponent),
				Kind:     models.KindInfo,
				Priority: models.PriorityLow,
			}
		}
	}
	win, draw, loss := capProbabilities(pred.WinProbability, pred.DrawProbability, pred.LossProbability)

	formation := pred.RecommendedFormation
	if formation == "" {
		formation = snap.Stats.Formation
	}
	keyPlayers := resolvePlayers(snap, pred.KeyPlayerIDs)
	if len(keyPlayers) == 0 {
		keyPlayers = topRated(available(snap.Players), 3)
	}
	lineup := topRated(available(snap.Players), 11)

	rep := newReport(fmt.Sprintf("🔮 Match prediction: %s vs %s", snap.TeamName, opponent))
	rep.bullet("Win: %.0f%%", win)
	rep.bullet("Draw: %.0f%%", draw)
	rep.bullet("Loss: %.0f%%", loss)
	if pred.PredictedScore != "" {
		rep.bullet("Predicted score: %s", pred.PredictedScore)
	}
	rep.bullet("Recommended formation: %s", formation)
	rep.list("Key players", names(keyPlayers))
	rep.list("Suggested lineup", names(lineup))

	priority := models.PriorityMedium
	if loss > win {
		priority = models.PriorityHigh
	}

	return models.Response{
		Content:  rep.String(),
		Kind:     models.KindPrediction,
		Priority: priority,
	}
}

// derivePrediction estimates outcome probabilities from the season record
// when the snapshot carries no prediction for opponent.
func derivePrediction(snap *models.TeamSnapshot, opponent string) (models.MatchPrediction, bool) {
	played := snap.Stats.MatchesPlayed()
	if played == 0 {
		return models.MatchPrediction{}, false
	}
	return models.MatchPrediction{
		Opponent:             opponent,
		WinProbability:       float64(snap.Stats.Wins) / float64(played) * 100,
		DrawProbability:      float64(snap.Stats.Draws) / float64(played) * 100,
		LossProbability:      float64(snap.Stats.Losses) / float64(played) * 100,
		RecommendedFormation: snap.Stats.Formation,
	}, true
}

// capProbabilities scales the three figures down when they add up to more
// than 100. Sums below 100 are left alone.
func capProbabilities(win, draw, loss float64) (float64, float64, float64) {
	win, draw, loss = math.Max(win, 0), math.Max(draw, 0), math.Max(loss, 0)
	sum := win + draw + loss
	if sum <= 100 {
		return win, draw, loss
	}
	scale := 100 / sum
	return math.Floor(win * scale), math.Floor(draw * scale), math.Floor(loss * scale)
}

func resolvePlayers(snap *models.TeamSnapshot, ids []string) []models.Player {
	var out []models.Player
	for _, id := range ids {
		if p, ok := snap.PlayerByID(id); ok {
			out = append(out, p)
		}
	}
	return out
}

func matchPreparation(rc models.RequestContext, snap *models.TeamSnapshot) models.Response {
	next, ok := snap.NextMatch(rc.Now)
	if !ok {
		return noMatch()
	}

	venue := "away"
	if next.Home {
		venue = "home"
	}
	daysLeft := int(next.Date.Sub(rc.Now).Hours() / 24)

	rep := newReport(fmt.Sprintf("📋 Match preparation: %s vs %s", snap.TeamName, next.Opponent))
	rep.bullet("Kick-off: %s (%s, %s), %d days to go", next.Date.Format("Mon Jan 2 15:04"), venue, next.Venue, daysLeft)
	if next.Competition != "" {
		rep.bullet("Competition: %s", next.Competition)
	}

	formation := snap.Stats.Formation
	if pred, found := snap.PredictionFor(next.Opponent); found {
		if pred.RecommendedFormation != "" {
			formation = pred.RecommendedFormation
		}
		win, draw, loss := capProbabilities(pred.WinProbability, pred.DrawProbability, pred.LossProbability)
		rep.bullet("Outlook: %.0f%% win, %.0f%% draw, %.0f%% loss", win, draw, loss)
	}
	rep.bullet("Formation: %s", formation)

	squad := available(snap.Players)
	rep.bullet("Available players: %d of %d", len(squad), len(snap.Players))
	var unavailable []string
	for _, p := range snap.Players {
		if p.Status == models.StatusInjured || p.Status == models.StatusSuspended {
			unavailable = append(unavailable, fmt.Sprintf("%s (%s)", p.Name, p.Status))
		}
	}
	rep.list("Unavailable", unavailable)

	for _, c := range snap.Analytics.CompetitorAnalysis {
		if strings.EqualFold(c.Name, next.Opponent) {
			rep.list("Opponent strengths", c.Strengths)
			rep.list("Opponent weaknesses", c.Weaknesses)
			break
		}
	}
	if snap.Weather.Condition != "" {
		rep.bullet("Weather: %s, %.0f°C", snap.Weather.Condition, snap.Weather.TemperatureC)
	}
	rep.list("Starting XI", names(topRated(squad, 11)))

	priority := models.PriorityMedium
	if daysLeft <= 2 {
		priority = models.PriorityHigh
	}

	return models.Response{
		Content:  rep.String(),
		Kind:     models.KindAnalysis,
		Priority: priority,
	}
}
