package handlers

import (
	"fmt"
	"math"
	"strings"
	"time"

	"github.com/xaenox/coach-bot/internal/classifier"
	"github.com/xaenox/coach-bot/internal/models"
	"go.uber.org/zap"
)

type phaseTemplate struct {
	name    string
	minutes int
	details string
}

// Every plan uses the same five phases; only their lengths scale.
var sessionTemplate = []phaseTemplate{
	{"Warm-up", 15, "mobility, activation and rondos"},
	{"Technical", 25, "%s drills in small groups"},
	{"Tactical", 25, "%s patterns in match shape"},
	{"Conditioning", 20, "interval runs matched to the plan intensity"},
	{"Cool-down", 10, "stretching and recovery protocol"},
}

var intensityFactor = map[models.Intensity]float64{
	models.IntensityLow:    0.8,
	models.IntensityMedium: 1.0,
	models.IntensityHigh:   1.2,
}

// durationFactor shortens sessions of very short plans and lengthens those
// of long blocks.
func durationFactor(days int) float64 {
	switch {
	case days <= 3:
		return 0.8
	case days <= 14:
		return 1.0
	default:
		return 1.2
	}
}

func (r *Registry) trainingPlan(rc models.RequestContext, text string, snap *models.TeamSnapshot) models.Response {
	focus, ok := classifier.ExtractFocus(text)
	if !ok {
		focus = DefaultFocus
	}
	days, ok := classifier.ExtractDuration(text)
	if !ok {
		days = DefaultTrainingDays
	}
	intensity, ok := classifier.ExtractIntensity(text)
	if !ok {
		intensity = models.IntensityMedium
	}

	factor := intensityFactor[intensity] * durationFactor(days)
	exercises := make([]models.Exercise, 0, len(sessionTemplate))
	total := 0
	for _, phase := range sessionTemplate {
		minutes := int(math.Round(float64(phase.minutes) * factor))
		total += minutes
		details := phase.details
		if strings.Contains(details, "%s") {
			details = fmt.Sprintf(details, focus)
		}
		exercises = append(exercises, models.Exercise{
			Name:        phase.name,
			Phase:       strings.ToLower(phase.name),
			DurationMin: minutes,
			Description: details,
		})
	}

	var targets []string
	if p, found := classifier.FindMentionedPlayer(text, snap.Players); found {
		targets = []string{p.ID}
	} else {
		for _, p := range available(snap.Players) {
			targets = append(targets, p.ID)
		}
	}

	plan := models.TrainingPlan{
		ID:              r.newID(),
		Name:            fmt.Sprintf("%s plan (%d days)", strings.ToUpper(focus[:1])+focus[1:], days),
		DurationDays:    days,
		Intensity:       intensity,
		FocusAreas:      []string{focus},
		Exercises:       exercises,
		TargetPlayerIDs: targets,
		Schedule:        trainingSchedule(rc.Now, days),
	}

	r.logger.Info("Training plan created",
		zap.String("plan_id", plan.ID),
		zap.String("focus", focus),
		zap.Int("days", days))

	rep := newReport("✅ Training plan created: " + plan.Name)
	rep.bullet("Intensity: %s", plan.Intensity)
	rep.bullet("Sessions: %d", len(plan.Schedule))
	if len(plan.Schedule) > 0 {
		rep.bullet("From %s to %s",
			plan.Schedule[0].Format("Jan 2"), plan.Schedule[len(plan.Schedule)-1].Format("Jan 2"))
	}
	rep.bullet("Players: %d", len(plan.TargetPlayerIDs))
	rep.bullet("Session length: %d min", total)
	for i, ex := range exercises {
		rep.line("%d. %s (%d min): %s", i+1, ex.Name, ex.DurationMin, ex.Description)
	}

	return models.Response{
		Content:  rep.String(),
		Kind:     models.KindSuccess,
		Priority: models.PriorityMedium,
		Mutation: &models.Mutation{AddTrainingPlan: &plan},
	}
}

// trainingSchedule lists one session per day starting tomorrow, with every
// seventh day kept as a rest day.
func trainingSchedule(now time.Time, days int) []time.Time {
	start := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())
	var out []time.Time
	for d := 1; d <= days; d++ {
		if d%7 == 0 {
			continue
		}
		out = append(out, start.AddDate(0, 0, d))
	}
	return out
}
