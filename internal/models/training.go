package models

import "time"

type Intensity string

const (
	IntensityLow    Intensity = "low"
	IntensityMedium Intensity = "medium"
	IntensityHigh   Intensity = "high"
)

type Exercise struct {
	Name        string `json:"name"`
	Phase       string `json:"phase"`
	DurationMin int    `json:"duration_min"`
	Description string `json:"description"`
}

type TrainingPlan struct {
	ID              string      `json:"id"`
	Name            string      `json:"name"`
	DurationDays    int         `json:"duration_days"`
	Intensity       Intensity   `json:"intensity"`
	FocusAreas      []string    `json:"focus_areas"`
	Exercises       []Exercise  `json:"exercises"`
	TargetPlayerIDs []string    `json:"target_player_ids"`
	Schedule        []time.Time `json:"schedule"`
}
