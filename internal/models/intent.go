package models

// IntentCategory is the closed set of request kinds the engine understands.
type IntentCategory int

const (
	General IntentCategory = iota
	PlayerManagement
	TeamAnalysis
	MatchPredictionIntent
	InjuryAnalysis
	TacticalAdvice
	TrainingPlanning
	MarketAnalysisIntent
	WeatherImpact
	CompetitorAnalysis
	FitnessTracking
	PerformanceOptimization
	MatchPreparation
)

var categoryNames = map[IntentCategory]string{
	General:                 "general",
	PlayerManagement:        "playerManagement",
	TeamAnalysis:            "teamAnalysis",
	MatchPredictionIntent:   "matchPrediction",
	InjuryAnalysis:          "injuryAnalysis",
	TacticalAdvice:          "tacticalAdvice",
	TrainingPlanning:        "trainingPlan",
	MarketAnalysisIntent:    "marketAnalysis",
	WeatherImpact:           "weatherImpact",
	CompetitorAnalysis:      "competitorAnalysis",
	FitnessTracking:         "fitnessTracking",
	PerformanceOptimization: "performanceOptimization",
	MatchPreparation:        "matchPreparation",
}

func (c IntentCategory) String() string {
	if name, ok := categoryNames[c]; ok {
		return name
	}
	return "unknown"
}

// ClassificationResult represents the outcome of classifying one input.
type ClassificationResult struct {
	Category   IntentCategory `json:"category"`
	Confidence int            `json:"confidence"`
}

// Mutation is the write side effect a handler asks the data layer to apply.
type Mutation struct {
	AddPlayer       *Player       `json:"add_player,omitempty"`
	AddTrainingPlan *TrainingPlan `json:"add_training_plan,omitempty"`
}

// Response is what a handler or the remote assistant produces before it is
// wrapped into a transcript Message.
type Response struct {
	Category    IntentCategory `json:"category"`
	Content     string         `json:"content"`
	Kind        MessageKind    `json:"kind"`
	Confidence  int            `json:"confidence"`
	Priority    Priority       `json:"priority,omitempty"`
	Suggestions []string       `json:"suggestions,omitempty"`
	Mutation    *Mutation      `json:"mutation,omitempty"`
}
