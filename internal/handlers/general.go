package handlers

import (
	"hash/fnv"

	"github.com/xaenox/coach-bot/internal/models"
)

var acknowledgements = []string{
	"I can help with your squad, match predictions, injuries, training plans, tactics and more. Try \"Show me all players\" or \"Predict next match\".",
	"Got it. Ask me about team performance, fitness levels or the next opponent and I'll dig into the numbers.",
	"I'm not sure what you need yet. You can ask for a training plan, an injury report or a market overview.",
	"Happy to help! Tell me which player, match or area of the team you want to look at.",
}

// General never fails. The template depends only on the text, so repeated
// input gets the same answer.
func General(text string, confidence int) models.Response {
	h := fnv.New32a()
	h.Write([]byte(text))

	return models.Response{
		Category:   models.General,
		Content:    acknowledgements[h.Sum32()%uint32(len(acknowledgements))],
		Kind:       models.KindText,
		Confidence: confidence,
		Priority:   models.PriorityLow,
		Suggestions: []string{
			"Show me all players",
			"Analyze team performance",
			"Predict next match",
		},
	}
}
