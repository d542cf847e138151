// Package classifier maps free text to an intent category and a heuristic
// confidence score. Classification is rule based: the first matching rule
// wins, so rule order is part of the contract.
package classifier

import (
	"math"
	"regexp"
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/xaenox/coach-bot/internal/models"
)

// Weights are the constants of the confidence formula:
//
//	min(LengthCap, runes/50*LengthPer50) + TermWeight*hits + QuestionBonus + PlayerBonus + Base
type Weights struct {
	Base          float64
	LengthCap     float64
	LengthPer50   float64
	TermWeight    float64
	QuestionBonus float64
	PlayerBonus   float64
}

func DefaultWeights() Weights {
	return Weights{
		Base:          30,
		LengthCap:     30,
		LengthPer50:   20,
		TermWeight:    15,
		QuestionBonus: 10,
		PlayerBonus:   20,
	}
}

type rule struct {
	category models.IntentCategory
	// prefixes match the start of any word of the lower-cased input
	prefixes []string
	patterns []*regexp.Regexp
	// namedPlayer also matches an analysis request naming a squad member.
	namedPlayer bool
}

func (r rule) matches(lower string, words []string, snap *models.TeamSnapshot) bool {
	if r.namedPlayer && snap != nil && hasPrefix(words, "analy") {
		if _, ok := FindMentionedPlayer(lower, snap.Players); ok {
			return true
		}
	}
	for _, w := range words {
		for _, p := range r.prefixes {
			if strings.HasPrefix(w, p) {
				return true
			}
		}
	}
	for _, re := range r.patterns {
		if re.MatchString(lower) {
			return true
		}
	}
	return false
}

// Player-management and prediction rules come before the broad analysis
// rule so "analyze player X" is not swallowed by teamAnalysis.
var defaultRules = []rule{
	{
		category: models.PlayerManagement,
		patterns: []*regexp.Regexp{
			regexp.MustCompile(`\b(add|create|new|sign|register)\b.*\bplayer\b`),
			regexp.MustCompile(`\b(show|list|display)\b.*\b(players|squad|roster)\b`),
			regexp.MustCompile(`\ball players\b`),
			regexp.MustCompile(`\b(analy\w*|profile|assess\w*)\b.*\bplayer\b`),
		},
		namedPlayer: true,
	},
	{
		category: models.MatchPredictionIntent,
		prefixes: []string{"predict", "odds"},
		patterns: []*regexp.Regexp{
			regexp.MustCompile(`\b(vs\.?|versus|against)\s+\S`),
		},
	},
	{category: models.InjuryAnalysis, prefixes: []string{"injur"}},
	{category: models.TrainingPlanning, prefixes: []string{"train", "plan", "drill"}},
	{category: models.MarketAnalysisIntent, prefixes: []string{"market", "value", "transfer"}},
	{category: models.WeatherImpact, prefixes: []string{"weather"}},
	{category: models.CompetitorAnalysis, prefixes: []string{"rival", "competitor"}},
	{category: models.FitnessTracking, prefixes: []string{"fitness", "fatigue", "stamina"}},
	{category: models.PerformanceOptimization, prefixes: []string{"optimi", "improve"}},
	{category: models.MatchPreparation, prefixes: []string{"prepar"}},
	{category: models.TacticalAdvice, prefixes: []string{"tactic", "formation", "strategy"}},
	{category: models.TeamAnalysis, prefixes: []string{"analy", "team"}},
}

// DefaultTerms is the curated term set counted by the confidence score. A
// term counts once when any word of the input starts with it.
var DefaultTerms = []string{
	"player", "squad", "match", "predict", "odds", "vs", "versus", "against", "injur", "train",
	"plan", "drill", "market", "value", "transfer", "weather", "rival", "competitor", "fitness", "fatigue",
	"stamina", "optimi", "improve", "prepar", "tactic", "formation", "strategy", "analy",
	"team", "lineup", "goal", "opponent",
}

type Classifier struct {
	rules   []rule
	terms   []string
	weights Weights
}

func NewClassifier(weights Weights, terms []string) *Classifier {
	if len(terms) == 0 {
		terms = DefaultTerms
	}
	return &Classifier{
		rules:   defaultRules,
		terms:   terms,
		weights: weights,
	}
}

// Classify picks the category of text and scores it. It is a pure function
// of (text, snapshot).
func (c *Classifier) Classify(text string, snap *models.TeamSnapshot) models.ClassificationResult {
	lower := strings.ToLower(text)
	words := tokenize(lower)

	category := models.General
	for _, r := range c.rules {
		if r.matches(lower, words, snap) {
			category = r.category
			break
		}
	}

	return models.ClassificationResult{
		Category:   category,
		Confidence: c.score(text, lower, words, snap),
	}
}

// Confidence returns only the score part of Classify.
func (c *Classifier) Confidence(text string, snap *models.TeamSnapshot) int {
	lower := strings.ToLower(text)
	return c.score(text, lower, tokenize(lower), snap)
}

func (c *Classifier) score(text, lower string, words []string, snap *models.TeamSnapshot) int {
	w := c.weights

	score := math.Min(w.LengthCap, float64(utf8.RuneCountInString(text))/50*w.LengthPer50)
	score += w.TermWeight * float64(c.termHits(words))
	if strings.Contains(text, "?") {
		score += w.QuestionBonus
	}
	if snap != nil {
		if _, ok := FindMentionedPlayer(lower, snap.Players); ok {
			score += w.PlayerBonus
		}
	}
	score += w.Base

	return int(math.Round(clamp(score, 0, 100)))
}

func (c *Classifier) termHits(words []string) int {
	hits := 0
	for _, term := range c.terms {
		for _, w := range words {
			if strings.HasPrefix(w, term) {
				hits++
				break
			}
		}
	}
	return hits
}

func hasPrefix(words []string, prefix string) bool {
	for _, w := range words {
		if strings.HasPrefix(w, prefix) {
			return true
		}
	}
	return false
}

func tokenize(lower string) []string {
	return strings.FieldsFunc(lower, func(r rune) bool {
		return !unicode.IsLetter(r) && !unicode.IsNumber(r)
	})
}

func clamp(v, lo, hi float64) float64 {
	return math.Max(lo, math.Min(hi, v))
}
