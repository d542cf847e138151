package classifier

import (
	"regexp"
	"strconv"
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/xaenox/coach-bot/internal/models"
)

var (
	playerNameRe = regexp.MustCompile(`(?i:\b(?:add|create|new|sign|register)\b)\s+(?:(?i:a|the)\s+)?(?:(?i:new)\s+)?(?i:player)\s+(?:(?i:named|called)\s+)?(\p{Lu}[\p{L}'.-]*(?:\s+\p{Lu}[\p{L}'.-]*)*)`)
	lowerNameRe  = regexp.MustCompile(`(?i)\b(?:add|create|new|sign|register)\s+(?:(?:a|the)\s+)?(?:new\s+)?player\s+(?:(?:named|called)\s+)?([\p{L}'.-]+(?:\s+[\p{L}'.-]+){0,2})`)
	namedRe      = regexp.MustCompile(`(?i:\b(?:named|called)\b)\s+(\p{Lu}[\p{L}'.-]*(?:\s+\p{Lu}[\p{L}'.-]*)*)`)
	ageRe        = regexp.MustCompile(`(?i)\baged?\s*[:=]?\s*(\d{1,2})\b`)
	yearsOldRe   = regexp.MustCompile(`(?i)\b(\d{1,2})\s*(?:years?\s*old|y/?o)\b`)
	fromRe       = regexp.MustCompile(`(?i:\b(?:from|nationality:?))\s+(\p{Lu}\p{L}+)`)
	opponentRe   = regexp.MustCompile(`(?i:\b(?:vs\.?|versus|against))\s+(\p{L}[\p{L}'.-]*(?:\s+\p{Lu}[\p{L}'.-]*)*)`)
	durationRe   = regexp.MustCompile(`(?i)\b(\d{1,3})\s*-?\s*(days?|weeks?)\b`)
)

type phrase struct {
	re    *regexp.Regexp
	value string
}

func phrases(pairs ...string) []phrase {
	out := make([]phrase, 0, len(pairs)/2)
	for i := 0; i+1 < len(pairs); i += 2 {
		out = append(out, phrase{
			re:    regexp.MustCompile(`(?i)\b(?:` + pairs[i] + `)\b`),
			value: pairs[i+1],
		})
	}
	return out
}

func firstPhrase(text string, table []phrase) (string, bool) {
	for _, p := range table {
		if p.re.MatchString(text) {
			return p.value, true
		}
	}
	return "", false
}

// Longer phrases first so "attacking midfielder" wins over "midfielder".
var positionTable = phrases(
	`goal\s?keeper|keeper|goalie|gk`, "GK",
	`cent(?:er|re)[\s-]?backs?|cb`, "CB",
	`left[\s-]?back|lb`, "LB",
	`right[\s-]?back|rb`, "RB",
	`defensive\s+midfielder|cdm`, "CDM",
	`attacking\s+midfielder|playmaker|cam`, "CAM",
	`left\s+wing(?:er)?|lw`, "LW",
	`right\s+wing(?:er)?|rw`, "RW",
	`winger`, "RW",
	`defender`, "CB",
	`midfielder|cm`, "CM",
	`striker|forward|cent(?:er|re)[\s-]?forward|cf|st`, "ST",
)

var focusTable = phrases(
	`set[\s-]?pieces?|corners?|free[\s-]?kicks?`, "set pieces",
	`attack\w*|finishing|shooting`, "attacking",
	`defen[cs]\w*|defending`, "defending",
	`passing|possession`, "passing",
	`speed|sprint\w*|pace|agility`, "speed",
	`endurance|stamina|conditioning`, "endurance",
	`recovery|rest`, "recovery",
	`tactic\w*|pressing`, "tactics",
)

var intensityTable = phrases(
	`high[\s-]intensity|intense|hard|heavy`, string(models.IntensityHigh),
	`low[\s-]intensity|light|easy`, string(models.IntensityLow),
	`medium|moderate`, string(models.IntensityMedium),
)

// nameStopWords end a lower-case name run.
var nameStopWords = map[string]bool{
	"as": true, "age": true, "aged": true, "from": true, "who": true, "at": true,
	"with": true, "in": true, "to": true, "for": true, "and": true, "position": true,
}

// ExtractPlayerName finds the name in "add player John Doe ..." style input.
// Lower-case input ("add player john doe as striker") is title-cased.
func ExtractPlayerName(text string) (string, bool) {
	for _, re := range []*regexp.Regexp{playerNameRe, namedRe} {
		if m := re.FindStringSubmatch(text); m != nil {
			return strings.TrimSpace(m[1]), true
		}
	}

	m := lowerNameRe.FindStringSubmatch(text)
	if m == nil {
		return "", false
	}
	var parts []string
	for _, w := range strings.Fields(m[1]) {
		if nameStopWords[strings.ToLower(w)] {
			break
		}
		parts = append(parts, titleWord(w))
	}
	if len(parts) == 0 {
		return "", false
	}
	return strings.Join(parts, " "), true
}

func titleWord(w string) string {
	r, size := utf8.DecodeRuneInString(w)
	return string(unicode.ToUpper(r)) + strings.ToLower(w[size:])
}

// ExtractPosition normalizes a position word to its short code, e.g.
// "striker" to "ST".
func ExtractPosition(text string) (string, bool) {
	return firstPhrase(text, positionTable)
}

// ExtractAge accepts "age 22", "aged 22" and "22 years old". Values outside
// 15..45 are rejected.
func ExtractAge(text string) (int, bool) {
	for _, re := range []*regexp.Regexp{ageRe, yearsOldRe} {
		m := re.FindStringSubmatch(text)
		if m == nil {
			continue
		}
		age, err := strconv.Atoi(m[1])
		if err == nil && age >= 15 && age <= 45 {
			return age, true
		}
	}
	return 0, false
}

func ExtractNationality(text string) (string, bool) {
	if m := fromRe.FindStringSubmatch(text); m != nil {
		return m[1], true
	}
	return "", false
}

// ExtractOpponent prefers a known team name mentioned anywhere in text and
// falls back to whatever follows "vs", "versus" or "against".
func ExtractOpponent(text string, known []string) (string, bool) {
	lower := strings.ToLower(text)
	for _, name := range known {
		if name != "" && strings.Contains(lower, strings.ToLower(name)) {
			return name, true
		}
	}
	if m := opponentRe.FindStringSubmatch(text); m != nil {
		return strings.TrimSpace(m[1]), true
	}
	return "", false
}

// ExtractDuration returns a training length in days; weeks are converted.
// The result is limited to 1..90.
func ExtractDuration(text string) (int, bool) {
	m := durationRe.FindStringSubmatch(text)
	if m == nil {
		return 0, false
	}
	n, err := strconv.Atoi(m[1])
	if err != nil || n <= 0 {
		return 0, false
	}
	if strings.HasPrefix(strings.ToLower(m[2]), "week") {
		n *= 7
	}
	if n > 90 {
		n = 90
	}
	return n, true
}

func ExtractFocus(text string) (string, bool) {
	return firstPhrase(text, focusTable)
}

func ExtractIntensity(text string) (models.Intensity, bool) {
	v, ok := firstPhrase(text, intensityTable)
	return models.Intensity(v), ok
}

// FindMentionedPlayer looks for a player whose full name, or surname of at
// least three letters, appears in text.
func FindMentionedPlayer(text string, players []models.Player) (models.Player, bool) {
	lower := strings.ToLower(text)
	words := tokenize(lower)
	for _, p := range players {
		name := strings.ToLower(strings.TrimSpace(p.Name))
		if name == "" {
			continue
		}
		if strings.Contains(lower, name) {
			return p, true
		}
		parts := strings.Fields(name)
		surname := parts[len(parts)-1]
		if len(parts) > 1 && len([]rune(surname)) >= 3 {
			for _, w := range words {
				if w == surname {
					return p, true
				}
			}
		}
	}
	return models.Player{}, false
}
