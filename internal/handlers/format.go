package handlers

import (
	"fmt"
	"sort"
	"strings"

	"github.com/xaenox/coach-bot/internal/models"
)

type report struct {
	b strings.Builder
}

func newReport(title string) *report {
	r := &report{}
	r.b.WriteString(title)
	r.b.WriteString("\n")
	return r
}

func (r *report) bullet(format string, args ...any) {
	r.b.WriteString("• ")
	fmt.Fprintf(&r.b, format, args...)
	r.b.WriteString("\n")
}

func (r *report) line(format string, args ...any) {
	fmt.Fprintf(&r.b, format, args...)
	r.b.WriteString("\n")
}

func (r *report) list(label string, items []string) {
	if len(items) == 0 {
		return
	}
	r.line("%s: %s", label, strings.Join(items, ", "))
}

func (r *report) String() string {
	return strings.TrimRight(r.b.String(), "\n")
}

// average returns 0 for an empty squad.
func average(players []models.Player, field func(models.Player) float64) float64 {
	if len(players) == 0 {
		return 0
	}
	var sum float64
	for _, p := range players {
		sum += field(p)
	}
	return sum / float64(len(players))
}

func fitness(p models.Player) float64     { return p.Fitness }
func form(p models.Player) float64        { return p.Form }
func rating(p models.Player) float64      { return p.Rating }
func marketValue(p models.Player) float64 { return p.MarketValue }

func available(players []models.Player) []models.Player {
	out := make([]models.Player, 0, len(players))
	for _, p := range players {
		if p.Status == models.StatusFit || p.Status == "" {
			out = append(out, p)
		}
	}
	return out
}

// topRated returns up to n players ordered by rating, then name.
func topRated(players []models.Player, n int) []models.Player {
	sorted := make([]models.Player, len(players))
	copy(sorted, players)
	sort.SliceStable(sorted, func(i, j int) bool {
		if sorted[i].Rating != sorted[j].Rating {
			return sorted[i].Rating > sorted[j].Rating
		}
		return sorted[i].Name < sorted[j].Name
	})
	if len(sorted) > n {
		sorted = sorted[:n]
	}
	return sorted
}

func names(players []models.Player) []string {
	out := make([]string, len(players))
	for i, p := range players {
		out[i] = p.Name
	}
	return out
}

func formatMoney(v float64) string {
	switch {
	case v >= 1_000_000:
		return fmt.Sprintf("€%.1fM", v/1_000_000)
	case v >= 1_000:
		return fmt.Sprintf("€%.0fK", v/1_000)
	default:
		return fmt.Sprintf("€%.0f", v)
	}
}

func knownOpponents(snap *models.TeamSnapshot) []string {
	seen := make(map[string]struct{})
	var out []string
	add := func(name string) {
		key := strings.ToLower(name)
		if _, ok := seen[key]; ok || name == "" {
			return
		}
		seen[key] = struct{}{}
		out = append(out, name)
	}
	for _, m := range snap.Matches {
		add(m.Opponent)
	}
	for _, p := range snap.Predictions {
		add(p.Opponent)
	}
	for _, c := range snap.Analytics.CompetitorAnalysis {
		add(c.Name)
	}
	return out
}
