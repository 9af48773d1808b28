package quiz

import (
	"fmt"
	"math"
	"strings"

	"github.com/phxteam/phoenixbot/internal/catalog"
)

// CategoryScore is the result of one category as a whole-number percent.
type CategoryScore struct {
	Category string
	Percent  int
}

// Score folds the answer vector into per-category percentages. An
// option's point value is its position in the option list, so the
// ceiling per question is the quiz-wide maximum ordinal. Categories
// keep first-appearance order.
func Score(q *catalog.Quiz, answers []int) []CategoryScore {
	maxOrdinal := q.MaxOrdinal()

	totals := make(map[string]int)
	counts := make(map[string]int)
	for i, question := range q.Questions {
		counts[question.Category]++
		if i < len(answers) {
			totals[question.Category] += answers[i]
		}
	}

	var out []CategoryScore
	for _, cat := range q.Categories() {
		denom := counts[cat] * maxOrdinal
		percent := 0
		if denom > 0 {
			percent = int(math.Round(100 * float64(totals[cat]) / float64(denom)))
		}
		out = append(out, CategoryScore{Category: cat, Percent: percent})
	}
	return out
}

// FormatResults renders the completion message shown after the last
// answer.
func FormatResults(scores []CategoryScore) string {
	var b strings.Builder
	b.WriteString("Результаты теста:")
	for _, s := range scores {
		fmt.Fprintf(&b, "\n%s: %d%%", s.Category, s.Percent)
	}
	return b.String()
}
