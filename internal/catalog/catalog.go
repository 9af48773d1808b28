// Package catalog holds the immutable, startup-loaded content registry:
// quiz definitions and counter definitions. Handlers only ever read from
// memory; no file I/O happens after Load returns.
package catalog

import "fmt"

// Option is one selectable answer. Its position within the question is its
// ordinal value, which doubles as the point value: quiz authors order
// options from lowest to highest score.
type Option struct {
	ID   string `yaml:"id"`
	Text string `yaml:"text"`
}

// Question is one quiz step with a category tag used for aggregate scoring.
type Question struct {
	Text     string   `yaml:"question"`
	Category string   `yaml:"category"`
	Options  []Option `yaml:"options"`
}

// Quiz is an ordered, non-empty sequence of questions loaded by name.
type Quiz struct {
	Name      string
	Questions []Question
}

// MaxOrdinal returns the highest option ordinal across all questions of the
// quiz. It is the per-answer score ceiling used by percentage scoring.
func (q *Quiz) MaxOrdinal() int {
	max := 0
	for _, question := range q.Questions {
		if n := len(question.Options) - 1; n > max {
			max = n
		}
	}
	return max
}

// Categories returns the quiz's category tags in first-appearance order.
// Scoring output follows this order so results stay stable.
func (q *Quiz) Categories() []string {
	seen := make(map[string]struct{}, 4)
	var out []string
	for _, question := range q.Questions {
		if _, ok := seen[question.Category]; ok {
			continue
		}
		seen[question.Category] = struct{}{}
		out = append(out, question.Category)
	}
	return out
}

// Counter describes one named per-user counter.
type Counter struct {
	ID   string `yaml:"id"`
	Name string `yaml:"name"`
}

// ValidationError reports a quiz definition that failed load-time checks.
type ValidationError struct {
	Quiz   string
	Reason string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("catalog: quiz %q invalid: %s", e.Quiz, e.Reason)
}

// validate enforces the structural invariants of a quiz definition:
// non-empty, and every question has at least one option.
func validate(q *Quiz) *ValidationError {
	if len(q.Questions) == 0 {
		return &ValidationError{Quiz: q.Name, Reason: "no questions"}
	}
	for i, question := range q.Questions {
		if len(question.Options) == 0 {
			return &ValidationError{Quiz: q.Name, Reason: fmt.Sprintf("question %d has no options", i)}
		}
	}
	return nil
}
