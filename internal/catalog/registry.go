package catalog

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/phxteam/phoenixbot/core/logger"
)

// Registry is the process-wide read-only content registry. Built once at
// startup and never mutated afterwards.
type Registry struct {
	quizzes     map[string]*Quiz
	quizNames   []string
	counters    []Counter
	counterByID map[string]Counter
}

type countersFile struct {
	Counters []Counter `yaml:"counters"`
}

// Load reads the catalog directory: counters.yaml plus quizzes/*.yaml,
// where a quiz name is its file base name. Invalid quizzes are logged and
// excluded rather than failing the load; an unreadable directory is an
// error so the caller can treat it as fatal at boot.
func Load(dir string) (*Registry, error) {
	reg := &Registry{
		quizzes:     make(map[string]*Quiz),
		counterByID: make(map[string]Counter),
	}

	if err := reg.loadCounters(filepath.Join(dir, "counters.yaml")); err != nil {
		return nil, err
	}
	if err := reg.loadQuizzes(filepath.Join(dir, "quizzes")); err != nil {
		return nil, err
	}

	logger.Catalog.Info("catalog loaded",
		slog.String("event", "load"),
		slog.Int("quizzes", len(reg.quizNames)),
		slog.Int("counters", len(reg.counters)),
	)
	return reg, nil
}

func (r *Registry) loadCounters(path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			logger.Catalog.Warn("counters catalog missing",
				slog.String("event", "load"),
				slog.String("path", path),
			)
			return nil
		}
		return fmt.Errorf("catalog: read counters: %w", err)
	}

	var file countersFile
	if err := yaml.Unmarshal(data, &file); err != nil {
		return fmt.Errorf("catalog: parse counters: %w", err)
	}

	for _, c := range file.Counters {
		if c.ID == "" || c.Name == "" {
			logger.Catalog.Warn("counter skipped",
				slog.String("event", "validate"),
				slog.String("counter_id", c.ID),
				slog.String("cause", "missing id or name"),
			)
			continue
		}
		if _, dup := r.counterByID[c.ID]; dup {
			logger.Catalog.Warn("counter skipped",
				slog.String("event", "validate"),
				slog.String("counter_id", c.ID),
				slog.String("cause", "duplicate id"),
			)
			continue
		}
		r.counterByID[c.ID] = c
		r.counters = append(r.counters, c)
	}
	return nil
}

func (r *Registry) loadQuizzes(dir string) error {
	entries, err := os.ReadDir(dir)
	if err != nil {
		if os.IsNotExist(err) {
			logger.Catalog.Warn("quiz catalog missing",
				slog.String("event", "load"),
				slog.String("path", dir),
			)
			return nil
		}
		return fmt.Errorf("catalog: read quizzes dir: %w", err)
	}

	for _, e := range entries {
		if e.IsDir() {
			continue
		}
		name := e.Name()
		ext := filepath.Ext(name)
		if ext != ".yaml" && ext != ".yml" {
			continue
		}
		quizName := strings.TrimSuffix(name, ext)

		data, err := os.ReadFile(filepath.Join(dir, name))
		if err != nil {
			logger.Catalog.Error("quiz read failed",
				slog.String("event", "load"),
				slog.String("quiz", quizName),
				slog.String("err", err.Error()),
			)
			continue
		}

		var questions []Question
		if err := yaml.Unmarshal(data, &questions); err != nil {
			logger.Catalog.Warn("quiz skipped",
				slog.String("event", "validate"),
				slog.String("quiz", quizName),
				slog.String("cause", err.Error()),
			)
			continue
		}

		quiz := &Quiz{Name: quizName, Questions: questions}
		if verr := validate(quiz); verr != nil {
			logger.Catalog.Warn("quiz skipped",
				slog.String("event", "validate"),
				slog.String("quiz", quizName),
				slog.String("cause", verr.Reason),
			)
			continue
		}

		r.quizzes[quizName] = quiz
		r.quizNames = append(r.quizNames, quizName)
	}

	sort.Strings(r.quizNames)
	return nil
}

// Quiz returns a quiz definition by name.
func (r *Registry) Quiz(name string) (*Quiz, bool) {
	q, ok := r.quizzes[name]
	return q, ok
}

// QuizNames returns quiz names in stable (sorted) order.
func (r *Registry) QuizNames() []string {
	return r.quizNames
}

// Counters returns counter definitions in catalog order.
func (r *Registry) Counters() []Counter {
	return r.counters
}

// Counter returns one counter definition by id.
func (r *Registry) Counter(id string) (Counter, bool) {
	c, ok := r.counterByID[id]
	return c, ok
}

// NewRegistry builds a registry from in-memory definitions. Intended for
// tests; Load is the production path.
func NewRegistry(quizzes []*Quiz, counters []Counter) *Registry {
	reg := &Registry{
		quizzes:     make(map[string]*Quiz, len(quizzes)),
		counterByID: make(map[string]Counter, len(counters)),
	}
	for _, q := range quizzes {
		if verr := validate(q); verr != nil {
			continue
		}
		if _, dup := reg.quizzes[q.Name]; dup {
			continue
		}
		reg.quizzes[q.Name] = q
		reg.quizNames = append(reg.quizNames, q.Name)
	}
	sort.Strings(reg.quizNames)
	for _, c := range counters {
		if c.ID == "" {
			continue
		}
		if _, dup := reg.counterByID[c.ID]; dup {
			continue
		}
		reg.counterByID[c.ID] = c
		reg.counters = append(reg.counters, c)
	}
	return reg
}
