package catalog

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

func writeFile(t *testing.T, path, content string) {
	t.Helper()
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
}

func TestLoadValidCatalog(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, filepath.Join(dir, "counters.yaml"), `
counters:
  - id: wins
    name: "🧮 Счётчик Побед"
  - id: streak
    name: "🔥 Серия"
`)
	writeFile(t, filepath.Join(dir, "quizzes", "phoenix.yaml"), `
- question: "Вопрос один"
  category: "Мотивация"
  options:
    - id: a0
      text: "Нет"
    - id: a1
      text: "Да"
- question: "Вопрос два"
  category: "Мотивация"
  options:
    - id: b0
      text: "Нет"
    - id: b1
      text: "Да"
`)

	reg, err := Load(dir)
	require.NoError(t, err)

	require.Equal(t, []string{"phoenix"}, reg.QuizNames())
	quiz, ok := reg.Quiz("phoenix")
	require.True(t, ok)
	require.Len(t, quiz.Questions, 2)
	require.Equal(t, 1, quiz.MaxOrdinal())
	require.Equal(t, []string{"Мотивация"}, quiz.Categories())

	require.Len(t, reg.Counters(), 2)
	c, ok := reg.Counter("wins")
	require.True(t, ok)
	require.Equal(t, "🧮 Счётчик Побед", c.Name)
}

func TestLoadSkipsInvalidQuizzes(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, filepath.Join(dir, "quizzes", "empty.yaml"), `[]`)
	writeFile(t, filepath.Join(dir, "quizzes", "no_options.yaml"), `
- question: "Вопрос"
  category: "X"
  options: []
`)
	writeFile(t, filepath.Join(dir, "quizzes", "broken.yaml"), `{{{not yaml`)
	writeFile(t, filepath.Join(dir, "quizzes", "good.yaml"), `
- question: "Вопрос"
  category: "X"
  options:
    - id: o1
      text: "Ок"
`)

	reg, err := Load(dir)
	require.NoError(t, err, "invalid entries must be skipped, not fatal")
	require.Equal(t, []string{"good"}, reg.QuizNames())

	_, ok := reg.Quiz("empty")
	require.False(t, ok)
	_, ok = reg.Quiz("no_options")
	require.False(t, ok)
}

func TestLoadMissingDirsTolerated(t *testing.T) {
	dir := t.TempDir()
	reg, err := Load(dir)
	require.NoError(t, err)
	require.Empty(t, reg.QuizNames())
	require.Empty(t, reg.Counters())
}

func TestCategoriesFirstAppearanceOrder(t *testing.T) {
	quiz := &Quiz{
		Name: "q",
		Questions: []Question{
			{Text: "1", Category: "B", Options: []Option{{ID: "x", Text: "x"}}},
			{Text: "2", Category: "A", Options: []Option{{ID: "y", Text: "y"}}},
			{Text: "3", Category: "B", Options: []Option{{ID: "z", Text: "z"}}},
		},
	}
	require.Equal(t, []string{"B", "A"}, quiz.Categories())
}

func TestMaxOrdinalUnevenOptions(t *testing.T) {
	quiz := &Quiz{
		Name: "q",
		Questions: []Question{
			{Options: []Option{{ID: "a"}}},
			{Options: []Option{{ID: "b"}, {ID: "c"}, {ID: "d"}, {ID: "e"}}},
		},
	}
	require.Equal(t, 3, quiz.MaxOrdinal())
}
