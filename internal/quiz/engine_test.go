package quiz

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"
	tele "gopkg.in/telebot.v4"

	"github.com/phxteam/phoenixbot/internal/catalog"
	"github.com/phxteam/phoenixbot/internal/state"
)

type fakeStates struct {
	states map[int64]state.State
}

func newFakeStates() *fakeStates {
	return &fakeStates{states: make(map[int64]state.State)}
}

func (f *fakeStates) SetState(_ context.Context, userID int64, s state.State) error {
	f.states[userID] = s
	return nil
}

type sentMessage struct {
	Text   string
	Markup *tele.ReplyMarkup
	Edited bool
}

type fakeResponder struct {
	messages []sentMessage
	alerts   []string
	nextID   int
}

func (f *fakeResponder) Send(text string, markup *tele.ReplyMarkup) (*tele.Message, error) {
	f.messages = append(f.messages, sentMessage{Text: text, Markup: markup})
	f.nextID++
	return &tele.Message{ID: f.nextID}, nil
}

func (f *fakeResponder) Edit(msg *tele.Message, text string, markup *tele.ReplyMarkup) (*tele.Message, error) {
	f.messages = append(f.messages, sentMessage{Text: text, Markup: markup, Edited: true})
	return msg, nil
}

func (f *fakeResponder) AnswerCallback(text string, _ bool) error {
	f.alerts = append(f.alerts, text)
	return nil
}

func (f *fakeResponder) last() sentMessage {
	return f.messages[len(f.messages)-1]
}

func testQuiz() *catalog.Quiz {
	return &catalog.Quiz{
		Name: "sample",
		Questions: []catalog.Question{
			{
				Text:     "Первый вопрос",
				Category: "Сила",
				Options: []catalog.Option{
					{ID: "q0_no", Text: "Нет"},
					{ID: "q0_maybe", Text: "Иногда"},
					{ID: "q0_yes", Text: "Да"},
				},
			},
			{
				Text:     "Второй вопрос",
				Category: "Дух",
				Options: []catalog.Option{
					{ID: "q1_no", Text: "Нет"},
					{ID: "q1_maybe", Text: "Иногда"},
					{ID: "q1_yes", Text: "Да"},
				},
			},
		},
	}
}

func testEngine(t *testing.T) (*Engine, *fakeStates) {
	t.Helper()
	reg := catalog.NewRegistry([]*catalog.Quiz{testQuiz()}, nil)
	states := newFakeStates()
	return NewEngine(reg, states), states
}

func TestStartUnknownQuizLeavesStateUntouched(t *testing.T) {
	engine, states := testEngine(t)
	rc := &fakeResponder{}

	sess, err := engine.Start(context.Background(), rc, 7, "missing")
	require.Error(t, err)
	require.Nil(t, sess)
	require.Empty(t, states.states, "state must not change when the quiz does not exist")
	require.Empty(t, rc.messages)
}

func TestStartShowsFirstQuestion(t *testing.T) {
	engine, states := testEngine(t)
	rc := &fakeResponder{}

	sess, err := engine.Start(context.Background(), rc, 7, "sample")
	require.NoError(t, err)
	require.Equal(t, state.Testing, states.states[7])
	require.NotNil(t, sess.Msg)

	first := rc.last()
	require.Contains(t, first.Text, "Вопрос 1 / 2")
	require.Contains(t, first.Text, "Первый вопрос")
	require.Contains(t, first.Text, "A. Нет")
	require.Len(t, first.Markup.InlineKeyboard, 1, "options share one button row")
	require.Len(t, first.Markup.InlineKeyboard[0], 3)
	require.Equal(t, "A", first.Markup.InlineKeyboard[0][0].Text)
	require.Equal(t, "q0_no", first.Markup.InlineKeyboard[0][0].Data)
}

func TestFullRunEditsInPlaceAndScores(t *testing.T) {
	engine, states := testEngine(t)
	rc := &fakeResponder{}

	sess, err := engine.Start(context.Background(), rc, 7, "sample")
	require.NoError(t, err)

	done, err := engine.Answer(context.Background(), rc, 7, sess, "q0_yes")
	require.NoError(t, err)
	require.False(t, done)
	require.True(t, rc.last().Edited, "next question must edit the same message")
	require.Contains(t, rc.last().Text, "Вопрос 2 / 2")

	done, err = engine.Answer(context.Background(), rc, 7, sess, "q1_maybe")
	require.NoError(t, err)
	require.True(t, done)
	require.Equal(t, state.Idle, states.states[7])
	require.Equal(t, []string{"", ""}, rc.alerts, "each answer acks its callback once")

	results := rc.last()
	require.True(t, results.Edited)
	require.Contains(t, results.Text, "Сила: 100%")
	require.Contains(t, results.Text, "Дух: 50%")
	require.Nil(t, results.Markup, "results must drop the keyboard")
}

func TestAnswerUnknownOptionRejected(t *testing.T) {
	engine, _ := testEngine(t)
	rc := &fakeResponder{}

	sess, err := engine.Start(context.Background(), rc, 7, "sample")
	require.NoError(t, err)

	done, err := engine.Answer(context.Background(), rc, 7, sess, "bogus")
	require.NoError(t, err)
	require.False(t, done)
	require.Equal(t, []string{"Вариант не найден, попробуйте ещё раз"}, rc.alerts,
		"a rejected option answers the callback once, with the alert")
	require.Equal(t, 0, sess.Pointer, "pointer must not advance")
	require.Equal(t, []int{0, 0}, sess.Answers, "answer vector must not change")
	require.Contains(t, rc.last().Text, "Вопрос 1 / 2", "same question is shown again")
}

func TestCancelReturnsToIdle(t *testing.T) {
	engine, states := testEngine(t)
	rc := &fakeResponder{}

	sess, err := engine.Start(context.Background(), rc, 7, "sample")
	require.NoError(t, err)

	require.NoError(t, engine.Cancel(context.Background(), 7, sess))
	require.Equal(t, state.Idle, states.states[7])
}

func TestScoreSingleOptionQuestions(t *testing.T) {
	q := &catalog.Quiz{
		Name: "flat",
		Questions: []catalog.Question{
			{Text: "q", Category: "X", Options: []catalog.Option{{ID: "only", Text: "Ок"}}},
		},
	}
	scores := Score(q, []int{0})
	require.Equal(t, []CategoryScore{{Category: "X", Percent: 0}}, scores)
}

func TestScorePartialAnswers(t *testing.T) {
	scores := Score(testQuiz(), []int{2, 0})
	require.Equal(t, []CategoryScore{
		{Category: "Сила", Percent: 100},
		{Category: "Дух", Percent: 0},
	}, scores)
}
