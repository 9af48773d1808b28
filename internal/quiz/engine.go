package quiz

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	tele "gopkg.in/telebot.v4"

	"github.com/phxteam/phoenixbot/core/logger"
	"github.com/phxteam/phoenixbot/core/telegram/keyboard"
	"github.com/phxteam/phoenixbot/internal/catalog"
	"github.com/phxteam/phoenixbot/internal/state"
)

// States is the slice of the session store the engine needs: moving a
// user between conversation states.
type States interface {
	SetState(ctx context.Context, userID int64, s state.State) error
}

// Responder delivers messages back to the chat. The Telegram transport
// implements it; tests substitute a recorder.
type Responder interface {
	Send(text string, markup *tele.ReplyMarkup) (*tele.Message, error)
	Edit(msg *tele.Message, text string, markup *tele.ReplyMarkup) (*tele.Message, error)
	AnswerCallback(text string, alert bool) error
}

// Engine drives quiz sessions: starting, collecting answers, scoring.
type Engine struct {
	catalog *catalog.Registry
	states  States
}

func NewEngine(reg *catalog.Registry, states States) *Engine {
	return &Engine{catalog: reg, states: states}
}

// Start opens a session for the named quiz, switches the user into the
// testing state and shows the first question. The user's state is left
// untouched when the quiz does not exist.
func (e *Engine) Start(ctx context.Context, rc Responder, userID int64, quizName string) (*Session, error) {
	q, ok := e.catalog.Quiz(quizName)
	if !ok {
		return nil, fmt.Errorf("quiz %q not found", quizName)
	}

	sess := newSession(q)
	if err := e.states.SetState(ctx, userID, state.Testing); err != nil {
		return nil, fmt.Errorf("start quiz: %w", err)
	}
	if err := e.render(sess, rc); err != nil {
		return nil, fmt.Errorf("start quiz: %w", err)
	}

	logger.Quiz.Info("quiz started",
		slog.String("event", "start"),
		slog.Int64("user_id", userID),
		slog.String("quiz", quizName),
		slog.Int("questions", len(q.Questions)),
	)
	return sess, nil
}

// Answer records the picked option and advances the session. The first
// return value reports whether the quiz completed. An option id that
// does not belong to the current question is rejected with an alert and
// the question is shown again unchanged. The callback query is answered
// here in every case, exactly once.
func (e *Engine) Answer(ctx context.Context, rc Responder, userID int64, sess *Session, optionID string) (bool, error) {
	if sess.Done() {
		return true, nil
	}

	question := sess.Question()
	ordinal := -1
	for i, opt := range question.Options {
		if opt.ID == optionID {
			ordinal = i
			break
		}
	}
	if ordinal < 0 {
		logger.Quiz.Warn("unknown option",
			slog.String("event", "answer"),
			slog.Int64("user_id", userID),
			slog.String("quiz", sess.Quiz.Name),
			slog.Int("question_idx", sess.Pointer),
			slog.String("option_id", optionID),
		)
		if err := rc.AnswerCallback("Вариант не найден, попробуйте ещё раз", true); err != nil {
			return false, fmt.Errorf("answer callback: %w", err)
		}
		return false, e.render(sess, rc)
	}

	sess.Answers[sess.Pointer] = ordinal
	sess.Pointer++

	logger.Quiz.Debug("answer recorded",
		slog.String("event", "answer"),
		slog.Int64("user_id", userID),
		slog.String("quiz", sess.Quiz.Name),
		slog.Int("question_idx", sess.Pointer-1),
		slog.String("option_id", optionID),
	)

	if sess.Done() {
		if err := e.Complete(ctx, rc, userID, sess); err != nil {
			return true, err
		}
	} else if err := e.render(sess, rc); err != nil {
		return false, err
	}
	if err := rc.AnswerCallback("", false); err != nil {
		return sess.Done(), fmt.Errorf("answer callback: %w", err)
	}
	return sess.Done(), nil
}

// Complete scores the session, replaces the question message with the
// results and returns the user to the idle state.
func (e *Engine) Complete(ctx context.Context, rc Responder, userID int64, sess *Session) error {
	scores := Score(sess.Quiz, sess.Answers)
	text := FormatResults(scores)

	if sess.Msg != nil {
		if _, err := rc.Edit(sess.Msg, text, nil); err != nil {
			return fmt.Errorf("complete quiz: %w", err)
		}
	} else if _, err := rc.Send(text, nil); err != nil {
		return fmt.Errorf("complete quiz: %w", err)
	}

	if err := e.states.SetState(ctx, userID, state.Idle); err != nil {
		return fmt.Errorf("complete quiz: %w", err)
	}

	logger.Quiz.Info("quiz completed",
		slog.String("event", "complete"),
		slog.Int64("user_id", userID),
		slog.String("quiz", sess.Quiz.Name),
	)
	return nil
}

// Cancel abandons the session without scoring and returns the user to
// the idle state.
func (e *Engine) Cancel(ctx context.Context, userID int64, sess *Session) error {
	if err := e.states.SetState(ctx, userID, state.Idle); err != nil {
		return fmt.Errorf("cancel quiz: %w", err)
	}
	name := ""
	if sess != nil {
		name = sess.Quiz.Name
	}
	logger.Quiz.Info("quiz cancelled",
		slog.String("event", "cancel"),
		slog.Int64("user_id", userID),
		slog.String("quiz", name),
	)
	return nil
}

// render shows the question under the pointer, editing the previous
// question message when one exists.
func (e *Engine) render(sess *Session, rc Responder) error {
	question := sess.Question()

	var b strings.Builder
	fmt.Fprintf(&b, "Вопрос %d / %d\n\n%s\n", sess.Pointer+1, len(sess.Quiz.Questions), question.Text)
	for i, opt := range question.Options {
		fmt.Fprintf(&b, "\n%c. %s", 'A'+i, opt.Text)
	}

	// Options are listed in the body; buttons carry just the letter.
	buttons := make([]keyboard.InlineBtn, len(question.Options))
	for i, opt := range question.Options {
		buttons[i] = keyboard.InlineBtn{
			Text: fmt.Sprintf("%c", 'A'+i),
			Data: opt.ID,
		}
	}
	markup := keyboard.InlineButtonsNPerRow(buttons, len(buttons))

	if sess.Msg != nil {
		msg, err := rc.Edit(sess.Msg, b.String(), markup)
		if err != nil {
			return fmt.Errorf("render question: %w", err)
		}
		if msg != nil {
			sess.Msg = msg
		}
		return nil
	}

	msg, err := rc.Send(b.String(), markup)
	if err != nil {
		return fmt.Errorf("render question: %w", err)
	}
	sess.Msg = msg
	return nil
}
