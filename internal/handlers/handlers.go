// Package handlers implements the bot's conversation pages: the start
// and registration flow, the menu tree, counters and quiz glue.
package handlers

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"math"

	"github.com/phxteam/phoenixbot/core/logger"
	"github.com/phxteam/phoenixbot/internal/catalog"
	"github.com/phxteam/phoenixbot/internal/counters"
	"github.com/phxteam/phoenixbot/internal/dispatch"
	"github.com/phxteam/phoenixbot/internal/quiz"
	"github.com/phxteam/phoenixbot/internal/state"
	"github.com/phxteam/phoenixbot/internal/store"
	"github.com/phxteam/phoenixbot/internal/ui"
)

// Handlers bundles the services the conversation pages work against.
type Handlers struct {
	users    store.UserRepo
	sessions *store.Sessions
	catalog  *catalog.Registry
	counters *counters.Service
	quizzes  *quiz.Engine
}

func New(users store.UserRepo, sessions *store.Sessions, reg *catalog.Registry, cnt *counters.Service, eng *quiz.Engine) *Handlers {
	return &Handlers{
		users:    users,
		sessions: sessions,
		catalog:  reg,
		counters: cnt,
		quizzes:  eng,
	}
}

// Start registers a first-time user and routes returning users either
// into registration (no timezone yet) or straight to their profile.
func (h *Handlers) Start(ctx context.Context, rc *dispatch.Ctx) error {
	u, err := h.users.GetUser(ctx, rc.UserID)
	switch {
	case errors.Is(err, store.ErrNotFound):
		u = &store.User{
			TelegramID: rc.UserID,
			State:      string(state.Registration),
			Username:   nullable(rc.Username),
			FirstName:  nullable(rc.FirstName),
			LastName:   nullable(rc.LastName),
			Health:     4,
		}
		if err := h.users.CreateUser(ctx, u); err != nil {
			return fmt.Errorf("register user: %w", err)
		}
		logger.Store.Info("user registered",
			slog.String("event", "register"),
			slog.Int64("user_id", rc.UserID),
		)
		if _, err := rc.Respond.Send(ui.TextWelcome, nil); err != nil {
			return err
		}
		return h.requestLocation(ctx, rc)
	case err != nil:
		return fmt.Errorf("load user: %w", err)
	}

	if !u.TimeZone.Valid || u.TimeZone.String == "" {
		return h.requestLocation(ctx, rc)
	}

	if err := h.sessions.SetState(ctx, rc.UserID, state.Idle); err != nil {
		return err
	}
	return h.sendProfile(ctx, rc, u)
}

// Profile shows the profile page.
func (h *Handlers) Profile(ctx context.Context, rc *dispatch.Ctx) error {
	u, err := h.users.GetUser(ctx, rc.UserID)
	if errors.Is(err, store.ErrNotFound) {
		_, serr := rc.Respond.Send(ui.TextProfileMissing, ui.MainKeyboard())
		return serr
	}
	if err != nil {
		return fmt.Errorf("load user: %w", err)
	}
	return h.sendProfile(ctx, rc, u)
}

// Location consumes a shared location, derives the timezone from the
// longitude and finishes registration.
func (h *Handlers) Location(ctx context.Context, rc *dispatch.Ctx) error {
	loc := rc.Update.Location
	if loc == nil {
		_, err := rc.Respond.Send(ui.TextProfileMissing, ui.RemoveKeyboard())
		return err
	}

	tz := fmt.Sprintf("UTC%d", int(math.Round(loc.Longitude/15)))
	if err := h.users.SetTimeZone(ctx, rc.UserID, tz); err != nil && !errors.Is(err, store.ErrNotFound) {
		return fmt.Errorf("set timezone: %w", err)
	}

	if err := h.sessions.SetState(ctx, rc.UserID, state.Idle); err != nil {
		return err
	}
	_, err := rc.Respond.Send(ui.TimeZoneSet(tz), ui.MainKeyboard())
	return err
}

// Tasks shows the task list page.
func (h *Handlers) Tasks(_ context.Context, rc *dispatch.Ctx) error {
	_, err := rc.Respond.Send(ui.TextTasks, ui.MainKeyboard())
	return err
}

// Settings shows the settings page.
func (h *Handlers) Settings(_ context.Context, rc *dispatch.Ctx) error {
	_, err := rc.Respond.Send(ui.TextSettings, ui.SettingsKeyboard())
	return err
}

// BackToMenu returns to the main menu.
func (h *Handlers) BackToMenu(_ context.Context, rc *dispatch.Ctx) error {
	_, err := rc.Respond.Send(ui.TextBackToMenu, ui.MainKeyboard())
	return err
}

// Achievements shows the achievements page.
func (h *Handlers) Achievements(_ context.Context, rc *dispatch.Ctx) error {
	_, err := rc.Respond.Send(ui.TextAchievements, ui.ProfileKeyboard())
	return err
}

// Rating shows the rating page.
func (h *Handlers) Rating(_ context.Context, rc *dispatch.Ctx) error {
	_, err := rc.Respond.Send(ui.TextRating, ui.ProfileKeyboard())
	return err
}

// PollList offers the quizzes available in the catalog.
func (h *Handlers) PollList(_ context.Context, rc *dispatch.Ctx) error {
	names := h.catalog.QuizNames()
	if len(names) == 0 {
		_, err := rc.Respond.Send(ui.TextNoQuizzes, ui.MainKeyboard())
		return err
	}
	_, err := rc.Respond.Send(ui.TextPickQuiz, ui.QuizListKeyboard(names))
	return err
}

// CountersMenu lists the configured counters.
func (h *Handlers) CountersMenu(_ context.Context, rc *dispatch.Ctx) error {
	_, err := rc.Respond.Send(ui.TextCountersMenu, ui.CountersKeyboard(h.catalog.Counters()))
	return err
}

// ShowCounter opens one counter's page with its adjustment buttons.
// Bound per counter id by the route table builder.
func (h *Handlers) ShowCounter(counterID string) dispatch.Handler {
	return func(ctx context.Context, rc *dispatch.Ctx) error {
		def, ok := h.catalog.Counter(counterID)
		if !ok {
			return fmt.Errorf("unknown counter %q", counterID)
		}
		if err := h.counters.EnsureExists(ctx, rc.UserID, counterID); err != nil {
			return err
		}
		value, err := h.counters.Value(ctx, rc.UserID, counterID)
		if err != nil {
			return err
		}
		_, err = rc.Respond.Send(ui.CounterCurrent(def.Name, value), ui.CounterKeyboard(counterID))
		return err
	}
}

// StartQuiz launches the named quiz. Bound per quiz name by the route
// table builder.
func (h *Handlers) StartQuiz(quizName string) dispatch.Handler {
	return func(ctx context.Context, rc *dispatch.Ctx) error {
		if _, err := rc.Respond.Send(ui.QuizStarted(quizName), ui.CompletionKeyboard()); err != nil {
			return err
		}
		sess, err := h.quizzes.Start(ctx, rc.Respond, rc.UserID, quizName)
		if err != nil {
			logger.Quiz.Error("quiz start failed",
				slog.String("event", "start"),
				slog.Int64("user_id", rc.UserID),
				slog.String("quiz", quizName),
				slog.String("err", err.Error()),
			)
			_, serr := rc.Respond.Send(ui.TextQuizLoadError, ui.MainKeyboard())
			return serr
		}
		rc.Session.Quiz = sess
		return nil
	}
}

// FinishQuiz handles the explicit finish trigger during testing: the
// session is discarded without scoring.
func (h *Handlers) FinishQuiz(ctx context.Context, rc *dispatch.Ctx) error {
	if err := h.quizzes.Cancel(ctx, rc.UserID, rc.Session.Quiz); err != nil {
		return err
	}
	rc.Session.Quiz = nil
	_, err := rc.Respond.Send(ui.TextQuizFinished, ui.MainKeyboard())
	return err
}

// QuizAnswer consumes an option callback during testing. The engine
// answers the callback query; answering it again here would be
// rejected by Telegram.
func (h *Handlers) QuizAnswer(ctx context.Context, rc *dispatch.Ctx) error {
	if rc.Session.Quiz == nil {
		// Testing state without a live session, e.g. after a restart.
		if err := h.sessions.SetState(ctx, rc.UserID, state.Idle); err != nil {
			return err
		}
		_, err := rc.Respond.Send(ui.TextNotRecognized, ui.MainKeyboard())
		return err
	}
	if rc.Type != state.TypeCallback {
		return nil
	}

	done, err := h.quizzes.Answer(ctx, rc.Respond, rc.UserID, rc.Session.Quiz, rc.Update.CallbackData)
	if err != nil {
		return err
	}
	if done {
		rc.Session.Quiz = nil
		_, err := rc.Respond.Send(ui.TextQuizFinished, ui.MainKeyboard())
		return err
	}
	return nil
}

// CounterCallback consumes the plus/minus callbacks of a counter page.
func (h *Handlers) CounterCallback(ctx context.Context, rc *dispatch.Ctx) error {
	counterID, delta, ok := counters.ParseAction(rc.Update.CallbackData)
	if !ok {
		return rc.Respond.AnswerCallback(ui.TextBadCallback, true)
	}
	if _, defined := h.catalog.Counter(counterID); !defined {
		return rc.Respond.AnswerCallback(ui.TextBadCallback, true)
	}

	if err := h.counters.EnsureExists(ctx, rc.UserID, counterID); err != nil {
		return err
	}
	value, err := h.counters.Adjust(ctx, rc.UserID, counterID, delta)
	if errors.Is(err, counters.ErrFloor) {
		return rc.Respond.AnswerCallback(ui.TextCounterFloor, true)
	}
	if err != nil {
		return err
	}

	if _, err := rc.Respond.Edit(nil, ui.CounterUpdated(value), ui.CounterKeyboard(counterID)); err != nil {
		return err
	}
	return rc.Respond.AnswerCallback("", false)
}

// NotRecognized is the terminal fallback response.
func (h *Handlers) NotRecognized(_ context.Context, rc *dispatch.Ctx) error {
	_, err := rc.Respond.Send(ui.TextNotRecognized, ui.MainKeyboard())
	return err
}

// Failure is shown when a handler fails; the user gets the default
// menu back.
func (h *Handlers) Failure(_ context.Context, rc *dispatch.Ctx) error {
	_, err := rc.Respond.Send(ui.TextFailure, ui.MainKeyboard())
	return err
}

// Reset notifies the user after a corrupted state was healed.
func (h *Handlers) Reset(_ context.Context, rc *dispatch.Ctx) error {
	_, err := rc.Respond.Send(ui.TextStateReset, ui.MainKeyboard())
	return err
}

// Unavailable is shown when storage cannot resolve the session.
func (h *Handlers) Unavailable(_ context.Context, rc *dispatch.Ctx) error {
	_, err := rc.Respond.Send(ui.TextRetryLater, nil)
	return err
}

func (h *Handlers) requestLocation(ctx context.Context, rc *dispatch.Ctx) error {
	if err := h.sessions.SetState(ctx, rc.UserID, state.Registration); err != nil {
		return err
	}
	_, err := rc.Respond.Send(ui.TextRequestLocation, ui.LocationKeyboard())
	return err
}

func (h *Handlers) sendProfile(_ context.Context, rc *dispatch.Ctx, u *store.User) error {
	_, err := rc.Respond.Send(ui.Profile(ui.ProfileView{
		FirstName:      u.FirstName.String,
		LastName:       u.LastName.String,
		TimeZone:       u.TimeZone.String,
		Health:         u.Health,
		Experience:     u.Experience,
		TasksCompleted: u.TasksCompleted,
	}), ui.ProfileKeyboard())
	return err
}

func nullable(s string) sql.NullString {
	return sql.NullString{String: s, Valid: s != ""}
}
