// Package routes assembles the route table and fallback chain from the
// static menu pages and the loaded catalog.
package routes

import (
	"context"

	"github.com/phxteam/phoenixbot/internal/catalog"
	"github.com/phxteam/phoenixbot/internal/counters"
	"github.com/phxteam/phoenixbot/internal/dispatch"
	"github.com/phxteam/phoenixbot/internal/handlers"
	"github.com/phxteam/phoenixbot/internal/state"
	"github.com/phxteam/phoenixbot/internal/ui"
)

// BuildTable merges the static per-state entries with entries generated
// from the catalog. Static entries come first, so a catalog author
// cannot shadow a menu button with a colliding quiz or counter name.
func BuildTable(h *handlers.Handlers, reg *catalog.Registry) *dispatch.Table {
	t := dispatch.NewTable()

	t.Add(state.Idle, "/start", "start", h.Start)
	t.Add(state.Idle, ui.BtnProfile, "profile", h.Profile)
	t.Add(state.Idle, ui.BtnTasks, "tasks", h.Tasks)
	t.Add(state.Idle, ui.BtnSettings, "settings", h.Settings)
	t.Add(state.Idle, ui.BtnBackToProfile, "toprofile", h.Profile)
	t.Add(state.Idle, ui.BtnBackToMenu, "backtomenu", h.BackToMenu)
	t.Add(state.Idle, ui.BtnAchievements, "achievements", h.Achievements)
	t.Add(state.Idle, ui.BtnRating, "rating", h.Rating)
	t.Add(state.Idle, ui.BtnPoll, "poll", h.PollList)
	t.Add(state.Idle, ui.BtnCounters, "counters", h.CountersMenu)

	t.Add(state.Testing, ui.BtnFinishTest, "completeTest", h.FinishQuiz)
	t.Add(state.Testing, "/start", "start", h.FinishQuiz)

	t.Add(state.Registration, "/start", "start", h.Start)

	for _, c := range reg.Counters() {
		t.Add(state.Idle, c.Name, "counter:"+c.ID, h.ShowCounter(c.ID))
		t.Add(state.Idle, counters.IncrementData(c.ID), "counter:"+c.ID+":inc", h.CounterCallback)
		t.Add(state.Idle, counters.DecrementData(c.ID), "counter:"+c.ID+":dec", h.CounterCallback)
	}
	for _, name := range reg.QuizNames() {
		t.Add(state.Idle, name, "quiz:"+name, h.StartQuiz(name))
	}

	return t
}

// Fallback builds the chain that runs on a route miss, in fixed
// priority order: registration treats anything as a location attempt,
// idle locations finish registration late, idle callbacks go to the
// counters, testing input goes to the quiz engine, and everything else
// gets the generic response.
func Fallback(h *handlers.Handlers) dispatch.Handler {
	return func(ctx context.Context, rc *dispatch.Ctx) error {
		switch {
		case rc.Session.State == state.Registration:
			return h.Location(ctx, rc)
		case rc.Session.State == state.Idle && rc.Type == state.TypeLocation:
			return h.Location(ctx, rc)
		case rc.Session.State == state.Idle && rc.Type == state.TypeCallback:
			return h.CounterCallback(ctx, rc)
		case rc.Session.State == state.Testing:
			return h.QuizAnswer(ctx, rc)
		}
		return h.NotRecognized(ctx, rc)
	}
}

// NewDispatcher wires the table, fallback chain and boundary handlers
// into a ready dispatcher.
func NewDispatcher(h *handlers.Handlers, reg *catalog.Registry, sessions dispatch.SessionStore) *dispatch.Dispatcher {
	return dispatch.New(dispatch.Options{
		Table:       BuildTable(h, reg),
		Sessions:    sessions,
		Fallback:    Fallback(h),
		Failure:     h.Failure,
		Reset:       h.Reset,
		Unavailable: h.Unavailable,
	})
}
