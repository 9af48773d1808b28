package dispatch

import (
	"context"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	tele "gopkg.in/telebot.v4"

	"github.com/phxteam/phoenixbot/internal/state"
	"github.com/phxteam/phoenixbot/internal/store"
)

type fakeSessions struct {
	mu       sync.Mutex
	sessions map[int64]*store.Session
	setCalls []state.State
	getErr   error
}

func newFakeSessions() *fakeSessions {
	return &fakeSessions{sessions: map[int64]*store.Session{}}
}

func (f *fakeSessions) Get(_ context.Context, userID int64) (*store.Session, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.getErr != nil {
		return nil, f.getErr
	}
	if sess, ok := f.sessions[userID]; ok {
		return sess, nil
	}
	sess := &store.Session{State: state.Idle}
	f.sessions[userID] = sess
	return sess, nil
}

func (f *fakeSessions) SetState(_ context.Context, userID int64, st state.State) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.setCalls = append(f.setCalls, st)
	if sess, ok := f.sessions[userID]; ok {
		sess.State = st
	}
	return nil
}

func (f *fakeSessions) seed(userID int64, st state.State) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.sessions[userID] = &store.Session{State: st}
}

type nullResponder struct{}

func (nullResponder) Send(string, *tele.ReplyMarkup) (*tele.Message, error) { return nil, nil }
func (nullResponder) Edit(*tele.Message, string, *tele.ReplyMarkup) (*tele.Message, error) {
	return nil, nil
}
func (nullResponder) AnswerCallback(string, bool) error { return nil }

type spy struct {
	calls int32
}

func (s *spy) handler() Handler {
	return func(context.Context, *Ctx) error {
		atomic.AddInt32(&s.calls, 1)
		return nil
	}
}

func (s *spy) count() int32 { return atomic.LoadInt32(&s.calls) }

func TestGateDropsDisallowedTypes(t *testing.T) {
	sessions := newFakeSessions()
	sessions.seed(7, state.Registration)

	routed := &spy{}
	fallback := &spy{}
	table := NewTable()
	table.Add(state.Registration, "anything", "routed", routed.handler())

	d := New(Options{Table: table, Sessions: sessions, Fallback: fallback.handler()})
	d.Dispatch(context.Background(), &Ctx{UserID: 7, Update: state.Update{Callback: true, CallbackData: "anything"}, Respond: nullResponder{}})

	require.Zero(t, routed.count(), "callbacks are not allowed during registration")
	require.Zero(t, fallback.count())
	require.Empty(t, sessions.setCalls, "a dropped update must not mutate state")
}

func TestSelfHealOnUnknownState(t *testing.T) {
	sessions := newFakeSessions()
	sessions.seed(7, state.State("CORRUPT"))

	reset := &spy{}
	routed := &spy{}
	table := NewTable()
	table.Add(state.Idle, "hi", "routed", routed.handler())

	d := New(Options{Table: table, Sessions: sessions, Reset: reset.handler()})
	d.Dispatch(context.Background(), &Ctx{UserID: 7, Update: state.Update{Text: "hi"}, Respond: nullResponder{}})

	require.Equal(t, []state.State{state.Idle}, sessions.setCalls)
	require.EqualValues(t, 1, reset.count(), "user must be notified about the reset")
	require.Zero(t, routed.count(), "dispatch stops after healing")
}

func TestFirstMatchWinsOnTriggerCollision(t *testing.T) {
	sessions := newFakeSessions()

	static := &spy{}
	generated := &spy{}
	table := NewTable()
	table.Add(state.Idle, "📋 Профиль", "static", static.handler())
	table.Add(state.Idle, "📋 Профиль", "generated", generated.handler())

	d := New(Options{Table: table, Sessions: sessions})
	d.Dispatch(context.Background(), &Ctx{UserID: 7, Update: state.Update{Text: "📋 Профиль"}, Respond: nullResponder{}})

	require.EqualValues(t, 1, static.count())
	require.Zero(t, generated.count(), "earlier entries shadow later ones")
}

func TestRouteMissInvokesFallback(t *testing.T) {
	sessions := newFakeSessions()

	fallback := &spy{}
	d := New(Options{Table: NewTable(), Sessions: sessions, Fallback: fallback.handler()})
	d.Dispatch(context.Background(), &Ctx{UserID: 7, Update: state.Update{Text: "что-то"}, Respond: nullResponder{}})

	require.EqualValues(t, 1, fallback.count())
}

func TestHandlerErrorAbsorbedWithFailureResponse(t *testing.T) {
	sessions := newFakeSessions()

	failure := &spy{}
	table := NewTable()
	table.Add(state.Idle, "boom", "boom", func(context.Context, *Ctx) error {
		return context.DeadlineExceeded
	})

	d := New(Options{Table: table, Sessions: sessions, Failure: failure.handler()})
	d.Dispatch(context.Background(), &Ctx{UserID: 7, Update: state.Update{Text: "boom"}, Respond: nullResponder{}})

	require.EqualValues(t, 1, failure.count())
}

func TestHandlerPanicAbsorbed(t *testing.T) {
	sessions := newFakeSessions()

	failure := &spy{}
	table := NewTable()
	table.Add(state.Idle, "boom", "boom", func(context.Context, *Ctx) error {
		panic("bad handler")
	})

	d := New(Options{Table: table, Sessions: sessions, Failure: failure.handler()})
	require.NotPanics(t, func() {
		d.Dispatch(context.Background(), &Ctx{UserID: 7, Update: state.Update{Text: "boom"}, Respond: nullResponder{}})
	})
	require.EqualValues(t, 1, failure.count())
}

func TestSessionResolveErrorUsesUnavailable(t *testing.T) {
	sessions := newFakeSessions()
	sessions.getErr = store.ErrUnavailable

	unavailable := &spy{}
	routed := &spy{}
	table := NewTable()
	table.Add(state.Idle, "hi", "routed", routed.handler())

	d := New(Options{Table: table, Sessions: sessions, Unavailable: unavailable.handler()})
	d.Dispatch(context.Background(), &Ctx{UserID: 7, Update: state.Update{Text: "hi"}, Respond: nullResponder{}})

	require.EqualValues(t, 1, unavailable.count())
	require.Zero(t, routed.count())
}

func TestSameUserUpdatesSerialized(t *testing.T) {
	sessions := newFakeSessions()

	var inFlight int32
	table := NewTable()
	table.Add(state.Idle, "tap", "tap", func(context.Context, *Ctx) error {
		if atomic.AddInt32(&inFlight, 1) != 1 {
			t.Error("two updates for the same user ran concurrently")
		}
		time.Sleep(2 * time.Millisecond)
		atomic.AddInt32(&inFlight, -1)
		return nil
	})

	d := New(Options{Table: table, Sessions: sessions})
	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			d.Dispatch(context.Background(), &Ctx{UserID: 7, Update: state.Update{Text: "tap"}, Respond: nullResponder{}})
		}()
	}
	wg.Wait()
}
