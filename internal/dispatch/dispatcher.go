package dispatch

import (
	"context"
	"fmt"
	"log/slog"
	"sync"

	"github.com/phxteam/phoenixbot/core/logger"
	"github.com/phxteam/phoenixbot/internal/state"
	"github.com/phxteam/phoenixbot/internal/store"
)

// SessionStore resolves and mutates per-user sessions. Implemented by
// store.Sessions.
type SessionStore interface {
	Get(ctx context.Context, userID int64) (*store.Session, error)
	SetState(ctx context.Context, userID int64, st state.State) error
}

// Options wires the dispatcher's content-specific pieces. Fallback runs
// on a route miss, Failure after a handler error or panic, Reset after
// a self-heal, Unavailable when the session cannot be resolved.
type Options struct {
	Table       *Table
	Sessions    SessionStore
	Fallback    Handler
	Failure     Handler
	Reset       Handler
	Unavailable Handler
}

// Dispatcher runs the per-update decision loop. Updates for one user
// are serialized; distinct users proceed in parallel.
type Dispatcher struct {
	opts Options

	mu    sync.Mutex
	locks map[int64]*sync.Mutex
}

func New(opts Options) *Dispatcher {
	return &Dispatcher{
		opts:  opts,
		locks: make(map[int64]*sync.Mutex),
	}
}

// Dispatch processes one inbound update end to end. The caller fills
// UserID, Update, Respond and the sender fields; classification and
// session resolution happen here. Errors never propagate past this
// boundary; a failing handler yields the generic failure response
// instead.
func (d *Dispatcher) Dispatch(ctx context.Context, dc *Ctx) {
	userID := dc.UserID
	mu := d.userLock(userID)
	mu.Lock()
	defer mu.Unlock()

	dc.Type = state.Classify(dc.Update)

	sess, err := d.opts.Sessions.Get(ctx, userID)
	if err != nil {
		logger.Dispatch.Error("session resolve failed",
			slog.String("event", "dispatch"),
			slog.Int64("user_id", userID),
			slog.String("err", err.Error()),
		)
		d.run(ctx, dc, "unavailable", d.opts.Unavailable)
		return
	}
	dc.Session = sess

	// Corrupted state heals back to idle before any gating.
	if !state.Valid(sess.State) {
		logger.Dispatch.Warn("unknown state, resetting",
			slog.String("event", "dispatch"),
			slog.Int64("user_id", userID),
			slog.String("state", string(sess.State)),
		)
		if serr := d.opts.Sessions.SetState(ctx, userID, state.Idle); serr != nil {
			logger.Dispatch.Error("state reset failed",
				slog.String("event", "dispatch"),
				slog.Int64("user_id", userID),
				slog.String("err", serr.Error()),
			)
		}
		d.run(ctx, dc, "reset", d.opts.Reset)
		return
	}

	if !state.Allows(sess.State, dc.Type) {
		logger.Dispatch.Debug("update dropped",
			slog.String("event", "gate"),
			slog.Int64("user_id", userID),
			slog.String("state", string(sess.State)),
			slog.String("msg_type", string(dc.Type)),
		)
		return
	}

	if entry, ok := d.opts.Table.Lookup(sess.State, dc.Key()); ok {
		logger.Dispatch.Debug("route matched",
			slog.String("event", "route"),
			slog.Int64("user_id", userID),
			slog.String("state", string(sess.State)),
			slog.String("trigger", entry.Trigger),
			slog.String("handler", entry.Name),
		)
		d.run(ctx, dc, entry.Name, entry.Handler)
		return
	}

	logger.Dispatch.Debug("route miss",
		slog.String("event", "fallback"),
		slog.Int64("user_id", userID),
		slog.String("state", string(sess.State)),
		slog.String("msg_type", string(dc.Type)),
	)
	d.run(ctx, dc, "fallback", d.opts.Fallback)
}

// run executes a handler inside the error boundary. Panics and errors
// are logged and answered with the generic failure handler.
func (d *Dispatcher) run(ctx context.Context, dc *Ctx, name string, h Handler) {
	if h == nil {
		return
	}
	err := func() (err error) {
		defer func() {
			if r := recover(); r != nil {
				err = fmt.Errorf("panic: %v", r)
			}
		}()
		return h(ctx, dc)
	}()
	if err == nil {
		return
	}

	logger.Dispatch.Error("handler failed",
		slog.String("event", "handler"),
		slog.Int64("user_id", dc.UserID),
		slog.String("handler", name),
		slog.String("trigger", dc.Key()),
		slog.String("err", err.Error()),
	)

	if name == "failure" || d.opts.Failure == nil {
		return
	}
	if ferr := d.opts.Failure(ctx, dc); ferr != nil {
		logger.Dispatch.Error("failure response failed",
			slog.String("event", "handler"),
			slog.Int64("user_id", dc.UserID),
			slog.String("err", ferr.Error()),
		)
	}
}

func (d *Dispatcher) userLock(userID int64) *sync.Mutex {
	d.mu.Lock()
	defer d.mu.Unlock()
	l, ok := d.locks[userID]
	if !ok {
		l = &sync.Mutex{}
		d.locks[userID] = l
	}
	return l
}
