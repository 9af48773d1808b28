// Package dispatch routes classified updates to handlers according to
// the user's conversation state.
package dispatch

import (
	"context"

	tele "gopkg.in/telebot.v4"

	"github.com/phxteam/phoenixbot/internal/state"
	"github.com/phxteam/phoenixbot/internal/store"
)

// Responder delivers outbound actions for the update being handled.
// Edit with a nil message targets the message the current callback
// originated from.
type Responder interface {
	Send(text string, markup *tele.ReplyMarkup) (*tele.Message, error)
	Edit(msg *tele.Message, text string, markup *tele.ReplyMarkup) (*tele.Message, error)
	AnswerCallback(text string, alert bool) error
}

// Ctx carries one update through dispatch: the classified payload, the
// user's session and the channel to answer on.
type Ctx struct {
	UserID  int64
	Update  state.Update
	Type    state.MessageType
	Session *store.Session
	Respond Responder

	// Sender profile fields, filled by the transport when present.
	Username  string
	FirstName string
	LastName  string
}

// Handler processes one dispatched update.
type Handler func(ctx context.Context, rc *Ctx) error

// Key returns the trigger signature used for route lookup: the exact
// text for text updates, the raw payload for callbacks, empty
// otherwise.
func (rc *Ctx) Key() string {
	switch rc.Type {
	case state.TypeText:
		return rc.Update.Text
	case state.TypeCallback:
		return rc.Update.CallbackData
	}
	return ""
}
