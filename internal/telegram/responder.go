// Package telegram binds the dispatcher to the telebot transport.
package telegram

import (
	tele "gopkg.in/telebot.v4"
)

// responder adapts one tele.Context to the dispatcher's Responder.
type responder struct {
	c tele.Context
}

func (r responder) Send(text string, markup *tele.ReplyMarkup) (*tele.Message, error) {
	return r.c.Bot().Send(r.c.Recipient(), text, sendOptions(markup)...)
}

// Edit targets the given message, or the message the current callback
// came from when msg is nil. Without either it degrades to a send.
func (r responder) Edit(msg *tele.Message, text string, markup *tele.ReplyMarkup) (*tele.Message, error) {
	if msg == nil {
		msg = r.c.Message()
	}
	if msg == nil {
		return r.Send(text, markup)
	}
	return r.c.Bot().Edit(msg, text, sendOptions(markup)...)
}

func (r responder) AnswerCallback(text string, alert bool) error {
	if r.c.Callback() == nil {
		return nil
	}
	return r.c.Respond(&tele.CallbackResponse{Text: text, ShowAlert: alert})
}

func sendOptions(markup *tele.ReplyMarkup) []interface{} {
	if markup == nil {
		return nil
	}
	return []interface{}{markup}
}
