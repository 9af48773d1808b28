package telegram

import (
	"strings"

	tele "gopkg.in/telebot.v4"

	coretelegram "github.com/phxteam/phoenixbot/core/telegram"
	"github.com/phxteam/phoenixbot/core/telegram/helpers"
	"github.com/phxteam/phoenixbot/internal/dispatch"
	"github.com/phxteam/phoenixbot/internal/state"
)

// Routes binds every update kind the dispatcher understands to one
// entry point. The dispatcher does its own routing, so each endpoint
// funnels into the same handler.
func Routes(d *dispatch.Dispatcher) []coretelegram.Route {
	entry := entryPoint(d)
	endpoints := []any{
		"/start",
		tele.OnText,
		tele.OnLocation,
		tele.OnPhoto,
		tele.OnAudio,
		tele.OnVideo,
		tele.OnDocument,
		tele.OnCallback,
	}

	routes := make([]coretelegram.Route, 0, len(endpoints))
	for _, ep := range endpoints {
		routes = append(routes, coretelegram.Route{Endpoint: ep, Handler: entry})
	}
	return routes
}

func entryPoint(d *dispatch.Dispatcher) tele.HandlerFunc {
	return func(c tele.Context) error {
		sender := c.Sender()
		if sender == nil {
			return nil
		}

		ctx := helpers.BuildContext(c)
		d.Dispatch(ctx, &dispatch.Ctx{
			UserID:    sender.ID,
			Update:    buildUpdate(c),
			Respond:   responder{c: c},
			Username:  sender.Username,
			FirstName: sender.FirstName,
			LastName:  sender.LastName,
		})
		return nil
	}
}

// buildUpdate flattens the telebot update into the tagged shape the
// classifier consumes.
func buildUpdate(c tele.Context) state.Update {
	var upd state.Update

	if cb := c.Callback(); cb != nil {
		upd.Callback = true
		upd.CallbackData = callbackData(cb)
		return upd
	}

	m := c.Message()
	if m == nil {
		return upd
	}
	switch {
	case m.Location != nil:
		upd.Location = &state.Location{
			Latitude:  float64(m.Location.Lat),
			Longitude: float64(m.Location.Lng),
		}
	case m.Photo != nil:
		upd.Photo = true
	case m.Audio != nil:
		upd.Audio = true
	case m.Video != nil:
		upd.Video = true
	case m.Document != nil:
		upd.Document = true
	default:
		upd.Text = m.Text
	}
	return upd
}

// callbackData returns the raw payload, tolerating the library's
// unique-prefix framing on buttons not built by this bot.
func callbackData(cb *tele.Callback) string {
	data := cb.Data
	if cb.Unique != "" {
		return cb.Unique + "|" + data
	}
	return strings.TrimPrefix(data, "\f")
}

