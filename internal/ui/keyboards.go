package ui

import (
	tele "gopkg.in/telebot.v4"

	"github.com/phxteam/phoenixbot/core/telegram/keyboard"
	"github.com/phxteam/phoenixbot/internal/catalog"
	"github.com/phxteam/phoenixbot/internal/counters"
)

// RemoveKeyboard hides the reply keyboard.
func RemoveKeyboard() *tele.ReplyMarkup {
	return keyboard.RemoveKeyboard()
}

// MainKeyboard is the default menu shown in the idle state.
func MainKeyboard() *tele.ReplyMarkup {
	return keyboard.ReplyButtons(
		[]string{BtnProfile, BtnTasks},
		[]string{BtnPoll},
	)
}

// ProfileKeyboard is shown under the profile page.
func ProfileKeyboard() *tele.ReplyMarkup {
	return keyboard.ReplyButtons(
		[]string{BtnBackToMenu, BtnSettings},
		[]string{BtnAchievements, BtnRating},
	)
}

// SettingsKeyboard offers the way back plus a location request.
func SettingsKeyboard() *tele.ReplyMarkup {
	markup := &tele.ReplyMarkup{ResizeKeyboard: true}
	markup.Reply(
		markup.Row(markup.Text(BtnBackToProfile)),
		markup.Row(markup.Location(BtnShareLocation)),
	)
	return markup
}

// CompletionKeyboard accompanies an active quiz.
func CompletionKeyboard() *tele.ReplyMarkup {
	return keyboard.ReplyButtons([]string{BtnFinishTest})
}

// QuizListKeyboard lists quiz names one per row.
func QuizListKeyboard(names []string) *tele.ReplyMarkup {
	rows := make([][]string, 0, len(names)+1)
	for _, name := range names {
		rows = append(rows, []string{name})
	}
	rows = append(rows, []string{BtnBackToMenu})
	return keyboard.ReplyButtons(rows...)
}

// CountersKeyboard lists counter names one per row.
func CountersKeyboard(defs []catalog.Counter) *tele.ReplyMarkup {
	rows := make([][]string, 0, len(defs)+1)
	for _, c := range defs {
		rows = append(rows, []string{c.Name})
	}
	rows = append(rows, []string{BtnBackToMenu})
	return keyboard.ReplyButtons(rows...)
}

// LocationKeyboard carries the single location-request button used
// during registration.
func LocationKeyboard() *tele.ReplyMarkup {
	return keyboard.LocationButton(BtnShareLocation)
}

// CounterKeyboard is the minus/plus row under a counter message.
func CounterKeyboard(counterID string) *tele.ReplyMarkup {
	return keyboard.InlineButtonsRows([]keyboard.InlineBtn{
		{Text: "-1", Data: counters.DecrementData(counterID)},
		{Text: "+1", Data: counters.IncrementData(counterID)},
	})
}
