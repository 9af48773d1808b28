package ui

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestRenderHealth(t *testing.T) {
	require.Equal(t, "❤️❤️❤️❤️", RenderHealth(4))
	require.Equal(t, "❤️❤️🖤🖤", RenderHealth(2))
	require.Equal(t, "🖤🖤🖤🖤", RenderHealth(0))
	require.Equal(t, "🖤🖤🖤🖤", RenderHealth(-3))
	require.Equal(t, "❤️❤️❤️❤️", RenderHealth(9))
}

func TestProfileRendering(t *testing.T) {
	text := Profile(ProfileView{
		FirstName:      "Аня",
		TimeZone:       "UTC3",
		Health:         4,
		Experience:     2500,
		TasksCompleted: 12,
	})
	require.Contains(t, text, "Имя пользователя: Аня Не указано")
	require.Contains(t, text, "Часовой пояс: UTC3")
	require.Contains(t, text, "Уровень: 2")
	require.Contains(t, text, "Опыт: 2500")
	require.Contains(t, text, "Выполнено заданий: 12")
}

func TestMainKeyboardLayout(t *testing.T) {
	markup := MainKeyboard()
	require.Len(t, markup.ReplyKeyboard, 2)
	require.Equal(t, BtnProfile, markup.ReplyKeyboard[0][0].Text)
	require.Equal(t, BtnTasks, markup.ReplyKeyboard[0][1].Text)
	require.Equal(t, BtnPoll, markup.ReplyKeyboard[1][0].Text)
}

func TestCounterKeyboardPayloads(t *testing.T) {
	markup := CounterKeyboard("wins")
	require.Len(t, markup.InlineKeyboard, 1)
	require.Equal(t, "wins_decrement", markup.InlineKeyboard[0][0].Data)
	require.Equal(t, "wins_increment", markup.InlineKeyboard[0][1].Data)
}
