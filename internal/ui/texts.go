// Package ui holds the bot's user-facing texts and keyboards.
package ui

import (
	"fmt"
	"strings"
)

// Menu button labels. Route triggers match these exactly.
const (
	BtnProfile       = "📋 Профиль"
	BtnTasks         = "🗂 Задания"
	BtnPoll          = "📊 Пройти опрос"
	BtnSettings      = "⚙️ Настройка"
	BtnBackToMenu    = "🏠 Назад в меню"
	BtnBackToProfile = "⬅️ Назад в профиль"
	BtnAchievements  = "🏆 Достижения"
	BtnRating        = "📊 Рейтинг"
	BtnCounters      = "🧮 Счётчик Побед"
	BtnFinishTest    = "✅ Завершить тест"
	BtnShareLocation = "📍 Поделиться местоположением"
)

const (
	TextWelcome         = "Добро пожаловать в игру Феникс!"
	TextRequestLocation = "Пожалуйста, отправьте своё местоположение, чтобы продолжить."
	TextProfileMissing  = "Ваш профиль не найден. Пожалуйста, используйте /start для регистрации."
	TextTasks           = "Список доступных заданий:"
	TextSettings        = "Настройки:"
	TextBackToMenu      = "Возвращаемся в главное меню:"
	TextAchievements    = "Ваши достижения:"
	TextRating          = "Текущий рейтинг:"
	TextCountersMenu    = "Вот доступные счётчики:"
	TextPickQuiz        = "Выберите тест из списка:"
	TextNoQuizzes       = "Нет доступных тестов. Пожалуйста, свяжитесь с администратором."
	TextQuizLoadError   = "Произошла ошибка при загрузке теста. Пожалуйста, попробуйте позже."
	TextQuizFinished    = "Тест завершён. Возвращаем вас в главное меню."
	TextNotRecognized   = "Сообщение не распознано. Выберите действие из меню."
	TextFailure         = "Произошла ошибка при обработке вашего запроса."
	TextRetryLater      = "Сервис временно недоступен. Попробуйте позже."
	TextStateReset      = "Произошёл сбой состояния, возвращаемся в главное меню."
	TextCounterFloor    = "Счётчик не может быть меньше нуля."
	TextBadCallback     = "Некорректные данные."
	unknownValue        = "Не указано"
)

// QuizStarted announces a freshly started quiz.
func QuizStarted(name string) string {
	return fmt.Sprintf("Начат тест %s", name)
}

// TimeZoneSet confirms the timezone written during registration.
func TimeZoneSet(tz string) string {
	return fmt.Sprintf("Ваш часовой пояс установлен как: %s", tz)
}

// CounterCurrent shows a counter's value when its page opens.
func CounterCurrent(name string, value int) string {
	return fmt.Sprintf("Счётчик %q: %d", name, value)
}

// CounterUpdated confirms an applied adjustment.
func CounterUpdated(value int) string {
	return fmt.Sprintf("Счётчик обновлён: %d", value)
}

// RenderHealth draws health as filled and empty hearts out of four.
func RenderHealth(health int) string {
	if health < 0 {
		health = 0
	}
	if health > 4 {
		health = 4
	}
	return strings.Repeat("❤️", health) + strings.Repeat("🖤", 4-health)
}

// ProfileView is the data the profile page renders.
type ProfileView struct {
	FirstName      string
	LastName       string
	TimeZone       string
	Health         int
	Experience     int
	TasksCompleted int
}

// Profile renders the profile page body. Level grows one step per
// thousand experience.
func Profile(v ProfileView) string {
	first := v.FirstName
	if first == "" {
		first = unknownValue
	}
	last := v.LastName
	if last == "" {
		last = unknownValue
	}
	tz := v.TimeZone
	if tz == "" {
		tz = "Не указан"
	}
	return fmt.Sprintf(
		"Ваш профиль:\n- Имя пользователя: %s %s\n- Часовой пояс: %s\n- Здоровье: %s\n- Уровень: %d\n- Опыт: %d\n- Выполнено заданий: %d",
		first, last, tz, RenderHealth(v.Health), v.Experience/1000, v.Experience, v.TasksCompleted,
	)
}
