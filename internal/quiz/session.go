// Package quiz runs interactive quiz sessions over inline keyboards.
package quiz

import (
	tele "gopkg.in/telebot.v4"

	"github.com/phxteam/phoenixbot/internal/catalog"
)

// Session is the in-flight quiz state for one user. It lives in the
// session cache only and is discarded on restart. Answers is
// zero-filled at start; an entry holds the picked option's ordinal.
type Session struct {
	Quiz    *catalog.Quiz
	Pointer int
	Answers []int

	// Msg is the Telegram message carrying the current question. Each
	// question edits it in place instead of sending a new one.
	Msg *tele.Message
}

func newSession(q *catalog.Quiz) *Session {
	return &Session{
		Quiz:    q,
		Answers: make([]int, len(q.Questions)),
	}
}

// Done reports whether every question has been answered.
func (s *Session) Done() bool {
	return s.Pointer >= len(s.Quiz.Questions)
}

// Question returns the question under the pointer.
func (s *Session) Question() *catalog.Question {
	return &s.Quiz.Questions[s.Pointer]
}
