// Package state defines the conversation state machine vocabulary: the
// finite set of per-user states, the message-type tags produced by the
// classifier, and the per-state allow-lists gating dispatch.
package state

import "fmt"

// State identifies one step of the per-user conversation state machine.
type State string

const (
	// Idle is the default state: the user browses the main menu.
	Idle State = "IDLE"
	// Registration is entered until the user shares a location.
	Registration State = "REGISTRATION"
	// Testing is active while a quiz session is in progress.
	Testing State = "TESTING"
)

// Error reports a state value outside the fixed enumeration.
type Error struct {
	Value string
}

func (e *Error) Error() string {
	return fmt.Sprintf("state: unknown conversation state %q", e.Value)
}

// allowed maps each state to the message types it accepts. Built once;
// never mutated after init.
var allowed = map[State][]MessageType{
	Idle:         {TypeText, TypeLocation, TypeCallback},
	Testing:      {TypeText, TypeCallback},
	Registration: {TypeText, TypeLocation, TypePhoto},
}

// All returns every recognized state in declaration order.
func All() []State {
	return []State{Idle, Registration, Testing}
}

// Valid reports whether s belongs to the fixed enumeration.
func Valid(s State) bool {
	_, ok := allowed[s]
	return ok
}

// Allows reports whether message type mt is permitted while in state s.
// Unknown states allow nothing.
func Allows(s State, mt MessageType) bool {
	for _, t := range allowed[s] {
		if t == mt {
			return true
		}
	}
	return false
}
