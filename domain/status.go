package domain

import (
	"errors"
	"fmt"
)

// ErrInvalidTransition is returned when an action is not valid for a
// record's current status.
var ErrInvalidTransition = errors.New("invalid status transition")

// Chip colors, shared by every status table.
const (
	ColorDefault   = "default"
	ColorPrimary   = "primary"
	ColorSecondary = "secondary"
	ColorInfo      = "info"
	ColorSuccess   = "success"
	ColorWarning   = "warning"
	ColorError     = "error"
)

type StatusInfo struct {
	Label string
	Color string
}

// StatusTable maps a domain's closed status set to its display label and color.
type StatusTable[S ~string] map[S]StatusInfo

func (t StatusTable[S]) Label(s S) string {
	if info, ok := t[s]; ok {
		return info.Label
	}
	return "未知状态"
}

func (t StatusTable[S]) Color(s S) string {
	if info, ok := t[s]; ok {
		return info.Color
	}
	return ColorDefault
}

// Known reports whether s belongs to the table's closed set.
func (t StatusTable[S]) Known(s S) bool {
	_, ok := t[s]
	return ok
}

type Transition[S ~string] struct {
	Action string
	Label  string
	Color  string
	Next   S
}

// TransitionTable lists, per current status, the actions the console offers.
// The backend remains the authority; this only filters affordances and
// rejects obviously invalid requests before they are sent.
type TransitionTable[S ~string] map[S][]Transition[S]

// Allowed returns the transitions valid from s, in declaration order.
func (t TransitionTable[S]) Allowed(s S) []Transition[S] {
	return t[s]
}

// Lookup finds the transition for action out of status s.
func (t TransitionTable[S]) Lookup(s S, action string) (Transition[S], error) {
	for _, tr := range t[s] {
		if tr.Action == action {
			return tr, nil
		}
	}
	return Transition[S]{}, fmt.Errorf("%w: %s from %s", ErrInvalidTransition, action, s)
}

// Terminal reports whether no action leaves s.
func (t TransitionTable[S]) Terminal(s S) bool {
	return len(t[s]) == 0
}
