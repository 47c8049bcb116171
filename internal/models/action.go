package models

import (
	"fmt"
	"strings"
)

// Action is what a request or direct submission does to the schedule.
type Action string

const (
	ActionAdd    Action = "add"
	ActionDelete Action = "delete"
)

// ParseAction accepts only the closed set of actions.
func ParseAction(s string) (Action, error) {
	switch a := Action(strings.ToLower(strings.TrimSpace(s))); a {
	case ActionAdd, ActionDelete:
		return a, nil
	default:
		return "", fmt.Errorf("%w: unknown action %q", ErrInvalidFormat, s)
	}
}

func (a Action) Valid() bool {
	return a == ActionAdd || a == ActionDelete
}

// Source tells admins where a request came from.
type Source string

const (
	SourceBot    Source = "bot"
	SourceWebApp Source = "webapp"
	SourceAPI    Source = "api"
)
