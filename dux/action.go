package dux

import (
	"fmt"
	"strings"
)

// TypeSeparator joins a slice prefix and a reducer name into an action type.
const TypeSeparator = "/"

// Action is the only message a slice reducer understands.
type Action struct {
	Type    string `json:"type"`
	Payload any    `json:"payload,omitempty"`
}

// ActionCreator builds the action for one reducer of a slice.
// Reducers without a payload are dispatched with nil.
type ActionCreator func(payload any) Action

// ActionType formats the action type of reducer name in the slice prefix.
func ActionType(prefix, name string) string {
	return prefix + TypeSeparator + name
}

// SplitType splits an action type into its slice prefix and reducer name.
func SplitType(actionType string) (prefix, name string, ok bool) {
	return strings.Cut(actionType, TypeSeparator)
}

// validatePrefix rejects prefixes that would make action types ambiguous.
func validatePrefix(prefix string) error {
	if prefix == "" {
		return fmt.Errorf("%w: empty", ErrInvalidPrefix)
	}
	if strings.Contains(prefix, TypeSeparator) {
		return fmt.Errorf("%w: %q contains %q", ErrInvalidPrefix, prefix, TypeSeparator)
	}
	return nil
}

func newActionCreator(actionType string) ActionCreator {
	return func(payload any) Action {
		return Action{Type: actionType, Payload: payload}
	}
}

// createActions derives one action creator per reconciled reducer.
func createActions[S any](prefix string, reducers map[string]Reducer[S]) map[string]ActionCreator {
	actions := make(map[string]ActionCreator, len(reducers))
	for name := range reducers {
		actions[name] = newActionCreator(ActionType(prefix, name))
	}
	return actions
}
