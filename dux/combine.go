package dux

import (
	"fmt"
	"maps"

	"github.com/on-the-ground/autodux/shared/helper"
)

// Unit is a slice seen without its state type, as combined reducers and stores see it.
// *Slice[S] implements Unit for every S.
type Unit interface {
	Name() string
	Handles(actionType string) bool
	InitialValue() any
	ReduceValue(state any, action Action) any
}

var _ Unit = (*Slice[struct{}])(nil)

// Combined routes actions over an aggregate state keyed by slice name.
type Combined struct {
	units map[string]Unit
	order []string
}

// Combine aggregates slices under their names. Names must be unique.
func Combine(units ...Unit) (*Combined, error) {
	c := &Combined{
		units: make(map[string]Unit, len(units)),
		order: make([]string, 0, len(units)),
	}
	for _, u := range units {
		name := u.Name()
		if _, dup := c.units[name]; dup {
			return nil, fmt.Errorf("%w: %s", ErrDuplicateSlice, name)
		}
		c.units[name] = u
		c.order = append(c.order, name)
	}
	return c, nil
}

// Names lists slice names in the order they were combined.
func (c *Combined) Names() []string {
	return append([]string(nil), c.order...)
}

// Unit returns the slice owning name.
func (c *Combined) Unit(name string) (Unit, bool) {
	u, ok := c.units[name]
	return u, ok
}

// Owner returns the slice that handles actionType.
func (c *Combined) Owner(actionType string) (Unit, bool) {
	prefix, _, ok := SplitType(actionType)
	if !ok {
		return nil, false
	}
	u, ok := c.units[prefix]
	if !ok || !u.Handles(actionType) {
		return nil, false
	}
	return u, true
}

// InitialState builds the aggregate of every slice's initial state.
func (c *Combined) InitialState() map[string]any {
	state := make(map[string]any, len(c.units))
	for name, u := range c.units {
		state[name] = u.InitialValue()
	}
	return state
}

// Reduce applies action to the slice owning it. When no slice owns the action
// the very same map is returned; otherwise a shallow copy with only the owner's
// entry replaced. A nil state starts from InitialState.
func (c *Combined) Reduce(state map[string]any, action Action) map[string]any {
	if state == nil {
		state = c.InitialState()
	}
	u, ok := c.Owner(action.Type)
	if !ok {
		return state
	}
	next := maps.Clone(state)
	next[u.Name()] = u.ReduceValue(state[u.Name()], action)
	return next
}

// Reducer returns Reduce as a RootReducer.
func (c *Combined) Reducer() RootReducer[map[string]any] {
	return c.Reduce
}

// SliceState extracts the typed state of slice name from an aggregate state.
func SliceState[S any](root map[string]any, name string) (S, error) {
	return helper.GetTypedValueOf[S](func() (any, error) {
		v, ok := root[name]
		if !ok {
			return nil, fmt.Errorf("%w: %s", ErrUnknownSlice, name)
		}
		return v, nil
	})
}
