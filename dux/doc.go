// Package dux builds Redux-style slices: a reducer and its action creators,
// derived from one map of reducer specifications.
//
// A slice is named by its action prefix. Every reducer name k in the spec map
// yields exactly one action creator producing Action{Type: "<prefix>/k"} and
// exactly one branch of the slice reducer.
//
// Reducer specifications are a closed set of variants:
//   - Custom and Typed pass a hand-written reducer through;
//   - Fallible drops failed transitions, keeping the previous state;
//   - Setter replaces one named field of the state with the payload;
//   - AutoSetter does the same, deriving the field from a set<Field> reducer name.
//
// Setters work on struct, struct pointer and string-keyed map states. A struct
// field is addressed by its `dux` tag, else by its `json` tag name, else by its Go
// name with the first letter lower-cased; unexported fields and `dux:"-"` fields
// are never targets. A map key must be present in the initial state.
//
// Setter bindings are checked when the slice is created, so a reducer name that
// does not match any field of the state is a construction error rather than a
// silently added field.
//
// The slice reducer never fails on actions it does not own. A store hands every
// action to every slice, so foreign and unknown actions return the state as is.
//
// Example:
//
//	type counter struct {
//	    Count int
//	}
//
//	slice, err := dux.CreateSlice("counter", counter{}, map[string]dux.ReducerSpec[counter]{
//	    "setCount": dux.AutoSetter[counter](),
//	    "increment": dux.Typed(func(s counter, by int) counter {
//	        s.Count += by
//	        return s
//	    }),
//	})
//	next := slice.Reduce(counter{}, slice.MustAction("setCount")(5)) // counter{Count: 5}
package dux
