package dux_test

import (
	"errors"
	"maps"
	"slices"
	"testing"

	"github.com/on-the-ground/autodux/dux"
	"github.com/on-the-ground/autodux/dux/log"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type counter struct {
	Count int
}

type todos struct {
	Items  []string
	Filter string `json:"filter_by"`
	Owner  string `dux:"user"`
	hidden int
}

func newCounterSlice(t *testing.T) *dux.Slice[counter] {
	t.Helper()
	slice, err := dux.CreateSlice("counter", counter{}, map[string]dux.ReducerSpec[counter]{
		"setCount": dux.AutoSetter[counter](),
		"increment": dux.Typed(func(s counter, by int) counter {
			s.Count += by
			return s
		}),
	}, dux.WithLogger(log.NewTestLogger()))
	require.NoError(t, err)
	return slice
}

func TestCreateSlice_CounterScenario(t *testing.T) {
	slice := newCounterSlice(t)

	action := slice.MustAction("setCount")(5)
	assert.Equal(t, dux.Action{Type: "counter/setCount", Payload: 5}, action)

	next := slice.Reduce(counter{Count: 0}, action)
	assert.Equal(t, counter{Count: 5}, next)

	next = slice.Reduce(next, slice.MustAction("increment")(2))
	assert.Equal(t, counter{Count: 7}, next)
}

func TestCreateSlice_MapStateScenario(t *testing.T) {
	initial := map[string]any{"count": 0}
	slice, err := dux.CreateSlice("counter", initial, map[string]dux.ReducerSpec[map[string]any]{
		"setCount": dux.AutoSetter[map[string]any](),
	})
	require.NoError(t, err)

	next := slice.Reduce(initial, slice.MustAction("setCount")(5))
	assert.Equal(t, map[string]any{"count": 5}, next)
	assert.Equal(t, map[string]any{"count": 0}, initial, "input state must not change")
}

func TestCreateSlice_KeySetsCorrespond(t *testing.T) {
	specs := map[string]dux.ReducerSpec[todos]{
		"setItems":  dux.AutoSetter[todos](),
		"setFilter": dux.Setter[todos]("filter_by"),
		"clear": dux.Typed(func(s todos, _ struct{}) todos {
			s.Items = []string{}
			return s
		}),
	}
	slice, err := dux.CreateSlice("todos", todos{}, specs)
	require.NoError(t, err)

	specKeys := slices.Sorted(maps.Keys(specs))
	assert.Equal(t, specKeys, slices.Sorted(maps.Keys(slice.Actions())))

	for _, name := range specKeys {
		actionType := slice.MustAction(name)(nil).Type
		assert.Equal(t, "todos/"+name, actionType)
		assert.True(t, slice.Handles(actionType))

		typ, ok := slice.ActionType(name)
		assert.True(t, ok)
		assert.Equal(t, actionType, typ)
	}
	assert.Equal(t, []string{"todos/clear", "todos/setFilter", "todos/setItems"}, slice.ActionTypes())

	_, ok := slice.ActionType("setCount")
	assert.False(t, ok)
}

func TestCreateSlice_ActionCreatorCarriesPayload(t *testing.T) {
	slice := newCounterSlice(t)
	payload := []int{1, 2}

	action := slice.MustAction("increment")(payload)
	assert.Equal(t, "counter/increment", action.Type)
	assert.Equal(t, payload, action.Payload)
}

func TestReducer_UnknownActionReturnsSameState(t *testing.T) {
	slice, err := dux.CreateSlice("todos", &todos{}, map[string]dux.ReducerSpec[*todos]{
		"setItems": dux.AutoSetter[*todos](),
	}, dux.WithLogger(log.NewTestLogger()))
	require.NoError(t, err)

	state := &todos{Items: []string{"a"}}
	for _, action := range []dux.Action{
		{Type: "other/foo", Payload: 1},
		{Type: "todos/missing", Payload: 1},
		{Type: "setItems", Payload: []string{"b"}},
		{Type: "", Payload: nil},
	} {
		assert.Same(t, state, slice.Reduce(state, action), "action %q", action.Type)
	}
}

func TestReducer_MatchesDirectInvocation(t *testing.T) {
	double := func(s counter, _ any) counter {
		s.Count *= 2
		return s
	}
	slice, err := dux.CreateSlice("counter", counter{}, map[string]dux.ReducerSpec[counter]{
		"double": dux.Custom(double),
	})
	require.NoError(t, err)

	state := counter{Count: 21}
	assert.Equal(t, double(state, nil), slice.Reduce(state, slice.MustAction("double")(nil)))
}

func TestReducer_ClearWithoutPayload(t *testing.T) {
	slice, err := dux.CreateSlice("todos", todos{}, map[string]dux.ReducerSpec[todos]{
		"clear": dux.Typed(func(s todos, _ struct{}) todos {
			s.Items = []string{}
			return s
		}),
	})
	require.NoError(t, err)

	for _, items := range [][]string{nil, {}, {"a", "b", "c"}} {
		next := slice.Reduce(todos{Items: items}, slice.MustAction("clear")(nil))
		assert.NotNil(t, next.Items)
		assert.Empty(t, next.Items)
	}
}

func TestReducer_TypedPayloadMismatchKeepsState(t *testing.T) {
	slice := newCounterSlice(t)

	state := counter{Count: 3}
	next := slice.Reduce(state, slice.MustAction("increment")("two"))
	assert.Equal(t, state, next)
}

func TestReducer_FallibleErrorKeepsState(t *testing.T) {
	errNegative := errors.New("negative")
	slice, err := dux.CreateSlice("counter", counter{}, map[string]dux.ReducerSpec[counter]{
		"decrement": dux.Fallible(func(s counter, by int) (counter, error) {
			if s.Count-by < 0 {
				return s, errNegative
			}
			s.Count -= by
			return s, nil
		}),
	}, dux.WithLogger(log.NewTestLogger()))
	require.NoError(t, err)

	dec := slice.MustAction("decrement")
	assert.Equal(t, counter{Count: 1}, slice.Reduce(counter{Count: 3}, dec(2)))
	assert.Equal(t, counter{Count: 1}, slice.Reduce(counter{Count: 1}, dec(2)))
}

func TestReducer_RecoversFromPanic(t *testing.T) {
	slice, err := dux.CreateSlice("counter", counter{}, map[string]dux.ReducerSpec[counter]{
		"explode": dux.Custom(func(counter, any) counter {
			panic("boom")
		}),
	}, dux.WithLogger(log.NewTestLogger()))
	require.NoError(t, err)

	state := counter{Count: 9}
	assert.NotPanics(t, func() {
		assert.Equal(t, state, slice.Reduce(state, slice.MustAction("explode")(nil)))
	})
}

func TestSlices_SharedNamesNeverCollide(t *testing.T) {
	specs := map[string]dux.ReducerSpec[counter]{
		"setCount": dux.AutoSetter[counter](),
	}
	left := dux.MustCreateSlice("left", counter{}, specs)
	right := dux.MustCreateSlice("right", counter{}, specs)

	leftAction := left.MustAction("setCount")(1)
	rightAction := right.MustAction("setCount")(1)
	assert.NotEqual(t, leftAction.Type, rightAction.Type)

	state := counter{Count: 0}
	assert.Equal(t, state, left.Reduce(state, rightAction))
	assert.Equal(t, counter{Count: 1}, left.Reduce(state, leftAction))
}

func TestCreateSlice_InvalidPrefix(t *testing.T) {
	for _, prefix := range []string{"", "a/b"} {
		_, err := dux.CreateSlice(prefix, counter{}, nil)
		assert.ErrorIs(t, err, dux.ErrInvalidPrefix, "prefix %q", prefix)
	}
}

func TestCreateSlice_ReportsEveryInvalidSpec(t *testing.T) {
	_, err := dux.CreateSlice("todos", todos{}, map[string]dux.ReducerSpec[todos]{
		"setTitle":  dux.AutoSetter[todos](),
		"reset":     dux.AutoSetter[todos](),
		"nothing":   dux.Custom[todos](nil),
		"nilSpec":   nil,
		"":          dux.Setter[todos]("items"),
		"setHidden": dux.AutoSetter[todos](),
	})
	require.Error(t, err)
	assert.ErrorIs(t, err, dux.ErrUnknownField)
	assert.ErrorIs(t, err, dux.ErrInvalidSetterName)
	assert.ErrorIs(t, err, dux.ErrNilReducer)
	assert.ErrorIs(t, err, dux.ErrEmptyReducerName)
	assert.Contains(t, err.Error(), "setTitle")
	assert.Contains(t, err.Error(), "setHidden")
}

func TestMustCreateSlice_Panics(t *testing.T) {
	assert.Panics(t, func() {
		dux.MustCreateSlice("counter", counter{}, map[string]dux.ReducerSpec[counter]{
			"setTotal": dux.AutoSetter[counter](),
		})
	})
}

func TestMustAction_PanicsOnUnknownName(t *testing.T) {
	slice := newCounterSlice(t)
	_, ok := slice.Action("reset")
	assert.False(t, ok)
	assert.Panics(t, func() { slice.MustAction("reset") })
}

func TestSplitType(t *testing.T) {
	prefix, name, ok := dux.SplitType(dux.ActionType("todos", "setItems"))
	assert.True(t, ok)
	assert.Equal(t, "todos", prefix)
	assert.Equal(t, "setItems", name)

	_, _, ok = dux.SplitType("init")
	assert.False(t, ok)
}
