package pure

import (
	"fmt"
	"reflect"
)

type ComparableOrStringer any
type ComparableOrString any

type pair[O1, O2 any] struct {
	o1 O1
	o2 O2
}

// TableizeI2O2 memoizes a pure two-argument function with two results,
// typically a value and an ok flag or error.
func TableizeI2O2[I1, I2 ComparableOrStringer, O1, O2 any](
	pureFn func(I1, I2) (O1, O2),
	maxTableSize uint32,
) func(I1, I2) (O1, O2) {
	tableized := tableize(
		func(args ...ComparableOrStringer) pair[O1, O2] {
			o1, o2 := pureFn(args[0].(I1), args[1].(I2))
			return pair[O1, O2]{o1, o2}
		},
		maxTableSize,
	)
	return func(i1 I1, i2 I2) (O1, O2) {
		p := tableized(i1, i2)
		return p.o1, p.o2
	}
}

// tableKey prefers the value itself when it is comparable, so distinct values
// whose String() coincide (e.g. two reflect.Types named pkg.State) never share an entry.
// Non-comparable values fall back to fmt.Stringer.
func tableKey(i ComparableOrStringer) ComparableOrString {
	if i == nil || reflect.TypeOf(i).Comparable() {
		return i
	}
	if stringer, ok := i.(fmt.Stringer); ok {
		return stringer.String()
	}
	panic(fmt.Sprintf("tableize: %T is neither comparable nor a fmt.Stringer", i))
}

func tableize[O any](
	pureFn func(...ComparableOrStringer) O,
	maxTableSize uint32,
) func(...ComparableOrStringer) O {
	memo := NewTrie[O](maxTableSize)
	return func(args ...ComparableOrStringer) O {
		keys := make([]ComparableOrString, len(args))
		for i, arg := range args {
			keys[i] = tableKey(arg)
		}
		v, ok := memo.Load(keys)
		if !ok {
			v = pureFn(args...)
			memo.Store(keys, v)
		}
		return v
	}
}
