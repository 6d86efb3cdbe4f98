package pure_test

import (
	"fmt"
	"reflect"
	"testing"

	"github.com/on-the-ground/autodux/pure"

	"github.com/stretchr/testify/assert"
)

func TestTableizeI2O2(t *testing.T) {
	count := 0
	fn := pure.TableizeI2O2(func(a, b int) (int, string) {
		count++
		return a * b, "mul"
	}, 2)

	x, y := fn(3, 4)
	assert.Equal(t, 12, x)
	assert.Equal(t, "mul", y)
	_, _ = fn(3, 4)
	assert.Equal(t, 1, count)

	x, _ = fn(4, 3)
	assert.Equal(t, 12, x)
	assert.Equal(t, 2, count)
}

type first struct{ A int }
type second struct{ A int }

func TestTableize_TypesAreKeyedByIdentity(t *testing.T) {
	fn := pure.TableizeI2O2(func(rt reflect.Type, field string) (int, bool) {
		f, ok := rt.FieldByName(field)
		if !ok {
			return -1, false
		}
		return f.Index[0], true
	}, 8)

	_, ok := fn(reflect.TypeOf(first{}), "A")
	assert.True(t, ok)
	_, ok = fn(reflect.TypeOf(second{}), "B")
	assert.False(t, ok)
	idx, ok := fn(reflect.TypeOf(second{}), "A")
	assert.True(t, ok)
	assert.Equal(t, 0, idx)
}

type NonComparable struct {
	Field []int // slices are not comparable
}

func (n NonComparable) String() string {
	return fmt.Sprintf("NonComparable%v", n.Field)
}

func TestTableizeWithStringerFallback(t *testing.T) {
	count := 0
	fn := pure.TableizeI2O2(func(n NonComparable, scale int) (int, bool) {
		count++
		return len(n.Field) * scale, true
	}, 2)

	val, _ := fn(NonComparable{Field: []int{1, 2, 3}}, 1)
	val2, _ := fn(NonComparable{Field: []int{1, 2, 3}}, 1)

	assert.Equal(t, 3, val)
	assert.Equal(t, 3, val2)
	assert.Equal(t, 1, count)
}

type TotallyInvalid struct {
	Field []int
}

func TestTableizeWithPanicIfNoComparableOrStringer(t *testing.T) {
	fn := pure.TableizeI2O2(func(t TotallyInvalid, _ int) (int, bool) {
		return len(t.Field), true
	}, 2)

	assert.Panics(t, func() {
		_, _ = fn(TotallyInvalid{Field: []int{1}}, 0)
	})
}
