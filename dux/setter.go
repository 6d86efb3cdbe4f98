package dux

import (
	"fmt"
	"reflect"
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/on-the-ground/autodux/pure"
	"go.uber.org/zap"
)

const (
	setterNamePrefix = "set"
	fieldTag         = "dux"
	jsonTag          = "json"

	fieldIndexTableSize = 512
)

// fieldKeyFromSetterName maps "setCount" to "count".
func fieldKeyFromSetterName(name string) (string, error) {
	rest, ok := strings.CutPrefix(name, setterNamePrefix)
	if !ok || rest == "" {
		return "", fmt.Errorf("%w: %q", ErrInvalidSetterName, name)
	}
	r, size := utf8.DecodeRuneInString(rest)
	if !unicode.IsUpper(r) {
		return "", fmt.Errorf("%w: %q", ErrInvalidSetterName, name)
	}
	return string(unicode.ToLower(r)) + rest[size:], nil
}

func lowerFirst(s string) string {
	r, size := utf8.DecodeRuneInString(s)
	return string(unicode.ToLower(r)) + s[size:]
}

// structFieldKey is the key a setter uses to address a struct field:
// the dux tag, else the json tag name, else the field name with a lower-case first letter.
// ok is false for fields a setter may never target.
func structFieldKey(f reflect.StructField) (key string, ok bool) {
	if !f.IsExported() {
		return "", false
	}
	if tag, found := f.Tag.Lookup(fieldTag); found {
		name, _, _ := strings.Cut(tag, ",")
		switch name {
		case "-":
			return "", false
		case "":
		default:
			return name, true
		}
	}
	if name, _, _ := strings.Cut(f.Tag.Get(jsonTag), ","); name != "" && name != "-" {
		return name, true
	}
	return lowerFirst(f.Name), true
}

// structFieldIndex is memoized per (struct type, key); slices of one state type
// are typically created many times in tests and per-request stores.
var structFieldIndex = pure.TableizeI2O2(func(rt reflect.Type, key string) (int, error) {
	for i := range rt.NumField() {
		if k, ok := structFieldKey(rt.Field(i)); ok && k == key {
			return i, nil
		}
	}
	return -1, fmt.Errorf("%w: %s has no field %q", ErrUnknownField, rt, key)
}, fieldIndexTableSize)

// payloadValue converts a payload into a value settable on a target of type ft.
func payloadValue(payload any, ft reflect.Type) (reflect.Value, bool) {
	if payload == nil {
		return reflect.Zero(ft), true
	}
	pv := reflect.ValueOf(payload)
	if !pv.Type().AssignableTo(ft) {
		return reflect.Value{}, false
	}
	return pv, true
}

// synthesizeSetter builds a reducer that returns a shallow copy of state
// with exactly the field addressed by key replaced by the payload.
func synthesizeSetter[S any](env *reconcileEnv[S], name, key string) (Reducer[S], error) {
	rt := env.stateType
	actionType := ActionType(env.prefix, name)
	logger := env.logger.With(zap.String("type", actionType), zap.String("field", key))
	mismatch := func(ft reflect.Type, payload any) {
		logger.Warn("setter payload not assignable",
			zap.String("want", ft.String()),
			zap.String("got", fmt.Sprintf("%T", payload)),
		)
	}

	switch {
	case rt.Kind() == reflect.Struct:
		idx, err := structFieldIndex(rt, key)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", name, err)
		}
		ft := rt.Field(idx).Type
		return func(state S, payload any) S {
			pv, ok := payloadValue(payload, ft)
			if !ok {
				mismatch(ft, payload)
				return state
			}
			next := state
			reflect.ValueOf(&next).Elem().Field(idx).Set(pv)
			return next
		}, nil

	case rt.Kind() == reflect.Pointer && rt.Elem().Kind() == reflect.Struct:
		et := rt.Elem()
		idx, err := structFieldIndex(et, key)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", name, err)
		}
		ft := et.Field(idx).Type
		return func(state S, payload any) S {
			pv, ok := payloadValue(payload, ft)
			if !ok {
				mismatch(ft, payload)
				return state
			}
			next := reflect.New(et)
			if cur := reflect.ValueOf(state); !cur.IsNil() {
				next.Elem().Set(cur.Elem())
			}
			next.Elem().Field(idx).Set(pv)
			return next.Interface().(S)
		}, nil

	case rt.Kind() == reflect.Map && rt.Key().Kind() == reflect.String:
		mk := reflect.ValueOf(key).Convert(rt.Key())
		if init := reflect.ValueOf(env.initial); !init.MapIndex(mk).IsValid() {
			return nil, fmt.Errorf("%s: %w: initial state has no key %q", name, ErrUnknownField, key)
		}
		ft := rt.Elem()
		return func(state S, payload any) S {
			pv, ok := payloadValue(payload, ft)
			if !ok {
				mismatch(ft, payload)
				return state
			}
			cur := reflect.ValueOf(state)
			next := reflect.MakeMapWithSize(rt, cur.Len()+1)
			iter := cur.MapRange()
			for iter.Next() {
				next.SetMapIndex(iter.Key(), iter.Value())
			}
			next.SetMapIndex(mk, pv)
			return next.Interface().(S)
		}, nil

	default:
		return nil, fmt.Errorf("%s: %w: %v", name, ErrUnsupportedState, rt)
	}
}
