package modkit

import (
	"fmt"
	"maps"
	"reflect"

	"github.com/golobby/cast"
)

// Options holds module settings keyed by name.
type Options map[string]any

// Clone returns a shallow copy of o. It never returns nil.
func (o Options) Clone() Options {
	out := make(Options, len(o))
	maps.Copy(out, o)
	return out
}

// MergeOptions shallow-merges the given mappings into a new one. Later
// mappings win on key conflicts; nil mappings are skipped.
func MergeOptions(layers ...Options) Options {
	out := make(Options)
	for _, layer := range layers {
		maps.Copy(out, layer)
	}
	return out
}

// Decode stores the value of key into target, which must be a non-nil pointer.
// Values that are not directly assignable are converted when their kinds allow
// it, and string values (as read from environment variables) are cast to the
// target type.
func (o Options) Decode(key string, target any) error {
	targetValue := reflect.ValueOf(target)
	if targetValue.Kind() != reflect.Ptr || targetValue.IsNil() {
		return ErrTargetNotPointer
	}
	raw, ok := o[key]
	if !ok {
		return fmt.Errorf("%w: %s", ErrOptionNotFound, key)
	}

	elem := targetValue.Elem()
	targetType := elem.Type()
	if raw == nil {
		elem.Set(reflect.Zero(targetType))
		return nil
	}

	value := reflect.ValueOf(raw)
	switch {
	case value.Type().AssignableTo(targetType):
		elem.Set(value)
		return nil
	case value.Kind() == reflect.String && targetType.Kind() == reflect.String:
		elem.Set(value.Convert(targetType))
		return nil
	case value.Kind() == reflect.String:
		converted, err := cast.FromType(value.String(), castType(targetType))
		if err != nil {
			return fmt.Errorf("%w: option %q: %w", ErrOptionIncompatible, key, err)
		}
		elem.Set(reflect.ValueOf(converted).Convert(targetType))
		return nil
	case isNumericKind(value.Kind()) && isNumericKind(targetType.Kind()):
		converted, ok := convertNumber(value, targetType)
		if !ok {
			return fmt.Errorf("%w: option %q value %v does not fit %s",
				ErrOptionIncompatible, key, raw, targetType)
		}
		elem.Set(converted)
		return nil
	}

	return fmt.Errorf("%w: option %q of type %s cannot be assigned to %s",
		ErrOptionIncompatible, key, value.Type(), targetType)
}

// convertNumber converts v to t only when no information is lost. Between
// float types only overflow is rejected.
func convertNumber(v reflect.Value, t reflect.Type) (reflect.Value, bool) {
	if isFloatKind(v.Kind()) && isFloatKind(t.Kind()) {
		if reflect.Zero(t).OverflowFloat(v.Float()) {
			return reflect.Value{}, false
		}
		return v.Convert(t), true
	}
	converted := v.Convert(t)
	if converted.Convert(v.Type()).Interface() != v.Interface() {
		return reflect.Value{}, false
	}
	return converted, true
}

// castType returns the predeclared type cast understands for named types
// such as time.Duration or a custom int.
func castType(t reflect.Type) reflect.Type {
	if t.PkgPath() == "" {
		return t
	}
	if basic, ok := basicTypes[t.Kind()]; ok {
		return basic
	}
	return t
}

var basicTypes = map[reflect.Kind]reflect.Type{
	reflect.Bool:    reflect.TypeFor[bool](),
	reflect.Int:     reflect.TypeFor[int](),
	reflect.Int8:    reflect.TypeFor[int8](),
	reflect.Int16:   reflect.TypeFor[int16](),
	reflect.Int32:   reflect.TypeFor[int32](),
	reflect.Int64:   reflect.TypeFor[int64](),
	reflect.Uint:    reflect.TypeFor[uint](),
	reflect.Uint8:   reflect.TypeFor[uint8](),
	reflect.Uint16:  reflect.TypeFor[uint16](),
	reflect.Uint32:  reflect.TypeFor[uint32](),
	reflect.Uint64:  reflect.TypeFor[uint64](),
	reflect.Float32: reflect.TypeFor[float32](),
	reflect.Float64: reflect.TypeFor[float64](),
}

func isFloatKind(k reflect.Kind) bool {
	return k == reflect.Float32 || k == reflect.Float64
}

func isNumericKind(k reflect.Kind) bool {
	switch k {
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64,
		reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64,
		reflect.Float32, reflect.Float64:
		return true
	}
	return false
}
