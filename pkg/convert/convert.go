// Package convert turns filter text into typed values.
package convert

import (
	"encoding"
	"fmt"
	"reflect"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"

	criteriaErrors "github.com/pay-theory/criteria/pkg/errors"
)

var (
	uuidType           = reflect.TypeFor[uuid.UUID]()
	timeType           = reflect.TypeFor[time.Time]()
	durationType       = reflect.TypeFor[time.Duration]()
	textUnmarshalerTyp = reflect.TypeFor[encoding.TextUnmarshaler]()
)

// timeLayouts are tried in order when converting to time.Time
var timeLayouts = []string{
	time.RFC3339Nano,
	time.RFC3339,
	"2006-01-02T15:04:05",
	"2006-01-02 15:04:05",
	"2006-01-02",
}

// To converts text to a value of type T
func To[T any](text string) (T, error) {
	var zero T
	v, err := Value(text, reflect.TypeFor[T]())
	if err != nil {
		return zero, err
	}
	return v.Interface().(T), nil
}

// Value converts text to a value of typ. Pointer types are converted through
// their element type. Types implementing encoding.TextUnmarshaler (through a
// pointer receiver) decode themselves.
func Value(text string, typ reflect.Type) (reflect.Value, error) {
	if typ == nil {
		return reflect.Value{}, fmt.Errorf("%w: nil type", criteriaErrors.ErrUnsupportedType)
	}

	if typ.Kind() == reflect.Ptr {
		elem, err := Value(text, typ.Elem())
		if err != nil {
			return reflect.Value{}, err
		}
		ptr := reflect.New(typ.Elem())
		ptr.Elem().Set(elem)
		return ptr, nil
	}

	switch typ {
	case uuidType:
		id, err := uuid.Parse(strings.TrimSpace(text))
		if err != nil {
			return reflect.Value{}, conversionError(text, typ, err)
		}
		return reflect.ValueOf(id), nil
	case timeType:
		return parseTime(text)
	case durationType:
		d, err := time.ParseDuration(strings.TrimSpace(text))
		if err != nil {
			return reflect.Value{}, conversionError(text, typ, err)
		}
		return reflect.ValueOf(d), nil
	}

	if reflect.PointerTo(typ).Implements(textUnmarshalerTyp) {
		ptr := reflect.New(typ)
		if err := ptr.Interface().(encoding.TextUnmarshaler).UnmarshalText([]byte(text)); err != nil {
			return reflect.Value{}, conversionError(text, typ, err)
		}
		return ptr.Elem(), nil
	}

	out := reflect.New(typ).Elem()
	trimmed := strings.TrimSpace(text)

	switch typ.Kind() {
	case reflect.String:
		out.SetString(text)

	case reflect.Bool:
		b, err := strconv.ParseBool(trimmed)
		if err != nil {
			return reflect.Value{}, conversionError(text, typ, err)
		}
		out.SetBool(b)

	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		n, err := strconv.ParseInt(trimmed, 10, typ.Bits())
		if err != nil {
			return reflect.Value{}, conversionError(text, typ, err)
		}
		out.SetInt(n)

	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		n, err := strconv.ParseUint(trimmed, 10, typ.Bits())
		if err != nil {
			return reflect.Value{}, conversionError(text, typ, err)
		}
		out.SetUint(n)

	case reflect.Float32, reflect.Float64:
		f, err := strconv.ParseFloat(trimmed, typ.Bits())
		if err != nil {
			return reflect.Value{}, conversionError(text, typ, err)
		}
		out.SetFloat(f)

	case reflect.Slice, reflect.Array:
		return List(text, typ)

	case reflect.Interface:
		if typ.NumMethod() != 0 {
			return reflect.Value{}, fmt.Errorf("%w: %s", criteriaErrors.ErrUnsupportedType, typ)
		}
		out.Set(reflect.ValueOf(text))

	default:
		return reflect.Value{}, fmt.Errorf("%w: %s", criteriaErrors.ErrUnsupportedType, typ)
	}

	return out, nil
}

// List converts comma separated text to a slice or array of typ. One pair of
// surrounding brackets or parentheses is removed first. Blank text yields an
// empty slice.
func List(text string, typ reflect.Type) (reflect.Value, error) {
	if typ.Kind() != reflect.Slice && typ.Kind() != reflect.Array {
		return reflect.Value{}, fmt.Errorf("%w: %s is not a list type", criteriaErrors.ErrUnsupportedType, typ)
	}

	parts := Split(TrimBrackets(text))

	var out reflect.Value
	if typ.Kind() == reflect.Array {
		if len(parts) > typ.Len() {
			return reflect.Value{}, conversionError(text, typ, fmt.Errorf("%d elements exceed array length %d", len(parts), typ.Len()))
		}
		out = reflect.New(typ).Elem()
	} else {
		out = reflect.MakeSlice(typ, len(parts), len(parts))
	}

	for i, part := range parts {
		elem, err := Value(part, typ.Elem())
		if err != nil {
			return reflect.Value{}, err
		}
		out.Index(i).Set(elem)
	}
	return out, nil
}

// TrimBrackets removes one pair of matching surrounding [] or () characters
func TrimBrackets(text string) string {
	text = strings.TrimSpace(text)
	if len(text) < 2 {
		return text
	}
	first, last := text[0], text[len(text)-1]
	if (first == '[' && last == ']') || (first == '(' && last == ')') {
		return strings.TrimSpace(text[1 : len(text)-1])
	}
	return text
}

// Split splits comma separated text into trimmed parts, dropping empty ones
func Split(text string) []string {
	if strings.TrimSpace(text) == "" {
		return nil
	}

	raw := strings.Split(text, ",")
	parts := make([]string, 0, len(raw))
	for _, part := range raw {
		if part = strings.TrimSpace(part); part != "" {
			parts = append(parts, part)
		}
	}
	return parts
}

// IsList reports whether typ is a slice or array other than []byte
func IsList(typ reflect.Type) bool {
	if typ == nil {
		return false
	}
	switch typ.Kind() {
	case reflect.Slice, reflect.Array:
		return typ.Elem().Kind() != reflect.Uint8
	default:
		return false
	}
}

func parseTime(text string) (reflect.Value, error) {
	trimmed := strings.TrimSpace(text)
	var lastErr error
	for _, layout := range timeLayouts {
		t, err := time.Parse(layout, trimmed)
		if err == nil {
			return reflect.ValueOf(t), nil
		}
		lastErr = err
	}
	return reflect.Value{}, conversionError(text, timeType, lastErr)
}

func conversionError(text string, typ reflect.Type, err error) error {
	return fmt.Errorf("%w: %q as %s: %w", criteriaErrors.ErrConversion, text, typ, err)
}
