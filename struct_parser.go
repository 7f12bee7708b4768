package inertia

import (
	"cmp"
	"context"
	"errors"
	"fmt"
	"reflect"
	"strings"
)

// Struct tags read by ParseStruct.
const (
	TagInertia      = "inertia"
	TagInertiaGroup = "inertiagroup"
)

const (
	propTypeOptional = "optional"
	propTypeDeferred = "deferred"
	propTypeAlways   = "always"

	propDiscard    = "-"
	propOmitEmpty  = "omitempty"
	propMergeable  = "mergeable"
	propConcurrent = "concurrent"
)

// ParseStruct converts a struct into a Props collection using struct tags.
// It expects a pointer to a struct with JSON-encodable fields; fields
// without an "inertia" tag are ignored.
//
// Tag format: `inertia:"name[,option]..."`. The first entry is the prop name
// sent to the client ("-" skips the field, an empty name falls back to the
// field name); the remaining entries may appear in any order:
//
//   - "optional", "deferred" or "always" select the prop kind; the default
//     is a standard prop
//   - "mergeable" enables client-side merge behavior
//   - "concurrent" resolves the prop through the render's worker pool
//     (deferred props)
//   - "omitempty" skips the field when its value is the zero value
//
// Optional and deferred fields must hold a Lazy value, a LazyFunc, or a
// plain func(context.Context) (any, error).
//
// Deferred props may be grouped with `inertiagroup:"name"`; using the group
// tag on a non-deferred field is an error.
//
// Example:
//
//	type dashboardProps struct {
//		UserID    int      `inertia:"user_id,always"`
//		Posts     []Post   `inertia:"posts"`
//		Analytics LazyFunc `inertia:"analytics,deferred,concurrent" inertiagroup:"metrics"`
//		Extra     LazyFunc `inertia:"extra,optional,omitempty"`
//	}
func ParseStruct(v any) (Props, error) {
	val := reflect.ValueOf(v)
	if val.Kind() != reflect.Pointer {
		return nil, errors.New("inertia: ParseStruct expects a pointer to a struct")
	}

	val = val.Elem()
	if val.Kind() != reflect.Struct {
		return nil, errors.New("inertia: ParseStruct expects a pointer to a struct")
	}

	typ := val.Type()
	props := make(Props, 0, typ.NumField())

	for i := range typ.NumField() {
		field := typ.Field(i)
		if !field.IsExported() {
			continue
		}

		tag := field.Tag.Get(TagInertia)
		if tag == "" {
			continue
		}

		pt, err := parsePropTag(tag, field.Name)
		if err != nil {
			return nil, err
		}

		if pt.discard {
			continue
		}

		fieldVal := val.Field(i)
		if pt.omitEmpty && fieldVal.IsZero() {
			continue
		}

		group := field.Tag.Get(TagInertiaGroup)
		if group != "" && pt.kind != propTypeDeferred {
			return nil, fmt.Errorf(
				"inertia: %s tag on field %s requires a deferred prop",
				TagInertiaGroup, field.Name,
			)
		}

		var prop Prop

		switch pt.kind {
		case propTypeOptional:
			fn, err := toLazy(fieldVal)
			if err != nil {
				return nil, err
			}

			prop = NewOptional(pt.name, fn)
		case propTypeDeferred:
			fn, err := toLazy(fieldVal)
			if err != nil {
				return nil, err
			}

			prop = NewDeferred(pt.name, fn, &DeferredOptions{
				Group:      cmp.Or(group, DefaultDeferredGroup),
				Merge:      pt.mergeable,
				Concurrent: pt.concurrent,
			})
		case propTypeAlways:
			prop = NewAlways(pt.name, fieldVal.Interface())
		default:
			prop = NewProp(pt.name, fieldVal.Interface(), &PropOptions{Merge: pt.mergeable})
		}

		props = append(props, prop)
	}

	return props, nil
}

type propTag struct {
	name       string
	kind       string
	discard    bool
	omitEmpty  bool
	mergeable  bool
	concurrent bool
}

func parsePropTag(tag, fieldName string) (propTag, error) {
	parts := strings.Split(tag, ",")

	//nolint:exhaustruct
	pt := propTag{name: cmp.Or(strings.TrimSpace(parts[0]), fieldName)}
	if pt.name == propDiscard {
		pt.discard = true
		return pt, nil
	}

	for _, part := range parts[1:] {
		switch part = strings.TrimSpace(part); part {
		case propTypeOptional, propTypeDeferred, propTypeAlways:
			if pt.kind != "" && pt.kind != part {
				return pt, fmt.Errorf(
					"inertia: conflicting prop kinds %q and %q on field %s",
					pt.kind, part, fieldName,
				)
			}

			pt.kind = part
		case propMergeable:
			pt.mergeable = true
		case propConcurrent:
			pt.concurrent = true
		case propOmitEmpty:
			pt.omitEmpty = true
		case "":
		default:
			return pt, fmt.Errorf("inertia: unknown prop tag option %q on field %s", part, fieldName)
		}
	}

	return pt, nil
}

// toLazy coerces a struct field value into a Lazy resolver.
func toLazy(v reflect.Value) (Lazy, error) {
	if !v.IsValid() || v.IsZero() {
		return nil, errors.New("inertia: lazy prop field holds no value")
	}

	switch fn := v.Interface().(type) {
	case Lazy:
		return fn, nil
	case func(context.Context) (any, error):
		return LazyFunc(fn), nil
	default:
		return nil, fmt.Errorf("inertia: field of type %s cannot be used as a lazy prop", v.Type())
	}
}
