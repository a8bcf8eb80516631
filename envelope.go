// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package task

import "reflect"

// Value is an opaque, heap-backed value envelope. The engine ferries
// results and inputs as Value and relies on the construction-time type
// checks; at run time it inspects a concrete type in only two places: a
// loop asserts that its predicate reported a bool, and Repeat parses its
// iteration count with asUint64. Other hand-offs are not re-validated.
type Value = any

// empty is the sentinel a leaf reports when its declared result type is
// void. Its declared field is set from Empty's argument (leaves pass
// nil); promote does not read it and takes the target type from its own
// want parameter instead.
type empty struct {
	declared reflect.Type
}

// Empty constructs the empty-result envelope for a leaf whose function
// returns nothing meaningful (result type is void).
func Empty(declared reflect.Type) Value {
	return empty{declared: declared}
}

// promote implements the empty-value promotion rule from §4.3: if v is an
// empty envelope and want is non-nil, the forwarded value is the zero
// value of want (nil when want is an interface type). Otherwise v passes
// through unchanged. Repeat-N is the only composite that calls it (for
// its N == 0 report and its final hand-off); it is written generically so
// any future composite needing the same rule can reuse it without
// duplicating the reflect.Zero plumbing.
func promote(v Value, want reflect.Type) Value {
	e, ok := v.(empty)
	if !ok {
		return v
	}
	if want == nil {
		return e // no declared type to promote to; leave as-is
	}
	return reflect.Zero(want).Interface()
}

// isEmpty reports whether v is the empty-result envelope.
func isEmpty(v Value) bool {
	_, ok := v.(empty)
	return ok
}
