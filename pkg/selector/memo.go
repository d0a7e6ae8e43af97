// Package selector provides memoized, composable projections over state.
//
// A memoized selector remembers the identities of its inputs and its last
// result. As long as every input is the same (pointer, slice header, map
// header or equal value) the previous result is returned unchanged, so
// callers can compare results by identity to decide whether anything moved.
package selector

import (
	"reflect"
	"sync"
)

// Selector projects a value out of state S.
type Selector[S, T any] func(S) T

// Same reports whether a and b are the same value for memoization purposes.
// Reference-like kinds compare by header identity, everything else by
// equality.
func Same(a, b any) bool {
	if a == nil || b == nil {
		return a == nil && b == nil
	}
	va, vb := reflect.ValueOf(a), reflect.ValueOf(b)
	if va.Type() != vb.Type() {
		return false
	}
	switch va.Kind() {
	case reflect.Slice:
		if va.IsNil() || vb.IsNil() {
			return va.IsNil() && vb.IsNil()
		}
		return va.Pointer() == vb.Pointer() && va.Len() == vb.Len()
	case reflect.Map, reflect.Pointer, reflect.Chan, reflect.Func, reflect.UnsafePointer:
		return va.Pointer() == vb.Pointer()
	}
	if va.Type().Comparable() {
		return a == b
	}
	return reflect.DeepEqual(a, b)
}

type memo[T any] struct {
	mu     sync.Mutex
	inputs []any
	result T
	valid  bool
}

func (m *memo[T]) get(inputs []any, compute func() T) T {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.valid && sameAll(m.inputs, inputs) {
		return m.result
	}
	m.result = compute()
	m.inputs = inputs
	m.valid = true
	return m.result
}

func sameAll(a, b []any) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if !Same(a[i], b[i]) {
			return false
		}
	}
	return true
}

// Create1 memoizes combine over a single input selector.
func Create1[S, A, T any](in Selector[S, A], combine func(A) T) Selector[S, T] {
	m := &memo[T]{}
	return func(s S) T {
		a := in(s)
		return m.get([]any{a}, func() T { return combine(a) })
	}
}

// Create2 memoizes combine over two input selectors.
func Create2[S, A, B, T any](inA Selector[S, A], inB Selector[S, B], combine func(A, B) T) Selector[S, T] {
	m := &memo[T]{}
	return func(s S) T {
		a, b := inA(s), inB(s)
		return m.get([]any{a, b}, func() T { return combine(a, b) })
	}
}

// Create3 memoizes combine over three input selectors.
func Create3[S, A, B, C, T any](inA Selector[S, A], inB Selector[S, B], inC Selector[S, C], combine func(A, B, C) T) Selector[S, T] {
	m := &memo[T]{}
	return func(s S) T {
		a, b, c := inA(s), inB(s), inC(s)
		return m.get([]any{a, b, c}, func() T { return combine(a, b, c) })
	}
}

// Create4 memoizes combine over four input selectors.
func Create4[S, A, B, C, D, T any](inA Selector[S, A], inB Selector[S, B], inC Selector[S, C], inD Selector[S, D], combine func(A, B, C, D) T) Selector[S, T] {
	m := &memo[T]{}
	return func(s S) T {
		a, b, c, d := inA(s), inB(s), inC(s), inD(s)
		return m.get([]any{a, b, c, d}, func() T { return combine(a, b, c, d) })
	}
}

// DepMemo rebuilds a selector only when its dependency list changes. The
// selector's own identity plays no part in the decision.
type DepMemo[S, T any] struct {
	mu   sync.Mutex
	deps []any
	sel  Selector[S, T]
}

// Get returns the cached selector for deps, calling factory when deps differ
// from the previous call.
func (d *DepMemo[S, T]) Get(factory func() Selector[S, T], deps ...any) Selector[S, T] {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.sel != nil && sameAll(d.deps, deps) {
		return d.sel
	}
	d.sel = factory()
	d.deps = append([]any(nil), deps...)
	return d.sel
}
