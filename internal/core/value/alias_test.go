// Copyright 2024 The Husk Scheme Authors
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package value_test

import (
	"testing"

	"github.com/nakayama900/husk-scheme/internal/core/value"
)

// TestAliasingMutationVisible is spec Testable Property P5, and scenario 4
// of spec section 8 ((define v (make-vector 3 0)) (define w v)
// (vector-set! w 1 42) v => #(0 42 0)).
func TestAliasingMutationVisible(t *testing.T) {
	e := value.Empty()
	if err := e.Define(value.NSValue, "v", value.NewVector(value.NewInteger(0), value.NewInteger(0), value.NewInteger(0))); err != nil {
		t.Fatal(err)
	}
	if err := e.Define(value.NSValue, "w", value.Pointer{Name: "v", NS: value.NSValue, Target: e}); err != nil {
		t.Fatal(err)
	}

	wVal, err := e.Get(value.NSValue, "w")
	if err != nil {
		t.Fatal(err)
	}
	wTarget, err := value.Deref(wVal)
	if err != nil {
		t.Fatal(err)
	}
	wTarget.(*value.Vector).Elems[1] = value.NewInteger(42)

	vVal, err := e.Get(value.NSValue, "v")
	if err != nil {
		t.Fatal(err)
	}
	if got := value.Show(vVal); got != "#(0 42 0)" {
		t.Errorf("v after vector-set! through w = %s, want #(0 42 0)", got)
	}
}

// TestRebindOldestAliasBecomesCanonical exercises the frozen Open Question
// decision from spec section 9 / DESIGN.md: when x has more than one
// reverse alias and x is redefined, the *oldest* alias becomes the new
// canonical holder, and every other alias is repointed at it.
func TestRebindOldestAliasBecomesCanonical(t *testing.T) {
	e := value.Empty()
	if err := e.Define(value.NSValue, "x", value.NewInteger(1)); err != nil {
		t.Fatal(err)
	}
	if err := e.Define(value.NSValue, "y1", value.Pointer{Name: "x", NS: value.NSValue, Target: e}); err != nil {
		t.Fatal(err)
	}
	if err := e.Define(value.NSValue, "y2", value.Pointer{Name: "x", NS: value.NSValue, Target: e}); err != nil {
		t.Fatal(err)
	}

	// x is an Integer, not an object, so y1/y2 were dereferenced
	// immediately on store rather than recorded as aliases -- rebind with
	// an *object* so the alias bookkeeping actually engages.
	e2 := value.Empty()
	if err := e2.Define(value.NSValue, "x", value.NewVector(value.NewInteger(1))); err != nil {
		t.Fatal(err)
	}
	if err := e2.Define(value.NSValue, "y1", value.Pointer{Name: "x", NS: value.NSValue, Target: e2}); err != nil {
		t.Fatal(err)
	}
	if err := e2.Define(value.NSValue, "y2", value.Pointer{Name: "x", NS: value.NSValue, Target: e2}); err != nil {
		t.Fatal(err)
	}

	if err := e2.Define(value.NSValue, "x", value.NewInteger(99)); err != nil {
		t.Fatal(err)
	}

	y1, err := e2.Get(value.NSValue, "y1")
	if err != nil {
		t.Fatal(err)
	}
	if got := value.Show(y1); got != "#(1)" {
		t.Errorf("y1 after rebinding x = %s, want the relocated old value #(1)", got)
	}

	y2, err := e2.Get(value.NSValue, "y2")
	if err != nil {
		t.Fatal(err)
	}
	y2Target, err := value.Deref(y2)
	if err != nil {
		t.Fatal(err)
	}
	if got := value.Show(y2Target); got != "#(1)" {
		t.Errorf("y2 after rebinding x = %s, want to resolve (via y1) to #(1)", got)
	}

	x, err := e2.Get(value.NSValue, "x")
	if err != nil {
		t.Fatal(err)
	}
	if got := value.Show(x); got != "99" {
		t.Errorf("x after rebinding = %s, want 99", got)
	}
	_ = e
}

// TestPointerToNonObjectDereferencedImmediately exercises the other half
// of the frozen Open Question: storing a pointer to a non-object target
// dereferences immediately rather than recording an alias.
func TestPointerToNonObjectDereferencedImmediately(t *testing.T) {
	e := value.Empty()
	if err := e.Define(value.NSValue, "x", value.NewInteger(5)); err != nil {
		t.Fatal(err)
	}
	if err := e.Define(value.NSValue, "y", value.Pointer{Name: "x", NS: value.NSValue, Target: e}); err != nil {
		t.Fatal(err)
	}

	y, err := e.Get(value.NSValue, "y")
	if err != nil {
		t.Fatal(err)
	}
	if _, isPtr := y.(value.Pointer); isPtr {
		t.Fatalf("y stored as a Pointer, want an immediate dereferenced copy of x")
	}
	if got := value.Show(y); got != "5" {
		t.Errorf("y = %s, want 5", got)
	}

	// Mutating x afterward must not affect y: it was a snapshot, not an
	// alias, because Integer is not an object.
	if err := e.Define(value.NSValue, "x", value.NewInteger(42)); err != nil {
		t.Fatal(err)
	}
	y, err = e.Get(value.NSValue, "y")
	if err != nil {
		t.Fatal(err)
	}
	if got := value.Show(y); got != "5" {
		t.Errorf("y after redefining x = %s, want unchanged 5", got)
	}
}
