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

package builtin_test

import (
	"testing"

	"github.com/nakayama900/husk-scheme/internal/core/builtin"
	"github.com/nakayama900/husk-scheme/internal/core/value"
)

func primFn(t *testing.T, name string) *value.PrimFn {
	t.Helper()
	v, err := builtin.Get(value.NSValue, name)
	if err != nil {
		t.Fatalf("Get(%s) error: %v", name, err)
	}
	fn, ok := v.(*value.PrimFn)
	if !ok {
		t.Fatalf("Get(%s) = %T, want *value.PrimFn", name, v)
	}
	return fn
}

func TestArithmeticFold(t *testing.T) {
	got, err := primFn(t, "+").Fn(value.Args{value.NewInteger(1), value.NewInteger(2), value.NewInteger(3)})
	if err != nil {
		t.Fatal(err)
	}
	if value.Show(got) != "6" {
		t.Errorf("(+ 1 2 3) = %s, want 6", value.Show(got))
	}
}

func TestDivideByZeroExact(t *testing.T) {
	_, err := primFn(t, "/").Fn(value.Args{value.NewInteger(1), value.NewInteger(0)})
	if err == nil {
		t.Fatal("(/ 1 0) succeeded, want DivideByZero")
	}
}

func TestNumericComparisonAcrossRanks(t *testing.T) {
	got, err := primFn(t, "=").Fn(value.Args{value.NewInteger(1), value.Real(1.0)})
	if err != nil {
		t.Fatal(err)
	}
	if got != value.True {
		t.Errorf("(= 1 1.0) = %v, want #t", got)
	}
}

func TestVectorSetMutatesInPlace(t *testing.T) {
	v := value.NewVector(value.NewInteger(0), value.NewInteger(0))
	if _, err := primFn(t, "vector-set!").Fn(value.Args{v, value.NewInteger(1), value.NewInteger(9)}); err != nil {
		t.Fatal(err)
	}
	if value.Show(v) != "#(0 9)" {
		t.Errorf("vector after vector-set! = %s, want #(0 9)", value.Show(v))
	}
}

func TestConsOntoProperListStaysProper(t *testing.T) {
	got, err := primFn(t, "cons").Fn(value.Args{value.NewInteger(1), value.NewList(value.NewInteger(2))})
	if err != nil {
		t.Fatal(err)
	}
	if _, ok := got.(*value.List); !ok {
		t.Fatalf("cons onto a list = %T, want *value.List", got)
	}
	if value.Show(got) != "(1 2)" {
		t.Errorf("(cons 1 (list 2)) = %s, want (1 2)", value.Show(got))
	}
}

func TestUnregisteredNameIsUnboundVar(t *testing.T) {
	_, err := builtin.Get(value.NSValue, "no-such-primitive")
	if err == nil {
		t.Fatal("Get(no-such-primitive) succeeded, want UnboundVar")
	}
}
