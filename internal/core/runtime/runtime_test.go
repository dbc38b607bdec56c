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

package runtime_test

import (
	"testing"

	"github.com/nakayama900/husk-scheme/internal/core/runtime"
	"github.com/nakayama900/husk-scheme/internal/core/value"
)

func TestLoadPrimitivesThenEval(t *testing.T) {
	r := runtime.EmptyEnv()
	if err := r.LoadPrimitives(); err != nil {
		t.Fatal(err)
	}
	form := value.NewList(value.Symbol("+"), value.NewInteger(1), value.NewInteger(2))
	got, err := r.Eval(form)
	if err != nil {
		t.Fatal(err)
	}
	if value.Show(got) != "3" {
		t.Errorf("(+ 1 2) = %s, want 3", value.Show(got))
	}
}

func TestLoadPrimitivesTwiceReportsCollisions(t *testing.T) {
	r := runtime.EmptyEnv()
	if err := r.LoadPrimitives(); err != nil {
		t.Fatal(err)
	}
	if err := r.LoadPrimitives(); err == nil {
		t.Fatal("second LoadPrimitives() succeeded, want collision errors")
	}
}

func TestLoadFormsTallies(t *testing.T) {
	r := runtime.EmptyEnv()
	if err := r.LoadPrimitives(); err != nil {
		t.Fatal(err)
	}
	forms := []value.Value{
		value.NewList(value.Symbol("+"), value.NewInteger(1), value.NewInteger(1)),
		value.Symbol("undefined-variable"),
		value.NewList(value.Symbol("*"), value.NewInteger(3), value.NewInteger(3)),
	}
	summary := r.LoadForms(forms)
	if summary.Passed != 2 || summary.Failed != 1 {
		t.Errorf("Summary = {Passed:%d Failed:%d}, want {2 1}", summary.Passed, summary.Failed)
	}
	if value.Show(summary.Results[2].Value) != "9" {
		t.Errorf("third form result = %s, want 9", value.Show(summary.Results[2].Value))
	}
}

// TestVectorSetThroughAliasedBindingMutatesOriginal is spec section 8
// scenario 4, driven through the real evaluator path end to end (define,
// alias, vector-set!, read back) rather than at the PrimFn.Fn or
// Environment level directly -- the path that actually exercises
// derefArgs/DerefDeep (internal/core/eval/apply.go) ahead of the
// vector-set! primitive's in-place mutation (spec Testable Property P5).
func TestVectorSetThroughAliasedBindingMutatesOriginal(t *testing.T) {
	r := runtime.EmptyEnv()
	if err := r.LoadPrimitives(); err != nil {
		t.Fatal(err)
	}
	forms, err := runtime.ReadForms(`
		(define v (make-vector 3 0))
		(define w v)
		(vector-set! w 1 42)
		v
	`)
	if err != nil {
		t.Fatal(err)
	}
	summary := r.LoadForms(forms)
	if summary.Failed != 0 {
		t.Fatalf("Summary = %+v, want no failures", summary)
	}
	got := summary.Results[len(summary.Results)-1].Value
	if want := "#(0 42 0)"; value.Show(got) != want {
		t.Errorf("v after (vector-set! w 1 42) = %s, want %s", value.Show(got), want)
	}
}

func TestApplyClosureDirectly(t *testing.T) {
	r := runtime.EmptyEnv()
	if err := r.LoadPrimitives(); err != nil {
		t.Fatal(err)
	}
	lambda := value.NewList(value.Symbol("lambda"), value.NewList(value.Symbol("x"), value.Symbol("y")),
		value.NewList(value.Symbol("+"), value.Symbol("x"), value.Symbol("y")))
	fn, err := r.Eval(lambda)
	if err != nil {
		t.Fatal(err)
	}
	got, err := r.Apply(fn, []value.Value{value.NewInteger(4), value.NewInteger(5)})
	if err != nil {
		t.Fatal(err)
	}
	if value.Show(got) != "9" {
		t.Errorf("Apply(lambda, 4, 5) = %s, want 9", value.Show(got))
	}
}
