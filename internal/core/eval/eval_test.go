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

package eval_test

import (
	"testing"

	"github.com/cockroachdb/apd/v3"

	"github.com/nakayama900/husk-scheme/internal/core/eval"
	"github.com/nakayama900/husk-scheme/internal/core/value"
)

func apdCtx() *apd.Context { return apd.BaseContext.WithPrecision(60) }

func numAdd(z, x, y *apd.Decimal) (apd.Condition, error) { return apdCtx().Add(z, x, y) }
func numSub(z, x, y *apd.Decimal) (apd.Condition, error) { return apdCtx().Sub(z, x, y) }

func newTestEnv() *value.Environment {
	e := value.Empty()
	must := func(err error) {
		if err != nil {
			panic(err)
		}
	}
	must(e.Define(value.NSValue, "+", &value.PrimFn{Name: "+", Fn: func(args value.Args) (value.Value, error) {
		acc := value.Value(value.NewInteger(0))
		for _, a := range args {
			var err error
			acc, err = value.Promote(acc, a, numAdd)
			if err != nil {
				return nil, err
			}
		}
		return acc, nil
	}}))
	must(e.Define(value.NSValue, "-", &value.PrimFn{Name: "-", Fn: func(args value.Args) (value.Value, error) {
		if len(args) != 2 {
			return nil, nil
		}
		return value.Promote(args[0], args[1], numSub)
	}}))
	must(e.Define(value.NSValue, "=", &value.PrimFn{Name: "=", Fn: func(args value.Args) (value.Value, error) {
		return value.Bool(value.Eqv(args[0], args[1])), nil
	}}))
	return e
}

// TestIfZeroIsTruthy covers the if special form with 0 as the test: only
// #f is false, so the consequent is taken.
func TestIfZeroIsTruthy(t *testing.T) {
	m := eval.New(nil)
	env := newTestEnv()
	form := value.NewList(value.Symbol("if"), value.NewInteger(0), value.NewString("zero-is-true"), value.NewString("unreachable"))
	got, err := m.Eval(form, env)
	if err != nil {
		t.Fatal(err)
	}
	if value.Show(got) != `"zero-is-true"` {
		t.Errorf("if with 0 as test = %s, want the consequent (0 is truthy)", value.Show(got))
	}
}

// TestDefineAndApplication covers define, lambda and ordinary application.
func TestDefineAndApplication(t *testing.T) {
	m := eval.New(nil)
	env := newTestEnv()
	if err := env.Define(value.NSValue, "*", &value.PrimFn{Name: "*", Fn: func(args value.Args) (value.Value, error) {
		acc := value.Value(value.NewInteger(1))
		for _, a := range args {
			var err error
			acc, err = value.Promote(acc, a, func(z, x, y *apd.Decimal) (apd.Condition, error) {
				return apdCtx().Mul(z, x, y)
			})
			if err != nil {
				return nil, err
			}
		}
		return acc, nil
	}}); err != nil {
		t.Fatal(err)
	}

	define := value.NewList(value.Symbol("define"),
		value.NewList(value.Symbol("square"), value.Symbol("x")),
		value.NewList(value.Symbol("*"), value.Symbol("x"), value.Symbol("x")))
	if _, err := m.Eval(define, env); err != nil {
		t.Fatal(err)
	}

	call := value.NewList(value.Symbol("square"), value.NewInteger(7))
	got, err := m.Eval(call, env)
	if err != nil {
		t.Fatal(err)
	}
	if value.Show(got) != "49" {
		t.Errorf("(square 7) = %s, want 49", value.Show(got))
	}
}

// TestTailCallDoesNotGrowContinuationChain is spec Testable Property P6: a
// self tail-recursive loop of N iterations must not fail or blow the Go
// stack for N much larger than any reasonable Go call-stack depth allows,
// because applyClosure reuses cont directly rather than wrapping it.
func TestTailCallDoesNotGrowContinuationChain(t *testing.T) {
	m := eval.New(nil)
	env := newTestEnv()

	// (define (count n acc) (if (= n 0) acc (count (- n 1) (+ acc 1))))
	countBody := value.NewList(value.Symbol("if"),
		value.NewList(value.Symbol("="), value.Symbol("n"), value.NewInteger(0)),
		value.Symbol("acc"),
		value.NewList(value.Symbol("count"),
			value.NewList(value.Symbol("-"), value.Symbol("n"), value.NewInteger(1)),
			value.NewList(value.Symbol("+"), value.Symbol("acc"), value.NewInteger(1))))
	define := value.NewList(value.Symbol("define"),
		value.NewList(value.Symbol("count"), value.Symbol("n"), value.Symbol("acc")),
		countBody)
	if _, err := m.Eval(define, env); err != nil {
		t.Fatal(err)
	}

	const n = 200000
	call := value.NewList(value.Symbol("count"), value.NewInteger(n), value.NewInteger(0))
	got, err := m.Eval(call, env)
	if err != nil {
		t.Fatal(err)
	}
	if value.Show(got) != "200000" {
		t.Errorf("(count %d 0) = %s, want %d", n, value.Show(got), n)
	}
}

// TestCallCCEscapes covers an escaping use of call/cc: invoking the
// captured continuation inside a sum abandons the remaining additions.
func TestCallCCEscapes(t *testing.T) {
	m := eval.New(nil)
	env := newTestEnv()

	// (+ 1 (call/cc (lambda (k) (+ 2 (k 10)))))  => 11
	form := value.NewList(value.Symbol("+"), value.NewInteger(1),
		value.NewList(value.Symbol("call/cc"),
			value.NewList(value.Symbol("lambda"), value.NewList(value.Symbol("k")),
				value.NewList(value.Symbol("+"), value.NewInteger(2),
					value.NewList(value.Symbol("k"), value.NewInteger(10))))))
	got, err := m.Eval(form, env)
	if err != nil {
		t.Fatal(err)
	}
	if value.Show(got) != "11" {
		t.Errorf("escaping call/cc sum = %s, want 11", value.Show(got))
	}
}

// TestCallCCReentryAfterReturn is spec section 8 scenario 3: a
// continuation captured inside one top-level evaluation is stashed in a
// variable and invoked from a later, independent top-level evaluation,
// after the call/cc that captured it has already returned.
func TestCallCCReentryAfterReturn(t *testing.T) {
	m := eval.New(nil)
	env := newTestEnv()

	// (define saved #f)
	// (+ 1 (call/cc (lambda (k) (set! saved k) 0)))  => 1, and stashes k
	if _, err := m.Eval(value.NewList(value.Symbol("define"), value.Symbol("saved"), value.False), env); err != nil {
		t.Fatal(err)
	}
	capture := value.NewList(value.Symbol("+"), value.NewInteger(1),
		value.NewList(value.Symbol("call/cc"),
			value.NewList(value.Symbol("lambda"), value.NewList(value.Symbol("k")),
				value.NewList(value.Symbol("begin"),
					value.NewList(value.Symbol("set!"), value.Symbol("saved"), value.Symbol("k")),
					value.NewInteger(0)))))
	got, err := m.Eval(capture, env)
	if err != nil {
		t.Fatal(err)
	}
	if value.Show(got) != "1" {
		t.Errorf("initial call/cc capture result = %s, want 1", value.Show(got))
	}

	// Later, unrelated top-level evaluation re-invokes the stashed
	// continuation with a different value.
	savedVal, err := env.Get(value.NSValue, "saved")
	if err != nil {
		t.Fatal(err)
	}
	cont, ok := savedVal.(*value.Continuation)
	if !ok {
		t.Fatalf("saved = %T, want *value.Continuation", savedVal)
	}
	resumed, err := m.Apply(env, cont, []value.Value{value.NewInteger(41)})
	if err != nil {
		t.Fatal(err)
	}
	if value.Show(resumed) != "42" {
		t.Errorf("resuming saved continuation with 41 = %s, want 42", value.Show(resumed))
	}
}

// TestArgumentEvaluationOrder is spec Testable Property P8: operands
// evaluate strictly left to right.
func TestArgumentEvaluationOrder(t *testing.T) {
	m := eval.New(nil)
	env := value.Empty()
	var order []string
	record := func(tag string) *value.PrimFn {
		return &value.PrimFn{Name: tag, Fn: func(value.Args) (value.Value, error) {
			order = append(order, tag)
			return value.NewInteger(0), nil
		}}
	}
	if err := env.Define(value.NSValue, "list", &value.PrimFn{Name: "list", Fn: func(args value.Args) (value.Value, error) {
		return value.NewList(args...), nil
	}}); err != nil {
		t.Fatal(err)
	}
	if err := env.Define(value.NSValue, "a", record("a")); err != nil {
		t.Fatal(err)
	}
	if err := env.Define(value.NSValue, "b", record("b")); err != nil {
		t.Fatal(err)
	}
	if err := env.Define(value.NSValue, "c", record("c")); err != nil {
		t.Fatal(err)
	}

	form := value.NewList(value.Symbol("list"),
		value.NewList(value.Symbol("a")),
		value.NewList(value.Symbol("b")),
		value.NewList(value.Symbol("c")))
	if _, err := m.Eval(form, env); err != nil {
		t.Fatal(err)
	}
	want := []string{"a", "b", "c"}
	if len(order) != len(want) {
		t.Fatalf("call order = %v, want %v", order, want)
	}
	for i := range want {
		if order[i] != want[i] {
			t.Errorf("call order = %v, want %v", order, want)
		}
	}
}

// TestQuoteAndQuasiquote covers quote (datum returned unevaluated) and a
// single level of quasiquote/unquote substitution.
func TestQuoteAndQuasiquote(t *testing.T) {
	m := eval.New(nil)
	env := newTestEnv()

	quoted := value.NewList(value.Symbol("quote"), value.NewList(value.Symbol("a"), value.Symbol("b")))
	got, err := m.Eval(quoted, env)
	if err != nil {
		t.Fatal(err)
	}
	if value.Show(got) != "(a b)" {
		t.Errorf("(quote (a b)) = %s, want (a b)", value.Show(got))
	}

	if err := env.Define(value.NSValue, "x", value.NewInteger(5)); err != nil {
		t.Fatal(err)
	}
	qq := value.NewList(value.Symbol("quasiquote"),
		value.NewList(value.Symbol("a"), value.NewList(value.Symbol("unquote"), value.Symbol("x")), value.Symbol("c")))
	got, err = m.Eval(qq, env)
	if err != nil {
		t.Fatal(err)
	}
	if value.Show(got) != "(a 5 c)" {
		t.Errorf("`(a ,x c) = %s, want (a 5 c)", value.Show(got))
	}
}

// TestUnboundVariableError covers the UnboundVar error path threading
// through the trampoline rather than panicking.
func TestUnboundVariableError(t *testing.T) {
	m := eval.New(nil)
	env := value.Empty()
	_, err := m.Eval(value.Symbol("nope"), env)
	if err == nil {
		t.Fatal("expected an UnboundVar error, got nil")
	}
}
