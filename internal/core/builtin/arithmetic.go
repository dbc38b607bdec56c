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

package builtin

import (
	"github.com/cockroachdb/apd/v3"

	"github.com/nakayama900/husk-scheme/internal/core/herr"
	"github.com/nakayama900/husk-scheme/internal/core/value"
)

var numCtx = apd.BaseContext.WithPrecision(60)

func numAdd(z, x, y *apd.Decimal) (apd.Condition, error) { return numCtx.Add(z, x, y) }
func numSub(z, x, y *apd.Decimal) (apd.Condition, error) { return numCtx.Sub(z, x, y) }
func numMul(z, x, y *apd.Decimal) (apd.Condition, error) { return numCtx.Mul(z, x, y) }
func numQuo(z, x, y *apd.Decimal) (apd.Condition, error) { return numCtx.Quo(z, x, y) }

// fold applies value.Promote pairwise over args using op, seeded with
// identity, the numeric tower's generalization of the teacher's
// arithmetic binop fold over apd values.
func fold(identity value.Value, op value.NumFunc) func(value.Args) (value.Value, error) {
	return func(args value.Args) (value.Value, error) {
		acc := identity
		for _, a := range args {
			var err error
			acc, err = value.Promote(acc, a, op)
			if err != nil {
				return nil, err
			}
		}
		return acc, nil
	}
}

func init() {
	Register(value.NSValue, "+", &value.PrimFn{Name: "+", Fn: fold(value.NewInteger(0), numAdd)})
	Register(value.NSValue, "*", &value.PrimFn{Name: "*", Fn: fold(value.NewInteger(1), numMul)})

	Register(value.NSValue, "-", &value.PrimFn{Name: "-", Fn: func(args value.Args) (value.Value, error) {
		if len(args) == 0 {
			return nil, herr.ErrNumArgsAtLeast(1, 0)
		}
		if len(args) == 1 {
			return value.Promote(value.NewInteger(0), args[0], numSub)
		}
		acc := args[0]
		for _, a := range args[1:] {
			var err error
			acc, err = value.Promote(acc, a, numSub)
			if err != nil {
				return nil, err
			}
		}
		return acc, nil
	}})

	Register(value.NSValue, "/", &value.PrimFn{Name: "/", Fn: func(args value.Args) (value.Value, error) {
		if len(args) == 0 {
			return nil, herr.ErrNumArgsAtLeast(1, 0)
		}
		dividend := value.Value(value.NewInteger(1))
		divisors := args
		if len(args) > 1 {
			dividend = args[0]
			divisors = args[1:]
		}
		acc := dividend
		for _, d := range divisors {
			if value.DivideExact(d) {
				return nil, herr.ErrDivideByZero()
			}
			var err error
			acc, err = value.Promote(acc, d, numQuo)
			if err != nil {
				return nil, err
			}
		}
		return acc, nil
	}})

	Register(value.NSValue, "=", &value.PrimFn{Name: "=", Fn: numCompareAll(func(c int) bool { return c == 0 })})
	Register(value.NSValue, "<", &value.PrimFn{Name: "<", Fn: numCompareAll(func(c int) bool { return c < 0 })})
	Register(value.NSValue, ">", &value.PrimFn{Name: ">", Fn: numCompareAll(func(c int) bool { return c > 0 })})
	Register(value.NSValue, "<=", &value.PrimFn{Name: "<=", Fn: numCompareAll(func(c int) bool { return c <= 0 })})
	Register(value.NSValue, ">=", &value.PrimFn{Name: ">=", Fn: numCompareAll(func(c int) bool { return c >= 0 })})
}

// numCompareAll builds a variadic numeric comparison primitive: every
// adjacent pair in args is promoted to a common rank and subtracted, so
// that e.g. (= 1 1.0) compares numeric value rather than falling back to
// value.Compare's between-variant tag order (which treats Integer and Real
// as different kinds entirely, wrong for numeric predicates).
func numCompareAll(pred func(int) bool) func(value.Args) (value.Value, error) {
	return func(args value.Args) (value.Value, error) {
		for i := 0; i+1 < len(args); i++ {
			diff, err := value.Promote(args[i], args[i+1], numSub)
			if err != nil {
				return nil, err
			}
			if !pred(numSign(diff)) {
				return value.False, nil
			}
		}
		return value.True, nil
	}
}

func numSign(v value.Value) int {
	switch x := v.(type) {
	case *value.Integer:
		return x.X.Sign()
	case *value.Rational:
		return x.X.Sign()
	case value.Real:
		switch {
		case x < 0:
			return -1
		case x > 0:
			return 1
		default:
			return 0
		}
	default:
		return 0
	}
}
