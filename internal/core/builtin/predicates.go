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
	"github.com/nakayama900/husk-scheme/internal/core/herr"
	"github.com/nakayama900/husk-scheme/internal/core/value"
)

func typePredicate(check func(value.Value) bool) func(value.Args) (value.Value, error) {
	return func(args value.Args) (value.Value, error) {
		if len(args) != 1 {
			return nil, herr.ErrNumArgs(1, len(args))
		}
		return value.Bool(check(args[0])), nil
	}
}

func init() {
	Register(value.NSValue, "eq?", &value.PrimFn{Name: "eq?", Fn: func(args value.Args) (value.Value, error) {
		if len(args) != 2 {
			return nil, herr.ErrNumArgs(2, len(args))
		}
		return value.Bool(value.Eqv(args[0], args[1])), nil
	}})
	Register(value.NSValue, "eqv?", &value.PrimFn{Name: "eqv?", Fn: func(args value.Args) (value.Value, error) {
		if len(args) != 2 {
			return nil, herr.ErrNumArgs(2, len(args))
		}
		return value.Bool(value.Eqv(args[0], args[1])), nil
	}})
	Register(value.NSValue, "equal?", &value.PrimFn{Name: "equal?", Fn: func(args value.Args) (value.Value, error) {
		if len(args) != 2 {
			return nil, herr.ErrNumArgs(2, len(args))
		}
		return value.Bool(value.Equal(args[0], args[1])), nil
	}})

	Register(value.NSValue, "not", &value.PrimFn{Name: "not", Fn: func(args value.Args) (value.Value, error) {
		if len(args) != 1 {
			return nil, herr.ErrNumArgs(1, len(args))
		}
		return value.Bool(!value.IsTruthy(args[0])), nil
	}})

	Register(value.NSValue, "symbol?", &value.PrimFn{Name: "symbol?", Fn: typePredicate(func(v value.Value) bool {
		_, ok := v.(value.Symbol)
		return ok
	})})
	Register(value.NSValue, "string?", &value.PrimFn{Name: "string?", Fn: typePredicate(func(v value.Value) bool {
		_, ok := v.(*value.String)
		return ok
	})})
	Register(value.NSValue, "boolean?", &value.PrimFn{Name: "boolean?", Fn: typePredicate(func(v value.Value) bool {
		_, ok := v.(value.Bool)
		return ok
	})})
	Register(value.NSValue, "char?", &value.PrimFn{Name: "char?", Fn: typePredicate(func(v value.Value) bool {
		_, ok := v.(value.Char)
		return ok
	})})
	Register(value.NSValue, "vector?", &value.PrimFn{Name: "vector?", Fn: typePredicate(func(v value.Value) bool {
		_, ok := v.(*value.Vector)
		return ok
	})})
	Register(value.NSValue, "procedure?", &value.PrimFn{Name: "procedure?", Fn: typePredicate(func(v value.Value) bool {
		switch v.(type) {
		case *value.PrimFn, *value.IOFn, *value.Closure, *value.Continuation:
			return true
		default:
			return false
		}
	})})
	Register(value.NSValue, "number?", &value.PrimFn{Name: "number?", Fn: typePredicate(func(v value.Value) bool {
		switch v.(type) {
		case *value.Integer, *value.Rational, value.Real, value.Complex:
			return true
		default:
			return false
		}
	})})
	Register(value.NSValue, "integer?", &value.PrimFn{Name: "integer?", Fn: typePredicate(func(v value.Value) bool {
		_, ok := v.(*value.Integer)
		return ok
	})})
	Register(value.NSValue, "zero?", &value.PrimFn{Name: "zero?", Fn: typePredicate(func(v value.Value) bool {
		return numSign(v) == 0
	})})
}
