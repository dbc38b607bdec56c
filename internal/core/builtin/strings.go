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

func init() {
	Register(value.NSValue, "string-length", &value.PrimFn{Name: "string-length", Fn: func(args value.Args) (value.Value, error) {
		if len(args) != 1 {
			return nil, herr.ErrNumArgs(1, len(args))
		}
		s, ok := args[0].(*value.String)
		if !ok {
			return nil, herr.ErrTypeMismatch("string", args[0])
		}
		return value.NewInteger(int64(len(s.Chars))), nil
	}})

	Register(value.NSValue, "string-ref", &value.PrimFn{Name: "string-ref", Fn: func(args value.Args) (value.Value, error) {
		if len(args) != 2 {
			return nil, herr.ErrNumArgs(2, len(args))
		}
		s, ok := args[0].(*value.String)
		if !ok {
			return nil, herr.ErrTypeMismatch("string", args[0])
		}
		i, ok := args[1].(*value.Integer)
		if !ok {
			return nil, herr.ErrTypeMismatch("integer index", args[1])
		}
		n := int(i.X.Int64())
		if n < 0 || n >= len(s.Chars) {
			return nil, herr.ErrDefault("string index %d out of range [0,%d)", n, len(s.Chars))
		}
		return value.Char(s.Chars[n]), nil
	}})

	Register(value.NSValue, "string-set!", &value.PrimFn{Name: "string-set!", Fn: func(args value.Args) (value.Value, error) {
		if len(args) != 3 {
			return nil, herr.ErrNumArgs(3, len(args))
		}
		s, ok := args[0].(*value.String)
		if !ok {
			return nil, herr.ErrTypeMismatch("string", args[0])
		}
		i, ok := args[1].(*value.Integer)
		if !ok {
			return nil, herr.ErrTypeMismatch("integer index", args[1])
		}
		c, ok := args[2].(value.Char)
		if !ok {
			return nil, herr.ErrTypeMismatch("char", args[2])
		}
		n := int(i.X.Int64())
		if n < 0 || n >= len(s.Chars) {
			return nil, herr.ErrDefault("string index %d out of range [0,%d)", n, len(s.Chars))
		}
		s.Chars[n] = rune(c)
		return value.Unspecified, nil
	}})

	Register(value.NSValue, "string-append", &value.PrimFn{Name: "string-append", Fn: func(args value.Args) (value.Value, error) {
		var out []rune
		for _, a := range args {
			s, ok := a.(*value.String)
			if !ok {
				return nil, herr.ErrTypeMismatch("string", a)
			}
			out = append(out, s.Chars...)
		}
		return &value.String{Chars: out}, nil
	}})

	Register(value.NSValue, "string->symbol", &value.PrimFn{Name: "string->symbol", Fn: func(args value.Args) (value.Value, error) {
		if len(args) != 1 {
			return nil, herr.ErrNumArgs(1, len(args))
		}
		s, ok := args[0].(*value.String)
		if !ok {
			return nil, herr.ErrTypeMismatch("string", args[0])
		}
		return value.Symbol(s.String()), nil
	}})

	Register(value.NSValue, "symbol->string", &value.PrimFn{Name: "symbol->string", Fn: func(args value.Args) (value.Value, error) {
		if len(args) != 1 {
			return nil, herr.ErrNumArgs(1, len(args))
		}
		sym, ok := args[0].(value.Symbol)
		if !ok {
			return nil, herr.ErrTypeMismatch("symbol", args[0])
		}
		return value.NewString(string(sym)), nil
	}})
}
