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
	Register(value.NSValue, "cons", &value.PrimFn{Name: "cons", Fn: func(args value.Args) (value.Value, error) {
		if len(args) != 2 {
			return nil, herr.ErrNumArgs(2, len(args))
		}
		if tail, ok := args[1].(*value.List); ok {
			elems := make([]value.Value, 0, len(tail.Elems)+1)
			elems = append(elems, args[0])
			elems = append(elems, tail.Elems...)
			return &value.List{Elems: elems}, nil
		}
		return &value.Pair{Head: []value.Value{args[0]}, Tail: args[1]}, nil
	}})

	Register(value.NSValue, "car", &value.PrimFn{Name: "car", Fn: func(args value.Args) (value.Value, error) {
		if len(args) != 1 {
			return nil, herr.ErrNumArgs(1, len(args))
		}
		switch x := args[0].(type) {
		case *value.List:
			if len(x.Elems) == 0 {
				return nil, herr.ErrTypeMismatch("pair", x)
			}
			return x.Elems[0], nil
		case *value.Pair:
			return x.Head[0], nil
		default:
			return nil, herr.ErrTypeMismatch("pair", x)
		}
	}})

	Register(value.NSValue, "cdr", &value.PrimFn{Name: "cdr", Fn: func(args value.Args) (value.Value, error) {
		if len(args) != 1 {
			return nil, herr.ErrNumArgs(1, len(args))
		}
		switch x := args[0].(type) {
		case *value.List:
			if len(x.Elems) == 0 {
				return nil, herr.ErrTypeMismatch("pair", x)
			}
			return &value.List{Elems: x.Elems[1:]}, nil
		case *value.Pair:
			if len(x.Head) == 1 {
				return x.Tail, nil
			}
			return &value.Pair{Head: x.Head[1:], Tail: x.Tail}, nil
		default:
			return nil, herr.ErrTypeMismatch("pair", x)
		}
	}})

	Register(value.NSValue, "list", &value.PrimFn{Name: "list", Fn: func(args value.Args) (value.Value, error) {
		return &value.List{Elems: append([]value.Value{}, args...)}, nil
	}})

	Register(value.NSValue, "length", &value.PrimFn{Name: "length", Fn: func(args value.Args) (value.Value, error) {
		if len(args) != 1 {
			return nil, herr.ErrNumArgs(1, len(args))
		}
		l, ok := args[0].(*value.List)
		if !ok {
			return nil, herr.ErrTypeMismatch("list", args[0])
		}
		return value.NewInteger(int64(l.Len())), nil
	}})

	Register(value.NSValue, "append", &value.PrimFn{Name: "append", Fn: func(args value.Args) (value.Value, error) {
		var elems []value.Value
		for _, a := range args {
			l, ok := a.(*value.List)
			if !ok {
				return nil, herr.ErrTypeMismatch("list", a)
			}
			elems = append(elems, l.Elems...)
		}
		return &value.List{Elems: elems}, nil
	}})

	Register(value.NSValue, "reverse", &value.PrimFn{Name: "reverse", Fn: func(args value.Args) (value.Value, error) {
		if len(args) != 1 {
			return nil, herr.ErrNumArgs(1, len(args))
		}
		l, ok := args[0].(*value.List)
		if !ok {
			return nil, herr.ErrTypeMismatch("list", args[0])
		}
		out := make([]value.Value, len(l.Elems))
		for i, e := range l.Elems {
			out[len(out)-1-i] = e
		}
		return &value.List{Elems: out}, nil
	}})

	Register(value.NSValue, "null?", &value.PrimFn{Name: "null?", Fn: func(args value.Args) (value.Value, error) {
		if len(args) != 1 {
			return nil, herr.ErrNumArgs(1, len(args))
		}
		l, ok := args[0].(*value.List)
		return value.Bool(ok && l.Len() == 0), nil
	}})

	Register(value.NSValue, "pair?", &value.PrimFn{Name: "pair?", Fn: func(args value.Args) (value.Value, error) {
		if len(args) != 1 {
			return nil, herr.ErrNumArgs(1, len(args))
		}
		switch x := args[0].(type) {
		case *value.List:
			return value.Bool(x.Len() > 0), nil
		case *value.Pair:
			return value.True, nil
		default:
			return value.False, nil
		}
	}})

	Register(value.NSValue, "list?", &value.PrimFn{Name: "list?", Fn: func(args value.Args) (value.Value, error) {
		if len(args) != 1 {
			return nil, herr.ErrNumArgs(1, len(args))
		}
		_, ok := args[0].(*value.List)
		return value.Bool(ok), nil
	}})
}
