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

func vectorIndex(v *value.Vector, idx value.Value) (int, error) {
	i, ok := idx.(*value.Integer)
	if !ok {
		return 0, herr.ErrTypeMismatch("integer index", idx)
	}
	n := int(i.X.Int64())
	if n < 0 || n >= len(v.Elems) {
		return 0, herr.ErrDefault("vector index %d out of range [0,%d)", n, len(v.Elems))
	}
	return n, nil
}

func init() {
	Register(value.NSValue, "vector", &value.PrimFn{Name: "vector", Fn: func(args value.Args) (value.Value, error) {
		return &value.Vector{Elems: append([]value.Value{}, args...)}, nil
	}})

	Register(value.NSValue, "make-vector", &value.PrimFn{Name: "make-vector", Fn: func(args value.Args) (value.Value, error) {
		if len(args) < 1 || len(args) > 2 {
			return nil, herr.ErrNumArgs(2, len(args))
		}
		n, ok := args[0].(*value.Integer)
		if !ok {
			return nil, herr.ErrTypeMismatch("integer length", args[0])
		}
		var fill value.Value = value.Unspecified
		if len(args) == 2 {
			fill = args[1]
		}
		elems := make([]value.Value, n.X.Int64())
		for i := range elems {
			elems[i] = fill
		}
		return &value.Vector{Elems: elems}, nil
	}})

	Register(value.NSValue, "vector-ref", &value.PrimFn{Name: "vector-ref", Fn: func(args value.Args) (value.Value, error) {
		if len(args) != 2 {
			return nil, herr.ErrNumArgs(2, len(args))
		}
		v, ok := args[0].(*value.Vector)
		if !ok {
			return nil, herr.ErrTypeMismatch("vector", args[0])
		}
		i, err := vectorIndex(v, args[1])
		if err != nil {
			return nil, err
		}
		return v.Elems[i], nil
	}})

	Register(value.NSValue, "vector-set!", &value.PrimFn{Name: "vector-set!", Fn: func(args value.Args) (value.Value, error) {
		if len(args) != 3 {
			return nil, herr.ErrNumArgs(3, len(args))
		}
		v, ok := args[0].(*value.Vector)
		if !ok {
			return nil, herr.ErrTypeMismatch("vector", args[0])
		}
		i, err := vectorIndex(v, args[1])
		if err != nil {
			return nil, err
		}
		v.Elems[i] = args[2]
		return value.Unspecified, nil
	}})

	Register(value.NSValue, "vector-length", &value.PrimFn{Name: "vector-length", Fn: func(args value.Args) (value.Value, error) {
		if len(args) != 1 {
			return nil, herr.ErrNumArgs(1, len(args))
		}
		v, ok := args[0].(*value.Vector)
		if !ok {
			return nil, herr.ErrTypeMismatch("vector", args[0])
		}
		return value.NewInteger(int64(len(v.Elems))), nil
	}})

	Register(value.NSValue, "vector->list", &value.PrimFn{Name: "vector->list", Fn: func(args value.Args) (value.Value, error) {
		if len(args) != 1 {
			return nil, herr.ErrNumArgs(1, len(args))
		}
		v, ok := args[0].(*value.Vector)
		if !ok {
			return nil, herr.ErrTypeMismatch("vector", args[0])
		}
		return &value.List{Elems: append([]value.Value{}, v.Elems...)}, nil
	}})

	Register(value.NSValue, "list->vector", &value.PrimFn{Name: "list->vector", Fn: func(args value.Args) (value.Value, error) {
		if len(args) != 1 {
			return nil, herr.ErrNumArgs(1, len(args))
		}
		l, ok := args[0].(*value.List)
		if !ok {
			return nil, herr.ErrTypeMismatch("list", args[0])
		}
		return &value.Vector{Elems: append([]value.Value{}, l.Elems...)}, nil
	}})
}
