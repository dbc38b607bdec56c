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

package eval

import (
	"github.com/nakayama900/husk-scheme/internal/core/herr"
	"github.com/nakayama900/husk-scheme/internal/core/value"
)

// Apply is the public counterpart of Eval (spec section 6.1): applies a
// procedure value to already-evaluated arguments, from outside any running
// reduction (a fresh null continuation at the call's own environment).
func (m *Machine) Apply(env *value.Environment, op value.Value, args []value.Value) (value.Value, error) {
	cont := value.NullCont(env)
	next, err := stepResultToInstr(m.apply(op, args, cont))
	if err != nil {
		return nil, err
	}
	return m.run(next)
}

// apply is the APPLY transition of spec section 4.3: it dispatches on the
// operator's runtime kind and, for a Closure, tail-evaluates its body by
// reusing cont directly -- the mechanism that keeps an arbitrarily long
// chain of tail calls from growing either the Go stack or the Continuation
// chain (spec Testable Property P6).
func (m *Machine) apply(op value.Value, args []value.Value, cont *value.Continuation) value.StepResult {
	switch fn := op.(type) {
	case *value.PrimFn:
		dargs, err := derefArgs(args)
		if err != nil {
			return value.Fail(err)
		}
		result, err := fn.Fn(dargs)
		if err != nil {
			return value.Fail(err)
		}
		return value.DeliverTo(cont, result)

	case *value.IOFn:
		dargs, err := derefArgs(args)
		if err != nil {
			return value.Fail(err)
		}
		result, err := fn.Fn(dargs)
		if err != nil {
			return value.Fail(err)
		}
		return value.DeliverTo(cont, result)

	case *value.Closure:
		return m.applyClosure(fn, args, cont)

	case *value.Continuation:
		// Invoking a first-class continuation discards cont (the
		// continuation of the call/cc-application site, not the one being
		// invoked) and resumes directly at fn, wherever fn's dynamic
		// extent actually is -- including one that already returned.
		var v value.Value = value.Unspecified
		switch len(args) {
		case 0:
		case 1:
			v = args[0]
		default:
			v = value.NewList(args...)
		}
		return value.DeliverTo(fn, v)

	default:
		return value.Fail(herr.ErrNotFunction("not a procedure", value.Show(op)))
	}
}

func derefArgs(args []value.Value) (value.Args, error) {
	out := make(value.Args, len(args))
	for i, a := range args {
		d, err := value.DerefDeep(a)
		if err != nil {
			return nil, err
		}
		out[i] = d
	}
	return out, nil
}

// applyClosure binds args to fn's formal parameters in a fresh frame
// extending fn.Captured and tail-evaluates the body, reusing cont directly.
func (m *Machine) applyClosure(fn *value.Closure, args []value.Value, cont *value.Continuation) value.StepResult {
	nparams := len(fn.Params)
	if fn.Rest == nil {
		if len(args) != nparams {
			return value.Fail(herr.ErrNumArgs(nparams, len(args)))
		}
	} else if len(args) < nparams {
		return value.Fail(herr.ErrNumArgsAtLeast(nparams, len(args)))
	}

	entries := make([]value.Entry, 0, nparams+1)
	for i, p := range fn.Params {
		entries = append(entries, value.Entry{NS: value.NSValue, Name: string(p), V: args[i]})
	}
	if fn.Rest != nil {
		entries = append(entries, value.Entry{NS: value.NSValue, Name: string(*fn.Rest), V: value.NewList(args[nparams:]...)})
	}
	callEnv := value.Extend(fn.Captured, entries...)
	return evalBody(fn.Body, callEnv, cont)
}
