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

// Package eval is the continuation-threaded evaluation engine (X): given a
// form, a lexical Environment, and a Continuation, it runs spec section
// 4.3/4.4's reduction state machine to completion without ever growing the
// host call stack in proportion to Scheme-level recursion, so that
// arbitrarily long tail loops (spec Testable Property P6) and first-class,
// re-invokable continuations (P7) are both representable purely as data.
package eval

import (
	"github.com/hashicorp/go-hclog"

	"github.com/nakayama900/husk-scheme/internal/core/value"
)

// Expander delegates macro expansion to the external collaborator named in
// spec section 4.3 ("Macro use ... delegate to the external macro
// expander"); the core ships no expander of its own.
type Expander func(form value.Value, env *value.Environment) (value.Value, error)

// Machine is the evaluator's long-lived handle: a logger for optional
// per-reduction tracing (internal/core/eval's analogue of the teacher's
// adt.OpContext.Logf, but built on github.com/hashicorp/go-hclog rather
// than stdlib log -- see DESIGN.md) and an optional macro Expander.
type Machine struct {
	Log     hclog.Logger
	Expand  Expander
	traceOn bool
}

// New returns a Machine. A nil logger gets a no-op logger, matching
// hclog.NewNullLogger()'s role as nomad's fallback when no sub-logger was
// configured for a component.
func New(log hclog.Logger) *Machine {
	if log == nil {
		log = hclog.NewNullLogger()
	}
	return &Machine{Log: log}
}

// SetTrace toggles per-reduction-step trace logging.
func (m *Machine) SetTrace(on bool) { m.traceOn = on }

func (m *Machine) trace(format string, args ...interface{}) {
	if m.traceOn {
		m.Log.Trace(format, args...)
	}
}

// instr is one pending transition of spec section 4.4's state machine: it
// is either a reduction ("evaluate form under env with cont") or a
// delivery ("hand value to cont"). The run loop below processes a stream
// of these in a single Go stack frame; constructing one never recurses.
type instr struct {
	reduce bool

	form value.Value
	env  *value.Environment
	cont *value.Continuation

	val value.Value
}

func reduceInstr(form value.Value, env *value.Environment, cont *value.Continuation) instr {
	return instr{reduce: true, form: form, env: env, cont: cont}
}

func deliverInstr(cont *value.Continuation, v value.Value) instr {
	return instr{reduce: false, cont: cont, val: v}
}

// run drives the trampoline to completion: spec section 4.4's
// EVAL/DELIVER/DONE/FAILED states, as an explicit loop rather than mutual
// host recursion.
func (m *Machine) run(start instr) (value.Value, error) {
	st := start
	for {
		var next instr
		var err error
		if st.reduce {
			if m.traceOn {
				m.trace("reduce", "form", value.Show(st.form))
			}
			next, err = stepResultToInstr(m.reduceForm(st.form, st.env, st.cont))
		} else {
			var done bool
			var result value.Value
			next, done, result, err = m.deliver(st.cont, st.val)
			if done {
				return result, err
			}
		}
		if err != nil {
			return nil, err
		}
		st = next
	}
}

// deliver implements the DELIVER transitions of spec section 4.4: running
// an intermediate continuation's step, advancing through a plain
// begin/body continuation's residual forms one at a time (never wrapping a
// new continuation for the last form, so proper tail calls cost nothing),
// or completing at the terminal (null) continuation.
func (m *Machine) deliver(cont *value.Continuation, v value.Value) (next instr, done bool, result value.Value, err error) {
	if cont.IsNull() {
		return instr{}, true, v, nil
	}
	if cont.Step != nil {
		res := cont.Step(cont.Env, cont, v)
		if res.Err != nil {
			return instr{}, false, nil, res.Err
		}
		if res.Done {
			target := cont.Parent
			if res.Cont != nil {
				target = res.Cont
			}
			return deliverInstr(target, res.Value), false, nil, nil
		}
		return reduceInstr(res.Form, res.Env, res.Cont), false, nil, nil
	}
	if len(cont.Body) > 0 {
		form := cont.Body[0]
		rest := cont.Body[1:]
		nextCont := cont.Parent
		if len(rest) > 0 {
			nextCont = &value.Continuation{Env: cont.Env, Body: rest, Parent: cont.Parent}
		}
		return reduceInstr(form, cont.Env, nextCont), false, nil, nil
	}
	return deliverInstr(cont.Parent, v), false, nil, nil
}

// stepResultToInstr converts a value.StepResult (produced by a CPSStep
// closure written in eval.go) into the next pending instr.
func stepResultToInstr(res value.StepResult) (instr, error) {
	if res.Err != nil {
		return instr{}, res.Err
	}
	if res.Done {
		return deliverInstr(res.Cont, res.Value), nil
	}
	return reduceInstr(res.Form, res.Env, res.Cont), nil
}
