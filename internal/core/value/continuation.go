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

package value

// StepResult is what a CPSStep hands back to the trampoline (see
// internal/core/eval): either "evaluate Form under Env with Cont next"
// (the suspension-point transition of spec section 4.4) or "deliver Value
// now" (Done), or an error.
type StepResult struct {
	Form Value
	Env  *Environment
	Cont *Continuation

	Done  bool
	Value Value

	Err error
}

// EvalNext builds a StepResult that resumes evaluation at form under env
// with cont -- used by every special form's step closure to hand control
// to the next reduction, reusing cont directly (not wrapping it) when that
// next reduction is in tail position, per spec section 4.3's tail-call
// discipline.
func EvalNext(form Value, env *Environment, cont *Continuation) StepResult {
	return StepResult{Form: form, Env: env, Cont: cont}
}

// Deliver builds a StepResult that completes the current CPSStep with v;
// the trampoline bubbles v to the step's own continuation's Parent.
func Deliver(v Value) StepResult {
	return StepResult{Done: true, Value: v}
}

// DeliverTo builds a StepResult that delivers v directly to cont, whether
// it is returned from a reduction or from inside a CPSStep -- used for
// self-evaluating forms, symbol lookups, primitive results, and invoking a
// first-class continuation.
func DeliverTo(cont *Continuation, v Value) StepResult {
	return StepResult{Done: true, Value: v, Cont: cont}
}

// Fail builds a StepResult that aborts with err.
func Fail(err error) StepResult {
	return StepResult{Err: err}
}

// CPSStep is a host callable associated with a continuation: it is
// invoked each time a value flows through that continuation's suspension
// point (spec section 4.3's "CPS step function").
type CPSStep func(env *Environment, cont *Continuation, v Value) StepResult

// Continuation reifies a pending computation: the environment it resumes
// in, the residual body of forms still to evaluate in sequence, a parent
// continuation, and an optional CPS step invoked when a value arrives
// (spec section 4.3). The original Haskell husk-scheme's obsolete
// frameFunc/frameEvaledArgs fields (spec section 9's second Open Question) are intentionally absent.
type Continuation struct {
	Env    *Environment
	Body   []Value
	Parent *Continuation
	Step   CPSStep
}

func (*Continuation) Kind() Kind { return KindContinuation }

// NullCont returns the terminal continuation: empty body, no step. Values
// delivered to it complete evaluation at the top level.
func NullCont(env *Environment) *Continuation {
	return &Continuation{Env: env}
}

// MakeCPS returns an intermediate continuation frame that runs step each
// time a value arrives at it.
func MakeCPS(env *Environment, parent *Continuation, step CPSStep) *Continuation {
	return &Continuation{Env: env, Parent: parent, Step: step}
}

// IsNull reports whether cont is a terminal continuation (no step, no
// pending body): delivering to it ends evaluation.
func (c *Continuation) IsNull() bool {
	return c == nil || (c.Step == nil && len(c.Body) == 0 && c.Parent == nil)
}
