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

// Eval runs form to completion under env, starting at the terminal
// continuation: the public entry point spec section 6.1 names.
func (m *Machine) Eval(form value.Value, env *value.Environment) (value.Value, error) {
	return m.run(reduceInstr(form, env, value.NullCont(env)))
}

// reduceForm is the EVAL transition of spec section 4.4: it classifies
// form and produces the next StepResult, never recursing into itself or
// into m.run -- every suspension point is reified as data and handed back
// to the trampoline.
func (m *Machine) reduceForm(form value.Value, env *value.Environment, cont *value.Continuation) value.StepResult {
	switch f := form.(type) {
	case value.Symbol:
		return m.reduceSymbol(f, env, cont)
	case *value.List:
		return m.reduceList(f, env, cont)
	default:
		// Self-evaluating: numbers, strings, chars, booleans, vectors,
		// hash tables, procedures, ports, the unspecified value.
		return value.DeliverTo(cont, form)
	}
}

func (m *Machine) reduceSymbol(sym value.Symbol, env *value.Environment, cont *value.Continuation) value.StepResult {
	v, err := env.Get(value.NSValue, string(sym))
	if err != nil {
		return value.Fail(err)
	}
	v, err = value.Deref(v)
	if err != nil {
		return value.Fail(err)
	}
	return value.DeliverTo(cont, v)
}

func (m *Machine) reduceList(f *value.List, env *value.Environment, cont *value.Continuation) value.StepResult {
	if f.Len() == 0 {
		return value.DeliverTo(cont, f)
	}
	if sym, ok := f.Elems[0].(value.Symbol); ok {
		if m.Expand != nil && env.IsRecBound(value.NSMacro, string(sym)) {
			expanded, err := m.Expand(f, env)
			if err != nil {
				return value.Fail(err)
			}
			return value.EvalNext(expanded, env, cont)
		}
		switch sym {
		case "quote":
			return m.evalQuote(f, cont)
		case "quasiquote":
			return m.evalQuasiquote(f, env, cont)
		case "if":
			return m.evalIf(f, env, cont)
		case "set!":
			return m.evalSet(f, env, cont)
		case "define":
			return m.evalDefine(f, env, cont)
		case "lambda":
			return m.evalLambda(f, env, cont)
		case "begin":
			return evalBody(f.Elems[1:], env, cont)
		case "call/cc", "call-with-current-continuation":
			return m.evalCallCC(f, env, cont)
		}
	}
	return m.evalApplication(f, env, cont)
}

// evalQuote implements (quote datum): the datum is handed back unevaluated.
func (m *Machine) evalQuote(f *value.List, cont *value.Continuation) value.StepResult {
	if len(f.Elems) != 2 {
		return value.Fail(herr.ErrBadSpecialForm("quote takes exactly one operand", f))
	}
	return value.DeliverTo(cont, f.Elems[1])
}

// evalIf implements the three/four-element if form. The branch not taken
// is never evaluated; the branch taken reuses cont directly, so `if` costs
// nothing toward tail-call depth.
func (m *Machine) evalIf(f *value.List, env *value.Environment, cont *value.Continuation) value.StepResult {
	if len(f.Elems) < 3 || len(f.Elems) > 4 {
		return value.Fail(herr.ErrBadSpecialForm("if takes a test, a consequent and an optional alternate", f))
	}
	test := f.Elems[1]
	conseq := f.Elems[2]
	var alt value.Value = value.Unspecified
	if len(f.Elems) == 4 {
		alt = f.Elems[3]
	}
	step := func(_ *value.Environment, _ *value.Continuation, v value.Value) value.StepResult {
		v, err := value.Deref(v)
		if err != nil {
			return value.Fail(err)
		}
		if value.IsTruthy(v) {
			return value.EvalNext(conseq, env, cont)
		}
		return value.EvalNext(alt, env, cont)
	}
	return value.EvalNext(test, env, value.MakeCPS(env, cont, step))
}

// evalSet implements (set! name expr): expr is evaluated, then the
// aliasing-aware Environment.Set runs against the binding wherever it
// lives in the frame chain.
func (m *Machine) evalSet(f *value.List, env *value.Environment, cont *value.Continuation) value.StepResult {
	if len(f.Elems) != 3 {
		return value.Fail(herr.ErrBadSpecialForm("set! takes a name and an expression", f))
	}
	sym, ok := f.Elems[1].(value.Symbol)
	if !ok {
		return value.Fail(herr.ErrBadSpecialForm("set!: target must be a symbol", f.Elems[1]))
	}
	expr := f.Elems[2]
	step := func(_ *value.Environment, _ *value.Continuation, v value.Value) value.StepResult {
		if err := env.Set(value.NSValue, string(sym), v); err != nil {
			return value.Fail(err)
		}
		return value.Deliver(value.Unspecified)
	}
	return value.EvalNext(expr, env, value.MakeCPS(env, cont, step))
}

// evalDefine implements both (define name expr) and the procedure
// shorthand (define (name . params) body...).
func (m *Machine) evalDefine(f *value.List, env *value.Environment, cont *value.Continuation) value.StepResult {
	if len(f.Elems) < 2 {
		return value.Fail(herr.ErrBadSpecialForm("define requires a target", f))
	}
	switch target := f.Elems[1].(type) {
	case value.Symbol:
		var expr value.Value = value.Unspecified
		if len(f.Elems) >= 3 {
			expr = f.Elems[2]
		}
		step := func(_ *value.Environment, _ *value.Continuation, v value.Value) value.StepResult {
			if err := env.Define(value.NSValue, string(target), v); err != nil {
				return value.Fail(err)
			}
			return value.Deliver(target)
		}
		return value.EvalNext(expr, env, value.MakeCPS(env, cont, step))

	case *value.List:
		if target.Len() == 0 {
			return value.Fail(herr.ErrBadSpecialForm("define: empty procedure header", f))
		}
		nameSym, ok := target.Elems[0].(value.Symbol)
		if !ok {
			return value.Fail(herr.ErrBadSpecialForm("define: procedure name must be a symbol", target.Elems[0]))
		}
		params, rest, err := parseLambdaParams(&value.List{Elems: target.Elems[1:]})
		if err != nil {
			return value.Fail(err)
		}
		closure := &value.Closure{Params: params, Rest: rest, Body: f.Elems[2:], Captured: env, Tail: true}
		if err := env.Define(value.NSValue, string(nameSym), closure); err != nil {
			return value.Fail(err)
		}
		return value.DeliverTo(cont, nameSym)

	case *value.Pair:
		nameSym, ok := target.Head[0].(value.Symbol)
		if !ok {
			return value.Fail(herr.ErrBadSpecialForm("define: procedure name must be a symbol", target.Head[0]))
		}
		paramList := &value.Pair{Head: target.Head[1:], Tail: target.Tail}
		params, rest, err := parseLambdaParams(paramList)
		if err != nil {
			return value.Fail(err)
		}
		closure := &value.Closure{Params: params, Rest: rest, Body: f.Elems[2:], Captured: env, Tail: true}
		if err := env.Define(value.NSValue, string(nameSym), closure); err != nil {
			return value.Fail(err)
		}
		return value.DeliverTo(cont, nameSym)

	default:
		return value.Fail(herr.ErrBadSpecialForm("define: bad target", f.Elems[1]))
	}
}

// evalLambda implements (lambda params body...).
func (m *Machine) evalLambda(f *value.List, env *value.Environment, cont *value.Continuation) value.StepResult {
	if len(f.Elems) < 3 {
		return value.Fail(herr.ErrBadSpecialForm("lambda requires a parameter list and a body", f))
	}
	params, rest, err := parseLambdaParams(f.Elems[1])
	if err != nil {
		return value.Fail(err)
	}
	closure := &value.Closure{Params: params, Rest: rest, Body: f.Elems[2:], Captured: env, Tail: true}
	return value.DeliverTo(cont, closure)
}

// parseLambdaParams accepts the three shapes R7RS formals can take: a
// proper list of symbols, a dotted list with a trailing rest symbol, or a
// single symbol naming a catch-all rest parameter.
func parseLambdaParams(v value.Value) ([]value.Symbol, *value.Symbol, error) {
	switch p := v.(type) {
	case *value.List:
		params := make([]value.Symbol, len(p.Elems))
		for i, e := range p.Elems {
			sym, ok := e.(value.Symbol)
			if !ok {
				return nil, nil, herr.ErrBadSpecialForm("parameter must be a symbol", e)
			}
			params[i] = sym
		}
		return params, nil, nil
	case *value.Pair:
		params := make([]value.Symbol, len(p.Head))
		for i, e := range p.Head {
			sym, ok := e.(value.Symbol)
			if !ok {
				return nil, nil, herr.ErrBadSpecialForm("parameter must be a symbol", e)
			}
			params[i] = sym
		}
		restSym, ok := p.Tail.(value.Symbol)
		if !ok {
			return nil, nil, herr.ErrBadSpecialForm("rest parameter must be a symbol", p.Tail)
		}
		return params, &restSym, nil
	case value.Symbol:
		restSym := p
		return nil, &restSym, nil
	default:
		return nil, nil, herr.ErrBadSpecialForm("bad parameter list", v)
	}
}

// evalBody sequences a procedure/begin body: every form but the last is
// evaluated for effect only, and the last is handed cont directly, so a
// tail call in the final position costs nothing (spec Testable Property
// P6). Building the residual continuation here never recurses in Go --
// the actual stepping through forms[1:] happens later, one trampoline
// iteration at a time, inside Machine.deliver.
func evalBody(forms []value.Value, env *value.Environment, cont *value.Continuation) value.StepResult {
	if len(forms) == 0 {
		return value.DeliverTo(cont, value.Unspecified)
	}
	bodyCont := cont
	if len(forms) > 1 {
		bodyCont = &value.Continuation{Env: env, Body: forms[1:], Parent: cont}
	}
	return value.EvalNext(forms[0], env, bodyCont)
}

// evalApplication evaluates operator and operands left to right (spec
// Testable Property P8) before dispatching to apply.
func (m *Machine) evalApplication(f *value.List, env *value.Environment, cont *value.Continuation) value.StepResult {
	return evalSeq(f.Elems, env, cont, func(vals []value.Value, cont *value.Continuation) value.StepResult {
		return m.apply(vals[0], vals[1:], cont)
	})
}

// evalCallCC implements (call/cc proc): proc is evaluated, then applied to
// the reified current continuation as its sole argument. Because a
// Continuation is ordinary data, proc may invoke it any number of times,
// including after call/cc's own dynamic extent has already returned (spec
// section 8 scenario 3).
func (m *Machine) evalCallCC(f *value.List, env *value.Environment, cont *value.Continuation) value.StepResult {
	if len(f.Elems) != 2 {
		return value.Fail(herr.ErrBadSpecialForm("call/cc takes exactly one operand", f))
	}
	procForm := f.Elems[1]
	step := func(_ *value.Environment, _ *value.Continuation, v value.Value) value.StepResult {
		v, err := value.Deref(v)
		if err != nil {
			return value.Fail(err)
		}
		return m.apply(v, []value.Value{cont}, cont)
	}
	return value.EvalNext(procForm, env, value.MakeCPS(env, cont, step))
}

// evalSeq evaluates forms left to right, dereferencing each result, then
// invokes k with the accumulated values and cont. Each step closure copies
// the accumulator rather than appending onto a shared backing array, so
// re-invoking a captured continuation that resumes mid-sequence (via
// call/cc) never corrupts an earlier invocation's in-flight accumulation.
func evalSeq(forms []value.Value, env *value.Environment, cont *value.Continuation, k func(vals []value.Value, cont *value.Continuation) value.StepResult) value.StepResult {
	return evalSeqFrom(forms, nil, env, cont, k)
}

func evalSeqFrom(remaining, acc []value.Value, env *value.Environment, cont *value.Continuation, k func([]value.Value, *value.Continuation) value.StepResult) value.StepResult {
	if len(remaining) == 0 {
		return k(acc, cont)
	}
	step := func(_ *value.Environment, _ *value.Continuation, v value.Value) value.StepResult {
		v, err := value.Deref(v)
		if err != nil {
			return value.Fail(err)
		}
		next := make([]value.Value, len(acc)+1)
		copy(next, acc)
		next[len(acc)] = v
		return evalSeqFrom(remaining[1:], next, env, cont, k)
	}
	return value.EvalNext(remaining[0], env, value.MakeCPS(env, cont, step))
}

// evalQuasiquote implements (quasiquote template), a single level of
// unquote substitution: (unquote expr) anywhere inside template is
// evaluated and spliced in, at any nesting depth inside the surrounding
// list/vector structure. Nested quasiquote/unquote pairs (depth > 1) are
// left untouched, matching the simplified support this core provides
// pending the external macro expander's own quasiquote handling.
func (m *Machine) evalQuasiquote(f *value.List, env *value.Environment, cont *value.Continuation) value.StepResult {
	if len(f.Elems) != 2 {
		return value.Fail(herr.ErrBadSpecialForm("quasiquote takes exactly one operand", f))
	}
	node, forms := quasiPlan(f.Elems[1])
	if len(forms) == 0 {
		return value.DeliverTo(cont, f.Elems[1])
	}
	return evalSeq(forms, env, cont, func(vals []value.Value, cont *value.Continuation) value.StepResult {
		idx := 0
		return value.DeliverTo(cont, node(vals, &idx))
	})
}

// quasiNode rebuilds one position of a quasiquote template once the
// unquoted forms it depends on (collected alongside it by quasiPlan) have
// been evaluated, in order, into vals.
type quasiNode func(vals []value.Value, idx *int) value.Value

// quasiPlan walks a quasiquote template once (ordinary Go recursion over
// static program text, bounded by how the program was written -- not by
// any runtime Scheme-level recursion, so it carries none of the
// host-stack-growth concerns the evaluator proper is built to avoid) and
// returns a rebuild node plus the list of (unquote expr) forms found,
// left to right.
func quasiPlan(v value.Value) (quasiNode, []value.Value) {
	switch x := v.(type) {
	case *value.List:
		if x.Len() == 2 {
			if sym, ok := x.Elems[0].(value.Symbol); ok && sym == "quasiquote" {
				return func([]value.Value, *int) value.Value { return v }, nil
			}
			if sym, ok := x.Elems[0].(value.Symbol); ok && sym == "unquote" {
				form := x.Elems[1]
				return func(vals []value.Value, idx *int) value.Value {
					r := vals[*idx]
					*idx++
					return r
				}, []value.Value{form}
			}
		}
		nodes := make([]quasiNode, len(x.Elems))
		var forms []value.Value
		for i, el := range x.Elems {
			n, fs := quasiPlan(el)
			nodes[i] = n
			forms = append(forms, fs...)
		}
		return func(vals []value.Value, idx *int) value.Value {
			elems := make([]value.Value, len(nodes))
			for i, n := range nodes {
				elems[i] = n(vals, idx)
			}
			return &value.List{Elems: elems}
		}, forms

	case *value.Vector:
		nodes := make([]quasiNode, len(x.Elems))
		var forms []value.Value
		for i, el := range x.Elems {
			n, fs := quasiPlan(el)
			nodes[i] = n
			forms = append(forms, fs...)
		}
		return func(vals []value.Value, idx *int) value.Value {
			elems := make([]value.Value, len(nodes))
			for i, n := range nodes {
				elems[i] = n(vals, idx)
			}
			return &value.Vector{Elems: elems}
		}, forms

	case *value.Pair:
		headNodes := make([]quasiNode, len(x.Head))
		var forms []value.Value
		for i, el := range x.Head {
			n, fs := quasiPlan(el)
			headNodes[i] = n
			forms = append(forms, fs...)
		}
		tailNode, tailForms := quasiPlan(x.Tail)
		forms = append(forms, tailForms...)
		return func(vals []value.Value, idx *int) value.Value {
			head := make([]value.Value, len(headNodes))
			for i, n := range headNodes {
				head[i] = n(vals, idx)
			}
			return &value.Pair{Head: head, Tail: tailNode(vals, idx)}
		}, forms

	default:
		return func([]value.Value, *int) value.Value { return v }, nil
	}
}
