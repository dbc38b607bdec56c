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

// Package herr defines the error taxonomy shared by the environment and
// evaluator: a small closed set of error codes, each carrying a message and
// an optional source position, that bubble up the continuation chain to the
// top-level trampoline (see internal/core/eval).
package herr

import (
	"fmt"

	"github.com/hashicorp/go-multierror"
)

// Code identifies the kind of a SchemeError. The kind may influence how a
// caller recovers (e.g. a future guard/with-exception-handler primitive
// would dispatch on it); no other aspect of an error affects control flow.
type Code int8

const (
	// NumArgs signals an arity mismatch at application.
	NumArgs Code = iota
	// TypeMismatch signals a primitive received a value of the wrong type.
	TypeMismatch
	// Parser signals a failure in the external lexical/syntactic parser,
	// surfaced through the evaluator.
	Parser
	// BadSpecialForm signals syntactic misuse of a special form.
	BadSpecialForm
	// NotFunction signals an attempt to apply a non-procedure.
	NotFunction
	// UnboundVar signals get/set of an unknown variable.
	UnboundVar
	// DivideByZero signals exact division by zero.
	DivideByZero
	// NotImplemented signals a feature gap.
	NotImplemented
	// Default is the fallback kind for errors that don't fit elsewhere.
	Default
)

func (k Code) String() string {
	switch k {
	case NumArgs:
		return "NumArgs"
	case TypeMismatch:
		return "TypeMismatch"
	case Parser:
		return "Parser"
	case BadSpecialForm:
		return "BadSpecialForm"
	case NotFunction:
		return "NotFunction"
	case UnboundVar:
		return "UnboundVar"
	case DivideByZero:
		return "DivideByZero"
	case NotImplemented:
		return "NotImplemented"
	default:
		return "Default"
	}
}

// Pos is a minimal, printable source position, ported down from the
// teacher's cue/token.Position to the one field the core actually needs:
// enough to annotate an error, not to drive a full file/line/column parser.
type Pos struct {
	Source string // e.g. a file name or REPL label; empty if unknown
	Line   int    // 1-based; 0 if unknown
}

func (p Pos) IsValid() bool { return p.Line > 0 }

func (p Pos) String() string {
	if !p.IsValid() {
		return p.Source
	}
	if p.Source == "" {
		return fmt.Sprintf("line %d", p.Line)
	}
	return fmt.Sprintf("%s:%d", p.Source, p.Line)
}

// SchemeError is the concrete error type raised by the environment and
// evaluator. It implements the standard error interface so it composes with
// errors.Is/As and github.com/hashicorp/go-multierror the normal Go way.
type SchemeError struct {
	Kind    Code
	Message string
	Name    string // variable/procedure name, when applicable
	Pos     Pos
}

func New(kind Code, format string, args ...interface{}) *SchemeError {
	return &SchemeError{Kind: kind, Message: fmt.Sprintf(format, args...)}
}

// WithName returns a copy of e annotated with the offending name (variable,
// procedure, special form).
func (e *SchemeError) WithName(name string) *SchemeError {
	c := *e
	c.Name = name
	return &c
}

// WithPos returns a copy of e annotated with a source position.
func (e *SchemeError) WithPos(pos Pos) *SchemeError {
	c := *e
	c.Pos = pos
	return &c
}

func (e *SchemeError) Error() string {
	msg := e.Message
	if e.Name != "" {
		msg = fmt.Sprintf("%s: %s", msg, e.Name)
	}
	if e.Pos.IsValid() || e.Pos.Source != "" {
		return fmt.Sprintf("%s: %s (%s)", e.Kind, msg, e.Pos)
	}
	return fmt.Sprintf("%s: %s", e.Kind, msg)
}

// Constructors for the nine taxonomy members of spec section 7.

func ErrNumArgs(expected, given int) *SchemeError {
	return New(NumArgs, "expected %d argument(s), got %d", expected, given)
}

func ErrNumArgsAtLeast(expected, given int) *SchemeError {
	return New(NumArgs, "expected at least %d argument(s), got %d", expected, given)
}

func ErrTypeMismatch(expected string, got interface{}) *SchemeError {
	return New(TypeMismatch, "expected %s, got %v", expected, got)
}

func ErrParser(msg string) *SchemeError {
	return New(Parser, "%s", msg)
}

func ErrBadSpecialForm(msg string, form interface{}) *SchemeError {
	return New(BadSpecialForm, "%s: %v", msg, form)
}

func ErrNotFunction(msg, name string) *SchemeError {
	return New(NotFunction, "%s", msg).WithName(name)
}

func ErrUnboundVar(name string) *SchemeError {
	return New(UnboundVar, "unbound variable").WithName(name)
}

func ErrDivideByZero() *SchemeError {
	return New(DivideByZero, "division by zero")
}

func ErrNotImplemented(msg string) *SchemeError {
	return New(NotImplemented, "%s", msg)
}

func ErrDefault(format string, args ...interface{}) *SchemeError {
	return New(Default, format, args...)
}

// Append accumulates independent failures into a single error, the way
// internal/core/runtime's LoadPrimitives rejects a batch of colliding
// primitive registrations, or cmd/huskscheme tallies one failure per input
// file. A nil head starts a fresh aggregate.
func Append(head error, errs ...error) error {
	var merr *multierror.Error
	if head != nil {
		merr = multierror.Append(merr, head)
	}
	for _, e := range errs {
		if e != nil {
			merr = multierror.Append(merr, e)
		}
	}
	if merr == nil {
		return nil
	}
	return merr.ErrorOrNil()
}
