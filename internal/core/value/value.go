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

// Package value is the value domain (V) and environment (E) of the core, in
// one package for the same reason the teacher keeps its Vertex/Value and
// Environment types together in internal/core/adt: a Closure or
// Continuation value carries an *Environment, and an Environment's cells
// carry Values, so the two are mutually referential at the type level and
// cannot live in separate packages without one importing the other both
// ways.
package value

import (
	"math/big"

	"github.com/google/uuid"
)

// Kind tags the variant of a Value, mirroring the row labels of spec
// section 3.1.
type Kind int8

const (
	KindSymbol Kind = iota
	KindList
	KindPair
	KindVector
	KindHashTable
	KindInteger
	KindRational
	KindReal
	KindComplex
	KindString
	KindChar
	KindBool
	KindPrimFn
	KindIOFn
	KindPort
	KindClosure
	KindContinuation
	KindPointer
	KindNil
)

var kindNames = [...]string{
	KindSymbol:       "symbol",
	KindList:         "list",
	KindPair:         "pair",
	KindVector:       "vector",
	KindHashTable:    "hash-table",
	KindInteger:      "integer",
	KindRational:     "rational",
	KindReal:         "real",
	KindComplex:      "complex",
	KindString:       "string",
	KindChar:         "char",
	KindBool:         "boolean",
	KindPrimFn:       "primitive",
	KindIOFn:         "io-primitive",
	KindPort:         "port",
	KindClosure:      "procedure",
	KindContinuation: "continuation",
	KindPointer:      "pointer",
	KindNil:          "nil",
}

func (k Kind) String() string {
	if int(k) < 0 || int(k) >= len(kindNames) {
		return "unknown"
	}
	return kindNames[k]
}

// Value is the single, closed sum type every Scheme datum belongs to.
type Value interface {
	Kind() Kind
}

// Namespace is one of the two fixed tags an environment binding lives under.
type Namespace string

const (
	NSValue Namespace = "v"
	NSMacro Namespace = "m"
)

// ---- Symbol ----

// Symbol is an interned identifier. Equality is by name.
type Symbol string

func (Symbol) Kind() Kind { return KindSymbol }

// ---- List / Pair ----

// List is a proper list: an ordered, possibly empty, sequence of Values.
type List struct {
	Elems []Value
}

func (*List) Kind() Kind { return KindList }

func NewList(elems ...Value) *List { return &List{Elems: elems} }

func (l *List) Len() int { return len(l.Elems) }

// Pair is the improper-list representation `(a b . c)`: a non-empty head
// sequence followed by a tail that is itself not a List.
type Pair struct {
	Head []Value
	Tail Value
}

func (*Pair) Kind() Kind { return KindPair }

// ---- Vector ----

// Vector is a fixed-length, indexable, element-mutable array of Values.
// Mutation is via Elems[i] = v directly; since a Vector is handed around
// as *Vector, every alias of it shares the same Elems backing array, matching spec section 4.2's aliasing model without an
// extra layer of indirection.
type Vector struct {
	Elems []Value
}

func (*Vector) Kind() Kind { return KindVector }

func NewVector(elems ...Value) *Vector { return &Vector{Elems: elems} }

// ---- HashTable ----

// HashTable maps Value keys to Value values, compared by eqv?. Go maps are
// themselves reference types, so a HashTable's mutation is visible through
// every alias without extra indirection, same as Vector above.
type HashTable struct {
	// entries is keyed by the canonical Show() string of the key (eqv? on
	// aggregates delegates to equal?, i.e. structural identity of the
	// canonical printed form -- see equality.go), each entry retaining the
	// original key Value for iteration/printing.
	entries map[string]htEntry
}

type htEntry struct {
	key Value
	val Value
}

func (*HashTable) Kind() Kind { return KindHashTable }

func NewHashTable() *HashTable {
	return &HashTable{entries: map[string]htEntry{}}
}

func (h *HashTable) Set(key, val Value) {
	h.entries[Show(key)] = htEntry{key: key, val: val}
}

func (h *HashTable) Get(key Value) (Value, bool) {
	e, ok := h.entries[Show(key)]
	if !ok {
		return nil, false
	}
	return e.val, true
}

func (h *HashTable) Delete(key Value) {
	delete(h.entries, Show(key))
}

func (h *HashTable) Len() int { return len(h.entries) }

// Entries returns the key/value pairs in an unspecified but, per spec
// section 5, call-stable order (stable across calls that do not mutate the
// table -- Go map iteration order is randomized per-range, so entries are
// returned sorted by key under Compare's total order to honor that
// stability guarantee).
func (h *HashTable) Entries() []struct{ Key, Val Value } {
	out := make([]struct{ Key, Val Value }, 0, len(h.entries))
	for _, e := range h.entries {
		out = append(out, struct{ Key, Val Value }{e.key, e.val})
	}
	sortEntriesByKey(out)
	return out
}

// ---- numbers ----

// Integer is an unbounded exact integer.
type Integer struct{ X *big.Int }

func (*Integer) Kind() Kind { return KindInteger }

func NewInteger(i int64) *Integer { return &Integer{X: big.NewInt(i)} }

// Rational is an exact numerator/denominator pair in canonical form
// (denominator > 0, gcd(numerator, denominator) == 1); math/big.Rat
// maintains that invariant as a library guarantee.
type Rational struct{ X *big.Rat }

func NewRational(num, den int64) *Rational { return &Rational{X: big.NewRat(num, den)} }

func (*Rational) Kind() Kind { return KindRational }

// Real is an inexact double-precision float.
type Real float64

func (Real) Kind() Kind { return KindReal }

// Complex is an inexact real/imaginary pair of floats.
type Complex struct{ Re, Im float64 }

func (Complex) Kind() Kind { return KindComplex }

// ---- String / Char / Bool ----

// String is a mutable character sequence. Like Vector, Chars is a slice, so
// in-place mutation (string-set!) is visible through every alias.
type String struct {
	Chars []rune
}

func (*String) Kind() Kind { return KindString }

func NewString(s string) *String { return &String{Chars: []rune(s)} }

func (s *String) String() string { return string(s.Chars) }

// Char is a single Unicode code point.
type Char rune

func (Char) Kind() Kind { return KindChar }

// Bool is a boolean; only false is falsy.
type Bool bool

func (Bool) Kind() Kind { return KindBool }

const (
	True  = Bool(true)
	False = Bool(false)
)

// IsTruthy reports whether v counts as true in a conditional. Only #f is
// false; every other Value, including the empty list and 0, is true.
func IsTruthy(v Value) bool {
	b, ok := v.(Bool)
	return !ok || bool(b)
}

// ---- callables ----

// Args is the argument vector passed to a primitive: fully dereferenced
// Values (spec section 6.2).
type Args []Value

// PrimFn is a pure host callable.
type PrimFn struct {
	Name string
	Fn   func(Args) (Value, error)
}

func (*PrimFn) Kind() Kind { return KindPrimFn }

// IOFn is a host callable that may touch a Port.
type IOFn struct {
	Name string
	Fn   func(Args) (Value, error)
}

func (*IOFn) Kind() Kind { return KindIOFn }

// ---- Port ----

// Port is an opaque host I/O handle. Lifetime is managed externally (spec
// section 5); the UUID gives eqv? a well-defined identity comparison
// without exposing the underlying host resource to the value model.
type Port struct {
	ID     uuid.UUID
	Handle interface {
		Close() error
	}
}

func (*Port) Kind() Kind { return KindPort }

func NewPort(handle interface{ Close() error }) *Port {
	return &Port{ID: uuid.New(), Handle: handle}
}

// ---- Closure ----

// Closure is a user-defined procedure: parameter names, an optional rest
// parameter, a body (sequence of forms), the Environment it closes over,
// and whether its body is tail-evaluated (always true for ordinary lambda
// expressions; see eval.Apply).
type Closure struct {
	Params   []Symbol
	Rest     *Symbol
	Body     []Value
	Captured *Environment
	Tail     bool
}

func (*Closure) Kind() Kind { return KindClosure }

// ---- Pointer ----

// Pointer is an internal alias: "this binding is a view onto variable Name
// in environment Target". It is not the user-level notion of a boxed cell;
// see env.go / alias.go for the reverse-alias bookkeeping it participates
// in.
type Pointer struct {
	Name   string
	NS     Namespace
	Target *Environment
}

func (Pointer) Kind() Kind { return KindPointer }

// ---- Nil sentinel ----

// Nil is an internal sentinel value, never user-visible.
type Nil struct{ Tag string }

func (Nil) Kind() Kind { return KindNil }

var Unspecified = Nil{Tag: "unspecified"}

// IsObject reports whether v's variant can be mutated in place and can
// therefore participate in aliasing (spec section 4.1).
func IsObject(v Value) bool {
	switch v.(type) {
	case *List, *Pair, *String, *Vector, *HashTable, Pointer:
		return true
	default:
		return false
	}
}
