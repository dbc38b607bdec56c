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

// Equal is the structural equality predicate (equal? in spec section 4.1):
// recurses into lists, pairs, vectors and hash tables; elementwise
// comparison elsewhere.
func Equal(a, b Value) bool {
	if a.Kind() != b.Kind() {
		return false
	}
	switch x := a.(type) {
	case Symbol:
		return x == b.(Symbol)
	case *List:
		y := b.(*List)
		if len(x.Elems) != len(y.Elems) {
			return false
		}
		for i := range x.Elems {
			if !Equal(x.Elems[i], y.Elems[i]) {
				return false
			}
		}
		return true
	case *Pair:
		y := b.(*Pair)
		if len(x.Head) != len(y.Head) {
			return false
		}
		for i := range x.Head {
			if !Equal(x.Head[i], y.Head[i]) {
				return false
			}
		}
		return Equal(x.Tail, y.Tail)
	case *Vector:
		y := b.(*Vector)
		if len(x.Elems) != len(y.Elems) {
			return false
		}
		for i := range x.Elems {
			if !Equal(x.Elems[i], y.Elems[i]) {
				return false
			}
		}
		return true
	case *HashTable:
		y := b.(*HashTable)
		if x.Len() != y.Len() {
			return false
		}
		// Order is not observable; compare the sorted sequence of pairs,
		// per spec section 4.1.
		xe, ye := x.Entries(), y.Entries()
		for i := range xe {
			if !Equal(xe[i].Key, ye[i].Key) || !Equal(xe[i].Val, ye[i].Val) {
				return false
			}
		}
		return true
	case *Integer:
		return x.X.Cmp(b.(*Integer).X) == 0
	case *Rational:
		return x.X.Cmp(b.(*Rational).X) == 0
	case Real:
		return x == b.(Real)
	case Complex:
		y := b.(Complex)
		return x.Re == y.Re && x.Im == y.Im
	case *String:
		y := b.(*String)
		return string(x.Chars) == string(y.Chars)
	case Char:
		return x == b.(Char)
	case Bool:
		return x == b.(Bool)
	case Nil:
		return true
	case Pointer:
		y := b.(Pointer)
		av, aerr := Deref(x)
		bv, berr := Deref(y)
		if aerr != nil || berr != nil {
			return aerr == nil && berr == nil
		}
		return Equal(av, bv)
	case *Port:
		return x.ID == b.(*Port).ID
	default:
		// Procedures, continuations: undefined but consistent;
		// identity-only.
		return a == b
	}
}

// Eqv is the value-equality predicate (eqv? in spec section 4.1): equal
// for primitive values of the same concrete type, structural equality for
// aggregates, always unequal across heterogeneous types.
func Eqv(a, b Value) bool {
	if a.Kind() != b.Kind() {
		return false
	}
	switch a.(type) {
	case *List, *Pair, *Vector, *HashTable, Pointer:
		return Equal(a, b)
	default:
		return Equal(a, b)
	}
}
