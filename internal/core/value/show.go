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

import (
	"fmt"
	"strconv"
	"strings"
)

// Show renders v as canonical Scheme syntax, in the teacher's
// internal/core/adt/debug.go recursive-printer style: strings quoted,
// characters bare, booleans as #t/#f, vectors as #(...), lists as (...),
// improper lists as (a b . c), procedures/continuations/ports as opaque
// tags, and the Nil sentinel as the empty string (spec section 4.1).
func Show(v Value) string {
	var b strings.Builder
	show(&b, v)
	return b.String()
}

func show(b *strings.Builder, v Value) {
	switch x := v.(type) {
	case Symbol:
		b.WriteString(string(x))
	case *List:
		b.WriteByte('(')
		for i, el := range x.Elems {
			if i > 0 {
				b.WriteByte(' ')
			}
			show(b, el)
		}
		b.WriteByte(')')
	case *Pair:
		b.WriteByte('(')
		for i, el := range x.Head {
			if i > 0 {
				b.WriteByte(' ')
			}
			show(b, el)
		}
		b.WriteString(" . ")
		show(b, x.Tail)
		b.WriteByte(')')
	case *Vector:
		b.WriteString("#(")
		for i, el := range x.Elems {
			if i > 0 {
				b.WriteByte(' ')
			}
			show(b, el)
		}
		b.WriteByte(')')
	case *HashTable:
		b.WriteString("#[hash-table")
		for _, kv := range x.Entries() {
			b.WriteByte(' ')
			b.WriteByte('(')
			show(b, kv.Key)
			b.WriteByte(' ')
			b.WriteByte('.')
			b.WriteByte(' ')
			show(b, kv.Val)
			b.WriteByte(')')
		}
		b.WriteByte(']')
	case *Integer:
		b.WriteString(x.X.String())
	case *Rational:
		b.WriteString(x.X.Num().String())
		b.WriteByte('/')
		b.WriteString(x.X.Denom().String())
	case Real:
		b.WriteString(strconv.FormatFloat(float64(x), 'g', -1, 64))
	case Complex:
		b.WriteString(strconv.FormatFloat(x.Re, 'g', -1, 64))
		if x.Im >= 0 {
			b.WriteByte('+')
		}
		b.WriteString(strconv.FormatFloat(x.Im, 'g', -1, 64))
		b.WriteByte('i')
	case *String:
		b.WriteByte('"')
		for _, r := range x.Chars {
			switch r {
			case '"':
				b.WriteString(`\"`)
			case '\\':
				b.WriteString(`\\`)
			default:
				b.WriteRune(r)
			}
		}
		b.WriteByte('"')
	case Char:
		b.WriteRune(rune(x))
	case Bool:
		if x {
			b.WriteString("#t")
		} else {
			b.WriteString("#f")
		}
	case *PrimFn:
		b.WriteString("<primitive>")
	case *IOFn:
		b.WriteString("<primitive>")
	case *Port:
		b.WriteString("<IO port>")
	case *Closure:
		b.WriteString("(lambda (")
		for i, p := range x.Params {
			if i > 0 {
				b.WriteByte(' ')
			}
			b.WriteString(string(p))
		}
		if x.Rest != nil {
			if len(x.Params) > 0 {
				b.WriteByte(' ')
			}
			b.WriteString(". ")
			b.WriteString(string(*x.Rest))
		}
		b.WriteString(") ...)")
	case *Continuation:
		b.WriteString("<continuation>")
	case Pointer:
		target, err := Deref(x)
		if err != nil {
			b.WriteString("<unbound>")
			return
		}
		show(b, target)
	case Nil:
		// empty string, per spec section 4.1
	default:
		fmt.Fprintf(b, "%v", v)
	}
}
