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

import "strings"

// variantOrder gives every Kind a stable position in the between-variant
// ordering spec section 4.1 requires (within a variant, natural order
// applies; between variants, a stable tag ordering applies).
var variantOrder = map[Kind]int{
	KindNil:          0,
	KindBool:         1,
	KindInteger:      2,
	KindRational:     3,
	KindReal:         4,
	KindComplex:      5,
	KindChar:         6,
	KindString:       7,
	KindSymbol:       8,
	KindPair:         9,
	KindList:         10,
	KindVector:       11,
	KindHashTable:    12,
	KindPointer:      13,
	KindPrimFn:       14,
	KindIOFn:         15,
	KindPort:         16,
	KindClosure:      17,
	KindContinuation: 18,
}

// Compare defines the total order spec section 4.1 requires for use as
// hash-table keys and for sorting: natural order within a variant, a
// stable variant-tag order between variants, and a canonical-printed-form
// fallback for variants (lists, vectors, hash tables, procedures) that
// have no natural order of their own.
func Compare(a, b Value) int {
	if a.Kind() != b.Kind() {
		return variantOrder[a.Kind()] - variantOrder[b.Kind()]
	}
	switch x := a.(type) {
	case *Integer:
		return x.X.Cmp(b.(*Integer).X)
	case *Rational:
		return x.X.Cmp(b.(*Rational).X)
	case Real:
		y := b.(Real)
		switch {
		case x < y:
			return -1
		case x > y:
			return 1
		default:
			return 0
		}
	case Char:
		return int(x) - int(b.(Char))
	case Bool:
		y := b.(Bool)
		if x == y {
			return 0
		}
		if !bool(x) {
			return -1
		}
		return 1
	case *String:
		return strings.Compare(string(x.Chars), string(b.(*String).Chars))
	case Symbol:
		return strings.Compare(string(x), string(b.(Symbol)))
	default:
		return strings.Compare(Show(a), Show(b))
	}
}

func sortEntriesByKey(entries []struct{ Key, Val Value }) {
	// Small insertion sort: hash tables are not expected to be large
	// enough to warrant sort.Slice's overhead, and this keeps the
	// dependency surface to what Compare already needs.
	for i := 1; i < len(entries); i++ {
		for j := i; j > 0 && Compare(entries[j-1].Key, entries[j].Key) > 0; j-- {
			entries[j-1], entries[j] = entries[j], entries[j-1]
		}
	}
}
