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

package runtime

import (
	"fmt"
	"math/big"
	"os"
	"strconv"
	"strings"
	stdunicode "unicode"

	"golang.org/x/text/encoding/unicode"

	"github.com/nakayama900/husk-scheme/internal/core/herr"
	"github.com/nakayama900/husk-scheme/internal/core/value"
)

// ReadForms is a minimal S-expression reader: enough to drive this
// repository's own test fixtures and cmd/huskscheme's `run`, not the
// lexical/syntactic parser spec section 1 keeps as an external
// collaborator. It understands symbols, integers, rationals, reals,
// strings, characters, booleans, proper and dotted lists, and the quote
// shorthand ('x) at any depth.
func ReadForms(src string) ([]value.Value, error) {
	rd := &reader{src: []rune(src)}
	var forms []value.Value
	for {
		rd.skipSpace()
		if rd.atEnd() {
			break
		}
		v, err := rd.readForm()
		if err != nil {
			return nil, err
		}
		forms = append(forms, v)
	}
	return forms, nil
}

// LoadFile reads path, reads its forms with ReadForms, and evaluates them
// via LoadForms, the convenience spec section 9's embedding notes call for
// (see SPEC_FULL section 12).
func (r *Runtime) LoadFile(path string) (Summary, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Summary{}, err
	}
	data = sanitizeUTF8(data)
	forms, err := ReadForms(string(data))
	if err != nil {
		return Summary{}, err
	}
	return r.LoadForms(forms), nil
}

// sanitizeUTF8 replaces any invalid byte sequences in b with the Unicode
// replacement character before the bytes are trusted as a Go string, the
// same normalization CUE's adt.bytesToString runs on untrusted input
// ahead of parsing.
func sanitizeUTF8(b []byte) []byte {
	clean, err := unicode.UTF8.NewDecoder().Bytes(b)
	if err != nil {
		return b
	}
	return clean
}

type reader struct {
	src []rune
	pos int
}

func (r *reader) atEnd() bool  { return r.pos >= len(r.src) }
func (r *reader) peek() rune   { return r.src[r.pos] }
func isDelim(c rune) bool      { return stdunicode.IsSpace(c) || c == '(' || c == ')' || c == '"' }

func (r *reader) skipSpace() {
	for !r.atEnd() {
		c := r.peek()
		if c == ';' {
			for !r.atEnd() && r.peek() != '\n' {
				r.pos++
			}
			continue
		}
		if stdunicode.IsSpace(c) {
			r.pos++
			continue
		}
		break
	}
}

func (r *reader) readForm() (value.Value, error) {
	r.skipSpace()
	if r.atEnd() {
		return nil, herr.ErrParser("unexpected end of input")
	}
	switch c := r.peek(); {
	case c == '(':
		return r.readList()
	case c == ')':
		return nil, herr.ErrParser("unexpected )")
	case c == '\'':
		r.pos++
		inner, err := r.readForm()
		if err != nil {
			return nil, err
		}
		return value.NewList(value.Symbol("quote"), inner), nil
	case c == '"':
		return r.readString()
	case c == '#':
		return r.readHash()
	default:
		return r.readAtom()
	}
}

func (r *reader) readList() (value.Value, error) {
	r.pos++ // consume '('
	var elems []value.Value
	var tail value.Value
	for {
		r.skipSpace()
		if r.atEnd() {
			return nil, herr.ErrParser("unterminated list")
		}
		if r.peek() == ')' {
			r.pos++
			break
		}
		if r.peek() == '.' && r.pos+1 < len(r.src) && isDelim(r.src[r.pos+1]) {
			r.pos++ // consume '.'
			t, err := r.readForm()
			if err != nil {
				return nil, err
			}
			tail = t
			r.skipSpace()
			if r.atEnd() || r.peek() != ')' {
				return nil, herr.ErrParser("malformed dotted list")
			}
			r.pos++
			break
		}
		v, err := r.readForm()
		if err != nil {
			return nil, err
		}
		elems = append(elems, v)
	}
	if tail != nil {
		return &value.Pair{Head: elems, Tail: tail}, nil
	}
	return &value.List{Elems: elems}, nil
}

func (r *reader) readString() (value.Value, error) {
	r.pos++ // consume opening quote
	var chars []rune
	for {
		if r.atEnd() {
			return nil, herr.ErrParser("unterminated string")
		}
		c := r.src[r.pos]
		if c == '"' {
			r.pos++
			break
		}
		if c == '\\' && r.pos+1 < len(r.src) {
			r.pos++
			chars = append(chars, r.src[r.pos])
			r.pos++
			continue
		}
		chars = append(chars, c)
		r.pos++
	}
	return &value.String{Chars: chars}, nil
}

func (r *reader) readHash() (value.Value, error) {
	r.pos++ // consume '#'
	if r.atEnd() {
		return nil, herr.ErrParser("unexpected end after #")
	}
	switch r.peek() {
	case 't':
		r.pos++
		return value.True, nil
	case 'f':
		r.pos++
		return value.False, nil
	case '\\':
		r.pos++
		start := r.pos
		for !r.atEnd() && !isDelim(r.peek()) {
			r.pos++
		}
		if r.pos == start {
			if r.atEnd() {
				return nil, herr.ErrParser("unterminated char literal")
			}
			c := r.src[r.pos]
			r.pos++
			return value.Char(c), nil
		}
		lit := string(r.src[start:r.pos])
		switch lit {
		case "space":
			return value.Char(' '), nil
		case "newline":
			return value.Char('\n'), nil
		case "tab":
			return value.Char('\t'), nil
		default:
			return value.Char([]rune(lit)[0]), nil
		}
	default:
		return nil, herr.ErrParser(fmt.Sprintf("unsupported # syntax: #%c", r.peek()))
	}
}

func (r *reader) readAtom() (value.Value, error) {
	start := r.pos
	for !r.atEnd() && !isDelim(r.peek()) && r.peek() != '\'' {
		r.pos++
	}
	text := string(r.src[start:r.pos])
	if text == "" {
		return nil, herr.ErrParser("empty atom")
	}
	if i, ok := new(big.Int).SetString(text, 10); ok {
		return &value.Integer{X: i}, nil
	}
	if strings.ContainsAny(text, ".eE") {
		if f, err := strconv.ParseFloat(text, 64); err == nil {
			return value.Real(f), nil
		}
	}
	if num, den, ok := strings.Cut(text, "/"); ok {
		if n, nok := new(big.Int).SetString(num, 10); nok {
			if d, dok := new(big.Int).SetString(den, 10); dok {
				return value.Canonicalize(&value.Rational{X: new(big.Rat).SetFrac(n, d)}), nil
			}
		}
	}
	return value.Symbol(text), nil
}
