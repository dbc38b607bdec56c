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

package runtime_test

import (
	"testing"

	"github.com/nakayama900/husk-scheme/internal/core/runtime"
	"github.com/nakayama900/husk-scheme/internal/core/value"
)

func TestReadFormsRoundTripsThroughShow(t *testing.T) {
	cases := []struct {
		src  string
		want string
	}{
		{"(+ 1 2)", "(+ 1 2)"},
		{"'(a b)", "(quote (a b))"},
		{"42", "42"},
		{"1/2", "1/2"},
		{"2/2", "1"},
		{`"hi"`, `"hi"`},
		{"#t", "#t"},
		{"#f", "#f"},
		{"(a . b)", "(a . b)"},
	}
	for _, c := range cases {
		forms, err := runtime.ReadForms(c.src)
		if err != nil {
			t.Fatalf("ReadForms(%q) error: %v", c.src, err)
		}
		if len(forms) != 1 {
			t.Fatalf("ReadForms(%q) = %d forms, want 1", c.src, len(forms))
		}
		if got := value.Show(forms[0]); got != c.want {
			t.Errorf("ReadForms(%q) = %s, want %s", c.src, got, c.want)
		}
	}
}

func TestReadFormsMultipleTopLevel(t *testing.T) {
	forms, err := runtime.ReadForms("(define x 1) (+ x 1)")
	if err != nil {
		t.Fatal(err)
	}
	if len(forms) != 2 {
		t.Fatalf("ReadForms = %d forms, want 2", len(forms))
	}
}

func TestReadFormsUnterminatedList(t *testing.T) {
	if _, err := runtime.ReadForms("(+ 1 2"); err == nil {
		t.Fatal("ReadForms of unterminated list succeeded, want a Parser error")
	}
}
