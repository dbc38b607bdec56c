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

import "github.com/nakayama900/husk-scheme/internal/core/value"

// FormResult is the outcome of evaluating one top-level form via LoadForms.
type FormResult struct {
	Form  value.Value
	Value value.Value
	Err   error
}

// Summary tallies a LoadForms run, the pass/fail line cmd/huskscheme
// prints per spec section 1's external-test-harness expectations.
type Summary struct {
	Results []FormResult
	Passed  int
	Failed  int
}

// LoadForms evaluates each of forms in turn against r's root Environment,
// left to right, continuing past a failing form rather than aborting the
// batch -- this is not a parser (spec section 1 keeps lexical/syntactic
// reading out of core scope): forms arrive already built as value.Value
// S-expressions, typically via a host's own reader or constructed directly
// through the Go API, the way this module's own tests do.
func (r *Runtime) LoadForms(forms []value.Value) Summary {
	var s Summary
	for _, f := range forms {
		v, err := r.Eval(f)
		s.Results = append(s.Results, FormResult{Form: f, Value: v, Err: err})
		if err != nil {
			s.Failed++
		} else {
			s.Passed++
		}
	}
	return s
}
