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

// Package runtime is the embedding API spec section 6.1 names: the small,
// stable surface a host program (cmd/huskscheme, an external test harness,
// or another Go program embedding the core) uses to stand up an
// environment, load primitives into it, and evaluate or apply values,
// without reaching into internal/core/eval or internal/core/value
// directly.
package runtime

import (
	"github.com/hashicorp/go-hclog"

	"github.com/nakayama900/husk-scheme/internal/core/builtin"
	"github.com/nakayama900/husk-scheme/internal/core/eval"
	"github.com/nakayama900/husk-scheme/internal/core/herr"
	"github.com/nakayama900/husk-scheme/internal/core/value"
)

// Runtime bundles an Environment with the Machine that evaluates against
// it, the way the teacher's cue.Runtime bundles a cache with the adt
// evaluator configuration that operates on it.
type Runtime struct {
	Env     *value.Environment
	Machine *eval.Machine
}

// Option configures a Runtime at construction.
type Option func(*Runtime)

// WithLogger attaches a structured logger to the underlying Machine;
// components default to hclog.NewNullLogger() when none is given,
// mirroring nomad's optional-sub-logger convention.
func WithLogger(log hclog.Logger) Option {
	return func(r *Runtime) { r.Machine.Log = log }
}

// WithExpander attaches the external macro expander (spec section 1: the
// syntactic macro expander is itself out of core scope, but the evaluator
// needs a hook to delegate to one).
func WithExpander(expand eval.Expander) Option {
	return func(r *Runtime) { r.Machine.Expand = expand }
}

// WithTrace enables per-reduction-step trace logging on the Machine.
func WithTrace(on bool) Option {
	return func(r *Runtime) { r.Machine.SetTrace(on) }
}

// EmptyEnv returns a fresh Runtime over an empty root Environment: no
// primitives loaded, no macros, spec section 6.1's starting point.
func EmptyEnv(opts ...Option) *Runtime {
	r := &Runtime{
		Env:     value.Empty(),
		Machine: eval.New(hclog.NewNullLogger()),
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// LoadPrimitives binds every registered builtin (internal/core/builtin)
// into r's root Environment. Collisions against bindings already present
// are aggregated via herr.Append rather than aborting at the first one, so
// a caller loading several independent primitive sets sees every conflict
// at once.
func (r *Runtime) LoadPrimitives() error {
	var errs []error
	for _, entry := range builtin.All() {
		if r.Env.IsBound(entry.NS, entry.Name) {
			errs = append(errs, herr.ErrDefault("primitive already bound: %s", entry.Name))
			continue
		}
		if err := r.Env.Define(entry.NS, entry.Name, entry.V); err != nil {
			errs = append(errs, err)
		}
	}
	if len(errs) == 0 {
		return nil
	}
	return herr.Append(errs[0], errs[1:]...)
}

// Eval evaluates form under r's root Environment (spec section 6.1).
func (r *Runtime) Eval(form value.Value) (value.Value, error) {
	return r.Machine.Eval(form, r.Env)
}

// Apply applies op to already-evaluated args under r's root Environment
// (spec section 6.1).
func (r *Runtime) Apply(op value.Value, args []value.Value) (value.Value, error) {
	return r.Machine.Apply(r.Env, op, args)
}
