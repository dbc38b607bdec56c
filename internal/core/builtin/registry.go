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

// Package builtin is the registry of host-implemented procedures the
// runtime loads into a fresh environment (spec section 6.1's
// LoadPrimitives): a uniform (namespace, name) -> value.Value table,
// generalizing the teacher's import-path-keyed builtin package registry
// to this core's two namespaces.
package builtin

import (
	"sort"

	"github.com/nakayama900/husk-scheme/internal/core/herr"
	"github.com/nakayama900/husk-scheme/internal/core/value"
)

type key struct {
	ns   value.Namespace
	name string
}

var registry = map[key]value.Value{}

// Register installs name under ns. Re-registering the same (ns,name) is a
// programmer error (two builtin sets colliding at init time), reported via
// a panic, matching Get's original panic-on-unknown-path shape rather than
// threading an error return through every init().
func Register(ns value.Namespace, name string, v value.Value) {
	k := key{ns, name}
	if _, exists := registry[k]; exists {
		panic("builtin: duplicate registration for " + string(ns) + ":" + name)
	}
	registry[k] = v
}

// Get returns the builtin registered at (ns,name), or an UnboundVar error
// if nothing is registered there.
func Get(ns value.Namespace, name string) (value.Value, error) {
	v, ok := registry[key{ns, name}]
	if !ok {
		return nil, herr.ErrUnboundVar(name)
	}
	return v, nil
}

// Names returns every registered name in ns, sorted.
func Names(ns value.Namespace) []string {
	var names []string
	for k := range registry {
		if k.ns == ns {
			names = append(names, k.name)
		}
	}
	sort.Strings(names)
	return names
}

// All returns every registered entry across both namespaces, in the
// value.Entry shape LoadPrimitives binds directly.
func All() []value.Entry {
	entries := make([]value.Entry, 0, len(registry))
	for k, v := range registry {
		entries = append(entries, value.Entry{NS: k.ns, Name: k.name, V: v})
	}
	sort.Slice(entries, func(i, j int) bool {
		if entries[i].NS != entries[j].NS {
			return entries[i].NS < entries[j].NS
		}
		return entries[i].Name < entries[j].Name
	})
	return entries
}
