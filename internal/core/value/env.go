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

import "github.com/nakayama900/husk-scheme/internal/core/herr"

// Environment is a lexically scoped frame, generalizing the teacher's
// Environment{Up, Vertex} parent-chain shape (internal/core/adt/composite.go)
// from a single value namespace to the two namespaces spec section 3.2
// requires.
//
// Cells live in a per-frame arena addressed by integer handle, the
// handle-indexed-arena design spec section 9 recommends for mutable cells:
// it keeps the frame self-contained (no cross-frame ownership edges to
// reason about) and gives deterministic teardown once the frame is
// unreachable, without needing a finalizer.
type Environment struct {
	Parent *Environment

	arena    []cell
	bindings map[bindKey]int          // (ns,name) -> index into arena
	pointers map[bindKey]*[]Pointer   // (ns,name) -> reverse-alias set; shared by pointer across Copy
}

type bindKey struct {
	ns   Namespace
	name string
}

type cell struct {
	v Value
}

// Empty returns a root frame: no parent, no bindings, no pointers.
func Empty() *Environment {
	return &Environment{
		bindings: map[bindKey]int{},
		pointers: map[bindKey]*[]Pointer{},
	}
}

// Entry is one (namespace, name) -> value binding for Extend.
type Entry struct {
	NS   Namespace
	Name string
	V    Value
}

// Extend returns a new frame, child of parent, with the given entries
// freshly bound and an empty reverse-pointer set.
func Extend(parent *Environment, entries ...Entry) *Environment {
	e := Empty()
	e.Parent = parent
	for _, entry := range entries {
		e.rawSet(entry.NS, entry.Name, entry.V)
	}
	return e
}

// Copy returns a deep copy of e's bindings (fresh cells, same Values) but
// shares the reverse-pointer lists by reference with the original, per
// spec section 4.2: aliasing relationships follow the originals, not the
// copy.
func Copy(e *Environment) *Environment {
	c := &Environment{
		Parent:   e.Parent,
		arena:    make([]cell, len(e.arena)),
		bindings: make(map[bindKey]int, len(e.bindings)),
		pointers: make(map[bindKey]*[]Pointer, len(e.pointers)),
	}
	copy(c.arena, e.arena)
	for k, idx := range e.bindings {
		c.bindings[k] = idx
	}
	for k, set := range e.pointers {
		c.pointers[k] = set // same *[]Pointer: shared by reference, not copied
	}
	return c
}

// IsBound reports whether (ns,name) is bound in e's own frame, ignoring
// any parent.
func (e *Environment) IsBound(ns Namespace, name string) bool {
	_, ok := e.bindings[bindKey{ns, name}]
	return ok
}

// IsRecBound reports whether (ns,name) is bound in e or any ancestor.
func (e *Environment) IsRecBound(ns Namespace, name string) bool {
	return e.FindEnv(ns, name) != nil
}

// FindEnv returns the nearest frame in e's chain (starting at e) that
// binds (ns,name), or nil if none does.
func (e *Environment) FindEnv(ns Namespace, name string) *Environment {
	for f := e; f != nil; f = f.Parent {
		if f.IsBound(ns, name) {
			return f
		}
	}
	return nil
}

// Get reads (ns,name), searching the frame chain, raising UnboundVar if
// nowhere found.
func (e *Environment) Get(ns Namespace, name string) (Value, error) {
	f := e.FindEnv(ns, name)
	if f == nil {
		return nil, herr.ErrUnboundVar(name)
	}
	idx := f.bindings[bindKey{ns, name}]
	return f.arena[idx].v, nil
}

// rawSet writes directly into e's own frame, creating the cell if absent,
// bypassing the aliasing protocol. It is the building block both Define
// and the relocation step of the aliasing protocol (alias.go) use once
// they have already decided what Value belongs in the cell.
func (e *Environment) rawSet(ns Namespace, name string, v Value) {
	key := bindKey{ns, name}
	if idx, ok := e.bindings[key]; ok {
		e.arena[idx].v = v
		return
	}
	e.arena = append(e.arena, cell{v: v})
	e.bindings[key] = len(e.arena) - 1
}

// reversePointers returns the (possibly nil) reverse-alias set for
// (ns,name) in e's own frame.
func (e *Environment) reversePointers(ns Namespace, name string) []Pointer {
	set := e.pointers[bindKey{ns, name}]
	if set == nil {
		return nil
	}
	return *set
}

// setReversePointers replaces the reverse-alias set for (ns,name) in e's
// own frame.
func (e *Environment) setReversePointers(ns Namespace, name string, set []Pointer) {
	key := bindKey{ns, name}
	p := e.pointers[key]
	if p == nil {
		p = new([]Pointer)
		e.pointers[key] = p
	}
	*p = set
}

func (e *Environment) addReversePointer(ns Namespace, name string, alias Pointer) {
	e.setReversePointers(ns, name, append(e.reversePointers(ns, name), alias))
}
