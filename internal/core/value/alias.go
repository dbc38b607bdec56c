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

// Define writes v to (ns,name) in e's own frame. If the name is already
// frame-local it behaves as Set scoped to this frame (the full aliasing
// protocol runs, but there is never a chain search, since the binding is
// already known to live here); otherwise a brand new cell is created, and
// only step 1 of the protocol (resolving what to store) applies -- a fresh
// cell cannot have pre-existing aliases to relocate.
func (e *Environment) Define(ns Namespace, name string, v Value) error {
	resolved, err := e.resolveStore(ns, name, v)
	if err != nil {
		return err
	}
	if e.IsBound(ns, name) {
		e.relocate(ns, name)
	}
	e.rawSet(ns, name, resolved)
	return nil
}

// Set mutates the binding (ns,name) wherever it is found in the frame
// chain, running the full aliasing protocol on the frame that owns it.
// UnboundVar if the name is not bound anywhere in the chain.
func (e *Environment) Set(ns Namespace, name string, v Value) error {
	owner := e.FindEnv(ns, name)
	if owner == nil {
		return herr.ErrUnboundVar(name)
	}
	resolved, err := owner.resolveStore(ns, name, v)
	if err != nil {
		return err
	}
	owner.relocate(ns, name)
	owner.rawSet(ns, name, resolved)
	return nil
}

// resolveStore implements step 1 of the aliasing protocol: decide what
// Value actually belongs in the cell about to be written.
//
// If v is itself a Pointer(p, Ep) and the binding it targets currently
// holds an object (spec section 4.1's is-object), the pointer is recorded
// as a new reverse alias of that binding, and the pointer itself -- not
// the dereferenced value -- is what gets stored. Otherwise (v is not a
// Pointer, or it points at a non-object) the pointer is dereferenced
// immediately and the concrete value is what gets stored. If the target is
// unbound, its UnboundVar error is returned and nothing is stored.
func (e *Environment) resolveStore(ns Namespace, name string, v Value) (Value, error) {
	ptr, ok := v.(Pointer)
	if !ok {
		return v, nil
	}
	target, err := ptr.Target.Get(ptr.NS, ptr.Name)
	if err != nil {
		// Unbound target: nothing sensible to alias; store nothing useful
		// back, propagate the error instead.
		return nil, err
	}
	if IsObject(target) {
		ptr.Target.addReversePointer(ptr.NS, ptr.Name, Pointer{Name: name, NS: ns, Target: e})
		return ptr, nil
	}
	return target, nil
}

// relocate implements step 2 of the aliasing protocol: before a binding
// with a nonempty reverse-alias set is overwritten, the old value must
// survive through its aliases. The oldest alias (the spec's frozen answer
// to the ambiguous >1-alias case, see DESIGN.md) becomes the new canonical
// holder of the old value; every other alias is rewritten to point at it
// instead of at the binding about to change.
func (e *Environment) relocate(ns Namespace, name string) {
	aliases := e.reversePointers(ns, name)
	if len(aliases) == 0 {
		return
	}
	oldValue, _ := e.Get(ns, name)

	canonical := aliases[0]
	rest := aliases[1:]

	canonical.Target.rawSet(canonical.NS, canonical.Name, oldValue)

	newCanonicalSet := make([]Pointer, 0, len(rest))
	for _, alias := range rest {
		alias.Target.rawSet(alias.NS, alias.Name, Pointer{Name: canonical.Name, NS: canonical.NS, Target: canonical.Target})
		newCanonicalSet = append(newCanonicalSet, alias)
	}
	canonical.Target.setReversePointers(canonical.NS, canonical.Name, newCanonicalSet)
	e.setReversePointers(ns, name, nil)
}

// Deref returns v unchanged if it is not a Pointer; otherwise it reads the
// pointed-to binding.
func Deref(v Value) (Value, error) {
	ptr, ok := v.(Pointer)
	if !ok {
		return v, nil
	}
	return ptr.Target.Get(ptr.NS, ptr.Name)
}

// DerefDeep resolves v and, for the aggregate kinds, any Pointer found
// among its elements -- in place, on the container's own backing storage.
// It never allocates a replacement List/Pair/Vector/HashTable merely to
// normalize contents that contain no Pointer leaf: the aggregate handed
// back is the same object the caller passed in (or the same object an
// environment binding shares with other aliases of it), so a primitive
// like vector-set! that subsequently mutates it by index is mutating the
// binding, not a throwaway copy (spec Testable Property P5). The
// evaluator calls this only when handing values to primitives that need
// concrete data (spec section 4.2), not on every read.
func DerefDeep(v Value) (Value, error) {
	v, err := Deref(v)
	if err != nil {
		return nil, err
	}
	switch x := v.(type) {
	case *List:
		for i, el := range x.Elems {
			d, err := DerefDeep(el)
			if err != nil {
				return nil, err
			}
			x.Elems[i] = d
		}
		return x, nil
	case *Pair:
		for i, el := range x.Head {
			d, err := DerefDeep(el)
			if err != nil {
				return nil, err
			}
			x.Head[i] = d
		}
		tail, err := DerefDeep(x.Tail)
		if err != nil {
			return nil, err
		}
		x.Tail = tail
		return x, nil
	case *Vector:
		for i, el := range x.Elems {
			d, err := DerefDeep(el)
			if err != nil {
				return nil, err
			}
			x.Elems[i] = d
		}
		return x, nil
	case *HashTable:
		for _, kv := range x.Entries() {
			dk, err := DerefDeep(kv.Key)
			if err != nil {
				return nil, err
			}
			dv, err := DerefDeep(kv.Val)
			if err != nil {
				return nil, err
			}
			if dk != kv.Key {
				x.Delete(kv.Key)
			}
			if dk != kv.Key || dv != kv.Val {
				x.Set(dk, dv)
			}
		}
		return x, nil
	default:
		return v, nil
	}
}
