package runtime

import (
	"fmt"
	"sort"
	"sync"

	"github.com/tliron/commonlog"

	"github.com/chazu/harriet/tree"
)

// ---------------------------------------------------------------------------
// Registry: the process-wide dynamic handler map
// ---------------------------------------------------------------------------

// Registry holds the dynamic handlers: name → body tree. One registry
// instance lives for the whole process; all mutation and lookup goes through
// a single reader/writer lock covering the whole map.
//
// The registry owns the canonical copy of every body. Bodies are cloned on
// the way in (Define) and on the way out (Lookup), so no caller ever aliases
// stored state. The lock is held only around map access, never across
// evaluation; that is what lets a running handler legally redefine or delete
// handlers, including itself.
type Registry struct {
	mu       sync.RWMutex
	handlers map[string]*tree.Node

	statics *StaticTable
	log     commonlog.Logger
}

// NewRegistry creates an empty registry. The static table is consulted for
// name-collision checks; dynamic handlers may never shadow a compiled one.
func NewRegistry(statics *StaticTable) *Registry {
	return &Registry{
		handlers: make(map[string]*tree.Node),
		statics:  statics,
		log:      commonlog.GetLogger("harriet.registry"),
	}
}

// checkName applies the shared naming rules for Define and Remove.
func checkName(name, caller string) error {
	if name == "" {
		return ErrNameRequired
	}
	if Protected(name) && !Privileged(caller) {
		return fmt.Errorf("%w: %q (caller %q)", ErrNameProtected, name, caller)
	}
	return nil
}

// Define installs a dynamic handler under name, replacing any prior dynamic
// definition with the same name. The stored body is a deep clone of the
// supplied children; later mutation of the caller's tree cannot corrupt the
// stored definition.
func (r *Registry) Define(name string, body []*tree.Node, caller string) error {
	if err := checkName(name, caller); err != nil {
		return err
	}
	if r.statics.Has(name) {
		return fmt.Errorf("%w: %q", ErrDuplicateDefinition, name)
	}

	stored := &tree.Node{Name: name, Children: tree.CloneChildren(body)}

	r.mu.Lock()
	r.handlers[name] = stored
	r.mu.Unlock()

	r.log.Infof("defined handler %q (%d nodes, caller %q)", name, len(body), caller)
	return nil
}

// Remove deletes a dynamic handler. Removing a name that is not defined is
// a no-op, not an error.
func (r *Registry) Remove(name, caller string) error {
	if err := checkName(name, caller); err != nil {
		return err
	}

	r.mu.Lock()
	_, existed := r.handlers[name]
	delete(r.handlers, name)
	r.mu.Unlock()

	if existed {
		r.log.Infof("removed handler %q (caller %q)", name, caller)
	}
	return nil
}

// DefineOrRemove serves the public create-or-delete entry point: a non-empty
// body defines, an empty body removes.
func (r *Registry) DefineOrRemove(name string, supplied []*tree.Node, caller string) error {
	if len(supplied) > 0 {
		return r.Define(name, supplied, caller)
	}
	return r.Remove(name, caller)
}

// Lookup returns a deep clone of the named handler's body. The registry's
// own copy is never handed out. The clone is taken while the read lock is
// held, so a concurrent redefine can never tear the body being copied.
func (r *Registry) Lookup(name string) (*tree.Node, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	stored, ok := r.handlers[name]
	if !ok {
		return nil, false
	}
	return stored.Clone(), true
}

// Names returns a sorted snapshot of the currently defined handler names.
func (r *Registry) Names() []string {
	r.mu.RLock()
	names := make([]string, 0, len(r.handlers))
	for name := range r.handlers {
		names = append(names, name)
	}
	r.mu.RUnlock()

	sort.Strings(names)
	return names
}

// Len returns the number of dynamic handlers currently defined.
func (r *Registry) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.handlers)
}
