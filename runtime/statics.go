package runtime

import (
	"sort"

	"github.com/chazu/harriet/tree"
)

// StaticFunc is the compiled form of a handler: it reads its arguments from
// args and deposits results by mutating args in place.
type StaticFunc func(ctx *Context, args *tree.Node) error

// StaticHandler declares one compiled-in handler for table construction.
type StaticHandler struct {
	Name string
	Func StaticFunc
}

// StaticTable is the immutable set of compiled-in handlers. It is built once
// at startup from a declarative list and never mutated afterward, so reads
// need no locking.
type StaticTable struct {
	handlers map[string]StaticFunc
	names    []string // sorted
}

// NewStaticTable builds a table from a declarative handler list. A later
// entry with a duplicate name replaces the earlier one.
func NewStaticTable(handlers []StaticHandler) *StaticTable {
	t := &StaticTable{handlers: make(map[string]StaticFunc, len(handlers))}
	for _, h := range handlers {
		t.handlers[h.Name] = h.Func
	}
	t.names = make([]string, 0, len(t.handlers))
	for name := range t.handlers {
		t.names = append(t.names, name)
	}
	sort.Strings(t.names)
	return t
}

// Has reports whether a compiled handler exists under the given name.
func (t *StaticTable) Has(name string) bool {
	_, ok := t.handlers[name]
	return ok
}

// Names returns the sorted handler names. The returned slice is a copy.
func (t *StaticTable) Names() []string {
	out := make([]string, len(t.names))
	copy(out, t.names)
	return out
}

// Invoke runs the named compiled handler against args. The first return
// value reports whether a handler existed; errors come from the handler
// itself.
func (t *StaticTable) Invoke(name string, args *tree.Node, ctx *Context) (bool, error) {
	fn, ok := t.handlers[name]
	if !ok {
		return false, nil
	}
	return true, fn(ctx, args)
}
