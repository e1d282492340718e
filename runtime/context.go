package runtime

import (
	"github.com/tliron/commonlog"

	"github.com/chazu/harriet/tree"
)

// Evaluator runs a handler body against an argument tree. Results are
// deposited by mutating args in place; there is no separate return channel.
// An evaluator may call back into the registry and dispatcher (handler
// bodies routinely define, remove, and invoke other handlers), which is why
// the registry lock is never held while Evaluate runs.
type Evaluator interface {
	Evaluate(body, args *tree.Node, ctx *Context) error
}

// Context is the ambient object threaded through every registry operation.
// It is explicitly constructed and injected, never a package global, so
// tests can run any number of independent runtimes side by side.
//
// Handler is the name of the handler currently executing; it is the caller
// identity for privilege checks and is empty at the top of a call chain.
type Context struct {
	Statics   *StaticTable
	Registry  *Registry
	Ticket    *Ticket
	Evaluator Evaluator
	Metrics   *Metrics
	Log       commonlog.Logger
	Handler   string
}

// NewContext wires a runtime: a static table, a fresh registry checked
// against it, an unrestricted ticket, and metrics.
func NewContext(statics *StaticTable, evaluator Evaluator) *Context {
	return &Context{
		Statics:   statics,
		Registry:  NewRegistry(statics),
		Ticket:    NewTicket(),
		Evaluator: evaluator,
		Metrics:   NewMetrics(),
		Log:       commonlog.GetLogger("harriet.runtime"),
	}
}

// WithHandler derives a context that runs as the named handler. The shared
// runtime state (registry, statics, metrics) is the same object.
func (c *Context) WithHandler(name string) *Context {
	derived := *c
	derived.Handler = name
	return &derived
}

// WithTicket derives a context carrying a different security scope.
func (c *Context) WithTicket(ticket *Ticket) *Context {
	derived := *c
	derived.Ticket = ticket
	return &derived
}

// Define installs a dynamic handler using the current handler as the caller
// identity.
func (c *Context) Define(name string, body []*tree.Node) error {
	if err := c.Registry.Define(name, body, c.Handler); err != nil {
		return err
	}
	c.Metrics.countDefine()
	return nil
}

// Remove deletes a dynamic handler using the current handler as the caller
// identity.
func (c *Context) Remove(name string) error {
	if err := c.Registry.Remove(name, c.Handler); err != nil {
		return err
	}
	c.Metrics.countRemove()
	return nil
}

// DefineOrRemove is the create-or-delete entry point: a non-empty body
// defines, an empty body removes.
func (c *Context) DefineOrRemove(name string, supplied []*tree.Node) error {
	if len(supplied) > 0 {
		return c.Define(name, supplied)
	}
	return c.Remove(name)
}
