package runtime

import (
	"fmt"

	"github.com/google/uuid"

	"github.com/chazu/harriet/tree"
)

// Outcome reports which stage of the resolver handled a dispatch.
type Outcome int

const (
	// Unhandled means neither a dynamic nor a static handler matched.
	Unhandled Outcome = iota
	// HandledDynamic means a dynamic handler body was evaluated.
	HandledDynamic
	// HandledStatic means a compiled handler ran.
	HandledStatic
)

func (o Outcome) String() string {
	switch o {
	case HandledDynamic:
		return "dynamic"
	case HandledStatic:
		return "static"
	default:
		return "unhandled"
	}
}

// Dispatch is the catch-all invocation path: it resolves name against the
// dynamic registry first, then the static table, and reports Unhandled when
// neither matches. The handler deposits its results by mutating args.
//
// Resolution clones the dynamic body under the read lock and releases the
// lock before evaluation. The body may therefore call Define, Remove,
// Lookup, or Dispatch again — including on its own name — without
// deadlocking.
//
// While a dynamic body runs, the ticket's whitelist is suspended: the body
// was authored by its definer, and gating its internal calls by the caller's
// whitelist would break capability delegation. The whitelist is restored
// unconditionally, failure or not.
func (c *Context) Dispatch(name string, args *tree.Node) (Outcome, error) {
	if name == "" {
		return Unhandled, ErrNameRequired
	}
	if !c.Ticket.Allows(name) {
		c.Metrics.countDispatch("denied")
		return Unhandled, fmt.Errorf("%w: %q", ErrNotAllowed, name)
	}

	id := uuid.NewString()[:8]

	body, ok := c.Registry.Lookup(name)
	if ok {
		if c.Evaluator == nil {
			return Unhandled, fmt.Errorf("%w: cannot run %q", ErrNoEvaluator, name)
		}
		c.Log.Debugf("[%s] dispatch %q -> dynamic", id, name)

		restore := c.Ticket.Suspend()
		defer restore()

		err := c.Evaluator.Evaluate(body, args, c.WithHandler(name))
		c.Metrics.countDispatch("dynamic")
		return HandledDynamic, err
	}

	handled, err := c.Statics.Invoke(name, args, c.WithHandler(name))
	if handled {
		c.Log.Debugf("[%s] dispatch %q -> static", id, name)
		c.Metrics.countDispatch("static")
		return HandledStatic, err
	}

	c.Log.Debugf("[%s] dispatch %q -> unhandled", id, name)
	c.Metrics.countDispatch("unhandled")
	return Unhandled, nil
}

// MustDispatch wraps Dispatch for callers that treat an unhandled name as an
// error in its own right.
func (c *Context) MustDispatch(name string, args *tree.Node) error {
	outcome, err := c.Dispatch(name, args)
	if err != nil {
		return err
	}
	if outcome == Unhandled {
		return fmt.Errorf("runtime: unknown handler %q", name)
	}
	return nil
}
