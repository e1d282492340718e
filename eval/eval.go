// Package eval is the reference evaluator for harriet handler bodies.
//
// A body is a sequence of op nodes interpreted in order; each op node's name
// selects the operation, its value and children are the operands, and all
// results land in the argument tree. This is deliberately a small built-in
// op set, not the full scripting language: it is what the runtime itself
// needs to load, test, and bootstrap handlers.
package eval

import (
	"fmt"

	"github.com/chazu/harriet/runtime"
	"github.com/chazu/harriet/tree"
)

// Interpreter executes handler bodies. It is stateless; all state lives in
// the argument tree and the runtime context, so one interpreter serves any
// number of concurrent dispatches.
type Interpreter struct{}

// New creates an Interpreter.
func New() *Interpreter {
	return &Interpreter{}
}

// Evaluate runs body's children as ops against args, mutating args in
// place. It satisfies runtime.Evaluator.
func (in *Interpreter) Evaluate(body, args *tree.Node, ctx *runtime.Context) error {
	for _, op := range body.Children {
		if err := in.step(op, args, ctx); err != nil {
			return fmt.Errorf("eval: op %q in %q: %w", op.Name, body.Name, err)
		}
	}
	return nil
}

func (in *Interpreter) step(op, args *tree.Node, ctx *runtime.Context) error {
	switch op.Name {
	case "set":
		// Write each operand child into args by name.
		for _, c := range op.Children {
			args.Put(c.Clone())
		}
		if op.Value != nil {
			args.Value = op.Value
		}
		return nil

	case "call":
		// Dispatch another handler; operand children seed its arguments,
		// and its results come back under a child named after the callee.
		name, err := operandName(op)
		if err != nil {
			return err
		}
		callArgs := tree.New("args", tree.CloneChildren(op.Children)...)
		if err := ctx.MustDispatch(name, callArgs); err != nil {
			return err
		}
		args.Put(&tree.Node{Name: name, Value: callArgs.Value, Children: callArgs.Children})
		return nil

	case "define":
		name, err := operandName(op)
		if err != nil {
			return err
		}
		return ctx.Define(name, op.Children)

	case "remove":
		name, err := operandName(op)
		if err != nil {
			return err
		}
		return ctx.Remove(name)

	case "self.remove":
		// Remove the handler currently executing.
		return ctx.Remove(ctx.Handler)

	case "fail":
		return fmt.Errorf("handler failed: %s", op.Str())

	default:
		return fmt.Errorf("unknown op")
	}
}

// operandName extracts the op's string operand from its value.
func operandName(op *tree.Node) (string, error) {
	name, ok := op.Value.(string)
	if !ok || name == "" {
		return "", fmt.Errorf("needs a handler name operand")
	}
	return name, nil
}
