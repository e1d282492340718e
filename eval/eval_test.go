package eval

import (
	"strings"
	"testing"

	"github.com/chazu/harriet/runtime"
	"github.com/chazu/harriet/tree"
)

func newCtx() *runtime.Context {
	return runtime.NewContext(runtime.NewStaticTable(runtime.CoreHandlers()), New())
}

// ---------------------------------------------------------------------------
// Op behavior
// ---------------------------------------------------------------------------

func TestSetOp(t *testing.T) {
	ctx := newCtx()
	b := tree.New("h",
		tree.New("set", tree.NewValue("greeting", "hello")),
	)
	args := tree.New("args")
	if err := New().Evaluate(b, args, ctx); err != nil {
		t.Fatal(err)
	}
	if args.ChildStr("greeting") != "hello" {
		t.Errorf("set did not write args: %v", args)
	}
}

func TestCallOpDepositsResults(t *testing.T) {
	ctx := newCtx()
	b := tree.New("h",
		&tree.Node{Name: "call", Value: "echo", Children: []*tree.Node{
			tree.NewValue("msg", "ping"),
		}},
	)
	args := tree.New("args")
	if err := New().Evaluate(b, args, ctx); err != nil {
		t.Fatal(err)
	}
	if args.At("echo", "echo", "msg").Str() != "ping" {
		t.Errorf("call results missing: %v", args)
	}
}

func TestCallUnknownHandlerFails(t *testing.T) {
	ctx := newCtx()
	b := tree.New("h", tree.NewValue("call", "no.such"))
	err := New().Evaluate(b, tree.New("args"), ctx)
	if err == nil || !strings.Contains(err.Error(), "unknown handler") {
		t.Errorf("Evaluate = %v, want unknown handler error", err)
	}
}

func TestUnknownOpFails(t *testing.T) {
	ctx := newCtx()
	b := tree.New("h", tree.New("frobnicate"))
	if err := New().Evaluate(b, tree.New("args"), ctx); err == nil {
		t.Error("unknown op accepted")
	}
}

func TestFailOp(t *testing.T) {
	ctx := newCtx()
	b := tree.New("h", tree.NewValue("fail", "on purpose"))
	err := New().Evaluate(b, tree.New("args"), ctx)
	if err == nil || !strings.Contains(err.Error(), "on purpose") {
		t.Errorf("fail op error = %v", err)
	}
}

// ---------------------------------------------------------------------------
// Registry re-entrancy through op bodies
// ---------------------------------------------------------------------------

// TestBodyDefinesAndCallsHandler runs a body that defines a second handler
// and then dispatches it, all within one evaluation.
func TestBodyDefinesAndCallsHandler(t *testing.T) {
	ctx := newCtx()
	b := tree.New("h",
		&tree.Node{Name: "define", Value: "made", Children: []*tree.Node{
			tree.New("set", tree.NewValue("from", "made")),
		}},
		tree.NewValue("call", "made"),
	)
	args := tree.New("args")
	if err := New().Evaluate(b, args, ctx); err != nil {
		t.Fatal(err)
	}
	if args.At("made", "from").Str() != "made" {
		t.Errorf("nested handler results missing: %v", args)
	}
}

// TestSelfRemoveOp dispatches a handler whose body removes its own name.
func TestSelfRemoveOp(t *testing.T) {
	ctx := newCtx()
	bodyChildren := []*tree.Node{
		tree.New("self.remove"),
		tree.New("set", tree.NewValue("done", true)),
	}
	if err := ctx.Define("once", bodyChildren); err != nil {
		t.Fatal(err)
	}

	args := tree.New("args")
	if err := ctx.MustDispatch("once", args); err != nil {
		t.Fatal(err)
	}
	if args.Child("done") == nil {
		t.Error("body did not run to completion")
	}
	if _, ok := ctx.Registry.Lookup("once"); ok {
		t.Error("self.remove left the handler defined")
	}
}

// TestBodyErrorPropagatesThroughDispatch confirms the dispatcher neither
// swallows nor rewraps body failures beyond the evaluator's own context.
func TestBodyErrorPropagatesThroughDispatch(t *testing.T) {
	ctx := newCtx()
	if err := ctx.Define("bad", []*tree.Node{tree.NewValue("fail", "nope")}); err != nil {
		t.Fatal(err)
	}
	outcome, err := ctx.Dispatch("bad", tree.New("args"))
	if outcome != runtime.HandledDynamic {
		t.Errorf("outcome = %v, want HandledDynamic", outcome)
	}
	if err == nil || !strings.Contains(err.Error(), "nope") {
		t.Errorf("err = %v, want body failure", err)
	}
}

func TestOperandNameValidation(t *testing.T) {
	ctx := newCtx()
	for _, op := range []*tree.Node{
		tree.New("call"),            // no operand
		tree.NewValue("define", 42), // wrong type
		tree.NewValue("remove", ""), // empty
	} {
		b := tree.New("h", op)
		if err := New().Evaluate(b, tree.New("args"), ctx); err == nil {
			t.Errorf("op %v accepted without a name operand", op)
		}
	}
}
