package preload

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/chazu/harriet/eval"
	"github.com/chazu/harriet/runtime"
	"github.com/chazu/harriet/tree"
)

func newCtx() *runtime.Context {
	return runtime.NewContext(runtime.NewStaticTable(runtime.CoreHandlers()), eval.New())
}

func TestTreeDefinesHandlers(t *testing.T) {
	ctx := newCtx()
	root := tree.New("handlers",
		tree.New("greet", tree.New("set", tree.NewValue("greeting", "hi"))),
		tree.New(".internal", tree.New("set")),
	)

	count, err := Tree(ctx, root)
	if err != nil {
		t.Fatal(err)
	}
	if count != 2 {
		t.Errorf("count = %d, want 2", count)
	}
	if _, ok := ctx.Registry.Lookup("greet"); !ok {
		t.Error("greet not defined")
	}
	// The boot caller is privileged, so protected names load too.
	if _, ok := ctx.Registry.Lookup(".internal"); !ok {
		t.Error("protected name not defined by boot caller")
	}
}

func TestTreeStopsOnCollision(t *testing.T) {
	ctx := newCtx()
	root := tree.New("handlers",
		tree.New("ok", tree.New("set")),
		tree.New("echo", tree.New("set")), // collides with a static
		tree.New("after", tree.New("set")),
	)

	count, err := Tree(ctx, root)
	if err == nil {
		t.Fatal("collision accepted")
	}
	if count != 1 {
		t.Errorf("count = %d, want 1 (definitions before the failure)", count)
	}
	if _, ok := ctx.Registry.Lookup("after"); ok {
		t.Error("definition after the failure was applied")
	}
}

func TestFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "defs.json")
	content := `{"name":"handlers","children":[
		{"name":"greet","children":[
			{"name":"set","children":[{"name":"greeting","value":"hello"}]}
		]}
	]}`
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatal(err)
	}

	ctx := newCtx()
	count, err := File(ctx, path)
	if err != nil {
		t.Fatal(err)
	}
	if count != 1 {
		t.Errorf("count = %d, want 1", count)
	}

	args := tree.New("args")
	if err := ctx.MustDispatch("greet", args); err != nil {
		t.Fatal(err)
	}
	if args.ChildStr("greeting") != "hello" {
		t.Errorf("preloaded handler misbehaved: %v", args)
	}
}

func TestFileMissing(t *testing.T) {
	if _, err := File(newCtx(), filepath.Join(t.TempDir(), "nope.json")); err == nil {
		t.Error("missing file accepted")
	}
}

func TestFileBadJSON(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "bad.json")
	if err := os.WriteFile(path, []byte("{"), 0644); err != nil {
		t.Fatal(err)
	}
	if _, err := File(newCtx(), path); err == nil {
		t.Error("bad JSON accepted")
	}
}
