// Package preload installs handler definitions from JSON tree files at
// startup. Preloaded definitions run under the privileged boot caller, so
// manifests may install protected names that the network API cannot touch.
package preload

import (
	"fmt"
	"os"

	"github.com/chazu/harriet/runtime"
	"github.com/chazu/harriet/tree"
	"github.com/chazu/harriet/wire"
)

// BootCaller is the caller identity for startup definitions. Dot-prefixed,
// therefore privileged.
const BootCaller = ".boot"

// File loads a JSON tree file and defines every handler in it. Returns the
// number of handlers defined.
func File(ctx *runtime.Context, path string) (int, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return 0, fmt.Errorf("preload: %w", err)
	}
	root, err := wire.UnmarshalNodeJSON(data)
	if err != nil {
		return 0, fmt.Errorf("preload: %s: %w", path, err)
	}
	count, err := Tree(ctx, root)
	if err != nil {
		return count, fmt.Errorf("preload: %s: %w", path, err)
	}
	return count, nil
}

// Tree defines every child of root as a handler: the child's name is the
// handler name and its children are the body.
func Tree(ctx *runtime.Context, root *tree.Node) (int, error) {
	for i, def := range root.Children {
		if err := ctx.Registry.Define(def.Name, def.Children, BootCaller); err != nil {
			return i, err
		}
	}
	return len(root.Children), nil
}
