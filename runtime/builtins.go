package runtime

import (
	"time"

	"github.com/chazu/harriet/tree"
)

// CoreHandlers returns the declarative list the default static table is
// built from. The table is assembled explicitly at startup; there is no
// reflection-driven registration.
func CoreHandlers() []StaticHandler {
	return []StaticHandler{
		{"echo", echoHandler},
		{"clock.now", clockNowHandler},
		{"handlers.list", handlersListHandler},
		{"handlers.define", handlersDefineHandler},
	}
}

// echoHandler reflects the caller's arguments back under an "echo" child.
func echoHandler(_ *Context, args *tree.Node) error {
	args.Put(&tree.Node{Name: "echo", Value: args.Value, Children: tree.CloneChildren(args.Children)})
	return nil
}

// clockNowHandler deposits the current time as the args value.
func clockNowHandler(_ *Context, args *tree.Node) error {
	args.Value = time.Now().UTC().Format(time.RFC3339)
	return nil
}

// handlersListHandler exposes enumeration to scripts. Each "filter" child of
// args supplies one pattern; the result tree replaces the args children.
func handlersListHandler(ctx *Context, args *tree.Node) error {
	var patterns []string
	for _, c := range args.Children {
		if c.Name == "filter" {
			patterns = append(patterns, c.Str())
		}
	}
	args.Put(ctx.ListingTree(patterns))
	return nil
}

// handlersDefineHandler is the public create-or-delete entry point: a "name"
// child names the handler, and the children of a "body" child, if any,
// become the new body. No body means remove.
func handlersDefineHandler(ctx *Context, args *tree.Node) error {
	name := args.ChildStr("name")
	var supplied []*tree.Node
	if body := args.Child("body"); body != nil {
		supplied = body.Children
	}
	return ctx.DefineOrRemove(name, supplied)
}
