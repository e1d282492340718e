package runtime

import (
	"sort"
	"strings"

	"github.com/chazu/harriet/tree"
)

// Origin tags which universe a listed handler comes from.
type Origin string

const (
	OriginDynamic Origin = "dynamic"
	OriginStatic  Origin = "static"
)

// Entry is one listed handler. Listings are ordered sequences, never bare
// sets: clients render menus and autocomplete from them, so order is part of
// the contract.
type Entry struct {
	Origin Origin
	Name   string
}

// Listing enumerates the handlers visible to this context, optionally
// filtered. A pattern either names a handler exactly or, with a "~" prefix,
// matches every name starting with its remainder. No patterns means no
// filter.
//
// Unless the requesting handler is privileged, protected names (dot- or
// underscore-prefixed, or with an underscore-prefixed namespace segment) are
// never listed, filters notwithstanding. An active whitelist then drops
// everything it does not allow.
//
// The order is a documented total order: dynamic entries before static ones,
// unnamespaced names before namespaced names within a group, then
// lexicographic on the full name.
func (c *Context) Listing(patterns []string) []Entry {
	var entries []Entry
	for _, name := range c.Registry.Names() {
		entries = append(entries, Entry{OriginDynamic, name})
	}
	for _, name := range c.Statics.Names() {
		entries = append(entries, Entry{OriginStatic, name})
	}

	privileged := Privileged(c.Handler)
	out := entries[:0]
	for _, e := range entries {
		if !privileged && hiddenFromListing(e.Name) {
			continue
		}
		if !matchesAny(e.Name, patterns) {
			continue
		}
		if !c.Ticket.Allows(e.Name) {
			continue
		}
		out = append(out, e)
	}

	sort.SliceStable(out, func(i, j int) bool {
		a, b := out[i], out[j]
		if a.Origin != b.Origin {
			return a.Origin == OriginDynamic
		}
		an, bn := Namespaced(a.Name), Namespaced(b.Name)
		if an != bn {
			return !an
		}
		return a.Name < b.Name
	})
	return out
}

// ListingTree renders a listing as a Node tree for handler-level consumers:
// one child per entry, child name = handler name, child value = origin.
func (c *Context) ListingTree(patterns []string) *tree.Node {
	root := tree.New("handlers")
	for _, e := range c.Listing(patterns) {
		root.Append(tree.NewValue(e.Name, string(e.Origin)))
	}
	return root
}

// matchesAny applies the filter patterns; an empty pattern list admits all.
func matchesAny(name string, patterns []string) bool {
	if len(patterns) == 0 {
		return true
	}
	for _, p := range patterns {
		if prefix, ok := strings.CutPrefix(p, "~"); ok {
			if strings.HasPrefix(name, prefix) {
				return true
			}
		} else if name == p {
			return true
		}
	}
	return false
}
