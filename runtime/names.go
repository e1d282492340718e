package runtime

import "strings"

// Separator joins namespace segments in handler names ("crypt.sign").
const Separator = "."

// Protected reports whether a name may only be defined or removed by a
// privileged caller: empty, underscore-prefixed, or dot-prefixed names.
func Protected(name string) bool {
	return name == "" ||
		strings.HasPrefix(name, "_") ||
		strings.HasPrefix(name, Separator)
}

// Namespaced reports whether a name contains a namespace separator. This has
// no protocol significance beyond enumeration ordering.
func Namespaced(name string) bool {
	return strings.Contains(name, Separator)
}

// Privileged reports whether a caller name grants access to protected
// handlers. Internal callers are dot-prefixed by convention.
func Privileged(caller string) bool {
	return strings.HasPrefix(caller, Separator)
}

// hiddenFromListing reports whether a name is withheld from non-privileged
// enumeration: dot-prefixed names and names with any underscore-prefixed
// segment.
func hiddenFromListing(name string) bool {
	if strings.HasPrefix(name, Separator) {
		return true
	}
	for _, seg := range strings.Split(name, Separator) {
		if strings.HasPrefix(seg, "_") {
			return true
		}
	}
	return false
}
