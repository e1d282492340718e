package runtime

import "errors"

// Sentinel errors for the registry's naming and security rules. Callers
// match them with errors.Is; the wrapped form carries the offending name.
var (
	// ErrNameRequired is returned when an operation is given no handler name.
	ErrNameRequired = errors.New("runtime: handler name is required")

	// ErrNameProtected is returned when a non-privileged caller tries to
	// define or remove a protected name.
	ErrNameProtected = errors.New("runtime: handler name is protected")

	// ErrDuplicateDefinition is returned when a dynamic definition would
	// shadow a static handler.
	ErrDuplicateDefinition = errors.New("runtime: name collides with a static handler")

	// ErrNotAllowed is returned when the active whitelist denies a dispatch.
	ErrNotAllowed = errors.New("runtime: handler is not in the active whitelist")

	// ErrNoEvaluator is returned when a dynamic handler resolves but the
	// context has no evaluator to run it.
	ErrNoEvaluator = errors.New("runtime: no evaluator configured")
)
