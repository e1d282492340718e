package runtime

// Ticket is the security scope a calling context carries into every
// dispatch. A nil whitelist means unrestricted; a non-nil whitelist names
// the only handlers the context may see or invoke.
//
// A Ticket belongs to one chain of calls. It is not safe for concurrent use
// from multiple goroutines; parallel requests each carry their own.
type Ticket struct {
	whitelist map[string]bool // nil = unrestricted
}

// NewTicket creates an unrestricted ticket.
func NewTicket() *Ticket {
	return &Ticket{}
}

// RestrictedTicket creates a ticket that only allows the given names.
func RestrictedTicket(allowed []string) *Ticket {
	m := make(map[string]bool, len(allowed))
	for _, name := range allowed {
		m[name] = true
	}
	return &Ticket{whitelist: m}
}

// Restricted reports whether a whitelist is active.
func (t *Ticket) Restricted() bool {
	return t != nil && t.whitelist != nil
}

// Allows reports whether the ticket permits the named handler. An
// unrestricted ticket allows everything.
func (t *Ticket) Allows(name string) bool {
	if !t.Restricted() {
		return true
	}
	return t.whitelist[name]
}

// Suspend detaches the whitelist and returns a restore function. The
// dispatcher defers the restore around a dynamic body's evaluation, so the
// body runs unrestricted and the whitelist comes back even when the body
// fails or panics.
func (t *Ticket) Suspend() (restore func()) {
	if t == nil {
		return func() {}
	}
	saved := t.whitelist
	t.whitelist = nil
	return func() { t.whitelist = saved }
}
