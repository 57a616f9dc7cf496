// Package redirect maps the intercepted symbol names onto this layer's
// replacement implementations. Consumers that fetch their windowing-system
// symbols dynamically are pointed here instead of at the real library; every
// name the table does not know falls back to the host's normal resolution.
package redirect

// Resolver is the host's normal symbol resolution (dlsym in production).
type Resolver func(handle uintptr, name string) uintptr

// Addresses holds the C-callable entry points of the replacements. Zero
// means "no replacement"; such names fall through to the resolver.
type Addresses struct {
	LookupString uintptr
	Pending      uintptr
	EventsQueued uintptr
	FilterEvent  uintptr
	NextEvent    uintptr
	OpenIM       uintptr
	CreateIC     uintptr
}

// Symbol names as exported by the native library.
const (
	symLookupString = "Xutf8LookupString"
	symPending      = "XPending"
	symEventsQueued = "XEventsQueued"
	symFilterEvent  = "XFilterEvent"
	symNextEvent    = "XNextEvent"
	symOpenIM       = "XOpenIM"
	symCreateIC     = "XCreateIC"
)

type Table struct {
	names    map[string]uintptr
	fallback Resolver
}

func NewTable(addrs Addresses, fallback Resolver) *Table {
	names := map[string]uintptr{
		symLookupString: addrs.LookupString,
		symPending:      addrs.Pending,
		symEventsQueued: addrs.EventsQueued,
		symFilterEvent:  addrs.FilterEvent,
		symNextEvent:    addrs.NextEvent,
		symOpenIM:       addrs.OpenIM,
		symCreateIC:     addrs.CreateIC,
	}
	for name, addr := range names {
		if addr == 0 {
			delete(names, name)
		}
	}
	return &Table{names: names, fallback: fallback}
}

// Resolve returns the replacement address for an intercepted name and
// delegates everything else to the fallback resolver.
func (t *Table) Resolve(handle uintptr, name string) uintptr {
	if addr, ok := t.names[name]; ok {
		return addr
	}
	if t.fallback == nil {
		return 0
	}
	return t.fallback(handle, name)
}

// Intercepts reports whether the table replaces the named symbol.
func (t *Table) Intercepts(name string) bool {
	_, ok := t.names[name]
	return ok
}
