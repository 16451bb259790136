package catalog

import "sync/atomic"

// Holder publishes the current catalog. Readers always see a complete
// catalog; replacement swaps the whole object.
type Holder struct {
	current atomic.Pointer[Catalog]
}

// NewHolder returns a holder initialised with c.
func NewHolder(c *Catalog) *Holder {
	h := &Holder{}
	h.Store(c)
	return h
}

// Load returns the current catalog.
func (h *Holder) Load() *Catalog {
	return h.current.Load()
}

// Store replaces the current catalog.
func (h *Holder) Store(c *Catalog) {
	h.current.Store(c)
}
