package shared

import (
	"errors"
	"slices"
	"sync"
)

// Handle is the registry as seen by one consumer identity. Every typed
// operation goes through a Handle, so the identity is always explicit.
//
// A Handle also remembers which tags it currently holds, which lets the host
// release everything a component acquired when the component stops, even if
// the component never relinquished on its own.
type Handle struct {
	reg *Registry
	id  Identity

	// mu guards held. It is only ever taken after the registry lock, or
	// without it, never the other way round.
	mu   sync.Mutex
	held map[string]struct{}
}

// Identity returns the consumer identity bound to h.
func (h *Handle) Identity() Identity {
	return h.id
}

// Relinquish tells the registry that this identity no longer needs tag. It
// is a no-op for unknown tags and for tags this identity does not consume.
// The returned error is only ever a disposal failure of the last consumer.
func (h *Handle) Relinquish(tag string) error {
	return h.reg.relinquish(h, tag)
}

// RelinquishAll relinquishes every tag acquired through h.
func (h *Handle) RelinquishAll() error {
	var errs []error
	for _, tag := range h.Held() {
		if err := h.Relinquish(tag); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

// Held returns the tags acquired through h and not yet relinquished, sorted.
func (h *Handle) Held() []string {
	h.mu.Lock()
	defer h.mu.Unlock()
	tags := make([]string, 0, len(h.held))
	for tag := range h.held {
		tags = append(tags, tag)
	}
	slices.Sort(tags)
	return tags
}

// ListShares is a shortcut for the owning registry's ListShares.
func (h *Handle) ListShares() []Share {
	return h.reg.ListShares()
}

func (h *Handle) hold(tag string) {
	h.mu.Lock()
	h.held[tag] = struct{}{}
	h.mu.Unlock()
}

func (h *Handle) release(tag string) {
	h.mu.Lock()
	delete(h.held, tag)
	h.mu.Unlock()
}
