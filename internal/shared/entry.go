package shared

import (
	"reflect"
	"slices"
)

// entry is the registry's record for one tag. creator and declared are fixed
// at construction; value is never nil while the entry is in the registry,
// and the entry is removed in the same critical section that empties
// consumers.
type entry struct {
	creator   Identity
	value     any
	declared  reflect.Type
	consumers map[Identity]struct{}
}

func newEntry(creator Identity, value any, declared reflect.Type) *entry {
	return &entry{
		creator:   creator,
		value:     value,
		declared:  declared,
		consumers: map[Identity]struct{}{creator: {}},
	}
}

// attach records id as a consumer and reports whether it was new.
func (e *entry) attach(id Identity) bool {
	if _, ok := e.consumers[id]; ok {
		return false
	}
	e.consumers[id] = struct{}{}
	return true
}

// detach removes id and reports whether it was a consumer.
func (e *entry) detach(id Identity) bool {
	if _, ok := e.consumers[id]; !ok {
		return false
	}
	delete(e.consumers, id)
	return true
}

func (e *entry) empty() bool {
	return len(e.consumers) == 0
}

// consumerList returns a sorted copy of the consumer set.
func (e *entry) consumerList() []Identity {
	out := make([]Identity, 0, len(e.consumers))
	for id := range e.consumers {
		out = append(out, id)
	}
	slices.Sort(out)
	return out
}

func typeName(t reflect.Type) string {
	if t == nil {
		return "<nil>"
	}
	return t.String()
}
