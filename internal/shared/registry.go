package shared

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"reflect"
	"slices"
	"sync"
)

// Disposer is implemented by shared values that hold resources which must be
// released when the last consumer relinquishes them. Values that only
// implement io.Closer are closed instead.
type Disposer interface {
	Dispose() error
}

// Registry maps tags to shared values. The zero value is not usable; create
// one with New. It is safe for concurrent use.
type Registry struct {
	mu      sync.Mutex
	entries map[string]*entry
	logger  *slog.Logger
}

// Option configures a Registry.
type Option func(*Registry)

// WithLogger sets the logger that receives creation, mismatch and disposal events.
func WithLogger(logger *slog.Logger) Option {
	return func(r *Registry) {
		if logger != nil {
			r.logger = logger
		}
	}
}

// New creates an empty Registry.
func New(opts ...Option) *Registry {
	r := &Registry{
		entries: make(map[string]*entry),
		logger:  slog.Default(),
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Handle returns a view of the registry bound to id. An empty id resolves to
// Unknown.
func (r *Registry) Handle(id Identity) *Handle {
	return &Handle{
		reg:  r,
		id:   normalizeIdentity(id),
		held: make(map[string]struct{}),
	}
}

// FromContext returns a Handle for the identity carried by ctx.
func (r *Registry) FromContext(ctx context.Context) *Handle {
	return r.Handle(IdentityFromContext(ctx))
}

// Len returns the number of live entries.
func (r *Registry) Len() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.entries)
}

// GetOrCreate returns the value stored under tag, registering the handle's
// identity as a consumer. If tag is not registered, gen is invoked exactly
// once, while the registry lock is held, and its result is stored with T as
// the declared type.
//
// T must be a reference type (pointer, interface, map, chan or func). When T
// is an interface the generated value must hold a reference type as well.
// gen must not call back into the registry.
func GetOrCreate[T any](h *Handle, tag string, gen func() (T, error)) (T, error) {
	var zero T
	want := reflect.TypeFor[T]()
	if err := validateRequest(h, tag, want); err != nil {
		return zero, err
	}
	if gen == nil {
		return zero, invalidRequestError(tag, h.id, "generator must not be nil")
	}

	r := h.reg
	r.mu.Lock()
	defer r.mu.Unlock()

	if e, ok := r.entries[tag]; ok {
		v, err := view[T](tag, e, h.id, want)
		if err != nil {
			r.logRejected(tag, e, h.id, want, err)
			return zero, err
		}
		r.attach(h, tag, e)
		return v, nil
	}

	v, err := generate(gen)
	if err != nil {
		r.logger.Error("Creating shared data failed.", "tag", tag, "caller", h.id, "type", typeName(want), "error", err)
		return zero, creationFailedError(tag, h.id, want, err)
	}

	r.entries[tag] = newEntry(h.id, v, want)
	h.hold(tag)
	r.logger.Info("Shared data created.", "tag", tag, "creator", h.id, "type", typeName(want))
	return v, nil
}

// TryGet returns the value stored under tag if it exists and can be viewed
// as T, registering the handle's identity as a consumer. Nothing changes when
// it reports false.
func TryGet[T any](h *Handle, tag string) (T, bool) {
	var zero T
	if h == nil {
		return zero, false
	}
	want := reflect.TypeFor[T]()

	r := h.reg
	r.mu.Lock()
	defer r.mu.Unlock()

	e, ok := r.entries[tag]
	if !ok {
		return zero, false
	}
	v, err := view[T](tag, e, h.id, want)
	if err != nil {
		r.logger.Debug("Shared data not usable as requested type.", "tag", tag, "caller", h.id, "requested_type", typeName(want), "stored_type", typeName(e.declared))
		return zero, false
	}
	r.attach(h, tag, e)
	return v, true
}

// Get is the strict form of TryGet. It fails with a NotFound, TypeMismatch
// or NullValue error instead of reporting false.
func Get[T any](h *Handle, tag string) (T, error) {
	var zero T
	if h == nil {
		return zero, invalidRequestError(tag, Unknown, "handle must not be nil")
	}
	want := reflect.TypeFor[T]()

	r := h.reg
	r.mu.Lock()
	defer r.mu.Unlock()

	e, ok := r.entries[tag]
	if !ok {
		return zero, notFoundError(tag, h.id)
	}
	v, err := view[T](tag, e, h.id, want)
	if err != nil {
		r.logRejected(tag, e, h.id, want, err)
		return zero, err
	}
	r.attach(h, tag, e)
	return v, nil
}

// ListShares returns a point-in-time snapshot of every entry, ordered by tag.
func (r *Registry) ListShares() []Share {
	r.mu.Lock()
	defer r.mu.Unlock()

	shares := make([]Share, 0, len(r.entries))
	for _, tag := range r.sortedTags() {
		e := r.entries[tag]
		shares = append(shares, Share{
			Tag:       tag,
			Creator:   e.creator,
			Consumers: e.consumerList(),
			Type:      typeName(e.declared),
		})
	}
	return shares
}

// Close drops every entry that is still registered, disposing each value. It
// is meant for shutdown and never panics: disposal failures and panics are
// collected into the returned error.
func (r *Registry) Close() error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if len(r.entries) == 0 {
		r.logger.Debug("Shared data registry closed empty.")
		return nil
	}

	var errs []error
	for _, tag := range r.sortedTags() {
		e := r.entries[tag]
		delete(r.entries, tag)
		r.logger.Warn("Shared data still held at shutdown.", "tag", tag, "creator", e.creator, "consumers", e.consumerList())
		if err := r.disposeRecovered(tag, e); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

// relinquish removes h's identity from tag's consumers. The value is
// disposed, under the lock, when the set becomes empty.
func (r *Registry) relinquish(h *Handle, tag string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	h.release(tag)

	e, ok := r.entries[tag]
	if !ok {
		r.logger.Debug("Relinquish of unregistered shared data ignored.", "tag", tag, "caller", h.id)
		return nil
	}
	if !e.detach(h.id) {
		r.logger.Debug("Relinquish by non-consumer ignored.", "tag", tag, "caller", h.id)
		return nil
	}
	if !e.empty() {
		r.logger.Debug("Consumer relinquished shared data.", "tag", tag, "caller", h.id, "remaining", len(e.consumers))
		return nil
	}

	delete(r.entries, tag)
	r.logger.Info("Last consumer relinquished shared data.", "tag", tag, "caller", h.id, "creator", e.creator)
	return r.dispose(tag, e)
}

func (r *Registry) attach(h *Handle, tag string, e *entry) {
	if e.attach(h.id) {
		r.logger.Debug("Consumer attached to shared data.", "tag", tag, "caller", h.id, "consumers", len(e.consumers))
	}
	h.hold(tag)
}

func (r *Registry) logRejected(tag string, e *entry, caller Identity, want reflect.Type, err error) {
	level := slog.LevelWarn
	if IsNullValue(err) {
		level = slog.LevelError
	}
	r.logger.Log(context.Background(), level, "Shared data request rejected.",
		"tag", tag,
		"caller", caller,
		"creator", e.creator,
		"requested_type", typeName(want),
		"stored_type", typeName(e.declared),
		"error", err,
	)
}

func (r *Registry) dispose(tag string, e *entry) error {
	var err error
	switch v := e.value.(type) {
	case Disposer:
		err = v.Dispose()
	case io.Closer:
		err = v.Close()
	default:
		return nil
	}
	if err != nil {
		r.logger.Error("Disposing shared data failed.", "tag", tag, "creator", e.creator, "error", err)
		return disposeFailedError(tag, e.creator, err)
	}
	r.logger.Debug("Shared data disposed.", "tag", tag)
	return nil
}

func (r *Registry) disposeRecovered(tag string, e *entry) (err error) {
	defer func() {
		if p := recover(); p != nil {
			r.logger.Error("Disposal of shared data panicked.", "tag", tag, "panic", p)
			err = disposeFailedError(tag, e.creator, fmt.Errorf("dispose panicked: %v", p))
		}
	}()
	return r.dispose(tag, e)
}

func (r *Registry) sortedTags() []string {
	tags := make([]string, 0, len(r.entries))
	for tag := range r.entries {
		tags = append(tags, tag)
	}
	slices.Sort(tags)
	return tags
}

// view checks the declared type gate and then the dynamic value.
func view[T any](tag string, e *entry, caller Identity, want reflect.Type) (T, error) {
	var zero T
	if !e.declared.AssignableTo(want) {
		return zero, typeMismatchError(tag, e, caller, want)
	}
	v, ok := e.value.(T)
	if !ok {
		return zero, nullValueError(tag, e, caller, want)
	}
	return v, nil
}

// generate runs gen, turning a panic or a nil result into an error.
func generate[T any](gen func() (T, error)) (v T, err error) {
	defer func() {
		if p := recover(); p != nil {
			err = fmt.Errorf("generator panicked: %v", p)
		}
	}()
	v, err = gen()
	if err != nil {
		return v, err
	}
	if isNil(v) {
		return v, ErrNilValue
	}
	if k := reflect.ValueOf(v).Kind(); !isReferenceKind(k) {
		return v, fmt.Errorf("%w: got %T", ErrNotReference, v)
	}
	return v, nil
}

func validateRequest(h *Handle, tag string, want reflect.Type) error {
	if h == nil {
		return invalidRequestError(tag, Unknown, "handle must not be nil")
	}
	if tag == "" {
		return invalidRequestError(tag, h.id, "tag must not be empty")
	}
	if !isReferenceKind(want.Kind()) {
		return invalidRequestError(tag, h.id, fmt.Sprintf("%s is not a reference type", typeName(want)))
	}
	return nil
}

func isReferenceKind(k reflect.Kind) bool {
	switch k {
	case reflect.Pointer, reflect.Interface, reflect.Map, reflect.Chan, reflect.Func:
		return true
	}
	return false
}

func isNil(v any) bool {
	if v == nil {
		return true
	}
	rv := reflect.ValueOf(v)
	switch rv.Kind() {
	case reflect.Pointer, reflect.Interface, reflect.Map, reflect.Chan, reflect.Func, reflect.Slice, reflect.UnsafePointer:
		return rv.IsNil()
	}
	return false
}
