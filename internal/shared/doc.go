// Package shared implements the process-wide, typed, reference-counted data
// sharing registry.
//
// Independent consumers obtain or lazily create a single value per tag. The
// first GetOrCreate for a tag runs its generator exactly once; later callers
// receive the same value provided the type they ask for can hold the type the
// creator declared. Every access records the caller's Identity as a consumer,
// and a Relinquish from the last remaining consumer removes the entry and
// disposes the value (see Disposer).
//
// Consumers are accounted by identity, not by call: an identity that accesses
// a tag five times is one consumer and is released by a single Relinquish.
//
// All state lives behind one mutex, and generators run while it is held. A
// generator must therefore never call back into the same Registry, for any
// tag; doing so deadlocks.
//
//	reg := shared.New(shared.WithLogger(logger))
//	h := reg.Handle("component.http_client.api")
//	client, err := shared.GetOrCreate(h, "http_client", newClient)
//	...
//	defer h.Relinquish("http_client")
package shared
