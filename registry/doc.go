// Package registry provides opaque handle tables for native objects.
//
// The call boundary cannot pass Go objects by value, so every container,
// device, client and stream is referred to by a Handle: an opaque,
// process-local integer drawn from a single monotonic counter. Handles
// carry no type information on the wire; the owning namespace is found
// by which table holds the entry.
//
// # Tables
//
// Each object kind gets its own Table with an independent lock:
//
//	clients := registry.NewTable[*whatsmeow.Client]("client", onRelease)
//
//	h := clients.Insert(cli)
//	cli, ok := clients.Get(h)
//	clients.Release(h)
//
// # Lifetime
//
// Entries are never garbage collected implicitly: the far side of the
// boundary signals it is done with an object only through an explicit
// release call. Releasing runs the table's release hook (disconnect,
// listener deregistration, storage close) outside the table lock.
// Releasing a handle twice reports not-found on the second call.
//
// # Cross-namespace release
//
// Set lets one release entry point serve every kind; it tries each
// namespace in a fixed, documented order and releases the first match.
package registry
