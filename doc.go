// Package wmnode exposes a WhatsApp client as a synchronous
// string-in/string-out boundary suitable for embedding in a non-Go
// host through a C shared library.
//
// Every operation takes a JSON request string and returns a JSON
// response envelope:
//
//	{"ok": true,  "data": {...}}
//	{"ok": false, "error": "..."}
//
// Stateful native objects never cross the boundary. They live in
// typed handle tables and the host refers to them by opaque uint64
// handles:
//
//	wmnode/           Root package with the boundary operations
//	├── registry/     Generic handle tables and ordered release
//	├── dispatch/     Reflection-built dynamic method dispatcher
//	├── stream/       Bounded event and pairing streams
//	├── envelope/     Response envelope encoding
//	├── errors/       Structured error types
//	├── logging/      Leveled loggers for the wrapped library
//	├── config/       Environment-driven configuration
//	└── cmd/bridge/   cgo export shims producing the shared library
//
// # Lifecycle
//
// A typical session opens a storage container, loads a device, builds
// a client over it, then connects:
//
//	h := wmnode.OpenContainer(`{"dialect":"sqlite3","address":"file:wa.db?_foreign_keys=on"}`)
//	d := wmnode.ContainerGetFirstDevice(`{"container":1}`)
//	c := wmnode.NewClient(`{"device":2}`)
//	wmnode.ClientConnect(`{"client":3}`)
//
// Release frees any handle kind; released handles are never reused.
//
// # Streams
//
// Asynchronous notifications are bridged through polling. A stream
// handle buffers events in a bounded queue and the host drains it with
// EventNext or QRNext; a full buffer drops new events rather than
// blocking the client. Timeouts and stream closure are reported as
// sentinel events inside successful envelopes.
//
// # Dynamic dispatch
//
// ClientCall invokes any public client method by name. The dispatcher
// builds its capability table once at startup and converts arguments
// positionally: JIDs from strings, protobuf messages from JSON,
// durations from milliseconds, binary data from base64.
package wmnode
