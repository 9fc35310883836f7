// Package envelope defines the request/response framing for the call
// boundary.
//
// Every boundary call takes one serialized request value and returns
// one serialized envelope:
//
//	{"ok":true,"data":{...}}
//	{"ok":false,"error":"client handle not found"}
//
// Failure is signaled only through the error field. The transport never
// raises out-of-band faults for application-level errors; a malformed
// request also produces a failure envelope. Timeouts are not failures:
// a stream poll that times out returns ok=true with a timeout sentinel
// event so the caller can re-poll.
//
// Buffer ownership for the raw-pointer calling convention (C strings
// returned across cgo) is handled by cmd/bridge, not here; this package
// only produces Go strings.
package envelope
