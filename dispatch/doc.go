// Package dispatch implements the generic dynamic dispatcher: it maps a
// method name plus JSON-encoded arguments onto a strongly-typed call on
// the wrapped client and converts the results back for transport.
//
// The method table is built once per target type:
//
//	d := dispatch.For((*whatsmeow.Client)(nil))
//	result, err := d.Invoke(cli, "SendPresence", json.RawMessage(`["available"]`))
//
// # Argument conversion
//
// Parameters are converted in declaration order with these rules, in
// priority order:
//
//   - context.Context: consumes no argument; a background context is
//     synthesized.
//   - time.Duration: the argument is a number of milliseconds.
//   - types.JID: the argument is a string, parsed strictly.
//   - proto.Message pointers: the argument is a JSON object decoded via
//     protojson so wire field names are honored; null yields a
//     zero-valued message.
//   - variadic tail: an array spreads, a single value wraps, nothing
//     yields an empty list.
//   - anything else: generic structural JSON decode ([]byte is base64).
//
// A missing required argument fails naming the position and method.
//
// # Result conversion
//
// A trailing non-nil error return makes the whole call a failure with
// that error's message; a nil one is dropped. Remaining values convert
// for transport: protojson for messages, base64 for byte arrays (empty
// string for nil), RFC3339 for times, canonical strings for JIDs (and
// empty string for nil JID pointers), elementwise for slices of either,
// a flattened shape with present-only millisecond timings for the send
// result, and natural encoding for the rest. Zero values produce an
// empty object, one value is returned bare, several come back as an
// array in declaration order.
package dispatch
