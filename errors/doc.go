// Package errors provides structured error types for the bridge.
//
// Every failure that crosses the call boundary is represented by an
// *Error carrying a Phase (where it happened) and a Kind (what went
// wrong), matching the bridge's error taxonomy:
//
//	malformed_request  request payload failed to parse
//	handle_not_found   referenced handle absent from its namespace
//	unknown_method     dispatcher cannot resolve the method name
//	argument_error     wrong count or failed decode, with the position
//	native_error       the wrapped library reported failure
//
// Errors are built either with the convenience constructors:
//
//	errors.UnknownMethod("SendMesage")
//	errors.Argument("SendMessage", 1, cause)
//
// or with the builder for less common shapes:
//
//	errors.New(errors.PhaseNative, errors.KindNativeError).
//	    Detail("panic in %s: %v", method, recovered).
//	    Build()
//
// The envelope layer renders the error to a plain string for the host,
// so messages are written to stand alone without the structured fields.
// Timeouts are deliberately absent from the taxonomy: a stream poll that
// times out is a successful call returning a timeout sentinel event.
package errors
