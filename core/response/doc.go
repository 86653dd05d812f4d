// Package response defines the uniform envelope every router dispatch,
// binding installer, and HTTP/WS frame returns to its caller.
//
// An Envelope is JSON-serializable bit-identically across transports: the
// same struct is marshaled into an HTTP body, a WebSocket frame, and a
// scripted call's return value. Two invariants hold for every Envelope E:
//
//	E.OK == (E.Error == nil)
//	!E.OK => E.Data == nil && E.Meta == nil
package response
