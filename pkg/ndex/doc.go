// Package ndex provides a client for the NDEx v2 REST API, limited to the
// operations the layout pipeline needs: downloading a network as a CX
// stream, replacing a network document, and updating a single aspect.
//
// The [Client] interface exists so commands can accept an injected test
// double; [HTTPClient] is the real implementation. Non-2xx responses surface
// as [*ServerError] carrying the status code and the server-supplied message
// when the error body contains one. Transient 5xx failures are retried with
// exponential backoff.
package ndex
