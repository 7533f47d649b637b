// Package uri implements the generic syntax of Uniform Resource Identifiers (URI)
// as far as an HTTP client needs it to find where to connect and what to request.
//
// Path and query are kept exactly as written (percent-encoded) so they can be
// put on a request line unchanged.
//
// Reference:
//
// - https://datatracker.ietf.org/doc/html/rfc3986
package uri
