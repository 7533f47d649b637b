// Package http implements the HTTP/1.1 message syntax a single-shot client needs:
// encoding a request head and body, and splitting a response stream that was
// read until the server closed the connection.
//
// Reference:
//
// - https://datatracker.ietf.org/doc/html/rfc9110
//
// - https://datatracker.ietf.org/doc/html/rfc9112
package http
