// Package client talks to the gophauth HTTP API.
//
// Client is the transport-agnostic contract used by the CLI; HTTPClient is
// its JSON-over-HTTP implementation. Failures are reported with the sentinel
// errors in errors.go, matched with errors.Is, or as *APIError when the
// server answered with a status the caller may want to show verbatim.
package client
