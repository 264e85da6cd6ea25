// Package server wires the HTTP surface: router, middleware and the
// endpoint registrations in the endpoints subpackage.
package server
