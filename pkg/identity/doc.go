// Package identity carries the authenticated caller identity through a
// request. The user id is injected by a trusted upstream gateway and treated
// as an opaque string; credstore performs no authentication of its own.
package identity
