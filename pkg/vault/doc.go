// Package vault adapts HashiCorp Vault's KV v2 engine to the path-addressed
// secret store the credential service depends on.
//
// Authentication happens once at construction, using approle (role-id /
// secret-id exchange for a short-lived token) or a static token; the method
// is auto-selected from whichever credentials are present when not set
// explicitly. An authentication failure does not fail construction: the
// client is left in an unavailable state and every operation returns
// ErrUnavailable until the process is restarted with working credentials.
// This is deliberate: the server must never silently fall back to storing
// secrets in the relational store.
package vault
