// Package crypto provides the symmetric encryption used to protect secret
// keys before they are written to the external secret store, master-key
// loading, and access-key masking for list views.
//
// Ciphertext tokens are URL-safe base64 over a packed
// version|tag|nonce|ciphertext layout produced by AES-256-GCM. Encryption is
// intentionally non-deterministic (random nonce per call); the empty string
// round-trips to the empty string on both sides so callers probing optional
// fields never encrypt "nothing".
package crypto
