// Package service implements the credential registry operations on top of
// the relational stores, the external secret store and the cipher. Endpoints
// stay thin; permission checks, secret handling and audit recording all
// happen here.
package service
