package store

import "errors"

// ErrNotFound is returned when a record doesn't exist.
var ErrNotFound = errors.New("record not found")

// ErrConflict is returned when an insert or update violates a uniqueness
// constraint, e.g. a duplicate customer name.
var ErrConflict = errors.New("record already exists")
