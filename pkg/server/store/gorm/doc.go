// Package gorm provides GORM-backed implementations of the store interfaces.
// Production runs against PostgreSQL; tests run the same code against an
// in-memory SQLite database, so the SQL here sticks to the portable subset.
package gorm
