// Package db provides the PostgreSQL connection used by the GORM-backed
// stores.
package db
