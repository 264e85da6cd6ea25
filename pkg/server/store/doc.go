// Package store defines the persistence interfaces the credential core
// depends on. The GORM-backed implementations live in the gorm subpackage;
// tests substitute mocks or an in-memory database.
package store
