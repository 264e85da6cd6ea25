package store

// HealthStore reports on the relational backend
type HealthStore interface {
	// Ping verifies the database connection is usable.
	Ping() error
}
