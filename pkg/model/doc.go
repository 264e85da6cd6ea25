// Package model defines the database models for credstore.
//
// This package contains GORM models that map to the credstore PostgreSQL
// schema (see db/migrations).
//
// # Core Models
//
//   - Customer: tenant root
//   - Project: optional sub-scope under a customer
//   - Vendor: third-party API provider catalog entry
//   - Credential: access key metadata; the secret key itself never touches
//     the relational store and lives encrypted in the external secret store
//   - UserPermission: additive (user, customer?, project?) grants
//   - AuditLog: append-only record of credential-affecting actions
package model
