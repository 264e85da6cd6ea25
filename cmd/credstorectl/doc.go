// Package main provides credstorectl, the CLI for the credstore credential
// registry server.
//
// Credstore is a multi-tenant registry for vendor API credentials. Credential
// metadata lives in PostgreSQL; secret keys are encrypted and stored in
// HashiCorp Vault. Every sensitive operation is permission-checked and
// audited.
//
// # Architecture
//
// The server is organized into several packages:
//
//   - pkg/server: HTTP server and routing
//   - pkg/server/endpoints: REST API endpoint handlers
//   - pkg/server/middleware: gateway identity verification
//   - pkg/server/store: storage interfaces and the GORM implementation
//   - pkg/service: credential lifecycle, permissions and audit trail
//   - pkg/vault: Vault KV v2 secret store adapter
//   - pkg/crypto: secret encryption and access-key masking
//   - pkg/model: database models
//   - pkg/db: database connection utilities and embedded migrations
//   - pkg/audit: RFC 5424 audit logging
//   - pkg/config: configuration management
//
// # Quick Start
//
//	# Generate an encryption key
//	export ENCRYPTION_KEY=$(credstorectl data-key generate)
//
//	# Run database migrations
//	credstorectl db migrate
//
//	# Start the server
//	credstorectl server
//
// # Environment Variables
//
//   - DATABASE_URL: PostgreSQL connection string
//   - ENCRYPTION_KEY: Base64-encoded 256-bit key for secret encryption
//   - ENCRYPTION_PASSWORD / ENCRYPTION_SALT: alternative derived-key source
//   - VAULT_ADDR, VAULT_TOKEN or VAULT_ROLE_ID / VAULT_SECRET_ID: secret store
//   - CREDSTORE_CONFIG_PATH: config directory (default /etc/credstore/config)
//   - CREDSTORE_PORT: server port (default: 8002)
package main
