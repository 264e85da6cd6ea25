// Package audit provides the audit trail for credential operations.
//
// Every sensitive operation produces an Entry that is persisted to the
// audit_logs table and emitted as an RFC5424 syslog line. Secret material
// never appears in an entry; details name fields, not values.
package audit
