// Package config loads credstore configuration from a YAML file and
// environment variables, tracking the source of each attribute. Environment
// variables win over the file; secret material (vault credentials, the
// encryption key) is only ever read from the environment and is redacted
// from any rendered output.
package config
