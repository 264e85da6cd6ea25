package config

import (
	"encoding/json"
	"fmt"
	"net"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

const (
	DefaultConfigPath = "/etc/credstore/config"
	ConfigFileName    = "credstore.yml"
)

// Vault auth methods. Empty means auto-select from whichever credentials are
// present.
const (
	AuthMethodAppRole = "approle"
	AuthMethodToken   = "token"
)

// VaultConfig holds the external secret store settings.
type VaultConfig struct {
	// Enabled turns the secret store integration on. When disabled every
	// credential operation that needs the store fails unavailable; the
	// server never falls back to storing secrets in the relational store.
	Enabled bool `yaml:"enabled"`

	// Addr is the Vault server address, e.g. https://vault:8200
	Addr string `yaml:"addr"`

	// AuthMethod is "approle" or "token"; empty auto-selects
	AuthMethod string `yaml:"auth_method"`

	// RoleID/SecretID authenticate the approle method
	RoleID   string `yaml:"role_id"`
	SecretID string `yaml:"secret_id"`

	// Token authenticates the static token method
	Token string `yaml:"token"`

	// CredentialPath is the base path for credential secrets, including the
	// KV v2 mount, e.g. secret/credentials
	CredentialPath string `yaml:"credential_path"`

	// TimeoutSeconds bounds every Vault round-trip
	TimeoutSeconds int `yaml:"timeout_seconds"`

	// TLSSkipVerify disables server certificate verification
	TLSSkipVerify bool `yaml:"tls_skip_verify"`
}

// Timeout returns the Vault client timeout as a duration.
func (v VaultConfig) Timeout() time.Duration {
	return time.Duration(v.TimeoutSeconds) * time.Second
}

// ResolveAuthMethod returns the configured auth method, auto-selecting from
// whichever credentials are present when none is set explicitly.
func (v VaultConfig) ResolveAuthMethod() string {
	if v.AuthMethod != "" {
		return v.AuthMethod
	}
	if v.RoleID != "" && v.SecretID != "" {
		return AuthMethodAppRole
	}
	if v.Token != "" {
		return AuthMethodToken
	}
	return ""
}

// EncryptionConfig holds the master-key source. Key takes precedence over
// the password/salt derivation pair.
type EncryptionConfig struct {
	Key      string `yaml:"key"`
	Password string `yaml:"password"`
	Salt     string `yaml:"salt"`
}

// Config holds all credstore configuration settings.
type Config struct {
	// BindAddress and Port for the HTTP server
	BindAddress string `yaml:"bind_address"`
	Port        int    `yaml:"port"`

	// DatabaseURL is the PostgreSQL connection string (env only, never file)
	DatabaseURL string `yaml:"-"`

	// TrustedProxies is a list of CIDR ranges whose X-Forwarded-For is
	// honored when resolving the client IP for audit entries
	TrustedProxies []string `yaml:"trusted_proxies"`

	// PageSizeMax caps the page_size parameter on listing requests
	PageSizeMax int `yaml:"page_size_max"`

	// GatewayJWTPublicKeyPath points at the PEM-encoded RSA public key used
	// to verify the upstream gateway's identity token. Empty disables
	// verification and trusts the X-User-ID header as-is.
	GatewayJWTPublicKeyPath string `yaml:"gateway_jwt_public_key_path"`

	Vault      VaultConfig      `yaml:"vault"`
	Encryption EncryptionConfig `yaml:"encryption"`

	// sources tracks where each value came from
	sources map[string]string

	// configFilePath is the path to the config file
	configFilePath string
}

// Attribute represents a configuration attribute with its value and source.
// Secret-bearing attributes are reported redacted.
type Attribute struct {
	Name   string `json:"name"`
	Value  string `json:"value"`
	Source string `json:"source"`
}

func newDefault() *Config {
	return &Config{
		BindAddress:    "0.0.0.0",
		Port:           8002,
		TrustedProxies: []string{},
		PageSizeMax:    100,
		Vault: VaultConfig{
			TimeoutSeconds: 10,
		},
		sources: make(map[string]string),
	}
}

// Load loads configuration from file and environment variables. Environment
// variables take precedence over file values.
func Load() (*Config, error) {
	config := newDefault()

	for _, name := range attributeNames() {
		config.sources[name] = "default"
	}

	configPath := os.Getenv("CREDSTORE_CONFIG_PATH")
	if configPath == "" {
		configPath = DefaultConfigPath
	}
	config.configFilePath = filepath.Join(configPath, ConfigFileName)

	if data, err := os.ReadFile(config.configFilePath); err == nil {
		var fileConfig Config
		if err := yaml.Unmarshal(data, &fileConfig); err != nil {
			return nil, fmt.Errorf("failed to parse config file %s: %w", config.configFilePath, err)
		}
		config.applyFileConfig(&fileConfig)
	}

	config.applyEnvConfig()

	return config, nil
}

func attributeNames() []string {
	return []string{
		"bind_address", "port", "database_url", "trusted_proxies",
		"page_size_max", "gateway_jwt_public_key_path",
		"vault_enabled", "vault_addr", "vault_auth_method",
		"vault_credential_path", "vault_timeout_seconds",
		"vault_tls_skip_verify",
		"encryption_source",
	}
}

func (c *Config) applyFileConfig(file *Config) {
	if file.BindAddress != "" {
		c.BindAddress = file.BindAddress
		c.sources["bind_address"] = "file"
	}
	if file.Port != 0 {
		c.Port = file.Port
		c.sources["port"] = "file"
	}
	if len(file.TrustedProxies) > 0 {
		c.TrustedProxies = file.TrustedProxies
		c.sources["trusted_proxies"] = "file"
	}
	if file.PageSizeMax != 0 {
		c.PageSizeMax = file.PageSizeMax
		c.sources["page_size_max"] = "file"
	}
	if file.GatewayJWTPublicKeyPath != "" {
		c.GatewayJWTPublicKeyPath = file.GatewayJWTPublicKeyPath
		c.sources["gateway_jwt_public_key_path"] = "file"
	}
	if file.Vault.Enabled {
		c.Vault.Enabled = true
		c.sources["vault_enabled"] = "file"
	}
	if file.Vault.Addr != "" {
		c.Vault.Addr = file.Vault.Addr
		c.sources["vault_addr"] = "file"
	}
	if file.Vault.AuthMethod != "" {
		c.Vault.AuthMethod = file.Vault.AuthMethod
		c.sources["vault_auth_method"] = "file"
	}
	if file.Vault.CredentialPath != "" {
		c.Vault.CredentialPath = file.Vault.CredentialPath
		c.sources["vault_credential_path"] = "file"
	}
	if file.Vault.TimeoutSeconds != 0 {
		c.Vault.TimeoutSeconds = file.Vault.TimeoutSeconds
		c.sources["vault_timeout_seconds"] = "file"
	}
	if file.Vault.TLSSkipVerify {
		c.Vault.TLSSkipVerify = true
		c.sources["vault_tls_skip_verify"] = "file"
	}
}

func (c *Config) applyEnvConfig() {
	if val := os.Getenv("CREDSTORE_BIND_ADDRESS"); val != "" {
		c.BindAddress = val
		c.sources["bind_address"] = "environment"
	}
	if val := os.Getenv("CREDSTORE_PORT"); val != "" {
		if i, err := strconv.Atoi(val); err == nil {
			c.Port = i
			c.sources["port"] = "environment"
		}
	}
	if val := os.Getenv("DATABASE_URL"); val != "" {
		c.DatabaseURL = val
		c.sources["database_url"] = "environment"
	}
	if val := os.Getenv("CREDSTORE_TRUSTED_PROXIES"); val != "" {
		c.TrustedProxies = splitAndTrim(val)
		c.sources["trusted_proxies"] = "environment"
	}
	if val := os.Getenv("CREDSTORE_PAGE_SIZE_MAX"); val != "" {
		if i, err := strconv.Atoi(val); err == nil {
			c.PageSizeMax = i
			c.sources["page_size_max"] = "environment"
		}
	}
	if val := os.Getenv("CREDSTORE_GATEWAY_JWT_PUBLIC_KEY_PATH"); val != "" {
		c.GatewayJWTPublicKeyPath = val
		c.sources["gateway_jwt_public_key_path"] = "environment"
	}
	if val := os.Getenv("VAULT_ENABLED"); val != "" {
		c.Vault.Enabled = parseBool(val)
		c.sources["vault_enabled"] = "environment"
	}
	if val := os.Getenv("VAULT_ADDR"); val != "" {
		c.Vault.Addr = val
		c.sources["vault_addr"] = "environment"
	}
	if val := os.Getenv("VAULT_AUTH_METHOD"); val != "" {
		c.Vault.AuthMethod = val
		c.sources["vault_auth_method"] = "environment"
	}
	if val := os.Getenv("VAULT_ROLE_ID"); val != "" {
		c.Vault.RoleID = val
	}
	if val := os.Getenv("VAULT_SECRET_ID"); val != "" {
		c.Vault.SecretID = val
	}
	if val := os.Getenv("VAULT_TOKEN"); val != "" {
		c.Vault.Token = val
	}
	if val := os.Getenv("VAULT_CREDENTIAL_PATH"); val != "" {
		c.Vault.CredentialPath = val
		c.sources["vault_credential_path"] = "environment"
	}
	if val := os.Getenv("VAULT_TIMEOUT"); val != "" {
		if i, err := strconv.Atoi(val); err == nil {
			c.Vault.TimeoutSeconds = i
			c.sources["vault_timeout_seconds"] = "environment"
		}
	}
	if val := os.Getenv("VAULT_SKIP_VERIFY"); val != "" {
		c.Vault.TLSSkipVerify = parseBool(val)
		c.sources["vault_tls_skip_verify"] = "environment"
	}
	if val := os.Getenv("ENCRYPTION_KEY"); val != "" {
		c.Encryption.Key = val
		c.sources["encryption_source"] = "environment"
	}
	if val := os.Getenv("ENCRYPTION_PASSWORD"); val != "" {
		c.Encryption.Password = val
		c.sources["encryption_source"] = "environment"
	}
	if val := os.Getenv("ENCRYPTION_SALT"); val != "" {
		c.Encryption.Salt = val
	}
}

// ConfigFilePath returns the path to the config file.
func (c *Config) ConfigFilePath() string {
	return c.configFilePath
}

// Source returns the source of a configuration attribute.
func (c *Config) Source(name string) string {
	if c.sources == nil {
		return "default"
	}
	if s, ok := c.sources[name]; ok {
		return s
	}
	return "default"
}

// IsTrustedProxy checks if an IP belongs to a trusted proxy.
func (c *Config) IsTrustedProxy(ip string) bool {
	if len(c.TrustedProxies) == 0 {
		return false
	}

	parsedIP := net.ParseIP(ip)
	if parsedIP == nil {
		return false
	}

	for _, cidr := range c.TrustedProxies {
		_, network, err := net.ParseCIDR(cidr)
		if err != nil {
			// Try as plain IP
			if net.ParseIP(cidr) != nil && cidr == ip {
				return true
			}
			continue
		}
		if network.Contains(parsedIP) {
			return true
		}
	}
	return false
}

// Validate validates the configuration.
func (c *Config) Validate() error {
	for _, cidr := range c.TrustedProxies {
		if _, _, err := net.ParseCIDR(cidr); err != nil {
			if net.ParseIP(cidr) == nil {
				return fmt.Errorf("invalid trusted_proxies value: %s", cidr)
			}
		}
	}

	switch c.Vault.AuthMethod {
	case "", AuthMethodAppRole, AuthMethodToken:
	default:
		return fmt.Errorf("unsupported vault auth method: %s", c.Vault.AuthMethod)
	}

	if c.Vault.Enabled {
		if c.Vault.Addr == "" {
			return fmt.Errorf("vault addr is required when vault is enabled")
		}
		if c.Vault.CredentialPath == "" {
			return fmt.Errorf("vault credential_path is required when vault is enabled")
		}
		switch c.Vault.ResolveAuthMethod() {
		case AuthMethodAppRole:
			if c.Vault.RoleID == "" || c.Vault.SecretID == "" {
				return fmt.Errorf("vault role_id and secret_id are required for approle authentication")
			}
		case AuthMethodToken:
			if c.Vault.Token == "" {
				return fmt.Errorf("vault token is required for token authentication")
			}
		default:
			return fmt.Errorf("no vault credentials configured")
		}
	}

	return nil
}

// Attributes returns all configuration attributes with their values and
// sources. Secret material (vault credentials, encryption key) is omitted.
func (c *Config) Attributes() []Attribute {
	return []Attribute{
		{Name: "bind_address", Value: c.BindAddress, Source: c.Source("bind_address")},
		{Name: "port", Value: strconv.Itoa(c.Port), Source: c.Source("port")},
		{Name: "trusted_proxies", Value: strings.Join(c.TrustedProxies, ","), Source: c.Source("trusted_proxies")},
		{Name: "page_size_max", Value: strconv.Itoa(c.PageSizeMax), Source: c.Source("page_size_max")},
		{Name: "gateway_jwt_public_key_path", Value: c.GatewayJWTPublicKeyPath, Source: c.Source("gateway_jwt_public_key_path")},
		{Name: "vault_enabled", Value: strconv.FormatBool(c.Vault.Enabled), Source: c.Source("vault_enabled")},
		{Name: "vault_addr", Value: c.Vault.Addr, Source: c.Source("vault_addr")},
		{Name: "vault_auth_method", Value: c.Vault.ResolveAuthMethod(), Source: c.Source("vault_auth_method")},
		{Name: "vault_credential_path", Value: c.Vault.CredentialPath, Source: c.Source("vault_credential_path")},
		{Name: "vault_timeout_seconds", Value: strconv.Itoa(c.Vault.TimeoutSeconds), Source: c.Source("vault_timeout_seconds")},
		{Name: "vault_tls_skip_verify", Value: strconv.FormatBool(c.Vault.TLSSkipVerify), Source: c.Source("vault_tls_skip_verify")},
		{Name: "encryption_source", Value: c.encryptionSource(), Source: c.Source("encryption_source")},
	}
}

func (c *Config) encryptionSource() string {
	if c.Encryption.Key != "" {
		return "key"
	}
	if c.Encryption.Password != "" {
		return "derived"
	}
	return "(not set)"
}

// FormatText returns a text representation of the configuration.
func (c *Config) FormatText() string {
	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("Config file: %s\n\n", c.configFilePath))
	sb.WriteString(fmt.Sprintf("%-35s %-30s %s\n", "NAME", "VALUE", "SOURCE"))
	sb.WriteString(fmt.Sprintf("%-35s %-30s %s\n", "----", "-----", "------"))

	for _, attr := range c.Attributes() {
		value := attr.Value
		if value == "" {
			value = "(not set)"
		}
		sb.WriteString(fmt.Sprintf("%-35s %-30s %s\n", attr.Name, value, attr.Source))
	}
	return sb.String()
}

// FormatJSON returns a JSON representation of the configuration attributes.
func (c *Config) FormatJSON() (string, error) {
	out, err := json.MarshalIndent(c.Attributes(), "", "  ")
	if err != nil {
		return "", err
	}
	return string(out), nil
}

func parseBool(val string) bool {
	switch strings.ToLower(strings.TrimSpace(val)) {
	case "1", "true", "yes", "on":
		return true
	}
	return false
}

func splitAndTrim(s string) []string {
	parts := strings.Split(s, ",")
	result := make([]string, 0, len(parts))
	for _, p := range parts {
		p = strings.TrimSpace(p)
		if p != "" {
			result = append(result, p)
		}
	}
	return result
}
