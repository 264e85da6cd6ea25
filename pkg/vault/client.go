package vault

import (
	"context"
	"errors"
	"fmt"
	"log"
	"strings"

	vaultapi "github.com/hashicorp/vault/api"

	"github.com/doodlesbykumbi/credstore/pkg/config"
)

// ErrUnavailable is returned by every operation when the backend is not
// configured, not reachable, or authentication failed at startup.
var ErrUnavailable = errors.New("secret store is not available")

// ErrSecretNotFound is returned by Read when no secret exists at the path.
var ErrSecretNotFound = errors.New("secret not found")

// mountPath is the KV v2 mount the credential secrets live under. Paths
// handed to the adapter include this prefix; it is stripped before calling
// the API, which addresses secrets relative to the mount.
const mountPath = "secret"

// Store abstracts the path-addressed external secret store.
type Store interface {
	// Write creates or overwrites the secret at path.
	Write(ctx context.Context, path string, data map[string]string) error

	// Read returns the secret at path. Returns ErrSecretNotFound if absent.
	Read(ctx context.Context, path string) (map[string]string, error)

	// Delete removes the secret at path, including all versions.
	Delete(ctx context.Context, path string) error

	// IsAvailable reports whether the backend authenticated successfully at
	// construction. Callers must check this (or handle ErrUnavailable)
	// before every sensitive operation.
	IsAvailable() bool
}

// Health describes the backend's health for the status endpoint.
type Health struct {
	Status      string `json:"status"`
	Initialized bool   `json:"initialized,omitempty"`
	Sealed      bool   `json:"sealed,omitempty"`
	Version     string `json:"version,omitempty"`
	Error       string `json:"error,omitempty"`
}

// Ensure Client implements Store
var _ Store = (*Client)(nil)

// Client is the Vault-backed Store implementation.
type Client struct {
	client    *vaultapi.Client
	available bool
}

// NewClient builds a Client from configuration and authenticates once. Auth
// or connectivity failures are logged and leave the client unavailable
// rather than failing construction.
func NewClient(cfg config.VaultConfig) *Client {
	c := &Client{}

	if !cfg.Enabled {
		return c
	}

	if err := c.connect(cfg); err != nil {
		log.Printf("vault: connection failed, secret store unavailable: %v", err)
		c.client = nil
		c.available = false
	}

	return c
}

func (c *Client) connect(cfg config.VaultConfig) error {
	vc := vaultapi.DefaultConfig()
	vc.Address = cfg.Addr
	// A hung backend must not stall the lifecycle manager indefinitely
	vc.Timeout = cfg.Timeout()
	if cfg.TLSSkipVerify {
		if err := vc.ConfigureTLS(&vaultapi.TLSConfig{Insecure: true}); err != nil {
			return fmt.Errorf("failed to configure TLS: %w", err)
		}
	}

	client, err := vaultapi.NewClient(vc)
	if err != nil {
		return fmt.Errorf("failed to create client: %w", err)
	}

	switch cfg.ResolveAuthMethod() {
	case config.AuthMethodAppRole:
		secret, err := client.Logical().Write("auth/approle/login", map[string]interface{}{
			"role_id":   cfg.RoleID,
			"secret_id": cfg.SecretID,
		})
		if err != nil {
			return fmt.Errorf("approle login failed: %w", err)
		}
		if secret == nil || secret.Auth == nil || secret.Auth.ClientToken == "" {
			return errors.New("approle login returned no token")
		}
		client.SetToken(secret.Auth.ClientToken)
	case config.AuthMethodToken:
		client.SetToken(cfg.Token)
	default:
		return errors.New("no vault credentials configured")
	}

	// Verify the session before declaring the adapter available
	if _, err := client.Auth().Token().LookupSelf(); err != nil {
		return fmt.Errorf("token verification failed: %w", err)
	}

	c.client = client
	c.available = true
	return nil
}

// IsAvailable reports whether the adapter authenticated successfully.
func (c *Client) IsAvailable() bool {
	return c.client != nil && c.available
}

// Write creates or overwrites the secret at path.
func (c *Client) Write(ctx context.Context, path string, data map[string]string) error {
	if !c.IsAvailable() {
		return ErrUnavailable
	}

	payload := make(map[string]interface{}, len(data))
	for k, v := range data {
		payload[k] = v
	}

	if _, err := c.client.KVv2(mountPath).Put(ctx, normalizePath(path), payload); err != nil {
		return fmt.Errorf("failed to write secret at %q: %w", path, err)
	}
	return nil
}

// Read returns the secret at path.
func (c *Client) Read(ctx context.Context, path string) (map[string]string, error) {
	if !c.IsAvailable() {
		return nil, ErrUnavailable
	}

	secret, err := c.client.KVv2(mountPath).Get(ctx, normalizePath(path))
	if err != nil {
		if errors.Is(err, vaultapi.ErrSecretNotFound) {
			return nil, ErrSecretNotFound
		}
		return nil, fmt.Errorf("failed to read secret at %q: %w", path, err)
	}

	data := make(map[string]string, len(secret.Data))
	for k, v := range secret.Data {
		if s, ok := v.(string); ok {
			data[k] = s
		}
	}
	return data, nil
}

// Delete removes the secret at path, metadata and all versions.
func (c *Client) Delete(ctx context.Context, path string) error {
	if !c.IsAvailable() {
		return ErrUnavailable
	}

	if err := c.client.KVv2(mountPath).DeleteMetadata(ctx, normalizePath(path)); err != nil {
		return fmt.Errorf("failed to delete secret at %q: %w", path, err)
	}
	return nil
}

// CheckHealth reports the backend's health for the status endpoint.
func (c *Client) CheckHealth(ctx context.Context) Health {
	if c.client == nil {
		return Health{Status: "disconnected", Error: "secret store client not initialized"}
	}

	resp, err := c.client.Sys().HealthWithContext(ctx)
	if err != nil {
		return Health{Status: "error", Error: err.Error()}
	}

	status := "healthy"
	if !resp.Initialized {
		status = "uninitialized"
	} else if resp.Sealed {
		status = "sealed"
	}
	return Health{
		Status:      status,
		Initialized: resp.Initialized,
		Sealed:      resp.Sealed,
		Version:     resp.Version,
	}
}

// normalizePath strips the KV v2 mount prefix; the API addresses secrets
// relative to the mount.
func normalizePath(path string) string {
	return strings.TrimPrefix(path, mountPath+"/")
}
