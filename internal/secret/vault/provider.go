// Package vault resolves secrets from HashiCorp Vault KV engines.
package vault

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"sync"

	vault "github.com/hashicorp/vault/api"

	"github.com/stellarforge/stellarforge-go/internal/secret"
)

// Auth methods accepted in Config.AuthMethod.
const (
	AuthToken   = "token"
	AuthAppRole = "approle"
	AuthCert    = "cert"
)

// DefaultKey is read when a path has no "#key" suffix.
const DefaultKey = "api_key"

// Config holds configuration for the Vault provider.
type Config struct {
	Address    string `yaml:"address"`
	AuthMethod string `yaml:"auth_method"`
	Token      string `yaml:"token"`
	RoleID     string `yaml:"role_id"`
	SecretID   string `yaml:"secret_id"`
	Namespace  string `yaml:"namespace"`
	CACert     string `yaml:"ca_cert"`
	ClientCert string `yaml:"client_cert"`
	ClientKey  string `yaml:"client_key"`
}

// Provider implements secret.Provider for Vault.
type Provider struct {
	client *vault.Client
	logger *slog.Logger
	stopCh chan struct{}
	once   sync.Once
	wg     sync.WaitGroup
}

var _ secret.Provider = (*Provider)(nil)

// New logs in to Vault and, for renewable tokens, keeps the token alive
// until Close.
func New(ctx context.Context, cfg Config, logger *slog.Logger) (*Provider, error) {
	if logger == nil {
		logger = slog.Default()
	}

	vConfig := vault.DefaultConfig()
	vConfig.Address = cfg.Address

	if cfg.ClientCert != "" || cfg.ClientKey != "" || cfg.CACert != "" {
		if err := vConfig.ConfigureTLS(&vault.TLSConfig{
			ClientCert: cfg.ClientCert,
			ClientKey:  cfg.ClientKey,
			CACert:     cfg.CACert,
		}); err != nil {
			return nil, fmt.Errorf("configure tls: %w", err)
		}
	}

	client, err := vault.NewClient(vConfig)
	if err != nil {
		return nil, fmt.Errorf("create vault client: %w", err)
	}
	if cfg.Namespace != "" {
		client.SetNamespace(cfg.Namespace)
	}

	p := &Provider{
		client: client,
		logger: logger,
		stopCh: make(chan struct{}),
	}

	auth, err := login(ctx, client, cfg)
	if err != nil {
		return nil, err
	}
	if auth != nil {
		client.SetToken(auth.ClientToken)
		if auth.Renewable {
			p.wg.Add(1)
			go p.renewToken(auth)
		}
	}
	return p, nil
}

// login authenticates and returns the auth block, or nil for static tokens.
func login(ctx context.Context, client *vault.Client, cfg Config) (*vault.SecretAuth, error) {
	method := cfg.AuthMethod
	if method == "" {
		switch {
		case cfg.Token != "":
			method = AuthToken
		case cfg.RoleID != "":
			method = AuthAppRole
		}
	}

	var (
		s   *vault.Secret
		err error
	)
	switch method {
	case AuthToken:
		if cfg.Token == "" {
			return nil, fmt.Errorf("vault token auth requires a token")
		}
		client.SetToken(cfg.Token)
		return nil, nil
	case AuthAppRole:
		s, err = client.Logical().WriteWithContext(ctx, "auth/approle/login", map[string]interface{}{
			"role_id":   cfg.RoleID,
			"secret_id": cfg.SecretID,
		})
	case AuthCert:
		s, err = client.Logical().WriteWithContext(ctx, "auth/cert/login", nil)
	default:
		return nil, fmt.Errorf("unknown or missing vault auth method %q", cfg.AuthMethod)
	}

	if err != nil {
		return nil, fmt.Errorf("vault login (%s): %w", method, err)
	}
	if s == nil || s.Auth == nil {
		return nil, fmt.Errorf("vault login (%s) returned no auth info", method)
	}
	return s.Auth, nil
}

// SplitPath separates "path#key" into its parts. The key defaults to
// DefaultKey.
func SplitPath(path string) (secretPath, key string) {
	if idx := strings.LastIndex(path, "#"); idx != -1 {
		return path[:idx], path[idx+1:]
	}
	return path, DefaultKey
}

// Get implements secret.Provider. KV v2 responses are unwrapped from their
// "data" envelope.
func (p *Provider) Get(ctx context.Context, path string) (string, error) {
	secretPath, key := SplitPath(path)

	s, err := p.client.Logical().ReadWithContext(ctx, secretPath)
	if err != nil {
		return "", fmt.Errorf("read vault secret %q: %w", secretPath, err)
	}
	if s == nil || s.Data == nil {
		return "", fmt.Errorf("vault secret %q: %w", secretPath, secret.ErrNotFound)
	}

	data := s.Data
	if nested, ok := data["data"].(map[string]interface{}); ok {
		data = nested
	}

	val, ok := data[key]
	if !ok {
		return "", fmt.Errorf("key %q in vault secret %q: %w", key, secretPath, secret.ErrNotFound)
	}
	return fmt.Sprintf("%v", val), nil
}

// Close stops token renewal.
func (p *Provider) Close() error {
	p.once.Do(func() { close(p.stopCh) })
	p.wg.Wait()
	return nil
}

func (p *Provider) renewToken(auth *vault.SecretAuth) {
	defer p.wg.Done()

	watcher, err := p.client.NewLifetimeWatcher(&vault.LifetimeWatcherInput{
		Secret: &vault.Secret{Auth: auth},
	})
	if err != nil {
		p.logger.Warn("vault lifetime watcher unavailable", "error", err)
		return
	}

	go watcher.Start()
	defer watcher.Stop()

	for {
		select {
		case <-p.stopCh:
			return
		case err := <-watcher.DoneCh():
			if err != nil {
				p.logger.Warn("vault token renewal stopped", "error", err)
			}
			return
		case <-watcher.RenewCh():
			p.logger.Debug("vault token renewed")
		}
	}
}
