// Package main is a command-line client for the StellarForge registry.
//
// Usage:
//
//	stellarforge register -name NAME -ra RA -dec DEC -observed-by OBSERVER \
//		[-base-url URL] [-api-key REF] [-timeout 10s] [-v]
//
// REF is a literal key or a secret reference: env://VAR or vault://path#key.
// Vault is configured from VAULT_ADDR plus VAULT_TOKEN or
// VAULT_ROLE_ID/VAULT_SECRET_ID. Without -base-url the in-process mock is
// used.
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/goccy/go-json"

	stellarforge "github.com/stellarforge/stellarforge-go"
	"github.com/stellarforge/stellarforge-go/internal/observability"
	"github.com/stellarforge/stellarforge-go/internal/secret"
	"github.com/stellarforge/stellarforge-go/internal/secret/env"
	"github.com/stellarforge/stellarforge-go/internal/secret/vault"
)

const (
	exitOK    = 0
	exitError = 1
	exitUsage = 2
)

const defaultAPIKeyRef = "env://STELLARFORGE_API_KEY"

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	code := run(ctx, os.Args[1:], os.Stdout, os.Stderr)
	stop()
	os.Exit(code)
}

func run(ctx context.Context, args []string, stdout, stderr io.Writer) int {
	if len(args) == 0 {
		fmt.Fprintln(stderr, "usage: stellarforge register [flags]")
		return exitUsage
	}

	switch args[0] {
	case "register":
		return runRegister(ctx, args[1:], stdout, stderr)
	case "version":
		fmt.Fprintln(stdout, stellarforge.Version)
		return exitOK
	default:
		fmt.Fprintf(stderr, "unknown command %q\n", args[0])
		return exitUsage
	}
}

type registerFlags struct {
	name       string
	ra         float64
	dec        float64
	observedBy string
	baseURL    string
	apiKeyRef  string
	timeout    time.Duration
	verbose    bool
}

func parseRegisterFlags(args []string, stderr io.Writer) (*registerFlags, error) {
	f := &registerFlags{}
	fs := flag.NewFlagSet("register", flag.ContinueOnError)
	fs.SetOutput(stderr)
	fs.StringVar(&f.name, "name", "", "provisional star name")
	fs.Float64Var(&f.ra, "ra", 0, "right ascension in hours [0, 24]")
	fs.Float64Var(&f.dec, "dec", 0, "declination in degrees")
	fs.StringVar(&f.observedBy, "observed-by", "", "observer or facility")
	fs.StringVar(&f.baseURL, "base-url", "", "registry base URL; empty uses the in-process mock")
	fs.StringVar(&f.apiKeyRef, "api-key", defaultAPIKeyRef, "API key or secret reference")
	fs.DurationVar(&f.timeout, "timeout", 10*time.Second, "request timeout")
	fs.BoolVar(&f.verbose, "v", false, "debug logging to stderr")

	if err := fs.Parse(args); err != nil {
		return nil, err
	}
	if f.name == "" {
		return nil, errors.New("-name is required")
	}
	if f.observedBy == "" {
		return nil, errors.New("-observed-by is required")
	}
	return f, nil
}

func runRegister(ctx context.Context, args []string, stdout, stderr io.Writer) int {
	f, err := parseRegisterFlags(args, stderr)
	if err != nil {
		if !errors.Is(err, flag.ErrHelp) {
			fmt.Fprintln(stderr, err)
		}
		return exitUsage
	}

	level := "warn"
	if f.verbose {
		level = "debug"
	}
	logger, err := observability.NewLogger(observability.LoggerConfig{Level: level, Format: "text", Output: stderr})
	if err != nil {
		fmt.Fprintln(stderr, err)
		return exitError
	}

	ctx, cancel := context.WithTimeout(ctx, f.timeout)
	defer cancel()

	secrets := newSecretManager(logger)
	defer secrets.Close()

	apiKey, err := secrets.Resolve(ctx, f.apiKeyRef)
	if err != nil {
		// A missing default reference means "no key"; the registry decides.
		if f.apiKeyRef != defaultAPIKeyRef || !errors.Is(err, secret.ErrNotFound) {
			fmt.Fprintf(stderr, "resolve api key: %v\n", err)
			return exitError
		}
		apiKey = ""
	}

	opts := []stellarforge.Option{stellarforge.WithLogger(logger)}
	if f.baseURL != "" {
		opts = append(opts, stellarforge.WithBaseURL(f.baseURL), stellarforge.WithAllowPrivateBaseURL(true))
	}
	client, err := stellarforge.New(apiKey, opts...)
	if err != nil {
		fmt.Fprintf(stderr, "create client: %v\n", err)
		return exitError
	}
	defer client.Close()

	star, err := client.RegisterNewStar(ctx, f.name, f.ra, f.dec, f.observedBy)
	if err != nil {
		fmt.Fprintf(stderr, "registration failed: %v\n", err)
		return exitError
	}

	enc := json.NewEncoder(stdout)
	enc.SetIndent("", "  ")
	if err := enc.Encode(star); err != nil {
		fmt.Fprintf(stderr, "encode star: %v\n", err)
		return exitError
	}
	return exitOK
}

// newSecretManager registers the env provider and, lazily, Vault.
func newSecretManager(logger *slog.Logger) *secret.Manager {
	m := secret.NewManager()
	m.Register("env", env.New(""))
	m.Register("vault", &lazyVault{logger: logger})
	return m
}

// lazyVault logs in to Vault on first use so that runs without vault://
// references never need Vault configuration.
type lazyVault struct {
	logger   *slog.Logger
	provider secret.Provider
}

func (l *lazyVault) Get(ctx context.Context, path string) (string, error) {
	if l.provider == nil {
		addr := os.Getenv("VAULT_ADDR")
		if addr == "" {
			return "", errors.New("VAULT_ADDR is not set")
		}
		p, err := vault.New(ctx, vault.Config{
			Address:  addr,
			Token:    os.Getenv("VAULT_TOKEN"),
			RoleID:   os.Getenv("VAULT_ROLE_ID"),
			SecretID: os.Getenv("VAULT_SECRET_ID"),
		}, l.logger)
		if err != nil {
			return "", err
		}
		l.provider = secret.NewCachedProvider(p, 5*time.Minute)
	}
	return l.provider.Get(ctx, path)
}

func (l *lazyVault) Close() error {
	if l.provider == nil {
		return nil
	}
	return l.provider.Close()
}
