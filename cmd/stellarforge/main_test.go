package main

import (
	"bytes"
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/goccy/go-json"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func runCLI(t *testing.T, args ...string) (int, string, string) {
	t.Helper()
	var stdout, stderr bytes.Buffer
	code := run(context.Background(), args, &stdout, &stderr)
	return code, stdout.String(), stderr.String()
}

func TestRun_Usage(t *testing.T) {
	code, _, stderr := runCLI(t)
	assert.Equal(t, exitUsage, code)
	assert.Contains(t, stderr, "usage")

	code, _, stderr = runCLI(t, "launch")
	assert.Equal(t, exitUsage, code)
	assert.Contains(t, stderr, "unknown command")

	code, _, stderr = runCLI(t, "register", "-ra", "5")
	assert.Equal(t, exitUsage, code)
	assert.Contains(t, stderr, "-name is required")

	code, _, stderr = runCLI(t, "register", "-name", "x")
	assert.Equal(t, exitUsage, code)
	assert.Contains(t, stderr, "-observed-by is required")
}

func TestRun_Version(t *testing.T) {
	code, stdout, _ := runCLI(t, "version")
	assert.Equal(t, exitOK, code)
	assert.Equal(t, "1.0.0\n", stdout)
}

func TestRegister_LiteralKey(t *testing.T) {
	code, stdout, stderr := runCLI(t, "register",
		"-name", "Provisional-2025-A",
		"-ra", "5.67",
		"-dec", "-32.11",
		"-observed-by", "Vera C. Rubin Observatory",
		"-api-key", "VALID-STAGING-KEY",
	)
	require.Equal(t, exitOK, code, stderr)

	var star map[string]any
	require.NoError(t, json.Unmarshal([]byte(stdout), &star))
	assert.Regexp(t, `^SF-\d{4}-\d{4}$`, star["id"])
	assert.Equal(t, "Provisional-2025-A", star["name"])
	assert.Equal(t, 5.67, star["ra"])
}

func TestRegister_EnvKey(t *testing.T) {
	t.Setenv("SF_CLI_TEST_KEY", "TRIGGER-500-ERROR")

	code, _, stderr := runCLI(t, "register",
		"-name", "x", "-ra", "1", "-observed-by", "y",
		"-api-key", "env://SF_CLI_TEST_KEY",
	)
	assert.Equal(t, exitError, code)
	assert.Contains(t, stderr, "registration failed")
	assert.Contains(t, stderr, "Database write failed")
}

func TestRegister_DefaultKeyUnsetIsUnauthenticated(t *testing.T) {
	t.Setenv("STELLARFORGE_API_KEY", "")

	code, _, stderr := runCLI(t, "register", "-name", "x", "-ra", "1", "-observed-by", "y")
	assert.Equal(t, exitError, code)
	assert.Contains(t, stderr, "Invalid API Key provided.")
}

func TestRegister_UnresolvableReference(t *testing.T) {
	code, _, stderr := runCLI(t, "register",
		"-name", "x", "-ra", "1", "-observed-by", "y",
		"-api-key", "env://SF_CLI_DEFINITELY_UNSET",
	)
	assert.Equal(t, exitError, code)
	assert.Contains(t, stderr, "resolve api key")
}

func TestRegister_VaultKey(t *testing.T) {
	vaultSrv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/v1/secret/data/stellarforge" || r.Header.Get("X-Vault-Token") != "root" {
			w.WriteHeader(http.StatusNotFound)
			_, _ = io.WriteString(w, `{"errors":[]}`)
			return
		}
		w.Header().Set("Content-Type", "application/json")
		_, _ = io.WriteString(w, `{"data":{"data":{"api_key":"INVALID-KEY-401"}}}`)
	}))
	defer vaultSrv.Close()

	t.Setenv("VAULT_ADDR", vaultSrv.URL)
	t.Setenv("VAULT_TOKEN", "root")

	code, _, stderr := runCLI(t, "register",
		"-name", "x", "-ra", "1", "-observed-by", "y",
		"-api-key", "vault://secret/data/stellarforge#api_key",
	)
	assert.Equal(t, exitError, code)
	assert.Contains(t, stderr, "Invalid API Key provided.")
}

func TestRegister_BaseURL(t *testing.T) {
	var gotKey string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotKey = r.Header.Get("X-Api-Key")
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusCreated)
		_, _ = io.WriteString(w, `{"star_id":"SF-9999-0001","name":"x","coordinates":{"ra":1,"dec":2},"observed_by":"y","registered_at":"2025-01-01T00:00:00Z"}`)
	}))
	defer srv.Close()

	code, stdout, stderr := runCLI(t, "register",
		"-name", "x", "-ra", "1", "-dec", "2", "-observed-by", "y",
		"-api-key", "remote-key",
		"-base-url", srv.URL,
	)
	require.Equal(t, exitOK, code, stderr)
	assert.Equal(t, "remote-key", gotKey)
	assert.Contains(t, stdout, "SF-9999-0001")
}
