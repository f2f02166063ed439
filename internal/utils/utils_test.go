package utils

import (
	"crypto/tls"
	"crypto/x509"
	"encoding/pem"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBuildPostgresDSNFromEnv(t *testing.T) {
	for _, k := range []string{"PG_DSN", "PG_HOST", "PG_PORT", "PG_USER", "PG_PASSWORD", "PG_DB", "PG_SSLMODE"} {
		t.Setenv(k, "")
	}
	assert.Equal(t, "postgres://postgres@localhost:5432/canvass?sslmode=disable", BuildPostgresDSNFromEnv())

	t.Setenv("PG_PASSWORD", "pw")
	t.Setenv("PG_HOST", "db")
	assert.Equal(t, "postgres://postgres:pw@db:5432/canvass?sslmode=disable", BuildPostgresDSNFromEnv())

	t.Setenv("PG_DSN", "postgres://x@y/z")
	assert.Equal(t, "postgres://x@y/z", BuildPostgresDSNFromEnv())
}

func TestRedisAddrFromEnv(t *testing.T) {
	t.Setenv("REDIS_HOST", "")
	t.Setenv("REDIS_PORT", "")
	assert.Equal(t, "127.0.0.1:6379", RedisAddrFromEnv())
	t.Setenv("REDIS_HOST", "cache")
	assert.Equal(t, "cache:6379", RedisAddrFromEnv())
}

func TestEnsureSelfSignedCert(t *testing.T) {
	dir := t.TempDir()
	cert := filepath.Join(dir, "certs", "server.crt")
	key := filepath.Join(dir, "certs", "server.key")
	require.NoError(t, EnsureSelfSignedCert(cert, key, "canvass.local", "192.168.1.20", "field.example"))

	_, err := tls.LoadX509KeyPair(cert, key)
	require.NoError(t, err)

	raw, err := os.ReadFile(cert)
	require.NoError(t, err)
	block, _ := pem.Decode(raw)
	require.NotNil(t, block)
	c, err := x509.ParseCertificate(block.Bytes)
	require.NoError(t, err)
	assert.Contains(t, c.DNSNames, "field.example")
	assert.Len(t, c.IPAddresses, 3)

	// 已存在时不重写
	before, _ := os.Stat(cert)
	require.NoError(t, EnsureSelfSignedCert(cert, key, "other"))
	after, _ := os.Stat(cert)
	assert.Equal(t, before.ModTime(), after.ModTime())
}
