package config_test

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/laybackco/backend-garments/internal/config"
)

func baseEnv() map[string]string {
	return map[string]string{
		"DATABASE_URL":          "postgres://localhost:5432/garments",
		"REDIS_URL":             "redis://localhost:6379/0",
		"JWT_SECRET":            "test-jwt-secret",
		"PAYSTACK_SECRET_KEY":   "sk_test_paystack",
		"STRIPE_WEBHOOK_SECRET": "whsec_test",
	}
}

func TestLoadRequiresProviderSecrets(t *testing.T) {
	for _, key := range []string{"PAYSTACK_SECRET_KEY", "STRIPE_WEBHOOK_SECRET", "DATABASE_URL"} {
		env := baseEnv()
		env[key] = ""
		_, err := config.LoadForTests(env)
		require.Error(t, err, "expected startup failure without %s", key)
		require.Contains(t, err.Error(), key)
	}
}

func TestLoadDefaults(t *testing.T) {
	cfg, err := config.LoadForTests(baseEnv())
	require.NoError(t, err)
	require.Equal(t, ":8080", cfg.HTTPAddr())
	require.Equal(t, int64(10<<20), cfg.BodyLimitBytes)
	require.Equal(t, int64(5<<20), cfg.UploadMaxBytes)
	require.Equal(t, "./public/uploads", cfg.UploadDir)
}

func TestHTTPAddrNormalisesPort(t *testing.T) {
	env := baseEnv()
	env["PORT"] = ":3000"
	cfg, err := config.LoadForTests(env)
	require.NoError(t, err)
	require.Equal(t, ":3000", cfg.HTTPAddr())
}
