package types

import (
	"path/filepath"
	"testing"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestConfigFromEnv(t *testing.T) {
	t.Run("Defaults", func(t *testing.T) {
		t.Setenv("NOTEHUB_COOKIE_STORE_SECRET", "secret")
		t.Setenv("NOTEHUB_DB_PATH", filepath.Join(t.TempDir(), "notehub.db"))

		cfg, err := ConfigFromEnv()
		require.NoError(t, err)
		assert.Equal(t, ":8080", cfg.ListenAddr)
		assert.True(t, cfg.AllowSignup)
		assert.Equal(t, StoreSQLite, cfg.Store)
		assert.Equal(t, []byte("secret"), cfg.CookieSecret)
		assert.Equal(t, logrus.InfoLevel, cfg.LogLevel)
		assert.False(t, cfg.MCPEnabled())
	})

	t.Run("MissingRequired", func(t *testing.T) {
		t.Setenv("NOTEHUB_COOKIE_STORE_SECRET", "")
		t.Setenv("NOTEHUB_STORE", "sqlite")

		_, err := ConfigFromEnv()
		require.Error(t, err)
		assert.Contains(t, err.Error(), "NOTEHUB_COOKIE_STORE_SECRET")
	})

	t.Run("MissingDBDirectory", func(t *testing.T) {
		t.Setenv("NOTEHUB_COOKIE_STORE_SECRET", "secret")
		t.Setenv("NOTEHUB_DB_PATH", filepath.Join(t.TempDir(), "missing", "notehub.db"))

		_, err := ConfigFromEnv()
		require.Error(t, err)
		assert.Contains(t, err.Error(), "Directory for NOTEHUB_DB_PATH must exist")
	})

	t.Run("Mongo", func(t *testing.T) {
		t.Setenv("NOTEHUB_COOKIE_STORE_SECRET", "secret")
		t.Setenv("NOTEHUB_STORE", "mongo")
		t.Setenv("NOTEHUB_MONGO_URI", "mongodb://localhost:27017")

		cfg, err := ConfigFromEnv()
		require.NoError(t, err)
		assert.Equal(t, StoreMongo, cfg.Store)
		assert.Equal(t, "notehub", cfg.MongoDatabase)
	})

	t.Run("UnknownStore", func(t *testing.T) {
		t.Setenv("NOTEHUB_COOKIE_STORE_SECRET", "secret")
		t.Setenv("NOTEHUB_STORE", "redis")

		_, err := ConfigFromEnv()
		require.Error(t, err)
		assert.Contains(t, err.Error(), "NOTEHUB_STORE")
	})

	t.Run("BadBool", func(t *testing.T) {
		t.Setenv("NOTEHUB_COOKIE_STORE_SECRET", "secret")
		t.Setenv("NOTEHUB_DB_PATH", filepath.Join(t.TempDir(), "notehub.db"))
		t.Setenv("NOTEHUB_ALLOW_SIGNUP", "maybe")

		_, err := ConfigFromEnv()
		require.Error(t, err)
		assert.Contains(t, err.Error(), "parsing NOTEHUB_ALLOW_SIGNUP")
	})
}

func TestConfig_SignupAllowed(t *testing.T) {
	assert.False(t, Config{}.SignupAllowed("alice1"))
	assert.True(t, Config{AllowSignup: true}.SignupAllowed("alice1"))

	restricted := Config{AllowSignup: true, AllowSignupLogins: []string{"Alice1"}}
	assert.True(t, restricted.SignupAllowed("alice1"))
	assert.False(t, restricted.SignupAllowed("bob"))
}
