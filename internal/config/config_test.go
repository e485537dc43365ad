package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/openclaw/ghostctl/pkg/ghost"
)

func writeConfig(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestLoad_HCL(t *testing.T) {
	path := writeConfig(t, "config.hcl", `
base_url      = "https://blog.example.com"
readonly_mode = true
allow_delete  = true
timeout       = "10s"
`)

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, "https://blog.example.com", cfg.BaseURL)
	assert.True(t, cfg.ReadonlyMode)
	assert.True(t, cfg.AllowDelete)
	assert.Equal(t, "10s", cfg.Timeout)

	// Unset fields pick up defaults.
	assert.Equal(t, DefaultCredentialsPath, cfg.CredentialsFile)
	assert.Equal(t, DefaultLogDir, cfg.LogDir)
	require.NotNil(t, cfg.AllowPublish)
	assert.True(t, *cfg.AllowPublish)
}

func TestLoad_JSON(t *testing.T) {
	path := writeConfig(t, "config.json", `{
  "base_url": "https://blog.example.com",
  "allow_publish": false,
  "allow_member_access": true,
  "log_dir": "/var/log/ghostctl"
}`)

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, "https://blog.example.com", cfg.BaseURL)
	require.NotNil(t, cfg.AllowPublish)
	assert.False(t, *cfg.AllowPublish)
	assert.True(t, cfg.AllowMemberAccess)
	assert.Equal(t, "/var/log/ghostctl", cfg.LogDir)
}

func TestLoad_UnknownKeysTolerated(t *testing.T) {
	// Config files are often shared with other automation. Unknown keys
	// must not break loading.
	path := writeConfig(t, "config.json", `{
  "base_url": "https://blog.example.com",
  "agent_name": "content-bot",
  "unrelated_tool": {"enabled": true}
}`)

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "https://blog.example.com", cfg.BaseURL)
}

func TestLoad_MissingBaseURL(t *testing.T) {
	path := writeConfig(t, "config.json", `{"readonly_mode": true}`)

	_, err := Load(path)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "base_url")
}

func TestLoad_InvalidTimeout(t *testing.T) {
	path := writeConfig(t, "config.json", `{
  "base_url": "https://blog.example.com",
  "timeout": "ten seconds"
}`)

	_, err := Load(path)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "timeout")
}

func TestLoad_MissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "absent.json"))
	assert.Error(t, err)
}

func TestLoad_UnsupportedExtension(t *testing.T) {
	path := writeConfig(t, "config.yaml", "base_url: https://blog.example.com")

	_, err := Load(path)
	assert.Error(t, err)
}

func TestConfig_Policy(t *testing.T) {
	allowPublish := false
	cfg := &Config{
		ReadonlyMode:      true,
		AllowPublish:      &allowPublish,
		AllowDelete:       true,
		AllowMemberAccess: true,
	}

	policy := cfg.Policy()
	assert.Equal(t, ghost.Policy{
		ReadonlyMode:      true,
		AllowPublish:      false,
		AllowDelete:       true,
		AllowMemberAccess: true,
	}, policy)
}

func TestConfig_PolicyDefaultsPublishTrue(t *testing.T) {
	cfg := &Config{}

	policy := cfg.Policy()
	assert.True(t, policy.AllowPublish)
	assert.False(t, policy.AllowDelete)
}

func TestConfig_ClientConfig(t *testing.T) {
	cfg := Default()
	cfg.BaseURL = "https://blog.example.com"
	cfg.Timeout = "12s"

	creds := ghost.Credentials{KeyID: "abc", Secret: "deadbeef"}
	clientCfg := cfg.ClientConfig(creds, nil)

	assert.Equal(t, "https://blog.example.com", clientCfg.BaseURL)
	assert.Equal(t, creds, clientCfg.Credentials)
	require.NotNil(t, clientCfg.Policy)
	assert.True(t, clientCfg.Policy.AllowPublish)
	assert.Equal(t, "12s", clientCfg.Timeout.String())
}

func TestExpandPath(t *testing.T) {
	home, err := os.UserHomeDir()
	require.NoError(t, err)

	tests := []struct {
		name string
		in   string
		want string
	}{
		{"tilde prefix", "~/.openclaw/secrets/ghost_creds", filepath.Join(home, ".openclaw/secrets/ghost_creds")},
		{"bare tilde", "~", home},
		{"absolute path untouched", "/etc/ghostctl/creds", "/etc/ghostctl/creds"},
		{"relative path untouched", "secrets/creds", "secrets/creds"},
		{"tilde in the middle untouched", "/data/~backup", "/data/~backup"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ExpandPath(tt.in)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}
