// Package config loads the on-disk skill configuration: where the site
// lives, where the admin key is stored, and the permission policy for
// this install.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	validation "github.com/go-ozzo/ozzo-validation/v4"
	"github.com/hashicorp/go-hclog"
	"github.com/hashicorp/hcl/v2"
	"github.com/hashicorp/hcl/v2/hclsimple"

	"github.com/openclaw/ghostctl/pkg/ghost"
)

// DefaultCredentialsPath is where the admin key lives unless the config
// or a flag says otherwise.
const DefaultCredentialsPath = "~/.openclaw/secrets/ghost_creds"

// DefaultLogDir receives the JSONL run log unless overridden.
const DefaultLogDir = ".skill-logs"

// Config is the file-level configuration. Both HCL and JSON files are
// accepted; the decoder dispatches on the file extension.
type Config struct {
	// BaseURL is the root URL of the site, for example
	// "https://blog.example.com".
	BaseURL string `hcl:"base_url,optional" json:"base_url"`

	// CredentialsFile points at the single-line admin key file in
	// key_id:secret_hex form. Defaults to DefaultCredentialsPath.
	CredentialsFile string `hcl:"credentials_file,optional" json:"credentials_file"`

	// Timeout bounds each API request, in Go duration syntax.
	// Default: "30s".
	Timeout string `hcl:"timeout,optional" json:"timeout"`

	// LogDir receives the JSONL run log. Default: DefaultLogDir.
	LogDir string `hcl:"log_dir,optional" json:"log_dir"`

	// ReadonlyMode denies every mutating operation regardless of the
	// flags below. Default: false.
	ReadonlyMode bool `hcl:"readonly_mode,optional" json:"readonly_mode"`

	// AllowPublish permits publication state changes. Default: true.
	AllowPublish *bool `hcl:"allow_publish,optional" json:"allow_publish"`

	// AllowDelete permits permanent deletions. Default: false.
	AllowDelete bool `hcl:"allow_delete,optional" json:"allow_delete"`

	// AllowMemberAccess permits reading member data. Default: false.
	AllowMemberAccess bool `hcl:"allow_member_access,optional" json:"allow_member_access"`

	// Remain collects attributes this tool does not know, so a config
	// file shared with other tooling still decodes.
	Remain hcl.Body `hcl:",remain" json:"-"`
}

// Default returns a Config with every optional field at its default.
func Default() *Config {
	allowPublish := true
	return &Config{
		CredentialsFile: DefaultCredentialsPath,
		Timeout:         "30s",
		LogDir:          DefaultLogDir,
		AllowPublish:    &allowPublish,
	}
}

// Load reads and validates a config file, applying defaults for
// anything unset.
func Load(path string) (*Config, error) {
	var cfg Config
	if err := hclsimple.DecodeFile(path, nil, &cfg); err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}

	cfg.applyDefaults()
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config %s: %w", path, err)
	}

	return &cfg, nil
}

func (c *Config) applyDefaults() {
	defaults := Default()
	if c.CredentialsFile == "" {
		c.CredentialsFile = defaults.CredentialsFile
	}
	if c.Timeout == "" {
		c.Timeout = defaults.Timeout
	}
	if c.LogDir == "" {
		c.LogDir = defaults.LogDir
	}
	if c.AllowPublish == nil {
		c.AllowPublish = defaults.AllowPublish
	}
}

// Validate checks the configuration for completeness.
func (c *Config) Validate() error {
	if err := validation.ValidateStruct(c,
		validation.Field(&c.BaseURL, validation.Required),
		validation.Field(&c.CredentialsFile, validation.Required),
		validation.Field(&c.LogDir, validation.Required),
	); err != nil {
		return err
	}

	if _, err := time.ParseDuration(c.Timeout); err != nil {
		return fmt.Errorf("invalid timeout %q: %w", c.Timeout, err)
	}

	return nil
}

// Policy converts the file-level gate settings into the client policy.
func (c *Config) Policy() ghost.Policy {
	allowPublish := true
	if c.AllowPublish != nil {
		allowPublish = *c.AllowPublish
	}
	return ghost.Policy{
		ReadonlyMode:      c.ReadonlyMode,
		AllowPublish:      allowPublish,
		AllowDelete:       c.AllowDelete,
		AllowMemberAccess: c.AllowMemberAccess,
	}
}

// ClientConfig assembles a client configuration from this file plus
// separately loaded credentials.
func (c *Config) ClientConfig(creds ghost.Credentials, logger hclog.Logger) *ghost.Config {
	timeout, _ := time.ParseDuration(c.Timeout)
	policy := c.Policy()
	return &ghost.Config{
		BaseURL:     c.BaseURL,
		Credentials: creds,
		Policy:      &policy,
		Timeout:     timeout,
		Logger:      logger,
	}
}

// ExpandPath resolves a leading "~" against the current user's home
// directory. Paths without one pass through untouched.
func ExpandPath(path string) (string, error) {
	if path != "~" && !strings.HasPrefix(path, "~/") {
		return path, nil
	}

	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("failed to resolve home directory: %w", err)
	}
	return filepath.Join(home, strings.TrimPrefix(path, "~")), nil
}
