package ghost

import (
	"crypto/tls"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"time"

	validation "github.com/go-ozzo/ozzo-validation/v4"
	"github.com/hashicorp/go-hclog"
)

// Config contains everything a Client needs: where the site lives, the
// admin key to mint request tokens from, and the local permission
// policy.
type Config struct {
	// BaseURL is the root URL of the site, for example
	// "https://blog.example.com". The admin API prefix is appended
	// internally.
	BaseURL string

	// Credentials is the admin API key used to sign request tokens.
	Credentials Credentials

	// Policy is the capability set enforced locally before any network
	// I/O. Nil means DefaultPolicy.
	Policy *Policy

	// TLSVerify controls TLS certificate verification. Disable only for
	// development against self-signed instances. Nil means verify.
	TLSVerify *bool

	// Timeout bounds each request. Default: 30 seconds.
	Timeout time.Duration

	// UserAgent overrides the User-Agent header. Default: "ghostctl".
	UserAgent string

	// Logger receives debug-level request telemetry. Defaults to a null
	// logger. Tokens and key material are never logged at any level.
	Logger hclog.Logger
}

// DefaultConfig returns a Config with defaults applied.
func DefaultConfig() *Config {
	tlsVerify := true
	policy := DefaultPolicy()
	return &Config{
		Policy:    &policy,
		TLSVerify: &tlsVerify,
		Timeout:   30 * time.Second,
		UserAgent: "ghostctl",
	}
}

// Validate checks that the configuration is complete enough to build a
// client.
func (c *Config) Validate() error {
	if err := validation.ValidateStruct(c,
		validation.Field(&c.BaseURL, validation.Required, validation.By(validateBaseURL)),
		validation.Field(&c.Credentials, validation.By(validateCredentials)),
	); err != nil {
		return err
	}

	if c.Timeout <= 0 {
		return fmt.Errorf("timeout must be positive, got: %v", c.Timeout)
	}

	return nil
}

func validateBaseURL(value interface{}) error {
	s, _ := value.(string)
	u, err := url.Parse(s)
	if err != nil {
		return fmt.Errorf("invalid URL: %w", err)
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return fmt.Errorf("must use http or https scheme, got: %q", u.Scheme)
	}
	if u.Host == "" {
		return errors.New("missing host")
	}
	return nil
}

func validateCredentials(value interface{}) error {
	creds, ok := value.(Credentials)
	if !ok {
		return errors.New("must be a Credentials value")
	}
	if creds.KeyID == "" || creds.Secret == "" {
		return errors.New("key id and secret are both required")
	}
	return nil
}

// NewHTTPClient creates a pooled HTTP client for this configuration.
func (c *Config) NewHTTPClient() *http.Client {
	transport := &http.Transport{
		MaxIdleConns:        100,
		MaxIdleConnsPerHost: 10,
		IdleConnTimeout:     90 * time.Second,
	}

	if c.TLSVerify != nil && !*c.TLSVerify {
		transport.TLSClientConfig = &tls.Config{
			InsecureSkipVerify: true,
		}
	}

	return &http.Client{
		Timeout:   c.Timeout,
		Transport: transport,
	}
}
