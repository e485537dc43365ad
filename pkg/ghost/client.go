package ghost

import (
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/hashicorp/go-hclog"
)

const (
	// adminPath is the URL prefix every admin endpoint lives under.
	adminPath = "/ghost/api/admin"

	// acceptVersion pins the admin API version negotiated with the
	// server.
	acceptVersion = "v5.0"
)

// Client is an authenticated admin API client with a locally enforced
// permission gate. Every operation consults the gate first, then mints a
// fresh request token, so denied operations and malformed keys never
// touch the wire.
//
// All fields are immutable after construction; a single Client is safe
// for concurrent use and its requests share one pooled HTTP client.
type Client struct {
	apiURL     string
	creds      Credentials
	policy     Policy
	userAgent  string
	httpClient *http.Client
	logger     hclog.Logger

	// now is the clock used for token minting. Swappable in tests.
	now func() time.Time
}

// NewClient builds a Client from cfg, applying defaults for anything
// unset. BaseURL and Credentials are required. The admin key secret is
// stored as given and only hex-decoded when a token is minted, so a
// malformed secret surfaces on first use rather than here.
func NewClient(cfg *Config) (*Client, error) {
	if cfg == nil {
		cfg = &Config{}
	}

	defaults := DefaultConfig()
	if cfg.Policy == nil {
		cfg.Policy = defaults.Policy
	}
	if cfg.TLSVerify == nil {
		cfg.TLSVerify = defaults.TLSVerify
	}
	if cfg.Timeout == 0 {
		cfg.Timeout = defaults.Timeout
	}
	if cfg.UserAgent == "" {
		cfg.UserAgent = defaults.UserAgent
	}
	if cfg.Logger == nil {
		cfg.Logger = hclog.NewNullLogger()
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid client config: %w", err)
	}

	return &Client{
		apiURL:     strings.TrimRight(cfg.BaseURL, "/") + adminPath,
		creds:      cfg.Credentials,
		policy:     *cfg.Policy,
		userAgent:  cfg.UserAgent,
		httpClient: cfg.NewHTTPClient(),
		logger:     cfg.Logger.Named("ghost-client"),
		now:        time.Now,
	}, nil
}

// Policy returns the capability set this client enforces.
func (c *Client) Policy() Policy {
	return c.policy
}
