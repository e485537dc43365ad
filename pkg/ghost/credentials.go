package ghost

import (
	"fmt"
	"strings"

	"github.com/spf13/afero"
)

// Credentials hold an admin API key split into its identifier and secret
// halves. The key id travels in the clear inside every request token
// header; the secret never leaves the process and stays hex-encoded
// until signing.
type Credentials struct {
	KeyID  string `json:"-"`
	Secret string `json:"-"`
}

// String redacts the secret so formatting a Credentials value, including
// accidentally in a log line, cannot leak key material.
func (c Credentials) String() string {
	return fmt.Sprintf("Credentials{KeyID: %s, Secret: [redacted]}", c.KeyID)
}

// IsZero returns true when no key material is present.
func (c Credentials) IsZero() bool {
	return c.KeyID == "" && c.Secret == ""
}

// ParseCredentials parses an admin API key in "key_id:secret_hex" form.
// Surrounding whitespace is trimmed; the split happens at the first
// colon. The secret's hex encoding is checked lazily at token minting
// time, not here.
func ParseCredentials(raw string) (Credentials, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return Credentials{}, &Error{
			Op:  "ParseCredentials",
			Err: ErrInvalidCredentials,
			Msg: "empty key",
		}
	}

	keyID, secret, ok := strings.Cut(raw, ":")
	if !ok || keyID == "" || secret == "" {
		return Credentials{}, &Error{
			Op:  "ParseCredentials",
			Err: ErrInvalidCredentials,
			Msg: "expected key_id:secret_hex",
		}
	}

	return Credentials{KeyID: keyID, Secret: secret}, nil
}

// LoadCredentials reads an admin API key from a single-line file. The
// filesystem is injected so callers can test against memory; pass
// afero.NewOsFs() for the real thing.
func LoadCredentials(fs afero.Fs, path string) (Credentials, error) {
	raw, err := afero.ReadFile(fs, path)
	if err != nil {
		return Credentials{}, fmt.Errorf("failed to read credentials file: %w", err)
	}

	creds, err := ParseCredentials(string(raw))
	if err != nil {
		return Credentials{}, fmt.Errorf("credentials file %s: %w", path, err)
	}

	return creds, nil
}
