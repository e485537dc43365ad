package ghost

import (
	"encoding/hex"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// tokenLifetime is how long a minted token stays valid. The server
// rejects tokens whose lifetime exceeds its own ceiling, so this stays
// well under it.
const tokenLifetime = 5 * time.Minute

// tokenAudience is the audience claim the admin API verifies.
const tokenAudience = "/admin/"

// MintToken creates a short-lived signed request token from an admin API
// key. The secret half of the key is hex-decoded here and used as the
// HS256 signing key; the key id travels in the token header so the
// server can locate the matching secret.
//
// The output is deterministic for a fixed credentials and timestamp
// pair. Tokens are minted fresh for every request and never cached.
func MintToken(creds Credentials, now time.Time) (string, error) {
	secret, err := hex.DecodeString(creds.Secret)
	if err != nil {
		return "", fmt.Errorf("%w: secret is not valid hex", ErrInvalidCredentials)
	}

	claims := jwt.MapClaims{
		"iat": now.Unix(),
		"exp": now.Add(tokenLifetime).Unix(),
		"aud": tokenAudience,
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	token.Header["kid"] = creds.KeyID

	signed, err := token.SignedString(secret)
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrInvalidCredentials, err)
	}

	return signed, nil
}
