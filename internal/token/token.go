// Package token signs and verifies the time-limited tokens used for email
// confirmation and API bearer auth.
package token

import (
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// Purpose scopes a token to one use. The signing key is derived from the
// purpose, so a token issued for one purpose can never verify as another.
type Purpose string

const (
	PurposeConfirm Purpose = "confirm"
	PurposeAPIAuth Purpose = "api-auth"
)

// DefaultTTL matches the original confirmation/API token lifetime.
const DefaultTTL = time.Hour

type claims struct {
	UserID  uint   `json:"uid"`
	Purpose string `json:"purpose"`
	jwt.RegisteredClaims
}

// Codec issues and verifies HS256 tokens with a server-side secret.
type Codec struct {
	secret []byte
	now    func() time.Time
}

func NewCodec(secret []byte) *Codec {
	return &Codec{secret: secret, now: time.Now}
}

// WithClock returns a copy using the given clock. Test hook.
func (c *Codec) WithClock(now func() time.Time) *Codec {
	return &Codec{secret: c.secret, now: now}
}

// keyFor derives the per-purpose signing key. Rotating the secret
// invalidates every outstanding token, which is acceptable.
func (c *Codec) keyFor(purpose Purpose) []byte {
	key := make([]byte, 0, len(c.secret)+len(purpose)+1)
	key = append(key, c.secret...)
	key = append(key, 0x1f)
	key = append(key, purpose...)
	return key
}

// Issue signs a token carrying userID, valid for ttl from now.
func (c *Codec) Issue(userID uint, purpose Purpose, ttl time.Duration) (string, error) {
	now := c.now()
	t := jwt.NewWithClaims(jwt.SigningMethodHS256, &claims{
		UserID:  userID,
		Purpose: string(purpose),
		RegisteredClaims: jwt.RegisteredClaims{
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
		},
	})
	return t.SignedString(c.keyFor(purpose))
}

// Verify checks signature, expiry and purpose. Every failure mode collapses
// to ok == false; callers never learn why a token was rejected.
func (c *Codec) Verify(tokenString string, purpose Purpose) (userID uint, ok bool) {
	parsed, err := jwt.ParseWithClaims(tokenString, &claims{}, func(t *jwt.Token) (interface{}, error) {
		if _, isHMAC := t.Method.(*jwt.SigningMethodHMAC); !isHMAC {
			return nil, jwt.ErrTokenSignatureInvalid
		}
		return c.keyFor(purpose), nil
	},
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithTimeFunc(c.now),
		jwt.WithExpirationRequired(),
	)
	if err != nil || !parsed.Valid {
		return 0, false
	}
	cl, isClaims := parsed.Claims.(*claims)
	if !isClaims || cl.Purpose != string(purpose) || cl.UserID == 0 {
		return 0, false
	}
	return cl.UserID, true
}
