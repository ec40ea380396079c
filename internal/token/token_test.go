package token

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestIssueVerifyRoundTrip(t *testing.T) {
	codec := NewCodec([]byte("test-secret"))

	tok, err := codec.Issue(42, PurposeConfirm, time.Hour)
	require.NoError(t, err)
	require.NotEmpty(t, tok)

	uid, ok := codec.Verify(tok, PurposeConfirm)
	assert.True(t, ok)
	assert.Equal(t, uint(42), uid)
}

func TestVerifyRejectsWrongPurpose(t *testing.T) {
	codec := NewCodec([]byte("test-secret"))

	tok, err := codec.Issue(42, PurposeConfirm, time.Hour)
	require.NoError(t, err)

	// A confirmation token must never pass as an API token: the signing
	// key differs per purpose, not just the claim.
	_, ok := codec.Verify(tok, PurposeAPIAuth)
	assert.False(t, ok)
}

func TestVerifyExpiryBoundary(t *testing.T) {
	issuedAt := time.Date(2024, 6, 1, 12, 0, 0, 0, time.UTC)
	ttl := 60 * time.Second

	codec := NewCodec([]byte("test-secret")).WithClock(func() time.Time { return issuedAt })
	tok, err := codec.Issue(7, PurposeAPIAuth, ttl)
	require.NoError(t, err)

	justBefore := codec.WithClock(func() time.Time { return issuedAt.Add(ttl - time.Second) })
	uid, ok := justBefore.Verify(tok, PurposeAPIAuth)
	assert.True(t, ok)
	assert.Equal(t, uint(7), uid)

	justAfter := codec.WithClock(func() time.Time { return issuedAt.Add(ttl + time.Second) })
	_, ok = justAfter.Verify(tok, PurposeAPIAuth)
	assert.False(t, ok)
}

func TestVerifyRejectsTamperedAndGarbage(t *testing.T) {
	codec := NewCodec([]byte("test-secret"))

	tok, err := codec.Issue(42, PurposeAPIAuth, time.Hour)
	require.NoError(t, err)

	_, ok := codec.Verify(tok+"x", PurposeAPIAuth)
	assert.False(t, ok)

	_, ok = codec.Verify("not-a-token", PurposeAPIAuth)
	assert.False(t, ok)

	_, ok = codec.Verify("", PurposeAPIAuth)
	assert.False(t, ok)
}

func TestVerifyRejectsOtherSecret(t *testing.T) {
	tok, err := NewCodec([]byte("secret-a")).Issue(42, PurposeAPIAuth, time.Hour)
	require.NoError(t, err)

	// Rotating the secret invalidates everything outstanding.
	_, ok := NewCodec([]byte("secret-b")).Verify(tok, PurposeAPIAuth)
	assert.False(t, ok)
}
