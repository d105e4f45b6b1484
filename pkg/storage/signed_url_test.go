package storage

import (
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestSigner(ttl time.Duration) (*SignedURLSigner, *time.Time) {
	clock := time.Date(2024, 5, 2, 10, 0, 0, 0, time.UTC)
	signer := NewSignedURLSigner("secret", ttl)
	signer.now = func() time.Time { return clock }
	return signer, &clock
}

func TestSignedURLSignerGenerateAndVerify(t *testing.T) {
	signer, _ := newTestSigner(time.Hour)
	token, expiresAt, err := signer.Generate("job-1", "reports/file.csv")
	require.NoError(t, err)
	assert.Equal(t, time.Date(2024, 5, 2, 11, 0, 0, 0, time.UTC), expiresAt.UTC())

	claims, err := signer.Verify(token)
	require.NoError(t, err)
	assert.Equal(t, "job-1", claims.JobID)
	assert.Equal(t, "reports/file.csv", claims.Path)
	assert.True(t, expiresAt.Equal(claims.ExpiresAt))
}

func TestSignedURLSignerExpired(t *testing.T) {
	signer, clock := newTestSigner(time.Minute)
	token, _, err := signer.Generate("job-1", "reports/file.csv")
	require.NoError(t, err)

	*clock = clock.Add(2 * time.Minute)
	_, err = signer.Verify(token)
	require.ErrorIs(t, err, ErrTokenExpired)

	claims, err := signer.Decode(token)
	require.NoError(t, err)
	assert.Equal(t, "reports/file.csv", claims.Path)
}

func TestSignedURLSignerRejectsTampering(t *testing.T) {
	signer, _ := newTestSigner(time.Hour)
	token, _, err := signer.Generate("job-1", "reports/file.csv")
	require.NoError(t, err)

	parts := strings.Split(token, ".")
	parts[0] = "job-2"
	_, err = signer.Verify(strings.Join(parts, "."))
	require.ErrorIs(t, err, ErrInvalidToken)

	_, err = signer.Verify("garbage")
	require.ErrorIs(t, err, ErrInvalidToken)

	other := NewSignedURLSigner("other", time.Hour)
	_, err = other.Verify(token)
	require.ErrorIs(t, err, ErrInvalidToken)
}

func TestSignedURLSignerGenerateValidation(t *testing.T) {
	signer, _ := newTestSigner(time.Hour)
	_, _, err := signer.Generate("", "a.csv")
	require.Error(t, err)
	_, _, err = signer.Generate("job.1", "a.csv")
	require.Error(t, err)

	_, _, err = NewSignedURLSigner("", time.Hour).Generate("job-1", "a.csv")
	require.Error(t, err)
}
