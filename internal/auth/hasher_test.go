package auth

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

func newTestHasher() *BcryptHasher {
	// Min cost keeps the suite fast; the work factor does not change
	// behavior.
	return NewBcryptHasher(bcrypt.MinCost)
}

func TestHashRoundTrip(t *testing.T) {
	h := newTestHasher()

	hash, err := h.Hash("Passw0rd!")
	require.NoError(t, err)
	require.NotEqual(t, "Passw0rd!", hash)

	ok, err := h.Verify("Passw0rd!", hash)
	require.NoError(t, err)
	assert.True(t, ok)

	ok, err = h.Verify("WrongPass1!", hash)
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestHashSaltsEveryCall(t *testing.T) {
	h := newTestHasher()

	first, err := h.Hash("Passw0rd!")
	require.NoError(t, err)
	second, err := h.Hash("Passw0rd!")
	require.NoError(t, err)

	assert.NotEqual(t, first, second)
}

func TestVerifyCorruptHashIsAnError(t *testing.T) {
	h := newTestHasher()

	ok, err := h.Verify("Passw0rd!", "not-a-bcrypt-hash")
	assert.Error(t, err)
	assert.False(t, ok)
}

func TestNewBcryptHasherClampsCost(t *testing.T) {
	assert.Equal(t, DefaultBcryptCost, NewBcryptHasher(99).cost)
	assert.Equal(t, DefaultBcryptCost, NewBcryptHasher(0).cost)
	assert.Equal(t, bcrypt.MinCost, NewBcryptHasher(bcrypt.MinCost).cost)
}
