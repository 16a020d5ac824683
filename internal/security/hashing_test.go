package security

import (
	"testing"

	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

func TestNewHasherClampsCost(t *testing.T) {
	require.Equal(t, bcrypt.DefaultCost, NewHasher(0).Cost)
	require.Equal(t, bcrypt.MinCost, NewHasher(1).Cost)
	require.Equal(t, bcrypt.MaxCost, NewHasher(99).Cost)
	require.Equal(t, 11, NewHasher(11).Cost)
}

func TestHashAndCompare(t *testing.T) {
	h := NewHasher(bcrypt.MinCost)

	hash, err := h.Hash([]byte("123456"))
	require.NoError(t, err)
	require.NotEqual(t, "123456", string(hash))

	require.NoError(t, h.Compare(hash, []byte("123456")))
	require.ErrorIs(t, h.Compare(hash, []byte("654321")), ErrMismatch)
	require.ErrorIs(t, h.Compare([]byte("not-a-hash"), []byte("123456")), ErrMismatch)
}

func TestHashIsSalted(t *testing.T) {
	h := NewHasher(bcrypt.MinCost)
	a, err := h.Hash([]byte("secret"))
	require.NoError(t, err)
	b, err := h.Hash([]byte("secret"))
	require.NoError(t, err)
	require.NotEqual(t, a, b)
}

func TestBurnDoesNotPanic(t *testing.T) {
	NewHasher(bcrypt.MinCost).Burn([]byte("anything"))
}
