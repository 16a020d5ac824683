package otp

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestGenerateCode(t *testing.T) {
	for _, length := range []int{4, 6, 10} {
		code, err := GenerateCode(length)
		require.NoError(t, err)
		require.True(t, IsNumeric(code, length), "code %q", code)
	}
}

func TestGenerateCodeSkipsBiasedBytes(t *testing.T) {
	r := bytes.NewReader([]byte{250, 255, 7, 19, 251, 3, 0, 0, 0, 0})
	code, err := generateCode(r, 4)
	require.NoError(t, err)
	require.Equal(t, "7930", code)
}

func TestGenerateCodeShortRead(t *testing.T) {
	_, err := generateCode(bytes.NewReader([]byte{1}), 6)
	require.Error(t, err)
}

func TestIsNumeric(t *testing.T) {
	require.True(t, IsNumeric("012345", 6))
	require.False(t, IsNumeric("12345", 6))
	require.False(t, IsNumeric("12a456", 6))
	require.False(t, IsNumeric("１２３４５６", 6))
}
