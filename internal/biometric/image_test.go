package biometric

import (
	"encoding/base64"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestDecodeImage(t *testing.T) {
	raw := pngBase64(t)

	img, err := DecodeImage(raw)
	require.NoError(t, err)
	require.Equal(t, "png", img.Format)
	require.Equal(t, 4, img.Width)

	img, err = DecodeImage("data:image/png;base64," + raw)
	require.NoError(t, err)
	require.Equal(t, "png", img.Format)

	img, err = DecodeImage(strings.TrimRight(raw, "="))
	require.NoError(t, err)
	require.Equal(t, 4, img.Height)
}

func TestDecodeImageRejectsGarbage(t *testing.T) {
	for _, in := range []string{
		"",
		"data:image/png;base64,",
		"%%%not base64%%%",
		base64.StdEncoding.EncodeToString([]byte("plain text, not an image")),
	} {
		_, err := DecodeImage(in)
		require.ErrorIs(t, err, ErrUndecodableImage, "input %q", in)
	}
}
