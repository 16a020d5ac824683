package biometric

import (
	"bytes"
	"encoding/base64"
	"errors"
	"image"
	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"
	"strings"
)

// ErrUndecodableImage is returned when the payload is not a base64 encoded
// PNG, JPEG or GIF image.
var ErrUndecodableImage = errors.New("biometric: image could not be decoded")

// Image is a validated, decoded image payload.
type Image struct {
	Data   []byte
	Format string
	Width  int
	Height int
}

// DecodeImage accepts raw base64 or a data URL and validates that the bytes
// are an image.
func DecodeImage(encoded string) (Image, error) {
	encoded = strings.TrimSpace(encoded)
	if i := strings.Index(encoded, ","); i >= 0 && strings.HasPrefix(encoded, "data:") {
		encoded = encoded[i+1:]
	}
	if encoded == "" {
		return Image{}, ErrUndecodableImage
	}

	data, err := base64.StdEncoding.DecodeString(encoded)
	if err != nil {
		data, err = base64.RawStdEncoding.DecodeString(encoded)
		if err != nil {
			return Image{}, ErrUndecodableImage
		}
	}

	cfg, format, err := image.DecodeConfig(bytes.NewReader(data))
	if err != nil || cfg.Width == 0 || cfg.Height == 0 {
		return Image{}, ErrUndecodableImage
	}
	return Image{Data: data, Format: format, Width: cfg.Width, Height: cfg.Height}, nil
}
