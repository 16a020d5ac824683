package biometric

import (
	"context"
	"errors"
	"fmt"
)

// ErrInvalidTemplate is returned when the enrolled template is missing or has
// the wrong length.
var ErrInvalidTemplate = errors.New("biometric: enrolled template is invalid")

// Result is the outcome of a face check.
type Result struct {
	Match         bool
	Distance      float64
	MultipleFaces bool
}

// Matcher decodes a submitted image, extracts its template and compares it
// to the enrolled one.
type Matcher struct {
	extractor Extractor
	tolerance float64
}

// NewMatcher returns a Matcher using extractor and a fixed tolerance.
func NewMatcher(extractor Extractor, tolerance float64) *Matcher {
	return &Matcher{extractor: extractor, tolerance: tolerance}
}

// Tolerance is the configured match threshold.
func (m *Matcher) Tolerance() float64 { return m.tolerance }

// Verify checks encodedImage against stored. Undecodable images and images
// without a face both yield ErrNoFaceDetected.
func (m *Matcher) Verify(ctx context.Context, stored Vector, encodedImage string) (Result, error) {
	if len(stored) != Dimension {
		return Result{}, ErrInvalidTemplate
	}
	img, err := DecodeImage(encodedImage)
	if err != nil {
		return Result{}, fmt.Errorf("%w: %w", ErrNoFaceDetected, err)
	}
	ext, err := m.extractor.Extract(ctx, img)
	if err != nil {
		return Result{}, err
	}
	if ext.Faces == 0 || len(ext.Vector) == 0 {
		return Result{}, ErrNoFaceDetected
	}
	if len(ext.Vector) != Dimension {
		return Result{}, fmt.Errorf("biometric: extracted %d values, want %d", len(ext.Vector), Dimension)
	}
	match, distance := Compare(stored, ext.Vector, m.tolerance)
	return Result{Match: match, Distance: distance, MultipleFaces: ext.Faces > 1}, nil
}
