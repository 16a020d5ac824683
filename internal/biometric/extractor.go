package biometric

import (
	"bytes"
	"context"
	"encoding/base64"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"
)

// ErrNoFaceDetected is returned when an image contains no face.
var ErrNoFaceDetected = errors.New("biometric: no face detected")

// Extraction is the template of the first face found, with the total face
// count so callers can surface multiple detections.
type Extraction struct {
	Vector Vector
	Faces  int
}

// Extractor turns an image into a face template.
type Extractor interface {
	Extract(ctx context.Context, img Image) (Extraction, error)
}

// HTTPExtractor calls a face embedding service. The service receives
// {"image": "<base64>"} and answers {"encodings": [[...], ...]} with faces in
// scan order.
type HTTPExtractor struct {
	URL        string
	HTTPClient *http.Client
}

// NewHTTPExtractor returns an HTTPExtractor posting to url.
func NewHTTPExtractor(url string) *HTTPExtractor {
	return &HTTPExtractor{
		URL:        url,
		HTTPClient: &http.Client{Timeout: 15 * time.Second},
	}
}

type extractRequest struct {
	Image string `json:"image"`
}

type extractResponse struct {
	Encodings [][]float64 `json:"encodings"`
}

// Extract sends img to the service and returns the first encoding.
func (e *HTTPExtractor) Extract(ctx context.Context, img Image) (Extraction, error) {
	if e.URL == "" {
		return Extraction{}, errors.New("biometric: extractor URL not configured")
	}
	body, err := json.Marshal(extractRequest{Image: base64.StdEncoding.EncodeToString(img.Data)})
	if err != nil {
		return Extraction{}, err
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, e.URL, bytes.NewReader(body))
	if err != nil {
		return Extraction{}, err
	}
	req.Header.Set("Content-Type", "application/json")

	client := e.HTTPClient
	if client == nil {
		client = http.DefaultClient
	}
	resp, err := client.Do(req)
	if err != nil {
		return Extraction{}, fmt.Errorf("biometric: extractor request: %w", err)
	}
	defer resp.Body.Close()

	respBody, _ := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if resp.StatusCode == http.StatusUnprocessableEntity {
		return Extraction{}, ErrNoFaceDetected
	}
	if resp.StatusCode != http.StatusOK {
		return Extraction{}, fmt.Errorf("biometric: extractor failed status=%d body=%s", resp.StatusCode, strings.TrimSpace(string(respBody)))
	}

	var out extractResponse
	if err := json.Unmarshal(respBody, &out); err != nil {
		return Extraction{}, fmt.Errorf("biometric: decode extractor response: %w", err)
	}
	if len(out.Encodings) == 0 {
		return Extraction{}, ErrNoFaceDetected
	}
	first := out.Encodings[0]
	if len(first) != Dimension {
		return Extraction{}, fmt.Errorf("biometric: extractor returned %d values, want %d", len(first), Dimension)
	}
	return Extraction{Vector: Vector(first), Faces: len(out.Encodings)}, nil
}

// SimulatedExtractor returns a zero vector for any decodable image. It exists
// for local development and is only selected by explicit configuration.
type SimulatedExtractor struct{}

func (SimulatedExtractor) Extract(context.Context, Image) (Extraction, error) {
	return Extraction{Vector: make(Vector, Dimension), Faces: 1}, nil
}
