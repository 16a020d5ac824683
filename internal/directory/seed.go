package directory

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
)

// SeedFile is the JSON document loaded by the seed command.
type SeedFile struct {
	Identities []SeedIdentity `json:"identities"`
	Links      []SeedLink     `json:"links"`
}

// SeedIdentity is one identity to enroll. FaceTemplate may be empty.
type SeedIdentity struct {
	Email        string    `json:"email"`
	Name         string    `json:"name"`
	NationalID   string    `json:"national_id"`
	Contact      string    `json:"contact"`
	Password     string    `json:"password"`
	FaceTemplate []float64 `json:"face_template"`
}

// SeedLink points a national id at a contact address.
type SeedLink struct {
	NationalID string `json:"national_id"`
	Contact    string `json:"contact"`
}

// SeedReport counts what Seed wrote.
type SeedReport struct {
	Created int
	Skipped int
	Linked  int
}

// DecodeSeed parses a seed document, rejecting unknown fields.
func DecodeSeed(r io.Reader) (SeedFile, error) {
	dec := json.NewDecoder(r)
	dec.DisallowUnknownFields()
	var f SeedFile
	if err := dec.Decode(&f); err != nil {
		return SeedFile{}, fmt.Errorf("decode seed: %w", err)
	}
	return f, nil
}

// Seed enrolls every identity and upserts every link. Identities that
// already exist are skipped, so a seed file can be applied repeatedly.
func (s *Service) Seed(ctx context.Context, f SeedFile) (SeedReport, error) {
	var report SeedReport
	for i, in := range f.Identities {
		_, err := s.Enroll(ctx, Enrollment{
			Email:      in.Email,
			Name:       in.Name,
			NationalID: in.NationalID,
			Contact:    in.Contact,
			Password:   in.Password,
			Template:   in.FaceTemplate,
		})
		switch {
		case errors.Is(err, ErrConflict):
			report.Skipped++
		case err != nil:
			return report, fmt.Errorf("identity %d (%s): %w", i, in.Email, err)
		default:
			report.Created++
		}
	}
	for i, l := range f.Links {
		if _, err := s.LinkContact(ctx, l.NationalID, l.Contact); err != nil {
			return report, fmt.Errorf("link %d: %w", i, err)
		}
		report.Linked++
	}
	return report, nil
}
