package otp

import (
	"context"
	"errors"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// PostgresStore keeps one row per subject in otp_challenges.
type PostgresStore struct {
	db *pgxpool.Pool
}

// NewPostgresStore builds a Postgres-backed challenge store.
func NewPostgresStore(db *pgxpool.Pool) *PostgresStore {
	return &PostgresStore{db: db}
}

// Replace upserts on subject_id so concurrent issues leave a single row.
func (s *PostgresStore) Replace(ctx context.Context, c Challenge) error {
	_, err := s.db.Exec(ctx, `INSERT INTO otp_challenges (subject_id, id, code_hash, expires_at, verified, created_at)
        VALUES ($1, $2, $3, $4, FALSE, $5)
        ON CONFLICT (subject_id) DO UPDATE
        SET id = EXCLUDED.id, code_hash = EXCLUDED.code_hash, expires_at = EXCLUDED.expires_at,
            verified = FALSE, created_at = EXCLUDED.created_at`,
		c.SubjectID, c.ID, c.CodeHash, c.ExpiresAt.UTC(), c.CreatedAt.UTC())
	return err
}

func (s *PostgresStore) Active(ctx context.Context, subjectID string) (Challenge, error) {
	row := s.db.QueryRow(ctx, `SELECT id, subject_id, code_hash, expires_at, verified, created_at
        FROM otp_challenges WHERE subject_id = $1 AND NOT verified`, subjectID)
	var c Challenge
	err := row.Scan(&c.ID, &c.SubjectID, &c.CodeHash, &c.ExpiresAt, &c.Verified, &c.CreatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return Challenge{}, ErrNoChallenge
	}
	if err != nil {
		return Challenge{}, err
	}
	c.ExpiresAt = c.ExpiresAt.UTC()
	c.CreatedAt = c.CreatedAt.UTC()
	return c, nil
}

func (s *PostgresStore) MarkVerified(ctx context.Context, subjectID, challengeID string) error {
	cmd, err := s.db.Exec(ctx, `UPDATE otp_challenges SET verified = TRUE
        WHERE subject_id = $1 AND id = $2 AND NOT verified`, subjectID, challengeID)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return ErrNoChallenge
	}
	return nil
}

func (s *PostgresStore) PurgeExpired(ctx context.Context, before time.Time) (int64, error) {
	cmd, err := s.db.Exec(ctx, `DELETE FROM otp_challenges WHERE expires_at < $1`, before.UTC())
	if err != nil {
		return 0, err
	}
	return cmd.RowsAffected(), nil
}
