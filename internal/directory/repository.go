package directory

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
)

// Repository persists identities and identity links.
type Repository interface {
	FindByEmail(ctx context.Context, email string) (Identity, error)
	FindByID(ctx context.Context, id string) (Identity, error)
	FindLink(ctx context.Context, nationalID string) (Link, error)
	Create(ctx context.Context, identity Identity) error
	UpsertLink(ctx context.Context, link Link) error
}

// PostgresRepository implements Repository using PostgreSQL.
type PostgresRepository struct {
	db *pgxpool.Pool
}

// NewPostgresRepository builds a Postgres-backed directory repository.
func NewPostgresRepository(db *pgxpool.Pool) *PostgresRepository {
	return &PostgresRepository{db: db}
}

const identityColumns = `id, email, name, national_id, contact, password_hash, face_template, created_at, updated_at`

// FindByEmail fetches an identity by its (lowercased) email.
func (r *PostgresRepository) FindByEmail(ctx context.Context, email string) (Identity, error) {
	row := r.db.QueryRow(ctx, `SELECT `+identityColumns+` FROM identities WHERE email = $1`, email)
	return scanIdentity(row)
}

// FindByID fetches an identity by subject id.
func (r *PostgresRepository) FindByID(ctx context.Context, id string) (Identity, error) {
	row := r.db.QueryRow(ctx, `SELECT `+identityColumns+` FROM identities WHERE id = $1`, id)
	return scanIdentity(row)
}

func scanIdentity(row pgx.Row) (Identity, error) {
	var id Identity
	err := row.Scan(&id.ID, &id.Email, &id.Name, &id.NationalID, &id.Contact,
		&id.PasswordHash, &id.Template, &id.CreatedAt, &id.UpdatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return Identity{}, ErrNotFound
	}
	if err != nil {
		return Identity{}, err
	}
	id.CreatedAt = id.CreatedAt.UTC()
	id.UpdatedAt = id.UpdatedAt.UTC()
	return id, nil
}

// FindLink reads the link for nationalID, accepting rows written under the
// legacy phone_no column.
func (r *PostgresRepository) FindLink(ctx context.Context, nationalID string) (Link, error) {
	row := r.db.QueryRow(ctx, `SELECT national_id, contact_address, phone_no, updated_at
        FROM identity_links WHERE national_id = $1`, nationalID)
	var (
		rec       linkRecord
		updatedAt time.Time
	)
	err := row.Scan(&rec.NationalID, &rec.Contact, &rec.LegacyPhone, &updatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return Link{}, ErrNotFound
	}
	if err != nil {
		return Link{}, err
	}
	rec.UpdatedAt = updatedAt
	return rec.normalize()
}

// Create inserts a new identity.
func (r *PostgresRepository) Create(ctx context.Context, identity Identity) error {
	var template []float64
	if identity.HasTemplate() {
		template = identity.Template
	}
	_, err := r.db.Exec(ctx, `INSERT INTO identities (`+identityColumns+`)
        VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)`,
		identity.ID, identity.Email, identity.Name, identity.NationalID, identity.Contact,
		identity.PasswordHash, template, identity.CreatedAt.UTC(), identity.UpdatedAt.UTC())
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && pgErr.Code == "23505" {
		return ErrConflict
	}
	return err
}

// UpsertLink writes link under the current column and clears the legacy one.
func (r *PostgresRepository) UpsertLink(ctx context.Context, link Link) error {
	_, err := r.db.Exec(ctx, `INSERT INTO identity_links (national_id, contact_address, phone_no, updated_at)
        VALUES ($1, $2, NULL, $3)
        ON CONFLICT (national_id) DO UPDATE
        SET contact_address = EXCLUDED.contact_address, phone_no = NULL, updated_at = EXCLUDED.updated_at`,
		link.NationalID, link.Contact, link.UpdatedAt.UTC())
	return err
}

// linkRecord is a link as stored, before legacy normalization.
type linkRecord struct {
	NationalID  string
	Contact     *string
	LegacyPhone *string
	UpdatedAt   time.Time
}

func (r linkRecord) normalize() (Link, error) {
	contact := ""
	if r.Contact != nil {
		contact = strings.TrimSpace(*r.Contact)
	}
	if contact == "" && r.LegacyPhone != nil {
		contact = strings.TrimSpace(*r.LegacyPhone)
	}
	if contact == "" {
		return Link{}, ErrNotFound
	}
	return Link{NationalID: r.NationalID, Contact: contact, UpdatedAt: r.UpdatedAt.UTC()}, nil
}
