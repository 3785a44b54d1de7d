package identity

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/lib/pq"

	"cloudid/internal/identity/models"
	"cloudid/pkg/platform/sentinel"
)

// uniqueViolation is the Postgres error code for unique constraint breaches.
const uniqueViolation = "23505"

const identityColumns = `
	id, email, name, phone, institution, country, research_area,
	description, resources, directory_dn, confirmation_secret,
	reset_secret, status, login_id, created_at, updated_at`

// Postgres persists identity records in PostgreSQL.
type Postgres struct {
	db *sql.DB
}

// NewPostgres constructs a PostgreSQL-backed identity store.
func NewPostgres(db *sql.DB) *Postgres {
	return &Postgres{db: db}
}

// Create inserts a record and fills in the assigned id. Unique violations on
// email or either secret surface as sentinel.ErrConflict.
func (s *Postgres) Create(ctx context.Context, record *models.Identity) error {
	err := s.db.QueryRowContext(ctx, `
		INSERT INTO identities (
			email, name, phone, institution, country, research_area,
			description, resources, directory_dn, confirmation_secret,
			reset_secret, status, login_id, created_at, updated_at
		)
		VALUES (lower($1), $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15)
		RETURNING id`,
		record.Email, record.Name, record.Phone, record.Institution,
		string(record.Country), record.ResearchArea, record.Description,
		record.Resources, record.DirectoryDN, record.ConfirmationSecret,
		record.ResetSecret, string(record.Status), record.LoginID,
		record.CreatedAt, record.UpdatedAt,
	).Scan(&record.ID)
	if err != nil {
		var pqErr *pq.Error
		if errors.As(err, &pqErr) && pqErr.Code == uniqueViolation {
			return fmt.Errorf("identity insert (%s): %w", pqErr.Constraint, sentinel.ErrConflict)
		}
		return fmt.Errorf("identity insert: %w", err)
	}
	return nil
}

// FindByID returns the record or sentinel.ErrNotFound.
func (s *Postgres) FindByID(ctx context.Context, id int64) (*models.Identity, error) {
	return s.findOne(ctx, `WHERE id = $1`, id)
}

// FindByEmail returns the record matching the email, case-insensitively.
func (s *Postgres) FindByEmail(ctx context.Context, email string) (*models.Identity, error) {
	return s.findOne(ctx, `WHERE email = lower($1)`, email)
}

// FindByConfirmationSecret looks a record up by its confirmation link token.
func (s *Postgres) FindByConfirmationSecret(ctx context.Context, secret string) (*models.Identity, error) {
	return s.findOne(ctx, `WHERE confirmation_secret = $1`, secret)
}

// FindByResetSecret looks a record up by its reset link token.
func (s *Postgres) FindByResetSecret(ctx context.Context, secret string) (*models.Identity, error) {
	return s.findOne(ctx, `WHERE reset_secret = $1`, secret)
}

// FindByDirectoryDN resolves a certificate subject to a record. Zero or
// multiple matches fail closed with sentinel.ErrNotFound so an ambiguous
// subject can never authenticate as an arbitrary record.
func (s *Postgres) FindByDirectoryDN(ctx context.Context, dn string) (*models.Identity, error) {
	if dn == "" {
		return nil, sentinel.ErrNotFound
	}

	rows, err := s.db.QueryContext(ctx, `
		SELECT `+identityColumns+`
		FROM identities
		WHERE directory_dn = $1
		LIMIT 2`, dn)
	if err != nil {
		return nil, fmt.Errorf("identity query by dn: %w", err)
	}
	defer rows.Close()

	var matches []*models.Identity
	for rows.Next() {
		record, err := scanIdentity(rows)
		if err != nil {
			return nil, err
		}
		matches = append(matches, record)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("identity query by dn: %w", err)
	}
	if len(matches) != 1 {
		return nil, sentinel.ErrNotFound
	}
	return matches[0], nil
}

// FindByLoginID resolves an external login principal to its record.
func (s *Postgres) FindByLoginID(ctx context.Context, loginID string) (*models.Identity, error) {
	if loginID == "" {
		return nil, sentinel.ErrNotFound
	}
	return s.findOne(ctx, `WHERE login_id = $1`, loginID)
}

// ListByStatus returns all records in the given status, ordered by id.
func (s *Postgres) ListByStatus(ctx context.Context, status models.Status) ([]*models.Identity, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT `+identityColumns+`
		FROM identities
		WHERE status = $1
		ORDER BY id`, string(status))
	if err != nil {
		return nil, fmt.Errorf("identity list by status: %w", err)
	}
	defer rows.Close()

	var out []*models.Identity
	for rows.Next() {
		record, err := scanIdentity(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, record)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("identity list by status: %w", err)
	}
	return out, nil
}

// UpdateStatus performs a compare-and-swap on the record's status: the UPDATE
// only applies when the stored status equals the expected one, so of two
// concurrent transitions exactly one wins. The loser gets
// sentinel.ErrInvalidState (or ErrNotFound when the record is gone).
func (s *Postgres) UpdateStatus(ctx context.Context, id int64, from, to models.Status, opts ...StatusUpdateOption) (*models.Identity, error) {
	update := buildStatusUpdate(opts)

	row := s.db.QueryRowContext(ctx, `
		UPDATE identities
		SET status = $3,
		    directory_dn = COALESCE($4::text, directory_dn),
		    login_id = COALESCE($5::text, login_id),
		    updated_at = $6
		WHERE id = $1 AND status = $2
		RETURNING `+identityColumns,
		id, string(from), string(to),
		update.DirectoryDN, update.LoginID, time.Now(),
	)

	record, err := scanIdentity(row)
	if err == nil {
		return record, nil
	}
	if !errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("identity status update: %w", err)
	}

	// No row matched: distinguish a missing record from a lost CAS race.
	var current string
	err = s.db.QueryRowContext(ctx, `SELECT status FROM identities WHERE id = $1`, id).Scan(&current)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, sentinel.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("identity status read: %w", err)
	}
	return nil, fmt.Errorf("status is %q, expected %q: %w", current, from, sentinel.ErrInvalidState)
}

// Delete removes the record, returning sentinel.ErrNotFound when absent.
func (s *Postgres) Delete(ctx context.Context, id int64) error {
	res, err := s.db.ExecContext(ctx, `DELETE FROM identities WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("identity delete: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("identity delete: %w", err)
	}
	if affected == 0 {
		return sentinel.ErrNotFound
	}
	return nil
}

func (s *Postgres) findOne(ctx context.Context, where string, arg any) (*models.Identity, error) {
	row := s.db.QueryRowContext(ctx, `
		SELECT `+identityColumns+`
		FROM identities
		`+where, arg)

	record, err := scanIdentity(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, sentinel.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("identity query: %w", err)
	}
	return record, nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanIdentity(row rowScanner) (*models.Identity, error) {
	var record models.Identity
	var country, status string
	err := row.Scan(
		&record.ID, &record.Email, &record.Name, &record.Phone,
		&record.Institution, &country, &record.ResearchArea,
		&record.Description, &record.Resources, &record.DirectoryDN,
		&record.ConfirmationSecret, &record.ResetSecret, &status,
		&record.LoginID, &record.CreatedAt, &record.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	record.Country = models.CountryCode(country)
	record.Status = models.Status(status)
	return &record, nil
}
