package certificate

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
)

// PostgresStore persists certificates in PostgreSQL. The certificates table
// carries a unique constraint on attempt_id, which is what makes concurrent
// issuance converge on one row.
type PostgresStore struct {
	db *sql.DB
}

func NewPostgres(db *sql.DB) *PostgresStore {
	return &PostgresStore{db: db}
}

const certColumns = `id, attempt_id, owner_id, serial, issued_at, revoked_at, revocation_reason`

func (s *PostgresStore) CreateOrFind(ctx context.Context, cert Certificate) (Certificate, error) {
	const q = `
		INSERT INTO certificates (id, attempt_id, owner_id, serial, issued_at)
		VALUES ($1, $2, $3, $4, $5)
		ON CONFLICT (attempt_id) DO NOTHING`
	if _, err := s.db.ExecContext(ctx, q, cert.ID, cert.AttemptID, cert.OwnerID, cert.Serial, cert.IssuedAt); err != nil {
		return Certificate{}, fmt.Errorf("insert certificate: %w", err)
	}
	// Either our insert landed or another caller's did; fetch whichever won.
	return s.FindByAttempt(ctx, cert.AttemptID)
}

func (s *PostgresStore) FindByID(ctx context.Context, id uuid.UUID) (Certificate, error) {
	q := `SELECT ` + certColumns + ` FROM certificates WHERE id = $1`
	return scanCertificate(s.db.QueryRowContext(ctx, q, id))
}

func (s *PostgresStore) FindByAttempt(ctx context.Context, attemptID uuid.UUID) (Certificate, error) {
	q := `SELECT ` + certColumns + ` FROM certificates WHERE attempt_id = $1`
	return scanCertificate(s.db.QueryRowContext(ctx, q, attemptID))
}

func (s *PostgresStore) Revoke(ctx context.Context, id uuid.UUID, reason string, at time.Time) (bool, error) {
	const q = `
		UPDATE certificates
		SET revoked_at = $2, revocation_reason = $3
		WHERE id = $1 AND revoked_at IS NULL`
	res, err := s.db.ExecContext(ctx, q, id, at, reason)
	if err != nil {
		return false, fmt.Errorf("revoke certificate: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("revoke certificate: %w", err)
	}
	if n > 0 {
		return true, nil
	}
	if _, err := s.FindByID(ctx, id); err != nil {
		return false, err
	}
	return false, nil
}

func scanCertificate(row *sql.Row) (Certificate, error) {
	var (
		c         Certificate
		revokedAt sql.NullTime
		reason    sql.NullString
	)
	err := row.Scan(&c.ID, &c.AttemptID, &c.OwnerID, &c.Serial, &c.IssuedAt, &revokedAt, &reason)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return Certificate{}, ErrNotFound
		}
		return Certificate{}, fmt.Errorf("scan certificate: %w", err)
	}
	if revokedAt.Valid {
		t := revokedAt.Time
		c.RevokedAt = &t
	}
	c.RevocationReason = reason.String
	return c, nil
}
