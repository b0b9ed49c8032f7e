package owner

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/google/uuid"
)

// PostgresStore persists owners in PostgreSQL.
type PostgresStore struct {
	db *sql.DB
}

func NewPostgres(db *sql.DB) *PostgresStore {
	return &PostgresStore{db: db}
}

func (s *PostgresStore) Save(ctx context.Context, o Owner) error {
	const q = `
		INSERT INTO owners (id, manager_id, first_name, last_name, email, phone,
			tax_id, id_number, id_type, street, city, state, postal_code, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14)
		ON CONFLICT (id) DO UPDATE SET
			first_name = EXCLUDED.first_name,
			last_name = EXCLUDED.last_name,
			email = EXCLUDED.email,
			phone = EXCLUDED.phone,
			tax_id = EXCLUDED.tax_id,
			id_number = EXCLUDED.id_number,
			id_type = EXCLUDED.id_type,
			street = EXCLUDED.street,
			city = EXCLUDED.city,
			state = EXCLUDED.state,
			postal_code = EXCLUDED.postal_code`
	_, err := s.db.ExecContext(ctx, q,
		o.ID, o.ManagerID, o.FirstName, o.LastName, o.Email, o.Phone,
		o.TaxID, o.IDNumber, o.IDType, o.Street, o.City, o.State, o.PostalCode, o.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("save owner: %w", err)
	}
	return nil
}

func (s *PostgresStore) FindManagedBy(ctx context.Context, ownerID, actorID uuid.UUID) (Owner, error) {
	const q = `
		SELECT id, manager_id, first_name, last_name, email, phone,
			tax_id, id_number, id_type, street, city, state, postal_code, created_at
		FROM owners
		WHERE id = $1 AND manager_id = $2`
	var o Owner
	err := s.db.QueryRowContext(ctx, q, ownerID, actorID).Scan(
		&o.ID, &o.ManagerID, &o.FirstName, &o.LastName, &o.Email, &o.Phone,
		&o.TaxID, &o.IDNumber, &o.IDType, &o.Street, &o.City, &o.State, &o.PostalCode, &o.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return Owner{}, ErrNotFound
		}
		return Owner{}, fmt.Errorf("find owner: %w", err)
	}
	return o, nil
}
