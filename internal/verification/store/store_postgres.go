package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/google/uuid"

	"permitdesk/internal/verification"
)

// PostgresAttemptStore persists attempts in PostgreSQL. Draft snapshots and
// section verdicts are stored as jsonb columns.
type PostgresAttemptStore struct {
	db *sql.DB
}

func NewPostgresAttemptStore(db *sql.DB) *PostgresAttemptStore {
	return &PostgresAttemptStore{db: db}
}

const attemptColumns = `
	id, owner_id, actor_id, status, draft, decision, decision_reason,
	additional_info_requested, sections, started_at, finalized_at`

func (s *PostgresAttemptStore) Create(ctx context.Context, a verification.Attempt) error {
	draft, err := marshalDraft(a.Draft)
	if err != nil {
		return err
	}
	const q = `
		INSERT INTO verification_attempts
			(id, owner_id, actor_id, status, draft, started_at)
		VALUES ($1, $2, $3, $4, $5, $6)`
	if _, err := s.db.ExecContext(ctx, q, a.ID, a.OwnerID, a.ActorID, a.Status, draft, a.StartedAt); err != nil {
		return fmt.Errorf("create attempt: %w", err)
	}
	return nil
}

func (s *PostgresAttemptStore) FindByID(ctx context.Context, id uuid.UUID) (verification.Attempt, error) {
	q := `SELECT ` + attemptColumns + ` FROM verification_attempts WHERE id = $1`
	return s.scanOne(s.db.QueryRowContext(ctx, q, id))
}

func (s *PostgresAttemptStore) FindLatestByOwner(ctx context.Context, ownerID uuid.UUID) (verification.Attempt, error) {
	q := `SELECT ` + attemptColumns + `
		FROM verification_attempts WHERE owner_id = $1
		ORDER BY started_at DESC LIMIT 1`
	return s.scanOne(s.db.QueryRowContext(ctx, q, ownerID))
}

func (s *PostgresAttemptStore) FindLatestInProgress(ctx context.Context, ownerID uuid.UUID) (verification.Attempt, error) {
	return s.findLatestByStatus(ctx, ownerID, verification.AttemptInProgress)
}

func (s *PostgresAttemptStore) FindLatestVerified(ctx context.Context, ownerID uuid.UUID) (verification.Attempt, error) {
	return s.findLatestByStatus(ctx, ownerID, verification.AttemptVerified)
}

func (s *PostgresAttemptStore) findLatestByStatus(ctx context.Context, ownerID uuid.UUID, status verification.AttemptStatus) (verification.Attempt, error) {
	q := `SELECT ` + attemptColumns + `
		FROM verification_attempts WHERE owner_id = $1 AND status = $2
		ORDER BY started_at DESC LIMIT 1`
	return s.scanOne(s.db.QueryRowContext(ctx, q, ownerID, status))
}

func (s *PostgresAttemptStore) SaveDraft(ctx context.Context, attemptID uuid.UUID, draft verification.DraftPayload) error {
	payload, err := marshalDraft(&draft)
	if err != nil {
		return err
	}
	const q = `UPDATE verification_attempts SET draft = $2 WHERE id = $1`
	res, err := s.db.ExecContext(ctx, q, attemptID, payload)
	if err != nil {
		return fmt.Errorf("save draft: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return verification.ErrNotFound
	}
	return nil
}

// Finalize uses a conditional update keyed on status so two racing submits
// cannot both succeed.
func (s *PostgresAttemptStore) Finalize(ctx context.Context, attemptID uuid.UUID, p verification.FinalizeParams) (bool, error) {
	sections, err := json.Marshal(p.Sections)
	if err != nil {
		return false, fmt.Errorf("marshal sections: %w", err)
	}
	var status verification.AttemptStatus
	switch p.Decision {
	case verification.DecisionVerified:
		status = verification.AttemptVerified
	case verification.DecisionRejected:
		status = verification.AttemptRejected
	case verification.DecisionNeedsInfo:
		status = verification.AttemptNeedsInfo
	default:
		return false, fmt.Errorf("finalize with unknown decision %q", p.Decision)
	}
	const q = `
		UPDATE verification_attempts
		SET status = $2, decision = $3, decision_reason = $4,
			additional_info_requested = $5, sections = $6, finalized_at = $7
		WHERE id = $1 AND status = 'in_progress'`
	res, err := s.db.ExecContext(ctx, q, attemptID, status, p.Decision,
		p.DecisionReason, p.AdditionalInfoRequested, sections, p.FinalizedAt)
	if err != nil {
		return false, fmt.Errorf("finalize attempt: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("finalize attempt: %w", err)
	}
	if n > 0 {
		return true, nil
	}
	// Distinguish already-finalized from missing.
	if _, err := s.FindByID(ctx, attemptID); err != nil {
		return false, err
	}
	return false, nil
}

func (s *PostgresAttemptStore) Reopen(ctx context.Context, attemptID uuid.UUID) (bool, error) {
	const q = `
		UPDATE verification_attempts
		SET status = 'in_progress', decision = '', finalized_at = NULL
		WHERE id = $1 AND status = 'needs_info'`
	res, err := s.db.ExecContext(ctx, q, attemptID)
	if err != nil {
		return false, fmt.Errorf("reopen attempt: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("reopen attempt: %w", err)
	}
	if n > 0 {
		return true, nil
	}
	if _, err := s.FindByID(ctx, attemptID); err != nil {
		return false, err
	}
	return false, nil
}

func (s *PostgresAttemptStore) scanOne(row *sql.Row) (verification.Attempt, error) {
	var (
		a           verification.Attempt
		draft       []byte
		sections    []byte
		decision    sql.NullString
		reason      sql.NullString
		addlInfo    sql.NullString
		finalizedAt sql.NullTime
	)
	err := row.Scan(&a.ID, &a.OwnerID, &a.ActorID, &a.Status, &draft, &decision,
		&reason, &addlInfo, &sections, &a.StartedAt, &finalizedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return verification.Attempt{}, verification.ErrNotFound
		}
		return verification.Attempt{}, fmt.Errorf("scan attempt: %w", err)
	}
	if len(draft) > 0 {
		var d verification.DraftPayload
		if err := json.Unmarshal(draft, &d); err != nil {
			return verification.Attempt{}, fmt.Errorf("unmarshal draft: %w", err)
		}
		a.Draft = &d
	}
	if len(sections) > 0 {
		if err := json.Unmarshal(sections, &a.Sections); err != nil {
			return verification.Attempt{}, fmt.Errorf("unmarshal sections: %w", err)
		}
	}
	a.Decision = verification.Decision(decision.String)
	a.DecisionReason = reason.String
	a.AdditionalInfoRequested = addlInfo.String
	if finalizedAt.Valid {
		t := finalizedAt.Time
		a.FinalizedAt = &t
	}
	return a, nil
}

func marshalDraft(d *verification.DraftPayload) ([]byte, error) {
	if d == nil {
		return nil, nil
	}
	payload, err := json.Marshal(d)
	if err != nil {
		return nil, fmt.Errorf("marshal draft: %w", err)
	}
	return payload, nil
}

// PostgresHistoryStore persists attempt history as append-only rows.
type PostgresHistoryStore struct {
	db *sql.DB
}

func NewPostgresHistoryStore(db *sql.DB) *PostgresHistoryStore {
	return &PostgresHistoryStore{db: db}
}

func (s *PostgresHistoryStore) Append(ctx context.Context, event verification.HistoryEvent) error {
	const q = `
		INSERT INTO verification_history (id, attempt_id, event_type, actor_id, payload, occurred_at)
		VALUES ($1, $2, $3, $4, $5, $6)`
	var payload []byte
	if len(event.Payload) > 0 {
		payload = event.Payload
	}
	if _, err := s.db.ExecContext(ctx, q, event.ID, event.AttemptID, event.Type, event.ActorID, payload, event.OccurredAt); err != nil {
		return fmt.Errorf("append history event: %w", err)
	}
	return nil
}

func (s *PostgresHistoryStore) ListByAttempt(ctx context.Context, attemptID uuid.UUID) ([]verification.HistoryEvent, error) {
	const q = `
		SELECT id, attempt_id, event_type, actor_id, payload, occurred_at
		FROM verification_history
		WHERE attempt_id = $1
		ORDER BY occurred_at`
	rows, err := s.db.QueryContext(ctx, q, attemptID)
	if err != nil {
		return nil, fmt.Errorf("list history: %w", err)
	}
	defer rows.Close()

	var out []verification.HistoryEvent
	for rows.Next() {
		var e verification.HistoryEvent
		var payload []byte
		if err := rows.Scan(&e.ID, &e.AttemptID, &e.Type, &e.ActorID, &payload, &e.OccurredAt); err != nil {
			return nil, fmt.Errorf("scan history event: %w", err)
		}
		e.Payload = payload
		out = append(out, e)
	}
	return out, rows.Err()
}

// PostgresDocumentStore keeps one review row per (attempt, document).
type PostgresDocumentStore struct {
	db *sql.DB
}

func NewPostgresDocumentStore(db *sql.DB) *PostgresDocumentStore {
	return &PostgresDocumentStore{db: db}
}

func (s *PostgresDocumentStore) Upsert(ctx context.Context, rec verification.DocumentRecord) error {
	const q = `
		INSERT INTO verification_documents
			(id, attempt_id, document_id, status, notes, reviewed_by, reviewed_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		ON CONFLICT (attempt_id, document_id) DO UPDATE SET
			status = EXCLUDED.status,
			notes = EXCLUDED.notes,
			reviewed_by = EXCLUDED.reviewed_by,
			reviewed_at = EXCLUDED.reviewed_at`
	if _, err := s.db.ExecContext(ctx, q, rec.ID, rec.AttemptID, rec.DocumentID,
		rec.Status, rec.Notes, rec.ReviewedBy, rec.ReviewedAt); err != nil {
		return fmt.Errorf("upsert document review: %w", err)
	}
	return nil
}

func (s *PostgresDocumentStore) ListByAttempt(ctx context.Context, attemptID uuid.UUID) ([]verification.DocumentRecord, error) {
	const q = `
		SELECT id, attempt_id, document_id, status, notes, reviewed_by, reviewed_at
		FROM verification_documents
		WHERE attempt_id = $1
		ORDER BY document_id`
	rows, err := s.db.QueryContext(ctx, q, attemptID)
	if err != nil {
		return nil, fmt.Errorf("list document reviews: %w", err)
	}
	defer rows.Close()

	var out []verification.DocumentRecord
	for rows.Next() {
		var rec verification.DocumentRecord
		if err := rows.Scan(&rec.ID, &rec.AttemptID, &rec.DocumentID, &rec.Status,
			&rec.Notes, &rec.ReviewedBy, &rec.ReviewedAt); err != nil {
			return nil, fmt.Errorf("scan document review: %w", err)
		}
		out = append(out, rec)
	}
	return out, rows.Err()
}
