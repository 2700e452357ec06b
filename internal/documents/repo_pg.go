package documents

import (
	"context"
	"database/sql"
	"errors"
)

// PGRepo implements Repo using the resume_documents table.
type PGRepo struct {
	DB *sql.DB
}

// Get returns the payload stored for the user and kind.
func (r *PGRepo) Get(ctx context.Context, userID string, kind Kind) ([]byte, error) {
	const query = `
SELECT payload
FROM resume_documents
WHERE user_id = $1 AND kind = $2`

	var payload []byte
	err := r.DB.QueryRowContext(ctx, query, userID, string(kind)).Scan(&payload)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return payload, nil
}

// Put upserts the payload for the user and kind.
func (r *PGRepo) Put(ctx context.Context, userID string, kind Kind, payload []byte) error {
	const query = `
INSERT INTO resume_documents (user_id, kind, payload, updated_at)
VALUES ($1, $2, $3, now())
ON CONFLICT (user_id, kind)
DO UPDATE SET payload = EXCLUDED.payload, updated_at = EXCLUDED.updated_at`

	_, err := r.DB.ExecContext(ctx, query, userID, string(kind), payload)
	return err
}
