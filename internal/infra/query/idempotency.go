package query

import (
	"context"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgtype"
)

type TryInsertIdempotencyKeyParams struct {
	Key         uuid.UUID
	UserID      uuid.UUID
	Endpoint    string
	RequestHash string
	ExpiresAt   pgtype.Timestamptz
}

// A concurrent insert of the same key waits on the primary key until the
// first transaction finishes, then becomes a no-op. Expired keys are
// reclaimed in place.
const tryInsertIdempotencyKey = `
INSERT INTO idempotency_keys AS k (key, user_id, endpoint, request_hash, status, expires_at)
VALUES ($1, $2, $3, $4, 'processing', $5)
ON CONFLICT (key, user_id) DO UPDATE
SET endpoint = EXCLUDED.endpoint,
    request_hash = EXCLUDED.request_hash,
    status = 'processing',
    response_body_hash = NULL,
    result_booking_id = NULL,
    expires_at = EXCLUDED.expires_at,
    created_at = now()
WHERE k.expires_at < now()`

// TryInsertIdempotencyKey reports 1 when this call created the key.
func (q *Queries) TryInsertIdempotencyKey(ctx context.Context, db DBTX, arg TryInsertIdempotencyKeyParams) (int64, error) {
	tag, err := db.Exec(ctx, tryInsertIdempotencyKey, arg.Key, arg.UserID, arg.Endpoint, arg.RequestHash, arg.ExpiresAt)
	if err != nil {
		return 0, err
	}
	return tag.RowsAffected(), nil
}

const getIdempotencyKey = `
SELECT key, user_id, endpoint, request_hash, status, response_body_hash, result_booking_id, expires_at, created_at
FROM idempotency_keys
WHERE key = $1 AND user_id = $2`

func (q *Queries) GetIdempotencyKey(ctx context.Context, db DBTX, key, userID uuid.UUID) (IdempotencyKey, error) {
	var k IdempotencyKey
	err := db.QueryRow(ctx, getIdempotencyKey, key, userID).Scan(
		&k.Key, &k.UserID, &k.Endpoint, &k.RequestHash, &k.Status,
		&k.ResponseBodyHash, &k.ResultBookingID, &k.ExpiresAt, &k.CreatedAt,
	)
	return k, err
}

type UpdateIdempotencyKeyCompletedParams struct {
	Key              uuid.UUID
	UserID           uuid.UUID
	ResponseBodyHash pgtype.Text
	ResultBookingID  pgtype.UUID
}

const updateIdempotencyKeyCompleted = `
UPDATE idempotency_keys
SET status = 'completed', response_body_hash = $3, result_booking_id = $4
WHERE key = $1 AND user_id = $2`

func (q *Queries) UpdateIdempotencyKeyCompleted(ctx context.Context, db DBTX, arg UpdateIdempotencyKeyCompletedParams) error {
	_, err := db.Exec(ctx, updateIdempotencyKeyCompleted, arg.Key, arg.UserID, arg.ResponseBodyHash, arg.ResultBookingID)
	return err
}

const deleteExpiredIdempotencyKeys = `DELETE FROM idempotency_keys WHERE expires_at < now()`

func (q *Queries) DeleteExpiredIdempotencyKeys(ctx context.Context, db DBTX) (int64, error) {
	tag, err := db.Exec(ctx, deleteExpiredIdempotencyKeys)
	if err != nil {
		return 0, err
	}
	return tag.RowsAffected(), nil
}
