package readstore

import (
	"context"
	"time"

	"parking-booking/internal/infra"
	"parking-booking/internal/infra/query"
	"parking-booking/internal/pkg/pgconv"
	"parking-booking/internal/usecase/shared"

	"github.com/google/uuid"
)

type IdempotencyReadQueries interface {
	GetIdempotencyKey(ctx context.Context, db query.DBTX, key, userID uuid.UUID) (query.IdempotencyKey, error)
}

type IdempotencyReadStore struct {
	queries IdempotencyReadQueries
	now     func() time.Time
}

func NewIdempotencyReadStore(queries IdempotencyReadQueries, now func() time.Time) *IdempotencyReadStore {
	if now == nil {
		now = time.Now
	}
	return &IdempotencyReadStore{
		queries: queries,
		now:     now,
	}
}

// Get treats an expired key as absent.
func (r *IdempotencyReadStore) Get(ctx context.Context, tx query.DBTX, key uuid.UUID, userID uuid.UUID) (*shared.IdempotencyRecord, error) {
	row, err := r.queries.GetIdempotencyKey(ctx, tx, key, userID)
	if err != nil {
		if pgconv.IsNoRows(err) {
			return nil, infra.WrapRepoErr("idempotency key not found", err, infra.KindNotFound)
		}
		return nil, infra.WrapRepoErr("failed to get idempotency key", err)
	}

	record := &shared.IdempotencyRecord{
		Key:             row.Key,
		UserID:          row.UserID,
		Status:          row.Status,
		RequestHash:     row.RequestHash,
		ResultBookingID: pgconv.UUIDPtrFromPgtype(row.ResultBookingID),
		ExpiresAt:       pgconv.TimeFromPgtype(row.ExpiresAt),
	}

	if r.now().After(record.ExpiresAt) {
		return nil, infra.WrapRepoErr("idempotency key expired", nil, infra.KindNotFound)
	}

	return record, nil
}
