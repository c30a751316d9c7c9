package repository

import (
	"context"
	"time"

	"parking-booking/internal/infra"
	"parking-booking/internal/infra/query"
	"parking-booking/internal/pkg/pgconv"
	"parking-booking/internal/usecase/shared"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgtype"
)

const (
	jobStatusQueued = "queued"
	jobStatusSent   = "sent"
	jobStatusFailed = "failed"
)

type NotificationWriteQueries interface {
	CreateNotificationJob(ctx context.Context, db query.DBTX, arg query.CreateNotificationJobParams) error
	ClaimPendingNotificationJobs(ctx context.Context, db query.DBTX, limit int32) ([]query.NotificationJob, error)
	UpdateNotificationJobStatus(ctx context.Context, db query.DBTX, arg query.UpdateNotificationJobStatusParams) error
}

type NotificationRepository struct {
	queries NotificationWriteQueries
	db      query.DBTX
}

func NewNotificationRepository(queries NotificationWriteQueries, db query.DBTX) *NotificationRepository {
	return &NotificationRepository{
		queries: queries,
		db:      db,
	}
}

func (r *NotificationRepository) CreateJob(ctx context.Context, tx query.DBTX, kind, topic string, payload []byte, runAt time.Time) error {
	params := query.CreateNotificationJobParams{
		Kind:    kind,
		Topic:   topic,
		Payload: payload,
		RunAt:   pgconv.TimeToPgtype(runAt),
		Status:  jobStatusQueued,
	}

	err := r.queries.CreateNotificationJob(ctx, tx, params)
	if err != nil {
		return infra.WrapRepoErr("failed to create notification job", err)
	}

	return nil
}

// ClaimPending must run inside a transaction; the row locks are what
// keep other relays away from the claimed jobs.
func (r *NotificationRepository) ClaimPending(ctx context.Context, tx query.DBTX, limit int32) ([]shared.NotificationJob, error) {
	rows, err := r.queries.ClaimPendingNotificationJobs(ctx, tx, limit)
	if err != nil {
		return nil, infra.WrapRepoErr("failed to claim notification jobs", err)
	}

	jobs := make([]shared.NotificationJob, len(rows))
	for i, row := range rows {
		jobs[i] = shared.NotificationJob{
			ID:       row.ID,
			Kind:     row.Kind,
			Topic:    row.Topic,
			Payload:  row.Payload,
			Attempts: row.Attempts,
		}
	}
	return jobs, nil
}

func (r *NotificationRepository) MarkSent(ctx context.Context, tx query.DBTX, jobID uuid.UUID) error {
	return r.updateStatus(ctx, tx, query.UpdateNotificationJobStatusParams{
		ID:     jobID,
		Status: jobStatusSent,
	})
}

// MarkFailed requeues the job at retryAt, or parks it as failed when
// retryAt is nil.
func (r *NotificationRepository) MarkFailed(ctx context.Context, tx query.DBTX, jobID uuid.UUID, lastError string, retryAt *time.Time) error {
	params := query.UpdateNotificationJobStatusParams{
		ID:        jobID,
		Status:    jobStatusFailed,
		LastError: pgconv.StringToPgtype(lastError),
		RunAt:     pgtype.Timestamptz{Valid: false},
	}
	if retryAt != nil {
		params.Status = jobStatusQueued
		params.RunAt = pgconv.TimeToPgtype(*retryAt)
	}
	return r.updateStatus(ctx, tx, params)
}

func (r *NotificationRepository) updateStatus(ctx context.Context, tx query.DBTX, params query.UpdateNotificationJobStatusParams) error {
	if err := r.queries.UpdateNotificationJobStatus(ctx, tx, params); err != nil {
		return infra.WrapRepoErr("failed to update notification job status", err)
	}
	return nil
}
