package query

import (
	"context"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgtype"
)

type CreateNotificationJobParams struct {
	Kind    string
	Topic   string
	Payload []byte
	RunAt   pgtype.Timestamptz
	Status  string
}

const createNotificationJob = `
INSERT INTO notification_jobs (kind, topic, payload, run_at, status)
VALUES ($1, $2, $3, $4, $5)`

func (q *Queries) CreateNotificationJob(ctx context.Context, db DBTX, arg CreateNotificationJobParams) error {
	_, err := db.Exec(ctx, createNotificationJob, arg.Kind, arg.Topic, arg.Payload, arg.RunAt, arg.Status)
	return err
}

// SKIP LOCKED lets several relay instances drain the queue without
// handing the same job to two of them.
const claimPendingNotificationJobs = `
SELECT id, kind, topic, payload, status, attempts, run_at, last_error, created_at
FROM notification_jobs
WHERE status = 'queued' AND run_at <= now()
ORDER BY run_at, created_at
LIMIT $1
FOR UPDATE SKIP LOCKED`

func (q *Queries) ClaimPendingNotificationJobs(ctx context.Context, db DBTX, limit int32) ([]NotificationJob, error) {
	rows, err := db.Query(ctx, claimPendingNotificationJobs, limit)
	if err != nil {
		return nil, err
	}
	return collectNotificationJobs(rows)
}

type ListNotificationJobsParams struct {
	Status pgtype.Text // any status when not valid
	Limit  int32
}

const listNotificationJobs = `
SELECT id, kind, topic, payload, status, attempts, run_at, last_error, created_at
FROM notification_jobs
WHERE ($1::text IS NULL OR status = $1::text)
ORDER BY created_at DESC
LIMIT $2`

func (q *Queries) ListNotificationJobs(ctx context.Context, db DBTX, arg ListNotificationJobsParams) ([]NotificationJob, error) {
	rows, err := db.Query(ctx, listNotificationJobs, arg.Status, arg.Limit)
	if err != nil {
		return nil, err
	}
	return collectNotificationJobs(rows)
}

func collectNotificationJobs(rows pgx.Rows) ([]NotificationJob, error) {
	defer rows.Close()

	jobs := []NotificationJob{}
	for rows.Next() {
		var j NotificationJob
		if err := rows.Scan(
			&j.ID, &j.Kind, &j.Topic, &j.Payload, &j.Status, &j.Attempts, &j.RunAt, &j.LastError, &j.CreatedAt,
		); err != nil {
			return nil, err
		}
		jobs = append(jobs, j)
	}
	return jobs, rows.Err()
}

type UpdateNotificationJobStatusParams struct {
	ID        uuid.UUID
	Status    string
	LastError pgtype.Text
	RunAt     pgtype.Timestamptz
}

const updateNotificationJobStatus = `
UPDATE notification_jobs
SET status = $2, last_error = $3, attempts = attempts + 1,
    run_at = COALESCE($4, run_at), updated_at = now()
WHERE id = $1`

func (q *Queries) UpdateNotificationJobStatus(ctx context.Context, db DBTX, arg UpdateNotificationJobStatusParams) error {
	_, err := db.Exec(ctx, updateNotificationJobStatus, arg.ID, arg.Status, arg.LastError, arg.RunAt)
	return err
}
