package readstore

import (
	"context"

	"parking-booking/internal/infra"
	"parking-booking/internal/infra/query"
	"parking-booking/internal/pkg/pgconv"
	"parking-booking/internal/usecase/queries"
)

type NotificationReadQueries interface {
	ListNotificationJobs(ctx context.Context, db query.DBTX, arg query.ListNotificationJobsParams) ([]query.NotificationJob, error)
}

type NotificationReadStore struct {
	queries NotificationReadQueries
	db      query.DBTX
}

func NewNotificationReadStore(queries NotificationReadQueries, db query.DBTX) *NotificationReadStore {
	return &NotificationReadStore{
		queries: queries,
		db:      db,
	}
}

func (s *NotificationReadStore) ListJobs(ctx context.Context, status *string, limit int32) ([]*queries.NotificationJobView, error) {
	rows, err := s.queries.ListNotificationJobs(ctx, s.db, query.ListNotificationJobsParams{
		Status: pgconv.StringPtrToPgtype(status),
		Limit:  limit,
	})
	if err != nil {
		return nil, infra.WrapRepoErr("failed to list notification jobs", err)
	}

	result := make([]*queries.NotificationJobView, len(rows))
	for i, row := range rows {
		result[i] = toNotificationJobViewFromRow(row)
	}

	return result, nil
}

func toNotificationJobViewFromRow(row query.NotificationJob) *queries.NotificationJobView {
	return &queries.NotificationJobView{
		ID:        row.ID,
		Kind:      row.Kind,
		Topic:     row.Topic,
		Status:    row.Status,
		Attempts:  row.Attempts,
		RunAt:     pgconv.TimeFromPgtype(row.RunAt),
		LastError: pgconv.StringPtrFromPgtype(row.LastError),
		CreatedAt: pgconv.TimeFromPgtype(row.CreatedAt),
	}
}
