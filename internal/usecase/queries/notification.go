package queries

import (
	"context"

	"parking-booking/internal/domain/user"
)

type NotificationReadStore interface {
	ListJobs(ctx context.Context, status *string, limit int32) ([]*NotificationJobView, error)
}

type NotificationQueries interface {
	ListJobs(ctx context.Context, actor user.Actor, status *string, limit int) ([]*NotificationJobView, error)
}

type notificationQueriesImpl struct {
	repo NotificationReadStore
}

func NewNotificationQueries(repo NotificationReadStore) NotificationQueries {
	return &notificationQueriesImpl{repo: repo}
}

func (q *notificationQueriesImpl) ListJobs(ctx context.Context, actor user.Actor, status *string, limit int) ([]*NotificationJobView, error) {
	if !actor.IsAdmin() {
		return nil, ErrAdminOnly
	}
	return q.repo.ListJobs(ctx, status, int32(ValidateLimit(limit))) // #nosec G115 -- bounded by MaxListLimit
}
