//go:build unit

package repository_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"parking-booking/internal/infra"
	"parking-booking/internal/infra/query"
	"parking-booking/internal/infra/repository"
	repositorymock "parking-booking/tests/mock/repository"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"
)

func TestNotificationRepository_ClaimPending(t *testing.T) {
	ctx := context.Background()
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	mockQueries := repositorymock.NewMockNotificationWriteQueries(ctrl)
	mockDB := &mockDBTX{}
	repo := repository.NewNotificationRepository(mockQueries, mockDB)

	row := query.NotificationJob{ID: uuid.New(), Kind: "booking.created", Topic: "bookings", Payload: []byte(`{}`), Attempts: 2}
	mockQueries.EXPECT().ClaimPendingNotificationJobs(ctx, mockDB, int32(10)).Return([]query.NotificationJob{row}, nil)

	jobs, err := repo.ClaimPending(ctx, mockDB, 10)

	require.NoError(t, err)
	require.Len(t, jobs, 1)
	assert.Equal(t, row.ID, jobs[0].ID)
	assert.Equal(t, int32(2), jobs[0].Attempts)
}

func TestNotificationRepository_MarkFailed(t *testing.T) {
	ctx := context.Background()
	retryAt := time.Date(2025, 3, 1, 10, 0, 0, 0, time.UTC)

	testCases := []struct {
		name       string
		retryAt    *time.Time
		wantStatus string
		wantRunAt  bool
	}{
		{name: "requeued with a retry time", retryAt: &retryAt, wantStatus: "queued", wantRunAt: true},
		{name: "parked as failed when retries are exhausted", retryAt: nil, wantStatus: "failed", wantRunAt: false},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			ctrl := gomock.NewController(t)
			defer ctrl.Finish()

			mockQueries := repositorymock.NewMockNotificationWriteQueries(ctrl)
			mockDB := &mockDBTX{}
			repo := repository.NewNotificationRepository(mockQueries, mockDB)
			jobID := uuid.New()

			mockQueries.EXPECT().UpdateNotificationJobStatus(ctx, mockDB, gomock.Any()).
				DoAndReturn(func(_ context.Context, _ query.DBTX, arg query.UpdateNotificationJobStatusParams) error {
					assert.Equal(t, jobID, arg.ID)
					assert.Equal(t, tc.wantStatus, arg.Status)
					assert.Equal(t, "broker down", arg.LastError.String)
					assert.Equal(t, tc.wantRunAt, arg.RunAt.Valid)
					return nil
				})

			require.NoError(t, repo.MarkFailed(ctx, mockDB, jobID, "broker down", tc.retryAt))
		})
	}
}

func TestNotificationRepository_CreateJob(t *testing.T) {
	ctx := context.Background()
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	mockQueries := repositorymock.NewMockNotificationWriteQueries(ctrl)
	mockDB := &mockDBTX{}
	repo := repository.NewNotificationRepository(mockQueries, mockDB)

	mockQueries.EXPECT().CreateNotificationJob(ctx, mockDB, gomock.Any()).Return(errors.New("database connection error"))

	err := repo.CreateJob(ctx, mockDB, "booking.created", "bookings", []byte(`{}`), time.Now())

	require.Error(t, err)
	assert.True(t, infra.IsKind(err, infra.KindDBFailure))
}
