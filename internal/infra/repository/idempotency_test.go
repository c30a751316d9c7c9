//go:build unit

package repository_test

import (
	"context"
	"testing"
	"time"

	"parking-booking/internal/infra/query"
	"parking-booking/internal/infra/repository"
	repositorymock "parking-booking/tests/mock/repository"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"
)

func TestIdempotencyRepository_TryInsert(t *testing.T) {
	ctx := context.Background()

	testCases := []struct {
		name     string
		affected int64
		want     bool
	}{
		{name: "fresh key is claimed", affected: 1, want: true},
		{name: "existing key is left alone", affected: 0, want: false},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			ctrl := gomock.NewController(t)
			defer ctrl.Finish()

			mockQueries := repositorymock.NewMockIdempotencyWriteQueries(ctrl)
			mockDB := &mockDBTX{}
			repo := repository.NewIdempotencyRepository(mockQueries, mockDB)
			key, userID := uuid.New(), uuid.New()

			mockQueries.EXPECT().TryInsertIdempotencyKey(ctx, mockDB, gomock.Any()).
				DoAndReturn(func(_ context.Context, _ query.DBTX, arg query.TryInsertIdempotencyKeyParams) (int64, error) {
					assert.Equal(t, key, arg.Key)
					assert.Equal(t, userID, arg.UserID)
					assert.Equal(t, "POST /api/bookings", arg.Endpoint)
					return tc.affected, nil
				})

			inserted, err := repo.TryInsert(ctx, mockDB, key, userID, "POST /api/bookings", "hash", time.Now().Add(time.Hour))

			require.NoError(t, err)
			assert.Equal(t, tc.want, inserted)
		})
	}
}
