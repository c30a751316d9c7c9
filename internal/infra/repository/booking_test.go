//go:build unit

package repository_test

import (
	"context"
	"errors"
	"testing"

	"parking-booking/internal/domain/booking"
	"parking-booking/internal/infra"
	"parking-booking/internal/infra/query"
	"parking-booking/internal/infra/repository"
	"parking-booking/tests/common/builder"
	repositorymock "parking-booking/tests/mock/repository"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"
)

// =============================================================================
// Create Booking Tests
// =============================================================================

func TestBookingRepository_Create(t *testing.T) {
	ctx := context.Background()

	testCases := []struct {
		name          string
		setupMock     func(*repositorymock.MockBookingWriteQueries, *booking.Booking, query.DBTX)
		expectedError bool
		expectKind    infra.RepositoryErrorKind
	}{
		{
			name: "success: booking created",
			setupMock: func(mock *repositorymock.MockBookingWriteQueries, b *booking.Booking, tx query.DBTX) {
				mock.EXPECT().CreateBooking(ctx, tx, gomock.Any()).
					DoAndReturn(func(_ context.Context, _ query.DBTX, arg query.CreateBookingParams) (query.Booking, error) {
						assert.Equal(t, b.ID(), arg.ID)
						assert.Equal(t, b.SlotID(), arg.SlotID)
						assert.Equal(t, "BOOKED", arg.Status)
						return query.Booking{ID: arg.ID}, nil
					})
			},
		},
		{
			name: "error: overlapping booking hits the exclusion constraint",
			setupMock: func(mock *repositorymock.MockBookingWriteQueries, _ *booking.Booking, tx query.DBTX) {
				overlap := &pgconn.PgError{Code: "23P01", Message: "conflicting key value violates exclusion constraint"}
				mock.EXPECT().CreateBooking(ctx, tx, gomock.Any()).Return(query.Booking{}, overlap)
			},
			expectedError: true,
			expectKind:    infra.KindConflict,
		},
		{
			name: "error: database error occurs",
			setupMock: func(mock *repositorymock.MockBookingWriteQueries, _ *booking.Booking, tx query.DBTX) {
				mock.EXPECT().CreateBooking(ctx, tx, gomock.Any()).Return(query.Booking{}, errors.New("database connection error"))
			},
			expectedError: true,
			expectKind:    infra.KindDBFailure,
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			ctrl := gomock.NewController(t)
			defer ctrl.Finish()

			mockQueries := repositorymock.NewMockBookingWriteQueries(ctrl)
			mockDB := &mockDBTX{}
			repo := repository.NewBookingRepository(mockQueries, mockDB)
			b := builder.NewBookingBuilder().BuildDomain()

			tc.setupMock(mockQueries, b, mockDB)

			err := repo.Create(ctx, mockDB, b)

			if tc.expectedError {
				require.Error(t, err)
				assert.True(t, infra.IsKind(err, tc.expectKind), "expected kind [%v] but got (%v)", tc.expectKind, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

// =============================================================================
// Update Booking State Tests
// =============================================================================

func TestBookingRepository_UpdateState(t *testing.T) {
	ctx := context.Background()

	testCases := []struct {
		name          string
		affected      int64
		queryErr      error
		expectedError bool
		expectKind    infra.RepositoryErrorKind
	}{
		{name: "success: one row swapped", affected: 1},
		{name: "error: version moved on", affected: 0, expectedError: true, expectKind: infra.KindStaleState},
		{name: "error: database error occurs", queryErr: errors.New("database connection error"), expectedError: true, expectKind: infra.KindDBFailure},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			ctrl := gomock.NewController(t)
			defer ctrl.Finish()

			mockQueries := repositorymock.NewMockBookingWriteQueries(ctrl)
			mockDB := &mockDBTX{}
			repo := repository.NewBookingRepository(mockQueries, mockDB)
			b := builder.NewBookingBuilder().With(func(bb *builder.BookingBuilder) { bb.Version = 3 }).BuildDomain()

			mockQueries.EXPECT().UpdateBookingState(ctx, mockDB, gomock.Any()).
				DoAndReturn(func(_ context.Context, _ query.DBTX, arg query.UpdateBookingStateParams) (int64, error) {
					assert.Equal(t, int64(3), arg.ExpectedVersion)
					assert.Equal(t, "SCHEDULED", arg.ExpectedParkingStatus)
					return tc.affected, tc.queryErr
				})

			err := repo.UpdateState(ctx, mockDB, b, booking.ParkingScheduled, 3)

			if tc.expectedError {
				require.Error(t, err)
				assert.True(t, infra.IsKind(err, tc.expectKind), "expected kind [%v] but got (%v)", tc.expectKind, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

type mockDBTX struct{}

func (m *mockDBTX) Exec(ctx context.Context, sql string, arguments ...any) (pgconn.CommandTag, error) {
	return pgconn.CommandTag{}, nil
}

func (m *mockDBTX) Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error) {
	return nil, nil
}

func (m *mockDBTX) QueryRow(ctx context.Context, sql string, args ...any) pgx.Row {
	panic("mockDBTX.QueryRow was called unexpectedly. Use the query mock instead.")
}
