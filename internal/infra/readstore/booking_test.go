//go:build unit

package readstore_test

import (
	"context"
	"testing"
	"time"

	"parking-booking/internal/infra"
	"parking-booking/internal/infra/query"
	"parking-booking/internal/infra/readstore"
	"parking-booking/internal/usecase/queries"
	"parking-booking/tests/common/builder"
	readstoremock "parking-booking/tests/mock/readstore"

	"github.com/google/go-cmp/cmp"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"
)

func TestBookingReadStore_FindByID(t *testing.T) {
	ctx := context.Background()

	t.Run("success: checked-out booking keeps its fee", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		defer ctrl.Finish()

		mockQueries := readstoremock.NewMockBookingViewQueries(ctrl)
		store := readstore.NewBookingReadStore(mockQueries, nil)

		entry := time.Now().UTC().Truncate(time.Microsecond)
		bb := builder.NewBookingBuilder().AsCheckedOut(entry, entry.Add(40*time.Minute), 3000)
		mockQueries.EXPECT().GetBookingViewByID(ctx, gomock.Any(), bb.ID).Return(bb.BuildViewRow(), nil)

		got, err := store.FindByID(ctx, bb.ID)

		require.NoError(t, err)
		if diff := cmp.Diff(bb.BuildView(), got); diff != "" {
			t.Errorf("booking view mismatch (-want +got):\n%s", diff)
		}
	})

	t.Run("error: no such row", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		defer ctrl.Finish()

		mockQueries := readstoremock.NewMockBookingViewQueries(ctrl)
		store := readstore.NewBookingReadStore(mockQueries, nil)
		id := uuid.New()
		mockQueries.EXPECT().GetBookingViewByID(ctx, gomock.Any(), id).Return(query.BookingViewRow{}, pgx.ErrNoRows)

		_, err := store.FindByID(ctx, id)

		require.Error(t, err)
		assert.True(t, infra.IsKind(err, infra.KindNotFound))
	})
}

func TestBookingReadStore_List(t *testing.T) {
	ctx := context.Background()
	userID := uuid.New()
	after := time.Date(2025, 2, 1, 9, 0, 0, 0, time.UTC)
	afterID := uuid.New()

	testCases := []struct {
		name        string
		userID      *uuid.UUID
		page        queries.Page
		wantUser    bool
		wantCursor  bool
		wantAfterID uuid.UUID
	}{
		{name: "first page across all users", page: queries.Page{Limit: 21}},
		{name: "first page for one user", userID: &userID, page: queries.Page{Limit: 21}, wantUser: true},
		{
			name:        "next page after a cursor",
			userID:      &userID,
			page:        queries.Page{AfterCreatedAt: &after, AfterID: afterID, Limit: 21},
			wantUser:    true,
			wantCursor:  true,
			wantAfterID: afterID,
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			ctrl := gomock.NewController(t)
			defer ctrl.Finish()

			mockQueries := readstoremock.NewMockBookingViewQueries(ctrl)
			store := readstore.NewBookingReadStore(mockQueries, nil)
			bb := builder.NewBookingBuilder()

			mockQueries.EXPECT().ListBookingViews(ctx, gomock.Any(), gomock.Any()).
				DoAndReturn(func(_ context.Context, _ query.DBTX, arg query.ListBookingViewsParams) ([]query.BookingViewRow, error) {
					assert.Equal(t, int32(21), arg.Limit)
					assert.Equal(t, tc.wantUser, arg.UserID.Valid)
					assert.Equal(t, tc.wantCursor, arg.AfterCreatedAt.Valid)
					assert.Equal(t, tc.wantCursor, arg.AfterID.Valid)
					if tc.wantCursor {
						assert.Equal(t, after, arg.AfterCreatedAt.Time)
						assert.Equal(t, [16]byte(tc.wantAfterID), arg.AfterID.Bytes)
					}
					return []query.BookingViewRow{bb.BuildViewRow()}, nil
				})

			got, err := store.List(ctx, tc.userID, tc.page)

			require.NoError(t, err)
			require.Len(t, got, 1)
			assert.Equal(t, bb.ID, got[0].ID)
			assert.Equal(t, bb.SlotNumber, got[0].SlotNumber)
		})
	}
}
