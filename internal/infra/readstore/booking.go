package readstore

import (
	"context"

	"parking-booking/internal/infra"
	"parking-booking/internal/infra/query"
	"parking-booking/internal/pkg/pgconv"
	"parking-booking/internal/usecase/queries"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgtype"
)

type BookingViewQueries interface {
	GetBookingViewByID(ctx context.Context, db query.DBTX, id uuid.UUID) (query.BookingViewRow, error)
	ListBookingViews(ctx context.Context, db query.DBTX, arg query.ListBookingViewsParams) ([]query.BookingViewRow, error)
	ListBookingViewsForAnalytics(ctx context.Context, db query.DBTX) ([]query.BookingViewRow, error)
}

type BookingReadStore struct {
	queries BookingViewQueries
	db      query.DBTX
}

func NewBookingReadStore(queries BookingViewQueries, db query.DBTX) *BookingReadStore {
	return &BookingReadStore{
		queries: queries,
		db:      db,
	}
}

func (r *BookingReadStore) FindByID(ctx context.Context, id uuid.UUID) (*queries.BookingView, error) {
	row, err := r.queries.GetBookingViewByID(ctx, r.db, id)
	if err != nil {
		if pgconv.IsNoRows(err) {
			return nil, infra.WrapRepoErr("booking not found", err, infra.KindNotFound)
		}
		return nil, infra.WrapRepoErr("failed to find booking by ID", err)
	}

	return BookingRowToView(row), nil
}

func (r *BookingReadStore) List(ctx context.Context, userID *uuid.UUID, page queries.Page) ([]*queries.BookingView, error) {
	params := query.ListBookingViewsParams{
		UserID:         pgconv.UUIDPtrToPgtype(userID),
		AfterCreatedAt: pgconv.TimePtrToPgtype(page.AfterCreatedAt),
		AfterID:        pgtype.UUID{Valid: false},
		Limit:          page.Limit,
	}
	if page.AfterCreatedAt != nil {
		params.AfterID = pgconv.UUIDToPgtype(page.AfterID)
	}

	rows, err := r.queries.ListBookingViews(ctx, r.db, params)
	if err != nil {
		return nil, infra.WrapRepoErr("failed to list bookings", err)
	}
	return toBookingViews(rows), nil
}

func (r *BookingReadStore) ListForAnalytics(ctx context.Context) ([]*queries.BookingView, error) {
	rows, err := r.queries.ListBookingViewsForAnalytics(ctx, r.db)
	if err != nil {
		return nil, infra.WrapRepoErr("failed to list bookings for analytics", err)
	}
	return toBookingViews(rows), nil
}

func toBookingViews(rows []query.BookingViewRow) []*queries.BookingView {
	result := make([]*queries.BookingView, len(rows))
	for i, row := range rows {
		result[i] = BookingRowToView(row)
	}
	return result
}

func BookingRowToView(row query.BookingViewRow) *queries.BookingView {
	return &queries.BookingView{
		ID:                    row.ID,
		UserID:                row.UserID,
		SlotID:                row.SlotID,
		SlotNumber:            row.SlotNumber,
		VehicleNumber:         row.VehicleNumber,
		StartTime:             pgconv.TimeFromPgtype(row.StartTime),
		EndTime:               pgconv.TimeFromPgtype(row.EndTime),
		Status:                row.Status,
		ParkingStatus:         row.ParkingStatus,
		ActualEntryTime:       pgconv.TimePtrFromPgtype(row.ActualEntryTime),
		ActualExitTime:        pgconv.TimePtrFromPgtype(row.ActualExitTime),
		ActualDurationMinutes: pgconv.IntPtrFromInt4(row.ActualDurationMinutes),
		Payment: queries.PaymentView{
			AmountCents: pgconv.Int64PtrFromInt8(row.PaymentAmountCents),
			Method:      pgconv.StringPtrFromPgtype(row.PaymentMethod),
			Status:      row.PaymentStatus,
			PaidAt:      pgconv.TimePtrFromPgtype(row.PaidAt),
		},
		Version:   row.Version,
		CreatedAt: pgconv.TimeFromPgtype(row.CreatedAt),
		UpdatedAt: pgconv.TimeFromPgtype(row.UpdatedAt),
	}
}
