package queries

import (
	"context"

	"parking-booking/internal/domain/booking"
	"parking-booking/internal/domain/user"
	"parking-booking/internal/infra"
	"parking-booking/internal/pkg/clock"
	"parking-booking/internal/pkg/errs"

	"github.com/google/uuid"
)

var (
	ErrBookingNotFound = errs.ErrBookingNotFound
	ErrBookingAccess   = errs.ErrBookingNotOwned
	ErrInvalidCursor   = errs.Mark(errs.New("invalid cursor"), errs.ErrInvalidInput)
	ErrAdminOnly       = errs.Mark(errs.New("admin role required"), errs.ErrForbidden)
)

type BookingReadStore interface {
	FindByID(ctx context.Context, id uuid.UUID) (*BookingView, error)
	// List pages newest first; a nil userID lists every user's bookings.
	List(ctx context.Context, userID *uuid.UUID, page Page) ([]*BookingView, error)
	ListForAnalytics(ctx context.Context) ([]*BookingView, error)
}

type BookingQueries interface {
	GetByID(ctx context.Context, actor user.Actor, id uuid.UUID) (*BookingView, error)
	// GetByIDSystem skips the ownership check (idempotent replay, post-commit reads).
	GetByIDSystem(ctx context.Context, id uuid.UUID) (*BookingView, error)
	ListMine(ctx context.Context, actor user.Actor, cursor *Cursor, limit int) ([]*BookingView, *Cursor, error)
	ListAll(ctx context.Context, actor user.Actor, cursor *Cursor, limit int) ([]*BookingView, *Cursor, error)
	FeeQuote(ctx context.Context, actor user.Actor, id uuid.UUID) (*FeeView, error)
}

type bookingQueriesImpl struct {
	repo  BookingReadStore
	calc  booking.FeeCalculator
	clock clock.Clock
}

func NewBookingQueries(repo BookingReadStore, calc booking.FeeCalculator, clk clock.Clock) BookingQueries {
	return &bookingQueriesImpl{repo: repo, calc: calc, clock: clk}
}

func (q *bookingQueriesImpl) GetByID(ctx context.Context, actor user.Actor, id uuid.UUID) (*BookingView, error) {
	view, err := q.GetByIDSystem(ctx, id)
	if err != nil {
		return nil, err
	}
	if !actor.CanAccess(view.UserID) {
		return nil, ErrBookingAccess
	}
	return view, nil
}

func (q *bookingQueriesImpl) GetByIDSystem(ctx context.Context, id uuid.UUID) (*BookingView, error) {
	view, err := q.repo.FindByID(ctx, id)
	if err != nil {
		if infra.IsKind(err, infra.KindNotFound) {
			return nil, ErrBookingNotFound
		}
		return nil, err
	}
	return view, nil
}

func (q *bookingQueriesImpl) ListMine(ctx context.Context, actor user.Actor, cursor *Cursor, limit int) ([]*BookingView, *Cursor, error) {
	return q.list(ctx, &actor.ID, cursor, limit)
}

func (q *bookingQueriesImpl) ListAll(ctx context.Context, actor user.Actor, cursor *Cursor, limit int) ([]*BookingView, *Cursor, error) {
	if !actor.IsAdmin() {
		return nil, nil, ErrAdminOnly
	}
	return q.list(ctx, nil, cursor, limit)
}

func (q *bookingQueriesImpl) list(ctx context.Context, userID *uuid.UUID, cursor *Cursor, limit int) ([]*BookingView, *Cursor, error) {
	page, err := PageFromCursor(cursor, limit)
	if err != nil {
		return nil, nil, err
	}

	rows, err := q.repo.List(ctx, userID, page)
	if err != nil {
		return nil, nil, err
	}

	want := int(page.Limit) - 1
	var next *Cursor
	if len(rows) > want {
		last := rows[want-1]
		next = &Cursor{After: EncodeAfterCursor(last.CreatedAt, last.ID)}
		rows = rows[:want]
	}
	return rows, next, nil
}

// FeeQuote is a live estimate while the vehicle is parked and the frozen
// amount after check-out.
func (q *bookingQueriesImpl) FeeQuote(ctx context.Context, actor user.Actor, id uuid.UUID) (*FeeView, error) {
	view, err := q.GetByID(ctx, actor, id)
	if err != nil {
		return nil, err
	}

	now := q.clock.Now()
	quote := q.calc.Quote(FeeInputFromView(view), now)

	return &FeeView{
		BookingID:   view.ID,
		Minutes:     quote.Minutes,
		Hours:       quote.Hours,
		AmountCents: quote.Amount.Cents(),
		Estimate:    quote.Estimate,
		QuotedAt:    now,
	}, nil
}

func FeeInputFromView(v *BookingView) booking.FeeInput {
	in := booking.FeeInput{
		Status:          booking.Status(v.Status),
		ParkingStatus:   booking.ParkingStatus(v.ParkingStatus),
		ActualEntryTime: v.ActualEntryTime,
		ActualDuration:  v.ActualDurationMinutes,
	}
	if v.Payment.AmountCents != nil {
		m := booking.NewMoney(*v.Payment.AmountCents)
		in.PaymentAmount = &m
	}
	return in
}
