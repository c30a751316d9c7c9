//go:build unit

package commands_test

import (
	"context"
	"io"
	"log/slog"
	"testing"

	"parking-booking/internal/domain/slot"
	"parking-booking/internal/domain/user"
	"parking-booking/internal/infra"
	"parking-booking/internal/pkg/clock"
	"parking-booking/internal/pkg/errs"
	"parking-booking/internal/usecase/commands"
	"parking-booking/internal/usecase/queries"
	"parking-booking/internal/usecase/shared"
	"parking-booking/tests/common/builder"
	commandsmock "parking-booking/tests/mock/commands"
	queriesmock "parking-booking/tests/mock/queries"
	sharedmock "parking-booking/tests/mock/shared"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/stretchr/testify/suite"
	"go.uber.org/mock/gomock"
)

type SlotCommandsTestSuite struct {
	suite.Suite
	ctrl      *gomock.Controller
	uow       *sharedmock.MockUnitOfWork
	tx        *sharedmock.MockTx
	reads     *sharedmock.MockCommandReads
	slots     *sharedmock.MockSlotRepository
	publisher *commandsmock.MockEventPublisher
	slotQ     *queriesmock.MockSlotQueries
	admin     user.Actor
	uc        commands.SlotCommands
}

func (s *SlotCommandsTestSuite) SetupTest() {
	s.ctrl = gomock.NewController(s.T())
	s.uow = sharedmock.NewMockUnitOfWork(s.ctrl)
	s.tx = sharedmock.NewMockTx(s.ctrl)
	s.reads = sharedmock.NewMockCommandReads(s.ctrl)
	s.slots = sharedmock.NewMockSlotRepository(s.ctrl)
	s.publisher = commandsmock.NewMockEventPublisher(s.ctrl)
	s.slotQ = queriesmock.NewMockSlotQueries(s.ctrl)
	s.admin = user.NewActor(uuid.New(), user.RoleAdmin)

	s.uow.EXPECT().Within(gomock.Any(), gomock.Any()).
		DoAndReturn(func(ctx context.Context, fn func(context.Context, shared.Tx) error) error {
			return fn(ctx, s.tx)
		}).AnyTimes()
	s.tx.EXPECT().Reads().Return(s.reads).AnyTimes()
	s.tx.EXPECT().Slots().Return(s.slots).AnyTimes()
	s.tx.EXPECT().DB().Return(nil).AnyTimes()

	s.uc = commands.NewSlotCommands(s.uow, s.publisher, s.slotQ, clock.NewMockClock(testNow),
		slog.New(slog.NewTextHandler(io.Discard, nil)))
}

func (s *SlotCommandsTestSuite) TearDownTest() {
	s.ctrl.Finish()
}

func TestSlotCommandsSuite(t *testing.T) {
	suite.Run(t, new(SlotCommandsTestSuite))
}

func createSlotParams() commands.CreateSlotParams {
	return commands.CreateSlotParams{
		SlotNumber: " b-12 ",
		SlotLocationParams: commands.SlotLocationParams{
			City:      "Pune",
			Area:      "Baner",
			PlaceType: "OFFICE",
			Latitude:  18.559,
			Longitude: 73.786,
		},
	}
}

func (s *SlotCommandsTestSuite) TestCreate() {
	s.Run("success: normalizes the number and publishes", func() {
		s.SetupTest()
		var created *slot.Slot
		s.slots.EXPECT().Create(gomock.Any(), gomock.Any(), gomock.Any()).
			DoAndReturn(func(_ context.Context, _ any, sl *slot.Slot) error {
				created = sl
				return nil
			})
		view := &queries.SlotView{SlotNumber: "B-12", IsAvailable: true}
		s.slotQ.EXPECT().GetByID(gomock.Any(), gomock.Any()).Return(view, nil)
		s.publisher.EXPECT().PublishSlotUpdated(view)

		got, err := s.uc.Create(context.Background(), s.admin, createSlotParams())

		s.Require().NoError(err)
		s.Equal(view, got)
		s.Require().NotNil(created)
		s.Equal("B-12", created.Number().String())
		s.Equal(slot.PlaceTypeOffice, created.Location().PlaceType)
		s.True(created.IsAvailable())
	})

	s.Run("error: non-admin", func() {
		s.SetupTest()
		_, err := s.uc.Create(context.Background(), user.NewActor(uuid.New(), user.RoleUser), createSlotParams())
		s.True(errs.Is(err, errs.ErrForbidden))
	})

	s.Run("error: missing city", func() {
		s.SetupTest()
		params := createSlotParams()
		params.City = ""
		_, err := s.uc.Create(context.Background(), s.admin, params)
		s.True(errs.Is(err, errs.ErrInvalidInput))
	})

	s.Run("error: duplicate slot number", func() {
		s.SetupTest()
		dup := &pgconn.PgError{Code: "23505", Message: "duplicate key value violates unique constraint"}
		s.slots.EXPECT().Create(gomock.Any(), gomock.Any(), gomock.Any()).
			Return(infra.WrapRepoErr("failed to create slot", dup))

		_, err := s.uc.Create(context.Background(), s.admin, createSlotParams())

		s.True(errs.Is(err, errs.ErrDuplicateSlotNumber))
	})
}

func (s *SlotCommandsTestSuite) TestUpdate() {
	s.Run("success: relocates a live slot", func() {
		s.SetupTest()
		sb := builder.NewSlotBuilder()
		s.reads.EXPECT().LockSlot(gomock.Any(), sb.ID).Return(sb.BuildDomain(), nil)
		s.slots.EXPECT().Update(gomock.Any(), gomock.Any(), gomock.Any()).
			DoAndReturn(func(_ context.Context, _ any, sl *slot.Slot) error {
				assert.Equal(s.T(), "Pune", sl.Location().City)
				assert.Equal(s.T(), sb.SlotNumber, sl.Number().String())
				return nil
			})
		s.slotQ.EXPECT().GetByID(gomock.Any(), sb.ID).Return(sb.BuildView(), nil)
		s.publisher.EXPECT().PublishSlotUpdated(gomock.Any())

		_, err := s.uc.Update(context.Background(), s.admin, sb.ID, createSlotParams().SlotLocationParams)

		s.NoError(err)
	})

	s.Run("error: deleted slot", func() {
		s.SetupTest()
		sb := builder.NewSlotBuilder().AsDeleted()
		s.reads.EXPECT().LockSlot(gomock.Any(), sb.ID).Return(sb.BuildDomain(), nil)

		_, err := s.uc.Update(context.Background(), s.admin, sb.ID, createSlotParams().SlotLocationParams)

		s.True(errs.Is(err, errs.ErrSlotNotFound))
	})
}

func (s *SlotCommandsTestSuite) TestDelete() {
	s.Run("success: soft-deletes an idle slot", func() {
		s.SetupTest()
		sb := builder.NewSlotBuilder()
		s.reads.EXPECT().LockSlot(gomock.Any(), sb.ID).Return(sb.BuildDomain(), nil)
		s.reads.EXPECT().CountActiveBookingsOnSlot(gomock.Any(), sb.ID, uuid.Nil).Return(int64(0), nil)
		s.slots.EXPECT().Update(gomock.Any(), gomock.Any(), gomock.Any()).
			DoAndReturn(func(_ context.Context, _ any, sl *slot.Slot) error {
				require.NotNil(s.T(), sl.DeletedAt())
				assert.Equal(s.T(), testNow, *sl.DeletedAt())
				return nil
			})
		s.publisher.EXPECT().PublishSlotUpdated(gomock.Any()).Do(func(v *queries.SlotView) {
			assert.Equal(s.T(), sb.ID, v.ID)
			assert.False(s.T(), v.IsAvailable)
		})

		s.NoError(s.uc.Delete(context.Background(), s.admin, sb.ID))
	})

	s.Run("error: slot still has BOOKED bookings", func() {
		s.SetupTest()
		sb := builder.NewSlotBuilder().AsUnavailable()
		s.reads.EXPECT().LockSlot(gomock.Any(), sb.ID).Return(sb.BuildDomain(), nil)
		s.reads.EXPECT().CountActiveBookingsOnSlot(gomock.Any(), sb.ID, uuid.Nil).Return(int64(2), nil)

		err := s.uc.Delete(context.Background(), s.admin, sb.ID)

		s.True(errs.Is(err, errs.ErrSlotInUse))
	})

	s.Run("error: unknown slot", func() {
		s.SetupTest()
		id := uuid.New()
		s.reads.EXPECT().LockSlot(gomock.Any(), id).Return(nil, notFoundErr())

		s.True(errs.Is(s.uc.Delete(context.Background(), s.admin, id), errs.ErrSlotNotFound))
	})
}

func (s *SlotCommandsTestSuite) TestRelease() {
	s.Run("success: restores availability", func() {
		s.SetupTest()
		sb := builder.NewSlotBuilder().AsUnavailable()
		s.reads.EXPECT().LockSlot(gomock.Any(), sb.ID).Return(sb.BuildDomain(), nil)
		s.slots.EXPECT().SetAvailability(gomock.Any(), gomock.Any(), sb.ID, true).Return(nil)
		freed := sb.BuildView()
		freed.IsAvailable = true
		s.slotQ.EXPECT().GetByID(gomock.Any(), sb.ID).Return(freed, nil)
		s.publisher.EXPECT().PublishSlotUpdated(freed)

		got, err := s.uc.Release(context.Background(), s.admin, sb.ID)

		s.Require().NoError(err)
		s.True(got.IsAvailable)
	})

	s.Run("error: non-admin", func() {
		s.SetupTest()
		_, err := s.uc.Release(context.Background(), user.NewActor(uuid.New(), user.RoleUser), uuid.New())
		s.True(errs.Is(err, errs.ErrForbidden))
	})
}
