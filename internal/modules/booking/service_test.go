package booking

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"stayease/internal/database"
	"stayease/internal/domain"
	"stayease/internal/repository"
)

type fixture struct {
	owner    domain.User
	tenant   domain.User
	stranger domain.User
	property domain.Property
	room     domain.Room
	beds     []domain.Bed
}

func setupEngine(t *testing.T) (*Service, *gorm.DB) {
	t.Helper()

	db, err := database.Connect(":memory:")
	require.NoError(t, err)

	// One connection: the in-memory database lives on it, and every
	// transaction serializes through it.
	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)

	require.NoError(t, database.Migrate(db))

	svc := NewService(db, repository.NewBookingRepository(db), repository.NewPropertyRepository(db))
	return svc, db
}

func seedInventory(t *testing.T, db *gorm.DB, bedCount int) fixture {
	t.Helper()

	fx := fixture{
		owner:    domain.User{Email: "owner@example.com", FullName: "Owner", Role: domain.RoleOwner},
		tenant:   domain.User{Email: "tenant@example.com", FullName: "Tenant", Role: domain.RoleTenant},
		stranger: domain.User{Email: "stranger@example.com", FullName: "Stranger", Role: domain.RoleTenant},
	}
	require.NoError(t, db.Create(&fx.owner).Error)
	require.NoError(t, db.Create(&fx.tenant).Error)
	require.NoError(t, db.Create(&fx.stranger).Error)

	fx.property = domain.Property{
		OwnerID:         fx.owner.ID,
		Name:            "Test PG",
		PropertyType:    domain.PropertyPG,
		SecurityDeposit: 5000,
		IsActive:        true,
	}
	require.NoError(t, db.Create(&fx.property).Error)

	fx.room = domain.Room{
		PropertyID: fx.property.ID,
		RoomNumber: "101",
		RoomType:   domain.RoomShared,
		TotalBeds:  bedCount,
		RentPerBed: 8000,
		IsActive:   true,
	}
	rooms := repository.NewRoomRepository(db)
	require.NoError(t, rooms.CreateWithBeds(context.Background(), &fx.room))

	require.NoError(t, db.Where("room_id = ?", fx.room.ID).Order("id").Find(&fx.beds).Error)
	require.Len(t, fx.beds, bedCount)

	return fx
}

func claimRequest(fx fixture, bedID int64) ClaimBedRequest {
	return ClaimBedRequest{
		PropertyID:  fx.property.ID,
		RoomID:      fx.room.ID,
		BedID:       bedID,
		CheckInDate: time.Date(2026, 10, 1, 0, 0, 0, 0, time.UTC),
	}
}

func reloadBed(t *testing.T, db *gorm.DB, id int64) domain.Bed {
	t.Helper()
	var b domain.Bed
	require.NoError(t, db.First(&b, id).Error)
	return b
}

func reloadRoom(t *testing.T, db *gorm.DB, id int64) domain.Room {
	t.Helper()
	var r domain.Room
	require.NoError(t, db.First(&r, id).Error)
	return r
}

func reloadProperty(t *testing.T, db *gorm.DB, id int64) domain.Property {
	t.Helper()
	var p domain.Property
	require.NoError(t, db.First(&p, id).Error)
	return p
}

func reloadBooking(t *testing.T, db *gorm.DB, id int64) domain.Booking {
	t.Helper()
	var b domain.Booking
	require.NoError(t, db.First(&b, id).Error)
	return b
}

func TestClaimBed_Success(t *testing.T) {
	svc, db := setupEngine(t)
	fx := seedInventory(t, db, 3)

	b, err := svc.ClaimBed(context.Background(), fx.tenant.ID, claimRequest(fx, fx.beds[1].ID))

	require.NoError(t, err)
	assert.Equal(t, domain.BookingPending, b.Status)
	assert.Equal(t, fx.beds[1].ID, b.BedID)
	assert.Equal(t, 8000.0, b.MonthlyRent)
	assert.Equal(t, 5000.0, b.SecurityDeposit)
	assert.Regexp(t, `^BK\d{14}[0-9A-F]{6}$`, b.BookingReference)

	assert.Equal(t, domain.BedReserved, reloadBed(t, db, fx.beds[1].ID).Status)

	room := reloadRoom(t, db, fx.room.ID)
	assert.Equal(t, 3, room.TotalBeds)
	assert.Equal(t, 2, room.AvailableBeds)

	property := reloadProperty(t, db, fx.property.ID)
	assert.Equal(t, 1, property.TotalRooms)
	assert.Equal(t, 3, property.TotalBeds)
	assert.Equal(t, 2, property.AvailableBeds)
}

func TestClaimBed_NotFound(t *testing.T) {
	svc, db := setupEngine(t)
	fx := seedInventory(t, db, 1)

	req := claimRequest(fx, fx.beds[0].ID)
	req.RoomID = 9999

	_, err := svc.ClaimBed(context.Background(), fx.tenant.ID, req)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestClaimBed_RelationshipMismatch(t *testing.T) {
	svc, db := setupEngine(t)
	fx := seedInventory(t, db, 2)

	other := domain.Property{OwnerID: fx.owner.ID, Name: "Other PG", PropertyType: domain.PropertyPG, IsActive: true}
	require.NoError(t, db.Create(&other).Error)

	req := claimRequest(fx, fx.beds[0].ID)
	req.PropertyID = other.ID

	_, err := svc.ClaimBed(context.Background(), fx.tenant.ID, req)
	assert.ErrorIs(t, err, ErrRelationshipMismatch)

	otherRoom := domain.Room{PropertyID: other.ID, RoomNumber: "201", RoomType: domain.RoomSingle, RentPerBed: 9000, IsActive: true}
	require.NoError(t, db.Create(&otherRoom).Error)

	req = claimRequest(fx, fx.beds[0].ID)
	req.PropertyID = other.ID
	req.RoomID = otherRoom.ID

	_, err = svc.ClaimBed(context.Background(), fx.tenant.ID, req)
	assert.ErrorIs(t, err, ErrRelationshipMismatch)
}

func TestClaimBed_BedUnavailable(t *testing.T) {
	svc, db := setupEngine(t)
	fx := seedInventory(t, db, 2)

	_, err := svc.ClaimBed(context.Background(), fx.tenant.ID, claimRequest(fx, fx.beds[0].ID))
	require.NoError(t, err)

	_, err = svc.ClaimBed(context.Background(), fx.stranger.ID, claimRequest(fx, fx.beds[0].ID))
	assert.ErrorIs(t, err, ErrBedUnavailable)

	// The loser changed nothing.
	room := reloadRoom(t, db, fx.room.ID)
	assert.Equal(t, 1, room.AvailableBeds)
}

func TestClaimBed_ConcurrentSingleWinner(t *testing.T) {
	svc, db := setupEngine(t)
	fx := seedInventory(t, db, 1)

	const n = 8
	tenants := make([]domain.User, n)
	for i := range tenants {
		tenants[i] = domain.User{
			Email:    fmt.Sprintf("racer%d@example.com", i),
			FullName: fmt.Sprintf("Racer %d", i),
			Role:     domain.RoleTenant,
		}
		require.NoError(t, db.Create(&tenants[i]).Error)
	}

	var wg sync.WaitGroup
	results := make(chan error, n)
	for i := 0; i < n; i++ {
		wg.Add(1)
		go func(userID int64) {
			defer wg.Done()
			_, err := svc.ClaimBed(context.Background(), userID, claimRequest(fx, fx.beds[0].ID))
			results <- err
		}(tenants[i].ID)
	}
	wg.Wait()
	close(results)

	wins, losses := 0, 0
	for err := range results {
		if err == nil {
			wins++
			continue
		}
		losses++
		assert.True(t,
			errors.Is(err, ErrBedUnavailable) || errors.Is(err, ErrBedAlreadyClaimed),
			"unexpected loser error: %v", err)
	}
	assert.Equal(t, 1, wins)
	assert.Equal(t, n-1, losses)

	var active int64
	require.NoError(t, db.Model(&domain.Booking{}).
		Where("bed_id = ? AND status IN ?", fx.beds[0].ID, activeStatuses()).
		Count(&active).Error)
	assert.EqualValues(t, 1, active)

	assert.Equal(t, 0, reloadRoom(t, db, fx.room.ID).AvailableBeds)
	assert.Equal(t, 0, reloadProperty(t, db, fx.property.ID).AvailableBeds)
}

func TestClaimBed_ReclaimAfterCancel(t *testing.T) {
	svc, db := setupEngine(t)
	fx := seedInventory(t, db, 1)

	b, err := svc.ClaimBed(context.Background(), fx.tenant.ID, claimRequest(fx, fx.beds[0].ID))
	require.NoError(t, err)
	require.NoError(t, svc.CancelBooking(context.Background(), b.ID, fx.tenant.ID))

	assert.Equal(t, domain.BedAvailable, reloadBed(t, db, fx.beds[0].ID).Status)

	b2, err := svc.ClaimBed(context.Background(), fx.stranger.ID, claimRequest(fx, fx.beds[0].ID))
	require.NoError(t, err)
	assert.Equal(t, domain.BookingPending, b2.Status)
	assert.NotEqual(t, b.BookingReference, b2.BookingReference)
}

func TestTransitionBooking_FullLifecycle(t *testing.T) {
	svc, db := setupEngine(t)
	fx := seedInventory(t, db, 3)

	checkout := time.Date(2027, 4, 1, 0, 0, 0, 0, time.UTC)
	req := claimRequest(fx, fx.beds[0].ID)
	req.CheckOutDate = &checkout

	b, err := svc.ClaimBed(context.Background(), fx.tenant.ID, req)
	require.NoError(t, err)

	b, err = svc.TransitionBooking(context.Background(), b.ID, fx.owner.ID, domain.BookingConfirmed)
	require.NoError(t, err)
	assert.Equal(t, domain.BookingConfirmed, b.Status)
	assert.Equal(t, domain.BedReserved, reloadBed(t, db, fx.beds[0].ID).Status)

	b, err = svc.TransitionBooking(context.Background(), b.ID, fx.owner.ID, domain.BookingCheckedIn)
	require.NoError(t, err)
	assert.Equal(t, domain.BookingCheckedIn, b.Status)

	bed := reloadBed(t, db, fx.beds[0].ID)
	assert.Equal(t, domain.BedOccupied, bed.Status)
	require.NotNil(t, bed.CurrentTenantID)
	assert.Equal(t, fx.tenant.ID, *bed.CurrentTenantID)
	require.NotNil(t, bed.OccupiedFrom)
	require.NotNil(t, bed.ExpectedCheckout)
	assert.Equal(t, 2, reloadRoom(t, db, fx.room.ID).AvailableBeds)

	b, err = svc.TransitionBooking(context.Background(), b.ID, fx.owner.ID, domain.BookingCheckedOut)
	require.NoError(t, err)
	assert.Equal(t, domain.BookingCheckedOut, b.Status)

	bed = reloadBed(t, db, fx.beds[0].ID)
	assert.Equal(t, domain.BedAvailable, bed.Status)
	assert.Nil(t, bed.CurrentTenantID)
	assert.Nil(t, bed.OccupiedFrom)
	assert.Nil(t, bed.ExpectedCheckout)

	assert.Equal(t, 3, reloadRoom(t, db, fx.room.ID).AvailableBeds)
	assert.Equal(t, 3, reloadProperty(t, db, fx.property.ID).AvailableBeds)
}

func TestTransitionBooking_PendingToCheckedInRejected(t *testing.T) {
	svc, db := setupEngine(t)
	fx := seedInventory(t, db, 1)

	b, err := svc.ClaimBed(context.Background(), fx.tenant.ID, claimRequest(fx, fx.beds[0].ID))
	require.NoError(t, err)

	_, err = svc.TransitionBooking(context.Background(), b.ID, fx.owner.ID, domain.BookingCheckedIn)
	assert.ErrorIs(t, err, ErrInvalidTransition)

	// Nothing moved.
	assert.Equal(t, domain.BookingPending, reloadBooking(t, db, b.ID).Status)
	assert.Equal(t, domain.BedReserved, reloadBed(t, db, fx.beds[0].ID).Status)
	assert.Equal(t, 0, reloadRoom(t, db, fx.room.ID).AvailableBeds)
}

func TestTransitionBooking_RejectionMatrix(t *testing.T) {
	svc, db := setupEngine(t)
	fx := seedInventory(t, db, 1)

	all := []domain.BookingStatus{
		domain.BookingPending,
		domain.BookingConfirmed,
		domain.BookingCheckedIn,
		domain.BookingCheckedOut,
		domain.BookingCancelled,
	}

	bedStatusFor := func(s domain.BookingStatus) domain.BedStatus {
		switch s {
		case domain.BookingPending, domain.BookingConfirmed:
			return domain.BedReserved
		case domain.BookingCheckedIn:
			return domain.BedOccupied
		default:
			return domain.BedAvailable
		}
	}

	seq := 0
	for _, from := range all {
		for _, to := range all {
			if transitionAllowed(from, to) {
				continue
			}
			seq++

			bed := domain.Bed{RoomID: fx.room.ID, BedNumber: fmt.Sprintf("X%d", seq), Status: bedStatusFor(from)}
			require.NoError(t, db.Create(&bed).Error)

			b := domain.Booking{
				BookingReference: fmt.Sprintf("BKTEST%08d", seq),
				UserID:           fx.tenant.ID,
				PropertyID:       fx.property.ID,
				RoomID:           fx.room.ID,
				BedID:            bed.ID,
				CheckInDate:      time.Date(2026, 10, 1, 0, 0, 0, 0, time.UTC),
				MonthlyRent:      8000,
				Status:           from,
			}
			require.NoError(t, db.Create(&b).Error)

			_, err := svc.TransitionBooking(context.Background(), b.ID, fx.owner.ID, to)
			assert.ErrorIs(t, err, ErrInvalidTransition, "%s -> %s must be rejected", from, to)
			assert.Contains(t, err.Error(), string(from))
			assert.Contains(t, err.Error(), string(to))

			assert.Equal(t, from, reloadBooking(t, db, b.ID).Status, "%s -> %s changed booking", from, to)
			assert.Equal(t, bedStatusFor(from), reloadBed(t, db, bed.ID).Status, "%s -> %s changed bed", from, to)
		}
	}
}

func TestTransitionBooking_Authorization(t *testing.T) {
	svc, db := setupEngine(t)
	fx := seedInventory(t, db, 2)

	b, err := svc.ClaimBed(context.Background(), fx.tenant.ID, claimRequest(fx, fx.beds[0].ID))
	require.NoError(t, err)

	// Only the owner drives the booking forward, even for the requester.
	_, err = svc.TransitionBooking(context.Background(), b.ID, fx.tenant.ID, domain.BookingConfirmed)
	assert.ErrorIs(t, err, ErrForbidden)

	// A third party may not cancel.
	_, err = svc.TransitionBooking(context.Background(), b.ID, fx.stranger.ID, domain.BookingCancelled)
	assert.ErrorIs(t, err, ErrForbidden)

	// The requester may cancel their own booking.
	_, err = svc.TransitionBooking(context.Background(), b.ID, fx.tenant.ID, domain.BookingCancelled)
	assert.NoError(t, err)
}

func TestCancelBooking_CheckedInRejected(t *testing.T) {
	svc, db := setupEngine(t)
	fx := seedInventory(t, db, 1)

	b, err := svc.ClaimBed(context.Background(), fx.tenant.ID, claimRequest(fx, fx.beds[0].ID))
	require.NoError(t, err)

	_, err = svc.TransitionBooking(context.Background(), b.ID, fx.owner.ID, domain.BookingConfirmed)
	require.NoError(t, err)
	_, err = svc.TransitionBooking(context.Background(), b.ID, fx.owner.ID, domain.BookingCheckedIn)
	require.NoError(t, err)

	err = svc.CancelBooking(context.Background(), b.ID, fx.tenant.ID)
	assert.ErrorIs(t, err, ErrInvalidTransition)

	assert.Equal(t, domain.BookingCheckedIn, reloadBooking(t, db, b.ID).Status)
	assert.Equal(t, domain.BedOccupied, reloadBed(t, db, fx.beds[0].ID).Status)
}

func TestCancelBooking_RestoresAvailability(t *testing.T) {
	svc, db := setupEngine(t)
	fx := seedInventory(t, db, 2)

	b, err := svc.ClaimBed(context.Background(), fx.tenant.ID, claimRequest(fx, fx.beds[0].ID))
	require.NoError(t, err)
	assert.Equal(t, 1, reloadRoom(t, db, fx.room.ID).AvailableBeds)

	require.NoError(t, svc.CancelBooking(context.Background(), b.ID, fx.owner.ID))

	assert.Equal(t, domain.BookingCancelled, reloadBooking(t, db, b.ID).Status)
	assert.Equal(t, domain.BedAvailable, reloadBed(t, db, fx.beds[0].ID).Status)
	assert.Equal(t, 2, reloadRoom(t, db, fx.room.ID).AvailableBeds)
	assert.Equal(t, 2, reloadProperty(t, db, fx.property.ID).AvailableBeds)
}

func TestRecompute_Idempotent(t *testing.T) {
	svc, db := setupEngine(t)
	fx := seedInventory(t, db, 3)

	_, err := svc.ClaimBed(context.Background(), fx.tenant.ID, claimRequest(fx, fx.beds[0].ID))
	require.NoError(t, err)

	require.NoError(t, repository.RecomputeRoom(db, fx.room.ID))
	require.NoError(t, repository.RecomputeProperty(db, fx.property.ID))
	first := reloadRoom(t, db, fx.room.ID)
	firstProp := reloadProperty(t, db, fx.property.ID)

	require.NoError(t, repository.RecomputeRoom(db, fx.room.ID))
	require.NoError(t, repository.RecomputeProperty(db, fx.property.ID))
	second := reloadRoom(t, db, fx.room.ID)
	secondProp := reloadProperty(t, db, fx.property.ID)

	assert.Equal(t, first.AvailableBeds, second.AvailableBeds)
	assert.Equal(t, first.TotalBeds, second.TotalBeds)
	assert.Equal(t, firstProp.AvailableBeds, secondProp.AvailableBeds)
	assert.Equal(t, firstProp.TotalBeds, secondProp.TotalBeds)
	assert.Equal(t, firstProp.TotalRooms, secondProp.TotalRooms)
}

func TestGetBooking_Visibility(t *testing.T) {
	svc, db := setupEngine(t)
	fx := seedInventory(t, db, 1)

	b, err := svc.ClaimBed(context.Background(), fx.tenant.ID, claimRequest(fx, fx.beds[0].ID))
	require.NoError(t, err)

	got, err := svc.GetBooking(context.Background(), b.ID, fx.tenant.ID)
	require.NoError(t, err)
	assert.Equal(t, b.ID, got.ID)

	_, err = svc.GetBooking(context.Background(), b.ID, fx.owner.ID)
	assert.NoError(t, err)

	_, err = svc.GetBooking(context.Background(), b.ID, fx.stranger.ID)
	assert.ErrorIs(t, err, ErrForbidden)

	_, err = svc.GetBooking(context.Background(), 9999, fx.tenant.ID)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestGetBookingByReference(t *testing.T) {
	svc, db := setupEngine(t)
	fx := seedInventory(t, db, 1)

	b, err := svc.ClaimBed(context.Background(), fx.tenant.ID, claimRequest(fx, fx.beds[0].ID))
	require.NoError(t, err)

	got, err := svc.GetBookingByReference(context.Background(), b.BookingReference)
	require.NoError(t, err)
	assert.Equal(t, b.ID, got.ID)

	_, err = svc.GetBookingByReference(context.Background(), "BK00000000000000XXXXXX")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestListBookings_Paging(t *testing.T) {
	svc, db := setupEngine(t)
	fx := seedInventory(t, db, 3)

	for i := 0; i < 3; i++ {
		b, err := svc.ClaimBed(context.Background(), fx.tenant.ID, claimRequest(fx, fx.beds[i].ID))
		require.NoError(t, err)
		require.NoError(t, svc.CancelBooking(context.Background(), b.ID, fx.tenant.ID))
	}

	page, err := svc.ListBookingsForRequester(context.Background(), fx.tenant.ID, 0, 2)
	require.NoError(t, err)
	assert.Len(t, page.Content, 2)
	assert.EqualValues(t, 3, page.TotalElements)
	assert.Equal(t, 2, page.TotalPages)
	assert.True(t, page.First)
	assert.False(t, page.Last)

	page, err = svc.ListBookingsForRequester(context.Background(), fx.tenant.ID, 1, 2)
	require.NoError(t, err)
	assert.Len(t, page.Content, 1)
	assert.True(t, page.Last)

	cancelled := domain.BookingCancelled
	ownerPage, err := svc.ListBookingsForProperty(context.Background(), fx.owner.ID, &cancelled, 0, 10)
	require.NoError(t, err)
	assert.EqualValues(t, 3, ownerPage.TotalElements)

	pending := domain.BookingPending
	ownerPage, err = svc.ListBookingsForProperty(context.Background(), fx.owner.ID, &pending, 0, 10)
	require.NoError(t, err)
	assert.EqualValues(t, 0, ownerPage.TotalElements)
}
