package booking

import (
	"context"
	"errors"
	"strings"

	"stayease/internal/domain"
	"stayease/internal/repository"

	"github.com/jackc/pgx/v5/pgconn"
	"gorm.io/gorm"
)

const maxReferenceAttempts = 5

const (
	defaultPageSize = 10
	maxPageSize     = 100
)

// transitions is the booking lifecycle. Absent keys and absent targets are
// both rejected; checked_out and cancelled have no way out.
var transitions = map[domain.BookingStatus][]domain.BookingStatus{
	domain.BookingPending:    {domain.BookingConfirmed, domain.BookingCancelled},
	domain.BookingConfirmed:  {domain.BookingCheckedIn, domain.BookingCancelled},
	domain.BookingCheckedIn:  {domain.BookingCheckedOut},
	domain.BookingCheckedOut: {},
	domain.BookingCancelled:  {},
}

func transitionAllowed(from, to domain.BookingStatus) bool {
	for _, next := range transitions[from] {
		if next == to {
			return true
		}
	}
	return false
}

// Service is the inventory allocation and booking lifecycle engine. The
// claim and transition paths own their transactions: every bed status
// change, booking write and rollup recompute commits as one unit or not at
// all. Bed.status is the sole synchronization point; room and property
// counters are recomputed from it, never patched.
type Service struct {
	db         *gorm.DB
	bookings   BookingReader
	properties PropertyReader
}

func NewService(db *gorm.DB, bookings BookingReader, properties PropertyReader) *Service {
	return &Service{
		db:         db,
		bookings:   bookings,
		properties: properties,
	}
}

// ClaimBed atomically claims a bed for a new booking. Among concurrent
// claims on the same bed at most one succeeds; the rest observe
// ErrBedUnavailable or ErrBedAlreadyClaimed. The winner leaves the bed
// reserved, a pending booking and fresh rollup counters behind.
func (s *Service) ClaimBed(ctx context.Context, userID int64, req ClaimBedRequest) (*domain.Booking, error) {
	if req.CheckOutDate != nil && !req.CheckOutDate.After(req.CheckInDate) {
		return nil, ErrValidation
	}

	var booking *domain.Booking

	for attempt := 0; attempt < maxReferenceAttempts; attempt++ {
		err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
			var user domain.User
			if err := tx.First(&user, userID).Error; err != nil {
				return notFoundOr(err)
			}

			var property domain.Property
			if err := tx.First(&property, req.PropertyID).Error; err != nil {
				return notFoundOr(err)
			}

			var room domain.Room
			if err := tx.First(&room, req.RoomID).Error; err != nil {
				return notFoundOr(err)
			}
			if room.PropertyID != property.ID {
				return ErrRelationshipMismatch
			}

			var bed domain.Bed
			if err := tx.First(&bed, req.BedID).Error; err != nil {
				return notFoundOr(err)
			}
			if bed.RoomID != room.ID {
				return ErrRelationshipMismatch
			}

			if bed.Status != domain.BedAvailable {
				return ErrBedUnavailable
			}

			var active int64
			err := tx.Model(&domain.Booking{}).
				Where("bed_id = ? AND status IN ?", bed.ID, activeStatuses()).
				Count(&active).Error
			if err != nil {
				return err
			}
			if active > 0 {
				return ErrBedAlreadyClaimed
			}

			// The claim itself: a compare-and-swap restricted to rows still
			// available. A concurrent winner makes this touch zero rows.
			res := tx.Model(&domain.Bed{}).
				Where("id = ? AND status = ?", bed.ID, domain.BedAvailable).
				Update("status", domain.BedReserved)
			if res.Error != nil {
				return res.Error
			}
			if res.RowsAffected == 0 {
				return ErrBedAlreadyClaimed
			}

			b := &domain.Booking{
				BookingReference: generateReference(),
				UserID:           user.ID,
				PropertyID:       property.ID,
				RoomID:           room.ID,
				BedID:            bed.ID,
				CheckInDate:      req.CheckInDate,
				CheckOutDate:     req.CheckOutDate,
				MonthlyRent:      room.RentPerBed,
				SecurityDeposit:  property.SecurityDeposit,
				Status:           domain.BookingPending,
				Notes:            req.Notes,
			}
			if err := tx.Create(b).Error; err != nil {
				if isUniqueViolation(err, "idx_one_active_booking_per_bed", "bookings.bed_id") {
					return ErrBedAlreadyClaimed
				}
				if isUniqueViolation(err, "idx_booking_reference", "bookings.booking_reference") {
					return errReferenceCollision
				}
				return err
			}

			if err := repository.RecomputeRoom(tx, room.ID); err != nil {
				return err
			}
			if err := repository.RecomputeProperty(tx, property.ID); err != nil {
				return err
			}

			booking = b
			return nil
		})
		if errors.Is(err, errReferenceCollision) {
			continue
		}
		if err != nil {
			return nil, err
		}
		return booking, nil
	}

	return nil, errReferenceCollision
}

// TransitionBooking moves a booking along the lifecycle, synchronizing the
// bed and the rollup counters in the same transaction. Only the property
// owner may drive a booking forward; cancellation is also open to the
// requester.
func (s *Service) TransitionBooking(ctx context.Context, bookingID, actorID int64, target domain.BookingStatus) (*domain.Booking, error) {
	if _, known := transitions[target]; !known {
		return nil, ErrValidation
	}

	var updated *domain.Booking

	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var b domain.Booking
		if err := tx.First(&b, bookingID).Error; err != nil {
			return notFoundOr(err)
		}

		var property domain.Property
		if err := tx.First(&property, b.PropertyID).Error; err != nil {
			return notFoundOr(err)
		}

		isRequester := b.UserID == actorID
		isOwner := property.OwnerID == actorID
		if target == domain.BookingCancelled {
			if !isRequester && !isOwner {
				return ErrForbidden
			}
		} else if !isOwner {
			return ErrForbidden
		}

		from := b.Status
		if !transitionAllowed(from, target) {
			return invalidTransition(from, target)
		}

		// Guarded write: a concurrent transition that committed first makes
		// the predicate miss and this request fails cleanly.
		res := tx.Model(&domain.Booking{}).
			Where("id = ? AND status = ?", b.ID, from).
			Update("status", target)
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return invalidTransition(from, target)
		}

		var bed domain.Bed
		if err := tx.First(&bed, b.BedID).Error; err != nil {
			return err
		}

		var bedPatch map[string]interface{}
		switch target {
		case domain.BookingConfirmed:
			// Bed stays reserved.
		case domain.BookingCheckedIn:
			bedPatch = map[string]interface{}{
				"status":            domain.BedOccupied,
				"current_tenant_id": b.UserID,
				"occupied_from":     b.CheckInDate,
				"expected_checkout": b.CheckOutDate,
			}
		case domain.BookingCheckedOut, domain.BookingCancelled:
			bedPatch = map[string]interface{}{
				"status":            domain.BedAvailable,
				"current_tenant_id": nil,
				"occupied_from":     nil,
				"expected_checkout": nil,
			}
		}
		if bedPatch != nil {
			if err := tx.Model(&domain.Bed{}).Where("id = ?", bed.ID).Updates(bedPatch).Error; err != nil {
				return err
			}
		}

		if err := repository.RecomputeRoom(tx, bed.RoomID); err != nil {
			return err
		}
		if err := repository.RecomputeProperty(tx, b.PropertyID); err != nil {
			return err
		}

		if err := tx.First(&b, b.ID).Error; err != nil {
			return err
		}
		updated = &b
		return nil
	})
	if err != nil {
		return nil, err
	}
	return updated, nil
}

// CancelBooking is a transition to cancelled restricted to pending and
// confirmed bookings. A checked-in tenant leaves through checkout, not
// cancellation.
func (s *Service) CancelBooking(ctx context.Context, bookingID, actorID int64) error {
	b, err := s.bookings.GetByID(ctx, bookingID)
	if err != nil {
		return notFoundOr(err)
	}

	if b.Status != domain.BookingPending && b.Status != domain.BookingConfirmed {
		return invalidTransition(b.Status, domain.BookingCancelled)
	}

	_, err = s.TransitionBooking(ctx, bookingID, actorID, domain.BookingCancelled)
	return err
}

// GetBooking is visible to the requester and the property owner only.
func (s *Service) GetBooking(ctx context.Context, bookingID, actorID int64) (*domain.Booking, error) {
	b, err := s.bookings.GetByID(ctx, bookingID)
	if err != nil {
		return nil, notFoundOr(err)
	}

	property, err := s.properties.GetByID(ctx, b.PropertyID)
	if err != nil {
		return nil, notFoundOr(err)
	}

	if b.UserID != actorID && property.OwnerID != actorID {
		return nil, ErrForbidden
	}
	return b, nil
}

func (s *Service) GetBookingByReference(ctx context.Context, reference string) (*domain.Booking, error) {
	b, err := s.bookings.GetByReference(ctx, reference)
	if err != nil {
		return nil, notFoundOr(err)
	}
	return b, nil
}

func (s *Service) ListBookingsForRequester(ctx context.Context, userID int64, page, size int) (*PagedBookings, error) {
	page, size = normalizePage(page, size)
	bookings, total, err := s.bookings.ListByUser(ctx, userID, page, size)
	if err != nil {
		return nil, err
	}
	return newPagedBookings(bookings, total, page, size), nil
}

func (s *Service) ListBookingsForProperty(ctx context.Context, ownerID int64, status *domain.BookingStatus, page, size int) (*PagedBookings, error) {
	page, size = normalizePage(page, size)
	bookings, total, err := s.bookings.ListByOwner(ctx, ownerID, status, page, size)
	if err != nil {
		return nil, err
	}
	return newPagedBookings(bookings, total, page, size), nil
}

// ParseStatus maps a wire status string onto a lifecycle state.
func ParseStatus(raw string) (domain.BookingStatus, error) {
	status := domain.BookingStatus(strings.ToLower(strings.TrimSpace(raw)))
	if _, ok := transitions[status]; !ok {
		return "", ErrValidation
	}
	return status, nil
}

func normalizePage(page, size int) (int, int) {
	if page < 0 {
		page = 0
	}
	if size <= 0 {
		size = defaultPageSize
	}
	if size > maxPageSize {
		size = maxPageSize
	}
	return page, size
}

func newPagedBookings(bookings []domain.Booking, total int64, page, size int) *PagedBookings {
	content := make([]BookingResponse, 0, len(bookings))
	for i := range bookings {
		content = append(content, toBookingResponse(&bookings[i]))
	}

	totalPages := int((total + int64(size) - 1) / int64(size))

	return &PagedBookings{
		Content:       content,
		Page:          page,
		Size:          size,
		TotalElements: total,
		TotalPages:    totalPages,
		First:         page == 0,
		Last:          page >= totalPages-1,
	}
}

func toBookingResponse(b *domain.Booking) BookingResponse {
	return BookingResponse{
		ID:               b.ID,
		BookingReference: b.BookingReference,
		UserID:           b.UserID,
		PropertyID:       b.PropertyID,
		RoomID:           b.RoomID,
		BedID:            b.BedID,
		CheckInDate:      b.CheckInDate,
		CheckOutDate:     b.CheckOutDate,
		MonthlyRent:      b.MonthlyRent,
		SecurityDeposit:  b.SecurityDeposit,
		Status:           string(b.Status),
		Notes:            b.Notes,
		CreatedAt:        b.CreatedAt,
	}
}

func activeStatuses() []string {
	out := make([]string, 0, len(domain.ActiveBookingStatuses))
	for _, s := range domain.ActiveBookingStatuses {
		out = append(out, string(s))
	}
	return out
}

func notFoundOr(err error) error {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return ErrNotFound
	}
	return err
}

func isUniqueViolation(err error, pgConstraint, sqliteColumn string) bool {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return pgErr.Code == "23505" && pgErr.ConstraintName == pgConstraint
	}

	msg := err.Error()
	return strings.Contains(msg, "UNIQUE constraint failed") && strings.Contains(msg, sqliteColumn)
}
