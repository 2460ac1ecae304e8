package property

import (
	"context"
	"errors"

	"stayease/internal/domain"
	"stayease/internal/repository"

	"gorm.io/gorm"
)

// Service is the property/room management boundary. The booking engine
// consumes its effects only through the beds it materializes: every room
// capacity unit becomes one available bed, and every inventory change ends
// with a rollup recompute.
type Service struct {
	properties PropertyRepository
	rooms      RoomRepository
	beds       BedRepository
}

func NewService(properties PropertyRepository, rooms RoomRepository, beds BedRepository) *Service {
	return &Service{
		properties: properties,
		rooms:      rooms,
		beds:       beds,
	}
}

func (s *Service) CreateProperty(ctx context.Context, ownerID int64, req CreatePropertyRequest) (*domain.Property, error) {
	genderPref := domain.GenderPreference(req.GenderPreference)
	if genderPref == "" {
		genderPref = domain.GenderAny
	}
	noticePeriod := req.NoticePeriodDays
	if noticePeriod == 0 {
		noticePeriod = 30
	}

	p := &domain.Property{
		OwnerID:          ownerID,
		Name:             req.Name,
		Description:      req.Description,
		PropertyType:     domain.PropertyType(req.PropertyType),
		GenderPreference: genderPref,
		AddressLine1:     req.AddressLine1,
		AddressLine2:     req.AddressLine2,
		City:             req.City,
		State:            req.State,
		Pincode:          req.Pincode,
		SecurityDeposit:  req.SecurityDeposit,
		NoticePeriodDays: noticePeriod,
		IsActive:         true,
	}
	if err := s.properties.Create(ctx, p); err != nil {
		return nil, err
	}
	return p, nil
}

func (s *Service) GetProperty(ctx context.Context, id int64) (*domain.Property, error) {
	p, err := s.properties.GetByID(ctx, id)
	if err != nil {
		return nil, notFoundOr(err)
	}
	return p, nil
}

func (s *Service) ListMyProperties(ctx context.Context, ownerID int64) ([]domain.Property, error) {
	return s.properties.ListByOwner(ctx, ownerID)
}

// CreateRoom adds a room to the property and materializes its beds, one per
// capacity unit, all starting available.
func (s *Service) CreateRoom(ctx context.Context, propertyID, userID int64, req RoomRequest) (*domain.Room, error) {
	p, err := s.properties.GetByID(ctx, propertyID)
	if err != nil {
		return nil, notFoundOr(err)
	}
	if p.OwnerID != userID {
		return nil, ErrForbidden
	}

	exists, err := s.rooms.ExistsByPropertyAndNumber(ctx, propertyID, req.RoomNumber)
	if err != nil {
		return nil, err
	}
	if exists {
		return nil, ErrDuplicateRoomNumber
	}

	room := &domain.Room{
		PropertyID:  propertyID,
		RoomNumber:  req.RoomNumber,
		RoomType:    domain.RoomType(req.RoomType),
		FloorNumber: req.FloorNumber,
		TotalBeds:   req.TotalBeds,
		RentPerBed:  req.RentPerBed,
		Description: req.Description,
		IsActive:    true,
	}
	if err := s.rooms.CreateWithBeds(ctx, room); err != nil {
		return nil, err
	}
	return room, nil
}

// UpdateRoom edits descriptive fields and grows capacity when the requested
// bed count exceeds the current one. Capacity never shrinks here; a smaller
// value leaves the existing beds untouched.
func (s *Service) UpdateRoom(ctx context.Context, roomID, userID int64, req RoomRequest) (*domain.Room, error) {
	room, err := s.rooms.GetByID(ctx, roomID)
	if err != nil {
		return nil, notFoundOr(err)
	}

	p, err := s.properties.GetByID(ctx, room.PropertyID)
	if err != nil {
		return nil, notFoundOr(err)
	}
	if p.OwnerID != userID {
		return nil, ErrForbidden
	}

	if req.RoomNumber != room.RoomNumber {
		exists, err := s.rooms.ExistsByPropertyAndNumber(ctx, room.PropertyID, req.RoomNumber)
		if err != nil {
			return nil, err
		}
		if exists {
			return nil, ErrDuplicateRoomNumber
		}
	}

	room.RoomNumber = req.RoomNumber
	room.RoomType = domain.RoomType(req.RoomType)
	room.FloorNumber = req.FloorNumber
	room.RentPerBed = req.RentPerBed
	room.Description = req.Description

	if err := s.rooms.Update(ctx, room, req.TotalBeds); err != nil {
		return nil, err
	}
	return room, nil
}

func (s *Service) ListRooms(ctx context.Context, propertyID int64) ([]RoomWithBeds, error) {
	if _, err := s.properties.GetByID(ctx, propertyID); err != nil {
		return nil, notFoundOr(err)
	}

	rooms, err := s.rooms.ListByProperty(ctx, propertyID)
	if err != nil {
		return nil, err
	}

	out := make([]RoomWithBeds, 0, len(rooms))
	for _, room := range rooms {
		beds, err := s.beds.ListByRoom(ctx, room.ID)
		if err != nil {
			return nil, err
		}
		out = append(out, RoomWithBeds{Room: room, Beds: beds})
	}
	return out, nil
}

func (s *Service) DeleteRoom(ctx context.Context, roomID, userID int64) error {
	room, err := s.rooms.GetByID(ctx, roomID)
	if err != nil {
		return notFoundOr(err)
	}

	p, err := s.properties.GetByID(ctx, room.PropertyID)
	if err != nil {
		return notFoundOr(err)
	}
	if p.OwnerID != userID {
		return ErrForbidden
	}

	if err := s.rooms.Delete(ctx, roomID); err != nil {
		if errors.Is(err, repository.ErrRoomHasActiveBookings) {
			return ErrRoomHasActiveBookings
		}
		return notFoundOr(err)
	}
	return nil
}

func (s *Service) SetRoomActive(ctx context.Context, roomID, userID int64, active bool) error {
	room, err := s.rooms.GetByID(ctx, roomID)
	if err != nil {
		return notFoundOr(err)
	}

	p, err := s.properties.GetByID(ctx, room.PropertyID)
	if err != nil {
		return notFoundOr(err)
	}
	if p.OwnerID != userID {
		return ErrForbidden
	}

	return s.rooms.SetActive(ctx, roomID, active)
}

func notFoundOr(err error) error {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return ErrNotFound
	}
	return err
}
