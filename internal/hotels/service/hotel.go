package service

import (
	"context"
	"errors"
	"sync"

	hotelerrors "innkeep/internal/hotels/errors"
	"innkeep/internal/hotels/repository"
	"innkeep/internal/hotels/validator"
	reserrors "innkeep/internal/reservations/errors"
	resrepository "innkeep/internal/reservations/repository"
	"innkeep/pkg/config"
	apperrors "innkeep/pkg/errors"
	"innkeep/pkg/model"
	"innkeep/pkg/sanitizer"
)

type HotelService interface {
	Create(ctx context.Context, hotel *model.Hotel) error
	GetByID(ctx context.Context, id string) (*model.Hotel, error)
	GetAll(ctx context.Context, limit int, offset int64) ([]*model.Hotel, int64, error)
	GetByCity(ctx context.Context, city string) ([]*model.Hotel, error)
	Update(ctx context.Context, id string, updates *model.HotelUpdate) error
	Delete(ctx context.Context, id string) error

	RegisterRoom(ctx context.Context, hotelID string, reg *model.RoomRegistration) (int, error)
}

type hotelService struct {
	repo      repository.HotelRepository
	hotelView resrepository.HotelViewRepository
	validator *validator.HotelValidator
	cfg       *config.Config
}

func NewHotelService(
	repo repository.HotelRepository,
	hotelView resrepository.HotelViewRepository,
	validator *validator.HotelValidator,
	cfg *config.Config,
) HotelService {
	return &hotelService{
		repo:      repo,
		hotelView: hotelView,
		validator: validator,
		cfg:       cfg,
	}
}

func (s *hotelService) Create(ctx context.Context, hotel *model.Hotel) error {
	s.sanitize(hotel)

	if err := s.validator.Validate(hotel); err != nil {
		s.cfg.Log.Warn("Hotel validation failed", "name", hotel.Name, "error", err)
		return apperrors.Validation("Hotel validation failed", map[string]any{
			"error": err.Error(),
		})
	}

	if err := s.repo.Create(ctx, hotel); err != nil {
		if errors.Is(err, hotelerrors.ErrDuplicate) {
			return apperrors.Conflict("Hotel with this ID already exists")
		}
		s.cfg.Log.Error("Failed to create hotel", "name", hotel.Name, "error", err)
		return apperrors.Internal("Failed to create hotel", err)
	}

	s.cfg.Log.Info("Hotel created successfully", "id", hotel.ID, "name", hotel.Name, "city", hotel.City)

	return nil
}

func (s *hotelService) GetByID(ctx context.Context, id string) (*model.Hotel, error) {
	id = sanitizer.NormalizeID(id)
	if id == "" {
		return nil, apperrors.InvalidInput("Hotel ID cannot be empty")
	}

	hotel, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, hotelerrors.ErrNotFound) {
			return nil, apperrors.NotFoundWithID("Hotel", id)
		}
		s.cfg.Log.Error("Failed to get hotel by ID", "id", id, "error", err)
		return nil, apperrors.Internal("Failed to retrieve hotel", err)
	}

	return hotel, nil
}

func (s *hotelService) GetAll(ctx context.Context, limit int, offset int64) ([]*model.Hotel, int64, error) {
	limit = config.NormalizePaginationLimit(limit)
	offset = config.NormalizeOffset(offset)

	var count int64
	var hotels []*model.Hotel
	var errCount, errFind error
	var wg sync.WaitGroup
	wg.Add(2)

	go func() {
		defer wg.Done()
		count, errCount = s.repo.Count(ctx)
		if errCount != nil {
			s.cfg.Log.Error("Failed to count hotels", "error", errCount)
			errCount = apperrors.Internal("Failed to count hotels", errCount)
		}
	}()

	go func() {
		defer wg.Done()
		hotels, errFind = s.repo.FindAll(ctx, limit, offset)
		if errFind != nil {
			s.cfg.Log.Error("Failed to list hotels", "limit", limit, "offset", offset, "error", errFind)
			errFind = apperrors.Internal("Failed to retrieve hotels", errFind)
		}
	}()

	wg.Wait()
	if errCount != nil {
		return nil, 0, errCount
	}
	if errFind != nil {
		return nil, 0, errFind
	}

	return hotels, count, nil
}

func (s *hotelService) GetByCity(ctx context.Context, city string) ([]*model.Hotel, error) {
	city = sanitizer.NormalizeCity(city)
	if city == "" {
		return nil, apperrors.InvalidInput("City cannot be empty")
	}

	hotels, err := s.repo.FindByCity(ctx, city)
	if err != nil {
		s.cfg.Log.Error("Failed to get hotels by city", "city", city, "error", err)
		return nil, apperrors.Internal("Failed to retrieve hotels by city", err)
	}

	return hotels, nil
}

func (s *hotelService) Update(ctx context.Context, id string, updates *model.HotelUpdate) error {
	id = sanitizer.NormalizeID(id)
	if id == "" {
		return apperrors.InvalidInput("Hotel ID cannot be empty")
	}

	existing, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, hotelerrors.ErrNotFound) {
			return apperrors.NotFoundWithID("Hotel", id)
		}
		return apperrors.Internal("Failed to check hotel existence", err)
	}

	merged := s.mergeHotelUpdates(existing, updates)
	s.sanitize(merged)
	if err := s.validator.Validate(merged); err != nil {
		s.cfg.Log.Warn("Hotel validation failed", "id", id, "error", err)
		return apperrors.Validation("Hotel validation failed", map[string]any{
			"error": err.Error(),
		})
	}

	if err := s.repo.Update(ctx, id, merged); err != nil {
		if errors.Is(err, hotelerrors.ErrNotFound) {
			return apperrors.NotFoundWithID("Hotel", id)
		}
		s.cfg.Log.Error("Failed to update hotel", "id", id, "error", err)
		return apperrors.Internal("Failed to update hotel", err)
	}

	s.cfg.Log.Info("Hotel updated successfully", "id", id, "name", merged.Name)

	return nil
}

func (s *hotelService) Delete(ctx context.Context, id string) error {
	id = sanitizer.NormalizeID(id)
	if id == "" {
		return apperrors.InvalidInput("Hotel ID cannot be empty")
	}

	if err := s.repo.Delete(ctx, id); err != nil {
		if errors.Is(err, hotelerrors.ErrNotFound) {
			return apperrors.NotFoundWithID("Hotel", id)
		}
		s.cfg.Log.Error("Failed to delete hotel", "id", id, "error", err)
		return apperrors.Internal("Failed to delete hotel", err)
	}

	s.cfg.Log.Info("Hotel deleted successfully", "id", id)

	return nil
}

// RegisterRoom seeds one free hotel-date record per night of the
// registration period. Nights that already have a record are left
// untouched, so re-registering a period is safe and never resets a booked
// slot back to free. Returns the number of records created.
func (s *hotelService) RegisterRoom(ctx context.Context, hotelID string, reg *model.RoomRegistration) (int, error) {
	hotelID = sanitizer.NormalizeID(hotelID)
	if hotelID == "" {
		return 0, apperrors.InvalidInput("Hotel ID cannot be empty")
	}

	if err := s.validator.ValidateRegistration(reg); err != nil {
		s.cfg.Log.Warn("Room registration validation failed", "hotel_id", hotelID, "error", err)
		return 0, apperrors.Validation("Room registration validation failed", map[string]any{
			"error": err.Error(),
		})
	}

	if _, err := s.repo.FindByID(ctx, hotelID); err != nil {
		if errors.Is(err, hotelerrors.ErrNotFound) {
			return 0, apperrors.NotFoundWithID("Hotel", hotelID)
		}
		return 0, apperrors.Internal("Failed to check hotel existence", err)
	}

	created := 0
	for _, night := range reg.Nights() {
		record := &model.HotelDateRecord{
			HotelID:    hotelID,
			Date:       night,
			RoomNumber: reg.RoomNumber,
			Status:     model.StatusFree,
		}
		if err := s.hotelView.Insert(ctx, record); err != nil {
			if errors.Is(err, reserrors.ErrDuplicateKey) {
				continue
			}
			s.cfg.Log.Error("Failed to register room night",
				"hotel_id", hotelID,
				"room_number", reg.RoomNumber,
				"date", night.Format(model.DateLayout),
				"error", err,
			)
			return created, apperrors.Internal("Failed to register room availability", err)
		}
		created++
	}

	s.cfg.Log.Info("Room registered",
		"hotel_id", hotelID,
		"room_number", reg.RoomNumber,
		"nights", len(reg.Nights()),
		"created", created,
	)

	return created, nil
}

func (s *hotelService) sanitize(hotel *model.Hotel) {
	if hotel == nil {
		return
	}
	hotel.ID = sanitizer.NormalizeID(hotel.ID)
	hotel.Name = sanitizer.NormalizeName(hotel.Name)
	hotel.Address = sanitizer.NormalizeAddress(hotel.Address)
	hotel.City = sanitizer.NormalizeCity(hotel.City)
	hotel.Phone = sanitizer.TrimAndNormalize(hotel.Phone)
}

func (s *hotelService) mergeHotelUpdates(existing *model.Hotel, updates *model.HotelUpdate) *model.Hotel {
	merged := *existing

	if updates == nil {
		return &merged
	}
	if updates.Name != "" {
		merged.Name = updates.Name
	}
	if updates.Address != "" {
		merged.Address = updates.Address
	}
	if updates.City != "" {
		merged.City = updates.City
	}
	if updates.Phone != "" {
		merged.Phone = updates.Phone
	}

	merged.ID = existing.ID
	merged.CreatedAt = existing.CreatedAt

	return &merged
}
