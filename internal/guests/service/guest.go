package service

import (
	"context"
	"errors"
	"strings"
	"sync"

	guesterrors "innkeep/internal/guests/errors"
	"innkeep/internal/guests/repository"
	"innkeep/internal/guests/validator"
	"innkeep/pkg/config"
	apperrors "innkeep/pkg/errors"
	"innkeep/pkg/model"
	"innkeep/pkg/sanitizer"
)

type GuestService interface {
	Create(ctx context.Context, guest *model.Guest) error
	GetByID(ctx context.Context, id string) (*model.Guest, error)
	GetByEmail(ctx context.Context, email string) (*model.Guest, error)
	GetAll(ctx context.Context, limit int, offset int64) ([]*model.Guest, int64, error)
	Update(ctx context.Context, id string, updates *model.GuestUpdate) error
	Delete(ctx context.Context, id string) error
}

type guestService struct {
	repo      repository.GuestRepository
	validator *validator.GuestValidator
	cfg       *config.Config
}

func NewGuestService(
	repo repository.GuestRepository,
	validator *validator.GuestValidator,
	cfg *config.Config,
) GuestService {
	return &guestService{
		repo:      repo,
		validator: validator,
		cfg:       cfg,
	}
}

func (s *guestService) Create(ctx context.Context, guest *model.Guest) error {
	s.sanitize(guest)

	if err := s.validator.Validate(guest); err != nil {
		s.cfg.Log.Warn("Guest validation failed", "error", err)
		return apperrors.Validation("Guest validation failed", map[string]any{
			"error": err.Error(),
		})
	}

	if guest.Email != "" {
		if existing, err := s.repo.FindByEmail(ctx, guest.Email); err == nil && existing != nil {
			return apperrors.Conflict("Guest with this email already exists")
		} else if err != nil && !errors.Is(err, guesterrors.ErrNotFound) {
			return apperrors.Internal("Failed to check for existing guest", err)
		}
	}

	if err := s.repo.Create(ctx, guest); err != nil {
		if errors.Is(err, guesterrors.ErrDuplicate) {
			return apperrors.Conflict("Guest with this ID already exists")
		}
		s.cfg.Log.Error("Failed to create guest", "error", err)
		return apperrors.Internal("Failed to create guest", err)
	}

	s.cfg.Log.Info("Guest created successfully", "id", guest.ID)

	return nil
}

func (s *guestService) GetByID(ctx context.Context, id string) (*model.Guest, error) {
	id = sanitizer.NormalizeID(id)
	if id == "" {
		return nil, apperrors.InvalidInput("Guest ID cannot be empty")
	}

	guest, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, guesterrors.ErrNotFound) {
			return nil, apperrors.NotFoundWithID("Guest", id)
		}
		s.cfg.Log.Error("Failed to get guest by ID", "id", id, "error", err)
		return nil, apperrors.Internal("Failed to retrieve guest", err)
	}

	return guest, nil
}

func (s *guestService) GetByEmail(ctx context.Context, email string) (*model.Guest, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	if email == "" {
		return nil, apperrors.InvalidInput("Email cannot be empty")
	}

	guest, err := s.repo.FindByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, guesterrors.ErrNotFound) {
			return nil, apperrors.NotFound("Guest")
		}
		s.cfg.Log.Error("Failed to get guest by email", "error", err)
		return nil, apperrors.Internal("Failed to retrieve guest", err)
	}

	return guest, nil
}

func (s *guestService) GetAll(ctx context.Context, limit int, offset int64) ([]*model.Guest, int64, error) {
	limit = config.NormalizePaginationLimit(limit)
	offset = config.NormalizeOffset(offset)

	var count int64
	var guests []*model.Guest
	var errCount, errFind error
	var wg sync.WaitGroup
	wg.Add(2)

	go func() {
		defer wg.Done()
		count, errCount = s.repo.Count(ctx)
		if errCount != nil {
			s.cfg.Log.Error("Failed to count guests", "error", errCount)
			errCount = apperrors.Internal("Failed to count guests", errCount)
		}
	}()

	go func() {
		defer wg.Done()
		guests, errFind = s.repo.FindAll(ctx, limit, offset)
		if errFind != nil {
			s.cfg.Log.Error("Failed to list guests", "limit", limit, "offset", offset, "error", errFind)
			errFind = apperrors.Internal("Failed to retrieve guests", errFind)
		}
	}()

	wg.Wait()
	if errCount != nil {
		return nil, 0, errCount
	}
	if errFind != nil {
		return nil, 0, errFind
	}

	return guests, count, nil
}

func (s *guestService) Update(ctx context.Context, id string, updates *model.GuestUpdate) error {
	id = sanitizer.NormalizeID(id)
	if id == "" {
		return apperrors.InvalidInput("Guest ID cannot be empty")
	}

	existing, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, guesterrors.ErrNotFound) {
			return apperrors.NotFoundWithID("Guest", id)
		}
		return apperrors.Internal("Failed to check guest existence", err)
	}

	merged := s.mergeGuestUpdates(existing, updates)
	s.sanitize(merged)
	if err := s.validator.Validate(merged); err != nil {
		s.cfg.Log.Warn("Guest validation failed", "id", id, "error", err)
		return apperrors.Validation("Guest validation failed", map[string]any{
			"error": err.Error(),
		})
	}

	if err := s.repo.Update(ctx, id, merged); err != nil {
		if errors.Is(err, guesterrors.ErrNotFound) {
			return apperrors.NotFoundWithID("Guest", id)
		}
		s.cfg.Log.Error("Failed to update guest", "id", id, "error", err)
		return apperrors.Internal("Failed to update guest", err)
	}

	s.cfg.Log.Info("Guest updated successfully", "id", id)

	return nil
}

func (s *guestService) Delete(ctx context.Context, id string) error {
	id = sanitizer.NormalizeID(id)
	if id == "" {
		return apperrors.InvalidInput("Guest ID cannot be empty")
	}

	if err := s.repo.Delete(ctx, id); err != nil {
		if errors.Is(err, guesterrors.ErrNotFound) {
			return apperrors.NotFoundWithID("Guest", id)
		}
		s.cfg.Log.Error("Failed to delete guest", "id", id, "error", err)
		return apperrors.Internal("Failed to delete guest", err)
	}

	s.cfg.Log.Info("Guest deleted successfully", "id", id)

	return nil
}

func (s *guestService) sanitize(guest *model.Guest) {
	if guest == nil {
		return
	}
	guest.ID = sanitizer.NormalizeID(guest.ID)
	guest.FirstName = sanitizer.NormalizeName(guest.FirstName)
	guest.LastName = sanitizer.NormalizeName(guest.LastName)
	guest.Email = strings.ToLower(strings.TrimSpace(guest.Email))
	guest.Phone = sanitizer.TrimAndNormalize(guest.Phone)
}

func (s *guestService) mergeGuestUpdates(existing *model.Guest, updates *model.GuestUpdate) *model.Guest {
	merged := *existing

	if updates == nil {
		return &merged
	}
	if updates.FirstName != "" {
		merged.FirstName = updates.FirstName
	}
	if updates.LastName != "" {
		merged.LastName = updates.LastName
	}
	if updates.Email != "" {
		merged.Email = updates.Email
	}
	if updates.Phone != "" {
		merged.Phone = updates.Phone
	}

	merged.ID = existing.ID
	merged.CreatedAt = existing.CreatedAt

	return &merged
}
