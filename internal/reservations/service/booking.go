package service

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	reserrors "innkeep/internal/reservations/errors"
	"innkeep/internal/reservations/repository"
	"innkeep/internal/reservations/validator"
	"innkeep/pkg/config"
	apperrors "innkeep/pkg/errors"
	"innkeep/pkg/events"
	"innkeep/pkg/model"
	"innkeep/pkg/sanitizer"
)

type ReservationService interface {
	Book(ctx context.Context, req *model.BookingRequest) (*model.Reservation, error)
	GetByGuestAndDate(ctx context.Context, guestID string, date time.Time) (*model.GuestDateRecord, error)
	ListByGuest(ctx context.Context, guestID string, limit int, offset int64) ([]*model.GuestDateRecord, int64, error)
	ListHotelDay(ctx context.Context, hotelID string, date time.Time, limit int, offset int64) ([]*model.HotelDateRecord, int64, error)
}

type reservationService struct {
	guestView repository.GuestViewRepository
	hotelView repository.HotelViewRepository
	validator *validator.ReservationValidator
	publisher events.Publisher
	cfg       *config.Config
}

func NewReservationService(
	guestView repository.GuestViewRepository,
	hotelView repository.HotelViewRepository,
	validator *validator.ReservationValidator,
	publisher events.Publisher,
	cfg *config.Config,
) ReservationService {
	return &reservationService{
		guestView: guestView,
		hotelView: hotelView,
		validator: validator,
		publisher: publisher,
		cfg:       cfg,
	}
}

// Book records a booking in both views or fails with a classified error.
//
// The two views live in independent partitions with no cross-partition
// transaction, so consistency is reconstructed here: ordered existence
// checks, then a conditional status transition on the hotel-date record as
// the single linearization point, then the guest-date insert. The hotel
// view is written first because it is the authoritative availability gate;
// if the guest-date insert then fails, the slot stays booked without a
// guest projection - that divergence is logged and surfaced as a storage
// failure, never compensated.
func (s *reservationService) Book(ctx context.Context, req *model.BookingRequest) (*model.Reservation, error) {
	s.sanitize(req)
	if err := s.validator.Validate(req); err != nil {
		s.cfg.Log.Warn("Booking validation failed", "error", err)
		return nil, apperrors.Validation("Booking validation failed", map[string]any{"error": err.Error()})
	}

	date := req.BookingDate()

	// One booking per guest per date: a business rule checked against the
	// guest view before the slot itself is considered.
	existing, err := s.guestView.FindOne(ctx, req.GuestID, date)
	if err != nil && !errors.Is(err, reserrors.ErrNotFound) {
		return nil, apperrors.Internal("Failed to check guest view", err)
	}
	if existing != nil {
		return nil, apperrors.Conflict(fmt.Sprintf(
			"Guest already has room %d booked at hotel %s on %s",
			existing.RoomNumber, existing.HotelID, date.Format(model.DateLayout),
		))
	}

	slot, err := s.hotelView.FindOne(ctx, req.HotelID, date, req.RoomNumber)
	if err != nil {
		if errors.Is(err, reserrors.ErrSlotNotRegistered) {
			return nil, apperrors.NotFound("Hotel date record").WithDetails(map[string]any{
				"hotel_id":    req.HotelID,
				"room_number": req.RoomNumber,
				"date":        date.Format(model.DateLayout),
			})
		}
		return nil, apperrors.Internal("Failed to check hotel view", err)
	}
	if slot.Status == model.StatusBooked {
		return nil, apperrors.Conflict(fmt.Sprintf(
			"Room %d at hotel %s is already booked on %s",
			req.RoomNumber, req.HotelID, date.Format(model.DateLayout),
		))
	}

	confirmation := ConfirmationNumber(req)

	// Linearization point: of all concurrent attempts on this slot, exactly
	// one wins the free -> booked transition.
	err = s.hotelView.TransitionStatus(ctx, req.HotelID, date, req.RoomNumber, model.StatusFree, model.StatusBooked)
	if err != nil {
		if errors.Is(err, reserrors.ErrStatusConflict) {
			return nil, apperrors.Conflict(fmt.Sprintf(
				"Room %d at hotel %s was booked by a concurrent request on %s",
				req.RoomNumber, req.HotelID, date.Format(model.DateLayout),
			))
		}
		return nil, apperrors.Internal("Failed to book hotel date record", err)
	}

	record := &model.GuestDateRecord{
		GuestID:            req.GuestID,
		Date:               date,
		HotelID:            req.HotelID,
		RoomNumber:         req.RoomNumber,
		ConfirmationNumber: confirmation,
	}
	if err := s.guestView.Insert(ctx, record); err != nil {
		if errors.Is(err, reserrors.ErrDuplicateKey) {
			// Lost a race on the guest key after winning the slot. The slot
			// stays booked under the other request's guest record.
			return nil, apperrors.Conflict(fmt.Sprintf(
				"Guest %s already holds a booking on %s", req.GuestID, date.Format(model.DateLayout),
			))
		}
		s.cfg.Log.Error("Guest view write failed after hotel view transition; views have diverged",
			"guest_id", req.GuestID,
			"hotel_id", req.HotelID,
			"room_number", req.RoomNumber,
			"date", date.Format(model.DateLayout),
			"error", err,
		)
		return nil, apperrors.Internal("Failed to record guest reservation", err)
	}

	reservation := &model.Reservation{
		GuestID:            req.GuestID,
		HotelID:            req.HotelID,
		RoomNumber:         req.RoomNumber,
		StartDate:          model.Day(req.StartDate),
		EndDate:            model.Day(req.EndDate),
		ConfirmationNumber: confirmation,
	}

	s.publishConfirmed(ctx, reservation, date)

	s.cfg.Log.Info("Reservation booked",
		"guest_id", req.GuestID,
		"hotel_id", req.HotelID,
		"room_number", req.RoomNumber,
		"date", date.Format(model.DateLayout),
		"confirmation_number", confirmation,
	)
	return reservation, nil
}

func (s *reservationService) GetByGuestAndDate(ctx context.Context, guestID string, date time.Time) (*model.GuestDateRecord, error) {
	guestID = sanitizer.NormalizeID(guestID)
	if guestID == "" {
		return nil, apperrors.InvalidInput("Guest ID cannot be empty")
	}

	record, err := s.guestView.FindOne(ctx, guestID, date)
	if err != nil {
		if errors.Is(err, reserrors.ErrNotFound) {
			return nil, apperrors.NotFoundWithID("Reservation", model.GuestDateKey(guestID, date))
		}
		return nil, apperrors.Internal("Failed to retrieve reservation", err)
	}

	return record, nil
}

func (s *reservationService) ListByGuest(ctx context.Context, guestID string, limit int, offset int64) ([]*model.GuestDateRecord, int64, error) {
	guestID = sanitizer.NormalizeID(guestID)
	if guestID == "" {
		return nil, 0, apperrors.InvalidInput("Guest ID cannot be empty")
	}

	var count int64
	var records []*model.GuestDateRecord
	var errCount, errFind error
	var wg sync.WaitGroup
	wg.Add(2)

	go func() {
		defer wg.Done()
		count, errCount = s.guestView.CountByGuest(ctx, guestID)
		if errCount != nil {
			s.cfg.Log.Error("Failed to count guest reservations", "guest_id", guestID, "error", errCount)
			errCount = apperrors.Internal("Failed to count reservations", errCount)
		}
	}()

	go func() {
		defer wg.Done()
		records, errFind = s.guestView.FindByGuest(ctx, guestID, limit, offset)
		if errFind != nil {
			s.cfg.Log.Error("Failed to list guest reservations", "guest_id", guestID, "error", errFind)
			errFind = apperrors.Internal("Failed to retrieve reservations", errFind)
		}
	}()

	wg.Wait()
	if errCount != nil {
		return nil, 0, errCount
	}
	if errFind != nil {
		return nil, 0, errFind
	}

	return records, count, nil
}

func (s *reservationService) ListHotelDay(ctx context.Context, hotelID string, date time.Time, limit int, offset int64) ([]*model.HotelDateRecord, int64, error) {
	hotelID = sanitizer.NormalizeID(hotelID)
	if hotelID == "" {
		return nil, 0, apperrors.InvalidInput("Hotel ID cannot be empty")
	}

	var count int64
	var records []*model.HotelDateRecord
	var errCount, errFind error
	var wg sync.WaitGroup
	wg.Add(2)

	go func() {
		defer wg.Done()
		count, errCount = s.hotelView.CountByHotelAndDate(ctx, hotelID, date)
		if errCount != nil {
			s.cfg.Log.Error("Failed to count hotel day slots", "hotel_id", hotelID, "error", errCount)
			errCount = apperrors.Internal("Failed to count room slots", errCount)
		}
	}()

	go func() {
		defer wg.Done()
		records, errFind = s.hotelView.FindByHotelAndDate(ctx, hotelID, date, limit, offset)
		if errFind != nil {
			s.cfg.Log.Error("Failed to list hotel day slots", "hotel_id", hotelID, "error", errFind)
			errFind = apperrors.Internal("Failed to retrieve room slots", errFind)
		}
	}()

	wg.Wait()
	if errCount != nil {
		return nil, 0, errCount
	}
	if errFind != nil {
		return nil, 0, errFind
	}

	return records, count, nil
}

// --- Helpers ---

func (s *reservationService) sanitize(req *model.BookingRequest) {
	if req == nil {
		return
	}
	req.GuestID = sanitizer.NormalizeID(req.GuestID)
	req.HotelID = sanitizer.NormalizeID(req.HotelID)
}

// publishConfirmed is best effort: the booking is durable once both views
// are written, so a publish failure is logged and not surfaced.
func (s *reservationService) publishConfirmed(ctx context.Context, res *model.Reservation, date time.Time) {
	if s.publisher == nil {
		return
	}

	event := events.ReservationConfirmed{
		GuestID:            res.GuestID,
		HotelID:            res.HotelID,
		RoomNumber:         res.RoomNumber,
		Date:               date,
		ConfirmationNumber: res.ConfirmationNumber,
		ConfirmedAt:        time.Now().UTC(),
	}
	if err := s.publisher.PublishReservationConfirmed(ctx, event); err != nil {
		s.cfg.Log.Warn("Failed to publish reservation event",
			"guest_id", res.GuestID,
			"hotel_id", res.HotelID,
			"error", err,
		)
	}
}
