package handler

import (
	"encoding/json"
	"net/http"

	"innkeep/internal/reservations/service"
	httputil "innkeep/pkg/http"
	"innkeep/pkg/logger"
	"innkeep/pkg/model"

	"github.com/julienschmidt/httprouter"
)

type ReservationHandler struct {
	service service.ReservationService
	log     *logger.Logger
}

func NewReservationHandler(service service.ReservationService, log *logger.Logger) *ReservationHandler {
	return &ReservationHandler{
		service: service,
		log:     log,
	}
}

func (h *ReservationHandler) Book(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	var req model.BookingRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		if writeErr := httputil.WriteJSON(w, http.StatusBadRequest, httputil.ErrorResponse{
			Error: "Invalid request body",
		}); writeErr != nil {
			h.log.Error("failed to write JSON response", "handler", "Book", "operation", "WriteJSON", "error", writeErr)
		}
		return
	}

	reservation, err := h.service.Book(r.Context(), &req)
	if err != nil {
		if writeErr := httputil.WriteError(w, err); writeErr != nil {
			h.log.Error("failed to write error response", "handler", "Book", "operation", "WriteError", "error", writeErr)
		}
		return
	}

	if err := httputil.WriteCreated(w, reservation); err != nil {
		h.log.Error("failed to write created response", "handler", "Book", "operation", "WriteCreated", "error", err)
	}
}

func (h *ReservationHandler) GetByGuestAndDate(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	guestID := ps.ByName("guestId")

	date, err := httputil.ParseDateParam(ps.ByName("date"))
	if err != nil {
		if writeErr := httputil.WriteError(w, err); writeErr != nil {
			h.log.Error("failed to write error response", "handler", "GetByGuestAndDate", "operation", "WriteError", "error", writeErr)
		}
		return
	}

	record, err := h.service.GetByGuestAndDate(r.Context(), guestID, date)
	if err != nil {
		if writeErr := httputil.WriteError(w, err); writeErr != nil {
			h.log.Error("failed to write error response", "handler", "GetByGuestAndDate", "operation", "WriteError", "error", writeErr)
		}
		return
	}

	if err := httputil.WriteSuccess(w, record); err != nil {
		h.log.Error("failed to write success response", "handler", "GetByGuestAndDate", "operation", "WriteSuccess", "error", err)
	}
}

func (h *ReservationHandler) ListByGuest(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	guestID := ps.ByName("guestId")

	limit, offset, err := httputil.ExtractLimitOffset(r)
	if err != nil {
		if writeErr := httputil.WriteError(w, err); writeErr != nil {
			h.log.Error("failed to write error response", "handler", "ListByGuest", "operation", "WriteError", "error", writeErr)
		}
		return
	}

	records, total, err := h.service.ListByGuest(r.Context(), guestID, limit, offset)
	if err != nil {
		if writeErr := httputil.WriteError(w, err); writeErr != nil {
			h.log.Error("failed to write error response", "handler", "ListByGuest", "operation", "WriteError", "error", writeErr)
		}
		return
	}

	if err := httputil.WritePaginated(w, records, total, limit, offset); err != nil {
		h.log.Error("failed to write paginated response", "handler", "ListByGuest", "operation", "WritePaginated", "error", err)
	}
}

func (h *ReservationHandler) ListHotelDay(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	hotelID := ps.ByName("hotelId")

	date, err := httputil.ParseDateParam(ps.ByName("date"))
	if err != nil {
		if writeErr := httputil.WriteError(w, err); writeErr != nil {
			h.log.Error("failed to write error response", "handler", "ListHotelDay", "operation", "WriteError", "error", writeErr)
		}
		return
	}

	limit, offset, err := httputil.ExtractLimitOffset(r)
	if err != nil {
		if writeErr := httputil.WriteError(w, err); writeErr != nil {
			h.log.Error("failed to write error response", "handler", "ListHotelDay", "operation", "WriteError", "error", writeErr)
		}
		return
	}

	records, total, err := h.service.ListHotelDay(r.Context(), hotelID, date, limit, offset)
	if err != nil {
		if writeErr := httputil.WriteError(w, err); writeErr != nil {
			h.log.Error("failed to write error response", "handler", "ListHotelDay", "operation", "WriteError", "error", writeErr)
		}
		return
	}

	if err := httputil.WritePaginated(w, records, total, limit, offset); err != nil {
		h.log.Error("failed to write paginated response", "handler", "ListHotelDay", "operation", "WritePaginated", "error", err)
	}
}

func (h *ReservationHandler) RegisterRoutes(router *httprouter.Router) {
	router.POST("/api/v1/reservations", h.Book)
	router.GET("/api/v1/reservations/guest/:guestId", h.ListByGuest)
	router.GET("/api/v1/reservations/guest/:guestId/date/:date", h.GetByGuestAndDate)
	router.GET("/api/v1/reservations/hotel/:hotelId/date/:date", h.ListHotelDay)
}
