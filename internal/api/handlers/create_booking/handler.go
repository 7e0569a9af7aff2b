package create_booking

import (
	"errors"
	"net/http"

	"github.com/m04kA/SMC-LeadBookingService/internal/api/handlers"
	createBooking "github.com/m04kA/SMC-LeadBookingService/internal/usecase/create_booking"
)

const (
	msgInvalidBody      = "некорректное тело запроса"
	msgInvalidInput     = "некорректные данные бронирования"
	msgCompanyNotFound  = "компания не найдена"
	msgCompanyInactive  = "компания не принимает записи"
	msgCompanyClosed    = "компания не работает в указанную дату"
	msgInvalidDate      = "дата бронирования в прошлом"
	msgInvalidTimeSlot  = "время вне рабочих часов или не совпадает с сеткой слотов"
	msgSlotNotAvailable = "выбранный слот уже занят"
)

type Handler struct {
	useCase CreateBookingUseCase
	logger  Logger
}

func NewHandler(useCase CreateBookingUseCase, logger Logger) *Handler {
	return &Handler{
		useCase: useCase,
		logger:  logger,
	}
}

// Handle POST /api/v1/bookings
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	var req CreateBookingRequest
	if err := handlers.DecodeJSON(r, &req); err != nil {
		h.logger.Warn("POST /bookings - Invalid request body: %v", err)
		handlers.RespondBadRequest(w, msgInvalidBody)
		return
	}

	ucReq, err := req.ToUseCaseRequest()
	if err != nil {
		h.logger.Warn("POST /bookings - Invalid request data: %v", err)
		handlers.RespondBadRequest(w, msgInvalidInput)
		return
	}

	result, err := h.useCase.Execute(r.Context(), ucReq)
	if err != nil {
		switch {
		case errors.Is(err, createBooking.ErrInvalidInput):
			h.logger.Warn("POST /bookings - Invalid input: %v", err)
			handlers.RespondBadRequest(w, msgInvalidInput)

		case errors.Is(err, createBooking.ErrCompanyNotFound):
			h.logger.Warn("POST /bookings - Company not found: company_id=%d", req.CompanyID)
			handlers.RespondNotFound(w, msgCompanyNotFound)

		case errors.Is(err, createBooking.ErrCompanyInactive):
			h.logger.Warn("POST /bookings - Company inactive: company_id=%d", req.CompanyID)
			handlers.RespondError(w, http.StatusConflict, msgCompanyInactive)

		case errors.Is(err, createBooking.ErrCompanyClosed):
			h.logger.Warn("POST /bookings - Company closed: company_id=%d, date=%s", req.CompanyID, req.Date)
			handlers.RespondError(w, http.StatusConflict, msgCompanyClosed)

		case errors.Is(err, createBooking.ErrInvalidDate):
			h.logger.Warn("POST /bookings - Invalid date: company_id=%d, date=%s", req.CompanyID, req.Date)
			handlers.RespondBadRequest(w, msgInvalidDate)

		case errors.Is(err, createBooking.ErrInvalidTimeSlot):
			h.logger.Warn("POST /bookings - Invalid time slot: company_id=%d, time=%s", req.CompanyID, req.StartTime)
			handlers.RespondBadRequest(w, msgInvalidTimeSlot)

		case errors.Is(err, createBooking.ErrSlotNotAvailable):
			h.logger.Warn("POST /bookings - Slot not available: company_id=%d, date=%s, time=%s",
				req.CompanyID, req.Date, req.StartTime)
			handlers.RespondError(w, http.StatusConflict, msgSlotNotAvailable)

		default:
			h.logger.Error("POST /bookings - Failed to create booking: company_id=%d, error=%v", req.CompanyID, err)
			handlers.RespondInternalError(w)
		}
		return
	}

	h.logger.Info("POST /bookings - Booking created: booking_id=%d, company_id=%d", result.ID, result.CompanyID)
	handlers.RespondJSON(w, http.StatusCreated, FromUseCaseResponse(result))
}
