package check_availability

import (
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/gorilla/mux"

	"github.com/m04kA/SMC-LeadBookingService/internal/api/handlers"
	"github.com/m04kA/SMC-LeadBookingService/internal/domain"
	checkAvailability "github.com/m04kA/SMC-LeadBookingService/internal/usecase/check_availability"
	"github.com/m04kA/SMC-LeadBookingService/pkg/types"
)

const (
	msgInvalidCompanyID   = "некорректный ID компании"
	msgInvalidDate        = "некорректный формат даты, ожидается YYYY-MM-DD"
	msgInvalidTime        = "некорректный формат времени, ожидается HH:MM"
	msgStorageUnavailable = "проверка доступности временно невозможна"
)

type Handler struct {
	useCase CheckAvailabilityUseCase
	logger  Logger
}

func NewHandler(useCase CheckAvailabilityUseCase, logger Logger) *Handler {
	return &Handler{
		useCase: useCase,
		logger:  logger,
	}
}

// Handle GET /api/v1/companies/{companyId}/availability?date=YYYY-MM-DD&time=HH:MM
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)

	companyID, err := strconv.ParseInt(vars["companyId"], 10, 64)
	if err != nil {
		h.logger.Warn("GET /companies/{id}/availability - Invalid company ID: %v", err)
		handlers.RespondBadRequest(w, msgInvalidCompanyID)
		return
	}

	dateStr := r.URL.Query().Get("date")
	date, err := time.Parse(domain.DateFormat, dateStr)
	if err != nil {
		h.logger.Warn("GET /companies/{id}/availability - Invalid date %q: %v", dateStr, err)
		handlers.RespondBadRequest(w, msgInvalidDate)
		return
	}

	timeStr := r.URL.Query().Get("time")
	startTime, err := types.NewTimeStringFromString(timeStr)
	if err != nil {
		h.logger.Warn("GET /companies/{id}/availability - Invalid time %q: %v", timeStr, err)
		handlers.RespondBadRequest(w, msgInvalidTime)
		return
	}

	result, err := h.useCase.Execute(r.Context(), &checkAvailability.Request{
		CompanyID: companyID,
		Date:      date,
		StartTime: startTime,
	})
	if err != nil {
		switch {
		case errors.Is(err, checkAvailability.ErrInvalidInput):
			h.logger.Warn("GET /companies/{id}/availability - Invalid input: %v", err)
			handlers.RespondBadRequest(w, msgInvalidCompanyID)

		case errors.Is(err, checkAvailability.ErrStorageUnavailable):
			// Недоступность БД нельзя трактовать как свободный слот
			h.logger.Error("GET /companies/{id}/availability - Storage unavailable: company_id=%d, error=%v",
				companyID, err)
			handlers.RespondError(w, http.StatusServiceUnavailable, msgStorageUnavailable)

		default:
			h.logger.Error("GET /companies/{id}/availability - Failed: company_id=%d, error=%v", companyID, err)
			handlers.RespondInternalError(w)
		}
		return
	}

	handlers.RespondJSON(w, http.StatusOK, &AvailabilityResponse{
		CompanyID: companyID,
		Date:      dateStr,
		Time:      startTime.String(),
		Booked:    result.Booked,
	})
}
