package update_company

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gorilla/mux"

	"github.com/m04kA/SMC-LeadBookingService/internal/api/handlers"
	"github.com/m04kA/SMC-LeadBookingService/internal/service/companies"
	"github.com/m04kA/SMC-LeadBookingService/internal/service/companies/models"
)

const (
	msgInvalidCompanyID = "некорректный ID компании"
	msgInvalidBody      = "некорректное тело запроса"
	msgInvalidInput     = "некорректные данные компании"
	msgCompanyNotFound  = "компания не найдена"
)

type Handler struct {
	service CompanyService
	logger  Logger
}

func NewHandler(service CompanyService, logger Logger) *Handler {
	return &Handler{
		service: service,
		logger:  logger,
	}
}

// Handle PUT /api/v1/companies/{companyId}
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)

	companyID, err := strconv.ParseInt(vars["companyId"], 10, 64)
	if err != nil {
		h.logger.Warn("PUT /companies/{id} - Invalid company ID: %v", err)
		handlers.RespondBadRequest(w, msgInvalidCompanyID)
		return
	}

	var req models.UpdateCompanyRequest
	if err := handlers.DecodeJSON(r, &req); err != nil {
		h.logger.Warn("PUT /companies/{id} - Invalid request body: %v", err)
		handlers.RespondBadRequest(w, msgInvalidBody)
		return
	}

	company, err := h.service.Update(r.Context(), companyID, &req)
	if err != nil {
		switch {
		case errors.Is(err, companies.ErrCompanyNotFound):
			h.logger.Warn("PUT /companies/{id} - Company not found: company_id=%d", companyID)
			handlers.RespondNotFound(w, msgCompanyNotFound)

		case errors.Is(err, companies.ErrInvalidInput):
			h.logger.Warn("PUT /companies/{id} - Invalid input: company_id=%d, error=%v", companyID, err)
			handlers.RespondBadRequest(w, msgInvalidInput)

		default:
			h.logger.Error("PUT /companies/{id} - Failed: company_id=%d, error=%v", companyID, err)
			handlers.RespondInternalError(w)
		}
		return
	}

	h.logger.Info("PUT /companies/{id} - Company updated: company_id=%d", companyID)
	handlers.RespondJSON(w, http.StatusOK, company)
}
