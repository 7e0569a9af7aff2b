package create_company

import (
	"errors"
	"net/http"

	"github.com/m04kA/SMC-LeadBookingService/internal/api/handlers"
	"github.com/m04kA/SMC-LeadBookingService/internal/service/companies"
	"github.com/m04kA/SMC-LeadBookingService/internal/service/companies/models"
)

const (
	msgInvalidBody  = "некорректное тело запроса"
	msgInvalidInput = "некорректные данные компании"
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

// Handle POST /api/v1/companies
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	var req models.CreateCompanyRequest
	if err := handlers.DecodeJSON(r, &req); err != nil {
		h.logger.Warn("POST /companies - Invalid request body: %v", err)
		handlers.RespondBadRequest(w, msgInvalidBody)
		return
	}

	company, err := h.service.Create(r.Context(), &req)
	if err != nil {
		switch {
		case errors.Is(err, companies.ErrInvalidInput):
			h.logger.Warn("POST /companies - Invalid input: %v", err)
			handlers.RespondBadRequest(w, msgInvalidInput)

		default:
			h.logger.Error("POST /companies - Failed to create company: %v", err)
			handlers.RespondInternalError(w)
		}
		return
	}

	h.logger.Info("POST /companies - Company created: company_id=%d", company.ID)
	handlers.RespondJSON(w, http.StatusCreated, company)
}
