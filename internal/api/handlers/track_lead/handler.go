package track_lead

import (
	"errors"
	"net/http"

	"github.com/m04kA/SMC-LeadBookingService/internal/api/handlers"
	trackLead "github.com/m04kA/SMC-LeadBookingService/internal/usecase/track_lead"
)

const (
	msgInvalidBody  = "некорректное тело запроса"
	msgInvalidInput = "некорректные данные формы"
)

type Handler struct {
	useCase TrackLeadUseCase
	logger  Logger
}

func NewHandler(useCase TrackLeadUseCase, logger Logger) *Handler {
	return &Handler{
		useCase: useCase,
		logger:  logger,
	}
}

// Handle POST /api/v1/leads/track
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	var req TrackLeadRequest
	if err := handlers.DecodeJSON(r, &req); err != nil {
		h.logger.Warn("POST /leads/track - Invalid request body: %v", err)
		handlers.RespondBadRequest(w, msgInvalidBody)
		return
	}

	ucReq, err := req.ToUseCaseRequest()
	if err != nil {
		h.logger.Warn("POST /leads/track - Invalid request data: %v", err)
		handlers.RespondBadRequest(w, msgInvalidInput)
		return
	}

	result, err := h.useCase.Execute(r.Context(), ucReq)
	if err != nil {
		switch {
		case errors.Is(err, trackLead.ErrInvalidInput):
			h.logger.Warn("POST /leads/track - Invalid input: %v", err)
			handlers.RespondBadRequest(w, msgInvalidInput)

		default:
			h.logger.Error("POST /leads/track - Failed: session=%s, error=%v", req.SessionID, err)
			handlers.RespondInternalError(w)
		}
		return
	}

	handlers.RespondJSON(w, http.StatusOK, FromUseCaseResponse(result))
}
