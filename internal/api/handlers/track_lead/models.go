package track_lead

import (
	"fmt"
	"time"

	"github.com/m04kA/SMC-LeadBookingService/internal/domain"
	trackLead "github.com/m04kA/SMC-LeadBookingService/internal/usecase/track_lead"
	"github.com/m04kA/SMC-LeadBookingService/pkg/types"
)

// TrackLeadRequest HTTP request model
// Все поля кроме sessionId опциональны: форма сохраняется по мере заполнения
type TrackLeadRequest struct {
	SessionID     string  `json:"sessionId"`
	CustomerName  string  `json:"customerName,omitempty"`
	CustomerEmail string  `json:"customerEmail,omitempty"`
	CustomerPhone string  `json:"customerPhone,omitempty"`
	ServiceType   string  `json:"serviceType,omitempty"`
	CompanyID     *int64  `json:"companyId,omitempty"`
	Date          *string `json:"date,omitempty"`      // YYYY-MM-DD
	StartTime     *string `json:"startTime,omitempty"` // HH:MM
}

// LeadResponse HTTP response model
type LeadResponse struct {
	LeadID    int64  `json:"leadId"`
	SessionID string `json:"sessionId"`
	Status    string `json:"status"`
	CreatedAt string `json:"createdAt"`
	UpdatedAt string `json:"updatedAt"`
}

// ToUseCaseRequest конвертирует HTTP запрос в модель use case
func (r *TrackLeadRequest) ToUseCaseRequest() (*trackLead.Request, error) {
	req := &trackLead.Request{
		SessionID:     r.SessionID,
		CustomerName:  r.CustomerName,
		CustomerEmail: r.CustomerEmail,
		CustomerPhone: r.CustomerPhone,
		ServiceType:   r.ServiceType,
		CompanyID:     r.CompanyID,
	}

	if r.Date != nil {
		date, err := time.Parse(domain.DateFormat, *r.Date)
		if err != nil {
			return nil, fmt.Errorf("invalid date %q: %w", *r.Date, err)
		}
		req.BookingDate = &date
	}

	if r.StartTime != nil {
		startTime, err := types.NewTimeStringFromString(*r.StartTime)
		if err != nil {
			return nil, fmt.Errorf("invalid start time %q: %w", *r.StartTime, err)
		}
		req.StartTime = &startTime
	}

	return req, nil
}

// FromUseCaseResponse конвертирует ответ use case в HTTP response
func FromUseCaseResponse(resp *trackLead.Response) *LeadResponse {
	return &LeadResponse{
		LeadID:    resp.LeadID,
		SessionID: resp.SessionID,
		Status:    resp.Status,
		CreatedAt: resp.CreatedAt.Format(time.RFC3339),
		UpdatedAt: resp.UpdatedAt.Format(time.RFC3339),
	}
}
