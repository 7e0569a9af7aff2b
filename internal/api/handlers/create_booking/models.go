package create_booking

import (
	"fmt"
	"time"

	"github.com/m04kA/SMC-LeadBookingService/internal/domain"
	createBooking "github.com/m04kA/SMC-LeadBookingService/internal/usecase/create_booking"
	"github.com/m04kA/SMC-LeadBookingService/pkg/types"
)

// CreateBookingRequest HTTP request model
type CreateBookingRequest struct {
	CompanyID     int64   `json:"companyId"`
	ServiceType   string  `json:"serviceType"`
	Date          string  `json:"date"`
	StartTime     string  `json:"startTime"`
	CustomerName  string  `json:"customerName"`
	CustomerEmail string  `json:"customerEmail,omitempty"`
	CustomerPhone string  `json:"customerPhone,omitempty"`
	SessionID     *string `json:"sessionId,omitempty"`
	Notes         *string `json:"notes,omitempty"`
}

// BookingResponse HTTP response model
type BookingResponse struct {
	ID            int64   `json:"id"`
	CompanyID     int64   `json:"companyId"`
	ServiceType   string  `json:"serviceType"`
	Date          string  `json:"date"`
	StartTime     string  `json:"startTime"`
	Status        string  `json:"status"`
	CustomerName  string  `json:"customerName"`
	CustomerEmail string  `json:"customerEmail,omitempty"`
	CustomerPhone string  `json:"customerPhone,omitempty"`
	SessionID     *string `json:"sessionId,omitempty"`
	Notes         *string `json:"notes,omitempty"`
	CreatedAt     string  `json:"createdAt"`
	UpdatedAt     string  `json:"updatedAt"`
}

// ToUseCaseRequest конвертирует HTTP запрос в модель use case
func (r *CreateBookingRequest) ToUseCaseRequest() (*createBooking.Request, error) {
	date, err := time.Parse(domain.DateFormat, r.Date)
	if err != nil {
		return nil, fmt.Errorf("invalid date %q: %w", r.Date, err)
	}

	startTime, err := types.NewTimeStringFromString(r.StartTime)
	if err != nil {
		return nil, fmt.Errorf("invalid start time %q: %w", r.StartTime, err)
	}

	return &createBooking.Request{
		CompanyID:     r.CompanyID,
		ServiceType:   r.ServiceType,
		Date:          date,
		StartTime:     startTime,
		CustomerName:  r.CustomerName,
		CustomerEmail: r.CustomerEmail,
		CustomerPhone: r.CustomerPhone,
		SessionID:     r.SessionID,
		Notes:         r.Notes,
	}, nil
}

// FromUseCaseResponse конвертирует ответ use case в HTTP response
func FromUseCaseResponse(resp *createBooking.Response) *BookingResponse {
	return &BookingResponse{
		ID:            resp.ID,
		CompanyID:     resp.CompanyID,
		ServiceType:   resp.ServiceType,
		Date:          resp.BookingDate.Format(domain.DateFormat),
		StartTime:     resp.StartTime.String(),
		Status:        resp.Status,
		CustomerName:  resp.CustomerName,
		CustomerEmail: resp.CustomerEmail,
		CustomerPhone: resp.CustomerPhone,
		SessionID:     resp.SessionID,
		Notes:         resp.Notes,
		CreatedAt:     resp.CreatedAt.Format(time.RFC3339),
		UpdatedAt:     resp.UpdatedAt.Format(time.RFC3339),
	}
}
