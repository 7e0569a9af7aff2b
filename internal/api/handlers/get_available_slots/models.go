package get_available_slots

import (
	"github.com/m04kA/SMC-LeadBookingService/internal/domain"
	getAvailableSlots "github.com/m04kA/SMC-LeadBookingService/internal/usecase/get_available_slots"
)

// SlotResponse HTTP модель временного слота
type SlotResponse struct {
	StartTime       string `json:"startTime"`
	DurationMinutes int    `json:"durationMinutes"`
	Booked          bool   `json:"booked"`
}

// SlotsResponse HTTP response model
type SlotsResponse struct {
	CompanyID int64          `json:"companyId"`
	Date      string         `json:"date"`
	Slots     []SlotResponse `json:"slots"`
}

// FromUseCaseResponse конвертирует ответ use case в HTTP response
func FromUseCaseResponse(resp *getAvailableSlots.Response) *SlotsResponse {
	slots := make([]SlotResponse, 0, len(resp.Slots))
	for _, s := range resp.Slots {
		slots = append(slots, SlotResponse{
			StartTime:       s.StartTime.String(),
			DurationMinutes: s.DurationMinutes,
			Booked:          s.Booked,
		})
	}

	return &SlotsResponse{
		CompanyID: resp.CompanyID,
		Date:      resp.Date.Format(domain.DateFormat),
		Slots:     slots,
	}
}
