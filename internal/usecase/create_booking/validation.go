package create_booking

import (
	"fmt"
	"strings"
	"time"

	"github.com/m04kA/SMC-LeadBookingService/internal/domain"
)

// validateRequest валидирует входные данные запроса
func validateRequest(req *Request) error {
	if req.CompanyID <= 0 {
		return fmt.Errorf("%w: companyID must be positive", ErrInvalidInput)
	}

	if strings.TrimSpace(req.CustomerName) == "" {
		return fmt.Errorf("%w: customerName is required", ErrInvalidInput)
	}

	if strings.TrimSpace(req.CustomerEmail) == "" && strings.TrimSpace(req.CustomerPhone) == "" {
		return fmt.Errorf("%w: at least one of customerEmail or customerPhone is required", ErrInvalidInput)
	}

	if req.Date.IsZero() {
		return fmt.Errorf("%w: date is required", ErrInvalidInput)
	}

	if req.StartTime.IsZero() {
		return fmt.Errorf("%w: startTime is required", ErrInvalidInput)
	}

	if err := req.StartTime.Validate(); err != nil {
		return fmt.Errorf("%w: invalid startTime format: %v", ErrInvalidInput, err)
	}

	if req.SessionID != nil && strings.TrimSpace(*req.SessionID) == "" {
		return fmt.Errorf("%w: sessionID must not be empty when provided", ErrInvalidInput)
	}

	return nil
}

// validateDate проверяет, что дата не в прошлом
func validateDate(bookingDate, now time.Time) error {
	dateOnly := time.Date(bookingDate.Year(), bookingDate.Month(), bookingDate.Day(), 0, 0, 0, 0, bookingDate.Location())
	nowOnly := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())
	if dateOnly.Before(nowOnly) {
		return ErrInvalidDate
	}
	return nil
}

// validateSlot проверяет, что слот попадает в рабочее окно компании
// и лежит на границе сетки слотов
func validateSlot(company *domain.Company, req *Request) error {
	if !company.IsOpenOn(req.Date.Weekday()) {
		return ErrCompanyClosed
	}

	if !company.IsWithinWorkingHours(req.StartTime) {
		return fmt.Errorf("%w: time %s is outside working hours %s-%s",
			ErrInvalidTimeSlot, req.StartTime, company.OpenTime, company.CloseTime)
	}

	if !company.IsSlotAligned(req.StartTime) {
		return fmt.Errorf("%w: time %s is not aligned to the %d-minute slot grid",
			ErrInvalidTimeSlot, req.StartTime, company.SlotDurationMinutes)
	}

	return nil
}

// hasSlotConflict проверяет, занят ли запрошенный слот активным бронированием
// Конфликт - точное совпадение времени начала
func hasSlotConflict(bookings []*domain.Booking, req *Request) bool {
	for _, b := range bookings {
		if b.IsActive() && b.StartTime.Equal(req.StartTime) {
			return true
		}
	}
	return false
}
