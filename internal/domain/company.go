package domain

import (
	"time"

	"github.com/m04kA/SMC-LeadBookingService/pkg/types"
)

// CompanyStatus represents the status of a company
type CompanyStatus string

const (
	CompanyActive   CompanyStatus = "active"
	CompanyInactive CompanyStatus = "inactive"
)

// Company represents a bookable company with its operating schedule
// Инварианты (проверяются при создании и обновлении):
// - SlotDurationMinutes > 0
// - OpenTime строго раньше CloseTime
// - ActiveWeekdays непустое подмножество Mon..Sun
type Company struct {
	ID           int64
	Name         string
	ContactEmail string
	ContactPhone string

	// Рабочее окно и длительность слота
	OpenTime            types.TimeString
	CloseTime           types.TimeString
	SlotDurationMinutes int

	// ActiveWeekdays дни недели, в которые компания принимает бронирования
	ActiveWeekdays []time.Weekday

	Status CompanyStatus

	CreatedAt time.Time
	UpdatedAt time.Time
}

// IsActive returns true if the company accepts bookings
func (c *Company) IsActive() bool {
	return c.Status == CompanyActive
}

// IsOpenOn returns true if the company works on the given weekday
func (c *Company) IsOpenOn(day time.Weekday) bool {
	for _, d := range c.ActiveWeekdays {
		if d == day {
			return true
		}
	}
	return false
}

// IsWithinWorkingHours returns true if a slot of the company's duration
// starting at t fits into the operating window
func (c *Company) IsWithinWorkingHours(t types.TimeString) bool {
	if t.IsBefore(c.OpenTime) {
		return false
	}
	end, err := t.AddMinutes(c.SlotDurationMinutes)
	if err != nil {
		return false
	}
	return !end.IsAfter(c.CloseTime)
}

// IsSlotAligned returns true if t falls on a slot boundary of the company's grid
// Слоты идут с фиксированным шагом от времени открытия
func (c *Company) IsSlotAligned(t types.TimeString) bool {
	if c.SlotDurationMinutes <= 0 {
		return false
	}
	current := c.OpenTime
	for !current.IsAfter(c.CloseTime) {
		if current.Equal(t) {
			return true
		}
		next, err := current.AddMinutes(c.SlotDurationMinutes)
		if err != nil {
			return false
		}
		current = next
	}
	return false
}
