package get_available_slots

import (
	"time"

	"github.com/m04kA/SMC-LeadBookingService/internal/domain"
	"github.com/m04kA/SMC-LeadBookingService/pkg/types"
)

// generateTimeSlots генерирует сетку временных слотов на день
// Слоты идут с начала рабочего дня компании с фиксированным шагом slotDuration
// Слот, не помещающийся целиком до закрытия, в сетку не попадает
func generateTimeSlots(company *domain.Company, requestDate time.Time, now time.Time) ([]types.TimeString, error) {
	// Дата в прошлом - слотов нет
	if isDateInPast(requestDate, now) {
		return []types.TimeString{}, nil
	}

	// Компания не работает в этот день недели
	if !company.IsOpenOn(requestDate.Weekday()) {
		return []types.TimeString{}, nil
	}

	allSlots := make([]types.TimeString, 0)
	currentSlot := company.OpenTime

	for currentSlot.IsBefore(company.CloseTime) {
		slotEnd, err := currentSlot.AddMinutes(company.SlotDurationMinutes)
		if err != nil {
			return nil, err
		}
		if slotEnd.IsAfter(company.CloseTime) {
			break
		}

		allSlots = append(allSlots, currentSlot)
		currentSlot = slotEnd
	}

	return allSlots, nil
}

// markBookedSlots размечает занятость слотов по активным бронированиям
// Занятость определяется точным совпадением времени начала: один слот - одно бронирование
func markBookedSlots(timeSlots []types.TimeString, slotDuration int, bookings []*domain.Booking) []Slot {
	booked := make(map[types.TimeString]bool, len(bookings))
	for _, b := range bookings {
		if b.IsActive() {
			booked[b.StartTime] = true
		}
	}

	result := make([]Slot, len(timeSlots))
	for i, start := range timeSlots {
		result[i] = Slot{
			StartTime:       start,
			DurationMinutes: slotDuration,
			Booked:          booked[start],
		}
	}

	return result
}

// isDateInPast проверяет, что дата в прошлом (раньше сегодняшнего дня)
func isDateInPast(date, now time.Time) bool {
	// Обнуляем время, чтобы сравнивать только даты
	dateOnly := time.Date(date.Year(), date.Month(), date.Day(), 0, 0, 0, 0, date.Location())
	nowOnly := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())
	return dateOnly.Before(nowOnly)
}
