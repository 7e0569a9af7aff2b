package get_available_slots

import (
	"time"

	"github.com/m04kA/SMC-LeadBookingService/pkg/types"
)

// Request модель запроса на получение слотов на день
type Request struct {
	CompanyID int64     // ID компании
	Date      time.Time // Дата для получения слотов (без времени)
}

// Response модель ответа со списком слотов на день
type Response struct {
	CompanyID int64     // ID компании
	Date      time.Time // Дата, на которую запрашивались слоты
	Slots     []Slot    // Сетка слотов на день
}

// Slot модель временного слота
type Slot struct {
	StartTime       types.TimeString // Время начала слота (например, "10:00")
	DurationMinutes int              // Длительность слота в минутах
	Booked          bool             // true, если слот занят активным бронированием
}
