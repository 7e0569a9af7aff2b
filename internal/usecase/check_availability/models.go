package check_availability

import (
	"time"

	"github.com/m04kA/SMC-LeadBookingService/pkg/types"
)

// Request модель запроса проверки занятости слота
type Request struct {
	CompanyID int64            // ID компании
	Date      time.Time        // Дата слота (без времени)
	StartTime types.TimeString // Время начала слота (например, "10:00")
}

// Response модель ответа проверки занятости слота
type Response struct {
	Booked bool // true, если на слот есть активное бронирование
}
