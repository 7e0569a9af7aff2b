package check_availability

import (
	"context"
	"time"

	"github.com/m04kA/SMC-LeadBookingService/pkg/types"
)

// BookingRepository интерфейс репозитория бронирований
type BookingRepository interface {
	CountActiveBySlot(ctx context.Context, companyID int64, date time.Time, startTime types.TimeString) (int, error)
}

// Logger интерфейс для логирования
type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
