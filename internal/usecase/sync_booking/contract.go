package sync_booking

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/m04kA/SMC-LeadBookingService/internal/domain"
	"github.com/m04kA/SMC-LeadBookingService/internal/integrations/sheetsync"
)

// BookingRepository интерфейс репозитория бронирований
type BookingRepository interface {
	GetByID(ctx context.Context, id int64) (*domain.Booking, error)
	MarkSyncSuccess(ctx context.Context, id int64) error
	RecordSyncFailure(ctx context.Context, id int64, syncErr string) (int, error)
	MarkSyncFailed(ctx context.Context, id int64) error
}

// CompanyRepository интерфейс репозитория компаний
type CompanyRepository interface {
	GetByID(ctx context.Context, id int64) (*domain.Company, error)
}

// SheetSyncClient интерфейс клиента выгрузки во внешний webhook
type SheetSyncClient interface {
	Push(ctx context.Context, payload *sheetsync.Payload) error
}

// TaskScheduler интерфейс планировщика отложенных задач
type TaskScheduler interface {
	ScheduleOnce(delay time.Duration, kind string, args interface{}) (uuid.UUID, error)
}

// Logger интерфейс для логирования
type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
