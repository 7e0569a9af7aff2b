package recover_pending_syncs

import (
	"context"
	"time"

	"github.com/google/uuid"
)

// LeadRepository интерфейс репозитория незавершенных лидов
type LeadRepository interface {
	ListPendingSync(ctx context.Context, cutoff time.Time) ([]int64, error)
}

// BookingRepository интерфейс репозитория бронирований
type BookingRepository interface {
	ListPendingSync(ctx context.Context, cutoff time.Time) ([]int64, error)
}

// TaskScheduler интерфейс планировщика отложенных задач
type TaskScheduler interface {
	ScheduleOnce(delay time.Duration, kind string, args interface{}) (uuid.UUID, error)
}

// TimeProvider интерфейс для получения текущего времени (для тестирования)
type TimeProvider interface {
	Now() time.Time
}

// Logger интерфейс для логирования
type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}

// RealTimeProvider реальный провайдер времени для production
type RealTimeProvider struct{}

// Now возвращает текущее время
func (p *RealTimeProvider) Now() time.Time {
	return time.Now()
}
