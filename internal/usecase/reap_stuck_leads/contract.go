package reap_stuck_leads

import (
	"context"
	"time"

	"github.com/google/uuid"

	leadRepo "github.com/m04kA/SMC-LeadBookingService/internal/infra/storage/lead"
)

// LeadRepository интерфейс репозитория незавершенных лидов
type LeadRepository interface {
	ReapStuck(ctx context.Context, cutoff time.Time) ([]leadRepo.ReapedLead, error)
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
