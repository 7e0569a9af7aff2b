package reconcile_lead

import (
	"context"
	"time"

	"github.com/m04kA/SMC-LeadBookingService/internal/domain"
)

// LeadRepository интерфейс репозитория незавершенных лидов
type LeadRepository interface {
	GetByID(ctx context.Context, id int64) (*domain.IncompleteLead, error)
}

// TerminationRepository интерфейс репозитория закрытий сессий
type TerminationRepository interface {
	GetBySession(ctx context.Context, sessionID string, now time.Time) (*domain.SessionTermination, error)
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
