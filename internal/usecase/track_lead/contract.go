package track_lead

import (
	"context"

	"github.com/m04kA/SMC-LeadBookingService/internal/domain"
)

// LeadRepository интерфейс репозитория незавершенных лидов
type LeadRepository interface {
	UpsertBySession(ctx context.Context, sessionID string, patch domain.LeadPatch) (*domain.IncompleteLead, error)
	MarkComplete(ctx context.Context, id int64) error
}

// Logger интерфейс для логирования
type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
