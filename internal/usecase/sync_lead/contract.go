package sync_lead

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/m04kA/SMC-LeadBookingService/internal/domain"
	"github.com/m04kA/SMC-LeadBookingService/internal/integrations/sheetsync"
	"github.com/m04kA/SMC-LeadBookingService/internal/usecase/reconcile_lead"
)

// LeadRepository интерфейс репозитория незавершенных лидов
type LeadRepository interface {
	GetByID(ctx context.Context, id int64) (*domain.IncompleteLead, error)
	MarkSyncSuccess(ctx context.Context, id int64) error
	MarkSyncSkipped(ctx context.Context, id int64, reason string) error
	RecordSyncFailure(ctx context.Context, id int64, syncErr string) (int, error)
	MarkSyncFailed(ctx context.Context, id int64) error
}

// CompanyRepository интерфейс репозитория компаний
type CompanyRepository interface {
	GetByID(ctx context.Context, id int64) (*domain.Company, error)
}

// Reconciler интерфейс сверки лида с журналом закрытий сессий
type Reconciler interface {
	Execute(ctx context.Context, leadID int64) (*reconcile_lead.Decision, error)
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
