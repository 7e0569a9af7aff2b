package reap_stuck_leads

import (
	"context"
	"fmt"
	"time"

	"github.com/m04kA/SMC-LeadBookingService/internal/infra/tasks"
)

// UseCase use case чистки зависших лидов
// Лид считается зависшим, если автосохранение прекратилось дольше timeout назад,
// а лид так и остался в статусе processing (посетитель закрыл вкладку,
// сигнал о закрытии сессии не долетел)
type UseCase struct {
	leadRepo     LeadRepository
	scheduler    TaskScheduler
	timeProvider TimeProvider
	logger       Logger
}

// NewUseCase создает новый экземпляр use case
func NewUseCase(leadRepo LeadRepository, scheduler TaskScheduler, logger Logger) *UseCase {
	return &UseCase{
		leadRepo:     leadRepo,
		scheduler:    scheduler,
		timeProvider: &RealTimeProvider{},
		logger:       logger,
	}
}

// Execute выполняет один проход чистки
// Перевод в abandoned выполняется одним условным UPDATE, поэтому операция
// идемпотентна: повторный запуск сразу после первого ничего не находит.
// Для каждого переведенного лида ставится задача выгрузки
func (uc *UseCase) Execute(ctx context.Context, timeout time.Duration) (*Result, error) {
	if timeout <= 0 {
		return nil, fmt.Errorf("%w: timeout must be positive", ErrInvalidInput)
	}

	cutoff := uc.timeProvider.Now().Add(-timeout)

	reaped, err := uc.leadRepo.ReapStuck(ctx, cutoff)
	if err != nil {
		uc.logger.Error("ReapStuckLeads: failed to reap leads: %v", err)
		return nil, fmt.Errorf("%w: failed to reap leads: %v", ErrInternal, err)
	}

	if len(reaped) == 0 {
		return &Result{LeadsCleaned: 0, SessionsAffected: []string{}}, nil
	}

	sessions := make([]string, 0, len(reaped))
	for _, r := range reaped {
		sessions = append(sessions, r.SessionID)

		if _, err := uc.scheduler.ScheduleOnce(0, tasks.KindLeadSync, tasks.LeadSyncArgs{LeadID: r.ID}); err != nil {
			// Лид уже в abandoned, его выгрузка осталась pending в БД
			uc.logger.Error("ReapStuckLeads: failed to schedule sync for lead id=%d: %v", r.ID, err)
		}
	}

	uc.logger.Info("ReapStuckLeads: cleaned %d stuck leads (older than %s)", len(reaped), timeout)

	return &Result{
		LeadsCleaned:     len(reaped),
		SessionsAffected: sessions,
	}, nil
}
