package recover_pending_syncs

import (
	"context"
	"fmt"
	"time"

	"github.com/m04kA/SMC-LeadBookingService/internal/infra/tasks"
)

// UseCase use case восстановления застрявших выгрузок
// Очередь задач живет в памяти процесса, поэтому задача теряется при рестарте
// или при отказе планирования (остановка очереди во время shutdown). Источником
// истины остается sync_status строки: этот проход находит записи, застрявшие
// в pending дольше grace-окна, и ставит их выгрузку заново.
// Окно должно превышать задержку повтора, иначе проход продублирует
// уже запланированные повторы
type UseCase struct {
	leadRepo     LeadRepository
	bookingRepo  BookingRepository
	scheduler    TaskScheduler
	timeProvider TimeProvider
	logger       Logger
}

// NewUseCase создает новый экземпляр use case
func NewUseCase(leadRepo LeadRepository, bookingRepo BookingRepository, scheduler TaskScheduler, logger Logger) *UseCase {
	return &UseCase{
		leadRepo:     leadRepo,
		bookingRepo:  bookingRepo,
		scheduler:    scheduler,
		timeProvider: &RealTimeProvider{},
		logger:       logger,
	}
}

// Execute выполняет один проход восстановления
// Идемпотентность: повторная постановка безопасна - выгрузка в терминальном
// статусе обрабатывается как no-op, а счетчик попыток защищен условным UPDATE
func (uc *UseCase) Execute(ctx context.Context, grace time.Duration) (*Result, error) {
	if grace <= 0 {
		return nil, fmt.Errorf("%w: grace must be positive", ErrInvalidInput)
	}

	cutoff := uc.timeProvider.Now().Add(-grace)
	result := &Result{}

	leadIDs, err := uc.leadRepo.ListPendingSync(ctx, cutoff)
	if err != nil {
		uc.logger.Error("RecoverPendingSyncs: failed to list stranded leads: %v", err)
		return nil, fmt.Errorf("%w: failed to list stranded leads: %v", ErrInternal, err)
	}

	for _, id := range leadIDs {
		if _, err := uc.scheduler.ScheduleOnce(0, tasks.KindLeadSync, tasks.LeadSyncArgs{LeadID: id}); err != nil {
			// Строка остается pending - следующий проход попробует снова
			uc.logger.Error("RecoverPendingSyncs: failed to re-enqueue lead id=%d: %v", id, err)
			continue
		}
		result.LeadsEnqueued++
	}

	bookingIDs, err := uc.bookingRepo.ListPendingSync(ctx, cutoff)
	if err != nil {
		uc.logger.Error("RecoverPendingSyncs: failed to list stranded bookings: %v", err)
		return nil, fmt.Errorf("%w: failed to list stranded bookings: %v", ErrInternal, err)
	}

	for _, id := range bookingIDs {
		if _, err := uc.scheduler.ScheduleOnce(0, tasks.KindBookingSync, tasks.BookingSyncArgs{BookingID: id}); err != nil {
			uc.logger.Error("RecoverPendingSyncs: failed to re-enqueue booking id=%d: %v", id, err)
			continue
		}
		result.BookingsEnqueued++
	}

	if result.LeadsEnqueued > 0 || result.BookingsEnqueued > 0 {
		uc.logger.Info("RecoverPendingSyncs: re-enqueued %d leads and %d bookings stranded in pending",
			result.LeadsEnqueued, result.BookingsEnqueued)
	}

	return result, nil
}
