package sync_booking

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/m04kA/SMC-LeadBookingService/internal/domain"
	bookingRepo "github.com/m04kA/SMC-LeadBookingService/internal/infra/storage/booking"
	"github.com/m04kA/SMC-LeadBookingService/internal/infra/tasks"
	"github.com/m04kA/SMC-LeadBookingService/internal/integrations/sheetsync"
)

// UseCase use case выгрузки бронирования во внешний webhook
// Выполняется только из очереди отложенных задач. В отличие от выгрузки
// лидов сверка с журналом закрытий не нужна: завершенное бронирование
// выгружается всегда
type UseCase struct {
	bookingRepo BookingRepository
	companyRepo CompanyRepository
	client      SheetSyncClient
	scheduler   TaskScheduler
	maxAttempts int
	retryDelay  time.Duration
	logger      Logger
}

// NewUseCase создает новый экземпляр use case
func NewUseCase(
	bookingRepo BookingRepository,
	companyRepo CompanyRepository,
	client SheetSyncClient,
	scheduler TaskScheduler,
	maxAttempts int,
	retryDelay time.Duration,
	logger Logger,
) *UseCase {
	return &UseCase{
		bookingRepo: bookingRepo,
		companyRepo: companyRepo,
		client:      client,
		scheduler:   scheduler,
		maxAttempts: maxAttempts,
		retryDelay:  retryDelay,
		logger:      logger,
	}
}

// HandleTask обработчик задачи booking.sync из очереди
func (uc *UseCase) HandleTask(ctx context.Context, payload []byte) error {
	var args tasks.BookingSyncArgs
	if err := json.Unmarshal(payload, &args); err != nil {
		return fmt.Errorf("%w: failed to unmarshal task args: %v", ErrInvalidInput, err)
	}
	return uc.Execute(ctx, args.BookingID)
}

// Execute выполняет одну попытку выгрузки бронирования
func (uc *UseCase) Execute(ctx context.Context, bookingID int64) error {
	if bookingID <= 0 {
		return fmt.Errorf("%w: bookingID must be positive", ErrInvalidInput)
	}

	booking, err := uc.bookingRepo.GetByID(ctx, bookingID)
	if err != nil {
		if errors.Is(err, bookingRepo.ErrBookingNotFound) {
			uc.logger.Warn("SyncBooking: booking id=%d not found", bookingID)
			return ErrBookingNotFound
		}
		uc.logger.Error("SyncBooking: failed to get booking id=%d: %v", bookingID, err)
		return fmt.Errorf("%w: failed to get booking: %v", ErrInternal, err)
	}

	if booking.Sync.IsTerminal() {
		uc.logger.Info("SyncBooking: booking id=%d sync already %s, nothing to do", bookingID, booking.Sync.Status)
		return nil
	}

	payload := uc.buildPayload(ctx, booking)

	if err := uc.client.Push(ctx, payload); err != nil {
		return uc.handlePushFailure(ctx, bookingID, err)
	}

	if err := uc.bookingRepo.MarkSyncSuccess(ctx, bookingID); err != nil {
		uc.logger.Error("SyncBooking: failed to mark booking id=%d synced: %v", bookingID, err)
		return fmt.Errorf("%w: failed to mark synced: %v", ErrInternal, err)
	}

	uc.logger.Info("SyncBooking: booking id=%d pushed successfully", bookingID)
	return nil
}

// buildPayload собирает запись для внешнего webhook из полей бронирования
func (uc *UseCase) buildPayload(ctx context.Context, booking *domain.Booking) *sheetsync.Payload {
	payload := &sheetsync.Payload{
		Action:        sheetsync.ActionBooking,
		CustomerName:  booking.CustomerName,
		CustomerEmail: booking.CustomerEmail,
		CustomerPhone: booking.CustomerPhone,
		Service:       booking.ServiceType,
		BookingDate:   booking.BookingDate.Format(domain.DateFormat),
		BookingTime:   booking.StartTime.String(),
		Status:        string(booking.Status),
	}

	if booking.SessionID != nil {
		payload.SessionID = *booking.SessionID
	}

	company, err := uc.companyRepo.GetByID(ctx, booking.CompanyID)
	if err != nil {
		uc.logger.Warn("SyncBooking: failed to resolve company id=%d for booking id=%d: %v",
			booking.CompanyID, booking.ID, err)
	} else {
		payload.Company = company.Name
	}

	return payload
}

// handlePushFailure фиксирует неудачную попытку и планирует повтор
func (uc *UseCase) handlePushFailure(ctx context.Context, bookingID int64, pushErr error) error {
	uc.logger.Warn("SyncBooking: push failed for booking id=%d: %v", bookingID, pushErr)

	attempts, err := uc.bookingRepo.RecordSyncFailure(ctx, bookingID, pushErr.Error())
	if err != nil {
		if errors.Is(err, bookingRepo.ErrSyncNotPending) {
			// Параллельная задача уже перевела выгрузку в терминальный статус
			uc.logger.Info("SyncBooking: booking id=%d sync already terminal, failure not recorded", bookingID)
			return nil
		}
		uc.logger.Error("SyncBooking: failed to record sync failure for booking id=%d: %v", bookingID, err)
		return fmt.Errorf("%w: failed to record sync failure: %v", ErrInternal, err)
	}

	if attempts >= uc.maxAttempts {
		if err := uc.bookingRepo.MarkSyncFailed(ctx, bookingID); err != nil {
			uc.logger.Error("SyncBooking: failed to mark booking id=%d failed: %v", bookingID, err)
			return fmt.Errorf("%w: failed to mark failed: %v", ErrInternal, err)
		}
		uc.logger.Error("SyncBooking: booking id=%d sync failed permanently after %d attempts", bookingID, attempts)
		return nil
	}

	if _, err := uc.scheduler.ScheduleOnce(uc.retryDelay, tasks.KindBookingSync, tasks.BookingSyncArgs{BookingID: bookingID}); err != nil {
		uc.logger.Error("SyncBooking: failed to schedule retry for booking id=%d: %v", bookingID, err)
		return fmt.Errorf("%w: failed to schedule retry: %v", ErrInternal, err)
	}

	uc.logger.Info("SyncBooking: retry %d/%d for booking id=%d scheduled in %s",
		attempts+1, uc.maxAttempts, bookingID, uc.retryDelay)
	return nil
}
