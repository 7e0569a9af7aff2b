package sync_lead

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/m04kA/SMC-LeadBookingService/internal/domain"
	leadRepo "github.com/m04kA/SMC-LeadBookingService/internal/infra/storage/lead"
	"github.com/m04kA/SMC-LeadBookingService/internal/infra/tasks"
	"github.com/m04kA/SMC-LeadBookingService/internal/integrations/sheetsync"
)

// UseCase use case выгрузки незавершенного лида во внешний webhook
// Выполняется только из очереди отложенных задач, никогда в запросе.
// Перед выгрузкой лид сверяется с журналом закрытий сессий: шумовые лиды
// помечаются skipped и наружу не уходят
type UseCase struct {
	leadRepo    LeadRepository
	companyRepo CompanyRepository
	reconciler  Reconciler
	client      SheetSyncClient
	scheduler   TaskScheduler
	maxAttempts int
	retryDelay  time.Duration
	logger      Logger
}

// NewUseCase создает новый экземпляр use case
func NewUseCase(
	leadRepo LeadRepository,
	companyRepo CompanyRepository,
	reconciler Reconciler,
	client SheetSyncClient,
	scheduler TaskScheduler,
	maxAttempts int,
	retryDelay time.Duration,
	logger Logger,
) *UseCase {
	return &UseCase{
		leadRepo:    leadRepo,
		companyRepo: companyRepo,
		reconciler:  reconciler,
		client:      client,
		scheduler:   scheduler,
		maxAttempts: maxAttempts,
		retryDelay:  retryDelay,
		logger:      logger,
	}
}

// HandleTask обработчик задачи lead.sync из очереди
func (uc *UseCase) HandleTask(ctx context.Context, payload []byte) error {
	var args tasks.LeadSyncArgs
	if err := json.Unmarshal(payload, &args); err != nil {
		return fmt.Errorf("%w: failed to unmarshal task args: %v", ErrInvalidInput, err)
	}
	return uc.Execute(ctx, args.LeadID)
}

// Execute выполняет одну попытку выгрузки лида
// Повторы при сбоях планирует сам usecase через очередь задач;
// после maxAttempts неудач выгрузка переводится в терминальный статус failed
func (uc *UseCase) Execute(ctx context.Context, leadID int64) error {
	if leadID <= 0 {
		return fmt.Errorf("%w: leadID must be positive", ErrInvalidInput)
	}

	lead, err := uc.leadRepo.GetByID(ctx, leadID)
	if err != nil {
		if errors.Is(err, leadRepo.ErrLeadNotFound) {
			uc.logger.Warn("SyncLead: lead id=%d not found", leadID)
			return ErrLeadNotFound
		}
		uc.logger.Error("SyncLead: failed to get lead id=%d: %v", leadID, err)
		return fmt.Errorf("%w: failed to get lead: %v", ErrInternal, err)
	}

	// Выгрузка уже в терминальном статусе - повторная задача ничего не делает
	if lead.Sync.IsTerminal() {
		uc.logger.Info("SyncLead: lead id=%d sync already %s, nothing to do", leadID, lead.Sync.Status)
		return nil
	}

	// Сверка с журналом закрытий сессий
	decision, err := uc.reconciler.Execute(ctx, leadID)
	if err != nil {
		uc.logger.Error("SyncLead: reconciliation failed for lead id=%d: %v", leadID, err)
		return fmt.Errorf("%w: reconciliation failed: %v", ErrInternal, err)
	}

	if decision.Blocked {
		if err := uc.leadRepo.MarkSyncSkipped(ctx, leadID, decision.Reason); err != nil {
			uc.logger.Error("SyncLead: failed to mark lead id=%d skipped: %v", leadID, err)
			return fmt.Errorf("%w: failed to mark skipped: %v", ErrInternal, err)
		}
		uc.logger.Info("SyncLead: lead id=%d suppressed - %s", leadID, decision.Reason)
		return nil
	}

	payload := uc.buildPayload(ctx, lead)

	if err := uc.client.Push(ctx, payload); err != nil {
		return uc.handlePushFailure(ctx, leadID, err)
	}

	if err := uc.leadRepo.MarkSyncSuccess(ctx, leadID); err != nil {
		uc.logger.Error("SyncLead: failed to mark lead id=%d synced: %v", leadID, err)
		return fmt.Errorf("%w: failed to mark synced: %v", ErrInternal, err)
	}

	uc.logger.Info("SyncLead: lead id=%d pushed successfully", leadID)
	return nil
}

// buildPayload собирает запись для внешнего webhook из полей лида
func (uc *UseCase) buildPayload(ctx context.Context, lead *domain.IncompleteLead) *sheetsync.Payload {
	payload := &sheetsync.Payload{
		SessionID:     lead.SessionID,
		Action:        sheetsync.ActionIncompleteLead,
		CustomerName:  lead.CustomerName,
		CustomerEmail: lead.CustomerEmail,
		CustomerPhone: lead.CustomerPhone,
		Service:       lead.ServiceType,
		Status:        string(lead.Status),
	}

	if lead.BookingDate != nil {
		payload.BookingDate = lead.BookingDate.Format(domain.DateFormat)
	}
	if lead.StartTime != nil {
		payload.BookingTime = lead.StartTime.String()
	}

	// Название компании подставляется по возможности: его отсутствие
	// не должно блокировать выгрузку
	if lead.CompanyID != nil {
		company, err := uc.companyRepo.GetByID(ctx, *lead.CompanyID)
		if err != nil {
			uc.logger.Warn("SyncLead: failed to resolve company id=%d for lead id=%d: %v",
				*lead.CompanyID, lead.ID, err)
		} else {
			payload.Company = company.Name
		}
	}

	return payload
}

// handlePushFailure фиксирует неудачную попытку и планирует повтор
func (uc *UseCase) handlePushFailure(ctx context.Context, leadID int64, pushErr error) error {
	uc.logger.Warn("SyncLead: push failed for lead id=%d: %v", leadID, pushErr)

	attempts, err := uc.leadRepo.RecordSyncFailure(ctx, leadID, pushErr.Error())
	if err != nil {
		if errors.Is(err, leadRepo.ErrSyncNotPending) {
			// Параллельная задача уже перевела выгрузку в терминальный статус
			uc.logger.Info("SyncLead: lead id=%d sync already terminal, failure not recorded", leadID)
			return nil
		}
		uc.logger.Error("SyncLead: failed to record sync failure for lead id=%d: %v", leadID, err)
		return fmt.Errorf("%w: failed to record sync failure: %v", ErrInternal, err)
	}

	if attempts >= uc.maxAttempts {
		if err := uc.leadRepo.MarkSyncFailed(ctx, leadID); err != nil {
			uc.logger.Error("SyncLead: failed to mark lead id=%d failed: %v", leadID, err)
			return fmt.Errorf("%w: failed to mark failed: %v", ErrInternal, err)
		}
		uc.logger.Error("SyncLead: lead id=%d sync failed permanently after %d attempts", leadID, attempts)
		return nil
	}

	if _, err := uc.scheduler.ScheduleOnce(uc.retryDelay, tasks.KindLeadSync, tasks.LeadSyncArgs{LeadID: leadID}); err != nil {
		uc.logger.Error("SyncLead: failed to schedule retry for lead id=%d: %v", leadID, err)
		return fmt.Errorf("%w: failed to schedule retry: %v", ErrInternal, err)
	}

	uc.logger.Info("SyncLead: retry %d/%d for lead id=%d scheduled in %s",
		attempts+1, uc.maxAttempts, leadID, uc.retryDelay)
	return nil
}
