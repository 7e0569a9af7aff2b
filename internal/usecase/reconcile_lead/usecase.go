package reconcile_lead

import (
	"context"
	"errors"
	"fmt"

	leadRepo "github.com/m04kA/SMC-LeadBookingService/internal/infra/storage/lead"
	terminationRepo "github.com/m04kA/SMC-LeadBookingService/internal/infra/storage/termination"
)

// UseCase use case сверки лида с журналом закрытий сессий
// Отсекает "шумовые" лиды: автосохранения, долетевшие уже после того,
// как посетитель закрыл форму
type UseCase struct {
	leadRepo        LeadRepository
	terminationRepo TerminationRepository
	timeProvider    TimeProvider
	logger          Logger
}

// NewUseCase создает новый экземпляр use case
func NewUseCase(leadRepo LeadRepository, terminationRepo TerminationRepository, logger Logger) *UseCase {
	return &UseCase{
		leadRepo:        leadRepo,
		terminationRepo: terminationRepo,
		timeProvider:    &RealTimeProvider{},
		logger:          logger,
	}
}

// Execute принимает решение, подавить ли выгрузку лида
// Лид блокируется, только если он создан СТРОГО ПОЗЖЕ закрытия сессии:
// такой лид не может быть настоящим брошенным черновиком. Лид, созданный
// до закрытия или ровно в момент закрытия, считается настоящим брошенным
// лидом и проходит дальше
func (uc *UseCase) Execute(ctx context.Context, leadID int64) (*Decision, error) {
	if leadID <= 0 {
		return nil, fmt.Errorf("%w: leadID must be positive", ErrInvalidInput)
	}

	lead, err := uc.leadRepo.GetByID(ctx, leadID)
	if err != nil {
		if errors.Is(err, leadRepo.ErrLeadNotFound) {
			uc.logger.Warn("ReconcileLead: lead id=%d not found", leadID)
			return nil, ErrLeadNotFound
		}
		uc.logger.Error("ReconcileLead: failed to get lead id=%d: %v", leadID, err)
		return nil, fmt.Errorf("%w: failed to get lead: %v", ErrInternal, err)
	}

	now := uc.timeProvider.Now()

	termination, err := uc.terminationRepo.GetBySession(ctx, lead.SessionID, now)
	if err != nil {
		// Нет записи о закрытии (или она уже протухла) - сессия считается живой
		if errors.Is(err, terminationRepo.ErrTerminationNotFound) {
			uc.logger.Info("ReconcileLead: lead id=%d allowed - %s", leadID, ReasonSessionActive)
			return &Decision{Blocked: false, Reason: ReasonSessionActive}, nil
		}
		uc.logger.Error("ReconcileLead: failed to get termination for session=%s: %v", lead.SessionID, err)
		return nil, fmt.Errorf("%w: failed to get termination: %v", ErrInternal, err)
	}

	if lead.CreatedAt.After(termination.TerminatedAt) {
		uc.logger.Warn("ReconcileLead: lead id=%d blocked - created at %s, session=%s terminated at %s",
			leadID, lead.CreatedAt.Format("15:04:05.000"), lead.SessionID, termination.TerminatedAt.Format("15:04:05.000"))
		return &Decision{Blocked: true, Reason: ReasonLeadAfterTermination}, nil
	}

	uc.logger.Info("ReconcileLead: lead id=%d allowed - %s", leadID, ReasonLeadBeforeTermination)
	return &Decision{Blocked: false, Reason: ReasonLeadBeforeTermination}, nil
}
