package track_lead

import (
	"context"
	"errors"
	"fmt"

	"github.com/m04kA/SMC-LeadBookingService/internal/domain"
	leadRepo "github.com/m04kA/SMC-LeadBookingService/internal/infra/storage/lead"
)

// UseCase use case отслеживания незавершенных лидов
type UseCase struct {
	leadRepo LeadRepository
	logger   Logger
}

// NewUseCase создает новый экземпляр use case
func NewUseCase(leadRepo LeadRepository, logger Logger) *UseCase {
	return &UseCase{
		leadRepo: leadRepo,
		logger:   logger,
	}
}

// Execute сохраняет очередное автосохранение формы
// Первое сохранение сессии создает processing-лид, последующие обновляют его
// на месте. Пустые поля запроса не затирают ранее сохраненные значения.
// Операция безопасна при частых повторных вызовах (автосохранение раз в
// несколько секунд): атомарный upsert по частичному уникальному индексу
func (uc *UseCase) Execute(ctx context.Context, req *Request) (*Response, error) {
	if err := validateRequest(req); err != nil {
		uc.logger.Warn("TrackLead: validation failed: %v", err)
		return nil, err
	}

	patch := domain.LeadPatch{
		CustomerName:  req.CustomerName,
		CustomerEmail: req.CustomerEmail,
		CustomerPhone: req.CustomerPhone,
		ServiceType:   req.ServiceType,
		CompanyID:     req.CompanyID,
		BookingDate:   req.BookingDate,
		StartTime:     req.StartTime,
	}

	result, err := uc.leadRepo.UpsertBySession(ctx, req.SessionID, patch)
	if err != nil {
		uc.logger.Error("TrackLead: failed to upsert lead for session=%s: %v", req.SessionID, err)
		return nil, fmt.Errorf("%w: failed to upsert lead: %v", ErrInternal, err)
	}

	uc.logger.Info("TrackLead: saved lead id=%d for session=%s", result.ID, result.SessionID)

	return &Response{
		LeadID:    result.ID,
		SessionID: result.SessionID,
		Status:    string(result.Status),
		CreatedAt: result.CreatedAt,
		UpdatedAt: result.UpdatedAt,
	}, nil
}

// MarkComplete переводит лид в терминальный статус complete
// Переход разрешен только из processing, повторный вызов - ошибка
func (uc *UseCase) MarkComplete(ctx context.Context, leadID int64) error {
	if leadID <= 0 {
		return fmt.Errorf("%w: leadID must be positive", ErrInvalidInput)
	}

	if err := uc.leadRepo.MarkComplete(ctx, leadID); err != nil {
		if errors.Is(err, leadRepo.ErrLeadNotProcessing) {
			uc.logger.Warn("TrackLead: lead id=%d is not in processing state", leadID)
			return ErrLeadNotProcessing
		}
		uc.logger.Error("TrackLead: failed to complete lead id=%d: %v", leadID, err)
		return fmt.Errorf("%w: failed to complete lead: %v", ErrInternal, err)
	}

	uc.logger.Info("TrackLead: lead id=%d marked complete", leadID)
	return nil
}
