package sessions

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/m04kA/SMC-LeadBookingService/internal/domain"
)

// Service сервис журнала закрытий сессий
// Запись о закрытии живет ограниченное время (retention) и нужна только
// для сверки лидов; протухшие записи периодически удаляются
type Service struct {
	terminationRepo TerminationRepository
	retention       time.Duration
	timeProvider    TimeProvider
	logger          Logger
}

// NewService создает новый экземпляр сервиса
func NewService(terminationRepo TerminationRepository, retention time.Duration, logger Logger) *Service {
	if retention <= 0 {
		retention = domain.DefaultTerminationRetention
	}

	return &Service{
		terminationRepo: terminationRepo,
		retention:       retention,
		timeProvider:    &RealTimeProvider{},
		logger:          logger,
	}
}

// RecordTermination фиксирует закрытие сессии формы
// Запись write-once: повторный сигнал той же сессии сохраняет самое
// раннее время закрытия
func (s *Service) RecordTermination(ctx context.Context, sessionID string) error {
	if strings.TrimSpace(sessionID) == "" {
		return fmt.Errorf("%w: sessionID is required", ErrInvalidInput)
	}
	if len(sessionID) > domain.MaxSessionIDLength {
		return fmt.Errorf("%w: sessionID is too long", ErrInvalidInput)
	}

	now := s.timeProvider.Now()

	termination := &domain.SessionTermination{
		SessionID:    sessionID,
		TerminatedAt: now,
		ExpiresAt:    now.Add(s.retention),
	}

	if err := s.terminationRepo.Record(ctx, termination); err != nil {
		s.logger.Error("RecordTermination: repository error for session=%s: %v", sessionID, err)
		return fmt.Errorf("%w: RecordTermination - repository error: %v", ErrInternal, err)
	}

	s.logger.Info("RecordTermination: session=%s terminated at %s", sessionID, now.Format(time.RFC3339))
	return nil
}

// PurgeExpired удаляет протухшие записи о закрытиях
// Запускается периодическим воркером
func (s *Service) PurgeExpired(ctx context.Context) (int64, error) {
	purged, err := s.terminationRepo.PurgeExpired(ctx, s.timeProvider.Now())
	if err != nil {
		s.logger.Error("PurgeExpired: repository error: %v", err)
		return 0, fmt.Errorf("%w: PurgeExpired - repository error: %v", ErrInternal, err)
	}

	if purged > 0 {
		s.logger.Info("PurgeExpired: removed %d expired termination records", purged)
	}

	return purged, nil
}
