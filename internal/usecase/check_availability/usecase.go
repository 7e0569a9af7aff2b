package check_availability

import (
	"context"
	"fmt"

	"github.com/m04kA/SMC-LeadBookingService/internal/domain"
)

// UseCase use case проверки занятости слота
type UseCase struct {
	bookingRepo BookingRepository
	logger      Logger
}

// NewUseCase создает новый экземпляр use case
func NewUseCase(bookingRepo BookingRepository, logger Logger) *UseCase {
	return &UseCase{
		bookingRepo: bookingRepo,
		logger:      logger,
	}
}

// Execute проверяет, занят ли слот активным бронированием
// Слот считается занятым при наличии хотя бы одного бронирования
// в статусе pending или confirmed на точное совпадение компании, даты и времени
func (uc *UseCase) Execute(ctx context.Context, req *Request) (*Response, error) {
	if err := validateRequest(req); err != nil {
		uc.logger.Warn("CheckAvailability: validation failed: %v", err)
		return nil, err
	}

	count, err := uc.bookingRepo.CountActiveBySlot(ctx, req.CompanyID, req.Date, req.StartTime)
	if err != nil {
		uc.logger.Error("CheckAvailability: failed to count bookings for company=%d date=%s time=%s: %v",
			req.CompanyID, req.Date.Format(domain.DateFormat), req.StartTime, err)
		return nil, fmt.Errorf("%w: failed to count active bookings: %v", ErrStorageUnavailable, err)
	}

	uc.logger.Info("CheckAvailability: company=%d date=%s time=%s booked=%t",
		req.CompanyID, req.Date.Format(domain.DateFormat), req.StartTime, count > 0)

	return &Response{Booked: count > 0}, nil
}
