package get_available_slots

import (
	"context"
	"errors"
	"fmt"

	"github.com/m04kA/SMC-LeadBookingService/internal/domain"
	companyRepo "github.com/m04kA/SMC-LeadBookingService/internal/infra/storage/company"
)

// UseCase use case для получения сетки слотов на день
type UseCase struct {
	bookingRepo  BookingRepository
	companyRepo  CompanyRepository
	timeProvider TimeProvider
	logger       Logger
}

// NewUseCase создает новый экземпляр use case
func NewUseCase(bookingRepo BookingRepository, companyRepo CompanyRepository, logger Logger) *UseCase {
	return &UseCase{
		bookingRepo:  bookingRepo,
		companyRepo:  companyRepo,
		timeProvider: &RealTimeProvider{},
		logger:       logger,
	}
}

// Execute выполняет use case получения сетки слотов
func (uc *UseCase) Execute(ctx context.Context, req *Request) (*Response, error) {
	uc.logger.Info("GetAvailableSlots: company=%d, date=%s",
		req.CompanyID, req.Date.Format(domain.DateFormat))

	// 1. Валидация входных данных
	if err := validateRequest(req); err != nil {
		uc.logger.Warn("GetAvailableSlots: validation failed: %v", err)
		return nil, err
	}

	now := uc.timeProvider.Now()

	// 2. Получаем компанию
	company, err := uc.companyRepo.GetByID(ctx, req.CompanyID)
	if err != nil {
		if errors.Is(err, companyRepo.ErrCompanyNotFound) {
			uc.logger.Warn("GetAvailableSlots: company id=%d not found", req.CompanyID)
			return nil, ErrCompanyNotFound
		}
		uc.logger.Error("GetAvailableSlots: failed to get company id=%d: %v", req.CompanyID, err)
		return nil, fmt.Errorf("%w: failed to get company: %v", ErrInternal, err)
	}

	// 3. Неактивная компания не принимает записи - слотов нет
	if !company.IsActive() {
		uc.logger.Info("GetAvailableSlots: company id=%d is inactive", req.CompanyID)
		return &Response{CompanyID: req.CompanyID, Date: req.Date, Slots: []Slot{}}, nil
	}

	// 4. Генерируем сетку слотов на день
	timeSlots, err := generateTimeSlots(company, req.Date, now)
	if err != nil {
		uc.logger.Error("GetAvailableSlots: failed to generate time slots: %v", err)
		return nil, fmt.Errorf("%w: failed to generate time slots: %v", ErrInternal, err)
	}

	if len(timeSlots) == 0 {
		uc.logger.Info("GetAvailableSlots: no slots for company=%d on %s",
			req.CompanyID, req.Date.Format(domain.DateFormat))
		return &Response{CompanyID: req.CompanyID, Date: req.Date, Slots: []Slot{}}, nil
	}

	// 5. Получаем активные бронирования на эту дату
	filter := domain.CompanyBookingsFilter{
		CompanyID:       req.CompanyID,
		Date:            &req.Date,
		IncludeInactive: false,
	}

	bookings, err := uc.bookingRepo.GetByCompanyWithFilter(ctx, filter)
	if err != nil {
		uc.logger.Error("GetAvailableSlots: failed to get bookings: %v", err)
		return nil, fmt.Errorf("%w: failed to get bookings: %v", ErrInternal, err)
	}

	// 6. Размечаем занятость слотов
	slots := markBookedSlots(timeSlots, company.SlotDurationMinutes, bookings)

	uc.logger.Info("GetAvailableSlots: generated %d slots for company=%d, date=%s",
		len(slots), req.CompanyID, req.Date.Format(domain.DateFormat))

	return &Response{
		CompanyID: req.CompanyID,
		Date:      req.Date,
		Slots:     slots,
	}, nil
}
