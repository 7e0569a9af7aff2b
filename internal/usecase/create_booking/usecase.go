package create_booking

import (
	"context"
	"errors"
	"fmt"

	"github.com/m04kA/SMC-LeadBookingService/internal/domain"
	bookingRepo "github.com/m04kA/SMC-LeadBookingService/internal/infra/storage/booking"
	companyRepo "github.com/m04kA/SMC-LeadBookingService/internal/infra/storage/company"
	"github.com/m04kA/SMC-LeadBookingService/internal/infra/tasks"
)

// UseCase use case для создания бронирования
type UseCase struct {
	bookingRepo  BookingRepository
	companyRepo  CompanyRepository
	leadRepo     LeadRepository
	scheduler    TaskScheduler
	txManager    TransactionManager
	timeProvider TimeProvider
	logger       Logger
}

// NewUseCase создает новый экземпляр use case
func NewUseCase(
	bookingRepo BookingRepository,
	companyRepo CompanyRepository,
	leadRepo LeadRepository,
	scheduler TaskScheduler,
	txManager TransactionManager,
	logger Logger,
) *UseCase {
	return &UseCase{
		bookingRepo:  bookingRepo,
		companyRepo:  companyRepo,
		leadRepo:     leadRepo,
		scheduler:    scheduler,
		txManager:    txManager,
		timeProvider: &RealTimeProvider{},
		logger:       logger,
	}
}

// Execute выполняет use case создания бронирования
// Использует сериализуемую транзакцию для предотвращения гонки данных
// при одновременном бронировании одного слота
func (uc *UseCase) Execute(ctx context.Context, req *Request) (*Response, error) {
	uc.logger.Info("CreateBooking: company=%d, date=%s, time=%s",
		req.CompanyID, req.Date.Format(domain.DateFormat), req.StartTime)

	// 1. Валидация входных данных
	if err := validateRequest(req); err != nil {
		uc.logger.Warn("CreateBooking: validation failed: %v", err)
		return nil, err
	}

	now := uc.timeProvider.Now()

	// 2. Дата не должна быть в прошлом
	if err := validateDate(req.Date, now); err != nil {
		uc.logger.Warn("CreateBooking: date validation failed: %v", err)
		return nil, err
	}

	// 3. Получаем компанию
	company, err := uc.companyRepo.GetByID(ctx, req.CompanyID)
	if err != nil {
		if errors.Is(err, companyRepo.ErrCompanyNotFound) {
			uc.logger.Warn("CreateBooking: company id=%d not found", req.CompanyID)
			return nil, ErrCompanyNotFound
		}
		uc.logger.Error("CreateBooking: failed to get company id=%d: %v", req.CompanyID, err)
		return nil, fmt.Errorf("%w: failed to get company: %v", ErrInternal, err)
	}

	if !company.IsActive() {
		uc.logger.Warn("CreateBooking: company id=%d is inactive", req.CompanyID)
		return nil, ErrCompanyInactive
	}

	// 4. Слот должен попадать в рабочее окно и на границу сетки
	if err := validateSlot(company, req); err != nil {
		uc.logger.Warn("CreateBooking: slot validation failed: %v", err)
		return nil, err
	}

	var result *domain.Booking

	// 5. Проверка занятости и вставка выполняются в сериализуемой транзакции
	err = uc.txManager.DoSerializable(ctx, func(txCtx context.Context) error {
		// 5.1. Читаем активные бронирования дня с блокировкой (FOR UPDATE)
		filter := domain.CompanyBookingsFilter{
			CompanyID:       req.CompanyID,
			Date:            &req.Date,
			IncludeInactive: false,
		}

		dayBookings, err := uc.bookingRepo.GetByCompanyWithFilter(txCtx, filter)
		if err != nil {
			uc.logger.Error("CreateBooking: failed to get day bookings: %v", err)
			return fmt.Errorf("%w: failed to get day bookings: %v", ErrInternal, err)
		}

		// 5.2. Проверяем конфликт по точному совпадению времени начала
		if hasSlotConflict(dayBookings, req) {
			uc.logger.Warn("CreateBooking: slot %s on %s is already taken for company=%d",
				req.StartTime, req.Date.Format(domain.DateFormat), req.CompanyID)
			return ErrSlotNotAvailable
		}

		// 5.3. Создаем бронирование
		booking := &domain.Booking{
			CompanyID:     req.CompanyID,
			ServiceType:   req.ServiceType,
			BookingDate:   req.Date,
			StartTime:     req.StartTime,
			Status:        domain.StatusConfirmed,
			CustomerName:  req.CustomerName,
			CustomerEmail: req.CustomerEmail,
			CustomerPhone: req.CustomerPhone,
			SessionID:     req.SessionID,
			Notes:         req.Notes,
		}

		created, err := uc.bookingRepo.Create(txCtx, booking)
		if err != nil {
			// Частичный уникальный индекс дублирует проверку конфликта
			// на случай гонки между транзакциями
			if errors.Is(err, bookingRepo.ErrSlotTaken) {
				return ErrSlotNotAvailable
			}
			uc.logger.Error("CreateBooking: failed to create booking: %v", err)
			return fmt.Errorf("%w: failed to create booking: %v", ErrInternal, err)
		}

		result = created
		return nil
	})

	if err != nil {
		return nil, err
	}

	uc.logger.Info("CreateBooking: successfully created booking id=%d", result.ID)

	// 6. Завершаем незавершенный лид той же сессии: форма доведена до конца
	if req.SessionID != nil {
		completed, err := uc.leadRepo.CompleteBySession(ctx, *req.SessionID)
		if err != nil {
			uc.logger.Error("CreateBooking: failed to complete lead for session=%s: %v", *req.SessionID, err)
		} else if completed {
			uc.logger.Info("CreateBooking: completed lead for session=%s", *req.SessionID)
		}
	}

	// 7. Ставим задачу выгрузки бронирования во внешний webhook
	if _, err := uc.scheduler.ScheduleOnce(0, tasks.KindBookingSync, tasks.BookingSyncArgs{BookingID: result.ID}); err != nil {
		// Бронирование уже создано, выгрузка осталась в статусе pending в БД
		uc.logger.Error("CreateBooking: failed to schedule sync for booking id=%d: %v", result.ID, err)
	}

	return &Response{
		ID:            result.ID,
		CompanyID:     result.CompanyID,
		ServiceType:   result.ServiceType,
		BookingDate:   result.BookingDate,
		StartTime:     result.StartTime,
		Status:        string(result.Status),
		CustomerName:  result.CustomerName,
		CustomerEmail: result.CustomerEmail,
		CustomerPhone: result.CustomerPhone,
		SessionID:     result.SessionID,
		Notes:         result.Notes,
		CreatedAt:     result.CreatedAt,
		UpdatedAt:     result.UpdatedAt,
	}, nil
}
