package companies

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/m04kA/SMC-LeadBookingService/internal/domain"
	companyRepo "github.com/m04kA/SMC-LeadBookingService/internal/infra/storage/company"
	"github.com/m04kA/SMC-LeadBookingService/internal/service/companies/models"
)

// Service сервис для работы с компаниями
type Service struct {
	companyRepo CompanyRepository
	logger      Logger
}

// NewService создает новый экземпляр сервиса компаний
func NewService(companyRepo CompanyRepository, logger Logger) *Service {
	return &Service{
		companyRepo: companyRepo,
		logger:      logger,
	}
}

// Create создает новую компанию
func (s *Service) Create(ctx context.Context, req *models.CreateCompanyRequest) (*models.CompanyResponse, error) {
	s.logger.Info("Create: creating company %q", req.Name)

	company, err := s.buildCompany(req)
	if err != nil {
		s.logger.Warn("Create: validation failed for company %q: %v", req.Name, err)
		return nil, err
	}

	created, err := s.companyRepo.Create(ctx, company)
	if err != nil {
		s.logger.Error("Create: repository error for company %q: %v", req.Name, err)
		return nil, fmt.Errorf("%w: Create - repository error: %v", ErrInternal, err)
	}

	s.logger.Info("Create: successfully created company id=%d", created.ID)
	return models.FromDomainCompany(created), nil
}

// GetByID получает компанию по ID
func (s *Service) GetByID(ctx context.Context, id int64) (*models.CompanyResponse, error) {
	company, err := s.companyRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, companyRepo.ErrCompanyNotFound) {
			s.logger.Warn("GetByID: company id=%d not found", id)
			return nil, ErrCompanyNotFound
		}
		s.logger.Error("GetByID: repository error for company id=%d: %v", id, err)
		return nil, fmt.Errorf("%w: GetByID - repository error: %v", ErrInternal, err)
	}

	return models.FromDomainCompany(company), nil
}

// List возвращает список компаний, опционально фильтруя по статусу
func (s *Service) List(ctx context.Context, status *string) (*models.CompanyListResponse, error) {
	var domainStatus *domain.CompanyStatus
	if status != nil {
		parsed, err := models.ToDomainCompanyStatus(*status)
		if err != nil {
			s.logger.Warn("List: invalid status filter %q", *status)
			return nil, fmt.Errorf("%w: %v", ErrInvalidInput, err)
		}
		domainStatus = &parsed
	}

	companies, err := s.companyRepo.List(ctx, domainStatus)
	if err != nil {
		s.logger.Error("List: repository error: %v", err)
		return nil, fmt.Errorf("%w: List - repository error: %v", ErrInternal, err)
	}

	return models.FromDomainCompanyList(companies), nil
}

// Update обновляет компанию; nil-поля запроса не изменяются
func (s *Service) Update(ctx context.Context, id int64, req *models.UpdateCompanyRequest) (*models.CompanyResponse, error) {
	s.logger.Info("Update: updating company id=%d", id)

	company, err := s.companyRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, companyRepo.ErrCompanyNotFound) {
			s.logger.Warn("Update: company id=%d not found", id)
			return nil, ErrCompanyNotFound
		}
		s.logger.Error("Update: repository error for company id=%d: %v", id, err)
		return nil, fmt.Errorf("%w: Update - repository error: %v", ErrInternal, err)
	}

	if err := s.applyPatch(company, req); err != nil {
		s.logger.Warn("Update: validation failed for company id=%d: %v", id, err)
		return nil, err
	}

	if err := s.validateCompany(company); err != nil {
		s.logger.Warn("Update: invariant check failed for company id=%d: %v", id, err)
		return nil, err
	}

	if err := s.companyRepo.Update(ctx, company); err != nil {
		if errors.Is(err, companyRepo.ErrCompanyNotFound) {
			return nil, ErrCompanyNotFound
		}
		s.logger.Error("Update: repository error for company id=%d: %v", id, err)
		return nil, fmt.Errorf("%w: Update - repository error: %v", ErrInternal, err)
	}

	updated, err := s.companyRepo.GetByID(ctx, id)
	if err != nil {
		s.logger.Error("Update: failed to reload company id=%d: %v", id, err)
		return nil, fmt.Errorf("%w: Update - failed to reload company: %v", ErrInternal, err)
	}

	s.logger.Info("Update: successfully updated company id=%d", id)
	return models.FromDomainCompany(updated), nil
}

// buildCompany собирает domain модель из запроса на создание
func (s *Service) buildCompany(req *models.CreateCompanyRequest) (*domain.Company, error) {
	if strings.TrimSpace(req.Name) == "" {
		return nil, fmt.Errorf("%w: name is required", ErrInvalidInput)
	}

	openTime, err := models.ParseTimeOfDay(req.OpenTime)
	if err != nil {
		return nil, fmt.Errorf("%w: invalid openTime: %v", ErrInvalidInput, err)
	}

	closeTime, err := models.ParseTimeOfDay(req.CloseTime)
	if err != nil {
		return nil, fmt.Errorf("%w: invalid closeTime: %v", ErrInvalidInput, err)
	}

	weekdays, err := models.ToDomainWeekdays(req.ActiveWeekdays)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidInput, err)
	}

	company := &domain.Company{
		Name:                strings.TrimSpace(req.Name),
		ContactEmail:        req.ContactEmail,
		ContactPhone:        req.ContactPhone,
		OpenTime:            openTime,
		CloseTime:           closeTime,
		SlotDurationMinutes: req.SlotDurationMinutes,
		ActiveWeekdays:      weekdays,
		Status:              domain.CompanyActive,
	}

	if company.SlotDurationMinutes == 0 {
		company.SlotDurationMinutes = domain.DefaultSlotDurationMinutes
	}

	if err := s.validateCompany(company); err != nil {
		return nil, err
	}

	return company, nil
}

// applyPatch применяет частичное обновление к domain модели
func (s *Service) applyPatch(company *domain.Company, req *models.UpdateCompanyRequest) error {
	if req.Name != nil {
		if strings.TrimSpace(*req.Name) == "" {
			return fmt.Errorf("%w: name must not be empty", ErrInvalidInput)
		}
		company.Name = strings.TrimSpace(*req.Name)
	}
	if req.ContactEmail != nil {
		company.ContactEmail = *req.ContactEmail
	}
	if req.ContactPhone != nil {
		company.ContactPhone = *req.ContactPhone
	}
	if req.OpenTime != nil {
		openTime, err := models.ParseTimeOfDay(*req.OpenTime)
		if err != nil {
			return fmt.Errorf("%w: invalid openTime: %v", ErrInvalidInput, err)
		}
		company.OpenTime = openTime
	}
	if req.CloseTime != nil {
		closeTime, err := models.ParseTimeOfDay(*req.CloseTime)
		if err != nil {
			return fmt.Errorf("%w: invalid closeTime: %v", ErrInvalidInput, err)
		}
		company.CloseTime = closeTime
	}
	if req.SlotDurationMinutes != nil {
		company.SlotDurationMinutes = *req.SlotDurationMinutes
	}
	if req.ActiveWeekdays != nil {
		weekdays, err := models.ToDomainWeekdays(*req.ActiveWeekdays)
		if err != nil {
			return fmt.Errorf("%w: %v", ErrInvalidInput, err)
		}
		company.ActiveWeekdays = weekdays
	}
	if req.Status != nil {
		status, err := models.ToDomainCompanyStatus(*req.Status)
		if err != nil {
			return fmt.Errorf("%w: %v", ErrInvalidInput, err)
		}
		company.Status = status
	}

	return nil
}

// validateCompany проверяет инварианты компании
func (s *Service) validateCompany(company *domain.Company) error {
	if !company.OpenTime.IsBefore(company.CloseTime) {
		return fmt.Errorf("%w: openTime must be before closeTime", ErrInvalidInput)
	}

	if company.SlotDurationMinutes < domain.MinSlotDurationMinutes ||
		company.SlotDurationMinutes > domain.MaxSlotDurationMinutes {
		return fmt.Errorf("%w: slotDurationMinutes must be between %d and %d",
			ErrInvalidInput, domain.MinSlotDurationMinutes, domain.MaxSlotDurationMinutes)
	}

	if len(company.ActiveWeekdays) == 0 {
		return fmt.Errorf("%w: activeWeekdays must not be empty", ErrInvalidInput)
	}

	return nil
}
