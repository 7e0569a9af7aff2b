package companies

import (
	"context"

	"github.com/m04kA/SMC-LeadBookingService/internal/domain"
)

// CompanyRepository интерфейс репозитория компаний
type CompanyRepository interface {
	Create(ctx context.Context, company *domain.Company) (*domain.Company, error)
	GetByID(ctx context.Context, id int64) (*domain.Company, error)
	List(ctx context.Context, status *domain.CompanyStatus) ([]*domain.Company, error)
	Update(ctx context.Context, company *domain.Company) error
}

// Logger интерфейс для логирования
type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
