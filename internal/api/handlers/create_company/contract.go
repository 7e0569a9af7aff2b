package create_company

import (
	"context"

	"github.com/m04kA/SMC-LeadBookingService/internal/service/companies/models"
)

type CompanyService interface {
	Create(ctx context.Context, req *models.CreateCompanyRequest) (*models.CompanyResponse, error)
}

type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
