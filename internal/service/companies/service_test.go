package companies

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/m04kA/SMC-LeadBookingService/internal/domain"
	"github.com/m04kA/SMC-LeadBookingService/internal/service/companies/models"
	"github.com/m04kA/SMC-LeadBookingService/pkg/ptr"
)

type stubLogger struct{}

func (stubLogger) Info(format string, v ...interface{})  {}
func (stubLogger) Warn(format string, v ...interface{})  {}
func (stubLogger) Error(format string, v ...interface{}) {}

type stubCompanyRepo struct {
	company *domain.Company
	err     error

	created *domain.Company
	updated *domain.Company
}

func (r *stubCompanyRepo) Create(ctx context.Context, company *domain.Company) (*domain.Company, error) {
	if r.err != nil {
		return nil, r.err
	}
	created := *company
	created.ID = 1
	r.created = &created
	return &created, nil
}

func (r *stubCompanyRepo) GetByID(ctx context.Context, id int64) (*domain.Company, error) {
	if r.err != nil {
		return nil, r.err
	}
	if r.updated != nil {
		return r.updated, nil
	}
	return r.company, nil
}

func (r *stubCompanyRepo) List(ctx context.Context, status *domain.CompanyStatus) ([]*domain.Company, error) {
	return []*domain.Company{r.company}, nil
}

func (r *stubCompanyRepo) Update(ctx context.Context, company *domain.Company) error {
	r.updated = company
	return nil
}

func validCreateRequest() *models.CreateCompanyRequest {
	return &models.CreateCompanyRequest{
		Name:                "Glow Med Spa",
		ContactEmail:        "hello@glow.example.com",
		OpenTime:            "09:00",
		CloseTime:           "18:00",
		SlotDurationMinutes: 30,
		ActiveWeekdays:      []string{"monday", "tuesday", "wednesday"},
	}
}

func TestCreate(t *testing.T) {
	repo := &stubCompanyRepo{}
	svc := NewService(repo, stubLogger{})

	resp, err := svc.Create(context.Background(), validCreateRequest())

	require.NoError(t, err)
	assert.Equal(t, int64(1), resp.ID)
	assert.Equal(t, "09:00", resp.OpenTime)
	assert.Equal(t, []string{"monday", "tuesday", "wednesday"}, resp.ActiveWeekdays)
	assert.Equal(t, string(domain.CompanyActive), resp.Status)
}

func TestCreate_Validation(t *testing.T) {
	svc := NewService(&stubCompanyRepo{}, stubLogger{})

	tests := []struct {
		name   string
		mutate func(r *models.CreateCompanyRequest)
	}{
		{"empty name", func(r *models.CreateCompanyRequest) { r.Name = " " }},
		{"open after close", func(r *models.CreateCompanyRequest) { r.OpenTime = "19:00" }},
		{"open equals close", func(r *models.CreateCompanyRequest) { r.OpenTime = "18:00" }},
		{"bad time format", func(r *models.CreateCompanyRequest) { r.OpenTime = "9am" }},
		{"unknown weekday", func(r *models.CreateCompanyRequest) { r.ActiveWeekdays = []string{"someday"} }},
		{"no weekdays", func(r *models.CreateCompanyRequest) { r.ActiveWeekdays = nil }},
		{"slot too short", func(r *models.CreateCompanyRequest) { r.SlotDurationMinutes = 1 }},
		{"slot too long", func(r *models.CreateCompanyRequest) { r.SlotDurationMinutes = 600 }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := validCreateRequest()
			tt.mutate(req)

			_, err := svc.Create(context.Background(), req)

			require.Error(t, err)
			assert.ErrorIs(t, err, ErrInvalidInput)
		})
	}
}

func TestCreate_DefaultSlotDuration(t *testing.T) {
	repo := &stubCompanyRepo{}
	svc := NewService(repo, stubLogger{})
	req := validCreateRequest()
	req.SlotDurationMinutes = 0

	resp, err := svc.Create(context.Background(), req)

	require.NoError(t, err)
	assert.Equal(t, domain.DefaultSlotDurationMinutes, resp.SlotDurationMinutes)
}

func TestUpdate_PartialPatch(t *testing.T) {
	repo := &stubCompanyRepo{company: &domain.Company{
		ID:                  1,
		Name:                "Glow Med Spa",
		OpenTime:            "09:00",
		CloseTime:           "18:00",
		SlotDurationMinutes: 30,
		ActiveWeekdays:      []time.Weekday{time.Monday},
		Status:              domain.CompanyActive,
	}}
	svc := NewService(repo, stubLogger{})

	resp, err := svc.Update(context.Background(), 1, &models.UpdateCompanyRequest{
		CloseTime: ptr.Ptr("20:00"),
		Status:    ptr.Ptr("inactive"),
	})

	require.NoError(t, err)
	assert.Equal(t, "20:00", resp.CloseTime)
	assert.Equal(t, string(domain.CompanyInactive), resp.Status)
	// Остальные поля не изменились
	assert.Equal(t, "Glow Med Spa", resp.Name)
	assert.Equal(t, "09:00", resp.OpenTime)
}

func TestUpdate_InvariantViolation(t *testing.T) {
	repo := &stubCompanyRepo{company: &domain.Company{
		ID:                  1,
		Name:                "Glow Med Spa",
		OpenTime:            "09:00",
		CloseTime:           "18:00",
		SlotDurationMinutes: 30,
		ActiveWeekdays:      []time.Weekday{time.Monday},
		Status:              domain.CompanyActive,
	}}
	svc := NewService(repo, stubLogger{})

	_, err := svc.Update(context.Background(), 1, &models.UpdateCompanyRequest{
		OpenTime: ptr.Ptr("19:00"),
	})

	require.Error(t, err)
	assert.ErrorIs(t, err, ErrInvalidInput)
}
