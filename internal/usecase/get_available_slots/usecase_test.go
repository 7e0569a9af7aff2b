package get_available_slots

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/m04kA/SMC-LeadBookingService/internal/domain"
	companyRepo "github.com/m04kA/SMC-LeadBookingService/internal/infra/storage/company"
	"github.com/m04kA/SMC-LeadBookingService/pkg/types"
)

type stubLogger struct{}

func (stubLogger) Info(format string, v ...interface{})  {}
func (stubLogger) Warn(format string, v ...interface{})  {}
func (stubLogger) Error(format string, v ...interface{}) {}

type stubBookingRepo struct {
	bookings []*domain.Booking
	err      error
}

func (r *stubBookingRepo) GetByCompanyWithFilter(ctx context.Context, filter domain.CompanyBookingsFilter) ([]*domain.Booking, error) {
	if r.err != nil {
		return nil, r.err
	}
	return r.bookings, nil
}

type stubCompanyRepo struct {
	company *domain.Company
	err     error
}

func (r *stubCompanyRepo) GetByID(ctx context.Context, id int64) (*domain.Company, error) {
	if r.err != nil {
		return nil, r.err
	}
	return r.company, nil
}

type fixedTime struct {
	now time.Time
}

func (f fixedTime) Now() time.Time { return f.now }

func testCompany() *domain.Company {
	return &domain.Company{
		ID:                  1,
		Name:                "Glow Med Spa",
		OpenTime:            "09:00",
		CloseTime:           "12:00",
		SlotDurationMinutes: 30,
		ActiveWeekdays: []time.Weekday{
			time.Monday, time.Tuesday, time.Wednesday, time.Thursday, time.Friday,
		},
		Status: domain.CompanyActive,
	}
}

func mustDate(t *testing.T, s string) time.Time {
	t.Helper()
	d, err := time.Parse("2006-01-02", s)
	require.NoError(t, err)
	return d
}

func newTestUseCase(bookings *stubBookingRepo, companies *stubCompanyRepo, now time.Time) *UseCase {
	uc := NewUseCase(bookings, companies, stubLogger{})
	uc.timeProvider = fixedTime{now: now}
	return uc
}

func TestExecute_GeneratesGrid(t *testing.T) {
	// 2026-09-15 - вторник
	now := time.Date(2026, 9, 1, 10, 0, 0, 0, time.UTC)
	uc := newTestUseCase(&stubBookingRepo{}, &stubCompanyRepo{company: testCompany()}, now)

	resp, err := uc.Execute(context.Background(), &Request{CompanyID: 1, Date: mustDate(t, "2026-09-15")})

	require.NoError(t, err)
	require.Len(t, resp.Slots, 6)
	assert.Equal(t, types.TimeString("09:00"), resp.Slots[0].StartTime)
	assert.Equal(t, types.TimeString("11:30"), resp.Slots[5].StartTime)
	for _, slot := range resp.Slots {
		assert.Equal(t, 30, slot.DurationMinutes)
		assert.False(t, slot.Booked)
	}
}

func TestExecute_MarksBookedSlots(t *testing.T) {
	now := time.Date(2026, 9, 1, 10, 0, 0, 0, time.UTC)
	bookings := &stubBookingRepo{bookings: []*domain.Booking{
		{ID: 10, CompanyID: 1, StartTime: "10:00", Status: domain.StatusConfirmed},
		{ID: 11, CompanyID: 1, StartTime: "11:00", Status: domain.StatusCancelled},
	}}
	uc := newTestUseCase(bookings, &stubCompanyRepo{company: testCompany()}, now)

	resp, err := uc.Execute(context.Background(), &Request{CompanyID: 1, Date: mustDate(t, "2026-09-15")})

	require.NoError(t, err)
	byStart := make(map[types.TimeString]Slot)
	for _, slot := range resp.Slots {
		byStart[slot.StartTime] = slot
	}
	assert.True(t, byStart["10:00"].Booked)
	// Отмененное бронирование не занимает слот
	assert.False(t, byStart["11:00"].Booked)
}

func TestExecute_ClosedWeekday(t *testing.T) {
	// 2026-09-13 - воскресенье, компания работает Пн-Пт
	now := time.Date(2026, 9, 1, 10, 0, 0, 0, time.UTC)
	uc := newTestUseCase(&stubBookingRepo{}, &stubCompanyRepo{company: testCompany()}, now)

	resp, err := uc.Execute(context.Background(), &Request{CompanyID: 1, Date: mustDate(t, "2026-09-13")})

	require.NoError(t, err)
	assert.Empty(t, resp.Slots)
}

func TestExecute_PastDate(t *testing.T) {
	now := time.Date(2026, 9, 20, 10, 0, 0, 0, time.UTC)
	uc := newTestUseCase(&stubBookingRepo{}, &stubCompanyRepo{company: testCompany()}, now)

	resp, err := uc.Execute(context.Background(), &Request{CompanyID: 1, Date: mustDate(t, "2026-09-15")})

	require.NoError(t, err)
	assert.Empty(t, resp.Slots)
}

func TestExecute_InactiveCompany(t *testing.T) {
	now := time.Date(2026, 9, 1, 10, 0, 0, 0, time.UTC)
	company := testCompany()
	company.Status = domain.CompanyInactive
	uc := newTestUseCase(&stubBookingRepo{}, &stubCompanyRepo{company: company}, now)

	resp, err := uc.Execute(context.Background(), &Request{CompanyID: 1, Date: mustDate(t, "2026-09-15")})

	require.NoError(t, err)
	assert.Empty(t, resp.Slots)
}

func TestExecute_CompanyNotFound(t *testing.T) {
	now := time.Date(2026, 9, 1, 10, 0, 0, 0, time.UTC)
	uc := newTestUseCase(&stubBookingRepo{}, &stubCompanyRepo{err: companyRepo.ErrCompanyNotFound}, now)

	resp, err := uc.Execute(context.Background(), &Request{CompanyID: 99, Date: mustDate(t, "2026-09-15")})

	require.Error(t, err)
	assert.Nil(t, resp)
	assert.ErrorIs(t, err, ErrCompanyNotFound)
}

func TestExecute_PartialSlotDropped(t *testing.T) {
	// Окно 09:00-10:45 при шаге 30 минут: последний полный слот 10:00-10:30,
	// слот 10:30-11:00 не помещается до закрытия и в сетку не попадает
	now := time.Date(2026, 9, 1, 10, 0, 0, 0, time.UTC)
	company := testCompany()
	company.CloseTime = "10:45"
	uc := newTestUseCase(&stubBookingRepo{}, &stubCompanyRepo{company: company}, now)

	resp, err := uc.Execute(context.Background(), &Request{CompanyID: 1, Date: mustDate(t, "2026-09-15")})

	require.NoError(t, err)
	require.Len(t, resp.Slots, 3)
	assert.Equal(t, types.TimeString("10:00"), resp.Slots[2].StartTime)
}
