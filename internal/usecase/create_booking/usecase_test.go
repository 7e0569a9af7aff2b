package create_booking

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/m04kA/SMC-LeadBookingService/internal/domain"
	bookingRepo "github.com/m04kA/SMC-LeadBookingService/internal/infra/storage/booking"
	"github.com/m04kA/SMC-LeadBookingService/internal/infra/tasks"
	"github.com/m04kA/SMC-LeadBookingService/pkg/ptr"
	"github.com/m04kA/SMC-LeadBookingService/pkg/types"
)

type stubLogger struct{}

func (stubLogger) Info(format string, v ...interface{})  {}
func (stubLogger) Warn(format string, v ...interface{})  {}
func (stubLogger) Error(format string, v ...interface{}) {}

type stubBookingRepo struct {
	dayBookings []*domain.Booking
	createErr   error
	created     *domain.Booking
}

func (r *stubBookingRepo) Create(ctx context.Context, booking *domain.Booking) (*domain.Booking, error) {
	if r.createErr != nil {
		return nil, r.createErr
	}
	created := *booking
	created.ID = 101
	created.CreatedAt = time.Date(2026, 9, 1, 12, 0, 0, 0, time.UTC)
	created.UpdatedAt = created.CreatedAt
	r.created = &created
	return &created, nil
}

func (r *stubBookingRepo) GetByCompanyWithFilter(ctx context.Context, filter domain.CompanyBookingsFilter) ([]*domain.Booking, error) {
	return r.dayBookings, nil
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

type stubLeadRepo struct {
	completedSessions []string
}

func (r *stubLeadRepo) CompleteBySession(ctx context.Context, sessionID string) (bool, error) {
	r.completedSessions = append(r.completedSessions, sessionID)
	return true, nil
}

type stubScheduler struct {
	kinds []string
	args  []interface{}
}

func (s *stubScheduler) ScheduleOnce(delay time.Duration, kind string, args interface{}) (uuid.UUID, error) {
	s.kinds = append(s.kinds, kind)
	s.args = append(s.args, args)
	return uuid.New(), nil
}

type passthroughTxManager struct{}

func (passthroughTxManager) DoSerializable(ctx context.Context, fn func(ctx context.Context) error) error {
	return fn(ctx)
}

type fixedTime struct {
	now time.Time
}

func (f fixedTime) Now() time.Time { return f.now }

type fixture struct {
	uc        *UseCase
	bookings  *stubBookingRepo
	companies *stubCompanyRepo
	leads     *stubLeadRepo
	scheduler *stubScheduler
}

func testCompany() *domain.Company {
	return &domain.Company{
		ID:                  1,
		Name:                "Glow Med Spa",
		OpenTime:            "09:00",
		CloseTime:           "18:00",
		SlotDurationMinutes: 30,
		ActiveWeekdays: []time.Weekday{
			time.Monday, time.Tuesday, time.Wednesday, time.Thursday, time.Friday,
		},
		Status: domain.CompanyActive,
	}
}

func newFixture() *fixture {
	f := &fixture{
		bookings:  &stubBookingRepo{},
		companies: &stubCompanyRepo{company: testCompany()},
		leads:     &stubLeadRepo{},
		scheduler: &stubScheduler{},
	}
	f.uc = NewUseCase(f.bookings, f.companies, f.leads, f.scheduler, passthroughTxManager{}, stubLogger{})
	f.uc.timeProvider = fixedTime{now: time.Date(2026, 9, 1, 12, 0, 0, 0, time.UTC)}
	return f
}

func validRequest() *Request {
	return &Request{
		CompanyID:     1,
		ServiceType:   "facial",
		Date:          time.Date(2026, 9, 15, 0, 0, 0, 0, time.UTC), // вторник
		StartTime:     "10:00",
		CustomerName:  "Jane Doe",
		CustomerEmail: "jane@example.com",
		CustomerPhone: "+15550001122",
		SessionID:     ptr.Ptr("sess-abc"),
	}
}

func TestExecute_Success(t *testing.T) {
	f := newFixture()

	resp, err := f.uc.Execute(context.Background(), validRequest())

	require.NoError(t, err)
	assert.Equal(t, int64(101), resp.ID)
	assert.Equal(t, string(domain.StatusConfirmed), resp.Status)
	assert.Equal(t, types.TimeString("10:00"), resp.StartTime)

	// Лид той же сессии завершается, выгрузка ставится в очередь
	assert.Equal(t, []string{"sess-abc"}, f.leads.completedSessions)
	require.Equal(t, []string{tasks.KindBookingSync}, f.scheduler.kinds)
	assert.Equal(t, tasks.BookingSyncArgs{BookingID: 101}, f.scheduler.args[0])
}

func TestExecute_WithoutSession(t *testing.T) {
	f := newFixture()
	req := validRequest()
	req.SessionID = nil

	resp, err := f.uc.Execute(context.Background(), req)

	require.NoError(t, err)
	assert.Nil(t, resp.SessionID)
	assert.Empty(t, f.leads.completedSessions)
	assert.Equal(t, []string{tasks.KindBookingSync}, f.scheduler.kinds)
}

func TestExecute_SlotConflict(t *testing.T) {
	f := newFixture()
	f.bookings.dayBookings = []*domain.Booking{
		{ID: 7, CompanyID: 1, StartTime: "10:00", Status: domain.StatusConfirmed},
	}

	resp, err := f.uc.Execute(context.Background(), validRequest())

	require.Error(t, err)
	assert.Nil(t, resp)
	assert.ErrorIs(t, err, ErrSlotNotAvailable)
	assert.Nil(t, f.bookings.created)
	assert.Empty(t, f.scheduler.kinds)
}

func TestExecute_CancelledBookingDoesNotBlockSlot(t *testing.T) {
	f := newFixture()
	f.bookings.dayBookings = []*domain.Booking{
		{ID: 7, CompanyID: 1, StartTime: "10:00", Status: domain.StatusCancelled},
	}

	resp, err := f.uc.Execute(context.Background(), validRequest())

	require.NoError(t, err)
	assert.Equal(t, int64(101), resp.ID)
}

func TestExecute_UniqueIndexRace(t *testing.T) {
	// Конкурентная транзакция успела занять слот между чтением и вставкой
	f := newFixture()
	f.bookings.createErr = bookingRepo.ErrSlotTaken

	resp, err := f.uc.Execute(context.Background(), validRequest())

	require.Error(t, err)
	assert.Nil(t, resp)
	assert.ErrorIs(t, err, ErrSlotNotAvailable)
}

func TestExecute_MisalignedTime(t *testing.T) {
	f := newFixture()
	req := validRequest()
	req.StartTime = "10:15"

	_, err := f.uc.Execute(context.Background(), req)

	require.Error(t, err)
	assert.ErrorIs(t, err, ErrInvalidTimeSlot)
}

func TestExecute_OutsideWorkingHours(t *testing.T) {
	f := newFixture()
	req := validRequest()
	req.StartTime = "18:30"

	_, err := f.uc.Execute(context.Background(), req)

	require.Error(t, err)
	assert.ErrorIs(t, err, ErrInvalidTimeSlot)
}

func TestExecute_ClosedWeekday(t *testing.T) {
	f := newFixture()
	req := validRequest()
	req.Date = time.Date(2026, 9, 13, 0, 0, 0, 0, time.UTC) // воскресенье

	_, err := f.uc.Execute(context.Background(), req)

	require.Error(t, err)
	assert.ErrorIs(t, err, ErrCompanyClosed)
}

func TestExecute_PastDate(t *testing.T) {
	f := newFixture()
	req := validRequest()
	req.Date = time.Date(2026, 8, 20, 0, 0, 0, 0, time.UTC)

	_, err := f.uc.Execute(context.Background(), req)

	require.Error(t, err)
	assert.ErrorIs(t, err, ErrInvalidDate)
}

func TestExecute_InactiveCompany(t *testing.T) {
	f := newFixture()
	f.companies.company.Status = domain.CompanyInactive

	_, err := f.uc.Execute(context.Background(), validRequest())

	require.Error(t, err)
	assert.ErrorIs(t, err, ErrCompanyInactive)
}

func TestExecute_Validation(t *testing.T) {
	f := newFixture()

	tests := []struct {
		name   string
		mutate func(r *Request)
	}{
		{"zero company id", func(r *Request) { r.CompanyID = 0 }},
		{"empty customer name", func(r *Request) { r.CustomerName = "  " }},
		{"no contacts", func(r *Request) { r.CustomerEmail = ""; r.CustomerPhone = "" }},
		{"zero date", func(r *Request) { r.Date = time.Time{} }},
		{"empty time", func(r *Request) { r.StartTime = "" }},
		{"malformed time", func(r *Request) { r.StartTime = "ten o'clock" }},
		{"empty session id", func(r *Request) { r.SessionID = ptr.Ptr("") }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := validRequest()
			tt.mutate(req)

			_, err := f.uc.Execute(context.Background(), req)

			require.Error(t, err)
			assert.ErrorIs(t, err, ErrInvalidInput)
		})
	}
}
