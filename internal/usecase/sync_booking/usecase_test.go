package sync_booking

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
	"github.com/m04kA/SMC-LeadBookingService/internal/integrations/sheetsync"
	"github.com/m04kA/SMC-LeadBookingService/pkg/ptr"
)

type stubLogger struct{}

func (stubLogger) Info(format string, v ...interface{})  {}
func (stubLogger) Warn(format string, v ...interface{})  {}
func (stubLogger) Error(format string, v ...interface{}) {}

type stubBookingRepo struct {
	booking *domain.Booking

	syncedID     int64
	failureCount int
	failureErr   error
	failedID     int64
}

func (r *stubBookingRepo) GetByID(ctx context.Context, id int64) (*domain.Booking, error) {
	return r.booking, nil
}

func (r *stubBookingRepo) MarkSyncSuccess(ctx context.Context, id int64) error {
	r.syncedID = id
	return nil
}

func (r *stubBookingRepo) RecordSyncFailure(ctx context.Context, id int64, syncErr string) (int, error) {
	if r.failureErr != nil {
		return 0, r.failureErr
	}
	r.failureCount++
	return r.failureCount, nil
}

func (r *stubBookingRepo) MarkSyncFailed(ctx context.Context, id int64) error {
	r.failedID = id
	return nil
}

type stubCompanyRepo struct{}

func (stubCompanyRepo) GetByID(ctx context.Context, id int64) (*domain.Company, error) {
	return &domain.Company{ID: id, Name: "Glow Med Spa"}, nil
}

type stubClient struct {
	err    error
	pushed []*sheetsync.Payload
}

func (c *stubClient) Push(ctx context.Context, payload *sheetsync.Payload) error {
	if c.err != nil {
		return c.err
	}
	c.pushed = append(c.pushed, payload)
	return nil
}

type stubScheduler struct {
	kinds  []string
	delays []time.Duration
}

func (s *stubScheduler) ScheduleOnce(delay time.Duration, kind string, args interface{}) (uuid.UUID, error) {
	s.kinds = append(s.kinds, kind)
	s.delays = append(s.delays, delay)
	return uuid.New(), nil
}

type fixture struct {
	uc        *UseCase
	bookings  *stubBookingRepo
	client    *stubClient
	scheduler *stubScheduler
}

func testBooking() *domain.Booking {
	return &domain.Booking{
		ID:            101,
		CompanyID:     1,
		ServiceType:   "facial",
		BookingDate:   time.Date(2026, 9, 15, 0, 0, 0, 0, time.UTC),
		StartTime:     "10:00",
		Status:        domain.StatusConfirmed,
		CustomerName:  "Jane Doe",
		CustomerEmail: "jane@example.com",
		SessionID:     ptr.Ptr("sess-abc"),
		Sync:          domain.SyncState{Status: domain.SyncPending},
	}
}

func newFixture() *fixture {
	f := &fixture{
		bookings:  &stubBookingRepo{booking: testBooking()},
		client:    &stubClient{},
		scheduler: &stubScheduler{},
	}
	f.uc = NewUseCase(
		f.bookings,
		stubCompanyRepo{},
		f.client,
		f.scheduler,
		domain.DefaultSyncMaxAttempts,
		domain.DefaultSyncRetryDelay,
		stubLogger{},
	)
	return f
}

func TestExecute_PushesBooking(t *testing.T) {
	f := newFixture()

	err := f.uc.Execute(context.Background(), 101)

	require.NoError(t, err)
	assert.Equal(t, int64(101), f.bookings.syncedID)

	require.Len(t, f.client.pushed, 1)
	payload := f.client.pushed[0]
	assert.Equal(t, sheetsync.ActionBooking, payload.Action)
	assert.Equal(t, "sess-abc", payload.SessionID)
	assert.Equal(t, "Glow Med Spa", payload.Company)
	assert.Equal(t, "2026-09-15", payload.BookingDate)
	assert.Equal(t, "10:00", payload.BookingTime)
	assert.Equal(t, string(domain.StatusConfirmed), payload.Status)
}

func TestExecute_TerminalSyncIsNoop(t *testing.T) {
	f := newFixture()
	f.bookings.booking.Sync.Status = domain.SyncSuccess

	err := f.uc.Execute(context.Background(), 101)

	require.NoError(t, err)
	assert.Empty(t, f.client.pushed)
	assert.Zero(t, f.bookings.syncedID)
}

func TestExecute_FailureSchedulesRetry(t *testing.T) {
	f := newFixture()
	f.client.err = sheetsync.ErrTransport

	err := f.uc.Execute(context.Background(), 101)

	require.NoError(t, err)
	require.Equal(t, []string{tasks.KindBookingSync}, f.scheduler.kinds)
	assert.Equal(t, domain.DefaultSyncRetryDelay, f.scheduler.delays[0])
	assert.Zero(t, f.bookings.failedID)
}

func TestExecute_RetryCapExceeded(t *testing.T) {
	f := newFixture()
	f.client.err = sheetsync.ErrTransport
	f.bookings.failureCount = domain.DefaultSyncMaxAttempts - 1

	err := f.uc.Execute(context.Background(), 101)

	require.NoError(t, err)
	assert.Equal(t, int64(101), f.bookings.failedID)
	assert.Empty(t, f.scheduler.kinds)
}

func TestExecute_FailureRaceWithTerminalSync(t *testing.T) {
	f := newFixture()
	f.client.err = sheetsync.ErrTransport
	f.bookings.failureErr = bookingRepo.ErrSyncNotPending

	err := f.uc.Execute(context.Background(), 101)

	// Дубликат задачи проиграл гонку терминальному переходу:
	// счетчик не тронут, повтор не планируется
	require.NoError(t, err)
	assert.Empty(t, f.scheduler.kinds)
	assert.Zero(t, f.bookings.failedID)
}

func TestHandleTask(t *testing.T) {
	f := newFixture()

	err := f.uc.HandleTask(context.Background(), []byte(`{"booking_id": 101}`))

	require.NoError(t, err)
	assert.Equal(t, int64(101), f.bookings.syncedID)
}
