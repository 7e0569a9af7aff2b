package recover_pending_syncs

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/m04kA/SMC-LeadBookingService/internal/infra/tasks"
)

type stubLogger struct{}

func (stubLogger) Info(format string, v ...interface{})  {}
func (stubLogger) Warn(format string, v ...interface{})  {}
func (stubLogger) Error(format string, v ...interface{}) {}

type stubTimeProvider struct {
	now time.Time
}

func (p *stubTimeProvider) Now() time.Time {
	return p.now
}

type stubLeadRepo struct {
	ids    []int64
	err    error
	cutoff time.Time
}

func (r *stubLeadRepo) ListPendingSync(ctx context.Context, cutoff time.Time) ([]int64, error) {
	r.cutoff = cutoff
	return r.ids, r.err
}

type stubBookingRepo struct {
	ids    []int64
	err    error
	cutoff time.Time
}

func (r *stubBookingRepo) ListPendingSync(ctx context.Context, cutoff time.Time) ([]int64, error) {
	r.cutoff = cutoff
	return r.ids, r.err
}

type stubScheduler struct {
	err   error
	kinds []string
	args  []interface{}
}

func (s *stubScheduler) ScheduleOnce(delay time.Duration, kind string, args interface{}) (uuid.UUID, error) {
	if s.err != nil {
		return uuid.Nil, s.err
	}
	s.kinds = append(s.kinds, kind)
	s.args = append(s.args, args)
	return uuid.New(), nil
}

type fixture struct {
	uc        *UseCase
	leads     *stubLeadRepo
	bookings  *stubBookingRepo
	scheduler *stubScheduler
	now       time.Time
}

func newFixture() *fixture {
	f := &fixture{
		leads:     &stubLeadRepo{},
		bookings:  &stubBookingRepo{},
		scheduler: &stubScheduler{},
		now:       time.Date(2026, 9, 1, 12, 0, 0, 0, time.UTC),
	}
	f.uc = NewUseCase(f.leads, f.bookings, f.scheduler, stubLogger{})
	f.uc.timeProvider = &stubTimeProvider{now: f.now}
	return f
}

func TestExecute_ReEnqueuesStrandedRecords(t *testing.T) {
	f := newFixture()
	f.leads.ids = []int64{7, 8}
	f.bookings.ids = []int64{3}

	result, err := f.uc.Execute(context.Background(), 10*time.Minute)

	require.NoError(t, err)
	assert.Equal(t, 2, result.LeadsEnqueued)
	assert.Equal(t, 1, result.BookingsEnqueued)

	// Отсечка - grace-окно назад от текущего момента, для обеих таблиц
	assert.Equal(t, f.now.Add(-10*time.Minute), f.leads.cutoff)
	assert.Equal(t, f.now.Add(-10*time.Minute), f.bookings.cutoff)

	require.Equal(t, []string{tasks.KindLeadSync, tasks.KindLeadSync, tasks.KindBookingSync}, f.scheduler.kinds)
	assert.Equal(t, tasks.LeadSyncArgs{LeadID: 7}, f.scheduler.args[0])
	assert.Equal(t, tasks.LeadSyncArgs{LeadID: 8}, f.scheduler.args[1])
	assert.Equal(t, tasks.BookingSyncArgs{BookingID: 3}, f.scheduler.args[2])
}

func TestExecute_NothingStranded(t *testing.T) {
	f := newFixture()

	result, err := f.uc.Execute(context.Background(), 10*time.Minute)

	require.NoError(t, err)
	assert.Zero(t, result.LeadsEnqueued)
	assert.Zero(t, result.BookingsEnqueued)
	assert.Empty(t, f.scheduler.kinds)
}

func TestExecute_ScheduleFailureLeavesRowsForNextPass(t *testing.T) {
	f := newFixture()
	f.leads.ids = []int64{7}
	f.bookings.ids = []int64{3}
	f.scheduler.err = errors.New("queue is stopped")

	result, err := f.uc.Execute(context.Background(), 10*time.Minute)

	// Сбой планирования не ошибка прохода: строки остаются pending
	// и будут подобраны следующим запуском
	require.NoError(t, err)
	assert.Zero(t, result.LeadsEnqueued)
	assert.Zero(t, result.BookingsEnqueued)
}

func TestExecute_InvalidGrace(t *testing.T) {
	f := newFixture()

	_, err := f.uc.Execute(context.Background(), 0)

	require.Error(t, err)
	assert.ErrorIs(t, err, ErrInvalidInput)
}

func TestExecute_LeadRepoError(t *testing.T) {
	f := newFixture()
	f.leads.err = errors.New("connection refused")

	_, err := f.uc.Execute(context.Background(), 10*time.Minute)

	require.Error(t, err)
	assert.ErrorIs(t, err, ErrInternal)
}
