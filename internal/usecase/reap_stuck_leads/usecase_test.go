package reap_stuck_leads

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	leadRepo "github.com/m04kA/SMC-LeadBookingService/internal/infra/storage/lead"
	"github.com/m04kA/SMC-LeadBookingService/internal/infra/tasks"
)

type stubLogger struct{}

func (stubLogger) Info(format string, v ...interface{})  {}
func (stubLogger) Warn(format string, v ...interface{})  {}
func (stubLogger) Error(format string, v ...interface{}) {}

type stubLeadRepo struct {
	reaped []leadRepo.ReapedLead
	err    error

	lastCutoff time.Time
	calls      int
}

func (r *stubLeadRepo) ReapStuck(ctx context.Context, cutoff time.Time) ([]leadRepo.ReapedLead, error) {
	if r.err != nil {
		return nil, r.err
	}
	r.lastCutoff = cutoff
	r.calls++
	if r.calls > 1 {
		// Условный UPDATE уже перевел всё, что было зависшим
		return nil, nil
	}
	return r.reaped, nil
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

type fixedTime struct {
	now time.Time
}

func (f fixedTime) Now() time.Time { return f.now }

func TestExecute_ReapsStuckLeads(t *testing.T) {
	now := time.Date(2026, 9, 1, 12, 0, 0, 0, time.UTC)
	repo := &stubLeadRepo{reaped: []leadRepo.ReapedLead{
		{ID: 55, SessionID: "sess-a"},
		{ID: 56, SessionID: "sess-b"},
	}}
	scheduler := &stubScheduler{}
	uc := NewUseCase(repo, scheduler, stubLogger{})
	uc.timeProvider = fixedTime{now: now}

	result, err := uc.Execute(context.Background(), 10*time.Minute)

	require.NoError(t, err)
	assert.Equal(t, 2, result.LeadsCleaned)
	assert.Equal(t, []string{"sess-a", "sess-b"}, result.SessionsAffected)
	assert.Equal(t, now.Add(-10*time.Minute), repo.lastCutoff)

	// Каждый переведенный лид получает задачу выгрузки
	require.Equal(t, []string{tasks.KindLeadSync, tasks.KindLeadSync}, scheduler.kinds)
	assert.Equal(t, tasks.LeadSyncArgs{LeadID: 55}, scheduler.args[0])
	assert.Equal(t, tasks.LeadSyncArgs{LeadID: 56}, scheduler.args[1])
}

func TestExecute_SecondRunReapsNothing(t *testing.T) {
	repo := &stubLeadRepo{reaped: []leadRepo.ReapedLead{{ID: 55, SessionID: "sess-a"}}}
	scheduler := &stubScheduler{}
	uc := NewUseCase(repo, scheduler, stubLogger{})

	first, err := uc.Execute(context.Background(), 10*time.Minute)
	require.NoError(t, err)
	assert.Equal(t, 1, first.LeadsCleaned)

	second, err := uc.Execute(context.Background(), 10*time.Minute)
	require.NoError(t, err)
	assert.Equal(t, 0, second.LeadsCleaned)
	assert.Empty(t, second.SessionsAffected)
	assert.Len(t, scheduler.kinds, 1)
}

func TestExecute_InvalidTimeout(t *testing.T) {
	uc := NewUseCase(&stubLeadRepo{}, &stubScheduler{}, stubLogger{})

	result, err := uc.Execute(context.Background(), 0)

	require.Error(t, err)
	assert.Nil(t, result)
	assert.ErrorIs(t, err, ErrInvalidInput)
}

func TestExecute_RepositoryError(t *testing.T) {
	repo := &stubLeadRepo{err: errors.New("connection refused")}
	uc := NewUseCase(repo, &stubScheduler{}, stubLogger{})

	_, err := uc.Execute(context.Background(), 10*time.Minute)

	require.Error(t, err)
	assert.ErrorIs(t, err, ErrInternal)
}
