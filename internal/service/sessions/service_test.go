package sessions

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/m04kA/SMC-LeadBookingService/internal/domain"
)

type stubLogger struct{}

func (stubLogger) Info(format string, v ...interface{})  {}
func (stubLogger) Warn(format string, v ...interface{})  {}
func (stubLogger) Error(format string, v ...interface{}) {}

type stubTerminationRepo struct {
	recorded  []*domain.SessionTermination
	purgeN    int64
	recordErr error
}

func (r *stubTerminationRepo) Record(ctx context.Context, t *domain.SessionTermination) error {
	if r.recordErr != nil {
		return r.recordErr
	}
	r.recorded = append(r.recorded, t)
	return nil
}

func (r *stubTerminationRepo) PurgeExpired(ctx context.Context, now time.Time) (int64, error) {
	return r.purgeN, nil
}

type fixedTime struct {
	now time.Time
}

func (f fixedTime) Now() time.Time { return f.now }

func TestRecordTermination(t *testing.T) {
	now := time.Date(2026, 9, 1, 12, 0, 0, 0, time.UTC)
	repo := &stubTerminationRepo{}
	svc := NewService(repo, 24*time.Hour, stubLogger{})
	svc.timeProvider = fixedTime{now: now}

	err := svc.RecordTermination(context.Background(), "sess-abc")

	require.NoError(t, err)
	require.Len(t, repo.recorded, 1)
	assert.Equal(t, "sess-abc", repo.recorded[0].SessionID)
	assert.Equal(t, now, repo.recorded[0].TerminatedAt)
	assert.Equal(t, now.Add(24*time.Hour), repo.recorded[0].ExpiresAt)
}

func TestRecordTermination_EmptySessionID(t *testing.T) {
	svc := NewService(&stubTerminationRepo{}, 24*time.Hour, stubLogger{})

	err := svc.RecordTermination(context.Background(), " ")

	require.Error(t, err)
	assert.ErrorIs(t, err, ErrInvalidInput)
}

func TestRecordTermination_RepositoryError(t *testing.T) {
	repo := &stubTerminationRepo{recordErr: errors.New("connection refused")}
	svc := NewService(repo, 24*time.Hour, stubLogger{})

	err := svc.RecordTermination(context.Background(), "sess-abc")

	require.Error(t, err)
	assert.ErrorIs(t, err, ErrInternal)
}

func TestPurgeExpired(t *testing.T) {
	repo := &stubTerminationRepo{purgeN: 7}
	svc := NewService(repo, 24*time.Hour, stubLogger{})

	purged, err := svc.PurgeExpired(context.Background())

	require.NoError(t, err)
	assert.Equal(t, int64(7), purged)
}

func TestNewService_DefaultRetention(t *testing.T) {
	svc := NewService(&stubTerminationRepo{}, 0, stubLogger{})

	assert.Equal(t, domain.DefaultTerminationRetention, svc.retention)
}
