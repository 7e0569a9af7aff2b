package reconcile_lead

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/m04kA/SMC-LeadBookingService/internal/domain"
	leadRepo "github.com/m04kA/SMC-LeadBookingService/internal/infra/storage/lead"
	terminationRepo "github.com/m04kA/SMC-LeadBookingService/internal/infra/storage/termination"
)

type stubLogger struct{}

func (stubLogger) Info(format string, v ...interface{})  {}
func (stubLogger) Warn(format string, v ...interface{})  {}
func (stubLogger) Error(format string, v ...interface{}) {}

type stubLeadRepo struct {
	lead *domain.IncompleteLead
	err  error
}

func (r *stubLeadRepo) GetByID(ctx context.Context, id int64) (*domain.IncompleteLead, error) {
	if r.err != nil {
		return nil, r.err
	}
	return r.lead, nil
}

type stubTerminationRepo struct {
	termination *domain.SessionTermination
	err         error
}

func (r *stubTerminationRepo) GetBySession(ctx context.Context, sessionID string, now time.Time) (*domain.SessionTermination, error) {
	if r.err != nil {
		return nil, r.err
	}
	return r.termination, nil
}

var terminatedAt = time.Date(2026, 9, 1, 12, 0, 0, 0, time.UTC)

func leadCreatedAt(at time.Time) *domain.IncompleteLead {
	return &domain.IncompleteLead{
		ID:        55,
		SessionID: "sess-abc",
		Status:    domain.LeadProcessing,
		CreatedAt: at,
	}
}

func TestExecute_NoTermination_Allowed(t *testing.T) {
	leads := &stubLeadRepo{lead: leadCreatedAt(terminatedAt.Add(-time.Minute))}
	terminations := &stubTerminationRepo{err: terminationRepo.ErrTerminationNotFound}
	uc := NewUseCase(leads, terminations, stubLogger{})

	decision, err := uc.Execute(context.Background(), 55)

	require.NoError(t, err)
	assert.False(t, decision.Blocked)
	assert.Equal(t, ReasonSessionActive, decision.Reason)
}

func TestExecute_LeadBeforeTermination_Allowed(t *testing.T) {
	// Настоящий брошенный лид: посетитель заполнял форму и закрыл её
	leads := &stubLeadRepo{lead: leadCreatedAt(terminatedAt.Add(-time.Minute))}
	terminations := &stubTerminationRepo{termination: &domain.SessionTermination{
		SessionID:    "sess-abc",
		TerminatedAt: terminatedAt,
	}}
	uc := NewUseCase(leads, terminations, stubLogger{})

	decision, err := uc.Execute(context.Background(), 55)

	require.NoError(t, err)
	assert.False(t, decision.Blocked)
	assert.Equal(t, ReasonLeadBeforeTermination, decision.Reason)
}

func TestExecute_LeadAfterTermination_Blocked(t *testing.T) {
	// Шумовой лид: автосохранение долетело после закрытия формы
	leads := &stubLeadRepo{lead: leadCreatedAt(terminatedAt.Add(time.Second))}
	terminations := &stubTerminationRepo{termination: &domain.SessionTermination{
		SessionID:    "sess-abc",
		TerminatedAt: terminatedAt,
	}}
	uc := NewUseCase(leads, terminations, stubLogger{})

	decision, err := uc.Execute(context.Background(), 55)

	require.NoError(t, err)
	assert.True(t, decision.Blocked)
	assert.Equal(t, ReasonLeadAfterTermination, decision.Reason)
}

func TestExecute_EqualTimestamps_Allowed(t *testing.T) {
	// Граничный случай: лид создан ровно в момент закрытия сессии
	leads := &stubLeadRepo{lead: leadCreatedAt(terminatedAt)}
	terminations := &stubTerminationRepo{termination: &domain.SessionTermination{
		SessionID:    "sess-abc",
		TerminatedAt: terminatedAt,
	}}
	uc := NewUseCase(leads, terminations, stubLogger{})

	decision, err := uc.Execute(context.Background(), 55)

	require.NoError(t, err)
	assert.False(t, decision.Blocked)
	assert.Equal(t, ReasonLeadBeforeTermination, decision.Reason)
}

func TestExecute_LeadNotFound(t *testing.T) {
	leads := &stubLeadRepo{err: leadRepo.ErrLeadNotFound}
	uc := NewUseCase(leads, &stubTerminationRepo{}, stubLogger{})

	decision, err := uc.Execute(context.Background(), 55)

	require.Error(t, err)
	assert.Nil(t, decision)
	assert.ErrorIs(t, err, ErrLeadNotFound)
}

func TestExecute_InvalidID(t *testing.T) {
	uc := NewUseCase(&stubLeadRepo{}, &stubTerminationRepo{}, stubLogger{})

	_, err := uc.Execute(context.Background(), 0)

	require.Error(t, err)
	assert.ErrorIs(t, err, ErrInvalidInput)
}
