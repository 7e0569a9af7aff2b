package track_lead

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/m04kA/SMC-LeadBookingService/internal/domain"
	leadRepo "github.com/m04kA/SMC-LeadBookingService/internal/infra/storage/lead"
	"github.com/m04kA/SMC-LeadBookingService/pkg/ptr"
	"github.com/m04kA/SMC-LeadBookingService/pkg/types"
)

type stubLogger struct{}

func (stubLogger) Info(format string, v ...interface{})  {}
func (stubLogger) Warn(format string, v ...interface{})  {}
func (stubLogger) Error(format string, v ...interface{}) {}

type stubLeadRepo struct {
	upsertErr   error
	completeErr error

	lastSession string
	lastPatch   domain.LeadPatch
	completedID int64
}

func (r *stubLeadRepo) UpsertBySession(ctx context.Context, sessionID string, patch domain.LeadPatch) (*domain.IncompleteLead, error) {
	if r.upsertErr != nil {
		return nil, r.upsertErr
	}
	r.lastSession = sessionID
	r.lastPatch = patch
	return &domain.IncompleteLead{
		ID:            55,
		SessionID:     sessionID,
		CustomerName:  patch.CustomerName,
		CustomerEmail: patch.CustomerEmail,
		Status:        domain.LeadProcessing,
		CreatedAt:     time.Date(2026, 9, 1, 12, 0, 0, 0, time.UTC),
		UpdatedAt:     time.Date(2026, 9, 1, 12, 0, 30, 0, time.UTC),
	}, nil
}

func (r *stubLeadRepo) MarkComplete(ctx context.Context, id int64) error {
	if r.completeErr != nil {
		return r.completeErr
	}
	r.completedID = id
	return nil
}

func TestExecute_UpsertsLead(t *testing.T) {
	repo := &stubLeadRepo{}
	uc := NewUseCase(repo, stubLogger{})

	resp, err := uc.Execute(context.Background(), &Request{
		SessionID:    "sess-abc",
		CustomerName: "Jane Doe",
		ServiceType:  "facial",
		CompanyID:    ptr.Ptr(int64(1)),
		StartTime:    ptr.Ptr(types.TimeString("10:00")),
	})

	require.NoError(t, err)
	assert.Equal(t, int64(55), resp.LeadID)
	assert.Equal(t, "sess-abc", resp.SessionID)
	assert.Equal(t, string(domain.LeadProcessing), resp.Status)

	assert.Equal(t, "sess-abc", repo.lastSession)
	assert.Equal(t, "Jane Doe", repo.lastPatch.CustomerName)
	assert.Equal(t, "facial", repo.lastPatch.ServiceType)
}

func TestExecute_EmptySessionID(t *testing.T) {
	uc := NewUseCase(&stubLeadRepo{}, stubLogger{})

	resp, err := uc.Execute(context.Background(), &Request{SessionID: "   "})

	require.Error(t, err)
	assert.Nil(t, resp)
	assert.ErrorIs(t, err, ErrInvalidInput)
}

func TestExecute_InvalidStartTime(t *testing.T) {
	uc := NewUseCase(&stubLeadRepo{}, stubLogger{})

	_, err := uc.Execute(context.Background(), &Request{
		SessionID: "sess-abc",
		StartTime: ptr.Ptr(types.TimeString("99:99")),
	})

	require.Error(t, err)
	assert.ErrorIs(t, err, ErrInvalidInput)
}

func TestExecute_RepositoryError(t *testing.T) {
	repo := &stubLeadRepo{upsertErr: errors.New("connection refused")}
	uc := NewUseCase(repo, stubLogger{})

	_, err := uc.Execute(context.Background(), &Request{SessionID: "sess-abc"})

	require.Error(t, err)
	assert.ErrorIs(t, err, ErrInternal)
}

func TestMarkComplete(t *testing.T) {
	repo := &stubLeadRepo{}
	uc := NewUseCase(repo, stubLogger{})

	err := uc.MarkComplete(context.Background(), 55)

	require.NoError(t, err)
	assert.Equal(t, int64(55), repo.completedID)
}

func TestMarkComplete_NotProcessing(t *testing.T) {
	repo := &stubLeadRepo{completeErr: leadRepo.ErrLeadNotProcessing}
	uc := NewUseCase(repo, stubLogger{})

	err := uc.MarkComplete(context.Background(), 55)

	require.Error(t, err)
	assert.ErrorIs(t, err, ErrLeadNotProcessing)
}

func TestMarkComplete_InvalidID(t *testing.T) {
	uc := NewUseCase(&stubLeadRepo{}, stubLogger{})

	err := uc.MarkComplete(context.Background(), 0)

	require.Error(t, err)
	assert.ErrorIs(t, err, ErrInvalidInput)
}
