package check_availability

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/m04kA/SMC-LeadBookingService/pkg/types"
)

type stubLogger struct{}

func (stubLogger) Info(format string, v ...interface{})  {}
func (stubLogger) Warn(format string, v ...interface{})  {}
func (stubLogger) Error(format string, v ...interface{}) {}

type slotKey struct {
	companyID int64
	date      string
	startTime types.TimeString
}

type stubBookingRepo struct {
	counts map[slotKey]int
	err    error
}

func (r *stubBookingRepo) CountActiveBySlot(ctx context.Context, companyID int64, date time.Time, startTime types.TimeString) (int, error) {
	if r.err != nil {
		return 0, r.err
	}
	return r.counts[slotKey{companyID, date.Format("2006-01-02"), startTime}], nil
}

func mustDate(t *testing.T, s string) time.Time {
	t.Helper()
	d, err := time.Parse("2006-01-02", s)
	require.NoError(t, err)
	return d
}

func TestExecute_SlotBooked(t *testing.T) {
	repo := &stubBookingRepo{counts: map[slotKey]int{
		{1, "2026-09-15", "10:00"}: 1,
	}}
	uc := NewUseCase(repo, stubLogger{})

	resp, err := uc.Execute(context.Background(), &Request{
		CompanyID: 1,
		Date:      mustDate(t, "2026-09-15"),
		StartTime: "10:00",
	})

	require.NoError(t, err)
	assert.True(t, resp.Booked)
}

func TestExecute_SlotFree(t *testing.T) {
	repo := &stubBookingRepo{counts: map[slotKey]int{}}
	uc := NewUseCase(repo, stubLogger{})

	resp, err := uc.Execute(context.Background(), &Request{
		CompanyID: 1,
		Date:      mustDate(t, "2026-09-15"),
		StartTime: "10:00",
	})

	require.NoError(t, err)
	assert.False(t, resp.Booked)
}

func TestExecute_CompanyIsolation(t *testing.T) {
	// Бронирование у компании 1 не делает слот занятым у компании 2
	repo := &stubBookingRepo{counts: map[slotKey]int{
		{1, "2026-09-15", "10:00"}: 1,
	}}
	uc := NewUseCase(repo, stubLogger{})

	resp, err := uc.Execute(context.Background(), &Request{
		CompanyID: 2,
		Date:      mustDate(t, "2026-09-15"),
		StartTime: "10:00",
	})

	require.NoError(t, err)
	assert.False(t, resp.Booked)
}

func TestExecute_StorageError(t *testing.T) {
	repo := &stubBookingRepo{err: errors.New("connection refused")}
	uc := NewUseCase(repo, stubLogger{})

	resp, err := uc.Execute(context.Background(), &Request{
		CompanyID: 1,
		Date:      mustDate(t, "2026-09-15"),
		StartTime: "10:00",
	})

	require.Error(t, err)
	assert.Nil(t, resp)
	assert.ErrorIs(t, err, ErrStorageUnavailable)
}

func TestExecute_Validation(t *testing.T) {
	uc := NewUseCase(&stubBookingRepo{}, stubLogger{})

	tests := []struct {
		name string
		req  *Request
	}{
		{"zero company id", &Request{CompanyID: 0, Date: mustDate(t, "2026-09-15"), StartTime: "10:00"}},
		{"zero date", &Request{CompanyID: 1, StartTime: "10:00"}},
		{"empty time", &Request{CompanyID: 1, Date: mustDate(t, "2026-09-15")}},
		{"malformed time", &Request{CompanyID: 1, Date: mustDate(t, "2026-09-15"), StartTime: "25:99"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			resp, err := uc.Execute(context.Background(), tt.req)

			require.Error(t, err)
			assert.Nil(t, resp)
			assert.ErrorIs(t, err, ErrInvalidInput)
		})
	}
}
