package bookings

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/m04kA/SMC-LeadBookingService/internal/domain"
	bookingRepo "github.com/m04kA/SMC-LeadBookingService/internal/infra/storage/booking"
	"github.com/m04kA/SMC-LeadBookingService/internal/service/bookings/models"
	"github.com/m04kA/SMC-LeadBookingService/pkg/ptr"
)

type stubLogger struct{}

func (stubLogger) Info(format string, v ...interface{})  {}
func (stubLogger) Warn(format string, v ...interface{})  {}
func (stubLogger) Error(format string, v ...interface{}) {}

type stubBookingRepo struct {
	booking   *domain.Booking
	bookings  []*domain.Booking
	getErr    error
	cancelErr error

	cancelledID     int64
	cancelledReason string
	lastFilter      domain.CompanyBookingsFilter
}

func (r *stubBookingRepo) GetByID(ctx context.Context, id int64) (*domain.Booking, error) {
	if r.getErr != nil {
		return nil, r.getErr
	}
	return r.booking, nil
}

func (r *stubBookingRepo) GetByCompanyWithFilter(ctx context.Context, filter domain.CompanyBookingsFilter) ([]*domain.Booking, error) {
	r.lastFilter = filter
	return r.bookings, nil
}

func (r *stubBookingRepo) Cancel(ctx context.Context, id int64, reason string) error {
	if r.cancelErr != nil {
		return r.cancelErr
	}
	r.cancelledID = id
	r.cancelledReason = reason
	return nil
}

func testBooking() *domain.Booking {
	return &domain.Booking{
		ID:           101,
		CompanyID:    1,
		ServiceType:  "facial",
		BookingDate:  time.Date(2026, 9, 15, 0, 0, 0, 0, time.UTC),
		StartTime:    "10:00",
		Status:       domain.StatusConfirmed,
		CustomerName: "Jane Doe",
		Sync:         domain.SyncState{Status: domain.SyncPending},
	}
}

func TestGetByID(t *testing.T) {
	repo := &stubBookingRepo{booking: testBooking()}
	svc := NewService(repo, stubLogger{})

	resp, err := svc.GetByID(context.Background(), 101)

	require.NoError(t, err)
	assert.Equal(t, int64(101), resp.ID)
	assert.Equal(t, "2026-09-15", resp.BookingDate)
	assert.Equal(t, "10:00", resp.StartTime)
	assert.Equal(t, string(domain.SyncPending), resp.SyncStatus)
}

func TestGetByID_NotFound(t *testing.T) {
	repo := &stubBookingRepo{getErr: bookingRepo.ErrBookingNotFound}
	svc := NewService(repo, stubLogger{})

	_, err := svc.GetByID(context.Background(), 101)

	require.Error(t, err)
	assert.ErrorIs(t, err, ErrBookingNotFound)
}

func TestCancel(t *testing.T) {
	repo := &stubBookingRepo{booking: testBooking()}
	svc := NewService(repo, stubLogger{})

	err := svc.Cancel(context.Background(), 101, &models.CancelBookingRequest{CancellationReason: "customer request"})

	require.NoError(t, err)
	assert.Equal(t, int64(101), repo.cancelledID)
	assert.Equal(t, "customer request", repo.cancelledReason)
}

func TestCancel_AlreadyCancelled(t *testing.T) {
	booking := testBooking()
	booking.Status = domain.StatusCancelled
	repo := &stubBookingRepo{booking: booking}
	svc := NewService(repo, stubLogger{})

	err := svc.Cancel(context.Background(), 101, &models.CancelBookingRequest{})

	require.Error(t, err)
	assert.ErrorIs(t, err, ErrCannotCancel)
	assert.Zero(t, repo.cancelledID)
}

func TestGetCompanyBookings_FilterConversion(t *testing.T) {
	repo := &stubBookingRepo{bookings: []*domain.Booking{testBooking()}}
	svc := NewService(repo, stubLogger{})

	resp, err := svc.GetCompanyBookings(context.Background(), &models.GetCompanyBookingsRequest{
		CompanyID: 1,
		Date:      ptr.Ptr("2026-09-15"),
		Status:    ptr.Ptr("confirmed"),
	})

	require.NoError(t, err)
	assert.Equal(t, 1, resp.Total)
	require.NotNil(t, repo.lastFilter.Date)
	assert.Equal(t, "2026-09-15", repo.lastFilter.Date.Format(domain.DateFormat))
	require.NotNil(t, repo.lastFilter.Status)
	assert.Equal(t, domain.StatusConfirmed, *repo.lastFilter.Status)
}

func TestGetCompanyBookings_InvalidStatus(t *testing.T) {
	svc := NewService(&stubBookingRepo{}, stubLogger{})

	_, err := svc.GetCompanyBookings(context.Background(), &models.GetCompanyBookingsRequest{
		CompanyID: 1,
		Status:    ptr.Ptr("done"),
	})

	require.Error(t, err)
	assert.ErrorIs(t, err, ErrInvalidInput)
}
