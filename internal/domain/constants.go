package domain

import "time"

// Default configuration values
const (
	DefaultSlotDurationMinutes  = 30
	DefaultReapTimeout          = 10 * time.Minute
	DefaultSyncMaxAttempts      = 3
	DefaultSyncRetryDelay       = 2 * time.Minute
	DefaultTerminationRetention = 24 * time.Hour
)

// Business validation constants
const (
	MinSlotDurationMinutes = 5
	MaxSlotDurationMinutes = 480 // 8 часов
	MaxNotesLength         = 500
	MaxCancellationReasonLength = 500
	MaxSessionIDLength     = 128
)

// Time format constants
const (
	TimeFormat = "15:04"      // HH:MM
	DateFormat = "2006-01-02" // YYYY-MM-DD
)

// ActiveBookingStatuses статусы бронирований, занимающих слот
// Используются в проверке доступности и проверке конфликтов
var ActiveBookingStatuses = []BookingStatus{
	StatusPending,
	StatusConfirmed,
}
