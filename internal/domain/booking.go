package domain

import (
	"time"

	"github.com/m04kA/SMC-LeadBookingService/pkg/types"
)

// BookingStatus represents the status of a booking
type BookingStatus string

const (
	StatusPending   BookingStatus = "pending"
	StatusConfirmed BookingStatus = "confirmed"
	StatusCancelled BookingStatus = "cancelled"
)

// Booking represents a confirmed or pending appointment in the system
// Слот бронирования - это тройка (company_id, booking_date, start_time).
// Два активных бронирования не могут занимать один слот (частичный уникальный
// индекс в БД + проверка конфликта в usecase создания)
type Booking struct {
	ID          int64
	CompanyID   int64
	ServiceType string
	BookingDate time.Time
	StartTime   types.TimeString
	Status      BookingStatus

	// Контактные данные клиента (денормализованы в строку бронирования)
	CustomerName  string
	CustomerEmail string
	CustomerPhone string

	// SessionID сессия формы, из которой пришло бронирование
	// Связывает бронирование с незавершенным лидом той же сессии
	SessionID *string

	Notes              *string
	CancellationReason *string
	CancelledAt        *time.Time

	// Состояние выгрузки во внешний webhook
	Sync SyncState

	CreatedAt time.Time
	UpdatedAt time.Time
}

// IsActive returns true if the booking occupies its slot
func (b *Booking) IsActive() bool {
	return b.Status == StatusPending || b.Status == StatusConfirmed
}

// CanBeCancelled returns true if the booking can be cancelled
func (b *Booking) CanBeCancelled() bool {
	return b.Status == StatusPending || b.Status == StatusConfirmed
}

// IsCancelled returns true if the booking has been cancelled
func (b *Booking) IsCancelled() bool {
	return b.Status == StatusCancelled
}

// CompanyBookingsFilter фильтр для получения бронирований компании
type CompanyBookingsFilter struct {
	CompanyID       int64            // Обязательный параметр
	Date            *time.Time       // Фильтр по дате (опционально)
	StartTime       *types.TimeString // Фильтр по времени начала (опционально)
	Status          *BookingStatus   // Фильтр по статусу (опционально)
	IncludeInactive bool             // Включать ли отмененные бронирования
}
