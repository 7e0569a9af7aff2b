package tasks

// Типы отложенных задач выгрузки во внешний webhook
const (
	// KindBookingSync выгрузка бронирования
	KindBookingSync = "booking.sync"

	// KindLeadSync выгрузка незавершенного лида
	KindLeadSync = "lead.sync"
)

// BookingSyncArgs аргументы задачи выгрузки бронирования
type BookingSyncArgs struct {
	BookingID int64 `json:"booking_id"`
}

// LeadSyncArgs аргументы задачи выгрузки лида
type LeadSyncArgs struct {
	LeadID int64 `json:"lead_id"`
}
