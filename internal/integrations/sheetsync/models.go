package sheetsync

// Action тип записи, выгружаемой во внешнюю таблицу
const (
	ActionBooking        = "booking"
	ActionIncompleteLead = "incomplete_lead"
)

// Payload запись, отправляемая во внешний webhook (Google Apps Script)
// Формат полей зафиксирован принимающей стороной
type Payload struct {
	SessionID     string `json:"session_id"`
	Action        string `json:"action"`
	CustomerName  string `json:"customer_name"`
	CustomerEmail string `json:"customer_email"`
	CustomerPhone string `json:"customer_phone"`
	Service       string `json:"service"`
	Company       string `json:"company"`
	BookingDate   string `json:"booking_date"`
	BookingTime   string `json:"booking_time"`
	Status        string `json:"status"`
}
