package check_availability

// AvailabilityResponse HTTP response model
type AvailabilityResponse struct {
	CompanyID int64  `json:"companyId"`
	Date      string `json:"date"`
	Time      string `json:"time"`
	Booked    bool   `json:"booked"`
}
