package models

import (
	"errors"
	"fmt"
	"time"

	"github.com/m04kA/SMC-LeadBookingService/internal/domain"
	"github.com/m04kA/SMC-LeadBookingService/pkg/types"
)

var (
	// ErrInvalidWeekday возвращается при некорректном дне недели
	ErrInvalidWeekday = errors.New("invalid weekday")

	// ErrInvalidStatus возвращается при некорректном статусе компании
	ErrInvalidStatus = errors.New("invalid company status")
)

// weekdayByName имена дней недели в API (lowercase)
var weekdayByName = map[string]time.Weekday{
	"monday":    time.Monday,
	"tuesday":   time.Tuesday,
	"wednesday": time.Wednesday,
	"thursday":  time.Thursday,
	"friday":    time.Friday,
	"saturday":  time.Saturday,
	"sunday":    time.Sunday,
}

var weekdayNames = map[time.Weekday]string{
	time.Monday:    "monday",
	time.Tuesday:   "tuesday",
	time.Wednesday: "wednesday",
	time.Thursday:  "thursday",
	time.Friday:    "friday",
	time.Saturday:  "saturday",
	time.Sunday:    "sunday",
}

// Request модели

// CreateCompanyRequest запрос на создание компании
type CreateCompanyRequest struct {
	Name                string   `json:"name"`
	ContactEmail        string   `json:"contactEmail"`
	ContactPhone        string   `json:"contactPhone"`
	OpenTime            string   `json:"openTime"`  // HH:MM
	CloseTime           string   `json:"closeTime"` // HH:MM
	SlotDurationMinutes int      `json:"slotDurationMinutes"`
	ActiveWeekdays      []string `json:"activeWeekdays"` // monday..sunday
}

// UpdateCompanyRequest запрос на обновление компании
// Nil-поля не изменяются
type UpdateCompanyRequest struct {
	Name                *string   `json:"name,omitempty"`
	ContactEmail        *string   `json:"contactEmail,omitempty"`
	ContactPhone        *string   `json:"contactPhone,omitempty"`
	OpenTime            *string   `json:"openTime,omitempty"`
	CloseTime           *string   `json:"closeTime,omitempty"`
	SlotDurationMinutes *int      `json:"slotDurationMinutes,omitempty"`
	ActiveWeekdays      *[]string `json:"activeWeekdays,omitempty"`
	Status              *string   `json:"status,omitempty"` // active | inactive
}

// Response модели

// CompanyResponse компания в ответе сервиса
type CompanyResponse struct {
	ID                  int64     `json:"id"`
	Name                string    `json:"name"`
	ContactEmail        string    `json:"contactEmail"`
	ContactPhone        string    `json:"contactPhone"`
	OpenTime            string    `json:"openTime"`
	CloseTime           string    `json:"closeTime"`
	SlotDurationMinutes int       `json:"slotDurationMinutes"`
	ActiveWeekdays      []string  `json:"activeWeekdays"`
	Status              string    `json:"status"`
	CreatedAt           time.Time `json:"createdAt"`
	UpdatedAt           time.Time `json:"updatedAt"`
}

// CompanyListResponse список компаний
type CompanyListResponse struct {
	Companies []*CompanyResponse `json:"companies"`
	Total     int                `json:"total"`
}

// FromDomainCompany конвертирует domain модель в response
func FromDomainCompany(c *domain.Company) *CompanyResponse {
	weekdays := make([]string, 0, len(c.ActiveWeekdays))
	for _, d := range c.ActiveWeekdays {
		weekdays = append(weekdays, weekdayNames[d])
	}

	return &CompanyResponse{
		ID:                  c.ID,
		Name:                c.Name,
		ContactEmail:        c.ContactEmail,
		ContactPhone:        c.ContactPhone,
		OpenTime:            c.OpenTime.String(),
		CloseTime:           c.CloseTime.String(),
		SlotDurationMinutes: c.SlotDurationMinutes,
		ActiveWeekdays:      weekdays,
		Status:              string(c.Status),
		CreatedAt:           c.CreatedAt,
		UpdatedAt:           c.UpdatedAt,
	}
}

// FromDomainCompanyList конвертирует список domain моделей в response
func FromDomainCompanyList(companies []*domain.Company) *CompanyListResponse {
	result := make([]*CompanyResponse, 0, len(companies))
	for _, c := range companies {
		result = append(result, FromDomainCompany(c))
	}
	return &CompanyListResponse{
		Companies: result,
		Total:     len(result),
	}
}

// ToDomainWeekdays конвертирует имена дней недели в time.Weekday
func ToDomainWeekdays(names []string) ([]time.Weekday, error) {
	result := make([]time.Weekday, 0, len(names))
	seen := make(map[time.Weekday]bool)

	for _, name := range names {
		day, ok := weekdayByName[name]
		if !ok {
			return nil, fmt.Errorf("%w: %q", ErrInvalidWeekday, name)
		}
		if seen[day] {
			continue
		}
		seen[day] = true
		result = append(result, day)
	}

	return result, nil
}

// ToDomainCompanyStatus конвертирует строку в domain.CompanyStatus
func ToDomainCompanyStatus(status string) (domain.CompanyStatus, error) {
	switch domain.CompanyStatus(status) {
	case domain.CompanyActive, domain.CompanyInactive:
		return domain.CompanyStatus(status), nil
	default:
		return "", fmt.Errorf("%w: %q", ErrInvalidStatus, status)
	}
}

// ParseTimeOfDay парсит строку HH:MM в types.TimeString
func ParseTimeOfDay(s string) (types.TimeString, error) {
	return types.NewTimeStringFromString(s)
}
