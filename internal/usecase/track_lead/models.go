package track_lead

import (
	"time"

	"github.com/m04kA/SMC-LeadBookingService/pkg/types"
)

// Request модель запроса автосохранения формы
// Все поля кроме SessionID опциональны: форма сохраняется по мере заполнения
type Request struct {
	SessionID     string            // ID сессии формы
	CustomerName  string            // Имя клиента (опционально)
	CustomerEmail string            // Email клиента (опционально)
	CustomerPhone string            // Телефон клиента (опционально)
	ServiceType   string            // Тип услуги (опционально)
	CompanyID     *int64            // ID компании (опционально)
	BookingDate   *time.Time        // Дата бронирования (опционально)
	StartTime     *types.TimeString // Время начала (опционально)
}

// Response модель ответа с сохраненным лидом
type Response struct {
	LeadID    int64     // ID лида
	SessionID string    // ID сессии
	Status    string    // Статус лида
	CreatedAt time.Time // Время первого сохранения
	UpdatedAt time.Time // Время последнего сохранения
}
