package create_booking

import (
	"time"

	"github.com/m04kA/SMC-LeadBookingService/pkg/types"
)

// Request модель запроса на создание бронирования
type Request struct {
	CompanyID     int64            // ID компании
	ServiceType   string           // Тип услуги
	Date          time.Time        // Дата бронирования (без времени)
	StartTime     types.TimeString // Время начала слота (например, "10:00")
	CustomerName  string           // Имя клиента
	CustomerEmail string           // Email клиента
	CustomerPhone string           // Телефон клиента
	SessionID     *string          // Сессия формы, из которой пришло бронирование (опционально)
	Notes         *string          // Дополнительные заметки (опционально)
}

// Response модель ответа с созданным бронированием
type Response struct {
	ID            int64            // ID созданного бронирования
	CompanyID     int64            // ID компании
	ServiceType   string           // Тип услуги
	BookingDate   time.Time        // Дата бронирования
	StartTime     types.TimeString // Время начала
	Status        string           // Статус бронирования
	CustomerName  string           // Имя клиента
	CustomerEmail string           // Email клиента
	CustomerPhone string           // Телефон клиента
	SessionID     *string          // Сессия формы
	Notes         *string          // Заметки

	CreatedAt time.Time // Время создания
	UpdatedAt time.Time // Время обновления
}
