package domain

import (
	"time"

	"github.com/m04kA/SMC-LeadBookingService/pkg/types"
)

// LeadStatus represents the lifecycle state of an incomplete lead
type LeadStatus string

const (
	// LeadProcessing посетитель ещё заполняет форму (автосохранение активно)
	LeadProcessing LeadStatus = "processing"
	// LeadComplete бронирование завершено, лид закрыт
	LeadComplete LeadStatus = "complete"
	// LeadAbandoned лид брошен - переведен реапером по таймауту
	LeadAbandoned LeadStatus = "abandoned"
)

// IncompleteLead represents a partially completed booking form submission
// Лид создается при первом частичном сохранении формы и обновляется на месте
// при каждом следующем (один processing-лид на сессию - частичный уникальный
// индекс по session_id WHERE status = 'processing')
type IncompleteLead struct {
	ID        int64
	SessionID string

	// Поля формы, собранные на момент последнего автосохранения
	CustomerName  string
	CustomerEmail string
	CustomerPhone string
	ServiceType   string
	CompanyID     *int64
	BookingDate   *time.Time
	StartTime     *types.TimeString

	Status LeadStatus

	// Состояние выгрузки во внешний webhook
	Sync SyncState

	CreatedAt time.Time
	UpdatedAt time.Time
}

// IsProcessing returns true if the lead is still being filled in
func (l *IncompleteLead) IsProcessing() bool {
	return l.Status == LeadProcessing
}

// IsTerminalStatus returns true if the lead reached a final lifecycle state
func (l *IncompleteLead) IsTerminalStatus() bool {
	return l.Status == LeadComplete || l.Status == LeadAbandoned
}

// LeadPatch частичное обновление лида при автосохранении
// Пустые строки и nil-поля не затирают ранее сохраненные значения
// (last-write-wins на уровне отдельного поля)
type LeadPatch struct {
	CustomerName  string
	CustomerEmail string
	CustomerPhone string
	ServiceType   string
	CompanyID     *int64
	BookingDate   *time.Time
	StartTime     *types.TimeString
}
