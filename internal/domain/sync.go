package domain

import "time"

// SyncStatus represents the outbound sync state of a booking or lead
type SyncStatus string

const (
	// SyncPending запись ещё не выгружалась или ожидает повтора
	SyncPending SyncStatus = "pending"
	// SyncSuccess запись успешно выгружена, повторы не выполняются
	SyncSuccess SyncStatus = "success"
	// SyncFailed исчерпан лимит попыток, повторы остановлены
	SyncFailed SyncStatus = "failed"
	// SyncSkipped выгрузка подавлена (лид записан после завершения сессии)
	SyncSkipped SyncStatus = "skipped"
)

// SyncState состояние выгрузки сущности во внешний webhook
// Хранится прямо в строке сущности: оператор видит результат по колонкам
type SyncState struct {
	Status    SyncStatus
	Attempts  int
	LastAt    *time.Time
	LastError *string
}

// IsTerminal returns true if no further sync attempts should be made
func (s SyncState) IsTerminal() bool {
	return s.Status == SyncSuccess || s.Status == SyncFailed || s.Status == SyncSkipped
}
