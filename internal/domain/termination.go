package domain

import "time"

// SessionTermination represents a page-close signal from the client
// Записывается один раз на сессию (повторные сигналы игнорируются, остается
// самый ранний). Запись короткоживущая - удаляется после окна хранения
type SessionTermination struct {
	SessionID    string
	TerminatedAt time.Time
	ExpiresAt    time.Time
}

// IsExpired returns true if the record is past its retention window
func (t *SessionTermination) IsExpired(now time.Time) bool {
	return now.After(t.ExpiresAt)
}
