package types

import (
	"database/sql/driver"
	"errors"
	"fmt"
	"time"
)

// timeLayout формат времени HH:MM
const timeLayout = "15:04"

var (
	// ErrInvalidTimeString возвращается при некорректном формате времени
	ErrInvalidTimeString = errors.New("types: invalid time string format")
)

// TimeString время суток в формате HH:MM
// Используется для хранения времени слотов без привязки к дате и таймзоне.
// Поддерживает сравнение, сложение минут, сканирование из БД (TIME колонка)
type TimeString string

// NewTimeString создает TimeString из time.Time (берёт только часы и минуты)
func NewTimeString(t time.Time) TimeString {
	return TimeString(t.Format(timeLayout))
}

// NewTimeStringFromString парсит строку вида "10:30" в TimeString
func NewTimeStringFromString(s string) (TimeString, error) {
	t, err := time.Parse(timeLayout, s)
	if err != nil {
		return "", fmt.Errorf("%w: %q", ErrInvalidTimeString, s)
	}
	return NewTimeString(t), nil
}

// String возвращает строковое представление времени
func (ts TimeString) String() string {
	return string(ts)
}

// IsZero возвращает true, если время не задано
func (ts TimeString) IsZero() bool {
	return string(ts) == ""
}

// Validate проверяет корректность формата HH:MM
func (ts TimeString) Validate() error {
	_, err := ts.toTime()
	return err
}

// toTime конвертирует TimeString в time.Time (дата не имеет значения)
func (ts TimeString) toTime() (time.Time, error) {
	t, err := time.Parse(timeLayout, string(ts))
	if err != nil {
		return time.Time{}, fmt.Errorf("%w: %q", ErrInvalidTimeString, string(ts))
	}
	return t, nil
}

// IsBefore возвращает true, если ts строго раньше other
func (ts TimeString) IsBefore(other TimeString) bool {
	return string(ts) < string(other)
}

// IsAfter возвращает true, если ts строго позже other
func (ts TimeString) IsAfter(other TimeString) bool {
	return string(ts) > string(other)
}

// Equal возвращает true при точном совпадении времени
func (ts TimeString) Equal(other TimeString) bool {
	return string(ts) == string(other)
}

// AddMinutes возвращает новое время через minutes минут
// Переход через полночь считается ошибкой - слоты не пересекают границу дня
func (ts TimeString) AddMinutes(minutes int) (TimeString, error) {
	t, err := ts.toTime()
	if err != nil {
		return "", err
	}

	result := t.Add(time.Duration(minutes) * time.Minute)

	// Проверяем переход через полночь
	if result.Day() != t.Day() {
		return "", fmt.Errorf("%w: %s + %dm crosses midnight", ErrInvalidTimeString, ts, minutes)
	}

	return NewTimeString(result), nil
}

// Scan реализует sql.Scanner
// Поддерживает строки "HH:MM" и "HH:MM:SS" (postgres TIME), []byte и time.Time
func (ts *TimeString) Scan(value interface{}) error {
	switch v := value.(type) {
	case nil:
		*ts = ""
		return nil
	case string:
		return ts.scanString(v)
	case []byte:
		return ts.scanString(string(v))
	case time.Time:
		*ts = NewTimeString(v)
		return nil
	default:
		return fmt.Errorf("%w: unsupported scan type %T", ErrInvalidTimeString, value)
	}
}

func (ts *TimeString) scanString(s string) error {
	// Postgres TIME возвращает "10:00:00" - отбрасываем секунды
	if len(s) >= 5 {
		s = s[:5]
	}
	parsed, err := NewTimeStringFromString(s)
	if err != nil {
		return err
	}
	*ts = parsed
	return nil
}

// Value реализует driver.Valuer
func (ts TimeString) Value() (driver.Value, error) {
	if ts == "" {
		return nil, nil
	}
	if _, err := ts.toTime(); err != nil {
		return nil, err
	}
	return string(ts), nil
}
