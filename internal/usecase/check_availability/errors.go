package check_availability

import "errors"

var (
	// ErrInvalidInput возвращается при некорректных входных данных
	ErrInvalidInput = errors.New("check_availability: invalid input data")

	// ErrStorageUnavailable возвращается, когда проверка не удалась из-за хранилища
	// Недоступность БД никогда не трактуется как "слот свободен"
	ErrStorageUnavailable = errors.New("check_availability: storage unavailable")
)
