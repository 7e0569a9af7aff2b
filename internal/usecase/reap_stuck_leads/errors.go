package reap_stuck_leads

import "errors"

var (
	// ErrInvalidInput возвращается при некорректном таймауте
	ErrInvalidInput = errors.New("reap_stuck_leads: invalid input data")

	// ErrInternal возвращается при внутренних ошибках usecase
	ErrInternal = errors.New("reap_stuck_leads: internal error")
)
