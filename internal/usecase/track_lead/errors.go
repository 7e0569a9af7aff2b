package track_lead

import "errors"

var (
	// ErrInvalidInput возвращается при некорректных входных данных
	ErrInvalidInput = errors.New("track_lead: invalid input data")

	// ErrLeadNotProcessing возвращается при попытке завершить лид,
	// который уже переведен в терминальный статус
	ErrLeadNotProcessing = errors.New("track_lead: lead is not in processing state")

	// ErrInternal возвращается при внутренних ошибках usecase
	ErrInternal = errors.New("track_lead: internal error")
)
