package booking

import "errors"

var (
	// ErrBookingNotFound возвращается, когда бронирование не найдено
	ErrBookingNotFound = errors.New("booking.repository: booking not found")

	// ErrSlotTaken возвращается при нарушении уникальности слота
	// (два активных бронирования на одну тройку компания/дата/время)
	ErrSlotTaken = errors.New("booking.repository: slot already taken")

	// ErrSyncNotPending возвращается при попытке записать неудачную попытку
	// выгрузки для бронирования, чья выгрузка уже в терминальном статусе
	ErrSyncNotPending = errors.New("booking.repository: sync is not pending")

	// ErrBuildQuery возвращается при ошибке построения SQL запроса
	ErrBuildQuery = errors.New("booking.repository: failed to build query")

	// ErrExecQuery возвращается при ошибке выполнения SQL запроса
	ErrExecQuery = errors.New("booking.repository: failed to execute query")

	// ErrScanRow возвращается при ошибке сканирования результата запроса
	ErrScanRow = errors.New("booking.repository: failed to scan row")
)
