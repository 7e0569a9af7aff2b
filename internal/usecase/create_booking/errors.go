package create_booking

import "errors"

var (
	// ErrCompanyNotFound возвращается, когда компания не найдена
	ErrCompanyNotFound = errors.New("create_booking: company not found")

	// ErrCompanyInactive возвращается, когда компания не принимает записи
	ErrCompanyInactive = errors.New("create_booking: company is inactive")

	// ErrCompanyClosed возвращается, когда компания не работает в указанную дату
	ErrCompanyClosed = errors.New("create_booking: company is closed on this date")

	// ErrInvalidDate возвращается при некорректной дате бронирования
	ErrInvalidDate = errors.New("create_booking: invalid booking date")

	// ErrInvalidTimeSlot возвращается, когда время вне рабочих часов
	// или не попадает на границу сетки слотов
	ErrInvalidTimeSlot = errors.New("create_booking: invalid time slot")

	// ErrSlotNotAvailable возвращается, когда слот уже занят
	ErrSlotNotAvailable = errors.New("create_booking: slot is not available")

	// ErrInvalidInput возвращается при некорректных входных данных
	ErrInvalidInput = errors.New("create_booking: invalid input data")

	// ErrInternal возвращается при внутренних ошибках usecase
	ErrInternal = errors.New("create_booking: internal error")
)
