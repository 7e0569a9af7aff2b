package termination

import "errors"

var (
	// ErrTerminationNotFound возвращается, когда запись о закрытии сессии не найдена
	ErrTerminationNotFound = errors.New("termination.repository: termination not found")

	// ErrBuildQuery возвращается при ошибке построения SQL запроса
	ErrBuildQuery = errors.New("termination.repository: failed to build query")

	// ErrExecQuery возвращается при ошибке выполнения SQL запроса
	ErrExecQuery = errors.New("termination.repository: failed to execute query")

	// ErrScanRow возвращается при ошибке сканирования результата запроса
	ErrScanRow = errors.New("termination.repository: failed to scan row")
)
