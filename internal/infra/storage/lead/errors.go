package lead

import "errors"

var (
	// ErrLeadNotFound возвращается, когда лид не найден
	ErrLeadNotFound = errors.New("lead.repository: lead not found")

	// ErrLeadNotProcessing возвращается при попытке перевести лид,
	// который уже покинул состояние processing (терминальные переходы условные)
	ErrLeadNotProcessing = errors.New("lead.repository: lead is not in processing state")

	// ErrSyncNotPending возвращается при попытке записать неудачную попытку
	// выгрузки для лида, чья выгрузка уже в терминальном статусе
	ErrSyncNotPending = errors.New("lead.repository: sync is not pending")

	// ErrBuildQuery возвращается при ошибке построения SQL запроса
	ErrBuildQuery = errors.New("lead.repository: failed to build query")

	// ErrExecQuery возвращается при ошибке выполнения SQL запроса
	ErrExecQuery = errors.New("lead.repository: failed to execute query")

	// ErrScanRow возвращается при ошибке сканирования результата запроса
	ErrScanRow = errors.New("lead.repository: failed to scan row")
)
