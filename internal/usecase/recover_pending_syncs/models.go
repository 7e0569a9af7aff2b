package recover_pending_syncs

// Result результат одного прохода восстановления выгрузок
type Result struct {
	LeadsEnqueued    int // Количество лидов, поставленных на выгрузку заново
	BookingsEnqueued int // Количество бронирований, поставленных на выгрузку заново
}
