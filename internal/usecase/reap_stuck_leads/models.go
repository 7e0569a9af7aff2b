package reap_stuck_leads

// Result результат одного прохода чистки зависших лидов
type Result struct {
	LeadsCleaned     int      // Количество лидов, переведенных в abandoned
	SessionsAffected []string // Сессии, чьи лиды были переведены
}
