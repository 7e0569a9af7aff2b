package reconcile_lead

// Причины решений сверки
const (
	ReasonSessionActive         = "session still active"
	ReasonLeadBeforeTermination = "lead created before session termination"
	ReasonLeadAfterTermination  = "lead created after session termination"
)

// Decision решение сверки лида с журналом закрытий сессий
type Decision struct {
	Blocked bool   // true, если выгрузка лида должна быть подавлена
	Reason  string // Причина решения (для логов и статуса выгрузки)
}
