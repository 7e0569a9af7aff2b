package lead

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"

	"github.com/Masterminds/squirrel"

	"github.com/m04kA/SMC-LeadBookingService/internal/domain"
	"github.com/m04kA/SMC-LeadBookingService/pkg/dbmetrics"
	"github.com/m04kA/SMC-LeadBookingService/pkg/psqlbuilder"
)

// leadColumns полный набор колонок таблицы incomplete_leads
var leadColumns = []string{
	"id",
	"session_id",
	"customer_name",
	"customer_email",
	"customer_phone",
	"service_type",
	"company_id",
	"booking_date",
	"start_time",
	"status",
	"sync_status",
	"sync_attempts",
	"last_sync_at",
	"last_sync_error",
	"created_at",
	"updated_at",
}

// ReapedLead результат перевода зависшего лида в abandoned
type ReapedLead struct {
	ID        int64
	SessionID string
}

// Repository репозиторий для работы с незавершенными лидами
type Repository struct {
	db DBExecutor
}

// NewRepository создает новый экземпляр репозитория лидов
func NewRepository(db DBExecutor) *Repository {
	return &Repository{db: db}
}

// UpsertBySession создает лид или обновляет существующий processing-лид сессии
//
// Атомарность обеспечена частичным уникальным индексом по session_id
// WHERE status = 'processing' и INSERT ... ON CONFLICT: при конкурентных
// автосохранениях одной сессии в таблице остается ровно одна processing-строка.
// Слияние полей - last-write-wins по каждому полю отдельно: пустые значения
// нового частичного сохранения не затирают ранее сохраненные
func (r *Repository) UpsertBySession(ctx context.Context, sessionID string, patch domain.LeadPatch) (*domain.IncompleteLead, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Insert("incomplete_leads").
		Columns(
			"session_id",
			"customer_name",
			"customer_email",
			"customer_phone",
			"service_type",
			"company_id",
			"booking_date",
			"start_time",
			"status",
		).
		Values(
			sessionID,
			patch.CustomerName,
			patch.CustomerEmail,
			patch.CustomerPhone,
			patch.ServiceType,
			patch.CompanyID,
			patch.BookingDate,
			patch.StartTime,
			domain.LeadProcessing,
		).
		Suffix(`ON CONFLICT (session_id) WHERE status = 'processing' DO UPDATE SET
			customer_name = COALESCE(NULLIF(EXCLUDED.customer_name, ''), incomplete_leads.customer_name),
			customer_email = COALESCE(NULLIF(EXCLUDED.customer_email, ''), incomplete_leads.customer_email),
			customer_phone = COALESCE(NULLIF(EXCLUDED.customer_phone, ''), incomplete_leads.customer_phone),
			service_type = COALESCE(NULLIF(EXCLUDED.service_type, ''), incomplete_leads.service_type),
			company_id = COALESCE(EXCLUDED.company_id, incomplete_leads.company_id),
			booking_date = COALESCE(EXCLUDED.booking_date, incomplete_leads.booking_date),
			start_time = COALESCE(EXCLUDED.start_time, incomplete_leads.start_time),
			updated_at = NOW()`).
		Suffix("RETURNING " + columnsList()).
		ToSql()

	if err != nil {
		return nil, fmt.Errorf("%w: UpsertBySession - build insert query: %v", ErrBuildQuery, err)
	}

	lead, err := scanLead(executor.QueryRowContext(ctx, query, args...))
	if err != nil {
		return nil, fmt.Errorf("%w: UpsertBySession - scan lead: %v", ErrScanRow, err)
	}

	return lead, nil
}

// GetByID получает лид по ID
func (r *Repository) GetByID(ctx context.Context, id int64) (*domain.IncompleteLead, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Select(leadColumns...).
		From("incomplete_leads").
		Where(squirrel.Eq{"id": id}).
		ToSql()

	if err != nil {
		return nil, fmt.Errorf("%w: GetByID - build select query: %v", ErrBuildQuery, err)
	}

	lead, err := scanLead(executor.QueryRowContext(ctx, query, args...))
	if err == sql.ErrNoRows {
		return nil, ErrLeadNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("%w: GetByID - scan lead: %v", ErrScanRow, err)
	}

	return lead, nil
}

// GetProcessingBySession получает processing-лид сессии, если он есть
func (r *Repository) GetProcessingBySession(ctx context.Context, sessionID string) (*domain.IncompleteLead, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Select(leadColumns...).
		From("incomplete_leads").
		Where(squirrel.Eq{
			"session_id": sessionID,
			"status":     domain.LeadProcessing,
		}).
		ToSql()

	if err != nil {
		return nil, fmt.Errorf("%w: GetProcessingBySession - build select query: %v", ErrBuildQuery, err)
	}

	lead, err := scanLead(executor.QueryRowContext(ctx, query, args...))
	if err == sql.ErrNoRows {
		return nil, ErrLeadNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("%w: GetProcessingBySession - scan lead: %v", ErrScanRow, err)
	}

	return lead, nil
}

// MarkComplete переводит лид из processing в complete
// Условный переход: лид в терминальном состоянии не меняется (0 строк -
// ErrLeadNotProcessing). Терминальность complete - дальнейших мутаций нет
func (r *Repository) MarkComplete(ctx context.Context, id int64) error {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Update("incomplete_leads").
		Set("status", domain.LeadComplete).
		Set("updated_at", squirrel.Expr("NOW()")).
		Where(squirrel.Eq{
			"id":     id,
			"status": domain.LeadProcessing,
		}).
		ToSql()

	if err != nil {
		return fmt.Errorf("%w: MarkComplete - build update query: %v", ErrBuildQuery, err)
	}

	result, err := executor.ExecContext(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("%w: MarkComplete - execute update: %v", ErrExecQuery, err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("%w: MarkComplete - get rows affected: %v", ErrExecQuery, err)
	}

	if rowsAffected == 0 {
		return ErrLeadNotProcessing
	}

	return nil
}

// CompleteBySession закрывает processing-лид сессии при завершении бронирования
// Отсутствие processing-лида не является ошибкой (посетитель мог забронировать
// без единого автосохранения) - возвращается false
func (r *Repository) CompleteBySession(ctx context.Context, sessionID string) (bool, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Update("incomplete_leads").
		Set("status", domain.LeadComplete).
		Set("updated_at", squirrel.Expr("NOW()")).
		Where(squirrel.Eq{
			"session_id": sessionID,
			"status":     domain.LeadProcessing,
		}).
		ToSql()

	if err != nil {
		return false, fmt.Errorf("%w: CompleteBySession - build update query: %v", ErrBuildQuery, err)
	}

	result, err := executor.ExecContext(ctx, query, args...)
	if err != nil {
		return false, fmt.Errorf("%w: CompleteBySession - execute update: %v", ErrExecQuery, err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("%w: CompleteBySession - get rows affected: %v", ErrExecQuery, err)
	}

	return rowsAffected > 0, nil
}

// ReapStuck переводит зависшие processing-лиды в abandoned
// Один условный UPDATE: гонка с параллельным автосохранением или завершением
// бронирования разрешается на уровне строки (условие status = 'processing').
// Идемпотентность: повторный запуск с тем же cutoff не находит строк
func (r *Repository) ReapStuck(ctx context.Context, cutoff time.Time) ([]ReapedLead, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Update("incomplete_leads").
		Set("status", domain.LeadAbandoned).
		Set("updated_at", squirrel.Expr("NOW()")).
		Where(squirrel.Eq{"status": domain.LeadProcessing}).
		Where(squirrel.Lt{"updated_at": cutoff}).
		Suffix("RETURNING id, session_id").
		ToSql()

	if err != nil {
		return nil, fmt.Errorf("%w: ReapStuck - build update query: %v", ErrBuildQuery, err)
	}

	rows, err := executor.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("%w: ReapStuck - execute update: %v", ErrExecQuery, err)
	}
	defer rows.Close()

	reaped := make([]ReapedLead, 0)
	for rows.Next() {
		var item ReapedLead
		if err := rows.Scan(&item.ID, &item.SessionID); err != nil {
			return nil, fmt.Errorf("%w: ReapStuck - scan row: %v", ErrScanRow, err)
		}
		reaped = append(reaped, item)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: ReapStuck - rows error: %v", ErrScanRow, err)
	}

	return reaped, nil
}

// MarkSyncSuccess помечает лид успешно выгруженным (терминально)
func (r *Repository) MarkSyncSuccess(ctx context.Context, id int64) error {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Update("incomplete_leads").
		Set("sync_status", domain.SyncSuccess).
		Set("last_sync_at", squirrel.Expr("NOW()")).
		Set("last_sync_error", nil).
		Where(squirrel.Eq{"id": id, "sync_status": string(domain.SyncPending)}).
		ToSql()

	if err != nil {
		return fmt.Errorf("%w: MarkSyncSuccess - build update query: %v", ErrBuildQuery, err)
	}

	if _, err := executor.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("%w: MarkSyncSuccess - execute update: %v", ErrExecQuery, err)
	}

	return nil
}

// MarkSyncSkipped помечает выгрузку лида подавленной (терминально)
// Используется, когда лид записан после завершения сессии
func (r *Repository) MarkSyncSkipped(ctx context.Context, id int64, reason string) error {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Update("incomplete_leads").
		Set("sync_status", domain.SyncSkipped).
		Set("last_sync_at", squirrel.Expr("NOW()")).
		Set("last_sync_error", reason).
		Where(squirrel.Eq{"id": id, "sync_status": string(domain.SyncPending)}).
		ToSql()

	if err != nil {
		return fmt.Errorf("%w: MarkSyncSkipped - build update query: %v", ErrBuildQuery, err)
	}

	if _, err := executor.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("%w: MarkSyncSkipped - execute update: %v", ErrExecQuery, err)
	}

	return nil
}

// RecordSyncFailure фиксирует неудачную попытку выгрузки
// Возвращает новое значение счетчика попыток
// Условный переход, как и остальные sync-мутации: дубликат задачи,
// проигравший гонку терминальному переходу, не накручивает счетчик
// (0 строк - ErrSyncNotPending)
func (r *Repository) RecordSyncFailure(ctx context.Context, id int64, syncErr string) (int, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Update("incomplete_leads").
		Set("sync_attempts", squirrel.Expr("sync_attempts + 1")).
		Set("last_sync_at", squirrel.Expr("NOW()")).
		Set("last_sync_error", syncErr).
		Set("updated_at", squirrel.Expr("NOW()")).
		Where(squirrel.Eq{"id": id, "sync_status": string(domain.SyncPending)}).
		Suffix("RETURNING sync_attempts").
		ToSql()

	if err != nil {
		return 0, fmt.Errorf("%w: RecordSyncFailure - build update query: %v", ErrBuildQuery, err)
	}

	var attempts int
	err = executor.QueryRowContext(ctx, query, args...).Scan(&attempts)
	if err == sql.ErrNoRows {
		return 0, ErrSyncNotPending
	}
	if err != nil {
		return 0, fmt.Errorf("%w: RecordSyncFailure - scan attempts: %v", ErrScanRow, err)
	}

	return attempts, nil
}

// MarkSyncFailed помечает выгрузку окончательно неудавшейся (терминально)
func (r *Repository) MarkSyncFailed(ctx context.Context, id int64) error {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Update("incomplete_leads").
		Set("sync_status", domain.SyncFailed).
		Where(squirrel.Eq{"id": id, "sync_status": string(domain.SyncPending)}).
		ToSql()

	if err != nil {
		return fmt.Errorf("%w: MarkSyncFailed - build update query: %v", ErrBuildQuery, err)
	}

	if _, err := executor.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("%w: MarkSyncFailed - execute update: %v", ErrExecQuery, err)
	}

	return nil
}

// ListPendingSync возвращает ID заброшенных лидов с застрявшей выгрузкой
// Подбирает хвосты, потерянные внутрипроцессной очередью (рестарт процесса,
// сбой планирования): строки sync_status = 'pending', не менявшиеся дольше
// grace-окна. Окно отсекает строки с уже запланированным повтором
func (r *Repository) ListPendingSync(ctx context.Context, cutoff time.Time) ([]int64, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Select("id").
		From("incomplete_leads").
		Where(squirrel.Eq{
			"status":      domain.LeadAbandoned,
			"sync_status": string(domain.SyncPending),
		}).
		Where(squirrel.Lt{"updated_at": cutoff}).
		OrderBy("id").
		ToSql()

	if err != nil {
		return nil, fmt.Errorf("%w: ListPendingSync - build select query: %v", ErrBuildQuery, err)
	}

	rows, err := executor.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("%w: ListPendingSync - execute select: %v", ErrExecQuery, err)
	}
	defer rows.Close()

	ids := make([]int64, 0)
	for rows.Next() {
		var id int64
		if err := rows.Scan(&id); err != nil {
			return nil, fmt.Errorf("%w: ListPendingSync - scan row: %v", ErrScanRow, err)
		}
		ids = append(ids, id)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: ListPendingSync - rows error: %v", ErrScanRow, err)
	}

	return ids, nil
}

// rowScanner общий интерфейс *sql.Row и *sql.Rows
type rowScanner interface {
	Scan(dest ...interface{}) error
}

// scanLead сканирует одну строку в лид
func scanLead(row rowScanner) (*domain.IncompleteLead, error) {
	var lead domain.IncompleteLead
	var bookingDate sql.NullTime
	var createdAt, updatedAt sql.NullTime

	err := row.Scan(
		&lead.ID,
		&lead.SessionID,
		&lead.CustomerName,
		&lead.CustomerEmail,
		&lead.CustomerPhone,
		&lead.ServiceType,
		&lead.CompanyID,
		&bookingDate,
		&lead.StartTime,
		&lead.Status,
		&lead.Sync.Status,
		&lead.Sync.Attempts,
		&lead.Sync.LastAt,
		&lead.Sync.LastError,
		&createdAt,
		&updatedAt,
	)

	if err != nil {
		return nil, err
	}

	if bookingDate.Valid {
		lead.BookingDate = &bookingDate.Time
	}
	lead.CreatedAt = createdAt.Time
	lead.UpdatedAt = updatedAt.Time

	return &lead, nil
}

// columnsList колонки таблицы через запятую для RETURNING
func columnsList() string {
	return strings.Join(leadColumns, ", ")
}
