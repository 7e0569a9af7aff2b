package booking

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/Masterminds/squirrel"
	"github.com/lib/pq"

	"github.com/m04kA/SMC-LeadBookingService/internal/domain"
	"github.com/m04kA/SMC-LeadBookingService/pkg/dbmetrics"
	"github.com/m04kA/SMC-LeadBookingService/pkg/psqlbuilder"
	"github.com/m04kA/SMC-LeadBookingService/pkg/types"
)

// bookingColumns полный набор колонок таблицы bookings
var bookingColumns = []string{
	"id",
	"company_id",
	"service_type",
	"booking_date",
	"start_time",
	"status",
	"customer_name",
	"customer_email",
	"customer_phone",
	"session_id",
	"notes",
	"cancellation_reason",
	"cancelled_at",
	"sync_status",
	"sync_attempts",
	"last_sync_at",
	"last_sync_error",
	"created_at",
	"updated_at",
}

// Repository репозиторий для работы с бронированиями
type Repository struct {
	db DBExecutor
}

// NewRepository создает новый экземпляр репозитория бронирований
func NewRepository(db DBExecutor) *Repository {
	return &Repository{db: db}
}

// Create создает новое бронирование
// Если в контексте передана активная транзакция (через context.Value), использует её.
// Уникальность слота защищена частичным уникальным индексом по
// (company_id, booking_date, start_time) WHERE status IN ('pending', 'confirmed'):
// при конкурентной вставке проигравший получает ErrSlotTaken
func (r *Repository) Create(ctx context.Context, booking *domain.Booking) (*domain.Booking, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Insert("bookings").
		Columns(
			"company_id",
			"service_type",
			"booking_date",
			"start_time",
			"status",
			"customer_name",
			"customer_email",
			"customer_phone",
			"session_id",
			"notes",
		).
		Values(
			booking.CompanyID,
			booking.ServiceType,
			booking.BookingDate,
			booking.StartTime,
			booking.Status,
			booking.CustomerName,
			booking.CustomerEmail,
			booking.CustomerPhone,
			booking.SessionID,
			booking.Notes,
		).
		Suffix("RETURNING id, sync_status, created_at, updated_at").
		ToSql()

	if err != nil {
		return nil, fmt.Errorf("%w: Create - build insert query: %v", ErrBuildQuery, err)
	}

	var createdAt, updatedAt sql.NullTime
	err = executor.QueryRowContext(ctx, query, args...).Scan(
		&booking.ID,
		&booking.Sync.Status,
		&createdAt,
		&updatedAt,
	)

	if err != nil {
		if pqErr, ok := err.(*pq.Error); ok && pqErr.Code == "23505" {
			return nil, ErrSlotTaken
		}
		return nil, fmt.Errorf("%w: Create - execute insert: %v", ErrExecQuery, err)
	}

	booking.CreatedAt = createdAt.Time
	booking.UpdatedAt = updatedAt.Time

	return booking, nil
}

// GetByID получает бронирование по ID
func (r *Repository) GetByID(ctx context.Context, id int64) (*domain.Booking, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Select(bookingColumns...).
		From("bookings").
		Where(squirrel.Eq{"id": id}).
		ToSql()

	if err != nil {
		return nil, fmt.Errorf("%w: GetByID - build select query: %v", ErrBuildQuery, err)
	}

	booking, err := scanBooking(executor.QueryRowContext(ctx, query, args...))
	if err == sql.ErrNoRows {
		return nil, ErrBookingNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("%w: GetByID - scan booking: %v", ErrScanRow, err)
	}

	return booking, nil
}

// CountActiveBySlot подсчитывает активные бронирования, занимающие слот
// (companyID, date, startTime). Сравнение строго по равенству тройки:
// бронирования других компаний на то же время не учитываются
func (r *Repository) CountActiveBySlot(ctx context.Context, companyID int64, date time.Time, startTime types.TimeString) (int, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Select("COUNT(*)").
		From("bookings").
		Where(squirrel.Eq{
			"company_id":   companyID,
			"booking_date": date,
			"start_time":   startTime,
			"status":       activeStatusStrings(),
		}).
		ToSql()

	if err != nil {
		return 0, fmt.Errorf("%w: CountActiveBySlot - build select query: %v", ErrBuildQuery, err)
	}

	var count int
	if err := executor.QueryRowContext(ctx, query, args...).Scan(&count); err != nil {
		return 0, fmt.Errorf("%w: CountActiveBySlot - scan count: %v", ErrScanRow, err)
	}

	return count, nil
}

// GetByCompanyWithFilter получает бронирования компании с гибкой фильтрацией
// Внутри транзакции с фильтром по конкретной дате добавляет FOR UPDATE -
// используется usecase создания бронирования для защиты от гонок
func (r *Repository) GetByCompanyWithFilter(ctx context.Context, filter domain.CompanyBookingsFilter) ([]*domain.Booking, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	selectBuilder := psqlbuilder.Select(bookingColumns...).
		From("bookings").
		Where(squirrel.Eq{"company_id": filter.CompanyID})

	if filter.Date != nil {
		selectBuilder = selectBuilder.Where(squirrel.Eq{"booking_date": *filter.Date})
	}

	if filter.StartTime != nil {
		selectBuilder = selectBuilder.Where(squirrel.Eq{"start_time": *filter.StartTime})
	}

	if filter.Status != nil {
		selectBuilder = selectBuilder.Where(squirrel.Eq{"status": *filter.Status})
	} else if !filter.IncludeInactive {
		selectBuilder = selectBuilder.Where(squirrel.Eq{"status": activeStatusStrings()})
	}

	if filter.Date != nil {
		selectBuilder = selectBuilder.OrderBy("start_time ASC")
	} else {
		selectBuilder = selectBuilder.OrderBy("booking_date DESC, start_time DESC")
	}

	if dbmetrics.IsInTransaction(ctx) && filter.Date != nil {
		selectBuilder = selectBuilder.Suffix("FOR UPDATE")
	}

	query, args, err := selectBuilder.ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: GetByCompanyWithFilter - build select query: %v", ErrBuildQuery, err)
	}

	rows, err := executor.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("%w: GetByCompanyWithFilter - execute query: %v", ErrExecQuery, err)
	}
	defer rows.Close()

	return scanBookings(rows)
}

// UpdateStatus обновляет статус бронирования
func (r *Repository) UpdateStatus(ctx context.Context, id int64, status domain.BookingStatus) error {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Update("bookings").
		Set("status", status).
		Set("updated_at", squirrel.Expr("NOW()")).
		Where(squirrel.Eq{"id": id}).
		ToSql()

	if err != nil {
		return fmt.Errorf("%w: UpdateStatus - build update query: %v", ErrBuildQuery, err)
	}

	result, err := executor.ExecContext(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("%w: UpdateStatus - execute update: %v", ErrExecQuery, err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("%w: UpdateStatus - get rows affected: %v", ErrExecQuery, err)
	}

	if rowsAffected == 0 {
		return ErrBookingNotFound
	}

	return nil
}

// Cancel отменяет бронирование с указанием причины
// Условный переход: статус меняется только из активного состояния,
// повторная отмена не перезаписывает причину и время отмены
func (r *Repository) Cancel(ctx context.Context, id int64, reason string) error {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Update("bookings").
		Set("status", domain.StatusCancelled).
		Set("cancellation_reason", reason).
		Set("cancelled_at", squirrel.Expr("NOW()")).
		Set("updated_at", squirrel.Expr("NOW()")).
		Where(squirrel.Eq{"id": id, "status": activeStatusStrings()}).
		ToSql()

	if err != nil {
		return fmt.Errorf("%w: Cancel - build update query: %v", ErrBuildQuery, err)
	}

	result, err := executor.ExecContext(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("%w: Cancel - execute update: %v", ErrExecQuery, err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("%w: Cancel - get rows affected: %v", ErrExecQuery, err)
	}

	if rowsAffected == 0 {
		return ErrBookingNotFound
	}

	return nil
}

// MarkSyncSuccess помечает бронирование успешно выгруженным
// Терминальный переход: выполняется только если статус ещё не терминальный
func (r *Repository) MarkSyncSuccess(ctx context.Context, id int64) error {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Update("bookings").
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

// RecordSyncFailure фиксирует неудачную попытку выгрузки
// Возвращает новое значение счетчика попыток
// Условный переход, как и остальные sync-мутации: дубликат задачи,
// проигравший гонку терминальному переходу, не накручивает счетчик
// (0 строк - ErrSyncNotPending)
func (r *Repository) RecordSyncFailure(ctx context.Context, id int64, syncErr string) (int, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Update("bookings").
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

// MarkSyncFailed помечает выгрузку окончательно неудавшейся
// Вызывается после исчерпания лимита попыток; повторы прекращаются
func (r *Repository) MarkSyncFailed(ctx context.Context, id int64) error {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Update("bookings").
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

// ListPendingSync возвращает ID бронирований с застрявшей выгрузкой
// Подбирает хвосты, потерянные внутрипроцессной очередью (рестарт процесса,
// сбой планирования): строки sync_status = 'pending', не менявшиеся дольше
// grace-окна. Окно отсекает строки с уже запланированным повтором
func (r *Repository) ListPendingSync(ctx context.Context, cutoff time.Time) ([]int64, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Select("id").
		From("bookings").
		Where(squirrel.Eq{"sync_status": string(domain.SyncPending)}).
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

// scanBooking сканирует одну строку в бронирование
func scanBooking(row rowScanner) (*domain.Booking, error) {
	var booking domain.Booking
	var createdAt, updatedAt sql.NullTime

	err := row.Scan(
		&booking.ID,
		&booking.CompanyID,
		&booking.ServiceType,
		&booking.BookingDate,
		&booking.StartTime,
		&booking.Status,
		&booking.CustomerName,
		&booking.CustomerEmail,
		&booking.CustomerPhone,
		&booking.SessionID,
		&booking.Notes,
		&booking.CancellationReason,
		&booking.CancelledAt,
		&booking.Sync.Status,
		&booking.Sync.Attempts,
		&booking.Sync.LastAt,
		&booking.Sync.LastError,
		&createdAt,
		&updatedAt,
	)

	if err != nil {
		return nil, err
	}

	booking.CreatedAt = createdAt.Time
	booking.UpdatedAt = updatedAt.Time

	return &booking, nil
}

// scanBookings сканирует результаты запроса в слайс бронирований
func scanBookings(rows *sql.Rows) ([]*domain.Booking, error) {
	bookings := make([]*domain.Booking, 0)

	for rows.Next() {
		booking, err := scanBooking(rows)
		if err != nil {
			return nil, fmt.Errorf("%w: scanBookings - scan row: %v", ErrScanRow, err)
		}
		bookings = append(bookings, booking)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: scanBookings - rows error: %v", ErrScanRow, err)
	}

	return bookings, nil
}

// activeStatusStrings статусы активных бронирований для SQL фильтров
func activeStatusStrings() []string {
	statuses := make([]string, len(domain.ActiveBookingStatuses))
	for i, s := range domain.ActiveBookingStatuses {
		statuses[i] = string(s)
	}
	return statuses
}
