package termination

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/Masterminds/squirrel"

	"github.com/m04kA/SMC-LeadBookingService/internal/domain"
	"github.com/m04kA/SMC-LeadBookingService/pkg/dbmetrics"
	"github.com/m04kA/SMC-LeadBookingService/pkg/psqlbuilder"
)

// Repository репозиторий журнала закрытия сессий
type Repository struct {
	db DBExecutor
}

// NewRepository создает новый экземпляр репозитория
func NewRepository(db DBExecutor) *Repository {
	return &Repository{db: db}
}

// Record фиксирует сигнал закрытия сессии
// Запись на сессию одна: повторные сигналы (дубли beacon-запросов от клиента)
// игнорируются через ON CONFLICT DO NOTHING - остается самый ранний
func (r *Repository) Record(ctx context.Context, t *domain.SessionTermination) error {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Insert("session_terminations").
		Columns("session_id", "terminated_at", "expires_at").
		Values(t.SessionID, t.TerminatedAt, t.ExpiresAt).
		Suffix("ON CONFLICT (session_id) DO NOTHING").
		ToSql()

	if err != nil {
		return fmt.Errorf("%w: Record - build insert query: %v", ErrBuildQuery, err)
	}

	if _, err := executor.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("%w: Record - execute insert: %v", ErrExecQuery, err)
	}

	return nil
}

// GetBySession получает запись о закрытии сессии
// Записи с истекшим окном хранения не возвращаются - для решений о выгрузке
// они эквивалентны отсутствию сигнала
func (r *Repository) GetBySession(ctx context.Context, sessionID string, now time.Time) (*domain.SessionTermination, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Select("session_id", "terminated_at", "expires_at").
		From("session_terminations").
		Where(squirrel.Eq{"session_id": sessionID}).
		Where(squirrel.Gt{"expires_at": now}).
		ToSql()

	if err != nil {
		return nil, fmt.Errorf("%w: GetBySession - build select query: %v", ErrBuildQuery, err)
	}

	var t domain.SessionTermination
	err = executor.QueryRowContext(ctx, query, args...).Scan(
		&t.SessionID,
		&t.TerminatedAt,
		&t.ExpiresAt,
	)

	if err == sql.ErrNoRows {
		return nil, ErrTerminationNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("%w: GetBySession - scan termination: %v", ErrScanRow, err)
	}

	return &t, nil
}

// PurgeExpired удаляет записи с истекшим окном хранения
// Возвращает количество удаленных строк
func (r *Repository) PurgeExpired(ctx context.Context, now time.Time) (int64, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Delete("session_terminations").
		Where(squirrel.LtOrEq{"expires_at": now}).
		ToSql()

	if err != nil {
		return 0, fmt.Errorf("%w: PurgeExpired - build delete query: %v", ErrBuildQuery, err)
	}

	result, err := executor.ExecContext(ctx, query, args...)
	if err != nil {
		return 0, fmt.Errorf("%w: PurgeExpired - execute delete: %v", ErrExecQuery, err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("%w: PurgeExpired - get rows affected: %v", ErrExecQuery, err)
	}

	return rowsAffected, nil
}
