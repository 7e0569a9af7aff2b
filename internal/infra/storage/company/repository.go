package company

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

// companyColumns полный набор колонок таблицы companies
var companyColumns = []string{
	"id",
	"name",
	"contact_email",
	"contact_phone",
	"open_time",
	"close_time",
	"slot_duration_minutes",
	"active_weekdays",
	"status",
	"created_at",
	"updated_at",
}

// weekdayNames порядок хранения дней недели в колонке active_weekdays
var weekdayNames = map[time.Weekday]string{
	time.Monday:    "Mon",
	time.Tuesday:   "Tue",
	time.Wednesday: "Wed",
	time.Thursday:  "Thu",
	time.Friday:    "Fri",
	time.Saturday:  "Sat",
	time.Sunday:    "Sun",
}

// Repository репозиторий для работы с компаниями
type Repository struct {
	db DBExecutor
}

// NewRepository создает новый экземпляр репозитория компаний
func NewRepository(db DBExecutor) *Repository {
	return &Repository{db: db}
}

// Create создает новую компанию
func (r *Repository) Create(ctx context.Context, company *domain.Company) (*domain.Company, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Insert("companies").
		Columns(
			"name",
			"contact_email",
			"contact_phone",
			"open_time",
			"close_time",
			"slot_duration_minutes",
			"active_weekdays",
			"status",
		).
		Values(
			company.Name,
			company.ContactEmail,
			company.ContactPhone,
			company.OpenTime,
			company.CloseTime,
			company.SlotDurationMinutes,
			weekdaysToCSV(company.ActiveWeekdays),
			company.Status,
		).
		Suffix("RETURNING id, created_at, updated_at").
		ToSql()

	if err != nil {
		return nil, fmt.Errorf("%w: Create - build insert query: %v", ErrBuildQuery, err)
	}

	var createdAt, updatedAt sql.NullTime
	err = executor.QueryRowContext(ctx, query, args...).Scan(
		&company.ID,
		&createdAt,
		&updatedAt,
	)

	if err != nil {
		return nil, fmt.Errorf("%w: Create - execute insert: %v", ErrExecQuery, err)
	}

	company.CreatedAt = createdAt.Time
	company.UpdatedAt = updatedAt.Time

	return company, nil
}

// GetByID получает компанию по ID
func (r *Repository) GetByID(ctx context.Context, id int64) (*domain.Company, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Select(companyColumns...).
		From("companies").
		Where(squirrel.Eq{"id": id}).
		ToSql()

	if err != nil {
		return nil, fmt.Errorf("%w: GetByID - build select query: %v", ErrBuildQuery, err)
	}

	company, err := scanCompany(executor.QueryRowContext(ctx, query, args...))
	if err == sql.ErrNoRows {
		return nil, ErrCompanyNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("%w: GetByID - scan company: %v", ErrScanRow, err)
	}

	return company, nil
}

// List получает список компаний, опционально фильтруя по статусу
func (r *Repository) List(ctx context.Context, status *domain.CompanyStatus) ([]*domain.Company, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	selectBuilder := psqlbuilder.Select(companyColumns...).
		From("companies").
		OrderBy("id ASC")

	if status != nil {
		selectBuilder = selectBuilder.Where(squirrel.Eq{"status": *status})
	}

	query, args, err := selectBuilder.ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: List - build select query: %v", ErrBuildQuery, err)
	}

	rows, err := executor.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("%w: List - execute query: %v", ErrExecQuery, err)
	}
	defer rows.Close()

	companies := make([]*domain.Company, 0)
	for rows.Next() {
		company, err := scanCompany(rows)
		if err != nil {
			return nil, fmt.Errorf("%w: List - scan row: %v", ErrScanRow, err)
		}
		companies = append(companies, company)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: List - rows error: %v", ErrScanRow, err)
	}

	return companies, nil
}

// Update обновляет данные компании
func (r *Repository) Update(ctx context.Context, company *domain.Company) error {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Update("companies").
		Set("name", company.Name).
		Set("contact_email", company.ContactEmail).
		Set("contact_phone", company.ContactPhone).
		Set("open_time", company.OpenTime).
		Set("close_time", company.CloseTime).
		Set("slot_duration_minutes", company.SlotDurationMinutes).
		Set("active_weekdays", weekdaysToCSV(company.ActiveWeekdays)).
		Set("status", company.Status).
		Set("updated_at", squirrel.Expr("NOW()")).
		Where(squirrel.Eq{"id": company.ID}).
		ToSql()

	if err != nil {
		return fmt.Errorf("%w: Update - build update query: %v", ErrBuildQuery, err)
	}

	result, err := executor.ExecContext(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("%w: Update - execute update: %v", ErrExecQuery, err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("%w: Update - get rows affected: %v", ErrExecQuery, err)
	}

	if rowsAffected == 0 {
		return ErrCompanyNotFound
	}

	return nil
}

// rowScanner общий интерфейс *sql.Row и *sql.Rows
type rowScanner interface {
	Scan(dest ...interface{}) error
}

// scanCompany сканирует одну строку в компанию
func scanCompany(row rowScanner) (*domain.Company, error) {
	var company domain.Company
	var weekdays string
	var createdAt, updatedAt sql.NullTime

	err := row.Scan(
		&company.ID,
		&company.Name,
		&company.ContactEmail,
		&company.ContactPhone,
		&company.OpenTime,
		&company.CloseTime,
		&company.SlotDurationMinutes,
		&weekdays,
		&company.Status,
		&createdAt,
		&updatedAt,
	)

	if err != nil {
		return nil, err
	}

	company.ActiveWeekdays = weekdaysFromCSV(weekdays)
	company.CreatedAt = createdAt.Time
	company.UpdatedAt = updatedAt.Time

	return &company, nil
}

// weekdaysToCSV сериализует дни недели в строку вида "Mon,Tue,Sat"
func weekdaysToCSV(days []time.Weekday) string {
	names := make([]string, 0, len(days))
	for _, d := range days {
		if name, ok := weekdayNames[d]; ok {
			names = append(names, name)
		}
	}
	return strings.Join(names, ",")
}

// weekdaysFromCSV парсит строку вида "Mon,Tue,Sat" в дни недели
// Неизвестные значения молча пропускаются
func weekdaysFromCSV(csv string) []time.Weekday {
	days := make([]time.Weekday, 0)
	for _, name := range strings.Split(csv, ",") {
		name = strings.TrimSpace(name)
		for day, dayName := range weekdayNames {
			if dayName == name {
				days = append(days, day)
				break
			}
		}
	}
	return days
}
