package schedule

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/Masterminds/squirrel"

	"github.com/m04kA/SMC-ReservationService/internal/domain"
	"github.com/m04kA/SMC-ReservationService/pkg/dbmetrics"
	"github.com/m04kA/SMC-ReservationService/pkg/psqlbuilder"
	"github.com/m04kA/SMC-ReservationService/pkg/timecode"
)

// Repository репозиторий для работы с расписаниями мастеров.
// Расписание хранится нормализованно: schedules -> schedule_days -> schedule_slots,
// уникальность (day_id, time_code) обеспечивает дедупликацию на уровне БД.
type Repository struct {
	db DBExecutor
}

// NewRepository создает новый экземпляр репозитория расписаний
func NewRepository(db DBExecutor) *Repository {
	return &Repository{db: db}
}

// GetByProfessional получает полное расписание мастера со всеми днями и слотами
func (r *Repository) GetByProfessional(ctx context.Context, professionalID int64) (*domain.Schedule, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Select("id", "professional_id", "created_at", "updated_at").
		From("schedules").
		Where(squirrel.Eq{"professional_id": professionalID}).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: GetByProfessional - build select query: %v", ErrBuildQuery, err)
	}

	var sched domain.Schedule
	var createdAt, updatedAt sql.NullTime

	err = executor.QueryRowContext(ctx, query, args...).Scan(
		&sched.ID,
		&sched.ProfessionalID,
		&createdAt,
		&updatedAt,
	)
	if err == sql.ErrNoRows {
		return nil, ErrScheduleNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("%w: GetByProfessional - scan schedule: %v", ErrScanRow, err)
	}

	sched.CreatedAt = createdAt.Time
	sched.UpdatedAt = updatedAt.Time

	days, err := r.loadDays(ctx, executor, sched.ID)
	if err != nil {
		return nil, err
	}
	sched.Days = days

	return &sched, nil
}

// CreateOrReplace создает расписание мастера или полностью заменяет его дни.
// Дни заменяются целиком: выживают только дни, присутствующие во входе.
// Возвращает расписание и признак, было ли оно только что создано.
func (r *Repository) CreateOrReplace(ctx context.Context, professionalID int64, days []domain.Day) (*domain.Schedule, bool, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	created := false

	// Upsert строки расписания
	query, args, err := psqlbuilder.Insert("schedules").
		Columns("professional_id").
		Values(professionalID).
		Suffix("ON CONFLICT (professional_id) DO UPDATE SET updated_at = NOW() RETURNING id, (xmax = 0)").
		ToSql()
	if err != nil {
		return nil, false, fmt.Errorf("%w: CreateOrReplace - build upsert query: %v", ErrBuildQuery, err)
	}

	var scheduleID int64
	if err := executor.QueryRowContext(ctx, query, args...).Scan(&scheduleID, &created); err != nil {
		return nil, false, fmt.Errorf("%w: CreateOrReplace - upsert schedule: %v", ErrExecQuery, err)
	}

	// Старые дни удаляются каскадно вместе со слотами
	query, args, err = psqlbuilder.Delete("schedule_days").
		Where(squirrel.Eq{"schedule_id": scheduleID}).
		ToSql()
	if err != nil {
		return nil, false, fmt.Errorf("%w: CreateOrReplace - build delete query: %v", ErrBuildQuery, err)
	}
	if _, err := executor.ExecContext(ctx, query, args...); err != nil {
		return nil, false, fmt.Errorf("%w: CreateOrReplace - delete old days: %v", ErrExecQuery, err)
	}

	for i := range days {
		if err := r.insertDay(ctx, executor, scheduleID, &days[i]); err != nil {
			return nil, false, err
		}
	}

	sched, err := r.GetByProfessional(ctx, professionalID)
	if err != nil {
		return nil, false, err
	}

	return sched, created, nil
}

// ReplaceDay заменяет один день расписания (вместе со слотами)
func (r *Repository) ReplaceDay(ctx context.Context, scheduleID int64, day domain.Day) error {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Delete("schedule_days").
		Where(squirrel.Eq{"schedule_id": scheduleID, "weekday": int(day.Weekday)}).
		ToSql()
	if err != nil {
		return fmt.Errorf("%w: ReplaceDay - build delete query: %v", ErrBuildQuery, err)
	}
	if _, err := executor.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("%w: ReplaceDay - delete day: %v", ErrExecQuery, err)
	}

	return r.insertDay(ctx, executor, scheduleID, &day)
}

// SetSlotDiscount устанавливает скидку на один слот дня
func (r *Repository) SetSlotDiscount(ctx context.Context, professionalID int64, weekday time.Weekday, code timecode.TimeCode, discount int) error {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Update("schedule_slots").
		Set("discount", discount).
		Where(squirrel.Expr(
			"day_id = (SELECT d.id FROM schedule_days d JOIN schedules s ON s.id = d.schedule_id WHERE s.professional_id = ? AND d.weekday = ?)",
			professionalID, int(weekday),
		)).
		Where(squirrel.Eq{"time_code": int(code)}).
		ToSql()
	if err != nil {
		return fmt.Errorf("%w: SetSlotDiscount - build update query: %v", ErrBuildQuery, err)
	}

	result, err := executor.ExecContext(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("%w: SetSlotDiscount - execute update: %v", ErrExecQuery, err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("%w: SetSlotDiscount - get rows affected: %v", ErrExecQuery, err)
	}
	if rowsAffected == 0 {
		return ErrSlotNotFound
	}

	return nil
}

// SetSlotAvailabilityRange открывает/закрывает слоты дня в диапазоне
// кодов [fromCode, toCode). Внутренняя операция машины состояний и фонового
// прохода, не пользовательский эндпоинт.
func (r *Repository) SetSlotAvailabilityRange(ctx context.Context, professionalID int64, weekday time.Weekday, fromCode, toCode timecode.TimeCode, available bool) error {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Update("schedule_slots").
		Set("is_available", available).
		Where(squirrel.Expr(
			"day_id = (SELECT d.id FROM schedule_days d JOIN schedules s ON s.id = d.schedule_id WHERE s.professional_id = ? AND d.weekday = ?)",
			professionalID, int(weekday),
		)).
		Where(squirrel.GtOrEq{"time_code": int(fromCode)}).
		Where(squirrel.Lt{"time_code": int(toCode)}).
		ToSql()
	if err != nil {
		return fmt.Errorf("%w: SetSlotAvailabilityRange - build update query: %v", ErrBuildQuery, err)
	}

	if _, err := executor.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("%w: SetSlotAvailabilityRange - execute update: %v", ErrExecQuery, err)
	}

	// Ноль затронутых строк не ошибка: диапазон может не пересекать ни одного
	// слота (например, конец услуги на границе рабочего дня)
	return nil
}

// insertDay вставляет день со слотами
func (r *Repository) insertDay(ctx context.Context, executor DBExecutor, scheduleID int64, day *domain.Day) error {
	query, args, err := psqlbuilder.Insert("schedule_days").
		Columns("schedule_id", "weekday", "start_time", "end_time", "start_code", "end_code").
		Values(scheduleID, int(day.Weekday), day.StartTime, day.EndTime, int(day.StartCode), int(day.EndCode)).
		Suffix("RETURNING id").
		ToSql()
	if err != nil {
		return fmt.Errorf("%w: insertDay - build insert query: %v", ErrBuildQuery, err)
	}

	if err := executor.QueryRowContext(ctx, query, args...).Scan(&day.ID); err != nil {
		return fmt.Errorf("%w: insertDay - execute insert: %v", ErrExecQuery, err)
	}

	if len(day.Slots) == 0 {
		return nil
	}

	insertBuilder := psqlbuilder.Insert("schedule_slots").
		Columns("day_id", "time_str", "time_code", "is_available", "discount")
	for _, slot := range day.Slots {
		insertBuilder = insertBuilder.Values(day.ID, slot.Time, int(slot.TimeCode), slot.IsAvailable, slot.Discount)
	}

	query, args, err = insertBuilder.ToSql()
	if err != nil {
		return fmt.Errorf("%w: insertDay - build slots insert query: %v", ErrBuildQuery, err)
	}

	if _, err := executor.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("%w: insertDay - insert slots: %v", ErrExecQuery, err)
	}

	return nil
}

// loadDays загружает дни расписания вместе со слотами
func (r *Repository) loadDays(ctx context.Context, executor DBExecutor, scheduleID int64) ([]domain.Day, error) {
	query, args, err := psqlbuilder.Select("id", "weekday", "start_time", "end_time", "start_code", "end_code").
		From("schedule_days").
		Where(squirrel.Eq{"schedule_id": scheduleID}).
		OrderBy("weekday ASC").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: loadDays - build select query: %v", ErrBuildQuery, err)
	}

	rows, err := executor.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("%w: loadDays - execute query: %v", ErrExecQuery, err)
	}
	defer rows.Close()

	days := make([]domain.Day, 0)
	dayIDs := make([]int64, 0)

	for rows.Next() {
		var day domain.Day
		var weekday, startCode, endCode int

		if err := rows.Scan(&day.ID, &weekday, &day.StartTime, &day.EndTime, &startCode, &endCode); err != nil {
			return nil, fmt.Errorf("%w: loadDays - scan day: %v", ErrScanRow, err)
		}

		day.Weekday = time.Weekday(weekday)
		day.StartCode = timecode.TimeCode(startCode)
		day.EndCode = timecode.TimeCode(endCode)
		day.Slots = make([]domain.TimeSlot, 0)

		days = append(days, day)
		dayIDs = append(dayIDs, day.ID)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: loadDays - rows error: %v", ErrScanRow, err)
	}

	if len(days) == 0 {
		return days, nil
	}

	query, args, err = psqlbuilder.Select("id", "day_id", "time_str", "time_code", "is_available", "discount").
		From("schedule_slots").
		Where(squirrel.Eq{"day_id": dayIDs}).
		OrderBy("day_id ASC, time_code ASC").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: loadDays - build slots query: %v", ErrBuildQuery, err)
	}

	slotRows, err := executor.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("%w: loadDays - execute slots query: %v", ErrExecQuery, err)
	}
	defer slotRows.Close()

	slotsByDay := make(map[int64][]domain.TimeSlot, len(days))
	for slotRows.Next() {
		var slot domain.TimeSlot
		var dayID int64
		var code int
		var discount sql.NullInt64

		if err := slotRows.Scan(&slot.ID, &dayID, &slot.Time, &code, &slot.IsAvailable, &discount); err != nil {
			return nil, fmt.Errorf("%w: loadDays - scan slot: %v", ErrScanRow, err)
		}

		slot.TimeCode = timecode.TimeCode(code)
		if discount.Valid {
			d := int(discount.Int64)
			slot.Discount = &d
		}

		slotsByDay[dayID] = append(slotsByDay[dayID], slot)
	}
	if err := slotRows.Err(); err != nil {
		return nil, fmt.Errorf("%w: loadDays - slot rows error: %v", ErrScanRow, err)
	}

	for i := range days {
		if slots, ok := slotsByDay[days[i].ID]; ok {
			days[i].Slots = slots
		}
	}

	return days, nil
}
