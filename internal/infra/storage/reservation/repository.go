package reservation

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/Masterminds/squirrel"
	"github.com/google/uuid"
	"github.com/lib/pq"

	"github.com/m04kA/SMC-SalonBooking/internal/domain"
	"github.com/m04kA/SMC-SalonBooking/pkg/dbmetrics"
	"github.com/m04kA/SMC-SalonBooking/pkg/psqlbuilder"
	"github.com/m04kA/SMC-SalonBooking/pkg/types"
)

const table = "slot_reservations"

// Коды ошибок PostgreSQL
const (
	uniqueViolation      = "23505" // нарушение уникального индекса
	serializationFailure = "40001" // конфликт SERIALIZABLE транзакций
)

// onConflictActiveSlot предикат частичного уникального индекса ux_slot_reservations_active_slot
const onConflictActiveSlot = "ON CONFLICT (booking_date, start_time) WHERE status IN ('held', 'confirmed') DO NOTHING"

var columns = []string{
	"id",
	"booking_date",
	"start_time",
	"status",
	"service_name",
	"price",
	"payment_method",
	"client_name",
	"client_phone",
	"session_id",
	"preference_id",
	"payment_id",
	"hold_expires_at",
	"created_at",
	"updated_at",
}

// activeStatuses статусы, занимающие слот, в виде значений для squirrel.Eq
func activeStatuses() []string {
	out := make([]string, 0, len(domain.ActiveStatuses))
	for _, s := range domain.ActiveStatuses {
		out = append(out, string(s))
	}
	return out
}

// Repository репозиторий резерваций слотов
type Repository struct {
	db DBExecutor
}

// NewRepository создает новый экземпляр репозитория резерваций
func NewRepository(db DBExecutor) *Repository {
	return &Repository{db: db}
}

// CreateHold атомарно создает резервацию, если слот свободен (reserve-if-absent).
// Если на дату и время уже есть held/confirmed резервация, возвращает ErrSlotTaken
func (r *Repository) CreateHold(ctx context.Context, res *domain.Reservation) error {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Insert(table).
		Columns(
			"id",
			"booking_date",
			"start_time",
			"status",
			"service_name",
			"price",
			"payment_method",
			"client_name",
			"client_phone",
			"session_id",
			"preference_id",
			"hold_expires_at",
			"created_at",
			"updated_at",
		).
		Values(
			res.ID,
			res.Date.Format(domain.DateFormat),
			res.StartTime,
			string(res.Status),
			res.ServiceName,
			res.Price,
			string(res.PaymentMethod),
			res.ClientName,
			res.ClientPhone,
			res.SessionID,
			res.PreferenceID,
			res.HoldExpiresAt,
			res.CreatedAt,
			res.UpdatedAt,
		).
		Suffix(onConflictActiveSlot + " RETURNING created_at").
		ToSql()

	if err != nil {
		return fmt.Errorf("%w: CreateHold - build insert query: %v", ErrBuildQuery, err)
	}

	var createdAt time.Time
	err = executor.QueryRowContext(ctx, query, args...).Scan(&createdAt)
	if errors.Is(err, sql.ErrNoRows) {
		// ON CONFLICT DO NOTHING не вернул строку: слот занят
		return fmt.Errorf("%w: %s %s", ErrSlotTaken, domain.DateKey(res.Date), res.StartTime)
	}
	if err != nil {
		if isSlotConflict(err) {
			return fmt.Errorf("%w: %s %s: %v", ErrSlotTaken, domain.DateKey(res.Date), res.StartTime, err)
		}
		return fmt.Errorf("%w: CreateHold - execute insert: %v", ErrExecQuery, err)
	}

	res.CreatedAt = createdAt
	return nil
}

// GetByID получает резервацию по ID.
// Внутри транзакции строка блокируется (FOR UPDATE)
func (r *Repository) GetByID(ctx context.Context, id uuid.UUID) (*domain.Reservation, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	selectBuilder := psqlbuilder.Select(columns...).
		From(table).
		Where(squirrel.Eq{"id": id})

	if dbmetrics.IsInTransaction(ctx) {
		selectBuilder = selectBuilder.Suffix("FOR UPDATE")
	}

	query, args, err := selectBuilder.ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: GetByID - build select query: %v", ErrBuildQuery, err)
	}

	res, err := scanReservation(executor.QueryRowContext(ctx, query, args...))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrReservationNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("%w: GetByID - scan reservation: %v", ErrScanRow, err)
	}

	return res, nil
}

// BookedSlots возвращает занятые слоты на дату в порядке создания резерваций.
// Внутри транзакции активные строки даты блокируются (FOR UPDATE)
func (r *Repository) BookedSlots(ctx context.Context, date time.Time) ([]types.TimeString, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	selectBuilder := psqlbuilder.Select("start_time").
		From(table).
		Where(squirrel.Eq{
			"booking_date": date.Format(domain.DateFormat),
			"status":       activeStatuses(),
		}).
		OrderBy("created_at ASC", "start_time ASC")

	if dbmetrics.IsInTransaction(ctx) {
		selectBuilder = selectBuilder.Suffix("FOR UPDATE")
	}

	query, args, err := selectBuilder.ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: BookedSlots - build select query: %v", ErrBuildQuery, err)
	}

	rows, err := executor.QueryContext(ctx, query, args...)
	if err != nil {
		if IsSerializationFailure(err) {
			return nil, fmt.Errorf("%w: %s: %v", ErrSlotTaken, domain.DateKey(date), err)
		}
		return nil, fmt.Errorf("%w: BookedSlots - execute select: %v", ErrExecQuery, err)
	}
	defer rows.Close()

	slots := make([]types.TimeString, 0)
	for rows.Next() {
		var slot types.TimeString
		if err := rows.Scan(&slot); err != nil {
			return nil, fmt.Errorf("%w: BookedSlots - scan slot: %v", ErrScanRow, err)
		}
		slots = append(slots, slot)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: BookedSlots - rows iteration: %v", ErrScanRow, err)
	}

	return slots, nil
}

// LedgerFrom строит журнал занятых слотов, начиная с даты from (включительно)
func (r *Repository) LedgerFrom(ctx context.Context, from time.Time) (domain.BookingLedger, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Select("booking_date", "start_time").
		From(table).
		Where(squirrel.GtOrEq{"booking_date": from.Format(domain.DateFormat)}).
		Where(squirrel.Eq{"status": activeStatuses()}).
		OrderBy("booking_date ASC", "created_at ASC", "start_time ASC").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: LedgerFrom - build select query: %v", ErrBuildQuery, err)
	}

	rows, err := executor.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("%w: LedgerFrom - execute select: %v", ErrExecQuery, err)
	}
	defer rows.Close()

	ledger := make(domain.BookingLedger)
	for rows.Next() {
		var (
			date time.Time
			slot types.TimeString
		)
		if err := rows.Scan(&date, &slot); err != nil {
			return nil, fmt.Errorf("%w: LedgerFrom - scan row: %v", ErrScanRow, err)
		}
		key := domain.DateKey(date)
		ledger[key] = append(ledger[key], slot)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: LedgerFrom - rows iteration: %v", ErrScanRow, err)
	}

	return ledger, nil
}

// UpdateStatus сохраняет статус и payment_id резервации.
// Подтверждение просроченного hold, чей слот уже занят, возвращает ErrSlotTaken
func (r *Repository) UpdateStatus(ctx context.Context, res *domain.Reservation) error {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Update(table).
		Set("status", string(res.Status)).
		Set("payment_id", res.PaymentID).
		Set("updated_at", res.UpdatedAt).
		Where(squirrel.Eq{"id": res.ID}).
		ToSql()

	if err != nil {
		return fmt.Errorf("%w: UpdateStatus - build update query: %v", ErrBuildQuery, err)
	}

	result, err := executor.ExecContext(ctx, query, args...)
	if err != nil {
		if isSlotConflict(err) {
			return fmt.Errorf("%w: %s %s: %v", ErrSlotTaken, domain.DateKey(res.Date), res.StartTime, err)
		}
		return fmt.Errorf("%w: UpdateStatus - execute update: %v", ErrExecQuery, err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("%w: UpdateStatus - get rows affected: %v", ErrExecQuery, err)
	}
	if rowsAffected == 0 {
		return ErrReservationNotFound
	}

	return nil
}

// ExpireHolds переводит held резервации с истекшим сроком в expired.
// Возвращает ID просроченных резерваций
func (r *Repository) ExpireHolds(ctx context.Context, now time.Time) ([]uuid.UUID, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Update(table).
		Set("status", string(domain.StatusExpired)).
		Set("updated_at", now).
		Where(squirrel.Eq{"status": string(domain.StatusHeld)}).
		Where(squirrel.LtOrEq{"hold_expires_at": now}).
		Suffix("RETURNING id").
		ToSql()

	if err != nil {
		return nil, fmt.Errorf("%w: ExpireHolds - build update query: %v", ErrBuildQuery, err)
	}

	rows, err := executor.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("%w: ExpireHolds - execute update: %v", ErrExecQuery, err)
	}
	defer rows.Close()

	ids := make([]uuid.UUID, 0)
	for rows.Next() {
		var id uuid.UUID
		if err := rows.Scan(&id); err != nil {
			return nil, fmt.Errorf("%w: ExpireHolds - scan id: %v", ErrScanRow, err)
		}
		ids = append(ids, id)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: ExpireHolds - rows iteration: %v", ErrScanRow, err)
	}

	return ids, nil
}

func scanReservation(row *sql.Row) (*domain.Reservation, error) {
	var (
		res           domain.Reservation
		status        string
		paymentMethod string
		paymentID     sql.NullString
	)

	err := row.Scan(
		&res.ID,
		&res.Date,
		&res.StartTime,
		&status,
		&res.ServiceName,
		&res.Price,
		&paymentMethod,
		&res.ClientName,
		&res.ClientPhone,
		&res.SessionID,
		&res.PreferenceID,
		&paymentID,
		&res.HoldExpiresAt,
		&res.CreatedAt,
		&res.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}

	res.Status = domain.ReservationStatus(status)
	res.PaymentMethod = domain.PaymentMethod(paymentMethod)
	if paymentID.Valid {
		res.PaymentID = &paymentID.String
	}

	return &res, nil
}

// isSlotConflict конкурентная запись того же слота: уникальный индекс или SERIALIZABLE
func isSlotConflict(err error) bool {
	var pqErr *pq.Error
	if !errors.As(err, &pqErr) {
		return false
	}
	return pqErr.Code == uniqueViolation || pqErr.Code == serializationFailure
}

// IsSerializationFailure сообщает, что SERIALIZABLE транзакция проиграла гонку (SQLSTATE 40001).
// Ошибка может прийти и из COMMIT, поэтому проверяется по всей цепочке
func IsSerializationFailure(err error) bool {
	var pqErr *pq.Error
	return errors.As(err, &pqErr) && pqErr.Code == serializationFailure
}
