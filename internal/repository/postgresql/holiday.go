package postgresql

import (
	"context"
	"time"

	"github.com/cmlabs-hris/leave-tracker-go/internal/domain/leave"
	"github.com/cmlabs-hris/leave-tracker-go/internal/pkg/database"
	"github.com/jackc/pgx/v5/pgconn"
)

type holidayRepositoryImpl struct {
	db *database.DB
}

func NewHolidayRepository(db *database.DB) leave.HolidayRepository {
	return &holidayRepositoryImpl{db: db}
}

// Create implements leave.HolidayRepository.
func (r *holidayRepositoryImpl) Create(ctx context.Context, holiday leave.Holiday) (leave.Holiday, error) {
	q := GetQuerier(ctx, r.db)
	query := `
		INSERT INTO holidays (id, date, name, is_public, created_at)
		VALUES (uuidv7(), $1, $2, $3, NOW())
		RETURNING id, created_at
	`

	err := q.QueryRow(ctx, query, holiday.Date, holiday.Name, holiday.IsPublic).
		Scan(&holiday.ID, &holiday.CreatedAt)
	if err != nil {
		var pgErr *pgconn.PgError
		if errAs(err, &pgErr) && pgErr.Code == uniqueViolation {
			return leave.Holiday{}, leave.ErrHolidayExists
		}
		return leave.Holiday{}, err
	}

	return holiday, nil
}

// List implements leave.HolidayRepository.
func (r *holidayRepositoryImpl) List(ctx context.Context) ([]leave.Holiday, error) {
	q := GetQuerier(ctx, r.db)
	query := `
		SELECT id, date, name, is_public, created_at
		FROM holidays
		ORDER BY date
	`

	rows, err := q.Query(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	holidays := make([]leave.Holiday, 0)
	for rows.Next() {
		var holiday leave.Holiday
		if err := rows.Scan(&holiday.ID, &holiday.Date, &holiday.Name, &holiday.IsPublic, &holiday.CreatedAt); err != nil {
			return nil, err
		}
		holidays = append(holidays, holiday)
	}

	return holidays, nil
}

// ListByDateRange implements leave.HolidayRepository. Bounds are inclusive.
func (r *holidayRepositoryImpl) ListByDateRange(ctx context.Context, from, to time.Time) ([]leave.Holiday, error) {
	q := GetQuerier(ctx, r.db)
	query := `
		SELECT id, date, name, is_public, created_at
		FROM holidays
		WHERE date BETWEEN $1 AND $2
		ORDER BY date
	`

	rows, err := q.Query(ctx, query, from, to)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	holidays := make([]leave.Holiday, 0)
	for rows.Next() {
		var holiday leave.Holiday
		if err := rows.Scan(&holiday.ID, &holiday.Date, &holiday.Name, &holiday.IsPublic, &holiday.CreatedAt); err != nil {
			return nil, err
		}
		holidays = append(holidays, holiday)
	}

	return holidays, nil
}
