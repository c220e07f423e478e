package repository

import (
	"context"
	"database/sql"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	"timeclock.service/internal/core/model"
)

const shiftColumns = `shift_id, user_id, name, clock_in, clock_out, time_worked`

type rowScanner interface {
	Scan(dest ...any) error
}

func scanShift(row rowScanner) (*model.Shift, error) {
	var (
		s        model.Shift
		clockOut sql.NullTime
	)
	if err := row.Scan(&s.ID, &s.UserID, &s.Name, &s.ClockIn, &clockOut, &s.TimeWorked); err != nil {
		return nil, err
	}
	if clockOut.Valid {
		t := clockOut.Time
		s.ClockOut = &t
	}
	return &s, nil
}

// CreateShift opens a shift for the user.
func (r *PostgresRepository) CreateShift(ctx context.Context, userID, name string, clockIn time.Time) (int64, error) {
	trace.SpanFromContext(ctx).SetAttributes(attribute.String("app.user_id", userID))

	var id int64
	query := `INSERT INTO shifts (user_id, name, clock_in, time_worked)
              VALUES ($1, $2, $3, '') RETURNING shift_id`

	if err := r.db.QueryRowContext(ctx, query, userID, name, clockIn).Scan(&id); err != nil {
		return 0, translate(err)
	}
	return id, nil
}

// GetShift fetches a shift record by its ID.
func (r *PostgresRepository) GetShift(ctx context.Context, id int64) (*model.Shift, error) {
	query := `SELECT ` + shiftColumns + ` FROM shifts WHERE shift_id = $1`

	s, err := scanShift(r.db.QueryRowContext(ctx, query, id))
	if err != nil {
		return nil, translate(err)
	}
	return s, nil
}

// FindOpenShift returns the user's open shift, or nil when none is open.
func (r *PostgresRepository) FindOpenShift(ctx context.Context, userID string) (*model.Shift, error) {
	trace.SpanFromContext(ctx).SetAttributes(attribute.String("app.user_id", userID))

	query := `SELECT ` + shiftColumns + `
              FROM shifts
              WHERE user_id = $1 AND clock_out IS NULL
              ORDER BY clock_in DESC
              LIMIT 1`

	s, err := scanShift(r.db.QueryRowContext(ctx, query, userID))
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return s, nil
}

// ListShifts returns shifts whose clock-in falls in [from, to), oldest first.
func (r *PostgresRepository) ListShifts(ctx context.Context, from, to time.Time) ([]model.Shift, error) {
	query := `SELECT ` + shiftColumns + `
              FROM shifts
              WHERE clock_in >= $1 AND clock_in < $2
              ORDER BY clock_in, shift_id`

	rows, err := r.db.QueryContext(ctx, query, from, to)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	shifts := make([]model.Shift, 0)
	for rows.Next() {
		s, err := scanShift(rows)
		if err != nil {
			return nil, err
		}
		shifts = append(shifts, *s)
	}
	return shifts, rows.Err()
}

// ListShiftRows is ListShifts joined with the employee's contact details.
func (r *PostgresRepository) ListShiftRows(ctx context.Context, from, to time.Time) ([]model.ShiftRow, error) {
	query := `SELECT s.shift_id, s.user_id, s.name, s.clock_in, s.clock_out, s.time_worked,
                     COALESCE(u.phone_number, ''), COALESCE(u.email, ''), COALESCE(u.physical_mailing_address, '')
              FROM shifts s
              LEFT JOIN users u ON u.user_id = s.user_id
              WHERE s.clock_in >= $1 AND s.clock_in < $2
              ORDER BY s.clock_in, s.shift_id`

	rows, err := r.db.QueryContext(ctx, query, from, to)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]model.ShiftRow, 0)
	for rows.Next() {
		var (
			row      model.ShiftRow
			clockOut sql.NullTime
		)
		if err := rows.Scan(&row.ID, &row.UserID, &row.Name, &row.ClockIn, &clockOut, &row.TimeWorked,
			&row.PhoneNumber, &row.Email, &row.MailingAddress); err != nil {
			return nil, err
		}
		if clockOut.Valid {
			t := clockOut.Time
			row.ClockOut = &t
		}
		out = append(out, row)
	}
	return out, rows.Err()
}

// CloseShift sets the clock-out of a shift that is still open. It reports
// false when the shift was already closed by someone else.
func (r *PostgresRepository) CloseShift(ctx context.Context, id int64, clockOut time.Time, timeWorked string) (bool, error) {
	query := `UPDATE shifts
              SET clock_out = $1,
                  time_worked = $2
              WHERE shift_id = $3 AND clock_out IS NULL`

	res, err := r.db.ExecContext(ctx, query, clockOut, timeWorked, id)
	if err != nil {
		return false, err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return false, err
	}
	return n == 1, nil
}

// UpdateShiftTimes overwrites both times. A nil clockOut reopens the shift.
func (r *PostgresRepository) UpdateShiftTimes(ctx context.Context, id int64, clockIn time.Time, clockOut *time.Time, timeWorked string) error {
	query := `UPDATE shifts
              SET clock_in = $1,
                  clock_out = $2,
                  time_worked = $3
              WHERE shift_id = $4`

	var out sql.NullTime
	if clockOut != nil {
		out = sql.NullTime{Time: *clockOut, Valid: true}
	}

	res, err := r.db.ExecContext(ctx, query, clockIn, out, timeWorked, id)
	if err != nil {
		return translate(err)
	}
	return expectAffected(res)
}

func (r *PostgresRepository) DeleteShift(ctx context.Context, id int64) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM shifts WHERE shift_id = $1`, id)
	if err != nil {
		return err
	}
	return expectAffected(res)
}

// CountShiftsBefore counts shifts clocked in strictly before cutoff.
func (r *PostgresRepository) CountShiftsBefore(ctx context.Context, cutoff time.Time) (int64, error) {
	var n int64
	err := r.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM shifts WHERE clock_in < $1`, cutoff).Scan(&n)
	return n, err
}

// DeleteShiftsBefore removes shifts clocked in strictly before cutoff.
func (r *PostgresRepository) DeleteShiftsBefore(ctx context.Context, cutoff time.Time) (int64, error) {
	res, err := r.db.ExecContext(ctx, `DELETE FROM shifts WHERE clock_in < $1`, cutoff)
	if err != nil {
		return 0, err
	}
	return res.RowsAffected()
}

func (r *PostgresRepository) CountShiftsByUser(ctx context.Context, userID string) (int64, error) {
	var n int64
	err := r.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM shifts WHERE user_id = $1`, userID).Scan(&n)
	return n, err
}
