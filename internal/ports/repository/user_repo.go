package repository

import (
	"context"
	"database/sql"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	"timeclock.service/internal/core/model"
)

func yearArg(y *int) sql.NullInt32 {
	if y == nil {
		return sql.NullInt32{}
	}
	return sql.NullInt32{Int32: int32(*y), Valid: true}
}

func scanUser(row rowScanner) (*model.User, error) {
	var (
		u    model.User
		year sql.NullInt32
	)
	if err := row.Scan(&u.ID, &u.Name, &u.PhoneNumber, &u.Email, &u.PhysicalMailingAddress, &year, &u.Hidden); err != nil {
		return nil, err
	}
	if year.Valid {
		y := int(year.Int32)
		u.YearVerified = &y
	}
	return &u, nil
}

const userSelect = `SELECT u.user_id, u.name, u.phone_number, u.email, u.physical_mailing_address,
                           u.year_verified, h.user_id IS NOT NULL
                    FROM users u
                    LEFT JOIN hidden_users h ON h.user_id = u.user_id`

func (r *PostgresRepository) CreateUser(ctx context.Context, u *model.User) error {
	trace.SpanFromContext(ctx).SetAttributes(attribute.String("app.user_id", u.ID))

	query := `INSERT INTO users (user_id, name, phone_number, email, physical_mailing_address, year_verified)
              VALUES ($1, $2, $3, $4, $5, $6)`

	_, err := r.db.ExecContext(ctx, query,
		u.ID, u.Name, u.PhoneNumber, u.Email, u.PhysicalMailingAddress, yearArg(u.YearVerified))
	return translate(err)
}

// GetUser loads one user including the hidden flag.
func (r *PostgresRepository) GetUser(ctx context.Context, id string) (*model.User, error) {
	u, err := scanUser(r.db.QueryRowContext(ctx, userSelect+` WHERE u.user_id = $1`, id))
	if err != nil {
		return nil, translate(err)
	}
	return u, nil
}

// ListUsers returns every user ordered by name, hidden ones flagged.
func (r *PostgresRepository) ListUsers(ctx context.Context) ([]model.User, error) {
	rows, err := r.db.QueryContext(ctx, userSelect+` ORDER BY u.name, u.user_id`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	users := make([]model.User, 0)
	for rows.Next() {
		u, err := scanUser(rows)
		if err != nil {
			return nil, err
		}
		users = append(users, *u)
	}
	return users, rows.Err()
}

func (r *PostgresRepository) UpdateUser(ctx context.Context, u *model.User) error {
	trace.SpanFromContext(ctx).SetAttributes(attribute.String("app.user_id", u.ID))

	query := `UPDATE users
              SET name = $1,
                  phone_number = $2,
                  email = $3,
                  physical_mailing_address = $4,
                  year_verified = $5
              WHERE user_id = $6`

	res, err := r.db.ExecContext(ctx, query,
		u.Name, u.PhoneNumber, u.Email, u.PhysicalMailingAddress, yearArg(u.YearVerified), u.ID)
	if err != nil {
		return err
	}
	return expectAffected(res)
}

func (r *PostgresRepository) DeleteUser(ctx context.Context, id string) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM users WHERE user_id = $1`, id)
	if err != nil {
		return err
	}
	return expectAffected(res)
}

// HideUser soft-deletes a user. Hiding an already hidden user refreshes the record.
func (r *PostgresRepository) HideUser(ctx context.Context, h model.HiddenUser) error {
	query := `INSERT INTO hidden_users (user_id, date_hidden, hidden_by, reason)
              VALUES ($1, $2, $3, $4)
              ON CONFLICT (user_id) DO UPDATE
              SET date_hidden = EXCLUDED.date_hidden,
                  hidden_by = EXCLUDED.hidden_by,
                  reason = EXCLUDED.reason`

	_, err := r.db.ExecContext(ctx, query, h.UserID, h.DateHidden, h.HiddenBy, h.Reason)
	return err
}

func (r *PostgresRepository) UnhideUser(ctx context.Context, id string) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM hidden_users WHERE user_id = $1`, id)
	if err != nil {
		return err
	}
	return expectAffected(res)
}
