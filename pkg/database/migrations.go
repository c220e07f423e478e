package database

import (
	"context"
	"database/sql"
	"fmt"
)

const createUsersTable = `
CREATE TABLE IF NOT EXISTS users (
    user_id                  TEXT PRIMARY KEY,
    name                     TEXT NOT NULL,
    phone_number             TEXT NOT NULL DEFAULT '',
    email                    TEXT NOT NULL DEFAULT '',
    physical_mailing_address TEXT NOT NULL DEFAULT '',
    year_verified            INTEGER
)`

const createHiddenUsersTable = `
CREATE TABLE IF NOT EXISTS hidden_users (
    user_id     TEXT PRIMARY KEY REFERENCES users (user_id) ON DELETE CASCADE,
    date_hidden TIMESTAMPTZ NOT NULL,
    hidden_by   TEXT NOT NULL DEFAULT '',
    reason      TEXT NOT NULL DEFAULT ''
)`

const createShiftsTable = `
CREATE TABLE IF NOT EXISTS shifts (
    shift_id    BIGSERIAL PRIMARY KEY,
    user_id     TEXT NOT NULL REFERENCES users (user_id) ON DELETE CASCADE,
    name        TEXT NOT NULL,
    clock_in    TIMESTAMPTZ NOT NULL,
    clock_out   TIMESTAMPTZ,
    time_worked TEXT NOT NULL DEFAULT ''
)`

const createShiftsClockInIndex = `
CREATE INDEX IF NOT EXISTS shifts_clock_in_idx ON shifts (clock_in)`

// One open shift per user; the service checks first, this is the final guard.
const createOpenShiftIndex = `
CREATE UNIQUE INDEX IF NOT EXISTS shifts_one_open_per_user ON shifts (user_id) WHERE clock_out IS NULL`

const createNotesTable = `
CREATE TABLE IF NOT EXISTS notes (
    note_id     BIGSERIAL PRIMARY KEY,
    value       TEXT NOT NULL,
    insert_time TIMESTAMPTZ NOT NULL
)`

const createReportDispatchesTable = `
CREATE TABLE IF NOT EXISTS report_dispatches (
    request_id  TEXT PRIMARY KEY,
    report_date DATE NOT NULL,
    status      TEXT NOT NULL,
    retry_count INTEGER NOT NULL DEFAULT 0,
    updated_at  TIMESTAMPTZ NOT NULL DEFAULT NOW()
)`

// Migrations lists the schema statements in execution order.
var Migrations = []string{
	createUsersTable,
	createHiddenUsersTable,
	createShiftsTable,
	createShiftsClockInIndex,
	createOpenShiftIndex,
	createNotesTable,
	createReportDispatchesTable,
}

// Migrate applies every statement. All of them are idempotent.
func Migrate(ctx context.Context, db *sql.DB) error {
	for i, stmt := range Migrations {
		if _, err := db.ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("migration %d: %w", i+1, err)
		}
	}
	return nil
}
