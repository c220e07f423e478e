package repository

import (
	"context"
	"database/sql"
	"time"

	"timeclock.service/internal/core/model"
)

func (r *PostgresRepository) CreateNote(ctx context.Context, value string, at time.Time) error {
	_, err := r.db.ExecContext(ctx, `INSERT INTO notes (value, insert_time) VALUES ($1, $2)`, value, at)
	return err
}

func (r *PostgresRepository) ListNotes(ctx context.Context) ([]model.Note, error) {
	rows, err := r.db.QueryContext(ctx, `SELECT note_id, value, insert_time FROM notes ORDER BY insert_time, note_id`)
	if err != nil {
		return nil, err
	}
	return scanNotes(rows)
}

// ListNotesBetween returns notes inserted in [from, to).
func (r *PostgresRepository) ListNotesBetween(ctx context.Context, from, to time.Time) ([]model.Note, error) {
	query := `SELECT note_id, value, insert_time
              FROM notes
              WHERE insert_time >= $1 AND insert_time < $2
              ORDER BY insert_time, note_id`

	rows, err := r.db.QueryContext(ctx, query, from, to)
	if err != nil {
		return nil, err
	}
	return scanNotes(rows)
}

func scanNotes(rows *sql.Rows) ([]model.Note, error) {
	defer rows.Close()

	notes := make([]model.Note, 0)
	for rows.Next() {
		var n model.Note
		if err := rows.Scan(&n.ID, &n.Value, &n.InsertTime); err != nil {
			return nil, err
		}
		notes = append(notes, n)
	}
	return notes, rows.Err()
}
