package repository

import (
	"context"
	"database/sql"

	"timeclock.service/internal/core/model"
)

// GetDispatch returns the dispatch record for a report request, or nil when
// the request has not been seen yet.
func (r *PostgresRepository) GetDispatch(ctx context.Context, requestID string) (*model.ReportDispatch, error) {
	query := `SELECT request_id, report_date, status, retry_count
              FROM report_dispatches WHERE request_id = $1`

	d := &model.ReportDispatch{}
	err := r.db.QueryRowContext(ctx, query, requestID).Scan(&d.RequestID, &d.ReportDate, &d.Status, &d.RetryCount)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return d, nil
}

// SaveDispatch upserts the status and retry count for a report request.
func (r *PostgresRepository) SaveDispatch(ctx context.Context, d model.ReportDispatch) error {
	query := `INSERT INTO report_dispatches (request_id, report_date, status, retry_count, updated_at)
              VALUES ($1, $2, $3, $4, NOW())
              ON CONFLICT (request_id) DO UPDATE
              SET status = EXCLUDED.status,
                  retry_count = EXCLUDED.retry_count,
                  updated_at = NOW()`

	_, err := r.db.ExecContext(ctx, query, d.RequestID, d.ReportDate, d.Status, d.RetryCount)
	return err
}
