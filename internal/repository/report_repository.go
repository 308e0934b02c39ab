package repository

import (
	"context"
	"database/sql"
)

// ReportRepo wraps the store's reporting procedures and functions.  The
// procedures own the aggregation logic; this layer only forwards
// parameters and returns the raw result rows, normalized once into
// column-keyed maps so callers never probe driver-specific types.
type ReportRepo struct{ DB *sql.DB }

// NewReportRepo returns a new ReportRepo bound to the given database.
func NewReportRepo(db *sql.DB) *ReportRepo { return &ReportRepo{DB: db} }

// Row is one raw result row keyed by column name.
type Row map[string]interface{}

// OpenSessions calls sp_GetOpenSessions for an event and returns its
// rows as-is.
func (r *ReportRepo) OpenSessions(ctx context.Context, eventID uint64) ([]Row, error) {
	rows, err := r.DB.QueryContext(ctx, "CALL sp_GetOpenSessions(?)", eventID)
	if err != nil {
		return nil, err
	}
	return collectRows(rows)
}

// EventRevenue calls cal_revenue for an event with a minimum-revenue
// filter and returns its rows as-is.
func (r *ReportRepo) EventRevenue(ctx context.Context, eventID uint64, minRevenue float64) ([]Row, error) {
	rows, err := r.DB.QueryContext(ctx, "CALL cal_revenue(?, ?)", eventID, minRevenue)
	if err != nil {
		return nil, err
	}
	return collectRows(rows)
}

// OrganizerRevenue evaluates the calculate_organizer_revenue function.
// start and end may be empty to cover all time.
func (r *ReportRepo) OrganizerRevenue(ctx context.Context, organizerID uint64, start, end *string) (float64, error) {
	var total sql.NullFloat64
	err := r.DB.QueryRowContext(ctx,
		"SELECT calculate_organizer_revenue(?, ?, ?)", organizerID, start, end).Scan(&total)
	if err != nil {
		return 0, err
	}
	return total.Float64, nil
}

// CustomerTicketCount evaluates the count_customer_tickets function over
// the given period.
func (r *ReportRepo) CustomerTicketCount(ctx context.Context, customerID uint64, start, end string) (int64, error) {
	var count sql.NullInt64
	err := r.DB.QueryRowContext(ctx,
		"SELECT count_customer_tickets(?, ?, ?)", customerID, start, end).Scan(&count)
	if err != nil {
		return 0, err
	}
	return count.Int64, nil
}

// collectRows drains a result set into column-keyed maps.  []byte values
// are converted to strings so the JSON encoding matches what the
// procedures' textual columns contain.
func collectRows(rows *sql.Rows) ([]Row, error) {
	defer rows.Close()
	cols, err := rows.Columns()
	if err != nil {
		return nil, err
	}
	out := make([]Row, 0)
	for rows.Next() {
		values := make([]interface{}, len(cols))
		ptrs := make([]interface{}, len(cols))
		for i := range values {
			ptrs[i] = &values[i]
		}
		if err := rows.Scan(ptrs...); err != nil {
			return nil, err
		}
		row := make(Row, len(cols))
		for i, c := range cols {
			v := values[i]
			if b, ok := v.([]byte); ok {
				row[c] = string(b)
			} else {
				row[c] = v
			}
		}
		out = append(out, row)
	}
	return out, rows.Err()
}
