package repository

import (
	"context"
	"database/sql"

	"github.com/ticketbox/ticketbox/internal/model"
)

// SessionRepo provides access to the Event_Session table.  Admin CRUD
// goes through the store's sp_InsertEventSession / sp_UpdateEventSession
// / sp_DeleteEventSession procedures, which own the schedule-validity
// rules; the repository only forwards parameters and surfaces the
// procedure's error text.  The seats-remaining counter is mutated
// exclusively through ReserveSeatsTx.
type SessionRepo struct{ DB *sql.DB }

// NewSessionRepo returns a new SessionRepo bound to the given database.
func NewSessionRepo(db *sql.DB) *SessionRepo { return &SessionRepo{DB: db} }

// List returns sessions joined with their venue, optionally filtered by
// event, ordered by start date.
func (r *SessionRepo) List(ctx context.Context, eventID uint64) ([]model.Session, error) {
	q := `SELECT es.Session_Id, es.Event_Id, es.Venue_Id, v.Venue_Name,
				 COALESCE(v.Venue_Address,''), es.Start_Date, es.End_Date,
				 es.Open_Date, es.Close_Date, es.Available_Seats_Count, es.Session_Status
		  FROM Event_Session es
		  JOIN Venue v ON es.Venue_Id = v.Venue_Id
		  WHERE 1 = 1`
	args := []interface{}{}
	if eventID != 0 {
		q += " AND es.Event_Id = ?"
		args = append(args, eventID)
	}
	q += " ORDER BY es.Start_Date ASC"
	rows, err := r.DB.QueryContext(ctx, q, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	out := make([]model.Session, 0)
	for rows.Next() {
		var s model.Session
		var open, close_ sql.NullString
		if err := rows.Scan(&s.ID, &s.EventID, &s.VenueID, &s.VenueName, &s.VenueAddress,
			&s.StartDate, &s.EndDate, &open, &close_, &s.AvailableSeats, &s.Status); err != nil {
			return nil, err
		}
		if open.Valid {
			o := open.String
			s.OpenDate = &o
		}
		if close_.Valid {
			c := close_.String
			s.CloseDate = &c
		}
		out = append(out, s)
	}
	return out, rows.Err()
}

// CallInsert invokes sp_InsertEventSession and reads its OUT parameter.
// The CALL and the @p_new_session_id SELECT must share a session, so
// both run on a short transaction.
func (r *SessionRepo) CallInsert(ctx context.Context, s *model.Session) (uint64, error) {
	tx, err := r.DB.BeginTx(ctx, nil)
	if err != nil {
		return 0, err
	}
	committed := false
	defer func() {
		if !committed {
			_ = tx.Rollback()
		}
	}()
	_, err = tx.ExecContext(ctx,
		"CALL sp_InsertEventSession(?, ?, ?, ?, ?, ?, ?, ?, @p_new_session_id)",
		s.EventID, s.VenueID, s.StartDate, s.EndDate, s.OpenDate, s.CloseDate,
		s.AvailableSeats, s.Status)
	if err != nil {
		return 0, err
	}
	var newID uint64
	if err := tx.QueryRowContext(ctx, "SELECT @p_new_session_id").Scan(&newID); err != nil {
		return 0, err
	}
	if err := tx.Commit(); err != nil {
		return 0, err
	}
	committed = true
	return newID, nil
}

// CallUpdate invokes sp_UpdateEventSession for an existing session.
func (r *SessionRepo) CallUpdate(ctx context.Context, s *model.Session) error {
	_, err := r.DB.ExecContext(ctx,
		"CALL sp_UpdateEventSession(?, ?, ?, ?, ?, ?, ?, ?, ?)",
		s.ID, s.EventID, s.VenueID, s.StartDate, s.EndDate, s.OpenDate, s.CloseDate,
		s.AvailableSeats, s.Status)
	return err
}

// CallDelete invokes sp_DeleteEventSession.
func (r *SessionRepo) CallDelete(ctx context.Context, id uint64) error {
	_, err := r.DB.ExecContext(ctx, "CALL sp_DeleteEventSession(?)", id)
	return err
}

// CreateTx inserts a session directly, bypassing the procedure.  Used by
// event creation, which builds event, tiers, sessions and pricing in a
// single transaction the procedure cannot join.
func (r *SessionRepo) CreateTx(ctx context.Context, tx *sql.Tx, s *model.Session) error {
	const q = `INSERT INTO Event_Session (Event_Id, Venue_Id, Start_Date, End_Date,
										  Available_Seats_Count, Session_Status)
			   VALUES (?, ?, ?, ?, ?, ?)`
	res, err := tx.ExecContext(ctx, q, s.EventID, s.VenueID, s.StartDate, s.EndDate,
		s.AvailableSeats, s.Status)
	if err != nil {
		return err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return err
	}
	s.ID = uint64(id)
	return nil
}

// ReserveSeatsTx atomically decrements the session's seats-remaining
// counter by qty, failing with ErrSoldOut when the counter cannot cover
// the request.  The conditional UPDATE is the oversell guard: two
// concurrent orders for the last seats serialize on the row and at most
// one succeeds.  A session is sold out when the counter reaches zero.
func (r *SessionRepo) ReserveSeatsTx(ctx context.Context, tx *sql.Tx, sessionID uint64, qty int) error {
	const q = `UPDATE Event_Session
			   SET Available_Seats_Count = Available_Seats_Count - ?
			   WHERE Session_Id = ? AND Available_Seats_Count >= ?`
	res, err := tx.ExecContext(ctx, q, qty, sessionID, qty)
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return ErrSoldOut
	}
	return nil
}
