package repository

import (
	"context"
	"database/sql"

	"github.com/ticketbox/ticketbox/internal/model"
)

// EventRepo provides read and write access to the Event table together
// with the aggregated browse queries (earliest session date, cheapest
// configured price) used by the public pages.
type EventRepo struct{ DB *sql.DB }

// NewEventRepo returns a new EventRepo bound to the given database.
func NewEventRepo(db *sql.DB) *EventRepo { return &EventRepo{DB: db} }

// ListPublic returns every event with its earliest session start and the
// lowest configured price, ordered soonest-first with undated events
// last.  Used by the public browse page.
func (r *EventRepo) ListPublic(ctx context.Context) ([]model.EventSummary, error) {
	const q = `SELECT e.Event_Id, e.Event_name, e.Event_category, e.Primary_language,
					  e.Privacy_level, COALESCE(e.Event_description,''), e.Poster_image,
					  MIN(s.Start_Date), MIN(dp.Price)
			   FROM Event e
			   LEFT JOIN Event_Session s   ON s.Event_Id = e.Event_Id
			   LEFT JOIN Define_Pricing dp ON dp.Session_Id = s.Session_Id
			   GROUP BY e.Event_Id, e.Event_name, e.Event_category, e.Primary_language,
						e.Privacy_level, e.Event_description, e.Poster_image
			   ORDER BY MIN(s.Start_Date) IS NULL, MIN(s.Start_Date) ASC`
	rows, err := r.DB.QueryContext(ctx, q)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	out := make([]model.EventSummary, 0)
	for rows.Next() {
		var es model.EventSummary
		var poster, first sql.NullString
		var minPrice sql.NullFloat64
		if err := rows.Scan(&es.ID, &es.Name, &es.Category, &es.Language, &es.Privacy,
			&es.Description, &poster, &first, &minPrice); err != nil {
			return nil, err
		}
		if poster.Valid {
			p := poster.String
			es.PosterImage = &p
		}
		if first.Valid {
			f := first.String
			es.FirstStartDate = &f
		}
		if minPrice.Valid {
			m := minPrice.Float64
			es.MinPrice = &m
		}
		out = append(out, es)
	}
	return out, rows.Err()
}

// EventDetail bundles everything the detail page needs: the event, its
// sessions with venues, and the per-session effective tier prices.
type EventDetail struct {
	Event        model.EventSummary `json:"event"`
	Sessions     []model.Session    `json:"sessions"`
	PricingTiers []model.TierPrice  `json:"pricing_tiers"`
}

// GetDetail loads an event with its sessions and per-session tier
// prices.  It returns ErrEventNotFound when the id does not exist.
func (r *EventRepo) GetDetail(ctx context.Context, id uint64) (*EventDetail, error) {
	const evQ = `SELECT e.Event_Id, e.Event_name, e.Event_category, COALESCE(e.Event_description,''),
						e.Primary_language, e.Privacy_level, e.Poster_image, MIN(dp.Price)
				 FROM Event e
				 LEFT JOIN Event_Session s   ON s.Event_Id = e.Event_Id
				 LEFT JOIN Define_Pricing dp ON dp.Session_Id = s.Session_Id
				 WHERE e.Event_Id = ?
				 GROUP BY e.Event_Id, e.Event_name, e.Event_category, e.Event_description,
						  e.Primary_language, e.Privacy_level, e.Poster_image`
	var det EventDetail
	var poster sql.NullString
	var minPrice sql.NullFloat64
	err := r.DB.QueryRowContext(ctx, evQ, id).Scan(
		&det.Event.ID, &det.Event.Name, &det.Event.Category, &det.Event.Description,
		&det.Event.Language, &det.Event.Privacy, &poster, &minPrice)
	if err == sql.ErrNoRows {
		return nil, ErrEventNotFound
	}
	if err != nil {
		return nil, err
	}
	if poster.Valid {
		p := poster.String
		det.Event.PosterImage = &p
	}
	if minPrice.Valid {
		m := minPrice.Float64
		det.Event.MinPrice = &m
	}

	const sessQ = `SELECT s.Session_Id, s.Event_Id, s.Venue_Id, s.Start_Date, s.End_Date,
						  s.Open_Date, s.Close_Date, s.Available_Seats_Count, s.Session_Status,
						  v.Venue_Name, COALESCE(v.Venue_Address,'')
				   FROM Event_Session s
				   JOIN Venue v ON v.Venue_Id = s.Venue_Id
				   WHERE s.Event_Id = ?
				   ORDER BY s.Start_Date ASC`
	srows, err := r.DB.QueryContext(ctx, sessQ, id)
	if err != nil {
		return nil, err
	}
	defer srows.Close()
	det.Sessions = make([]model.Session, 0)
	for srows.Next() {
		var s model.Session
		var open, close_ sql.NullString
		if err := srows.Scan(&s.ID, &s.EventID, &s.VenueID, &s.StartDate, &s.EndDate,
			&open, &close_, &s.AvailableSeats, &s.Status, &s.VenueName, &s.VenueAddress); err != nil {
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
		det.Sessions = append(det.Sessions, s)
	}
	if err := srows.Err(); err != nil {
		return nil, err
	}

	const tierQ = `SELECT s.Session_Id, t.Tier_Id, t.Tier_Name, COALESCE(dp.Price, t.Base_Price)
				   FROM Pricing_Tier t
				   JOIN Define_Pricing dp ON dp.Tier_Id = t.Tier_Id
				   JOIN Event_Session s   ON s.Session_Id = dp.Session_Id
				   WHERE s.Event_Id = ?`
	trows, err := r.DB.QueryContext(ctx, tierQ, id)
	if err != nil {
		return nil, err
	}
	defer trows.Close()
	det.PricingTiers = make([]model.TierPrice, 0)
	for trows.Next() {
		var tp model.TierPrice
		if err := trows.Scan(&tp.SessionID, &tp.TierID, &tp.TierName, &tp.Price); err != nil {
			return nil, err
		}
		det.PricingTiers = append(det.PricingTiers, tp)
	}
	return &det, trows.Err()
}

// ListByOrganizer returns the events owned by one organizer with the
// same browse aggregates, newest event first.
func (r *EventRepo) ListByOrganizer(ctx context.Context, organizerID uint64) ([]model.EventSummary, error) {
	const q = `SELECT e.Event_Id, e.Event_name, e.Event_category, e.Primary_language,
					  e.Privacy_level, COALESCE(e.Event_description,''), e.Poster_image,
					  MIN(s.Start_Date), COALESCE(MIN(dp.Price), 0)
			   FROM Event e
			   LEFT JOIN Event_Session s   ON s.Event_Id = e.Event_Id
			   LEFT JOIN Define_Pricing dp ON dp.Session_Id = s.Session_Id
			   WHERE e.User_Id = ?
			   GROUP BY e.Event_Id, e.Event_name, e.Event_category, e.Primary_language,
						e.Privacy_level, e.Event_description, e.Poster_image
			   ORDER BY e.Event_Id DESC`
	rows, err := r.DB.QueryContext(ctx, q, organizerID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	out := make([]model.EventSummary, 0)
	for rows.Next() {
		var es model.EventSummary
		var poster, first sql.NullString
		var minPrice float64
		if err := rows.Scan(&es.ID, &es.Name, &es.Category, &es.Language, &es.Privacy,
			&es.Description, &poster, &first, &minPrice); err != nil {
			return nil, err
		}
		if poster.Valid {
			p := poster.String
			es.PosterImage = &p
		}
		if first.Valid {
			f := first.String
			es.FirstStartDate = &f
		}
		es.MinPrice = &minPrice
		out = append(out, es)
	}
	return out, rows.Err()
}

// ListAdmin returns events filtered by an optional keyword (matched
// against name and description) and category, newest first.
func (r *EventRepo) ListAdmin(ctx context.Context, keyword, category string) ([]model.Event, error) {
	q := `SELECT e.Event_Id, e.Event_name, e.Event_category, e.Primary_language,
				 e.Privacy_level, COALESCE(e.Event_description,''), e.Poster_image,
				 COALESCE(e.Event_duration, 0)
		  FROM Event e
		  WHERE 1 = 1`
	args := []interface{}{}
	if keyword != "" {
		q += " AND (e.Event_name LIKE ? OR e.Event_Description LIKE ?)"
		args = append(args, "%"+keyword+"%", "%"+keyword+"%")
	}
	if category != "" {
		q += " AND e.Event_category = ?"
		args = append(args, category)
	}
	q += " ORDER BY e.Event_Id DESC"
	rows, err := r.DB.QueryContext(ctx, q, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	out := make([]model.Event, 0)
	for rows.Next() {
		var e model.Event
		var poster sql.NullString
		if err := rows.Scan(&e.ID, &e.Name, &e.Category, &e.Language, &e.Privacy,
			&e.Description, &poster, &e.Duration); err != nil {
			return nil, err
		}
		if poster.Valid {
			p := poster.String
			e.PosterImage = &p
		}
		out = append(out, e)
	}
	return out, rows.Err()
}

// CreateTx inserts the Event row within the caller's transaction and
// populates the generated id.  Sessions and pricing rows are inserted
// separately by SessionRepo and PricingRepo inside the same transaction.
func (r *EventRepo) CreateTx(ctx context.Context, tx *sql.Tx, e *model.Event) error {
	const q = `INSERT INTO Event (User_Id, Event_name, Event_description, Event_category,
								  Event_duration, Poster_image, Primary_language,
								  Privacy_level, Is_online_event)
			   VALUES (?,?,?,?,?,?,?,?,?)`
	res, err := tx.ExecContext(ctx, q, e.OrganizerID, e.Name, e.Description, e.Category,
		e.Duration, e.PosterImage, e.Language, e.Privacy, e.IsOnline)
	if err != nil {
		return err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return err
	}
	e.ID = uint64(id)
	return nil
}

// Update rewrites the editable event columns.  ErrEventNotFound is
// returned when the id does not exist.
func (r *EventRepo) Update(ctx context.Context, e *model.Event) error {
	if err := r.exists(ctx, e.ID); err != nil {
		return err
	}
	const q = `UPDATE Event
			   SET Event_name = ?, Event_description = ?, Event_category = ?,
				   Event_duration = ?, Poster_image = ?, Primary_language = ?,
				   Privacy_level = ?, Is_online_event = ?
			   WHERE Event_Id = ?`
	_, err := r.DB.ExecContext(ctx, q, e.Name, e.Description, e.Category, e.Duration,
		e.PosterImage, e.Language, e.Privacy, e.IsOnline, e.ID)
	return err
}

// Delete removes an event.  ErrEventNotFound when absent; dependent rows
// cascade per the schema's foreign keys.
func (r *EventRepo) Delete(ctx context.Context, id uint64) error {
	if err := r.exists(ctx, id); err != nil {
		return err
	}
	_, err := r.DB.ExecContext(ctx, "DELETE FROM Event WHERE Event_Id = ?", id)
	return err
}

func (r *EventRepo) exists(ctx context.Context, id uint64) error {
	var got uint64
	err := r.DB.QueryRowContext(ctx, "SELECT Event_Id FROM Event WHERE Event_Id = ?", id).Scan(&got)
	if err == sql.ErrNoRows {
		return ErrEventNotFound
	}
	return err
}
