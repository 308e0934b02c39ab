package model

// Session statuses as stored in Event_Session.Session_Status.  The store
// keeps these as strings; the constants document the recognized set.
const (
	SessionScheduled = "SCHEDULED"
	SessionOngoing   = "ONGOING"
	SessionCompleted = "COMPLETED"
	SessionCancelled = "CANCELLED"
)

// Session mirrors the `Event_Session` table: one scheduled occurrence of
// an event at a venue, with its own sale window and seat budget.
// AvailableSeats is the seats-remaining counter; order creation
// decrements it atomically and a session is sold out when it reaches
// zero.
//
// Fields:
//  ID             – Event_Session.Session_Id primary key.
//  EventID        – Event_Session.Event_Id parent event.
//  VenueID        – Event_Session.Venue_Id venue.
//  VenueName      – Venue.Venue_Name (joined for display).
//  VenueAddress   – Venue.Venue_Address (joined for display).
//  StartDate      – Event_Session.Start_Date.
//  EndDate        – Event_Session.End_Date.
//  OpenDate       – Event_Session.Open_Date sale window open (nullable).
//  CloseDate      – Event_Session.Close_Date sale window close (nullable).
//  AvailableSeats – Event_Session.Available_Seats_Count.
//  Status         – Event_Session.Session_Status.
type Session struct {
	ID             uint64  `json:"session_id"`
	EventID        uint64  `json:"event_id"`
	VenueID        uint64  `json:"venue_id"`
	VenueName      string  `json:"venue_name,omitempty"`
	VenueAddress   string  `json:"venue_address,omitempty"`
	StartDate      string  `json:"start_date"`
	EndDate        string  `json:"end_date"`
	OpenDate       *string `json:"open_date"`
	CloseDate      *string `json:"close_date"`
	AvailableSeats int     `json:"available_seats_count"`
	Status         string  `json:"session_status"`
}

// TierPrice is the effective price of a pricing tier for one session,
// resolved from Define_Pricing with Pricing_Tier.Base_Price as the
// fallback.  This is the authoritative unit price at purchase time.
type TierPrice struct {
	SessionID uint64  `json:"session_id"`
	TierID    uint64  `json:"tier_id"`
	TierName  string  `json:"tier_name"`
	Price     float64 `json:"price"`
}
