package model

// Event mirrors the `Event` table.  An event is owned by its organizer
// (Event.User_Id) and referenced by one or more sessions.
//
// Fields:
//  ID          – Event.Event_Id primary key.
//  OrganizerID – Event.User_Id owner.
//  Name        – Event.Event_name.
//  Description – Event.Event_description.
//  Category    – Event.Event_category.
//  Duration    – Event.Event_duration in minutes.
//  Language    – Event.Primary_language.
//  Privacy     – Event.Privacy_level.
//  IsOnline    – Event.Is_online_event flag.
//  PosterImage – Event.Poster_image URL (nullable).
type Event struct {
	ID          uint64  `json:"event_id"`
	OrganizerID uint64  `json:"user_id,omitempty"`
	Name        string  `json:"event_name"`
	Description string  `json:"event_description"`
	Category    string  `json:"event_category"`
	Duration    int     `json:"event_duration,omitempty"`
	Language    string  `json:"primary_language"`
	Privacy     string  `json:"privacy_level"`
	IsOnline    bool    `json:"is_online_event,omitempty"`
	PosterImage *string `json:"poster_image"`
}

// EventSummary is the public browse row: an event joined with its
// earliest session date and cheapest configured price.
type EventSummary struct {
	Event
	FirstStartDate *string  `json:"first_start_date"`
	MinPrice       *float64 `json:"min_price"`
}
