package models

import "time"

// Event is a calendar entry representing a booking.
type Event struct {
	ID    string    // backend ID when known, locally generated UUID otherwise
	Title string    // event title/summary
	Start time.Time // start of the event
	End   time.Time // end of the event, never before Start
	Room  string    // room label, e.g. "Raum 2"
}
