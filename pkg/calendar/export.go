package calendar

import (
	"fmt"
	"io"

	"github.com/emersion/go-ical"
	"github.com/google/uuid"

	"github.com/moritzgrimm/raumboard/pkg/models"
)

// WriteICS encodes the given events as an iCalendar stream, so the visible
// booking range can be imported into an external calendar.
func WriteICS(w io.Writer, events []models.Event) error {
	cal := ical.NewCalendar()
	cal.Props.SetText(ical.PropVersion, "2.0")
	cal.Props.SetText(ical.PropProductID, "-//raumboard//Raumboard//DE")

	for _, ev := range events {
		comp := ical.NewEvent()

		uid := ev.ID
		if uid == "" {
			uid = uuid.NewString()
		}
		comp.Props.SetText(ical.PropUID, uid+"@raumboard")
		comp.Props.SetText(ical.PropSummary, ev.Title)
		if ev.Room != "" {
			comp.Props.SetText(ical.PropLocation, ev.Room)
		}
		comp.Props.SetDateTime(ical.PropDateTimeStamp, ev.Start)
		comp.Props.SetDateTime(ical.PropDateTimeStart, ev.Start)
		comp.Props.SetDateTime(ical.PropDateTimeEnd, ev.End)

		cal.Children = append(cal.Children, comp.Component)
	}

	if err := ical.NewEncoder(w).Encode(cal); err != nil {
		return fmt.Errorf("failed to encode calendar: %w", err)
	}
	return nil
}
