package calendar

import (
	"strings"
	"testing"
	"time"

	"github.com/emersion/go-ical"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/moritzgrimm/raumboard/pkg/models"
)

func TestWriteICSRoundTrip(t *testing.T) {
	start, end := FullDaySpan(day(2023, time.June, 15))
	events := []models.Event{
		{ID: "7", Title: "Buchung fuer Raum 2", Start: start, End: end, Room: "Raum 2"},
		{Title: "Workshop", Start: day(2023, time.June, 16), End: day(2023, time.June, 16)},
	}

	var sb strings.Builder
	require.NoError(t, WriteICS(&sb, events))

	out := sb.String()
	assert.Contains(t, out, "BEGIN:VCALENDAR")
	assert.Contains(t, out, "BEGIN:VEVENT")

	cal, err := ical.NewDecoder(strings.NewReader(out)).Decode()
	require.NoError(t, err)

	var summaries, locations []string
	for _, comp := range cal.Children {
		if comp.Name != ical.CompEvent {
			continue
		}
		if p := comp.Props.Get(ical.PropSummary); p != nil {
			summaries = append(summaries, p.Value)
		}
		if p := comp.Props.Get(ical.PropLocation); p != nil {
			locations = append(locations, p.Value)
		}
		assert.NotNil(t, comp.Props.Get(ical.PropUID))
	}

	assert.ElementsMatch(t, []string{"Buchung fuer Raum 2", "Workshop"}, summaries)
	assert.Equal(t, []string{"Raum 2"}, locations)
}

func TestWriteICSGeneratesUIDsForLocalEvents(t *testing.T) {
	var sb strings.Builder
	require.NoError(t, WriteICS(&sb, []models.Event{
		{Title: "Ohne ID", Start: day(2023, time.June, 1), End: day(2023, time.June, 1)},
	}))

	assert.Contains(t, sb.String(), "UID:")
}
