package main

import (
	"fmt"
	"log"
	"time"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/dialog"
	"fyne.io/fyne/v2/widget"

	"github.com/moritzgrimm/raumboard/pkg/calendar"
	"github.com/moritzgrimm/raumboard/pkg/models"
)

var germanWeekdays = []string{"So", "Mo", "Di", "Mi", "Do", "Fr", "Sa"}

var germanMonths = []string{
	"Januar", "Februar", "März", "April", "Mai", "Juni",
	"Juli", "August", "September", "Oktober", "November", "Dezember",
}

// CalendarView is the booking calendar: a month/week/day grid with a view
// switcher, range navigation and iCal export. Every selection (day cell,
// empty slot, event) funnels into the shared selected date.
type CalendarView struct {
	rb *Raumboard

	root       *fyne.Container
	rangeLabel *widget.Label
	viewSelect *widget.Select
	content    *fyne.Container
}

func NewCalendarView(rb *Raumboard) *CalendarView {
	cv := &CalendarView{rb: rb}
	cv.buildUI()
	cv.Rebuild()
	return cv
}

func (cv *CalendarView) Container() fyne.CanvasObject {
	return cv.root
}

func (cv *CalendarView) buildUI() {
	prevButton := widget.NewButton("Zurück", func() { cv.step(-1) })
	todayButton := widget.NewButton("Heute", func() {
		cv.rb.control.SetReferenceDate(time.Now())
		cv.Rebuild()
		cv.rb.refreshEvents()
	})
	nextButton := widget.NewButton("Weiter", func() { cv.step(1) })

	cv.viewSelect = widget.NewSelect([]string{"Monat", "Woche", "Tag"}, func(label string) {
		cv.rb.control.SetView(models.ViewModeFromLabel(label))
		cv.Rebuild()
		cv.rb.refreshEvents()
	})
	cv.viewSelect.Selected = "Monat"

	exportButton := widget.NewButton("Als iCal exportieren", func() {
		cv.exportICS()
	})

	cv.rangeLabel = widget.NewLabel("")
	cv.rangeLabel.TextStyle.Bold = true
	cv.rangeLabel.Alignment = fyne.TextAlignCenter

	toolbar := container.NewBorder(
		nil, nil,
		container.NewHBox(prevButton, todayButton, nextButton),
		container.NewHBox(cv.viewSelect, exportButton),
		cv.rangeLabel,
	)

	cv.content = container.NewStack()

	cv.root = container.NewBorder(toolbar, nil, nil, nil, container.NewPadded(cv.content))
}

// Rebuild re-renders the visible range from the shared state. Called after
// every view switch, date selection and event refresh.
func (cv *CalendarView) Rebuild() {
	start, end := cv.rb.control.Range()
	view := cv.rb.control.View()

	cv.rangeLabel.SetText(rangeTitle(view, start, end))

	var body fyne.CanvasObject
	switch view {
	case models.ViewWeek:
		body = cv.buildWeek(start)
	case models.ViewDay:
		body = cv.buildDay(start)
	default:
		body = cv.buildMonth(start, end)
	}

	cv.content.Objects = []fyne.CanvasObject{body}
	cv.content.Refresh()
}

// step moves the reference date one month/week/day in either direction.
func (cv *CalendarView) step(direction int) {
	ref := cv.rb.control.ReferenceDate()
	if ref.IsZero() {
		ref = time.Now()
	}

	switch cv.rb.control.View() {
	case models.ViewWeek:
		ref = ref.AddDate(0, 0, 7*direction)
	case models.ViewDay:
		ref = ref.AddDate(0, 0, direction)
	default:
		ref = ref.AddDate(0, direction, 0)
	}

	cv.rb.control.SetReferenceDate(ref)
	cv.Rebuild()
	cv.rb.refreshEvents()
}

func (cv *CalendarView) buildMonth(start, end time.Time) fyne.CanvasObject {
	grid := container.NewGridWithColumns(7)

	for _, wd := range germanWeekdays {
		header := widget.NewLabel(wd)
		header.Alignment = fyne.TextAlignCenter
		header.TextStyle.Bold = true
		grid.Add(header)
	}

	// Pad until the month's first weekday (Sunday-based grid)
	for i := 0; i < int(start.Weekday()); i++ {
		grid.Add(widget.NewLabel(""))
	}

	byDay := cv.eventsByDay()
	selected := cv.rb.store.SelectedDate()

	for day := start; !day.After(end); day = day.AddDate(0, 0, 1) {
		date := day
		label := fmt.Sprintf("%d", day.Day())
		if n := len(byDay[dayKey(day)]); n > 0 {
			label = fmt.Sprintf("%d  (%d)", day.Day(), n)
		}

		cell := widget.NewButton(label, func() {
			cv.rb.handleDateSelected(date)
		})
		if calendar.SameDay(day, selected) {
			cell.Importance = widget.HighImportance
		} else {
			cell.Importance = widget.LowImportance
		}
		grid.Add(cell)
	}

	return container.NewVScroll(grid)
}

func (cv *CalendarView) buildWeek(start time.Time) fyne.CanvasObject {
	byDay := cv.eventsByDay()
	selected := cv.rb.store.SelectedDate()

	rows := container.NewVBox()
	for i := 0; i < 7; i++ {
		day := start.AddDate(0, 0, i)
		date := day

		header := widget.NewButton(
			fmt.Sprintf("%s %s", germanWeekdays[int(day.Weekday())], day.Format("02.01.")),
			func() {
				cv.rb.handleDateSelected(date)
			})
		if calendar.SameDay(day, selected) {
			header.Importance = widget.HighImportance
		}

		rows.Add(header)
		for _, ev := range byDay[dayKey(day)] {
			rows.Add(cv.eventButton(ev))
		}
		rows.Add(widget.NewSeparator())
	}

	return container.NewVScroll(rows)
}

func (cv *CalendarView) buildDay(date time.Time) fyne.CanvasObject {
	byDay := cv.eventsByDay()
	events := byDay[dayKey(date)]

	rows := container.NewVBox()
	if len(events) == 0 {
		empty := widget.NewLabel("Keine Termine an diesem Tag.")
		empty.Alignment = fyne.TextAlignCenter
		rows.Add(empty)

		// An empty slot behaves like any other selection
		slot := widget.NewButton("Diesen Tag auswählen", func() {
			cv.rb.handleDateSelected(date)
		})
		rows.Add(slot)
	}
	for _, ev := range events {
		rows.Add(cv.eventButton(ev))
	}

	return container.NewVScroll(rows)
}

// eventButton renders one calendar entry. Tapping an event selects its date,
// the same as tapping the day cell.
func (cv *CalendarView) eventButton(ev models.Event) *widget.Button {
	text := ev.Title
	if ev.Room != "" {
		text = fmt.Sprintf("%s – %s", ev.Title, ev.Room)
	}

	start := ev.Start
	return widget.NewButton(text, func() {
		cv.rb.handleDateSelected(start)
	})
}

// eventsByDay groups the visible events by calendar date.
func (cv *CalendarView) eventsByDay() map[string][]models.Event {
	byDay := make(map[string][]models.Event)
	for _, ev := range cv.rb.store.Events() {
		key := dayKey(ev.Start)
		byDay[key] = append(byDay[key], ev)
	}
	return byDay
}

// exportICS writes the visible events to a user-chosen .ics file.
func (cv *CalendarView) exportICS() {
	events := cv.rb.store.Events()
	if len(events) == 0 {
		dialog.ShowInformation("Export", "Keine Termine im sichtbaren Zeitraum.", cv.rb.window)
		return
	}

	fileDialog := dialog.NewFileSave(func(writer fyne.URIWriteCloser, err error) {
		if err != nil {
			dialog.ShowError(err, cv.rb.window)
			return
		}
		if writer == nil {
			return
		}
		defer writer.Close()

		if err := calendar.WriteICS(writer, events); err != nil {
			log.Printf("Failed to export events: %v", err)
			dialog.ShowError(err, cv.rb.window)
			return
		}
		log.Printf("Exported %d events to %s", len(events), writer.URI().Name())
	}, cv.rb.window)
	fileDialog.SetFileName("raumboard.ics")
	fileDialog.Show()
}

func dayKey(t time.Time) string {
	return t.Format("2006-01-02")
}

func rangeTitle(view models.ViewMode, start, end time.Time) string {
	switch view {
	case models.ViewWeek:
		return fmt.Sprintf("%s – %s", start.Format("02.01.2006"), end.Format("02.01.2006"))
	case models.ViewDay:
		return start.Format("02.01.2006")
	default:
		return fmt.Sprintf("%s %d", germanMonths[int(start.Month())-1], start.Year())
	}
}
