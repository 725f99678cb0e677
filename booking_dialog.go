package main

import (
	"errors"
	"fmt"
	"io"
	"log"
	"time"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/dialog"
	"fyne.io/fyne/v2/storage"
	"fyne.io/fyne/v2/widget"

	"github.com/moritzgrimm/raumboard/pkg/backend"
	"github.com/moritzgrimm/raumboard/pkg/booking"
	"github.com/moritzgrimm/raumboard/pkg/models"
)

// BookingDialog collects a title, a date, a room and up to four per-room
// images, then drives the submission workflow. The draft lives exactly as
// long as the dialog.
type BookingDialog struct {
	rb    *Raumboard
	draft *models.BookingDraft

	dialog       dialog.Dialog
	titleEntry   *widget.Entry
	dateEntry    *widget.Entry
	roomSelect   *widget.Select
	slotButtons  [models.ImageSlots]*widget.Button
	submitButton *widget.Button
}

// ShowBookingDialog opens the booking form, pre-filled with the shared
// selected date and the room currently shown on the info screen.
func ShowBookingDialog(rb *Raumboard, room models.Room) {
	bd := &BookingDialog{
		rb: rb,
		draft: &models.BookingDraft{
			Date: rb.store.SelectedDate(),
			Room: room.Number,
		},
	}
	bd.buildUI()
	bd.dialog.Show()
}

func (bd *BookingDialog) buildUI() {
	bd.titleEntry = widget.NewEntry()
	bd.titleEntry.SetPlaceHolder("Event-Titel eingeben")
	bd.titleEntry.OnChanged = func(text string) {
		bd.draft.Title = text
	}

	bd.dateEntry = widget.NewEntry()
	bd.dateEntry.SetPlaceHolder("JJJJ-MM-TT")
	if bd.draft.HasDate() {
		bd.dateEntry.SetText(bd.draft.Date.Format(backend.DateFormat))
	}
	bd.dateEntry.OnChanged = func(text string) {
		t, err := time.ParseInLocation(backend.DateFormat, text, time.Local)
		if err != nil {
			// No valid date, submission stays blocked
			bd.draft.Date = time.Time{}
			bd.updateSubmitState()
			return
		}
		bd.draft.Date = t
		bd.rb.handleDateSelected(t)
		bd.updateSubmitState()
	}

	rooms := bd.rb.store.Rooms()
	options := make([]string, len(rooms))
	for i, room := range rooms {
		options[i] = fmt.Sprintf("Raum %s (%s)", room.Number, room.Name)
	}
	bd.roomSelect = widget.NewSelect(options, func(selected string) {
		for i, option := range options {
			if option == selected {
				bd.draft.Room = rooms[i].Number
				return
			}
		}
	})
	for i, room := range rooms {
		if room.Number == bd.draft.Room {
			bd.roomSelect.Selected = options[i]
		}
	}

	slotGrid := container.NewGridWithColumns(2)
	for i := 0; i < models.ImageSlots; i++ {
		slot := i
		bd.slotButtons[slot] = widget.NewButton(fmt.Sprintf("Raum %d: Bild wählen", slot+1), func() {
			bd.pickImage(slot)
		})
		slotGrid.Add(bd.slotButtons[slot])
	}

	bd.submitButton = widget.NewButton("Buchen", func() {
		bd.submit()
	})
	bd.submitButton.Importance = widget.HighImportance

	cancelButton := widget.NewButton("Abbrechen", func() {
		bd.dialog.Hide()
	})

	form := container.NewVBox(
		widget.NewLabel("Füllen Sie die Details für Ihre Raumbuchung aus."),
		widget.NewForm(
			widget.NewFormItem("Titel", bd.titleEntry),
			widget.NewFormItem("Datum", bd.dateEntry),
			widget.NewFormItem("Raum", bd.roomSelect),
		),
		widget.NewLabel("Bilder hochladen"),
		slotGrid,
		container.NewHBox(cancelButton, bd.submitButton),
	)

	bd.dialog = dialog.NewCustomWithoutButtons("Neue Buchung erstellen", form, bd.rb.window)
	bd.updateSubmitState()
}

// pickImage lets the user attach an image to one of the four room slots.
func (bd *BookingDialog) pickImage(slot int) {
	fileDialog := dialog.NewFileOpen(func(reader fyne.URIReadCloser, err error) {
		if err != nil {
			dialog.ShowError(err, bd.rb.window)
			return
		}
		if reader == nil {
			return
		}
		defer reader.Close()

		data, err := io.ReadAll(reader)
		if err != nil {
			dialog.ShowError(err, bd.rb.window)
			return
		}

		name := reader.URI().Name()
		bd.draft.Images[slot] = &models.ImageAttachment{Name: name, Data: data}
		bd.slotButtons[slot].SetText(fmt.Sprintf("Raum %d: %s", slot+1, name))
	}, bd.rb.window)
	fileDialog.SetFilter(storage.NewExtensionFileFilter([]string{".png", ".jpg", ".jpeg"}))
	fileDialog.Show()
}

// submit runs the workflow off the UI thread. On failure the dialog stays
// open with the draft intact; on success the dashboard applies the result
// and the dialog closes.
func (bd *BookingDialog) submit() {
	bd.submitButton.Disable()
	bd.submitButton.SetText("Wird gebucht…")

	draft := bd.draft
	go func() {
		ctx, cancel := bd.rb.requestContext()
		defer cancel()

		result, err := bd.rb.booking.Submit(ctx, draft)

		fyne.Do(func() {
			bd.submitButton.SetText("Buchen")
			bd.updateSubmitState()

			if err != nil {
				log.Printf("Booking failed: %v", err)
				if bd.rb.config.FeedbackTones {
					playErrorTone()
				}
				dialog.ShowError(errors.New(booking.UserMessage(err)), bd.rb.window)
				return
			}

			bd.dialog.Hide()
			bd.rb.handleBookingSuccess(result)
		})
	}()
}

// updateSubmitState enables the submit button only when a date is set and no
// submission is in flight.
func (bd *BookingDialog) updateSubmitState() {
	if bd.draft.HasDate() && !bd.rb.booking.Submitting() {
		bd.submitButton.Enable()
	} else {
		bd.submitButton.Disable()
	}
}
