package main

import (
	"fmt"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/canvas"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/widget"
)

// InfoScreen shows the status of one room: its current image, battery level
// of the wall display and the "Neue Buchung erstellen" action.
type InfoScreen struct {
	rb *Raumboard

	root        *fyne.Container
	heading     *widget.Label
	roomButtons []*widget.Button
	cardTitle   *widget.Label
	batteryRow  *fyne.Container
	batteryText *widget.Label
	batteryBar  *widget.ProgressBar
	image       *canvas.Image
	nameLabel   *widget.Label
	detailLabel *widget.Label
}

func NewInfoScreen(rb *Raumboard) *InfoScreen {
	is := &InfoScreen{rb: rb}
	is.buildUI()
	is.Refresh()
	return is
}

func (is *InfoScreen) Container() fyne.CanvasObject {
	return is.root
}

func (is *InfoScreen) buildUI() {
	is.heading = widget.NewLabel("Raumstatus")
	is.heading.TextStyle.Bold = true
	is.heading.Alignment = fyne.TextAlignCenter

	// One selector button per catalog entry
	rooms := is.rb.store.Rooms()
	buttonGrid := container.NewGridWithColumns(2)
	for i, room := range rooms {
		index := i
		btn := widget.NewButton("Raum "+room.Number, func() {
			is.rb.store.SetSelectedRoomIndex(index)
			is.Refresh()
		})
		is.roomButtons = append(is.roomButtons, btn)
		buttonGrid.Add(btn)
	}

	is.cardTitle = widget.NewLabel("")
	is.cardTitle.TextStyle.Bold = true

	is.batteryText = widget.NewLabel("")
	is.batteryBar = widget.NewProgressBar()
	is.batteryBar.TextFormatter = func() string {
		return fmt.Sprintf("%.0f %%", is.batteryBar.Value*100)
	}
	is.batteryRow = container.NewBorder(nil, nil, is.batteryText, nil, is.batteryBar)

	is.image = canvas.NewImageFromResource(is.rb.images.Placeholder())
	is.image.FillMode = canvas.ImageFillContain
	is.image.SetMinSize(fyne.NewSize(360, 240))

	is.nameLabel = widget.NewLabel("")
	is.detailLabel = widget.NewLabel("")
	is.detailLabel.Wrapping = fyne.TextWrapWord

	card := container.NewVBox(
		container.NewBorder(nil, nil, is.cardTitle, nil, is.batteryRow),
		is.image,
		is.nameLabel,
		is.detailLabel,
	)

	newBookingButton := widget.NewButton("Neue Buchung erstellen", func() {
		is.rb.showBookingDialog()
	})
	newBookingButton.Importance = widget.HighImportance

	settingsButton := NewHoldButton("Einstellungen (halten)", 3, func() {
		is.rb.showSettingsWindow()
	})

	bottom := container.NewVBox(newBookingButton, settingsButton)

	is.root = container.NewBorder(
		container.NewVBox(is.heading, buttonGrid),
		bottom,
		nil,
		nil,
		container.NewPadded(card),
	)
}

// Refresh re-reads the shared state and updates every widget on the screen.
func (is *InfoScreen) Refresh() {
	date := is.rb.store.SelectedDate()
	is.heading.SetText("Raumstatus für " + date.Format("02.01.2006"))

	selected := is.rb.store.SelectedRoomIndex()
	for i, btn := range is.roomButtons {
		if i == selected {
			btn.Importance = widget.HighImportance
		} else {
			btn.Importance = widget.MediumImportance
		}
		btn.Refresh()
	}

	room, ok := is.rb.store.SelectedRoom()
	if !ok {
		return
	}

	is.cardTitle.SetText("Raum " + room.Number)
	is.nameLabel.SetText(room.Name)
	is.detailLabel.SetText(fmt.Sprintf("Details zum Raum %s.", room.Number))

	if battery, known := is.rb.store.Battery(room.Number); known {
		is.batteryText.SetText("Batterie:")
		is.batteryBar.SetValue(float64(battery.Percentage) / 100)
		is.batteryRow.Show()
	} else {
		is.batteryRow.Hide()
	}

	is.image.Resource = is.rb.images.Resource(room.Number)
	is.image.Refresh()
}
