package main

import (
	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/container"
)

// buildDashboardWindow creates the main window: the per-room info screen on
// the left, the booking calendar on the right.
func (rb *Raumboard) buildDashboardWindow() {
	rb.window = rb.app.NewWindow("Raumboard")

	rb.infoScreen = NewInfoScreen(rb)
	rb.calendarView = NewCalendarView(rb)

	split := container.NewHSplit(rb.infoScreen.Container(), rb.calendarView.Container())
	split.Offset = 0.33

	rb.window.SetContent(split)
	rb.window.Resize(fyne.NewSize(1280, 800))
	rb.window.CenterOnScreen()
	rb.window.SetMaster()

	rb.applyKioskMode()
}

// applyKioskMode toggles fullscreen for wall-mounted installs. Settings stay
// reachable through the info screen's hold button.
func (rb *Raumboard) applyKioskMode() {
	if rb.window == nil {
		return
	}
	rb.window.SetFullScreen(rb.config.KioskMode)
	if rb.infoScreen != nil {
		rb.infoScreen.Refresh()
	}
}
