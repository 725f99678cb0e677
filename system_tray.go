package main

import (
	"time"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/driver/desktop"
	"fyne.io/fyne/v2/theme"

	"github.com/moritzgrimm/raumboard/pkg/calendar"
	"github.com/moritzgrimm/raumboard/pkg/models"
)

func (rb *Raumboard) setupSystemTray() {
	rb.updateSystemTrayMenu()
}

// updateSystemTrayMenu rebuilds the tray menu from the current event list.
// Called after every event refresh and booking so "Heute gebucht:" stays
// current.
func (rb *Raumboard) updateSystemTrayMenu() {
	if desk, ok := rb.app.(desktop.App); ok {
		menu := fyne.NewMenu("Raumboard", rb.trayMenuItems()...)
		desk.SetSystemTrayMenu(menu)
		desk.SetSystemTrayIcon(theme.HomeIcon())
	}
}

func (rb *Raumboard) trayMenuItems() []*fyne.MenuItem {
	menuItems := []*fyne.MenuItem{}

	// Today's bookings at the top
	todays := rb.todaysEvents(5)
	if len(todays) > 0 {
		headerItem := fyne.NewMenuItem("Heute gebucht:", nil)
		headerItem.Disabled = true
		menuItems = append(menuItems, headerItem)

		for _, ev := range todays {
			entry := fyne.NewMenuItem("  "+truncateString(ev.Title, 35), nil)
			entry.Disabled = true
			menuItems = append(menuItems, entry)
		}

		menuItems = append(menuItems, fyne.NewMenuItemSeparator())
	}

	menuItems = append(menuItems,
		fyne.NewMenuItem("Einstellungen", func() {
			rb.showSettingsWindow()
		}),
		fyne.NewMenuItem("Jetzt synchronisieren", func() {
			rb.refreshEvents()
			rb.refreshImages()
		}),
	)

	menuItems = append(menuItems, fyne.NewMenuItemSeparator())
	menuItems = append(menuItems, fyne.NewMenuItem("Beenden", func() {
		rb.quit()
	}))

	return menuItems
}

// todaysEvents returns up to limit events booked for the current date.
func (rb *Raumboard) todaysEvents(limit int) []models.Event {
	now := time.Now()

	todays := []models.Event{}
	for _, ev := range rb.store.Events() {
		if calendar.SameDay(ev.Start, now) {
			todays = append(todays, ev)
			if len(todays) >= limit {
				break
			}
		}
	}
	return todays
}

// truncateString truncates a string to maxLen characters, adding "..." if
// needed. Counted in runes so umlauts are never split mid-sequence.
func truncateString(s string, maxLen int) string {
	runes := []rune(s)
	if len(runes) <= maxLen {
		return s
	}
	return string(runes[:maxLen-3]) + "..."
}
