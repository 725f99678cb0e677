package main

import (
	"context"
	"log"
	"time"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/app"

	"github.com/moritzgrimm/raumboard/pkg/backend"
	"github.com/moritzgrimm/raumboard/pkg/booking"
	"github.com/moritzgrimm/raumboard/pkg/calendar"
	"github.com/moritzgrimm/raumboard/pkg/imagecache"
	"github.com/moritzgrimm/raumboard/pkg/models"
	"github.com/moritzgrimm/raumboard/pkg/state"
)

// Raumboard owns the shared dashboard state and wires the info screen, the
// calendar and the booking dialog together.
type Raumboard struct {
	app    fyne.App
	config *Config

	client  *backend.Client
	store   *state.Store
	images  *imagecache.Cache
	control *calendar.Controller
	booking *booking.Workflow

	window         fyne.Window
	infoScreen     *InfoScreen
	calendarView   *CalendarView
	settingsWindow *SettingsWindow

	batteryFetched bool
}

func main() {
	rb := &Raumboard{
		app: app.NewWithID("io.github.moritzgrimm.raumboard"),
	}

	if err := rb.initialize(); err != nil {
		log.Fatal(err)
	}

	rb.run()
}

func (rb *Raumboard) initialize() error {
	rb.config = loadConfig(rb.app)

	// Sync autostart state with config on startup
	if err := setupAutostart(rb.config.AutoStart); err != nil {
		log.Printf("Warning: failed to setup autostart: %v", err)
	}

	saveConfig(rb.app, rb.config)

	rb.store = state.New(models.DefaultCatalog())
	rb.rebuildClient()

	rb.setupSystemTray()
	rb.buildDashboardWindow()

	if rb.config.NeedsConfiguration() {
		rb.showSettingsWindow()
	} else {
		rb.syncAll()
	}

	return nil
}

func (rb *Raumboard) run() {
	rb.window.Show()
	rb.app.Run()
}

// rebuildClient creates the backend client and the components that depend on
// it. Called at startup and whenever the server URL or timeout changes.
func (rb *Raumboard) rebuildClient() {
	rb.client = backend.NewClient(rb.config.ServerURL, rb.config.RequestTimeout())
	rb.images = imagecache.New(rb.client)
	rb.booking = booking.NewWorkflow(rb.client)
	rb.control = calendar.NewController(rb.client, func(events []models.Event) {
		rb.store.ReplaceEvents(events)
		fyne.Do(func() {
			if rb.calendarView != nil {
				rb.calendarView.Rebuild()
			}
			rb.updateSystemTrayMenu()
		})
	})
	rb.control.SetReferenceDate(rb.store.SelectedDate())
	rb.batteryFetched = false
}

// syncAll refetches everything the dashboard shows: battery levels once per
// session, then events and room images for the selected date.
func (rb *Raumboard) syncAll() {
	rb.syncBatteries()
	rb.refreshEvents()
	rb.refreshImages()
}

// refreshEvents fetches the event list for the calendar's visible range. A
// failure keeps the previous (stale) list on screen.
func (rb *Raumboard) refreshEvents() {
	go func() {
		ctx, cancel := rb.requestContext()
		defer cancel()

		if err := rb.control.Refresh(ctx); err != nil {
			log.Printf("Failed to fetch events: %v", err)
		}
	}()
}

// refreshImages re-resolves every room image for the selected date.
func (rb *Raumboard) refreshImages() {
	rooms := rb.store.Rooms()
	date := rb.store.SelectedDate()

	go func() {
		ctx, cancel := rb.requestContext()
		defer cancel()

		rb.images.ResolveAll(ctx, rooms, date)
		fyne.Do(func() {
			if rb.infoScreen != nil {
				rb.infoScreen.Refresh()
			}
		})
	}()
}

// syncBatteries polls the battery telemetry a single time per session.
// Failure just means "no battery data available".
func (rb *Raumboard) syncBatteries() {
	if rb.batteryFetched {
		return
	}
	rb.batteryFetched = true

	go func() {
		ctx, cancel := rb.requestContext()
		defer cancel()

		statuses, err := rb.client.FetchAllBatteryStatuses(ctx)
		if err != nil {
			log.Printf("Failed to load battery data: %v", err)
			return
		}

		rb.store.SetBatteries(statuses)
		log.Printf("Loaded battery data for %d rooms", len(statuses))
		fyne.Do(func() {
			if rb.infoScreen != nil {
				rb.infoScreen.Refresh()
			}
		})
	}()
}

// handleDateSelected is the single funnel for every date selection: calendar
// day cells, slot clicks, event clicks and the dialog's date field.
func (rb *Raumboard) handleDateSelected(date time.Time) {
	if date.IsZero() {
		return
	}

	rb.store.SetSelectedDate(date)
	rb.control.SetReferenceDate(date)

	if rb.infoScreen != nil {
		rb.infoScreen.Refresh()
	}
	if rb.calendarView != nil {
		rb.calendarView.Rebuild()
	}

	rb.refreshEvents()
	rb.refreshImages()
}

// handleBookingSuccess applies the outcome of a successful submission:
// optimistic event append, local room image swap, then a full refresh so the
// server becomes authoritative.
func (rb *Raumboard) handleBookingSuccess(result *booking.Result) {
	rb.store.AppendEvent(result.Event)

	if result.RoomImage != nil {
		rb.images.StoreLocal(result.RoomNumber, result.RoomImage.Name, result.RoomImage.Data)
	}

	if rb.config.FeedbackTones {
		playConfirmTone()
	}

	if rb.infoScreen != nil {
		rb.infoScreen.Refresh()
	}
	if rb.calendarView != nil {
		rb.calendarView.Rebuild()
	}
	rb.updateSystemTrayMenu()

	rb.syncAll()
}

func (rb *Raumboard) showBookingDialog() {
	room, _ := rb.store.SelectedRoom()
	ShowBookingDialog(rb, room)
}

func (rb *Raumboard) showSettingsWindow() {
	// If the settings window already exists, just bring it to front
	if rb.settingsWindow != nil && rb.settingsWindow.window != nil {
		rb.settingsWindow.window.RequestFocus()
		rb.settingsWindow.window.Show()
		return
	}

	rb.settingsWindow = NewSettingsWindow(rb.app, rb.config, func(newConfig *Config) {
		rb.config = newConfig
		saveConfig(rb.app, rb.config)

		rb.rebuildClient()
		rb.applyKioskMode()

		if !rb.config.NeedsConfiguration() {
			rb.syncAll()
		}
	})

	rb.settingsWindow.window.SetOnClosed(func() {
		rb.settingsWindow = nil
	})

	rb.settingsWindow.Show()
}

func (rb *Raumboard) requestContext() (context.Context, context.CancelFunc) {
	return context.WithTimeout(context.Background(), rb.config.RequestTimeout())
}

func (rb *Raumboard) quit() {
	if rb.images != nil {
		rb.images.ReleaseAll()
	}
	rb.app.Quit()
}
