package main

import (
	"fmt"
	"log"
	"net/url"
	"strconv"
	"strings"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/widget"
)

// SettingsWindow edits the dashboard configuration: backend URL, request
// timeout and the kiosk options.
type SettingsWindow struct {
	window fyne.Window
	app    fyne.App
	config *Config
	onSave func(*Config)

	serverURLEntry     *widget.Entry
	timeoutSelect      *widget.Select
	autoStartCheck     *widget.Check
	kioskModeCheck     *widget.Check
	feedbackTonesCheck *widget.Check
	saveStatusLabel    *widget.Label
	saveButton         *widget.Button
}

func NewSettingsWindow(app fyne.App, config *Config, onSave func(*Config)) *SettingsWindow {
	sw := &SettingsWindow{
		app:    app,
		config: config,
		onSave: onSave,
	}

	sw.window = app.NewWindow("Raumboard – Einstellungen")
	sw.buildUI()

	return sw
}

func (sw *SettingsWindow) buildUI() {
	sw.serverURLEntry = widget.NewEntry()
	sw.serverURLEntry.SetPlaceHolder("https://raumboard.example.com")
	sw.serverURLEntry.SetText(sw.config.ServerURL)
	sw.serverURLEntry.Validator = func(s string) error {
		if strings.TrimSpace(s) == "" {
			return fmt.Errorf("Server-URL ist erforderlich")
		}
		u, err := url.Parse(s)
		if err != nil || (u.Scheme != "http" && u.Scheme != "https") {
			return fmt.Errorf("URL muss mit http:// oder https:// beginnen")
		}
		return nil
	}

	sw.timeoutSelect = widget.NewSelect([]string{"5 s", "10 s", "15 s", "30 s", "60 s"}, nil)
	sw.timeoutSelect.Selected = fmt.Sprintf("%d s", sw.config.RequestTimeoutSec)

	sw.autoStartCheck = widget.NewCheck("Beim Anmelden starten", nil)
	sw.autoStartCheck.SetChecked(sw.config.AutoStart)

	sw.kioskModeCheck = widget.NewCheck("Kiosk-Modus (Vollbild)", nil)
	sw.kioskModeCheck.SetChecked(sw.config.KioskMode)

	sw.feedbackTonesCheck = widget.NewCheck("Töne bei Buchung", nil)
	sw.feedbackTonesCheck.SetChecked(sw.config.FeedbackTones)

	serverHelp := widget.NewLabel("Basis-URL des Buchungs-Backends. Kann über " + serverURLEnv + " überschrieben werden.")
	serverHelp.Wrapping = fyne.TextWrapWord
	serverHelp.Importance = widget.MediumImportance

	sw.saveStatusLabel = widget.NewLabel("")
	sw.saveStatusLabel.Importance = widget.SuccessImportance

	sw.saveButton = widget.NewButton("Speichern", func() {
		if err := sw.serverURLEntry.Validate(); err != nil {
			sw.saveStatusLabel.SetText(err.Error())
			sw.saveStatusLabel.Importance = widget.DangerImportance
			sw.saveStatusLabel.Refresh()
			return
		}

		sw.saveButton.Disable()
		newConfig := sw.configFromUI()

		go func() {
			if err := setupAutostart(newConfig.AutoStart); err != nil {
				log.Printf("Error setting autostart: %v", err)
			}

			fyne.Do(func() {
				if sw.onSave != nil {
					sw.onSave(newConfig)
				}

				sw.saveStatusLabel.SetText("Einstellungen gespeichert")
				sw.saveStatusLabel.Importance = widget.SuccessImportance
				sw.saveStatusLabel.Refresh()
				sw.saveButton.Enable()
			})
		}()
	})
	sw.saveButton.Importance = widget.HighImportance

	closeButton := widget.NewButton("Schließen", func() {
		sw.window.Close()
	})

	form := widget.NewForm(
		widget.NewFormItem("Server-URL", sw.serverURLEntry),
		widget.NewFormItem("Timeout", sw.timeoutSelect),
		widget.NewFormItem("Autostart", sw.autoStartCheck),
		widget.NewFormItem("Kiosk", sw.kioskModeCheck),
		widget.NewFormItem("Audio", sw.feedbackTonesCheck),
	)

	buttonRow := container.NewBorder(nil, nil,
		container.NewHBox(sw.saveButton, sw.saveStatusLabel),
		closeButton,
	)

	content := container.NewVBox(
		widget.NewLabel("Einstellungen"),
		widget.NewSeparator(),
		serverHelp,
		form,
		widget.NewSeparator(),
		buttonRow,
	)

	sw.window.SetContent(container.NewPadded(content))
	sw.window.Resize(fyne.NewSize(560, 420))
	sw.window.CenterOnScreen()
}

func (sw *SettingsWindow) configFromUI() *Config {
	timeout := sw.config.RequestTimeoutSec
	if v, err := strconv.Atoi(strings.TrimSuffix(sw.timeoutSelect.Selected, " s")); err == nil {
		timeout = v
	}

	return &Config{
		ServerURL:         strings.TrimSpace(sw.serverURLEntry.Text),
		RequestTimeoutSec: timeout,
		AutoStart:         sw.autoStartCheck.Checked,
		KioskMode:         sw.kioskModeCheck.Checked,
		FeedbackTones:     sw.feedbackTonesCheck.Checked,
	}
}

func (sw *SettingsWindow) Show() {
	sw.window.Show()
}
