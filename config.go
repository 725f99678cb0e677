package main

import (
	"os"
	"strings"
	"time"

	"fyne.io/fyne/v2"
)

// serverURLEnv overrides the configured backend base URL, so provisioned
// kiosk installs need no manual setup.
const serverURLEnv = "RAUMBOARD_SERVER_URL"

type Config struct {
	ServerURL         string `json:"server_url"`
	RequestTimeoutSec int    `json:"request_timeout_sec"`
	AutoStart         bool   `json:"auto_start"`
	KioskMode         bool   `json:"kiosk_mode"`
	FeedbackTones     bool   `json:"feedback_tones"`
}

func loadConfig(app fyne.App) *Config {
	prefs := app.Preferences()

	config := &Config{
		ServerURL:         prefs.StringWithFallback("server_url", ""),
		RequestTimeoutSec: prefs.IntWithFallback("request_timeout_sec", 15),
		AutoStart:         prefs.BoolWithFallback("auto_start", false),
		KioskMode:         prefs.BoolWithFallback("kiosk_mode", false),
		FeedbackTones:     prefs.BoolWithFallback("feedback_tones", true),
	}

	if url := strings.TrimSpace(os.Getenv(serverURLEnv)); url != "" {
		config.ServerURL = url
	}

	return config
}

func saveConfig(app fyne.App, config *Config) {
	prefs := app.Preferences()

	// The env override is session-only and must not end up in Preferences,
	// otherwise it would outlive unsetting the variable.
	if strings.TrimSpace(os.Getenv(serverURLEnv)) == "" {
		prefs.SetString("server_url", config.ServerURL)
	}
	prefs.SetInt("request_timeout_sec", config.RequestTimeoutSec)
	prefs.SetBool("auto_start", config.AutoStart)
	prefs.SetBool("kiosk_mode", config.KioskMode)
	prefs.SetBool("feedback_tones", config.FeedbackTones)
}

// NeedsConfiguration returns true until a backend URL is known.
func (c *Config) NeedsConfiguration() bool {
	return strings.TrimSpace(c.ServerURL) == ""
}

// RequestTimeout returns the per-request timeout for backend calls.
func (c *Config) RequestTimeout() time.Duration {
	if c.RequestTimeoutSec <= 0 {
		return 15 * time.Second
	}
	return time.Duration(c.RequestTimeoutSec) * time.Second
}
