package models

// BatteryStatus is the charge level of the wall display mounted in a room,
// as reported by the backend telemetry endpoint.
type BatteryStatus struct {
	RoomID     string  // room identifier the display belongs to
	Percentage int     // 0-100
	Voltage    float64 // raw cell voltage, informational only
}
