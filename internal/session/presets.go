package session

import (
	"fmt"
	"time"
)

// Preset is a selectable countdown length.
type Preset struct {
	Label    string
	Duration time.Duration
}

// Presets are the countdown lengths offered in the UI.
var Presets = []Preset{
	{Label: "15 mins", Duration: 15 * time.Minute},
	{Label: "30 mins", Duration: 30 * time.Minute},
	{Label: "1 hour", Duration: time.Hour},
	{Label: "1.5 hours", Duration: 90 * time.Minute},
	{Label: "2 hours", Duration: 2 * time.Hour},
}

// FormatClock renders d as MM:SS, truncating sub-second precision. Minutes
// are not wrapped into hours.
func FormatClock(d time.Duration) string {
	if d < 0 {
		d = 0
	}
	secs := int64(d / time.Second)
	return fmt.Sprintf("%02d:%02d", secs/60, secs%60)
}
