// Package format renders money and schedule values for API responses and
// notification messages.
package format

import (
	"fmt"
	"time"

	"github.com/kmdelmundo/tutormatch_api/internal/timeutil"
)

// Price formats centavos as pesos with two decimals.
func Price(centavos int64) string {
	return fmt.Sprintf("₱%.2f", float64(centavos)/100)
}

// Pesos converts centavos to a decimal peso amount for JSON payloads.
func Pesos(centavos int64) float64 {
	return float64(centavos) / 100
}

// TimeRange formats a session's time window.
func TimeRange(start, end time.Time) string {
	return fmt.Sprintf("%s-%s", timeutil.FormatClock(start), timeutil.FormatClock(end))
}

// DateTimeRange formats a session's date with its time window.
func DateTimeRange(date, start, end time.Time) string {
	return fmt.Sprintf("%s %s", timeutil.FormatDate(date), TimeRange(start, end))
}
