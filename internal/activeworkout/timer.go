package activeworkout

import (
	"errors"
	"fmt"
)

var errNoActiveSession = errors.New("no active session")

// FormatElapsed renders seconds as M:SS, or H:MM:SS once past an hour.
func FormatElapsed(seconds int) string {
	hours := seconds / 3600
	minutes := (seconds % 3600) / 60
	secs := seconds % 60

	if hours > 0 {
		return fmt.Sprintf("%d:%02d:%02d", hours, minutes, secs)
	}
	return fmt.Sprintf("%d:%02d", minutes, secs)
}
