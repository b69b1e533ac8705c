package game

import (
	"fmt"
	"time"
)

// formatDuration formats a duration as MM:SS
func formatDuration(d time.Duration) string {
	minutes := int(d.Minutes())
	seconds := int(d.Seconds()) % 60
	return fmt.Sprintf("%02d:%02d", minutes, seconds)
}

// buttonRect returns the start button bounds centered in a width x height
// viewport.
func buttonRect(width, height, bw, bh int) (x, y int) {
	return (width - bw) / 2, (height - bh) / 2
}

func inside(px, py, x, y, w, h int) bool {
	return px >= x && px <= x+w && py >= y && py <= y+h
}
