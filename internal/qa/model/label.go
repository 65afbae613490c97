package model

import (
	"time"

	"github.com/dustin/go-humanize"
)

// RelativeLabel renders t relative to now, e.g. "3 hours ago" or "just now".
func RelativeLabel(t, now time.Time) string {
	if !t.Before(now.Add(-time.Second)) {
		return "just now"
	}
	return humanize.RelTime(t, now, "ago", "from now")
}
