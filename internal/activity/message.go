// Package activity renders activity messages and reads state back out of
// them. The channel and private chat copies are normally projections of a
// stored record, but messages sent before the record store existed only
// carry their state inside the text itself, so the marker literals below
// double as the wire format for that fallback path.
package activity

import (
	"strings"
	"time"

	"github.com/teamtempo/tempobot/internal/domain"
)

const (
	// InProgressMarker flags an unfinished activity inside the rendered
	// text. Phase detection on the record-less path matches it verbatim.
	InProgressMarker = "(in progress)"

	// GratitudePrefix separates the status line from the giver list.
	GratitudePrefix = "\ngratitude from "
)

// ChannelText renders the channel copy of a fresh activity.
func ChannelText(handle, status string) string {
	return "@" + handle + " " + status + " " + InProgressMarker
}

// PrivateText renders the private copy of a fresh activity.
func PrivateText(status string) string {
	return status + " " + InProgressMarker
}

// FinishedText renders the final form both copies are rewritten to.
func FinishedText(handle, status string, spent time.Duration) string {
	return "@" + handle + " " + status + " (spent " + HumanDuration(spent) + ")"
}

// Render projects an activity record into its channel text.
func Render(a *domain.Activity) string {
	var sb strings.Builder
	sb.WriteString(ChannelText(a.UserName, a.Status))
	if len(a.Givers) > 0 {
		sb.WriteString(GratitudePrefix)
		sb.WriteString(strings.Join(a.Givers, " "))
	}
	return sb.String()
}

// StripStatus recovers the status text from an in-progress message. It
// reports false when the marker is absent, which on the record-less path
// means the message was already rewritten to its final form.
func StripStatus(text string) (string, bool) {
	i := strings.Index(text, InProgressMarker)
	if i < 0 {
		return "", false
	}
	return strings.TrimSpace(text[:i]), true
}
