package activity

import (
	"math"
	"strconv"
	"time"
)

// HumanDuration renders d the way a person would say it: "less than a
// minute", "5 minutes", "1 hour", "2 days". Rounded to the nearest unit, so
// an hour and a minute still reads "1 hour".
func HumanDuration(d time.Duration) string {
	switch {
	case d < time.Minute:
		return "less than a minute"
	case d < time.Hour:
		return plural(int(math.Round(d.Minutes())), "minute")
	case d < 24*time.Hour:
		return plural(int(math.Round(d.Hours())), "hour")
	default:
		return plural(int(math.Round(d.Hours()/24)), "day")
	}
}

func plural(n int, unit string) string {
	if n == 1 {
		return "1 " + unit
	}
	return strconv.Itoa(n) + " " + unit + "s"
}
