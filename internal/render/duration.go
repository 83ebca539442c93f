package render

import (
	"fmt"
	"strings"
	"time"
)

// Ongoing is the end-period sentinel for a position that has not ended.
const Ongoing = "present"

const monthLayout = "2006-01"

// IsOngoing reports whether end is the ongoing sentinel.
func IsOngoing(end string) bool {
	return strings.EqualFold(strings.TrimSpace(end), Ongoing)
}

func parseMonth(s string) (time.Time, bool) {
	t, err := time.Parse(monthLayout, strings.TrimSpace(s))
	if err != nil {
		return time.Time{}, false
	}
	return t, true
}

// Duration returns the elapsed time between two "YYYY-MM" periods as
// "(X years Y months)". A closed range shorter than a month reports
// "(1 month)". An ongoing range (end == "present", measured to now) reports
// whole years only, so it is "" during the first year. Unparseable or
// inverted ranges yield "".
func Duration(start, end string, now time.Time) string {
	from, ok := parseMonth(start)
	if !ok {
		return ""
	}

	ongoing := IsOngoing(end)
	var to time.Time
	if ongoing {
		to = now
	} else if to, ok = parseMonth(end); !ok {
		return ""
	}

	years := to.Year() - from.Year()
	months := int(to.Month()) - int(from.Month())
	if months < 0 {
		years--
		months += 12
	}
	if years < 0 {
		return ""
	}

	if ongoing {
		months = 0
	} else if years == 0 && months == 0 {
		months = 1
	}

	var parts []string
	if years > 0 {
		parts = append(parts, plural(years, "year"))
	}
	if months > 0 {
		parts = append(parts, plural(months, "month"))
	}
	if len(parts) == 0 {
		return ""
	}
	return "(" + strings.Join(parts, " ") + ")"
}

func plural(n int, unit string) string {
	if n == 1 {
		return "1 " + unit
	}
	return fmt.Sprintf("%d %ss", n, unit)
}

// Period formats a start/end pair as "Mar 2021 - Present".
func Period(start, end string) string {
	from := formatMonth(start)
	var to string
	if IsOngoing(end) {
		to = "Present"
	} else {
		to = formatMonth(end)
	}
	switch {
	case from == "" && to == "":
		return ""
	case from == "":
		return to
	case to == "":
		return from
	default:
		return from + " - " + to
	}
}

func formatMonth(s string) string {
	if t, ok := parseMonth(s); ok {
		return t.Format("Jan 2006")
	}
	return strings.TrimSpace(s)
}
