package match

import (
	"regexp"
	"strconv"
	"strings"
	"time"
)

var slashDatePattern = regexp.MustCompile(`^(\d{1,2})/(\d{1,2})/(\d{2,4})(?:\s+(\d{1,2}):(\d{2}))?$`)

var isoLayouts = []string{
	time.RFC3339Nano,
	time.RFC3339,
	"2006-01-02T15:04:05",
	"2006-01-02T15:04",
	"2006-01-02 15:04:05",
	"2006-01-02 15:04",
	time.DateOnly,
}

// ParseKickoff understands DD/MM/YY[ HH:MM] and the ISO-8601 shapes the
// provider has been seen to send. Two-digit years are 2000+YY. Results are UTC.
func ParseKickoff(raw string) (time.Time, bool) {
	value := strings.TrimSpace(raw)
	if value == "" {
		return time.Time{}, false
	}

	if parts := slashDatePattern.FindStringSubmatch(value); parts != nil {
		return parseSlashDate(parts)
	}

	for _, layout := range isoLayouts {
		if t, err := time.Parse(layout, value); err == nil {
			return t.UTC(), true
		}
	}
	return time.Time{}, false
}

func parseSlashDate(parts []string) (time.Time, bool) {
	day, _ := strconv.Atoi(parts[1])
	month, _ := strconv.Atoi(parts[2])
	year, _ := strconv.Atoi(parts[3])
	if len(parts[3]) == 2 {
		year += 2000
	}

	hour, minute := 0, 0
	if parts[4] != "" {
		hour, _ = strconv.Atoi(parts[4])
		minute, _ = strconv.Atoi(parts[5])
	}
	if month < 1 || month > 12 || day < 1 || hour > 23 || minute > 59 {
		return time.Time{}, false
	}

	t := time.Date(year, time.Month(month), day, hour, minute, 0, 0, time.UTC)
	// time.Date normalizes overflow such as 31/02; reject it instead.
	if t.Day() != day || int(t.Month()) != month {
		return time.Time{}, false
	}
	return t, true
}
