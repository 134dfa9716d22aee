package fields

import (
	"regexp"
	"strconv"
	"strings"
	"time"
)

var datePattern = regexp.MustCompile(`^([0-9]{1,2})-([A-Za-z]{3})-([0-9]{2})$`)

var monthAbbreviations = map[string]time.Month{
	"jan": time.January,
	"feb": time.February,
	"mar": time.March,
	"apr": time.April,
	"may": time.May,
	"jun": time.June,
	"jul": time.July,
	"aug": time.August,
	"sep": time.September,
	"oct": time.October,
	"nov": time.November,
	"dec": time.December,
}

// Century returns the century base for two-digit years on a page resolved to pageYear.
func Century(pageYear int) int {
	if pageYear <= 1999 {
		return 1900
	}
	return 2000
}

// Date converts a "11-Apr-23" token to "2023-04-11" using the page year for the century.
// Blank tokens return "". Tokens that do not match the layout, name an unknown
// month, or describe an impossible day are returned trimmed and unchanged.
func Date(token string, pageYear int) string {
	trimmed := strings.TrimSpace(token)
	if trimmed == "" {
		return ""
	}
	parsed, ok := ParseDate(trimmed, pageYear)
	if !ok {
		return trimmed
	}
	return parsed.Format(time.DateOnly)
}

// ParseDate parses a day-month-year token into a UTC calendar date.
func ParseDate(token string, pageYear int) (time.Time, bool) {
	match := datePattern.FindStringSubmatch(strings.TrimSpace(token))
	if match == nil {
		return time.Time{}, false
	}
	month, ok := monthAbbreviations[strings.ToLower(match[2])]
	if !ok {
		return time.Time{}, false
	}
	day, err := strconv.Atoi(match[1])
	if err != nil {
		return time.Time{}, false
	}
	yy, err := strconv.Atoi(match[3])
	if err != nil {
		return time.Time{}, false
	}
	year := Century(pageYear) + yy
	date := time.Date(year, month, day, 0, 0, 0, 0, time.UTC)
	if date.Day() != day || date.Month() != month {
		return time.Time{}, false
	}
	return date, true
}
