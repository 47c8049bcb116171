package models

import (
	"fmt"
	"strings"
	"time"
	"unicode/utf8"
)

// DateTimeLayout is the only accepted input and output format (DD.MM.YYYY HH:MM).
const DateTimeLayout = "02.01.2006 15:04"

// MaxGroupNameLength bounds group names in runes.
const MaxGroupNameLength = 128

// ParseDateTime parses s in loc and returns the instant normalized for storage:
// minute precision, UTC.
func ParseDateTime(s string, loc *time.Location) (time.Time, error) {
	if loc == nil {
		loc = time.Local
	}
	t, err := time.ParseInLocation(DateTimeLayout, strings.TrimSpace(s), loc)
	if err != nil {
		return time.Time{}, fmt.Errorf("%w: date must look like DD.MM.YYYY HH:MM, got %q", ErrInvalidFormat, s)
	}
	return NormalizeTime(t), nil
}

// FormatDateTime renders a stored instant in loc.
func FormatDateTime(t time.Time, loc *time.Location) string {
	if loc == nil {
		loc = time.Local
	}
	return t.In(loc).Format(DateTimeLayout)
}

// NormalizeTime truncates to the minute and converts to UTC so that values
// compare the same way as strings and as timestamps in every driver.
func NormalizeTime(t time.Time) time.Time {
	return t.Truncate(time.Minute).UTC()
}

// NormalizeGroupName trims the name and rejects empty, multi-line or oversized names.
func NormalizeGroupName(s string) (string, error) {
	name := strings.TrimSpace(s)
	switch {
	case name == "":
		return "", fmt.Errorf("%w: group name is empty", ErrInvalidFormat)
	case strings.ContainsAny(name, "\r\n"):
		return "", fmt.Errorf("%w: group name must be a single line", ErrInvalidFormat)
	case utf8.RuneCountInString(name) > MaxGroupNameLength:
		return "", fmt.Errorf("%w: group name is longer than %d characters", ErrInvalidFormat, MaxGroupNameLength)
	}
	return name, nil
}
