// Package timecode implements the HHMM time-of-day encoding used as the
// canonical sort and comparison key for schedule slots.
//
// A time of day is carried in three forms: the human display string
// ("h:mm am/pm", preserved for UI compatibility), the integer TimeCode
// (HHMM, cheap to compare and index), and an absolute zoned instant
// (for interval arithmetic). This package converts between all three.
package timecode

import (
	"errors"
	"fmt"
	"regexp"
	"strconv"
	"time"
)

var (
	// ErrInvalidFormat возвращается, когда строка не соответствует формату "h:mm am/pm"
	ErrInvalidFormat = errors.New("timecode: invalid time format, expected \"h:mm am/pm\"")

	// ErrOutOfRange возвращается для кода вне диапазона 0000-2359 или с минутами >= 60
	ErrOutOfRange = errors.New("timecode: code out of range")
)

// TimeCode is an integer HHMM encoding of a time of day (e.g. 1430 for "2:30 pm").
// Valid values are 0000..2359 with a minute component below 60.
type TimeCode int

// MinutesPerDay количество минут в сутках
const MinutesPerDay = 24 * 60

// EndOfDay is the sentinel code for "exactly midnight of the next day".
// It is never a valid slot start, only an exclusive day-end bound, so it
// compares greater than every valid TimeCode.
const EndOfDay = TimeCode(2400)

var timeRe = regexp.MustCompile(`(?i)^\s*(1[0-2]|0?[1-9]):([0-5][0-9])\s*([ap])\.?m\.?\s*$`)

// New validates a raw integer as a TimeCode.
func New(code int) (TimeCode, error) {
	if code < 0 || code > 2359 || code%100 >= 60 {
		return 0, fmt.Errorf("%w: %d", ErrOutOfRange, code)
	}
	return TimeCode(code), nil
}

// Parse converts a "h:mm am/pm" string into a TimeCode.
// The meridiem is case-insensitive and accepts the dotted form ("a.m.").
func Parse(s string) (TimeCode, error) {
	m := timeRe.FindStringSubmatch(s)
	if m == nil {
		return 0, fmt.Errorf("%w: %q", ErrInvalidFormat, s)
	}

	hour, _ := strconv.Atoi(m[1])
	minute, _ := strconv.Atoi(m[2])

	// Нормализация 12-часового формата: 12am -> 0, 12pm -> 12
	switch m[3][0] {
	case 'a', 'A':
		if hour == 12 {
			hour = 0
		}
	case 'p', 'P':
		if hour != 12 {
			hour += 12
		}
	}

	return TimeCode(hour*100 + minute), nil
}

// FromClock extracts the TimeCode of a wall-clock instant.
func FromClock(t time.Time) TimeCode {
	return TimeCode(t.Hour()*100 + t.Minute())
}

// FromMinutes builds a TimeCode from minutes since midnight.
func FromMinutes(m int) (TimeCode, error) {
	if m < 0 || m >= MinutesPerDay {
		return 0, fmt.Errorf("%w: %d minutes", ErrOutOfRange, m)
	}
	return TimeCode((m/60)*100 + m%60), nil
}

// Hour returns the 24-hour hour component.
func (c TimeCode) Hour() int { return int(c) / 100 }

// Minute returns the minute component.
func (c TimeCode) Minute() int { return int(c) % 100 }

// Minutes returns minutes since midnight.
func (c TimeCode) Minutes() int { return c.Hour()*60 + c.Minute() }

// String formats the TimeCode back into the "h:mm am/pm" display form.
// Midnight renders as "12:00 am", noon as "12:00 pm".
func (c TimeCode) String() string {
	hour := c.Hour()
	meridiem := "am"
	switch {
	case hour == 0:
		hour = 12
	case hour == 12:
		meridiem = "pm"
	case hour > 12:
		hour -= 12
		meridiem = "pm"
	}
	return fmt.Sprintf("%d:%02d %s", hour, c.Minute(), meridiem)
}

// AddMinutes returns the TimeCode m minutes later on the same day.
// Crossing midnight is an error: callers treat it as "does not fit the day".
func (c TimeCode) AddMinutes(m int) (TimeCode, error) {
	total := c.Minutes() + m
	if total < 0 || total > MinutesPerDay {
		return 0, fmt.Errorf("%w: %s + %d minutes leaves the day", ErrOutOfRange, c, m)
	}
	if total == MinutesPerDay {
		// Ровно полночь следующего дня кодируем как 2400 для сравнения с endTime
		return EndOfDay, nil
	}
	return FromMinutes(total)
}

// ToInstant combines the TimeCode with a calendar date in the given zone,
// producing an unambiguous instant. time.Date performs zoned arithmetic,
// so the result is correct across DST shifts.
func (c TimeCode) ToInstant(date time.Time, loc *time.Location) time.Time {
	y, m, d := date.Date()
	return time.Date(y, m, d, c.Hour(), c.Minute(), 0, 0, loc)
}

// ParseToInstant parses a "h:mm am/pm" string and anchors it to date in loc.
func ParseToInstant(s string, date time.Time, loc *time.Location) (time.Time, error) {
	code, err := Parse(s)
	if err != nil {
		return time.Time{}, err
	}
	return code.ToInstant(date, loc), nil
}
