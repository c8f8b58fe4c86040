package domain

import (
	"fmt"
	"strings"
	"time"

	"github.com/m04kA/SMC-ReservationService/pkg/timecode"
)

// Schedule is a professional's weekly availability: one Day per configured
// weekday, each with operating hours and a discretized list of bookable slots.
// Weekdays absent from Days mean "not operating".
type Schedule struct {
	ID             int64
	ProfessionalID int64
	Days           []Day
	CreatedAt      time.Time
	UpdatedAt      time.Time
}

// Day is one configured weekday of a schedule.
type Day struct {
	ID      int64
	Weekday time.Weekday

	// StartTime/EndTime границы рабочего дня "h:mm am/pm"
	StartTime string
	EndTime   string
	StartCode timecode.TimeCode
	EndCode   timecode.TimeCode

	Slots []TimeSlot
}

// TimeSlot is a discrete, independently toggle-able bookable unit within a Day.
type TimeSlot struct {
	ID int64

	// Time исходная строка "h:mm am/pm"
	Time string
	// TimeCode канонический ключ сортировки и сравнения
	TimeCode timecode.TimeCode

	IsAvailable bool
	// Discount скидка в процентах [0,100], опционально
	Discount *int
}

// DayByWeekday returns the configured day for wd, or nil when the
// professional does not operate on that weekday.
func (s *Schedule) DayByWeekday(wd time.Weekday) *Day {
	for i := range s.Days {
		if s.Days[i].Weekday == wd {
			return &s.Days[i]
		}
	}
	return nil
}

// SlotByCode returns the slot with the given time code, or nil.
func (d *Day) SlotByCode(code timecode.TimeCode) *TimeSlot {
	for i := range d.Slots {
		if d.Slots[i].TimeCode == code {
			return &d.Slots[i]
		}
	}
	return nil
}

// ContainsCode reports whether code falls within the day's operating hours
// [StartCode, EndCode).
func (d *Day) ContainsCode(code timecode.TimeCode) bool {
	return code >= d.StartCode && code < d.EndCode
}

// DedupSlots removes slots with duplicate time codes, first occurrence wins.
// Slot order is preserved.
func DedupSlots(slots []TimeSlot) []TimeSlot {
	seen := make(map[timecode.TimeCode]bool, len(slots))
	out := make([]TimeSlot, 0, len(slots))
	for _, s := range slots {
		if seen[s.TimeCode] {
			continue
		}
		seen[s.TimeCode] = true
		out = append(out, s)
	}
	return out
}

var weekdayNames = map[string]time.Weekday{
	"sunday":    time.Sunday,
	"monday":    time.Monday,
	"tuesday":   time.Tuesday,
	"wednesday": time.Wednesday,
	"thursday":  time.Thursday,
	"friday":    time.Friday,
	"saturday":  time.Saturday,
}

// ParseWeekday converts a lowercase English weekday name to time.Weekday.
func ParseWeekday(name string) (time.Weekday, error) {
	wd, ok := weekdayNames[strings.ToLower(strings.TrimSpace(name))]
	if !ok {
		return 0, fmt.Errorf("unknown weekday %q", name)
	}
	return wd, nil
}

// WeekdayName returns the lowercase English name of a weekday.
func WeekdayName(wd time.Weekday) string {
	return strings.ToLower(wd.String())
}
