package domain

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/m04kA/SMC-ReservationService/pkg/timecode"
)

func TestSchedule_DayByWeekday(t *testing.T) {
	s := &Schedule{
		Days: []Day{
			{Weekday: time.Monday},
			{Weekday: time.Wednesday},
		},
	}

	require.NotNil(t, s.DayByWeekday(time.Monday))
	assert.Equal(t, time.Wednesday, s.DayByWeekday(time.Wednesday).Weekday)
	assert.Nil(t, s.DayByWeekday(time.Sunday))
}

func TestDay_SlotByCode(t *testing.T) {
	day := &Day{
		Slots: []TimeSlot{
			{TimeCode: 900},
			{TimeCode: 930},
		},
	}

	slot := day.SlotByCode(930)
	require.NotNil(t, slot)
	assert.Equal(t, timecode.TimeCode(930), slot.TimeCode)
	assert.Nil(t, day.SlotByCode(1000))
}

func TestDay_ContainsCode(t *testing.T) {
	day := &Day{StartCode: 900, EndCode: 1800}

	assert.True(t, day.ContainsCode(900))
	assert.True(t, day.ContainsCode(1730))
	// Верхняя граница исключается
	assert.False(t, day.ContainsCode(1800))
	assert.False(t, day.ContainsCode(830))
}

func TestDedupSlots(t *testing.T) {
	in := []TimeSlot{
		{TimeCode: 900, Time: "9:00 am"},
		{TimeCode: 930, Time: "9:30 am"},
		{TimeCode: 900, Time: "9:00 am", IsAvailable: true},
		{TimeCode: 1000, Time: "10:00 am"},
	}

	out := DedupSlots(in)
	require.Len(t, out, 3)

	// Первое вхождение выигрывает, порядок сохраняется
	assert.Equal(t, timecode.TimeCode(900), out[0].TimeCode)
	assert.False(t, out[0].IsAvailable)
	assert.Equal(t, timecode.TimeCode(930), out[1].TimeCode)
	assert.Equal(t, timecode.TimeCode(1000), out[2].TimeCode)
}

func TestDedupSlots_Idempotent(t *testing.T) {
	in := []TimeSlot{
		{TimeCode: 900},
		{TimeCode: 930},
	}

	once := DedupSlots(in)
	twice := DedupSlots(once)
	assert.Equal(t, once, twice)
}

func TestParseWeekday(t *testing.T) {
	wd, err := ParseWeekday("monday")
	require.NoError(t, err)
	assert.Equal(t, time.Monday, wd)

	wd, err = ParseWeekday("  SUNDAY ")
	require.NoError(t, err)
	assert.Equal(t, time.Sunday, wd)

	_, err = ParseWeekday("someday")
	assert.Error(t, err)
}

func TestWeekdayName(t *testing.T) {
	assert.Equal(t, "monday", WeekdayName(time.Monday))
	assert.Equal(t, "sunday", WeekdayName(time.Sunday))
}
