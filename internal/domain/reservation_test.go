package domain

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func interval(startHour, endHour int) Interval {
	day := time.Date(2025, time.June, 2, 0, 0, 0, 0, time.UTC)
	return Interval{
		Start: day.Add(time.Duration(startHour) * time.Hour),
		End:   day.Add(time.Duration(endHour) * time.Hour),
	}
}

func TestInterval_Overlaps(t *testing.T) {
	tests := []struct {
		name     string
		a        Interval
		b        Interval
		overlaps bool
	}{
		{"identical", interval(10, 12), interval(10, 12), true},
		{"partial overlap", interval(10, 12), interval(11, 13), true},
		{"contained", interval(10, 14), interval(11, 12), true},
		{"back to back", interval(10, 12), interval(12, 14), false},
		{"disjoint", interval(10, 11), interval(13, 14), false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.overlaps, tt.a.Overlaps(tt.b))
			// Пересечение симметрично
			assert.Equal(t, tt.overlaps, tt.b.Overlaps(tt.a))
		})
	}
}

func TestInterval_IsEmpty(t *testing.T) {
	assert.True(t, interval(10, 10).IsEmpty())
	assert.True(t, interval(12, 10).IsEmpty())
	assert.False(t, interval(10, 11).IsEmpty())
}

func TestReservation_IsBlocking(t *testing.T) {
	tests := []struct {
		status   ReservationStatus
		blocking bool
	}{
		{StatusPending, false},
		{StatusConfirmed, true},
		{StatusStarted, true},
		{StatusCompleted, false},
		{StatusRejected, false},
		{StatusCancelledByClient, false},
		{StatusCancelledByProfessional, false},
	}

	for _, tt := range tests {
		t.Run(string(tt.status), func(t *testing.T) {
			r := &Reservation{Status: tt.status}
			assert.Equal(t, tt.blocking, r.IsBlocking())
		})
	}
}

func TestReservation_IsTerminal(t *testing.T) {
	tests := []struct {
		status   ReservationStatus
		terminal bool
	}{
		{StatusPending, false},
		{StatusConfirmed, false},
		{StatusStarted, false},
		{StatusCompleted, true},
		{StatusRejected, true},
		{StatusCancelledByClient, true},
		{StatusCancelledByProfessional, true},
	}

	for _, tt := range tests {
		t.Run(string(tt.status), func(t *testing.T) {
			r := &Reservation{Status: tt.status}
			assert.Equal(t, tt.terminal, r.IsTerminal())
		})
	}
}
