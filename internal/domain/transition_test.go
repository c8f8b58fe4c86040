package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCanTransition(t *testing.T) {
	tests := []struct {
		name    string
		from    ReservationStatus
		to      ReservationStatus
		allowed bool
	}{
		{"pending to confirmed", StatusPending, StatusConfirmed, true},
		{"pending to rejected", StatusPending, StatusRejected, true},
		{"confirmed to started", StatusConfirmed, StatusStarted, true},
		{"confirmed to rejected", StatusConfirmed, StatusRejected, true},
		{"confirmed to cancelled by client", StatusConfirmed, StatusCancelledByClient, true},
		{"confirmed to cancelled by professional", StatusConfirmed, StatusCancelledByProfessional, true},
		{"started to completed", StatusStarted, StatusCompleted, true},

		{"pending to started", StatusPending, StatusStarted, false},
		{"pending to completed", StatusPending, StatusCompleted, false},
		{"pending to cancelled by client", StatusPending, StatusCancelledByClient, false},
		{"started to cancelled by client", StatusStarted, StatusCancelledByClient, false},
		{"started to rejected", StatusStarted, StatusRejected, false},
		{"confirmed to completed", StatusConfirmed, StatusCompleted, false},
		{"same status", StatusConfirmed, StatusConfirmed, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.allowed, CanTransition(tt.from, tt.to))
		})
	}
}

func TestCanTransition_TerminalStatusesHaveNoOutgoingEdges(t *testing.T) {
	terminal := []ReservationStatus{
		StatusCompleted,
		StatusRejected,
		StatusCancelledByClient,
		StatusCancelledByProfessional,
	}
	all := []ReservationStatus{
		StatusPending, StatusConfirmed, StatusStarted, StatusCompleted,
		StatusRejected, StatusCancelledByClient, StatusCancelledByProfessional,
	}

	for _, from := range terminal {
		for _, to := range all {
			assert.False(t, CanTransition(from, to), "%s -> %s must be illegal", from, to)
		}
	}
}

func TestTransitionReleasesSlot(t *testing.T) {
	assert.True(t, TransitionReleasesSlot(StatusCompleted))
	assert.True(t, TransitionReleasesSlot(StatusCancelledByClient))
	assert.True(t, TransitionReleasesSlot(StatusCancelledByProfessional))

	// Отклонение pending-заявки слотов не трогает: они и не закрывались
	assert.False(t, TransitionReleasesSlot(StatusRejected))
	assert.False(t, TransitionReleasesSlot(StatusConfirmed))
	assert.False(t, TransitionReleasesSlot(StatusStarted))
	assert.False(t, TransitionReleasesSlot(StatusPending))
}
