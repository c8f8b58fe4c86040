package domain

// transitions перечисляет легальные рёбра жизненного цикла брони.
// Любая пара (from, to), отсутствующая здесь, является нелегальным переходом.
var transitions = map[ReservationStatus][]ReservationStatus{
	StatusPending: {
		StatusConfirmed,
		StatusRejected,
	},
	StatusConfirmed: {
		StatusStarted,
		StatusRejected,
		StatusCancelledByClient,
		StatusCancelledByProfessional,
	},
	StatusStarted: {
		StatusCompleted,
	},
	// Терминальные статусы исходящих рёбер не имеют
}

// CanTransition reports whether from -> to is a legal lifecycle edge.
func CanTransition(from, to ReservationStatus) bool {
	for _, allowed := range transitions[from] {
		if allowed == to {
			return true
		}
	}
	return false
}

// TransitionReleasesSlot reports whether the transition must reopen the
// reservation's slot range (service finished or booking cancelled).
func TransitionReleasesSlot(to ReservationStatus) bool {
	switch to {
	case StatusCompleted, StatusCancelledByClient, StatusCancelledByProfessional:
		return true
	}
	return false
}
