package domain

// Default configuration values
const (
	// DefaultTeamMax ёмкость по умолчанию, когда профиль мастера её не задаёт
	DefaultTeamMax = 1

	// FreelancerCapacity фрилансер обслуживает ровно одну бронь одновременно
	FreelancerCapacity = 1
)

// Business validation constants
const (
	MinDiscountPercent = 0
	MaxDiscountPercent = 100

	MinDurationMinutes = 5
	MaxDurationMinutes = 480 // 8 часов
)

// Time format constants
const (
	DateFormat = "2006-01-02" // YYYY-MM-DD
)

// Sweep window bounds: сколько назад и вперёд от "сейчас" фоновый проход
// захватывает брони, чтобы не сканировать всю таблицу.
const (
	SweepLookbackHours  = 12
	SweepLookaheadHours = 1
)
