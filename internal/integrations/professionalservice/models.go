package professionalservice

// TeamSize размер команды мастера
type TeamSize struct {
	Min int `json:"min"`
	Max int `json:"max"`
}

// TravelFee тариф выезда фрилансера: Fee за каждый километр сверх Distance
type TravelFee struct {
	Fee      float64 `json:"fee"`
	Distance float64 `json:"distance"`
}

// Professional профиль ёмкости мастера из справочника.
// Ядро читает его и никогда не изменяет.
type Professional struct {
	ID           int64     `json:"id"`
	IsActive     bool      `json:"is_active"`
	IsFreelancer bool      `json:"is_freelancer"`
	TeamSize     TeamSize  `json:"team_size"`
	TravelFee    TravelFee `json:"travel_fee"`
	ServiceType  string    `json:"service_type"`
	// Location координаты [lon, lat] в порядке GeoJSON
	Location []float64 `json:"location"`
	// ScheduleID обратная ссылка на расписание, выставляется при первом создании
	ScheduleID *int64 `json:"schedule_id,omitempty"`
}

// Capacity возвращает максимальное число одновременных подтверждённых броней.
// Фрилансер => 1; команда => teamSize.max (минимум 1).
func (p *Professional) Capacity() int {
	if p.IsFreelancer {
		return 1
	}
	if p.TeamSize.Max < 1 {
		return 1
	}
	return p.TeamSize.Max
}

// ErrorResponse модель ошибки от ProfessionalService
type ErrorResponse struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
}
