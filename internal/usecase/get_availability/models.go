package get_availability

import "time"

// Request модель запроса доступности слотов
type Request struct {
	ProfessionalID  int64
	Date            *time.Time // nil = все настроенные дни недели
	CustomerID      *int64     // nil = без исключения самоповтора
	DurationMinutes *int       // nil = без проверки вместимости услуги
}

// SlotAvailability слот с вычисленной итоговой доступностью
type SlotAvailability struct {
	Time        string `json:"time"`
	TimeCode    int    `json:"timeCode"`
	IsAvailable bool   `json:"isAvailable"`
	Discount    *int   `json:"discount,omitempty"`
}

// DayAvailability день с реализованным списком слотов
type DayAvailability struct {
	Day       string             `json:"day"`
	Date      string             `json:"date"`
	StartTime string             `json:"startTime"`
	EndTime   string             `json:"endTime"`
	TimeSlots []SlotAvailability `json:"timeSlots"`
}

// Response список дней с доступностью
type Response struct {
	ProfessionalID int64             `json:"professionalId"`
	Days           []DayAvailability `json:"days"`
}
