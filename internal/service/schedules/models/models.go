package models

import (
	"time"

	"github.com/m04kA/SMC-ReservationService/internal/domain"
)

// Request модели

// SlotInput слот в запросе на создание/обновление расписания
// TimeCode вычисляется из Time, если не передан
type SlotInput struct {
	Time        string `json:"time"`
	TimeCode    *int   `json:"timeCode,omitempty"`
	IsAvailable *bool  `json:"isAvailable,omitempty"` // nil = true
	Discount    *int   `json:"discount,omitempty"`
}

// DayInput день в запросе на создание расписания
// Дни с Active=false отбрасываются при сохранении
type DayInput struct {
	Day       string      `json:"day"`
	Active    bool        `json:"active"`
	StartTime string      `json:"startTime"`
	EndTime   string      `json:"endTime"`
	TimeSlots []SlotInput `json:"timeSlots"`
}

// UpsertScheduleRequest запрос на полную замену расписания мастера
type UpsertScheduleRequest struct {
	UserID         int64
	Role           domain.ActorRole
	ProfessionalID int64
	Days           []DayInput
}

// PartialDayInput частичное обновление одного дня
// Обновляются только переданные поля; слоты заменяются целиком, если переданы
type PartialDayInput struct {
	Day       string       `json:"day"`
	StartTime *string      `json:"startTime,omitempty"`
	EndTime   *string      `json:"endTime,omitempty"`
	TimeSlots *[]SlotInput `json:"timeSlots,omitempty"`
}

// UpdateDaysRequest запрос на частичное обновление дней расписания
type UpdateDaysRequest struct {
	UserID         int64
	Role           domain.ActorRole
	ProfessionalID int64
	Days           []PartialDayInput
}

// SetSlotDiscountRequest запрос на установку скидки на слот
type SetSlotDiscountRequest struct {
	UserID         int64
	Role           domain.ActorRole
	ProfessionalID int64
	Day            string
	TimeCode       int
	Discount       int
}

// Response модели

// SlotResponse слот расписания в ответе
type SlotResponse struct {
	Time        string `json:"time"`
	TimeCode    int    `json:"timeCode"`
	IsAvailable bool   `json:"isAvailable"`
	Discount    *int   `json:"discount,omitempty"`
}

// DayResponse день расписания в ответе
type DayResponse struct {
	Day       string         `json:"day"`
	StartTime string         `json:"startTime"`
	EndTime   string         `json:"endTime"`
	TimeSlots []SlotResponse `json:"timeSlots"`
}

// ScheduleResponse расписание мастера в ответе
type ScheduleResponse struct {
	ID             int64         `json:"id"`
	ProfessionalID int64         `json:"professionalId"`
	Days           []DayResponse `json:"days"`
	CreatedAt      time.Time     `json:"createdAt"`
	UpdatedAt      time.Time     `json:"updatedAt"`
}

// FromDomainDay конвертирует domain.Day в DayResponse
func FromDomainDay(d *domain.Day) DayResponse {
	slots := make([]SlotResponse, 0, len(d.Slots))
	for _, s := range d.Slots {
		slots = append(slots, SlotResponse{
			Time:        s.Time,
			TimeCode:    int(s.TimeCode),
			IsAvailable: s.IsAvailable,
			Discount:    s.Discount,
		})
	}
	return DayResponse{
		Day:       domain.WeekdayName(d.Weekday),
		StartTime: d.StartTime,
		EndTime:   d.EndTime,
		TimeSlots: slots,
	}
}

// FromDomainSchedule конвертирует domain.Schedule в ScheduleResponse
func FromDomainSchedule(s *domain.Schedule) *ScheduleResponse {
	days := make([]DayResponse, 0, len(s.Days))
	for i := range s.Days {
		days = append(days, FromDomainDay(&s.Days[i]))
	}
	return &ScheduleResponse{
		ID:             s.ID,
		ProfessionalID: s.ProfessionalID,
		Days:           days,
		CreatedAt:      s.CreatedAt,
		UpdatedAt:      s.UpdatedAt,
	}
}
