package models

import (
	"time"

	"github.com/m04kA/SMC-ReservationService/internal/domain"
	"github.com/m04kA/SMC-ReservationService/pkg/geo"
)

// Request модели

// ListByCustomerRequest запрос истории броней клиента
type ListByCustomerRequest struct {
	UserID     int64
	Role       domain.ActorRole
	CustomerID int64
	Date       *time.Time
	Status     *string
}

// ListByProfessionalRequest запрос броней мастера
type ListByProfessionalRequest struct {
	UserID         int64
	Role           domain.ActorRole
	ProfessionalID int64
	Date           *time.Time
	Status         *string
}

// Response модели

// LocationResponse геоточка в формате [lon, lat]
type LocationResponse [2]float64

// ReservationResponse бронь в ответе API
type ReservationResponse struct {
	ID              int64             `json:"id"`
	ServiceID       int64             `json:"serviceId"`
	ProfessionalID  int64             `json:"professionalId"`
	CustomerID      int64             `json:"customerId"`
	Date            string            `json:"date"`
	Time            string            `json:"time"`
	TimeCode        int               `json:"timeCode"`
	ServiceStart    time.Time         `json:"serviceStartDateTime"`
	ServiceEnd      time.Time         `json:"serviceEndDateTime"`
	DurationMinutes int               `json:"duration"`
	Status          string            `json:"status"`
	Amount          float64           `json:"amount"`
	TravelFee       float64           `json:"travelFee"`
	ServiceType     string            `json:"serviceType"`
	ServiceLocation *LocationResponse `json:"serviceLocation,omitempty"`
	IsStarted       bool              `json:"isStarted"`
	CreatedAt       time.Time         `json:"createdAt"`
	UpdatedAt       time.Time         `json:"updatedAt"`
}

// ReservationListResponse список броней
type ReservationListResponse struct {
	Reservations []ReservationResponse `json:"reservations"`
	Total        int                   `json:"total"`
}

// FromDomainReservation конвертирует domain.Reservation в ReservationResponse
func FromDomainReservation(r *domain.Reservation) *ReservationResponse {
	resp := &ReservationResponse{
		ID:              r.ID,
		ServiceID:       r.ServiceID,
		ProfessionalID:  r.ProfessionalID,
		CustomerID:      r.CustomerID,
		Date:            r.Date.Format(domain.DateFormat),
		Time:            r.Time,
		TimeCode:        int(r.TimeCode),
		ServiceStart:    r.ServiceStart,
		ServiceEnd:      r.ServiceEnd,
		DurationMinutes: r.DurationMinutes,
		Status:          string(r.Status),
		Amount:          r.Amount,
		TravelFee:       r.TravelFee,
		ServiceType:     string(r.ServiceType),
		IsStarted:       r.IsStarted,
		CreatedAt:       r.CreatedAt,
		UpdatedAt:       r.UpdatedAt,
	}
	if r.ServiceLocation != nil {
		resp.ServiceLocation = &LocationResponse{r.ServiceLocation.Lon, r.ServiceLocation.Lat}
	}
	return resp
}

// FromDomainReservationList конвертирует список броней
func FromDomainReservationList(list []*domain.Reservation) *ReservationListResponse {
	out := make([]ReservationResponse, 0, len(list))
	for _, r := range list {
		out = append(out, *FromDomainReservation(r))
	}
	return &ReservationListResponse{Reservations: out, Total: len(out)}
}

// ToDomainStatus конвертирует строку статуса в domain.ReservationStatus
func ToDomainStatus(s string) (domain.ReservationStatus, bool) {
	status := domain.ReservationStatus(s)
	switch status {
	case domain.StatusPending, domain.StatusConfirmed, domain.StatusStarted,
		domain.StatusCompleted, domain.StatusRejected,
		domain.StatusCancelledByClient, domain.StatusCancelledByProfessional:
		return status, true
	}
	return "", false
}

// ToDomainLocation конвертирует [lon, lat] в geo.Point
func ToDomainLocation(loc *LocationResponse) *geo.Point {
	if loc == nil {
		return nil
	}
	return &geo.Point{Lon: loc[0], Lat: loc[1]}
}
