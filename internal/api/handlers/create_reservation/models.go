package create_reservation

import (
	"time"

	"github.com/m04kA/SMC-ReservationService/internal/domain"
	createReservation "github.com/m04kA/SMC-ReservationService/internal/usecase/create_reservation"
	"github.com/m04kA/SMC-ReservationService/pkg/geo"
)

// CreateReservationRequest HTTP request model
type CreateReservationRequest struct {
	ProfessionalID int64  `json:"professionalId"`
	ServiceID      int64  `json:"serviceId"`
	Date           string `json:"date"` // "2026-03-15"
	Time           string `json:"time"` // "10:00 am"
	ServiceType    string `json:"serviceType"`
	// ServiceLocation координаты клиента [lon, lat], обязательны для home
	ServiceLocation *[2]float64 `json:"serviceLocation,omitempty"`
}

// ReservationResponse HTTP response model
type ReservationResponse struct {
	ID              int64       `json:"id"`
	ServiceID       int64       `json:"serviceId"`
	ProfessionalID  int64       `json:"professionalId"`
	CustomerID      int64       `json:"customerId"`
	Date            string      `json:"date"`
	Time            string      `json:"time"`
	TimeCode        int         `json:"timeCode"`
	ServiceStart    string      `json:"serviceStartDateTime"`
	ServiceEnd      string      `json:"serviceEndDateTime"`
	DurationMinutes int         `json:"duration"`
	Status          string      `json:"status"`
	Amount          float64     `json:"amount"`
	TravelFee       float64     `json:"travelFee"`
	ServiceType     string      `json:"serviceType"`
	ServiceLocation *[2]float64 `json:"serviceLocation,omitempty"`
	CreatedAt       string      `json:"createdAt"`
	UpdatedAt       string      `json:"updatedAt"`
}

// ToUseCaseRequest конвертирует HTTP запрос в модель use case
func (r *CreateReservationRequest) ToUseCaseRequest(customerID int64) (*createReservation.Request, error) {
	date, err := time.Parse(domain.DateFormat, r.Date)
	if err != nil {
		return nil, err
	}

	var location *geo.Point
	if r.ServiceLocation != nil {
		location = &geo.Point{Lon: r.ServiceLocation[0], Lat: r.ServiceLocation[1]}
	}

	return &createReservation.Request{
		CustomerID:     customerID,
		ProfessionalID: r.ProfessionalID,
		ServiceID:      r.ServiceID,
		Date:           date,
		Time:           r.Time,
		ServiceType:    r.ServiceType,
		Location:       location,
	}, nil
}

// FromUseCaseResponse конвертирует ответ use case в HTTP response
func FromUseCaseResponse(resp *createReservation.Response) *ReservationResponse {
	out := &ReservationResponse{
		ID:              resp.ID,
		ServiceID:       resp.ServiceID,
		ProfessionalID:  resp.ProfessionalID,
		CustomerID:      resp.CustomerID,
		Date:            resp.Date.Format(domain.DateFormat),
		Time:            resp.Time,
		TimeCode:        resp.TimeCode,
		ServiceStart:    resp.ServiceStart.Format(time.RFC3339),
		ServiceEnd:      resp.ServiceEnd.Format(time.RFC3339),
		DurationMinutes: resp.DurationMinutes,
		Status:          resp.Status,
		Amount:          resp.Amount,
		TravelFee:       resp.TravelFee,
		ServiceType:     resp.ServiceType,
		CreatedAt:       resp.CreatedAt.Format(time.RFC3339),
		UpdatedAt:       resp.UpdatedAt.Format(time.RFC3339),
	}
	if resp.Location != nil {
		out.ServiceLocation = &[2]float64{resp.Location.Lon, resp.Location.Lat}
	}
	return out
}
