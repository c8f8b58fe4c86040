package create_reservation

import (
	"fmt"
	"math"

	"github.com/m04kA/SMC-ReservationService/internal/domain"
	"github.com/m04kA/SMC-ReservationService/internal/integrations/professionalservice"
	"github.com/m04kA/SMC-ReservationService/pkg/geo"
)

// validateRequest проверяет форму запроса до обращений к внешним сервисам
func validateRequest(req *Request) error {
	if req.CustomerID <= 0 {
		return fmt.Errorf("%w: customerId is required", ErrInvalidInput)
	}
	if req.ProfessionalID <= 0 {
		return fmt.Errorf("%w: professionalId is required", ErrInvalidInput)
	}
	if req.ServiceID <= 0 {
		return fmt.Errorf("%w: serviceId is required", ErrInvalidInput)
	}
	if req.Date.IsZero() {
		return fmt.Errorf("%w: date is required", ErrInvalidInput)
	}
	if req.Time == "" {
		return fmt.Errorf("%w: time is required", ErrInvalidInput)
	}

	switch domain.ServiceType(req.ServiceType) {
	case domain.ServiceTypeHome:
		if req.Location == nil {
			return fmt.Errorf("%w: serviceLocation is required for home service", ErrInvalidInput)
		}
	case domain.ServiceTypeInPlace:
	default:
		return fmt.Errorf("%w: serviceType must be %q or %q",
			ErrInvalidInput, domain.ServiceTypeHome, domain.ServiceTypeInPlace)
	}
	return nil
}

// countOverlapping считает блокирующие брони, пересекающиеся с кандидатом
// (полуоткрытые интервалы: брони "впритык" не пересекаются)
func countOverlapping(candidate domain.Interval, existing []*domain.Reservation) int {
	count := 0
	for _, r := range existing {
		if r.Interval().Overlaps(candidate) {
			count++
		}
	}
	return count
}

// travelFee считает плату за выезд фрилансера к клиенту на home-услугу:
// Fee за каждый километр сверх включённой дистанции, 0 в остальных случаях.
// Услуга в салоне выезда не требует, даже если клиент указал координаты
func travelFee(professional *professionalservice.Professional, customerLocation *geo.Point, serviceType domain.ServiceType) float64 {
	if serviceType != domain.ServiceTypeHome {
		return 0
	}
	if !professional.IsFreelancer || customerLocation == nil || len(professional.Location) < 2 {
		return 0
	}
	from := geo.Point{Lon: professional.Location[0], Lat: professional.Location[1]}
	dist := geo.DistanceKm(from, *customerLocation)
	if dist <= professional.TravelFee.Distance {
		return 0
	}
	return math.Round((dist-professional.TravelFee.Distance)*professional.TravelFee.Fee*100) / 100
}

// reservationAmount считает стоимость услуги с учётом скидки слота
func reservationAmount(price float64, discount *int) float64 {
	if discount == nil || *discount <= 0 {
		return price
	}
	return math.Round(price*float64(100-*discount)) / 100
}
