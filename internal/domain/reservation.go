package domain

import (
	"time"

	"github.com/m04kA/SMC-ReservationService/pkg/geo"
	"github.com/m04kA/SMC-ReservationService/pkg/timecode"
)

// ReservationStatus represents the lifecycle status of a reservation.
type ReservationStatus string

const (
	StatusPending                 ReservationStatus = "pending"
	StatusConfirmed               ReservationStatus = "confirmed"
	StatusStarted                 ReservationStatus = "started"
	StatusCompleted               ReservationStatus = "completed"
	StatusRejected                ReservationStatus = "rejected"
	StatusCancelledByClient       ReservationStatus = "cancelled_by_client"
	StatusCancelledByProfessional ReservationStatus = "cancelled_by_professional"
)

// ServiceType is where the service is rendered.
type ServiceType string

const (
	ServiceTypeHome    ServiceType = "home"     // выезд к клиенту
	ServiceTypeInPlace ServiceType = "in-place" // в салоне мастера
)

// ActorRole is the authenticated caller's role as supplied by the identity
// collaborator. The core trusts it and only enforces ownership checks.
type ActorRole string

const (
	RoleCustomer     ActorRole = "customer"
	RoleProfessional ActorRole = "professional"
	RoleAdmin        ActorRole = "admin"
	// RoleSystem помечает переходы, инициированные фоновым проходом
	RoleSystem ActorRole = "system"
)

// Reservation represents a time-bound booking of a professional's service.
type Reservation struct {
	ID             int64
	ServiceID      int64
	ProfessionalID int64
	CustomerID     int64

	// Date календарная дата услуги (без времени)
	Date time.Time
	// Time исходная строка времени "h:mm am/pm" (сохраняется для отображения)
	Time string
	// TimeCode числовой ключ HHMM, производный от Time
	TimeCode timecode.TimeCode

	// ServiceStart/ServiceEnd абсолютные инстанты начала и конца услуги,
	// вычисленные в операционной тайм-зоне; ServiceEnd = ServiceStart + Duration
	ServiceStart time.Time
	ServiceEnd   time.Time

	DurationMinutes int
	Status          ReservationStatus

	Amount    float64
	TravelFee float64

	ServiceType     ServiceType
	ServiceLocation *geo.Point

	// IsStarted выставляется при переходе confirmed -> started
	IsStarted bool
	// Notified выставляется после отправки напоминания за N минут до начала
	Notified bool

	CreatedAt time.Time
	UpdatedAt time.Time
}

// Interval is a half-open time interval [Start, End).
type Interval struct {
	Start time.Time
	End   time.Time
}

// Overlaps reports whether two half-open intervals intersect.
// Back-to-back intervals (End of one == Start of the other) do not overlap.
func (i Interval) Overlaps(o Interval) bool {
	return i.Start.Before(o.End) && o.Start.Before(i.End)
}

// IsEmpty reports whether the interval contains no instants.
func (i Interval) IsEmpty() bool {
	return !i.Start.Before(i.End)
}

// Interval returns the reservation's service interval.
func (r *Reservation) Interval() Interval {
	return Interval{Start: r.ServiceStart, End: r.ServiceEnd}
}

// IsBlocking reports whether the reservation occupies capacity
// (only confirmed and started reservations block a slot).
func (r *Reservation) IsBlocking() bool {
	return r.Status == StatusConfirmed || r.Status == StatusStarted
}

// IsTerminal reports whether the reservation reached a final status.
func (r *Reservation) IsTerminal() bool {
	switch r.Status {
	case StatusCompleted, StatusRejected, StatusCancelledByClient, StatusCancelledByProfessional:
		return true
	}
	return false
}

// BlockingStatuses статусы, занимающие ёмкость мастера
var BlockingStatuses = []ReservationStatus{
	StatusConfirmed,
	StatusStarted,
}

// HeldStatuses статусы, при которых клиент считается удерживающим слот
// (используется резолвером доступности для исключения повторной брони)
var HeldStatuses = []ReservationStatus{
	StatusPending,
	StatusConfirmed,
}

// ProfessionalReservationsFilter фильтр выборки броней мастера
type ProfessionalReservationsFilter struct {
	ProfessionalID int64
	Date           *time.Time          // конкретная дата (опционально)
	Statuses       []ReservationStatus // фильтр по статусам (опционально)
	ExcludeID      *int64              // исключить бронь (при обновлении)
}
