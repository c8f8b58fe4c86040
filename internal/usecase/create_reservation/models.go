package create_reservation

import (
	"time"

	"github.com/m04kA/SMC-ReservationService/pkg/geo"
)

// Request модель запроса на создание брони
type Request struct {
	CustomerID     int64      // ID клиента (из заголовков аутентификации)
	ProfessionalID int64      // ID мастера
	ServiceID      int64      // ID услуги из каталога
	Date           time.Time  // Дата услуги (без времени)
	Time           string     // Время начала "h:mm am/pm"
	ServiceType    string     // "home" или "in-place"
	Location       *geo.Point // Геоточка клиента (обязательна для home)
}

// Response модель ответа с созданной бронью
type Response struct {
	ID              int64
	ServiceID       int64
	ProfessionalID  int64
	CustomerID      int64
	Date            time.Time
	Time            string
	TimeCode        int
	ServiceStart    time.Time
	ServiceEnd      time.Time
	DurationMinutes int
	Status          string
	Amount          float64
	TravelFee       float64
	ServiceType     string
	Location        *geo.Point
	CreatedAt       time.Time
	UpdatedAt       time.Time
}
