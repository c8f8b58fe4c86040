package change_status

import (
	"time"

	"github.com/m04kA/SMC-ReservationService/internal/domain"
)

// Request модель запроса на смену статуса брони
type Request struct {
	ReservationID int64
	ActorID       int64
	ActorRole     domain.ActorRole
	TargetStatus  string
	// Amount итоговая стоимость, опционально уточняется мастером при подтверждении
	Amount *float64
}

// Response модель ответа со сменённым статусом
type Response struct {
	ID        int64     `json:"id"`
	Status    string    `json:"status"`
	Message   string    `json:"message"`
	UpdatedAt time.Time `json:"updatedAt"`
}
