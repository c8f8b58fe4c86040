package set_slot_discount

import (
	"context"

	"github.com/m04kA/SMC-ReservationService/internal/service/schedules/models"
)

type SchedulesService interface {
	SetSlotDiscount(ctx context.Context, req *models.SetSlotDiscountRequest) error
}

type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
