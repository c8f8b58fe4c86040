package update_schedule_days

import (
	"context"

	"github.com/m04kA/SMC-ReservationService/internal/service/schedules/models"
)

type SchedulesService interface {
	UpdateDays(ctx context.Context, req *models.UpdateDaysRequest) (*models.ScheduleResponse, error)
}

type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
