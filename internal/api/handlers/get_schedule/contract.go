package get_schedule

import (
	"context"

	"github.com/m04kA/SMC-ReservationService/internal/service/schedules/models"
)

type SchedulesService interface {
	GetByProfessional(ctx context.Context, professionalID int64) (*models.ScheduleResponse, error)
}

type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
