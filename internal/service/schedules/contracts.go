package schedules

import (
	"context"
	"time"

	"github.com/m04kA/SMC-ReservationService/internal/domain"
	"github.com/m04kA/SMC-ReservationService/internal/integrations/professionalservice"
	"github.com/m04kA/SMC-ReservationService/pkg/timecode"
)

// ScheduleRepository интерфейс репозитория расписаний
type ScheduleRepository interface {
	GetByProfessional(ctx context.Context, professionalID int64) (*domain.Schedule, error)
	CreateOrReplace(ctx context.Context, professionalID int64, days []domain.Day) (*domain.Schedule, bool, error)
	ReplaceDay(ctx context.Context, scheduleID int64, day domain.Day) error
	SetSlotDiscount(ctx context.Context, professionalID int64, weekday time.Weekday, code timecode.TimeCode, discount int) error
}

// ProfessionalServiceClient интерфейс клиента сервиса мастеров
type ProfessionalServiceClient interface {
	GetProfessional(ctx context.Context, professionalID int64) (*professionalservice.Professional, error)
	SetScheduleID(ctx context.Context, professionalID, scheduleID int64) error
}

// TransactionManager интерфейс для управления транзакциями
type TransactionManager interface {
	Do(ctx context.Context, fn func(ctx context.Context) error) error
}

// Logger интерфейс для логирования
type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
