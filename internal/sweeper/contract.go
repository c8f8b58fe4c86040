package sweeper

import (
	"context"
	"time"

	"github.com/m04kA/SMC-ReservationService/internal/domain"
	"github.com/m04kA/SMC-ReservationService/internal/integrations/notifyservice"
	"github.com/m04kA/SMC-ReservationService/pkg/timecode"
)

// ReservationRepository интерфейс репозитория броней
type ReservationRepository interface {
	GetBracketing(ctx context.Context, from, to time.Time) ([]*domain.Reservation, error)
	UpdateStatus(ctx context.Context, id int64, status domain.ReservationStatus) error
	MarkNotified(ctx context.Context, id int64) error
}

// ScheduleRepository интерфейс репозитория расписаний
type ScheduleRepository interface {
	SetSlotAvailabilityRange(ctx context.Context, professionalID int64, weekday time.Weekday, fromCode, toCode timecode.TimeCode, available bool) error
}

// NotifyServiceClient интерфейс клиента отправки уведомлений
type NotifyServiceClient interface {
	Notify(ctx context.Context, recipientID int64, title, message string, kind notifyservice.Kind)
}

// TransactionManager интерфейс для управления транзакциями
type TransactionManager interface {
	DoSerializable(ctx context.Context, fn func(ctx context.Context) error) error
}

// Metrics интерфейс счётчиков фонового прохода
type Metrics interface {
	ObserveSweep(err error, d time.Duration)
	IncSweepTransition(transition string)
	IncSweepReminder()
}

// TimeProvider интерфейс для получения текущего времени (для тестирования)
type TimeProvider interface {
	Now() time.Time
}

// Logger интерфейс для логирования
type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}

// RealTimeProvider реальный провайдер времени для production
type RealTimeProvider struct{}

// Now возвращает текущее время
func (p *RealTimeProvider) Now() time.Time {
	return time.Now()
}
