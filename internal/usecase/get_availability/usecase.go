package get_availability

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/m04kA/SMC-ReservationService/internal/domain"
	scheduleRepo "github.com/m04kA/SMC-ReservationService/internal/infra/storage/schedule"
)

// UseCase use case получения доступности слотов мастера
type UseCase struct {
	scheduleRepo    ScheduleRepository
	reservationRepo ReservationRepository
	timeProvider    TimeProvider
	location        *time.Location
	logger          Logger
}

// NewUseCase создает новый экземпляр use case
func NewUseCase(
	scheduleRepo ScheduleRepository,
	reservationRepo ReservationRepository,
	location *time.Location,
	logger Logger,
) *UseCase {
	return &UseCase{
		scheduleRepo:    scheduleRepo,
		reservationRepo: reservationRepo,
		timeProvider:    &RealTimeProvider{},
		location:        location,
		logger:          logger,
	}
}

// Execute вычисляет реализованную доступность слотов
// Если дата не указана, возвращаются все настроенные дни недели, каждый
// на ближайшую календарную дату своего дня недели
func (uc *UseCase) Execute(ctx context.Context, req *Request) (*Response, error) {
	uc.logger.Info("GetAvailability: professional=%d, date=%v, customer=%v, duration=%v",
		req.ProfessionalID, req.Date, req.CustomerID, req.DurationMinutes)

	if req.ProfessionalID <= 0 {
		return nil, fmt.Errorf("%w: professionalId is required", ErrInvalidInput)
	}
	if req.DurationMinutes != nil && *req.DurationMinutes <= 0 {
		return nil, fmt.Errorf("%w: durationMinutes must be positive", ErrInvalidInput)
	}

	schedule, err := uc.scheduleRepo.GetByProfessional(ctx, req.ProfessionalID)
	if err != nil {
		if errors.Is(err, scheduleRepo.ErrScheduleNotFound) {
			uc.logger.Warn("GetAvailability: professional=%d has no schedule", req.ProfessionalID)
			return nil, ErrScheduleNotFound
		}
		uc.logger.Error("GetAvailability: repository error for professional=%d: %v", req.ProfessionalID, err)
		return nil, fmt.Errorf("%w: failed to get schedule: %v", ErrInternal, err)
	}

	// Удерживаемые клиентом брони (pending/confirmed) исключают повторную
	// самобронь слота, начинающегося ровно в тот же инстант
	var held []*domain.Reservation
	if req.CustomerID != nil {
		held, err = uc.reservationRepo.GetByCustomer(ctx, *req.CustomerID, nil, domain.HeldStatuses)
		if err != nil {
			uc.logger.Error("GetAvailability: failed to get held reservations for customer=%d: %v",
				*req.CustomerID, err)
			return nil, fmt.Errorf("%w: failed to get customer reservations: %v", ErrInternal, err)
		}
	}

	now := uc.timeProvider.Now().In(uc.location)

	resp := &Response{ProfessionalID: req.ProfessionalID}
	if req.Date != nil {
		// Запрошен конкретный день: ненастроенный день недели - пустой список, не ошибка.
		// День недели берём из календарных компонент даты, не конвертируя её
		// в операционную зону: дата приходит полуночью UTC, и в зоне с
		// отрицательным смещением конвертация сдвинула бы её на день назад
		day := schedule.DayByWeekday(req.Date.Weekday())
		if day != nil {
			resp.Days = append(resp.Days, uc.resolveDay(day, *req.Date, now, held, req.DurationMinutes))
		}
		return resp, nil
	}

	for i := range schedule.Days {
		day := &schedule.Days[i]
		date := nextOccurrence(now, day.Weekday)
		resp.Days = append(resp.Days, uc.resolveDay(day, date, now, held, req.DurationMinutes))
	}
	return resp, nil
}

// nextOccurrence возвращает ближайшую дату (сегодня включительно) с данным днём недели
func nextOccurrence(now time.Time, wd time.Weekday) time.Time {
	offset := (int(wd) - int(now.Weekday()) + 7) % 7
	y, m, d := now.AddDate(0, 0, offset).Date()
	return time.Date(y, m, d, 0, 0, 0, 0, now.Location())
}
