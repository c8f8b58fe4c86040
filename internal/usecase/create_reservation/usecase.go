package create_reservation

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/m04kA/SMC-ReservationService/internal/domain"
	scheduleRepo "github.com/m04kA/SMC-ReservationService/internal/infra/storage/schedule"
	catalogClient "github.com/m04kA/SMC-ReservationService/internal/integrations/catalogservice"
	"github.com/m04kA/SMC-ReservationService/internal/integrations/notifyservice"
	professionalClient "github.com/m04kA/SMC-ReservationService/internal/integrations/professionalservice"
	"github.com/m04kA/SMC-ReservationService/pkg/timecode"
)

// UseCase use case создания брони
type UseCase struct {
	reservationRepo    ReservationRepository
	scheduleRepo       ScheduleRepository
	catalogClient      CatalogServiceClient
	professionalClient ProfessionalServiceClient
	notifyClient       NotifyServiceClient
	txManager          TransactionManager
	timeProvider       TimeProvider
	location           *time.Location
	logger             Logger
}

// NewUseCase создает новый экземпляр use case
func NewUseCase(
	reservationRepo ReservationRepository,
	scheduleRepo ScheduleRepository,
	catalogClient CatalogServiceClient,
	professionalClient ProfessionalServiceClient,
	notifyClient NotifyServiceClient,
	txManager TransactionManager,
	location *time.Location,
	logger Logger,
) *UseCase {
	return &UseCase{
		reservationRepo:    reservationRepo,
		scheduleRepo:       scheduleRepo,
		catalogClient:      catalogClient,
		professionalClient: professionalClient,
		notifyClient:       notifyClient,
		txManager:          txManager,
		timeProvider:       &RealTimeProvider{},
		location:           location,
		logger:             logger,
	}
}

// Execute выполняет создание брони
// Проверка ёмкости и запись выполняются в сериализуемой транзакции,
// чтобы исключить гонку check-then-act при конкурентных бронированиях
func (uc *UseCase) Execute(ctx context.Context, req *Request) (*Response, error) {
	uc.logger.Info("CreateReservation: customer=%d, professional=%d, service=%d, date=%s, time=%s",
		req.CustomerID, req.ProfessionalID, req.ServiceID, req.Date.Format(domain.DateFormat), req.Time)

	// 1. Валидация входных данных
	if err := validateRequest(req); err != nil {
		uc.logger.Warn("CreateReservation: validation failed: %v", err)
		return nil, err
	}

	// 2. Парсим время начала
	code, err := timecode.Parse(req.Time)
	if err != nil {
		uc.logger.Warn("CreateReservation: invalid time %q: %v", req.Time, err)
		return nil, fmt.Errorf("%w: %v", ErrInvalidInput, err)
	}

	now := uc.timeProvider.Now().In(uc.location)

	// 3. Получаем услугу из каталога
	service, err := uc.catalogClient.GetService(ctx, req.ServiceID)
	if err != nil {
		if errors.Is(err, catalogClient.ErrServiceNotFound) {
			uc.logger.Warn("CreateReservation: service id=%d not found", req.ServiceID)
			return nil, ErrServiceNotFound
		}
		uc.logger.Error("CreateReservation: failed to get service id=%d: %v", req.ServiceID, err)
		return nil, fmt.Errorf("%w: failed to get service: %v", ErrInternal, err)
	}
	if service.DurationMinutes < domain.MinDurationMinutes || service.DurationMinutes > domain.MaxDurationMinutes {
		uc.logger.Warn("CreateReservation: service id=%d has invalid duration=%d", req.ServiceID, service.DurationMinutes)
		return nil, fmt.Errorf("%w: service duration %d minutes is out of range", ErrInvalidInput, service.DurationMinutes)
	}

	// 4. Получаем профиль ёмкости мастера
	professional, err := uc.professionalClient.GetProfessional(ctx, req.ProfessionalID)
	if err != nil {
		if errors.Is(err, professionalClient.ErrProfessionalNotFound) {
			uc.logger.Warn("CreateReservation: professional id=%d not found", req.ProfessionalID)
			return nil, ErrProfessionalNotFound
		}
		uc.logger.Error("CreateReservation: failed to get professional id=%d: %v", req.ProfessionalID, err)
		return nil, fmt.Errorf("%w: failed to get professional: %v", ErrInternal, err)
	}
	if !professional.IsActive {
		uc.logger.Warn("CreateReservation: professional id=%d is not active", req.ProfessionalID)
		return nil, ErrProfessionalInactive
	}

	// 5. Вычисляем абсолютные инстанты начала и конца в операционной тайм-зоне
	serviceStart := code.ToInstant(req.Date, uc.location)
	serviceEnd := serviceStart.Add(time.Duration(service.DurationMinutes) * time.Minute)
	if !serviceStart.After(now) {
		uc.logger.Warn("CreateReservation: start %s is in the past", serviceStart)
		return nil, ErrTimeInPast
	}

	var result *domain.Reservation

	// 6. Проверка ёмкости и создание в одной сериализуемой транзакции
	err = uc.txManager.DoSerializable(ctx, func(txCtx context.Context) error {
		// 6.1. Расписание и рабочие часы на этот день недели
		schedule, err := uc.scheduleRepo.GetByProfessional(txCtx, req.ProfessionalID)
		if err != nil {
			if errors.Is(err, scheduleRepo.ErrScheduleNotFound) {
				uc.logger.Warn("CreateReservation: professional id=%d has no schedule", req.ProfessionalID)
				return ErrScheduleNotFound
			}
			return fmt.Errorf("%w: failed to get schedule: %v", ErrInternal, err)
		}

		day := schedule.DayByWeekday(serviceStart.Weekday())
		if day == nil {
			uc.logger.Warn("CreateReservation: professional id=%d does not operate on %s",
				req.ProfessionalID, serviceStart.Weekday())
			return ErrOutsideOperatingHours
		}

		endCode, err := code.AddMinutes(service.DurationMinutes)
		if err != nil || code < day.StartCode || endCode > day.EndCode {
			uc.logger.Warn("CreateReservation: interval [%s +%dmin) leaves operating hours of %s",
				req.Time, service.DurationMinutes, domain.WeekdayName(day.Weekday))
			return ErrOutsideOperatingHours
		}

		slot := day.SlotByCode(code)
		if slot == nil {
			uc.logger.Warn("CreateReservation: no slot at code=%d on %s", code, domain.WeekdayName(day.Weekday))
			return ErrOutsideOperatingHours
		}
		if !slot.IsAvailable {
			uc.logger.Warn("CreateReservation: slot code=%d on %s is closed", code, domain.WeekdayName(day.Weekday))
			return ErrSchedulingConflict
		}

		// 6.2. Блокирующие брони на эту дату (FOR UPDATE внутри транзакции)
		existing, err := uc.reservationRepo.GetByProfessionalWithFilter(txCtx, domain.ProfessionalReservationsFilter{
			ProfessionalID: req.ProfessionalID,
			Date:           &req.Date,
			Statuses:       domain.BlockingStatuses,
		})
		if err != nil {
			return fmt.Errorf("%w: failed to get reservations: %v", ErrInternal, err)
		}

		// 6.3. Проверка ёмкости на интервале кандидата
		capacity := professional.Capacity()
		overlapping := countOverlapping(domain.Interval{Start: serviceStart, End: serviceEnd}, existing)
		if overlapping >= capacity {
			uc.logger.Warn("CreateReservation: capacity exhausted for professional=%d, %d/%d overlapping",
				req.ProfessionalID, overlapping, capacity)
			return ErrSchedulingConflict
		}

		// 6.4. Создаем бронь в статусе pending
		// Слот остаётся открытым: ёмкость занимают только confirmed/started
		res := &domain.Reservation{
			ServiceID:       req.ServiceID,
			ProfessionalID:  req.ProfessionalID,
			CustomerID:      req.CustomerID,
			Date:            req.Date,
			Time:            req.Time,
			TimeCode:        code,
			ServiceStart:    serviceStart,
			ServiceEnd:      serviceEnd,
			DurationMinutes: service.DurationMinutes,
			Status:          domain.StatusPending,
			Amount:          reservationAmount(service.Price, slot.Discount),
			TravelFee:       travelFee(professional, req.Location, domain.ServiceType(req.ServiceType)),
			ServiceType:     domain.ServiceType(req.ServiceType),
			ServiceLocation: req.Location,
		}
		result, err = uc.reservationRepo.Create(txCtx, res)
		if err != nil {
			return fmt.Errorf("%w: failed to create reservation: %v", ErrInternal, err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	uc.logger.Info("CreateReservation: created reservation id=%d (pending) for professional=%d",
		result.ID, req.ProfessionalID)

	// 7. Уведомляем мастера после коммита, fire-and-forget
	uc.notifyClient.Notify(ctx, req.ProfessionalID, "New reservation request",
		fmt.Sprintf("Reservation #%d on %s at %s is waiting for confirmation",
			result.ID, result.Date.Format(domain.DateFormat), result.Time),
		notifyservice.KindReservationCreated)

	return toResponse(result), nil
}

func toResponse(r *domain.Reservation) *Response {
	return &Response{
		ID:              r.ID,
		ServiceID:       r.ServiceID,
		ProfessionalID:  r.ProfessionalID,
		CustomerID:      r.CustomerID,
		Date:            r.Date,
		Time:            r.Time,
		TimeCode:        int(r.TimeCode),
		ServiceStart:    r.ServiceStart,
		ServiceEnd:      r.ServiceEnd,
		DurationMinutes: r.DurationMinutes,
		Status:          string(r.Status),
		Amount:          r.Amount,
		TravelFee:       r.TravelFee,
		ServiceType:     string(r.ServiceType),
		Location:        r.ServiceLocation,
		CreatedAt:       r.CreatedAt,
		UpdatedAt:       r.UpdatedAt,
	}
}
