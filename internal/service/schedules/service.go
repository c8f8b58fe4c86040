package schedules

import (
	"context"
	"errors"
	"fmt"

	"github.com/m04kA/SMC-ReservationService/internal/domain"
	scheduleRepo "github.com/m04kA/SMC-ReservationService/internal/infra/storage/schedule"
	professionalClient "github.com/m04kA/SMC-ReservationService/internal/integrations/professionalservice"
	"github.com/m04kA/SMC-ReservationService/internal/service/schedules/models"
	"github.com/m04kA/SMC-ReservationService/pkg/timecode"
)

// Service сервис для работы с расписаниями мастеров
type Service struct {
	scheduleRepo       ScheduleRepository
	professionalClient ProfessionalServiceClient
	txManager          TransactionManager
	logger             Logger
}

// NewService создает новый экземпляр сервиса расписаний
func NewService(
	scheduleRepo ScheduleRepository,
	professionalClient ProfessionalServiceClient,
	txManager TransactionManager,
	logger Logger,
) *Service {
	return &Service{
		scheduleRepo:       scheduleRepo,
		professionalClient: professionalClient,
		txManager:          txManager,
		logger:             logger,
	}
}

// Upsert создает или полностью заменяет расписание мастера
// Дни с active=false отбрасываются; слоты дедуплицируются по time code
// (первое вхождение выигрывает); слоты вне рабочих часов дня отбрасываются
func (s *Service) Upsert(ctx context.Context, req *models.UpsertScheduleRequest) (*models.ScheduleResponse, error) {
	s.logger.Info("Upsert: replacing schedule for professional=%d by user=%d", req.ProfessionalID, req.UserID)

	if err := s.checkAccess(req.UserID, req.Role, req.ProfessionalID); err != nil {
		s.logger.Warn("Upsert: access denied for user=%d to professional=%d", req.UserID, req.ProfessionalID)
		return nil, err
	}

	// 1. Проверяем существование мастера
	professional, err := s.professionalClient.GetProfessional(ctx, req.ProfessionalID)
	if err != nil {
		if errors.Is(err, professionalClient.ErrProfessionalNotFound) {
			s.logger.Warn("Upsert: professional id=%d not found", req.ProfessionalID)
			return nil, ErrProfessionalNotFound
		}
		s.logger.Error("Upsert: failed to get professional id=%d: %v", req.ProfessionalID, err)
		return nil, fmt.Errorf("%w: failed to get professional: %v", ErrInternal, err)
	}

	// 2. Собираем доменные дни только из активных дней запроса
	days := make([]domain.Day, 0, len(req.Days))
	for _, in := range req.Days {
		if !in.Active {
			continue
		}
		day, err := buildDay(&in)
		if err != nil {
			s.logger.Warn("Upsert: invalid day %q for professional=%d: %v", in.Day, req.ProfessionalID, err)
			return nil, err
		}
		days = append(days, *day)
	}
	if len(days) == 0 {
		s.logger.Warn("Upsert: no active days in request for professional=%d", req.ProfessionalID)
		return nil, fmt.Errorf("%w: schedule must contain at least one active day", ErrInvalidInput)
	}

	// 3. Сохраняем расписание (полная замена)
	schedule, created, err := s.scheduleRepo.CreateOrReplace(ctx, req.ProfessionalID, days)
	if err != nil {
		s.logger.Error("Upsert: repository error for professional=%d: %v", req.ProfessionalID, err)
		return nil, fmt.Errorf("%w: Upsert - repository error: %v", ErrInternal, err)
	}

	// 4. При первом создании проставляем мастеру обратную ссылку на расписание.
	// Ошибка обратной ссылки не откатывает расписание: ссылка восстановима.
	if created && professional.ScheduleID == nil {
		if err := s.professionalClient.SetScheduleID(ctx, req.ProfessionalID, schedule.ID); err != nil {
			s.logger.Warn("Upsert: failed to set schedule backref for professional=%d: %v", req.ProfessionalID, err)
		}
	}

	s.logger.Info("Upsert: successfully saved schedule id=%d for professional=%d (created=%t)",
		schedule.ID, req.ProfessionalID, created)
	return models.FromDomainSchedule(schedule), nil
}

// UpdateDays частично обновляет дни существующего расписания
// Обновляются только переданные поля дня; слоты заменяются целиком, если переданы
func (s *Service) UpdateDays(ctx context.Context, req *models.UpdateDaysRequest) (*models.ScheduleResponse, error) {
	s.logger.Info("UpdateDays: updating %d day(s) for professional=%d by user=%d",
		len(req.Days), req.ProfessionalID, req.UserID)

	if err := s.checkAccess(req.UserID, req.Role, req.ProfessionalID); err != nil {
		s.logger.Warn("UpdateDays: access denied for user=%d to professional=%d", req.UserID, req.ProfessionalID)
		return nil, err
	}

	if len(req.Days) == 0 {
		return nil, fmt.Errorf("%w: no days to update", ErrInvalidInput)
	}

	schedule, err := s.scheduleRepo.GetByProfessional(ctx, req.ProfessionalID)
	if err != nil {
		if errors.Is(err, scheduleRepo.ErrScheduleNotFound) {
			s.logger.Warn("UpdateDays: professional=%d has no schedule", req.ProfessionalID)
			return nil, ErrScheduleNotFound
		}
		s.logger.Error("UpdateDays: repository error for professional=%d: %v", req.ProfessionalID, err)
		return nil, fmt.Errorf("%w: UpdateDays - repository error: %v", ErrInternal, err)
	}

	// Собираем обновлённые дни до записи, чтобы не применять обновление частично
	updated := make([]domain.Day, 0, len(req.Days))
	for _, in := range req.Days {
		wd, err := domain.ParseWeekday(in.Day)
		if err != nil {
			return nil, fmt.Errorf("%w: %v", ErrInvalidInput, err)
		}
		existing := schedule.DayByWeekday(wd)
		if existing == nil {
			s.logger.Warn("UpdateDays: day %q is not part of schedule id=%d", in.Day, schedule.ID)
			return nil, ErrDayNotFound
		}

		day := *existing
		if in.StartTime != nil {
			day.StartTime = *in.StartTime
		}
		if in.EndTime != nil {
			day.EndTime = *in.EndTime
		}
		startCode, endCode, err := parseDayBounds(day.StartTime, day.EndTime)
		if err != nil {
			return nil, err
		}
		day.StartCode = startCode
		day.EndCode = endCode

		if in.TimeSlots != nil {
			slots, err := buildSlots(*in.TimeSlots, startCode, endCode)
			if err != nil {
				return nil, err
			}
			if len(slots) == 0 {
				return nil, fmt.Errorf("%w: day %q has no valid slots", ErrInvalidInput, in.Day)
			}
			day.Slots = slots
		} else {
			// Границы дня могли сузиться - отфильтровываем выпавшие слоты
			kept := make([]domain.TimeSlot, 0, len(day.Slots))
			for _, slot := range day.Slots {
				if slot.TimeCode >= startCode && slot.TimeCode < endCode {
					kept = append(kept, slot)
				}
			}
			if len(kept) == 0 {
				return nil, fmt.Errorf("%w: day %q has no slots within new operating hours", ErrInvalidInput, in.Day)
			}
			day.Slots = kept
		}
		updated = append(updated, day)
	}

	// Все дни заменяются в одной транзакции
	err = s.txManager.Do(ctx, func(txCtx context.Context) error {
		for i := range updated {
			if err := s.scheduleRepo.ReplaceDay(txCtx, schedule.ID, updated[i]); err != nil {
				return fmt.Errorf("%w: UpdateDays - replace day: %v", ErrInternal, err)
			}
		}
		return nil
	})
	if err != nil {
		s.logger.Error("UpdateDays: transaction failed for schedule id=%d: %v", schedule.ID, err)
		return nil, err
	}

	result, err := s.scheduleRepo.GetByProfessional(ctx, req.ProfessionalID)
	if err != nil {
		s.logger.Error("UpdateDays: failed to reload schedule id=%d: %v", schedule.ID, err)
		return nil, fmt.Errorf("%w: UpdateDays - reload error: %v", ErrInternal, err)
	}

	s.logger.Info("UpdateDays: successfully updated schedule id=%d for professional=%d", schedule.ID, req.ProfessionalID)
	return models.FromDomainSchedule(result), nil
}

// SetSlotDiscount устанавливает скидку на слот расписания
func (s *Service) SetSlotDiscount(ctx context.Context, req *models.SetSlotDiscountRequest) error {
	s.logger.Info("SetSlotDiscount: professional=%d, day=%s, timeCode=%d, discount=%d by user=%d",
		req.ProfessionalID, req.Day, req.TimeCode, req.Discount, req.UserID)

	if err := s.checkAccess(req.UserID, req.Role, req.ProfessionalID); err != nil {
		s.logger.Warn("SetSlotDiscount: access denied for user=%d to professional=%d", req.UserID, req.ProfessionalID)
		return err
	}

	if req.Discount < domain.MinDiscountPercent || req.Discount > domain.MaxDiscountPercent {
		s.logger.Warn("SetSlotDiscount: discount=%d out of range", req.Discount)
		return fmt.Errorf("%w: discount must be between %d and %d",
			ErrInvalidInput, domain.MinDiscountPercent, domain.MaxDiscountPercent)
	}

	wd, err := domain.ParseWeekday(req.Day)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidInput, err)
	}
	code, err := timecode.New(req.TimeCode)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidInput, err)
	}

	if err := s.scheduleRepo.SetSlotDiscount(ctx, req.ProfessionalID, wd, code, req.Discount); err != nil {
		switch {
		case errors.Is(err, scheduleRepo.ErrScheduleNotFound):
			return ErrScheduleNotFound
		case errors.Is(err, scheduleRepo.ErrSlotNotFound):
			s.logger.Warn("SetSlotDiscount: slot day=%s code=%d not found for professional=%d",
				req.Day, req.TimeCode, req.ProfessionalID)
			return ErrSlotNotFound
		default:
			s.logger.Error("SetSlotDiscount: repository error: %v", err)
			return fmt.Errorf("%w: SetSlotDiscount - repository error: %v", ErrInternal, err)
		}
	}

	s.logger.Info("SetSlotDiscount: successfully set discount for professional=%d, day=%s, timeCode=%d",
		req.ProfessionalID, req.Day, req.TimeCode)
	return nil
}

// GetByProfessional возвращает расписание мастера
// Публичный метод - доступен всем
func (s *Service) GetByProfessional(ctx context.Context, professionalID int64) (*models.ScheduleResponse, error) {
	schedule, err := s.scheduleRepo.GetByProfessional(ctx, professionalID)
	if err != nil {
		if errors.Is(err, scheduleRepo.ErrScheduleNotFound) {
			return nil, ErrScheduleNotFound
		}
		s.logger.Error("GetByProfessional: repository error for professional=%d: %v", professionalID, err)
		return nil, fmt.Errorf("%w: GetByProfessional - repository error: %v", ErrInternal, err)
	}
	return models.FromDomainSchedule(schedule), nil
}

// checkAccess проверяет, что расписание меняет сам мастер или админ
func (s *Service) checkAccess(userID int64, role domain.ActorRole, professionalID int64) error {
	if role == domain.RoleAdmin {
		return nil
	}
	if role == domain.RoleProfessional && userID == professionalID {
		return nil
	}
	return ErrAccessDenied
}

// buildDay конвертирует активный день запроса в доменный день
func buildDay(in *models.DayInput) (*domain.Day, error) {
	wd, err := domain.ParseWeekday(in.Day)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidInput, err)
	}
	if in.StartTime == "" || in.EndTime == "" {
		return nil, fmt.Errorf("%w: day %q: startTime and endTime are required for an active day", ErrInvalidInput, in.Day)
	}
	startCode, endCode, err := parseDayBounds(in.StartTime, in.EndTime)
	if err != nil {
		return nil, err
	}

	slots, err := buildSlots(in.TimeSlots, startCode, endCode)
	if err != nil {
		return nil, err
	}
	if len(slots) == 0 {
		return nil, fmt.Errorf("%w: day %q has no valid slots", ErrInvalidInput, in.Day)
	}

	return &domain.Day{
		Weekday:   wd,
		StartTime: in.StartTime,
		EndTime:   in.EndTime,
		StartCode: startCode,
		EndCode:   endCode,
		Slots:     slots,
	}, nil
}

// parseDayBounds парсит рабочие часы дня в time codes
// Окончание ровно в полночь кодируется как 2400, чтобы сравнения [start, end) работали
func parseDayBounds(startTime, endTime string) (timecode.TimeCode, timecode.TimeCode, error) {
	startCode, err := timecode.Parse(startTime)
	if err != nil {
		return 0, 0, fmt.Errorf("%w: invalid startTime %q: %v", ErrInvalidInput, startTime, err)
	}
	endCode, err := timecode.Parse(endTime)
	if err != nil {
		return 0, 0, fmt.Errorf("%w: invalid endTime %q: %v", ErrInvalidInput, endTime, err)
	}
	if endCode == 0 {
		endCode = timecode.EndOfDay
	}
	if endCode <= startCode {
		return 0, 0, fmt.Errorf("%w: endTime %q must be after startTime %q", ErrInvalidInput, endTime, startTime)
	}
	return startCode, endCode, nil
}

// buildSlots собирает слоты дня: вычисляет отсутствующие time codes,
// отбрасывает слоты с нечитаемым временем и вне рабочих часов, дедуплицирует
func buildSlots(in []models.SlotInput, startCode, endCode timecode.TimeCode) ([]domain.TimeSlot, error) {
	slots := make([]domain.TimeSlot, 0, len(in))
	for _, si := range in {
		var (
			code timecode.TimeCode
			err  error
		)
		display := si.Time
		switch {
		case si.Time != "":
			code, err = timecode.Parse(si.Time)
			if err != nil {
				// Нечитаемое время - слот отбрасывается, а не валит весь запрос
				continue
			}
		case si.TimeCode != nil:
			code, err = timecode.New(*si.TimeCode)
			if err != nil {
				continue
			}
			display = code.String()
		default:
			continue
		}

		if code < startCode || code >= endCode {
			continue
		}

		if si.Discount != nil && (*si.Discount < domain.MinDiscountPercent || *si.Discount > domain.MaxDiscountPercent) {
			return nil, fmt.Errorf("%w: slot %q: discount must be between %d and %d",
				ErrInvalidInput, display, domain.MinDiscountPercent, domain.MaxDiscountPercent)
		}

		available := true
		if si.IsAvailable != nil {
			available = *si.IsAvailable
		}
		slots = append(slots, domain.TimeSlot{
			Time:        display,
			TimeCode:    code,
			IsAvailable: available,
			Discount:    si.Discount,
		})
	}
	return domain.DedupSlots(slots), nil
}
