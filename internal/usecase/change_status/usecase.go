package change_status

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/m04kA/SMC-ReservationService/internal/domain"
	reservationRepo "github.com/m04kA/SMC-ReservationService/internal/infra/storage/reservation"
	"github.com/m04kA/SMC-ReservationService/internal/integrations/notifyservice"
	professionalClient "github.com/m04kA/SMC-ReservationService/internal/integrations/professionalservice"
)

// UseCase use case смены статуса брони
type UseCase struct {
	reservationRepo    ReservationRepository
	scheduleRepo       ScheduleRepository
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
	professionalClient ProfessionalServiceClient,
	notifyClient NotifyServiceClient,
	txManager TransactionManager,
	location *time.Location,
	logger Logger,
) *UseCase {
	return &UseCase{
		reservationRepo:    reservationRepo,
		scheduleRepo:       scheduleRepo,
		professionalClient: professionalClient,
		notifyClient:       notifyClient,
		txManager:          txManager,
		timeProvider:       &RealTimeProvider{},
		location:           location,
		logger:             logger,
	}
}

// Execute выполняет переход жизненного цикла брони
// Статус и затронутые слоты меняются в одной сериализуемой транзакции:
// частичное применение (статус без слота или наоборот) недопустимо
func (uc *UseCase) Execute(ctx context.Context, req *Request) (*Response, error) {
	uc.logger.Info("ChangeStatus: reservation=%d -> %s by actor=%d (%s)",
		req.ReservationID, req.TargetStatus, req.ActorID, req.ActorRole)

	target := domain.ReservationStatus(req.TargetStatus)
	if !isReachableTarget(target) {
		uc.logger.Warn("ChangeStatus: invalid target status %q", req.TargetStatus)
		return nil, fmt.Errorf("%w: invalid target status %q", ErrInvalidInput, req.TargetStatus)
	}

	// 1. Читаем бронь до транзакции, чтобы знать мастера для внешних вызовов
	res, err := uc.reservationRepo.GetByID(ctx, req.ReservationID)
	if err != nil {
		if errors.Is(err, reservationRepo.ErrReservationNotFound) {
			uc.logger.Warn("ChangeStatus: reservation id=%d not found", req.ReservationID)
			return nil, ErrReservationNotFound
		}
		uc.logger.Error("ChangeStatus: repository error for reservation id=%d: %v", req.ReservationID, err)
		return nil, fmt.Errorf("%w: failed to get reservation: %v", ErrInternal, err)
	}

	// 2. Профиль ёмкости нужен только для повторной проверки при подтверждении
	var professional *professionalClient.Professional
	if target == domain.StatusConfirmed {
		professional, err = uc.professionalClient.GetProfessional(ctx, res.ProfessionalID)
		if err != nil {
			uc.logger.Error("ChangeStatus: failed to get professional id=%d: %v", res.ProfessionalID, err)
			return nil, fmt.Errorf("%w: failed to get professional: %v", ErrInternal, err)
		}
	}

	now := uc.timeProvider.Now().In(uc.location)
	var updated *domain.Reservation

	// 3. Переход выполняется в сериализуемой транзакции
	err = uc.txManager.DoSerializable(ctx, func(txCtx context.Context) error {
		// 3.1. Перечитываем бронь с блокировкой (FOR UPDATE)
		current, err := uc.reservationRepo.GetByID(txCtx, req.ReservationID)
		if err != nil {
			if errors.Is(err, reservationRepo.ErrReservationNotFound) {
				return ErrReservationNotFound
			}
			return fmt.Errorf("%w: failed to get reservation: %v", ErrInternal, err)
		}

		// 3.2. Авторизация актора для этого перехода
		if err := authorize(current, req.ActorID, req.ActorRole, target); err != nil {
			uc.logger.Warn("ChangeStatus: actor=%d (%s) is not allowed to set %s on reservation id=%d",
				req.ActorID, req.ActorRole, target, current.ID)
			return err
		}

		// 3.3. Легальность ребра в таблице переходов
		if !domain.CanTransition(current.Status, target) {
			uc.logger.Warn("ChangeStatus: illegal transition %s -> %s for reservation id=%d",
				current.Status, target, current.ID)
			return ErrIllegalTransition
		}

		// 3.4. Временные предусловия time-driven переходов
		if target == domain.StatusStarted && current.ServiceStart.After(now) {
			return ErrNotStartedYet
		}
		if target == domain.StatusCompleted && current.ServiceEnd.After(now) {
			return ErrNotFinishedYet
		}

		// 3.5. Подтверждение повторно проверяет конфликты и может закрыть слоты
		if target == domain.StatusConfirmed {
			if err := uc.confirmWithinTx(txCtx, current, professional, req.Amount); err != nil {
				return err
			}
		} else {
			if err := uc.reservationRepo.UpdateStatus(txCtx, current.ID, target); err != nil {
				return fmt.Errorf("%w: failed to update status: %v", ErrInternal, err)
			}
		}

		// 3.6. Завершение и отмены возвращают диапазон слотов в продажу
		if domain.TransitionReleasesSlot(target) {
			if err := uc.setSlotRange(txCtx, current, true); err != nil {
				return err
			}
		}

		current.Status = target
		updated = current
		return nil
	})
	if err != nil {
		return nil, err
	}

	uc.logger.Info("ChangeStatus: reservation id=%d moved to %s", updated.ID, target)

	// 4. Уведомления после коммита, fire-and-forget
	uc.notifyAfterCommit(ctx, updated, target)

	return &Response{
		ID:        updated.ID,
		Status:    string(target),
		Message:   fmt.Sprintf("reservation %s", target),
		UpdatedAt: now,
	}, nil
}

// confirmWithinTx повторно валидирует конфликты при подтверждении
// и закрывает диапазон слотов, если это подтверждение исчерпало ёмкость
func (uc *UseCase) confirmWithinTx(
	txCtx context.Context,
	res *domain.Reservation,
	professional *professionalClient.Professional,
	amount *float64,
) error {
	existing, err := uc.reservationRepo.GetByProfessionalWithFilter(txCtx, domain.ProfessionalReservationsFilter{
		ProfessionalID: res.ProfessionalID,
		Date:           &res.Date,
		Statuses:       domain.BlockingStatuses,
		ExcludeID:      &res.ID,
	})
	if err != nil {
		return fmt.Errorf("%w: failed to get reservations: %v", ErrInternal, err)
	}

	capacity := professional.Capacity()
	overlapping := 0
	for _, other := range existing {
		if other.Interval().Overlaps(res.Interval()) {
			overlapping++
		}
	}
	if overlapping >= capacity {
		uc.logger.Warn("ChangeStatus: confirm conflict for reservation id=%d, %d/%d overlapping",
			res.ID, overlapping, capacity)
		return ErrSchedulingConflict
	}

	if err := uc.reservationRepo.UpdateStatus(txCtx, res.ID, domain.StatusConfirmed); err != nil {
		return fmt.Errorf("%w: failed to update status: %v", ErrInternal, err)
	}
	if amount != nil {
		if *amount < 0 {
			return fmt.Errorf("%w: amount must not be negative", ErrInvalidInput)
		}
		if err := uc.reservationRepo.UpdateAmount(txCtx, res.ID, *amount); err != nil {
			return fmt.Errorf("%w: failed to update amount: %v", ErrInternal, err)
		}
	}

	// Это подтверждение доводит число блокирующих броней до ёмкости -
	// интервал больше никому не продать, закрываем слоты
	if overlapping+1 >= capacity {
		uc.logger.Info("ChangeStatus: capacity exhausted for professional=%d, closing slot range", res.ProfessionalID)
		if err := uc.setSlotRange(txCtx, res, false); err != nil {
			return err
		}
	}
	return nil
}

// setSlotRange открывает/закрывает слоты [timeCode, timeCode+duration)
// на дне недели брони
func (uc *UseCase) setSlotRange(txCtx context.Context, res *domain.Reservation, available bool) error {
	endCode, err := res.TimeCode.AddMinutes(res.DurationMinutes)
	if err != nil {
		return fmt.Errorf("%w: failed to compute slot range: %v", ErrInternal, err)
	}
	weekday := res.ServiceStart.In(uc.location).Weekday()
	if err := uc.scheduleRepo.SetSlotAvailabilityRange(txCtx, res.ProfessionalID, weekday,
		res.TimeCode, endCode, available); err != nil {
		return fmt.Errorf("%w: failed to update slot availability: %v", ErrInternal, err)
	}
	return nil
}

func (uc *UseCase) notifyAfterCommit(ctx context.Context, res *domain.Reservation, target domain.ReservationStatus) {
	when := fmt.Sprintf("%s at %s", res.Date.Format(domain.DateFormat), res.Time)
	switch target {
	case domain.StatusConfirmed:
		uc.notifyClient.Notify(ctx, res.CustomerID, "Reservation confirmed",
			fmt.Sprintf("Reservation #%d on %s is confirmed", res.ID, when),
			notifyservice.KindReservationConfirmed)
	case domain.StatusRejected:
		uc.notifyClient.Notify(ctx, res.CustomerID, "Reservation rejected",
			fmt.Sprintf("Reservation #%d on %s was rejected", res.ID, when),
			notifyservice.KindReservationRejected)
	case domain.StatusStarted:
		uc.notifyClient.Notify(ctx, res.CustomerID, "Service started",
			fmt.Sprintf("Reservation #%d has started", res.ID),
			notifyservice.KindReservationStarted)
	case domain.StatusCompleted:
		uc.notifyClient.Notify(ctx, res.CustomerID, "Service completed",
			fmt.Sprintf("Reservation #%d is completed", res.ID),
			notifyservice.KindReservationCompleted)
	case domain.StatusCancelledByClient:
		uc.notifyClient.Notify(ctx, res.ProfessionalID, "Reservation cancelled",
			fmt.Sprintf("Reservation #%d on %s was cancelled by the client", res.ID, when),
			notifyservice.KindReservationCancelled)
	case domain.StatusCancelledByProfessional:
		uc.notifyClient.Notify(ctx, res.CustomerID, "Reservation cancelled",
			fmt.Sprintf("Reservation #%d on %s was cancelled by the professional", res.ID, when),
			notifyservice.KindReservationCancelled)
	}
}

// authorize проверяет право актора на целевой статус
// Владение проверяется по ID из заголовков аутентификации, роли доверяем
func authorize(res *domain.Reservation, actorID int64, role domain.ActorRole, target domain.ReservationStatus) error {
	if role == domain.RoleAdmin {
		return nil
	}

	isProfessionalOwner := role == domain.RoleProfessional && actorID == res.ProfessionalID
	isCustomerOwner := role == domain.RoleCustomer && actorID == res.CustomerID

	switch target {
	case domain.StatusConfirmed, domain.StatusRejected, domain.StatusCancelledByProfessional:
		if isProfessionalOwner {
			return nil
		}
	case domain.StatusStarted:
		if isProfessionalOwner || role == domain.RoleSystem {
			return nil
		}
	case domain.StatusCompleted:
		if role == domain.RoleSystem {
			return nil
		}
	case domain.StatusCancelledByClient:
		if isCustomerOwner {
			return nil
		}
	}
	return ErrForbidden
}

// isReachableTarget перечисляет статусы, в которые можно перейти запросом
// (pending устанавливается только созданием брони)
func isReachableTarget(s domain.ReservationStatus) bool {
	switch s {
	case domain.StatusConfirmed, domain.StatusStarted, domain.StatusCompleted,
		domain.StatusRejected, domain.StatusCancelledByClient, domain.StatusCancelledByProfessional:
		return true
	}
	return false
}
