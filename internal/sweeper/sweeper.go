// Package sweeper implements the autonomous scheduler: a periodic pass that
// advances confirmed/started reservations across their start and end instants
// and raises pre-start reminders, concurrently with user-driven transitions.
package sweeper

import (
	"context"
	"fmt"
	"time"

	"github.com/m04kA/SMC-ReservationService/internal/domain"
	"github.com/m04kA/SMC-ReservationService/internal/integrations/notifyservice"
)

// Sweeper фоновый процесс автоматического продвижения броней
type Sweeper struct {
	reservationRepo ReservationRepository
	scheduleRepo    ScheduleRepository
	notifyClient    NotifyServiceClient
	txManager       TransactionManager
	timeProvider    TimeProvider
	metrics         Metrics
	location        *time.Location

	interval     time.Duration
	timeout      time.Duration
	reminderLead time.Duration

	logger Logger
}

// pendingNotification уведомление, отложенное до коммита транзакции прохода
type pendingNotification struct {
	recipientID int64
	title       string
	message     string
	kind        notifyservice.Kind
}

// New создает новый экземпляр фонового процесса
func New(
	reservationRepo ReservationRepository,
	scheduleRepo ScheduleRepository,
	notifyClient NotifyServiceClient,
	txManager TransactionManager,
	metrics Metrics,
	location *time.Location,
	interval time.Duration,
	timeout time.Duration,
	reminderLead time.Duration,
	logger Logger,
) *Sweeper {
	return &Sweeper{
		reservationRepo: reservationRepo,
		scheduleRepo:    scheduleRepo,
		notifyClient:    notifyClient,
		txManager:       txManager,
		timeProvider:    &RealTimeProvider{},
		metrics:         metrics,
		location:        location,
		interval:        interval,
		timeout:         timeout,
		reminderLead:    reminderLead,
		logger:          logger,
	}
}

// Run запускает цикл прохода и блокируется до отмены контекста
// Ошибки итерации логируются; следующая попытка - на следующем тике
func (s *Sweeper) Run(ctx context.Context) {
	s.logger.Info("Sweeper: started, interval=%s, timeout=%s, reminder lead=%s",
		s.interval, s.timeout, s.reminderLead)

	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			s.logger.Info("Sweeper: stopped")
			return
		case <-ticker.C:
			s.runOnce(ctx)
		}
	}
}

// runOnce выполняет одну итерацию с ограничением по времени
func (s *Sweeper) runOnce(ctx context.Context) {
	iterCtx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	started := time.Now()
	err := s.Sweep(iterCtx)
	if s.metrics != nil {
		s.metrics.ObserveSweep(err, time.Since(started))
	}
	if err != nil {
		s.logger.Error("Sweeper: iteration failed, will retry on next tick: %v", err)
	}
}

// Sweep выполняет один проход: загружает брони, чей интервал охватывает
// окно вокруг "сейчас", и продвигает каждую в собственной сериализуемой
// транзакции. Статус и слоты одной брони коммитятся атомарно, а ошибка
// одной записи откатывает только её. Уведомления отправляются только
// после успешного коммита своей записи.
func (s *Sweeper) Sweep(ctx context.Context) error {
	now := s.timeProvider.Now().In(s.location)
	from := now.Add(-domain.SweepLookbackHours * time.Hour)
	to := now.Add(domain.SweepLookaheadHours * time.Hour)

	batch, err := s.reservationRepo.GetBracketing(ctx, from, to)
	if err != nil {
		return fmt.Errorf("failed to load bracketing reservations: %w", err)
	}

	dispatched := 0
	for _, res := range batch {
		var notifications []pendingNotification

		err := s.txManager.DoSerializable(ctx, func(txCtx context.Context) error {
			n, err := s.advance(txCtx, res, now)
			if err != nil {
				return err
			}
			notifications = n
			return nil
		})
		if err != nil {
			// Запись откатилась целиком, остальные продвигаются своими транзакциями
			s.logger.Error("Sweeper: failed to advance reservation id=%d: %v", res.ID, err)
			continue
		}

		for _, n := range notifications {
			s.notifyClient.Notify(ctx, n.recipientID, n.title, n.message, n.kind)
		}
		dispatched += len(notifications)
	}

	if dispatched > 0 {
		s.logger.Info("Sweeper: pass complete, %d notification(s) dispatched", dispatched)
	}
	return nil
}

// advance применяет к одной брони первый подходящий переход
func (s *Sweeper) advance(txCtx context.Context, res *domain.Reservation, now time.Time) ([]pendingNotification, error) {
	switch {
	// Напоминание: до начала осталось не больше reminderLead
	// (разница инстантов, а не минутных компонентов)
	case res.Status == domain.StatusConfirmed && !res.Notified &&
		res.ServiceStart.After(now) && res.ServiceStart.Sub(now) <= s.reminderLead:
		if err := s.reservationRepo.MarkNotified(txCtx, res.ID); err != nil {
			return nil, err
		}
		if s.metrics != nil {
			s.metrics.IncSweepReminder()
		}
		minutes := int(res.ServiceStart.Sub(now).Minutes())
		return []pendingNotification{
			{
				recipientID: res.CustomerID,
				title:       "Upcoming reservation",
				message:     fmt.Sprintf("Reservation #%d starts in %d minute(s)", res.ID, minutes),
				kind:        notifyservice.KindReservationReminder,
			},
			{
				recipientID: res.ProfessionalID,
				title:       "Upcoming reservation",
				message:     fmt.Sprintf("Reservation #%d starts in %d minute(s)", res.ID, minutes),
				kind:        notifyservice.KindReservationReminder,
			},
		}, nil

	// Начало услуги: confirmed -> started
	case res.Status == domain.StatusConfirmed && !res.IsStarted && !res.ServiceStart.After(now):
		if err := s.reservationRepo.UpdateStatus(txCtx, res.ID, domain.StatusStarted); err != nil {
			return nil, err
		}
		if s.metrics != nil {
			s.metrics.IncSweepTransition("started")
		}
		return []pendingNotification{{
			recipientID: res.CustomerID,
			title:       "Service started",
			message:     fmt.Sprintf("Reservation #%d has started", res.ID),
			kind:        notifyservice.KindReservationStarted,
		}}, nil

	// Конец услуги: started -> completed, слоты возвращаются в продажу
	case res.Status == domain.StatusStarted && !res.ServiceEnd.After(now):
		if err := s.reservationRepo.UpdateStatus(txCtx, res.ID, domain.StatusCompleted); err != nil {
			return nil, err
		}
		if err := s.reopenSlots(txCtx, res); err != nil {
			return nil, err
		}
		if s.metrics != nil {
			s.metrics.IncSweepTransition("completed")
		}
		return []pendingNotification{{
			recipientID: res.CustomerID,
			title:       "Service completed",
			message:     fmt.Sprintf("Reservation #%d is completed", res.ID),
			kind:        notifyservice.KindReservationCompleted,
		}}, nil
	}
	return nil, nil
}

func (s *Sweeper) reopenSlots(txCtx context.Context, res *domain.Reservation) error {
	endCode, err := res.TimeCode.AddMinutes(res.DurationMinutes)
	if err != nil {
		return fmt.Errorf("failed to compute slot range: %w", err)
	}
	weekday := res.ServiceStart.In(s.location).Weekday()
	return s.scheduleRepo.SetSlotAvailabilityRange(txCtx, res.ProfessionalID, weekday,
		res.TimeCode, endCode, true)
}
