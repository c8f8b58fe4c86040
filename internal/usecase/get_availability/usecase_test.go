package get_availability

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/m04kA/SMC-ReservationService/internal/domain"
	scheduleRepo "github.com/m04kA/SMC-ReservationService/internal/infra/storage/schedule"
)

type fakeScheduleRepo struct {
	schedule *domain.Schedule
	err      error
}

func (f *fakeScheduleRepo) GetByProfessional(_ context.Context, _ int64) (*domain.Schedule, error) {
	return f.schedule, f.err
}

type fakeReservationRepo struct {
	held []*domain.Reservation
	err  error
}

func (f *fakeReservationRepo) GetByCustomer(_ context.Context, _ int64, _ *time.Time, _ []domain.ReservationStatus) ([]*domain.Reservation, error) {
	return f.held, f.err
}

type fixedTimeProvider struct {
	now time.Time
}

func (p *fixedTimeProvider) Now() time.Time { return p.now }

type nopLogger struct{}

func (nopLogger) Info(string, ...interface{})  {}
func (nopLogger) Warn(string, ...interface{})  {}
func (nopLogger) Error(string, ...interface{}) {}

// mondaySchedule расписание с одним рабочим днём: понедельник 9:00-18:00,
// слоты каждые 30 минут с 9:00 до 11:00
func mondaySchedule() *domain.Schedule {
	return &domain.Schedule{
		ID:             1,
		ProfessionalID: 42,
		Days: []domain.Day{
			{
				ID:        10,
				Weekday:   time.Monday,
				StartTime: "9:00 am",
				EndTime:   "6:00 pm",
				StartCode: 900,
				EndCode:   1800,
				Slots: []domain.TimeSlot{
					{Time: "9:00 am", TimeCode: 900, IsAvailable: true},
					{Time: "9:30 am", TimeCode: 930, IsAvailable: true},
					{Time: "10:00 am", TimeCode: 1000, IsAvailable: true},
					{Time: "10:30 am", TimeCode: 1030, IsAvailable: false},
					{Time: "11:00 am", TimeCode: 1100, IsAvailable: true},
				},
			},
		},
	}
}

func newTestUseCase(sched *fakeScheduleRepo, res *fakeReservationRepo, now time.Time) *UseCase {
	uc := NewUseCase(sched, res, time.UTC, nopLogger{})
	uc.timeProvider = &fixedTimeProvider{now: now}
	return uc
}

// Понедельник 2025-06-02
var testMonday = time.Date(2025, time.June, 2, 0, 0, 0, 0, time.UTC)

func TestExecute_StoredAvailabilityPreserved(t *testing.T) {
	// "Сейчас" задолго до запрошенной даты: правило прошедшего времени не срабатывает
	now := time.Date(2025, time.May, 1, 12, 0, 0, 0, time.UTC)
	uc := newTestUseCase(&fakeScheduleRepo{schedule: mondaySchedule()}, &fakeReservationRepo{}, now)

	date := testMonday
	resp, err := uc.Execute(context.Background(), &Request{ProfessionalID: 42, Date: &date})
	require.NoError(t, err)
	require.Len(t, resp.Days, 1)

	day := resp.Days[0]
	assert.Equal(t, "monday", day.Day)
	assert.Equal(t, "2025-06-02", day.Date)
	require.Len(t, day.TimeSlots, 5)

	assert.True(t, day.TimeSlots[0].IsAvailable)
	assert.True(t, day.TimeSlots[1].IsAvailable)
	assert.True(t, day.TimeSlots[2].IsAvailable)
	// Закрытый слот остаётся закрытым
	assert.False(t, day.TimeSlots[3].IsAvailable)
	assert.True(t, day.TimeSlots[4].IsAvailable)
}

func TestExecute_PastSlotsOfTodayUnavailable(t *testing.T) {
	// "Сейчас" = запрошенный понедельник, 10:00
	now := time.Date(2025, time.June, 2, 10, 0, 0, 0, time.UTC)
	uc := newTestUseCase(&fakeScheduleRepo{schedule: mondaySchedule()}, &fakeReservationRepo{}, now)

	date := testMonday
	resp, err := uc.Execute(context.Background(), &Request{ProfessionalID: 42, Date: &date})
	require.NoError(t, err)
	require.Len(t, resp.Days, 1)

	slots := resp.Days[0].TimeSlots
	// 9:00, 9:30 в прошлом; 10:00 уже наступило (не строго после "сейчас")
	assert.False(t, slots[0].IsAvailable)
	assert.False(t, slots[1].IsAvailable)
	assert.False(t, slots[2].IsAvailable)
	assert.False(t, slots[3].IsAvailable) // закрыт хранимо
	assert.True(t, slots[4].IsAvailable)
}

func TestExecute_CustomerHeldReservationExcluded(t *testing.T) {
	now := time.Date(2025, time.May, 1, 12, 0, 0, 0, time.UTC)
	customerID := int64(7)

	held := []*domain.Reservation{
		{
			ID:           100,
			CustomerID:   customerID,
			Status:       domain.StatusPending,
			ServiceStart: time.Date(2025, time.June, 2, 9, 30, 0, 0, time.UTC),
		},
	}
	uc := newTestUseCase(&fakeScheduleRepo{schedule: mondaySchedule()}, &fakeReservationRepo{held: held}, now)

	date := testMonday
	resp, err := uc.Execute(context.Background(), &Request{
		ProfessionalID: 42,
		Date:           &date,
		CustomerID:     &customerID,
	})
	require.NoError(t, err)

	slots := resp.Days[0].TimeSlots
	assert.True(t, slots[0].IsAvailable)
	// Слот 9:30 удерживается собственной бронью клиента
	assert.False(t, slots[1].IsAvailable)
	assert.True(t, slots[2].IsAvailable)
}

func TestExecute_DurationMustFitBeforeDayEnd(t *testing.T) {
	now := time.Date(2025, time.May, 1, 12, 0, 0, 0, time.UTC)
	sched := &domain.Schedule{
		ID:             1,
		ProfessionalID: 42,
		Days: []domain.Day{
			{
				Weekday:   time.Monday,
				StartTime: "9:00 am",
				EndTime:   "10:00 am",
				StartCode: 900,
				EndCode:   1000,
				Slots: []domain.TimeSlot{
					{Time: "9:00 am", TimeCode: 900, IsAvailable: true},
					{Time: "9:30 am", TimeCode: 930, IsAvailable: true},
				},
			},
		},
	}
	uc := newTestUseCase(&fakeScheduleRepo{schedule: sched}, &fakeReservationRepo{}, now)

	date := testMonday
	duration := 60
	resp, err := uc.Execute(context.Background(), &Request{
		ProfessionalID:  42,
		Date:            &date,
		DurationMinutes: &duration,
	})
	require.NoError(t, err)

	slots := resp.Days[0].TimeSlots
	// Час с 9:00 заканчивается ровно в 10:00 - помещается
	assert.True(t, slots[0].IsAvailable)
	// Час с 9:30 вышел бы за закрытие дня
	assert.False(t, slots[1].IsAvailable)
}

func TestExecute_DurationStraddlingClosedSlotUnavailable(t *testing.T) {
	now := time.Date(2025, time.May, 1, 12, 0, 0, 0, time.UTC)
	uc := newTestUseCase(&fakeScheduleRepo{schedule: mondaySchedule()}, &fakeReservationRepo{}, now)

	date := testMonday
	duration := 60
	resp, err := uc.Execute(context.Background(), &Request{
		ProfessionalID:  42,
		Date:            &date,
		DurationMinutes: &duration,
	})
	require.NoError(t, err)

	slots := resp.Days[0].TimeSlots
	// Час с 10:00 накрывает закрытый слот 10:30
	assert.False(t, slots[2].IsAvailable)
	// Час с 9:00 промежуточных закрытых слотов не накрывает
	assert.True(t, slots[0].IsAvailable)
	// Час с 11:00 - последний слот, интервал (1100, 1200) закрытых не содержит
	assert.True(t, slots[4].IsAvailable)
}

func TestExecute_UnconfiguredWeekdayReturnsEmptyDays(t *testing.T) {
	now := time.Date(2025, time.May, 1, 12, 0, 0, 0, time.UTC)
	uc := newTestUseCase(&fakeScheduleRepo{schedule: mondaySchedule()}, &fakeReservationRepo{}, now)

	// Вторник не настроен
	date := testMonday.AddDate(0, 0, 1)
	resp, err := uc.Execute(context.Background(), &Request{ProfessionalID: 42, Date: &date})
	require.NoError(t, err)
	assert.Empty(t, resp.Days)
}

func TestExecute_NegativeOffsetZoneKeepsRequestedWeekday(t *testing.T) {
	loc, err := time.LoadLocation("America/New_York")
	require.NoError(t, err)

	uc := NewUseCase(&fakeScheduleRepo{schedule: mondaySchedule()}, &fakeReservationRepo{}, loc, nopLogger{})
	uc.timeProvider = &fixedTimeProvider{now: time.Date(2025, time.May, 1, 12, 0, 0, 0, time.UTC)}

	// Дата приходит полуночью UTC; в зоне UTC-4 этот же инстант - ещё воскресенье.
	// Запрошенный понедельник всё равно должен вернуть настроенный день
	date := testMonday
	resp, err := uc.Execute(context.Background(), &Request{ProfessionalID: 42, Date: &date})
	require.NoError(t, err)
	require.Len(t, resp.Days, 1)
	assert.Equal(t, "monday", resp.Days[0].Day)
	assert.Equal(t, "2025-06-02", resp.Days[0].Date)
}

func TestExecute_AllDaysMode(t *testing.T) {
	sched := mondaySchedule()
	sched.Days = append(sched.Days, domain.Day{
		Weekday:   time.Wednesday,
		StartTime: "9:00 am",
		EndTime:   "6:00 pm",
		StartCode: 900,
		EndCode:   1800,
		Slots: []domain.TimeSlot{
			{Time: "9:00 am", TimeCode: 900, IsAvailable: true},
		},
	})

	// "Сейчас" = вторник 2025-06-03
	now := time.Date(2025, time.June, 3, 12, 0, 0, 0, time.UTC)
	uc := newTestUseCase(&fakeScheduleRepo{schedule: sched}, &fakeReservationRepo{}, now)

	resp, err := uc.Execute(context.Background(), &Request{ProfessionalID: 42})
	require.NoError(t, err)
	require.Len(t, resp.Days, 2)

	// Каждый день недели приходит на свою ближайшую дату
	assert.Equal(t, "monday", resp.Days[0].Day)
	assert.Equal(t, "2025-06-09", resp.Days[0].Date)
	assert.Equal(t, "wednesday", resp.Days[1].Day)
	assert.Equal(t, "2025-06-04", resp.Days[1].Date)
}

func TestExecute_ScheduleNotFound(t *testing.T) {
	now := time.Date(2025, time.May, 1, 12, 0, 0, 0, time.UTC)
	uc := newTestUseCase(&fakeScheduleRepo{err: scheduleRepo.ErrScheduleNotFound}, &fakeReservationRepo{}, now)

	_, err := uc.Execute(context.Background(), &Request{ProfessionalID: 42})
	assert.ErrorIs(t, err, ErrScheduleNotFound)
}

func TestExecute_InvalidInput(t *testing.T) {
	now := time.Date(2025, time.May, 1, 12, 0, 0, 0, time.UTC)
	uc := newTestUseCase(&fakeScheduleRepo{schedule: mondaySchedule()}, &fakeReservationRepo{}, now)

	_, err := uc.Execute(context.Background(), &Request{ProfessionalID: 0})
	assert.ErrorIs(t, err, ErrInvalidInput)

	badDuration := 0
	_, err = uc.Execute(context.Background(), &Request{ProfessionalID: 42, DurationMinutes: &badDuration})
	assert.ErrorIs(t, err, ErrInvalidInput)
}

func TestNextOccurrence(t *testing.T) {
	// Вторник 2025-06-03
	now := time.Date(2025, time.June, 3, 15, 30, 0, 0, time.UTC)

	tests := []struct {
		wd       time.Weekday
		expected string
	}{
		{time.Tuesday, "2025-06-03"},  // сегодня включительно
		{time.Wednesday, "2025-06-04"},
		{time.Monday, "2025-06-09"},
		{time.Sunday, "2025-06-08"},
	}

	for _, tt := range tests {
		t.Run(tt.wd.String(), func(t *testing.T) {
			got := nextOccurrence(now, tt.wd)
			assert.Equal(t, tt.expected, got.Format(domain.DateFormat))
			// Полночь в той же тайм-зоне
			assert.Equal(t, 0, got.Hour())
			assert.Equal(t, now.Location(), got.Location())
		})
	}
}
