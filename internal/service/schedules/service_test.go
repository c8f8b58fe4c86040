package schedules

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/m04kA/SMC-ReservationService/internal/domain"
	scheduleRepo "github.com/m04kA/SMC-ReservationService/internal/infra/storage/schedule"
	"github.com/m04kA/SMC-ReservationService/internal/integrations/professionalservice"
	"github.com/m04kA/SMC-ReservationService/internal/service/schedules/models"
	"github.com/m04kA/SMC-ReservationService/pkg/timecode"
)

type fakeScheduleRepo struct {
	schedule    *domain.Schedule
	getErr      error
	savedDays   []domain.Day
	created     bool
	replaced    []domain.Day
	discountSet bool
	discountErr error
}

func (f *fakeScheduleRepo) GetByProfessional(_ context.Context, _ int64) (*domain.Schedule, error) {
	if f.getErr != nil {
		return nil, f.getErr
	}
	return f.schedule, nil
}

func (f *fakeScheduleRepo) CreateOrReplace(_ context.Context, professionalID int64, days []domain.Day) (*domain.Schedule, bool, error) {
	f.savedDays = days
	f.schedule = &domain.Schedule{ID: 1, ProfessionalID: professionalID, Days: days}
	return f.schedule, f.created, nil
}

func (f *fakeScheduleRepo) ReplaceDay(_ context.Context, _ int64, day domain.Day) error {
	f.replaced = append(f.replaced, day)
	return nil
}

func (f *fakeScheduleRepo) SetSlotDiscount(_ context.Context, _ int64, _ time.Weekday, _ timecode.TimeCode, _ int) error {
	if f.discountErr != nil {
		return f.discountErr
	}
	f.discountSet = true
	return nil
}

type fakeProfessionalClient struct {
	professional *professionalservice.Professional
	err          error
	backrefSet   bool
}

func (f *fakeProfessionalClient) GetProfessional(_ context.Context, _ int64) (*professionalservice.Professional, error) {
	return f.professional, f.err
}

func (f *fakeProfessionalClient) SetScheduleID(_ context.Context, _, _ int64) error {
	f.backrefSet = true
	return nil
}

type inlineTxManager struct{}

func (inlineTxManager) Do(ctx context.Context, fn func(ctx context.Context) error) error {
	return fn(ctx)
}

type nopLogger struct{}

func (nopLogger) Info(string, ...interface{})  {}
func (nopLogger) Warn(string, ...interface{})  {}
func (nopLogger) Error(string, ...interface{}) {}

func newTestService(repo *fakeScheduleRepo, client *fakeProfessionalClient) *Service {
	return NewService(repo, client, inlineTxManager{}, nopLogger{})
}

func activeDay(day string, slots ...models.SlotInput) models.DayInput {
	return models.DayInput{
		Day:       day,
		Active:    true,
		StartTime: "9:00 am",
		EndTime:   "6:00 pm",
		TimeSlots: slots,
	}
}

func TestUpsert_BuildsScheduleFromActiveDays(t *testing.T) {
	repo := &fakeScheduleRepo{}
	client := &fakeProfessionalClient{professional: &professionalservice.Professional{ID: 42, IsActive: true}}
	svc := newTestService(repo, client)

	resp, err := svc.Upsert(context.Background(), &models.UpsertScheduleRequest{
		UserID:         42,
		Role:           domain.RoleProfessional,
		ProfessionalID: 42,
		Days: []models.DayInput{
			activeDay("monday",
				models.SlotInput{Time: "9:00 am"},
				models.SlotInput{Time: "10:00 am"},
			),
			{Day: "tuesday", Active: false},
		},
	})
	require.NoError(t, err)

	// Неактивный вторник отброшен
	require.Len(t, repo.savedDays, 1)
	day := repo.savedDays[0]
	assert.Equal(t, time.Monday, day.Weekday)
	assert.Equal(t, timecode.TimeCode(900), day.StartCode)
	assert.Equal(t, timecode.TimeCode(1800), day.EndCode)
	require.Len(t, day.Slots, 2)
	assert.True(t, day.Slots[0].IsAvailable)

	require.Len(t, resp.Days, 1)
	assert.Equal(t, "monday", resp.Days[0].Day)
}

func TestUpsert_SetsBackrefOnFirstCreation(t *testing.T) {
	repo := &fakeScheduleRepo{created: true}
	client := &fakeProfessionalClient{professional: &professionalservice.Professional{ID: 42}}
	svc := newTestService(repo, client)

	_, err := svc.Upsert(context.Background(), &models.UpsertScheduleRequest{
		UserID:         42,
		Role:           domain.RoleProfessional,
		ProfessionalID: 42,
		Days:           []models.DayInput{activeDay("monday", models.SlotInput{Time: "9:00 am"})},
	})
	require.NoError(t, err)
	assert.True(t, client.backrefSet)
}

func TestUpsert_AccessControl(t *testing.T) {
	repo := &fakeScheduleRepo{}
	client := &fakeProfessionalClient{professional: &professionalservice.Professional{ID: 42}}
	svc := newTestService(repo, client)

	req := func(userID int64, role domain.ActorRole) *models.UpsertScheduleRequest {
		return &models.UpsertScheduleRequest{
			UserID:         userID,
			Role:           role,
			ProfessionalID: 42,
			Days:           []models.DayInput{activeDay("monday", models.SlotInput{Time: "9:00 am"})},
		}
	}

	_, err := svc.Upsert(context.Background(), req(42, domain.RoleProfessional))
	assert.NoError(t, err)

	_, err = svc.Upsert(context.Background(), req(1, domain.RoleAdmin))
	assert.NoError(t, err)

	_, err = svc.Upsert(context.Background(), req(99, domain.RoleProfessional))
	assert.ErrorIs(t, err, ErrAccessDenied)

	_, err = svc.Upsert(context.Background(), req(42, domain.RoleCustomer))
	assert.ErrorIs(t, err, ErrAccessDenied)
}

func TestUpsert_NoActiveDays(t *testing.T) {
	repo := &fakeScheduleRepo{}
	client := &fakeProfessionalClient{professional: &professionalservice.Professional{ID: 42}}
	svc := newTestService(repo, client)

	_, err := svc.Upsert(context.Background(), &models.UpsertScheduleRequest{
		UserID:         42,
		Role:           domain.RoleProfessional,
		ProfessionalID: 42,
		Days:           []models.DayInput{{Day: "monday", Active: false}},
	})
	assert.ErrorIs(t, err, ErrInvalidInput)
}

func TestUpdateDays_NarrowedBoundsDropSlots(t *testing.T) {
	repo := &fakeScheduleRepo{
		schedule: &domain.Schedule{
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
						{Time: "12:00 pm", TimeCode: 1200, IsAvailable: true},
						{Time: "5:00 pm", TimeCode: 1700, IsAvailable: true},
					},
				},
			},
		},
	}
	client := &fakeProfessionalClient{professional: &professionalservice.Professional{ID: 42}}
	svc := newTestService(repo, client)

	newEnd := "1:00 pm"
	_, err := svc.UpdateDays(context.Background(), &models.UpdateDaysRequest{
		UserID:         42,
		Role:           domain.RoleProfessional,
		ProfessionalID: 42,
		Days:           []models.PartialDayInput{{Day: "monday", EndTime: &newEnd}},
	})
	require.NoError(t, err)

	require.Len(t, repo.replaced, 1)
	day := repo.replaced[0]
	assert.Equal(t, timecode.TimeCode(1300), day.EndCode)
	// Слот 17:00 выпал из новых рабочих часов
	require.Len(t, day.Slots, 2)
	assert.Equal(t, timecode.TimeCode(900), day.Slots[0].TimeCode)
	assert.Equal(t, timecode.TimeCode(1200), day.Slots[1].TimeCode)
}

func TestUpdateDays_UnknownDay(t *testing.T) {
	repo := &fakeScheduleRepo{
		schedule: &domain.Schedule{
			ID:             1,
			ProfessionalID: 42,
			Days:           []domain.Day{{Weekday: time.Monday, StartTime: "9:00 am", EndTime: "6:00 pm", StartCode: 900, EndCode: 1800}},
		},
	}
	client := &fakeProfessionalClient{professional: &professionalservice.Professional{ID: 42}}
	svc := newTestService(repo, client)

	_, err := svc.UpdateDays(context.Background(), &models.UpdateDaysRequest{
		UserID:         42,
		Role:           domain.RoleProfessional,
		ProfessionalID: 42,
		Days:           []models.PartialDayInput{{Day: "friday"}},
	})
	assert.ErrorIs(t, err, ErrDayNotFound)
}

func TestSetSlotDiscount(t *testing.T) {
	client := &fakeProfessionalClient{professional: &professionalservice.Professional{ID: 42}}

	req := func(discount int) *models.SetSlotDiscountRequest {
		return &models.SetSlotDiscountRequest{
			UserID:         42,
			Role:           domain.RoleProfessional,
			ProfessionalID: 42,
			Day:            "monday",
			TimeCode:       1000,
			Discount:       discount,
		}
	}

	t.Run("success", func(t *testing.T) {
		repo := &fakeScheduleRepo{}
		svc := newTestService(repo, client)
		require.NoError(t, svc.SetSlotDiscount(context.Background(), req(20)))
		assert.True(t, repo.discountSet)
	})

	t.Run("discount out of range", func(t *testing.T) {
		repo := &fakeScheduleRepo{}
		svc := newTestService(repo, client)
		assert.ErrorIs(t, svc.SetSlotDiscount(context.Background(), req(101)), ErrInvalidInput)
		assert.ErrorIs(t, svc.SetSlotDiscount(context.Background(), req(-1)), ErrInvalidInput)
	})

	t.Run("slot not found", func(t *testing.T) {
		repo := &fakeScheduleRepo{discountErr: scheduleRepo.ErrSlotNotFound}
		svc := newTestService(repo, client)
		assert.ErrorIs(t, svc.SetSlotDiscount(context.Background(), req(20)), ErrSlotNotFound)
	})
}

func TestParseDayBounds(t *testing.T) {
	start, end, err := parseDayBounds("9:00 am", "6:00 pm")
	require.NoError(t, err)
	assert.Equal(t, timecode.TimeCode(900), start)
	assert.Equal(t, timecode.TimeCode(1800), end)

	// Окончание ровно в полночь кодируется как 2400
	start, end, err = parseDayBounds("10:00 pm", "12:00 am")
	require.NoError(t, err)
	assert.Equal(t, timecode.TimeCode(2200), start)
	assert.Equal(t, timecode.EndOfDay, end)

	_, _, err = parseDayBounds("6:00 pm", "9:00 am")
	assert.ErrorIs(t, err, ErrInvalidInput)

	_, _, err = parseDayBounds("25:00", "6:00 pm")
	assert.ErrorIs(t, err, ErrInvalidInput)
}

func TestBuildSlots(t *testing.T) {
	t.Run("derives code from time and time from code", func(t *testing.T) {
		code := 1430
		slots, err := buildSlots([]models.SlotInput{
			{Time: "9:00 am"},
			{TimeCode: &code},
		}, 900, 1800)
		require.NoError(t, err)
		require.Len(t, slots, 2)
		assert.Equal(t, timecode.TimeCode(900), slots[0].TimeCode)
		assert.Equal(t, "2:30 pm", slots[1].Time)
	})

	t.Run("drops unparseable and out of bounds slots", func(t *testing.T) {
		slots, err := buildSlots([]models.SlotInput{
			{Time: "not a time"},
			{Time: "8:00 am"},  // до открытия
			{Time: "6:00 pm"},  // ровно закрытие, граница исключается
			{Time: "10:00 am"}, // валидный
			{},                 // ни времени, ни кода
		}, 900, 1800)
		require.NoError(t, err)
		require.Len(t, slots, 1)
		assert.Equal(t, timecode.TimeCode(1000), slots[0].TimeCode)
	})

	t.Run("deduplicates by time code", func(t *testing.T) {
		slots, err := buildSlots([]models.SlotInput{
			{Time: "10:00 am"},
			{Time: "10:00 am"},
		}, 900, 1800)
		require.NoError(t, err)
		assert.Len(t, slots, 1)
	})

	t.Run("invalid discount fails the request", func(t *testing.T) {
		bad := 150
		_, err := buildSlots([]models.SlotInput{
			{Time: "10:00 am", Discount: &bad},
		}, 900, 1800)
		assert.ErrorIs(t, err, ErrInvalidInput)
	})

	t.Run("availability defaults to true", func(t *testing.T) {
		closed := false
		slots, err := buildSlots([]models.SlotInput{
			{Time: "10:00 am"},
			{Time: "11:00 am", IsAvailable: &closed},
		}, 900, 1800)
		require.NoError(t, err)
		require.Len(t, slots, 2)
		assert.True(t, slots[0].IsAvailable)
		assert.False(t, slots[1].IsAvailable)
	})
}
