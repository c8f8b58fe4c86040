package create_reservation

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/m04kA/SMC-ReservationService/internal/domain"
	scheduleRepo "github.com/m04kA/SMC-ReservationService/internal/infra/storage/schedule"
	"github.com/m04kA/SMC-ReservationService/internal/integrations/catalogservice"
	"github.com/m04kA/SMC-ReservationService/internal/integrations/notifyservice"
	"github.com/m04kA/SMC-ReservationService/internal/integrations/professionalservice"
	"github.com/m04kA/SMC-ReservationService/pkg/geo"
	"github.com/m04kA/SMC-ReservationService/pkg/timecode"
)

type fakeReservationRepo struct {
	existing []*domain.Reservation
	created  *domain.Reservation
	nextID   int64
}

func (f *fakeReservationRepo) Create(_ context.Context, res *domain.Reservation) (*domain.Reservation, error) {
	f.nextID++
	res.ID = f.nextID
	res.CreatedAt = time.Now()
	res.UpdatedAt = res.CreatedAt
	f.created = res
	return res, nil
}

func (f *fakeReservationRepo) GetByProfessionalWithFilter(_ context.Context, _ domain.ProfessionalReservationsFilter) ([]*domain.Reservation, error) {
	return f.existing, nil
}

type fakeScheduleRepo struct {
	schedule *domain.Schedule
	err      error
}

func (f *fakeScheduleRepo) GetByProfessional(_ context.Context, _ int64) (*domain.Schedule, error) {
	return f.schedule, f.err
}

func (f *fakeScheduleRepo) SetSlotAvailabilityRange(_ context.Context, _ int64, _ time.Weekday, _, _ timecode.TimeCode, _ bool) error {
	return nil
}

type fakeCatalogClient struct {
	service *catalogservice.Service
	err     error
}

func (f *fakeCatalogClient) GetService(_ context.Context, _ int64) (*catalogservice.Service, error) {
	return f.service, f.err
}

type fakeProfessionalClient struct {
	professional *professionalservice.Professional
	err          error
}

func (f *fakeProfessionalClient) GetProfessional(_ context.Context, _ int64) (*professionalservice.Professional, error) {
	return f.professional, f.err
}

type fakeNotifyClient struct {
	sent []notifyservice.Kind
}

func (f *fakeNotifyClient) Notify(_ context.Context, _ int64, _, _ string, kind notifyservice.Kind) {
	f.sent = append(f.sent, kind)
}

// inlineTxManager выполняет функцию без транзакции: для тестов use case
// важна логика внутри, а не изоляция
type inlineTxManager struct{}

func (inlineTxManager) DoSerializable(ctx context.Context, fn func(ctx context.Context) error) error {
	return fn(ctx)
}

type fixedTimeProvider struct {
	now time.Time
}

func (p *fixedTimeProvider) Now() time.Time { return p.now }

type nopLogger struct{}

func (nopLogger) Info(string, ...interface{})  {}
func (nopLogger) Warn(string, ...interface{})  {}
func (nopLogger) Error(string, ...interface{}) {}

// Понедельник 2025-06-02; "сейчас" = за день до
var (
	testDate = time.Date(2025, time.June, 2, 0, 0, 0, 0, time.UTC)
	testNow  = time.Date(2025, time.June, 1, 12, 0, 0, 0, time.UTC)
)

type fixture struct {
	uc           *UseCase
	reservations *fakeReservationRepo
	schedules    *fakeScheduleRepo
	catalog      *fakeCatalogClient
	professional *fakeProfessionalClient
	notify       *fakeNotifyClient
}

func newFixture() *fixture {
	f := &fixture{
		reservations: &fakeReservationRepo{},
		schedules: &fakeScheduleRepo{
			schedule: &domain.Schedule{
				ID:             1,
				ProfessionalID: 42,
				Days: []domain.Day{
					{
						Weekday:   time.Monday,
						StartTime: "9:00 am",
						EndTime:   "6:00 pm",
						StartCode: 900,
						EndCode:   1800,
						Slots: []domain.TimeSlot{
							{Time: "10:00 am", TimeCode: 1000, IsAvailable: true},
							{Time: "11:00 am", TimeCode: 1100, IsAvailable: true},
							{Time: "5:30 pm", TimeCode: 1730, IsAvailable: true},
						},
					},
				},
			},
		},
		catalog: &fakeCatalogClient{
			service: &catalogservice.Service{ID: 5, Name: "Haircut", DurationMinutes: 60, Price: 100},
		},
		professional: &fakeProfessionalClient{
			professional: &professionalservice.Professional{
				ID:           42,
				IsActive:     true,
				IsFreelancer: true,
			},
		},
		notify: &fakeNotifyClient{},
	}
	f.uc = NewUseCase(f.reservations, f.schedules, f.catalog, f.professional, f.notify,
		inlineTxManager{}, time.UTC, nopLogger{})
	f.uc.timeProvider = &fixedTimeProvider{now: testNow}
	return f
}

func validRequest() *Request {
	return &Request{
		CustomerID:     7,
		ProfessionalID: 42,
		ServiceID:      5,
		Date:           testDate,
		Time:           "10:00 am",
		ServiceType:    "in-place",
	}
}

func TestExecute_CreatesPendingReservation(t *testing.T) {
	f := newFixture()

	resp, err := f.uc.Execute(context.Background(), validRequest())
	require.NoError(t, err)

	assert.Equal(t, "pending", resp.Status)
	assert.Equal(t, 1000, resp.TimeCode)
	assert.Equal(t, 60, resp.DurationMinutes)
	assert.Equal(t, float64(100), resp.Amount)
	assert.Equal(t, float64(0), resp.TravelFee)
	assert.Equal(t, time.Date(2025, time.June, 2, 10, 0, 0, 0, time.UTC), resp.ServiceStart)
	assert.Equal(t, time.Date(2025, time.June, 2, 11, 0, 0, 0, time.UTC), resp.ServiceEnd)

	// Создание не закрывает слот и уведомляет мастера
	require.NotNil(t, f.reservations.created)
	assert.Equal(t, domain.StatusPending, f.reservations.created.Status)
	assert.Equal(t, []notifyservice.Kind{notifyservice.KindReservationCreated}, f.notify.sent)
}

func TestExecute_SlotDiscountApplied(t *testing.T) {
	f := newFixture()
	discount := 20
	f.schedules.schedule.Days[0].Slots[0].Discount = &discount

	resp, err := f.uc.Execute(context.Background(), validRequest())
	require.NoError(t, err)
	assert.Equal(t, float64(80), resp.Amount)
}

func TestExecute_FreelancerCapacityConflict(t *testing.T) {
	f := newFixture()
	// Подтверждённая бронь 10:30-11:30 пересекается с кандидатом 10:00-11:00
	f.reservations.existing = []*domain.Reservation{
		{
			ID:           1,
			Status:       domain.StatusConfirmed,
			ServiceStart: time.Date(2025, time.June, 2, 10, 30, 0, 0, time.UTC),
			ServiceEnd:   time.Date(2025, time.June, 2, 11, 30, 0, 0, time.UTC),
		},
	}

	_, err := f.uc.Execute(context.Background(), validRequest())
	assert.ErrorIs(t, err, ErrSchedulingConflict)
	assert.Nil(t, f.reservations.created)
	assert.Empty(t, f.notify.sent)
}

func TestExecute_BackToBackReservationsDoNotConflict(t *testing.T) {
	f := newFixture()
	// Существующая бронь заканчивается ровно в начале кандидата
	f.reservations.existing = []*domain.Reservation{
		{
			ID:           1,
			Status:       domain.StatusConfirmed,
			ServiceStart: time.Date(2025, time.June, 2, 9, 0, 0, 0, time.UTC),
			ServiceEnd:   time.Date(2025, time.June, 2, 10, 0, 0, 0, time.UTC),
		},
	}

	_, err := f.uc.Execute(context.Background(), validRequest())
	assert.NoError(t, err)
}

func TestExecute_TeamCapacityAllowsOverlap(t *testing.T) {
	f := newFixture()
	f.professional.professional.IsFreelancer = false
	f.professional.professional.TeamSize = professionalservice.TeamSize{Min: 1, Max: 3}
	f.reservations.existing = []*domain.Reservation{
		{
			ID:           1,
			Status:       domain.StatusConfirmed,
			ServiceStart: time.Date(2025, time.June, 2, 10, 0, 0, 0, time.UTC),
			ServiceEnd:   time.Date(2025, time.June, 2, 11, 0, 0, 0, time.UTC),
		},
		{
			ID:           2,
			Status:       domain.StatusStarted,
			ServiceStart: time.Date(2025, time.June, 2, 10, 0, 0, 0, time.UTC),
			ServiceEnd:   time.Date(2025, time.June, 2, 11, 0, 0, 0, time.UTC),
		},
	}

	// 2 из 3 мест заняты - третья бронь проходит
	_, err := f.uc.Execute(context.Background(), validRequest())
	assert.NoError(t, err)
}

func TestExecute_ClosedSlotConflicts(t *testing.T) {
	f := newFixture()
	f.schedules.schedule.Days[0].Slots[0].IsAvailable = false

	_, err := f.uc.Execute(context.Background(), validRequest())
	assert.ErrorIs(t, err, ErrSchedulingConflict)
}

func TestExecute_OutsideOperatingHours(t *testing.T) {
	f := newFixture()

	t.Run("unconfigured weekday", func(t *testing.T) {
		req := validRequest()
		req.Date = testDate.AddDate(0, 0, 1) // вторник
		_, err := f.uc.Execute(context.Background(), req)
		assert.ErrorIs(t, err, ErrOutsideOperatingHours)
	})

	t.Run("no slot at requested time", func(t *testing.T) {
		req := validRequest()
		req.Time = "3:15 pm"
		_, err := f.uc.Execute(context.Background(), req)
		assert.ErrorIs(t, err, ErrOutsideOperatingHours)
	})

	t.Run("service end past day close", func(t *testing.T) {
		// Час с 17:30 закончился бы в 18:30, день закрывается в 18:00
		req := validRequest()
		req.Time = "5:30 pm"
		_, err := f.uc.Execute(context.Background(), req)
		assert.ErrorIs(t, err, ErrOutsideOperatingHours)
	})
}

func TestExecute_TimeInPast(t *testing.T) {
	f := newFixture()
	req := validRequest()
	req.Date = time.Date(2025, time.May, 26, 0, 0, 0, 0, time.UTC) // прошлый понедельник

	_, err := f.uc.Execute(context.Background(), req)
	assert.ErrorIs(t, err, ErrTimeInPast)
}

func TestExecute_ProfessionalChecks(t *testing.T) {
	t.Run("not found", func(t *testing.T) {
		f := newFixture()
		f.professional.professional = nil
		f.professional.err = professionalservice.ErrProfessionalNotFound
		_, err := f.uc.Execute(context.Background(), validRequest())
		assert.ErrorIs(t, err, ErrProfessionalNotFound)
	})

	t.Run("inactive", func(t *testing.T) {
		f := newFixture()
		f.professional.professional.IsActive = false
		_, err := f.uc.Execute(context.Background(), validRequest())
		assert.ErrorIs(t, err, ErrProfessionalInactive)
	})
}

func TestExecute_ServiceNotFound(t *testing.T) {
	f := newFixture()
	f.catalog.service = nil
	f.catalog.err = catalogservice.ErrServiceNotFound

	_, err := f.uc.Execute(context.Background(), validRequest())
	assert.ErrorIs(t, err, ErrServiceNotFound)
}

func TestExecute_ScheduleNotFound(t *testing.T) {
	f := newFixture()
	f.schedules.schedule = nil
	f.schedules.err = scheduleRepo.ErrScheduleNotFound

	_, err := f.uc.Execute(context.Background(), validRequest())
	assert.ErrorIs(t, err, ErrScheduleNotFound)
}

func TestExecute_DurationOutOfRange(t *testing.T) {
	f := newFixture()
	f.catalog.service.DurationMinutes = domain.MaxDurationMinutes + 1

	_, err := f.uc.Execute(context.Background(), validRequest())
	assert.ErrorIs(t, err, ErrInvalidInput)
}

func TestExecute_ValidationErrors(t *testing.T) {
	f := newFixture()

	tests := []struct {
		name   string
		mutate func(r *Request)
	}{
		{"missing customer", func(r *Request) { r.CustomerID = 0 }},
		{"missing professional", func(r *Request) { r.ProfessionalID = 0 }},
		{"missing service", func(r *Request) { r.ServiceID = 0 }},
		{"missing date", func(r *Request) { r.Date = time.Time{} }},
		{"missing time", func(r *Request) { r.Time = "" }},
		{"bad time format", func(r *Request) { r.Time = "25:00" }},
		{"unknown service type", func(r *Request) { r.ServiceType = "remote" }},
		{"home without location", func(r *Request) { r.ServiceType = "home"; r.Location = nil }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := validRequest()
			tt.mutate(req)
			_, err := f.uc.Execute(context.Background(), req)
			assert.ErrorIs(t, err, ErrInvalidInput)
		})
	}
}

func TestTravelFee(t *testing.T) {
	freelancer := &professionalservice.Professional{
		IsFreelancer: true,
		TravelFee:    professionalservice.TravelFee{Fee: 10, Distance: 5},
		Location:     []float64{3.0588, 36.7538},
	}
	// Клиент примерно в 11 км
	far := &geo.Point{Lon: 3.0588, Lat: 36.8538}
	near := &geo.Point{Lon: 3.0588, Lat: 36.7638}

	t.Run("beyond included distance", func(t *testing.T) {
		fee := travelFee(freelancer, far, domain.ServiceTypeHome)
		assert.Greater(t, fee, float64(0))
		// Fee за каждый километр сверх включённых 5
		dist := geo.DistanceKm(geo.Point{Lon: 3.0588, Lat: 36.7538}, *far)
		assert.InDelta(t, (dist-5)*10, fee, 0.01)
	})

	t.Run("within included distance", func(t *testing.T) {
		assert.Equal(t, float64(0), travelFee(freelancer, near, domain.ServiceTypeHome))
	})

	t.Run("team professional pays nothing", func(t *testing.T) {
		team := &professionalservice.Professional{IsFreelancer: false}
		assert.Equal(t, float64(0), travelFee(team, far, domain.ServiceTypeHome))
	})

	t.Run("no customer location", func(t *testing.T) {
		assert.Equal(t, float64(0), travelFee(freelancer, nil, domain.ServiceTypeHome))
	})

	// Координаты в запросе на услугу в салоне сами по себе выезда не означают
	t.Run("in-place service pays nothing", func(t *testing.T) {
		assert.Equal(t, float64(0), travelFee(freelancer, far, domain.ServiceTypeInPlace))
	})
}

func TestReservationAmount(t *testing.T) {
	discount := 25
	assert.Equal(t, float64(100), reservationAmount(100, nil))
	assert.Equal(t, float64(75), reservationAmount(100, &discount))

	zero := 0
	assert.Equal(t, float64(100), reservationAmount(100, &zero))

	full := 100
	assert.Equal(t, float64(0), reservationAmount(100, &full))
}
