package reservations

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/m04kA/SMC-ReservationService/internal/domain"
	reservationRepo "github.com/m04kA/SMC-ReservationService/internal/infra/storage/reservation"
	"github.com/m04kA/SMC-ReservationService/internal/service/reservations/models"
)

type fakeReservationRepo struct {
	reservation *domain.Reservation
	list        []*domain.Reservation

	gotCustomerStatuses []domain.ReservationStatus
	gotFilter           domain.ProfessionalReservationsFilter
}

func (f *fakeReservationRepo) GetByID(_ context.Context, _ int64) (*domain.Reservation, error) {
	if f.reservation == nil {
		return nil, reservationRepo.ErrReservationNotFound
	}
	return f.reservation, nil
}

func (f *fakeReservationRepo) GetByCustomer(_ context.Context, _ int64, _ *time.Time, statuses []domain.ReservationStatus) ([]*domain.Reservation, error) {
	f.gotCustomerStatuses = statuses
	return f.list, nil
}

func (f *fakeReservationRepo) GetByProfessionalWithFilter(_ context.Context, filter domain.ProfessionalReservationsFilter) ([]*domain.Reservation, error) {
	f.gotFilter = filter
	return f.list, nil
}

type nopLogger struct{}

func (nopLogger) Info(string, ...interface{})  {}
func (nopLogger) Warn(string, ...interface{})  {}
func (nopLogger) Error(string, ...interface{}) {}

func sampleReservation() *domain.Reservation {
	return &domain.Reservation{
		ID:             1,
		ProfessionalID: 42,
		CustomerID:     7,
		Date:           time.Date(2025, time.June, 2, 0, 0, 0, 0, time.UTC),
		Time:           "10:00 am",
		TimeCode:       1000,
		Status:         domain.StatusConfirmed,
	}
}

func TestGetByID_Visibility(t *testing.T) {
	tests := []struct {
		name    string
		userID  int64
		role    domain.ActorRole
		allowed bool
	}{
		{"customer owner", 7, domain.RoleCustomer, true},
		{"other customer", 8, domain.RoleCustomer, false},
		{"professional owner", 42, domain.RoleProfessional, true},
		{"other professional", 43, domain.RoleProfessional, false},
		{"admin", 1, domain.RoleAdmin, true},
	}

	svc := NewService(&fakeReservationRepo{reservation: sampleReservation()}, nopLogger{})

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			resp, err := svc.GetByID(context.Background(), 1, tt.userID, tt.role)
			if tt.allowed {
				require.NoError(t, err)
				assert.Equal(t, int64(1), resp.ID)
			} else {
				assert.ErrorIs(t, err, ErrAccessDenied)
			}
		})
	}
}

func TestGetByID_ProfessionalSeesOwnBookingAsCustomer(t *testing.T) {
	// Мастер записался к другому мастеру как клиент
	res := sampleReservation()
	res.CustomerID = 42
	res.ProfessionalID = 99
	svc := NewService(&fakeReservationRepo{reservation: res}, nopLogger{})
	_, err := svc.GetByID(context.Background(), 1, 42, domain.RoleProfessional)
	assert.NoError(t, err)
}

func TestGetByID_NotFound(t *testing.T) {
	svc := NewService(&fakeReservationRepo{}, nopLogger{})

	_, err := svc.GetByID(context.Background(), 1, 7, domain.RoleCustomer)
	assert.ErrorIs(t, err, ErrReservationNotFound)
}

func TestListByCustomer_AccessAndFilter(t *testing.T) {
	repo := &fakeReservationRepo{list: []*domain.Reservation{sampleReservation()}}
	svc := NewService(repo, nopLogger{})

	status := "confirmed"
	resp, err := svc.ListByCustomer(context.Background(), &models.ListByCustomerRequest{
		UserID:     7,
		Role:       domain.RoleCustomer,
		CustomerID: 7,
		Status:     &status,
	})
	require.NoError(t, err)
	assert.Equal(t, 1, resp.Total)
	assert.Equal(t, []domain.ReservationStatus{domain.StatusConfirmed}, repo.gotCustomerStatuses)

	// Чужая история недоступна
	_, err = svc.ListByCustomer(context.Background(), &models.ListByCustomerRequest{
		UserID:     8,
		Role:       domain.RoleCustomer,
		CustomerID: 7,
	})
	assert.ErrorIs(t, err, ErrAccessDenied)

	// Админ видит любую
	_, err = svc.ListByCustomer(context.Background(), &models.ListByCustomerRequest{
		UserID:     1,
		Role:       domain.RoleAdmin,
		CustomerID: 7,
	})
	assert.NoError(t, err)
}

func TestListByCustomer_InvalidStatus(t *testing.T) {
	svc := NewService(&fakeReservationRepo{}, nopLogger{})

	bad := "unknown"
	_, err := svc.ListByCustomer(context.Background(), &models.ListByCustomerRequest{
		UserID:     7,
		Role:       domain.RoleCustomer,
		CustomerID: 7,
		Status:     &bad,
	})
	assert.ErrorIs(t, err, ErrInvalidInput)
}

func TestListByProfessional_Access(t *testing.T) {
	repo := &fakeReservationRepo{list: []*domain.Reservation{sampleReservation()}}
	svc := NewService(repo, nopLogger{})

	resp, err := svc.ListByProfessional(context.Background(), &models.ListByProfessionalRequest{
		UserID:         42,
		Role:           domain.RoleProfessional,
		ProfessionalID: 42,
	})
	require.NoError(t, err)
	assert.Equal(t, 1, resp.Total)
	assert.Equal(t, int64(42), repo.gotFilter.ProfessionalID)

	// Клиент не видит журнал мастера
	_, err = svc.ListByProfessional(context.Background(), &models.ListByProfessionalRequest{
		UserID:         7,
		Role:           domain.RoleCustomer,
		ProfessionalID: 42,
	})
	assert.ErrorIs(t, err, ErrAccessDenied)

	// Чужой мастер тоже
	_, err = svc.ListByProfessional(context.Background(), &models.ListByProfessionalRequest{
		UserID:         43,
		Role:           domain.RoleProfessional,
		ProfessionalID: 42,
	})
	assert.ErrorIs(t, err, ErrAccessDenied)
}
