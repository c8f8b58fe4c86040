package reservations

import (
	"context"
	"errors"
	"fmt"

	"github.com/m04kA/SMC-ReservationService/internal/domain"
	reservationRepo "github.com/m04kA/SMC-ReservationService/internal/infra/storage/reservation"
	"github.com/m04kA/SMC-ReservationService/internal/service/reservations/models"
)

// Service сервис чтения броней (read model)
type Service struct {
	reservationRepo ReservationRepository
	logger          Logger
}

// NewService создает новый экземпляр сервиса броней
func NewService(reservationRepo ReservationRepository, logger Logger) *Service {
	return &Service{
		reservationRepo: reservationRepo,
		logger:          logger,
	}
}

// GetByID возвращает бронь по ID
// Доступно клиенту брони, мастеру брони и админу
func (s *Service) GetByID(ctx context.Context, id, userID int64, role domain.ActorRole) (*models.ReservationResponse, error) {
	s.logger.Info("GetByID: fetching reservation id=%d for user=%d", id, userID)

	res, err := s.reservationRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, reservationRepo.ErrReservationNotFound) {
			s.logger.Warn("GetByID: reservation id=%d not found", id)
			return nil, ErrReservationNotFound
		}
		s.logger.Error("GetByID: repository error for reservation id=%d: %v", id, err)
		return nil, fmt.Errorf("%w: GetByID - repository error: %v", ErrInternal, err)
	}

	if !canView(res, userID, role) {
		s.logger.Warn("GetByID: access denied for user=%d to reservation id=%d", userID, id)
		return nil, ErrAccessDenied
	}

	return models.FromDomainReservation(res), nil
}

// ListByCustomer возвращает историю броней клиента
// Клиент видит только свои брони
func (s *Service) ListByCustomer(ctx context.Context, req *models.ListByCustomerRequest) (*models.ReservationListResponse, error) {
	s.logger.Info("ListByCustomer: fetching reservations for customer=%d by user=%d", req.CustomerID, req.UserID)

	if req.Role != domain.RoleAdmin && req.UserID != req.CustomerID {
		s.logger.Warn("ListByCustomer: access denied for user=%d to customer=%d", req.UserID, req.CustomerID)
		return nil, ErrAccessDenied
	}

	statuses, err := statusFilter(req.Status)
	if err != nil {
		return nil, err
	}

	list, err := s.reservationRepo.GetByCustomer(ctx, req.CustomerID, req.Date, statuses)
	if err != nil {
		s.logger.Error("ListByCustomer: repository error for customer=%d: %v", req.CustomerID, err)
		return nil, fmt.Errorf("%w: ListByCustomer - repository error: %v", ErrInternal, err)
	}

	s.logger.Info("ListByCustomer: fetched %d reservation(s) for customer=%d", len(list), req.CustomerID)
	return models.FromDomainReservationList(list), nil
}

// ListByProfessional возвращает брони мастера
// Мастер видит только свои брони
func (s *Service) ListByProfessional(ctx context.Context, req *models.ListByProfessionalRequest) (*models.ReservationListResponse, error) {
	s.logger.Info("ListByProfessional: fetching reservations for professional=%d by user=%d",
		req.ProfessionalID, req.UserID)

	if req.Role != domain.RoleAdmin &&
		!(req.Role == domain.RoleProfessional && req.UserID == req.ProfessionalID) {
		s.logger.Warn("ListByProfessional: access denied for user=%d to professional=%d",
			req.UserID, req.ProfessionalID)
		return nil, ErrAccessDenied
	}

	statuses, err := statusFilter(req.Status)
	if err != nil {
		return nil, err
	}

	filter := domain.ProfessionalReservationsFilter{
		ProfessionalID: req.ProfessionalID,
		Date:           req.Date,
		Statuses:       statuses,
	}
	list, err := s.reservationRepo.GetByProfessionalWithFilter(ctx, filter)
	if err != nil {
		s.logger.Error("ListByProfessional: repository error for professional=%d: %v", req.ProfessionalID, err)
		return nil, fmt.Errorf("%w: ListByProfessional - repository error: %v", ErrInternal, err)
	}

	s.logger.Info("ListByProfessional: fetched %d reservation(s) for professional=%d", len(list), req.ProfessionalID)
	return models.FromDomainReservationList(list), nil
}

func statusFilter(raw *string) ([]domain.ReservationStatus, error) {
	if raw == nil {
		return nil, nil
	}
	status, ok := models.ToDomainStatus(*raw)
	if !ok {
		return nil, fmt.Errorf("%w: invalid status %q", ErrInvalidInput, *raw)
	}
	return []domain.ReservationStatus{status}, nil
}

func canView(r *domain.Reservation, userID int64, role domain.ActorRole) bool {
	switch role {
	case domain.RoleAdmin:
		return true
	case domain.RoleProfessional:
		return r.ProfessionalID == userID || r.CustomerID == userID
	default:
		return r.CustomerID == userID
	}
}
