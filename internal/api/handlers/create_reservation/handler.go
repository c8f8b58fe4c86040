package create_reservation

import (
	"errors"
	"net/http"

	"github.com/m04kA/SMC-ReservationService/internal/api/handlers"
	"github.com/m04kA/SMC-ReservationService/internal/api/middleware"
	createReservation "github.com/m04kA/SMC-ReservationService/internal/usecase/create_reservation"
	"github.com/m04kA/SMC-ReservationService/pkg/txmanager"
)

const (
	msgUnauthorized         = "требуется аутентификация"
	msgInvalidRequestBody   = "некорректное тело запроса"
	msgInvalidDate          = "некорректный формат даты, ожидается YYYY-MM-DD"
	msgInvalidInput         = "некорректные входные данные"
	msgServiceNotFound      = "услуга не найдена"
	msgProfessionalNotFound = "мастер не найден"
	msgProfessionalInactive = "мастер недоступен для бронирования"
	msgScheduleNotFound     = "у мастера нет расписания"
	msgOutsideHours         = "время вне рабочих часов мастера"
	msgSchedulingConflict   = "слот недоступен: пересечение с другой бронью"
	msgTimeInPast           = "время начала уже прошло"
	msgUnavailable          = "сервис временно недоступен, повторите попытку"
)

type Handler struct {
	useCase CreateReservationUseCase
	logger  Logger
}

func NewHandler(useCase CreateReservationUseCase, logger Logger) *Handler {
	return &Handler{
		useCase: useCase,
		logger:  logger,
	}
}

// Handle POST /api/v1/reservations
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	actor, ok := middleware.ActorFromContext(r.Context())
	if !ok {
		handlers.RespondForbidden(w, msgUnauthorized)
		return
	}

	var req CreateReservationRequest
	if err := handlers.DecodeJSON(r, &req); err != nil {
		h.logger.Warn("POST /reservations - Invalid request body: %v", err)
		handlers.RespondBadRequest(w, msgInvalidRequestBody)
		return
	}

	useCaseReq, err := req.ToUseCaseRequest(actor.ID)
	if err != nil {
		h.logger.Warn("POST /reservations - Failed to parse date %q: %v", req.Date, err)
		handlers.RespondBadRequest(w, msgInvalidDate)
		return
	}

	result, err := h.useCase.Execute(r.Context(), useCaseReq)
	if err != nil {
		switch {
		case errors.Is(err, createReservation.ErrInvalidInput):
			h.logger.Warn("POST /reservations - Invalid input: customer_id=%d, error=%v", actor.ID, err)
			handlers.RespondBadRequest(w, msgInvalidInput)

		case errors.Is(err, createReservation.ErrServiceNotFound):
			h.logger.Warn("POST /reservations - Service not found: service_id=%d", req.ServiceID)
			handlers.RespondNotFound(w, msgServiceNotFound)

		case errors.Is(err, createReservation.ErrProfessionalNotFound):
			h.logger.Warn("POST /reservations - Professional not found: professional_id=%d", req.ProfessionalID)
			handlers.RespondNotFound(w, msgProfessionalNotFound)

		case errors.Is(err, createReservation.ErrProfessionalInactive):
			h.logger.Warn("POST /reservations - Professional inactive: professional_id=%d", req.ProfessionalID)
			handlers.RespondBadRequest(w, msgProfessionalInactive)

		case errors.Is(err, createReservation.ErrScheduleNotFound):
			h.logger.Warn("POST /reservations - No schedule: professional_id=%d", req.ProfessionalID)
			handlers.RespondNotFound(w, msgScheduleNotFound)

		case errors.Is(err, createReservation.ErrOutsideOperatingHours):
			h.logger.Warn("POST /reservations - Outside operating hours: professional_id=%d, time=%s",
				req.ProfessionalID, req.Time)
			handlers.RespondBadRequest(w, msgOutsideHours)

		case errors.Is(err, createReservation.ErrTimeInPast):
			h.logger.Warn("POST /reservations - Time in past: customer_id=%d, date=%s, time=%s",
				actor.ID, req.Date, req.Time)
			handlers.RespondBadRequest(w, msgTimeInPast)

		case errors.Is(err, createReservation.ErrSchedulingConflict):
			h.logger.Warn("POST /reservations - Scheduling conflict: professional_id=%d, date=%s, time=%s",
				req.ProfessionalID, req.Date, req.Time)
			handlers.RespondConflict(w, msgSchedulingConflict)

		case errors.Is(err, txmanager.ErrUnavailable):
			h.logger.Error("POST /reservations - Transaction retries exhausted: professional_id=%d", req.ProfessionalID)
			handlers.RespondUnavailable(w, msgUnavailable)

		default:
			h.logger.Error("POST /reservations - Failed to create reservation: customer_id=%d, error=%v",
				actor.ID, err)
			handlers.RespondInternalError(w)
		}
		return
	}

	h.logger.Info("POST /reservations - Reservation created: reservation_id=%d, customer_id=%d, professional_id=%d",
		result.ID, actor.ID, req.ProfessionalID)
	handlers.RespondJSON(w, http.StatusCreated, FromUseCaseResponse(result))
}
