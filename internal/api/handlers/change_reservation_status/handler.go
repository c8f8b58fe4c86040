package change_reservation_status

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gorilla/mux"

	"github.com/m04kA/SMC-ReservationService/internal/api/handlers"
	"github.com/m04kA/SMC-ReservationService/internal/api/middleware"
	changeStatus "github.com/m04kA/SMC-ReservationService/internal/usecase/change_status"
	"github.com/m04kA/SMC-ReservationService/pkg/txmanager"
)

const (
	msgUnauthorized        = "требуется аутентификация"
	msgInvalidID           = "некорректный идентификатор брони"
	msgInvalidRequestBody  = "некорректное тело запроса"
	msgInvalidInput        = "некорректные входные данные"
	msgReservationNotFound = "бронь не найдена"
	msgForbidden           = "недостаточно прав для этого перехода"
	msgIllegalTransition   = "переход из текущего статуса недопустим"
	msgSchedulingConflict  = "подтверждение невозможно: ёмкость исчерпана"
	msgNotStartedYet       = "время начала услуги ещё не наступило"
	msgNotFinishedYet      = "время окончания услуги ещё не наступило"
	msgUnavailable         = "сервис временно недоступен, повторите попытку"
)

// ChangeStatusRequest HTTP request model
type ChangeStatusRequest struct {
	Status string   `json:"status"`
	Amount *float64 `json:"amount,omitempty"`
}

type Handler struct {
	useCase ChangeStatusUseCase
	logger  Logger
}

func NewHandler(useCase ChangeStatusUseCase, logger Logger) *Handler {
	return &Handler{
		useCase: useCase,
		logger:  logger,
	}
}

// Handle PATCH /api/v1/reservations/{reservationId}/status
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	actor, ok := middleware.ActorFromContext(r.Context())
	if !ok {
		handlers.RespondForbidden(w, msgUnauthorized)
		return
	}

	reservationID, err := strconv.ParseInt(mux.Vars(r)["reservationId"], 10, 64)
	if err != nil || reservationID <= 0 {
		handlers.RespondBadRequest(w, msgInvalidID)
		return
	}

	var req ChangeStatusRequest
	if err := handlers.DecodeJSON(r, &req); err != nil {
		h.logger.Warn("PATCH /reservations/%d/status - Invalid request body: %v", reservationID, err)
		handlers.RespondBadRequest(w, msgInvalidRequestBody)
		return
	}

	result, err := h.useCase.Execute(r.Context(), &changeStatus.Request{
		ReservationID: reservationID,
		ActorID:       actor.ID,
		ActorRole:     actor.Role,
		TargetStatus:  req.Status,
		Amount:        req.Amount,
	})
	if err != nil {
		switch {
		case errors.Is(err, changeStatus.ErrInvalidInput):
			h.logger.Warn("PATCH /reservations/%d/status - Invalid input: %v", reservationID, err)
			handlers.RespondBadRequest(w, msgInvalidInput)

		case errors.Is(err, changeStatus.ErrReservationNotFound):
			h.logger.Warn("PATCH /reservations/%d/status - Not found", reservationID)
			handlers.RespondNotFound(w, msgReservationNotFound)

		case errors.Is(err, changeStatus.ErrForbidden):
			h.logger.Warn("PATCH /reservations/%d/status - Forbidden: actor_id=%d, role=%s, target=%s",
				reservationID, actor.ID, actor.Role, req.Status)
			handlers.RespondForbidden(w, msgForbidden)

		case errors.Is(err, changeStatus.ErrIllegalTransition):
			h.logger.Warn("PATCH /reservations/%d/status - Illegal transition to %s", reservationID, req.Status)
			handlers.RespondConflict(w, msgIllegalTransition)

		case errors.Is(err, changeStatus.ErrSchedulingConflict):
			h.logger.Warn("PATCH /reservations/%d/status - Scheduling conflict on confirm", reservationID)
			handlers.RespondConflict(w, msgSchedulingConflict)

		case errors.Is(err, changeStatus.ErrNotStartedYet):
			h.logger.Warn("PATCH /reservations/%d/status - Service has not started yet", reservationID)
			handlers.RespondBadRequest(w, msgNotStartedYet)

		case errors.Is(err, changeStatus.ErrNotFinishedYet):
			h.logger.Warn("PATCH /reservations/%d/status - Service has not finished yet", reservationID)
			handlers.RespondBadRequest(w, msgNotFinishedYet)

		case errors.Is(err, txmanager.ErrUnavailable):
			h.logger.Error("PATCH /reservations/%d/status - Transaction retries exhausted", reservationID)
			handlers.RespondUnavailable(w, msgUnavailable)

		default:
			h.logger.Error("PATCH /reservations/%d/status - Failed: actor_id=%d, error=%v",
				reservationID, actor.ID, err)
			handlers.RespondInternalError(w)
		}
		return
	}

	h.logger.Info("PATCH /reservations/%d/status - Status changed to %s by actor_id=%d",
		reservationID, result.Status, actor.ID)
	handlers.RespondJSON(w, http.StatusOK, result)
}
