package upsert_schedule

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gorilla/mux"

	"github.com/m04kA/SMC-ReservationService/internal/api/handlers"
	"github.com/m04kA/SMC-ReservationService/internal/api/middleware"
	"github.com/m04kA/SMC-ReservationService/internal/service/schedules"
	"github.com/m04kA/SMC-ReservationService/internal/service/schedules/models"
)

const (
	msgUnauthorized         = "требуется аутентификация"
	msgInvalidID            = "некорректный идентификатор мастера"
	msgInvalidRequestBody   = "некорректное тело запроса"
	msgInvalidInput         = "некорректные данные расписания"
	msgAccessDenied         = "расписание может менять только его владелец"
	msgProfessionalNotFound = "мастер не найден"
)

// UpsertScheduleRequest HTTP request model
type UpsertScheduleRequest struct {
	Days []models.DayInput `json:"days"`
}

type Handler struct {
	service SchedulesService
	logger  Logger
}

func NewHandler(service SchedulesService, logger Logger) *Handler {
	return &Handler{
		service: service,
		logger:  logger,
	}
}

// Handle PUT /api/v1/professionals/{professionalId}/schedule
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	actor, ok := middleware.ActorFromContext(r.Context())
	if !ok {
		handlers.RespondForbidden(w, msgUnauthorized)
		return
	}

	professionalID, err := strconv.ParseInt(mux.Vars(r)["professionalId"], 10, 64)
	if err != nil || professionalID <= 0 {
		handlers.RespondBadRequest(w, msgInvalidID)
		return
	}

	var req UpsertScheduleRequest
	if err := handlers.DecodeJSON(r, &req); err != nil {
		h.logger.Warn("PUT /professionals/%d/schedule - Invalid request body: %v", professionalID, err)
		handlers.RespondBadRequest(w, msgInvalidRequestBody)
		return
	}

	result, err := h.service.Upsert(r.Context(), &models.UpsertScheduleRequest{
		UserID:         actor.ID,
		Role:           actor.Role,
		ProfessionalID: professionalID,
		Days:           req.Days,
	})
	if err != nil {
		switch {
		case errors.Is(err, schedules.ErrAccessDenied):
			h.logger.Warn("PUT /professionals/%d/schedule - Access denied for user_id=%d", professionalID, actor.ID)
			handlers.RespondForbidden(w, msgAccessDenied)

		case errors.Is(err, schedules.ErrProfessionalNotFound):
			h.logger.Warn("PUT /professionals/%d/schedule - Professional not found", professionalID)
			handlers.RespondNotFound(w, msgProfessionalNotFound)

		case errors.Is(err, schedules.ErrInvalidInput):
			h.logger.Warn("PUT /professionals/%d/schedule - Invalid input: %v", professionalID, err)
			handlers.RespondBadRequest(w, msgInvalidInput)

		default:
			h.logger.Error("PUT /professionals/%d/schedule - Failed: %v", professionalID, err)
			handlers.RespondInternalError(w)
		}
		return
	}

	h.logger.Info("PUT /professionals/%d/schedule - Schedule saved: schedule_id=%d", professionalID, result.ID)
	handlers.RespondJSON(w, http.StatusOK, result)
}
