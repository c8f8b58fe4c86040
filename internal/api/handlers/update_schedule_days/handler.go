package update_schedule_days

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
	msgUnauthorized       = "требуется аутентификация"
	msgInvalidID          = "некорректный идентификатор мастера"
	msgInvalidRequestBody = "некорректное тело запроса"
	msgInvalidInput       = "некорректные данные расписания"
	msgAccessDenied       = "расписание может менять только его владелец"
	msgScheduleNotFound   = "у мастера нет расписания"
	msgDayNotFound        = "день не настроен в расписании"
)

// UpdateDaysRequest HTTP request model
type UpdateDaysRequest struct {
	Days []models.PartialDayInput `json:"days"`
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

// Handle PATCH /api/v1/professionals/{professionalId}/schedule/days
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

	var req UpdateDaysRequest
	if err := handlers.DecodeJSON(r, &req); err != nil {
		h.logger.Warn("PATCH /professionals/%d/schedule/days - Invalid request body: %v", professionalID, err)
		handlers.RespondBadRequest(w, msgInvalidRequestBody)
		return
	}

	result, err := h.service.UpdateDays(r.Context(), &models.UpdateDaysRequest{
		UserID:         actor.ID,
		Role:           actor.Role,
		ProfessionalID: professionalID,
		Days:           req.Days,
	})
	if err != nil {
		switch {
		case errors.Is(err, schedules.ErrAccessDenied):
			h.logger.Warn("PATCH /professionals/%d/schedule/days - Access denied for user_id=%d",
				professionalID, actor.ID)
			handlers.RespondForbidden(w, msgAccessDenied)

		case errors.Is(err, schedules.ErrScheduleNotFound):
			h.logger.Warn("PATCH /professionals/%d/schedule/days - No schedule", professionalID)
			handlers.RespondNotFound(w, msgScheduleNotFound)

		case errors.Is(err, schedules.ErrDayNotFound):
			h.logger.Warn("PATCH /professionals/%d/schedule/days - Day not found", professionalID)
			handlers.RespondNotFound(w, msgDayNotFound)

		case errors.Is(err, schedules.ErrInvalidInput):
			h.logger.Warn("PATCH /professionals/%d/schedule/days - Invalid input: %v", professionalID, err)
			handlers.RespondBadRequest(w, msgInvalidInput)

		default:
			h.logger.Error("PATCH /professionals/%d/schedule/days - Failed: %v", professionalID, err)
			handlers.RespondInternalError(w)
		}
		return
	}

	h.logger.Info("PATCH /professionals/%d/schedule/days - Days updated: schedule_id=%d", professionalID, result.ID)
	handlers.RespondJSON(w, http.StatusOK, result)
}
