package set_slot_discount

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
	msgInvalidTimeCode    = "некорректный time code слота"
	msgInvalidRequestBody = "некорректное тело запроса"
	msgInvalidInput       = "скидка должна быть в диапазоне 0-100"
	msgAccessDenied       = "скидки может менять только владелец расписания"
	msgScheduleNotFound   = "у мастера нет расписания"
	msgSlotNotFound       = "слот не найден"
)

// SetDiscountRequest HTTP request model
type SetDiscountRequest struct {
	Discount int `json:"discount"`
}

// AckResponse подтверждение применения скидки
type AckResponse struct {
	Message string `json:"message"`
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

// Handle PATCH /api/v1/professionals/{professionalId}/schedule/{day}/slots/{timeCode}/discount
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	actor, ok := middleware.ActorFromContext(r.Context())
	if !ok {
		handlers.RespondForbidden(w, msgUnauthorized)
		return
	}

	vars := mux.Vars(r)
	professionalID, err := strconv.ParseInt(vars["professionalId"], 10, 64)
	if err != nil || professionalID <= 0 {
		handlers.RespondBadRequest(w, msgInvalidID)
		return
	}
	timeCode, err := strconv.Atoi(vars["timeCode"])
	if err != nil {
		handlers.RespondBadRequest(w, msgInvalidTimeCode)
		return
	}

	var req SetDiscountRequest
	if err := handlers.DecodeJSON(r, &req); err != nil {
		h.logger.Warn("PATCH discount - Invalid request body: professional_id=%d, error=%v", professionalID, err)
		handlers.RespondBadRequest(w, msgInvalidRequestBody)
		return
	}

	err = h.service.SetSlotDiscount(r.Context(), &models.SetSlotDiscountRequest{
		UserID:         actor.ID,
		Role:           actor.Role,
		ProfessionalID: professionalID,
		Day:            vars["day"],
		TimeCode:       timeCode,
		Discount:       req.Discount,
	})
	if err != nil {
		switch {
		case errors.Is(err, schedules.ErrAccessDenied):
			h.logger.Warn("PATCH discount - Access denied: professional_id=%d, user_id=%d", professionalID, actor.ID)
			handlers.RespondForbidden(w, msgAccessDenied)

		case errors.Is(err, schedules.ErrScheduleNotFound):
			h.logger.Warn("PATCH discount - No schedule: professional_id=%d", professionalID)
			handlers.RespondNotFound(w, msgScheduleNotFound)

		case errors.Is(err, schedules.ErrSlotNotFound):
			h.logger.Warn("PATCH discount - Slot not found: professional_id=%d, day=%s, time_code=%d",
				professionalID, vars["day"], timeCode)
			handlers.RespondNotFound(w, msgSlotNotFound)

		case errors.Is(err, schedules.ErrInvalidInput):
			h.logger.Warn("PATCH discount - Invalid input: professional_id=%d, error=%v", professionalID, err)
			handlers.RespondBadRequest(w, msgInvalidInput)

		default:
			h.logger.Error("PATCH discount - Failed: professional_id=%d, error=%v", professionalID, err)
			handlers.RespondInternalError(w)
		}
		return
	}

	h.logger.Info("PATCH discount - Discount set: professional_id=%d, day=%s, time_code=%d, discount=%d",
		professionalID, vars["day"], timeCode, req.Discount)
	handlers.RespondJSON(w, http.StatusOK, AckResponse{Message: "discount applied"})
}
