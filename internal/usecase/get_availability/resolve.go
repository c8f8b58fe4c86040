package get_availability

import (
	"time"

	"github.com/m04kA/SMC-ReservationService/internal/domain"
)

// resolveDay применяет к сохранённым слотам дня все правила резолвера:
// прошедшее время, удержание клиентом, вместимость услуги до закрытия дня
// и закрытые промежуточные слоты. Порядок слотов сохраняется.
func (uc *UseCase) resolveDay(
	day *domain.Day,
	date time.Time,
	now time.Time,
	held []*domain.Reservation,
	durationMinutes *int,
) DayAvailability {
	out := DayAvailability{
		Day:       domain.WeekdayName(day.Weekday),
		Date:      date.Format(domain.DateFormat),
		StartTime: day.StartTime,
		EndTime:   day.EndTime,
		TimeSlots: make([]SlotAvailability, 0, len(day.Slots)),
	}

	today := sameDate(date, now)

	for i := range day.Slots {
		slot := &day.Slots[i]
		available := slot.IsAvailable
		instant := slot.TimeCode.ToInstant(date, uc.location)

		// 1. Прошедшее время: сегодняшние слоты, чьё начало уже наступило
		if available && today && !instant.After(now) {
			available = false
		}

		// 2. Клиент уже удерживает бронь, начинающуюся ровно в этот инстант
		if available && holdsAt(held, instant) {
			available = false
		}

		// 3. Вместимость услуги заданной длительности
		if available && durationMinutes != nil {
			available = uc.fitsDuration(day, slot, *durationMinutes)
		}

		out.TimeSlots = append(out.TimeSlots, SlotAvailability{
			Time:        slot.Time,
			TimeCode:    int(slot.TimeCode),
			IsAvailable: available,
			Discount:    slot.Discount,
		})
	}
	return out
}

// fitsDuration проверяет, что услуга длиной d минут, начатая в слоте slot,
// заканчивается до закрытия дня и не накрывает закрытый промежуточный слот
func (uc *UseCase) fitsDuration(day *domain.Day, slot *domain.TimeSlot, d int) bool {
	endCode, err := slot.TimeCode.AddMinutes(d)
	if err != nil || endCode > day.EndCode {
		return false
	}
	// Слоты строго внутри [start, start+duration): занятый промежуточный
	// слот означает, что услуга "перешагнула" бы закрытое окно
	for i := range day.Slots {
		s := &day.Slots[i]
		if s.TimeCode > slot.TimeCode && s.TimeCode < endCode && !s.IsAvailable {
			return false
		}
	}
	return true
}

func holdsAt(held []*domain.Reservation, instant time.Time) bool {
	for _, r := range held {
		if r.ServiceStart.Equal(instant) {
			return true
		}
	}
	return false
}

func sameDate(a, b time.Time) bool {
	ay, am, ad := a.Date()
	by, bm, bd := b.Date()
	return ay == by && am == bm && ad == bd
}
