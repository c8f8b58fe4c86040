package schedules

import "errors"

var (
	// ErrProfessionalNotFound возвращается, когда мастер не найден
	ErrProfessionalNotFound = errors.New("schedules: professional not found")

	// ErrScheduleNotFound возвращается, когда у мастера нет расписания
	ErrScheduleNotFound = errors.New("schedules: schedule not found")

	// ErrDayNotFound возвращается, когда день не настроен в расписании
	ErrDayNotFound = errors.New("schedules: day not found in schedule")

	// ErrSlotNotFound возвращается, когда слот с таким time code отсутствует
	ErrSlotNotFound = errors.New("schedules: slot not found")

	// ErrAccessDenied возвращается, когда у пользователя нет прав на изменение расписания
	ErrAccessDenied = errors.New("schedules: access denied")

	// ErrInvalidInput возвращается при некорректных входных данных
	ErrInvalidInput = errors.New("schedules: invalid input data")

	// ErrInternal возвращается при внутренних ошибках сервиса
	ErrInternal = errors.New("schedules: internal error")
)
