package change_status

import "errors"

var (
	// ErrReservationNotFound возвращается, когда бронь не найдена
	ErrReservationNotFound = errors.New("change_status: reservation not found")

	// ErrForbidden возвращается, когда актор не вправе выполнить переход
	ErrForbidden = errors.New("change_status: actor is not allowed to perform this transition")

	// ErrIllegalTransition возвращается, когда переход не входит в таблицу легальных рёбер
	ErrIllegalTransition = errors.New("change_status: illegal status transition")

	// ErrSchedulingConflict возвращается, когда повторная проверка конфликтов
	// при подтверждении обнаруживает исчерпание ёмкости
	ErrSchedulingConflict = errors.New("change_status: scheduling conflict")

	// ErrNotStartedYet возвращается при попытке начать услугу до её времени начала
	ErrNotStartedYet = errors.New("change_status: service start time has not arrived")

	// ErrNotFinishedYet возвращается при попытке завершить услугу до её времени конца
	ErrNotFinishedYet = errors.New("change_status: service end time has not arrived")

	// ErrInvalidInput возвращается при некорректных входных данных
	ErrInvalidInput = errors.New("change_status: invalid input data")

	// ErrInternal возвращается при внутренних ошибках usecase
	ErrInternal = errors.New("change_status: internal error")
)
