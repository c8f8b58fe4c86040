package create_reservation

import "errors"

var (
	// ErrServiceNotFound возвращается, когда услуга не найдена в каталоге
	ErrServiceNotFound = errors.New("create_reservation: service not found")

	// ErrProfessionalNotFound возвращается, когда мастер не найден
	ErrProfessionalNotFound = errors.New("create_reservation: professional not found")

	// ErrProfessionalInactive возвращается, когда мастер деактивирован
	ErrProfessionalInactive = errors.New("create_reservation: professional is not active")

	// ErrScheduleNotFound возвращается, когда у мастера нет расписания
	ErrScheduleNotFound = errors.New("create_reservation: professional has no schedule")

	// ErrOutsideOperatingHours возвращается, когда интервал услуги выходит
	// за рабочие часы мастера в этот день недели
	ErrOutsideOperatingHours = errors.New("create_reservation: outside operating hours")

	// ErrSchedulingConflict возвращается, когда ёмкость мастера на интервале исчерпана
	// или стартовый слот закрыт
	ErrSchedulingConflict = errors.New("create_reservation: scheduling conflict")

	// ErrTimeInPast возвращается, когда начало услуги уже прошло
	ErrTimeInPast = errors.New("create_reservation: service start is in the past")

	// ErrInvalidInput возвращается при некорректных входных данных
	ErrInvalidInput = errors.New("create_reservation: invalid input data")

	// ErrInternal возвращается при внутренних ошибках usecase
	ErrInternal = errors.New("create_reservation: internal error")
)
