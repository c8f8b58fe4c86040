package professionalservice

import "errors"

var (
	// ErrProfessionalNotFound возвращается, когда мастер не найден в справочнике
	ErrProfessionalNotFound = errors.New("professional not found")

	// ErrInternal возвращается при внутренних ошибках клиента
	ErrInternal = errors.New("professionalservice client: internal error")

	// ErrInvalidResponse возвращается при некорректном ответе от сервиса
	ErrInvalidResponse = errors.New("professionalservice client: invalid response")
)
