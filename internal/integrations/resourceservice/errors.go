package resourceservice

import "errors"

var (
	// ErrResourceNotFound возвращается, когда ресурс не найден в каталоге
	ErrResourceNotFound = errors.New("resource not found")

	// ErrInternal возвращается при внутренних ошибках клиента
	ErrInternal = errors.New("resourceservice client: internal error")

	// ErrInvalidResponse возвращается при некорректном ответе от сервиса
	ErrInvalidResponse = errors.New("resourceservice client: invalid response")
)
