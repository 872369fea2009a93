package accessservice

import "errors"

var (
	// ErrUserNotFound возвращается, когда пользователь не зарегистрирован в сервисе доступа
	ErrUserNotFound = errors.New("user not found in access service")

	// ErrInternal возвращается при внутренних ошибках клиента
	ErrInternal = errors.New("accessservice client: internal error")

	// ErrInvalidResponse возвращается при некорректном ответе от сервиса
	ErrInvalidResponse = errors.New("accessservice client: invalid response")
)
