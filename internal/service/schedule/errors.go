package schedule

import "errors"

var (
	// ErrBlockNotFound возвращается, когда блокировка не найдена
	ErrBlockNotFound = errors.New("block not found")

	// ErrWindowNotFound возвращается, когда окно преподавания не найдено
	ErrWindowNotFound = errors.New("teaching window not found")

	// ErrResourceNotFound возвращается, когда ресурс не найден в каталоге
	ErrResourceNotFound = errors.New("resource not found")

	// ErrAccessDenied возвращается, когда у пользователя нет прав доступа
	ErrAccessDenied = errors.New("access denied")

	// ErrInvalidInput возвращается при некорректных входных данных
	ErrInvalidInput = errors.New("invalid input data")

	// ErrInvalidTimeRange возвращается, когда время начала не раньше
	// времени окончания
	ErrInvalidTimeRange = errors.New("invalid time range")

	// ErrPastDate возвращается при попытке создать блокировку на прошедшую дату
	ErrPastDate = errors.New("date is in the past")

	// ErrInternal возвращается при внутренних ошибках сервиса
	ErrInternal = errors.New("service: internal error")
)
