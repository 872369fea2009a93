package bookings

import "errors"

var (
	// ErrBookingNotFound возвращается, когда бронирование не найдено
	ErrBookingNotFound = errors.New("booking not found")

	// ErrRecurringNotFound возвращается, когда еженедельное бронирование не найдено
	ErrRecurringNotFound = errors.New("recurring booking not found")

	// ErrAccessDenied возвращается, когда у пользователя нет прав доступа
	ErrAccessDenied = errors.New("access denied")

	// ErrTerminalStatus возвращается при попытке изменить бронирование
	// в терминальном статусе
	ErrTerminalStatus = errors.New("booking is in terminal status")

	// ErrInvalidInput возвращается при некорректных входных данных
	ErrInvalidInput = errors.New("invalid input data")

	// ErrInvalidExceptionDate возвращается, когда дата исключения не
	// соответствует дню недели серии или предшествует началу серии
	ErrInvalidExceptionDate = errors.New("invalid exception date")

	// ErrExceptionExists возвращается, когда исключение на эту дату уже создано
	ErrExceptionExists = errors.New("exception already exists for this date")

	// ErrPastDate возвращается при попытке операции над прошедшей датой
	ErrPastDate = errors.New("date is in the past")

	// ErrSelfTransfer возвращается при попытке передать бронирование самому себе
	ErrSelfTransfer = errors.New("cannot transfer booking to the same owner")

	// ErrInternal возвращается при внутренних ошибках сервиса
	ErrInternal = errors.New("service: internal error")
)
