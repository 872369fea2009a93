package find_start_dates

import "errors"

var (
	// ErrResourceNotFound возвращается, когда ресурс не найден в каталоге
	ErrResourceNotFound = errors.New("find_start_dates: resource not found")

	// ErrShiftRequired возвращается, когда для зоны барбекю не указана смена
	ErrShiftRequired = errors.New("find_start_dates: shift is required for this resource")

	// ErrStartTimeRequired возвращается, когда для корта не указано время начала
	ErrStartTimeRequired = errors.New("find_start_dates: start time is required for this resource")

	// ErrSlotTakenByRecurring возвращается, когда еженедельный слот занят
	// активной серией: свободных дат начала не существует в принципе
	ErrSlotTakenByRecurring = errors.New("find_start_dates: weekly slot is taken by a recurring booking")

	// ErrInvalidInput возвращается при некорректных входных данных
	ErrInvalidInput = errors.New("find_start_dates: invalid input data")

	// ErrInternal возвращается при внутренних ошибках usecase
	ErrInternal = errors.New("find_start_dates: internal error")
)
