package create_booking

import "errors"

var (
	// ErrResourceNotFound возвращается, когда ресурс не найден в каталоге
	ErrResourceNotFound = errors.New("create_booking: resource not found")

	// ErrResourceInactive возвращается, когда ресурс выведен из эксплуатации
	ErrResourceInactive = errors.New("create_booking: resource is inactive")

	// ErrAccessDenied возвращается при бронировании от чужого имени без прав
	ErrAccessDenied = errors.New("create_booking: access denied")

	// ErrInvalidDate возвращается при бронировании на прошедший слот
	ErrInvalidDate = errors.New("create_booking: invalid booking date")

	// ErrInvalidTimeSlot возвращается, когда время вне рабочих часов или
	// не выровнено по сетке слотов
	ErrInvalidTimeSlot = errors.New("create_booking: invalid time slot")

	// ErrShiftRequired возвращается, когда для зоны барбекю не указана смена
	ErrShiftRequired = errors.New("create_booking: shift is required for this resource")

	// ErrStartTimeRequired возвращается, когда для корта не указано время начала
	ErrStartTimeRequired = errors.New("create_booking: start time is required for this resource")

	// ErrOutsideTeachingWindow возвращается, когда занятие с инструктором
	// не попадает в окно преподавания
	ErrOutsideTeachingWindow = errors.New("create_booking: outside teaching window")

	// ErrSlotBlocked возвращается, когда слот накрыт административной блокировкой
	ErrSlotBlocked = errors.New("create_booking: slot is blocked")

	// ErrSlotTaken возвращается, когда слот занят одноразовым бронированием
	ErrSlotTaken = errors.New("create_booking: slot is already booked")

	// ErrSlotTakenByRecurring возвращается, когда слот занят вхождением
	// еженедельной серии
	ErrSlotTakenByRecurring = errors.New("create_booking: slot is taken by a recurring booking")

	// ErrInvalidInput возвращается при некорректных входных данных
	ErrInvalidInput = errors.New("create_booking: invalid input data")

	// ErrInternal возвращается при внутренних ошибках usecase
	ErrInternal = errors.New("create_booking: internal error")
)
