package recurring

import "errors"

var (
	// ErrRecurringNotFound возвращается, когда еженедельное бронирование не найдено
	ErrRecurringNotFound = errors.New("recurring.repository: recurring booking not found")

	// ErrSlotTaken возвращается при нарушении уникальности слота
	// (resource_id, weekday, start_time) на вставке
	ErrSlotTaken = errors.New("recurring.repository: recurring slot already taken")

	// ErrExceptionExists возвращается при попытке создать второе исключение
	// на ту же дату того же бронирования
	ErrExceptionExists = errors.New("recurring.repository: exception already exists for this date")

	// ErrBuildQuery возвращается при ошибке построения SQL запроса
	ErrBuildQuery = errors.New("recurring.repository: failed to build query")

	// ErrExecQuery возвращается при ошибке выполнения SQL запроса
	ErrExecQuery = errors.New("recurring.repository: failed to execute query")

	// ErrScanRow возвращается при ошибке сканирования результата запроса
	ErrScanRow = errors.New("recurring.repository: failed to scan row")
)
