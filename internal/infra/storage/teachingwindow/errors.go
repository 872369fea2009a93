package teachingwindow

import "errors"

var (
	// ErrWindowNotFound возвращается, когда учебное окно не найдено
	ErrWindowNotFound = errors.New("teachingwindow.repository: teaching window not found")

	// ErrBuildQuery возвращается при ошибке построения SQL запроса
	ErrBuildQuery = errors.New("teachingwindow.repository: failed to build query")

	// ErrExecQuery возвращается при ошибке выполнения SQL запроса
	ErrExecQuery = errors.New("teachingwindow.repository: failed to execute query")

	// ErrScanRow возвращается при ошибке сканирования результата запроса
	ErrScanRow = errors.New("teachingwindow.repository: failed to scan row")
)
