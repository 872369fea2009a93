package models

import (
	"errors"
	"time"

	"github.com/quadralivre/facility-booking-service/internal/domain"
)

var (
	// ErrInvalidStatus возвращается при некорректном статусе
	ErrInvalidStatus = errors.New("invalid booking status")
)

// Request модели

// CancelBookingRequest запрос на отмену бронирования
type CancelBookingRequest struct {
	RequesterID        int64  `json:"requesterId"`
	CancellationReason string `json:"cancellationReason"`
}

// TransferBookingRequest запрос на передачу бронирования другому владельцу
type TransferBookingRequest struct {
	RequesterID    int64 `json:"requesterId"`
	NewOwnerID     int64 `json:"newOwnerId"`
	CopyExceptions bool  `json:"copyExceptions,omitempty"`
}

// CreateExceptionRequest запрос на пропуск одного вхождения серии
type CreateExceptionRequest struct {
	RequesterID int64   `json:"requesterId"`
	Date        string  `json:"date"` // "2025-03-12"
	Reason      *string `json:"reason,omitempty"`
}

// GetOwnerBookingsRequest запрос истории бронирований владельца
type GetOwnerBookingsRequest struct {
	RequesterID int64   `json:"requesterId"`
	OwnerID     int64   `json:"ownerId"`
	Status      *string `json:"status,omitempty"`
}

// GetResourceBookingsRequest запрос бронирований ресурса за период
type GetResourceBookingsRequest struct {
	RequesterID     int64      `json:"requesterId"`
	ResourceID      int64      `json:"resourceId"`
	StartDate       *time.Time `json:"startDate,omitempty"`
	EndDate         *time.Time `json:"endDate,omitempty"`
	Status          *string    `json:"status,omitempty"`
	IncludeInactive bool       `json:"includeInactive,omitempty"`
}

// ToDomainFilter конвертирует request в domain фильтр
func (r *GetResourceBookingsRequest) ToDomainFilter() (domain.BookingsFilter, error) {
	filter := domain.BookingsFilter{
		ResourceID:      &r.ResourceID,
		StartDate:       r.StartDate,
		EndDate:         r.EndDate,
		IncludeInactive: r.IncludeInactive,
	}

	if r.Status != nil {
		status, err := ToDomainBookingStatus(*r.Status)
		if err != nil {
			return filter, err
		}
		filter.Status = &status
	}

	return filter, nil
}

// Response модели

// OneOffBookingResponse ответ с данными одноразового бронирования
type OneOffBookingResponse struct {
	ID         int64  `json:"id"`
	ResourceID int64  `json:"resourceId"`
	Date       string `json:"date"`      // "2025-10-15"
	StartTime  string `json:"startTime"` // "19:00"
	Shift      string `json:"shift,omitempty"`
	OwnerID    int64  `json:"ownerId"`
	Status     string `json:"status"`

	InstructorID *int64  `json:"instructorId,omitempty"`
	SessionKind  *string `json:"sessionKind,omitempty"`
	Notes        *string `json:"notes,omitempty"`

	CancellationReason *string `json:"cancellationReason,omitempty"`
	CancelledAt        *string `json:"cancelledAt,omitempty"` // ISO 8601

	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// RecurringBookingResponse ответ с данными еженедельного бронирования
type RecurringBookingResponse struct {
	ID         int64   `json:"id"`
	ResourceID int64   `json:"resourceId"`
	Weekday    int     `json:"weekday"` // 0 = воскресенье
	StartTime  string  `json:"startTime"`
	OwnerID    int64   `json:"ownerId"`
	Status     string  `json:"status"`
	StartDate  *string `json:"startDate,omitempty"`

	InstructorID *int64  `json:"instructorId,omitempty"`
	SessionKind  *string `json:"sessionKind,omitempty"`

	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// ExceptionResponse ответ с данными исключения серии
type ExceptionResponse struct {
	ID                 int64     `json:"id"`
	RecurringBookingID int64     `json:"recurringBookingId"`
	Date               string    `json:"date"`
	Reason             *string   `json:"reason,omitempty"`
	CreatedBy          int64     `json:"createdBy"`
	CreatedAt          time.Time `json:"createdAt"`
}

// OwnerBookingsResponse история владельца: одноразовые и еженедельные
type OwnerBookingsResponse struct {
	OneOff    []OneOffBookingResponse    `json:"oneOff"`
	Recurring []RecurringBookingResponse `json:"recurring"`
}

// BookingListResponse ответ со списком одноразовых бронирований
type BookingListResponse struct {
	Bookings []OneOffBookingResponse `json:"bookings"`
}

// ExceptionListResponse ответ со списком исключений
type ExceptionListResponse struct {
	Exceptions []ExceptionResponse `json:"exceptions"`
}

// TransferResponse результат передачи одноразового бронирования
type TransferResponse struct {
	OldBooking *OneOffBookingResponse `json:"oldBooking"`
	NewBooking *OneOffBookingResponse `json:"newBooking"`
}

// Методы конвертации

// FromDomainOneOff конвертирует domain модель в DTO
func FromDomainOneOff(b *domain.OneOffBooking) *OneOffBookingResponse {
	if b == nil {
		return nil
	}

	resp := &OneOffBookingResponse{
		ID:                 b.ID,
		ResourceID:         b.ResourceID,
		Date:               b.Date.Format(domain.DateFormat),
		StartTime:          b.StartTime.String(),
		OwnerID:            b.OwnerID,
		Status:             string(b.Status),
		InstructorID:       b.InstructorID,
		Notes:              b.Notes,
		CancellationReason: b.CancellationReason,
		CreatedAt:          b.CreatedAt,
		UpdatedAt:          b.UpdatedAt,
	}

	if b.SessionKind != nil {
		kind := string(*b.SessionKind)
		resp.SessionKind = &kind
	}

	if shift, ok := domain.ShiftForSlotTime(b.StartTime); ok {
		resp.Shift = string(shift)
	}

	if b.CancelledAt != nil {
		cancelledStr := b.CancelledAt.Format(time.RFC3339)
		resp.CancelledAt = &cancelledStr
	}

	return resp
}

// FromDomainOneOffList конвертирует список domain моделей в DTO
func FromDomainOneOffList(bookings []*domain.OneOffBooking) []OneOffBookingResponse {
	resp := make([]OneOffBookingResponse, 0, len(bookings))
	for _, b := range bookings {
		if dto := FromDomainOneOff(b); dto != nil {
			resp = append(resp, *dto)
		}
	}
	return resp
}

// FromDomainRecurring конвертирует domain модель в DTO
func FromDomainRecurring(r *domain.RecurringBooking) *RecurringBookingResponse {
	if r == nil {
		return nil
	}

	resp := &RecurringBookingResponse{
		ID:           r.ID,
		ResourceID:   r.ResourceID,
		Weekday:      int(r.Weekday),
		StartTime:    r.StartTime.String(),
		OwnerID:      r.OwnerID,
		Status:       string(r.Status),
		InstructorID: r.InstructorID,
		CreatedAt:    r.CreatedAt,
		UpdatedAt:    r.UpdatedAt,
	}

	if r.StartDate != nil {
		startStr := r.StartDate.Format(domain.DateFormat)
		resp.StartDate = &startStr
	}

	if r.SessionKind != nil {
		kind := string(*r.SessionKind)
		resp.SessionKind = &kind
	}

	return resp
}

// FromDomainRecurringList конвертирует список domain моделей в DTO
func FromDomainRecurringList(bookings []*domain.RecurringBooking) []RecurringBookingResponse {
	resp := make([]RecurringBookingResponse, 0, len(bookings))
	for _, r := range bookings {
		if dto := FromDomainRecurring(r); dto != nil {
			resp = append(resp, *dto)
		}
	}
	return resp
}

// FromDomainException конвертирует domain модель в DTO
func FromDomainException(e *domain.RecurringException) *ExceptionResponse {
	if e == nil {
		return nil
	}
	return &ExceptionResponse{
		ID:                 e.ID,
		RecurringBookingID: e.RecurringBookingID,
		Date:               e.Date.Format(domain.DateFormat),
		Reason:             e.Reason,
		CreatedBy:          e.CreatedBy,
		CreatedAt:          e.CreatedAt,
	}
}

// FromDomainExceptionList конвертирует список domain моделей в DTO
func FromDomainExceptionList(exceptions []*domain.RecurringException) *ExceptionListResponse {
	resp := &ExceptionListResponse{
		Exceptions: make([]ExceptionResponse, 0, len(exceptions)),
	}
	for _, e := range exceptions {
		if dto := FromDomainException(e); dto != nil {
			resp.Exceptions = append(resp.Exceptions, *dto)
		}
	}
	return resp
}

// ToDomainBookingStatus конвертирует строку в domain.BookingStatus с валидацией
func ToDomainBookingStatus(status string) (domain.BookingStatus, error) {
	s := domain.BookingStatus(status)

	validStatuses := []domain.BookingStatus{
		domain.StatusConfirmed,
		domain.StatusCancelled,
		domain.StatusTransferred,
		domain.StatusCompleted,
	}

	for _, valid := range validStatuses {
		if s == valid {
			return s, nil
		}
	}

	return "", ErrInvalidStatus
}
