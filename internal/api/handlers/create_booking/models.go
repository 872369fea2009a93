package create_booking

import (
	"time"

	"github.com/quadralivre/facility-booking-service/internal/domain"
	createBooking "github.com/quadralivre/facility-booking-service/internal/usecase/create_booking"
	"github.com/quadralivre/facility-booking-service/pkg/types"
)

// CreateBookingRequest HTTP request model
type CreateBookingRequest struct {
	OwnerID      int64   `json:"ownerId,omitempty"` // пустое значение - бронь на себя
	ResourceID   int64   `json:"resourceId"`
	Date         string  `json:"date"`                // "2025-10-15"
	StartTime    string  `json:"startTime,omitempty"` // "19:00", корты
	Shift        string  `json:"shift,omitempty"`     // "day"|"night", зоны барбекю
	InstructorID *int64  `json:"instructorId,omitempty"`
	SessionKind  *string `json:"sessionKind,omitempty"`
	Notes        *string `json:"notes,omitempty"`
}

// BookingResponse HTTP response model
type BookingResponse struct {
	ID           int64   `json:"id"`
	ResourceID   int64   `json:"resourceId"`
	Date         string  `json:"date"`
	StartTime    string  `json:"startTime"`
	Shift        string  `json:"shift,omitempty"`
	OwnerID      int64   `json:"ownerId"`
	Status       string  `json:"status"`
	InstructorID *int64  `json:"instructorId,omitempty"`
	SessionKind  *string `json:"sessionKind,omitempty"`
	Notes        *string `json:"notes,omitempty"`
	CreatedAt    string  `json:"createdAt"`
	UpdatedAt    string  `json:"updatedAt"`
}

// ToUseCaseRequest конвертирует HTTP запрос в модель use case
func (r *CreateBookingRequest) ToUseCaseRequest(requesterID int64) (*createBooking.Request, error) {
	date, err := time.Parse(domain.DateFormat, r.Date)
	if err != nil {
		return nil, err
	}

	var startTime types.TimeString
	if r.StartTime != "" {
		startTime, err = types.NewTimeStringFromString(r.StartTime)
		if err != nil {
			return nil, err
		}
	}

	ownerID := r.OwnerID
	if ownerID == 0 {
		ownerID = requesterID
	}

	var sessionKind *domain.SessionKind
	if r.SessionKind != nil {
		kind := domain.SessionKind(*r.SessionKind)
		sessionKind = &kind
	}

	return &createBooking.Request{
		RequesterID:  requesterID,
		OwnerID:      ownerID,
		ResourceID:   r.ResourceID,
		Date:         date,
		StartTime:    startTime,
		Shift:        domain.Shift(r.Shift),
		InstructorID: r.InstructorID,
		SessionKind:  sessionKind,
		Notes:        r.Notes,
	}, nil
}

// FromUseCaseResponse конвертирует ответ use case в HTTP response
func FromUseCaseResponse(resp *createBooking.Response) *BookingResponse {
	out := &BookingResponse{
		ID:           resp.ID,
		ResourceID:   resp.ResourceID,
		Date:         resp.Date.Format(domain.DateFormat),
		StartTime:    resp.StartTime.String(),
		Shift:        string(resp.Shift),
		OwnerID:      resp.OwnerID,
		Status:       resp.Status,
		InstructorID: resp.InstructorID,
		Notes:        resp.Notes,
		CreatedAt:    resp.CreatedAt.Format(time.RFC3339),
		UpdatedAt:    resp.UpdatedAt.Format(time.RFC3339),
	}
	if resp.SessionKind != nil {
		kind := string(*resp.SessionKind)
		out.SessionKind = &kind
	}
	return out
}
