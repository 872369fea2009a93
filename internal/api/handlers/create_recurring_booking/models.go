package create_recurring_booking

import (
	"time"

	"github.com/quadralivre/facility-booking-service/internal/domain"
	createRecurring "github.com/quadralivre/facility-booking-service/internal/usecase/create_recurring_booking"
	"github.com/quadralivre/facility-booking-service/pkg/types"
)

// CreateRecurringRequest HTTP request model
type CreateRecurringRequest struct {
	OwnerID      int64   `json:"ownerId,omitempty"`
	ResourceID   int64   `json:"resourceId"`
	Weekday      int     `json:"weekday"` // 0 = воскресенье
	StartTime    string  `json:"startTime,omitempty"`
	Shift        string  `json:"shift,omitempty"`
	StartDate    *string `json:"startDate,omitempty"` // "2025-11-01"
	InstructorID *int64  `json:"instructorId,omitempty"`
	SessionKind  *string `json:"sessionKind,omitempty"`
}

// RecurringResponse HTTP response model
type RecurringResponse struct {
	ID           int64   `json:"id"`
	ResourceID   int64   `json:"resourceId"`
	Weekday      int     `json:"weekday"`
	StartTime    string  `json:"startTime"`
	Shift        string  `json:"shift,omitempty"`
	OwnerID      int64   `json:"ownerId"`
	Status       string  `json:"status"`
	StartDate    *string `json:"startDate,omitempty"`
	InstructorID *int64  `json:"instructorId,omitempty"`
	SessionKind  *string `json:"sessionKind,omitempty"`
	CreatedAt    string  `json:"createdAt"`
	UpdatedAt    string  `json:"updatedAt"`
}

// ConflictResponse тело ответа 409 с занятыми датами и предложениями
type ConflictResponse struct {
	Code           int      `json:"code"`
	Message        string   `json:"message"`
	ConflictDates  []string `json:"conflictDates"`
	SuggestedDates []string `json:"suggestedDates"`
}

// ToUseCaseRequest конвертирует HTTP запрос в модель use case
func (r *CreateRecurringRequest) ToUseCaseRequest(requesterID int64) (*createRecurring.Request, error) {
	var startTime types.TimeString
	var err error
	if r.StartTime != "" {
		startTime, err = types.NewTimeStringFromString(r.StartTime)
		if err != nil {
			return nil, err
		}
	}

	var startDate *time.Time
	if r.StartDate != nil {
		parsed, err := time.Parse(domain.DateFormat, *r.StartDate)
		if err != nil {
			return nil, err
		}
		startDate = &parsed
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

	return &createRecurring.Request{
		RequesterID:  requesterID,
		OwnerID:      ownerID,
		ResourceID:   r.ResourceID,
		Weekday:      r.Weekday,
		StartTime:    startTime,
		Shift:        domain.Shift(r.Shift),
		StartDate:    startDate,
		InstructorID: r.InstructorID,
		SessionKind:  sessionKind,
	}, nil
}

// FromUseCaseResponse конвертирует ответ use case в HTTP response
func FromUseCaseResponse(resp *createRecurring.Response) *RecurringResponse {
	out := &RecurringResponse{
		ID:           resp.ID,
		ResourceID:   resp.ResourceID,
		Weekday:      resp.Weekday,
		StartTime:    resp.StartTime.String(),
		Shift:        string(resp.Shift),
		OwnerID:      resp.OwnerID,
		Status:       resp.Status,
		InstructorID: resp.InstructorID,
		CreatedAt:    resp.CreatedAt.Format(time.RFC3339),
		UpdatedAt:    resp.UpdatedAt.Format(time.RFC3339),
	}
	if resp.StartDate != nil {
		startStr := resp.StartDate.Format(domain.DateFormat)
		out.StartDate = &startStr
	}
	if resp.SessionKind != nil {
		kind := string(*resp.SessionKind)
		out.SessionKind = &kind
	}
	return out
}
