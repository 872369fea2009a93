package create_booking

import (
	"fmt"

	"github.com/quadralivre/facility-booking-service/internal/domain"
	"github.com/quadralivre/facility-booking-service/pkg/types"
)

// validateRequest валидирует входные данные запроса
func validateRequest(req *Request) error {
	if req.RequesterID <= 0 {
		return fmt.Errorf("%w: requesterID must be positive", ErrInvalidInput)
	}

	if req.OwnerID <= 0 {
		return fmt.Errorf("%w: ownerID must be positive", ErrInvalidInput)
	}

	if req.ResourceID <= 0 {
		return fmt.Errorf("%w: resourceID must be positive", ErrInvalidInput)
	}

	if req.Date.IsZero() {
		return fmt.Errorf("%w: date is required", ErrInvalidInput)
	}

	if !req.StartTime.IsZero() {
		if err := req.StartTime.Validate(); err != nil {
			return fmt.Errorf("%w: invalid startTime format: %v", ErrInvalidInput, err)
		}
	}

	if req.Shift != "" {
		if _, err := req.Shift.SlotTime(); err != nil {
			return fmt.Errorf("%w: unknown shift %q", ErrInvalidInput, req.Shift)
		}
	}

	// Занятие с инструктором задается парой полей, по отдельности они
	// не имеют смысла
	if (req.InstructorID == nil) != (req.SessionKind == nil) {
		return fmt.Errorf("%w: instructorID and sessionKind must be set together", ErrInvalidInput)
	}
	if req.SessionKind != nil {
		switch *req.SessionKind {
		case domain.SessionClass, domain.SessionGame:
		default:
			return fmt.Errorf("%w: unknown session kind %q", ErrInvalidInput, *req.SessionKind)
		}
	}

	if req.Notes != nil && len(*req.Notes) > domain.MaxNotesLength {
		return fmt.Errorf("%w: notes too long", ErrInvalidInput)
	}

	return nil
}

// resolveSlotTime определяет время начала слота по категории ресурса.
// Корты бронируются на точное время, зоны барбекю на смену.
func resolveSlotTime(resource *domain.Resource, req *Request) (types.TimeString, error) {
	if resource.UsesShifts() {
		if req.Shift == "" {
			return "", ErrShiftRequired
		}
		return req.Shift.SlotTime()
	}

	if req.StartTime.IsZero() {
		return "", ErrStartTimeRequired
	}
	return req.StartTime, nil
}

// validateCourtSlot проверяет, что время корта попадает в рабочие часы
// и выровнено по сетке слотов относительно открытия
func validateCourtSlot(startTime types.TimeString, params Params) error {
	startMinutes, err := startTime.MinutesSinceMidnight()
	if err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidTimeSlot, err)
	}
	openMinutes, err := params.OpenTime.MinutesSinceMidnight()
	if err != nil {
		return fmt.Errorf("%w: %v", ErrInternal, err)
	}
	closeMinutes, err := params.CloseTime.MinutesSinceMidnight()
	if err != nil {
		return fmt.Errorf("%w: %v", ErrInternal, err)
	}

	if startMinutes < openMinutes || startMinutes+params.SlotDurationMinutes > closeMinutes {
		return fmt.Errorf("%w: outside working hours %s-%s", ErrInvalidTimeSlot, params.OpenTime, params.CloseTime)
	}

	if (startMinutes-openMinutes)%params.SlotDurationMinutes != 0 {
		return fmt.Errorf("%w: not aligned to %d-minute slot grid", ErrInvalidTimeSlot, params.SlotDurationMinutes)
	}

	return nil
}
