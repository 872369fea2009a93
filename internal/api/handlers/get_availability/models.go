package get_availability

import (
	"github.com/quadralivre/facility-booking-service/internal/domain"
	availability "github.com/quadralivre/facility-booking-service/internal/usecase/get_availability"
)

// SlotStatusResponse доступность одного слота
type SlotStatusResponse struct {
	StartTime    string `json:"startTime"`
	Shift        string `json:"shift,omitempty"`
	Available    bool   `json:"available"`
	ConflictKind string `json:"conflictKind,omitempty"`
}

// AvailabilityResponse HTTP response model
type AvailabilityResponse struct {
	ResourceID int64                `json:"resourceId"`
	Date       string               `json:"date"`
	Category   string               `json:"category"`
	Slots      []SlotStatusResponse `json:"slots"`
}

// FromUseCaseResponse конвертирует usecase ответ в HTTP модель
func FromUseCaseResponse(resp *availability.Response) *AvailabilityResponse {
	slots := make([]SlotStatusResponse, 0, len(resp.Slots))
	for _, s := range resp.Slots {
		slots = append(slots, SlotStatusResponse{
			StartTime:    s.StartTime.String(),
			Shift:        string(s.Shift),
			Available:    s.Available,
			ConflictKind: s.ConflictKind,
		})
	}

	return &AvailabilityResponse{
		ResourceID: resp.ResourceID,
		Date:       resp.Date.Format(domain.DateFormat),
		Category:   string(resp.Category),
		Slots:      slots,
	}
}
