package resourceservice

import "github.com/quadralivre/facility-booking-service/internal/domain"

// Resource модель ресурса из каталога
type Resource struct {
	ID       int64   `json:"id"`
	Name     string  `json:"name"`
	Category string  `json:"category"` // "court" | "bbq_pit"
	SportIDs []int64 `json:"sport_ids,omitempty"`
	Active   bool    `json:"active"`
}

// ToDomain конвертирует ответ каталога в доменную модель
func (r *Resource) ToDomain() *domain.Resource {
	return &domain.Resource{
		ID:       r.ID,
		Name:     r.Name,
		Category: domain.ResourceCategory(r.Category),
		SportIDs: r.SportIDs,
	}
}

// ErrorResponse модель ошибки от сервиса каталога
type ErrorResponse struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
}
