package models

import (
	"time"

	"github.com/quadralivre/facility-booking-service/internal/domain"
)

// Request модели

// CreateBlockRequest запрос на создание блокировки
type CreateBlockRequest struct {
	RequesterID int64   `json:"requesterId"`
	ResourceIDs []int64 `json:"resourceIds"`
	Date        string  `json:"date"`      // "2025-10-15"
	StartTime   string  `json:"startTime"` // "08:00"
	EndTime     string  `json:"endTime"`   // "12:00"
	Reason      *string `json:"reason,omitempty"`
}

// ListBlocksRequest запрос списка блокировок за период
type ListBlocksRequest struct {
	RequesterID int64  `json:"requesterId"`
	StartDate   string `json:"startDate"`
	EndDate     string `json:"endDate"`
}

// UpsertWindowRequest запрос на создание или обновление окна преподавания
type UpsertWindowRequest struct {
	RequesterID int64   `json:"requesterId"`
	SportID     int64   `json:"sportId"`
	Weekday     *int    `json:"weekday,omitempty"` // nil = окно по умолчанию
	SessionKind string  `json:"sessionKind"`
	StartTime   string  `json:"startTime"`
	EndTime     string  `json:"endTime"`
}

// Response модели

// BlockResponse ответ с данными блокировки
type BlockResponse struct {
	ID          int64     `json:"id"`
	ResourceIDs []int64   `json:"resourceIds"`
	Date        string    `json:"date"`
	StartTime   string    `json:"startTime"`
	EndTime     string    `json:"endTime"`
	Reason      *string   `json:"reason,omitempty"`
	CreatedBy   int64     `json:"createdBy"`
	CreatedAt   time.Time `json:"createdAt"`
}

// BlockListResponse ответ со списком блокировок
type BlockListResponse struct {
	Blocks []BlockResponse `json:"blocks"`
}

// WindowResponse ответ с данными окна преподавания
type WindowResponse struct {
	ID          int64     `json:"id"`
	SportID     int64     `json:"sportId"`
	Weekday     *int      `json:"weekday,omitempty"`
	SessionKind string    `json:"sessionKind"`
	StartTime   string    `json:"startTime"`
	EndTime     string    `json:"endTime"`
	Active      bool      `json:"active"`
	CreatedAt   time.Time `json:"createdAt"`
	UpdatedAt   time.Time `json:"updatedAt"`
}

// WindowListResponse ответ со списком окон преподавания
type WindowListResponse struct {
	Windows []WindowResponse `json:"windows"`
}

// Методы конвертации

// FromDomainBlock конвертирует domain модель в DTO
func FromDomainBlock(b *domain.Block) *BlockResponse {
	if b == nil {
		return nil
	}
	return &BlockResponse{
		ID:          b.ID,
		ResourceIDs: b.ResourceIDs,
		Date:        b.Date.Format(domain.DateFormat),
		StartTime:   b.StartTime.String(),
		EndTime:     b.EndTime.String(),
		Reason:      b.Reason,
		CreatedBy:   b.CreatedBy,
		CreatedAt:   b.CreatedAt,
	}
}

// FromDomainBlockList конвертирует список domain моделей в DTO
func FromDomainBlockList(blocks []*domain.Block) *BlockListResponse {
	resp := &BlockListResponse{Blocks: make([]BlockResponse, 0, len(blocks))}
	for _, b := range blocks {
		if dto := FromDomainBlock(b); dto != nil {
			resp.Blocks = append(resp.Blocks, *dto)
		}
	}
	return resp
}

// FromDomainWindow конвертирует domain модель в DTO
func FromDomainWindow(w *domain.TeachingWindow) *WindowResponse {
	if w == nil {
		return nil
	}
	resp := &WindowResponse{
		ID:          w.ID,
		SportID:     w.SportID,
		SessionKind: string(w.SessionKind),
		StartTime:   w.StartTime.String(),
		EndTime:     w.EndTime.String(),
		Active:      w.Active,
		CreatedAt:   w.CreatedAt,
		UpdatedAt:   w.UpdatedAt,
	}
	if w.Weekday != nil {
		wd := int(*w.Weekday)
		resp.Weekday = &wd
	}
	return resp
}

// FromDomainWindowList конвертирует список domain моделей в DTO
func FromDomainWindowList(windows []*domain.TeachingWindow) *WindowListResponse {
	resp := &WindowListResponse{Windows: make([]WindowResponse, 0, len(windows))}
	for _, w := range windows {
		if dto := FromDomainWindow(w); dto != nil {
			resp.Windows = append(resp.Windows, *dto)
		}
	}
	return resp
}
