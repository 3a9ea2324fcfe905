package pagination

import (
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Page is one server-delivered batch of items plus pagination metadata.
type Page[T any] struct {
	Items      []T  `json:"items"`
	PageNumber int  `json:"pageNumber"`
	TotalPages int  `json:"totalPages"`
	TotalItems int  `json:"totalItems"`
	IsLastPage bool `json:"isLastPage"`
}

// Item is the payload served by the mock catalogue endpoint.
// The coordinator never inspects it.
type Item struct {
	ID          uuid.UUID       `json:"id"`
	Name        string          `json:"name"`
	Description string          `json:"description"`
	CreatedAt   time.Time       `json:"createdAt"`
	Price       decimal.Decimal `json:"price"`
}

// Validate checks the invariants a single page can verify on its own.
//
// An empty resource is reported as page 0 of 0 pages with no items.
func (p *Page[T]) Validate() error {
	switch {
	case p.TotalPages < 0:
		return &InconsistentPaginationError{Page: p.PageNumber, Reason: fmt.Sprintf("negative totalPages %d", p.TotalPages)}
	case p.TotalItems < 0:
		return &InconsistentPaginationError{Page: p.PageNumber, Reason: fmt.Sprintf("negative totalItems %d", p.TotalItems)}
	case p.PageNumber < 0:
		return &InconsistentPaginationError{Page: p.PageNumber, Reason: "negative pageNumber"}
	}

	if p.TotalPages == 0 {
		if p.PageNumber != 0 || len(p.Items) > 0 || p.TotalItems != 0 {
			return &InconsistentPaginationError{Page: p.PageNumber, Reason: "totalPages is 0 but page carries data"}
		}
		return nil
	}

	if p.PageNumber >= p.TotalPages {
		return &InconsistentPaginationError{
			Page:   p.PageNumber,
			Reason: fmt.Sprintf("pageNumber out of range [0, %d)", p.TotalPages),
		}
	}
	if p.IsLastPage != (p.PageNumber == p.TotalPages-1) {
		return &InconsistentPaginationError{
			Page:   p.PageNumber,
			Reason: fmt.Sprintf("isLastPage=%t with totalPages=%d", p.IsLastPage, p.TotalPages),
		}
	}
	if len(p.Items) > p.TotalItems {
		return &InconsistentPaginationError{
			Page:   p.PageNumber,
			Reason: fmt.Sprintf("page holds %d items but totalItems=%d", len(p.Items), p.TotalItems),
		}
	}
	return nil
}
