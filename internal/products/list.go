package product

import (
	"github.com/google/uuid"

	"github.com/vaporlab/vaporlab-backend/pkg/pagination"
)

// ListFilters describe the filter knobs of the catalog browse endpoint.
type ListFilters struct {
	CategoryID *uuid.UUID `json:"category_id,omitempty"`
	PlusID     *uuid.UUID `json:"plus_id,omitempty"`
	IsFeatured *bool      `json:"is_featured,omitempty"`
	Flavor     string     `json:"flavor,omitempty"`
	Query      string     `json:"q,omitempty"`
}

// ListInput captures the inputs needed to paginate and filter products.
// IncludeInactive is only ever set by the admin surface; the storefront
// sees active products exclusively.
type ListInput struct {
	Filters         ListFilters
	Pagination      pagination.Params
	IncludeInactive bool
}
