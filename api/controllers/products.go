package controllers

import (
	"net/http"

	"github.com/google/uuid"

	"github.com/vaporlab/vaporlab-backend/api/responses"
	"github.com/vaporlab/vaporlab-backend/api/validators"
	"github.com/vaporlab/vaporlab-backend/internal/pricing"
	productsvc "github.com/vaporlab/vaporlab-backend/internal/products"
	"github.com/vaporlab/vaporlab-backend/pkg/config"
	pkgerrors "github.com/vaporlab/vaporlab-backend/pkg/errors"
	"github.com/vaporlab/vaporlab-backend/pkg/imagestore"
	"github.com/vaporlab/vaporlab-backend/pkg/logger"
	"github.com/vaporlab/vaporlab-backend/pkg/pagination"
)

type wholesaleRatesRequest struct {
	Tier1 int `json:"tier1" validate:"min=0"`
	Tier2 int `json:"tier2" validate:"min=0"`
	Tier3 int `json:"tier3" validate:"min=0"`
}

func (r *wholesaleRatesRequest) toRateTable() *pricing.RateTable {
	if r == nil {
		return nil
	}
	return &pricing.RateTable{Tier1: r.Tier1, Tier2: r.Tier2, Tier3: r.Tier3}
}

type createProductRequest struct {
	Name           string                 `json:"name" validate:"required"`
	Description    *string                `json:"description,omitempty"`
	CategoryID     uuid.UUID              `json:"category_id" validate:"required"`
	Flavors        []string               `json:"flavors,omitempty" validate:"omitempty,dive,required"`
	PriceCents     int                    `json:"price_cents" validate:"required,min=1"`
	WholesaleRates *wholesaleRatesRequest `json:"wholesale_rates,omitempty"`
	PlusIDs        []uuid.UUID            `json:"plus_ids,omitempty"`
	IsFeatured     bool                   `json:"is_featured"`
	IsActive       *bool                  `json:"is_active,omitempty"`
}

func (r createProductRequest) toInput() productsvc.CreateInput {
	active := true
	if r.IsActive != nil {
		active = *r.IsActive
	}
	return productsvc.CreateInput{
		Name:           r.Name,
		Description:    r.Description,
		CategoryID:     r.CategoryID,
		Flavors:        r.Flavors,
		PriceCents:     r.PriceCents,
		WholesaleRates: r.WholesaleRates.toRateTable(),
		PlusIDs:        r.PlusIDs,
		IsFeatured:     r.IsFeatured,
		IsActive:       active,
	}
}

type updateProductRequest struct {
	Name           *string                `json:"name,omitempty"`
	Description    *string                `json:"description,omitempty"`
	CategoryID     *uuid.UUID             `json:"category_id,omitempty"`
	Flavors        *[]string              `json:"flavors,omitempty"`
	PriceCents     *int                   `json:"price_cents,omitempty" validate:"omitempty,min=1"`
	WholesaleRates *wholesaleRatesRequest `json:"wholesale_rates,omitempty"`
	PlusIDs        *[]uuid.UUID           `json:"plus_ids,omitempty"`
	IsFeatured     *bool                  `json:"is_featured,omitempty"`
	IsActive       *bool                  `json:"is_active,omitempty"`
}

func (r updateProductRequest) toInput() productsvc.UpdateInput {
	return productsvc.UpdateInput{
		Name:           r.Name,
		Description:    r.Description,
		CategoryID:     r.CategoryID,
		Flavors:        r.Flavors,
		PriceCents:     r.PriceCents,
		WholesaleRates: r.WholesaleRates.toRateTable(),
		PlusIDs:        r.PlusIDs,
		IsFeatured:     r.IsFeatured,
		IsActive:       r.IsActive,
	}
}

// AdminCreateProduct handles product creation on the dashboard surface.
func AdminCreateProduct(svc productsvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "product service unavailable"))
			return
		}

		var payload createProductRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		product, err := svc.Create(r.Context(), payload.toInput())
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccessStatus(w, http.StatusCreated, product)
	}
}

// AdminUpdateProduct applies a partial update to one product.
func AdminUpdateProduct(svc productsvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "product service unavailable"))
			return
		}

		productID, err := parseIDParam(r, "productId")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		var payload updateProductRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		product, err := svc.Update(r.Context(), productID, payload.toInput())
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, product)
	}
}

// AdminDeleteProduct removes a product and its remote image.
func AdminDeleteProduct(svc productsvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "product service unavailable"))
			return
		}

		productID, err := parseIDParam(r, "productId")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		if err := svc.Delete(r.Context(), productID); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, map[string]string{"status": "deleted"})
	}
}

// AdminUploadProductImage replaces the product image from a multipart form.
func AdminUploadProductImage(svc productsvc.Service, uploads imagestore.Uploader, media config.MediaConfig, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil || uploads == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "media pipeline unavailable"))
			return
		}

		productID, err := parseIDParam(r, "productId")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		file, err := openUploadedImage(r, media.MaxUploadBytes())
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		defer file.Close()

		asset, err := uploads.Upload(r.Context(), file, "products")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "upload image"))
			return
		}

		product, err := svc.SetImage(r.Context(), productID, asset)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, product)
	}
}

// GetProduct returns full product detail.
func GetProduct(svc productsvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "product service unavailable"))
			return
		}

		productID, err := parseIDParam(r, "productId")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		product, err := svc.Get(r.Context(), productID)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, product)
	}
}

// ListProducts serves the paginated catalog. When admin is set the
// caller sees inactive products too.
func ListProducts(svc productsvc.Service, logg *logger.Logger, admin bool) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "product service unavailable"))
			return
		}

		input, err := parseListInput(r, admin)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		result, err := svc.List(r.Context(), input)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, result)
	}
}

func parseListInput(r *http.Request, admin bool) (productsvc.ListInput, error) {
	limit, err := validators.ParseQueryInt(r, "limit", pagination.DefaultLimit, 1, pagination.MaxLimit)
	if err != nil {
		return productsvc.ListInput{}, err
	}

	categoryID, err := validators.ParseQueryUUID(r, "category_id")
	if err != nil {
		return productsvc.ListInput{}, err
	}

	plusID, err := validators.ParseQueryUUID(r, "plus_id")
	if err != nil {
		return productsvc.ListInput{}, err
	}

	featured, err := validators.ParseQueryBool(r, "featured")
	if err != nil {
		return productsvc.ListInput{}, err
	}

	includeInactive := false
	if admin {
		if flag, err := validators.ParseQueryBool(r, "include_inactive"); err != nil {
			return productsvc.ListInput{}, err
		} else if flag != nil {
			includeInactive = *flag
		}
	}

	return productsvc.ListInput{
		Filters: productsvc.ListFilters{
			CategoryID: categoryID,
			PlusID:     plusID,
			IsFeatured: featured,
			Flavor:     validators.SanitizeString(r.URL.Query().Get("flavor"), 64),
			Query:      validators.SanitizeString(r.URL.Query().Get("q"), 128),
		},
		Pagination: pagination.Params{
			Limit:  limit,
			Cursor: r.URL.Query().Get("cursor"),
		},
		IncludeInactive: includeInactive,
	}, nil
}
