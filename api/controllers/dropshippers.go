package controllers

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/vaporlab/vaporlab-backend/api/responses"
	"github.com/vaporlab/vaporlab-backend/api/validators"
	dropsvc "github.com/vaporlab/vaporlab-backend/internal/dropshippers"
	pkgerrors "github.com/vaporlab/vaporlab-backend/pkg/errors"
	"github.com/vaporlab/vaporlab-backend/pkg/logger"
)

type createDropshipperRequest struct {
	Name            string `json:"name" validate:"required"`
	Phone           string `json:"phone" validate:"required"`
	Code            string `json:"code" validate:"required"`
	DiscountPercent int    `json:"discount_percent" validate:"gte=0,lte=100"`
	IsActive        *bool  `json:"is_active,omitempty"`
}

func (r createDropshipperRequest) toInput() dropsvc.CreateInput {
	active := true
	if r.IsActive != nil {
		active = *r.IsActive
	}
	return dropsvc.CreateInput{
		Name:            r.Name,
		Phone:           r.Phone,
		Code:            r.Code,
		DiscountPercent: r.DiscountPercent,
		IsActive:        active,
	}
}

type updateDropshipperRequest struct {
	Name            *string `json:"name,omitempty"`
	Phone           *string `json:"phone,omitempty"`
	DiscountPercent *int    `json:"discount_percent,omitempty" validate:"omitempty,gte=0,lte=100"`
	IsActive        *bool   `json:"is_active,omitempty"`
}

// AdminCreateDropshipper registers a reseller with a referral code.
func AdminCreateDropshipper(svc dropsvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "dropshipper service unavailable"))
			return
		}

		var payload createDropshipperRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		dropshipper, err := svc.Create(r.Context(), payload.toInput())
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccessStatus(w, http.StatusCreated, dropshipper)
	}
}

// AdminUpdateDropshipper edits reseller fields; the code is immutable.
func AdminUpdateDropshipper(svc dropsvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "dropshipper service unavailable"))
			return
		}

		dropshipperID, err := parseIDParam(r, "dropshipperId")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		var payload updateDropshipperRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		dropshipper, err := svc.Update(r.Context(), dropshipperID, dropsvc.UpdateInput{
			Name:            payload.Name,
			Phone:           payload.Phone,
			DiscountPercent: payload.DiscountPercent,
			IsActive:        payload.IsActive,
		})
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, dropshipper)
	}
}

// AdminDeleteDropshipper removes a reseller.
func AdminDeleteDropshipper(svc dropsvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "dropshipper service unavailable"))
			return
		}

		dropshipperID, err := parseIDParam(r, "dropshipperId")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		if err := svc.Delete(r.Context(), dropshipperID); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, map[string]string{"status": "deleted"})
	}
}

// AdminListDropshippers serves the full reseller roster.
func AdminListDropshippers(svc dropsvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "dropshipper service unavailable"))
			return
		}

		dropshippers, err := svc.List(r.Context())
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, dropshippers)
	}
}

// ResolveReferralCode is the public lookup used by the storefront at
// checkout. Inactive codes read as unknown.
func ResolveReferralCode(svc dropsvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "dropshipper service unavailable"))
			return
		}

		code := chi.URLParam(r, "code")

		referral, err := svc.ResolveCode(r.Context(), code)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, referral)
	}
}
