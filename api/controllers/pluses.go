package controllers

import (
	"net/http"

	"github.com/vaporlab/vaporlab-backend/api/responses"
	"github.com/vaporlab/vaporlab-backend/api/validators"
	plussvc "github.com/vaporlab/vaporlab-backend/internal/pluses"
	pkgerrors "github.com/vaporlab/vaporlab-backend/pkg/errors"
	"github.com/vaporlab/vaporlab-backend/pkg/logger"
)

type plusRequest struct {
	Name string `json:"name" validate:"required"`
	Icon string `json:"icon" validate:"required"`
}

func (r plusRequest) toInput() plussvc.Input {
	return plussvc.Input{Name: r.Name, Icon: r.Icon}
}

// AdminCreatePlus creates a product badge.
func AdminCreatePlus(svc plussvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "plus service unavailable"))
			return
		}

		var payload plusRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		plus, err := svc.Create(r.Context(), payload.toInput())
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccessStatus(w, http.StatusCreated, plus)
	}
}

// AdminUpdatePlus replaces a badge's name and icon.
func AdminUpdatePlus(svc plussvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "plus service unavailable"))
			return
		}

		plusID, err := parseIDParam(r, "plusId")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		var payload plusRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		plus, err := svc.Update(r.Context(), plusID, payload.toInput())
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, plus)
	}
}

// AdminDeletePlus removes a badge and detaches it from products.
func AdminDeletePlus(svc plussvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "plus service unavailable"))
			return
		}

		plusID, err := parseIDParam(r, "plusId")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		if err := svc.Delete(r.Context(), plusID); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, map[string]string{"status": "deleted"})
	}
}

// ListPluses serves every badge.
func ListPluses(svc plussvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "plus service unavailable"))
			return
		}

		pluses, err := svc.List(r.Context())
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, pluses)
	}
}
