package controllers

import (
	"encoding/json"
	"io"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/vaporlab/vaporlab-backend/api/responses"
	bannersvc "github.com/vaporlab/vaporlab-backend/internal/banner"
	"github.com/vaporlab/vaporlab-backend/pkg/config"
	pkgerrors "github.com/vaporlab/vaporlab-backend/pkg/errors"
	"github.com/vaporlab/vaporlab-backend/pkg/imagestore"
	"github.com/vaporlab/vaporlab-backend/pkg/logger"
)

// decodeBannerPatch reads a raw JSON body into the patch map. The
// envelope is a map rather than a struct so null and absent day keys
// stay distinguishable.
func decodeBannerPatch(r *http.Request, dest any) error {
	defer func() {
		io.Copy(io.Discard, r.Body)
	}()
	if err := json.NewDecoder(r.Body).Decode(dest); err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid request body").
			WithDetails(map[string]any{"error": err.Error()})
	}
	return nil
}

// GetBannerWeek serves the weekly schedule to any caller.
func GetBannerWeek(svc bannersvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "banner service unavailable"))
			return
		}

		week, err := svc.GetWeek(r.Context())
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, week)
	}
}

// AdminMergeBannerWeek applies a multi-day patch in one request.
func AdminMergeBannerWeek(svc bannersvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "banner service unavailable"))
			return
		}

		var patch bannersvc.WeekPatch
		if err := decodeBannerPatch(r, &patch); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		week, err := svc.MergeWeek(r.Context(), patch)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, week)
	}
}

// AdminPatchBannerDay updates one slot. A JSON null body clears the
// slot and deletes its remote image.
func AdminPatchBannerDay(svc bannersvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "banner service unavailable"))
			return
		}

		day := chi.URLParam(r, "day")

		var patch *bannersvc.DayPatch
		if err := decodeBannerPatch(r, &patch); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		week, err := svc.PatchDay(r.Context(), day, patch)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, week)
	}
}

// AdminUploadBannerDayImage attaches an uploaded image to a slot.
func AdminUploadBannerDayImage(svc bannersvc.Service, uploads imagestore.Uploader, media config.MediaConfig, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil || uploads == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "media pipeline unavailable"))
			return
		}

		day := chi.URLParam(r, "day")

		file, err := openUploadedImage(r, media.MaxUploadBytes())
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		defer file.Close()

		asset, err := uploads.Upload(r.Context(), file, "banners")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "upload image"))
			return
		}

		week, err := svc.SetDayImage(r.Context(), day, asset)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, week)
	}
}
