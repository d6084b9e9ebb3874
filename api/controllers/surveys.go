package controllers

import (
	"net/http"

	"github.com/google/uuid"

	"github.com/vaporlab/vaporlab-backend/api/responses"
	"github.com/vaporlab/vaporlab-backend/api/validators"
	surveysvc "github.com/vaporlab/vaporlab-backend/internal/surveys"
	pkgerrors "github.com/vaporlab/vaporlab-backend/pkg/errors"
	"github.com/vaporlab/vaporlab-backend/pkg/logger"
)

type createSurveyRequest struct {
	Question string   `json:"question" validate:"required"`
	Options  []string `json:"options" validate:"required,min=2,dive,required"`
	IsActive *bool    `json:"is_active,omitempty"`
}

func (r createSurveyRequest) toInput() surveysvc.CreateInput {
	active := true
	if r.IsActive != nil {
		active = *r.IsActive
	}
	return surveysvc.CreateInput{
		Question: r.Question,
		Options:  r.Options,
		IsActive: active,
	}
}

type updateSurveyRequest struct {
	Question *string `json:"question,omitempty"`
	IsActive *bool   `json:"is_active,omitempty"`
}

type voteRequest struct {
	OptionID uuid.UUID `json:"option_id" validate:"required"`
}

// AdminCreateSurvey creates a survey with its fixed option set.
func AdminCreateSurvey(svc surveysvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "survey service unavailable"))
			return
		}

		var payload createSurveyRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		survey, err := svc.Create(r.Context(), payload.toInput())
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccessStatus(w, http.StatusCreated, survey)
	}
}

// AdminUpdateSurvey edits the question or active flag.
func AdminUpdateSurvey(svc surveysvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "survey service unavailable"))
			return
		}

		surveyID, err := parseIDParam(r, "surveyId")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		var payload updateSurveyRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		survey, err := svc.Update(r.Context(), surveyID, surveysvc.UpdateInput{
			Question: payload.Question,
			IsActive: payload.IsActive,
		})
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, survey)
	}
}

// AdminDeleteSurvey removes a survey and its tallies.
func AdminDeleteSurvey(svc surveysvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "survey service unavailable"))
			return
		}

		surveyID, err := parseIDParam(r, "surveyId")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		if err := svc.Delete(r.Context(), surveyID); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, map[string]string{"status": "deleted"})
	}
}

// ListSurveys serves surveys; the storefront sees active ones only.
func ListSurveys(svc surveysvc.Service, logg *logger.Logger, admin bool) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "survey service unavailable"))
			return
		}

		surveys, err := svc.List(r.Context(), !admin)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, surveys)
	}
}

// GetSurvey returns one survey with its tallies.
func GetSurvey(svc surveysvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "survey service unavailable"))
			return
		}

		surveyID, err := parseIDParam(r, "surveyId")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		survey, err := svc.Get(r.Context(), surveyID)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, survey)
	}
}

// VoteSurvey records one vote on an active survey.
func VoteSurvey(svc surveysvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "survey service unavailable"))
			return
		}

		surveyID, err := parseIDParam(r, "surveyId")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		var payload voteRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		survey, err := svc.Vote(r.Context(), surveyID, payload.OptionID)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, survey)
	}
}
