package controllers

import (
	"net/http"

	"github.com/vaporlab/vaporlab-backend/api/responses"
	"github.com/vaporlab/vaporlab-backend/api/validators"
	cartsvc "github.com/vaporlab/vaporlab-backend/internal/cart"
	pkgerrors "github.com/vaporlab/vaporlab-backend/pkg/errors"
	"github.com/vaporlab/vaporlab-backend/pkg/logger"
)

// CartQuote prices an anonymous cart. Wholesale lines below the
// minimum are raised to it and returned at the adjusted quantity.
func CartQuote(svc cartsvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "cart service unavailable"))
			return
		}

		var payload cartsvc.QuoteInput
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		quote, err := svc.Quote(r.Context(), payload)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, quote)
	}
}
