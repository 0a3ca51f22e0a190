package http

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/aweos-lab/wikireminder/pkg/domain/interfaces"
	"github.com/aweos-lab/wikireminder/pkg/domain/types"
	"github.com/aweos-lab/wikireminder/pkg/usecase"
	"github.com/aweos-lab/wikireminder/pkg/utils/errutil"
)

type respondRequest struct {
	Response string `json:"response"`
	Comment  string `json:"comment"`
}

// parseResponse maps the submitted value to a response type. "nothing"
// is accepted as a legacy alias used by the email buttons.
func parseResponse(s string) (types.ResponseType, error) {
	if s == "nothing" {
		return types.ResponseNothingToUpdate, nil
	}
	return types.ParseResponseType(s)
}

func validateTokenHandler(uc *usecase.UseCases) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		info, err := uc.ValidateToken(r.Context(), chi.URLParam(r, "token"))
		if err != nil {
			errutil.HandleHTTP(r.Context(), w, err, http.StatusInternalServerError)
			return
		}
		writeJSON(r.Context(), w, http.StatusOK, info)
	}
}

func respondHandler(uc *usecase.UseCases) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		token := chi.URLParam(r, "token")

		var req respondRequest
		if r.Body != nil {
			// An empty body is fine; the email buttons submit via the
			// query string.
			_ = json.NewDecoder(r.Body).Decode(&req)
		}
		if req.Response == "" {
			req.Response = r.URL.Query().Get("response")
		}

		responseType, err := parseResponse(req.Response)
		if err != nil {
			writeJSON(r.Context(), w, http.StatusBadRequest, errorResponse{Error: "invalid response type"})
			return
		}

		err = uc.Respond(r.Context(), token, responseType, req.Comment)
		switch {
		case errors.Is(err, interfaces.ErrTokenNotFound):
			writeJSON(r.Context(), w, http.StatusNotFound, errorResponse{Error: "unknown token"})
			return
		case errors.Is(err, interfaces.ErrTokenUsed):
			writeJSON(r.Context(), w, http.StatusConflict, errorResponse{Error: "token already used"})
			return
		case errors.Is(err, interfaces.ErrTokenExpired):
			writeJSON(r.Context(), w, http.StatusGone, errorResponse{Error: "token expired"})
			return
		case err != nil:
			errutil.HandleHTTP(r.Context(), w, err, http.StatusInternalServerError)
			return
		}

		writeJSON(r.Context(), w, http.StatusOK, successResponse{Success: true})
	}
}
