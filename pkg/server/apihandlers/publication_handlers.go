package apihandlers

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/gantapp/gant/pkg/models"
	"github.com/gantapp/gant/pkg/server/handlertools"
)

// GetPublicationListHandler lists stored publications with optional
// date, canton, language and free-text filters.
func GetPublicationListHandler(appState *models.AppState) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		filter, err := publicationFilterFromRequest(r)
		if err != nil {
			handlertools.RenderError(w, err, http.StatusBadRequest)
			return
		}

		publications, err := appState.PublicationStore.ListPublications(r.Context(), filter)
		if err != nil {
			handlertools.RenderError(w, err, http.StatusInternalServerError)
			return
		}

		if err := handlertools.EncodeJSON(w, publications); err != nil {
			handlertools.RenderError(w, err, http.StatusInternalServerError)
			return
		}
	}
}

// GetPublicationHandler returns one publication with all nested records.
func GetPublicationHandler(appState *models.AppState) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		publicationID := chi.URLParam(r, "publicationId")

		publication, err := appState.PublicationStore.GetPublication(r.Context(), publicationID)
		if err != nil {
			handlertools.RenderError(w, err, http.StatusInternalServerError)
			return
		}

		if err := handlertools.EncodeJSON(w, publication); err != nil {
			handlertools.RenderError(w, err, http.StatusInternalServerError)
			return
		}
	}
}

func publicationFilterFromRequest(r *http.Request) (models.PublicationFilter, error) {
	var filter models.PublicationFilter
	var err error

	if filter.DateFrom, err = handlertools.DateFromQuery(r, "date_from"); err != nil {
		return filter, err
	}
	if filter.DateTo, err = handlertools.DateFromQuery(r, "date_to"); err != nil {
		return filter, err
	}
	filter.Canton = r.URL.Query().Get("canton")
	filter.Language = r.URL.Query().Get("language")
	filter.Search = r.URL.Query().Get("search")
	if filter.Page, err = handlertools.IntFromQuery(r, "page"); err != nil {
		return filter, err
	}
	if filter.Size, err = handlertools.IntFromQuery(r, "size"); err != nil {
		return filter, err
	}
	return filter, nil
}
