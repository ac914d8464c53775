package apihandlers

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/gantapp/gant/pkg/models"
	"github.com/gantapp/gant/pkg/server/handlertools"
)

// RecordViewHandler records one auction view. Anonymous views are
// accepted; the optional identity header attributes the view to a user.
func RecordViewHandler(appState *models.AppState) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var request models.RecordViewRequest
		if err := handlertools.DecodeJSON(r, &request); err != nil {
			handlertools.RenderError(w, err, http.StatusBadRequest)
			return
		}
		if err := validate.Struct(request); err != nil {
			handlertools.RenderError(w, err, http.StatusBadRequest)
			return
		}

		userID, err := handlertools.UserIDFromRequest(r)
		if err != nil {
			handlertools.RenderError(w, err, http.StatusBadRequest)
			return
		}

		view := &models.AuctionViewEvent{
			AuctionID: request.AuctionID,
			SessionID: request.SessionID,
			ViewType:  request.ViewType,
			ViewedAt:  time.Now(),
		}
		if userID != uuid.Nil {
			view.UserID = &userID
		}

		if err := appState.AnalyticsStore.RecordView(r.Context(), view); err != nil {
			handlertools.RenderError(w, err, http.StatusInternalServerError)
			return
		}
		w.WriteHeader(http.StatusCreated)
	}
}

// GetAuctionViewStatsHandler aggregates the recorded views of one auction.
func GetAuctionViewStatsHandler(appState *models.AppState) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		auctionID := chi.URLParam(r, "auctionId")

		stats, err := appState.AnalyticsStore.AuctionViewStats(r.Context(), auctionID)
		if err != nil {
			handlertools.RenderError(w, err, http.StatusInternalServerError)
			return
		}
		if err := handlertools.EncodeJSON(w, stats); err != nil {
			handlertools.RenderError(w, err, http.StatusInternalServerError)
		}
	}
}
