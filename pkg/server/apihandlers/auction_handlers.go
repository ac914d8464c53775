package apihandlers

import (
	"fmt"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/gantapp/gant/pkg/models"
	"github.com/gantapp/gant/pkg/server/handlertools"
)

// AuctionSummaryResponse is the free-tier auction detail: the basic
// projection plus a flag telling the client an upgrade unlocks the rest.
type AuctionSummaryResponse struct {
	models.AuctionSummary
	UpgradeRequired bool `json:"upgrade_required"`
}

// GetAuctionListHandler lists upcoming auctions. The listing always uses
// the free-tier projection; detail access is gated per auction.
func GetAuctionListHandler(appState *models.AppState) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		filter, err := auctionFilterFromRequest(r)
		if err != nil {
			handlertools.RenderError(w, err, http.StatusBadRequest)
			return
		}

		auctions, err := appState.PublicationStore.ListAuctions(r.Context(), filter)
		if err != nil {
			handlertools.RenderError(w, err, http.StatusInternalServerError)
			return
		}

		if err := handlertools.EncodeJSON(w, auctions); err != nil {
			handlertools.RenderError(w, err, http.StatusInternalServerError)
			return
		}
	}
}

// GetAuctionHandler returns one auction. Callers holding an active
// subscription for the auction get the full detail; everyone else gets
// the basic projection with upgrade_required set.
func GetAuctionHandler(appState *models.AppState) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		auctionID := chi.URLParam(r, "auctionId")

		subscribed, err := callerSubscribed(r, appState, auctionID)
		if err != nil {
			handlertools.RenderError(w, err, http.StatusBadRequest)
			return
		}

		if subscribed {
			detail, err := appState.PublicationStore.GetAuctionDetail(r.Context(), auctionID)
			if err != nil {
				handlertools.RenderError(w, err, http.StatusInternalServerError)
				return
			}
			if err := handlertools.EncodeJSON(w, detail); err != nil {
				handlertools.RenderError(w, err, http.StatusInternalServerError)
			}
			return
		}

		summary, err := appState.PublicationStore.GetAuctionSummary(r.Context(), auctionID)
		if err != nil {
			handlertools.RenderError(w, err, http.StatusInternalServerError)
			return
		}
		response := AuctionSummaryResponse{
			AuctionSummary:  *summary,
			UpgradeRequired: true,
		}
		if err := handlertools.EncodeJSON(w, response); err != nil {
			handlertools.RenderError(w, err, http.StatusInternalServerError)
		}
	}
}

// GetAuctionObjectsHandler returns the extracted objects of one auction.
// Objects carry the premium fields, so access requires a subscription.
func GetAuctionObjectsHandler(appState *models.AppState) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		auctionID := chi.URLParam(r, "auctionId")

		subscribed, err := callerSubscribed(r, appState, auctionID)
		if err != nil {
			handlertools.RenderError(w, err, http.StatusBadRequest)
			return
		}
		if !subscribed {
			handlertools.RenderError(
				w,
				fmt.Errorf("an active subscription is required for auction objects"),
				http.StatusPaymentRequired,
			)
			return
		}

		objects, err := appState.PublicationStore.GetAuctionObjects(r.Context(), auctionID)
		if err != nil {
			handlertools.RenderError(w, err, http.StatusInternalServerError)
			return
		}
		if err := handlertools.EncodeJSON(w, objects); err != nil {
			handlertools.RenderError(w, err, http.StatusInternalServerError)
		}
	}
}

// GetObjectListHandler searches extracted objects across auctions.
func GetObjectListHandler(appState *models.AppState) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		filter, err := objectFilterFromRequest(r)
		if err != nil {
			handlertools.RenderError(w, err, http.StatusBadRequest)
			return
		}

		objects, err := appState.PublicationStore.ListObjects(r.Context(), filter)
		if err != nil {
			handlertools.RenderError(w, err, http.StatusInternalServerError)
			return
		}
		if err := handlertools.EncodeJSON(w, objects); err != nil {
			handlertools.RenderError(w, err, http.StatusInternalServerError)
		}
	}
}

// callerSubscribed reports whether the request carries an identity with
// an active subscription for the auction. Anonymous callers are never
// subscribed.
func callerSubscribed(
	r *http.Request,
	appState *models.AppState,
	auctionID string,
) (bool, error) {
	userID, err := handlertools.UserIDFromRequest(r)
	if err != nil {
		return false, err
	}
	if userID == uuid.Nil {
		return false, nil
	}
	return appState.SubscriptionStore.HasActiveSubscription(r.Context(), userID, auctionID)
}

func auctionFilterFromRequest(r *http.Request) (models.AuctionFilter, error) {
	var filter models.AuctionFilter
	var err error

	if filter.DateFrom, err = handlertools.DateFromQuery(r, "date_from"); err != nil {
		return filter, err
	}
	if filter.DateTo, err = handlertools.DateFromQuery(r, "date_to"); err != nil {
		return filter, err
	}
	filter.Canton = r.URL.Query().Get("canton")
	filter.Location = r.URL.Query().Get("location")
	filter.Search = r.URL.Query().Get("search")
	if filter.Page, err = handlertools.IntFromQuery(r, "page"); err != nil {
		return filter, err
	}
	if filter.Size, err = handlertools.IntFromQuery(r, "size"); err != nil {
		return filter, err
	}
	return filter, nil
}

func objectFilterFromRequest(r *http.Request) (models.ObjectFilter, error) {
	var filter models.ObjectFilter
	var err error

	filter.Canton = r.URL.Query().Get("canton")
	filter.PropertyType = r.URL.Query().Get("property_type")
	filter.MinValue = r.URL.Query().Get("min_value")
	filter.MaxValue = r.URL.Query().Get("max_value")
	if filter.Page, err = handlertools.IntFromQuery(r, "page"); err != nil {
		return filter, err
	}
	if filter.Size, err = handlertools.IntFromQuery(r, "size"); err != nil {
		return filter, err
	}
	return filter, nil
}
