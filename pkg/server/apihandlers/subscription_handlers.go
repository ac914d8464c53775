package apihandlers

import (
	"fmt"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"

	"github.com/gantapp/gant/pkg/models"
	"github.com/gantapp/gant/pkg/server/handlertools"
)

var validate = validator.New()

// subscriptionLifetime is how long a purchased subscription stays active.
const subscriptionLifetime = 365 * 24 * time.Hour

// GetPricesHandler returns the subscription price table.
func GetPricesHandler(appState *models.AppState) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		prices := models.PriceTable{
			Currency:   "CHF",
			BasicCHF:   appState.Config.Pricing.BasicCHF,
			PremiumCHF: appState.Config.Pricing.PremiumCHF,
		}
		if err := handlertools.EncodeJSON(w, prices); err != nil {
			handlertools.RenderError(w, err, http.StatusInternalServerError)
		}
	}
}

// PurchaseSubscriptionHandler records a subscription purchase. Payment
// itself is settled externally; the handler verifies the auction exists,
// prices the tier, and stores the subscription row.
func PurchaseSubscriptionHandler(appState *models.AppState) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		userID, err := requireUserID(r)
		if err != nil {
			handlertools.RenderError(w, err, http.StatusUnauthorized)
			return
		}

		var request models.PurchaseSubscriptionRequest
		if err := handlertools.DecodeJSON(r, &request); err != nil {
			handlertools.RenderError(w, err, http.StatusBadRequest)
			return
		}
		if err := validate.Struct(request); err != nil {
			handlertools.RenderError(w, err, http.StatusBadRequest)
			return
		}

		// The auction must exist before money changes hands.
		if _, err := appState.PublicationStore.GetAuctionSummary(r.Context(), request.AuctionID); err != nil {
			handlertools.RenderError(w, err, http.StatusInternalServerError)
			return
		}

		subscribed, err := appState.SubscriptionStore.HasActiveSubscription(r.Context(), userID, request.AuctionID)
		if err != nil {
			handlertools.RenderError(w, err, http.StatusInternalServerError)
			return
		}
		if subscribed {
			handlertools.RenderError(
				w,
				fmt.Errorf("an active subscription for auction %s already exists", request.AuctionID),
				http.StatusConflict,
			)
			return
		}

		amount := appState.Config.Pricing.BasicCHF
		if request.SubscriptionType == models.SubscriptionPremium {
			amount = appState.Config.Pricing.PremiumCHF
		}

		expiresAt := time.Now().Add(subscriptionLifetime)
		subscription := &models.UserSubscription{
			UserID:           userID,
			AuctionID:        request.AuctionID,
			SubscriptionType: request.SubscriptionType,
			PurchaseDate:     time.Now(),
			ExpiresAt:        &expiresAt,
			IsActive:         true,
			PaymentID:        uuid.NewString(),
			AmountPaid:       amount,
		}

		created, err := appState.SubscriptionStore.CreateSubscription(r.Context(), subscription)
		if err != nil {
			handlertools.RenderError(w, err, http.StatusInternalServerError)
			return
		}

		response := models.PurchaseSubscriptionResponse{
			SubscriptionID: created.UUID,
			PaymentID:      created.PaymentID,
			Status:         "completed",
			AmountCHF:      amount,
			Message:        fmt.Sprintf("%s subscription active for auction %s", request.SubscriptionType, request.AuctionID),
		}
		w.WriteHeader(http.StatusCreated)
		if err := handlertools.EncodeJSON(w, response); err != nil {
			handlertools.RenderError(w, err, http.StatusInternalServerError)
		}
	}
}

// GetSubscriptionListHandler lists the caller's subscriptions.
func GetSubscriptionListHandler(appState *models.AppState) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		userID, err := requireUserID(r)
		if err != nil {
			handlertools.RenderError(w, err, http.StatusUnauthorized)
			return
		}

		subscriptions, err := appState.SubscriptionStore.ListSubscriptions(r.Context(), userID)
		if err != nil {
			handlertools.RenderError(w, err, http.StatusInternalServerError)
			return
		}
		if err := handlertools.EncodeJSON(w, subscriptions); err != nil {
			handlertools.RenderError(w, err, http.StatusInternalServerError)
		}
	}
}

// DeactivateSubscriptionHandler turns off one of the caller's
// subscriptions.
func DeactivateSubscriptionHandler(appState *models.AppState) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		userID, err := requireUserID(r)
		if err != nil {
			handlertools.RenderError(w, err, http.StatusUnauthorized)
			return
		}

		subscriptionID, err := uuid.Parse(chi.URLParam(r, "subscriptionId"))
		if err != nil {
			handlertools.RenderError(
				w,
				fmt.Errorf("unable to parse subscription id: %w", err),
				http.StatusBadRequest,
			)
			return
		}

		err = appState.SubscriptionStore.DeactivateSubscription(r.Context(), userID, subscriptionID)
		if err != nil {
			handlertools.RenderError(w, err, http.StatusInternalServerError)
			return
		}
		w.WriteHeader(http.StatusNoContent)
	}
}

func requireUserID(r *http.Request) (uuid.UUID, error) {
	userID, err := handlertools.UserIDFromRequest(r)
	if err != nil {
		return uuid.Nil, err
	}
	if userID == uuid.Nil {
		return uuid.Nil, fmt.Errorf("%s header is required", handlertools.UserIDHeader)
	}
	return userID, nil
}
